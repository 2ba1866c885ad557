package extract

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docchat/internal/document"
)

// Extractor converts raw document bytes into a structured Document.
// Extraction is deterministic for the same bytes.
type Extractor interface {
	Extract(r io.Reader, filename string) (*document.Document, error)
}

// ExtractionError marks a source that could not be read at all. A single
// unreadable page is not an ExtractionError; it yields an empty block list.
type ExtractionError struct {
	Source string
	Err    error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Source, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":  true,
	".md":   true,
	".csv":  true,
	".html": true,
	".htm":  true,
	".pdf":  true,
	".docx": true,
}

// ForFile returns the appropriate extractor for a filename.
func ForFile(filename string) (Extractor, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextExtractor{}, nil
	case ".md", ".markdown":
		return &MarkdownExtractor{}, nil
	case ".csv":
		return &CSVExtractor{}, nil
	case ".html", ".htm":
		return &HTMLExtractor{}, nil
	case ".pdf":
		return &PDFExtractor{}, nil
	case ".docx":
		return &DOCXExtractor{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// DocID derives the document identity from a path or URL: the base name
// with its extension stripped. Cache file names derive from this.
func DocID(ref string) string {
	base := filepath.Base(strings.TrimSuffix(ref, "/"))
	if i := strings.IndexAny(base, "?#"); i >= 0 {
		base = base[:i]
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}
