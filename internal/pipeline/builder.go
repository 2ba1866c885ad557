package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docchat/internal/cache"
	"github.com/dgallion1/docchat/internal/document"
	"github.com/dgallion1/docchat/internal/extract"
	"github.com/dgallion1/docchat/internal/fetch"
	"github.com/dgallion1/docchat/internal/normalize"
)

// Builder runs the document build path: resolve bytes, extract, normalize,
// and write through the cache. It is safe for concurrent use; the cache
// guarantees a single build per identity.
type Builder struct {
	cache   *cache.Cache
	fetcher *fetch.Client
	norm    *normalize.Normalizer
	docDir  string
	log     *slog.Logger
}

func NewBuilder(c *cache.Cache, f *fetch.Client, n *normalize.Normalizer, docDir string, log *slog.Logger) *Builder {
	return &Builder{cache: c, fetcher: f, norm: n, docDir: docDir, log: log}
}

// Build returns the structured representation for ref, building on a cache
// miss. force discards any existing entry first.
func (b *Builder) Build(ctx context.Context, ref string, force bool) (*document.Document, error) {
	id := extract.DocID(ref)
	fn := func(ctx context.Context) (*document.Document, error) {
		return b.buildFromSource(ctx, ref)
	}
	if force {
		return b.cache.Rebuild(ctx, id, fn)
	}
	return b.cache.GetOrBuild(ctx, id, fn)
}

// Cached returns the already-built representation for an identity, if any.
func (b *Builder) Cached(id string) (*document.Document, bool) {
	return b.cache.Get(id)
}

// CachedIDs lists the identities of all cached documents.
func (b *Builder) CachedIDs() []string {
	return b.cache.List()
}

// Resolvable reports whether ref names a document this service may serve:
// a remote URL, or a file inside the configured document directory.
func (b *Builder) Resolvable(ref string) bool {
	if isURL(ref) {
		return true
	}
	path, err := b.localPath(ref)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

func (b *Builder) buildFromSource(ctx context.Context, ref string) (*document.Document, error) {
	name := refFilename(ref)
	if !extract.IsSupportedExtension(name) {
		return nil, fmt.Errorf("unsupported document type: %s", filepath.Ext(name))
	}

	var data []byte
	if isURL(ref) {
		fetched, err := b.fetcher.Fetch(ctx, ref)
		if err != nil {
			return nil, err
		}
		data = fetched
	} else {
		path, err := b.localPath(ref)
		if err != nil {
			return nil, err
		}
		read, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read document: %w", err)
		}
		data = read
	}

	ex, err := extract.ForFile(name)
	if err != nil {
		return nil, err
	}
	doc, err := ex.Extract(bytes.NewReader(data), name)
	if err != nil {
		return nil, err
	}
	doc.ID = extract.DocID(ref)

	b.normalizeDoc(doc)
	b.log.Info("document built", "id", doc.ID, "pages", len(doc.Pages))
	return doc, nil
}

// normalizeDoc repairs extraction artifacts in every block, including
// table cells.
func (b *Builder) normalizeDoc(doc *document.Document) {
	for pi := range doc.Pages {
		blocks := doc.Pages[pi].Blocks
		for bi := range blocks {
			blocks[bi].Text = b.norm.Normalize(blocks[bi].Text)
			if blocks[bi].Table != nil {
				for _, row := range blocks[bi].Table.Rows {
					for ci := range row {
						row[ci] = b.norm.Normalize(row[ci])
					}
				}
			}
		}
	}
}

// localPath resolves a local ref inside the document directory, rejecting
// traversal outside it.
func (b *Builder) localPath(ref string) (string, error) {
	if b.docDir == "" {
		return "", fmt.Errorf("no document directory configured")
	}
	clean := filepath.Clean("/" + ref)
	path := filepath.Join(b.docDir, clean)
	root := filepath.Clean(b.docDir) + string(os.PathSeparator)
	if !strings.HasPrefix(path, root) {
		return "", fmt.Errorf("document outside document directory: %s", ref)
	}
	return path, nil
}

func isURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// refFilename extracts the file name from a path or URL, query stripped.
func refFilename(ref string) string {
	base := filepath.Base(strings.TrimSuffix(ref, "/"))
	if i := strings.IndexAny(base, "?#"); i >= 0 {
		base = base[:i]
	}
	return base
}
