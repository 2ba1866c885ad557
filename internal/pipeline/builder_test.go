package pipeline

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/docchat/internal/cache"
	"github.com/dgallion1/docchat/internal/fetch"
	"github.com/dgallion1/docchat/internal/normalize"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testBuilder(t *testing.T, docDir string) *Builder {
	t.Helper()
	log := testLogger()
	c, err := cache.New("", log)
	if err != nil {
		t.Fatalf("cache.New: %v", err)
	}
	norm, err := normalize.New(normalize.DefaultRules())
	if err != nil {
		t.Fatalf("normalize.New: %v", err)
	}
	fetcher := fetch.NewClient(5*time.Second, 1<<20)
	return NewBuilder(c, fetcher, norm, docDir, log)
}

func writeDoc(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestBuilder_BuildLocalFile(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "policy.txt", "OVERVIEW\nThe policy covers delivery.\n")
	b := testBuilder(t, dir)

	doc, err := b.Build(context.Background(), "policy.txt", false)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if doc.ID != "policy" {
		t.Errorf("expected doc ID %q, got %q", "policy", doc.ID)
	}
	if len(doc.Pages) == 0 || len(doc.Pages[0].Blocks) == 0 {
		t.Fatal("expected extracted blocks")
	}

	if _, ok := b.Cached("policy"); !ok {
		t.Error("expected document to be cached after build")
	}
}

func TestBuilder_BuildNormalizesText(t *testing.T) {
	dir := t.TempDir()
	// A bullet artifact that normalization rewrites to an arrow.
	writeDoc(t, dir, "terms.txt", "• first clause of the agreement")
	b := testBuilder(t, dir)

	doc, err := b.Build(context.Background(), "terms.txt", false)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	text := doc.Pages[0].Blocks[0].Text
	if strings.Contains(text, "•") {
		t.Errorf("expected bullet artifact to be normalized, got %q", text)
	}
}

func TestBuilder_ForceRebuild(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "doc.txt", "original content here")
	b := testBuilder(t, dir)

	if _, err := b.Build(context.Background(), "doc.txt", false); err != nil {
		t.Fatalf("Build: %v", err)
	}

	writeDoc(t, dir, "doc.txt", "replaced content here")

	// Without force the stale entry is served.
	doc, err := b.Build(context.Background(), "doc.txt", false)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !strings.Contains(doc.Pages[0].Blocks[0].Text, "original") {
		t.Error("expected cached content without force")
	}

	doc, err = b.Build(context.Background(), "doc.txt", true)
	if err != nil {
		t.Fatalf("Build force: %v", err)
	}
	if !strings.Contains(doc.Pages[0].Blocks[0].Text, "replaced") {
		t.Error("expected fresh content after force rebuild")
	}
}

func TestBuilder_BuildRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "REMOTE SECTION\nBody of the remote document.")
	}))
	defer srv.Close()

	b := testBuilder(t, t.TempDir())
	doc, err := b.Build(context.Background(), srv.URL+"/handbook.txt", false)
	if err != nil {
		t.Fatalf("Build remote: %v", err)
	}
	if doc.ID != "handbook" {
		t.Errorf("expected doc ID %q, got %q", "handbook", doc.ID)
	}
}

func TestBuilder_UnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "binary.exe", "not a document")
	b := testBuilder(t, dir)

	if _, err := b.Build(context.Background(), "binary.exe", false); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestBuilder_MissingFile(t *testing.T) {
	b := testBuilder(t, t.TempDir())
	if _, err := b.Build(context.Background(), "absent.txt", false); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestBuilder_Resolvable(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "present.txt", "content")
	b := testBuilder(t, dir)

	cases := []struct {
		ref  string
		want bool
	}{
		{"present.txt", true},
		{"absent.txt", false},
		{"https://example.com/doc.pdf", true},
		{"http://example.com/doc.pdf", true},
		{"sub/absent.txt", false},
	}
	for _, tc := range cases {
		if got := b.Resolvable(tc.ref); got != tc.want {
			t.Errorf("Resolvable(%q) = %v, want %v", tc.ref, got, tc.want)
		}
	}
}

func TestBuilder_LocalPathRejectsTraversal(t *testing.T) {
	b := testBuilder(t, t.TempDir())
	for _, ref := range []string{"../../etc/passwd", "..%2Fsecret.txt"} {
		path, err := b.localPath(ref)
		if err == nil && !strings.HasPrefix(path, b.docDir) {
			t.Errorf("localPath(%q) escaped the document directory: %q", ref, path)
		}
	}
}
