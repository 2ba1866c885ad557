package cache

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/dgallion1/docchat/internal/document"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testDoc(id string) *document.Document {
	return &document.Document{
		ID: id,
		Pages: []document.Page{{
			Number: 1,
			Blocks: []document.Block{{Kind: document.KindParagraph, Text: "content of " + id}},
		}},
	}
}

func TestGetOrBuild_SingleBuildUnderConcurrency(t *testing.T) {
	c, err := New(t.TempDir(), testLogger())
	if err != nil {
		t.Fatal(err)
	}

	var builds atomic.Int32
	build := func(ctx context.Context) (*document.Document, error) {
		builds.Add(1)
		return testDoc("shared"), nil
	}

	const callers = 16
	var wg sync.WaitGroup
	start := make(chan struct{})
	errs := make(chan error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if _, err := c.GetOrBuild(context.Background(), "shared", build); err != nil {
				errs <- err
			}
		}()
	}
	close(start)
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("GetOrBuild: %v", err)
	}
	if n := builds.Load(); n != 1 {
		t.Errorf("expected exactly 1 build, got %d", n)
	}
}

func TestGetOrBuild_RepeatAccessSkipsBuild(t *testing.T) {
	c, err := New(t.TempDir(), testLogger())
	if err != nil {
		t.Fatal(err)
	}

	var builds atomic.Int32
	build := func(ctx context.Context) (*document.Document, error) {
		builds.Add(1)
		return testDoc("once"), nil
	}

	for i := 0; i < 5; i++ {
		if _, err := c.GetOrBuild(context.Background(), "once", build); err != nil {
			t.Fatal(err)
		}
	}
	if n := builds.Load(); n != 1 {
		t.Errorf("expected 1 build across repeat accesses, got %d", n)
	}
}

func TestGetOrBuild_BuildErrorNotCached(t *testing.T) {
	c, err := New(t.TempDir(), testLogger())
	if err != nil {
		t.Fatal(err)
	}

	boom := errors.New("unreadable source")
	calls := 0
	_, err = c.GetOrBuild(context.Background(), "bad", func(ctx context.Context) (*document.Document, error) {
		calls++
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected build error, got %v", err)
	}

	// A later call retries the build instead of serving a cached failure.
	doc, err := c.GetOrBuild(context.Background(), "bad", func(ctx context.Context) (*document.Document, error) {
		calls++
		return testDoc("bad"), nil
	})
	if err != nil || doc == nil {
		t.Fatalf("expected successful retry, got %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 build attempts, got %d", calls)
	}
}

func TestDiskPersistence_ReusedAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	c1, err := New(dir, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c1.GetOrBuild(context.Background(), "persisted", func(ctx context.Context) (*document.Document, error) {
		return testDoc("persisted"), nil
	}); err != nil {
		t.Fatal(err)
	}

	// A fresh cache (simulated restart) must hit the disk entry, not rebuild.
	c2, err := New(dir, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	doc, err := c2.GetOrBuild(context.Background(), "persisted", func(ctx context.Context) (*document.Document, error) {
		t.Error("build ran despite disk entry")
		return nil, errors.New("should not build")
	})
	if err != nil {
		t.Fatal(err)
	}
	if doc.Pages[0].Blocks[0].Text != "content of persisted" {
		t.Errorf("unexpected content from disk entry: %q", doc.Pages[0].Blocks[0].Text)
	}
}

func TestRebuild_ForcesFreshBuild(t *testing.T) {
	c, err := New(t.TempDir(), testLogger())
	if err != nil {
		t.Fatal(err)
	}

	builds := 0
	build := func(ctx context.Context) (*document.Document, error) {
		builds++
		return testDoc("doc"), nil
	}

	if _, err := c.GetOrBuild(context.Background(), "doc", build); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Rebuild(context.Background(), "doc", build); err != nil {
		t.Fatal(err)
	}
	if builds != 2 {
		t.Errorf("expected rebuild to run the builder again, got %d builds", builds)
	}
}

func TestList_IncludesDiskEntries(t *testing.T) {
	dir := t.TempDir()
	c1, err := New(dir, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{"alpha", "beta"} {
		if _, err := c1.GetOrBuild(context.Background(), id, func(ctx context.Context) (*document.Document, error) {
			return testDoc(id), nil
		}); err != nil {
			t.Fatal(err)
		}
	}

	c2, err := New(dir, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	ids := c2.List()
	if len(ids) != 2 {
		t.Errorf("expected 2 identities from disk, got %v", ids)
	}
}

func TestGet_MissReturnsFalse(t *testing.T) {
	c, err := New("", testLogger())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Get("nope"); ok {
		t.Error("expected miss for unknown identity")
	}
}
