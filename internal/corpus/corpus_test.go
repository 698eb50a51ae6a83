package corpus

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"github.com/matsen/citemap/internal/paper"
)

func writeCorpus(t *testing.T, papers []paper.Paper) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "papers.jsonl")
	if err := WriteAll(path, papers); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}
	return path
}

func TestCorpus_GetAndAll(t *testing.T) {
	papers := []paper.Paper{
		{PaperID: "p1", Title: "first", CitesIDs: []string{"p2"}},
		{PaperID: "p2", Title: "second"},
	}
	c := New(writeCorpus(t, papers))
	ctx := context.Background()

	got, err := c.Get(ctx, "p1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "first" {
		t.Errorf("Get(p1).Title = %q, want first", got.Title)
	}

	if _, err := c.Get(ctx, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(ghost) error = %v, want ErrNotFound", err)
	}

	all, err := c.All(ctx)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("All returned %d papers, want 2", len(all))
	}
}

func TestCorpus_MissingFileIsEmpty(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), "absent.jsonl"))

	n, err := c.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 0 {
		t.Errorf("Count = %d for missing file, want 0", n)
	}
	if _, err := c.Get(context.Background(), "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get error = %v, want ErrNotFound", err)
	}
}

func TestCorpus_Adjacency(t *testing.T) {
	papers := []paper.Paper{
		{PaperID: "p1", CitesIDs: []string{"a", "b", "c"}, CitedByIDs: []string{"d"}},
	}
	c := New(writeCorpus(t, papers))

	adj, err := c.Adjacency(context.Background(), "p1", 2)
	if err != nil {
		t.Fatalf("Adjacency: %v", err)
	}
	if want := []string{"a", "b"}; !reflect.DeepEqual(adj.CitesIDs, want) {
		t.Errorf("CitesIDs = %v, want %v", adj.CitesIDs, want)
	}
	if want := []string{"d"}; !reflect.DeepEqual(adj.CitedByIDs, want) {
		t.Errorf("CitedByIDs = %v, want %v", adj.CitedByIDs, want)
	}
}

func TestCorpus_LoadsOnce(t *testing.T) {
	papers := []paper.Paper{{PaperID: "p1"}}
	path := writeCorpus(t, papers)
	c := New(path)
	ctx := context.Background()

	// Concurrent first use: the once barrier must make every caller
	// observe the fully loaded corpus.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.Get(ctx, "p1"); err != nil {
				t.Errorf("Get: %v", err)
			}
		}()
	}
	wg.Wait()

	// A rewrite after loading is invisible: the corpus loaded once.
	if err := WriteAll(path, nil); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}
	if _, err := c.Get(ctx, "p1"); err != nil {
		t.Errorf("Get after file rewrite: %v (corpus should not reload)", err)
	}
}

func TestCapIDs(t *testing.T) {
	ids := []string{"a", "b", "c"}

	if got := CapIDs(ids, 2); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("CapIDs(.., 2) = %v", got)
	}
	if got := CapIDs(ids, 0); !reflect.DeepEqual(got, ids) {
		t.Errorf("CapIDs(.., 0) = %v, want all", got)
	}
	if got := CapIDs(ids, 10); !reflect.DeepEqual(got, ids) {
		t.Errorf("CapIDs(.., 10) = %v, want all", got)
	}
}
