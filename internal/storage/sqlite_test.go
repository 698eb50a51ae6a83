package storage

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/matsen/citemap/internal/corpus"
	"github.com/matsen/citemap/internal/paper"
)

func testPapers() []paper.Paper {
	return []paper.Paper{
		{
			PaperID:        "p1",
			Title:          "A Partitioned Learned Bloom Filter",
			Year:           2020,
			Venue:          "ICLR",
			Authors:        []string{"K. Vaidya", "E. Knorr"},
			DOI:            "10.1000/plbf",
			CitationCount:  42,
			ReferenceCount: 30,
			Tags:           []string{"bloom-filter", "learned-index"},
			CitesIDs:       []string{"p2", "p3"},
			CitedByIDs:     []string{"p4"},
			IsOpenAccess:   true,
			OpenAccessPDF:  "https://example.org/p1.pdf",
		},
		{
			PaperID: "p2",
			Title:   "Untitled workshop paper",
			Authors: []string{"Anon"},
		},
	}
}

func setupDB(t *testing.T) (*DB, string) {
	t.Helper()
	dir := t.TempDir()

	jsonlPath := filepath.Join(dir, "papers.jsonl")
	if err := corpus.WriteAll(jsonlPath, testPapers()); err != nil {
		t.Fatalf("writing JSONL: %v", err)
	}

	db, err := OpenDB(filepath.Join(dir, "papers.db"))
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	n, err := db.RebuildFromJSONL(jsonlPath)
	if err != nil {
		t.Fatalf("RebuildFromJSONL: %v", err)
	}
	if n != 2 {
		t.Fatalf("rebuilt %d papers, want 2", n)
	}

	return db, jsonlPath
}

func TestRebuildAndGetByID(t *testing.T) {
	db, _ := setupDB(t)

	got, err := db.GetByID("p1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil {
		t.Fatal("GetByID returned nil for existing paper")
	}

	want := testPapers()[0]
	if !reflect.DeepEqual(*got, want) {
		t.Errorf("round-tripped paper differs:\n got %+v\nwant %+v", *got, want)
	}
}

func TestGetByID_Missing(t *testing.T) {
	db, _ := setupDB(t)

	got, err := db.GetByID("nope")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got != nil {
		t.Errorf("GetByID returned %+v for missing ID, want nil", got)
	}
}

func TestGetAdjacency(t *testing.T) {
	db, _ := setupDB(t)

	adj, err := db.GetAdjacency("p1", 1)
	if err != nil {
		t.Fatalf("GetAdjacency: %v", err)
	}
	if !reflect.DeepEqual(adj.CitesIDs, []string{"p2"}) {
		t.Errorf("capped cites = %v, want [p2]", adj.CitesIDs)
	}
	if !reflect.DeepEqual(adj.CitedByIDs, []string{"p4"}) {
		t.Errorf("cited-by = %v, want [p4]", adj.CitedByIDs)
	}

	if _, err := db.GetAdjacency("nope", 10); !errors.Is(err, corpus.ErrNotFound) {
		t.Errorf("missing ID error = %v, want corpus.ErrNotFound", err)
	}
}

func TestGetAllAndCount(t *testing.T) {
	db, _ := setupDB(t)

	all, err := db.GetAll()
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("GetAll returned %d papers, want 2", len(all))
	}
	if all[0].PaperID != "p1" || all[1].PaperID != "p2" {
		t.Errorf("GetAll order = [%s, %s], want [p1, p2]", all[0].PaperID, all[1].PaperID)
	}

	n, err := db.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 2 {
		t.Errorf("Count = %d, want 2", n)
	}
}

func TestGetByYearRange(t *testing.T) {
	db, _ := setupDB(t)

	// p2 has no year and must not appear in any range.
	got, err := db.GetByYearRange(2019, 2021)
	if err != nil {
		t.Fatalf("GetByYearRange: %v", err)
	}
	if len(got) != 1 || got[0].PaperID != "p1" {
		t.Errorf("GetByYearRange = %v, want [p1]", got)
	}

	got, err = db.GetByYearRange(2021, 0)
	if err != nil {
		t.Fatalf("GetByYearRange: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("GetByYearRange(2021,) returned %d papers, want 0", len(got))
	}
}

func TestRepoAdapter(t *testing.T) {
	db, _ := setupDB(t)
	repo := NewRepo(db)
	ctx := context.Background()

	p, err := repo.Get(ctx, "p1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p.PaperID != "p1" {
		t.Errorf("Get returned %s, want p1", p.PaperID)
	}

	if _, err := repo.Get(ctx, "nope"); !errors.Is(err, corpus.ErrNotFound) {
		t.Errorf("Get missing error = %v, want corpus.ErrNotFound", err)
	}

	all, err := repo.All(ctx)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("All returned %d papers, want 2", len(all))
	}
}

func TestRepoAllSince(t *testing.T) {
	db, _ := setupDB(t)
	repo := NewRepo(db)
	ctx := context.Background()

	got, err := repo.AllSince(ctx, 2019)
	if err != nil {
		t.Fatalf("AllSince: %v", err)
	}
	if len(got) != 1 || got[0].PaperID != "p1" {
		t.Errorf("AllSince(2019) = %v, want [p1]", got)
	}

	// Zero cutoff returns everything, year-less papers included.
	got, err = repo.AllSince(ctx, 0)
	if err != nil {
		t.Fatalf("AllSince: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("AllSince(0) returned %d papers, want 2", len(got))
	}
}
