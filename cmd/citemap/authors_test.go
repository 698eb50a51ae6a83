package main

import (
	"context"
	"testing"

	"github.com/matsen/citemap/internal/corpus"
	"github.com/matsen/citemap/internal/paper"
)

// plainSource implements only corpus.Repository.
type plainSource struct {
	papers []paper.Paper
	calls  int
}

func (s *plainSource) Get(context.Context, string) (*paper.Paper, error) {
	return nil, corpus.ErrNotFound
}

func (s *plainSource) Adjacency(context.Context, string, int) (corpus.Adjacency, error) {
	return corpus.Adjacency{}, corpus.ErrNotFound
}

func (s *plainSource) All(context.Context) ([]paper.Paper, error) {
	s.calls++
	return s.papers, nil
}

// filteredSource additionally filters by year at the source.
type filteredSource struct {
	plainSource
	minYears []int
}

func (s *filteredSource) AllSince(_ context.Context, minYear int) ([]paper.Paper, error) {
	s.minYears = append(s.minYears, minYear)
	var out []paper.Paper
	for _, p := range s.papers {
		if minYear <= 0 || p.Year >= minYear {
			out = append(out, p)
		}
	}
	return out, nil
}

func TestLoadAuthorPapers(t *testing.T) {
	papers := []paper.Paper{
		{PaperID: "old", Year: 2015},
		{PaperID: "new", Year: 2022},
	}

	plain := &plainSource{papers: papers}
	got, err := loadAuthorPapers(context.Background(), plain, 2020)
	if err != nil {
		t.Fatalf("loadAuthorPapers: %v", err)
	}
	if len(got) != 2 || plain.calls != 1 {
		t.Errorf("plain repository: got %d papers via %d All calls, want all 2 via 1", len(got), plain.calls)
	}

	filtered := &filteredSource{plainSource: plainSource{papers: papers}}
	got, err = loadAuthorPapers(context.Background(), filtered, 2020)
	if err != nil {
		t.Fatalf("loadAuthorPapers: %v", err)
	}
	if len(got) != 1 || got[0].PaperID != "new" {
		t.Errorf("filtering repository: got %v, want [new]", got)
	}
	if filtered.calls != 0 {
		t.Errorf("filtering repository fell back to All %d times, want 0", filtered.calls)
	}
	if len(filtered.minYears) != 1 || filtered.minYears[0] != 2020 {
		t.Errorf("AllSince cutoffs = %v, want [2020]", filtered.minYears)
	}
}
