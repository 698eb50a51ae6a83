package storage

import (
	"context"

	"github.com/matsen/citemap/internal/corpus"
	"github.com/matsen/citemap/internal/paper"
)

// Repo adapts a DB to the corpus.Repository interface so the graph
// builder can expand against the cache instead of the in-memory
// corpus.
type Repo struct {
	db *DB
}

// NewRepo wraps an open database.
func NewRepo(db *DB) *Repo {
	return &Repo{db: db}
}

// Get implements corpus.Repository.
func (r *Repo) Get(_ context.Context, id string) (*paper.Paper, error) {
	p, err := r.db.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, corpus.ErrNotFound
	}
	return p, nil
}

// Adjacency implements corpus.Repository.
func (r *Repo) Adjacency(_ context.Context, id string, cap int) (corpus.Adjacency, error) {
	return r.db.GetAdjacency(id, cap)
}

// All implements corpus.Repository.
func (r *Repo) All(_ context.Context) ([]paper.Paper, error) {
	return r.db.GetAll()
}

// AllSince returns papers published in or after minYear, filtered on
// the year index. A minYear of zero or less returns everything.
func (r *Repo) AllSince(_ context.Context, minYear int) ([]paper.Paper, error) {
	if minYear <= 0 {
		return r.db.GetAll()
	}
	return r.db.GetByYearRange(minYear, 0)
}
