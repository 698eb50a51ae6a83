package s2

import (
	"context"

	"github.com/matsen/citemap/internal/corpus"
	"github.com/matsen/citemap/internal/paper"
)

// Repo adapts the API client to the corpus.Repository interface so the
// graph builder can expand against the live API instead of a local
// corpus. All() is unsupported: the remote collection is unbounded.
type Repo struct {
	client *Client
}

// NewRepo wraps a client.
func NewRepo(client *Client) *Repo {
	return &Repo{client: client}
}

// Get implements corpus.Repository. A 404 maps to corpus.ErrNotFound.
func (r *Repo) Get(ctx context.Context, id string) (*paper.Paper, error) {
	p, err := r.client.Paper(ctx, id)
	if err != nil {
		if IsNotFound(err) {
			return nil, corpus.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// Adjacency implements corpus.Repository. The references endpoint
// supplies citesIds, the citations endpoint citedByIds, each capped.
func (r *Repo) Adjacency(ctx context.Context, id string, cap int) (corpus.Adjacency, error) {
	cites, err := r.client.References(ctx, id, cap)
	if err != nil {
		if IsNotFound(err) {
			return corpus.Adjacency{}, corpus.ErrNotFound
		}
		return corpus.Adjacency{}, err
	}

	citedBy, err := r.client.Citations(ctx, id, cap)
	if err != nil {
		if IsNotFound(err) {
			return corpus.Adjacency{}, corpus.ErrNotFound
		}
		return corpus.Adjacency{}, err
	}

	return corpus.Adjacency{CitesIDs: cites, CitedByIDs: citedBy}, nil
}

// All implements corpus.Repository. The remote corpus cannot be
// enumerated; callers needing the full collection use a local corpus.
func (r *Repo) All(context.Context) ([]paper.Paper, error) {
	return nil, corpus.ErrNotFound
}
