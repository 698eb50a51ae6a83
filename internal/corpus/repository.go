// Package corpus provides access to the loaded paper collection.
package corpus

import (
	"context"
	"errors"

	"github.com/matsen/citemap/internal/paper"
)

// ErrNotFound is returned when a paper ID cannot be resolved.
var ErrNotFound = errors.New("paper not found")

// Adjacency holds the capped citation neighborhood of one paper.
type Adjacency struct {
	CitesIDs   []string `json:"citesIds"`
	CitedByIDs []string `json:"citedByIds"`
}

// Repository supplies paper records and citation adjacency.
// Implementations: the in-memory Corpus, the SQLite cache adapter
// (storage package), and the remote S2 adapter (s2 package).
type Repository interface {
	// Get returns the paper with the given ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*paper.Paper, error)

	// Adjacency returns the paper's cites/cited-by ID lists, each
	// truncated to at most cap entries. Which IDs fill the cap is the
	// repository's concern. A cap <= 0 means no truncation.
	Adjacency(ctx context.Context, id string, cap int) (Adjacency, error)

	// All returns the full paper collection.
	All(ctx context.Context) ([]paper.Paper, error)
}

// CapIDs truncates an ID list to at most cap entries without copying.
func CapIDs(ids []string, cap int) []string {
	if cap > 0 && len(ids) > cap {
		return ids[:cap]
	}
	return ids
}
