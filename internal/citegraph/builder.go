package citegraph

import (
	"context"
	"errors"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/matsen/citemap/internal/corpus"
	"github.com/matsen/citemap/internal/paper"
)

// DefaultFanOut is the per-node cap on adjacency IDs consumed per
// expansion step.
const DefaultFanOut = 20

// ErrSuperseded is returned when a newer Build started on the same
// Builder before this one finished. The stale result must be discarded,
// never merged into the current graph.
var ErrSuperseded = errors.New("graph build superseded by a newer build")

// Builder expands a center paper into a two-level, deduplicated
// citation graph. One Builder serves one search surface; concurrent
// Build calls race and only the latest one wins.
type Builder struct {
	repo   corpus.Repository
	fanOut int
	gen    atomic.Uint64
}

// NewBuilder creates a Builder over the given repository. A fanOut
// of zero or less selects DefaultFanOut.
func NewBuilder(repo corpus.Repository, fanOut int) *Builder {
	if fanOut <= 0 {
		fanOut = DefaultFanOut
	}
	return &Builder{repo: repo, fanOut: fanOut}
}

// expansion is the result of fetching one level-1 node's neighborhood.
// Results are collected per goroutine and merged only after the join
// barrier, so the graph is never observed mid-expansion.
type expansion struct {
	parentID string
	cites    []*paper.Paper
	citedBy  []*paper.Paper
}

// Build expands the center paper into its two-hop citation
// neighborhood. Unresolvable neighbor IDs and failing branches are
// skipped silently; a smaller-than-cap partial graph is a valid
// outcome.
func (b *Builder) Build(ctx context.Context, center *paper.Paper) (*Graph, error) {
	gen := b.gen.Add(1)

	g := newGraph()
	g.Generation = gen

	// Phase 1: center plus its direct neighborhood.
	centerNode, _ := g.addNode(center, NodeCenter, 0)
	g.Center = centerNode

	level1 := b.insertLevel1(ctx, g, center)

	// Phase 2: fetch every level-1 node's own neighborhood
	// concurrently, then join before touching the shared graph.
	results := make([]expansion, len(level1))
	eg, ectx := errgroup.WithContext(ctx)
	for i, n := range level1 {
		i, n := i, n
		eg.Go(func() error {
			exp, err := b.expand(ectx, n.ID)
			if err != nil {
				return err
			}
			results[i] = exp
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	if b.gen.Load() != gen {
		return nil, ErrSuperseded
	}

	for _, exp := range results {
		for _, p := range exp.cites {
			g.addNode(p, NodeCites, 2)
			g.addEdge(exp.parentID, p.PaperID, EdgeCites, 2)
		}
		for _, p := range exp.citedBy {
			g.addNode(p, NodeCitedBy, 2)
			g.addEdge(p.PaperID, exp.parentID, EdgeCitedBy, 2)
		}
	}

	return g, nil
}

// Superseded reports whether the graph is stale relative to the
// Builder's latest Build call.
func (b *Builder) Superseded(g *Graph) bool {
	return g == nil || g.Generation != b.gen.Load()
}

// insertLevel1 resolves the center's direct neighbors and inserts them
// with their level-1 edges. Returns the inserted (deduplicated) nodes.
func (b *Builder) insertLevel1(ctx context.Context, g *Graph, center *paper.Paper) []*Node {
	var level1 []*Node

	for _, id := range corpus.CapIDs(center.CitesIDs, b.fanOut) {
		p, err := b.repo.Get(ctx, id)
		if err != nil {
			continue // unresolvable IDs are tolerated
		}
		n, inserted := g.addNode(p, NodeCites, 1)
		g.addEdge(center.PaperID, n.ID, EdgeCites, 1)
		if inserted {
			level1 = append(level1, n)
		}
	}

	for _, id := range corpus.CapIDs(center.CitedByIDs, b.fanOut) {
		p, err := b.repo.Get(ctx, id)
		if err != nil {
			continue
		}
		n, inserted := g.addNode(p, NodeCitedBy, 1)
		g.addEdge(n.ID, center.PaperID, EdgeCitedBy, 1)
		if inserted {
			level1 = append(level1, n)
		}
	}

	return level1
}

// expand fetches one level-1 node's capped adjacency and resolves the
// IDs to papers. Repository failures on a branch degrade it to
// not-found rather than aborting the build; only cancellation
// propagates.
func (b *Builder) expand(ctx context.Context, id string) (expansion, error) {
	exp := expansion{parentID: id}

	adj, err := b.repo.Adjacency(ctx, id, b.fanOut)
	if err != nil {
		if cerr := ctx.Err(); cerr != nil {
			return exp, cerr
		}
		return exp, nil
	}

	for _, cid := range adj.CitesIDs {
		if p, err := b.repo.Get(ctx, cid); err == nil {
			exp.cites = append(exp.cites, p)
		}
	}
	for _, cid := range adj.CitedByIDs {
		if p, err := b.repo.Get(ctx, cid); err == nil {
			exp.citedBy = append(exp.citedBy, p)
		}
	}

	return exp, nil
}
