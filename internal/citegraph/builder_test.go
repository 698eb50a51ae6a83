package citegraph

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/matsen/citemap/internal/corpus"
	"github.com/matsen/citemap/internal/paper"
)

// fakeRepo is an in-memory Repository with an optional per-call hook.
type fakeRepo struct {
	mu     sync.Mutex
	papers map[string]*paper.Paper

	// onAdjacency runs before each Adjacency call, outside the lock.
	onAdjacency func(id string)

	// adjErr injects a failure for Adjacency calls on the given IDs.
	adjErr map[string]error
}

func newFakeRepo(papers ...*paper.Paper) *fakeRepo {
	r := &fakeRepo{papers: make(map[string]*paper.Paper)}
	for _, p := range papers {
		r.papers[p.PaperID] = p
	}
	return r
}

func (r *fakeRepo) Get(_ context.Context, id string) (*paper.Paper, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.papers[id]
	if !ok {
		return nil, corpus.ErrNotFound
	}
	return p, nil
}

func (r *fakeRepo) Adjacency(ctx context.Context, id string, cap int) (corpus.Adjacency, error) {
	if r.onAdjacency != nil {
		r.onAdjacency(id)
	}
	if err := ctx.Err(); err != nil {
		return corpus.Adjacency{}, err
	}
	if err := r.adjErr[id]; err != nil {
		return corpus.Adjacency{}, err
	}
	p, err := r.Get(ctx, id)
	if err != nil {
		return corpus.Adjacency{}, err
	}
	return corpus.Adjacency{
		CitesIDs:   corpus.CapIDs(p.CitesIDs, cap),
		CitedByIDs: corpus.CapIDs(p.CitedByIDs, cap),
	}, nil
}

func (r *fakeRepo) All(_ context.Context) ([]paper.Paper, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]paper.Paper, 0, len(r.papers))
	for _, p := range r.papers {
		out = append(out, *p)
	}
	return out, nil
}

func TestBuild_TwoHopChain(t *testing.T) {
	a := &paper.Paper{PaperID: "A", Title: "a", CitesIDs: []string{"B"}}
	b := &paper.Paper{PaperID: "B", Title: "b", CitesIDs: []string{"C"}}
	c := &paper.Paper{PaperID: "C", Title: "c"}
	repo := newFakeRepo(a, b, c)

	g, err := NewBuilder(repo, 0).Build(context.Background(), a)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if len(g.Nodes) != 3 {
		t.Fatalf("got %d nodes, want 3", len(g.Nodes))
	}
	wantNodes := map[string]struct {
		typ   NodeType
		level int
	}{
		"A": {NodeCenter, 0},
		"B": {NodeCites, 1},
		"C": {NodeCites, 2},
	}
	for id, want := range wantNodes {
		n, ok := g.Lookup(id)
		if !ok {
			t.Fatalf("node %s missing", id)
		}
		if n.Type != want.typ || n.Level != want.level {
			t.Errorf("node %s = (%s, %d), want (%s, %d)", id, n.Type, n.Level, want.typ, want.level)
		}
	}

	if len(g.Edges) != 2 {
		t.Fatalf("got %d edges, want 2: %+v", len(g.Edges), g.Edges)
	}
	wantEdges := map[Edge]bool{
		{SourceID: "A", TargetID: "B", Type: EdgeCites, Level: 1}: true,
		{SourceID: "B", TargetID: "C", Type: EdgeCites, Level: 2}: true,
	}
	for _, e := range g.Edges {
		if !wantEdges[e] {
			t.Errorf("unexpected edge %+v", e)
		}
	}

	if g.Center == nil || g.Center.ID != "A" || g.Center.Level != 0 {
		t.Errorf("center = %+v, want A at level 0", g.Center)
	}
}

func TestBuild_EdgesReferenceExistingNodes(t *testing.T) {
	a := &paper.Paper{PaperID: "A", CitesIDs: []string{"B", "X"}, CitedByIDs: []string{"D"}}
	b := &paper.Paper{PaperID: "B", CitesIDs: []string{"C", "missing"}}
	c := &paper.Paper{PaperID: "C"}
	d := &paper.Paper{PaperID: "D", CitedByIDs: []string{"E"}}
	e := &paper.Paper{PaperID: "E"}
	repo := newFakeRepo(a, b, c, d, e) // X and "missing" unresolvable

	g, err := NewBuilder(repo, 0).Build(context.Background(), a)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	for _, e := range g.Edges {
		if _, ok := g.Lookup(e.SourceID); !ok {
			t.Errorf("edge %+v has unresolved source", e)
		}
		if _, ok := g.Lookup(e.TargetID); !ok {
			t.Errorf("edge %+v has unresolved target", e)
		}
	}

	if _, ok := g.Lookup("X"); ok {
		t.Error("unresolvable level-1 ID X was inserted")
	}
	if _, ok := g.Lookup("missing"); ok {
		t.Error("unresolvable level-2 ID was inserted")
	}
}

func TestBuild_DedupFirstWriteWins(t *testing.T) {
	// B is both a direct cites child of A and a level-2 neighbor of D.
	a := &paper.Paper{PaperID: "A", CitesIDs: []string{"B", "D"}}
	b := &paper.Paper{PaperID: "B"}
	d := &paper.Paper{PaperID: "D", CitesIDs: []string{"B"}}
	repo := newFakeRepo(a, b, d)

	g, err := NewBuilder(repo, 0).Build(context.Background(), a)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	seen := 0
	for _, n := range g.Nodes {
		if n.ID == "B" {
			seen++
			if n.Level != 1 || n.Type != NodeCites {
				t.Errorf("B = (%s, %d), want first insertion (cites, 1) to win", n.Type, n.Level)
			}
		}
	}
	if seen != 1 {
		t.Fatalf("B appears %d times in node list, want exactly once", seen)
	}

	// The level-2 sighting still contributes its edge.
	found := false
	for _, e := range g.Edges {
		if e.SourceID == "D" && e.TargetID == "B" && e.Level == 2 {
			found = true
		}
	}
	if !found {
		t.Error("missing level-2 edge D->B for the deduplicated node")
	}
}

func TestBuild_FanOutCap(t *testing.T) {
	center := &paper.Paper{PaperID: "A"}
	var all []*paper.Paper
	for _, id := range []string{"n1", "n2", "n3", "n4"} {
		center.CitesIDs = append(center.CitesIDs, id)
		all = append(all, &paper.Paper{PaperID: id})
	}
	repo := newFakeRepo(append(all, center)...)

	g, err := NewBuilder(repo, 2).Build(context.Background(), center)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// Center plus the first two IDs in stored order.
	if len(g.Nodes) != 3 {
		t.Fatalf("got %d nodes, want 3", len(g.Nodes))
	}
	for _, id := range []string{"n1", "n2"} {
		if _, ok := g.Lookup(id); !ok {
			t.Errorf("capped build missing %s", id)
		}
	}
	if _, ok := g.Lookup("n3"); ok {
		t.Error("n3 present despite fan-out cap of 2")
	}
}

func TestBuild_AdjacencyFailureDegradesBranch(t *testing.T) {
	a := &paper.Paper{PaperID: "A", CitesIDs: []string{"B", "D"}}
	b := &paper.Paper{PaperID: "B", CitesIDs: []string{"C"}}
	c := &paper.Paper{PaperID: "C"}
	d := &paper.Paper{PaperID: "D", CitesIDs: []string{"E"}}
	e := &paper.Paper{PaperID: "E"}
	repo := newFakeRepo(a, b, c, d, e)
	repo.adjErr = map[string]error{"B": errors.New("api error 429: rate limited")}

	g, err := NewBuilder(repo, 0).Build(context.Background(), a)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if _, ok := g.Lookup("B"); !ok {
		t.Error("level-1 node B missing; only its expansion should be skipped")
	}
	if _, ok := g.Lookup("C"); ok {
		t.Error("failed branch B contributed level-2 nodes")
	}
	if _, ok := g.Lookup("E"); !ok {
		t.Error("healthy branch D was not expanded")
	}
}

func TestBuild_CancellationPropagates(t *testing.T) {
	a := &paper.Paper{PaperID: "A", CitesIDs: []string{"B"}}
	b := &paper.Paper{PaperID: "B"}
	repo := newFakeRepo(a, b)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewBuilder(repo, 0).Build(ctx, a); !errors.Is(err, context.Canceled) {
		t.Errorf("Build error = %v, want context.Canceled", err)
	}
}

func TestBuild_SupersededByNewerBuild(t *testing.T) {
	a := &paper.Paper{PaperID: "A", CitesIDs: []string{"B"}}
	b := &paper.Paper{PaperID: "B"}
	repo := newFakeRepo(a, b)

	builder := NewBuilder(repo, 0)

	started := make(chan struct{})
	release := make(chan struct{})
	var once atomic.Bool
	repo.onAdjacency = func(string) {
		if once.CompareAndSwap(false, true) {
			close(started)
			<-release
		}
	}

	errc := make(chan error, 1)
	go func() {
		_, err := builder.Build(context.Background(), a)
		errc <- err
	}()

	// Let the first build reach its fan-out, then supersede it. The
	// hook fires only once, so the second build runs unblocked.
	<-started
	g2, err := builder.Build(context.Background(), a)
	if err != nil {
		t.Fatalf("second Build: %v", err)
	}
	close(release)

	if err := <-errc; err != ErrSuperseded {
		t.Errorf("first Build error = %v, want ErrSuperseded", err)
	}
	if builder.Superseded(g2) {
		t.Error("latest build reported as superseded")
	}
}

func TestPruneDanglingEdges(t *testing.T) {
	n := &Node{ID: "A"}
	g := Assemble([]*Node{n}, []Edge{
		{SourceID: "A", TargetID: "ghost", Type: EdgeCites, Level: 1},
		{SourceID: "ghost", TargetID: "A", Type: EdgeCitedBy, Level: 1},
	}, n)

	if dropped := g.PruneDanglingEdges(); dropped != 2 {
		t.Errorf("dropped %d edges, want 2", dropped)
	}
	if len(g.Edges) != 0 {
		t.Errorf("%d edges remain, want 0", len(g.Edges))
	}
}
