package s2

import "github.com/matsen/citemap/internal/paper"

// LocalResolver indexes the local paper library for matching against
// Semantic Scholar results. Papers are indexed by ID, DOI, and arXiv ID.
type LocalResolver struct {
	papers  []paper.Paper
	byID    map[string]*paper.Paper
	byDOI   map[string]*paper.Paper
	byArxiv map[string]*paper.Paper
}

// NewLocalResolver creates a LocalResolver from a pre-loaded slice of papers.
func NewLocalResolver(papers []paper.Paper) *LocalResolver {
	r := &LocalResolver{
		papers:  papers,
		byID:    make(map[string]*paper.Paper),
		byDOI:   make(map[string]*paper.Paper),
		byArxiv: make(map[string]*paper.Paper),
	}

	for i := range papers {
		p := &papers[i]
		r.byID[p.PaperID] = p
		if p.DOI != "" {
			r.byDOI[NormalizeDOI(p.DOI)] = p
		}
		if p.ArXivID != "" {
			r.byArxiv[p.ArXivID] = p
		}
	}

	return r
}

// FindByID finds a local paper by its Semantic Scholar paper ID.
func (r *LocalResolver) FindByID(id string) (*paper.Paper, bool) {
	p, ok := r.byID[id]
	return p, ok
}

// FindByDOI finds a local paper by DOI. The DOI is normalized before lookup.
func (r *LocalResolver) FindByDOI(doi string) (*paper.Paper, bool) {
	p, ok := r.byDOI[NormalizeDOI(doi)]
	return p, ok
}

// FindByArxiv finds a local paper by arXiv ID.
func (r *LocalResolver) FindByArxiv(arxivID string) (*paper.Paper, bool) {
	p, ok := r.byArxiv[arxivID]
	return p, ok
}

// Resolve matches a parsed identifier against the local library.
func (r *LocalResolver) Resolve(id PaperIdentifier) (*paper.Paper, bool) {
	switch id.Type {
	case "S2":
		return r.FindByID(id.Value)
	case "DOI":
		return r.FindByDOI(id.Value)
	case "ARXIV":
		return r.FindByArxiv(id.Value)
	default:
		return nil, false
	}
}

// Count returns the number of papers in the library.
func (r *LocalResolver) Count() int {
	return len(r.papers)
}
