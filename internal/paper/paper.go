// Package paper defines the core domain type for papers in the corpus.
package paper

import "strings"

// Paper represents one academic paper as collected from Semantic Scholar.
// Records are immutable once loaded; the corpus owns them.
type Paper struct {
	// Identity
	PaperID string `json:"paperId"` // S2 paper ID, unique key

	// Metadata
	Title   string   `json:"title"`
	Year    int      `json:"year,omitempty"` // 0 if unknown
	Venue   string   `json:"venue,omitempty"`
	Authors []string `json:"authors"` // Ordered author names

	// External identifiers
	DOI     string `json:"doi,omitempty"`
	ArXivID string `json:"arxivId,omitempty"`
	URL     string `json:"url,omitempty"`

	// Open access
	IsOpenAccess  bool   `json:"isOpenAccess,omitempty"`
	OpenAccessPDF string `json:"openAccessPdf,omitempty"`

	// Content
	Abstract string   `json:"abstract,omitempty"`
	TLDR     string   `json:"tldr,omitempty"`
	TLDRJa   string   `json:"tldr_ja,omitempty"`
	Tags     []string `json:"tags,omitempty"`

	// Citation counts reported by the API (may exceed the stored lists)
	CitationCount  int `json:"citationCount"`
	ReferenceCount int `json:"referenceCount"`

	// Citation neighborhood within the corpus
	CitesIDs   []string `json:"citesIds,omitempty"`
	CitedByIDs []string `json:"citedByIds,omitempty"`
}

// HasYear reports whether the paper has a known publication year.
func (p *Paper) HasYear() bool {
	return p.Year != 0
}

// AuthorList formats the author names as a comma-separated string.
func (p *Paper) AuthorList() string {
	return strings.Join(p.Authors, ", ")
}
