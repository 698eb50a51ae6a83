// Package author computes per-author statistics over the paper corpus.
package author

import (
	"sort"

	"github.com/matsen/citemap/internal/paper"
)

// CountEntry is one histogram bucket.
type CountEntry struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// Stats aggregates one author's papers.
type Stats struct {
	Author         string       `json:"author"`
	PaperCount     int          `json:"paperCount"`
	TotalCitations int          `json:"totalCitations"`
	Tags           []CountEntry `json:"tags"`   // count desc, key asc on ties
	Venues         []CountEntry `json:"venues"` // normalized venue, same order
}

// Options filters the papers considered by Aggregate.
type Options struct {
	// MinYear is an inclusive lower bound on publication year. When
	// set, papers with an unknown year are excluded. Zero disables the
	// filter.
	MinYear int
}

// SortKey selects the ranking order for SortBy.
type SortKey int

const (
	ByPapers SortKey = iota
	ByCitations
)

type tally struct {
	paperCount     int
	totalCitations int
	tags           map[string]int
	venues         map[string]int
}

// Aggregate computes one Stats per distinct author name. Every author
// of a paper receives the full paper: paperCount+1, the paper's
// citationCount, its tags, and its normalized venue. The result is
// ordered by author name; use SortBy for ranking.
func Aggregate(papers []paper.Paper, opts Options) []Stats {
	tallies := make(map[string]*tally)

	for i := range papers {
		p := &papers[i]
		if opts.MinYear > 0 && (!p.HasYear() || p.Year < opts.MinYear) {
			continue
		}

		venue := NormalizeVenue(p.Venue)
		for _, name := range p.Authors {
			t, ok := tallies[name]
			if !ok {
				t = &tally{tags: make(map[string]int), venues: make(map[string]int)}
				tallies[name] = t
			}
			t.paperCount++
			t.totalCitations += p.CitationCount
			for _, tag := range p.Tags {
				t.tags[tag]++
			}
			if venue != "" {
				t.venues[venue]++
			}
		}
	}

	out := make([]Stats, 0, len(tallies))
	for name, t := range tallies {
		out = append(out, Stats{
			Author:         name,
			PaperCount:     t.paperCount,
			TotalCitations: t.totalCitations,
			Tags:           sortedHistogram(t.tags),
			Venues:         sortedHistogram(t.venues),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Author < out[j].Author })
	return out
}

// SortBy orders stats descending by the chosen key, breaking ties by
// author name ascending.
func SortBy(stats []Stats, key SortKey) {
	sort.SliceStable(stats, func(i, j int) bool {
		var a, b int
		switch key {
		case ByCitations:
			a, b = stats[i].TotalCitations, stats[j].TotalCitations
		default:
			a, b = stats[i].PaperCount, stats[j].PaperCount
		}
		if a != b {
			return a > b
		}
		return stats[i].Author < stats[j].Author
	})
}

func sortedHistogram(counts map[string]int) []CountEntry {
	if len(counts) == 0 {
		return nil
	}
	entries := make([]CountEntry, 0, len(counts))
	for k, c := range counts {
		entries = append(entries, CountEntry{Key: k, Count: c})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Key < entries[j].Key
	})
	return entries
}
