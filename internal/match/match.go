// Package match ranks papers against a free-text query by title similarity.
//
// Similarity is purely character-sequence based: longest common substring
// first, longest common subsequence second. There is no semantic matching.
package match

import (
	"sort"
	"strings"

	"github.com/matsen/citemap/internal/paper"
)

// Score holds the similarity metrics for one candidate title.
type Score struct {
	Paper *paper.Paper
	LCSS  int // Longest common substring length
	LCS   int // Longest common subsequence length
}

// LCSLength returns the length of the longest common subsequence of a
// and b, case-insensitive.
func LCSLength(a, b string) int {
	ra := []rune(strings.ToLower(a))
	rb := []rune(strings.ToLower(b))
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}

	// Rolling single-row DP over dp[i][j] = dp[i-1][j-1]+1 when equal,
	// else max(dp[i-1][j], dp[i][j-1]).
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			if ra[i-1] == rb[j-1] {
				cur[j] = prev[j-1] + 1
			} else if prev[j] >= cur[j-1] {
				cur[j] = prev[j]
			} else {
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}

// LCSSLength returns the length of the longest common contiguous
// substring of a and b, case-insensitive.
func LCSSLength(a, b string) int {
	ra := []rune(strings.ToLower(a))
	rb := []rune(strings.ToLower(b))
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}

	// dp[i][j] = dp[i-1][j-1]+1 when equal, else 0; track the running max.
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	best := 0
	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			if ra[i-1] == rb[j-1] {
				cur[j] = prev[j-1] + 1
				if cur[j] > best {
					best = cur[j]
				}
			} else {
				cur[j] = 0
			}
		}
		prev, cur = cur, prev
	}
	return best
}

// Rank scores every paper against the query and returns candidates in
// rank order: substring length desc, subsequence length desc, title
// length asc, then paper ID asc. The last key makes the order total, so
// the winner is unique.
func Rank(query string, papers []paper.Paper) []Score {
	query = strings.TrimSpace(query)
	if query == "" || len(papers) == 0 {
		return nil
	}

	scores := make([]Score, 0, len(papers))
	for i := range papers {
		p := &papers[i]
		scores = append(scores, Score{
			Paper: p,
			LCSS:  LCSSLength(query, p.Title),
			LCS:   LCSLength(query, p.Title),
		})
	}

	sort.Slice(scores, func(i, j int) bool {
		a, b := scores[i], scores[j]
		if a.LCSS != b.LCSS {
			return a.LCSS > b.LCSS
		}
		if a.LCS != b.LCS {
			return a.LCS > b.LCS
		}
		if len(a.Paper.Title) != len(b.Paper.Title) {
			return len(a.Paper.Title) < len(b.Paper.Title)
		}
		return a.Paper.PaperID < b.Paper.PaperID
	})

	return scores
}

// BestMatch returns the best-matching paper for the query, or false if
// the query or collection is empty.
func BestMatch(query string, papers []paper.Paper) (*paper.Paper, bool) {
	scores := Rank(query, papers)
	if len(scores) == 0 {
		return nil, false
	}
	return scores[0].Paper, true
}
