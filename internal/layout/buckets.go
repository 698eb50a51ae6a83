package layout

import (
	"sort"

	"github.com/matsen/citemap/internal/citegraph"
)

// bucketMargin is the fraction of a bucket's width reserved on each
// side; the interior is the node's moveable x-range.
const bucketMargin = 0.1

// Bucket is one year's horizontal band.
type Bucket struct {
	Year     int // 0 for the unknown-year slot
	Min, Max float64
}

// Center returns the midpoint of the moveable range.
func (b Bucket) Center() float64 {
	return (b.Min + b.Max) / 2
}

// Contains reports whether x lies inside the moveable range.
func (b Bucket) Contains(x float64) bool {
	return x >= b.Min && x <= b.Max
}

// Clamp forces x into the moveable range.
func (b Bucket) Clamp(x float64) float64 {
	if x < b.Min {
		return b.Min
	}
	if x > b.Max {
		return b.Max
	}
	return x
}

// Buckets divides the x-axis into contiguous equal-width slots, one
// per distinct year, ordered ascending. When any node lacks a year, a
// shared unknown-year slot sits left of the earliest year.
type Buckets struct {
	slots []Bucket
}

// Slots returns the buckets in x order.
func (bs *Buckets) Slots() []Bucket { return bs.slots }

// Slot returns the bucket at index i.
func (bs *Buckets) Slot(i int) Bucket { return bs.slots[i] }

// PartitionByYear builds the bucket set for the nodes and the mapping
// from node ID to slot index.
func PartitionByYear(nodes []*citegraph.Node, width float64) (*Buckets, map[string]int) {
	years := make(map[int]bool)
	hasUnknown := false
	for _, n := range nodes {
		if n.Paper != nil && n.Paper.HasYear() {
			years[n.Paper.Year] = true
		} else {
			hasUnknown = true
		}
	}

	sorted := make([]int, 0, len(years))
	for y := range years {
		sorted = append(sorted, y)
	}
	sort.Ints(sorted)

	slotYears := sorted
	if hasUnknown {
		slotYears = append([]int{0}, sorted...)
	}
	if len(slotYears) == 0 {
		slotYears = []int{0}
	}

	slotWidth := width / float64(len(slotYears))
	margin := slotWidth * bucketMargin

	bs := &Buckets{slots: make([]Bucket, len(slotYears))}
	slotIndex := make(map[int]int, len(slotYears))
	for i, y := range slotYears {
		left := float64(i) * slotWidth
		bs.slots[i] = Bucket{
			Year: y,
			Min:  left + margin,
			Max:  left + slotWidth - margin,
		}
		slotIndex[y] = i
	}

	slotOf := make(map[string]int, len(nodes))
	for _, n := range nodes {
		year := 0
		if n.Paper != nil && n.Paper.HasYear() {
			year = n.Paper.Year
		}
		slotOf[n.ID] = slotIndex[year]
	}

	return bs, slotOf
}
