package corpus

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/matsen/citemap/internal/paper"
)

// MaxJSONLLineCapacity is the maximum buffer size for reading JSONL lines
// (1MB per line). Abstracts can be long.
const MaxJSONLLineCapacity = 1024 * 1024

// Corpus is an in-memory paper collection loaded exactly once from a
// papers.jsonl file. Loading happens on first use behind a sync.Once
// barrier, so every operation observes either no corpus or the whole
// corpus, never a partial load.
type Corpus struct {
	path string

	once    sync.Once
	papers  []paper.Paper
	byID    map[string]*paper.Paper
	loadErr error
}

// New creates a Corpus backed by the given papers.jsonl path.
// The file is not read until the first operation.
func New(path string) *Corpus {
	return &Corpus{path: path}
}

// FromPapers creates a Corpus from papers already in memory.
func FromPapers(papers []paper.Paper) *Corpus {
	c := &Corpus{}
	c.once.Do(func() { c.index(papers) })
	return c
}

func (c *Corpus) load() {
	papers, err := ReadAll(c.path)
	if err != nil {
		c.loadErr = err
		return
	}
	c.index(papers)
}

func (c *Corpus) index(papers []paper.Paper) {
	c.papers = papers
	c.byID = make(map[string]*paper.Paper, len(papers))
	for i := range papers {
		c.byID[papers[i].PaperID] = &papers[i]
	}
}

func (c *Corpus) ensure() error {
	c.once.Do(c.load)
	return c.loadErr
}

// Get returns the paper with the given ID, or ErrNotFound.
func (c *Corpus) Get(_ context.Context, id string) (*paper.Paper, error) {
	if err := c.ensure(); err != nil {
		return nil, err
	}
	p, ok := c.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

// Adjacency returns the stored citation lists for a paper, truncated to cap.
// Truncation keeps the first cap entries in stored order.
func (c *Corpus) Adjacency(ctx context.Context, id string, cap int) (Adjacency, error) {
	p, err := c.Get(ctx, id)
	if err != nil {
		return Adjacency{}, err
	}
	return Adjacency{
		CitesIDs:   CapIDs(p.CitesIDs, cap),
		CitedByIDs: CapIDs(p.CitedByIDs, cap),
	}, nil
}

// All returns the full collection.
func (c *Corpus) All(_ context.Context) ([]paper.Paper, error) {
	if err := c.ensure(); err != nil {
		return nil, err
	}
	return c.papers, nil
}

// Count returns the number of papers in the corpus.
func (c *Corpus) Count() (int, error) {
	if err := c.ensure(); err != nil {
		return 0, err
	}
	return len(c.papers), nil
}

// ReadAll reads all papers from a JSONL file. A missing file is an
// empty corpus, not an error.
func ReadAll(path string) ([]paper.Paper, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening papers file: %w", err)
	}
	defer f.Close()

	var papers []paper.Paper
	scanner := bufio.NewScanner(f)

	buf := make([]byte, MaxJSONLLineCapacity)
	scanner.Buffer(buf, MaxJSONLLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var p paper.Paper
		if err := json.Unmarshal(line, &p); err != nil {
			return nil, fmt.Errorf("parsing line %d: %w", lineNum, err)
		}
		papers = append(papers, p)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading papers file: %w", err)
	}

	return papers, nil
}

// WriteAll writes papers to a JSONL file, one per line.
func WriteAll(path string, papers []paper.Paper) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating papers file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for i := range papers {
		if err := enc.Encode(&papers[i]); err != nil {
			return fmt.Errorf("encoding paper %s: %w", papers[i].PaperID, err)
		}
	}
	return w.Flush()
}
