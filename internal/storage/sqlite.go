// Package storage provides the ephemeral SQLite cache over papers.jsonl.
//
// The JSONL file is the source of truth; the database is rebuilt from
// it and serves indexed lookups for the graph builder and the CLI.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/matsen/citemap/internal/corpus"
	"github.com/matsen/citemap/internal/paper"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
type DB struct {
	db *sql.DB
}

// selectPaperFields contains the standard field list for SELECT queries.
const selectPaperFields = `paper_id, title, pub_year, venue,
	doi, arxiv_id, url, is_open_access, open_access_pdf,
	abstract, tldr, tldr_ja,
	citation_count, reference_count,
	authors_json, tags_json, cites_json, cited_by_json`

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// createSchema creates the database schema if it doesn't exist.
func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS papers (
			paper_id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			pub_year INTEGER,
			venue TEXT,
			doi TEXT,
			arxiv_id TEXT,
			url TEXT,
			is_open_access INTEGER NOT NULL DEFAULT 0,
			open_access_pdf TEXT,
			abstract TEXT,
			tldr TEXT,
			tldr_ja TEXT,
			citation_count INTEGER NOT NULL DEFAULT 0,
			reference_count INTEGER NOT NULL DEFAULT 0,
			authors_json TEXT NOT NULL,
			tags_json TEXT,
			cites_json TEXT,
			cited_by_json TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_papers_year ON papers(pub_year) WHERE pub_year IS NOT NULL;
	`

	_, err := db.Exec(schema)
	return err
}

// RebuildFromJSONL clears the database and rebuilds it from a JSONL file.
// Returns the number of papers inserted.
func (d *DB) RebuildFromJSONL(jsonlPath string) (int, error) {
	papers, err := corpus.ReadAll(jsonlPath)
	if err != nil {
		return 0, fmt.Errorf("reading JSONL: %w", err)
	}

	if _, err := d.db.Exec("DELETE FROM papers"); err != nil {
		return 0, fmt.Errorf("clearing papers table: %w", err)
	}

	stmt, err := d.db.Prepare(`
		INSERT INTO papers (
			paper_id, title, pub_year, venue,
			doi, arxiv_id, url, is_open_access, open_access_pdf,
			abstract, tldr, tldr_ja,
			citation_count, reference_count,
			authors_json, tags_json, cites_json, cited_by_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing papers insert: %w", err)
	}
	defer stmt.Close()

	for i := range papers {
		p := &papers[i]

		authorsJSON, err := json.Marshal(p.Authors)
		if err != nil {
			return 0, fmt.Errorf("marshaling authors for %s: %w", p.PaperID, err)
		}
		tagsJSON, err := marshalList(p.Tags)
		if err != nil {
			return 0, fmt.Errorf("marshaling tags for %s: %w", p.PaperID, err)
		}
		citesJSON, err := marshalList(p.CitesIDs)
		if err != nil {
			return 0, fmt.Errorf("marshaling cites for %s: %w", p.PaperID, err)
		}
		citedByJSON, err := marshalList(p.CitedByIDs)
		if err != nil {
			return 0, fmt.Errorf("marshaling cited-by for %s: %w", p.PaperID, err)
		}

		_, err = stmt.Exec(
			p.PaperID, p.Title, nullableInt(p.Year), nullableStringValue(p.Venue),
			nullableStringValue(p.DOI), nullableStringValue(p.ArXivID), nullableStringValue(p.URL),
			boolToInt(p.IsOpenAccess), nullableStringValue(p.OpenAccessPDF),
			nullableStringValue(p.Abstract), nullableStringValue(p.TLDR), nullableStringValue(p.TLDRJa),
			p.CitationCount, p.ReferenceCount,
			string(authorsJSON), tagsJSON, citesJSON, citedByJSON,
		)
		if err != nil {
			return 0, fmt.Errorf("inserting paper %s: %w", p.PaperID, err)
		}
	}

	return len(papers), nil
}

// GetByID retrieves a paper by its ID. Returns (nil, nil) when absent.
func (d *DB) GetByID(id string) (*paper.Paper, error) {
	row := d.db.QueryRow(`SELECT `+selectPaperFields+` FROM papers WHERE paper_id = ?`, id)
	return scanPaper(row)
}

// GetAdjacency returns the stored citation lists for a paper, each
// truncated to cap entries.
func (d *DB) GetAdjacency(id string, cap int) (corpus.Adjacency, error) {
	p, err := d.GetByID(id)
	if err != nil {
		return corpus.Adjacency{}, err
	}
	if p == nil {
		return corpus.Adjacency{}, corpus.ErrNotFound
	}
	return corpus.Adjacency{
		CitesIDs:   corpus.CapIDs(p.CitesIDs, cap),
		CitedByIDs: corpus.CapIDs(p.CitedByIDs, cap),
	}, nil
}

// GetAll returns all papers ordered by ID.
func (d *DB) GetAll() ([]paper.Paper, error) {
	rows, err := d.db.Query(`SELECT ` + selectPaperFields + ` FROM papers ORDER BY paper_id`)
	if err != nil {
		return nil, fmt.Errorf("querying papers: %w", err)
	}
	defer rows.Close()

	return scanPapers(rows)
}

// GetByYearRange returns papers with pub_year in [from, to]. Zero
// bounds are open.
func (d *DB) GetByYearRange(from, to int) ([]paper.Paper, error) {
	query := `SELECT ` + selectPaperFields + ` FROM papers WHERE pub_year IS NOT NULL`
	var args []interface{}
	if from > 0 {
		query += ` AND pub_year >= ?`
		args = append(args, from)
	}
	if to > 0 {
		query += ` AND pub_year <= ?`
		args = append(args, to)
	}
	query += ` ORDER BY pub_year, paper_id`

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying papers by year: %w", err)
	}
	defer rows.Close()

	return scanPapers(rows)
}

// Count returns the number of papers in the database.
func (d *DB) Count() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM papers").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting papers: %w", err)
	}
	return count, nil
}

// scanner abstracts over sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanPaper(s scanner) (*paper.Paper, error) {
	var p paper.Paper
	var year sql.NullInt64
	var venue, doi, arxivID, url, openAccessPDF sql.NullString
	var abstract, tldr, tldrJa sql.NullString
	var openAccess int
	var authorsJSON string
	var tagsJSON, citesJSON, citedByJSON sql.NullString

	err := s.Scan(
		&p.PaperID, &p.Title, &year, &venue,
		&doi, &arxivID, &url, &openAccess, &openAccessPDF,
		&abstract, &tldr, &tldrJa,
		&p.CitationCount, &p.ReferenceCount,
		&authorsJSON, &tagsJSON, &citesJSON, &citedByJSON,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	if year.Valid {
		p.Year = int(year.Int64)
	}
	p.Venue = venue.String
	p.DOI = doi.String
	p.ArXivID = arxivID.String
	p.URL = url.String
	p.IsOpenAccess = openAccess != 0
	p.OpenAccessPDF = openAccessPDF.String
	p.Abstract = abstract.String
	p.TLDR = tldr.String
	p.TLDRJa = tldrJa.String

	if err := json.Unmarshal([]byte(authorsJSON), &p.Authors); err != nil {
		return nil, fmt.Errorf("parsing authors JSON for %s: %w", p.PaperID, err)
	}
	if err := unmarshalList(tagsJSON, &p.Tags); err != nil {
		return nil, fmt.Errorf("parsing tags JSON for %s: %w", p.PaperID, err)
	}
	if err := unmarshalList(citesJSON, &p.CitesIDs); err != nil {
		return nil, fmt.Errorf("parsing cites JSON for %s: %w", p.PaperID, err)
	}
	if err := unmarshalList(citedByJSON, &p.CitedByIDs); err != nil {
		return nil, fmt.Errorf("parsing cited-by JSON for %s: %w", p.PaperID, err)
	}

	return &p, nil
}

func scanPapers(rows *sql.Rows) ([]paper.Paper, error) {
	var papers []paper.Paper
	for rows.Next() {
		p, err := scanPaper(rows)
		if err != nil {
			return nil, err
		}
		papers = append(papers, *p)
	}
	return papers, rows.Err()
}

func marshalList(list []string) (interface{}, error) {
	if len(list) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(list)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func unmarshalList(s sql.NullString, dst *[]string) error {
	if !s.Valid || s.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(s.String), dst)
}

func nullableStringValue(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func nullableInt(n int) interface{} {
	if n == 0 {
		return nil
	}
	return n
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
