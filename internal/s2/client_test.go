package s2

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strconv"
	"testing"
)

// fastClient builds a client against a test server with an effectively
// unlimited rate.
func fastClient(serverURL string) *Client {
	c := NewClient(WithBaseURL(serverURL))
	c.limiter.SetLimit(1e6)
	return c
}

func TestPaper_Mapping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/paper/abc123" {
			t.Errorf("path = %s", r.URL.Path)
		}
		fmt.Fprint(w, `{
			"paperId": "abc123",
			"title": "A Paper",
			"year": 2020,
			"venue": "",
			"publicationVenue": {"name": "VLDB"},
			"authors": [{"name": "A. Author"}, {"name": "B. Author"}],
			"externalIds": {"DOI": "10.1/x", "ArXiv": "2001.00001"},
			"isOpenAccess": true,
			"openAccessPdf": {"url": "https://example.org/x.pdf"},
			"abstract": "text",
			"citationCount": 7,
			"referenceCount": 3
		}`)
	}))
	defer srv.Close()

	p, err := fastClient(srv.URL).Paper(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("Paper: %v", err)
	}

	if p.PaperID != "abc123" || p.Title != "A Paper" || p.Year != 2020 {
		t.Errorf("core fields = %+v", p)
	}
	if p.Venue != "VLDB" {
		t.Errorf("venue = %q, want fallback to publicationVenue", p.Venue)
	}
	if !reflect.DeepEqual(p.Authors, []string{"A. Author", "B. Author"}) {
		t.Errorf("authors = %v", p.Authors)
	}
	if p.DOI != "10.1/x" || p.ArXivID != "2001.00001" {
		t.Errorf("external IDs = %q %q", p.DOI, p.ArXivID)
	}
	if !p.IsOpenAccess || p.OpenAccessPDF != "https://example.org/x.pdf" {
		t.Errorf("open access = %v %q", p.IsOpenAccess, p.OpenAccessPDF)
	}
	if p.CitationCount != 7 || p.ReferenceCount != 3 {
		t.Errorf("counts = %d %d", p.CitationCount, p.ReferenceCount)
	}
}

func TestPaper_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Paper not found", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := fastClient(srv.URL).Paper(context.Background(), "ghost")
	if err == nil {
		t.Fatal("expected error for 404")
	}
	if !IsNotFound(err) {
		t.Errorf("IsNotFound(%v) = false, want true", err)
	}
}

func TestSearchPaperID_PrefersExactTitle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/paper/search" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if q := r.URL.Query().Get("query"); q != "bloom filters" {
			t.Errorf("query = %q", q)
		}
		json.NewEncoder(w).Encode(searchResponse{Data: []S2Paper{
			{PaperID: "top", Title: "Bloom Filters Revisited", Year: 2021},
			{PaperID: "exact", Title: "Bloom Filters", Year: 1970},
		}})
	}))
	defer srv.Close()

	id, err := fastClient(srv.URL).SearchPaperID(context.Background(), "bloom filters", 0, 10)
	if err != nil {
		t.Fatalf("SearchPaperID: %v", err)
	}
	if id != "exact" {
		t.Errorf("id = %q, want exact-title candidate", id)
	}
}

func TestSearchPaperID_FallsBackToTop(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(searchResponse{Data: []S2Paper{
			{PaperID: "top", Title: "Something Else"},
		}})
	}))
	defer srv.Close()

	id, err := fastClient(srv.URL).SearchPaperID(context.Background(), "bloom filters", 0, 10)
	if err != nil {
		t.Fatalf("SearchPaperID: %v", err)
	}
	if id != "top" {
		t.Errorf("id = %q, want top candidate", id)
	}
}

func TestSearchPaperID_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(searchResponse{})
	}))
	defer srv.Close()

	id, err := fastClient(srv.URL).SearchPaperID(context.Background(), "nothing", 0, 10)
	if err != nil {
		t.Fatalf("SearchPaperID: %v", err)
	}
	if id != "" {
		t.Errorf("id = %q, want empty for no results", id)
	}
}

func TestCitations_Paging(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		switch offset {
		case 0:
			next := 2
			fmt.Fprintf(w, `{"next": %d, "data": [
				{"citingPaper": {"paperId": "c1"}},
				{"citingPaper": {"paperId": "c2"}}
			]}`, next)
		case 2:
			fmt.Fprint(w, `{"data": [{"citingPaper": {"paperId": "c3"}}]}`)
		default:
			t.Errorf("unexpected offset %d", offset)
		}
	}))
	defer srv.Close()

	ids, err := fastClient(srv.URL).Citations(context.Background(), "p", 0)
	if err != nil {
		t.Fatalf("Citations: %v", err)
	}
	if want := []string{"c1", "c2", "c3"}; !reflect.DeepEqual(ids, want) {
		t.Errorf("ids = %v, want %v", ids, want)
	}
}

func TestCitations_MaxStopsPaging(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, `{"next": 100, "data": [
			{"citingPaper": {"paperId": "c1"}},
			{"citingPaper": {"paperId": "c2"}}
		]}`)
	}))
	defer srv.Close()

	ids, err := fastClient(srv.URL).Citations(context.Background(), "p", 2)
	if err != nil {
		t.Fatalf("Citations: %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("got %d ids, want 2", len(ids))
	}
	if calls != 1 {
		t.Errorf("made %d requests, want paging to stop after 1", calls)
	}
}

func TestRepo_Adjacency(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/paper/p/references":
			fmt.Fprint(w, `{"data": [{"citedPaper": {"paperId": "r1"}}]}`)
		case "/paper/p/citations":
			fmt.Fprint(w, `{"data": [{"citingPaper": {"paperId": "c1"}}]}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	adj, err := NewRepo(fastClient(srv.URL)).Adjacency(context.Background(), "p", 20)
	if err != nil {
		t.Fatalf("Adjacency: %v", err)
	}
	if !reflect.DeepEqual(adj.CitesIDs, []string{"r1"}) {
		t.Errorf("cites = %v", adj.CitesIDs)
	}
	if !reflect.DeepEqual(adj.CitedByIDs, []string{"c1"}) {
		t.Errorf("citedBy = %v", adj.CitedByIDs)
	}
}
