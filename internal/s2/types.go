package s2

import (
	"errors"
	"fmt"

	"github.com/matsen/citemap/internal/paper"
)

// S2Paper is the wire shape of a paper from the Graph API.
type S2Paper struct {
	PaperID     string     `json:"paperId"`
	Title       string     `json:"title"`
	Year        int        `json:"year"`
	Venue       string     `json:"venue"`
	Authors     []S2Author `json:"authors"`
	ExternalIDs struct {
		DOI   string `json:"DOI"`
		ArXiv string `json:"ArXiv"`
	} `json:"externalIds"`
	URL           string `json:"url"`
	IsOpenAccess  bool   `json:"isOpenAccess"`
	OpenAccessPDF struct {
		URL string `json:"url"`
	} `json:"openAccessPdf"`
	PublicationVenue struct {
		Name string `json:"name"`
	} `json:"publicationVenue"`
	Journal struct {
		Name string `json:"name"`
	} `json:"journal"`
	Abstract       string `json:"abstract"`
	CitationCount  int    `json:"citationCount"`
	ReferenceCount int    `json:"referenceCount"`
}

// S2Author is one author entry; only the display name is requested.
type S2Author struct {
	Name string `json:"name"`
}

// ToPaper converts the wire shape into the domain type. The venue
// string falls back to publicationVenue and then journal, matching the
// behavior of the collection pipeline.
func (sp *S2Paper) ToPaper() *paper.Paper {
	venue := sp.Venue
	if venue == "" {
		venue = sp.PublicationVenue.Name
	}
	if venue == "" {
		venue = sp.Journal.Name
	}

	authors := make([]string, 0, len(sp.Authors))
	for _, a := range sp.Authors {
		if a.Name != "" {
			authors = append(authors, a.Name)
		}
	}

	return &paper.Paper{
		PaperID:        sp.PaperID,
		Title:          sp.Title,
		Year:           sp.Year,
		Venue:          venue,
		Authors:        authors,
		DOI:            sp.ExternalIDs.DOI,
		ArXivID:        sp.ExternalIDs.ArXiv,
		URL:            sp.URL,
		IsOpenAccess:   sp.IsOpenAccess,
		OpenAccessPDF:  sp.OpenAccessPDF.URL,
		Abstract:       sp.Abstract,
		CitationCount:  sp.CitationCount,
		ReferenceCount: sp.ReferenceCount,
	}
}

// searchResponse is the /paper/search envelope.
type searchResponse struct {
	Total int       `json:"total"`
	Data  []S2Paper `json:"data"`
}

// citationsResponse is the /paper/{id}/citations envelope.
type citationsResponse struct {
	Next *int `json:"next"`
	Data []struct {
		CitingPaper struct {
			PaperID string `json:"paperId"`
		} `json:"citingPaper"`
	} `json:"data"`
}

// referencesResponse is the /paper/{id}/references envelope.
type referencesResponse struct {
	Next *int `json:"next"`
	Data []struct {
		CitedPaper struct {
			PaperID string `json:"paperId"`
		} `json:"citedPaper"`
	} `json:"data"`
}

// APIError is a non-200 response from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("s2 api error %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 404
}
