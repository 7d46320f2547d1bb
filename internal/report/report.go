// Package report holds the research report model and its export formats.
package report

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hyperifyio/freeresearch/internal/extract"
	"github.com/hyperifyio/freeresearch/internal/search"
)

// Finding is one summarized search result.
type Finding struct {
	Source search.Result `json:"source"`
	// Title is the page title when extraction succeeded, else the result title.
	Title            string         `json:"title"`
	Summary          string         `json:"summary"`
	CredibilityScore float64        `json:"credibility_score"`
	KeyPoints        []string       `json:"key_points"`
	Status           extract.Status `json:"fetch_status"`
	// Degraded marks findings built from the search snippet alone.
	Degraded bool `json:"degraded"`
}

// DisplayTitle falls back to the source title and then the URL.
func (f Finding) DisplayTitle() string {
	for _, s := range []string{f.Title, f.Source.Title, f.Source.URL} {
		if strings.TrimSpace(s) != "" {
			return s
		}
	}
	return "(untitled)"
}

// Report is the response to one research query.
type Report struct {
	Query       string    `json:"query"`
	Findings    []Finding `json:"findings"`
	GeneratedAt time.Time `json:"generated_at"`
	// Provider is the search backend that produced the candidates.
	Provider string `json:"provider"`
	// Strategy names the summarizer, e.g. "heuristic" or "delegated".
	Strategy string `json:"strategy"`
}

// Validate checks the ordering and range guarantees callers rely on.
func (r Report) Validate() error {
	if strings.TrimSpace(r.Query) == "" {
		return errors.New("report: empty query")
	}
	last := 0
	for i, f := range r.Findings {
		if f.Source.Rank <= last {
			return fmt.Errorf("report: finding %d rank %d not after %d", i, f.Source.Rank, last)
		}
		last = f.Source.Rank
		if f.CredibilityScore < 0 || f.CredibilityScore > 1 {
			return fmt.Errorf("report: finding %d credibility %.3f out of range", i, f.CredibilityScore)
		}
	}
	return nil
}

// DegradedCount returns how many findings came from snippets only.
func (r Report) DegradedCount() int {
	n := 0
	for _, f := range r.Findings {
		if f.Degraded {
			n++
		}
	}
	return n
}
