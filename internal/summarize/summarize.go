// Package summarize turns extracted page text into report findings.
package summarize

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/hyperifyio/freeresearch/internal/extract"
	"github.com/hyperifyio/freeresearch/internal/llm"
	"github.com/hyperifyio/freeresearch/internal/report"
	"github.com/hyperifyio/freeresearch/internal/search"
)

// CredibilityFloor is the lowest score a finding can carry.
const CredibilityFloor = 0.1

// Input is one candidate ready for summarization.
type Input struct {
	Query   string
	Source  search.Result
	Content extract.Content
}

// text returns the extracted body, or the snippet when extraction left nothing.
func (in Input) text() string {
	if t := strings.TrimSpace(in.Content.BodyText); t != "" {
		return t
	}
	return strings.TrimSpace(in.Source.Snippet)
}

func (in Input) title() string {
	if in.Content.Title != "" {
		return in.Content.Title
	}
	return in.Source.Title
}

// Summarizer produces a Finding for one candidate.
type Summarizer interface {
	Summarize(ctx context.Context, in Input) (report.Finding, error)
	Name() string
}

// SummarizationError wraps a failed delegated summary.
type SummarizationError struct {
	Model string
	URL   string
	Err   error
}

func (e *SummarizationError) Error() string {
	return fmt.Sprintf("summarize %s with %s: %v", e.URL, e.Model, e.Err)
}

func (e *SummarizationError) Unwrap() error { return e.Err }

// Degraded builds a finding from the search snippet alone.
func Degraded(source search.Result, status extract.Status) report.Finding {
	return report.Finding{
		Source:           source,
		Title:            source.Title,
		Summary:          strings.TrimSpace(source.Snippet),
		CredibilityScore: CredibilityFloor,
		Status:           status,
		Degraded:         true,
	}
}

// Config selects and tunes the summarization strategy.
type Config struct {
	Model       string
	BaseURL     string
	APIKey      string
	Temperature float32
	MaxPoints   int
	// MaxInputChars bounds the text sent to the model.
	MaxInputChars int
	HTTPClient    *http.Client
	// Client replaces the endpoint built from BaseURL and APIKey.
	Client llm.Client
}

// Delegates reports whether cfg carries enough to call a model.
func (c Config) Delegates() bool {
	return strings.TrimSpace(c.Model) != "" && (strings.TrimSpace(c.APIKey) != "" || strings.TrimSpace(c.BaseURL) != "")
}

// Select returns the heuristic summarizer, or the delegated one backed by the
// heuristic when a model endpoint is configured.
func Select(cfg Config) Summarizer {
	h := Heuristic{MaxPoints: cfg.MaxPoints}
	if !cfg.Delegates() {
		return h
	}
	client := cfg.Client
	if client == nil {
		client = llm.New(cfg.BaseURL, cfg.APIKey, cfg.HTTPClient)
	}
	return Fallback{
		Primary: &Delegated{
			Client:        client,
			Model:         cfg.Model,
			MaxInputChars: cfg.MaxInputChars,
			Temperature:   cfg.Temperature,
			MaxPoints:     cfg.MaxPoints,
		},
		Secondary: h,
	}
}
