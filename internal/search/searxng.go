package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/freeresearch/internal/fetch"
)

// SearxNG implements Provider against a SearxNG instance's /search endpoint.
type SearxNG struct {
	BaseURL string
	APIKey  string // optional
	Client  *fetch.Client
	Locale  Locale
}

func (s *SearxNG) Name() string { return string(KindSearxNG) }

func (s *SearxNG) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if s.BaseURL == "" {
		return nil, fmt.Errorf("missing searxng base url")
	}
	if s.Client == nil {
		return nil, fmt.Errorf("searxng: fetch client not configured")
	}
	u, err := url.Parse(s.BaseURL)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(u.Path, "/search") {
		u.Path = strings.TrimRight(u.Path, "/") + "/search"
	}
	q := u.Query()
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("safesearch", "1")
	q.Set("categories", "general")
	if s.Locale.Lang != "" {
		q.Set("language", s.Locale.Lang)
	} else {
		q.Set("language", "auto")
	}
	if s.APIKey != "" {
		q.Set("apikey", s.APIKey)
	}
	u.RawQuery = q.Encode()

	log.Debug().Str("provider", s.Name()).Str("query", query).Msg("search request")
	resp, err := s.Client.Do(ctx, fetch.Request{
		Method: http.MethodGet,
		URL:    u.String(),
		Header: http.Header{"Accept": {"application/json"}},
	})
	if err != nil {
		return nil, err
	}
	return ParseSearxJSON(resp.Body, limit)
}

type searxResponse struct {
	Results *[]struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

// ParseSearxJSON parses a SearxNG JSON response. The results array must be present.
func ParseSearxJSON(payload []byte, limit int) ([]Result, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return nil, &ParseError{Kind: KindSearxNG, Reason: "empty document"}
	}
	var sr searxResponse
	if err := json.Unmarshal(trimmed, &sr); err != nil {
		return nil, &ParseError{Kind: KindSearxNG, Reason: "invalid JSON", Err: err}
	}
	if sr.Results == nil {
		return nil, &ParseError{Kind: KindSearxNG, Reason: "missing results array"}
	}
	out := make([]Result, 0, len(*sr.Results))
	for i, r := range *sr.Results {
		title := collapse(r.Title)
		link := strings.TrimSpace(r.URL)
		if link == "" || title == "" {
			continue
		}
		out = append(out, Result{
			Title:      title,
			URL:        link,
			Snippet:    collapse(r.Content),
			Rank:       i + 1,
			Source:     string(KindSearxNG),
			DisplayURL: DisplayHost(link),
		})
		if full(out, limit) {
			break
		}
	}
	return out, nil
}
