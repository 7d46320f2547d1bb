package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/freeresearch/internal/fetch"
)

const googleCSEEndpoint = "https://www.googleapis.com/customsearch/v1"

// GoogleCSE implements Provider against the Google Custom Search JSON API.
type GoogleCSE struct {
	Endpoint string // overrides the googleapis.com endpoint (tests)
	APIKey   string
	EngineID string
	Client   *fetch.Client
	Locale   Locale
}

func (g *GoogleCSE) Name() string { return string(KindGoogle) }

func (g *GoogleCSE) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if g.APIKey == "" || g.EngineID == "" {
		return nil, fmt.Errorf("google: api key and engine id are required")
	}
	if g.Client == nil {
		return nil, fmt.Errorf("google: fetch client not configured")
	}
	endpoint := g.Endpoint
	if endpoint == "" {
		endpoint = googleCSEEndpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, err
	}
	// The API serves at most 10 items per call.
	num := limit
	if num <= 0 || num > 10 {
		num = 10
	}
	q := u.Query()
	q.Set("key", g.APIKey)
	q.Set("cx", g.EngineID)
	q.Set("q", query)
	q.Set("num", strconv.Itoa(num))
	if g.Locale.Lang != "" {
		q.Set("hl", g.Locale.Lang)
		q.Set("lr", "lang_"+g.Locale.Lang)
	}
	if g.Locale.Region != "" {
		q.Set("gl", strings.ToLower(g.Locale.Region))
	}
	u.RawQuery = q.Encode()

	log.Debug().Str("provider", g.Name()).Str("query", query).Msg("search request")
	resp, err := g.Client.Get(ctx, u.String())
	if err != nil {
		return nil, err
	}
	return ParseGoogleJSON(resp.Body, limit)
}

type googleResponse struct {
	Items []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"items"`
}

// ParseGoogleJSON parses a Custom Search response. A document without items is
// a valid zero-result response.
func ParseGoogleJSON(payload []byte, limit int) ([]Result, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return nil, &ParseError{Kind: KindGoogle, Reason: "empty document"}
	}
	if trimmed[0] != '{' {
		return nil, &ParseError{Kind: KindGoogle, Reason: "expected JSON object"}
	}
	var gr googleResponse
	if err := json.Unmarshal(trimmed, &gr); err != nil {
		return nil, &ParseError{Kind: KindGoogle, Reason: "invalid JSON", Err: err}
	}
	out := make([]Result, 0, len(gr.Items))
	for i, it := range gr.Items {
		title := collapse(it.Title)
		link := strings.TrimSpace(it.Link)
		if title == "" || link == "" {
			continue
		}
		out = append(out, Result{
			Title:      title,
			URL:        link,
			Snippet:    collapse(it.Snippet),
			Rank:       i + 1,
			Source:     string(KindGoogle),
			DisplayURL: DisplayHost(link),
		})
		if full(out, limit) {
			break
		}
	}
	return out, nil
}
