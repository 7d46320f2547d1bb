package search

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// Result represents a single search hit from any provider.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
	// Rank is the 1-based position of the entry in the provider payload.
	Rank       int    `json:"rank"`
	Source     string `json:"source"` // provider name for observability
	DisplayURL string `json:"display_url"`
}

// Provider is a minimal interface for search providers.
type Provider interface {
	Search(ctx context.Context, query string, limit int) ([]Result, error)
	Name() string
}

// Kind selects the provider and, with it, the payload shape the parser expects.
type Kind string

const (
	KindDuckDuckGo Kind = "duckduckgo"
	KindGoogle     Kind = "google"
	KindSearxNG    Kind = "searxng"
	KindGoogleNews Kind = "googlenews"
	KindFile       Kind = "file"
)

// ParseKind maps user input onto a Kind. Unknown values return an error.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ddg", "duckduckgo":
		return KindDuckDuckGo, nil
	case "google", "cse", "google-cse":
		return KindGoogle, nil
	case "searx", "searxng":
		return KindSearxNG, nil
	case "news", "googlenews", "google-news":
		return KindGoogleNews, nil
	case "file":
		return KindFile, nil
	}
	return "", fmt.Errorf("unknown search provider %q", s)
}

// ParseError reports a payload that does not have the structure the provider
// kind promises. Individual malformed entries never produce a ParseError.
type ParseError struct {
	Kind   Kind
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse %s results: %s: %v", e.Kind, e.Reason, e.Err)
	}
	return fmt.Sprintf("parse %s results: %s", e.Kind, e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse converts a raw provider payload into ordered results.
// A limit <= 0 keeps every entry.
func Parse(kind Kind, payload []byte, limit int) ([]Result, error) {
	switch kind {
	case KindDuckDuckGo:
		return ParseDuckDuckGoHTML(payload, limit)
	case KindGoogle:
		return ParseGoogleJSON(payload, limit)
	case KindSearxNG:
		return ParseSearxJSON(payload, limit)
	case KindGoogleNews:
		return ParseNewsRSS(payload, limit)
	case KindFile:
		return ParseFileJSON(payload, limit)
	}
	return nil, &ParseError{Kind: kind, Reason: "unsupported provider kind"}
}

// DisplayHost returns the host of rawURL without scheme and leading "www.".
func DisplayHost(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return rawURL
	}
	return strings.TrimPrefix(strings.ToLower(u.Host), "www.")
}

func full(out []Result, limit int) bool {
	return limit > 0 && len(out) >= limit
}
