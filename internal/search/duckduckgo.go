package search

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/freeresearch/internal/fetch"
)

const duckDuckGoEndpoint = "https://html.duckduckgo.com/html/"

// DuckDuckGo implements Provider against the keyless HTML results page.
type DuckDuckGo struct {
	// Endpoint overrides the html.duckduckgo.com form target (tests).
	Endpoint string
	Client   *fetch.Client
	Locale   Locale
	// TimeFilter is sent as df: "d", "w", "m", "y" or empty for any time.
	TimeFilter string
}

func (d *DuckDuckGo) Name() string { return string(KindDuckDuckGo) }

func (d *DuckDuckGo) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if d.Client == nil {
		return nil, fmt.Errorf("duckduckgo: fetch client not configured")
	}
	endpoint := d.Endpoint
	if endpoint == "" {
		endpoint = duckDuckGoEndpoint
	}
	form := url.Values{}
	form.Set("q", query)
	form.Set("kl", d.Locale.DuckDuckGoRegion())
	if d.TimeFilter != "" {
		form.Set("df", d.TimeFilter)
	}
	log.Debug().Str("provider", d.Name()).Str("query", query).Msg("search request")
	resp, err := d.Client.Do(ctx, fetch.Request{
		Method: http.MethodPost,
		URL:    endpoint,
		Form:   form,
		Header: http.Header{"Accept": {"text/html"}},
	})
	if err != nil {
		return nil, err
	}
	return ParseDuckDuckGoHTML(resp.Body, limit)
}

// ParseDuckDuckGoHTML extracts results from an html.duckduckgo.com page.
// Empty and truncated documents, and documents that carry neither result
// entries nor the "no results" marker, produce a ParseError.
func ParseDuckDuckGoHTML(payload []byte, limit int) ([]Result, error) {
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil, &ParseError{Kind: KindDuckDuckGo, Reason: "empty document"}
	}
	if !bytes.Contains(bytes.ToLower(payload), []byte("</html>")) {
		return nil, &ParseError{Kind: KindDuckDuckGo, Reason: "truncated document"}
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(payload))
	if err != nil {
		return nil, &ParseError{Kind: KindDuckDuckGo, Reason: "invalid markup", Err: err}
	}
	entries := doc.Find("div.result")
	if entries.Length() == 0 {
		if doc.Find(".no-results").Length() > 0 {
			return []Result{}, nil
		}
		return nil, &ParseError{Kind: KindDuckDuckGo, Reason: "no result container"}
	}

	out := make([]Result, 0, entries.Length())
	entries.EachWithBreak(func(i int, s *goquery.Selection) bool {
		a := s.Find("a.result__a").First()
		title := collapse(a.Text())
		href, _ := a.Attr("href")
		target := normalizeDuckDuckGoURL(href)
		if title == "" || target == "" {
			return true
		}
		out = append(out, Result{
			Title:      title,
			URL:        target,
			Snippet:    collapse(s.Find(".result__snippet").First().Text()),
			Rank:       i + 1,
			Source:     string(KindDuckDuckGo),
			DisplayURL: DisplayHost(target),
		})
		return !full(out, limit)
	})
	return out, nil
}

// normalizeDuckDuckGoURL resolves protocol- and site-relative hrefs, unwraps
// /l/?uddg= redirect links and drops links that stay on duckduckgo.com (ads).
func normalizeDuckDuckGoURL(href string) string {
	href = strings.TrimSpace(href)
	switch {
	case href == "":
		return ""
	case strings.HasPrefix(href, "//"):
		href = "https:" + href
	case strings.HasPrefix(href, "/"):
		href = "https://duckduckgo.com" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if isDuckDuckGoHost(u.Host) {
		target := u.Query().Get("uddg")
		if target == "" {
			return ""
		}
		t, err := url.Parse(target)
		if err != nil || t.Host == "" || isDuckDuckGoHost(t.Host) || !isWebScheme(t) {
			return ""
		}
		return t.String()
	}
	if !isWebScheme(u) {
		return ""
	}
	return u.String()
}

func isWebScheme(u *url.URL) bool {
	return u.Scheme == "http" || u.Scheme == "https"
}

func isDuckDuckGoHost(host string) bool {
	host = strings.ToLower(host)
	return host == "duckduckgo.com" || strings.HasSuffix(host, ".duckduckgo.com")
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
