package search

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/freeresearch/internal/fetch"
)

const googleNewsEndpoint = "https://news.google.com/rss/search"

// GoogleNews implements Provider against the Google News RSS search feed.
type GoogleNews struct {
	Endpoint string // overrides news.google.com (tests)
	Client   *fetch.Client
	Locale   Locale
}

func (g *GoogleNews) Name() string { return string(KindGoogleNews) }

func (g *GoogleNews) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if g.Client == nil {
		return nil, fmt.Errorf("googlenews: fetch client not configured")
	}
	endpoint := g.Endpoint
	if endpoint == "" {
		endpoint = googleNewsEndpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, err
	}
	hl, gl, ceid := g.Locale.NewsParams()
	q := u.Query()
	q.Set("q", query)
	q.Set("hl", hl)
	q.Set("gl", gl)
	q.Set("ceid", ceid)
	u.RawQuery = q.Encode()

	log.Debug().Str("provider", g.Name()).Str("query", query).Msg("search request")
	resp, err := g.Client.Do(ctx, fetch.Request{
		Method: http.MethodGet,
		URL:    u.String(),
		Header: http.Header{"Accept": {"application/rss+xml, application/xml;q=0.9, text/xml;q=0.8"}},
	})
	if err != nil {
		return nil, err
	}
	return ParseNewsRSS(resp.Body, limit)
}

// ParseNewsRSS parses an RSS or Atom feed into results.
func ParseNewsRSS(payload []byte, limit int) ([]Result, error) {
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil, &ParseError{Kind: KindGoogleNews, Reason: "empty document"}
	}
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(payload))
	if err != nil {
		return nil, &ParseError{Kind: KindGoogleNews, Reason: "invalid feed", Err: err}
	}
	out := make([]Result, 0, len(feed.Items))
	for i, it := range feed.Items {
		if it == nil {
			continue
		}
		title := collapse(it.Title)
		link := strings.TrimSpace(it.Link)
		if title == "" || link == "" {
			continue
		}
		out = append(out, Result{
			Title:      title,
			URL:        link,
			Snippet:    htmlToText(it.Description),
			Rank:       i + 1,
			Source:     string(KindGoogleNews),
			DisplayURL: DisplayHost(link),
		})
		if full(out, limit) {
			break
		}
	}
	return out, nil
}

// htmlToText flattens feed descriptions, which Google News ships as HTML lists.
func htmlToText(s string) string {
	if !strings.Contains(s, "<") {
		return collapse(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return collapse(s)
	}
	return collapse(doc.Text())
}
