package extract

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"golang.org/x/net/html/charset"

	"github.com/hyperifyio/freeresearch/internal/fetch"
	"github.com/hyperifyio/freeresearch/internal/search"
)

// Status describes how extraction of one candidate page ended.
type Status string

const (
	StatusOK          Status = "ok"
	StatusTimeout     Status = "timeout"
	StatusBlocked     Status = "blocked"
	StatusParseError  Status = "parse_error"
	StatusUnreachable Status = "unreachable"
)

// DefaultMaxChars caps BodyText when Pages.MaxChars is zero.
const DefaultMaxChars = 3000

// Content is the extraction result for one search result. BodyText is empty
// unless Status is StatusOK.
type Content struct {
	URL      string `json:"url"`
	Title    string `json:"title"`
	BodyText string `json:"body_text"`
	Status   Status `json:"status"`
}

// RobotsGate is consulted before a page is fetched.
type RobotsGate interface {
	Allowed(ctx context.Context, pageURL string) bool
}

// Pages fetches and extracts candidate pages.
type Pages struct {
	Fetcher *fetch.Client
	// Robots is optional; nil skips the robots.txt check.
	Robots    RobotsGate
	Extractor Extractor
	MaxChars  int
}

// Extract never returns an error: every failure is folded into Content.Status.
func (p *Pages) Extract(ctx context.Context, r search.Result) Content {
	out := Content{URL: r.URL, Title: r.Title}
	if p.Robots != nil && !p.Robots.Allowed(ctx, r.URL) {
		log.Debug().Str("url", r.URL).Msg("robots.txt disallows page")
		out.Status = StatusBlocked
		return out
	}
	fetcher := p.Fetcher
	if fetcher == nil {
		fetcher = &fetch.Client{}
	}
	resp, err := fetcher.Get(ctx, r.URL)
	if err != nil {
		out.Status = statusForError(ctx, err)
		log.Debug().Err(err).Str("url", r.URL).Str("status", string(out.Status)).Msg("page fetch failed")
		return out
	}
	if !isHTML(resp.ContentType) {
		out.Status = StatusParseError
		return out
	}
	body, err := decode(resp.Body, resp.ContentType)
	if err != nil {
		out.Status = StatusParseError
		return out
	}
	ex := p.Extractor
	if ex == nil {
		ex = HeuristicExtractor{}
	}
	doc := ex.Extract(body, resp.URL)
	if strings.TrimSpace(doc.Text) == "" {
		out.Status = StatusParseError
		return out
	}
	if doc.Title != "" {
		out.Title = doc.Title
	}
	max := p.MaxChars
	if max <= 0 {
		max = DefaultMaxChars
	}
	out.BodyText = Truncate(doc.Text, max)
	out.Status = StatusOK
	return out
}

func statusForError(ctx context.Context, err error) Status {
	if fetch.IsTimeout(err) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return StatusTimeout
	}
	switch fetch.StatusOf(err) {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusProxyAuthRequired,
		http.StatusTooManyRequests, http.StatusUnavailableForLegalReasons:
		return StatusBlocked
	}
	return StatusUnreachable
}

// isHTML accepts a missing Content-Type since many servers omit it.
func isHTML(contentType string) bool {
	if strings.TrimSpace(contentType) == "" {
		return true
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == "text/html" || mt == "application/xhtml+xml"
}

// decode converts body to UTF-8 using the header charset, a <meta> charset,
// or content sniffing, in that order.
func decode(body []byte, contentType string) ([]byte, error) {
	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}

// Truncate returns at most max runes of s without splitting a character.
func Truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return strings.TrimSpace(s[:i])
		}
		n++
	}
	return s
}
