package extract

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// Extractor converts raw HTML into a Document. Implementations must be
// deterministic and safe for concurrent use.
type Extractor interface {
	Extract(input []byte, pageURL string) Document
}

// HeuristicExtractor walks the DOM with FromHTML.
type HeuristicExtractor struct{}

func (HeuristicExtractor) Extract(input []byte, _ string) Document {
	return FromHTML(input)
}

// ReadabilityExtractor isolates the main article with go-readability and
// falls back to the heuristic walk when nothing usable comes out.
type ReadabilityExtractor struct {
	Fallback Extractor
}

func (r ReadabilityExtractor) Extract(input []byte, pageURL string) Document {
	fallback := r.Fallback
	if fallback == nil {
		fallback = HeuristicExtractor{}
	}
	u, err := url.Parse(pageURL)
	if err != nil {
		return fallback.Extract(input, pageURL)
	}
	article, err := readability.FromReader(bytes.NewReader(input), u)
	if err != nil {
		return fallback.Extract(input, pageURL)
	}
	// Re-walk the cleaned article so block boundaries become line breaks.
	text := FromHTML([]byte("<html><body>" + article.Content + "</body></html>")).Text
	if text == "" {
		doc, qerr := goquery.NewDocumentFromReader(strings.NewReader(article.Content))
		if qerr == nil {
			text = collapseSpaces(doc.Text())
		}
	}
	if strings.TrimSpace(text) == "" {
		return fallback.Extract(input, pageURL)
	}
	title := strings.TrimSpace(article.Title)
	if title == "" {
		title = FromHTML(input).Title
	}
	return Document{Title: title, Text: text}
}

// ParseMode maps a configured extraction mode to an Extractor. Unknown modes
// select the heuristic walk.
func ParseMode(mode string) Extractor {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "readability":
		return ReadabilityExtractor{}
	default:
		return HeuristicExtractor{}
	}
}
