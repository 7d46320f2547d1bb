package selecter

import (
	"net/url"
	"strings"

	"github.com/hyperifyio/freeresearch/internal/search"
)

// Options configures selection constraints.
type Options struct {
	MaxTotal int
	// PerDomain caps results per host. Zero disables the cap.
	PerDomain int
	// MinSnippetChars drops results whose snippet has fewer than this many
	// non-whitespace characters. Zero disables low-signal filtering.
	MinSnippetChars int
}

// Select walks results in provider order and keeps those that satisfy the caps.
// The output is always a prefix-preserving subsequence of the input.
func Select(results []search.Result, opt Options) []search.Result {
	if opt.MaxTotal <= 0 {
		opt.MaxTotal = 5
	}
	domainCounts := map[string]int{}
	out := make([]search.Result, 0, opt.MaxTotal)
	for _, r := range results {
		if opt.MinSnippetChars > 0 && nonSpaceLen(r.Snippet) < opt.MinSnippetChars {
			continue
		}
		u, err := url.Parse(strings.TrimSpace(r.URL))
		if err != nil || u.Host == "" {
			continue
		}
		host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
		if opt.PerDomain > 0 && domainCounts[host] >= opt.PerDomain {
			continue
		}
		domainCounts[host]++
		out = append(out, r)
		if len(out) >= opt.MaxTotal {
			break
		}
	}
	return out
}

func nonSpaceLen(s string) int {
	n := 0
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			n++
		}
	}
	return n
}
