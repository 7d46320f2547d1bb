package aggregate

import (
	"net/url"
	"strings"

	"github.com/hyperifyio/freeresearch/internal/search"
)

var trackingParams = []string{"utm_source", "utm_medium", "utm_campaign", "utm_term", "utm_content", "utm_id", "gclid", "fbclid", "msclkid"}

// Normalize drops unparseable results and later entries whose canonical URL
// was already seen. Result URLs are returned exactly as the provider gave
// them; the canonical form is only the dedupe key. Provider order and ranks
// are preserved.
func Normalize(results []search.Result) []search.Result {
	seen := map[string]struct{}{}
	out := make([]search.Result, 0, len(results))
	for _, r := range results {
		key, ok := CanonicalKey(r.URL)
		if !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out
}

// CanonicalKey returns the dedupe key for rawURL: lower-case scheme and host,
// default port removed, fragment dropped, trailing slash trimmed and
// tracking parameters removed. Remaining query pairs keep their raw text
// and order.
func CanonicalKey(rawURL string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return "", false
	}
	u.Fragment = ""
	u.RawFragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	if (u.Scheme == "http" && strings.HasSuffix(u.Host, ":80")) || (u.Scheme == "https" && strings.HasSuffix(u.Host, ":443")) {
		u.Host = u.Hostname()
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = stripTracking(u.RawQuery)
	return u.String(), true
}

// stripTracking filters raw "&"-separated pairs without re-encoding them.
func stripTracking(rawQuery string) string {
	if rawQuery == "" {
		return ""
	}
	pairs := strings.Split(rawQuery, "&")
	kept := pairs[:0]
	for _, p := range pairs {
		if p == "" || isTracking(p) {
			continue
		}
		kept = append(kept, p)
	}
	return strings.Join(kept, "&")
}

func isTracking(pair string) bool {
	name, _, _ := strings.Cut(pair, "=")
	if n, err := url.QueryUnescape(name); err == nil {
		name = n
	}
	name = strings.ToLower(name)
	for _, p := range trackingParams {
		if name == p {
			return true
		}
	}
	return false
}
