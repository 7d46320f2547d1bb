package search

import (
	"strings"

	"golang.org/x/text/language"
)

// Locale carries the language hint in the shapes each provider expects.
type Locale struct {
	Lang   string // ISO 639-1, e.g. "en"
	Region string // ISO 3166-1 alpha-2, upper case, e.g. "US"
}

// ParseLocale reads a BCP 47 tag such as "en", "fi-FI" or "pt_BR".
// An empty or invalid hint yields the zero Locale (worldwide).
func ParseLocale(hint string) Locale {
	hint = strings.ReplaceAll(strings.TrimSpace(hint), "_", "-")
	if hint == "" {
		return Locale{}
	}
	tag, err := language.Parse(hint)
	if err != nil {
		return Locale{}
	}
	var loc Locale
	if base, conf := tag.Base(); conf != language.No {
		loc.Lang = base.String()
	}
	// Only keep regions stated in the tag; inferred ones skew results.
	if region, conf := tag.Region(); conf == language.Exact {
		loc.Region = region.String()
	}
	return loc
}

// DuckDuckGoRegion returns the kl parameter, "wt-wt" when no hint is set.
func (l Locale) DuckDuckGoRegion() string {
	if l.Lang == "" || l.Region == "" {
		return "wt-wt"
	}
	return strings.ToLower(l.Region) + "-" + l.Lang
}

// NewsParams returns hl, gl and ceid for the Google News RSS endpoint.
func (l Locale) NewsParams() (hl, gl, ceid string) {
	lang := l.Lang
	if lang == "" {
		lang = "en"
	}
	region := l.Region
	if region == "" {
		region = "US"
	}
	return lang + "-" + region, region, region + ":" + lang
}
