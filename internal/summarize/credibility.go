package summarize

import (
	"math"
	"strings"
	"unicode/utf8"
)

// boilerplateMarkers lower a page's score once each.
var boilerplateMarkers = []string{
	"cookie", "subscribe", "sign in", "log in", "advertisement",
	"enable javascript", "all rights reserved", "click here",
}

// Credibility scores text quality from its length, sentence count and
// boilerplate residue. The result is always in [CredibilityFloor, 1].
func Credibility(text string) float64 {
	text = strings.TrimSpace(text)
	if text == "" {
		return CredibilityFloor
	}
	n := float64(utf8.RuneCountInString(text))
	score := math.Min(90, math.Max(40, n/50)) / 100
	if len(splitSentences(text)) >= 5 {
		score += 0.05
	}
	lower := strings.ToLower(text)
	penalty := 0.0
	for _, m := range boilerplateMarkers {
		if strings.Contains(lower, m) {
			penalty += 0.1
		}
	}
	score -= math.Min(penalty, 0.3)
	score = math.Max(CredibilityFloor, math.Min(1, score))
	return math.Round(score*1000) / 1000
}
