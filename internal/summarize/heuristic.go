package summarize

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hyperifyio/freeresearch/internal/extract"
	"github.com/hyperifyio/freeresearch/internal/report"
)

const (
	defaultMaxPoints  = 3
	minSentenceChars  = 20
	fallbackSummaryRs = 300
)

var sentenceRe = regexp.MustCompile(`[^.!?]+[.!?]*`)

// Heuristic picks the best scoring sentences by position, length and
// query keyword density and keeps them in document order.
type Heuristic struct {
	MaxPoints int
}

func (Heuristic) Name() string { return "heuristic" }

func (h Heuristic) Summarize(_ context.Context, in Input) (report.Finding, error) {
	text := in.text()
	points := h.keyPoints(text, in.Query)
	summary := strings.Join(points, " ")
	if summary == "" {
		summary = extract.Truncate(strings.Join(strings.Fields(text), " "), fallbackSummaryRs)
	}
	return report.Finding{
		Source:           in.Source,
		Title:            in.title(),
		Summary:          summary,
		CredibilityScore: Credibility(text),
		KeyPoints:        points,
		Status:           in.Content.Status,
	}, nil
}

func (h Heuristic) keyPoints(text, query string) []string {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return nil
	}
	max := h.MaxPoints
	if max <= 0 {
		max = defaultMaxPoints
	}
	terms := queryTerms(query)
	type scored struct {
		idx   int
		score float64
	}
	ranked := make([]scored, len(sentences))
	for i, s := range sentences {
		ranked[i] = scored{idx: i, score: sentenceScore(s, i, len(sentences), terms)}
	}
	sort.SliceStable(ranked, func(a, b int) bool { return ranked[a].score > ranked[b].score })
	if len(ranked) > max {
		ranked = ranked[:max]
	}
	sort.Slice(ranked, func(a, b int) bool { return ranked[a].idx < ranked[b].idx })
	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = sentences[r.idx]
	}
	return out
}

func sentenceScore(s string, pos, total int, terms []string) float64 {
	position := 1 - float64(pos)/float64(total)
	length := float64(utf8.RuneCountInString(s))
	if length > 200 {
		length = 200
	}
	density := 0.0
	if len(terms) > 0 {
		lower := strings.ToLower(s)
		hits := 0
		for _, t := range terms {
			if strings.Contains(lower, t) {
				hits++
			}
		}
		density = float64(hits) / float64(len(terms))
	}
	return 0.4*position + 0.2*length/200 + 0.4*density
}

// splitSentences returns trimmed sentences longer than minSentenceChars.
func splitSentences(text string) []string {
	var out []string
	for _, m := range sentenceRe.FindAllString(text, -1) {
		s := strings.Join(strings.Fields(m), " ")
		if utf8.RuneCountInString(s) > minSentenceChars {
			out = append(out, s)
		}
	}
	return out
}

func queryTerms(query string) []string {
	seen := map[string]bool{}
	var out []string
	for _, f := range strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if utf8.RuneCountInString(f) < 3 || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}
