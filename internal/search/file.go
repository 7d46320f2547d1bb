package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
)

// FileProvider loads search results from a local JSON file for offline/testing use.
// The JSON file format is an array of objects: {"title": "...", "url": "...", "snippet": "..."}.
type FileProvider struct {
	Path string
}

func (f *FileProvider) Name() string { return string(KindFile) }

func (f *FileProvider) Search(_ context.Context, query string, limit int) ([]Result, error) {
	if strings.TrimSpace(f.Path) == "" {
		return nil, errors.New("file provider path is empty")
	}
	b, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, err
	}
	all, err := ParseFileJSON(b, 0)
	if err != nil {
		return nil, err
	}
	terms := strings.Fields(strings.ToLower(query))
	out := make([]Result, 0, len(all))
	for _, r := range all {
		if !matchesAny(r, terms) {
			continue
		}
		out = append(out, r)
		if full(out, limit) {
			break
		}
	}
	return out, nil
}

// ParseFileJSON parses the offline fixture format.
func ParseFileJSON(payload []byte, limit int) ([]Result, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return nil, &ParseError{Kind: KindFile, Reason: "empty document"}
	}
	var raw []Result
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, &ParseError{Kind: KindFile, Reason: "invalid JSON", Err: err}
	}
	out := make([]Result, 0, len(raw))
	for i, r := range raw {
		r.Title = collapse(r.Title)
		r.URL = strings.TrimSpace(r.URL)
		if r.URL == "" || r.Title == "" {
			continue
		}
		r.Snippet = collapse(r.Snippet)
		r.Rank = i + 1
		r.Source = string(KindFile)
		r.DisplayURL = DisplayHost(r.URL)
		out = append(out, r)
		if full(out, limit) {
			break
		}
	}
	return out, nil
}

// matchesAny is true when no terms are given or any term appears in the title or snippet.
func matchesAny(r Result, terms []string) bool {
	if len(terms) == 0 {
		return true
	}
	hay := strings.ToLower(r.Title + " " + r.Snippet)
	for _, t := range terms {
		if strings.Contains(hay, t) {
			return true
		}
	}
	return false
}
