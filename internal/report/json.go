package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

type jsonReport struct {
	Query       string    `json:"query"`
	GeneratedAt string    `json:"generated_at"`
	Provider    string    `json:"provider"`
	Strategy    string    `json:"strategy"`
	Findings    []Finding `json:"findings"`
}

// WriteJSON encodes r with GeneratedAt in UTC RFC 3339 with nanoseconds.
func WriteJSON(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonReport{
		Query:       r.Query,
		GeneratedAt: r.GeneratedAt.UTC().Format(time.RFC3339Nano),
		Provider:    r.Provider,
		Strategy:    r.Strategy,
		Findings:    r.Findings,
	})
}

// ReadJSON decodes a document produced by WriteJSON.
func ReadJSON(rd io.Reader) (Report, error) {
	var in jsonReport
	if err := json.NewDecoder(rd).Decode(&in); err != nil {
		return Report{}, fmt.Errorf("report: decode json: %w", err)
	}
	var ts time.Time
	if in.GeneratedAt != "" {
		var err error
		ts, err = time.Parse(time.RFC3339Nano, in.GeneratedAt)
		if err != nil {
			return Report{}, fmt.Errorf("report: generated_at: %w", err)
		}
		ts = ts.UTC()
	}
	return Report{
		Query:       in.Query,
		Findings:    in.Findings,
		GeneratedAt: ts,
		Provider:    in.Provider,
		Strategy:    in.Strategy,
	}, nil
}
