package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"
)

// WriteMarkdown renders r as a standalone Markdown document.
func WriteMarkdown(w io.Writer, r Report) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# Research: %s\n\n", oneLine(r.Query))
	fmt.Fprintf(bw, "_Generated %s", r.GeneratedAt.UTC().Format(time.RFC3339))
	if r.Provider != "" {
		fmt.Fprintf(bw, " from %s", r.Provider)
	}
	if r.Strategy != "" {
		fmt.Fprintf(bw, ", %s summaries", r.Strategy)
	}
	bw.WriteString("_\n\n")
	if len(r.Findings) == 0 {
		bw.WriteString("No results.\n")
		return bw.Flush()
	}
	for i, f := range r.Findings {
		fmt.Fprintf(bw, "## %d. [%s](%s)\n\n", i+1, escapeBrackets(oneLine(f.DisplayTitle())), f.Source.URL)
		fmt.Fprintf(bw, "Credibility: %.2f | Status: %s", f.CredibilityScore, f.Status)
		if f.Degraded {
			bw.WriteString(" | snippet only")
		}
		bw.WriteString("\n\n")
		if s := strings.TrimSpace(f.Summary); s != "" {
			bw.WriteString(s)
			bw.WriteString("\n\n")
		}
		for _, kp := range f.KeyPoints {
			fmt.Fprintf(bw, "- %s\n", oneLine(kp))
		}
		if len(f.KeyPoints) > 0 {
			bw.WriteString("\n")
		}
	}
	return bw.Flush()
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func escapeBrackets(s string) string {
	return strings.NewReplacer("[", `\[`, "]", `\]`).Replace(s)
}
