package report

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/gingfrederik/docx"
)

// WriteDOCX renders r as a Word document. The library only saves to a path,
// so the document goes through a temporary file.
func WriteDOCX(w io.Writer, r Report) error {
	f := docx.NewFile()

	run := f.AddParagraph().AddText("Research: " + oneLine(r.Query))
	run.Size(20)
	meta := "Generated " + r.GeneratedAt.UTC().Format(time.RFC3339)
	if r.Provider != "" {
		meta += " from " + r.Provider
	}
	run = f.AddParagraph().AddText(meta)
	run.Size(10)
	run.Color("808080")
	f.AddParagraph()

	if len(r.Findings) == 0 {
		f.AddParagraph().AddText("No results.")
	}
	for i, fd := range r.Findings {
		run = f.AddParagraph().AddText(fmt.Sprintf("%d. %s", i+1, oneLine(fd.DisplayTitle())))
		run.Size(16)
		run = f.AddParagraph().AddText(fd.Source.URL)
		run.Size(10)
		run.Color("0000FF")

		status := fmt.Sprintf("Credibility %.2f | Status %s", fd.CredibilityScore, fd.Status)
		if fd.Degraded {
			status += " | snippet only"
		}
		run = f.AddParagraph().AddText(status)
		run.Color("008000")

		if s := strings.TrimSpace(fd.Summary); s != "" {
			f.AddParagraph().AddText(s)
		}
		for _, kp := range fd.KeyPoints {
			f.AddParagraph().AddText("- " + oneLine(kp))
		}
		f.AddParagraph()
	}

	tmp, err := os.CreateTemp("", "freeresearch-*.docx")
	if err != nil {
		return fmt.Errorf("report: docx temp file: %w", err)
	}
	path := tmp.Name()
	_ = tmp.Close()
	defer os.Remove(path)

	if err := f.Save(path); err != nil {
		return fmt.Errorf("report: save docx: %w", err)
	}
	in, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("report: reopen docx: %w", err)
	}
	defer in.Close()
	_, err = io.Copy(w, in)
	return err
}
