package report

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// WritePDF renders r with the core Helvetica font. Text is translated to
// cp1252; characters outside it degrade to placeholders.
func WritePDF(w io.Writer, r Report) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr("Research: "+r.Query), false)
	pdf.SetCreator("freeresearch", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.MultiCell(0, 8, tr("Research: "+oneLine(r.Query)), "", "L", false)
	pdf.SetFont("Helvetica", "I", 9)
	meta := "Generated " + r.GeneratedAt.UTC().Format(time.RFC3339)
	if r.Provider != "" {
		meta += " from " + r.Provider
	}
	pdf.CellFormat(0, 6, tr(meta), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	if len(r.Findings) == 0 {
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 6, "No results.", "", 1, "L", false, 0, "")
	}
	for i, f := range r.Findings {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.MultiCell(0, 6, tr(fmt.Sprintf("%d. %s", i+1, oneLine(f.DisplayTitle()))), "", "L", false)
		pdf.SetFont("Helvetica", "U", 9)
		pdf.SetTextColor(0, 0, 200)
		pdf.WriteLinkString(5, tr(f.Source.URL), f.Source.URL)
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(5)
		pdf.SetFont("Helvetica", "", 9)
		status := fmt.Sprintf("Credibility %.2f, status %s", f.CredibilityScore, f.Status)
		if f.Degraded {
			status += ", snippet only"
		}
		pdf.CellFormat(0, 5, tr(status), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		if f.Summary != "" {
			pdf.MultiCell(0, 5, tr(f.Summary), "", "L", false)
		}
		for _, kp := range f.KeyPoints {
			pdf.MultiCell(0, 5, tr("- "+oneLine(kp)), "", "L", false)
		}
		pdf.Ln(4)
	}
	return pdf.Output(w)
}
