package report

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// Format selects how a Report is rendered.
type Format string

const (
	FormatHTML     Format = "html"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatPDF      Format = "pdf"
	FormatDOCX     Format = "docx"
)

// ErrUnsupportedFormat is returned by Write for formats it cannot render.
var ErrUnsupportedFormat = errors.New("report: unsupported format")

// ParseFormat accepts the format names plus "md"; empty selects HTML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "html":
		return FormatHTML, nil
	case "json":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "pdf":
		return FormatPDF, nil
	case "docx", "word":
		return FormatDOCX, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json; charset=utf-8"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatPDF:
		return "application/pdf"
	case FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}
	return "text/html; charset=utf-8"
}

func (f Format) Extension() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatMarkdown:
		return "md"
	case FormatPDF:
		return "pdf"
	case FormatDOCX:
		return "docx"
	}
	return "html"
}

// Write renders r in one of the file formats. HTML is rendered by the web
// layer and is rejected here.
func Write(w io.Writer, r Report, f Format) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, r)
	case FormatMarkdown:
		return WriteMarkdown(w, r)
	case FormatPDF:
		return WritePDF(w, r)
	case FormatDOCX:
		return WriteDOCX(w, r)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
}

// Filename builds "research-<slug>.<ext>" for downloads.
func Filename(query string, f Format) string {
	return "research-" + Slug(query) + "." + f.Extension()
}

// Slug lower-cases query and joins its letters and digits with dashes.
func Slug(query string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(query) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	s := b.String()
	if len(s) > 60 {
		s = s[:60]
	}
	s = strings.Trim(s, "-")
	if s == "" {
		return "report"
	}
	return s
}
