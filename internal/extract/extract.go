// Package extract turns fetched pages into bounded plain text.
package extract

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// Document is the readable part of a page.
type Document struct {
	Title string
	Text  string
}

// skipTags never contribute text.
var skipTags = map[string]bool{
	"script": true, "style": true, "noscript": true, "nav": true, "footer": true,
	"aside": true, "header": true, "form": true, "iframe": true, "svg": true,
	"template": true,
}

// boilerplateMarkers flag cookie banners and ad slots by id, class or role.
var boilerplateMarkers = []string{
	"cookie", "consent", "gdpr", "advert", "ad-slot", "ad-container", "adsbygoogle",
	"sponsor", "newsletter-signup", "share-buttons",
}

// FromHTML extracts readable text, preferring <main> or <article> and falling
// back to <body>. Block elements become line breaks; boilerplate is skipped.
func FromHTML(input []byte) Document {
	node, err := html.Parse(bytes.NewReader(input))
	if err != nil || node == nil {
		return Document{}
	}
	title := strings.TrimSpace(collapseSpaces(textOf(findFirst(findFirst(node, "head"), "title"))))

	content := findFirst(node, "main")
	if content == nil {
		content = findFirst(node, "article")
	}
	if content == nil {
		content = findFirst(node, "body")
	}
	var b strings.Builder
	if content != nil {
		// Boilerplate markers apply to descendants, not the chosen root.
		for c := content.FirstChild; c != nil; c = c.NextSibling {
			walk(&b, c)
		}
	}
	return Document{Title: title, Text: normalizeWhitespace(b.String())}
}

func findFirst(n *html.Node, tag string) *html.Node {
	if n == nil {
		return nil
	}
	if n.Type == html.ElementNode && strings.EqualFold(n.Data, tag) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func textOf(n *html.Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}

func walk(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(strings.NewReplacer("\t", " ", "\r", " ").Replace(n.Data))
		return
	case html.ElementNode:
		name := strings.ToLower(n.Data)
		if skipTags[name] || isBoilerplate(n) {
			return
		}
		block := isBlock(name)
		if block {
			b.WriteString("\n")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(b, c)
		}
		if block {
			b.WriteString("\n")
		}
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(b, c)
	}
}

func isBlock(name string) bool {
	switch name {
	case "p", "div", "section", "li", "ul", "ol", "br", "hr", "pre", "blockquote",
		"h1", "h2", "h3", "h4", "h5", "h6", "tr", "table", "dd", "dt", "figcaption":
		return true
	}
	return false
}

func isBoilerplate(n *html.Node) bool {
	for _, attr := range n.Attr {
		key := strings.ToLower(attr.Key)
		if key != "id" && key != "class" && key != "role" && key != "aria-label" {
			continue
		}
		val := strings.ToLower(attr.Val)
		if key == "role" && (val == "banner" || val == "navigation" || val == "contentinfo") {
			return true
		}
		for _, m := range boilerplateMarkers {
			if strings.Contains(val, m) {
				return true
			}
		}
	}
	return false
}

// normalizeWhitespace collapses runs of spaces and keeps at most one blank line.
func normalizeWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = collapseSpaces(strings.TrimSpace(line))
		if line == "" {
			if len(out) == 0 || out[len(out)-1] == "" {
				continue
			}
		}
		out = append(out, line)
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n")
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
