package extract

import (
	"strings"
	"testing"
)

func TestFromHTML_PrefersMainOverBody(t *testing.T) {
	page := `<!doctype html>
	<html>
	  <head><title>Test Page</title></head>
	  <body>
	    <nav>Nav should be ignored</nav>
	    <main>
	      <h1>Main Heading</h1>
	      <p>This is the main content paragraph.</p>
	    </main>
	    <footer>Footer text</footer>
	  </body>
	</html>`

	doc := FromHTML([]byte(page))
	if doc.Title != "Test Page" {
		t.Fatalf("expected title 'Test Page', got %q", doc.Title)
	}
	if !strings.Contains(doc.Text, "Main Heading") || !strings.Contains(doc.Text, "This is the main content paragraph.") {
		t.Fatalf("expected main content, got %q", doc.Text)
	}
	if strings.Contains(doc.Text, "Nav should be ignored") || strings.Contains(doc.Text, "Footer text") {
		t.Fatalf("did not expect nav or footer text, got %q", doc.Text)
	}
}

func TestFromHTML_DropsScriptsFormsAndBanners(t *testing.T) {
	page := `<html><head><title>T</title><style>body{}</style></head><body>
	  <header>Site header</header>
	  <div class="cookie-banner">We use cookies</div>
	  <div id="ad-slot-top">Buy now</div>
	  <script>var x = 1;</script>
	  <form><input name="q"> Search form</form>
	  <p>Kept paragraph.</p>
	  <svg><text>icon</text></svg>
	</body></html>`

	doc := FromHTML([]byte(page))
	if doc.Text != "Kept paragraph." {
		t.Fatalf("expected only kept paragraph, got %q", doc.Text)
	}
}

func TestFromHTML_ContentRootWithMarkerClass(t *testing.T) {
	doc := FromHTML([]byte(`<html><body><main class="sponsored-layout"><p>Real article text here.</p><div class="ad-container">Buy now</div></main></body></html>`))
	if !strings.Contains(doc.Text, "Real article text here.") {
		t.Fatalf("expected main content despite root class, got %q", doc.Text)
	}
	if strings.Contains(doc.Text, "Buy now") {
		t.Fatalf("expected nested ad block to be dropped, got %q", doc.Text)
	}

	doc = FromHTML([]byte(`<html><body class="has-cookie-banner"><p>Body only page text.</p></body></html>`))
	if doc.Text != "Body only page text." {
		t.Fatalf("expected body text, got %q", doc.Text)
	}
}

func TestFromHTML_BlocksBecomeLines(t *testing.T) {
	page := `<html><body><article>
	  <h3>Examples</h3>
	  <ul><li>First item</li><li>Second item</li></ul>
	</article></body></html>`

	doc := FromHTML([]byte(page))
	lines := strings.Split(doc.Text, "\n")
	want := []string{"Examples", "First item", "Second item"}
	var got []string
	for _, l := range lines {
		if l != "" {
			got = append(got, l)
		}
	}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("unexpected lines %q", got)
	}
}

func TestFromHTML_Empty(t *testing.T) {
	if doc := FromHTML(nil); doc.Text != "" || doc.Title != "" {
		t.Fatalf("expected empty document, got %+v", doc)
	}
}

func TestReadabilityExtractor_FallsBackOnEmpty(t *testing.T) {
	page := `<html><head><title>Tiny</title></head><body><p>Short body text.</p></body></html>`
	doc := ReadabilityExtractor{}.Extract([]byte(page), "https://example.com/tiny")
	if !strings.Contains(doc.Text, "Short body text.") {
		t.Fatalf("expected body text, got %q", doc.Text)
	}
	if doc.Title != "Tiny" {
		t.Fatalf("expected title Tiny, got %q", doc.Title)
	}
}

func TestParseMode(t *testing.T) {
	if _, ok := ParseMode("Readability").(ReadabilityExtractor); !ok {
		t.Fatalf("expected readability extractor")
	}
	if _, ok := ParseMode("").(HeuristicExtractor); !ok {
		t.Fatalf("expected heuristic extractor by default")
	}
}

func TestTruncate_RuneBoundary(t *testing.T) {
	s := strings.Repeat("ä", 10)
	got := Truncate(s, 4)
	if got != "ääää" {
		t.Fatalf("unexpected truncation %q", got)
	}
	if Truncate("abc", 10) != "abc" {
		t.Fatalf("short strings must be unchanged")
	}
}
