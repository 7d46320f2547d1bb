package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hyperifyio/freeresearch/internal/extract"
	"github.com/hyperifyio/freeresearch/internal/llm"
	"github.com/hyperifyio/freeresearch/internal/report"
)

const articleBody = `<p>Rising global temperatures are changing weather patterns across every continent.</p>
<p>Climate change effects include longer droughts and more intense heatwaves in many regions.</p>
<p>Sea levels have risen by roughly twenty centimetres since the start of the last century.</p>
<p>Glaciers and ice sheets continue to lose mass at an accelerating rate each year.</p>
<p>Scientists expect these trends to continue unless emissions fall substantially.</p>`

func ddgPage(base string, paths ...string) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html><html><body><div id=\"links\">")
	if len(paths) == 0 {
		b.WriteString(`<div class="no-results">No results.</div>`)
	}
	for i, p := range paths {
		fmt.Fprintf(&b, `<div class="result"><h2><a class="result__a" href="%s%s">Result %d</a></h2><a class="result__snippet">Snippet for result %d.</a></div>`, base, p, i+1, i+1)
	}
	b.WriteString("</div></body></html>")
	return b.String()
}

type fixture struct {
	srv   *httptest.Server
	paths []string
}

// newFixture serves a DuckDuckGo-shaped results page at /html/ plus the
// candidate pages themselves. /slow waits for the client to give up, /missing
// answers 404, /broken answers 500 and /private is disallowed by robots.txt.
func newFixture(t *testing.T, paths ...string) *fixture {
	t.Helper()
	f := &fixture{paths: paths}
	mux := http.NewServeMux()
	mux.HandleFunc("/html/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.FormValue("q") == "" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(ddgPage(f.srv.URL, f.paths...)))
	})
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("User-agent: *\nDisallow: /private\n"))
	})
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, "<html><head><title>Page %s</title></head><body><main>%s</main></body></html>", r.URL.Path, articleBody)
	})
	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fixture) config() Config {
	cfg := Defaults()
	cfg.SearchEndpoint = f.srv.URL + "/html/"
	cfg.CandidateTimeout = 2 * time.Second
	return cfg
}

func newApp(t *testing.T, cfg Config) *App {
	t.Helper()
	a, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	t.Cleanup(a.Close)
	return a
}

func TestResearch_ClimateScenario(t *testing.T) {
	f := newFixture(t, "/effects", "/causes", "/health-impacts")
	a := newApp(t, f.config())

	rep, err := a.Research(context.Background(), "  climate change effects ")
	if err != nil {
		t.Fatalf("research: %v", err)
	}
	if rep.Query != "climate change effects" {
		t.Fatalf("expected trimmed query, got %q", rep.Query)
	}
	if len(rep.Findings) == 0 || len(rep.Findings) > 3 {
		t.Fatalf("expected 1..3 findings, got %d", len(rep.Findings))
	}
	if err := rep.Validate(); err != nil {
		t.Fatalf("invalid report: %v", err)
	}
	for i, fd := range rep.Findings {
		if fd.Status != extract.StatusOK || fd.Degraded {
			t.Fatalf("finding %d: expected full extraction, got %+v", i, fd)
		}
		if fd.CredibilityScore <= 0 || fd.CredibilityScore > 1 {
			t.Fatalf("finding %d: credibility %v", i, fd.CredibilityScore)
		}
		if len(fd.KeyPoints) == 0 || fd.Summary == "" {
			t.Fatalf("finding %d: empty summary", i)
		}
	}
	if rep.Provider != "duckduckgo" || rep.Strategy != "heuristic" {
		t.Fatalf("unexpected provider/strategy %q/%q", rep.Provider, rep.Strategy)
	}

	var buf bytes.Buffer
	if err := report.WriteJSON(&buf, rep); err != nil {
		t.Fatalf("export json: %v", err)
	}
	if !json.Valid(buf.Bytes()) {
		t.Fatalf("export is not valid JSON")
	}
}

func TestResearch_DegradesFailedCandidates(t *testing.T) {
	f := newFixture(t, "/good", "/missing", "/slow", "/private/page")
	cfg := f.config()
	cfg.CandidateTimeout = 300 * time.Millisecond
	a := newApp(t, cfg)

	start := time.Now()
	rep, err := a.Research(context.Background(), "climate")
	if err != nil {
		t.Fatalf("research: %v", err)
	}
	if time.Since(start) > 3*time.Second {
		t.Fatalf("slow candidate was not bounded: %v", time.Since(start))
	}
	if len(rep.Findings) != 4 {
		t.Fatalf("expected all 4 candidates reported, got %d", len(rep.Findings))
	}
	want := []extract.Status{extract.StatusOK, extract.StatusUnreachable, extract.StatusTimeout, extract.StatusBlocked}
	for i, fd := range rep.Findings {
		if fd.Status != want[i] {
			t.Fatalf("finding %d: expected %s, got %s", i, want[i], fd.Status)
		}
		if i > 0 {
			if !fd.Degraded || fd.Summary != fmt.Sprintf("Snippet for result %d.", i+1) || fd.CredibilityScore != 0.1 {
				t.Fatalf("finding %d: expected snippet-only finding, got %+v", i, fd)
			}
		}
	}
	if rep.Findings[0].Degraded {
		t.Fatalf("healthy candidate must not be degraded")
	}
	if err := rep.Validate(); err != nil {
		t.Fatalf("invalid report: %v", err)
	}
}

func TestResearch_ServerErrorIsRetriedThenDegraded(t *testing.T) {
	f := newFixture(t, "/broken", "/good")
	rep, err := newApp(t, f.config()).Research(context.Background(), "climate")
	if err != nil {
		t.Fatalf("research: %v", err)
	}
	if got := rep.Findings[0]; got.Status != extract.StatusUnreachable || !got.Degraded {
		t.Fatalf("expected degraded unreachable finding, got %+v", got)
	}
	if got := rep.Findings[1]; got.Status != extract.StatusOK || got.Degraded {
		t.Fatalf("expected healthy second finding, got %+v", got)
	}
}

func TestResearch_RobotsCanBeDisabled(t *testing.T) {
	f := newFixture(t, "/private/page")
	cfg := f.config()
	cfg.RespectRobots = false
	rep, err := newApp(t, cfg).Research(context.Background(), "climate")
	if err != nil {
		t.Fatalf("research: %v", err)
	}
	if rep.Findings[0].Status != extract.StatusOK {
		t.Fatalf("expected robots to be ignored, got %s", rep.Findings[0].Status)
	}
}

func TestResearch_EmptyQuery(t *testing.T) {
	f := newFixture(t, "/a")
	_, err := newApp(t, f.config()).Research(context.Background(), " \t ")
	if !errors.Is(err, ErrEmptyQuery) {
		t.Fatalf("expected ErrEmptyQuery, got %v", err)
	}
}

func TestResearch_NoResults(t *testing.T) {
	f := newFixture(t)
	rep, err := newApp(t, f.config()).Research(context.Background(), "nothing")
	if !errors.Is(err, ErrNoResults) {
		t.Fatalf("expected ErrNoResults, got %v", err)
	}
	if rep.Query != "nothing" || len(rep.Findings) != 0 {
		t.Fatalf("unexpected report %+v", rep)
	}
}

func TestResearch_ProviderFailureIsNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()
	cfg := Defaults()
	cfg.SearchEndpoint = srv.URL
	_, err := newApp(t, cfg).Research(context.Background(), "blocked")
	if !errors.Is(err, ErrNoResults) {
		t.Fatalf("expected ErrNoResults, got %v", err)
	}
}

func TestResearch_FileProviderAndCaps(t *testing.T) {
	f := newFixture(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "results.json")
	entries := []map[string]string{
		{"title": "Climate one", "url": f.srv.URL + "/one?utm_source=x", "snippet": "climate"},
		{"title": "Climate one again", "url": f.srv.URL + "/one", "snippet": "climate"},
		{"title": "Climate two", "url": f.srv.URL + "/two", "snippet": "climate"},
		{"title": "Climate three", "url": f.srv.URL + "/three", "snippet": "climate"},
	}
	b, _ := json.Marshal(entries)
	if err := os.WriteFile(path, b, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg := f.config()
	cfg.SearchProvider = "file"
	cfg.SearchFile = path
	cfg.MaxResults = 2
	rep, err := newApp(t, cfg).Research(context.Background(), "climate")
	if err != nil {
		t.Fatalf("research: %v", err)
	}
	if len(rep.Findings) != 2 {
		t.Fatalf("expected cap of 2 findings, got %d", len(rep.Findings))
	}
	if rep.Findings[0].Source.Rank != 1 || rep.Findings[1].Source.Rank != 3 {
		t.Fatalf("expected duplicate to be dropped keeping ranks 1 and 3, got %d and %d", rep.Findings[0].Source.Rank, rep.Findings[1].Source.Rank)
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := Defaults()
	cfg.SearchProvider = "google"
	if _, err := New(context.Background(), cfg); err == nil {
		t.Fatalf("expected google without key to fail")
	}
}

func llmEndpoint(t *testing.T, status int, body string) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/models" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv.URL + "/v1"
}

func TestNew_ChecksConfiguredModel(t *testing.T) {
	f := newFixture(t)
	listing := `{"object":"list","data":[{"id":"tiny"}]}`

	cfg := f.config()
	cfg.LLMBaseURL = llmEndpoint(t, http.StatusOK, listing)
	cfg.LLMModel = "tiny"
	a := newApp(t, cfg)
	if a.StrategyName() != "delegated+heuristic" {
		t.Fatalf("expected delegated strategy, got %q", a.StrategyName())
	}

	cfg.LLMModel = "huge"
	if _, err := New(context.Background(), cfg); !errors.Is(err, llm.ErrModelNotFound) {
		t.Fatalf("expected unknown model to fail startup, got %v", err)
	}

	cfg.LLMBaseURL = llmEndpoint(t, http.StatusNotFound, `{"error":{"message":"no such route"}}`)
	if _, err := New(context.Background(), cfg); err != nil {
		t.Fatalf("expected endpoints without a model list to be accepted, got %v", err)
	}
}
