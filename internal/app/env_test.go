package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadEnvFiles_LoadsKeyValues(t *testing.T) {
	t.Setenv("FOO", "")
	t.Setenv("BAR", "")
	t.Setenv("BAZ", "")

	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env.test")
	content := "\n# sample dotenv file\nFOO=alpha\nexport BAR=\"beta gamma\"\nBAZ='x=y'\nmalformed line\n"
	if err := os.WriteFile(envPath, []byte(content), 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}

	if err := LoadEnvFiles(envPath, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadEnvFiles error: %v", err)
	}
	for k, want := range map[string]string{"FOO": "alpha", "BAR": "beta gamma", "BAZ": "x=y"} {
		if got := os.Getenv(k); got != want {
			t.Fatalf("%s=%q, want %q", k, got, want)
		}
	}
}

// Later files override earlier ones when loading multiple dotenv files.
func TestLoadEnvFiles_OverrideOrder(t *testing.T) {
	t.Setenv("K", "")
	dir := t.TempDir()
	a := filepath.Join(dir, ".env.a")
	b := filepath.Join(dir, ".env.b")
	if err := os.WriteFile(a, []byte("K=first\n"), 0o600); err != nil {
		t.Fatalf("write a: %v", err)
	}
	if err := os.WriteFile(b, []byte("K=second\n"), 0o600); err != nil {
		t.Fatalf("write b: %v", err)
	}
	if err := LoadEnvFiles(a, b); err != nil {
		t.Fatalf("LoadEnvFiles error: %v", err)
	}
	if got := os.Getenv("K"); got != "second" {
		t.Fatalf("override order failed: got %q, want second", got)
	}
}

func TestApplyEnvOverrides_FromEnv(t *testing.T) {
	t.Setenv("SEARCH_PROVIDER", "google")
	t.Setenv("GOOGLE_API_KEY", "gk")
	t.Setenv("GOOGLE_CSE_ID", "")
	t.Setenv("GOOGLE_ENGINE_ID", "engine")
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("MAX_RESULTS", "7")
	t.Setenv("PER_DOMAIN", "bogus")
	t.Setenv("CANDIDATE_TIMEOUT", "3s")
	t.Setenv("RESPECT_ROBOTS", "off")
	t.Setenv("ADDR", "")
	t.Setenv("PORT", "9090")

	cfg := Defaults()
	cfg.PerDomainCap = 2
	ApplyEnvOverrides(&cfg)

	if cfg.SearchProvider != "google" || cfg.GoogleAPIKey != "gk" || cfg.GoogleEngineID != "engine" {
		t.Fatalf("google settings not applied: %+v", cfg)
	}
	if cfg.LLMAPIKey != "sk-test" {
		t.Fatalf("expected OPENAI_API_KEY alias, got %q", cfg.LLMAPIKey)
	}
	if cfg.MaxResults != 7 || cfg.PerDomainCap != 2 {
		t.Fatalf("unexpected limits %d/%d", cfg.MaxResults, cfg.PerDomainCap)
	}
	if cfg.CandidateTimeout != 3*time.Second {
		t.Fatalf("unexpected candidate timeout %v", cfg.CandidateTimeout)
	}
	if cfg.RespectRobots {
		t.Fatalf("expected RESPECT_ROBOTS=off to disable robots")
	}
	if cfg.Addr != ":9090" {
		t.Fatalf("expected PORT fallback, got %q", cfg.Addr)
	}
}

func TestApplyEnvOverrides_EmptyEnvKeepsValues(t *testing.T) {
	for _, k := range []string{"SEARCH_PROVIDER", "LLM_MODEL", "MAX_RESULTS", "RESPECT_ROBOTS", "ADDR", "PORT"} {
		t.Setenv(k, "")
	}
	cfg := Defaults()
	cfg.LLMModel = "from-file"
	ApplyEnvOverrides(&cfg)
	if cfg.SearchProvider != "duckduckgo" || cfg.LLMModel != "from-file" || !cfg.RespectRobots || cfg.Addr != ":8080" {
		t.Fatalf("unexpected overrides %+v", cfg)
	}
}
