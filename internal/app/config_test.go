package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadConfigFile_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "freeresearch.yaml")
	doc := `
search:
  provider: searxng
  language: fi-FI
searx:
  url: http://searx.local
llm:
  model: local-model
  base: http://llm.local/v1
max:
  results: 8
  perDomain: 2
extract:
  mode: readability
  respectRobots: false
timeouts:
  candidate: 20s
server:
  addr: ":9000"
`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	fc, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := Defaults()
	ApplyFileConfig(&cfg, fc)

	if cfg.SearchProvider != "searxng" || cfg.SearxURL != "http://searx.local" || cfg.LanguageHint != "fi-FI" {
		t.Fatalf("search section not applied: %+v", cfg)
	}
	if cfg.LLMModel != "local-model" || cfg.LLMBaseURL != "http://llm.local/v1" {
		t.Fatalf("llm section not applied: %+v", cfg)
	}
	if cfg.MaxResults != 8 || cfg.PerDomainCap != 2 || cfg.MaxChars != defaultMaxChars {
		t.Fatalf("limits not applied: %+v", cfg)
	}
	if cfg.ExtractMode != "readability" || cfg.RespectRobots {
		t.Fatalf("extract section not applied: %+v", cfg)
	}
	if cfg.CandidateTimeout != 20*time.Second || cfg.PageTimeout != defaultPageTimeout {
		t.Fatalf("timeouts not applied: %+v", cfg)
	}
	if cfg.Addr != ":9000" {
		t.Fatalf("server addr not applied: %q", cfg.Addr)
	}
	if err := ValidateConfig(cfg); err != nil {
		t.Fatalf("expected valid config: %v", err)
	}
}

func TestLoadConfigFile_JSONAndErrors(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "c.json")
	if err := os.WriteFile(good, []byte(`{"search":{"provider":"googlenews"},"verbose":true}`), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	fc, err := LoadConfigFile(good)
	if err != nil {
		t.Fatalf("load json: %v", err)
	}
	if fc.Search.Provider != "googlenews" || !fc.Verbose {
		t.Fatalf("unexpected file config %+v", fc)
	}
	bad := filepath.Join(dir, "c.yaml")
	if err := os.WriteFile(bad, []byte("search: [unclosed"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadConfigFile(bad); err == nil || !strings.Contains(err.Error(), "parse yaml") {
		t.Fatalf("expected yaml parse error, got %v", err)
	}
	if _, err := LoadConfigFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestValidateConfig(t *testing.T) {
	cases := []struct {
		name string
		mut  func(*Config)
		ok   bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"unknown provider", func(c *Config) { c.SearchProvider = "altavista" }, false},
		{"google without key", func(c *Config) { c.SearchProvider = "google" }, false},
		{"google with key", func(c *Config) { c.SearchProvider = "google"; c.GoogleAPIKey = "k"; c.GoogleEngineID = "e" }, true},
		{"searx without url", func(c *Config) { c.SearchProvider = "searxng" }, false},
		{"file without path", func(c *Config) { c.SearchProvider = "file" }, false},
		{"bad extract mode", func(c *Config) { c.ExtractMode = "magic" }, false},
		{"bad time filter", func(c *Config) { c.TimeFilter = "decade" }, false},
		{"negative limit", func(c *Config) { c.PerDomainCap = -1 }, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Defaults()
			tc.mut(&cfg)
			err := ValidateConfig(cfg)
			if tc.ok && err != nil {
				t.Fatalf("expected valid, got %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestWithDefaults(t *testing.T) {
	cfg := Config{MaxResults: 2}.withDefaults()
	if cfg.MaxResults != 2 || cfg.MaxChars != defaultMaxChars || cfg.SearchProvider != defaultProvider || cfg.CandidateTimeout != defaultCandidateTimeout {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}
