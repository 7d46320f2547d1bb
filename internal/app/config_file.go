package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/hyperifyio/freeresearch/internal/search"
)

// FileConfig represents the single-file configuration schema.
type FileConfig struct {
	Search struct {
		Provider   string `yaml:"provider" json:"provider"`
		Endpoint   string `yaml:"endpoint" json:"endpoint"`
		File       string `yaml:"file" json:"file"`
		Language   string `yaml:"language" json:"language"`
		TimeFilter string `yaml:"timeFilter" json:"timeFilter"`
	} `yaml:"search" json:"search"`

	Google struct {
		Key    string `yaml:"key" json:"key"`
		Engine string `yaml:"engine" json:"engine"`
	} `yaml:"google" json:"google"`

	Searx struct {
		URL string `yaml:"url" json:"url"`
		Key string `yaml:"key" json:"key"`
	} `yaml:"searx" json:"searx"`

	LLM struct {
		BaseURL string `yaml:"base" json:"base"`
		Model   string `yaml:"model" json:"model"`
		APIKey  string `yaml:"key" json:"key"`
	} `yaml:"llm" json:"llm"`

	Max struct {
		Results   int `yaml:"results" json:"results"`
		PerDomain int `yaml:"perDomain" json:"perDomain"`
		Chars     int `yaml:"chars" json:"chars"`
	} `yaml:"max" json:"max"`

	Min struct {
		SnippetChars int `yaml:"snippetChars" json:"snippetChars"`
	} `yaml:"min" json:"min"`

	Extract struct {
		Mode          string `yaml:"mode" json:"mode"`
		RespectRobots *bool  `yaml:"respectRobots" json:"respectRobots"`
		Concurrency   int    `yaml:"concurrency" json:"concurrency"`
		UserAgent     string `yaml:"userAgent" json:"userAgent"`
	} `yaml:"extract" json:"extract"`

	Timeouts struct {
		Provider  time.Duration `yaml:"provider" json:"provider"`
		Page      time.Duration `yaml:"page" json:"page"`
		Candidate time.Duration `yaml:"candidate" json:"candidate"`
	} `yaml:"timeouts" json:"timeouts"`

	Server struct {
		Addr string `yaml:"addr" json:"addr"`
	} `yaml:"server" json:"server"`

	Verbose bool `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays every value present in fc onto cfg.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	str := func(dst *string, v string) {
		if strings.TrimSpace(v) != "" {
			*dst = v
		}
	}
	num := func(dst *int, v int) {
		if v > 0 {
			*dst = v
		}
	}
	dur := func(dst *time.Duration, v time.Duration) {
		if v > 0 {
			*dst = v
		}
	}
	str(&cfg.SearchProvider, fc.Search.Provider)
	str(&cfg.SearchEndpoint, fc.Search.Endpoint)
	str(&cfg.SearchFile, fc.Search.File)
	str(&cfg.LanguageHint, fc.Search.Language)
	str(&cfg.TimeFilter, fc.Search.TimeFilter)
	str(&cfg.GoogleAPIKey, fc.Google.Key)
	str(&cfg.GoogleEngineID, fc.Google.Engine)
	str(&cfg.SearxURL, fc.Searx.URL)
	str(&cfg.SearxKey, fc.Searx.Key)
	str(&cfg.LLMBaseURL, fc.LLM.BaseURL)
	str(&cfg.LLMModel, fc.LLM.Model)
	str(&cfg.LLMAPIKey, fc.LLM.APIKey)
	num(&cfg.MaxResults, fc.Max.Results)
	num(&cfg.PerDomainCap, fc.Max.PerDomain)
	num(&cfg.MaxChars, fc.Max.Chars)
	num(&cfg.MinSnippetChars, fc.Min.SnippetChars)
	str(&cfg.ExtractMode, fc.Extract.Mode)
	if fc.Extract.RespectRobots != nil {
		cfg.RespectRobots = *fc.Extract.RespectRobots
	}
	num(&cfg.Concurrency, fc.Extract.Concurrency)
	str(&cfg.UserAgent, fc.Extract.UserAgent)
	dur(&cfg.ProviderTimeout, fc.Timeouts.Provider)
	dur(&cfg.PageTimeout, fc.Timeouts.Page)
	dur(&cfg.CandidateTimeout, fc.Timeouts.Candidate)
	str(&cfg.Addr, fc.Server.Addr)
	if fc.Verbose {
		cfg.Verbose = true
	}
}

// ValidateConfig performs minimal schema validation for required settings.
func ValidateConfig(cfg Config) error {
	kind, err := search.ParseKind(cfg.SearchProvider)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	switch kind {
	case search.KindGoogle:
		if strings.TrimSpace(cfg.GoogleAPIKey) == "" || strings.TrimSpace(cfg.GoogleEngineID) == "" {
			return errors.New("config: google provider needs GOOGLE_API_KEY and GOOGLE_CSE_ID")
		}
	case search.KindSearxNG:
		if strings.TrimSpace(cfg.SearxURL) == "" {
			return errors.New("config: searxng provider needs SEARX_URL")
		}
	case search.KindFile:
		if strings.TrimSpace(cfg.SearchFile) == "" {
			return errors.New("config: file provider needs SEARCH_FILE")
		}
	}
	switch strings.ToLower(strings.TrimSpace(cfg.ExtractMode)) {
	case "", "heuristic", "readability":
	default:
		return fmt.Errorf("config: unknown extract mode %q", cfg.ExtractMode)
	}
	switch cfg.TimeFilter {
	case "", "d", "w", "m", "y":
	default:
		return fmt.Errorf("config: unknown time filter %q", cfg.TimeFilter)
	}
	if cfg.MaxResults < 0 || cfg.PerDomainCap < 0 || cfg.MaxChars < 0 || cfg.MinSnippetChars < 0 || cfg.Concurrency < 0 {
		return errors.New("config: negative limits are not allowed")
	}
	return nil
}
