package app

import "time"

// Config holds runtime configuration for the application. It is built once at
// startup and handed to New; no component reads the environment itself.
type Config struct {
	// Search
	SearchProvider string
	// SearchEndpoint overrides the provider's public endpoint (mirrors, tests).
	SearchEndpoint string
	GoogleAPIKey   string
	GoogleEngineID string
	SearxURL       string
	SearxKey       string
	SearchFile     string
	LanguageHint   string
	// TimeFilter is the DuckDuckGo df parameter: d, w, m, y or empty.
	TimeFilter string

	// LLM
	LLMBaseURL string
	LLMModel   string
	LLMAPIKey  string

	// Selection / extraction
	MaxResults      int
	PerDomainCap    int
	MinSnippetChars int
	MaxChars        int
	ExtractMode     string
	RespectRobots   bool
	// Concurrency bounds candidate fan-out. Zero means one worker per candidate.
	Concurrency int
	UserAgent   string

	// Timeouts
	ProviderTimeout  time.Duration
	PageTimeout      time.Duration
	CandidateTimeout time.Duration

	// Server
	Addr    string
	Verbose bool
}

const (
	defaultProvider         = "duckduckgo"
	defaultTimeFilter       = "d"
	defaultMaxResults       = 5
	defaultMaxChars         = 3000
	defaultExtractMode      = "heuristic"
	defaultProviderTimeout  = 15 * time.Second
	defaultPageTimeout      = 10 * time.Second
	defaultCandidateTimeout = 12 * time.Second
	defaultAddr             = ":8080"
)

// Defaults returns the configuration used when nothing else is set.
func Defaults() Config {
	return Config{
		SearchProvider:   defaultProvider,
		TimeFilter:       defaultTimeFilter,
		MaxResults:       defaultMaxResults,
		MaxChars:         defaultMaxChars,
		ExtractMode:      defaultExtractMode,
		RespectRobots:    true,
		ProviderTimeout:  defaultProviderTimeout,
		PageTimeout:      defaultPageTimeout,
		CandidateTimeout: defaultCandidateTimeout,
		Addr:             defaultAddr,
	}
}

// withDefaults fills zero numeric and string fields so a partially built
// Config is still usable. Booleans are left alone.
func (c Config) withDefaults() Config {
	d := Defaults()
	if c.SearchProvider == "" {
		c.SearchProvider = d.SearchProvider
	}
	if c.MaxResults <= 0 {
		c.MaxResults = d.MaxResults
	}
	if c.MaxChars <= 0 {
		c.MaxChars = d.MaxChars
	}
	if c.ExtractMode == "" {
		c.ExtractMode = d.ExtractMode
	}
	if c.ProviderTimeout <= 0 {
		c.ProviderTimeout = d.ProviderTimeout
	}
	if c.PageTimeout <= 0 {
		c.PageTimeout = d.PageTimeout
	}
	if c.CandidateTimeout <= 0 {
		c.CandidateTimeout = d.CandidateTimeout
	}
	if c.Addr == "" {
		c.Addr = d.Addr
	}
	return c
}
