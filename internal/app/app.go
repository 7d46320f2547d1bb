package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/hyperifyio/freeresearch/internal/aggregate"
	"github.com/hyperifyio/freeresearch/internal/extract"
	"github.com/hyperifyio/freeresearch/internal/fetch"
	"github.com/hyperifyio/freeresearch/internal/llm"
	"github.com/hyperifyio/freeresearch/internal/report"
	"github.com/hyperifyio/freeresearch/internal/robots"
	"github.com/hyperifyio/freeresearch/internal/search"
	sel "github.com/hyperifyio/freeresearch/internal/select"
	"github.com/hyperifyio/freeresearch/internal/summarize"
)

// ErrEmptyQuery is returned for blank queries.
var ErrEmptyQuery = errors.New("empty query")

// ErrNoResults is returned when the provider yields nothing usable. The web
// layer renders it as a "no results" page rather than an error.
var ErrNoResults = errors.New("no results")

const (
	robotsTimeout     = 5 * time.Second
	modelCheckTimeout = 5 * time.Second
)

// App wires providers, extraction and summarization for research queries.
type App struct {
	cfg        Config
	provider   search.Provider
	summarizer summarize.Summarizer
	extractor  extract.Extractor
	pages      *fetch.Client
	robots     *fetch.Client
	httpClient *http.Client
}

// New validates cfg and builds every component. When a model endpoint is
// configured, its model list is checked under ctx; an endpoint that lists
// models but not the configured one is a configuration error.
func New(ctx context.Context, cfg Config) (*App, error) {
	cfg = cfg.withDefaults()
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	httpClient := fetch.NewHTTPClient()
	ua := cfg.UserAgent
	if ua == "" {
		ua = fetch.DefaultUserAgent
	}
	provider, err := newProvider(cfg, &fetch.Client{
		HTTPClient:        httpClient,
		UserAgent:         ua,
		PerRequestTimeout: cfg.ProviderTimeout,
	})
	if err != nil {
		return nil, err
	}
	sc := summarize.Config{
		Model:      cfg.LLMModel,
		BaseURL:    cfg.LLMBaseURL,
		APIKey:     cfg.LLMAPIKey,
		HTTPClient: httpClient,
	}
	if sc.Delegates() {
		client := llm.New(cfg.LLMBaseURL, cfg.LLMAPIKey, httpClient)
		if err := checkModel(ctx, client, cfg.LLMModel); err != nil {
			return nil, err
		}
		sc.Client = client
	}
	a := &App{
		cfg:        cfg,
		provider:   provider,
		httpClient: httpClient,
		summarizer: summarize.Select(sc),
		extractor: extract.ParseMode(cfg.ExtractMode),
		pages: &fetch.Client{
			HTTPClient:        httpClient,
			UserAgent:         ua,
			PerRequestTimeout: cfg.PageTimeout,
			MaxConcurrent:     cfg.Concurrency,
		},
		robots: &fetch.Client{
			HTTPClient:        httpClient,
			UserAgent:         ua,
			MaxAttempts:       1,
			PerRequestTimeout: robotsTimeout,
		},
	}
	log.Info().
		Str("provider", a.provider.Name()).
		Str("strategy", a.summarizer.Name()).
		Str("extract", cfg.ExtractMode).
		Bool("robots", cfg.RespectRobots).
		Msg("research pipeline ready")
	return a, nil
}

func checkModel(ctx context.Context, client llm.Client, model string) error {
	ctx, cancel := context.WithTimeout(ctx, modelCheckTimeout)
	defer cancel()
	err := llm.CheckModel(ctx, client, model)
	switch {
	case errors.Is(err, llm.ErrModelNotFound):
		return fmt.Errorf("llm: %w", err)
	case err != nil:
		log.Warn().Err(err).Str("model", model).Msg("could not list models; continuing")
	}
	return nil
}

func newProvider(cfg Config, client *fetch.Client) (search.Provider, error) {
	kind, err := search.ParseKind(cfg.SearchProvider)
	if err != nil {
		return nil, err
	}
	loc := search.ParseLocale(cfg.LanguageHint)
	switch kind {
	case search.KindGoogle:
		return &search.GoogleCSE{Endpoint: cfg.SearchEndpoint, APIKey: cfg.GoogleAPIKey, EngineID: cfg.GoogleEngineID, Client: client, Locale: loc}, nil
	case search.KindSearxNG:
		return &search.SearxNG{BaseURL: cfg.SearxURL, APIKey: cfg.SearxKey, Client: client, Locale: loc}, nil
	case search.KindGoogleNews:
		return &search.GoogleNews{Endpoint: cfg.SearchEndpoint, Client: client, Locale: loc}, nil
	case search.KindFile:
		return &search.FileProvider{Path: cfg.SearchFile}, nil
	}
	return &search.DuckDuckGo{Endpoint: cfg.SearchEndpoint, Client: client, Locale: loc, TimeFilter: cfg.TimeFilter}, nil
}

// Config returns the effective configuration after defaults.
func (a *App) Config() Config { return a.cfg }

// ProviderName names the configured search backend.
func (a *App) ProviderName() string { return a.provider.Name() }

// StrategyName names the configured summarizer.
func (a *App) StrategyName() string { return a.summarizer.Name() }

// Close releases idle connections held by the shared HTTP client.
func (a *App) Close() {
	a.httpClient.CloseIdleConnections()
}

// Research runs one query end to end. Per-candidate failures become degraded
// findings; only a blank query or a provider failure returns an error, and
// the partially filled report is returned alongside ErrNoResults.
func (a *App) Research(ctx context.Context, query string) (report.Report, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return report.Report{}, ErrEmptyQuery
	}
	rep := report.Report{
		Query:       q,
		GeneratedAt: time.Now().UTC(),
		Provider:    a.provider.Name(),
		Strategy:    a.summarizer.Name(),
	}

	pctx, cancel := context.WithTimeout(ctx, a.cfg.ProviderTimeout)
	// Ask for one extra so dedupe and caps still leave a full page.
	results, err := a.provider.Search(pctx, q, a.cfg.MaxResults+1)
	cancel()
	if err != nil {
		log.Warn().Err(err).Str("provider", rep.Provider).Str("query", q).Msg("search failed")
		return rep, fmt.Errorf("%w: %w", ErrNoResults, err)
	}
	candidates := sel.Select(aggregate.Normalize(results), sel.Options{
		MaxTotal:        a.cfg.MaxResults,
		PerDomain:       a.cfg.PerDomainCap,
		MinSnippetChars: a.cfg.MinSnippetChars,
	})
	if len(candidates) == 0 {
		return rep, ErrNoResults
	}
	log.Debug().Str("query", q).Int("results", len(results)).Int("candidates", len(candidates)).Msg("candidates selected")

	pages := &extract.Pages{Fetcher: a.pages, Extractor: a.extractor, MaxChars: a.cfg.MaxChars}
	if a.cfg.RespectRobots {
		pages.Robots = &robots.Checker{Fetcher: a.robots, UserAgent: "freeresearch"}
	}

	findings := make([]report.Finding, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	limit := a.cfg.Concurrency
	if limit <= 0 {
		limit = len(candidates)
	}
	g.SetLimit(limit)
	for i, c := range candidates {
		g.Go(func() error {
			findings[i] = a.investigate(gctx, q, c, pages)
			return nil
		})
	}
	_ = g.Wait()
	rep.Findings = findings
	if err := ctx.Err(); err != nil {
		return rep, err
	}
	return rep, nil
}

// investigate extracts and summarizes one candidate within the per-candidate
// deadline, degrading to the snippet on any failure.
func (a *App) investigate(ctx context.Context, query string, c search.Result, pages *extract.Pages) report.Finding {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.CandidateTimeout)
	defer cancel()

	content := pages.Extract(ctx, c)
	if content.Status != extract.StatusOK {
		log.Warn().Str("url", c.URL).Str("status", string(content.Status)).Msg("extraction failed; using snippet")
		return summarize.Degraded(c, content.Status)
	}
	f, err := a.summarizer.Summarize(ctx, summarize.Input{Query: query, Source: c, Content: content})
	if err != nil {
		log.Warn().Err(err).Str("url", c.URL).Msg("summarization failed; using snippet")
		return summarize.Degraded(c, content.Status)
	}
	return f
}
