// Package main is the freeresearch command: a web front end and one-shot CLI
// for searching the web and summarizing what the results say.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/hyperifyio/freeresearch/internal/app"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "freeresearch",
		Short: "Search the web, read the results and summarize them",
		Long: `freeresearch sends a query to a search provider, fetches every result page,
reduces it to readable text and produces a short summary with a credibility
estimate per source. Run "serve" for the web interface or "search" for a
one-shot report.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			jsonLogs, _ := cmd.Flags().GetBool("log.json")
			verbose, _ := cmd.Flags().GetBool("verbose")
			setupLogging(jsonLogs, verbose)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd)
		},
	}
	f := root.PersistentFlags()
	f.String("config", "", "YAML or JSON config file")
	f.StringSlice("env-file", []string{".env"}, "dotenv files loaded before reading the environment")
	f.Bool("log.json", false, "emit JSON log lines instead of console output")
	f.BoolP("verbose", "v", false, "verbose logging")

	f.String("search.provider", "", "search provider: duckduckgo, google, searxng, googlenews or file")
	f.String("search.endpoint", "", "override the provider endpoint URL")
	f.String("search.file", "", "JSON results file for the file provider")
	f.String("search.timeFilter", "", "DuckDuckGo time filter: d, w, m, y")
	f.String("lang", "", "language hint such as en or fi-FI")
	f.String("google.key", "", "Google Custom Search API key")
	f.String("google.engine", "", "Google Custom Search engine id")
	f.String("searx.url", "", "SearxNG base URL")
	f.String("searx.key", "", "SearxNG API key (optional)")
	f.String("llm.base", "", "OpenAI-compatible base URL")
	f.String("llm.model", "", "model name; enables delegated summaries")
	f.String("llm.key", "", "API key for the model endpoint")
	f.Int("max.results", 0, "number of findings per report")
	f.Int("max.perDomain", 0, "maximum findings per domain (0 disables)")
	f.Int("max.chars", 0, "per-page text cap in characters")
	f.String("extract.mode", "", "page extraction: heuristic or readability")
	f.Bool("robots", true, "respect robots.txt")
	f.Duration("timeout.candidate", 0, "time budget per candidate page")

	root.AddCommand(newServeCmd(), newSearchCmd(), newVersionCmd())
	return root
}

func setupLogging(jsonLogs, verbose bool) {
	zerolog.TimeFieldFormat = time.RFC3339
	if jsonLogs {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// loadConfig layers defaults, the config file, the environment and finally
// explicitly set flags.
func loadConfig(cmd *cobra.Command) (app.Config, error) {
	flags := cmd.Flags()
	envFiles, _ := flags.GetStringSlice("env-file")
	if err := app.LoadEnvFiles(envFiles...); err != nil {
		return app.Config{}, fmt.Errorf("load env files: %w", err)
	}
	cfg := app.Defaults()
	if path, _ := flags.GetString("config"); path != "" {
		fc, err := app.LoadConfigFile(path)
		if err != nil {
			return app.Config{}, fmt.Errorf("load config %s: %w", path, err)
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	app.ApplyEnvOverrides(&cfg)
	applyFlags(flags, &cfg)
	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	if err := app.ValidateConfig(cfg); err != nil {
		return app.Config{}, err
	}
	return cfg, nil
}

func applyFlags(f *pflag.FlagSet, cfg *app.Config) {
	str := func(name string, dst *string) {
		if f.Changed(name) {
			*dst, _ = f.GetString(name)
		}
	}
	num := func(name string, dst *int) {
		if f.Changed(name) {
			*dst, _ = f.GetInt(name)
		}
	}
	str("search.provider", &cfg.SearchProvider)
	str("search.endpoint", &cfg.SearchEndpoint)
	str("search.file", &cfg.SearchFile)
	str("search.timeFilter", &cfg.TimeFilter)
	str("lang", &cfg.LanguageHint)
	str("google.key", &cfg.GoogleAPIKey)
	str("google.engine", &cfg.GoogleEngineID)
	str("searx.url", &cfg.SearxURL)
	str("searx.key", &cfg.SearxKey)
	str("llm.base", &cfg.LLMBaseURL)
	str("llm.model", &cfg.LLMModel)
	str("llm.key", &cfg.LLMAPIKey)
	num("max.results", &cfg.MaxResults)
	num("max.perDomain", &cfg.PerDomainCap)
	num("max.chars", &cfg.MaxChars)
	str("extract.mode", &cfg.ExtractMode)
	if f.Changed("robots") {
		cfg.RespectRobots, _ = f.GetBool("robots")
	}
	if f.Changed("timeout.candidate") {
		cfg.CandidateTimeout, _ = f.GetDuration("timeout.candidate")
	}
	if f.Changed("verbose") {
		cfg.Verbose, _ = f.GetBool("verbose")
	}
	str("addr", &cfg.Addr)
}
