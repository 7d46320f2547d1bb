package app

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// ApplyEnvOverrides overrides cfg fields with environment variables that are
// set. It runs after the config file so env wins over file, and before flags
// so explicit flags stay highest precedence.
func ApplyEnvOverrides(cfg *Config) {
	if cfg == nil {
		return
	}
	setString := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v := strings.TrimSpace(os.Getenv(k)); v != "" {
				*dst = v
				return
			}
		}
	}
	setString(&cfg.SearchProvider, "SEARCH_PROVIDER")
	setString(&cfg.GoogleAPIKey, "GOOGLE_API_KEY")
	setString(&cfg.GoogleEngineID, "GOOGLE_CSE_ID", "GOOGLE_ENGINE_ID")
	setString(&cfg.SearxURL, "SEARX_URL", "SEARXNG_URL")
	setString(&cfg.SearxKey, "SEARX_KEY", "SEARXNG_KEY")
	setString(&cfg.SearchFile, "SEARCH_FILE")
	setString(&cfg.LanguageHint, "LANGUAGE")

	setString(&cfg.LLMBaseURL, "LLM_BASE_URL")
	setString(&cfg.LLMModel, "LLM_MODEL")
	setString(&cfg.LLMAPIKey, "LLM_API_KEY", "OPENAI_API_KEY")

	setString(&cfg.ExtractMode, "EXTRACT_MODE")
	setString(&cfg.Addr, "ADDR")
	if p := strings.TrimSpace(os.Getenv("PORT")); p != "" && strings.TrimSpace(os.Getenv("ADDR")) == "" {
		cfg.Addr = ":" + strings.TrimPrefix(p, ":")
	}

	setInt := func(dst *int, key string) {
		s := strings.TrimSpace(os.Getenv(key))
		if s == "" {
			return
		}
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			log.Warn().Str("key", key).Str("value", s).Msg("ignoring invalid integer")
			return
		}
		*dst = n
	}
	setInt(&cfg.MaxResults, "MAX_RESULTS")
	setInt(&cfg.PerDomainCap, "PER_DOMAIN")

	if s := strings.TrimSpace(os.Getenv("CANDIDATE_TIMEOUT")); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 {
			cfg.CandidateTimeout = d
		} else {
			log.Warn().Str("key", "CANDIDATE_TIMEOUT").Str("value", s).Msg("ignoring invalid duration")
		}
	}

	// Booleans override when env present and truthy/falsey
	setBool := func(dst *bool, key string) {
		switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
		case "1", "true", "yes", "on":
			*dst = true
		case "0", "false", "no", "off":
			*dst = false
		}
	}
	setBool(&cfg.RespectRobots, "RESPECT_ROBOTS")
	setBool(&cfg.Verbose, "VERBOSE")
}
