package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Document sources
	DocDir   string
	CacheDir string

	// Auth (optional; empty disables the bearer check)
	APIKey string

	// Matching
	MatchMode      string // "lexical" or "fuzzy"
	MatchThreshold float64
	MatchTopK      int

	// Segmentation
	FallbackWindowWords int

	// Normalizer rule table (path to JSON; empty uses built-in rules)
	RulesPath string

	// Remote fetch
	FetchTimeout  time.Duration
	MaxFetchBytes int64

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Job state
	JobTTL time.Duration
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		DocDir:   envOr("DOC_DIR", "./documents"),
		CacheDir: envOr("CACHE_DIR", "./doc_cache"),

		APIKey: os.Getenv("DOCCHAT_API_KEY"),

		MatchMode:      envOr("MATCH_MODE", "fuzzy"),
		MatchThreshold: envFloat("MATCH_THRESHOLD", 0.2),
		MatchTopK:      envInt("MATCH_TOP_K", 3),

		FallbackWindowWords: envInt("FALLBACK_WINDOW_WORDS", 400),

		RulesPath: os.Getenv("NORMALIZE_RULES"),

		FetchTimeout:  envDuration("FETCH_TIMEOUT", 20*time.Second),
		MaxFetchBytes: envInt64("MAX_FETCH_BYTES", 52428800), // 50MB

		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),
	}

	if cfg.MatchThreshold <= 0 || cfg.MatchThreshold > 1 {
		cfg.MatchThreshold = 0.2
	}
	if cfg.MatchTopK <= 0 {
		cfg.MatchTopK = 3
	}
	if cfg.FallbackWindowWords <= 0 {
		cfg.FallbackWindowWords = 400
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxFetchBytes <= 0 {
		cfg.MaxFetchBytes = 52428800
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.MatchMode != "lexical" && c.MatchMode != "fuzzy" {
		return fmt.Errorf("MATCH_MODE must be \"lexical\" or \"fuzzy\", got %q", c.MatchMode)
	}
	if c.CacheDir == "" {
		return fmt.Errorf("CACHE_DIR is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
