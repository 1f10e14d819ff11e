package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Content sources
	ContentDir    string
	CatalogPath   string
	BlogDir       string
	ChangelogPath string

	// Auth for admin endpoints
	AdminAPIKey string

	// Reload
	WatchContent  bool
	WatchDebounce time.Duration

	// Build pipeline
	WorkerCount  int
	MaxQueueSize int
	JobTTL       time.Duration

	// Edit links
	EditRepoURL string
	EditBranch  string

	// Search
	SearchSnippetTokens int

	// HTTP caching
	CacheMaxAge time.Duration
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		ContentDir:    envOr("CONTENT_DIR", "data/concepts"),
		CatalogPath:   envOr("CATALOG_PATH", "data/libraries.json"),
		BlogDir:       os.Getenv("BLOG_DIR"),
		ChangelogPath: os.Getenv("CHANGELOG_PATH"),

		AdminAPIKey: os.Getenv("ADMIN_API_KEY"),

		WatchContent:  envBool("WATCH_CONTENT", false),
		WatchDebounce: envDuration("WATCH_DEBOUNCE", 500*time.Millisecond),

		WorkerCount:  envInt("WORKER_COUNT", 1),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 16),
		JobTTL:       envDuration("JOB_TTL", 1*time.Hour),

		EditRepoURL: envOr("EDIT_REPO_URL", "https://github.com/utopia-php/docs"),
		EditBranch:  envOr("EDIT_BRANCH", "main"),

		SearchSnippetTokens: envInt("SEARCH_SNIPPET_TOKENS", 60),

		CacheMaxAge: envDuration("CACHE_MAX_AGE", 1*time.Hour),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 1
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 16
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.WatchDebounce <= 0 {
		cfg.WatchDebounce = 500 * time.Millisecond
	}
	if cfg.SearchSnippetTokens <= 0 {
		cfg.SearchSnippetTokens = 60
	}
	if cfg.CacheMaxAge < 0 {
		cfg.CacheMaxAge = 0
	}

	return cfg
}

func (c Config) Validate() error {
	if c.ContentDir == "" {
		return fmt.Errorf("CONTENT_DIR is required")
	}
	if c.CatalogPath == "" {
		return fmt.Errorf("CATALOG_PATH is required")
	}
	if _, err := os.Stat(c.ContentDir); err != nil {
		return fmt.Errorf("CONTENT_DIR: %w", err)
	}
	if _, err := os.Stat(c.CatalogPath); err != nil {
		return fmt.Errorf("CATALOG_PATH: %w", err)
	}
	return nil
}

// WatchPaths lists the content locations a watcher should observe.
func (c Config) WatchPaths() []string {
	paths := []string{c.ContentDir, c.CatalogPath}
	if c.BlogDir != "" {
		paths = append(paths, c.BlogDir)
	}
	if c.ChangelogPath != "" {
		paths = append(paths, c.ChangelogPath)
	}
	return paths
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

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
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
