package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/MimeLyc/srtrans/internal/translator"
	"github.com/MimeLyc/srtrans/pkg/log"
)

// Config holds all application configuration.
// Values come from environment variables (optionally loaded from a .env file)
// with sensible defaults, then Options are applied on top.
//
// Environment Variables:
// Translation:
// - TRANSLATE_API_KEY: API key sent in x-goog-api-key (required to run a batch)
// - TRANSLATE_API_URL: endpoint override (default: translateHtml endpoint)
// - SOURCE_LANG: source language code or "auto" (default: auto)
// - TARGET_LANG: target language code (default: vi)
// - TRANSLATE_TIMEOUT: request timeout in seconds (default: 60)
//
// Chunking:
// - CHUNK_COUNT: minimum requests per file (default: 2)
// - MAX_CHUNKS: upper bound when MAX_CHUNK_CHARS forces more requests (default: 8)
// - MAX_CHUNK_CHARS: text bytes allowed per request, 0 disables (default: 0)
//
// Watch service:
// - WATCH_DIR: folder scanned on every trigger (optional)
// - CRON_EXPR: standard 5-field cron expression (default: */10 * * * *)
// - HTTP_ADDR: status API listen address (default: :8080)
//
// System:
// - DATA_DIR: directory of the history database (default: ./data)
// - LOG_LEVEL: debug, info, warn, error (default: info)
type Config struct {
	Translate TranslateConfig `json:"translate"`
	Chunk     ChunkConfig     `json:"chunk"`
	Watch     WatchConfig     `json:"watch"`
	HTTP      HTTPConfig      `json:"http"`
	System    SystemConfig    `json:"system"`
}

type TranslateConfig struct {
	APIKey     string `json:"-"`
	APIURL     string `json:"api_url" validate:"required,url"`
	SourceLang string `json:"source_lang" validate:"required,langcode|eq=auto"`
	TargetLang string `json:"target_lang" validate:"required,langcode"`
	Timeout    int    `json:"timeout" validate:"gte=1"`
}

// Job returns the per-batch job configuration
func (c TranslateConfig) Job() JobConfig {
	return JobConfig{
		APIKey:     c.APIKey,
		SourceLang: c.SourceLang,
		TargetLang: c.TargetLang,
	}
}

type ChunkConfig struct {
	Count    int `json:"count" validate:"gte=1"`
	MaxCount int `json:"max_count" validate:"gtefield=Count"`
	MaxChars int `json:"max_chars" validate:"gte=0"`
}

type WatchConfig struct {
	Dir      string `json:"dir"`
	CronExpr string `json:"cron_expr" validate:"required,cronexpr"`
}

type HTTPConfig struct {
	Addr string `json:"addr" validate:"required"`
}

type SystemConfig struct {
	DataDir  string `json:"data_dir" validate:"required"`
	LogLevel string `json:"log_level"`
}

// DBPath is the location of the batch history database
func (c *Config) DBPath() string {
	return filepath.Join(c.System.DataDir, "srtrans.db")
}

// Option is a function type for configuring Config
type Option func(*Config)

func WithAPIKey(key string) Option {
	return func(c *Config) {
		if key != "" {
			c.Translate.APIKey = key
		}
	}
}

func WithLanguages(source, target string) Option {
	return func(c *Config) {
		if source != "" {
			c.Translate.SourceLang = source
		}
		if target != "" {
			c.Translate.TargetLang = target
		}
	}
}

func WithWatchDir(dir string) Option {
	return func(c *Config) {
		if dir != "" {
			c.Watch.Dir = dir
		}
	}
}

func WithHTTPAddr(addr string) Option {
	return func(c *Config) {
		if addr != "" {
			c.HTTP.Addr = addr
		}
	}
}

// LoadDotEnv loads variables from path into the process environment without
// overriding ones already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// NewFromEnv creates a new Config instance with values from environment variables and options
func NewFromEnv(opts ...Option) (*Config, error) {
	config := &Config{
		Translate: TranslateConfig{
			APIKey:     getEnvString("TRANSLATE_API_KEY", ""),
			APIURL:     getEnvString("TRANSLATE_API_URL", translator.DefaultAPIURL),
			SourceLang: getEnvString("SOURCE_LANG", translator.AutoDetect),
			TargetLang: getEnvString("TARGET_LANG", "vi"),
			Timeout:    getEnvInt("TRANSLATE_TIMEOUT", 60),
		},
		Chunk: ChunkConfig{
			Count:    getEnvInt("CHUNK_COUNT", 2),
			MaxCount: getEnvInt("MAX_CHUNKS", 8),
			MaxChars: getEnvInt("MAX_CHUNK_CHARS", 0),
		},
		Watch: WatchConfig{
			Dir:      getEnvString("WATCH_DIR", ""),
			CronExpr: getEnvString("CRON_EXPR", "*/10 * * * *"),
		},
		HTTP: HTTPConfig{
			Addr: getEnvString("HTTP_ADDR", ":8080"),
		},
		System: SystemConfig{
			DataDir:  getEnvString("DATA_DIR", "./data"),
			LogLevel: getEnvString("LOG_LEVEL", "info"),
		},
	}

	// Apply custom options
	for _, opt := range opts {
		opt(config)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	log.Debug("Config: %+v", config.Redacted())
	return config, nil
}

// Redacted returns a copy that is safe to log: the API key is masked.
func (c Config) Redacted() Config {
	c.Translate.APIKey = maskSecret(c.Translate.APIKey)
	return c
}

// maskSecret keeps the last four characters of long secrets.
func maskSecret(s string) string {
	switch {
	case s == "":
		return ""
	case len(s) <= 8:
		return "****"
	default:
		return "****" + s[len(s)-4:]
	}
}

// validate checks the static configuration. The API key is checked per batch
// by JobConfig.Validate so read-only commands work without one.
func (c *Config) validate() error {
	return validateStruct(c)
}

// getEnvString gets a string value from environment variables with default
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer value from environment variables with default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		log.Warn("Ignoring non-integer %s=%q", key, value)
	}
	return defaultValue
}
