package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var (
	// ErrNoSymbols is returned when neither a symbol list nor a symbol file is configured.
	ErrNoSymbols = errors.New("no symbols configured: pass --symbols or --symbol-file")
	// ErrNoStart is returned when no start timestamp is configured.
	ErrNoStart = errors.New("no start timestamp configured: pass --from")
)

// Config holds all application configuration.
type Config struct {
	Symbols      []string      `yaml:"symbols"`
	SymbolFile   string        `yaml:"symbol_file"`
	From         string        `yaml:"from"`
	OutFile      string        `yaml:"out_file"`
	PollInterval time.Duration `yaml:"poll_interval"`
	DataSource   struct {
		Provider string `yaml:"provider"` // yahoo, vstrader or static
		BaseURL  string `yaml:"base_url"`
		APIKey   string `yaml:"api_key"`
	} `yaml:"data_source"`
	Fetch struct {
		MaxConcurrency int           `yaml:"max_concurrency"` // negative disables the bound
		Retries        int           `yaml:"retries"`
		RetryBackoff   time.Duration `yaml:"retry_backoff"`
	} `yaml:"fetch"`
	Analytics struct {
		SMAWindow int `yaml:"sma_window"`
	} `yaml:"analytics"`
	Pipeline struct {
		QueueSize int `yaml:"queue_size"`
	} `yaml:"pipeline"`
	Database struct {
		SQLitePath  string `yaml:"sqlite_path"`
		PostgresDSN string `yaml:"postgres_dsn"`
	} `yaml:"database"`
	Redis struct {
		Addr     string        `yaml:"addr"`
		Password string        `yaml:"password"`
		DB       int           `yaml:"db"`
		TTL      time.Duration `yaml:"ttl"`
	} `yaml:"redis"`
	Proxy string `yaml:"proxy"`
}

// LoadEnvFile loads KEY=VALUE pairs from path into the environment. A missing file is not an error.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TRACKER_SYMBOLS"); v != "" {
		cfg.Symbols = SplitSymbols(v)
	}
	if v := os.Getenv("TRACKER_SYMBOL_FILE"); v != "" {
		cfg.SymbolFile = v
	}
	if v := os.Getenv("TRACKER_FROM"); v != "" {
		cfg.From = v
	}
	if v := os.Getenv("TRACKER_OUT_FILE"); v != "" {
		cfg.OutFile = v
	}
	if v := os.Getenv("POLL_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("POLL_INTERVAL: %w", err)
		}
		cfg.PollInterval = d
	}
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("VSTRADER_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("VSTRADER_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("FETCH_MAX_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Fetch.MaxConcurrency = n
		}
	}
	if v := os.Getenv("FETCH_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Fetch.Retries = n
		}
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Database.PostgresDSN = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.PollInterval == 0 {
		cfg.PollInterval = 30 * time.Second
	}
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = "yahoo"
		if cfg.DataSource.BaseURL != "" {
			cfg.DataSource.Provider = "vstrader"
		}
	}
	if cfg.Fetch.MaxConcurrency == 0 {
		cfg.Fetch.MaxConcurrency = 8
	}
	if cfg.Fetch.RetryBackoff == 0 {
		cfg.Fetch.RetryBackoff = time.Second
	}
	if cfg.Analytics.SMAWindow == 0 {
		cfg.Analytics.SMAWindow = 30
	}
	if cfg.Pipeline.QueueSize == 0 {
		cfg.Pipeline.QueueSize = 16
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if len(c.Symbols) == 0 && c.SymbolFile == "" {
		return ErrNoSymbols
	}
	if c.From == "" {
		return ErrNoStart
	}
	if _, err := c.Start(); err != nil {
		return err
	}
	if c.OutFile == "" {
		return fmt.Errorf("out_file is required")
	}
	if c.PollInterval < time.Second {
		return fmt.Errorf("poll_interval must be at least 1s, got %v", c.PollInterval)
	}
	switch c.DataSource.Provider {
	case "yahoo", "static":
	case "vstrader":
		if c.DataSource.BaseURL == "" {
			return fmt.Errorf("data_source.base_url is required for vstrader")
		}
	default:
		return fmt.Errorf("unknown data_source.provider %q", c.DataSource.Provider)
	}
	if c.Fetch.Retries < 0 {
		return fmt.Errorf("fetch.retries must not be negative")
	}
	if c.Analytics.SMAWindow < 0 {
		return fmt.Errorf("analytics.sma_window must not be negative")
	}
	return nil
}

// Start parses the configured ISO-8601 start timestamp.
func (c *Config) Start() (time.Time, error) {
	t, err := time.Parse(time.RFC3339, c.From)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse from %q: %w", c.From, err)
	}
	return t, nil
}

// ResolveSymbols returns the symbol set. A symbol file takes precedence over the inline list.
func (c *Config) ResolveSymbols() ([]string, error) {
	symbols := c.Symbols
	if c.SymbolFile != "" {
		data, err := os.ReadFile(c.SymbolFile)
		if err != nil {
			return nil, fmt.Errorf("read symbol file: %w", err)
		}
		symbols = SplitSymbols(string(data))
	}
	symbols = dedupe(symbols)
	if len(symbols) == 0 {
		return nil, ErrNoSymbols
	}
	return symbols, nil
}

// SplitSymbols splits a comma-separated list, trimming whitespace and dropping empties.
func SplitSymbols(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func dedupe(symbols []string) []string {
	seen := make(map[string]struct{}, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
