package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	require.Equal(t, 30*time.Second, cfg.PollInterval)
	require.Equal(t, "yahoo", cfg.DataSource.Provider)
	require.Equal(t, 8, cfg.Fetch.MaxConcurrency)
	require.Equal(t, time.Second, cfg.Fetch.RetryBackoff)
	require.Equal(t, 30, cfg.Analytics.SMAWindow)
	require.Equal(t, 16, cfg.Pipeline.QueueSize)
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
symbols: [AAPL, MSFT]
from: "2024-01-01T00:00:00Z"
out_file: out.csv
poll_interval: 1m
data_source:
  provider: vstrader
  base_url: http://localhost:9000
fetch:
  max_concurrency: -1
  retries: 2
  retry_backoff: 250ms
database:
  sqlite_path: data/tracker.db
redis:
  addr: localhost:6379
  ttl: 10m
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, []string{"AAPL", "MSFT"}, cfg.Symbols)
	require.Equal(t, time.Minute, cfg.PollInterval)
	require.Equal(t, "vstrader", cfg.DataSource.Provider)
	require.Equal(t, -1, cfg.Fetch.MaxConcurrency)
	require.Equal(t, 2, cfg.Fetch.Retries)
	require.Equal(t, 250*time.Millisecond, cfg.Fetch.RetryBackoff)
	require.Equal(t, "data/tracker.db", cfg.Database.SQLitePath)
	require.Equal(t, 10*time.Minute, cfg.Redis.TTL)
	require.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TRACKER_SYMBOLS", " GOOG , AMZN,,")
	t.Setenv("TRACKER_FROM", "2023-06-01T00:00:00Z")
	t.Setenv("TRACKER_OUT_FILE", "env.csv")
	t.Setenv("POLL_INTERVAL", "45s")
	t.Setenv("VSTRADER_BASE_URL", "http://vs.local")

	cfg, err := Load(writeFile(t, "config.yaml", "symbols: [AAPL]\n"))
	require.NoError(t, err)

	require.Equal(t, []string{"GOOG", "AMZN"}, cfg.Symbols)
	require.Equal(t, "env.csv", cfg.OutFile)
	require.Equal(t, 45*time.Second, cfg.PollInterval)
	require.Equal(t, "vstrader", cfg.DataSource.Provider)
}

func TestLoad_BadPollInterval(t *testing.T) {
	t.Setenv("POLL_INTERVAL", "soon")
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.NoError(t, err)
		cfg.Symbols = []string{"AAPL"}
		cfg.From = "2024-01-01T00:00:00Z"
		cfg.OutFile = "out.csv"
		return cfg
	}

	require.NoError(t, base().Validate())

	cfg := base()
	cfg.Symbols = nil
	require.ErrorIs(t, cfg.Validate(), ErrNoSymbols)

	cfg = base()
	cfg.From = ""
	require.ErrorIs(t, cfg.Validate(), ErrNoStart)

	cfg = base()
	cfg.From = "01/02/2024"
	require.ErrorContains(t, cfg.Validate(), "parse from")

	cfg = base()
	cfg.OutFile = ""
	require.Error(t, cfg.Validate())

	cfg = base()
	cfg.DataSource.Provider = "bloomberg"
	require.Error(t, cfg.Validate())

	cfg = base()
	cfg.DataSource.Provider = "vstrader"
	require.Error(t, cfg.Validate())
}

func TestResolveSymbols_FileWins(t *testing.T) {
	cfg := &Config{
		Symbols:    []string{"AAPL"},
		SymbolFile: writeFile(t, "symbols.txt", "MSFT, GOOG ,\nAMZN,MSFT\n"),
	}
	symbols, err := cfg.ResolveSymbols()
	require.NoError(t, err)
	require.Equal(t, []string{"MSFT", "GOOG", "AMZN"}, symbols)
}

func TestResolveSymbols_Errors(t *testing.T) {
	_, err := (&Config{SymbolFile: filepath.Join(t.TempDir(), "nope.txt")}).ResolveSymbols()
	require.ErrorContains(t, err, "read symbol file")

	_, err = (&Config{Symbols: []string{" ", ""}}).ResolveSymbols()
	require.ErrorIs(t, err, ErrNoSymbols)
}

func TestLoadEnvFile(t *testing.T) {
	require.NoError(t, LoadEnvFile(filepath.Join(t.TempDir(), ".env")))

	t.Setenv("TRACKER_TEST_DOTENV", "")
	require.NoError(t, os.Unsetenv("TRACKER_TEST_DOTENV"))
	require.NoError(t, LoadEnvFile(writeFile(t, ".env", "TRACKER_TEST_DOTENV=loaded\n")))
	require.Equal(t, "loaded", os.Getenv("TRACKER_TEST_DOTENV"))
}
