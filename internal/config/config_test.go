package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(configPathEnv, "")
	t.Setenv(openAIAPIKeyEnv, "")
	t.Setenv(openAIModelEnv, "")
	t.Setenv(openAIBaseURLEnv, "")
	t.Setenv(journalDSNEnv, "")
	t.Setenv(logLevelEnv, "")
	t.Setenv(feedURLEnv, "")

	cfg := Load()

	assert.Equal(t, time.Minute, cfg.Poller.Interval)
	assert.Equal(t, 1500*time.Millisecond, cfg.Poller.SyncLatency)
	assert.Equal(t, 0.7, cfg.Feed.Chance)
	assert.Equal(t, "gpt-4o-mini", cfg.Generation.Model)
	assert.Empty(t, cfg.Journal.DSN)
	assert.Equal(t, "en", cfg.Profile.Language)
}

func TestLoadMergesFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "topicbridge.yaml")
	raw := []byte(`
logging:
  level: debug
generation:
  model: file-model
  timeout: 15s
poller:
  interval: 30s
feed:
  url: https://news.example.org
  itemSelector: "li.story a"
profile:
  language: ZH
  membership: Pro
`)
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	t.Setenv(configPathEnv, path)
	t.Setenv(openAIModelEnv, "env-model")
	t.Setenv(openAIAPIKeyEnv, "sk-test")
	t.Setenv(openAIBaseURLEnv, "")
	t.Setenv(journalDSNEnv, "postgres://journal")
	t.Setenv(logLevelEnv, "")
	t.Setenv(feedURLEnv, "")

	cfg := Load()

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "env-model", cfg.Generation.Model)
	assert.Equal(t, "sk-test", cfg.Generation.APIKey)
	assert.Equal(t, 15*time.Second, cfg.Generation.Timeout)
	assert.Equal(t, "https://api.openai.com/v1", cfg.Generation.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Poller.Interval)
	assert.Equal(t, 1500*time.Millisecond, cfg.Poller.SyncLatency)
	assert.Equal(t, "https://news.example.org", cfg.Feed.URL)
	assert.Equal(t, "li.story a", cfg.Feed.ItemSelector)
	assert.Equal(t, "postgres://journal", cfg.Journal.DSN)
	assert.Equal(t, "zh", cfg.Profile.Language)
	assert.Equal(t, "Pro", cfg.Profile.Membership)
}

func TestLoadIgnoresBrokenFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("poller: [unterminated"), 0o600))
	t.Setenv(configPathEnv, path)
	t.Setenv(logLevelEnv, "warn")

	cfg := Load()

	assert.Equal(t, time.Minute, cfg.Poller.Interval)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("FEED_URL=https://dotenv.example.org\n"), 0o600))

	t.Setenv(configPathEnv, "")
	t.Setenv(feedURLEnv, "")
	require.NoError(t, os.Unsetenv(feedURLEnv))

	cfg := Load()

	assert.Equal(t, "https://dotenv.example.org", cfg.Feed.URL)
}
