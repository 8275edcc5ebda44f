package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MimeLyc/srtrans/internal/translator"
	"github.com/MimeLyc/srtrans/pkg/log"
)

func TestNewFromEnv_Defaults(t *testing.T) {
	t.Setenv("TRANSLATE_API_KEY", "test-key")
	t.Setenv("DATA_DIR", "")
	t.Setenv("SOURCE_LANG", "")
	t.Setenv("TARGET_LANG", "")

	cfg, err := NewFromEnv()
	require.NoError(t, err)

	assert.Equal(t, translator.DefaultAPIURL, cfg.Translate.APIURL)
	assert.Equal(t, "auto", cfg.Translate.SourceLang)
	assert.Equal(t, "vi", cfg.Translate.TargetLang)
	assert.Equal(t, 60, cfg.Translate.Timeout)
	assert.Equal(t, 2, cfg.Chunk.Count)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, filepath.Join("./data", "srtrans.db"), cfg.DBPath())
	assert.Equal(t, JobConfig{APIKey: "test-key", SourceLang: "auto", TargetLang: "vi"}, cfg.Translate.Job())
}

func TestNewFromEnv_FromEnvAndOptions(t *testing.T) {
	t.Setenv("TRANSLATE_API_KEY", "env-key")
	t.Setenv("TARGET_LANG", "ja")
	t.Setenv("DATA_DIR", "/tmp/srtrans-data")
	t.Setenv("CHUNK_COUNT", "3")

	cfg, err := NewFromEnv(WithAPIKey("flag-key"), WithLanguages("en", ""), WithWatchDir("/subs"))
	require.NoError(t, err)

	assert.Equal(t, "flag-key", cfg.Translate.APIKey)
	assert.Equal(t, "en", cfg.Translate.SourceLang)
	assert.Equal(t, "ja", cfg.Translate.TargetLang)
	assert.Equal(t, 3, cfg.Chunk.Count)
	assert.Equal(t, "/subs", cfg.Watch.Dir)
	assert.Equal(t, filepath.Join("/tmp/srtrans-data", "srtrans.db"), cfg.DBPath())
}

func TestNewFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "bad target", key: "TARGET_LANG", val: "not a language"},
		{name: "auto target", key: "TARGET_LANG", val: "auto"},
		{name: "bad cron", key: "CRON_EXPR", val: "every minute"},
		{name: "zero chunks", key: "CHUNK_COUNT", val: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := NewFromEnv()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid configuration")
		})
	}
}

func TestJobConfig_Validate(t *testing.T) {
	assert.NoError(t, JobConfig{APIKey: "k", SourceLang: "auto", TargetLang: "vi"}.Validate())
	assert.NoError(t, JobConfig{APIKey: "k", SourceLang: "en", TargetLang: "zh-TW"}.Validate())

	err := JobConfig{SourceLang: "auto", TargetLang: "vi"}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "APIKey is required")

	assert.Error(t, JobConfig{APIKey: "k", SourceLang: "auto", TargetLang: "auto"}.Validate())
	assert.Error(t, JobConfig{APIKey: "k", SourceLang: "??", TargetLang: "vi"}.Validate())
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("SRTRANS_TEST_VALUE=from-file\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("SRTRANS_TEST_VALUE") })

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-file", os.Getenv("SRTRANS_TEST_VALUE"))

	assert.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))
}

func TestNewFromEnv_DebugLogMasksAPIKey(t *testing.T) {
	t.Setenv("TRANSLATE_API_KEY", "SUPERSECRET-1234")

	var buf bytes.Buffer
	prev := log.GetLogger()
	log.SetLogger(log.NewLoggerWithWriter(&buf, log.LevelDebug))
	t.Cleanup(func() { log.SetLogger(prev) })

	cfg, err := NewFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "SUPERSECRET-1234", cfg.Translate.APIKey)
	assert.Contains(t, buf.String(), "Config:")
	assert.NotContains(t, buf.String(), "SUPERSECRET")
	assert.Contains(t, buf.String(), "****1234")
}

func TestConfig_Redacted(t *testing.T) {
	cfg := Config{Translate: TranslateConfig{APIKey: "short", TargetLang: "vi"}}

	redacted := cfg.Redacted()
	assert.Equal(t, "****", redacted.Translate.APIKey)
	assert.Equal(t, "vi", redacted.Translate.TargetLang)
	assert.Equal(t, "short", cfg.Translate.APIKey)
	assert.NotContains(t, fmt.Sprintf("%+v", redacted), "short")

	assert.Empty(t, Config{}.Redacted().Translate.APIKey)
}
