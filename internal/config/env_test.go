package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/helixml/modelsearch/domain/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	clearEnvVars(t)

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "", cfg.DBURL)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Equal(t, "pretty", cfg.LogFormat)
	assert.Equal(t, "", cfg.ModelsFile)
	assert.Equal(t, "like", cfg.Search.Mode)
	assert.Equal(t, "boolean", cfg.Search.FulltextMode)
	assert.Equal(t, 10, cfg.Search.Limit)
}

func TestEnvDefaults_MatchConfigDefaults(t *testing.T) {
	// Struct tag defaults must be literals; keep them in step with config.go.
	clearEnvVars(t)

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, DefaultSearchLimit, cfg.Search.Limit)
	assert.Equal(t, DefaultSearchMode.String(), cfg.Search.Mode)
	assert.Equal(t, DefaultFulltextMode.String(), cfg.Search.FulltextMode)
}

func TestLoadFromEnv_OverrideValues(t *testing.T) {
	clearEnvVars(t)
	t.Setenv("DB_URL", "mysql://app:secret@db:3306/blog")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("MODELS_FILE", "/etc/modelsearch/models.yaml")
	t.Setenv("SEARCH_MODE", "fulltext")
	t.Setenv("SEARCH_FULLTEXT_MODE", "natural")
	t.Setenv("SEARCH_LIMIT", "50")

	env, err := LoadFromEnv()
	require.NoError(t, err)

	cfg, err := env.ToAppConfig()
	require.NoError(t, err)

	assert.Equal(t, "mysql://app:secret@db:3306/blog", cfg.DBURL())
	assert.Equal(t, "DEBUG", cfg.LogLevel())
	assert.Equal(t, LogFormatJSON, cfg.LogFormat())
	assert.Equal(t, "/etc/modelsearch/models.yaml", cfg.ModelsFile())
	assert.Equal(t, search.ModeFulltext, cfg.SearchMode())
	assert.Equal(t, search.FulltextNatural, cfg.FulltextMode())
	assert.Equal(t, 50, cfg.SearchLimit())
}

func TestLoadFromEnvWithPrefix(t *testing.T) {
	clearEnvVars(t)
	t.Setenv("MODELSEARCH_SEARCH_LIMIT", "7")

	cfg, err := LoadFromEnvWithPrefix("MODELSEARCH")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Search.Limit)
}

func TestLoadFromEnv_InvalidLimit(t *testing.T) {
	clearEnvVars(t)
	t.Setenv("SEARCH_LIMIT", "lots")

	_, err := LoadFromEnv()
	assert.Error(t, err)
}

func TestEnvConfig_ToAppConfig_Defaults(t *testing.T) {
	clearEnvVars(t)

	env, err := LoadFromEnv()
	require.NoError(t, err)

	cfg, err := env.ToAppConfig()
	require.NoError(t, err)
	assert.Equal(t, DefaultDBURL, cfg.DBURL(), "an unset DB_URL keeps the default")
	assert.Equal(t, NewAppConfig(), cfg)
}

func TestEnvConfig_ToAppConfig_RejectsUnknownModes(t *testing.T) {
	_, err := EnvConfig{Search: SearchEnv{Mode: "regex"}}.ToAppConfig()
	assert.ErrorIs(t, err, search.ErrUnsupportedMode)
	assert.Contains(t, err.Error(), "SEARCH_MODE")

	_, err = EnvConfig{Search: SearchEnv{FulltextMode: "fuzzy"}}.ToAppConfig()
	assert.ErrorIs(t, err, search.ErrUnknownFulltextMode)
	assert.ErrorIs(t, err, search.ErrConfiguration)
}

func TestLoadDotEnv(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	content := "DB_URL=sqlite:///from/dotenv.db\nLOG_LEVEL=DEBUG\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o644))

	clearEnvVars(t)

	require.NoError(t, LoadDotEnv(envFile))
	assert.Equal(t, "sqlite:///from/dotenv.db", os.Getenv("DB_URL"))
	assert.Equal(t, "DEBUG", os.Getenv("LOG_LEVEL"))
}

func TestLoadDotEnv_NonExistent(t *testing.T) {
	clearEnvVars(t)
	assert.NoError(t, LoadDotEnv("/nonexistent/.env"))
}

func TestLoadDotEnv_KeepsExistingEnvironment(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("LOG_LEVEL=DEBUG\n"), 0o644))

	clearEnvVars(t)
	t.Setenv("LOG_LEVEL", "WARN")

	require.NoError(t, LoadDotEnv(envFile))
	assert.Equal(t, "WARN", os.Getenv("LOG_LEVEL"))
}

func TestLoadConfig(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	content := "LOG_LEVEL=WARN\nSEARCH_MODE=fulltext\nMODELS_FILE=models.yaml\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o644))

	clearEnvVars(t)

	cfg, err := LoadConfig(envFile)
	require.NoError(t, err)

	assert.Equal(t, "WARN", cfg.LogLevel())
	assert.Equal(t, search.ModeFulltext, cfg.SearchMode())
	assert.Equal(t, "models.yaml", cfg.ModelsFile())
}

func TestLoadDotEnvFromFiles(t *testing.T) {
	dir := t.TempDir()
	env1 := filepath.Join(dir, ".env")
	env2 := filepath.Join(dir, ".env.local")
	require.NoError(t, os.WriteFile(env1, []byte("KEY1=value1\nKEY2=value2\n"), 0o644))
	require.NoError(t, os.WriteFile(env2, []byte("KEY2=override\nKEY3=value3\n"), 0o644))

	clearEnvVars(t)

	require.NoError(t, LoadDotEnvFromFiles(env1, filepath.Join(dir, "missing"), env2))
	assert.Equal(t, "value1", os.Getenv("KEY1"))
	assert.Equal(t, "value2", os.Getenv("KEY2"))
	assert.Equal(t, "value3", os.Getenv("KEY3"))
}

func TestOverloadDotEnvFromFiles(t *testing.T) {
	dir := t.TempDir()
	env1 := filepath.Join(dir, ".env")
	env2 := filepath.Join(dir, ".env.local")
	require.NoError(t, os.WriteFile(env1, []byte("KEY1=value1\nKEY2=value2\n"), 0o644))
	require.NoError(t, os.WriteFile(env2, []byte("KEY2=override\nKEY3=value3\n"), 0o644))

	clearEnvVars(t)

	require.NoError(t, OverloadDotEnvFromFiles(env1, env2))
	assert.Equal(t, "value1", os.Getenv("KEY1"))
	assert.Equal(t, "override", os.Getenv("KEY2"))
	assert.Equal(t, "value3", os.Getenv("KEY3"))
}

// clearEnvVars unsets every variable the tests touch and restores them when
// the test ends.
func clearEnvVars(t *testing.T) {
	t.Helper()

	vars := []string{
		"DB_URL",
		"LOG_LEVEL",
		"LOG_FORMAT",
		"MODELS_FILE",
		"SEARCH_MODE",
		"SEARCH_FULLTEXT_MODE",
		"SEARCH_LIMIT",
		"MODELSEARCH_SEARCH_LIMIT",
		"KEY1",
		"KEY2",
		"KEY3",
	}

	for _, v := range vars {
		t.Setenv(v, "")
		_ = os.Unsetenv(v)
	}
}
