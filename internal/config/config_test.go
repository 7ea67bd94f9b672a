package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs the test from an empty directory with no user config.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	return dir
}

func TestDefault_IsValid(t *testing.T) {
	assert.Empty(t, Default().Validate())
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)
	v := viper.New()
	require.NoError(t, Init(v, ""))

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, 20, cfg.History.MaxResults)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, 2, cfg.Output.Indent)
	assert.NotEmpty(t, cfg.DataDir)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "partwise.yaml")
	content := `
data_dir: /tmp/partwise-test
log:
  level: debug
history:
  enabled: false
output:
  format: text
  indent: 4
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	v := viper.New()
	require.NoError(t, Init(v, path))
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/partwise-test", cfg.DataDir)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format, "unset keys keep defaults")
	assert.False(t, cfg.History.Enabled)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.Equal(t, 4, cfg.Output.Indent)
}

func TestLoad_SearchesConfigDir(t *testing.T) {
	dir := isolate(t)
	cfgDir := filepath.Join(dir, "xdg", "partwise")
	require.NoError(t, os.MkdirAll(cfgDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfgDir, "config.yaml"), []byte("log:\n  format: json\n"), 0o644))

	v := viper.New()
	require.NoError(t, Init(v, ""))
	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestInit_MissingExplicitFile(t *testing.T) {
	dir := isolate(t)
	err := Init(viper.New(), filepath.Join(dir, "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("PARTWISE_LOG_LEVEL", "warn")
	t.Setenv("PARTWISE_HISTORY_MAX_RESULTS", "50")
	t.Setenv("PARTWISE_DATA_DIR", "/var/lib/partwise")

	v := viper.New()
	require.NoError(t, Init(v, ""))
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 50, cfg.History.MaxResults)
	assert.Equal(t, "/var/lib/partwise", cfg.DataDir)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PARTWISE_OUTPUT_FORMAT=text\n"), 0o644))
	// godotenv sets the variable directly; register cleanup through t.Setenv.
	t.Setenv("PARTWISE_OUTPUT_FORMAT", "")
	require.NoError(t, os.Unsetenv("PARTWISE_OUTPUT_FORMAT"))

	v := viper.New()
	require.NoError(t, Init(v, ""))
	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.Output.Format)
}

func TestLoadDotEnv_DoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("PARTWISE_TEST_KEY=from-file\n"), 0o644))
	t.Setenv("PARTWISE_TEST_KEY", "from-env")

	require.NoError(t, LoadDotEnv(path, filepath.Join(dir, "missing.env")))
	assert.Equal(t, "from-env", os.Getenv("PARTWISE_TEST_KEY"))
}

func TestLoad_ValidationErrors(t *testing.T) {
	isolate(t)
	v := viper.New()
	require.NoError(t, Init(v, ""))
	v.Set("log.level", "verbose")
	v.Set("output.indent", 20)
	v.Set("history.max_results", 0)

	_, err := Load(v)
	require.Error(t, err)

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 3)
	assert.True(t, strings.HasPrefix(err.Error(), "3 validation errors:"))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"bad log level", func(c *Config) { c.Log.Level = "trace" }, "log.level"},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"empty data dir with history", func(c *Config) { c.DataDir = " " }, "data_dir"},
		{"max results too high", func(c *Config) { c.History.MaxResults = 501 }, "history.max_results"},
		{"bad output format", func(c *Config) { c.Output.Format = "yaml" }, "output.format"},
		{"negative indent", func(c *Config) { c.Output.Indent = -1 }, "output.indent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			errs := cfg.Validate()
			require.Len(t, errs, 1)
			assert.Equal(t, tt.field, errs[0].Field)
		})
	}
}

func TestValidate_EmptyDataDirWithoutHistory(t *testing.T) {
	cfg := Default()
	cfg.DataDir = ""
	cfg.History.Enabled = false
	assert.Empty(t, cfg.Validate())
}

func TestValidationError_Message(t *testing.T) {
	e := ValidationError{Field: "log.level", Value: "x", Message: "must be one of debug"}
	assert.Equal(t, "log.level: must be one of debug (got: x)", e.Error())
	assert.Equal(t, "", ValidationErrors(nil).Error())
}
