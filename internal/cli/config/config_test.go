package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadConfig_Defaults tests that defaults apply with no file, env,
// or flags.
func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "data", filepath.Base(cfg.DataDir))
	assert.Equal(t, "models", filepath.Base(cfg.ModelsDir))
	assert.Equal(t, "state.db", filepath.Base(cfg.StatePath))
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.Equal(t, DefaultServeAddr, cfg.Serve.Addr)
	assert.False(t, cfg.Verbose)
	assert.Zero(t, cfg.Eval.Workers)
}

// TestLoadConfig_File tests loading values from a YAML config file.
func TestLoadConfig_File(t *testing.T) {
	ResetConfig()

	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "stormwater.yaml")
	cfgContent := `data_dir: reference
models_dir: trained
output: json
eval:
  workers: 4
serve:
  addr: "0.0.0.0:9000"
  watch: true
`
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfgContent), 0600))

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	// Relative paths resolve against the config file's directory.
	assert.Equal(t, filepath.Join(tmpDir, "reference"), cfg.DataDir)
	assert.Equal(t, filepath.Join(tmpDir, "trained"), cfg.ModelsDir)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, 4, cfg.Eval.Workers)
	assert.Equal(t, "0.0.0.0:9000", cfg.Serve.Addr)
	assert.True(t, cfg.Serve.Watch)
	assert.Equal(t, tmpDir, cfg.ProjectRoot)
	assert.Equal(t, cfgPath, GetConfigFileUsed())
}

// TestLoadConfig_EnvPrecedenceOverFile tests that env vars override the
// config file.
func TestLoadConfig_EnvPrecedenceOverFile(t *testing.T) {
	ResetConfig()

	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "stormwater.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("models_dir: from_file\n"), 0600))

	t.Setenv("STORMWATER_MODELS_DIR", "from_env")

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, "from_env", filepath.Base(cfg.ModelsDir), "env var should override config file")
}

// TestLoadConfig_FlagPrecedence tests that flags override env vars and
// the config file.
func TestLoadConfig_FlagPrecedence(t *testing.T) {
	ResetConfig()

	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "stormwater.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("models_dir: from_file\n"), 0600))

	t.Setenv("STORMWATER_MODELS_DIR", "from_env")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("models-dir", "", "models directory")
	require.NoError(t, flags.Set("models-dir", "from_flag"))

	cfg, err := LoadConfig(cfgPath, flags)
	require.NoError(t, err)

	assert.Equal(t, "from_flag", filepath.Base(cfg.ModelsDir), "flag value should override config file and env var")
	assert.True(t, filepath.IsAbs(cfg.ModelsDir), "flag paths should be made absolute")
}

// TestLoadConfig_FlagNotSetUsesEnv tests that unset flags fall back to
// env vars.
func TestLoadConfig_FlagNotSetUsesEnv(t *testing.T) {
	ResetConfig()

	t.Setenv("STORMWATER_MODELS_DIR", "from_env")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("models-dir", "", "models directory")
	// Note: not calling flags.Set(), so Changed is false

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)

	assert.Equal(t, "from_env", filepath.Base(cfg.ModelsDir), "env var should be used when flag is not set")
}

// TestLoadConfig_StateFlagMapsToStatePath tests the --state flag alias.
func TestLoadConfig_StateFlagMapsToStatePath(t *testing.T) {
	ResetConfig()

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("state", "", "state database path")
	require.NoError(t, flags.Set("state", "runs.db"))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)

	assert.Equal(t, "runs.db", filepath.Base(cfg.StatePath))
}

// TestLoadConfig_MemoryStateIsNotResolved tests that :memory: survives
// path resolution.
func TestLoadConfig_MemoryStateIsNotResolved(t *testing.T) {
	ResetConfig()

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("state", "", "state database path")
	require.NoError(t, flags.Set("state", ":memory:"))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)

	assert.Equal(t, ":memory:", cfg.StatePath)
}

// TestConfig_Validate tests the Config.Validate method.
func TestConfig_Validate(t *testing.T) {
	valid := &Config{
		DataDir:   "data",
		ModelsDir: "models",
		StatePath: "state.db",
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name      string
		mutate    func(*Config)
		errSubstr string
	}{
		{"empty data_dir", func(c *Config) { c.DataDir = "" }, "data_dir is required"},
		{"empty models_dir", func(c *Config) { c.ModelsDir = "" }, "models_dir is required"},
		{"empty state_path", func(c *Config) { c.StatePath = "" }, "state_path is required"},
		{"negative workers", func(c *Config) { c.Eval.Workers = -1 }, "eval.workers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := *valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

// TestConfig_ValidateDirectories tests the directory existence check.
func TestConfig_ValidateDirectories(t *testing.T) {
	cfg := &Config{DataDir: filepath.Join(t.TempDir(), "nope")}
	err := cfg.ValidateDirectories()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data directory does not exist")

	cfg.DataDir = t.TempDir()
	assert.NoError(t, cfg.ValidateDirectories())
}
