package commands

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jceal/stormwater-classifier/internal/classifier"
	"github.com/jceal/stormwater-classifier/internal/cli/config"
	"github.com/jceal/stormwater-classifier/internal/cli/output"
	"github.com/jceal/stormwater-classifier/internal/lookup"
	"github.com/jceal/stormwater-classifier/internal/state"
	"github.com/jceal/stormwater-classifier/internal/textmodel"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Store    *state.SQLiteStore
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with an open, migrated
// store. Returns the context and a cleanup function that must be
// called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	store, err := openStore(cfg)
	if err != nil {
		return nil, nil, err
	}

	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	cleanup := func() {
		_ = store.Close()
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Store:    store,
		Renderer: r,
	}, cleanup, nil
}

// NewCommandContextWithoutStore creates a CommandContext without
// opening the state database. Useful for commands that only need
// configuration and output.
func NewCommandContextWithoutStore(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// Classifier builds the full classification pipeline: saved text
// models on top of location lookups against the store.
func (c *CommandContext) Classifier() (*classifier.Classifier, error) {
	models, err := textmodel.LoadSet(c.Cfg.ModelsDir)
	if err != nil {
		return nil, err
	}
	if models.Len() == 0 {
		c.Logger.Warn("no trained models found, text predictions default to false",
			"models_dir", c.Cfg.ModelsDir)
	}
	client := lookup.NewClient(c.Store, c.Logger)
	return classifier.New(client, models, c.Logger), nil
}

// Helper functions shared across commands

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back to environment variables.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	// Fallback: read from environment with defaults
	dataDir := getEnvOrDefault("STORMWATER_DATA_DIR", config.DefaultDataDir)
	modelsDir := getEnvOrDefault("STORMWATER_MODELS_DIR", config.DefaultModelsDir)
	statePath := getEnvOrDefault("STORMWATER_STATE_PATH", config.DefaultStateFile)
	verbose := os.Getenv("STORMWATER_VERBOSE") == "true"
	outputFormat := os.Getenv("STORMWATER_OUTPUT")

	return &config.Config{
		DataDir:      dataDir,
		ModelsDir:    modelsDir,
		StatePath:    statePath,
		Verbose:      verbose,
		OutputFormat: outputFormat,
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func openStore(cfg *config.Config) (*state.SQLiteStore, error) {
	// Ensure state directory exists
	if cfg.StatePath != ":memory:" {
		stateDir := filepath.Dir(cfg.StatePath)
		if stateDir != "." && stateDir != "" {
			if err := os.MkdirAll(stateDir, 0750); err != nil {
				return nil, err
			}
		}
	}

	store := state.NewSQLiteStore()
	if err := store.Open(cfg.StatePath); err != nil {
		return nil, err
	}
	if err := store.Migrate(); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}
