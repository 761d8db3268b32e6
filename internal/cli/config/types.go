// Package config provides configuration management for the stormwater CLI.
//
// Configuration is loaded from a YAML file, environment variables, and
// command-line flags, with flags taking the highest precedence.
package config

// Config holds all CLI configuration options.
type Config struct {
	DataDir      string      `koanf:"data_dir"`
	ModelsDir    string      `koanf:"models_dir"`
	StatePath    string      `koanf:"state_path"`
	Verbose      bool        `koanf:"verbose"`
	OutputFormat string      `koanf:"output"`
	Eval         EvalConfig  `koanf:"eval"`
	Serve        ServeConfig `koanf:"serve"`
	ProjectRoot  string      `koanf:"-"`
}

// EvalConfig holds evaluation harness options.
type EvalConfig struct {
	Workers int `koanf:"workers"`
}

// ServeConfig holds options for the HTTP API server.
type ServeConfig struct {
	Addr  string `koanf:"addr"`
	Watch bool   `koanf:"watch"`
}

// Default configuration values.
const (
	DefaultDataDir   = "data"
	DefaultModelsDir = "models"
	DefaultStateFile = ".stormwater/state.db"
	DefaultOutput    = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultServeAddr = "127.0.0.1:8475"
)
