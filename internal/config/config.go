package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vango-dev/vform/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "vform.json"

	// DefaultPort is the default playground port.
	DefaultPort = 4400

	// DefaultHost is the default playground host.
	DefaultHost = "localhost"

	// DefaultNamespace is the default Prometheus namespace.
	DefaultNamespace = "vform"

	// DefaultMetricsPath is where the playground serves metrics.
	DefaultMetricsPath = "/metrics"

	// DefaultMaxAttempts is how often a terminal prompt is repeated for an
	// invalid answer.
	DefaultMaxAttempts = 3
)

// Output formats for replayed frames.
const (
	OutputText = "text"
	OutputJSON = "json"
)

// Config represents the complete vform.json configuration.
type Config struct {
	// Log configures the slog handler.
	Log LogConfig `json:"log"`

	// Playground configures the HTTP playground.
	Playground PlaygroundConfig `json:"playground"`

	// Metrics configures the Prometheus observer.
	Metrics MetricsConfig `json:"metrics"`

	// Tracing configures OpenTelemetry spans around submissions.
	Tracing TracingConfig `json:"tracing"`

	// Prompt configures terminal sessions.
	Prompt PromptConfig `json:"prompt"`

	// Output is the default output format of the run command.
	Output string `json:"output,omitempty"`

	// configPath is the path the config was loaded from.
	configPath string
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty"`
}

// PlaygroundConfig configures the HTTP playground.
type PlaygroundConfig struct {
	Host string `json:"host,omitempty"`
	Port int    `json:"port,omitempty"`
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled"`
	Namespace string `json:"namespace,omitempty"`
	Path      string `json:"path,omitempty"`
}

// TracingConfig configures submit tracing.
type TracingConfig struct {
	Enabled    bool   `json:"enabled"`
	TracerName string `json:"tracerName,omitempty"`
}

// PromptConfig configures terminal sessions.
type PromptConfig struct {
	// MaxAttempts limits how often an invalid field is asked. Zero means
	// no limit.
	MaxAttempts int `json:"maxAttempts"`

	// NoConfirm skips the confirmation before submitting.
	NoConfirm bool `json:"noConfirm,omitempty"`
}

// New creates a Config with default values.
func New() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Playground: PlaygroundConfig{
			Host: DefaultHost,
			Port: DefaultPort,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: DefaultNamespace,
			Path:      DefaultMetricsPath,
		},
		Tracing: TracingConfig{
			TracerName: "vform",
		},
		Prompt: PromptConfig{
			MaxAttempts: DefaultMaxAttempts,
		},
		Output: OutputText,
	}
}

// Load reads vform.json from dir.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadOrDefault reads vform.json from dir, or returns the defaults when the
// file does not exist.
func LoadOrDefault(dir string) (*Config, error) {
	if !Exists(dir) {
		return New(), nil
	}
	return Load(dir)
}

// LoadFile reads configuration from the specified file path. Keys missing
// from the file keep their defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("V001").
				WithDetail("No " + filepath.Base(path) + " found in " + filepath.Dir(path))
		}
		return nil, errors.New("V002").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("V002").
			Wrap(err).
			WithSuggestion("Check that " + filepath.Base(path) + " is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()
	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("V002").Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.New("V002").Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in values a file set to empty.
func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Playground.Host == "" {
		c.Playground.Host = DefaultHost
	}
	if c.Playground.Port == 0 {
		c.Playground.Port = DefaultPort
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = "vform"
	}
	if c.Output == "" {
		c.Output = OutputText
	}
}

// Validate checks that every value is in its allowed range.
func (c *Config) Validate() error {
	if _, ok := parseLevel(c.Log.Level); !ok {
		return errors.New("V003").
			WithDetail("log.level must be debug, info, warn or error, got " + strconv.Quote(c.Log.Level))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.New("V003").
			WithDetail("log.format must be text or json, got " + strconv.Quote(c.Log.Format))
	}
	if c.Playground.Port < 0 || c.Playground.Port > 65535 {
		return errors.New("V003").
			WithDetail("playground.port must be between 0 and 65535")
	}
	if !strings.HasPrefix(c.Metrics.Path, "/") {
		return errors.New("V003").
			WithDetail("metrics.path must start with /")
	}
	if c.Prompt.MaxAttempts < 0 {
		return errors.New("V003").
			WithDetail("prompt.maxAttempts must not be negative")
	}
	switch c.Output {
	case OutputText, OutputJSON:
	default:
		return errors.New("V032").
			WithDetail("output must be text or json, got " + strconv.Quote(c.Output))
	}
	return nil
}

// PlaygroundAddress returns the listen address of the playground.
func (c *Config) PlaygroundAddress() string {
	return c.Playground.Host + ":" + strconv.Itoa(c.Playground.Port)
}

// SlogLevel returns the configured log level. Unknown levels map to info.
func (c *Config) SlogLevel() slog.Level {
	level, _ := parseLevel(c.Log.Level)
	return level
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}
