// Package config loads the configuration of the pygen command line.
package config

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/syssam/pygen/compiler/gen"
	"github.com/syssam/pygen/schema"
)

// Defaults.
const (
	DefaultOutput    = "generated"
	DefaultFormat    = gen.FormatJSON
	DefaultLogFormat = "text"
	DefaultLogLevel  = "info"
	EnvPrefix        = "PYGEN_"
)

// ConfigFiles are the names searched in the working directory when no
// config file is given.
var ConfigFiles = []string{"pygen.yaml", "pygen.yml"}

// loggerKey is used to store the logger in context.
type loggerKey struct{}

// Model identifies the data model GraphQL inputs are loaded into.
type Model struct {
	Space      string `koanf:"space"`
	ExternalID string `koanf:"external_id"`
	Version    string `koanf:"version"`
}

// ID returns the data model id.
func (m Model) ID() schema.DataModelID {
	return schema.DataModelID{Space: m.Space, ExternalID: m.ExternalID, Version: m.Version}
}

// ReadOnly is a list of computed properties of a container.
type ReadOnly struct {
	Space      string   `koanf:"space"`
	Container  string   `koanf:"container"`
	Properties []string `koanf:"properties"`
}

// Config is the configuration of a command line run.
type Config struct {
	Inputs               []string         `koanf:"inputs"`
	Output               string           `koanf:"output"`
	Format               string           `koanf:"format"`
	Model                Model            `koanf:"model"`
	DefaultInstanceSpace string           `koanf:"default_instance_space"`
	Naming               gen.Naming       `koanf:"naming"`
	Filters              gen.FilterConfig `koanf:"filters"`
	ReadOnly             []ReadOnly       `koanf:"read_only"`
	LogFormat            string           `koanf:"log_format"`
	LogLevel             string           `koanf:"log_level"`
	Verbose              bool             `koanf:"verbose"`

	// File is the config file that was loaded, if any.
	File string `koanf:"-"`
}

// findConfigFile returns the explicit path or the first default config file
// that exists.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range ConfigFiles {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// flagKey maps a flag name to its config key.
func flagKey(name string) string {
	switch name {
	case "input":
		return "inputs"
	case "model":
		return "model.external_id"
	case "model-space":
		return "model.space"
	case "model-version":
		return "model.version"
	}
	return strings.ReplaceAll(name, "-", "_")
}

// Load reads the configuration. Precedence from low to high: defaults, the
// config file, PYGEN_ environment variables and explicitly set flags.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]any{
		"output":     DefaultOutput,
		"format":     DefaultFormat,
		"log_format": DefaultLogFormat,
		"log_level":  DefaultLogLevel,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	used := findConfigFile(cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// 3. Environment: PYGEN_DEFAULT_INSTANCE_SPACE -> default_instance_space,
	// PYGEN_MODEL__SPACE -> model.space
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed || f.Name == "config" {
				return "", nil
			}
			return flagKey(f.Name), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	cfg := Config{
		Naming:  gen.DefaultNaming(),
		Filters: gen.DefaultFilters(),
	}
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.File = used
	return &cfg, nil
}

// Options converts the configuration to generator options.
func (c *Config) Options(logger *slog.Logger) []gen.Option {
	opts := []gen.Option{
		gen.WithNaming(c.Naming),
		gen.WithFilters(c.Filters),
		gen.WithDefaultInstanceSpace(c.DefaultInstanceSpace),
		gen.WithTarget(c.Output),
		gen.WithFormat(c.Format),
	}
	if logger != nil {
		opts = append(opts, gen.WithLogger(logger))
	}
	for _, r := range c.ReadOnly {
		opts = append(opts, gen.WithReadOnlyProperties(schema.ContainerID{Space: r.Space, ExternalID: r.Container}, r.Properties...))
	}
	return opts
}

// GenConfig builds the generator config.
func (c *Config) GenConfig(logger *slog.Logger) (*gen.Config, error) {
	return gen.NewConfig(c.Options(logger)...)
}

// NewLogger returns a logger writing to w in the configured format.
func (c *Config) NewLogger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	if c.Verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	switch c.LogFormat {
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q: use text or json", c.LogFormat)
	}
}

// WithLogger returns a context carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.DiscardHandler)
}
