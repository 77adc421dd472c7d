package gen

import (
	"errors"
	"log/slog"
	"maps"

	"github.com/syssam/pygen/schema"
)

// Option configures a generation run.
type Option func(*Config) error

// WithNaming replaces the naming rules.
func WithNaming(n Naming) Option {
	return func(c *Config) error {
		if err := n.Validate(); err != nil {
			return err
		}
		c.Naming = n
		return nil
	}
}

// WithFilters replaces the filter operators.
func WithFilters(f FilterConfig) Option {
	return func(c *Config) error {
		if err := f.Validate(); err != nil {
			return err
		}
		c.Filters = f
		return nil
	}
}

// WithLogger sets the logger warnings are reported to.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) error {
		if l == nil {
			return NewConfigError("Logger", nil, "logger cannot be nil")
		}
		c.Logger = l
		return nil
	}
}

// WithReadOnlyProperties marks properties of a container as read-only, in
// addition to the ones already configured.
func WithReadOnlyProperties(container schema.ContainerID, properties ...string) Option {
	return func(c *Config) error {
		if container.Space == "" || container.ExternalID == "" {
			return NewConfigError("ReadOnlyProperties", container.String(), "container id needs a space and an external id")
		}
		if c.ReadOnlyProperties == nil {
			c.ReadOnlyProperties = make(ReadOnlyProperties)
		} else {
			c.ReadOnlyProperties = maps.Clone(c.ReadOnlyProperties)
		}
		c.ReadOnlyProperties[container] = append(c.ReadOnlyProperties[container], properties...)
		return nil
	}
}

// WithDefaultInstanceSpace sets the space bare-string relation filters use.
func WithDefaultInstanceSpace(space string) Option {
	return func(c *Config) error {
		c.DefaultInstanceSpace = space
		return nil
	}
}

// WithTarget sets the output directory.
func WithTarget(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("Target", nil, "target directory cannot be empty")
		}
		c.Target = dir
		return nil
	}
}

// WithFormat sets the manifest format.
// Supported formats: "json", "yaml", "msgpack".
func WithFormat(format string) Option {
	return func(c *Config) error {
		switch format {
		case FormatJSON, FormatYAML, FormatMsgpack:
			c.Format = format
			return nil
		default:
			return NewConfigError("Format", format, "unsupported format; use json, yaml, or msgpack")
		}
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a Config from the defaults and the given options.
func NewConfig(opts ...Option) (*Config, error) {
	c := DefaultConfig()
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}
