package gen

import (
	"log/slog"
	"maps"
	"slices"

	"github.com/syssam/pygen/schema"
)

// Operator is a comparison a generated filter method supports.
type Operator string

// Supported filter operators.
const (
	Equals Operator = "equals"
	In     Operator = "in"
	Prefix Operator = "prefix"
	Range  Operator = "range"
)

// Valid reports if o is a known operator.
func (o Operator) Valid() bool {
	return o == Equals || o == In || o == Prefix || o == Range
}

// FilterConfig maps a field type to the operators its filter parameters
// support.
type FilterConfig struct {
	// ByType holds the operators of primitive fields and single direct
	// relations (keyed by schema.DirectRelation).
	ByType map[schema.TypeTag][]Operator `json:"byType" yaml:"byType" koanf:"by_type"`
	// ExternalID and Space are the operators of the synthetic identity
	// fields every node and edge carries.
	ExternalID []Operator `json:"externalId" yaml:"externalId" koanf:"external_id"`
	Space      []Operator `json:"space" yaml:"space" koanf:"space"`
}

// DefaultFilters returns the filter operators used when none are configured.
func DefaultFilters() FilterConfig {
	return FilterConfig{
		ByType: map[schema.TypeTag][]Operator{
			schema.Int32:          {Equals, In, Range},
			schema.Int64:          {Equals, In, Range},
			schema.Float32:        {Range},
			schema.Float64:        {Range},
			schema.Boolean:        {Equals},
			schema.Text:           {Equals, In, Prefix},
			schema.Timestamp:      {Range},
			schema.Date:           {Range},
			schema.JSON:           nil,
			schema.DirectRelation: {Equals, In},
		},
		ExternalID: []Operator{Prefix},
		Space:      []Operator{Equals, In},
	}
}

// Operators returns the operators configured for tag.
func (f FilterConfig) Operators(tag schema.TypeTag) []Operator {
	return f.ByType[tag]
}

// Validate checks that every configured operator is known.
func (f FilterConfig) Validate() error {
	for _, tag := range slices.Sorted(maps.Keys(f.ByType)) {
		for _, op := range f.ByType[tag] {
			if !op.Valid() {
				return NewConfigError("filters.by_type."+string(tag), op, "use equals, in, prefix or range")
			}
		}
	}
	for _, op := range slices.Concat(f.ExternalID, f.Space) {
		if !op.Valid() {
			return NewConfigError("filters", op, "use equals, in, prefix or range")
		}
	}
	return nil
}

// ReadOnlyProperties lists container properties the service computes. Fields
// mapped to them are never written.
type ReadOnlyProperties map[schema.ContainerID][]string

// Contains reports if the container property is read-only.
func (r ReadOnlyProperties) Contains(container schema.ContainerID, property string) bool {
	return slices.Contains(r[container], property)
}

// DefaultReadOnlyProperties returns the read-only properties of the core
// data model.
func DefaultReadOnlyProperties() ReadOnlyProperties {
	return ReadOnlyProperties{
		{Space: "cdf_cdm", ExternalID: "CogniteAsset"}: {"assetHierarchy_root", "path", "lastUpdatedTime", "status"},
		{Space: "cdf_cdm", ExternalID: "CogniteFile"}:  {"isUploaded", "uploadedTime"},
	}
}

// Manifest formats.
const (
	FormatJSON    = "json"
	FormatYAML    = "yaml"
	FormatMsgpack = "msgpack"
)

// Config holds the global configuration of a generation run.
// The pipeline reads it but never mutates it.
type Config struct {
	// Naming holds the case and number rules of every generated name.
	Naming Naming
	// Filters holds the operators of generated filter methods.
	Filters FilterConfig
	// ReadOnlyProperties lists computed container properties.
	ReadOnlyProperties ReadOnlyProperties
	// DefaultInstanceSpace is the space bare-string direct relation filters
	// resolve in.
	DefaultInstanceSpace string
	// Target is the directory manifests are written to.
	Target string
	// Format is the manifest format: json, yaml or msgpack.
	Format string
	// Logger receives warnings and debug output. Defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns a Config with every default applied.
func DefaultConfig() *Config {
	return &Config{
		Naming:             DefaultNaming(),
		Filters:            DefaultFilters(),
		ReadOnlyProperties: DefaultReadOnlyProperties(),
		Format:             FormatJSON,
	}
}

func (c *Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// Validate checks the configuration before a run.
func (c *Config) Validate() error {
	if err := c.Naming.Validate(); err != nil {
		return err
	}
	if err := c.Filters.Validate(); err != nil {
		return err
	}
	switch c.Format {
	case "", FormatJSON, FormatYAML, FormatMsgpack:
	default:
		return NewConfigError("format", c.Format, "use json, yaml or msgpack")
	}
	return nil
}
