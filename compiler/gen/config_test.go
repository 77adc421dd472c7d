package gen

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/pygen/schema"
)

func TestDefaultFilters(t *testing.T) {
	f := DefaultFilters()
	require.NoError(t, f.Validate())

	tests := []struct {
		tag  schema.TypeTag
		want []Operator
	}{
		{schema.Int32, []Operator{Equals, In, Range}},
		{schema.Int64, []Operator{Equals, In, Range}},
		{schema.Float64, []Operator{Range}},
		{schema.Boolean, []Operator{Equals}},
		{schema.Text, []Operator{Equals, In, Prefix}},
		{schema.Timestamp, []Operator{Range}},
		{schema.Date, []Operator{Range}},
		{schema.JSON, nil},
		{schema.DirectRelation, []Operator{Equals, In}},
		{schema.FileReference, nil},
	}
	for _, tt := range tests {
		t.Run(string(tt.tag), func(t *testing.T) {
			assert.Equal(t, tt.want, f.Operators(tt.tag))
		})
	}
	assert.Equal(t, []Operator{Prefix}, f.ExternalID)
	assert.Equal(t, []Operator{Equals, In}, f.Space)
}

func TestFilterConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		filters FilterConfig
		option  string
	}{
		{
			name:    "unknown type operator",
			filters: FilterConfig{ByType: map[schema.TypeTag][]Operator{schema.Text: {"like"}}},
			option:  "filters.by_type.text",
		},
		{
			name:    "unknown identity operator",
			filters: FilterConfig{Space: []Operator{"between"}},
			option:  "filters",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.filters.Validate()
			require.Error(t, err)
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.option, cfgErr.Option)
		})
	}
	assert.NoError(t, FilterConfig{}.Validate())
}

func TestReadOnlyProperties(t *testing.T) {
	r := DefaultReadOnlyProperties()
	asset := schema.ContainerID{Space: "cdf_cdm", ExternalID: "CogniteAsset"}
	assert.True(t, r.Contains(asset, "path"))
	assert.True(t, r.Contains(asset, "assetHierarchy_root"))
	assert.False(t, r.Contains(asset, "name"))
	assert.True(t, r.Contains(schema.ContainerID{Space: "cdf_cdm", ExternalID: "CogniteFile"}, "isUploaded"))
	assert.False(t, r.Contains(schema.ContainerID{Space: "sp", ExternalID: "CogniteAsset"}, "path"))
}

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	c := DefaultConfig()
	c.Format = ""
	assert.NoError(t, c.Validate(), "empty format falls back to json")

	c.Format = "toml"
	require.Error(t, c.Validate())
	assert.True(t, IsConfigError(c.Validate()))

	c = DefaultConfig()
	c.Naming.Field.Name.Case = "kebab"
	require.Error(t, c.Validate())

	c = DefaultConfig()
	c.Filters.ExternalID = []Operator{"fuzzy"}
	require.Error(t, c.Validate())
}

func TestConfig_Logger(t *testing.T) {
	c := DefaultConfig()
	assert.Same(t, slog.Default(), c.logger())

	l := slog.New(slog.DiscardHandler)
	c.Logger = l
	assert.Same(t, l, c.logger())
}
