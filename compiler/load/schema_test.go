package load

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/syssam/pygen/schema"
)

func TestLoad_YAML(t *testing.T) {
	models, err := Load("testdata/movies.yaml", schema.DataModelID{})
	require.NoError(t, err)
	require.Len(t, models, 1)

	dm := models[0]
	assert.Equal(t, schema.DataModelID{Space: "movies", ExternalID: "Movies", Version: "1"}, dm.ID)
	assert.Equal(t, "Movies", dm.Name)
	require.Len(t, dm.Views, 5)

	var externalIDs []string
	for _, v := range dm.Views {
		externalIDs = append(externalIDs, v.ID.ExternalID)
	}
	assert.Equal(t, []string{"Describable", "Person", "Role", "Cast", "Movie"}, externalIDs)

	t.Run("shared view", func(t *testing.T) {
		describable := dm.Views[0]
		require.Len(t, describable.Properties, 2)
		assert.False(t, describable.Properties[0].Nullable)
		assert.True(t, describable.Properties[1].Nullable)
		assert.True(t, describable.Writable)
	})

	t.Run("property order and kinds", func(t *testing.T) {
		person := dm.Views[1]
		assert.Equal(t, "A person in the film industry.", person.Description)
		assert.Equal(t, []schema.ViewID{{Space: "movies", ExternalID: "Describable", Version: "1"}}, person.Implements)
		require.Len(t, person.Properties, 3)
		assert.Equal(t, "name", person.Properties[0].Name)
		assert.Equal(t, "birthYear", person.Properties[1].Name)
		assert.Equal(t, 1900, person.Properties[1].Default)

		roles := person.Properties[2]
		assert.Equal(t, schema.MultiEdge, roles.Kind)
		assert.Equal(t, schema.Outwards, roles.Direction)
		assert.Equal(t, &schema.TypeRef{Space: "movies", ExternalID: "Person.roles"}, roles.EdgeType)
		assert.Equal(t, &schema.ViewID{Space: "movies", ExternalID: "Cast", Version: "1"}, roles.EdgeSource)
	})

	t.Run("relations", func(t *testing.T) {
		role := dm.Views[2]
		person, _ := role.Property("person")
		assert.Equal(t, schema.Mapped, person.Kind)
		assert.Equal(t, schema.DataType{Tag: schema.DirectRelation}, person.Type)
		assert.Equal(t, "Person", person.Source.ExternalID)

		movies, _ := role.Property("movies")
		assert.Equal(t, schema.Inwards, movies.Direction)
	})

	t.Run("edge and read only views", func(t *testing.T) {
		assert.Equal(t, schema.UsedForEdge, dm.Views[3].UsedFor)
		movie := dm.Views[4]
		assert.False(t, movie.Writable)
		path, _ := movie.Property("path")
		assert.Equal(t, &schema.ContainerID{Space: "cdf_cdm", ExternalID: "CogniteAsset"}, path.Container)
		assert.Equal(t, "path", path.ContainerProperty)
		roles, _ := movie.Property("roles")
		assert.True(t, roles.IsReverse())
		assert.Equal(t, "movie", roles.Through)
	})
}

func TestLoad_JSON(t *testing.T) {
	models, err := Load("testdata/movies.json", schema.DataModelID{})
	require.NoError(t, err)
	require.Len(t, models, 1)
	studio := models[0].Views[0]
	require.Len(t, studio.Properties, 3)
	assert.Equal(t, "zeta", studio.Properties[0].Name)
	assert.Equal(t, "alpha", studio.Properties[1].Name)
	assert.Equal(t, 1.5, studio.Properties[1].Default)
	assert.Equal(t, schema.Timestamp, studio.Properties[2].Type.Tag)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load("testdata/missing.yaml", schema.DataModelID{})
	require.Error(t, err)

	_, err = Load("testdata/movies.txt", schema.DataModelID{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidDocument))
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not yaml", "dataModels: [\n"},
		{"no data models", "views: []\n"},
		{"model without space", "dataModels:\n  - externalId: M\n"},
		{"view without id", "dataModels:\n  - {space: s, externalId: M, views: [{space: s}]}\n"},
		{"properties not a mapping", "dataModels:\n  - {space: s, externalId: M, views: [{space: s, externalId: V, properties: [a]}]}\n"},
		{"missing type", "dataModels:\n  - {space: s, externalId: M, views: [{space: s, externalId: V, properties: {a: {}}}]}\n"},
		{"unknown connection", "dataModels:\n  - {space: s, externalId: M, views: [{space: s, externalId: V, properties: {a: {connection: edge}}}]}\n"},
		{"connection without source", "dataModels:\n  - {space: s, externalId: M, views: [{space: s, externalId: V, properties: {a: {connection: multiEdge}}}]}\n"},
		{"unknown direction", "dataModels:\n  - {space: s, externalId: M, views: [{space: s, externalId: V, properties: {a: {connection: multiEdge, direction: up, source: {space: s, externalId: V}}}}]}\n"},
		{"duplicate shared view", "views: [{space: s, externalId: V}, {space: s, externalId: V}]\ndataModels:\n  - {space: s, externalId: M}\n"},
		{"shared view redeclared", "views: [{space: s, externalId: V}]\ndataModels:\n  - {space: s, externalId: M, views: [{space: s, externalId: V, properties: {a: {type: text}}}]}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
		})
	}
}

func TestProperties_MarshalYAML(t *testing.T) {
	props := Properties{
		{Name: "zeta", Type: "text"},
		{Name: "alpha", Type: "int64", List: true},
	}
	out, err := yaml.Marshal(struct {
		Properties Properties `yaml:"properties"`
	}{props})
	require.NoError(t, err)
	assert.Equal(t, "properties:\n    zeta:\n        type: text\n    alpha:\n        type: int64\n        list: true\n", string(out))

	var back struct {
		Properties Properties `yaml:"properties"`
	}
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, props, back.Properties)
}
