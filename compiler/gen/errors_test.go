package gen

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/pygen/schema"
)

var personID = schema.ViewID{Space: "movies", ExternalID: "Person", Version: "1"}

func TestSchemaError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		cause := errors.New("underlying error")
		err := NewSchemaError(personID, "roles", "invalid target", cause)

		assert.Contains(t, err.Error(), "pygen: schema error")
		assert.Contains(t, err.Error(), "view movies:Person(version=1)")
		assert.Contains(t, err.Error(), "property roles")
		assert.Contains(t, err.Error(), "invalid target")
		assert.Contains(t, err.Error(), "underlying error")
	})

	t.Run("Error message with view only", func(t *testing.T) {
		err := &SchemaError{View: "movies:Person"}
		assert.Contains(t, err.Error(), "view movies:Person")
		assert.NotContains(t, err.Error(), "property")
	})

	t.Run("Unwrap returns cause", func(t *testing.T) {
		cause := errors.New("root cause")
		err := NewSchemaError(personID, "", "", cause)

		assert.Equal(t, cause, err.Unwrap())
		assert.True(t, errors.Is(err, cause))
	})

	t.Run("Is matches ErrInvalidSchema", func(t *testing.T) {
		err := NewSchemaError(personID, "", "", nil)
		assert.True(t, errors.Is(err, ErrInvalidSchema))
		assert.True(t, IsSchemaError(fmt.Errorf("wrapped: %w", err)))
		assert.False(t, IsSchemaError(errors.New("other")))
	})
}

func TestPropertyError(t *testing.T) {
	err := &PropertyError{View: personID, Property: "shape", Kind: schema.Mapped, Type: schema.DataType{Tag: "geometry"}}
	assert.Contains(t, err.Error(), "movies:Person(version=1)")
	assert.Contains(t, err.Error(), "shape")
	assert.Contains(t, err.Error(), `"geometry"`)
	assert.True(t, errors.Is(err, ErrUnsupportedProperty))
	assert.True(t, IsPropertyError(err))
}

func TestNameConflictError(t *testing.T) {
	err := &NameConflictError{Conflicts: []NameConflict{
		{Attribute: "FileName", Name: "person", Identities: []string{"b:Person", "a:Person"}},
		{Attribute: "Name", Name: "Person", Identities: []string{"a:Person", "c:Person"}},
	}}
	assert.Contains(t, err.Error(), `FileName "person" is shared by b:Person, a:Person`)
	assert.Contains(t, err.Error(), `; Name "Person"`)
	assert.Equal(t, []string{"a:Person", "b:Person", "c:Person"}, err.Identities())
	assert.True(t, errors.Is(err, ErrNameConflict))
	assert.True(t, IsNameConflictError(err))
}

func TestReservedNameError(t *testing.T) {
	err := &ReservedNameError{View: personID, Name: "core"}
	assert.Contains(t, err.Error(), `"core"`)
	assert.True(t, errors.Is(err, ErrReservedName))
}

func TestUniqueNameError(t *testing.T) {
	err := &UniqueNameError{Name: "Person", Views: []schema.ViewID{personID, personID}}
	assert.Contains(t, err.Error(), "movies:Person(version=1), movies:Person(version=1)")
	assert.True(t, errors.Is(err, ErrNoUniqueName))
}

func TestCycleError(t *testing.T) {
	a := schema.ViewID{Space: "s", ExternalID: "A"}
	b := schema.ViewID{Space: "s", ExternalID: "B"}
	err := &CycleError{Views: []schema.ViewID{a, b}}
	assert.Equal(t, "pygen: cycle in interface inheritance between s:A, s:B", err.Error())
	assert.True(t, errors.Is(err, ErrInterfaceCycle))
}

func TestConfigError(t *testing.T) {
	t.Run("Error message with value", func(t *testing.T) {
		err := NewConfigError("Format", "toml", "unsupported format")

		assert.Contains(t, err.Error(), "pygen: config error")
		assert.Contains(t, err.Error(), "Format")
		assert.Contains(t, err.Error(), "toml")
		assert.Contains(t, err.Error(), "unsupported format")
	})

	t.Run("Error message without value", func(t *testing.T) {
		err := NewConfigError("Target", nil, "cannot be empty")
		assert.NotContains(t, err.Error(), "value:")
	})

	t.Run("Is matches ErrMissingConfig", func(t *testing.T) {
		err := NewConfigError("Target", nil, "")
		assert.True(t, errors.Is(err, ErrMissingConfig))
		assert.True(t, IsConfigError(err))
	})
}

func TestGenerationError(t *testing.T) {
	cause := errors.New("disk full")
	err := NewGenerationError("write", "manifest.json", "", cause)
	assert.Contains(t, err.Error(), "in phase write")
	assert.Contains(t, err.Error(), "(file: manifest.json)")
	assert.Contains(t, err.Error(), "disk full")
	require.ErrorIs(t, err, cause)
	assert.True(t, errors.Is(err, ErrGenerationFailed))
	assert.True(t, IsGenerationError(err))
}
