package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsReserved(t *testing.T) {
	tests := []struct {
		identifier string
		kind       ReservedKind
		expect     bool
	}{
		{"class", ReservedField, true},
		{"class", ReservedParameter, true},
		{"None", ReservedDataClass, true},
		{"match", ReservedField, true},
		{"version", ReservedField, true},
		{"external_id", ReservedField, true},
		{"model_dump", ReservedField, true},
		{"version", ReservedParameter, false},
		{"limit", ReservedParameter, true},
		{"limit", ReservedField, false},
		{"space", ReservedParameter, false},
		{"DomainModel", ReservedDataClass, true},
		{"Person", ReservedDataClass, false},
		{"__init__", ReservedFilename, true},
		{"typing", ReservedFilename, true},
		{"person", ReservedFilename, false},
		{"name", ReservedField, false},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String()+"/"+tt.identifier, func(t *testing.T) {
			assert.Equal(t, tt.expect, IsReserved(tt.identifier, tt.kind))
		})
	}
}

func TestEscapeReserved(t *testing.T) {
	name, ok := escapeReserved("version", ReservedField)
	assert.True(t, ok)
	assert.Equal(t, "version_", name)

	name, ok = escapeReserved("title", ReservedField)
	assert.False(t, ok)
	assert.Equal(t, "title", name)

	assert.Equal(t, "from_", escapeKeyword("from"))
	assert.Equal(t, "person", escapeKeyword("person"))
}
