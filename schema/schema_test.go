package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/pygen/schema"
)

func TestViewID(t *testing.T) {
	t.Run("String", func(t *testing.T) {
		id := schema.ViewID{Space: "movies", ExternalID: "Person", Version: "2"}
		assert.Equal(t, "movies:Person(version=2)", id.String())
		assert.Equal(t, "movies:Person", schema.ViewID{Space: "movies", ExternalID: "Person"}.String())
	})

	t.Run("Compare", func(t *testing.T) {
		a := schema.ViewID{Space: "a", ExternalID: "X", Version: "1"}
		b := schema.ViewID{Space: "a", ExternalID: "X", Version: "2"}
		c := schema.ViewID{Space: "b", ExternalID: "A", Version: "1"}
		assert.Negative(t, a.Compare(b))
		assert.Positive(t, c.Compare(a))
		assert.Zero(t, a.Compare(a))

		d := schema.ViewID{Space: "a", ExternalID: "Y", Version: "0"}
		assert.Negative(t, b.Compare(d), "external id orders before version")
		assert.Positive(t, d.Compare(a))
	})
}

func TestTypeTag(t *testing.T) {
	tests := []struct {
		tag       schema.TypeTag
		primitive bool
		external  bool
		numeric   bool
	}{
		{schema.Text, true, false, false},
		{schema.Int64, true, false, true},
		{schema.Float32, true, false, true},
		{schema.JSON, true, false, false},
		{schema.TimeSeriesReference, false, true, false},
		{schema.FileReference, false, true, false},
		{schema.DirectRelation, false, false, false},
		{schema.TypeTag("geometry"), false, false, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.tag), func(t *testing.T) {
			assert.Equal(t, tt.primitive, tt.tag.IsPrimitive())
			assert.Equal(t, tt.external, tt.tag.IsExternalReference())
			assert.Equal(t, tt.numeric, tt.tag.IsNumeric())
		})
	}
}

func TestView_Property(t *testing.T) {
	v := &schema.View{
		Properties: []*schema.Property{
			{Name: "name", Kind: schema.Mapped},
			{Name: "roles", Kind: schema.MultiEdge},
			{Name: "movies", Kind: schema.MultiReverseDirectRelation},
		},
	}
	p, ok := v.Property("roles")
	require.True(t, ok)
	assert.True(t, p.IsConnection())
	assert.False(t, p.IsReverse())

	p, ok = v.Property("movies")
	require.True(t, ok)
	assert.True(t, p.IsReverse())

	_, ok = v.Property("missing")
	assert.False(t, ok)
}

func TestDataType_String(t *testing.T) {
	assert.Equal(t, "text", schema.DataType{Tag: schema.Text}.String())
	assert.Equal(t, "int64[]", schema.DataType{Tag: schema.Int64, List: true}.String())
	assert.True(t, schema.UsedForAll.Valid())
	assert.False(t, schema.UsedFor("both").Valid())
}
