// Package schema holds the input contract of the generator: data models,
// their views and the properties of each view, as returned by the graph
// data-modeling service.
//
// The types are plain values. The generator never mutates them; loaders in
// compiler/load build them from YAML, JSON or GraphQL documents.
//
// Generated identifiers are ASCII. Letters and digits outside ASCII in view
// ids and property names are dropped ("über_name" becomes "ber_name"), and
// the generator reports each such rename as a warning.
//
//	view := &schema.View{
//	    ID:      schema.ViewID{Space: "movies", ExternalID: "Person", Version: "1"},
//	    UsedFor: schema.UsedForNode,
//	    Properties: []*schema.Property{
//	        {Name: "name", Kind: schema.Mapped, Type: schema.DataType{Tag: schema.Text}},
//	    },
//	}
package schema
