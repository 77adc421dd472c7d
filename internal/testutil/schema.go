package testutil

import (
	"github.com/syssam/pygen/schema"
)

// ViewID returns the id of a view in space with version "1".
func ViewID(space, externalID string) schema.ViewID {
	return schema.ViewID{Space: space, ExternalID: externalID, Version: "1"}
}

// NodeView returns a node view with the given properties.
func NodeView(id schema.ViewID, props ...*schema.Property) *schema.View {
	return &schema.View{ID: id, UsedFor: schema.UsedForNode, Writable: true, Properties: props}
}

// EdgeView returns an edge view with the given properties.
func EdgeView(id schema.ViewID, props ...*schema.Property) *schema.View {
	return &schema.View{ID: id, UsedFor: schema.UsedForEdge, Writable: true, Properties: props}
}

// Model returns a data model holding views, named after its first view's space.
func Model(externalID string, views ...*schema.View) *schema.DataModel {
	space := "test"
	if len(views) > 0 {
		space = views[0].ID.Space
	}
	return &schema.DataModel{
		ID:    schema.DataModelID{Space: space, ExternalID: externalID, Version: "1"},
		Views: views,
	}
}

// Mapped returns a nullable mapped property.
func Mapped(name string, tag schema.TypeTag) *schema.Property {
	return &schema.Property{Name: name, Kind: schema.Mapped, Type: schema.DataType{Tag: tag}, Nullable: true}
}

// MappedList returns a nullable mapped list property.
func MappedList(name string, tag schema.TypeTag) *schema.Property {
	return &schema.Property{Name: name, Kind: schema.Mapped, Type: schema.DataType{Tag: tag, List: true}, Nullable: true}
}

// Direct returns a direct relation to target, or to any node when target is nil.
func Direct(name string, target *schema.ViewID) *schema.Property {
	return &schema.Property{Name: name, Kind: schema.Mapped, Type: schema.DataType{Tag: schema.DirectRelation}, Nullable: true, Source: target}
}

// Edges returns an outwards multi-edge connection to target typed by a node
// in target's space named after the owning property.
func Edges(name string, target schema.ViewID, edgeType string) *schema.Property {
	return &schema.Property{
		Name:      name,
		Kind:      schema.MultiEdge,
		Source:    &target,
		EdgeType:  &schema.TypeRef{Space: target.Space, ExternalID: edgeType},
		Direction: schema.Outwards,
	}
}
