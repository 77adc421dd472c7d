package schema

import (
	"cmp"
	"fmt"
	"slices"
)

// ViewID identifies a view by its space, external id and version.
type ViewID struct {
	Space      string `json:"space" yaml:"space" msgpack:"space"`
	ExternalID string `json:"externalId" yaml:"externalId" msgpack:"externalId"`
	Version    string `json:"version,omitempty" yaml:"version,omitempty" msgpack:"version,omitempty"`
}

// String returns the id in the "space:externalId(version=v)" form.
func (id ViewID) String() string {
	if id.Version == "" {
		return id.Space + ":" + id.ExternalID
	}
	return fmt.Sprintf("%s:%s(version=%s)", id.Space, id.ExternalID, id.Version)
}

// Compare orders view ids by space, external id and version.
func (id ViewID) Compare(other ViewID) int {
	return cmp.Or(
		cmp.Compare(id.Space, other.Space),
		cmp.Compare(id.ExternalID, other.ExternalID),
		cmp.Compare(id.Version, other.Version),
	)
}

// DataModelID identifies a data model.
type DataModelID struct {
	Space      string `json:"space" yaml:"space" msgpack:"space"`
	ExternalID string `json:"externalId" yaml:"externalId" msgpack:"externalId"`
	Version    string `json:"version,omitempty" yaml:"version,omitempty" msgpack:"version,omitempty"`
}

// String returns the id in the "space:externalId(version=v)" form.
func (id DataModelID) String() string {
	return ViewID(id).String()
}

// ContainerID identifies the container a mapped property is stored in.
type ContainerID struct {
	Space      string `json:"space" yaml:"space" msgpack:"space"`
	ExternalID string `json:"externalId" yaml:"externalId" msgpack:"externalId"`
}

// String returns the id in the "space:externalId" form.
func (id ContainerID) String() string { return id.Space + ":" + id.ExternalID }

// TypeRef is a reference to the node that types an edge.
type TypeRef struct {
	Space      string `json:"space" yaml:"space" msgpack:"space"`
	ExternalID string `json:"externalId" yaml:"externalId" msgpack:"externalId"`
}

// String returns the reference in the "space:externalId" form.
func (r TypeRef) String() string { return r.Space + ":" + r.ExternalID }

// UsedFor tells what kind of instances a view describes.
type UsedFor string

// Supported UsedFor values.
const (
	UsedForNode UsedFor = "node"
	UsedForEdge UsedFor = "edge"
	UsedForAll  UsedFor = "all"
)

// Valid reports if u is one of the known values.
func (u UsedFor) Valid() bool {
	return u == UsedForNode || u == UsedForEdge || u == UsedForAll
}

// Direction of an edge connection relative to the view that declares it.
type Direction string

// Supported directions.
const (
	Outwards Direction = "outwards"
	Inwards  Direction = "inwards"
)

// PropertyKind tells how a view property is backed.
type PropertyKind string

// Supported property kinds.
const (
	// Mapped properties are stored in a container.
	Mapped PropertyKind = "mapped"
	// SingleEdge is a connection through at most one edge.
	SingleEdge PropertyKind = "singleEdge"
	// MultiEdge is a connection through any number of edges.
	MultiEdge PropertyKind = "multiEdge"
	// SingleReverseDirectRelation is the inverse side of a direct relation.
	SingleReverseDirectRelation PropertyKind = "singleReverseDirectRelation"
	// MultiReverseDirectRelation is the inverse side of a list direct relation.
	MultiReverseDirectRelation PropertyKind = "multiReverseDirectRelation"
)

// TypeTag is the type of a mapped property.
type TypeTag string

// Primitive type tags.
const (
	Text      TypeTag = "text"
	Boolean   TypeTag = "boolean"
	Int32     TypeTag = "int32"
	Int64     TypeTag = "int64"
	Float32   TypeTag = "float32"
	Float64   TypeTag = "float64"
	Timestamp TypeTag = "timestamp"
	Date      TypeTag = "date"
	JSON      TypeTag = "json"
)

// External reference type tags. Values are stored as external ids of
// resources that live outside the graph.
const (
	TimeSeriesReference TypeTag = "timeseries"
	FileReference       TypeTag = "file"
	SequenceReference   TypeTag = "sequence"
)

// DirectRelation is the type tag of a direct relation to another node.
const DirectRelation TypeTag = "direct"

var primitives = []TypeTag{Text, Boolean, Int32, Int64, Float32, Float64, Timestamp, Date, JSON}

// IsPrimitive reports if t is a scalar value type.
func (t TypeTag) IsPrimitive() bool { return slices.Contains(primitives, t) }

// IsExternalReference reports if t references a resource outside the graph.
func (t TypeTag) IsExternalReference() bool {
	return t == TimeSeriesReference || t == FileReference || t == SequenceReference
}

// IsNumeric reports if t is an integer or a float type.
func (t TypeTag) IsNumeric() bool {
	switch t {
	case Int32, Int64, Float32, Float64:
		return true
	}
	return false
}

// DataType is the type of a mapped property.
type DataType struct {
	Tag  TypeTag `json:"type" yaml:"type" msgpack:"type"`
	List bool    `json:"list,omitempty" yaml:"list,omitempty" msgpack:"list,omitempty"`
}

// String returns the type tag, suffixed with [] for lists.
func (t DataType) String() string {
	if t.List {
		return string(t.Tag) + "[]"
	}
	return string(t.Tag)
}

// Property is a single property of a view.
type Property struct {
	// Name is the property identifier inside its view.
	Name        string
	Description string
	Kind        PropertyKind
	// Type, Nullable, Container and Default apply to mapped properties.
	Type              DataType
	Nullable          bool
	Container         *ContainerID
	ContainerProperty string
	Default           any
	// Source is the target view of a direct relation or the end view of
	// a connection.
	Source *ViewID
	// EdgeType, Direction and EdgeSource apply to edge connections.
	EdgeType   *TypeRef
	Direction  Direction
	EdgeSource *ViewID
	// Through names the direct relation a reverse relation is the inverse of.
	Through string
}

// IsConnection reports if the property is an edge connection.
func (p *Property) IsConnection() bool {
	return p.Kind == SingleEdge || p.Kind == MultiEdge
}

// IsReverse reports if the property is a reverse direct relation.
func (p *Property) IsReverse() bool {
	return p.Kind == SingleReverseDirectRelation || p.Kind == MultiReverseDirectRelation
}

// View is a named set of properties. Views are the unit the generator
// derives one data class family from.
type View struct {
	ID          ViewID
	Name        string
	Description string
	UsedFor     UsedFor
	Writable    bool
	Implements  []ViewID
	// Properties in declaration order.
	Properties []*Property
}

// Property returns the property with the given name, if any.
func (v *View) Property(name string) (*Property, bool) {
	for _, p := range v.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// DataModel groups views.
type DataModel struct {
	ID          DataModelID
	Name        string
	Description string
	Views       []*View
}
