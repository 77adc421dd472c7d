package gen

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/syssam/pygen/schema"
)

// Serialization layouts. Every date and timestamp the generator emits uses
// them, so values written by the SDK read back unchanged.
const (
	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02T15:04:05.000Z07:00"
)

// FormatDate formats t as an ISO-8601 date.
func FormatDate(t time.Time) string { return t.Format(DateLayout) }

// FormatTimestamp formats t as an ISO-8601 timestamp with millisecond precision.
func FormatTimestamp(t time.Time) string { return t.Format(TimestampLayout) }

// Field is one field of a generated data class. The set of implementations
// is closed; consumers switch on the concrete type.
type Field interface {
	// Base returns the attributes every field shares.
	Base() *FieldBase
	isField()
}

// FieldBase holds the attributes every field shares.
type FieldBase struct {
	// Name is the identifier of the field in the generated class.
	Name string
	// PropName is the property name in the view.
	PropName string
	// DocName is Name in words, for documentation.
	DocName     string
	Description string
	// ReadOnly marks container properties the service computes.
	ReadOnly bool
}

// Base returns b.
func (b *FieldBase) Base() *FieldBase { return b }

// NeedsAlias reports if the generated class must alias the field to its
// property name.
func (b *FieldBase) NeedsAlias() bool { return b.Name != b.PropName }

// PrimitiveField is a scalar value.
type PrimitiveField struct {
	FieldBase
	Type     schema.TypeTag
	Nullable bool
	// Default is the schema default, verbatim.
	Default any
}

// PrimitiveListField is a list of scalar values.
type PrimitiveListField struct {
	FieldBase
	Type     schema.TypeTag
	Nullable bool
}

// ExternalReferenceField references a time series, file or sequence by its
// external id. The SDK reads it back as the full resource.
type ExternalReferenceField struct {
	FieldBase
	Type     schema.TypeTag
	List     bool
	Nullable bool
}

// DirectRelationField points at nodes of a known data class.
type DirectRelationField struct {
	FieldBase
	Target   *DataClass
	List     bool
	Nullable bool
}

// AnyDirectRelationField points at nodes of any view. It is read and
// written as a raw instance id.
type AnyDirectRelationField struct {
	FieldBase
	List     bool
	Nullable bool
}

// EdgeRelationField is a connection through edges. Target is the class at
// the other end. Edge is set when the edge carries properties of its own.
type EdgeRelationField struct {
	FieldBase
	Target    *DataClass
	Edge      *DataClass
	EdgeType  schema.TypeRef
	Direction schema.Direction
	// List is true for one-to-many connections.
	List bool
}

// DataClass returns the class the field's values are instances of: the edge
// class when there is one, the target otherwise.
func (f *EdgeRelationField) DataClass() *DataClass {
	if f.Edge != nil {
		return f.Edge
	}
	return f.Target
}

// IsOneToMany reports if the connection holds any number of edges.
func (f *EdgeRelationField) IsOneToMany() bool { return f.List }

// EndNode is one way an edge class is used: an edge of EdgeType from a
// Start class instance to an End class instance.
type EndNode struct {
	Start    *DataClass
	EdgeType schema.TypeRef
	End      *DataClass
}

// InterfaceEndNodeField is the synthetic end_node field of an edge class.
// Its type is the union of every class an edge of this kind can end in.
type InterfaceEndNodeField struct {
	FieldBase
	EndNodes []EndNode
}

// EndClasses returns the distinct end classes in discovery order.
func (f *InterfaceEndNodeField) EndClasses() []*DataClass {
	seen := make(map[schema.ViewID]bool)
	var classes []*DataClass
	for _, n := range f.EndNodes {
		if !seen[n.End.ViewID] {
			seen[n.End.ViewID] = true
			classes = append(classes, n.End)
		}
	}
	return classes
}

func (*PrimitiveField) isField()         {}
func (*PrimitiveListField) isField()     {}
func (*ExternalReferenceField) isField() {}
func (*DirectRelationField) isField()    {}
func (*AnyDirectRelationField) isField() {}
func (*EdgeRelationField) isField()      {}
func (*InterfaceEndNodeField) isField()  {}

// pythonTypes maps primitive tags to the annotation used in the SDK.
var pythonTypes = map[schema.TypeTag]string{
	schema.Text:      "str",
	schema.Boolean:   "bool",
	schema.Int32:     "int",
	schema.Int64:     "int",
	schema.Float32:   "float",
	schema.Float64:   "float",
	schema.Timestamp: "datetime.datetime",
	schema.Date:      "datetime.date",
	schema.JSON:      "dict",
}

// PythonType returns the type annotation of the field value.
func (f *PrimitiveField) PythonType() string { return pythonTypes[f.Type] }

// PythonType returns the type annotation of one list element.
func (f *PrimitiveListField) PythonType() string { return pythonTypes[f.Type] }

// DefaultLiteral returns the schema default as a literal of the generated
// code, or "None" when there is no default. Json defaults are returned as
// JSON text.
func (f *PrimitiveField) DefaultLiteral() (string, error) {
	if f.Default == nil {
		return "None", nil
	}
	switch f.Type {
	case schema.Text:
		s, ok := f.Default.(string)
		if !ok {
			return "", fmt.Errorf("default of %s: want string, got %T", f.PropName, f.Default)
		}
		return strconv.Quote(s), nil
	case schema.Boolean:
		b, ok := f.Default.(bool)
		if !ok {
			return "", fmt.Errorf("default of %s: want bool, got %T", f.PropName, f.Default)
		}
		if b {
			return "True", nil
		}
		return "False", nil
	case schema.Int32, schema.Int64, schema.Float32, schema.Float64:
		switch v := f.Default.(type) {
		case int, int32, int64, uint64:
			return fmt.Sprint(v), nil
		case float32:
			return strconv.FormatFloat(float64(v), 'g', -1, 32), nil
		case float64:
			return strconv.FormatFloat(v, 'g', -1, 64), nil
		}
		return "", fmt.Errorf("default of %s: want number, got %T", f.PropName, f.Default)
	case schema.Timestamp:
		t, err := defaultTime(f.Default, time.RFC3339Nano)
		if err != nil {
			return "", fmt.Errorf("default of %s: %w", f.PropName, err)
		}
		return strconv.Quote(FormatTimestamp(t)), nil
	case schema.Date:
		t, err := defaultTime(f.Default, DateLayout)
		if err != nil {
			return "", fmt.Errorf("default of %s: %w", f.PropName, err)
		}
		return strconv.Quote(FormatDate(t)), nil
	case schema.JSON:
		b, err := json.Marshal(f.Default)
		if err != nil {
			return "", fmt.Errorf("default of %s: %w", f.PropName, err)
		}
		return string(b), nil
	}
	return "", fmt.Errorf("default of %s: unsupported type %s", f.PropName, f.Type)
}

func defaultTime(v any, layout string) (time.Time, error) {
	switch v := v.(type) {
	case time.Time:
		return v, nil
	case string:
		return time.Parse(layout, v)
	}
	return time.Time{}, fmt.Errorf("want time or string, got %T", v)
}

// newField maps one view property to a field. It returns nil for reverse
// relations. Cases are checked in precedence order; the first match wins.
func newField(view *schema.View, prop *schema.Property, t *Table, cfg *Config, w *warner) (Field, error) {
	// Reverse relations are the inverse side of a direct relation declared
	// elsewhere and are never materialized.
	if prop.IsReverse() {
		return nil, nil
	}
	base := fieldBase(view, prop, cfg, w)
	switch {
	case prop.IsConnection() && prop.EdgeSource != nil:
		target, err := t.connectionTarget(view, prop)
		if err != nil {
			return nil, err
		}
		edge, ok := t.Lookup(*prop.EdgeSource)
		if !ok {
			return nil, NewSchemaError(view.ID, prop.Name, "edge source "+prop.EdgeSource.String()+" is not part of the generation", nil)
		}
		if !edge.IsEdgeClass() {
			return nil, NewSchemaError(view.ID, prop.Name, "edge source "+prop.EdgeSource.String()+" is not used for edges", nil)
		}
		return edgeField(base, prop, target, edge), nil
	case prop.Kind == schema.MultiEdge, prop.Kind == schema.SingleEdge:
		target, err := t.connectionTarget(view, prop)
		if err != nil {
			return nil, err
		}
		return edgeField(base, prop, target, nil), nil
	case prop.Kind != schema.Mapped:
		// Unknown kind, reported below.
	case prop.Type.Tag.IsExternalReference():
		return &ExternalReferenceField{FieldBase: base, Type: prop.Type.Tag, List: prop.Type.List, Nullable: prop.Nullable}, nil
	case prop.Type.Tag == schema.DirectRelation && prop.Source != nil:
		if target, ok := t.Lookup(*prop.Source); ok {
			return &DirectRelationField{FieldBase: base, Target: target, List: prop.Type.List, Nullable: prop.Nullable}, nil
		}
		cfg.logger().Debug("direct relation target outside the generation, using any",
			"view", view.ID.String(), "property", prop.Name, "target", prop.Source.String())
		return &AnyDirectRelationField{FieldBase: base, List: prop.Type.List, Nullable: prop.Nullable}, nil
	case prop.Type.Tag == schema.DirectRelation:
		return &AnyDirectRelationField{FieldBase: base, List: prop.Type.List, Nullable: prop.Nullable}, nil
	case prop.Type.Tag.IsPrimitive() && prop.Type.List:
		return &PrimitiveListField{FieldBase: base, Type: prop.Type.Tag, Nullable: prop.Nullable}, nil
	case prop.Type.Tag.IsPrimitive():
		f := &PrimitiveField{FieldBase: base, Type: prop.Type.Tag, Nullable: prop.Nullable, Default: prop.Default}
		if _, err := f.DefaultLiteral(); err != nil {
			return nil, NewSchemaError(view.ID, prop.Name, "invalid default", err)
		}
		return f, nil
	}
	return nil, &PropertyError{View: view.ID, Property: prop.Name, Kind: prop.Kind, Type: prop.Type}
}

func edgeField(base FieldBase, prop *schema.Property, target, edge *DataClass) *EdgeRelationField {
	f := &EdgeRelationField{
		FieldBase: base,
		Target:    target,
		Edge:      edge,
		Direction: prop.Direction,
		List:      prop.Kind == schema.MultiEdge,
	}
	if f.Direction == "" {
		f.Direction = schema.Outwards
	}
	if prop.EdgeType != nil {
		f.EdgeType = *prop.EdgeType
	}
	return f
}

// fieldBase names the field of prop. Reserved identifiers get a trailing
// underscore; both that and a plain rename are reported.
func fieldBase(view *schema.View, prop *schema.Property, cfg *Config, w *warner) FieldBase {
	name, reserved := escapeReserved(cfg.Naming.Field.Name.Apply(prop.Name), ReservedField)
	switch {
	case reserved:
		w.add(Warning{
			Kind:     WarnReservedName,
			View:     view.ID,
			Property: prop.Name,
			Message:  fmt.Sprintf("property %q is reserved in the generated classes, the field is named %q", prop.Name, name),
		})
	case name != prop.Name:
		msg := fmt.Sprintf("property %q is generated as field %q", prop.Name, name)
		if dropped := droppedRunes(prop.Name); dropped != "" {
			msg += fmt.Sprintf(", dropping %q", dropped)
		}
		w.add(Warning{
			Kind:     WarnRenamed,
			View:     view.ID,
			Property: prop.Name,
			Message:  msg,
		})
	}
	b := FieldBase{
		Name:        name,
		PropName:    prop.Name,
		DocName:     ToWords(prop.Name, Unchanged),
		Description: prop.Description,
	}
	if prop.Kind == schema.Mapped && prop.Container != nil {
		cp := prop.ContainerProperty
		if cp == "" {
			cp = prop.Name
		}
		b.ReadOnly = cfg.ReadOnlyProperties.Contains(*prop.Container, cp)
	}
	return b
}
