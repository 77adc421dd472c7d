package load

import (
	"fmt"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"

	"github.com/syssam/pygen/schema"
)

// Directives of the data modeling language.
const (
	directiveView         = "view"
	directiveRelation     = "relation"
	directiveReverse      = "reverseDirectRelation"
	directiveDirect       = "directRelation"
	directiveMapping      = "mapping"
	directiveDefault      = "default"
	directiveReadonlyView = "readonly"
)

// scalarTypes maps DML scalars to type tags. Any other named type is a view.
var scalarTypes = map[string]schema.TypeTag{
	"String":     schema.Text,
	"Int":        schema.Int32,
	"Int32":      schema.Int32,
	"Int64":      schema.Int64,
	"Float":      schema.Float64,
	"Float32":    schema.Float32,
	"Float64":    schema.Float64,
	"Boolean":    schema.Boolean,
	"Timestamp":  schema.Timestamp,
	"Date":       schema.Date,
	"JSONObject": schema.JSON,
	"TimeSeries": schema.TimeSeriesReference,
	"File":       schema.FileReference,
	"Sequence":   schema.SequenceReference,
}

// ParseGraphQL reads a data model written in the GraphQL data modeling
// language. Every object and interface type is a view of model; views
// default to the space and version of model and can override them with
// @view(space:, version:).
func ParseGraphQL(name string, data []byte, model schema.DataModelID) (*schema.DataModel, error) {
	if model.Space == "" || model.ExternalID == "" {
		return nil, fmt.Errorf("%w: graphql data model needs a space and an external id", ErrInvalidDocument)
	}
	doc, err := parser.ParseSchema(&ast.Source{Name: name, Input: string(data)})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	var defs []*ast.Definition
	ids := make(map[string]schema.ViewID)
	for _, def := range doc.Definitions {
		if def.Kind != ast.Object && def.Kind != ast.Interface {
			continue
		}
		if _, ok := ids[def.Name]; ok {
			return nil, fmt.Errorf("%w: type %s declared twice", ErrInvalidDocument, def.Name)
		}
		ids[def.Name] = viewID(def, model)
		defs = append(defs, def)
	}

	dm := &schema.DataModel{ID: model}
	for _, def := range defs {
		v, err := graphQLView(def, ids)
		if err != nil {
			return nil, err
		}
		dm.Views = append(dm.Views, v)
	}
	return dm, nil
}

func viewID(def *ast.Definition, model schema.DataModelID) schema.ViewID {
	id := schema.ViewID{Space: model.Space, ExternalID: def.Name, Version: model.Version}
	if d := def.Directives.ForName(directiveView); d != nil {
		if v := argument(d, "space"); v != "" {
			id.Space = v
		}
		if v := argument(d, "version"); v != "" {
			id.Version = v
		}
		if v := argument(d, "externalId"); v != "" {
			id.ExternalID = v
		}
	}
	return id
}

func graphQLView(def *ast.Definition, ids map[string]schema.ViewID) (*schema.View, error) {
	v := &schema.View{
		ID:          ids[def.Name],
		Name:        def.Name,
		Description: strings.TrimSpace(def.Description),
		UsedFor:     schema.UsedForNode,
		Writable:    def.Directives.ForName(directiveReadonlyView) == nil,
	}
	if d := def.Directives.ForName(directiveView); d != nil {
		if usedFor := argument(d, "usedFor"); usedFor != "" {
			v.UsedFor = schema.UsedFor(strings.ToLower(usedFor))
		}
	}
	for _, name := range def.Interfaces {
		id, ok := ids[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s implements unknown interface %s", ErrInvalidDocument, def.Name, name)
		}
		v.Implements = append(v.Implements, id)
	}
	for _, f := range def.Fields {
		p, err := graphQLProperty(def, f, ids)
		if err != nil {
			return nil, err
		}
		v.Properties = append(v.Properties, p)
	}
	return v, nil
}

func graphQLProperty(def *ast.Definition, f *ast.FieldDefinition, ids map[string]schema.ViewID) (*schema.Property, error) {
	named, list := f.Type.NamedType, false
	if f.Type.Elem != nil {
		named, list = f.Type.Elem.NamedType, true
	}
	p := &schema.Property{
		Name:        f.Name,
		Description: strings.TrimSpace(f.Description),
		Kind:        schema.Mapped,
		Nullable:    !f.Type.NonNull,
	}
	if d := f.Directives.ForName(directiveMapping); d != nil {
		if container := argument(d, "container"); container != "" {
			p.Container = &schema.ContainerID{Space: argument(d, "space"), ExternalID: container}
			if p.Container.Space == "" {
				p.Container.Space = ids[def.Name].Space
			}
		}
		p.ContainerProperty = argument(d, "property")
	}
	if d := f.Directives.ForName(directiveDefault); d != nil {
		if a := d.Arguments.ForName("value"); a != nil && a.Value != nil {
			value, err := a.Value.Value(nil)
			if err != nil {
				return nil, fmt.Errorf("%w: %s.%s: %w", ErrInvalidDocument, def.Name, f.Name, err)
			}
			p.Default = value
		}
	}

	if tag, ok := scalarTypes[named]; ok {
		p.Type = schema.DataType{Tag: tag, List: list}
		return p, nil
	}
	target, ok := ids[named]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s has unknown type %s", ErrInvalidDocument, def.Name, f.Name, named)
	}
	p.Source = &target

	if d := f.Directives.ForName(directiveReverse); d != nil {
		p.Kind, p.Through = schema.SingleReverseDirectRelation, argument(d, "throughProperty")
		if list {
			p.Kind = schema.MultiReverseDirectRelation
		}
		return p, nil
	}
	// A single view type is a direct relation and a list of them is an edge
	// connection unless a directive says otherwise.
	d := f.Directives.ForName(directiveRelation)
	if f.Directives.ForName(directiveDirect) != nil || d == nil && !list {
		p.Type = schema.DataType{Tag: schema.DirectRelation, List: list}
		return p, nil
	}

	p.Kind, p.Nullable = schema.SingleEdge, false
	if list {
		p.Kind = schema.MultiEdge
	}
	owner := ids[def.Name]
	p.EdgeType = &schema.TypeRef{Space: owner.Space, ExternalID: def.Name + "." + f.Name}
	var edgeType, direction, edgeSource string
	if d != nil {
		edgeType, direction, edgeSource = argument(d, "type"), argument(d, "direction"), argument(d, "edgeSource")
	}
	if edgeType != "" {
		p.EdgeType.ExternalID = edgeType
	}
	switch dir := strings.ToLower(direction); dir {
	case "", string(schema.Outwards):
		p.Direction = schema.Outwards
	case string(schema.Inwards):
		p.Direction = schema.Inwards
	default:
		return nil, fmt.Errorf("%w: %s.%s has unknown direction %s", ErrInvalidDocument, def.Name, f.Name, dir)
	}
	if edgeSource != "" {
		id, ok := ids[edgeSource]
		if !ok {
			return nil, fmt.Errorf("%w: %s.%s has unknown edge source %s", ErrInvalidDocument, def.Name, f.Name, edgeSource)
		}
		p.EdgeSource = &id
	}
	return p, nil
}

// argument returns the raw value of a directive argument.
func argument(d *ast.Directive, name string) string {
	a := d.Arguments.ForName(name)
	if a == nil || a.Value == nil {
		return ""
	}
	return a.Value.Raw
}
