package gen

import (
	"fmt"
	"slices"
	"strings"

	"github.com/syssam/pygen/schema"
)

// DataClass is the generated class family of one view: the read class, the
// write class, their list classes and the GraphQL class.
//
// Names are set when the class is created. Fields, implements, writability
// and the filter method are attached by the pipeline afterwards and are
// read-only for every consumer.
type DataClass struct {
	// Name is the read class name.
	Name            string
	WriteName       string
	ReadListName    string
	WriteListName   string
	GraphQLName     string
	GraphQLListName string
	// DocName and DocListName are the class in words, for documentation.
	DocName     string
	DocListName string
	// Variable and VariableList name one instance and a list of instances.
	// They always differ.
	Variable     string
	VariableList string
	// FileName is the module stem of the class.
	FileName    string
	ViewID      schema.ViewID
	UsedFor     schema.UsedFor
	Description string

	fields      []Field
	implements  []*DataClass
	writable    bool
	isInterface bool
	filter      *FilterMethod
	attached    bool
}

// Fields returns the fields in property declaration order. The synthetic
// end_node field of an edge class comes first.
func (d *DataClass) Fields() []Field { return slices.Clone(d.fields) }

// Implements returns the minimal set of parent classes, sorted by name.
func (d *DataClass) Implements() []*DataClass { return slices.Clone(d.implements) }

// IsWritable reports if instances of the class can be written.
func (d *DataClass) IsWritable() bool { return d.writable }

// IsInterface reports if another class of the run implements this class.
func (d *DataClass) IsInterface() bool { return d.isInterface }

// IsEdgeClass reports if the class describes edges.
func (d *DataClass) IsEdgeClass() bool { return d.UsedFor == schema.UsedForEdge }

// FilterMethod returns the filter method of the class.
func (d *DataClass) FilterMethod() *FilterMethod { return d.filter }

// EndNodes returns the (start, edge type, end) triples an edge class is used
// for. It is empty for node classes.
func (d *DataClass) EndNodes() []EndNode {
	for _, f := range d.fields {
		if f, ok := f.(*InterfaceEndNodeField); ok {
			return slices.Clone(f.EndNodes)
		}
	}
	return nil
}

// FieldByName returns the field with the given generated name.
func (d *DataClass) FieldByName(name string) (Field, bool) {
	for _, f := range d.fields {
		if f.Base().Name == name {
			return f, true
		}
	}
	return nil, false
}

// WritableFields returns the fields the write class carries.
func (d *DataClass) WritableFields() []Field {
	var fields []Field
	for _, f := range d.fields {
		if !f.Base().ReadOnly {
			fields = append(fields, f)
		}
	}
	return fields
}

// HasTimeField reports if any field holds timestamps.
func (d *DataClass) HasTimeField() bool { return d.hasPrimitive(schema.Timestamp) }

// HasDateField reports if any field holds dates.
func (d *DataClass) HasDateField() bool { return d.hasPrimitive(schema.Date) }

// HasTextField reports if any field holds text.
func (d *DataClass) HasTextField() bool { return d.hasPrimitive(schema.Text) }

// HasJSONField reports if any field holds JSON objects.
func (d *DataClass) HasJSONField() bool { return d.hasPrimitive(schema.JSON) }

func (d *DataClass) hasPrimitive(tag schema.TypeTag) bool {
	return slices.ContainsFunc(d.fields, func(f Field) bool {
		switch f := f.(type) {
		case *PrimitiveField:
			return f.Type == tag
		case *PrimitiveListField:
			return f.Type == tag
		}
		return false
	})
}

// HasDirectRelations reports if any field is a direct relation.
func (d *DataClass) HasDirectRelations() bool {
	return slices.ContainsFunc(d.fields, func(f Field) bool {
		switch f.(type) {
		case *DirectRelationField, *AnyDirectRelationField:
			return true
		}
		return false
	})
}

// HasExternalReferences reports if any field references an external resource.
func (d *DataClass) HasExternalReferences() bool {
	return HasFieldOfType[*ExternalReferenceField](d)
}

// HasEdgeWithProperties reports if any connection goes through an edge class.
func (d *DataClass) HasEdgeWithProperties() bool {
	return slices.ContainsFunc(d.fields, func(f Field) bool {
		e, ok := f.(*EdgeRelationField)
		return ok && e.Edge != nil
	})
}

// IsAllFieldsOfType reports if every field of d is a T. It is true for a
// class without fields.
func IsAllFieldsOfType[T Field](d *DataClass) bool {
	for _, f := range d.fields {
		if _, ok := f.(T); !ok {
			return false
		}
	}
	return true
}

// HasFieldOfType reports if any field of d is a T.
func HasFieldOfType[T Field](d *DataClass) bool {
	for _, f := range d.fields {
		if _, ok := f.(T); ok {
			return true
		}
	}
	return false
}

// FieldsOfType returns the fields of d that are a T.
func FieldsOfType[T Field](d *DataClass) []T {
	var fields []T
	for _, f := range d.fields {
		if f, ok := f.(T); ok {
			fields = append(fields, f)
		}
	}
	return fields
}

// Dependencies returns every class a relational field of d refers to,
// once each, sorted by name. Each end class of an end_node field counts.
func (d *DataClass) Dependencies() []*DataClass {
	seen := make(map[schema.ViewID]*DataClass)
	add := func(dc *DataClass) {
		if dc != nil {
			seen[dc.ViewID] = dc
		}
	}
	for _, f := range d.fields {
		switch f := f.(type) {
		case *DirectRelationField:
			add(f.Target)
		case *EdgeRelationField:
			add(f.Target)
			add(f.Edge)
		case *InterfaceEndNodeField:
			for _, n := range f.EndNodes {
				add(n.Start)
				add(n.End)
			}
		}
	}
	deps := make([]*DataClass, 0, len(seen))
	for _, dc := range seen {
		deps = append(deps, dc)
	}
	slices.SortFunc(deps, compareDataClasses)
	return deps
}

// String returns the read class name and the view it comes from.
func (d *DataClass) String() string {
	return fmt.Sprintf("%s(%s)", d.Name, d.ViewID)
}

func compareDataClasses(a, b *DataClass) int {
	if c := strings.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	return a.ViewID.Compare(b.ViewID)
}

// newShell creates the data class of view without fields. base is the name
// the view was given by the unique-name pass.
func newShell(view *schema.View, base string, cfg *Config, w *warner) (*DataClass, error) {
	if ToIdentifier(base, Snake, Unchanged) == coreModule {
		return nil, &ReservedNameError{View: view.ID, Name: base}
	}
	usedFor := view.UsedFor
	switch usedFor {
	case schema.UsedForNode, schema.UsedForEdge:
	case "":
		usedFor = schema.UsedForNode
	case schema.UsedForAll:
		w.add(Warning{
			Kind:    WarnUsedForAll,
			View:    view.ID,
			Message: `view is used for "all"; it is generated as a node class only`,
		})
		usedFor = schema.UsedForNode
	default:
		return nil, NewSchemaError(view.ID, "", fmt.Sprintf("unknown used_for %q", usedFor), nil)
	}

	naming := cfg.Naming.DataClass
	name, reserved := escapeReserved(naming.Name.Apply(base), ReservedDataClass)
	if reserved {
		w.add(Warning{
			Kind:    WarnReservedName,
			View:    view.ID,
			Message: fmt.Sprintf("class name is reserved, the class is named %q", name),
		})
	}
	if dropped := droppedRunes(base); dropped != "" {
		w.add(Warning{
			Kind:    WarnRenamed,
			View:    view.ID,
			Message: fmt.Sprintf("view name %q is generated as class %q, dropping %q", base, name, dropped),
		})
	}
	file, reserved := escapeReserved(naming.File.Apply(base), ReservedFilename)
	if reserved {
		w.add(Warning{
			Kind:    WarnReservedName,
			View:    view.ID,
			Message: fmt.Sprintf("file name is reserved, the module is named %q", file),
		})
	}
	variable := escapeKeyword(naming.Variable.Apply(base))
	variableList := escapeKeyword(naming.VariableList.Apply(base))
	if variableList == variable {
		variableList += "_list"
	}
	docName := ToWords(base, Singular)
	docListName := ToWords(base, Plural)
	if docListName == docName {
		docListName += " list"
	}
	return &DataClass{
		Name:            name,
		WriteName:       name + "Write",
		ReadListName:    name + "List",
		WriteListName:   name + "WriteList",
		GraphQLName:     name + "GraphQL",
		GraphQLListName: name + "GraphQLList",
		DocName:         docName,
		DocListName:     docListName,
		Variable:        variable,
		VariableList:    variableList,
		FileName:        file,
		ViewID:          view.ID,
		UsedFor:         usedFor,
		Description:     view.Description,
		writable:        view.Writable,
	}, nil
}

func escapeKeyword(identifier string) string {
	if _, ok := pythonKeywords[identifier]; ok {
		return identifier + "_"
	}
	return identifier
}

// attachFields builds the fields of d. Every class of the run must already
// be in t. It runs once per class.
func (d *DataClass) attachFields(view *schema.View, t *Table, views []*schema.View, cfg *Config, w *warner) error {
	if d.attached {
		return fmt.Errorf("pygen: fields of %s attached twice", d)
	}
	var fields []Field
	if d.IsEdgeClass() {
		nodes, err := t.endNodes(d, views)
		if err != nil {
			return err
		}
		if len(nodes) > 0 {
			fields = append(fields, &InterfaceEndNodeField{
				FieldBase: FieldBase{Name: "end_node", PropName: "endNode", DocName: "end node"},
				EndNodes:  nodes,
			})
		}
	}
	for _, prop := range view.Properties {
		f, err := newField(view, prop, t, cfg, w)
		if err != nil {
			return err
		}
		if f != nil {
			fields = append(fields, f)
		}
	}
	d.fields = fields
	d.attached = true
	return nil
}

// updateImplementsAndWritable records the minimal parents of d. A class
// whose fields are all one-to-many connections is writable: writing it
// only writes its edges.
func (d *DataClass) updateImplementsAndWritable(parents []*DataClass, isInterface bool) {
	d.implements = slices.Clone(parents)
	slices.SortFunc(d.implements, compareDataClasses)
	d.isInterface = isInterface
	allEdges := !slices.ContainsFunc(d.fields, func(f Field) bool {
		e, ok := f.(*EdgeRelationField)
		return !ok || !e.IsOneToMany()
	})
	if allEdges {
		d.writable = true
	}
}
