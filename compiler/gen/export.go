package gen

import (
	"github.com/syssam/pygen/schema"
)

// Field kinds in a manifest.
const (
	KindPrimitive         = "primitive"
	KindPrimitiveList     = "primitive_list"
	KindExternalReference = "external_reference"
	KindDirectRelation    = "direct_relation"
	KindAnyDirectRelation = "any_direct_relation"
	KindEdgeRelation      = "edge_relation"
	KindEndNode           = "end_node"
)

type (
	// Manifest is the serializable form of a Graph handed to the renderer.
	Manifest struct {
		RunID           string              `json:"runId,omitempty" yaml:"runId,omitempty" msgpack:"runId,omitempty"`
		Generator       string              `json:"generator,omitempty" yaml:"generator,omitempty" msgpack:"generator,omitempty"`
		DataClasses     []DataClassSpec     `json:"dataClasses" yaml:"dataClasses" msgpack:"dataClasses"`
		APIClasses      []APIClassSpec      `json:"apiClasses" yaml:"apiClasses" msgpack:"apiClasses"`
		MultiAPIClasses []MultiAPIClassSpec `json:"multiApiClasses" yaml:"multiApiClasses" msgpack:"multiApiClasses"`
		Warnings        []Warning           `json:"warnings,omitempty" yaml:"warnings,omitempty" msgpack:"warnings,omitempty"`
	}

	// DataClassSpec describes one data class.
	DataClassSpec struct {
		Name            string        `json:"name" yaml:"name" msgpack:"name"`
		WriteName       string        `json:"writeName" yaml:"writeName" msgpack:"writeName"`
		ReadListName    string        `json:"readListName" yaml:"readListName" msgpack:"readListName"`
		WriteListName   string        `json:"writeListName" yaml:"writeListName" msgpack:"writeListName"`
		GraphQLName     string        `json:"graphqlName" yaml:"graphqlName" msgpack:"graphqlName"`
		GraphQLListName string        `json:"graphqlListName" yaml:"graphqlListName" msgpack:"graphqlListName"`
		DocName         string        `json:"docName" yaml:"docName" msgpack:"docName"`
		DocListName     string        `json:"docListName" yaml:"docListName" msgpack:"docListName"`
		Variable        string        `json:"variable" yaml:"variable" msgpack:"variable"`
		VariableList    string        `json:"variableList" yaml:"variableList" msgpack:"variableList"`
		FileName        string        `json:"fileName" yaml:"fileName" msgpack:"fileName"`
		View            schema.ViewID `json:"view" yaml:"view" msgpack:"view"`
		UsedFor         string        `json:"usedFor" yaml:"usedFor" msgpack:"usedFor"`
		Description     string        `json:"description,omitempty" yaml:"description,omitempty" msgpack:"description,omitempty"`
		Writable        bool          `json:"writable" yaml:"writable" msgpack:"writable"`
		Interface       bool          `json:"interface" yaml:"interface" msgpack:"interface"`
		Implements      []string      `json:"implements,omitempty" yaml:"implements,omitempty" msgpack:"implements,omitempty"`
		Dependencies    []string      `json:"dependencies,omitempty" yaml:"dependencies,omitempty" msgpack:"dependencies,omitempty"`
		Fields          []FieldSpec   `json:"fields" yaml:"fields" msgpack:"fields"`
		Filter          FilterSpec    `json:"filter" yaml:"filter" msgpack:"filter"`
	}

	// FieldSpec describes one field. Class references are read class names.
	FieldSpec struct {
		Name        string          `json:"name" yaml:"name" msgpack:"name"`
		PropName    string          `json:"propName" yaml:"propName" msgpack:"propName"`
		DocName     string          `json:"docName" yaml:"docName" msgpack:"docName"`
		Description string          `json:"description,omitempty" yaml:"description,omitempty" msgpack:"description,omitempty"`
		Kind        string          `json:"kind" yaml:"kind" msgpack:"kind"`
		Type        string          `json:"type,omitempty" yaml:"type,omitempty" msgpack:"type,omitempty"`
		PythonType  string          `json:"pythonType,omitempty" yaml:"pythonType,omitempty" msgpack:"pythonType,omitempty"`
		List        bool            `json:"list,omitempty" yaml:"list,omitempty" msgpack:"list,omitempty"`
		Nullable    bool            `json:"nullable,omitempty" yaml:"nullable,omitempty" msgpack:"nullable,omitempty"`
		ReadOnly    bool            `json:"readOnly,omitempty" yaml:"readOnly,omitempty" msgpack:"readOnly,omitempty"`
		Alias       bool            `json:"alias,omitempty" yaml:"alias,omitempty" msgpack:"alias,omitempty"`
		Default     string          `json:"default,omitempty" yaml:"default,omitempty" msgpack:"default,omitempty"`
		Target      string          `json:"target,omitempty" yaml:"target,omitempty" msgpack:"target,omitempty"`
		Edge        string          `json:"edge,omitempty" yaml:"edge,omitempty" msgpack:"edge,omitempty"`
		EdgeType    *schema.TypeRef `json:"edgeType,omitempty" yaml:"edgeType,omitempty" msgpack:"edgeType,omitempty"`
		Direction   string          `json:"direction,omitempty" yaml:"direction,omitempty" msgpack:"direction,omitempty"`
		EndNodes    []EndNodeSpec   `json:"endNodes,omitempty" yaml:"endNodes,omitempty" msgpack:"endNodes,omitempty"`
	}

	// EndNodeSpec is one (start, edge type, end) triple of an edge class.
	EndNodeSpec struct {
		Start    string         `json:"start" yaml:"start" msgpack:"start"`
		EdgeType schema.TypeRef `json:"edgeType" yaml:"edgeType" msgpack:"edgeType"`
		End      string         `json:"end" yaml:"end" msgpack:"end"`
	}

	// FilterSpec describes a filter method.
	FilterSpec struct {
		Parameters      []FilterParameter         `json:"parameters" yaml:"parameters" msgpack:"parameters"`
		Implementations []FilterImplementationSpec `json:"implementations" yaml:"implementations" msgpack:"implementations"`
	}

	// FilterImplementationSpec describes one filter implementation.
	// Parameters are referenced by name.
	FilterImplementationSpec struct {
		Operator      string   `json:"operator" yaml:"operator" msgpack:"operator"`
		Path          []string `json:"path" yaml:"path" msgpack:"path"`
		Parameters    []string `json:"parameters" yaml:"parameters" msgpack:"parameters"`
		Condition     string   `json:"condition,omitempty" yaml:"condition,omitempty" msgpack:"condition,omitempty"`
		InstanceSpace string   `json:"instanceSpace,omitempty" yaml:"instanceSpace,omitempty" msgpack:"instanceSpace,omitempty"`
	}

	// APIClassSpec describes one API class.
	APIClassSpec struct {
		Name            string `json:"name" yaml:"name" msgpack:"name"`
		FileName        string `json:"fileName" yaml:"fileName" msgpack:"fileName"`
		Variable        string `json:"variable" yaml:"variable" msgpack:"variable"`
		ParentAttribute string `json:"parentAttribute" yaml:"parentAttribute" msgpack:"parentAttribute"`
		DocName         string `json:"docName" yaml:"docName" msgpack:"docName"`
		DataClass       string `json:"dataClass" yaml:"dataClass" msgpack:"dataClass"`
	}

	// MultiAPIClassSpec describes the API group of one data model.
	MultiAPIClassSpec struct {
		Name            string             `json:"name" yaml:"name" msgpack:"name"`
		ClientAttribute string             `json:"clientAttribute" yaml:"clientAttribute" msgpack:"clientAttribute"`
		Model           schema.DataModelID `json:"model" yaml:"model" msgpack:"model"`
		APIs            []string           `json:"apis" yaml:"apis" msgpack:"apis"`
	}
)

// Export converts g to its manifest. The result only depends on g.
func Export(g *Graph) (*Manifest, error) {
	m := &Manifest{
		DataClasses:     make([]DataClassSpec, 0, len(g.DataClasses)),
		APIClasses:      make([]APIClassSpec, 0, len(g.APIClasses)),
		MultiAPIClasses: make([]MultiAPIClassSpec, 0, len(g.MultiAPIClasses)),
		Warnings:        g.Warnings,
	}
	for _, dc := range g.DataClasses {
		spec, err := exportDataClass(dc)
		if err != nil {
			return nil, err
		}
		m.DataClasses = append(m.DataClasses, spec)
	}
	for _, api := range g.APIClasses {
		m.APIClasses = append(m.APIClasses, APIClassSpec{
			Name:            api.Name,
			FileName:        api.FileName,
			Variable:        api.Variable,
			ParentAttribute: api.ParentAttribute,
			DocName:         api.DocName,
			DataClass:       api.DataClass.Name,
		})
	}
	for _, multi := range g.MultiAPIClasses {
		spec := MultiAPIClassSpec{
			Name:            multi.Name,
			ClientAttribute: multi.ClientAttribute,
			Model:           multi.Model,
		}
		for _, api := range multi.APIs {
			spec.APIs = append(spec.APIs, api.Name)
		}
		m.MultiAPIClasses = append(m.MultiAPIClasses, spec)
	}
	return m, nil
}

func exportDataClass(dc *DataClass) (DataClassSpec, error) {
	spec := DataClassSpec{
		Name:            dc.Name,
		WriteName:       dc.WriteName,
		ReadListName:    dc.ReadListName,
		WriteListName:   dc.WriteListName,
		GraphQLName:     dc.GraphQLName,
		GraphQLListName: dc.GraphQLListName,
		DocName:         dc.DocName,
		DocListName:     dc.DocListName,
		Variable:        dc.Variable,
		VariableList:    dc.VariableList,
		FileName:        dc.FileName,
		View:            dc.ViewID,
		UsedFor:         string(dc.UsedFor),
		Description:     dc.Description,
		Writable:        dc.IsWritable(),
		Interface:       dc.IsInterface(),
		Fields:          make([]FieldSpec, 0, len(dc.fields)),
	}
	for _, p := range dc.implements {
		spec.Implements = append(spec.Implements, p.Name)
	}
	for _, d := range dc.Dependencies() {
		spec.Dependencies = append(spec.Dependencies, d.Name)
	}
	for _, f := range dc.fields {
		fs, err := ExportField(f)
		if err != nil {
			return DataClassSpec{}, NewGenerationError("export", dc.FileName, "field "+f.Base().Name, err)
		}
		spec.Fields = append(spec.Fields, fs)
	}
	if fm := dc.filter; fm != nil {
		spec.Filter.Parameters = make([]FilterParameter, 0, len(fm.Parameters))
		for _, p := range fm.Parameters {
			spec.Filter.Parameters = append(spec.Filter.Parameters, *p)
		}
		for _, impl := range fm.Implementations {
			is := FilterImplementationSpec{
				Operator:      string(impl.Operator),
				Path:          impl.Path,
				InstanceSpace: impl.InstanceSpace,
			}
			for _, p := range impl.Parameters {
				is.Parameters = append(is.Parameters, p.Name)
			}
			if impl.Condition != nil {
				is.Condition = impl.Condition.String()
			}
			spec.Filter.Implementations = append(spec.Filter.Implementations, is)
		}
	}
	return spec, nil
}

// ExportField converts a single field to its manifest form.
func ExportField(f Field) (FieldSpec, error) {
	b := f.Base()
	spec := FieldSpec{
		Name:        b.Name,
		PropName:    b.PropName,
		DocName:     b.DocName,
		Description: b.Description,
		ReadOnly:    b.ReadOnly,
		Alias:       b.NeedsAlias(),
	}
	switch f := f.(type) {
	case *PrimitiveField:
		def, err := f.DefaultLiteral()
		if err != nil {
			return FieldSpec{}, err
		}
		spec.Kind, spec.Type, spec.PythonType = KindPrimitive, string(f.Type), f.PythonType()
		spec.Nullable, spec.Default = f.Nullable, def
	case *PrimitiveListField:
		spec.Kind, spec.Type, spec.PythonType = KindPrimitiveList, string(f.Type), f.PythonType()
		spec.List, spec.Nullable = true, f.Nullable
	case *ExternalReferenceField:
		spec.Kind, spec.Type = KindExternalReference, string(f.Type)
		spec.List, spec.Nullable = f.List, f.Nullable
	case *DirectRelationField:
		spec.Kind, spec.Target = KindDirectRelation, f.Target.Name
		spec.List, spec.Nullable = f.List, f.Nullable
	case *AnyDirectRelationField:
		spec.Kind = KindAnyDirectRelation
		spec.List, spec.Nullable = f.List, f.Nullable
	case *EdgeRelationField:
		spec.Kind, spec.Target, spec.List = KindEdgeRelation, f.Target.Name, f.List
		spec.Direction = string(f.Direction)
		edgeType := f.EdgeType
		spec.EdgeType = &edgeType
		if f.Edge != nil {
			spec.Edge = f.Edge.Name
		}
	case *InterfaceEndNodeField:
		spec.Kind = KindEndNode
		for _, n := range f.EndNodes {
			spec.EndNodes = append(spec.EndNodes, EndNodeSpec{Start: n.Start.Name, EdgeType: n.EdgeType, End: n.End.Name})
		}
	}
	return spec, nil
}
