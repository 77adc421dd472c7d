package load

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/syssam/pygen/schema"
)

// ErrInvalidDocument is returned for documents that do not describe data
// models.
var ErrInvalidDocument = errors.New("pygen: invalid data model document")

// Document is a set of data models in YAML or JSON form. Views declared at
// the top level can be shared between data models by id.
type Document struct {
	Views      []*View      `json:"views,omitempty" yaml:"views,omitempty"`
	DataModels []*DataModel `json:"dataModels" yaml:"dataModels"`
}

// DataModel is a data model of a document.
type DataModel struct {
	Space       string  `json:"space" yaml:"space"`
	ExternalID  string  `json:"externalId" yaml:"externalId"`
	Version     string  `json:"version,omitempty" yaml:"version,omitempty"`
	Name        string  `json:"name,omitempty" yaml:"name,omitempty"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Views       []*View `json:"views" yaml:"views"`
}

// View is a view of a document. A view inside a data model with the id of a
// top-level view and no properties is a reference to that view.
type View struct {
	Space       string          `json:"space" yaml:"space"`
	ExternalID  string          `json:"externalId" yaml:"externalId"`
	Version     string          `json:"version,omitempty" yaml:"version,omitempty"`
	Name        string          `json:"name,omitempty" yaml:"name,omitempty"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
	UsedFor     string          `json:"usedFor,omitempty" yaml:"usedFor,omitempty"`
	Writable    *bool           `json:"writable,omitempty" yaml:"writable,omitempty"`
	Implements  []schema.ViewID `json:"implements,omitempty" yaml:"implements,omitempty"`
	Properties  Properties      `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// ID returns the view id.
func (v *View) ID() schema.ViewID {
	return schema.ViewID{Space: v.Space, ExternalID: v.ExternalID, Version: v.Version}
}

// Property is a view property of a document.
type Property struct {
	Name        string `json:"-" yaml:"-"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	// Connection is one of the connection kinds. Empty means a mapped
	// property.
	Connection        string              `json:"connection,omitempty" yaml:"connection,omitempty"`
	Type              string              `json:"type,omitempty" yaml:"type,omitempty"`
	List              bool                `json:"list,omitempty" yaml:"list,omitempty"`
	Nullable          *bool               `json:"nullable,omitempty" yaml:"nullable,omitempty"`
	Container         *schema.ContainerID `json:"container,omitempty" yaml:"container,omitempty"`
	ContainerProperty string              `json:"containerProperty,omitempty" yaml:"containerProperty,omitempty"`
	Default           any                 `json:"default,omitempty" yaml:"default,omitempty"`
	Source            *schema.ViewID      `json:"source,omitempty" yaml:"source,omitempty"`
	EdgeType          *schema.TypeRef     `json:"edgeType,omitempty" yaml:"edgeType,omitempty"`
	Direction         string              `json:"direction,omitempty" yaml:"direction,omitempty"`
	EdgeSource        *schema.ViewID      `json:"edgeSource,omitempty" yaml:"edgeSource,omitempty"`
	Through           string              `json:"through,omitempty" yaml:"through,omitempty"`
}

// Properties is a mapping from property name to property that keeps the
// order the properties are written in.
type Properties []*Property

// UnmarshalYAML implements yaml.Unmarshaler for Properties.
func (p *Properties) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: properties must be a mapping", node.Line)
	}
	props := make(Properties, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		prop := &Property{}
		if err := value.Decode(prop); err != nil {
			return fmt.Errorf("property %s: %w", key.Value, err)
		}
		prop.Name = key.Value
		props = append(props, prop)
	}
	*p = props
	return nil
}

// MarshalYAML implements yaml.Marshaler for Properties.
func (p Properties) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, prop := range p {
		value := &yaml.Node{}
		if err := value.Encode(prop); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: prop.Name}, value)
	}
	return node, nil
}

// NewProperty converts a document property to a schema property.
func NewProperty(p *Property) (*schema.Property, error) {
	sp := &schema.Property{
		Name:              p.Name,
		Description:       p.Description,
		Kind:              schema.Mapped,
		Nullable:          p.Nullable == nil || *p.Nullable,
		Container:         p.Container,
		ContainerProperty: p.ContainerProperty,
		Default:           p.Default,
		Source:            p.Source,
		EdgeType:          p.EdgeType,
		EdgeSource:        p.EdgeSource,
		Through:           p.Through,
	}
	if p.Connection == "" {
		if p.Type == "" {
			return nil, fmt.Errorf("property %q: missing type", p.Name)
		}
		sp.Type = schema.DataType{Tag: schema.TypeTag(p.Type), List: p.List}
		return sp, nil
	}
	sp.Kind = schema.PropertyKind(p.Connection)
	switch sp.Kind {
	case schema.SingleEdge, schema.MultiEdge:
		if p.Source == nil {
			return nil, fmt.Errorf("property %q: connection without source", p.Name)
		}
		switch dir := schema.Direction(strings.ToLower(p.Direction)); dir {
		case "":
			sp.Direction = schema.Outwards
		case schema.Outwards, schema.Inwards:
			sp.Direction = dir
		default:
			return nil, fmt.Errorf("property %q: unknown direction %q", p.Name, p.Direction)
		}
	case schema.SingleReverseDirectRelation, schema.MultiReverseDirectRelation:
	default:
		return nil, fmt.Errorf("property %q: unknown connection %q", p.Name, p.Connection)
	}
	return sp, nil
}

// NewView converts a document view to a schema view.
func NewView(v *View) (*schema.View, error) {
	if v.Space == "" || v.ExternalID == "" {
		return nil, fmt.Errorf("%w: view %q needs a space and an external id", ErrInvalidDocument, v.ExternalID)
	}
	sv := &schema.View{
		ID:          v.ID(),
		Name:        v.Name,
		Description: v.Description,
		UsedFor:     schema.UsedFor(v.UsedFor),
		Writable:    v.Writable == nil || *v.Writable,
		Implements:  v.Implements,
		Properties:  make([]*schema.Property, 0, len(v.Properties)),
	}
	for _, p := range v.Properties {
		sp, err := NewProperty(p)
		if err != nil {
			return nil, fmt.Errorf("view %s: %w", sv.ID, err)
		}
		sv.Properties = append(sv.Properties, sp)
	}
	return sv, nil
}

// Models converts the document to schema data models. Views shared by
// id are converted once.
func (d *Document) Models() ([]*schema.DataModel, error) {
	if len(d.DataModels) == 0 {
		return nil, fmt.Errorf("%w: no data models", ErrInvalidDocument)
	}
	shared := make(map[schema.ViewID]*schema.View, len(d.Views))
	for _, v := range d.Views {
		sv, err := NewView(v)
		if err != nil {
			return nil, err
		}
		if _, ok := shared[sv.ID]; ok {
			return nil, fmt.Errorf("%w: view %s declared twice", ErrInvalidDocument, sv.ID)
		}
		shared[sv.ID] = sv
	}
	models := make([]*schema.DataModel, 0, len(d.DataModels))
	for _, m := range d.DataModels {
		if m.Space == "" || m.ExternalID == "" {
			return nil, fmt.Errorf("%w: data model %q needs a space and an external id", ErrInvalidDocument, m.ExternalID)
		}
		dm := &schema.DataModel{
			ID:          schema.DataModelID{Space: m.Space, ExternalID: m.ExternalID, Version: m.Version},
			Name:        m.Name,
			Description: m.Description,
		}
		for _, v := range m.Views {
			if sv, ok := shared[v.ID()]; ok {
				if len(v.Properties) > 0 {
					return nil, fmt.Errorf("%w: view %s is declared at the top level and in data model %s", ErrInvalidDocument, sv.ID, dm.ID)
				}
				dm.Views = append(dm.Views, sv)
				continue
			}
			sv, err := NewView(v)
			if err != nil {
				return nil, fmt.Errorf("data model %s: %w", dm.ID, err)
			}
			dm.Views = append(dm.Views, sv)
		}
		models = append(models, dm)
	}
	return models, nil
}

// Parse decodes a YAML or JSON document.
func Parse(data []byte) ([]*schema.DataModel, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return doc.Models()
}

// Load reads data models from a file. YAML and JSON documents carry their own
// data model ids; GraphQL files are loaded into model.
func Load(path string, model schema.DataModelID) ([]*schema.DataModel, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml", ".json", ".graphql", ".gql":
	default:
		return nil, fmt.Errorf("%w: unknown file extension %q", ErrInvalidDocument, ext)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var models []*schema.DataModel
	if ext == ".graphql" || ext == ".gql" {
		var dm *schema.DataModel
		dm, err = ParseGraphQL(filepath.Base(path), data, model)
		models = []*schema.DataModel{dm}
	} else {
		models, err = Parse(data)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return models, nil
}

// LoadAll reads every file and concatenates the data models in order.
func LoadAll(paths []string, model schema.DataModelID) ([]*schema.DataModel, error) {
	var all []*schema.DataModel
	for _, path := range paths {
		models, err := Load(path, model)
		if err != nil {
			return nil, err
		}
		all = append(all, models...)
	}
	return all, nil
}
