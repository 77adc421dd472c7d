package gen

import (
	"fmt"
	"strings"

	"github.com/syssam/pygen/schema"
)

// FilterMethod is the filter signature of a data class: its parameters in
// call order and the conditions they build.
type FilterMethod struct {
	Parameters      []*FilterParameter
	Implementations []*FilterImplementation
}

// Parameter returns the parameter with the given name.
func (m *FilterMethod) Parameter(name string) (*FilterParameter, bool) {
	for _, p := range m.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// ImplementationsOf returns the implementations fed by the parameter.
func (m *FilterMethod) ImplementationsOf(name string) []*FilterImplementation {
	var impls []*FilterImplementation
	for _, impl := range m.Implementations {
		for _, p := range impl.Parameters {
			if p.Name == name {
				impls = append(impls, impl)
				break
			}
		}
	}
	return impls
}

// FilterParameter is one keyword parameter of a filter method. Every
// parameter is optional and defaults to None.
type FilterParameter struct {
	Name        string `json:"name" yaml:"name" msgpack:"name"`
	Type        string `json:"type" yaml:"type" msgpack:"type"`
	Description string `json:"description" yaml:"description" msgpack:"description"`
	Default     string `json:"default" yaml:"default" msgpack:"default"`
	Nullable    bool   `json:"nullable" yaml:"nullable" msgpack:"nullable"`
}

// ConditionForm is the runtime shape a parameter value is tested for.
type ConditionForm string

// Condition forms of relation filters.
const (
	// BareString is an external id in the default instance space.
	BareString ConditionForm = "str"
	// StructuredIdentity is a (space, external id) pair.
	StructuredIdentity ConditionForm = "tuple"
)

// Condition decides which implementation a parameter value feeds when one
// parameter feeds several.
type Condition struct {
	Parameter string
	// Form is the Python type tested for.
	Form ConditionForm
	// List tests the elements of a list instead of a single value.
	List bool
}

// String returns the condition as a Python expression.
func (c Condition) String() string {
	if c.List {
		return fmt.Sprintf("%[1]s and isinstance(%[1]s, list) and isinstance(%[1]s[0], %[2]s)", c.Parameter, c.Form)
	}
	return fmt.Sprintf("isinstance(%s, %s)", c.Parameter, c.Form)
}

// FilterImplementation applies one operator to one property.
type FilterImplementation struct {
	Operator Operator
	// Path is the property the filter targets: ["node"|"edge", "externalId"|"space"]
	// for instance identity, [space, "externalId/version", property] otherwise.
	Path []string
	// Parameters holds one parameter, or min and max for Range.
	Parameters []*FilterParameter
	// Condition is set when the parameter also feeds other implementations.
	Condition *Condition
	// InstanceSpace is the space of bare-string relation values. Empty means
	// the space of the client.
	InstanceSpace string
}

// filterCandidate is a field that takes part in filter synthesis.
type filterCandidate struct {
	name      string
	docName   string
	property  string
	tag       schema.TypeTag
	path      []string
	relation  bool
	operators []Operator
	synthetic bool
}

// operatorOrder is the order implementations are emitted in for one field.
var operatorOrder = []Operator{Equals, In, Prefix, Range}

// newFilterMethod synthesizes the filter method of dc. Only scalar
// primitives and single direct relations take part, followed by the
// instance external id and space.
func newFilterMethod(dc *DataClass, cfg *Config, w *warner) *FilterMethod {
	var candidates []filterCandidate
	viewPath := func(prop string) []string {
		return []string{dc.ViewID.Space, dc.ViewID.ExternalID + "/" + dc.ViewID.Version, prop}
	}
	for _, f := range dc.fields {
		b := f.Base()
		switch f := f.(type) {
		case *PrimitiveField:
			candidates = append(candidates, filterCandidate{
				name: b.Name, docName: b.DocName, property: b.PropName, tag: f.Type,
				path: viewPath(b.PropName), operators: cfg.Filters.Operators(f.Type),
			})
		case *DirectRelationField:
			if !f.List {
				candidates = append(candidates, relationCandidate(b, viewPath(b.PropName), cfg))
			}
		case *AnyDirectRelationField:
			if !f.List {
				candidates = append(candidates, relationCandidate(b, viewPath(b.PropName), cfg))
			}
		}
	}
	instance := "node"
	if dc.IsEdgeClass() {
		instance = "edge"
	}
	synthetic := []filterCandidate{
		{name: "external_id", docName: "external ID", property: "externalId", tag: schema.Text,
			path: []string{instance, "externalId"}, operators: cfg.Filters.ExternalID, synthetic: true},
		{name: "space", docName: "space", property: "space", tag: schema.Text,
			path: []string{instance, "space"}, operators: cfg.Filters.Space, synthetic: true},
	}
	candidates = append(candidates, synthetic...)

	s := &filterSynth{
		view:  dc.ViewID,
		used:  make(map[string]bool),
		w:     w,
		space: cfg.DefaultInstanceSpace,
		m:     &FilterMethod{},
	}
	// Instance identity parameters keep their names; view properties yield.
	for _, c := range synthetic {
		for _, op := range c.operators {
			s.used[parameterName(c.name, op, false)] = true
			if op == Range {
				s.used[parameterName(c.name, op, true)] = true
			}
		}
	}
	for _, c := range candidates {
		s.add(c)
	}
	return s.m
}

func relationCandidate(b *FieldBase, path []string, cfg *Config) filterCandidate {
	return filterCandidate{
		name: b.Name, docName: b.DocName, property: b.PropName, tag: schema.DirectRelation,
		path: path, relation: true, operators: cfg.Filters.Operators(schema.DirectRelation),
	}
}

type filterSynth struct {
	view  schema.ViewID
	used  map[string]bool
	w     *warner
	space string
	m     *FilterMethod
}

func (s *filterSynth) add(c filterCandidate) {
	var equals, in, prefix, rng bool
	for _, op := range c.operators {
		switch op {
		case Equals:
			equals = true
		case In:
			in = true
		case Prefix:
			prefix = true
		case Range:
			rng = true
		}
	}
	if c.relation {
		prefix, rng = false, false
	}
	for _, op := range operatorOrder {
		switch {
		case op == Equals && equals, op == In && in && !equals:
			// Equals and In share one parameter.
			p := s.param(c, parameterName(c.name, Equals, false), equalsInType(c, equals, in),
				fmt.Sprintf("The %s to filter on.", c.docName))
			s.equalsIn(c, p, equals, in)
		case op == Prefix && prefix:
			p := s.param(c, parameterName(c.name, Prefix, false), "str | None",
				fmt.Sprintf("The prefix of the %s to filter on.", c.docName))
			s.implement(c, Prefix, nil, p)
		case op == Range && rng:
			lo := s.param(c, parameterName(c.name, Range, false), pythonTypes[c.tag]+" | None",
				fmt.Sprintf("The minimum value of the %s to filter on.", c.docName))
			hi := s.param(c, parameterName(c.name, Range, true), pythonTypes[c.tag]+" | None",
				fmt.Sprintf("The maximum value of the %s to filter on.", c.docName))
			s.implement(c, Range, nil, lo, hi)
		}
	}
}

// equalsIn emits the implementations fed by the shared Equals/In parameter.
// Relations get one implementation per identity form.
func (s *filterSynth) equalsIn(c filterCandidate, p *FilterParameter, equals, in bool) {
	shared := equals && in
	if !c.relation {
		if equals {
			s.implement(c, Equals, s.condition(shared, p, ConditionForm(pythonTypes[c.tag]), false), p)
		}
		if in {
			s.implement(c, In, s.condition(shared, p, ConditionForm(pythonTypes[c.tag]), true), p)
		}
		return
	}
	for _, op := range []Operator{Equals, In} {
		if (op == Equals && !equals) || (op == In && !in) {
			continue
		}
		for _, form := range []ConditionForm{BareString, StructuredIdentity} {
			cond := &Condition{Parameter: p.Name, Form: form, List: op == In}
			impl := s.implement(c, op, cond, p)
			if form == BareString {
				impl.InstanceSpace = s.space
			}
		}
	}
}

func (s *filterSynth) condition(shared bool, p *FilterParameter, form ConditionForm, list bool) *Condition {
	if !shared {
		return nil
	}
	return &Condition{Parameter: p.Name, Form: form, List: list}
}

func (s *filterSynth) implement(c filterCandidate, op Operator, cond *Condition, params ...*FilterParameter) *FilterImplementation {
	impl := &FilterImplementation{
		Operator:   op,
		Path:       c.path,
		Parameters: params,
		Condition:  cond,
	}
	s.m.Implementations = append(s.m.Implementations, impl)
	return impl
}

// param claims a parameter name. Names taken by an earlier parameter or
// reserved for the method itself get a trailing underscore.
func (s *filterSynth) param(c filterCandidate, name, typ, desc string) *FilterParameter {
	if !c.synthetic {
		original := name
		for s.used[name] || IsReserved(name, ReservedParameter) {
			name += "_"
		}
		if name != original {
			s.w.add(Warning{
				Kind:      WarnParameterRenamed,
				View:      s.view,
				Property:  c.property,
				Parameter: name,
				Message:   fmt.Sprintf("filter parameter %q is taken, it is named %q", original, name),
			})
		}
	}
	s.used[name] = true
	p := &FilterParameter{Name: name, Type: typ, Description: desc, Default: "None", Nullable: true}
	s.m.Parameters = append(s.m.Parameters, p)
	return p
}

// parameterName returns the parameter name of field for op. For Range, upper
// selects the max bound.
func parameterName(field string, op Operator, upper bool) string {
	switch op {
	case Prefix:
		if strings.HasSuffix(field, "_") {
			return field + "prefix"
		}
		return field + "_prefix"
	case Range:
		if upper {
			return "max_" + field
		}
		return "min_" + field
	default:
		return field
	}
}

// equalsInType widens the type of a shared Equals/In parameter to accept
// what either operator takes.
func equalsInType(c filterCandidate, equals, in bool) string {
	var scalar, list []string
	if c.relation {
		scalar = []string{"str", "tuple[str, str]"}
		list = []string{"list[str]", "list[tuple[str, str]]"}
	} else {
		t := pythonTypes[c.tag]
		scalar = []string{t}
		list = []string{"list[" + t + "]"}
	}
	var types []string
	if equals {
		types = append(types, scalar...)
	}
	if in {
		types = append(types, list...)
	}
	return strings.Join(append(types, "None"), " | ")
}
