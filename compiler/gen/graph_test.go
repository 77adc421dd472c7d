package gen

import (
	"errors"
	"log/slog"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/pygen/internal/testutil"
	"github.com/syssam/pygen/schema"
)

// movieViews returns the Person and Role views that reference each other.
func movieViews() (person, role *schema.View) {
	personID := testutil.ViewID("movies", "Person")
	roleID := testutil.ViewID("movies", "Role")
	person = testutil.NodeView(personID,
		testutil.Mapped("name", schema.Text),
		testutil.Edges("roles", roleID, "Person.roles"),
	)
	role = testutil.NodeView(roleID,
		testutil.Mapped("title", schema.Text),
		testutil.Direct("person", &personID),
	)
	return person, role
}

func TestNewGraph(t *testing.T) {
	person, role := movieViews()
	g, err := NewGraph(newTestConfig(t), testutil.Model("Studio", person, role))
	require.NoError(t, err)
	require.Len(t, g.DataClasses, 2)

	p, ok := g.DataClass(person.ID)
	require.True(t, ok)
	r, ok := g.DataClass(role.ID)
	require.True(t, ok)
	assert.Same(t, g.DataClasses[0], p)

	t.Run("person fields", func(t *testing.T) {
		fields := p.Fields()
		require.Len(t, fields, 2)
		name, ok := fields[0].(*PrimitiveField)
		require.True(t, ok)
		assert.Equal(t, "name", name.Name)
		roles, ok := fields[1].(*EdgeRelationField)
		require.True(t, ok)
		assert.Same(t, r, roles.Target)
		assert.Nil(t, roles.Edge)
	})

	t.Run("role fields", func(t *testing.T) {
		fields := r.Fields()
		require.Len(t, fields, 2)
		assert.Equal(t, "title", fields[0].Base().Name)
		ref, ok := fields[1].(*DirectRelationField)
		require.True(t, ok)
		assert.Same(t, p, ref.Target)
		assert.Equal(t, []*DataClass{p}, r.Dependencies())
	})

	t.Run("role filter", func(t *testing.T) {
		m := r.FilterMethod()
		require.NotNil(t, m)
		assert.Equal(t, []string{"title", "title_prefix", "person", "external_id_prefix", "space"}, parameterNames(m))

		var ops []Operator
		for _, impl := range m.ImplementationsOf("title") {
			ops = append(ops, impl.Operator)
		}
		assert.Equal(t, []Operator{Equals, In}, ops)
		assert.Len(t, m.ImplementationsOf("title_prefix"), 1)

		impls := m.ImplementationsOf("person")
		require.Len(t, impls, 4)
		var forms []ConditionForm
		for _, impl := range impls {
			forms = append(forms, impl.Condition.Form)
		}
		assert.Equal(t, []ConditionForm{BareString, StructuredIdentity, BareString, StructuredIdentity}, forms)

		ext := m.ImplementationsOf("external_id_prefix")
		require.Len(t, ext, 1)
		assert.Equal(t, []string{"node", "externalId"}, ext[0].Path)
		assert.Len(t, m.ImplementationsOf("space"), 2)
	})

	t.Run("api classes", func(t *testing.T) {
		require.Len(t, g.APIClasses, 2)
		api := g.APIClasses[0]
		assert.Equal(t, "PersonAPI", api.Name)
		assert.Equal(t, "person", api.FileName)
		assert.Equal(t, "person", api.ParentAttribute)
		assert.Same(t, p, api.DataClass)

		require.Len(t, g.MultiAPIClasses, 1)
		multi := g.MultiAPIClasses[0]
		assert.Equal(t, "StudioAPIs", multi.Name)
		assert.Equal(t, "studio", multi.ClientAttribute)
		assert.Equal(t, g.APIClasses, multi.APIs)
	})

	t.Run("no warnings", func(t *testing.T) {
		assert.Empty(t, g.Warnings)
	})
}

func TestNewGraph_Deterministic(t *testing.T) {
	person, role := movieViews()
	cast := testutil.EdgeView(testutil.ViewID("movies", "Cast"), testutil.Mapped("version", schema.Text))
	person.Properties[1].EdgeSource = &cast.ID

	export := func(views ...*schema.View) map[string]DataClassSpec {
		g, err := NewGraph(newTestConfig(t), testutil.Model("Movies", views...))
		require.NoError(t, err)
		m, err := Export(g)
		require.NoError(t, err)
		byName := make(map[string]DataClassSpec, len(m.DataClasses))
		for _, dc := range m.DataClasses {
			byName[dc.Name] = dc
		}
		return byName
	}

	first := export(person, role, cast)
	assert.Equal(t, first, export(person, role, cast))
	assert.Equal(t, first, export(cast, role, person))
	assert.Equal(t, []string{"Cast", "Role"}, first["Person"].Dependencies)
	require.NotEmpty(t, first["Cast"].Fields)
	assert.Equal(t, KindEndNode, first["Cast"].Fields[0].Kind)
}

func TestNewGraph_SharedViews(t *testing.T) {
	person, role := movieViews()
	g, err := NewGraph(newTestConfig(t),
		testutil.Model("Movies", person, role),
		testutil.Model("Crew", person, person),
	)
	require.NoError(t, err)
	assert.Len(t, g.DataClasses, 2)
	assert.Len(t, g.APIClasses, 2)
	require.Len(t, g.MultiAPIClasses, 2)
	people := g.MultiAPIClasses[1]
	assert.Equal(t, "CrewAPIs", people.Name)
	require.Len(t, people.APIs, 1)
	assert.Same(t, g.APIClasses[0], people.APIs[0])
}

func TestNewGraph_Implements(t *testing.T) {
	describable := testutil.NodeView(testutil.ViewID("cdm", "Describable"), testutil.Mapped("name", schema.Text))
	sourceable := testutil.NodeView(testutil.ViewID("cdm", "Sourceable"))
	sourceable.Implements = []schema.ViewID{describable.ID}
	asset := testutil.NodeView(testutil.ViewID("cdm", "Asset"))
	asset.Implements = []schema.ViewID{sourceable.ID, describable.ID, testutil.ViewID("other", "Outside")}

	g, err := NewGraph(newTestConfig(t), testutil.Model("Core", asset, sourceable, describable))
	require.NoError(t, err)

	a, _ := g.DataClass(asset.ID)
	s, _ := g.DataClass(sourceable.ID)
	d, _ := g.DataClass(describable.ID)
	assert.Equal(t, []*DataClass{s}, a.Implements())
	assert.Equal(t, []*DataClass{d}, s.Implements())
	assert.False(t, a.IsInterface())
	assert.True(t, s.IsInterface())
	assert.True(t, d.IsInterface())
}

func TestNewGraph_Warnings(t *testing.T) {
	rec := &testutil.Recorder{}
	logger := testutil.NewTestLogger(t, testutil.WithLevel(slog.LevelInfo), testutil.WithRecorder(rec))
	cfg := MustNewConfig(WithLogger(logger))

	a := testutil.NodeView(testutil.ViewID("sp", "Pump"), testutil.Mapped("version", schema.Text))
	b := testutil.NodeView(testutil.ViewID("sp", "Valve"),
		testutil.Mapped("version", schema.Int64),
		testutil.Mapped("limit", schema.Boolean),
		testutil.Mapped("maxFlow", schema.Float64),
	)
	all := testutil.NodeView(testutil.ViewID("sp", "Thing"))
	all.UsedFor = schema.UsedForAll

	g, err := NewGraph(cfg, testutil.Model("Plant", a, b, all))
	require.NoError(t, err)

	count := make(map[WarningKind]int)
	for _, w := range g.Warnings {
		count[w.Kind]++
	}
	assert.Equal(t, map[WarningKind]int{
		WarnReservedName:     2,
		WarnVersionShadowed:  2,
		WarnUsedForAll:       1,
		WarnParameterRenamed: 1,
		WarnRenamed:          1,
	}, count)

	t.Run("each warning is logged once", func(t *testing.T) {
		records := rec.Records()
		require.Len(t, records, len(g.Warnings))
		for i, r := range records {
			kind, ok := testutil.Attr(r, "kind")
			require.True(t, ok)
			assert.Equal(t, string(g.Warnings[i].Kind), kind)
			view, _ := testutil.Attr(r, "view")
			assert.Equal(t, g.Warnings[i].View.String(), view)
			if kind == string(WarnRenamed) {
				assert.Equal(t, slog.LevelInfo, r.Level)
				prop, _ := testutil.Attr(r, "property")
				assert.Equal(t, "maxFlow", prop)
			} else {
				assert.Equal(t, slog.LevelWarn, r.Level)
			}
		}
	})

	thing, _ := g.DataClass(all.ID)
	assert.Equal(t, schema.UsedForNode, thing.UsedFor)
}

func TestNewGraph_Errors(t *testing.T) {
	person, role := movieViews()
	tests := []struct {
		name   string
		cfg    *Config
		models []*schema.DataModel
		check  func(t *testing.T, err error)
	}{
		{
			name:   "nil config",
			models: []*schema.DataModel{testutil.Model("Movies", person)},
			check:  func(t *testing.T, err error) { assert.True(t, IsConfigError(err)) },
		},
		{
			name:  "no models",
			cfg:   newTestConfig(t),
			check: func(t *testing.T, err error) { assert.True(t, errors.Is(err, ErrInvalidSchema)) },
		},
		{
			name:   "view without space",
			cfg:    newTestConfig(t),
			models: []*schema.DataModel{testutil.Model("Movies", testutil.NodeView(schema.ViewID{ExternalID: "X"}))},
			check:  func(t *testing.T, err error) { assert.True(t, IsSchemaError(err)) },
		},
		{
			name:   "connection out of the run",
			cfg:    newTestConfig(t),
			models: []*schema.DataModel{testutil.Model("Movies", person)},
			check:  func(t *testing.T, err error) { assert.True(t, IsSchemaError(err)) },
		},
		{
			name:   "core view",
			cfg:    newTestConfig(t),
			models: []*schema.DataModel{testutil.Model("Movies", testutil.NodeView(testutil.ViewID("sp", "core")))},
			check:  func(t *testing.T, err error) { assert.True(t, errors.Is(err, ErrReservedName)) },
		},
		{
			name: "multi api conflict",
			cfg:  newTestConfig(t),
			models: []*schema.DataModel{
				testutil.Model("Film", person, role),
				testutil.Model("Films", role),
			},
			check: func(t *testing.T, err error) {
				var conflict *NameConflictError
				require.ErrorAs(t, err, &conflict)
				assert.True(t, slices.ContainsFunc(conflict.Conflicts, func(c NameConflict) bool {
					return c.Attribute == "Name" && c.Name == "FilmAPIs"
				}))
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewGraph(tt.cfg, tt.models...)
			require.Error(t, err)
			assert.Nil(t, g)
			tt.check(t, err)
		})
	}

	t.Run("cycle", func(t *testing.T) {
		a := testutil.NodeView(testutil.ViewID("sp", "A"))
		b := testutil.NodeView(testutil.ViewID("sp", "B"))
		a.Implements = []schema.ViewID{b.ID}
		b.Implements = []schema.ViewID{a.ID}
		_, err := NewGraph(newTestConfig(t), testutil.Model("M", a, b))
		assert.True(t, errors.Is(err, ErrInterfaceCycle))
	})
}
