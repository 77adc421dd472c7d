package gen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/pygen/internal/testutil"
	"github.com/syssam/pygen/schema"
)

func TestUniqueViewNames(t *testing.T) {
	naming := DefaultNaming()

	t.Run("only colliding views escalate", func(t *testing.T) {
		var (
			s1    = testutil.ViewID("s1", "Person")
			s2    = testutil.ViewID("s2", "Person")
			s3    = schema.ViewID{Space: "s3", ExternalID: "Person", Version: "2"}
			movie = testutil.ViewID("s1", "Movie")
		)
		views := []*schema.View{testutil.NodeView(s1), testutil.NodeView(movie), testutil.NodeView(s2), testutil.NodeView(s3)}
		bases, levels, err := uniqueViewNames(views, naming, nil)
		require.NoError(t, err)
		assert.Equal(t, map[schema.ViewID]string{
			s1:    "s1_Person",
			s2:    "s2_Person",
			s3:    "Person_2",
			movie: "Movie",
		}, bases)
		assert.Equal(t, map[schema.ViewID]int{s1: 2, s2: 2, s3: 1, movie: 0}, levels)
	})

	t.Run("escalated views push out an existing name", func(t *testing.T) {
		var (
			s  = testutil.ViewID("s", "Person")
			tt = testutil.ViewID("t", "Person")
			u  = testutil.ViewID("s", "Person1")
		)
		views := []*schema.View{testutil.NodeView(s), testutil.NodeView(tt), testutil.NodeView(u)}
		bases, _, err := uniqueViewNames(views, naming, nil)
		require.NoError(t, err)
		assert.Equal(t, "s_Person", bases[s])
		assert.Equal(t, "t_Person", bases[tt])
		assert.Equal(t, "Person1_1", bases[u])
	})

	t.Run("start levels are honored", func(t *testing.T) {
		id := testutil.ViewID("s", "Person")
		bases, levels, err := uniqueViewNames([]*schema.View{testutil.NodeView(id)}, naming, map[schema.ViewID]int{id: 2})
		require.NoError(t, err)
		assert.Equal(t, "s_Person", bases[id])
		assert.Equal(t, 2, levels[id])
	})

	t.Run("exhausted strategies", func(t *testing.T) {
		a := testutil.ViewID("a", "Person")
		b := testutil.ViewID("a", "person")
		_, _, err := uniqueViewNames([]*schema.View{testutil.NodeView(b), testutil.NodeView(a)}, naming, nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNoUniqueName))
		var uerr *UniqueNameError
		require.ErrorAs(t, err, &uerr)
		assert.Equal(t, []schema.ViewID{a, b}, uerr.Views)
	})
}

func TestMinimalParents(t *testing.T) {
	var (
		a = testutil.ViewID("s", "A")
		b = testutil.ViewID("s", "B")
		c = testutil.ViewID("s", "C")
		d = testutil.ViewID("s", "D")
		x = testutil.ViewID("other", "X")
	)
	view := func(id schema.ViewID, parents ...schema.ViewID) *schema.View {
		v := testutil.NodeView(id)
		v.Implements = parents
		return v
	}

	t.Run("redundant parents are dropped", func(t *testing.T) {
		views := []*schema.View{view(c, a, b), view(b, a), view(a), view(d, x, a, a)}
		parents, interfaces, err := minimalParents(views, testutil.NewTestLogger(t))
		require.NoError(t, err)
		assert.Equal(t, []schema.ViewID{b}, parents[c])
		assert.Equal(t, []schema.ViewID{a}, parents[b])
		assert.Empty(t, parents[a])
		assert.Equal(t, []schema.ViewID{a}, parents[d])
		assert.Equal(t, map[schema.ViewID]bool{a: true, b: true}, interfaces)
	})

	t.Run("self implementation", func(t *testing.T) {
		_, _, err := minimalParents([]*schema.View{view(a, a)}, testutil.NewTestLogger(t))
		require.Error(t, err)
		var cerr *CycleError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, []schema.ViewID{a}, cerr.Views)
	})

	t.Run("cycle", func(t *testing.T) {
		_, _, err := minimalParents([]*schema.View{view(b, a), view(a, b), view(c)}, testutil.NewTestLogger(t))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInterfaceCycle))
		var cerr *CycleError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, []schema.ViewID{a, b}, cerr.Views)
	})
}

func TestTable_MutualReferences(t *testing.T) {
	personID := testutil.ViewID("movies", "Person")
	roleID := testutil.ViewID("movies", "Role")
	person := testutil.NodeView(personID, testutil.Edges("roles", roleID, "Person.roles"))
	role := testutil.NodeView(roleID, testutil.Direct("person", &personID))

	for _, order := range [][]*schema.View{{person, role}, {role, person}} {
		t.Run(order[0].ID.ExternalID+" first", func(t *testing.T) {
			cfg := newTestConfig(t)
			w := newWarner(cfg.Logger)
			table := newTestTable(t, cfg, w, order...)
			require.NoError(t, table.attachFields(order, cfg, w))

			p, _ := table.Lookup(personID)
			r, _ := table.Lookup(roleID)
			roles, ok := p.FieldByName("roles")
			require.True(t, ok)
			assert.Same(t, r, roles.(*EdgeRelationField).Target)
			ref, ok := r.FieldByName("person")
			require.True(t, ok)
			assert.Same(t, p, ref.(*DirectRelationField).Target)
		})
	}
}

func TestResolveClasses(t *testing.T) {
	t.Run("data class conflicts retry with specific names", func(t *testing.T) {
		n := DefaultNaming()
		n.DataClass.Name = NameRule{Pascal, Unchanged}
		cfg := MustNewConfig(WithNaming(n), WithLogger(testutil.NewTestLogger(t)))
		w := newWarner(cfg.Logger)

		personID := testutil.ViewID("sp", "Person")
		personsID := testutil.ViewID("sp", "Persons")
		views := []*schema.View{
			testutil.NodeView(personID, testutil.Mapped("version", schema.Text)),
			testutil.NodeView(personsID),
		}
		table, names, err := resolveClasses(views, cfg, w)
		require.NoError(t, err)
		assert.Equal(t, "Person_1", names[personID])
		assert.Equal(t, "Persons_1", names[personsID])

		p, _ := table.Lookup(personID)
		ps, _ := table.Lookup(personsID)
		assert.Equal(t, "person_1", p.FileName)
		assert.Equal(t, "persons_1", ps.FileName)
		assert.Nil(t, validateDataClasses(table.DataClasses()))

		// Warnings from the abandoned attempt are dropped.
		require.Len(t, w.warnings, 1)
		assert.Equal(t, WarnReservedName, w.warnings[0].Kind)
	})

	t.Run("no identity can escalate", func(t *testing.T) {
		n := DefaultNaming()
		n.DataClass.Name = NameRule{Pascal, Unchanged}
		cfg := MustNewConfig(WithNaming(n), WithLogger(testutil.NewTestLogger(t)))
		// The versions differ only in number, so the singular file names
		// match at every level that ends in the version.
		views := []*schema.View{
			testutil.NodeView(schema.ViewID{Space: "sp", ExternalID: "X", Version: "cats"}),
			testutil.NodeView(schema.ViewID{Space: "sp", ExternalID: "X", Version: "cat"}),
		}
		_, _, err := resolveClasses(views, cfg, newWarner(cfg.Logger))
		require.Error(t, err)
		assert.True(t, IsNameConflictError(err))
		var conflict *NameConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Len(t, conflict.Identities(), 2)
	})
}
