package gen

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/syssam/pygen/schema"
)

// Table maps view ids to the data classes of a run. It is complete before
// any class gets its fields.
type Table struct {
	classes []*DataClass
	byID    map[schema.ViewID]*DataClass
}

// Lookup returns the data class of a view.
func (t *Table) Lookup(id schema.ViewID) (*DataClass, bool) {
	dc, ok := t.byID[id]
	return dc, ok
}

// DataClasses returns the classes in view order.
func (t *Table) DataClasses() []*DataClass { return slices.Clone(t.classes) }

func (t *Table) connectionTarget(view *schema.View, prop *schema.Property) (*DataClass, error) {
	if prop.Source == nil {
		return nil, NewSchemaError(view.ID, prop.Name, "connection has no target view", nil)
	}
	target, ok := t.Lookup(*prop.Source)
	if !ok {
		return nil, NewSchemaError(view.ID, prop.Name, "connection target "+prop.Source.String()+" is not part of the generation", nil)
	}
	return target, nil
}

// endNodes scans every view for connections whose edge source is the view
// of edge. The start and end of each connection follow its direction.
func (t *Table) endNodes(edge *DataClass, views []*schema.View) ([]EndNode, error) {
	type key struct {
		start, end schema.ViewID
		edgeType   schema.TypeRef
	}
	seen := make(map[key]bool)
	var nodes []EndNode
	for _, v := range views {
		owner, ok := t.Lookup(v.ID)
		if !ok {
			continue
		}
		for _, prop := range v.Properties {
			if !prop.IsConnection() || prop.EdgeSource == nil || *prop.EdgeSource != edge.ViewID {
				continue
			}
			other, err := t.connectionTarget(v, prop)
			if err != nil {
				return nil, err
			}
			n := EndNode{Start: owner, End: other}
			if prop.Direction == schema.Inwards {
				n.Start, n.End = other, owner
			}
			if prop.EdgeType != nil {
				n.EdgeType = *prop.EdgeType
			}
			k := key{n.Start.ViewID, n.End.ViewID, n.EdgeType}
			if !seen[k] {
				seen[k] = true
				nodes = append(nodes, n)
			}
		}
	}
	return nodes, nil
}

// createShells is the first pass: one data class without fields per view.
func createShells(views []*schema.View, names map[schema.ViewID]string, cfg *Config, w *warner) (*Table, error) {
	t := &Table{byID: make(map[schema.ViewID]*DataClass, len(views))}
	for _, v := range views {
		dc, err := newShell(v, names[v.ID], cfg, w)
		if err != nil {
			return nil, err
		}
		t.classes = append(t.classes, dc)
		t.byID[v.ID] = dc
	}
	return t, nil
}

// attachFields is the second pass. It may only run on a complete table.
func (t *Table) attachFields(views []*schema.View, cfg *Config, w *warner) error {
	for _, v := range views {
		dc, ok := t.Lookup(v.ID)
		if !ok {
			return fmt.Errorf("pygen: no data class for view %s", v.ID)
		}
		if err := dc.attachFields(v, t, views, cfg, w); err != nil {
			return err
		}
	}
	return nil
}

// nameStrategy derives the base name of a view.
type nameStrategy struct {
	name string
	base func(schema.ViewID) string
}

// viewNameStrategies are tried in order, each more specific than the last.
var viewNameStrategies = []nameStrategy{
	{"external_id", func(id schema.ViewID) string { return id.ExternalID }},
	{"external_id_version", func(id schema.ViewID) string { return id.ExternalID + "_" + id.Version }},
	{"space_external_id", func(id schema.ViewID) string { return id.Space + "_" + id.ExternalID }},
	{"space_external_id_version", func(id schema.ViewID) string { return id.Space + "_" + id.ExternalID + "_" + id.Version }},
}

// uniqueViewNames gives every view a base name whose class name no other
// view shares. Views start at the strategy index in start (0 by default);
// only views whose class names collide move to the next strategy, which
// includes a view that was already unique when an escalated view lands on
// its name. The returned levels are the strategy index each view ended on.
func uniqueViewNames(views []*schema.View, naming Naming, start map[schema.ViewID]int) (map[schema.ViewID]string, map[schema.ViewID]int, error) {
	level := make(map[schema.ViewID]int, len(views))
	for _, v := range views {
		level[v.ID] = min(start[v.ID], len(viewNameStrategies)-1)
	}
	for {
		bases := make(map[schema.ViewID]string, len(views))
		groups := make(map[string][]schema.ViewID)
		var order []string
		for _, v := range views {
			base := viewNameStrategies[level[v.ID]].base(v.ID)
			bases[v.ID] = base
			key := naming.DataClass.Name.Apply(base)
			if _, ok := groups[key]; !ok {
				order = append(order, key)
			}
			groups[key] = append(groups[key], v.ID)
		}
		escalated := false
		for _, key := range order {
			ids := groups[key]
			if len(ids) < 2 {
				continue
			}
			for _, id := range ids {
				if level[id] == len(viewNameStrategies)-1 {
					slices.SortFunc(ids, schema.ViewID.Compare)
					return nil, nil, &UniqueNameError{Name: key, Views: ids}
				}
			}
			for _, id := range ids {
				level[id]++
			}
			escalated = true
		}
		if !escalated {
			return bases, level, nil
		}
	}
}

// minimalParents computes, for every view, the parents it implements that
// are not already implied by another parent, and which views are
// implemented by any other view. Parents outside views are ignored.
func minimalParents(views []*schema.View, logger *slog.Logger) (map[schema.ViewID][]schema.ViewID, map[schema.ViewID]bool, error) {
	ids := make(map[schema.ViewID]int64, len(views))
	byNode := make(map[int64]*schema.View, len(views))
	for i, v := range views {
		ids[v.ID] = int64(i)
		byNode[int64(i)] = v
	}

	g := simple.NewDirectedGraph()
	for _, v := range views {
		g.AddNode(simple.Node(ids[v.ID]))
	}
	direct := make(map[schema.ViewID][]schema.ViewID, len(views))
	interfaces := make(map[schema.ViewID]bool)
	for _, v := range views {
		for _, p := range v.Implements {
			pid, ok := ids[p]
			if !ok {
				logger.Debug("parent view is not part of the generation", "view", v.ID.String(), "parent", p.String())
				continue
			}
			if p == v.ID {
				return nil, nil, &CycleError{Views: []schema.ViewID{v.ID}}
			}
			if slices.Contains(direct[v.ID], p) {
				continue
			}
			direct[v.ID] = append(direct[v.ID], p)
			interfaces[p] = true
			g.SetEdge(simple.Edge{F: simple.Node(pid), T: simple.Node(ids[v.ID])})
		}
	}

	sorted, err := topo.SortStabilized(g, func(nodes []graph.Node) {
		slices.SortFunc(nodes, func(a, b graph.Node) int {
			return byNode[a.ID()].ID.Compare(byNode[b.ID()].ID)
		})
	})
	if err != nil {
		var cycles topo.Unorderable
		if errors.As(err, &cycles) && len(cycles) > 0 {
			cycle := make([]schema.ViewID, 0, len(cycles[0]))
			for _, n := range cycles[0] {
				cycle = append(cycle, byNode[n.ID()].ID)
			}
			slices.SortFunc(cycle, schema.ViewID.Compare)
			return nil, nil, &CycleError{Views: cycle}
		}
		return nil, nil, fmt.Errorf("sort implements graph: %w", err)
	}

	// Parents precede children in sorted, so ancestors of every parent are
	// known when a child is reached.
	ancestors := make(map[schema.ViewID]map[schema.ViewID]bool, len(views))
	for _, n := range sorted {
		id := byNode[n.ID()].ID
		set := make(map[schema.ViewID]bool)
		for _, p := range direct[id] {
			set[p] = true
			for a := range ancestors[p] {
				set[a] = true
			}
		}
		ancestors[id] = set
	}

	minimal := make(map[schema.ViewID][]schema.ViewID, len(views))
	for _, v := range views {
		parents := direct[v.ID]
		for _, p := range parents {
			redundant := slices.ContainsFunc(parents, func(q schema.ViewID) bool {
				return q != p && ancestors[q][p]
			})
			if !redundant {
				minimal[v.ID] = append(minimal[v.ID], p)
			}
		}
	}
	return minimal, interfaces, nil
}
