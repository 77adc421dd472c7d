package gen

import (
	"context"
	"errors"
	"fmt"

	"github.com/syssam/pygen/schema"
)

// Graph is the resolved object model of a generation run: one data class
// per view, one API class per data class and one multi-API class per data
// model. It is immutable once NewGraph returns.
type Graph struct {
	*Config
	// DataClasses in the order their views first appear in the models.
	DataClasses     []*DataClass
	APIClasses      []*APIClass
	MultiAPIClasses []*MultiAPIClass
	// Warnings are the problems the run recovered from.
	Warnings []Warning

	table *Table
}

// DataClass returns the data class of a view.
func (g *Graph) DataClass(id schema.ViewID) (*DataClass, bool) {
	return g.table.Lookup(id)
}

// NewGraph runs the pipeline over the views of models. It either resolves
// every view or returns an error; no partial graph is returned.
func NewGraph(c *Config, models ...*schema.DataModel) (*Graph, error) {
	if c == nil {
		return nil, NewConfigError("Config", nil, "config cannot be nil")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	views, err := collectViews(models)
	if err != nil {
		return nil, err
	}
	logger := c.logger()
	w := newWarner(logger)
	defer w.flush(context.Background())

	parents, interfaces, err := minimalParents(views, logger)
	if err != nil {
		return nil, err
	}
	t, names, err := resolveClasses(views, c, w)
	if err != nil {
		return nil, err
	}
	for _, dc := range t.classes {
		var implements []*DataClass
		for _, p := range parents[dc.ViewID] {
			parent, _ := t.Lookup(p)
			implements = append(implements, parent)
		}
		dc.updateImplementsAndWritable(implements, interfaces[dc.ViewID])
	}
	warnVersionShadowing(views, w)
	for _, dc := range t.classes {
		dc.filter = newFilterMethod(dc, c, w)
	}

	g := &Graph{Config: c, DataClasses: t.DataClasses(), table: t}
	apis := make(map[schema.ViewID]*APIClass, len(t.classes))
	for _, dc := range t.classes {
		api := newAPIClass(dc, names[dc.ViewID], c, w)
		apis[dc.ViewID] = api
		g.APIClasses = append(g.APIClasses, api)
	}
	if conflict := validateAPIClasses(g.APIClasses); conflict != nil {
		return nil, conflict
	}
	for _, m := range models {
		var group []*APIClass
		seen := make(map[schema.ViewID]bool)
		for _, v := range m.Views {
			if v != nil && !seen[v.ID] {
				seen[v.ID] = true
				group = append(group, apis[v.ID])
			}
		}
		g.MultiAPIClasses = append(g.MultiAPIClasses, newMultiAPIClass(m, group, c))
	}
	if conflict := validateMultiAPIClasses(g.MultiAPIClasses); conflict != nil {
		return nil, conflict
	}
	g.Warnings = append([]Warning(nil), w.warnings...)
	logger.Debug("graph resolved", "data_classes", len(g.DataClasses), "data_models", len(g.MultiAPIClasses), "warnings", len(g.Warnings))
	return g, nil
}

// resolveClasses names the views and builds their data classes in two
// passes. Views whose data classes still share a generated name move to the
// next naming strategy and the passes run again.
func resolveClasses(views []*schema.View, c *Config, w *warner) (*Table, map[schema.ViewID]string, error) {
	byString := make(map[string]schema.ViewID, len(views))
	for _, v := range views {
		byString[v.ID.String()] = v.ID
	}
	start := make(map[schema.ViewID]int)
	for {
		w.reset()
		names, levels, err := uniqueViewNames(views, c.Naming, start)
		if err != nil {
			return nil, nil, err
		}
		t, err := createShells(views, names, c, w)
		if err != nil {
			return nil, nil, err
		}
		if err := t.attachFields(views, c, w); err != nil {
			return nil, nil, err
		}
		conflict := validateDataClasses(t.classes)
		if conflict == nil {
			return t, names, nil
		}
		escalated := false
		for _, s := range conflict.Identities() {
			id := byString[s]
			if levels[id] < len(viewNameStrategies)-1 {
				start[id] = levels[id] + 1
				escalated = true
			}
		}
		if !escalated {
			return nil, nil, conflict
		}
		c.logger().Debug("generated names conflict, retrying with more specific names", "error", conflict.Error())
	}
}

// collectViews returns the distinct views of models in order of first
// appearance.
func collectViews(models []*schema.DataModel) ([]*schema.View, error) {
	if len(models) == 0 {
		return nil, fmt.Errorf("%w: no data models", ErrInvalidSchema)
	}
	seen := make(map[schema.ViewID]bool)
	var views []*schema.View
	for _, m := range models {
		if m == nil {
			return nil, errors.New("pygen: nil data model")
		}
		for _, v := range m.Views {
			if v == nil {
				continue
			}
			if v.ID.Space == "" || v.ID.ExternalID == "" {
				return nil, NewSchemaError(v.ID, "", "view id needs a space and an external id", nil)
			}
			if !seen[v.ID] {
				seen[v.ID] = true
				views = append(views, v)
			}
		}
	}
	return views, nil
}
