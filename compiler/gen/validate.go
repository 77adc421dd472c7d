package gen

import (
	"fmt"
	"slices"
	"strings"

	"github.com/syssam/pygen/schema"
)

// namedAttr is one generated-name attribute checked for uniqueness.
type namedAttr[T any] struct {
	name string
	get  func(T) string
}

// validateUniqueNames reports every attribute value shared by items of
// different identities. Conflicts are ordered by attribute, then name.
func validateUniqueNames[T any](items []T, identity func(T) string, attrs []namedAttr[T]) *NameConflictError {
	var conflicts []NameConflict
	for _, attr := range attrs {
		owners := make(map[string][]string)
		for _, item := range items {
			name, id := attr.get(item), identity(item)
			if !slices.Contains(owners[name], id) {
				owners[name] = append(owners[name], id)
			}
		}
		var shared []NameConflict
		for name, ids := range owners {
			if len(ids) > 1 {
				shared = append(shared, NameConflict{Attribute: attr.name, Name: name, Identities: sortedStrings(ids)})
			}
		}
		slices.SortFunc(shared, func(a, b NameConflict) int { return strings.Compare(a.Name, b.Name) })
		conflicts = append(conflicts, shared...)
	}
	if len(conflicts) == 0 {
		return nil
	}
	return &NameConflictError{Conflicts: conflicts}
}

var dataClassAttrs = []namedAttr[*DataClass]{
	{"Name", func(d *DataClass) string { return d.Name }},
	{"WriteName", func(d *DataClass) string { return d.WriteName }},
	{"ReadListName", func(d *DataClass) string { return d.ReadListName }},
	{"WriteListName", func(d *DataClass) string { return d.WriteListName }},
	{"FileName", func(d *DataClass) string { return d.FileName }},
	{"Variable", func(d *DataClass) string { return d.Variable }},
}

var apiClassAttrs = []namedAttr[*APIClass]{
	{"Name", func(a *APIClass) string { return a.Name }},
	{"FileName", func(a *APIClass) string { return a.FileName }},
	{"ParentAttribute", func(a *APIClass) string { return a.ParentAttribute }},
}

var multiAPIClassAttrs = []namedAttr[*MultiAPIClass]{
	{"Name", func(m *MultiAPIClass) string { return m.Name }},
	{"ClientAttribute", func(m *MultiAPIClass) string { return m.ClientAttribute }},
}

func validateDataClasses(classes []*DataClass) *NameConflictError {
	return validateUniqueNames(classes, func(d *DataClass) string { return d.ViewID.String() }, dataClassAttrs)
}

func validateAPIClasses(apis []*APIClass) *NameConflictError {
	return validateUniqueNames(apis, func(a *APIClass) string { return a.DataClass.ViewID.String() }, apiClassAttrs)
}

func validateMultiAPIClasses(multis []*MultiAPIClass) *NameConflictError {
	return validateUniqueNames(multis, func(m *MultiAPIClass) string { return m.Model.String() }, multiAPIClassAttrs)
}

// warnVersionShadowing warns once per view when more than one view declares
// a property named "version". The generated field shadows the instance
// version every class carries.
func warnVersionShadowing(views []*schema.View, w *warner) {
	var owners []*schema.View
	for _, v := range views {
		if _, ok := v.Property("version"); ok {
			owners = append(owners, v)
		}
	}
	if len(owners) < 2 {
		return
	}
	for _, v := range owners {
		w.add(Warning{
			Kind:     WarnVersionShadowed,
			View:     v.ID,
			Property: "version",
			Message:  fmt.Sprintf("%d views declare a property named version; the generated field version_ is distinct from the instance version", len(owners)),
		})
	}
}
