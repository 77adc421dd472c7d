package gen

import (
	"fmt"

	"github.com/syssam/pygen/schema"
)

// APIClass is the API wrapper of one data class. An API class is shared by
// every data model that contains its view.
type APIClass struct {
	Name     string
	FileName string
	Variable string
	// ParentAttribute is the attribute the API is reachable under on its
	// multi-API class.
	ParentAttribute string
	DocName         string
	DataClass       *DataClass
}

// MultiAPIClass groups the API classes of one data model.
type MultiAPIClass struct {
	Name string
	// ClientAttribute is the attribute the group is reachable under on the
	// generated client.
	ClientAttribute string
	Model           schema.DataModelID
	APIs            []*APIClass
}

func newAPIClass(dc *DataClass, base string, cfg *Config, w *warner) *APIClass {
	naming := cfg.Naming.APIClass
	name, reserved := escapeReserved(naming.Name.Apply(base)+"API", ReservedDataClass)
	if reserved {
		w.add(Warning{
			Kind:    WarnReservedName,
			View:    dc.ViewID,
			Message: fmt.Sprintf("API class name is reserved, the class is named %q", name),
		})
	}
	file, reserved := escapeReserved(naming.File.Apply(base), ReservedFilename)
	if reserved {
		w.add(Warning{
			Kind:    WarnReservedName,
			View:    dc.ViewID,
			Message: fmt.Sprintf("API file name is reserved, the module is named %q", file),
		})
	}
	variable := escapeKeyword(naming.Variable.Apply(base))
	return &APIClass{
		Name:            name,
		FileName:        file,
		Variable:        variable,
		ParentAttribute: variable,
		DocName:         dc.DocName,
		DataClass:       dc,
	}
}

func newMultiAPIClass(model *schema.DataModel, apis []*APIClass, cfg *Config) *MultiAPIClass {
	naming := cfg.Naming.MultiAPIClass
	return &MultiAPIClass{
		Name:            naming.Name.Apply(model.ID.ExternalID) + "APIs",
		ClientAttribute: escapeKeyword(naming.ClientAttribute.Apply(model.ID.ExternalID)),
		Model:           model.ID,
		APIs:            apis,
	}
}
