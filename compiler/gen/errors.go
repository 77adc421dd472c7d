package gen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/syssam/pygen/schema"
)

// Sentinel errors for common failure cases.
var (
	// ErrInvalidSchema indicates a schema definition error.
	ErrInvalidSchema = errors.New("pygen: invalid schema")
	// ErrMissingConfig indicates a configuration error.
	ErrMissingConfig = errors.New("pygen: missing configuration")
	// ErrUnsupportedProperty indicates a property shape the generator does not understand.
	ErrUnsupportedProperty = errors.New("pygen: unsupported property type")
	// ErrNameConflict indicates two sources share a generated name.
	ErrNameConflict = errors.New("pygen: name conflict")
	// ErrReservedName indicates a view resolves to a name reserved by the generated SDK.
	ErrReservedName = errors.New("pygen: reserved name")
	// ErrNoUniqueName indicates all naming strategies were exhausted.
	ErrNoUniqueName = errors.New("pygen: could not find a unique name")
	// ErrInterfaceCycle indicates the implements graph is not acyclic.
	ErrInterfaceCycle = errors.New("pygen: cycle in interface inheritance")
	// ErrGenerationFailed indicates a manifest could not be written.
	ErrGenerationFailed = errors.New("pygen: generation failed")
)

// SchemaError represents a schema definition error.
type SchemaError struct {
	View     string // View identity
	Property string // Property name (if applicable)
	Message  string
	Cause    error
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("pygen: schema error")
	if e.View != "" {
		b.WriteString(" on view ")
		b.WriteString(e.View)
	}
	if e.Property != "" {
		b.WriteString(" property ")
		b.WriteString(e.Property)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *SchemaError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for SchemaError.
func (e *SchemaError) Is(target error) bool {
	return target == ErrInvalidSchema
}

// NewSchemaError creates a new SchemaError.
func NewSchemaError(view schema.ViewID, property, message string, cause error) *SchemaError {
	return &SchemaError{
		View:     view.String(),
		Property: property,
		Message:  message,
		Cause:    cause,
	}
}

// PropertyError is returned when a property has a shape the generator
// cannot map to a field. It aborts the whole run.
type PropertyError struct {
	View     schema.ViewID
	Property string
	Kind     schema.PropertyKind
	Type     schema.DataType
}

// Error implements the error interface.
func (e *PropertyError) Error() string {
	return fmt.Sprintf("pygen: unsupported property type on view %s property %s (kind=%q, type=%q)",
		e.View, e.Property, e.Kind, e.Type)
}

// Is reports whether the target matches ErrUnsupportedProperty.
func (e *PropertyError) Is(target error) bool {
	return target == ErrUnsupportedProperty
}

// NameConflict is one generated name claimed by more than one source.
type NameConflict struct {
	// Attribute is the generated-name attribute, e.g. "FileName".
	Attribute string
	// Name is the shared generated name.
	Name string
	// Identities are the sources (view or data model ids) sharing Name.
	Identities []string
}

// NameConflictError lists every conflicting generated name of a run.
type NameConflictError struct {
	Conflicts []NameConflict
}

// Error implements the error interface.
func (e *NameConflictError) Error() string {
	var b strings.Builder
	b.WriteString("pygen: name conflict")
	for i, c := range e.Conflicts {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "%s %q is shared by %s", c.Attribute, c.Name, strings.Join(c.Identities, ", "))
	}
	return b.String()
}

// Is reports whether the target matches ErrNameConflict.
func (e *NameConflictError) Is(target error) bool {
	return target == ErrNameConflict
}

// Identities returns the sorted set of identities involved in any conflict.
func (e *NameConflictError) Identities() []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, c := range e.Conflicts {
		for _, id := range c.Identities {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}
	return sortedStrings(ids)
}

// ReservedNameError is returned when a view resolves to a name that the
// generated SDK uses for its own modules.
type ReservedNameError struct {
	View schema.ViewID
	Name string
}

// Error implements the error interface.
func (e *ReservedNameError) Error() string {
	return fmt.Sprintf("pygen: view %s resolves to the reserved name %q; rename the view or add it with a different external id", e.View, e.Name)
}

// Is reports whether the target matches ErrReservedName.
func (e *ReservedNameError) Is(target error) bool {
	return target == ErrReservedName
}

// UniqueNameError is returned when views keep colliding after every naming
// strategy was tried.
type UniqueNameError struct {
	Name  string
	Views []schema.ViewID
}

// Error implements the error interface.
func (e *UniqueNameError) Error() string {
	ids := make([]string, len(e.Views))
	for i, v := range e.Views {
		ids[i] = v.String()
	}
	return fmt.Sprintf("pygen: could not find a unique name for views %s (last candidate %q)", strings.Join(ids, ", "), e.Name)
}

// Is reports whether the target matches ErrNoUniqueName.
func (e *UniqueNameError) Is(target error) bool {
	return target == ErrNoUniqueName
}

// CycleError is returned when views implement each other in a cycle.
type CycleError struct {
	Views []schema.ViewID
}

// Error implements the error interface.
func (e *CycleError) Error() string {
	ids := make([]string, len(e.Views))
	for i, v := range e.Views {
		ids[i] = v.String()
	}
	return "pygen: cycle in interface inheritance between " + strings.Join(ids, ", ")
}

// Is reports whether the target matches ErrInterfaceCycle.
func (e *CycleError) Is(target error) bool {
	return target == ErrInterfaceCycle
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("pygen: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("pygen: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrMissingConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{
		Option:  option,
		Value:   value,
		Message: message,
	}
}

// GenerationError represents a failure while writing the manifest.
type GenerationError struct {
	Phase   string // "index", "model", etc.
	File    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	var b strings.Builder
	b.WriteString("pygen: generation error")
	if e.Phase != "" {
		b.WriteString(" in phase ")
		b.WriteString(e.Phase)
	}
	if e.File != "" {
		b.WriteString(" (file: ")
		b.WriteString(e.File)
		b.WriteString(")")
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for GenerationError.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}

// NewGenerationError creates a new GenerationError.
func NewGenerationError(phase, file, message string, cause error) *GenerationError {
	return &GenerationError{
		Phase:   phase,
		File:    file,
		Message: message,
		Cause:   cause,
	}
}

// IsSchemaError reports whether the error is a SchemaError.
func IsSchemaError(err error) bool {
	var schemaErr *SchemaError
	return errors.As(err, &schemaErr)
}

// IsPropertyError reports whether the error is a PropertyError.
func IsPropertyError(err error) bool {
	var propErr *PropertyError
	return errors.As(err, &propErr)
}

// IsNameConflictError reports whether the error is a NameConflictError.
func IsNameConflictError(err error) bool {
	var conflictErr *NameConflictError
	return errors.As(err, &conflictErr)
}

// IsConfigError reports whether the error is a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

// IsGenerationError reports whether the error is a GenerationError.
func IsGenerationError(err error) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr)
}
