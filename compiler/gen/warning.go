package gen

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/syssam/pygen/schema"
)

// WarningKind classifies a recovered problem.
type WarningKind string

// Warning kinds.
const (
	// WarnReservedName: an identifier collided with a reserved word and got
	// a trailing underscore.
	WarnReservedName WarningKind = "reserved-name"
	// WarnRenamed: a field identifier differs from its property name, or a
	// view name lost letters no identifier can hold.
	WarnRenamed WarningKind = "renamed"
	// WarnParameterRenamed: a filter parameter name was taken.
	WarnParameterRenamed WarningKind = "parameter-renamed"
	// WarnUsedForAll: a view declared used_for "all" and is generated as a node.
	WarnUsedForAll WarningKind = "used-for-all"
	// WarnVersionShadowed: several views declare a property named "version".
	WarnVersionShadowed WarningKind = "version-shadowed"
)

// Warning is a problem the pipeline recovered from. It always names the
// view and the property or parameter responsible.
type Warning struct {
	Kind      WarningKind   `json:"kind" yaml:"kind" msgpack:"kind"`
	View      schema.ViewID `json:"view" yaml:"view" msgpack:"view"`
	Property  string        `json:"property,omitempty" yaml:"property,omitempty" msgpack:"property,omitempty"`
	Parameter string        `json:"parameter,omitempty" yaml:"parameter,omitempty" msgpack:"parameter,omitempty"`
	Message   string        `json:"message" yaml:"message" msgpack:"message"`
}

// String returns the warning in a single line.
func (w Warning) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: view %s", w.Kind, w.View)
	if w.Property != "" {
		fmt.Fprintf(&b, " property %s", w.Property)
	}
	if w.Parameter != "" {
		fmt.Fprintf(&b, " parameter %s", w.Parameter)
	}
	b.WriteString(": ")
	b.WriteString(w.Message)
	return b.String()
}

// warner collects the warnings of one run. They are logged once the run
// settles so retried attempts do not log twice.
type warner struct {
	logger   *slog.Logger
	warnings []Warning
}

func newWarner(logger *slog.Logger) *warner {
	return &warner{logger: logger}
}

func (w *warner) add(warning Warning) {
	w.warnings = append(w.warnings, warning)
}

// reset drops the warnings of an attempt that is about to be retried.
func (w *warner) reset() {
	w.warnings = nil
}

// flush logs every collected warning. Renames are informational.
func (w *warner) flush(ctx context.Context) {
	for _, warning := range w.warnings {
		level := slog.LevelWarn
		if warning.Kind == WarnRenamed {
			level = slog.LevelInfo
		}
		attrs := []slog.Attr{
			slog.String("kind", string(warning.Kind)),
			slog.String("view", warning.View.String()),
		}
		if warning.Property != "" {
			attrs = append(attrs, slog.String("property", warning.Property))
		}
		if warning.Parameter != "" {
			attrs = append(attrs, slog.String("parameter", warning.Parameter))
		}
		w.logger.LogAttrs(ctx, level, warning.Message, attrs...)
	}
}
