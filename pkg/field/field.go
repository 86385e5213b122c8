// Package field defines the protocol between field units and the components
// that consume them.
//
// A unit declares what it can do through a Capabilities value built at
// construction time. A nil function means the unit lacks that capability:
// units without Fields are ignored by form assembly, units without Loaders
// contribute nothing to reports.
package field

import "github.com/goliatone/go-formunion/pkg/form"

// Unit is implemented by everything that can be placed in a form's unit
// sequence. Implementations should be pointers: assembled forms look units
// up by identity.
type Unit interface {
	Capabilities() Capabilities
}

// Capabilities is the capability set declared by a unit.
type Capabilities struct {
	// Fields returns the ordered input specs contributed by the unit. It
	// must not have side effects and fails only on misconfiguration.
	Fields func() ([]form.Input, error)
	// Initial returns default values keyed by the names used in Fields.
	Initial func() map[string]any
	// Cleaners returns cross-input checks in declaration order.
	Cleaners func() []form.Cleaner
	// Loaders returns the report row extractors of the unit.
	Loaders func() []Loader
}

// ProducesFields reports whether the unit contributes inputs.
func (c Capabilities) ProducesFields() bool { return c.Fields != nil }

// Row is one reporting row extracted from submitted data.
type Row struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Value any    `json:"value"`
}

// Loader extracts one row from previously submitted data.
type Loader func(data map[string]any) Row

// Attributes is a metadata snapshot of a unit's configuration.
type Attributes map[string]any

// Describer is implemented by units able to report their configuration.
// Standard keys are name, type, label, help_text, is_required, placeholder
// and default_value.
type Describer interface {
	Describe() Attributes
}
