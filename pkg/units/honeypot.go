package units

import (
	"fmt"

	"github.com/goliatone/go-formunion/pkg/field"
	"github.com/goliatone/go-formunion/pkg/form"
)

// HoneypotName is the input name used when no name is configured.
const HoneypotName = "honeypot"

// Honeypot contributes a hidden input that humans leave empty. Any submitted
// value rejects the form. It is never reported.
type Honeypot struct {
	Base
}

// NewHoneypot builds a honeypot unit.
func NewHoneypot(def Definition) (*Honeypot, error) {
	base, err := newBase(TypeHoneypot, def, HoneypotName)
	if err != nil {
		return nil, err
	}
	base.required = false
	return &Honeypot{Base: base}, nil
}

// Describe implements field.Describer.
func (h *Honeypot) Describe() field.Attributes {
	return field.Attributes{"name": h.name, "type": h.kind}
}

// Capabilities implements field.Unit.
func (h *Honeypot) Capabilities() field.Capabilities {
	return field.Capabilities{Fields: h.fields}
}

func (h *Honeypot) fields() ([]form.Input, error) {
	return []form.Input{{
		Name:       h.name,
		Kind:       form.KindText,
		Widget:     form.WidgetHidden,
		Validators: []form.Validator{rejectHoneypot},
	}}, nil
}

func rejectHoneypot(value any) error {
	if s, _ := value.(string); s != "" {
		return fmt.Errorf("Invalid honeypot value %q", s)
	}
	return nil
}
