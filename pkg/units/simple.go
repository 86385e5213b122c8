package units

import (
	"fmt"
	"strconv"
	"time"

	"github.com/goliatone/go-formunion/internal/checks"
	"github.com/goliatone/go-formunion/pkg/field"
	"github.com/goliatone/go-formunion/pkg/form"
)

type simpleKind struct {
	kind   form.Kind
	widget string
}

var simpleKinds = map[string]simpleKind{
	TypeText:     {kind: form.KindText},
	TypeEmail:    {kind: form.KindEmail},
	TypeURL:      {kind: form.KindURL},
	TypeDate:     {kind: form.KindDate},
	TypeInteger:  {kind: form.KindInteger},
	TypeTextarea: {kind: form.KindText, widget: form.WidgetTextarea},
	TypeCheckbox: {kind: form.KindBoolean},
}

// Simple is a unit contributing exactly one input named after the unit.
type Simple struct {
	Base
	spec    simpleKind
	initial any
}

// NewSimple builds a single-input unit of the given type tag.
func NewSimple(kind string, def Definition) (*Simple, error) {
	spec, ok := simpleKinds[kind]
	if !ok {
		return nil, &ConfigError{Unit: unitLabel(kind, def), Attribute: "type", Message: fmt.Sprintf("unhandled type %q", kind)}
	}
	base, err := newBase(kind, def, "")
	if err != nil {
		return nil, err
	}

	s := &Simple{Base: base, spec: spec}
	if base.defaultValue != "" {
		initial, err := parseDefault(spec.kind, base.defaultValue)
		if err != nil {
			return nil, &ConfigError{Unit: base.name, Attribute: "default_value", Message: err.Error()}
		}
		s.initial = initial
	}
	return s, nil
}

// Capabilities implements field.Unit.
func (s *Simple) Capabilities() field.Capabilities {
	return field.Capabilities{
		Fields:  s.fields,
		Initial: s.initialValues,
		Loaders: s.loaders,
	}
}

func (s *Simple) fields() ([]form.Input, error) {
	in := s.input(s.spec.kind)
	in.Widget = s.spec.widget
	return []form.Input{in}, nil
}

func (s *Simple) initialValues() map[string]any {
	if s.initial == nil {
		return map[string]any{}
	}
	return map[string]any{s.name: s.initial}
}

func (s *Simple) loaders() []field.Loader {
	return []field.Loader{s.row}
}

func parseDefault(kind form.Kind, value string) (any, error) {
	switch kind {
	case form.KindBoolean:
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("%q is not a boolean", value)
		}
		return parsed, nil
	case form.KindInteger:
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a whole number", value)
		}
		return parsed, nil
	case form.KindDate:
		parsed, err := time.Parse(form.DateLayout, value)
		if err != nil {
			return nil, fmt.Errorf("%q is not a date in YYYY-MM-DD format", value)
		}
		return parsed, nil
	case form.KindEmail:
		if !checks.Email(value) {
			return nil, fmt.Errorf("%q is not an email address", value)
		}
	case form.KindURL:
		if !checks.URL(value) {
			return nil, fmt.Errorf("%q is not a URL", value)
		}
	}
	return value, nil
}

func unitLabel(kind string, def Definition) string {
	if def.Name != "" {
		return def.Name
	}
	if kind != "" {
		return kind
	}
	return "unit"
}
