// Package units provides the concrete field kinds that can be placed in a
// form: simple single-input fields, choice fields, date ranges, honeypots and
// plain text blocks. Kinds are created from a Definition, either directly
// through their constructors or by type tag through a Registry.
package units

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/goliatone/go-formunion/internal/checks"
	"github.com/goliatone/go-formunion/pkg/field"
	"github.com/goliatone/go-formunion/pkg/form"
)

// Type tags of the built-in kinds.
const (
	TypeText                   = "text"
	TypeEmail                  = "email"
	TypeURL                    = "url"
	TypeDate                   = "date"
	TypeInteger                = "integer"
	TypeTextarea               = "textarea"
	TypeCheckbox               = "checkbox"
	TypeSelect                 = "select"
	TypeRadio                  = "radio"
	TypeSelectMultiple         = "select_multiple"
	TypeCheckboxSelectMultiple = "checkbox_select_multiple"
	TypeDuration               = "duration"
	TypeHoneypot               = "honeypot"
	TypePlainText              = "plain_text"
)

// GeneratedNamePrefix starts every synthesised unit name.
const GeneratedNamePrefix = "field_"

const labelPreviewLength = 50

// Base carries the attributes shared by field-producing kinds. The type tag
// is fixed by the constructor and the name is resolved once.
type Base struct {
	name         string
	kind         string
	label        string
	helpText     string
	placeholder  string
	defaultValue string
	required     bool
}

func newBase(kind string, def Definition, fallbackName string) (Base, error) {
	def.Type = kind
	def.Name = strings.TrimSpace(def.Name)

	unit := def.Name
	if unit == "" {
		unit = kind
	}
	if err := checks.Struct(def); err != nil {
		return Base{}, configError(unit, err)
	}

	name := def.Name
	if name == "" {
		name = fallbackName
	}
	if name == "" {
		name = GenerateName()
	}

	return Base{
		name:         name,
		kind:         kind,
		label:        strings.TrimSpace(def.Label),
		helpText:     def.HelpText,
		placeholder:  def.Placeholder,
		defaultValue: strings.TrimSpace(def.DefaultValue),
		required:     def.Required(),
	}, nil
}

// GenerateName returns a fresh unit name built from a random UUID.
func GenerateName() string {
	return GeneratedNamePrefix + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Name returns the unit name.
func (b Base) Name() string { return b.name }

// Type returns the type tag.
func (b Base) Type() string { return b.kind }

// Label returns the configured label.
func (b Base) Label() string { return b.label }

// IsRequired reports whether the unit's inputs are required.
func (b Base) IsRequired() bool { return b.required }

// DefaultValue returns the raw configured default.
func (b Base) DefaultValue() string { return b.defaultValue }

// Describe implements field.Describer.
func (b Base) Describe() field.Attributes {
	return field.Attributes{
		"name":          b.name,
		"type":          b.kind,
		"label":         b.label,
		"help_text":     b.helpText,
		"is_required":   b.required,
		"placeholder":   b.placeholder,
		"default_value": b.defaultValue,
	}
}

// String returns the label shortened for listings, or the name when the
// label is blank.
func (b Base) String() string {
	if b.label == "" {
		return b.name
	}
	return truncate(b.label, labelPreviewLength)
}

func (b Base) input(kind form.Kind) form.Input {
	return form.Input{
		Name:        b.name,
		Kind:        kind,
		Label:       b.label,
		HelpText:    b.helpText,
		Placeholder: b.placeholder,
		Required:    b.required,
	}
}

func (b Base) resolvedLabel() string {
	if b.label != "" {
		return b.label
	}
	return form.DefaultLabeler(b.name)
}

func (b Base) row(data map[string]any) field.Row {
	return field.Row{Name: b.name, Label: b.resolvedLabel(), Value: data[b.name]}
}

// truncate shortens s to at most limit runes, ending with an ellipsis when
// it had to cut.
func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-1]) + "…"
}
