package units

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formunion/pkg/choices"
	"github.com/goliatone/go-formunion/pkg/field"
	"github.com/goliatone/go-formunion/pkg/form"
)

// BlankChoice is prepended to optional or default-less select inputs.
var BlankChoice = choices.Choice{Value: "", Label: "---------"}

type choiceKind struct {
	widget   string
	multiple bool
	blank    bool
}

var choiceKinds = map[string]choiceKind{
	TypeSelect:                 {widget: form.WidgetSelect, blank: true},
	TypeRadio:                  {widget: form.WidgetRadio},
	TypeSelectMultiple:         {widget: form.WidgetSelectMultiple, multiple: true},
	TypeCheckboxSelectMultiple: {widget: form.WidgetCheckboxMultiple, multiple: true},
}

// Choice is a unit whose input picks one or several values out of a decoded
// choice list.
type Choice struct {
	Base
	spec     choiceKind
	raw      string
	choices  []choices.Choice
	defaults []string
}

// NewChoice builds a selection unit of the given type tag.
func NewChoice(kind string, def Definition) (*Choice, error) {
	spec, ok := choiceKinds[kind]
	if !ok {
		return nil, &ConfigError{Unit: unitLabel(kind, def), Attribute: "type", Message: fmt.Sprintf("unhandled type %q", kind)}
	}
	base, err := newBase(kind, def, "")
	if err != nil {
		return nil, err
	}

	c := &Choice{
		Base:    base,
		spec:    spec,
		raw:     def.Choices,
		choices: choices.Parse(def.Choices),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks that choices are present and that every configured
// default is one of them. Resolved defaults are stored for Initial.
func (c *Choice) Validate() error {
	if len(c.choices) == 0 {
		return &ConfigError{Unit: c.name, Attribute: "choices", Message: "This field is required."}
	}

	c.defaults = nil
	for _, value := range c.defaultCandidates() {
		resolved, ok := resolveChoice(c.choices, value)
		if !ok {
			return &ConfigError{
				Unit:      c.name,
				Attribute: "default_value",
				Message:   fmt.Sprintf("The specified default value %q isn't part of the available choices.", value),
			}
		}
		c.defaults = append(c.defaults, resolved)
	}
	return nil
}

// Choices returns the decoded choices, without the blank choice.
func (c *Choice) Choices() []choices.Choice {
	return append([]choices.Choice(nil), c.choices...)
}

// Multiple reports whether the unit accepts several values.
func (c *Choice) Multiple() bool { return c.spec.multiple }

// Describe implements field.Describer.
func (c *Choice) Describe() field.Attributes {
	attrs := c.Base.Describe()
	attrs["choices"] = c.raw
	return attrs
}

// Capabilities implements field.Unit.
func (c *Choice) Capabilities() field.Capabilities {
	return field.Capabilities{
		Fields:  c.fields,
		Initial: c.initialValues,
		Loaders: c.loaders,
	}
}

func (c *Choice) fields() ([]form.Input, error) {
	kind := form.KindChoice
	if c.spec.multiple {
		kind = form.KindMultipleChoice
	}
	in := c.input(kind)
	in.Widget = c.spec.widget

	list := make([]choices.Choice, 0, len(c.choices)+1)
	if c.spec.blank && (!c.required || c.defaultValue == "") {
		list = append(list, BlankChoice)
	}
	in.Choices = append(list, c.choices...)
	return []form.Input{in}, nil
}

func (c *Choice) initialValues() map[string]any {
	if len(c.defaults) == 0 {
		return map[string]any{}
	}
	if c.spec.multiple {
		return map[string]any{c.name: append([]string(nil), c.defaults...)}
	}
	return map[string]any{c.name: c.defaults[0]}
}

func (c *Choice) loaders() []field.Loader {
	return []field.Loader{c.load}
}

// load reports the labels of the submitted values. Values no longer present
// in the choice list are reported as submitted.
func (c *Choice) load(data map[string]any) field.Row {
	row := c.row(data)
	switch value := row.Value.(type) {
	case string:
		row.Value = c.labelFor(value)
	case []string:
		labels := make([]string, len(value))
		for i, item := range value {
			labels[i] = c.labelFor(item)
		}
		row.Value = strings.Join(labels, ", ")
	case []any:
		labels := make([]string, len(value))
		for i, item := range value {
			labels[i] = c.labelFor(fmt.Sprint(item))
		}
		row.Value = strings.Join(labels, ", ")
	}
	return row
}

func (c *Choice) labelFor(value string) string {
	if label, ok := choices.LabelFor(c.choices, value); ok {
		return label
	}
	return value
}

func (c *Choice) defaultCandidates() []string {
	if c.defaultValue == "" {
		return nil
	}
	if !c.spec.multiple {
		return []string{c.defaultValue}
	}
	var out []string
	for _, part := range strings.Split(c.defaultValue, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// resolveChoice matches the slug of a configured default against the
// decoded values.
func resolveChoice(list []choices.Choice, value string) (string, bool) {
	slug := choices.Slugify(value)
	return slug, choices.Contains(list, slug)
}
