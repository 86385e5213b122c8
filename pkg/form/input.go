package form

import "github.com/goliatone/go-formunion/pkg/choices"

// Kind selects how submitted values for an input are converted and checked.
type Kind string

const (
	KindText           Kind = "text"
	KindEmail          Kind = "email"
	KindURL            Kind = "url"
	KindDate           Kind = "date"
	KindInteger        Kind = "integer"
	KindBoolean        Kind = "boolean"
	KindChoice         Kind = "choice"
	KindMultipleChoice Kind = "multiple_choice"
)

// Widget identifiers carried as rendering hints. The form itself never
// renders anything.
const (
	WidgetText             = "text"
	WidgetEmail            = "email"
	WidgetURL              = "url"
	WidgetDate             = "date"
	WidgetNumber           = "number"
	WidgetTextarea         = "textarea"
	WidgetCheckbox         = "checkbox"
	WidgetSelect           = "select"
	WidgetRadio            = "radio"
	WidgetSelectMultiple   = "select_multiple"
	WidgetCheckboxMultiple = "checkbox_multiple"
	WidgetHidden           = "hidden"
)

// Validator runs after an input value has been converted. Returning an error
// attaches its message to the input.
type Validator func(value any) error

// Cleaner is a cross-input check attached to a form. It receives the cleaned
// data gathered so far and returns the (possibly updated) cleaned data.
// Rejections are recorded with Form.AddError; returning nil keeps the
// previous mapping.
type Cleaner func(f *Form, cleaned map[string]any) map[string]any

// Input declares one named input of a form.
type Input struct {
	Name        string            `json:"name"`
	Kind        Kind              `json:"kind"`
	Widget      string            `json:"widget,omitempty"`
	Label       string            `json:"label,omitempty"`
	HelpText    string            `json:"helpText,omitempty"`
	Placeholder string            `json:"placeholder,omitempty"`
	Required    bool              `json:"required"`
	Initial     any               `json:"initial,omitempty"`
	Choices     []choices.Choice  `json:"choices,omitempty"`
	Attrs       map[string]string `json:"attrs,omitempty"`
	Validators  []Validator       `json:"-"`
}

// ResolvedWidget returns the explicit widget or the default for the kind.
func (in Input) ResolvedWidget() string {
	if in.Widget != "" {
		return in.Widget
	}
	switch in.Kind {
	case KindEmail:
		return WidgetEmail
	case KindURL:
		return WidgetURL
	case KindDate:
		return WidgetDate
	case KindInteger:
		return WidgetNumber
	case KindBoolean:
		return WidgetCheckbox
	case KindChoice:
		return WidgetSelect
	case KindMultipleChoice:
		return WidgetSelectMultiple
	default:
		return WidgetText
	}
}

// ResolvedLabel returns the label, deriving one from the name when blank.
func (in Input) ResolvedLabel() string {
	if in.Label != "" {
		return in.Label
	}
	return DefaultLabeler(in.Name)
}

func (in Input) clone() Input {
	out := in
	if len(in.Choices) > 0 {
		out.Choices = append([]choices.Choice(nil), in.Choices...)
	}
	if len(in.Attrs) > 0 {
		out.Attrs = make(map[string]string, len(in.Attrs))
		for k, v := range in.Attrs {
			out.Attrs[k] = v
		}
	}
	if len(in.Validators) > 0 {
		out.Validators = append([]Validator(nil), in.Validators...)
	}
	return out
}
