package units

import (
	"fmt"
	"time"

	"github.com/goliatone/go-formunion/pkg/field"
	"github.com/goliatone/go-formunion/pkg/form"
)

// MsgUntilBeforeFrom is attached to the until input of an inverted range.
const MsgUntilBeforeFrom = "Until has to be later than from."

// Duration is a date range unit contributing "<name>_from" and
// "<name>_until". Both dates are always required.
type Duration struct {
	Base
	labelFrom  string
	labelUntil string
}

// NewDuration builds a date range unit.
func NewDuration(def Definition) (*Duration, error) {
	base, err := newBase(TypeDuration, def, "")
	if err != nil {
		return nil, err
	}
	base.required = true
	return &Duration{
		Base:       base,
		labelFrom:  def.LabelFrom,
		labelUntil: def.LabelUntil,
	}, nil
}

// FromName returns the name of the start date input.
func (d *Duration) FromName() string { return d.name + "_from" }

// UntilName returns the name of the end date input.
func (d *Duration) UntilName() string { return d.name + "_until" }

// String joins both labels.
func (d *Duration) String() string {
	return fmt.Sprintf("%s - %s", d.labelFrom, d.labelUntil)
}

// Describe implements field.Describer.
func (d *Duration) Describe() field.Attributes {
	return field.Attributes{
		"name":        d.name,
		"type":        d.kind,
		"label_from":  d.labelFrom,
		"label_until": d.labelUntil,
	}
}

// Capabilities implements field.Unit.
func (d *Duration) Capabilities() field.Capabilities {
	return field.Capabilities{
		Fields:   d.fields,
		Initial:  func() map[string]any { return map[string]any{} },
		Cleaners: d.cleaners,
		Loaders:  d.loaders,
	}
}

func (d *Duration) fields() ([]form.Input, error) {
	return []form.Input{
		{Name: d.FromName(), Kind: form.KindDate, Label: d.labelFrom, Required: true},
		{Name: d.UntilName(), Kind: form.KindDate, Label: d.labelUntil, Required: true},
	}, nil
}

func (d *Duration) cleaners() []form.Cleaner {
	return []form.Cleaner{d.clean}
}

func (d *Duration) clean(f *form.Form, cleaned map[string]any) map[string]any {
	from, okFrom := cleaned[d.FromName()].(time.Time)
	until, okUntil := cleaned[d.UntilName()].(time.Time)
	if okFrom && okUntil && from.After(until) {
		f.AddError(d.UntilName(), MsgUntilBeforeFrom)
	}
	return cleaned
}

func (d *Duration) loaders() []field.Loader {
	return []field.Loader{d.load}
}

func (d *Duration) load(data map[string]any) field.Row {
	row := field.Row{Name: d.name, Label: d.String()}
	from := formatDate(data[d.FromName()])
	until := formatDate(data[d.UntilName()])
	if from != "" || until != "" {
		row.Value = from + " - " + until
	}
	return row
}

func formatDate(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case time.Time:
		return v.Format(form.DateLayout)
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
