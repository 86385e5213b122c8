package units_test

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formunion/pkg/choices"
	"github.com/goliatone/go-formunion/pkg/field"
	"github.com/goliatone/go-formunion/pkg/form"
	"github.com/goliatone/go-formunion/pkg/units"
)

func mustFields(t *testing.T, unit field.Unit) []form.Input {
	t.Helper()
	caps := unit.Capabilities()
	if caps.Fields == nil {
		t.Fatalf("unit %T produces no fields", unit)
	}
	inputs, err := caps.Fields()
	if err != nil {
		t.Fatalf("fields: %v", err)
	}
	return inputs
}

func TestSimpleKinds(t *testing.T) {
	cases := []struct {
		kind   string
		want   form.Kind
		widget string
	}{
		{units.TypeText, form.KindText, form.WidgetText},
		{units.TypeEmail, form.KindEmail, form.WidgetEmail},
		{units.TypeURL, form.KindURL, form.WidgetURL},
		{units.TypeDate, form.KindDate, form.WidgetDate},
		{units.TypeInteger, form.KindInteger, form.WidgetNumber},
		{units.TypeTextarea, form.KindText, form.WidgetTextarea},
		{units.TypeCheckbox, form.KindBoolean, form.WidgetCheckbox},
	}
	for _, tc := range cases {
		t.Run(tc.kind, func(t *testing.T) {
			unit, err := units.NewSimple(tc.kind, units.Definition{Name: "value", Label: "Value"})
			if err != nil {
				t.Fatalf("new: %v", err)
			}
			if unit.Type() != tc.kind {
				t.Fatalf("type: want %q, got %q", tc.kind, unit.Type())
			}
			inputs := mustFields(t, unit)
			if len(inputs) != 1 {
				t.Fatalf("expected one input, got %d", len(inputs))
			}
			in := inputs[0]
			if in.Name != "value" || in.Kind != tc.want || in.ResolvedWidget() != tc.widget || !in.Required {
				t.Fatalf("unexpected input %+v", in)
			}
		})
	}
}

func TestSimple_UnhandledType(t *testing.T) {
	_, err := units.NewSimple("anything", units.Definition{Name: "x"})
	var cfgErr *units.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	if cfgErr.Attribute != "type" || !strings.Contains(cfgErr.Message, "unhandled type") {
		t.Fatalf("unexpected error %+v", cfgErr)
	}
}

func TestSimple_Initial(t *testing.T) {
	unit, err := units.NewSimple(units.TypeText, units.Definition{Name: "full_name"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if got := unit.Capabilities().Initial(); len(got) != 0 {
		t.Fatalf("expected no initial values, got %v", got)
	}

	unit, err = units.NewSimple(units.TypeDate, units.Definition{Name: "day", DefaultValue: "2022-01-06"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	want := map[string]any{"day": time.Date(2022, 1, 6, 0, 0, 0, 0, time.UTC)}
	if diff := cmp.Diff(want, unit.Capabilities().Initial()); diff != "" {
		t.Fatalf("initial mismatch (-want +got):\n%s", diff)
	}

	_, err = units.NewSimple(units.TypeInteger, units.Definition{Name: "count", DefaultValue: "many"})
	var cfgErr *units.ConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Attribute != "default_value" {
		t.Fatalf("expected default_value error, got %v", err)
	}
}

func TestDefinition_AttributeValidation(t *testing.T) {
	_, err := units.NewSimple(units.TypeText, units.Definition{Name: "Full Name"})
	var cfgErr *units.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	if cfgErr.Attribute != "name" {
		t.Fatalf("expected name attribute, got %q", cfgErr.Attribute)
	}

	_, err = units.NewSimple(units.TypeText, units.Definition{Name: "ok", Label: strings.Repeat("x", 1001)})
	if !errors.As(err, &cfgErr) || cfgErr.Attribute != "label" {
		t.Fatalf("expected label error, got %v", err)
	}
}

func TestGeneratedNames(t *testing.T) {
	first, err := units.NewSimple(units.TypeText, units.Definition{})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	second, err := units.NewSimple(units.TypeText, units.Definition{Name: "  "})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if !strings.HasPrefix(first.Name(), units.GeneratedNamePrefix) {
		t.Fatalf("expected generated name, got %q", first.Name())
	}
	if first.Name() == second.Name() {
		t.Fatalf("generated names must differ, both %q", first.Name())
	}
	if mustFields(t, first)[0].Name != first.Name() {
		t.Fatalf("generated name must be stable")
	}
}

func TestChoice_BlankChoice(t *testing.T) {
	cases := []struct {
		name      string
		kind      string
		required  bool
		def       string
		wantBlank bool
	}{
		{"select required without default", units.TypeSelect, true, "", true},
		{"select required with default", units.TypeSelect, true, "b", false},
		{"select optional with default", units.TypeSelect, false, "b", true},
		{"radio optional", units.TypeRadio, false, "", false},
		{"multi optional", units.TypeSelectMultiple, false, "", false},
		{"checkbox multi", units.TypeCheckboxSelectMultiple, true, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			unit, err := units.NewChoice(tc.kind, units.Definition{
				Name:         "pick",
				IsRequired:   units.Bool(tc.required),
				DefaultValue: tc.def,
				Choices:      "a\nb",
			})
			if err != nil {
				t.Fatalf("new: %v", err)
			}
			got := mustFields(t, unit)[0].Choices
			want := []choices.Choice{{Value: "a", Label: "a"}, {Value: "b", Label: "b"}}
			if tc.wantBlank {
				want = append([]choices.Choice{units.BlankChoice}, want...)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("choices mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestChoice_DefaultMustBeAvailable(t *testing.T) {
	_, err := units.NewChoice(units.TypeSelect, units.Definition{Name: "pick", Choices: "a\nb", DefaultValue: "c"})
	var cfgErr *units.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	want := &units.ConfigError{
		Unit:      "pick",
		Attribute: "default_value",
		Message:   `The specified default value "c" isn't part of the available choices.`,
	}
	if diff := cmp.Diff(want, cfgErr); diff != "" {
		t.Fatalf("error mismatch (-want +got):\n%s", diff)
	}

	_, err = units.NewChoice(units.TypeSelectMultiple, units.Definition{Name: "pick", Choices: "a\nb", DefaultValue: "a, c"})
	if !errors.As(err, &cfgErr) || cfgErr.Attribute != "default_value" {
		t.Fatalf("expected default_value error for multiple choice, got %v", err)
	}

	_, err = units.NewChoice(units.TypeRadio, units.Definition{Name: "pick"})
	if !errors.As(err, &cfgErr) || cfgErr.Attribute != "choices" {
		t.Fatalf("expected choices error, got %v", err)
	}
}

func TestChoice_DefaultMatchesOnlyBySlug(t *testing.T) {
	_, err := units.NewChoice(units.TypeSelect, units.Definition{
		Name:         "name",
		Choices:      "KEY VALUE | pretty label\nOTHER VALUE | other",
		DefaultValue: "KEY VALUE",
	})
	var cfgErr *units.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	want := &units.ConfigError{
		Unit:      "name",
		Attribute: "default_value",
		Message:   `The specified default value "KEY VALUE" isn't part of the available choices.`,
	}
	if diff := cmp.Diff(want, cfgErr); diff != "" {
		t.Fatalf("error mismatch (-want +got):\n%s", diff)
	}

	unit, err := units.NewChoice(units.TypeSelect, units.Definition{
		Name:         "name",
		Choices:      "key-value | pretty label\nother-value | other",
		DefaultValue: "KEY VALUE",
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"name": "key-value"}, unit.Capabilities().Initial()); diff != "" {
		t.Fatalf("initial mismatch (-want +got):\n%s", diff)
	}
}

func TestChoice_InitialUsesSlug(t *testing.T) {
	unit, err := units.NewChoice(units.TypeSelect, units.Definition{
		Name:         "color",
		Choices:      "Light Blue\nDark Red",
		DefaultValue: "Dark Red",
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"color": "dark-red"}, unit.Capabilities().Initial()); diff != "" {
		t.Fatalf("initial mismatch (-want +got):\n%s", diff)
	}

	multi, err := units.NewChoice(units.TypeCheckboxSelectMultiple, units.Definition{
		Name:         "colors",
		Choices:      "Light Blue\nDark Red\ngreen | Green",
		DefaultValue: "light-blue,GREEN",
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	want := map[string]any{"colors": []string{"light-blue", "green"}}
	if diff := cmp.Diff(want, multi.Capabilities().Initial()); diff != "" {
		t.Fatalf("initial mismatch (-want +got):\n%s", diff)
	}
}

func TestChoice_LoaderReportsLabels(t *testing.T) {
	unit, err := units.NewChoice(units.TypeSelectMultiple, units.Definition{
		Name:    "colors",
		Label:   "Colors",
		Choices: "r | Red\ng | Green",
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	load := unit.Capabilities().Loaders()[0]
	got := load(map[string]any{"colors": []string{"g", "gone"}})
	want := field.Row{Name: "colors", Label: "Colors", Value: "Green, gone"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("row mismatch (-want +got):\n%s", diff)
	}
}

func TestHoneypot(t *testing.T) {
	unit, err := units.NewHoneypot(units.Definition{})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if unit.Name() != units.HoneypotName {
		t.Fatalf("expected default name, got %q", unit.Name())
	}
	if unit.Capabilities().Loaders != nil {
		t.Fatalf("honeypot must not be reported")
	}
	inputs := mustFields(t, unit)
	if inputs[0].ResolvedWidget() != form.WidgetHidden || inputs[0].Required {
		t.Fatalf("unexpected honeypot input %+v", inputs[0])
	}

	caught := form.New(form.Base{}, inputs, nil, form.Config{Data: map[string][]string{"honeypot": {"anything"}}})
	if caught.IsValid() {
		t.Fatalf("expected honeypot to reject value")
	}
	if diff := cmp.Diff([]string{`Invalid honeypot value "anything"`}, caught.Errors()["honeypot"]); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}

	clean := form.New(form.Base{}, inputs, nil, form.Config{Data: map[string][]string{"honeypot": {""}}})
	if !clean.IsValid() {
		t.Fatalf("expected empty honeypot to pass: %v", clean.Errors())
	}
}

func TestDuration(t *testing.T) {
	unit, err := units.NewDuration(units.Definition{Name: "duration", LabelFrom: "from", LabelUntil: "until"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	caps := unit.Capabilities()
	inputs := mustFields(t, unit)
	if diff := cmp.Diff([]string{"duration_from", "duration_until"}, []string{inputs[0].Name, inputs[1].Name}); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}

	build := func(from, until string) *form.Form {
		return form.New(form.Base{}, inputs, caps.Cleaners(), form.Config{Data: map[string][]string{
			"duration_from":  {from},
			"duration_until": {until},
		}})
	}

	inverted := build("2022-01-06", "2022-01-01")
	if inverted.IsValid() {
		t.Fatalf("expected inverted range to be rejected")
	}
	if diff := cmp.Diff(map[string][]string{"duration_until": {units.MsgUntilBeforeFrom}}, inverted.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}

	ordered := build("2022-01-06", "2022-01-10")
	if !ordered.IsValid() {
		t.Fatalf("expected valid range: %v", ordered.Errors())
	}

	row := caps.Loaders()[0](ordered.CleanedData())
	want := field.Row{Name: "duration", Label: "from - until", Value: "2022-01-06 - 2022-01-10"}
	if diff := cmp.Diff(want, row); diff != "" {
		t.Fatalf("row mismatch (-want +got):\n%s", diff)
	}
	if empty := caps.Loaders()[0](map[string]any{}); empty.Value != nil {
		t.Fatalf("expected nil value for missing data, got %#v", empty.Value)
	}
}

func TestPlainText(t *testing.T) {
	unit, err := units.NewPlainText(units.Definition{Text: strings.Repeat("abcd ", 20)})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	caps := unit.Capabilities()
	if caps.ProducesFields() || caps.Loaders != nil || caps.Cleaners != nil {
		t.Fatalf("plain text must not declare capabilities")
	}
	if got := len([]rune(unit.String())); got != 40 {
		t.Fatalf("expected 40 rune preview, got %d", got)
	}
}

func TestBase_String(t *testing.T) {
	unit, err := units.NewSimple(units.TypeText, units.Definition{Name: "long", Label: strings.Repeat("a", 60)})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	want := strings.Repeat("a", 49) + "…"
	if got := unit.String(); got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestRegistry(t *testing.T) {
	registry := units.NewRegistry()

	if _, err := registry.Lookup("nope"); !errors.Is(err, units.ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
	err := registry.Register(units.Kind{Type: units.TypeText, New: func(units.Definition) (field.Unit, error) { return nil, nil }})
	if !errors.Is(err, units.ErrDuplicateKind) {
		t.Fatalf("expected ErrDuplicateKind, got %v", err)
	}

	var tags []string
	for _, kind := range registry.List() {
		tags = append(tags, kind.Type)
	}
	if tags[0] != units.TypeText || tags[len(tags)-1] != units.TypePlainText {
		t.Fatalf("unexpected registration order %v", tags)
	}

	built, err := registry.Build([]units.Definition{
		{Type: units.TypeEmail, Name: "email"},
		{Type: units.TypePlainText, Text: "Hello"},
		{Type: units.TypeDuration, Name: "stay"},
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if _, ok := built[0].(*units.Simple); !ok {
		t.Fatalf("expected *units.Simple, got %T", built[0])
	}
	if _, ok := built[1].(*units.PlainText); !ok {
		t.Fatalf("expected *units.PlainText, got %T", built[1])
	}

	_, err = registry.Build([]units.Definition{{Type: "anything"}})
	if !errors.Is(err, units.ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind from build, got %v", err)
	}
	_, err = registry.New(units.Definition{Type: units.TypeSelect, Name: "x"})
	var cfgErr *units.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{
		"a/contact.yaml": {Data: []byte(`
units:
  - type: text
    name: full_name
    label: Full name
  - type: select
    name: topic
    is_required: false
    choices: |
      Sales
      support | Support
`)},
		"b/extra.json": {Data: []byte(`{"units":[{"type":"honeypot"}]}`)},
		"notes.txt":    {Data: []byte("ignored")},
	}

	defs, err := units.LoadFS(fsys)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := []units.Definition{
		{Type: "text", Name: "full_name", Label: "Full name"},
		{Type: "select", Name: "topic", IsRequired: units.Bool(false), Choices: "Sales\nsupport | Support\n"},
		{Type: "honeypot"},
	}
	if diff := cmp.Diff(want, defs); diff != "" {
		t.Fatalf("definitions mismatch (-want +got):\n%s", diff)
	}

	_, err = units.LoadFS(fstest.MapFS{"bad.yaml": {Data: []byte("units:\n  - name: x\n")}})
	if err == nil {
		t.Fatalf("expected error for definition without type")
	}
}
