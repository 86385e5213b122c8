package openapi_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-formunion/pkg/choices"
	"github.com/goliatone/go-formunion/pkg/form"
	"github.com/goliatone/go-formunion/pkg/openapi"
)

var contactInputs = []form.Input{
	{Name: "full_name", Kind: form.KindText, Label: "Full name", Required: true},
	{Name: "email", Kind: form.KindEmail, HelpText: "We reply here.", Required: true},
	{Name: "website", Kind: form.KindURL},
	{Name: "topic", Kind: form.KindChoice, Widget: form.WidgetRadio, Initial: "sales", Choices: []choices.Choice{
		{Value: "sales", Label: "Sales"},
		{Value: "support", Label: "Support"},
	}},
	{Name: "days", Kind: form.KindMultipleChoice, Choices: []choices.Choice{
		{Value: "mon", Label: "Monday"},
		{Value: "tue", Label: "Tuesday"},
	}},
	{Name: "seats", Kind: form.KindInteger},
	{Name: "newsletter", Kind: form.KindBoolean},
	{Name: "arrival", Kind: form.KindDate},
}

func TestFromInputs(t *testing.T) {
	schema := openapi.FromInputs("contact", contactInputs)

	if schema.Title != "contact" {
		t.Fatalf("expected title contact, got %q", schema.Title)
	}
	if diff := cmp.Diff([]string{"full_name", "email"}, schema.Required); diff != "" {
		t.Fatalf("required mismatch (-want +got):\n%s", diff)
	}
	wantOrder := []string{"full_name", "email", "website", "topic", "days", "seats", "newsletter", "arrival"}
	if diff := cmp.Diff(wantOrder, schema.Extensions[openapi.ExtensionOrder]); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}

	email := schema.Properties["email"].Value
	if email.Format != "email" || email.Title != "Email" || email.Description != "We reply here." {
		t.Fatalf("unexpected email schema: %+v", email)
	}
	topic := schema.Properties["topic"].Value
	if diff := cmp.Diff([]any{"sales", "support"}, topic.Enum); diff != "" {
		t.Fatalf("enum mismatch (-want +got):\n%s", diff)
	}
	if topic.Extensions[openapi.ExtensionWidget] != form.WidgetRadio {
		t.Fatalf("expected radio widget, got %v", topic.Extensions[openapi.ExtensionWidget])
	}
	days := schema.Properties["days"].Value
	if !days.Type.Is("array") || !days.UniqueItems || days.Items == nil {
		t.Fatalf("expected unique array for days, got %+v", days)
	}
	if !schema.Properties["seats"].Value.Type.Is("integer") {
		t.Fatalf("expected integer seats")
	}
	if got := schema.Properties["arrival"].Value.Format; got != "date" {
		t.Fatalf("expected date format, got %q", got)
	}
}

func TestFromForm(t *testing.T) {
	f := form.New(form.Base{Name: "signup", Inputs: contactInputs[:2]}, nil, nil, form.Config{})
	schema := openapi.FromForm(f)
	if schema.Title != "signup" || len(schema.Properties) != 2 {
		t.Fatalf("unexpected schema: %+v", schema)
	}
}

func TestFromForm_DefaultsFollowFormInitial(t *testing.T) {
	f := form.New(form.Base{Name: "booking"}, []form.Input{
		{Name: "room", Kind: form.KindChoice, Initial: "single", Choices: []choices.Choice{
			{Value: "single", Label: "Single"},
			{Value: "double", Label: "Double"},
		}},
		{Name: "arrival", Kind: form.KindDate},
		{Name: "notes", Kind: form.KindText},
	}, nil, form.Config{Initial: map[string]any{
		"room":    "double",
		"arrival": time.Date(2022, 1, 6, 0, 0, 0, 0, time.UTC),
	}})

	schema := openapi.FromForm(f)
	got := map[string]any{}
	for name, ref := range schema.Properties {
		if ref.Value.Default != nil {
			got[name] = ref.Value.Default
		}
	}
	want := map[string]any{"room": "double", "arrival": "2022-01-06"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	doc := openapi.Document("Forms", "1.0.0", map[string]*openapi3.Schema{
		"contact": openapi.FromInputs("contact", contactInputs),
	})
	if err := doc.Validate(context.Background()); err != nil {
		t.Fatalf("validate: %v", err)
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	bases, err := openapi.LoadBases(context.Background(), payload)
	if err != nil {
		t.Fatalf("load bases: %v", err)
	}
	base, ok := bases["contact"]
	if !ok {
		t.Fatalf("expected contact base, got %v", bases)
	}

	want := make([]form.Input, len(contactInputs))
	for i, in := range contactInputs {
		in.Label = in.ResolvedLabel()
		in.Widget = in.ResolvedWidget()
		want[i] = in
	}
	if diff := cmp.Diff(want, base.Inputs, cmpopts.IgnoreFields(form.Input{}, "Validators")); diff != "" {
		t.Fatalf("inputs mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadBases_YAML(t *testing.T) {
	doc := []byte(`
openapi: 3.0.3
info:
  title: Forms
  version: "1"
paths: {}
components:
  schemas:
    Tag:
      type: string
    Booking:
      type: object
      required: [name]
      properties:
        name:
          type: string
        guests:
          type: integer
        colour:
          type: string
          enum: [red, blue]
          x-formunion-labels: [Red, Blue]
`)
	bases, err := openapi.LoadBases(context.Background(), doc)
	if err != nil {
		t.Fatalf("load bases: %v", err)
	}
	if _, ok := bases["Tag"]; ok {
		t.Fatalf("non-object schemas must be skipped")
	}

	want := []form.Input{
		{Name: "colour", Kind: form.KindChoice, Choices: []choices.Choice{{Value: "red", Label: "Red"}, {Value: "blue", Label: "Blue"}}},
		{Name: "guests", Kind: form.KindInteger},
		{Name: "name", Kind: form.KindText, Required: true},
	}
	if diff := cmp.Diff(want, bases["Booking"].Inputs, cmpopts.IgnoreFields(form.Input{}, "Validators")); diff != "" {
		t.Fatalf("inputs mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadBases_Errors(t *testing.T) {
	if _, err := openapi.LoadBases(context.Background(), nil); err == nil {
		t.Fatalf("expected error for empty payload")
	}

	unsupported := []byte(`{"openapi":"3.0.3","info":{"title":"x","version":"1"},"paths":{},
"components":{"schemas":{"Bad":{"type":"object","properties":{"tags":{"type":"array","items":{"type":"string"}}}}}}}`)
	if _, err := openapi.LoadBases(context.Background(), unsupported); err == nil {
		t.Fatalf("expected error for array without enum")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := openapi.LoadBases(ctx, []byte("{}")); err == nil {
		t.Fatalf("expected context error")
	}
}
