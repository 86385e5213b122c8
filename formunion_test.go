package formunion_test

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formunion"
	"github.com/goliatone/go-formunion/pkg/assembler"
	"github.com/goliatone/go-formunion/pkg/field"
	"github.com/goliatone/go-formunion/pkg/form"
	"github.com/goliatone/go-formunion/pkg/formtype"
	"github.com/goliatone/go-formunion/pkg/validation"
)

const contactUnits = `
units:
  - type: text
    name: full_name
    label: Full name
  - type: email
    name: email
  - type: plain_text
    text: Thanks for getting in touch.
`

func newService(t *testing.T, options ...formunion.Option) *formunion.Service {
	t.Helper()
	types := formtype.NewRegistry()
	types.MustRegister(formtype.Type{
		Key:      "contact",
		Base:     form.Base{Name: "contact", Inputs: []form.Input{{Name: "consent", Kind: form.KindBoolean}}},
		Required: []string{"email"},
		Expect:   map[string]field.Attributes{"email": {"type": "email"}},
	})
	svc, err := formunion.New(append([]formunion.Option{formunion.WithFormTypes(types)}, options...)...)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func loadContact(t *testing.T, svc *formunion.Service) []field.Unit {
	t.Helper()
	built, err := svc.LoadUnits(fstest.MapFS{"contact.yaml": {Data: []byte(contactUnits)}})
	if err != nil {
		t.Fatalf("load units: %v", err)
	}
	return built
}

func TestService_AssembleCheckReport(t *testing.T) {
	svc := newService(t)
	built := loadContact(t, svc)

	result, err := svc.Assemble("contact", built, form.Config{Data: map[string][]string{
		"full_name": {"Ada"},
		"email":     {"ada@example.org"},
	}})
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if diff := cmp.Diff([]string{"consent", "full_name", "email"}, result.Form.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if !result.Form.IsValid() {
		t.Fatalf("expected valid form, got %v", result.Form.Errors())
	}

	messages, err := svc.Check("contact", built)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if len(messages) != 0 {
		t.Fatalf("expected no messages, got %#v", messages)
	}

	report, err := svc.Report(built, result.Form.CleanedData())
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	want := `<p><strong>Full name</strong> (full_name)</p> <p>Ada</p> ` +
		`<p><strong>Email</strong> (email)</p> <p><a href="mailto:ada@example.org">ada@example.org</a></p>`
	if report != want {
		t.Fatalf("report mismatch\nwant: %s\n got: %s", want, report)
	}
}

func TestService_CheckReportsMissingFields(t *testing.T) {
	svc := newService(t)
	built := loadContact(t, svc)

	messages, err := svc.Check("contact", built[:1])
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	want := []validation.Message{
		validation.Error("Required fields are missing: 'email'."),
		validation.Warning("Expected field 'email' doesn't exist."),
	}
	if diff := cmp.Diff(want, messages); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestService_UnknownType(t *testing.T) {
	svc := newService(t)
	if _, err := svc.Assemble("missing", nil, form.Config{}); !errors.Is(err, formtype.ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
	if _, err := svc.Check("missing", nil); !errors.Is(err, formtype.ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
}

func TestService_StrictAssembler(t *testing.T) {
	svc := newService(t, formunion.WithAssembler(assembler.New(assembler.WithStrictNames())))
	built := loadContact(t, svc)

	if _, err := svc.Assemble("contact", append(built, built[0]), form.Config{}); !errors.Is(err, assembler.ErrDuplicateInput) {
		t.Fatalf("expected ErrDuplicateInput, got %v", err)
	}
}
