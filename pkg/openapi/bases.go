package openapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formunion/pkg/choices"
	"github.com/goliatone/go-formunion/pkg/form"
)

// LoadBases parses an OpenAPI document (JSON or YAML) and turns every object
// schema under components.schemas into a base form named after the schema.
func LoadBases(ctx context.Context, data []byte) (map[string]form.Base, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}

	loader := openapi3.NewLoader()
	loader.Context = ctx
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("openapi: validate document: %w", err)
	}

	bases := make(map[string]form.Base)
	if doc.Components == nil {
		return bases, nil
	}
	for name, ref := range doc.Components.Schemas {
		if ref == nil || ref.Value == nil || firstSchemaType(ref.Value.Type) != openapi3.TypeObject {
			continue
		}
		base, err := BaseFromSchema(name, ref.Value)
		if err != nil {
			return nil, err
		}
		bases[name] = base
	}
	return bases, nil
}

// BaseFromSchema converts an object schema into a base form.
func BaseFromSchema(name string, schema *openapi3.Schema) (form.Base, error) {
	inputs, err := InputsFromSchema(schema)
	if err != nil {
		return form.Base{}, fmt.Errorf("openapi: schema %q: %w", name, err)
	}
	return form.Base{Name: name, Inputs: inputs}, nil
}

// InputsFromSchema converts the properties of an object schema into inputs.
// Inputs follow x-formunion-order when present; remaining properties are
// appended in name order.
func InputsFromSchema(schema *openapi3.Schema) ([]form.Input, error) {
	if schema == nil {
		return nil, errors.New("schema is nil")
	}

	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	inputs := make([]form.Input, 0, len(schema.Properties))
	for _, name := range propertyOrder(schema) {
		ref := schema.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		in, err := convertProperty(name, ref.Value)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", name, err)
		}
		in.Required = required[name]
		inputs = append(inputs, in)
	}
	return inputs, nil
}

func convertProperty(name string, src *openapi3.Schema) (form.Input, error) {
	in := form.Input{
		Name:     name,
		Label:    src.Title,
		HelpText: src.Description,
		Initial:  src.Default,
	}

	switch firstSchemaType(src.Type) {
	case openapi3.TypeString, "":
		switch {
		case len(src.Enum) > 0:
			in.Kind = form.KindChoice
		case src.Format == "email":
			in.Kind = form.KindEmail
		case src.Format == "uri" || src.Format == "url":
			in.Kind = form.KindURL
		case src.Format == "date":
			in.Kind = form.KindDate
		default:
			in.Kind = form.KindText
		}
		in.Choices = choiceList(src.Enum, stringSlice(src.Extensions[ExtensionLabels]))
	case openapi3.TypeInteger, openapi3.TypeNumber:
		in.Kind = form.KindInteger
	case openapi3.TypeBoolean:
		in.Kind = form.KindBoolean
	case openapi3.TypeArray:
		if src.Items == nil || src.Items.Value == nil || len(src.Items.Value.Enum) == 0 {
			return form.Input{}, errors.New("array properties need enumerated items")
		}
		in.Kind = form.KindMultipleChoice
		labels := stringSlice(src.Extensions[ExtensionLabels])
		if labels == nil {
			labels = stringSlice(src.Items.Value.Extensions[ExtensionLabels])
		}
		in.Choices = choiceList(src.Items.Value.Enum, labels)
	default:
		return form.Input{}, fmt.Errorf("unsupported type %q", firstSchemaType(src.Type))
	}

	if widget, ok := stringValue(src.Extensions[ExtensionWidget]); ok {
		in.Widget = widget
	}
	return in, nil
}

func propertyOrder(schema *openapi3.Schema) []string {
	seen := make(map[string]bool, len(schema.Properties))
	order := make([]string, 0, len(schema.Properties))
	for _, name := range stringSlice(schema.Extensions[ExtensionOrder]) {
		if _, ok := schema.Properties[name]; !ok || seen[name] {
			continue
		}
		seen[name] = true
		order = append(order, name)
	}

	rest := make([]string, 0, len(schema.Properties)-len(order))
	for name := range schema.Properties {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(order, rest...)
}

func choiceList(enum []any, labels []string) []choices.Choice {
	if len(enum) == 0 {
		return nil
	}
	out := make([]choices.Choice, 0, len(enum))
	for i, raw := range enum {
		value := fmt.Sprint(raw)
		label := value
		if i < len(labels) && labels[i] != "" {
			label = labels[i]
		}
		out = append(out, choices.Choice{Value: value, Label: label})
	}
	return out
}

func firstSchemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	switch len(values) {
	case 0:
		return ""
	case 1:
		return values[0]
	default:
		return strings.Join(values, ",")
	}
}

// Extension values arrive decoded or as raw JSON depending on how the
// document was built.
func stringSlice(value any) []string {
	switch v := value.(type) {
	case nil:
		return nil
	case []string:
		return append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case json.RawMessage:
		var out []string
		if err := json.Unmarshal(v, &out); err != nil {
			return nil
		}
		return out
	default:
		return nil
	}
}

func stringValue(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, v != ""
	case json.RawMessage:
		var out string
		if err := json.Unmarshal(v, &out); err != nil {
			return "", false
		}
		return out, out != ""
	default:
		return "", false
	}
}
