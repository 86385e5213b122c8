// Package openapi bridges forms and OpenAPI 3 object schemas. Assembled
// forms can be described as schemas for API consumers, and component
// schemas of an OpenAPI document can serve as base forms.
package openapi

import (
	"time"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formunion/pkg/choices"
	"github.com/goliatone/go-formunion/pkg/form"
)

// Extension keys written on exported schemas and read back by the importer.
const (
	ExtensionOrder  = "x-formunion-order"
	ExtensionWidget = "x-formunion-widget"
	ExtensionLabels = "x-formunion-labels"
)

// Version is the OpenAPI version written by Document.
const Version = "3.0.3"

// Schema aliases the kin-openapi schema type.
type Schema = openapi3.Schema

// FromForm describes the inputs of f as an object schema titled after the
// form's base name. Defaults are the form's initial values.
func FromForm(f *form.Form) *openapi3.Schema {
	inputs := f.Inputs()
	specs := make([]form.Input, len(inputs))
	for i, in := range inputs {
		specs[i] = in.Spec()
		if value, ok := f.Initial(specs[i].Name); ok {
			specs[i].Initial = value
		}
	}
	return FromInputs(f.BaseName(), specs)
}

// FromInputs describes inputs as an object schema. Property order is kept
// in the x-formunion-order extension.
func FromInputs(title string, inputs []form.Input) *openapi3.Schema {
	schema := openapi3.NewObjectSchema()
	schema.Title = title

	order := make([]string, 0, len(inputs))
	for _, in := range inputs {
		if in.Name == "" {
			continue
		}
		order = append(order, in.Name)
		schema.WithProperty(in.Name, inputSchema(in))
		if in.Required {
			schema.Required = append(schema.Required, in.Name)
		}
	}
	schema.Extensions = map[string]any{ExtensionOrder: order}
	return schema
}

// Document wraps named schemas into an OpenAPI document without paths.
func Document(title, version string, schemas map[string]*openapi3.Schema) *openapi3.T {
	components := &openapi3.Components{Schemas: make(openapi3.Schemas, len(schemas))}
	for name, schema := range schemas {
		components.Schemas[name] = openapi3.NewSchemaRef("", schema)
	}
	return &openapi3.T{
		OpenAPI:    Version,
		Info:       &openapi3.Info{Title: title, Version: version},
		Paths:      openapi3.NewPaths(),
		Components: components,
	}
}

func inputSchema(in form.Input) *openapi3.Schema {
	var schema *openapi3.Schema
	switch in.Kind {
	case form.KindEmail:
		schema = openapi3.NewStringSchema().WithFormat("email")
	case form.KindURL:
		schema = openapi3.NewStringSchema().WithFormat("uri")
	case form.KindDate:
		schema = openapi3.NewStringSchema().WithFormat("date")
	case form.KindInteger:
		schema = openapi3.NewIntegerSchema()
	case form.KindBoolean:
		schema = openapi3.NewBoolSchema()
	case form.KindChoice:
		schema = openapi3.NewStringSchema().WithEnum(enumValues(in.Choices)...)
	case form.KindMultipleChoice:
		items := openapi3.NewStringSchema().WithEnum(enumValues(in.Choices)...)
		schema = openapi3.NewArraySchema().WithItems(items)
		schema.UniqueItems = true
	default:
		schema = openapi3.NewStringSchema()
	}

	schema.Title = in.ResolvedLabel()
	schema.Description = in.HelpText
	if in.Initial != nil {
		schema.Default = defaultValue(in.Initial)
	}

	schema.Extensions = map[string]any{ExtensionWidget: in.ResolvedWidget()}
	if len(in.Choices) > 0 {
		labels := make([]string, len(in.Choices))
		for i, choice := range in.Choices {
			labels[i] = choice.Label
		}
		schema.Extensions[ExtensionLabels] = labels
	}
	return schema
}

func defaultValue(value any) any {
	if t, ok := value.(time.Time); ok {
		return t.Format(form.DateLayout)
	}
	return value
}

func enumValues(list []choices.Choice) []any {
	out := make([]any, len(list))
	for i, choice := range list {
		out[i] = choice.Value
	}
	return out
}
