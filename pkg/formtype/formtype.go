// Package formtype holds the kinds of forms a host application offers. A
// Type names its base form and the configuration contract its units must
// satisfy, and Check reports how a unit sequence measures up.
package formtype

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formunion/pkg/field"
	"github.com/goliatone/go-formunion/pkg/form"
	"github.com/goliatone/go-formunion/pkg/validation"
)

// ErrUnknownType is returned when a key has no registered type.
var ErrUnknownType = errors.New("formtype: unknown form type")

// Type is one kind of form.
type Type struct {
	Key   string
	Label string
	Base  form.Base
	// Required lists unit names every form of this kind must contain.
	Required []string
	// Expect maps unit names to expected attribute values.
	Expect map[string]field.Attributes
	// Validate runs after the built-in checks.
	Validate func(fields []validation.FieldInfo) []validation.Message
}

// Check validates the configuration of units: uniqueness first, then
// required names, then expected attributes, then the custom hook.
func (t Type) Check(units []field.Unit) []validation.Message {
	fields := validation.Union(units, t.expectedAttributes()...)

	var messages []validation.Message
	messages = append(messages, validation.ValidateUniqueness(fields)...)
	messages = append(messages, validation.ValidateRequiredFields(fields, t.Required)...)
	messages = append(messages, validation.ValidateFields(fields, t.Expect)...)
	if t.Validate != nil {
		messages = append(messages, t.Validate(fields)...)
	}
	return messages
}

func (t Type) expectedAttributes() []string {
	seen := make(map[string]bool)
	for _, attrs := range t.Expect {
		for attr := range attrs {
			seen[attr] = true
		}
	}
	out := make([]string, 0, len(seen))
	for attr := range seen {
		out = append(out, attr)
	}
	sort.Strings(out)
	return out
}

// Choice is a (key, label) pair suitable for a selection input.
type Choice struct {
	Key   string
	Label string
}

// Registry stores form types by key in registration order.
type Registry struct {
	mu    sync.RWMutex
	types map[string]Type
	order []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]Type)}
}

// Register adds a form type. Duplicate keys return an error.
func (r *Registry) Register(t Type) error {
	key := strings.TrimSpace(t.Key)
	if key == "" {
		return fmt.Errorf("formtype: type key is required")
	}
	t.Key = key
	if t.Label == "" {
		t.Label = form.DefaultLabeler(key)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.types == nil {
		r.types = make(map[string]Type)
	}
	if _, exists := r.types[key]; exists {
		return fmt.Errorf("formtype: type %q already registered", key)
	}
	r.types[key] = t
	r.order = append(r.order, key)
	return nil
}

// MustRegister panics on registration failure.
func (r *Registry) MustRegister(t Type) {
	if err := r.Register(t); err != nil {
		panic(err)
	}
}

// Get returns the type registered under key.
func (r *Registry) Get(key string) (Type, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.types[key]
	if !ok {
		return Type{}, fmt.Errorf("%w: %q", ErrUnknownType, key)
	}
	return t, nil
}

// Choices lists every type as a (key, label) pair in registration order.
func (r *Registry) Choices() []Choice {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Choice, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, Choice{Key: key, Label: r.types[key].Label})
	}
	return out
}
