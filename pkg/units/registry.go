package units

import (
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-formunion/pkg/field"
)

// Constructor builds a unit from its definition.
type Constructor func(def Definition) (field.Unit, error)

// Kind describes one registered type tag.
type Kind struct {
	Type  string
	Label string
	New   Constructor
}

// Registry maps type tags to kinds. Registration order is preserved so kind
// listings are stable.
type Registry struct {
	mu    sync.RWMutex
	kinds map[string]Kind
	order []string
}

// NewRegistry returns a registry holding the built-in kinds.
func NewRegistry() *Registry {
	r := &Registry{kinds: make(map[string]Kind)}
	for _, kind := range builtins() {
		r.MustRegister(kind)
	}
	return r
}

// Register adds a kind. Duplicate type tags return ErrDuplicateKind.
func (r *Registry) Register(kind Kind) error {
	tag := strings.TrimSpace(kind.Type)
	if tag == "" {
		return fmt.Errorf("units: kind type is required")
	}
	if kind.New == nil {
		return fmt.Errorf("units: kind %q has no constructor", tag)
	}
	kind.Type = tag

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.kinds == nil {
		r.kinds = make(map[string]Kind)
	}
	if _, exists := r.kinds[tag]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateKind, tag)
	}
	r.kinds[tag] = kind
	r.order = append(r.order, tag)
	return nil
}

// MustRegister panics on registration failure.
func (r *Registry) MustRegister(kind Kind) {
	if err := r.Register(kind); err != nil {
		panic(err)
	}
}

// Lookup returns the kind registered for tag.
func (r *Registry) Lookup(tag string) (Kind, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kind, ok := r.kinds[tag]
	if !ok {
		return Kind{}, fmt.Errorf("%w: %q", ErrUnknownKind, tag)
	}
	return kind, nil
}

// List returns the registered kinds in registration order.
func (r *Registry) List() []Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Kind, 0, len(r.order))
	for _, tag := range r.order {
		out = append(out, r.kinds[tag])
	}
	return out
}

// New builds a unit from def using the kind named by def.Type.
func (r *Registry) New(def Definition) (field.Unit, error) {
	kind, err := r.Lookup(strings.TrimSpace(def.Type))
	if err != nil {
		return nil, err
	}
	return kind.New(def)
}

// Build turns definitions into units, keeping their order.
func (r *Registry) Build(defs []Definition) ([]field.Unit, error) {
	out := make([]field.Unit, 0, len(defs))
	for idx, def := range defs {
		unit, err := r.New(def)
		if err != nil {
			return nil, fmt.Errorf("units: definition %d: %w", idx, err)
		}
		out = append(out, unit)
	}
	return out, nil
}

func builtins() []Kind {
	simple := func(tag string) Constructor {
		return func(def Definition) (field.Unit, error) { return asUnit(NewSimple(tag, def)) }
	}
	choice := func(tag string) Constructor {
		return func(def Definition) (field.Unit, error) { return asUnit(NewChoice(tag, def)) }
	}
	return []Kind{
		{Type: TypeText, Label: "Text", New: simple(TypeText)},
		{Type: TypeEmail, Label: "Email", New: simple(TypeEmail)},
		{Type: TypeURL, Label: "URL", New: simple(TypeURL)},
		{Type: TypeDate, Label: "Date", New: simple(TypeDate)},
		{Type: TypeInteger, Label: "Integer", New: simple(TypeInteger)},
		{Type: TypeTextarea, Label: "Textarea", New: simple(TypeTextarea)},
		{Type: TypeCheckbox, Label: "Checkbox", New: simple(TypeCheckbox)},
		{Type: TypeSelect, Label: "Select", New: choice(TypeSelect)},
		{Type: TypeRadio, Label: "Radio", New: choice(TypeRadio)},
		{Type: TypeSelectMultiple, Label: "Select multiple", New: choice(TypeSelectMultiple)},
		{Type: TypeCheckboxSelectMultiple, Label: "Checkbox select multiple", New: choice(TypeCheckboxSelectMultiple)},
		{Type: TypeDuration, Label: "Duration", New: func(def Definition) (field.Unit, error) { return asUnit(NewDuration(def)) }},
		{Type: TypeHoneypot, Label: "Honeypot", New: func(def Definition) (field.Unit, error) { return asUnit(NewHoneypot(def)) }},
		{Type: TypePlainText, Label: "Plain text", New: func(def Definition) (field.Unit, error) { return asUnit(NewPlainText(def)) }},
	}
}

// asUnit keeps failed constructors from returning a typed nil unit.
func asUnit[T field.Unit](unit T, err error) (field.Unit, error) {
	if err != nil {
		return nil, err
	}
	return unit, nil
}
