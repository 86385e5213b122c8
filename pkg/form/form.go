// Package form holds the runtime form assembled for one render or submission
// cycle: declared inputs, bound data, cleaned values and accumulated errors.
//
// A Form is not safe for concurrent use. Build a fresh one per interaction.
package form

import (
	"fmt"
	"mime/multipart"
)

// Base is the base form type. Its inputs are declared before any inputs
// contributed by field units; a contributed input with the same name
// replaces the base declaration in place.
type Base struct {
	Name   string
	Inputs []Input
	// Clean runs after per-input cleaning and before any unit cleaner.
	Clean Cleaner
}

// Config carries construction arguments supplied by the host.
type Config struct {
	// Data holds submitted values keyed by prefixed input name. A non-nil
	// Data (or Files) makes the form bound.
	Data map[string][]string
	// Files holds uploaded files keyed by prefixed input name.
	Files map[string][]*multipart.FileHeader
	// Prefix namespaces every input name as "<prefix>-<name>".
	Prefix string
	// Initial seeds values shown by unbound forms.
	Initial map[string]any
}

// Form is an assembled form instance.
type Form struct {
	base     string
	prefix   string
	data     map[string][]string
	files    map[string][]*multipart.FileHeader
	bound    bool
	initial  map[string]any
	inputs   []*BoundInput
	byName   map[string]*BoundInput
	clean    Cleaner
	cleaners []Cleaner

	validated bool
	cleaned   map[string]any
	errors    map[string][]string
}

// New builds a form from base, the contributed inputs and the cleaners.
// Later inputs replace earlier ones with the same name.
func New(base Base, inputs []Input, cleaners []Cleaner, cfg Config) *Form {
	f := &Form{
		base:     base.Name,
		prefix:   cfg.Prefix,
		data:     cfg.Data,
		files:    cfg.Files,
		bound:    cfg.Data != nil || cfg.Files != nil,
		initial:  copyValues(cfg.Initial),
		byName:   make(map[string]*BoundInput, len(base.Inputs)+len(inputs)),
		clean:    base.Clean,
		cleaners: append([]Cleaner(nil), cleaners...),
	}

	for _, group := range [][]Input{base.Inputs, inputs} {
		for _, spec := range group {
			if spec.Name == "" {
				continue
			}
			if existing, ok := f.byName[spec.Name]; ok {
				existing.spec = spec.clone()
				continue
			}
			bound := &BoundInput{form: f, spec: spec.clone()}
			f.byName[spec.Name] = bound
			f.inputs = append(f.inputs, bound)
		}
	}
	return f
}

// BaseName reports the name of the base form type.
func (f *Form) BaseName() string { return f.base }

// Prefix returns the naming prefix.
func (f *Form) Prefix() string { return f.prefix }

// IsBound reports whether submitted data was supplied.
func (f *Form) IsBound() bool { return f.bound }

// Files returns the uploaded files supplied at construction.
func (f *Form) Files() map[string][]*multipart.FileHeader { return f.files }

// HTMLName returns the submitted key for an input name.
func (f *Form) HTMLName(name string) string {
	if f.prefix == "" {
		return name
	}
	return f.prefix + "-" + name
}

// Input returns the live handle for name.
func (f *Form) Input(name string) (*BoundInput, bool) {
	in, ok := f.byName[name]
	return in, ok
}

// Inputs returns every live handle in declaration order.
func (f *Form) Inputs() []*BoundInput {
	return append([]*BoundInput(nil), f.inputs...)
}

// Names returns every input name in declaration order.
func (f *Form) Names() []string {
	out := make([]string, len(f.inputs))
	for i, in := range f.inputs {
		out[i] = in.Name()
	}
	return out
}

// Initial returns the initial value for name, falling back to the input's
// own declared initial value.
func (f *Form) Initial(name string) (any, bool) {
	if value, ok := f.initial[name]; ok {
		return value, true
	}
	if in, ok := f.byName[name]; ok && in.spec.Initial != nil {
		return in.spec.Initial, true
	}
	return nil, false
}

// IsValid runs validation when needed and reports whether the bound form
// has no errors. Unbound forms are never valid.
func (f *Form) IsValid() bool {
	if !f.bound {
		return false
	}
	f.fullClean()
	return len(f.errors) == 0
}

// Errors returns a copy of the accumulated errors keyed by input name.
func (f *Form) Errors() map[string][]string {
	f.fullClean()
	if len(f.errors) == 0 {
		return nil
	}
	out := make(map[string][]string, len(f.errors))
	for name, messages := range f.errors {
		out[name] = append([]string(nil), messages...)
	}
	return out
}

// NonFieldErrors returns the form level errors.
func (f *Form) NonFieldErrors() []string {
	f.fullClean()
	return append([]string(nil), f.errors[NonFieldErrors]...)
}

// CleanedData returns a copy of the values that passed validation.
func (f *Form) CleanedData() map[string]any {
	f.fullClean()
	return copyValues(f.cleaned)
}

// AddError attaches message to the named input and drops the input from the
// cleaned data. An empty name or an unknown input records a form level
// error.
func (f *Form) AddError(name, message string) {
	if f.errors == nil {
		f.errors = make(map[string][]string)
	}
	if _, ok := f.byName[name]; !ok {
		name = NonFieldErrors
	}
	f.errors[name] = appendMessages(f.errors[name], message)
	if name != NonFieldErrors && f.cleaned != nil {
		delete(f.cleaned, name)
	}
}

func (f *Form) fullClean() {
	if f.validated {
		return
	}
	f.validated = true
	if !f.bound {
		return
	}

	f.cleaned = make(map[string]any, len(f.inputs))
	for _, in := range f.inputs {
		value, err := in.clean()
		if err != nil {
			f.AddError(in.Name(), err.Error())
			continue
		}
		f.cleaned[in.Name()] = value
	}

	if f.clean != nil {
		f.runCleaner(f.clean)
	}
	for _, cleaner := range f.cleaners {
		if cleaner != nil {
			f.runCleaner(cleaner)
		}
	}
}

func (f *Form) runCleaner(cleaner Cleaner) {
	if result := cleaner(f, f.cleaned); result != nil {
		f.cleaned = result
	}
}

// BoundInput is a live handle on one input of a form.
type BoundInput struct {
	form *Form
	spec Input
}

// Name returns the unprefixed input name.
func (b *BoundInput) Name() string { return b.spec.Name }

// HTMLName returns the prefixed input name.
func (b *BoundInput) HTMLName() string { return b.form.HTMLName(b.spec.Name) }

// Spec returns a copy of the declaration.
func (b *BoundInput) Spec() Input { return b.spec.clone() }

// Label returns the resolved label.
func (b *BoundInput) Label() string { return b.spec.ResolvedLabel() }

// Errors returns the messages attached to the input.
func (b *BoundInput) Errors() []string {
	b.form.fullClean()
	return append([]string(nil), b.form.errors[b.spec.Name]...)
}

// Value returns the submitted value for bound forms and the initial value
// otherwise.
func (b *BoundInput) Value() any {
	if !b.form.bound {
		value, _ := b.form.Initial(b.spec.Name)
		return value
	}
	raw := b.form.data[b.HTMLName()]
	if b.spec.Kind == KindMultipleChoice {
		return append([]string(nil), raw...)
	}
	if len(raw) == 0 {
		return nil
	}
	return raw[0]
}

// String describes the handle for debugging.
func (b *BoundInput) String() string {
	return fmt.Sprintf("%s (%s)", b.HTMLName(), b.spec.Kind)
}

func copyValues(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
