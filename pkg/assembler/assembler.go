// Package assembler merges an ordered sequence of field units into one
// runtime form and records which inputs each unit contributed.
//
// Every call to Assemble works on fresh state, so one Assembler can serve
// concurrent requests.
package assembler

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/goliatone/go-formunion/pkg/field"
	"github.com/goliatone/go-formunion/pkg/form"
)

// ErrDuplicateInput is returned in strict mode when two units produce the
// same input name.
var ErrDuplicateInput = errors.New("assembler: duplicate input")

// Option customises an Assembler.
type Option func(*Assembler)

// WithStrictNames rejects name collisions instead of letting the later unit
// replace the earlier input.
func WithStrictNames() Option {
	return func(a *Assembler) {
		a.strict = true
	}
}

// Assembler builds forms from units.
type Assembler struct {
	strict bool
}

// New constructs an Assembler applying the provided options.
func New(options ...Option) *Assembler {
	a := &Assembler{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(a)
	}
	return a
}

// Result is the outcome of one assembly.
type Result struct {
	Form  *form.Form
	Index *Index
}

// Assemble uses an Assembler with default options.
func Assemble(units []field.Unit, base form.Base, cfg form.Config) (*Result, error) {
	return New().Assemble(units, base, cfg)
}

type contribution struct {
	position int
	unit     field.Unit
	caps     field.Capabilities
	names    []string
}

// Assemble merges the inputs, initial values and cleaners of every unit that
// produces fields, in sequence order, and builds the form on top of base.
//
// When two units produce the same name the later input replaces the earlier
// one and keeps its position, unless the Assembler is strict. Initial values
// are folded the same way and cfg.Initial is applied last.
func (a *Assembler) Assemble(units []field.Unit, base form.Base, cfg form.Config) (*Result, error) {
	var (
		contributions []contribution
		order         []string
		merged        = make(map[string]form.Input)
		initial       = make(map[string]any)
		cleaners      []form.Cleaner
	)

	for idx, unit := range units {
		if unit == nil {
			continue
		}
		caps := unit.Capabilities()
		if !caps.ProducesFields() {
			continue
		}

		inputs, err := caps.Fields()
		if err != nil {
			return nil, fmt.Errorf("assembler: unit %d fields: %w", idx, err)
		}

		c := contribution{position: idx, unit: unit, caps: caps}
		seen := make(map[string]bool, len(inputs))
		for _, in := range inputs {
			if in.Name == "" {
				return nil, fmt.Errorf("assembler: unit %d produced an input without a name", idx)
			}
			if _, exists := merged[in.Name]; exists {
				if a.strict {
					return nil, fmt.Errorf("%w: %q (unit %d)", ErrDuplicateInput, in.Name, idx)
				}
			} else {
				order = append(order, in.Name)
			}
			merged[in.Name] = in
			if !seen[in.Name] {
				seen[in.Name] = true
				c.names = append(c.names, in.Name)
			}
		}
		contributions = append(contributions, c)
	}

	for _, c := range contributions {
		if c.caps.Initial == nil {
			continue
		}
		for name, value := range c.caps.Initial() {
			initial[name] = value
		}
	}
	for name, value := range cfg.Initial {
		initial[name] = value
	}
	cfg.Initial = initial

	for _, c := range contributions {
		if c.caps.Cleaners == nil {
			continue
		}
		cleaners = append(cleaners, c.caps.Cleaners()...)
	}

	inputs := make([]form.Input, len(order))
	for i, name := range order {
		inputs[i] = merged[name]
	}
	f := form.New(base, inputs, cleaners, cfg)

	return &Result{Form: f, Index: newIndex(f, contributions, merged)}, nil
}

// Entry lists the live inputs owned by one unit. Position is the unit's
// index in the assembled sequence.
type Entry struct {
	Position int
	Unit     field.Unit
	Inputs   []*form.BoundInput
}

// Index maps each field producing unit to its live inputs. Inputs declared by
// the base form and produced by no unit are available through Other.
type Index struct {
	entries []Entry
	other   []*form.BoundInput
}

func newIndex(f *form.Form, contributions []contribution, produced map[string]form.Input) *Index {
	ix := &Index{entries: make([]Entry, 0, len(contributions))}
	for _, c := range contributions {
		entry := Entry{Position: c.position, Unit: c.unit}
		for _, name := range c.names {
			if in, ok := f.Input(name); ok {
				entry.Inputs = append(entry.Inputs, in)
			}
		}
		ix.entries = append(ix.entries, entry)
	}
	for _, in := range f.Inputs() {
		if _, ok := produced[in.Name()]; !ok {
			ix.other = append(ix.other, in)
		}
	}
	return ix
}

// For returns the inputs produced by unit. Units are matched by identity,
// so they should be pointers; a unit of a non-comparable value type never
// matches and its inputs are reached through At instead.
func (ix *Index) For(unit field.Unit) []*form.BoundInput {
	if ix == nil {
		return nil
	}
	for _, entry := range ix.entries {
		if sameUnit(entry.Unit, unit) {
			return append([]*form.BoundInput(nil), entry.Inputs...)
		}
	}
	return nil
}

// At returns the inputs produced by the unit at position in the assembled
// sequence.
func (ix *Index) At(position int) []*form.BoundInput {
	if ix == nil {
		return nil
	}
	for _, entry := range ix.entries {
		if entry.Position == position {
			return append([]*form.BoundInput(nil), entry.Inputs...)
		}
	}
	return nil
}

// Other returns the inputs no unit produced.
func (ix *Index) Other() []*form.BoundInput {
	if ix == nil {
		return nil
	}
	return append([]*form.BoundInput(nil), ix.other...)
}

// Units returns the field producing units in sequence order.
func (ix *Index) Units() []field.Unit {
	if ix == nil {
		return nil
	}
	out := make([]field.Unit, len(ix.entries))
	for i, entry := range ix.entries {
		out[i] = entry.Unit
	}
	return out
}

// Entries returns every unit with its inputs in sequence order.
func (ix *Index) Entries() []Entry {
	if ix == nil {
		return nil
	}
	out := make([]Entry, len(ix.entries))
	for i, entry := range ix.entries {
		out[i] = Entry{Position: entry.Position, Unit: entry.Unit, Inputs: append([]*form.BoundInput(nil), entry.Inputs...)}
	}
	return out
}

func sameUnit(a, b field.Unit) bool {
	if a == nil || b == nil {
		return false
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}
	return a == b
}

const shortPrefixLength = 6

// ShortPrefix derives a short stable form prefix from identifying parts,
// for example a form's kind, primary key and region.
func ShortPrefix(parts ...string) string {
	sum := sha1.Sum([]byte(strings.Join(parts, ":")))
	return hex.EncodeToString(sum[:])[:shortPrefixLength]
}
