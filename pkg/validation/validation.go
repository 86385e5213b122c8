// Package validation checks the configuration of a form, as opposed to a
// particular submission. Every check is a pure function over unit metadata
// and returns advisory messages as data. Callers decide the message order by
// the order in which they invoke the checks.
package validation

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/goliatone/go-formunion/pkg/field"
)

// Level grades a message.
type Level string

const (
	// LevelWarning marks something notable that is probably fine.
	LevelWarning Level = "warning"
	// LevelError marks a violated configuration contract.
	LevelError Level = "error"
)

// Message is an advisory configuration message. Messages compare by value.
type Message struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
}

// Warning builds a warning message.
func Warning(text string) Message { return Message{Level: LevelWarning, Text: text} }

// Error builds an error message.
func Error(text string) Message { return Message{Level: LevelError, Text: text} }

// String returns the message text.
func (m Message) String() string { return m.Text }

// GoString renders the message as the constructor call producing it.
func (m Message) GoString() string {
	ctor := "Warning"
	if m.Level == LevelError {
		ctor = "Error"
	}
	return fmt.Sprintf("validation.%s(%q)", ctor, m.Text)
}

// IsError reports whether the message is an error.
func (m Message) IsError() bool { return m.Level == LevelError }

// FieldInfo describes the configuration of one field unit.
type FieldInfo struct {
	Name       string           `json:"name"`
	Attributes field.Attributes `json:"attributes,omitempty"`
}

// ValidateUniqueness warns once about every name used more than once.
func ValidateUniqueness(fields []FieldInfo) []Message {
	counts := make(map[string]int, len(fields))
	for _, f := range fields {
		counts[f.Name]++
	}

	var repeated []string
	for name, count := range counts {
		if count > 1 {
			repeated = append(repeated, name)
		}
	}
	if len(repeated) == 0 {
		return nil
	}
	sort.Strings(repeated)

	parts := make([]string, len(repeated))
	for i, name := range repeated {
		parts[i] = fmt.Sprintf("'%s' (%d)", name, counts[name])
	}
	return []Message{Warning(fmt.Sprintf("Fields exist more than once: %s.", strings.Join(parts, ", ")))}
}

// ValidateRequiredFields reports every required name missing from fields in
// a single error.
func ValidateRequiredFields(fields []FieldInfo, required []string) []Message {
	present := make(map[string]bool, len(fields))
	for _, f := range fields {
		present[f.Name] = true
	}

	missing := make(map[string]bool)
	for _, name := range required {
		if !present[name] {
			missing[name] = true
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return []Message{Error(fmt.Sprintf("Required fields are missing: %s.", quoteList(missing)))}
}

// ValidateFields compares fields against schema, a mapping of field name to
// expected attribute values. Absent fields produce a warning and every
// mismatching attribute produces an error. When a name is used more than
// once the last field wins.
func ValidateFields(fields []FieldInfo, schema map[string]field.Attributes) []Message {
	byName := make(map[string]field.Attributes, len(fields))
	for _, f := range fields {
		byName[f.Name] = f.Attributes
	}

	var messages []Message
	for _, name := range sortedKeys(schema) {
		attrs, ok := byName[name]
		if !ok {
			messages = append(messages, Warning(fmt.Sprintf("Expected field '%s' doesn't exist.", name)))
			continue
		}
		expected := schema[name]
		for _, attr := range sortedKeys(expected) {
			want := expected[attr]
			if !sameValue(attrs[attr], want) {
				messages = append(messages, Error(fmt.Sprintf(
					"The '%s' attribute of the field '%s' doesn't have the expected value '%v'.",
					attr, name, want,
				)))
			}
		}
	}
	return messages
}

// Union collects one FieldInfo per unit that produces fields and can
// describe itself, in sequence order. Only the requested attributes are
// copied; attributes a unit does not know are reported as "".
func Union(units []field.Unit, attributes ...string) []FieldInfo {
	var out []FieldInfo
	for _, unit := range units {
		if unit == nil || !unit.Capabilities().ProducesFields() {
			continue
		}
		describer, ok := unit.(field.Describer)
		if !ok {
			continue
		}
		desc := describer.Describe()
		name, _ := desc["name"].(string)

		attrs := make(field.Attributes, len(attributes))
		for _, attr := range attributes {
			if value, ok := desc[attr]; ok {
				attrs[attr] = value
			} else {
				attrs[attr] = ""
			}
		}
		out = append(out, FieldInfo{Name: name, Attributes: attrs})
	}
	return out
}

func sameValue(got, want any) bool {
	if reflect.DeepEqual(got, want) {
		return true
	}
	if got == nil || want == nil {
		return false
	}
	return fmt.Sprint(got) == fmt.Sprint(want)
}

func quoteList(set map[string]bool) string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	for i, name := range names {
		names[i] = "'" + name + "'"
	}
	return strings.Join(names, ", ")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
