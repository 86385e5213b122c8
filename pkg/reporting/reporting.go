// Package reporting extracts display rows from submitted data using the same
// unit sequence that built the form. It never needs a live form.
package reporting

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-formunion/pkg/field"
	"github.com/goliatone/go-formunion/pkg/form"
)

// DefaultPlaceholder replaces empty values in reports.
const DefaultPlaceholder = "Ø"

// Loaders flattens the loaders of every unit that has any, in unit order.
func Loaders(units []field.Unit) []field.Loader {
	var out []field.Loader
	for _, unit := range units {
		if unit == nil {
			continue
		}
		caps := unit.Capabilities()
		if caps.Loaders == nil {
			continue
		}
		out = append(out, caps.Loaders()...)
	}
	return out
}

// Rows runs every loader of units against data.
func Rows(units []field.Unit, data map[string]any) []field.Row {
	loaders := Loaders(units)
	out := make([]field.Row, 0, len(loaders))
	for _, load := range loaders {
		if load == nil {
			continue
		}
		out = append(out, load(data))
	}
	return out
}

// ValueDefault returns row unchanged when its value is truthy and a copy
// carrying placeholder otherwise. An empty placeholder means
// DefaultPlaceholder.
func ValueDefault(row field.Row, placeholder string) field.Row {
	if Truthy(row.Value) {
		return row
	}
	if placeholder == "" {
		placeholder = DefaultPlaceholder
	}
	row.Value = placeholder
	return row
}

// Truthy reports whether value counts as filled in: nil, false, zero
// numbers, empty strings and empty collections do not.
func Truthy(value any) bool {
	if value == nil {
		return false
	}
	switch v := value.(type) {
	case string:
		return v != ""
	case bool:
		return v
	case time.Time:
		return !v.IsZero()
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array, reflect.String:
		return rv.Len() > 0
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	default:
		return true
	}
}

// FormatValue renders a row value as plain text.
func FormatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		if v.Hour() == 0 && v.Minute() == 0 && v.Second() == 0 && v.Nanosecond() == 0 {
			return v.Format(form.DateLayout)
		}
		return v.Format(time.RFC3339)
	case []string:
		return strings.Join(v, ", ")
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = FormatValue(item)
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(v)
	}
}
