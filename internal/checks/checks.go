// Package checks wraps a shared go-playground validator instance used for
// unit configuration structs and for format checks on submitted values.
package checks

import (
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// UnitNameTag is the struct tag rule restricting unit names to lowercase
// letters, digits and underscores.
const UnitNameTag = "unitname"

// SlugTag is the struct tag rule for keys such as form type keys: lowercase
// letters and digits, with hyphens or underscores after the first character.
const SlugTag = "slug"

var (
	unitNamePattern = regexp.MustCompile(`^[a-z0-9_]+$`)
	slugPattern     = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)
)

var (
	once     sync.Once
	instance *validator.Validate
)

// Validator returns the process-wide validator with the custom rules
// registered. Field names reported in errors follow the yaml tag.
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
		_ = v.RegisterValidation(UnitNameTag, func(fl validator.FieldLevel) bool {
			return UnitName(fl.Field().String())
		})
		_ = v.RegisterValidation(SlugTag, func(fl validator.FieldLevel) bool {
			return Slug(fl.Field().String())
		})
		instance = v
	})
	return instance
}

// Struct validates v against its `validate` tags.
func Struct(v any) error {
	return Validator().Struct(v)
}

// UnitName reports whether name only uses the characters allowed for unit
// names. Empty names are rejected.
func UnitName(name string) bool {
	return unitNamePattern.MatchString(name)
}

// Slug reports whether key is a valid slug key. Empty keys are rejected.
func Slug(key string) bool {
	return slugPattern.MatchString(key)
}

// Email reports whether value is a syntactically valid email address.
func Email(value string) bool {
	return Validator().Var(value, "required,email") == nil
}

// URL reports whether value is an absolute URL.
func URL(value string) bool {
	return Validator().Var(value, "required,url") == nil
}
