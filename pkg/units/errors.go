package units

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/goliatone/go-formunion/internal/checks"
)

var (
	// ErrUnknownKind is returned when a type tag has no registered kind.
	ErrUnknownKind = errors.New("units: unknown kind")
	// ErrDuplicateKind is returned when a type tag is registered twice.
	ErrDuplicateKind = errors.New("units: kind already registered")
)

// ConfigError reports a misconfigured unit attribute.
type ConfigError struct {
	Unit      string
	Attribute string
	Message   string
}

func (e *ConfigError) Error() string {
	if e.Attribute == "" {
		return fmt.Sprintf("units: %s: %s", e.Unit, e.Message)
	}
	return fmt.Sprintf("units: %s: %s: %s", e.Unit, e.Attribute, e.Message)
}

// configError converts validator failures into a ConfigError attributed to
// the first offending attribute. Other errors are returned unchanged.
func configError(unit string, err error) error {
	if err == nil {
		return nil
	}
	var failures validator.ValidationErrors
	if !errors.As(err, &failures) || len(failures) == 0 {
		return err
	}
	first := failures[0]
	return &ConfigError{Unit: unit, Attribute: first.Field(), Message: ruleMessage(first)}
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
	case checks.UnitNameTag:
		return "Enter a valid name consisting of lowercase letters, numbers or underscores."
	default:
		return fmt.Sprintf("Failed the %q rule.", fe.Tag())
	}
}
