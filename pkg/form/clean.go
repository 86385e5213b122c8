package form

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-formunion/internal/checks"
	"github.com/goliatone/go-formunion/pkg/choices"
)

// DateLayout is the submitted format of date inputs.
const DateLayout = "2006-01-02"

func (b *BoundInput) clean() (any, error) {
	value, err := b.convert()
	if err != nil {
		return nil, err
	}
	for _, validate := range b.spec.Validators {
		if validate == nil {
			continue
		}
		if err := validate(value); err != nil {
			return nil, err
		}
	}
	return value, nil
}

func (b *BoundInput) convert() (any, error) {
	raw := b.form.data[b.HTMLName()]
	spec := b.spec

	if spec.Kind == KindMultipleChoice {
		values := make([]string, 0, len(raw))
		for _, value := range raw {
			if value = strings.TrimSpace(value); value != "" {
				values = append(values, value)
			}
		}
		if len(values) == 0 {
			if spec.Required {
				return nil, errors.New(MsgRequired)
			}
			return []string{}, nil
		}
		for _, value := range values {
			if !choices.Contains(spec.Choices, value) {
				return nil, fmt.Errorf(MsgInvalidChoice, value)
			}
		}
		return values, nil
	}

	value := ""
	if len(raw) > 0 {
		value = strings.TrimSpace(raw[0])
	}

	if spec.Kind == KindBoolean {
		checked := parseBool(value)
		if spec.Required && !checked {
			return nil, errors.New(MsgRequired)
		}
		return checked, nil
	}

	if value == "" {
		if spec.Required {
			return nil, errors.New(MsgRequired)
		}
		switch spec.Kind {
		case KindDate, KindInteger:
			return nil, nil
		default:
			return "", nil
		}
	}

	switch spec.Kind {
	case KindEmail:
		if !checks.Email(value) {
			return nil, errors.New(MsgInvalidEmail)
		}
		return value, nil
	case KindURL:
		if !checks.URL(value) {
			return nil, errors.New(MsgInvalidURL)
		}
		return value, nil
	case KindDate:
		parsed, err := time.Parse(DateLayout, value)
		if err != nil {
			return nil, errors.New(MsgInvalidDate)
		}
		return parsed, nil
	case KindInteger:
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, errors.New(MsgInvalidInteger)
		}
		return parsed, nil
	case KindChoice:
		if !choices.Contains(spec.Choices, value) {
			return nil, fmt.Errorf(MsgInvalidChoice, value)
		}
		return value, nil
	default:
		return value, nil
	}
}

func parseBool(value string) bool {
	switch strings.ToLower(value) {
	case "", "0", "false", "off", "no":
		return false
	default:
		return true
	}
}
