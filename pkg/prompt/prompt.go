// Package prompt fills an assembled form from a terminal. Answers are
// checked with the same per-input cleaning the form applies and collected
// as submission data the host binds to a fresh form.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-formunion/pkg/choices"
	"github.com/goliatone/go-formunion/pkg/form"
)

// Fill asks driver for a value for every visible input of f. The returned
// data is keyed by prefixed input name, ready for form.Config.Data. Hidden
// inputs are never asked for.
func Fill(ctx context.Context, driver Driver, f *form.Form) (map[string][]string, error) {
	if ctx == nil {
		return nil, errors.New("prompt: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if driver == nil {
		return nil, errors.New("prompt: driver is nil")
	}
	if f == nil {
		return nil, errors.New("prompt: form is nil")
	}

	data := make(map[string][]string)
	for _, in := range f.Inputs() {
		spec := in.Spec()
		if spec.ResolvedWidget() == form.WidgetHidden {
			continue
		}
		initial, _ := f.Initial(spec.Name)
		answer, err := ask(ctx, driver, spec, initial)
		if err != nil {
			return nil, fmt.Errorf("prompt: %s: %w", spec.Name, err)
		}
		if len(answer) > 0 {
			data[in.HTMLName()] = answer
		}
	}
	return data, nil
}

func ask(ctx context.Context, driver Driver, spec form.Input, initial any) ([]string, error) {
	for {
		answer, err := askOnce(ctx, driver, spec, initial)
		if err != nil {
			return nil, err
		}
		problems := check(spec, answer)
		if len(problems) == 0 {
			return answer, nil
		}
		for _, problem := range problems {
			if err := driver.Info(ctx, fmt.Sprintf("Invalid %s: %s", spec.ResolvedLabel(), problem)); err != nil {
				return nil, err
			}
		}
	}
}

func askOnce(ctx context.Context, driver Driver, spec form.Input, initial any) ([]string, error) {
	label := spec.ResolvedLabel()

	switch spec.Kind {
	case form.KindBoolean:
		checked, _ := initial.(bool)
		yes, err := driver.Confirm(ctx, ConfirmConfig{Message: label, Default: checked, Help: spec.HelpText})
		if err != nil || !yes {
			return nil, err
		}
		return []string{"on"}, nil

	case form.KindChoice:
		options := choiceLabels(spec.Choices)
		current, _ := initial.(string)
		idx, err := driver.Select(ctx, SelectConfig{
			Message:      label,
			Options:      options,
			DefaultIndex: choiceIndex(spec.Choices, current),
			Help:         spec.HelpText,
		})
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= len(spec.Choices) {
			return nil, nil
		}
		return []string{spec.Choices[idx].Value}, nil

	case form.KindMultipleChoice:
		var defaults []int
		for _, value := range stringList(initial) {
			if idx := choiceIndex(spec.Choices, value); idx >= 0 {
				defaults = append(defaults, idx)
			}
		}
		indices, err := driver.MultiSelect(ctx, SelectConfig{
			Message:  label,
			Options:  choiceLabels(spec.Choices),
			Defaults: defaults,
			Help:     spec.HelpText,
		})
		if err != nil {
			return nil, err
		}
		var out []string
		for _, idx := range indices {
			if idx >= 0 && idx < len(spec.Choices) {
				out = append(out, spec.Choices[idx].Value)
			}
		}
		return out, nil
	}

	var (
		text string
		err  error
	)
	if spec.ResolvedWidget() == form.WidgetTextarea {
		text, err = driver.TextArea(ctx, TextAreaConfig{Message: label, Default: defaultText(initial), Help: spec.HelpText})
	} else {
		text, err = driver.Input(ctx, InputConfig{Message: label, Default: defaultText(initial), Help: spec.HelpText})
	}
	if err != nil || text == "" {
		return nil, err
	}
	return []string{text}, nil
}

// check binds answer to a single input form and returns its errors.
func check(spec form.Input, answer []string) []string {
	data := map[string][]string{}
	if len(answer) > 0 {
		data[spec.Name] = answer
	}
	single := form.New(form.Base{}, []form.Input{spec}, nil, form.Config{Data: data})
	in, ok := single.Input(spec.Name)
	if !ok {
		return nil
	}
	return in.Errors()
}

// choiceLabels returns the option labels, adding the value to labels that
// appear more than once.
func choiceLabels(list []choices.Choice) []string {
	counts := make(map[string]int, len(list))
	for _, choice := range list {
		counts[choice.Label]++
	}
	out := make([]string, len(list))
	for i, choice := range list {
		out[i] = choice.Label
		if counts[choice.Label] > 1 && choice.Value != choice.Label {
			out[i] = fmt.Sprintf("%s (%s)", choice.Label, choice.Value)
		}
	}
	return out
}

func choiceIndex(list []choices.Choice, value string) int {
	for i, choice := range list {
		if choice.Value == value {
			return i
		}
	}
	return -1
}

func stringList(value any) []string {
	switch v := value.(type) {
	case []string:
		return v
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	default:
		return nil
	}
}

func defaultText(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case time.Time:
		return v.Format(form.DateLayout)
	default:
		return fmt.Sprint(v)
	}
}
