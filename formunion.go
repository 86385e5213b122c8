// Package formunion assembles forms out of ordered field units. The Service
// wires the kind registry, the form types, the assembler and the reporter
// behind one constructor; the packages under pkg/ remain usable on their own.
package formunion

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/goliatone/go-formunion/pkg/assembler"
	"github.com/goliatone/go-formunion/pkg/field"
	"github.com/goliatone/go-formunion/pkg/form"
	"github.com/goliatone/go-formunion/pkg/formtype"
	"github.com/goliatone/go-formunion/pkg/reporting"
	"github.com/goliatone/go-formunion/pkg/units"
	"github.com/goliatone/go-formunion/pkg/validation"
)

// Option customises the Service configuration.
type Option func(*Service)

// WithRegistry replaces the built-in unit kind registry.
func WithRegistry(registry *units.Registry) Option {
	return func(s *Service) {
		s.registry = registry
	}
}

// WithFormTypes supplies the known form types.
func WithFormTypes(types *formtype.Registry) Option {
	return func(s *Service) {
		s.types = types
	}
}

// WithAssembler injects a configured assembler, e.g. one built with
// assembler.WithStrictNames.
func WithAssembler(a *assembler.Assembler) Option {
	return func(s *Service) {
		s.assembler = a
	}
}

// WithReporter injects a reporter with a custom template or placeholder.
func WithReporter(r *reporting.Reporter) Option {
	return func(s *Service) {
		s.reporter = r
	}
}

// Service coordinates the pipeline from unit definitions to assembled forms,
// configuration checks and reports.
type Service struct {
	registry  *units.Registry
	types     *formtype.Registry
	assembler *assembler.Assembler
	reporter  *reporting.Reporter
}

// New constructs a Service. Missing dependencies are initialised with the
// built-in implementations; the form type registry starts empty.
func New(options ...Option) (*Service, error) {
	s := &Service{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.registry == nil {
		s.registry = units.NewRegistry()
	}
	if s.types == nil {
		s.types = formtype.NewRegistry()
	}
	if s.assembler == nil {
		s.assembler = assembler.New()
	}
	if s.reporter == nil {
		reporter, err := reporting.NewReporter()
		if err != nil {
			return nil, fmt.Errorf("formunion: reporter: %w", err)
		}
		s.reporter = reporter
	}
	return s, nil
}

// Registry returns the unit kind registry.
func (s *Service) Registry() *units.Registry { return s.registry }

// FormTypes returns the form type registry.
func (s *Service) FormTypes() *formtype.Registry { return s.types }

// Build constructs units from definitions in order.
func (s *Service) Build(defs []units.Definition) ([]field.Unit, error) {
	return s.registry.Build(defs)
}

// LoadUnits reads unit definitions from fsys and builds them.
func (s *Service) LoadUnits(fsys fs.FS) ([]field.Unit, error) {
	defs, err := units.LoadFS(fsys)
	if err != nil {
		return nil, err
	}
	return s.Build(defs)
}

// Assemble builds a form of the given type from units.
func (s *Service) Assemble(typeKey string, unitList []field.Unit, cfg form.Config) (*assembler.Result, error) {
	t, err := s.types.Get(typeKey)
	if err != nil {
		return nil, err
	}
	return s.assembler.Assemble(unitList, t.Base, cfg)
}

// Check validates unitList against the expectations of the given type.
func (s *Service) Check(typeKey string, unitList []field.Unit) ([]validation.Message, error) {
	t, err := s.types.Get(typeKey)
	if err != nil {
		return nil, err
	}
	return t.Check(unitList), nil
}

// Report renders the rows of unitList for data as HTML.
func (s *Service) Report(unitList []field.Unit, data map[string]any) (string, error) {
	if s.reporter == nil {
		return "", errors.New("formunion: reporter is nil")
	}
	return s.reporter.HTML(reporting.Rows(unitList, data))
}
