package reporting

import (
	"embed"
	"encoding/csv"
	"fmt"
	"html"
	"io"
	"io/fs"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formunion/internal/checks"
	"github.com/goliatone/go-formunion/pkg/field"
	"github.com/goliatone/go-formunion/pkg/render/template"
	"github.com/goliatone/go-formunion/pkg/render/template/gotemplate"
)

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

// DefaultTemplate names the embedded report template.
const DefaultTemplate = "report"

// Option customises a Reporter.
type Option func(*Reporter)

// WithRenderer replaces the embedded template engine.
func WithRenderer(renderer template.Renderer) Option {
	return func(r *Reporter) {
		r.renderer = renderer
	}
}

// WithTemplate selects the template rendered by HTML. The template receives
// "rows", a list of maps holding name, label, value and html.
func WithTemplate(name string) Option {
	return func(r *Reporter) {
		if name = strings.TrimSpace(name); name != "" {
			r.template = name
		}
	}
}

// WithPlaceholder overrides DefaultPlaceholder.
func WithPlaceholder(placeholder string) Option {
	return func(r *Reporter) {
		r.placeholder = placeholder
	}
}

// Reporter renders report rows as sanitised HTML.
type Reporter struct {
	renderer    template.Renderer
	template    string
	placeholder string
}

// NewReporter constructs a Reporter. Without WithRenderer the embedded
// templates are used.
func NewReporter(options ...Option) (*Reporter, error) {
	r := &Reporter{template: DefaultTemplate, placeholder: DefaultPlaceholder}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.renderer == nil {
		renderer, err := defaultRenderer()
		if err != nil {
			return nil, err
		}
		r.renderer = renderer
	}
	return r, nil
}

// SimpleReport renders the rows of units for data with the default
// Reporter.
func SimpleReport(units []field.Unit, data map[string]any) (string, error) {
	r, err := NewReporter()
	if err != nil {
		return "", err
	}
	return r.HTML(Rows(units, data))
}

var lineBreaks = regexp.MustCompile(`\s*\n\s*`)

// HTML renders rows. Empty values show the placeholder, email addresses
// become mailto links and the output is collapsed to a single line.
func (r *Reporter) HTML(rows []field.Row) (string, error) {
	items := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		row = ValueDefault(row, r.placeholder)
		value := FormatValue(row.Value)
		items = append(items, map[string]any{
			"name":  row.Name,
			"label": row.Label,
			"value": value,
			"html":  valueHTML(value),
		})
	}

	rendered, err := r.renderer.RenderTemplate(r.template, map[string]any{"rows": items})
	if err != nil {
		return "", fmt.Errorf("reporting: render: %w", err)
	}
	collapsed := strings.TrimSpace(lineBreaks.ReplaceAllString(rendered, " "))
	return strings.TrimSpace(reportSanitizer().Sanitize(collapsed)), nil
}

// WriteCSV writes rows as "name,label,value" records after a header line.
func WriteCSV(w io.Writer, rows []field.Row) error {
	out := csv.NewWriter(w)
	if err := out.Write([]string{"name", "label", "value"}); err != nil {
		return fmt.Errorf("reporting: write csv header: %w", err)
	}
	if err := writeRows(out, nil, rows); err != nil {
		return err
	}
	return flushCSV(out)
}

// SubmissionCSV streams the rows of several submissions into one CSV
// document. Every record starts with the submission ID; the header is
// written once.
type SubmissionCSV struct {
	out    *csv.Writer
	header bool
}

// NewSubmissionCSV returns a SubmissionCSV writing to w.
func NewSubmissionCSV(w io.Writer) *SubmissionCSV {
	return &SubmissionCSV{out: csv.NewWriter(w)}
}

// Write appends the rows of submission id.
func (s *SubmissionCSV) Write(id int64, rows []field.Row) error {
	if err := s.writeHeader(); err != nil {
		return err
	}
	return writeRows(s.out, []string{strconv.FormatInt(id, 10)}, rows)
}

// Flush writes buffered records. A document without submissions still
// carries the header.
func (s *SubmissionCSV) Flush() error {
	if err := s.writeHeader(); err != nil {
		return err
	}
	return flushCSV(s.out)
}

func (s *SubmissionCSV) writeHeader() error {
	if s.header {
		return nil
	}
	if err := s.out.Write([]string{"submission", "name", "label", "value"}); err != nil {
		return fmt.Errorf("reporting: write csv header: %w", err)
	}
	s.header = true
	return nil
}

func writeRows(out *csv.Writer, lead []string, rows []field.Row) error {
	for _, row := range rows {
		record := append(append([]string(nil), lead...), row.Name, row.Label, FormatValue(row.Value))
		if err := out.Write(record); err != nil {
			return fmt.Errorf("reporting: write csv row %q: %w", row.Name, err)
		}
	}
	return nil
}

func flushCSV(out *csv.Writer) error {
	out.Flush()
	if err := out.Error(); err != nil {
		return fmt.Errorf("reporting: flush csv: %w", err)
	}
	return nil
}

func valueHTML(value string) string {
	escaped := html.EscapeString(value)
	switch {
	case checks.Email(value):
		return fmt.Sprintf(`<a href="mailto:%s">%s</a>`, escaped, escaped)
	case isWebURL(value):
		return fmt.Sprintf(`<a href="%s">%s</a>`, escaped, escaped)
	default:
		return strings.ReplaceAll(escaped, "\n", "<br>")
	}
}

func isWebURL(value string) bool {
	return (strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://")) && checks.URL(value)
}

var (
	rendererOnce sync.Once
	renderer     *gotemplate.Engine
	rendererErr  error

	reportPolicyOnce sync.Once
	reportPolicy     *bluemonday.Policy
)

func defaultRenderer() (*gotemplate.Engine, error) {
	rendererOnce.Do(func() {
		files, err := fs.Sub(embeddedTemplates, "templates")
		if err != nil {
			rendererErr = fmt.Errorf("reporting: templates: %w", err)
			return
		}
		renderer, rendererErr = gotemplate.New(gotemplate.WithFS(files))
	})
	return renderer, rendererErr
}

func reportSanitizer() *bluemonday.Policy {
	reportPolicyOnce.Do(func() {
		policy := bluemonday.NewPolicy()
		policy.AllowElements("p", "strong", "br")
		policy.AllowAttrs("href").OnElements("a")
		policy.AllowURLSchemes("mailto", "http", "https")
		policy.RequireParseableURLs(true)
		reportPolicy = policy
	})
	return reportPolicy
}
