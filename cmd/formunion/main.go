package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-formunion"
	"github.com/goliatone/go-formunion/pkg/field"
	"github.com/goliatone/go-formunion/pkg/form"
	"github.com/goliatone/go-formunion/pkg/formtype"
	"github.com/goliatone/go-formunion/pkg/openapi"
	"github.com/goliatone/go-formunion/pkg/prompt"
	"github.com/goliatone/go-formunion/pkg/reporting"
	"github.com/goliatone/go-formunion/pkg/submissions"
)

type options struct {
	units    string
	types    string
	bases    string
	typeKey  string
	database string
	format   string
	output   string
}

func main() {
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	command, args := flag.Arg(0), flag.Args()[1:]
	opts, err := parseOptions(command, args)
	if err != nil {
		log.Fatalf("%s: %v", command, err)
	}

	ctx := context.Background()
	switch command {
	case "validate":
		err = runValidate(ctx, opts)
	case "fill":
		err = runFill(ctx, opts)
	case "report":
		err = runReport(ctx, opts)
	case "schema":
		err = runSchema(ctx, opts)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("%s: %v", command, err)
	}
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "Usage: %s <validate|fill|report|schema> [flags]\n", filepath.Base(os.Args[0]))
	fmt.Fprintf(out, "\nAssemble, check and report forms built from field unit definitions.\n")
}

func parseOptions(command string, args []string) (options, error) {
	var opts options
	set := flag.NewFlagSet(command, flag.ContinueOnError)
	set.StringVar(&opts.units, "units", "units", "directory of unit definition files")
	set.StringVar(&opts.types, "types", "", "directory of form type files (optional)")
	set.StringVar(&opts.bases, "bases", "", "OpenAPI document providing base forms (optional)")
	set.StringVar(&opts.typeKey, "type", "default", "form type key")
	set.StringVar(&opts.database, "db", "submissions.db", "submission database path")
	set.StringVar(&opts.format, "format", "html", "report format: html or csv")
	set.StringVar(&opts.output, "output", "", "output file (stdout if empty)")
	if err := set.Parse(args); err != nil {
		return opts, err
	}
	return opts, nil
}

func setup(ctx context.Context, opts options) (*formunion.Service, []field.Unit, error) {
	bases := map[string]form.Base{}
	if opts.bases != "" {
		raw, err := os.ReadFile(opts.bases)
		if err != nil {
			return nil, nil, fmt.Errorf("read bases: %w", err)
		}
		if bases, err = openapi.LoadBases(ctx, raw); err != nil {
			return nil, nil, err
		}
	}

	types := formtype.NewRegistry()
	if opts.types != "" {
		loaded, err := formtype.LoadFS(os.DirFS(opts.types), bases)
		if err != nil {
			return nil, nil, err
		}
		types = loaded
	}
	if _, err := types.Get(opts.typeKey); err != nil {
		// Without a configured type the key still selects a base by name.
		if err := types.Register(formtype.Type{Key: opts.typeKey, Base: bases[opts.typeKey]}); err != nil {
			return nil, nil, err
		}
	}

	svc, err := formunion.New(formunion.WithFormTypes(types))
	if err != nil {
		return nil, nil, err
	}
	built, err := svc.LoadUnits(os.DirFS(opts.units))
	if err != nil {
		return nil, nil, err
	}
	return svc, built, nil
}

func runValidate(ctx context.Context, opts options) error {
	svc, built, err := setup(ctx, opts)
	if err != nil {
		return err
	}
	messages, err := svc.Check(opts.typeKey, built)
	if err != nil {
		return err
	}

	failed := false
	for _, msg := range messages {
		fmt.Fprintf(os.Stderr, "%s: %s\n", msg.Level, msg.Text)
		failed = failed || msg.IsError()
	}
	if failed {
		os.Exit(1)
	}
	fmt.Printf("%s: %d units, %d messages\n", opts.typeKey, len(built), len(messages))
	return nil
}

func runFill(ctx context.Context, opts options) error {
	svc, built, err := setup(ctx, opts)
	if err != nil {
		return err
	}
	unbound, err := svc.Assemble(opts.typeKey, built, form.Config{})
	if err != nil {
		return err
	}

	data, err := prompt.Fill(ctx, prompt.NewSurveyDriver(os.Stdout), unbound.Form)
	if err != nil {
		return err
	}

	bound, err := svc.Assemble(opts.typeKey, built, form.Config{Data: data})
	if err != nil {
		return err
	}
	if !bound.Form.IsValid() {
		for name, messages := range bound.Form.Errors() {
			fmt.Fprintf(os.Stderr, "%s: %s\n", name, strings.Join(messages, " "))
		}
		os.Exit(1)
	}

	conn, err := submissions.New(opts.database)
	if err != nil {
		return err
	}
	defer conn.Close()

	sub, err := conn.Record(opts.typeKey, bound.Form.CleanedData())
	if err != nil {
		return err
	}
	fmt.Printf("Submission %d stored in %s\n", sub.ID, opts.database)
	return nil
}

func runReport(ctx context.Context, opts options) error {
	svc, built, err := setup(ctx, opts)
	if err != nil {
		return err
	}
	conn, err := submissions.New(opts.database)
	if err != nil {
		return err
	}
	defer conn.Close()

	subs, err := conn.ForForm(opts.typeKey)
	if err != nil {
		return err
	}

	out := os.Stdout
	if opts.output != "" {
		file, err := os.Create(opts.output)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer file.Close()
		out = file
	}

	if opts.format == "csv" {
		table := reporting.NewSubmissionCSV(out)
		for _, sub := range subs {
			data, err := sub.Data()
			if err != nil {
				return err
			}
			if err := table.Write(sub.ID, reporting.Rows(built, data)); err != nil {
				return err
			}
		}
		return table.Flush()
	}

	for _, sub := range subs {
		data, err := sub.Data()
		if err != nil {
			return err
		}
		html, err := svc.Report(built, data)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "<!-- submission %d, %s -->\n%s\n", sub.ID, sub.Created.Format("2006-01-02 15:04"), html)
	}
	return nil
}

func runSchema(ctx context.Context, opts options) error {
	svc, built, err := setup(ctx, opts)
	if err != nil {
		return err
	}
	result, err := svc.Assemble(opts.typeKey, built, form.Config{})
	if err != nil {
		return err
	}

	doc := openapi.Document(opts.typeKey, "1.0.0", map[string]*openapi.Schema{
		opts.typeKey: openapi.FromForm(result.Form),
	})
	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode schema: %w", err)
	}

	if opts.output != "" {
		if err := os.WriteFile(opts.output, payload, 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Printf("Schema written to %s\n", opts.output)
		return nil
	}
	fmt.Println(string(payload))
	return nil
}
