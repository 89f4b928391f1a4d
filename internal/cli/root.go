// Package cli provides the cobra commands of the formstate tool: filling a
// form from the terminal, checking a values document against a schema and
// printing schemas.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"github.com/spf13/cobra"

	formstate "github.com/goliatone/go-formstate"
	"github.com/goliatone/go-formstate/internal/config"
	"github.com/goliatone/go-formstate/pkg/schema"
	"github.com/goliatone/go-formstate/pkg/submission"
)

// flagKeys maps persistent flags to configuration keys.
var flagKeys = map[string]string{
	"schema":          "schema",
	"component":       "component",
	"output":          "output",
	"inactive-policy": "inactive_policy",
	"tag-trim":        "tag_trim",
	"tag-dedupe":      "tag_dedupe",
	"strip-markup":    "strip_markup",
	"log-level":       "log_level",
}

type app struct {
	cfg    *config.Configuration
	logger *slog.Logger
}

// NewRootCmd builds the formstate command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "formstate",
		Short: "Dynamic form state and validation",
		Long: `formstate validates form values against a declarative schema.

Schemas are bundled forms (see "formstate forms"), YAML/JSON form documents or
OpenAPI components (with --component).`,
		Example: `  # Fill the registration form interactively
  formstate fill

  # Check a values document and print the payload
  formstate check values.json --schema support --output pretty

  # Print a schema as YAML
  formstate schema --schema forms/contact.yaml`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.configure(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringP("config", "c", "", "Path to a JSON config file")
	flags.StringP("schema", "s", "registration", "Bundled form name or schema file")
	flags.String("component", "", "OpenAPI component to import from the schema file")
	flags.StringP("output", "o", "json", "Payload format: json, pretty or form")
	flags.String("inactive-policy", "retain", "Inactive group values: retain or clear")
	flags.Bool("tag-trim", false, "Trim tags before accepting them")
	flags.Bool("tag-dedupe", false, "Reject duplicate tags")
	flags.Bool("strip-markup", false, "Strip HTML from submitted text")
	flags.String("log-level", "warn", "Log level: debug, info, warn or error")

	root.AddCommand(a.fillCmd(), a.checkCmd(), a.schemaCmd(), a.formsCmd())
	return root
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	err := NewRootCmd().ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, errorColor.Sprint("error: ")+err.Error())
	}
	return err
}

func (a *app) configure(cmd *cobra.Command) error {
	overrides := make(map[string]any)
	for flag, key := range flagKeys {
		f := cmd.Flags().Lookup(flag)
		if f == nil || !f.Changed {
			continue
		}
		switch f.Value.Type() {
		case "bool":
			v, _ := cmd.Flags().GetBool(flag)
			overrides[key] = v
		default:
			overrides[key] = f.Value.String()
		}
	}
	path, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(path, overrides)
	if err != nil {
		return &ExitError{Code: ExitInvalidArguments, Err: err}
	}
	a.cfg = cfg
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.Level()}))
	return nil
}

func (a *app) loadSchema(ctx context.Context) (*schema.Schema, error) {
	name := a.cfg.Schema
	if a.cfg.Component != "" {
		data, err := os.ReadFile(name)
		if err != nil {
			return nil, err
		}
		return schema.FromOpenAPI(ctx, data, a.cfg.Component)
	}
	if slices.Contains(formstate.BuiltinForms(), name) {
		return formstate.Builtin(name)
	}
	return schema.LoadFile(name)
}

func (a *app) newSession(ctx context.Context, out io.Writer, opts ...formstate.Option) (*formstate.Session, error) {
	s, err := a.loadSchema(ctx)
	if err != nil {
		return nil, &ExitError{Code: ExitInvalidArguments, Err: err}
	}
	base := []formstate.Option{
		formstate.WithLogger(a.logger),
		formstate.WithSubmitter(a.submitter(out)),
		formstate.WithInactivePolicy(a.cfg.Policy()),
		formstate.WithTagPolicy(a.cfg.TagPolicy()),
	}
	if a.cfg.StripMarkup {
		base = append(base, formstate.WithTransformers(submission.StripMarkup()))
	}
	return formstate.NewSession(s, append(base, opts...)...)
}

func (a *app) submitter(out io.Writer) submission.Submitter {
	switch a.cfg.Output {
	case "pretty":
		return submission.PrettySubmitter{W: out}
	case "form":
		return submission.FormSubmitter{W: out}
	default:
		return submission.JSONSubmitter{W: out}
	}
}
