package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	formstate "github.com/goliatone/go-formstate"
	"github.com/goliatone/go-formstate/pkg/renderers/tui"
	"github.com/goliatone/go-formstate/pkg/submission"
)

var (
	errorColor = color.New(color.FgRed, color.Bold)
	pathColor  = color.New(color.FgYellow)
)

func (a *app) fillCmd() *cobra.Command {
	var confirm bool
	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Fill a form interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := a.newSession(cmd.Context(), cmd.OutOrStdout())
			if err != nil {
				return err
			}
			renderer := tui.New(
				tui.WithPromptDriver(tui.NewSurveyDriver(os.Stderr)),
				tui.WithTheme(tui.Theme{ErrorPrefix: errorColor.Sprint("✗ ")}),
				tui.WithConfirmSubmit(confirm),
			)
			result, err := renderer.Fill(cmd.Context(), sess)
			if err != nil {
				return err
			}
			return report(cmd.ErrOrStderr(), result)
		},
	}
	cmd.Flags().BoolVar(&confirm, "confirm", false, "Ask before submitting")
	return cmd
}

func (a *app) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [values.json]",
		Short: "Validate a values document and print the payload",
		Long: `Validate a JSON values document against the schema. Collector fields take
their natural shapes: a list of tags, the code as one string and date ranges
as {"from": "YYYY-MM-DD", "to": "YYYY-MM-DD"}. Reads stdin when no file or "-"
is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := readValues(cmd.InOrStdin(), args)
			if err != nil {
				return &ExitError{Code: ExitInvalidArguments, Err: err}
			}
			sess, err := a.newSession(cmd.Context(), cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if err := sess.Load(values); err != nil {
				return &ExitError{Code: ExitInvalidArguments, Err: err}
			}
			return report(cmd.ErrOrStderr(), sess.Submit(cmd.Context()))
		},
	}
}

func (a *app) schemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the resolved schema as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.loadSchema(cmd.Context())
			if err != nil {
				return &ExitError{Code: ExitInvalidArguments, Err: err}
			}
			data, err := s.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func (a *app) formsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "forms",
		Short: "List bundled forms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range formstate.BuiltinForms() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func readValues(stdin io.Reader, args []string) (map[string]any, error) {
	var data []byte
	var err error
	if len(args) == 0 || args[0] == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return nil, err
	}
	values := map[string]any{}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("decode values: %w", err)
	}
	return values, nil
}

// report prints rejected errors and maps the outcome to an exit error.
func report(w io.Writer, result formstate.Result) error {
	if result.Outcome == submission.Rejected {
		for _, path := range result.Errors.Paths() {
			fmt.Fprintf(w, "%s %s\n", pathColor.Sprint(path+":"), result.Errors.Get(path))
		}
		return &ExitError{Code: ExitValidationFailed, Err: fmt.Errorf("%d field(s) failed validation", len(result.Errors))}
	}
	if result.SubmitErr != nil {
		return result.SubmitErr
	}
	return nil
}
