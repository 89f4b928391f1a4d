package tui

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// TextKind selects how a free text answer is read.
type TextKind int

const (
	// TextLine reads a single line.
	TextLine TextKind = iota
	// TextSecret reads a line without echoing it.
	TextSecret
	// TextMultiline reads until an empty line.
	TextMultiline
)

// TextPrompt asks for one free text answer.
type TextPrompt struct {
	Kind    TextKind
	Message string
	Default string
	Help    string
}

// ConfirmPrompt asks a yes/no question.
type ConfirmPrompt struct {
	Message string
	Default bool
	Help    string
}

// ChoicePrompt lists Options. Choose preselects Selected[0]; Pick
// preselects every index in Selected.
type ChoicePrompt struct {
	Message  string
	Options  []string
	Selected []int
	Help     string
}

// PromptDriver is the terminal surface the renderer talks to. Choose returns
// -1 when the answer matches no option; Pick returns selected indices in
// option order.
type PromptDriver interface {
	Text(ctx context.Context, p TextPrompt) (string, error)
	Confirm(ctx context.Context, p ConfirmPrompt) (bool, error)
	Choose(ctx context.Context, p ChoicePrompt) (int, error)
	Pick(ctx context.Context, p ChoicePrompt) ([]int, error)
	Info(ctx context.Context, msg string) error
}

type surveyDriver struct {
	stdio terminal.Stdio
}

// NewSurveyDriver returns the survey backed driver. Prompts read stdin and
// draw on stdout; Info lines go to info, or stdout when info is nil.
func NewSurveyDriver(info *os.File) PromptDriver {
	if info == nil {
		info = os.Stdout
	}
	return &surveyDriver{stdio: terminal.Stdio{In: os.Stdin, Out: os.Stdout, Err: info}}
}

func (d *surveyDriver) ask(ctx context.Context, prompt survey.Prompt, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := survey.AskOne(prompt, out, survey.WithStdio(d.stdio.In, d.stdio.Out, d.stdio.Err))
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}

func (d *surveyDriver) Text(ctx context.Context, p TextPrompt) (string, error) {
	var prompt survey.Prompt
	switch p.Kind {
	case TextSecret:
		prompt = &survey.Password{Message: p.Message, Help: p.Help}
	case TextMultiline:
		prompt = &survey.Multiline{Message: p.Message, Default: p.Default, Help: p.Help}
	default:
		prompt = &survey.Input{Message: p.Message, Default: p.Default, Help: p.Help}
	}
	var out string
	if err := d.ask(ctx, prompt, &out); err != nil {
		return "", err
	}
	return out, nil
}

func (d *surveyDriver) Confirm(ctx context.Context, p ConfirmPrompt) (bool, error) {
	var out bool
	err := d.ask(ctx, &survey.Confirm{Message: p.Message, Default: p.Default, Help: p.Help}, &out)
	return out, err
}

func (d *surveyDriver) Choose(ctx context.Context, p ChoicePrompt) (int, error) {
	prompt := &survey.Select{Message: p.Message, Options: p.Options, Help: p.Help}
	if picked := optionsAt(p.Options, p.Selected); len(picked) > 0 {
		prompt.Default = picked[0]
	}
	// survey.Select also writes the chosen index into an int target.
	var out int
	if err := d.ask(ctx, prompt, &out); err != nil {
		return -1, err
	}
	return out, nil
}

func (d *surveyDriver) Pick(ctx context.Context, p ChoicePrompt) ([]int, error) {
	prompt := &survey.MultiSelect{Message: p.Message, Options: p.Options, Help: p.Help}
	if picked := optionsAt(p.Options, p.Selected); len(picked) > 0 {
		prompt.Default = picked
	}
	var out []int
	if err := d.ask(ctx, prompt, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (d *surveyDriver) Info(ctx context.Context, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(d.stdio.Err, msg)
	return err
}

func optionsAt(options []string, indices []int) []string {
	var out []string
	for _, idx := range indices {
		if idx >= 0 && idx < len(options) {
			out = append(out, options[idx])
		}
	}
	return out
}

func indexOf(options []string, value string) int {
	for i, option := range options {
		if option == value {
			return i
		}
	}
	return -1
}
