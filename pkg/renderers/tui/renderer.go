package tui

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	formstate "github.com/goliatone/go-formstate"
	"github.com/goliatone/go-formstate/pkg/collectors"
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/schema"
	"github.com/goliatone/go-formstate/pkg/submission"
)

// Renderer fills a form session from a terminal. Fields are prompted in
// schema order; grouped fields are asked only while their group is active and
// every answer is re-prompted until the session reports no error for it.
type Renderer struct {
	driver        PromptDriver
	theme         Theme
	maxAttempts   int
	confirmSubmit bool
}

// New constructs a TUI renderer with defaults (survey driver, five attempts
// per field).
func New(options ...Option) *Renderer {
	r := &Renderer{
		driver:      NewSurveyDriver(nil),
		maxAttempts: 5,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// Fill prompts for every active field of sess and then submits it. Rejected
// submissions list their errors through the driver and are returned without
// error.
func (r *Renderer) Fill(ctx context.Context, sess *formstate.Session) (formstate.Result, error) {
	if ctx == nil {
		return formstate.Result{}, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return formstate.Result{}, err
	}
	if sess == nil {
		return formstate.Result{}, errors.New("tui: session is nil")
	}
	if r.driver == nil {
		return formstate.Result{}, errors.New("tui: prompt driver is nil")
	}

	if title := sess.Schema().Title(); title != "" {
		_ = r.driver.Info(ctx, r.theme.InfoPrefix+title)
	}

	for _, field := range sess.Schema().Fields() {
		if field.Group != "" && !slices.Contains(sess.ActiveGroups(), field.Group) {
			continue
		}
		if err := r.promptField(ctx, sess, field); err != nil {
			return formstate.Result{}, err
		}
	}

	if r.confirmSubmit {
		ok, err := r.driver.Confirm(ctx, ConfirmPrompt{Message: "Submit?", Default: true})
		if err != nil {
			return formstate.Result{}, err
		}
		if !ok {
			return formstate.Result{}, ErrAborted
		}
	}

	result := sess.Submit(ctx)
	if result.Outcome == submission.Rejected {
		for _, path := range result.Errors.Paths() {
			_ = r.driver.Info(ctx, fmt.Sprintf("%s%s: %s", r.theme.ErrorPrefix, path, result.Errors.Get(path)))
		}
	}
	return result, nil
}

func (r *Renderer) promptField(ctx context.Context, sess *formstate.Session, field model.Field) error {
	switch {
	case field.Collector == model.CollectorTags:
		return r.promptTags(ctx, sess, field)
	case field.Collector == model.CollectorCode:
		return r.promptCode(ctx, sess, field)
	case field.Collector == model.CollectorDateRange:
		return r.promptDateRange(ctx, sess, field)
	case field.IsRecordArray():
		return r.promptRecords(ctx, sess, field)
	case field.Type == model.FieldTypeArray:
		return r.promptList(ctx, sess, field)
	default:
		return r.promptValue(ctx, sess, field.Name, field)
	}
}

// retry runs attempt until it reports no validation message.
func (r *Renderer) retry(ctx context.Context, path string, attempt func() (string, error)) error {
	for n := 1; ; n++ {
		msg, err := attempt()
		if err != nil {
			return err
		}
		if msg == "" {
			return nil
		}
		_ = r.driver.Info(ctx, r.theme.ErrorPrefix+msg)
		if r.maxAttempts > 0 && n >= r.maxAttempts {
			return fmt.Errorf("%w: %s", ErrTooManyAttempts, path)
		}
	}
}

func (r *Renderer) promptValue(ctx context.Context, sess *formstate.Session, path string, field model.Field) error {
	return r.retry(ctx, path, func() (string, error) {
		value, err := r.ask(ctx, sess, path, field)
		if err != nil {
			return "", err
		}
		if err := sess.Set(path, value); err != nil {
			return "", err
		}
		return sess.Errors().Get(path), nil
	})
}

func (r *Renderer) ask(ctx context.Context, sess *formstate.Session, path string, field model.Field) (any, error) {
	label := field.DisplayLabel()
	help := field.Description
	current, _ := sess.Get(path)
	text, _ := current.(string)

	switch {
	case field.Type == model.FieldTypeBoolean:
		def, _ := current.(bool)
		ok, err := r.driver.Confirm(ctx, ConfirmPrompt{Message: label, Default: def, Help: help})
		return ok, err
	case len(field.Enum) > 0:
		idx, err := r.driver.Choose(ctx, ChoicePrompt{
			Message:  label,
			Options:  field.Enum,
			Selected: []int{indexOf(field.Enum, text)},
			Help:     help,
		})
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= len(field.Enum) {
			return "", nil
		}
		return field.Enum[idx], nil
	default:
		return r.driver.Text(ctx, TextPrompt{Kind: textKind(field), Message: label, Default: text, Help: help})
	}
}

func textKind(field model.Field) TextKind {
	switch field.Format {
	case "password":
		return TextSecret
	case "textarea":
		return TextMultiline
	}
	return TextLine
}

func (r *Renderer) promptTags(ctx context.Context, sess *formstate.Session, field model.Field) error {
	label := field.DisplayLabel() + " (empty to finish)"
	for {
		text, err := r.driver.Text(ctx, TextPrompt{Message: label, Help: field.Description})
		if err != nil {
			return err
		}
		if text == "" {
			break
		}
		added, err := sess.AddTag(field.Name, text)
		if err != nil {
			return err
		}
		if !added {
			_ = r.driver.Info(ctx, fmt.Sprintf("%s%q skipped", r.theme.InfoPrefix, text))
		}
	}

	tags, err := sess.Tags(field.Name)
	if err != nil {
		return err
	}
	return r.pickRemovals(ctx, field, tags, func(i int) error {
		return sess.RemoveTag(field.Name, i)
	})
}

// pickRemovals offers items for removal and removes the picked ones from the
// highest index down so earlier indices stay valid.
func (r *Renderer) pickRemovals(ctx context.Context, field model.Field, items []string, remove func(int) error) error {
	if len(items) == 0 {
		return nil
	}
	picked, err := r.driver.Pick(ctx, ChoicePrompt{
		Message: fmt.Sprintf("Remove from %s?", strings.ToLower(field.DisplayLabel())),
		Options: items,
	})
	if err != nil {
		return err
	}
	slices.Sort(picked)
	for i := len(picked) - 1; i >= 0; i-- {
		if i < len(picked)-1 && picked[i] == picked[i+1] {
			continue
		}
		if err := remove(picked[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) promptCode(ctx context.Context, sess *formstate.Session, field model.Field) error {
	size, _ := schema.RuleInt(field, model.ValidationRuleLength)
	label := fmt.Sprintf("%s (%d characters)", field.DisplayLabel(), size)

	return r.retry(ctx, field.Name, func() (string, error) {
		text, err := r.driver.Text(ctx, TextPrompt{Message: label, Help: field.Description})
		if err != nil {
			return "", err
		}
		runes := []rune(strings.TrimSpace(text))
		for i := 0; i < size; i++ {
			slot := ""
			if i < len(runes) {
				slot = string(runes[i])
			}
			if err := sess.SetCodeSlot(field.Name, i, slot); err != nil {
				return "", err
			}
		}
		_, complete, err := sess.Code(field.Name)
		if err != nil {
			return "", err
		}
		if !complete || len(runes) != size {
			return codeMessage(field, size), nil
		}
		return "", nil
	})
}

func codeMessage(field model.Field, size int) string {
	for _, rule := range field.Validations {
		if rule.Kind == model.ValidationRuleLength && rule.Message != "" {
			return rule.Message
		}
	}
	return fmt.Sprintf("%s must be exactly %d characters", field.DisplayLabel(), size)
}

func (r *Renderer) promptDateRange(ctx context.Context, sess *formstate.Session, field model.Field) error {
	label := field.DisplayLabel()
	return r.retry(ctx, field.Name, func() (string, error) {
		from, err := r.driver.Text(ctx, TextPrompt{Message: label + " from (YYYY-MM-DD)", Help: field.Description})
		if err != nil {
			return "", err
		}
		to, err := r.driver.Text(ctx, TextPrompt{Message: label + " to (YYYY-MM-DD)"})
		if err != nil {
			return "", err
		}
		start, err := collectors.ParseDate(strings.TrimSpace(from))
		if err != nil {
			return "Dates must use the YYYY-MM-DD format", nil
		}
		end, err := collectors.ParseDate(strings.TrimSpace(to))
		if err != nil {
			return "Dates must use the YYYY-MM-DD format", nil
		}
		if err := sess.SetDateRange(field.Name, start, end); err != nil {
			if errors.Is(err, collectors.ErrInvalidRange) {
				return "Enter a start date on or before the end date", nil
			}
			return "", err
		}
		return "", nil
	})
}

// promptList collects plain lists, such as opaque file references, as one
// comma separated answer.
func (r *Renderer) promptList(ctx context.Context, sess *formstate.Session, field model.Field) error {
	label := field.DisplayLabel() + " (comma separated)"
	return r.retry(ctx, field.Name, func() (string, error) {
		text, err := r.driver.Text(ctx, TextPrompt{Message: label, Help: field.Description})
		if err != nil {
			return "", err
		}
		items := []string{}
		for _, part := range strings.Split(text, ",") {
			if part = strings.TrimSpace(part); part != "" {
				items = append(items, part)
			}
		}
		if err := sess.Set(field.Name, items); err != nil {
			return "", err
		}
		return sess.Errors().Get(field.Name), nil
	})
}

func (r *Renderer) promptRecords(ctx context.Context, sess *formstate.Session, field model.Field) error {
	label := field.DisplayLabel()
	records, err := sess.Records(field.Name)
	if err != nil {
		return err
	}
	count := len(records)

	for i := 0; ; i++ {
		if i == count {
			message := "Add another?"
			if count == 0 {
				message = fmt.Sprintf("Add %s?", strings.ToLower(label))
			}
			more, err := r.driver.Confirm(ctx, ConfirmPrompt{Message: message})
			if err != nil {
				return err
			}
			if !more {
				return r.removeRecords(ctx, sess, field)
			}
			idx, err := sess.Append(field.Name)
			if err != nil {
				return err
			}
			count = idx + 1
		}

		_ = r.driver.Info(ctx, fmt.Sprintf("%s%s #%d", r.theme.InfoPrefix, label, i+1))
		for _, child := range field.Items.Nested {
			path := fmt.Sprintf("%s.%d.%s", field.Name, i, child.Name)
			if err := r.promptValue(ctx, sess, path, child); err != nil {
				return err
			}
		}
	}
}

func (r *Renderer) removeRecords(ctx context.Context, sess *formstate.Session, field model.Field) error {
	records, err := sess.Records(field.Name)
	if err != nil {
		return err
	}
	rows := make([]string, len(records))
	for i, record := range records {
		rows[i] = recordSummary(field, i, record)
	}
	return r.pickRemovals(ctx, field, rows, func(i int) error {
		return sess.Remove(field.Name, i)
	})
}

func recordSummary(field model.Field, index int, record map[string]any) string {
	parts := make([]string, 0, len(field.Items.Nested))
	for _, child := range field.Items.Nested {
		if value := fmt.Sprint(record[child.Name]); value != "" && record[child.Name] != nil {
			parts = append(parts, child.Name+"="+value)
		}
	}
	return strings.TrimSpace(fmt.Sprintf("#%d %s", index+1, strings.Join(parts, " ")))
}
