// Package validation computes the error map for a value snapshot. Validation
// is total: every call recomputes every active field from scratch.
package validation

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/schema"
	"github.com/goliatone/go-formstate/pkg/state"
	"github.com/goliatone/go-formstate/pkg/visibility"
)

var (
	formatsOnce sync.Once
	formats     *validator.Validate
)

func formatValidator() *validator.Validate {
	formatsOnce.Do(func() {
		formats = validator.New()
	})
	return formats
}

// Validate checks every active field of snap against s. Fields in inactive
// groups never produce errors. Each failing path carries the message of its
// first failing rule.
func Validate(s *schema.Schema, snap state.Snapshot) ErrorMap {
	return ValidateActive(s, snap, visibility.Resolve(s, snap))
}

// ValidateActive is Validate with a precomputed active group set.
func ValidateActive(s *schema.Schema, snap state.Snapshot, active visibility.Set) ErrorMap {
	errs := make(ErrorMap)
	for _, field := range s.Fields() {
		if !visibility.Active(field, active) {
			continue
		}
		value, _ := snap.Get(field.Name)
		check(s, field.Name, field, value, errs)
	}
	return errs
}

func check(s *schema.Schema, path string, field model.Field, value any, errs ErrorMap) {
	if isEmpty(field, value) && !field.Required() {
		return
	}

	if msg, failed := checkRules(s, field, value); failed {
		errs[path] = msg
		return
	}

	if isEmpty(field, value) {
		// required and no rule failed above
		errs[path] = fmt.Sprintf("%s is required", field.DisplayLabel())
		return
	}

	text, isText := value.(string)
	if isText && field.Type == model.FieldTypeNumber {
		if _, err := strconv.ParseFloat(strings.TrimSpace(text), 64); err != nil {
			errs[path] = fmt.Sprintf("%s must be a number", field.DisplayLabel())
			return
		}
	}
	if isText && len(field.Enum) > 0 && !slices.Contains(field.Enum, text) {
		errs[path] = fmt.Sprintf("%s must be one of: %s", field.DisplayLabel(), strings.Join(field.Enum, ", "))
		return
	}

	switch {
	case field.IsRecordArray():
		records, _ := value.([]any)
		for idx, raw := range records {
			record, _ := raw.(map[string]any)
			for _, child := range field.Items.Nested {
				check(s, fmt.Sprintf("%s.%d.%s", path, idx, child.Name), child, record[child.Name], errs)
			}
		}
	case field.Type == model.FieldTypeObject:
		record, _ := value.(map[string]any)
		for _, child := range field.Nested {
			check(s, path+"."+child.Name, child, record[child.Name], errs)
		}
	}
}

func checkRules(s *schema.Schema, field model.Field, value any) (string, bool) {
	label := field.DisplayLabel()
	for _, rule := range field.Validations {
		if msg, ok := evaluate(s, label, rule, value); !ok {
			if rule.Message != "" {
				return rule.Message, true
			}
			return msg, true
		}
	}
	return "", false
}

// evaluate returns the default message and whether value satisfies rule.
func evaluate(s *schema.Schema, label string, rule model.ValidationRule, value any) (string, bool) {
	switch rule.Kind {
	case model.ValidationRuleMinLength:
		n, _ := strconv.Atoi(rule.Params["value"])
		return fmt.Sprintf("%s must be at least %d characters", label, n), length(value) >= n
	case model.ValidationRuleMaxLength:
		n, _ := strconv.Atoi(rule.Params["value"])
		return fmt.Sprintf("%s must be at most %d characters", label, n), length(value) <= n
	case model.ValidationRuleLength:
		n, _ := strconv.Atoi(rule.Params["value"])
		return fmt.Sprintf("%s must be exactly %d characters", label, n), length(value) == n
	case model.ValidationRuleMin, model.ValidationRuleMax:
		bound, _ := strconv.ParseFloat(rule.Params["value"], 64)
		number, ok := toNumber(value)
		if !ok {
			return fmt.Sprintf("%s must be a number", label), false
		}
		if rule.Kind == model.ValidationRuleMin {
			return fmt.Sprintf("%s must be at least %s", label, rule.Params["value"]), number >= bound
		}
		return fmt.Sprintf("%s must be at most %s", label, rule.Params["value"]), number <= bound
	case model.ValidationRulePattern:
		re, ok := s.Pattern(rule.Params["pattern"])
		text, _ := value.(string)
		return fmt.Sprintf("%s has an invalid format", label), ok && re.MatchString(text)
	case model.ValidationRuleEmail:
		text, _ := value.(string)
		return fmt.Sprintf("%s must be a valid email address", label), formatValidator().Var(text, "required,email") == nil
	case model.ValidationRuleAccepted:
		accepted, _ := value.(bool)
		return fmt.Sprintf("%s must be accepted", label), accepted
	case model.ValidationRuleCustom:
		fn, ok := s.Predicate(rule.Params["name"])
		return fmt.Sprintf("%s is invalid", label), ok && fn(value)
	}
	return "", true
}

func isEmpty(field model.Field, value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case bool:
		return field.Type == model.FieldTypeBoolean && !v && !field.Required()
	case []any:
		return len(v) == 0
	case map[string]any:
		for _, child := range v {
			if child != nil && child != "" {
				return false
			}
		}
		return true
	}
	return false
}

func length(value any) int {
	switch v := value.(type) {
	case string:
		return utf8.RuneCountInString(v)
	case []any:
		return len(v)
	}
	return 0
}

func toNumber(value any) (float64, bool) {
	text, ok := value.(string)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	return f, err == nil
}
