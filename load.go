package formstate

import (
	"errors"
	"fmt"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/goliatone/go-formstate/pkg/collectors"
	"github.com/goliatone/go-formstate/pkg/model"
)

// Load applies a decoded value document in one step. Keys bound to a
// collector replace that collector's state; every other key is written to
// the value tree. Every key is attempted and the failures are joined.
func (s *Session) Load(values map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var errs []error
	for _, key := range keys {
		if err := s.loadValue(key, values[key]); err != nil {
			errs = append(errs, err)
		}
	}
	s.revalidate()
	s.logger.Debug("values loaded", "keys", len(keys), "failed", len(errs), "errors", len(s.errs))
	return errors.Join(errs...)
}

func (s *Session) loadValue(key string, value any) error {
	collector, ok := s.collectors[key]
	if !ok {
		return s.store.Set(key, value)
	}

	switch collector.Kind() {
	case model.CollectorTags:
		items, ok := value.([]any)
		if !ok && value != nil {
			return fmt.Errorf("formstate: %s: expected a list of tags, got %T", key, value)
		}
		tags := collectors.NewTags(s.tagPolicy)
		for _, item := range items {
			text, ok := item.(string)
			if !ok {
				return fmt.Errorf("formstate: %s: expected text tags, got %T", key, item)
			}
			tags.Add(text)
		}
		s.collectors[key] = tags
	case model.CollectorCode:
		code := collector.(*collectors.Code)
		text, ok := value.(string)
		if !ok && value != nil {
			return fmt.Errorf("formstate: %s: expected text code, got %T", key, value)
		}
		if n := utf8.RuneCountInString(text); n > code.Size() {
			return fmt.Errorf("formstate: %s: %w: %d characters for %d slots", key, collectors.ErrSlotOutOfRange, n, code.Size())
		}
		code.Reset()
		for i, r := range []rune(text) {
			if err := code.SetSlot(i, string(r)); err != nil {
				return fmt.Errorf("formstate: %s: %w", key, err)
			}
		}
	case model.CollectorDateRange:
		raw, ok := value.(map[string]any)
		if !ok && value != nil {
			return fmt.Errorf("formstate: %s: expected {from, to}, got %T", key, value)
		}
		start, err := parseRangeEnd(raw["from"])
		if err != nil {
			return fmt.Errorf("formstate: %s.from: %w", key, err)
		}
		end, err := parseRangeEnd(raw["to"])
		if err != nil {
			return fmt.Errorf("formstate: %s.to: %w", key, err)
		}
		dates := collectors.NewDateRange()
		if err := dates.Set(start, end); err != nil {
			return fmt.Errorf("formstate: %s: %w", key, err)
		}
		s.collectors[key] = dates
	}
	return nil
}

func parseRangeEnd(value any) (*time.Time, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		return collectors.ParseDate(v)
	default:
		return nil, fmt.Errorf("expected a date, got %T", value)
	}
}
