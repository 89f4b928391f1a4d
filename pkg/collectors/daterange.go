package collectors

import (
	"fmt"
	"time"

	"github.com/goliatone/go-formstate/pkg/model"
)

// DateLayout is the calendar-date layout used in merged values.
const DateLayout = "2006-01-02"

// DateRange is a start/end pair. A start without an end is a range in
// progress.
type DateRange struct {
	start *time.Time
	end   *time.Time
}

// NewDateRange returns an unset range.
func NewDateRange() *DateRange {
	return &DateRange{}
}

// Kind implements Collector.
func (d *DateRange) Kind() model.CollectorKind { return model.CollectorDateRange }

// Set replaces both ends. Either may be nil, but an end requires a start and
// must not precede it.
func (d *DateRange) Set(start, end *time.Time) error {
	if end != nil && start == nil {
		return fmt.Errorf("%w: end without start", ErrInvalidRange)
	}
	if start != nil && end != nil && end.Before(*start) {
		return fmt.Errorf("%w: end %s before start %s", ErrInvalidRange, end.Format(DateLayout), start.Format(DateLayout))
	}
	d.start = copyTime(start)
	d.end = copyTime(end)
	return nil
}

// Range returns copies of both ends.
func (d *DateRange) Range() (start, end *time.Time) {
	return copyTime(d.start), copyTime(d.end)
}

// Filled reports whether both ends are set.
func (d *DateRange) Filled() bool {
	return d.start != nil && d.end != nil
}

// Value implements Collector.
func (d *DateRange) Value() any {
	return map[string]any{
		"from": formatDate(d.start),
		"to":   formatDate(d.end),
	}
}

// ParseDate parses a calendar date; empty input yields nil.
func ParseDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRange, err)
	}
	return &t, nil
}

func formatDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(DateLayout)
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
