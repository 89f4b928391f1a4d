package formstate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-formstate/pkg/collectors"
	"github.com/goliatone/go-formstate/pkg/repeater"
	"github.com/goliatone/go-formstate/pkg/schema"
	"github.com/goliatone/go-formstate/pkg/state"
	"github.com/goliatone/go-formstate/pkg/submission"
	"github.com/goliatone/go-formstate/pkg/validation"
	"github.com/goliatone/go-formstate/pkg/visibility"
)

// ErrUnknownCollector is returned when a collector operation names a path
// without a collector of the expected kind.
var ErrUnknownCollector = errors.New("formstate: unknown collector")

// ErrorMap aliases validation.ErrorMap for callers of the root package.
type ErrorMap = validation.ErrorMap

// Result aliases submission.Result.
type Result = submission.Result

// State aliases submission.State.
type State = submission.State

// Session owns the value tree of one form instance.
type Session struct {
	mu         sync.Mutex
	id         string
	schema     *schema.Schema
	store      *state.Store
	collectors collectors.Set
	gate       *submission.Gate
	policy     visibility.InactivePolicy
	tagPolicy  collectors.TagPolicy
	logger     *slog.Logger

	active visibility.Set
	errs   validation.ErrorMap
}

// NewSession seeds a value tree from s and runs the first validation pass.
func NewSession(s *schema.Schema, opts ...Option) (*Session, error) {
	if s == nil {
		return nil, errors.New("formstate: schema is required")
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	switch cfg.policy {
	case visibility.RetainInactive, visibility.ClearInactive:
	default:
		return nil, fmt.Errorf("formstate: unknown inactive policy %q", cfg.policy)
	}
	if cfg.id == "" {
		cfg.id = uuid.NewString()
	}

	gateOpts := []submission.Option{
		submission.WithLogger(cfg.logger),
		submission.WithSubmitter(cfg.submitter),
		submission.WithTransformers(cfg.transformers...),
	}
	for _, fn := range cfg.observers {
		gateOpts = append(gateOpts, submission.WithObserver(fn))
	}

	sess := &Session{
		id:         cfg.id,
		schema:     s,
		store:      state.New(s),
		collectors: collectors.ForSchema(s, cfg.tagPolicy),
		gate:       submission.New(gateOpts...),
		policy:     cfg.policy,
		tagPolicy:  cfg.tagPolicy,
		logger:     cfg.logger.With("session", cfg.id, "form", s.ID()),
		active:     make(visibility.Set),
	}
	sess.revalidate()
	return sess, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Schema returns the schema backing the session.
func (s *Session) Schema() *schema.Schema { return s.schema }

// Set writes value at path and revalidates.
func (s *Session) Set(path string, value any) error {
	return s.apply("set", path, func() error {
		return s.store.Set(path, value)
	})
}

// Reset restores the default at path and revalidates.
func (s *Session) Reset(path string) error {
	return s.apply("reset", path, func() error {
		return s.store.Reset(path)
	})
}

// Get reads the value at path.
func (s *Session) Get(path string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Get(path)
}

// Snapshot returns a copy of the current value tree.
func (s *Session) Snapshot() state.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Snapshot()
}

// Errors returns the error map computed after the latest mutation.
func (s *Session) Errors() ErrorMap {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errs.Clone()
}

// ActiveGroups returns the ids of the currently active groups.
func (s *Session) ActiveGroups() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active.IDs()
}

// Append adds a blank record to a repeatable group and returns its index.
func (s *Session) Append(group string) (int, error) {
	var index int
	err := s.apply("append", group, func() error {
		m, err := repeater.New(s.store, group)
		if err != nil {
			return err
		}
		index, err = m.Append()
		return err
	})
	return index, err
}

// Remove deletes the record at index and compacts the group.
func (s *Session) Remove(group string, index int) error {
	return s.apply("remove", group, func() error {
		m, err := repeater.New(s.store, group)
		if err != nil {
			return err
		}
		return m.Remove(index)
	})
}

// Records returns copies of the records of a repeatable group.
func (s *Session) Records(group string) ([]map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := repeater.New(s.store, group)
	if err != nil {
		return nil, err
	}
	return m.Records(), nil
}

// AddTag appends text to the tag collector at path. It reports whether the
// tag was kept under the session's tag policy.
func (s *Session) AddTag(path, text string) (bool, error) {
	var added bool
	err := s.apply("add tag", path, func() error {
		tags, ok := s.collectors.Tags(path)
		if !ok {
			return fmt.Errorf("%w: tags %q", ErrUnknownCollector, path)
		}
		added = tags.Add(text)
		return nil
	})
	return added, err
}

// RemoveTag removes the tag at index.
func (s *Session) RemoveTag(path string, index int) error {
	return s.apply("remove tag", path, func() error {
		tags, ok := s.collectors.Tags(path)
		if !ok {
			return fmt.Errorf("%w: tags %q", ErrUnknownCollector, path)
		}
		return tags.Remove(index)
	})
}

// Tags returns the pending tags collected for path.
func (s *Session) Tags(path string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tags, ok := s.collectors.Tags(path)
	if !ok {
		return nil, fmt.Errorf("%w: tags %q", ErrUnknownCollector, path)
	}
	return tags.Values(), nil
}

// SetCodeSlot writes one character into slot i of the code collector.
func (s *Session) SetCodeSlot(path string, i int, text string) error {
	return s.apply("set code slot", path, func() error {
		code, ok := s.collectors.Code(path)
		if !ok {
			return fmt.Errorf("%w: code %q", ErrUnknownCollector, path)
		}
		return code.SetSlot(i, text)
	})
}

// Code returns the joined code and whether every slot is filled.
func (s *Session) Code(path string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	code, ok := s.collectors.Code(path)
	if !ok {
		return "", false, fmt.Errorf("%w: code %q", ErrUnknownCollector, path)
	}
	value, _ := code.Value().(string)
	return value, code.Complete(), nil
}

// SetDateRange records a date range. end may be nil while start is set.
func (s *Session) SetDateRange(path string, start, end *time.Time) error {
	return s.apply("set date range", path, func() error {
		dates, ok := s.collectors.DateRange(path)
		if !ok {
			return fmt.Errorf("%w: date range %q", ErrUnknownCollector, path)
		}
		return dates.Set(start, end)
	})
}

// DateRange returns the pending range for path.
func (s *Session) DateRange(path string) (start, end *time.Time, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	dates, ok := s.collectors.DateRange(path)
	if !ok {
		return nil, nil, fmt.Errorf("%w: date range %q", ErrUnknownCollector, path)
	}
	start, end = dates.Range()
	return start, end, nil
}

// Merge copies every collector value into the value tree and revalidates.
func (s *Session) Merge() error {
	return s.apply("merge", "", func() error {
		return collectors.Merge(s.store, s.collectors)
	})
}

// Submit merges the collectors, revalidates and hands the composed payload
// to the submitter when no errors remain.
func (s *Session) Submit(ctx context.Context) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	mergeErr := collectors.Merge(s.store, s.collectors)
	s.revalidate()

	errs := s.errs
	if mergeErr != nil {
		s.logger.Warn("collector merge failed", "error", mergeErr)
		errs = s.errs.Clone()
		path := mergePath(mergeErr)
		label := path
		if field, ok := s.schema.Lookup(path); ok {
			label = field.DisplayLabel()
		}
		errs[path] = label + " could not be merged"
	}

	result := s.gate.Attempt(ctx, errs, func() submission.Payload {
		return submission.Compose(s.schema, s.store.Snapshot(), s.active)
	})
	if mergeErr != nil {
		result.SubmitErr = mergeErr
	}
	s.logger.Info("submit attempt", "outcome", result.Outcome, "errors", len(result.Errors))
	return result
}

func mergePath(err error) string {
	var mergeErr *collectors.MergeError
	if errors.As(err, &mergeErr) {
		return mergeErr.Path
	}
	return ""
}

// State reports the submission state.
func (s *Session) State() State {
	return s.gate.State()
}

func (s *Session) apply(op, path string, fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fn(); err != nil {
		s.logger.Debug("mutation rejected", "op", op, "path", path, "error", err)
		return err
	}
	s.revalidate()
	s.logger.Debug("mutation applied", "op", op, "path", path, "errors", len(s.errs))
	return nil
}

// revalidate recomputes the active groups and the error map from the latest
// value tree. Callers hold s.mu.
func (s *Session) revalidate() {
	snap := s.store.Snapshot()
	active := visibility.Resolve(s.schema, snap)

	if s.policy == visibility.ClearInactive {
		if gone := visibility.Deactivated(s.active, active); len(gone) > 0 {
			for _, group := range gone {
				for _, name := range s.schema.GroupFields(group) {
					if err := s.store.Reset(name); err != nil {
						s.logger.Error("reset inactive field", "field", name, "error", err)
					}
				}
			}
			s.logger.Debug("cleared inactive groups", "groups", gone)
			snap = s.store.Snapshot()
		}
	}

	s.active = active
	s.errs = validation.ValidateActive(s.schema, snap, active)
}
