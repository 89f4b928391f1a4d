package submission

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/goliatone/go-formstate/pkg/validation"
)

// State is a submission lifecycle state.
type State string

const (
	Editing    State = "editing"
	Validating State = "validating"
	Rejected   State = "rejected"
	Accepted   State = "accepted"
)

// Payload is the composed value tree handed to a Submitter.
type Payload map[string]any

// Submitter receives an accepted payload.
type Submitter interface {
	Submit(ctx context.Context, payload Payload) error
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, payload Payload) error

// Submit calls f.
func (f SubmitterFunc) Submit(ctx context.Context, payload Payload) error {
	return f(ctx, payload)
}

// Observer is notified of every state transition.
type Observer func(from, to State)

// Result reports the outcome of one Attempt.
type Result struct {
	Outcome   State
	Errors    validation.ErrorMap
	Payload   Payload
	SubmitErr error
}

// Option configures a Gate.
type Option func(*Gate)

// WithSubmitter sets the payload receiver.
func WithSubmitter(sub Submitter) Option {
	return func(g *Gate) {
		g.submitter = sub
	}
}

// WithTransformers appends payload transformers, applied in order.
func WithTransformers(fns ...Transformer) Option {
	return func(g *Gate) {
		for _, fn := range fns {
			if fn != nil {
				g.transformers = append(g.transformers, fn)
			}
		}
	}
}

// WithObserver registers a transition observer. Observers run while the gate
// is locked and must not call back into it.
func WithObserver(fn Observer) Option {
	return func(g *Gate) {
		if fn != nil {
			g.observers = append(g.observers, fn)
		}
	}
}

// WithLogger sets the logger. Logs are discarded by default.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gate) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// Gate runs submission attempts.
type Gate struct {
	mu           sync.Mutex
	state        State
	submitter    Submitter
	transformers []Transformer
	observers    []Observer
	logger       *slog.Logger
}

// New constructs a Gate in the Editing state.
func New(opts ...Option) *Gate {
	g := &Gate{
		state:  Editing,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// State reports the current lifecycle state.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Attempt validates errs and, when empty, composes and delivers the payload.
// The gate always returns to Editing before Attempt returns.
func (g *Gate) Attempt(ctx context.Context, errs validation.ErrorMap, compose func() Payload) Result {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.transition(Validating)

	if !errs.Empty() {
		g.transition(Rejected)
		g.logger.Info("submission rejected", "errors", len(errs))
		g.transition(Editing)
		return Result{Outcome: Rejected, Errors: errs.Clone()}
	}

	g.transition(Accepted)
	result := Result{Outcome: Accepted, Errors: validation.ErrorMap{}}

	payload := Payload{}
	if compose != nil {
		payload = compose()
	}
	payload, err := g.transform(payload)
	if err != nil {
		result.SubmitErr = err
		g.logger.Warn("submission transform failed", "error", err)
	} else {
		result.Payload = payload
		result.SubmitErr = g.deliver(ctx, payload)
	}

	g.logger.Info("submission accepted", "delivered", result.SubmitErr == nil)
	g.transition(Editing)
	return result
}

func (g *Gate) transform(payload Payload) (Payload, error) {
	values := map[string]any(payload)
	for i, fn := range g.transformers {
		out, err := fn(values)
		if err != nil {
			return nil, fmt.Errorf("submission: transformer %d: %w", i, err)
		}
		values = out
	}
	return Payload(values), nil
}

func (g *Gate) deliver(ctx context.Context, payload Payload) error {
	if g.submitter == nil {
		return nil
	}
	if err := g.submitter.Submit(ctx, payload); err != nil {
		g.logger.Warn("submitter failed", "error", err)
		return fmt.Errorf("submission: submitter: %w", err)
	}
	return nil
}

func (g *Gate) transition(to State) {
	from := g.state
	g.state = to
	g.logger.Debug("submission transition", "from", from, "to", to)
	for _, fn := range g.observers {
		fn(from, to)
	}
}
