package formstate

import (
	"log/slog"

	"github.com/goliatone/go-formstate/pkg/collectors"
	"github.com/goliatone/go-formstate/pkg/submission"
	"github.com/goliatone/go-formstate/pkg/visibility"
)

// Option configures a Session.
type Option func(*config)

type config struct {
	logger       *slog.Logger
	submitter    submission.Submitter
	transformers []submission.Transformer
	observers    []submission.Observer
	policy       visibility.InactivePolicy
	tagPolicy    collectors.TagPolicy
	id           string
}

func defaultConfig() config {
	return config{
		logger: slog.New(slog.DiscardHandler),
		policy: visibility.RetainInactive,
	}
}

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithSubmitter sets the collaborator that receives accepted payloads.
func WithSubmitter(sub submission.Submitter) Option {
	return func(c *config) {
		c.submitter = sub
	}
}

// WithTransformers appends payload transformers applied before delivery.
func WithTransformers(fns ...submission.Transformer) Option {
	return func(c *config) {
		c.transformers = append(c.transformers, fns...)
	}
}

// WithInactivePolicy selects what happens to a group's values when it
// becomes inactive.
func WithInactivePolicy(policy visibility.InactivePolicy) Option {
	return func(c *config) {
		if policy != "" {
			c.policy = policy
		}
	}
}

// WithTagPolicy configures every tag collector of the session.
func WithTagPolicy(policy collectors.TagPolicy) Option {
	return func(c *config) {
		c.tagPolicy = policy
	}
}

// WithObserver registers a submission state observer. Observers run during
// Submit and must not call back into the session.
func WithObserver(fn submission.Observer) Option {
	return func(c *config) {
		if fn != nil {
			c.observers = append(c.observers, fn)
		}
	}
}

// WithID overrides the generated session id.
func WithID(id string) Option {
	return func(c *config) {
		c.id = id
	}
}
