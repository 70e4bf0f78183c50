package loader

import (
	"context"
	"log/slog"
	"time"
)

// DefaultTierTimeout bounds each tier's attempt so one slow backend
// cannot stall the whole chain.
const DefaultTierTimeout = 10 * time.Second

// Observer is invoked after every tier attempt. err is nil on success.
type Observer func(source string, duration time.Duration, err error)

// Chain evaluates an ordered list of sources until one succeeds.
type Chain struct {
	sources  []Source
	timeout  time.Duration
	logger   *slog.Logger
	observer Observer
}

// ChainOption configures a Chain.
type ChainOption func(*Chain)

// WithTierTimeout overrides the per-tier attempt timeout.
func WithTierTimeout(d time.Duration) ChainOption {
	return func(c *Chain) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger used for per-attempt logging.
func WithLogger(l *slog.Logger) ChainOption {
	return func(c *Chain) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithObserver installs a per-attempt metrics callback.
func WithObserver(o Observer) ChainOption {
	return func(c *Chain) {
		c.observer = o
	}
}

// NewChain creates a fallback chain over the given sources, attempted
// strictly in the order provided.
func NewChain(sources []Source, opts ...ChainOption) *Chain {
	c := &Chain{
		sources: sources,
		timeout: DefaultTierTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Sources returns the configured tier labels in order.
func (c *Chain) Sources() []string {
	names := make([]string, len(c.sources))
	for i, s := range c.sources {
		names[i] = s.Name()
	}
	return names
}

// Fetch attempts each tier in order and returns the first success.
// If all tiers fail it returns an *ExhaustedError carrying the ordered
// per-tier failures.
func (c *Chain) Fetch(ctx context.Context, loc Locator) ([]byte, error) {
	var attempts []SourceError

	for _, src := range c.sources {
		if err := ctx.Err(); err != nil {
			attempts = append(attempts, SourceError{Source: src.Name(), Err: err})
			break
		}

		start := time.Now()
		data, err := c.attempt(ctx, src, loc)
		if c.observer != nil {
			c.observer(src.Name(), time.Since(start), err)
		}
		if err == nil {
			c.logger.Debug("snapshot file fetched",
				"source", src.Name(),
				"file", loc.Logical,
				"version", loc.Version,
			)
			return data, nil
		}

		c.logger.Warn("snapshot source failed",
			"source", src.Name(),
			"file", loc.Logical,
			"version", loc.Version,
			"error", err,
		)
		attempts = append(attempts, SourceError{Source: src.Name(), Err: err})
	}

	return nil, &ExhaustedError{Locator: loc, Attempts: attempts}
}

func (c *Chain) attempt(ctx context.Context, src Source, loc Locator) ([]byte, error) {
	tierCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return src.Fetch(tierCtx, loc)
}
