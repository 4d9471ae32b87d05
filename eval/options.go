// Package eval is the evaluation harness: repeatable hold-out and k-fold
// cross-validation of any classifier capability, independent of the
// algorithm backing it.
package eval

import (
	"log/slog"
	"time"
)

// Aggregation selects how per-fold results combine into an overall metric
// bundle. The two modes differ whenever fold sizes are unequal, so the
// choice is always explicit.
type Aggregation int

const (
	// AggregateMicro pools all fold predictions into one confusion matrix
	// before deriving metrics.
	AggregateMicro Aggregation = iota

	// AggregateMacro derives metrics per fold and averages them, giving
	// every fold equal weight regardless of size.
	AggregateMacro
)

// String returns the aggregation mode name.
func (a Aggregation) String() string {
	switch a {
	case AggregateMicro:
		return "micro"
	case AggregateMacro:
		return "macro"
	default:
		return "unknown"
	}
}

type options struct {
	aggregation Aggregation
	strict      bool
	parallelism int
	fitTimeout  time.Duration
	logger      *slog.Logger
}

func defaultOptions() options {
	return options{
		aggregation: AggregateMicro,
		strict:      false,
		parallelism: 1,
		logger:      slog.Default(),
	}
}

// Option configures an evaluation run.
type Option func(*options)

// WithAggregation sets the aggregation mode (default micro).
func WithAggregation(a Aggregation) Option {
	return func(o *options) {
		o.aggregation = a
	}
}

// WithStrict makes the first fold failure abort the whole run. The default
// is best-effort: failed folds are recorded and the run continues.
func WithStrict(strict bool) Option {
	return func(o *options) {
		o.strict = strict
	}
}

// WithParallelism sets the maximum number of folds evaluated concurrently
// (default 1, sequential). Folds share the dataset read-only, so any value
// up to the fold count is safe.
func WithParallelism(n int) Option {
	return func(o *options) {
		o.parallelism = n
	}
}

// WithFitTimeout bounds each fold's fit call with a deadline. A fit that
// overruns it fails the fold with a ModelFittingError.
func WithFitTimeout(d time.Duration) Option {
	return func(o *options) {
		o.fitTimeout = d
	}
}

// WithLogger sets the structured logger for the run (default slog.Default()).
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}
