package eval

import (
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/statkit/evalgo/pkg/errors"
	"github.com/statkit/evalgo/split"
)

// Config describes an evaluation run in a form that can be loaded from a
// TOML or JSON file, so experiments stay reproducible: the explicit seed
// and strategy parameters fully determine every partition.
type Config struct {
	// Strategy names the hold-out split strategy: "alternating",
	// "modulo", or "random".
	Strategy string `toml:"strategy" json:"strategy"`

	// K is the modulo strategy's parameter.
	K int `toml:"k" json:"k,omitempty"`

	// Fraction is the random strategy's validation share.
	Fraction float64 `toml:"fraction" json:"fraction,omitempty"`

	// Folds is the fold count for cross-validation runs.
	Folds int `toml:"folds" json:"folds,omitempty"`

	// Seed drives every randomized choice of the run.
	Seed int64 `toml:"seed" json:"seed"`

	// Aggregation is "micro" (default) or "macro".
	Aggregation string `toml:"aggregation" json:"aggregation,omitempty"`

	// Strict aborts the run on the first fold failure.
	Strict bool `toml:"strict" json:"strict,omitempty"`

	// Parallelism is the maximum number of folds evaluated concurrently.
	Parallelism int `toml:"parallelism" json:"parallelism,omitempty"`

	// FitTimeoutMs bounds each fold's fit call, in milliseconds.
	FitTimeoutMs int `toml:"fitTimeoutMs" json:"fitTimeoutMs,omitempty"`
}

// ReadConfig reads a run configuration from a TOML or JSON file, chosen by
// file extension.
func ReadConfig(file string) (*Config, error) {
	is, err := os.Open(file)
	if err != nil {
		return nil, errors.Wrapf(err, "readConfig %s", file)
	}
	defer is.Close()
	var config Config
	if strings.HasSuffix(file, ".toml") {
		if _, err := toml.NewDecoder(is).Decode(&config); err != nil {
			return nil, errors.Wrapf(err, "readConfig %s", file)
		}
		return &config, nil
	}
	if err := json.NewDecoder(is).Decode(&config); err != nil {
		return nil, errors.Wrapf(err, "readConfig %s", file)
	}
	return &config, nil
}

// SplitStrategy builds the hold-out strategy described by the config.
func (c *Config) SplitStrategy() (split.Strategy, error) {
	switch c.Strategy {
	case "alternating":
		return split.Alternating{}, nil
	case "modulo":
		return split.Modulo{K: c.K}, nil
	case "random":
		return split.Random{Fraction: c.Fraction, Seed: c.Seed}, nil
	default:
		return nil, errors.NewValidationError("strategy", "unknown split strategy", c.Strategy)
	}
}

// AggregationMode resolves the configured aggregation name.
func (c *Config) AggregationMode() (Aggregation, error) {
	switch c.Aggregation {
	case "", "micro":
		return AggregateMicro, nil
	case "macro":
		return AggregateMacro, nil
	default:
		return AggregateMicro, errors.NewValidationError("aggregation", "unknown aggregation mode", c.Aggregation)
	}
}

// Options converts the config into harness options.
func (c *Config) Options() ([]Option, error) {
	agg, err := c.AggregationMode()
	if err != nil {
		return nil, err
	}
	opts := []Option{
		WithAggregation(agg),
		WithStrict(c.Strict),
	}
	if c.Parallelism > 0 {
		opts = append(opts, WithParallelism(c.Parallelism))
	}
	if c.FitTimeoutMs > 0 {
		opts = append(opts, WithFitTimeout(time.Duration(c.FitTimeoutMs)*time.Millisecond))
	}
	return opts, nil
}
