// Package dummy provides baseline classifiers implementing the capability
// contract in core/model. They stand in for real statistical algorithms
// (discriminant analysis, SVMs, tree ensembles) in tests, examples, and as
// sanity baselines: any capability worth evaluating should beat them.
package dummy

import (
	"context"

	"github.com/statkit/evalgo/core/model"
	"github.com/statkit/evalgo/dataset"
	"github.com/statkit/evalgo/pkg/errors"
)

// MostFrequent is a capability that always predicts the majority label of
// its training set. Ties break toward the lexicographically smallest label.
type MostFrequent struct{}

// NewMostFrequent creates a MostFrequent capability.
func NewMostFrequent() *MostFrequent {
	return &MostFrequent{}
}

// Fit implements model.Capability.
func (c *MostFrequent) Fit(ctx context.Context, train *dataset.Dataset) (model.Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WithStack(err)
	}
	if train == nil || train.Len() == 0 {
		return nil, errors.WithStack(errors.ErrEmptyData)
	}

	counts := make(map[string]int)
	for _, l := range train.Labels() {
		counts[l]++
	}
	best := ""
	bestCount := -1
	for _, c := range train.Classes() {
		if counts[c] > bestCount {
			best = c
			bestCount = counts[c]
		}
	}

	m := &mostFrequentModel{label: best}
	m.SetFitted()
	return m, nil
}

type mostFrequentModel struct {
	model.BaseEstimator
	label string
}

// Predict implements model.Model.
func (m *mostFrequentModel) Predict(d *dataset.Dataset) ([]string, error) {
	if !m.IsFitted() {
		return nil, errors.NewNotFittedError("MostFrequent", "Predict")
	}
	predictions := make([]string, d.Len())
	for i := range predictions {
		predictions[i] = m.label
	}
	return predictions, nil
}
