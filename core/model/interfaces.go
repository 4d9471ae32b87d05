// Package model defines the capability contract between the evaluation
// harness and the classifier implementations it evaluates.
//
// The harness never knows which algorithm backs a capability. Anything that
// can fit a training set into an opaque fitted model and predict labels for
// new records is interchangeable here, which is what lets callers swap a
// decision tree for a random forest or an SVM without touching evaluation
// code. Capabilities must be addressed through this interface explicitly;
// there is no registry or name-based dispatch.
package model

import (
	"context"

	"github.com/statkit/evalgo/dataset"
)

// Model is an opaque fitted classifier. It is produced by exactly one
// Capability.Fit call, consumed through Predict, and never mutated
// afterwards, so a Model may be shared across goroutines.
type Model interface {
	// Predict returns one label per record of d, aligned by index.
	Predict(d *dataset.Dataset) ([]string, error)
}

// Scorer is an optional extension of Model for binary classifiers that
// produce a continuous score per record (higher means more positive).
// Scores feed the ROC/AUC routines in the metrics package.
type Scorer interface {
	Model

	// Scores returns one score per record of d, aligned by index.
	Scores(d *dataset.Dataset) ([]float64, error)
}

// Capability is the fitting side of a classifier. Fit trains on the given
// dataset and returns the fitted model; it must not retain or mutate the
// dataset. Implementations should honor ctx cancellation for long fits.
type Capability interface {
	Fit(ctx context.Context, train *dataset.Dataset) (Model, error)
}

// CapabilityFunc adapts a plain function to the Capability interface.
type CapabilityFunc func(ctx context.Context, train *dataset.Dataset) (Model, error)

// Fit calls f.
func (f CapabilityFunc) Fit(ctx context.Context, train *dataset.Dataset) (Model, error) {
	return f(ctx, train)
}

// PredictFunc adapts a plain prediction function to the Model interface.
type PredictFunc func(d *dataset.Dataset) ([]string, error)

// Predict calls f.
func (f PredictFunc) Predict(d *dataset.Dataset) ([]string, error) {
	return f(d)
}
