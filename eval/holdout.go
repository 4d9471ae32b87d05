package eval

import (
	"context"

	"github.com/google/uuid"

	"github.com/statkit/evalgo/core/model"
	"github.com/statkit/evalgo/dataset"
	"github.com/statkit/evalgo/metrics"
	"github.com/statkit/evalgo/pkg/errors"
	evlog "github.com/statkit/evalgo/pkg/log"
	"github.com/statkit/evalgo/split"
)

// HoldOut evaluates a classifier capability on a single train/validation
// split: fit on sp.Train, predict on sp.Validation, derive metrics from the
// resulting confusion matrix. A split with an empty side is an
// InvalidPartitionError, never a zero-accuracy result.
func HoldOut(ctx context.Context, d *dataset.Dataset, sp split.Split,
	capability model.Capability, opts ...Option) (*Result, error) {

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if d == nil {
		return nil, errors.NewValidationError("dataset", "must not be nil", nil)
	}
	if capability == nil {
		return nil, errors.NewValidationError("capability", "must not be nil", nil)
	}
	if err := checkSplit(d.Len(), sp); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "HoldOut: cancelled")
	}

	train, err := d.Subset(sp.Train)
	if err != nil {
		return nil, err
	}
	validation, err := d.Subset(sp.Validation)
	if err != nil {
		return nil, err
	}

	cm, err := fitAndScore(ctx, train, validation, capability, -1, o.fitTimeout)
	if err != nil {
		return nil, err
	}

	result := &Result{
		RunID:       uuid.NewString(),
		Aggregation: o.aggregation,
		Folds: []FoldResult{{
			Fold:      0,
			Confusion: cm,
			Report:    metrics.Evaluate(cm),
		}},
	}
	result.Overall = result.Folds[0].Report

	o.logger.Info("hold-out evaluation finished",
		evlog.RunIDKey, result.RunID,
		evlog.OperationKey, "hold_out",
		evlog.TrainSizeKey, len(sp.Train),
		evlog.ValidationSizeKey, len(sp.Validation),
		evlog.AccuracyKey, result.Overall.Accuracy,
	)
	return result, nil
}

// checkSplit verifies the Split invariant: training and validation are
// disjoint, non-empty, and together cover exactly the indices [0, n).
func checkSplit(n int, sp split.Split) error {
	if len(sp.Train) == 0 {
		return errors.NewInvalidPartitionError("HoldOut", n, "empty training set")
	}
	if len(sp.Validation) == 0 {
		return errors.NewInvalidPartitionError("HoldOut", n, "empty validation set")
	}
	if len(sp.Train)+len(sp.Validation) != n {
		return errors.NewInvalidPartitionError("HoldOut", n, "split does not cover the dataset")
	}
	seen := make(map[int]struct{}, n)
	for _, side := range [][]int{sp.Train, sp.Validation} {
		for _, idx := range side {
			if idx < 0 || idx >= n {
				return errors.NewInvalidPartitionError("HoldOut", n, "index out of range")
			}
			if _, dup := seen[idx]; dup {
				return errors.NewInvalidPartitionError("HoldOut", n, "training and validation overlap")
			}
			seen[idx] = struct{}{}
		}
	}
	return nil
}
