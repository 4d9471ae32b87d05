package eval

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/statkit/evalgo/core/model"
	"github.com/statkit/evalgo/dataset"
	"github.com/statkit/evalgo/metrics"
	"github.com/statkit/evalgo/pkg/errors"
	evlog "github.com/statkit/evalgo/pkg/log"
	"github.com/statkit/evalgo/split"
)

// CrossValidate evaluates a classifier capability with k-fold
// cross-validation: for every fold, one model is fitted on all records
// outside the fold and evaluated on the records inside it. Folds share the
// dataset read-only and are otherwise independent, so WithParallelism can
// fan them out safely.
//
// By default a fold whose fit or predict call fails is recorded as a
// ModelFittingError in its FoldResult and the run continues; WithStrict
// makes the first failure abort the run. Cancellation through ctx is
// honored between folds. CrossValidate returns an error only when the run
// as a whole could not produce a result (bad inputs, strict-mode failure,
// cancellation, or every fold failing).
func CrossValidate(ctx context.Context, d *dataset.Dataset, folds *split.FoldAssignment,
	capability model.Capability, opts ...Option) (*Result, error) {

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if d == nil || folds == nil {
		return nil, errors.NewValidationError("dataset/folds", "must not be nil", nil)
	}
	if capability == nil {
		return nil, errors.NewValidationError("capability", "must not be nil", nil)
	}
	if folds.Len() != d.Len() {
		return nil, errors.NewShapeMismatchError("CrossValidate", d.Len(), folds.Len())
	}

	result := &Result{
		RunID:       uuid.NewString(),
		Aggregation: o.aggregation,
		Folds:       make([]FoldResult, folds.K()),
	}
	logger := o.logger.With(
		evlog.RunIDKey, result.RunID,
		evlog.OperationKey, "cross_validate",
		evlog.FoldsKey, folds.K(),
	)
	logger.Debug("cross-validation started",
		evlog.SamplesKey, d.Len(),
		evlog.FeaturesKey, d.NumFeatures(),
		evlog.AggregationKey, o.aggregation.String(),
	)

	var err error
	if o.parallelism > 1 {
		err = runParallel(ctx, d, folds, capability, &o, logger, result)
	} else {
		err = runSequential(ctx, d, folds, capability, &o, logger, result)
	}
	if err != nil {
		return nil, err
	}

	result.Overall, err = aggregate(result.Folds, o.aggregation)
	if err != nil {
		return nil, err
	}
	if result.Overall == nil {
		return result, errors.Wrapf(result.Folds[0].Err, "CrossValidate: all %d folds failed", folds.K())
	}

	logger.Info("cross-validation finished",
		evlog.AccuracyKey, result.Overall.Accuracy,
		evlog.FailedFoldsKey, len(result.FailedFolds()),
	)
	return result, nil
}

func runSequential(ctx context.Context, d *dataset.Dataset, folds *split.FoldAssignment,
	capability model.Capability, o *options, logger *slog.Logger, result *Result) error {

	for f := 0; f < folds.K(); f++ {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, "CrossValidate: cancelled")
		}
		fr := evaluateFold(ctx, d, folds, f, capability, o)
		result.Folds[f] = fr
		if fr.Failed() {
			if o.strict {
				return fr.Err
			}
			continue
		}
		logger.Debug("fold evaluated",
			evlog.FoldKey, f,
			evlog.AccuracyKey, fr.Report.Accuracy,
		)
	}
	return nil
}

func runParallel(ctx context.Context, d *dataset.Dataset, folds *split.FoldAssignment,
	capability model.Capability, o *options, logger *slog.Logger, result *Result) error {

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.parallelism)

	for f := 0; f < folds.K(); f++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return errors.Wrap(err, "CrossValidate: cancelled")
			}
			fr := evaluateFold(gctx, d, folds, f, capability, o)
			result.Folds[f] = fr
			if fr.Failed() {
				if o.strict {
					return fr.Err
				}
				return nil
			}
			logger.Debug("fold evaluated",
				evlog.FoldKey, f,
				evlog.AccuracyKey, fr.Report.Accuracy,
			)
			return nil
		})
	}
	return g.Wait()
}

// evaluateFold trains one model on everything outside fold f and evaluates
// it on the fold. A fit/predict failure, panic, or timeout is returned as a
// ModelFittingError tagged with the fold index.
func evaluateFold(ctx context.Context, d *dataset.Dataset, folds *split.FoldAssignment,
	f int, capability model.Capability, o *options) FoldResult {

	fr := FoldResult{Fold: f}

	train, err := d.Subset(folds.TrainIndices(f))
	if err != nil {
		fr.Err = err
		return fr
	}
	validation, err := d.Subset(folds.Fold(f))
	if err != nil {
		fr.Err = err
		return fr
	}

	cm, err := fitAndScore(ctx, train, validation, capability, f, o.fitTimeout)
	if err != nil {
		fr.Err = err
		return fr
	}
	fr.Confusion = cm
	fr.Report = metrics.Evaluate(cm)
	return fr
}

// fitAndScore runs the external fit/predict pair and builds the fold's
// confusion matrix. fold is -1 for hold-out runs.
func fitAndScore(ctx context.Context, train, validation *dataset.Dataset,
	capability model.Capability, fold int, fitTimeout time.Duration) (*metrics.ConfusionMatrix, error) {

	fitCtx := ctx
	if fitTimeout > 0 {
		var cancel context.CancelFunc
		fitCtx, cancel = context.WithTimeout(ctx, fitTimeout)
		defer cancel()
	}

	fitted, err := safeFit(fitCtx, capability, train)
	if err == nil && fitCtx.Err() != nil {
		err = fitCtx.Err()
	}
	if err != nil {
		return nil, errors.NewModelFittingError("fit", fold, err)
	}

	predicted, err := safePredict(fitted, validation)
	if err != nil {
		return nil, errors.NewModelFittingError("predict", fold, err)
	}
	if len(predicted) != validation.Len() {
		return nil, errors.NewShapeMismatchError("CrossValidate.predict", validation.Len(), len(predicted))
	}

	return metrics.NewConfusionMatrix(validation.Labels(), predicted)
}

// safeFit calls the external capability, converting panics into errors.
func safeFit(ctx context.Context, capability model.Capability, train *dataset.Dataset) (m model.Model, err error) {
	defer errors.Recover(&err, "Capability.Fit")
	return capability.Fit(ctx, train)
}

// safePredict calls the external model, converting panics into errors.
func safePredict(m model.Model, d *dataset.Dataset) (predicted []string, err error) {
	defer errors.Recover(&err, "Model.Predict")
	return m.Predict(d)
}
