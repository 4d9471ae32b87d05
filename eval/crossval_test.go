package eval

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/statkit/evalgo/core/model"
	"github.com/statkit/evalgo/dataset"
	"github.com/statkit/evalgo/pkg/errors"
	"github.com/statkit/evalgo/split"
)

// evalDataset builds n records with feature x = i and label "A" below the
// midpoint, "B" at or above it.
func evalDataset(t *testing.T, n int) *dataset.Dataset {
	t.Helper()
	records := make([]dataset.Record, n)
	labels := make([]string, n)
	for i := 0; i < n; i++ {
		records[i] = dataset.Record{"x": float64(i)}
		if i < n/2 {
			labels[i] = "A"
		} else {
			labels[i] = "B"
		}
	}
	d, err := dataset.FromRecords(records, labels)
	if err != nil {
		t.Fatalf("FromRecords() error = %v", err)
	}
	return d
}

// thresholdModel labels records by comparing x against the midpoint, which
// reproduces evalDataset's labeling exactly.
func thresholdModel(mid float64) model.Model {
	return model.PredictFunc(func(d *dataset.Dataset) ([]string, error) {
		out := make([]string, d.Len())
		for i := range out {
			if d.Row(i)[0] < mid {
				out[i] = "A"
			} else {
				out[i] = "B"
			}
		}
		return out, nil
	})
}

// perfectCapability always fits a model with perfect accuracy on
// evalDataset(t, n).
func perfectCapability(n int) model.Capability {
	return model.CapabilityFunc(func(_ context.Context, _ *dataset.Dataset) (model.Model, error) {
		return thresholdModel(float64(n / 2)), nil
	})
}

func TestCrossValidatePerfect(t *testing.T) {
	d := evalDataset(t, 10)
	folds, err := split.MakeFolds(10, 5, 42)
	if err != nil {
		t.Fatalf("MakeFolds() error = %v", err)
	}

	result, err := CrossValidate(context.Background(), d, folds, perfectCapability(10))
	if err != nil {
		t.Fatalf("CrossValidate() error = %v", err)
	}

	if result.RunID == "" {
		t.Error("RunID should not be empty")
	}
	if len(result.Folds) != 5 {
		t.Fatalf("len(Folds) = %d, want 5", len(result.Folds))
	}
	for _, fr := range result.Folds {
		if fr.Failed() {
			t.Fatalf("fold %d failed: %v", fr.Fold, fr.Err)
		}
		if fr.Report.Accuracy != 1.0 {
			t.Errorf("fold %d accuracy = %v, want 1.0", fr.Fold, fr.Report.Accuracy)
		}
	}
	if result.Overall.Accuracy != 1.0 {
		t.Errorf("Overall.Accuracy = %v, want 1.0", result.Overall.Accuracy)
	}
	if len(result.FailedFolds()) != 0 {
		t.Errorf("FailedFolds() = %v, want none", result.FailedFolds())
	}
}

func TestCrossValidateBestEffortFailingFold(t *testing.T) {
	d := evalDataset(t, 10)
	folds, err := split.MakeFolds(10, 5, 42)
	if err != nil {
		t.Fatalf("MakeFolds() error = %v", err)
	}

	// Fail exactly when fold 2 is held out: its records are then the
	// ones missing from the training set.
	target := float64(folds.Fold(2)[0])
	failing := model.CapabilityFunc(func(_ context.Context, train *dataset.Dataset) (model.Model, error) {
		for i := 0; i < train.Len(); i++ {
			if train.Row(i)[0] == target {
				return thresholdModel(5), nil
			}
		}
		return nil, fmt.Errorf("deliberate failure")
	})

	result, err := CrossValidate(context.Background(), d, folds, failing)
	if err != nil {
		t.Fatalf("best-effort run should not raise, got %v", err)
	}

	failed := result.FailedFolds()
	if len(failed) != 1 || failed[0] != 2 {
		t.Fatalf("FailedFolds() = %v, want [2]", failed)
	}
	var fitErr *errors.ModelFittingError
	if !errors.As(result.Folds[2].Err, &fitErr) {
		t.Fatalf("fold 2 error should be *ModelFittingError, got %T", result.Folds[2].Err)
	}
	if fitErr.Fold != 2 {
		t.Errorf("Fold = %d, want 2", fitErr.Fold)
	}

	// The other four folds succeeded and aggregate cleanly.
	succeeded := 0
	for _, fr := range result.Folds {
		if !fr.Failed() {
			succeeded++
		}
	}
	if succeeded != 4 {
		t.Errorf("succeeded folds = %d, want 4", succeeded)
	}
	if result.Overall == nil || result.Overall.Accuracy != 1.0 {
		t.Errorf("Overall = %+v, want accuracy 1.0 over the successful folds", result.Overall)
	}
}

func TestCrossValidateStrict(t *testing.T) {
	d := evalDataset(t, 10)
	folds, err := split.MakeFolds(10, 5, 42)
	if err != nil {
		t.Fatalf("MakeFolds() error = %v", err)
	}

	failing := model.CapabilityFunc(func(_ context.Context, _ *dataset.Dataset) (model.Model, error) {
		return nil, fmt.Errorf("deliberate failure")
	})

	_, err = CrossValidate(context.Background(), d, folds, failing, WithStrict(true))
	if err == nil {
		t.Fatal("strict run should fail on the first fold error")
	}
	var fitErr *errors.ModelFittingError
	if !errors.As(err, &fitErr) {
		t.Errorf("error should be *ModelFittingError, got %T", err)
	}
}

func TestCrossValidateAllFoldsFailed(t *testing.T) {
	d := evalDataset(t, 10)
	folds, err := split.MakeFolds(10, 5, 42)
	if err != nil {
		t.Fatalf("MakeFolds() error = %v", err)
	}

	failing := model.CapabilityFunc(func(_ context.Context, _ *dataset.Dataset) (model.Model, error) {
		return nil, fmt.Errorf("deliberate failure")
	})

	result, err := CrossValidate(context.Background(), d, folds, failing)
	if err == nil {
		t.Fatal("expected error when every fold fails")
	}
	if result == nil || len(result.FailedFolds()) != 5 {
		t.Errorf("result should record all 5 failed folds, got %+v", result)
	}
}

func TestCrossValidateParallelMatchesSequential(t *testing.T) {
	d := evalDataset(t, 20)
	folds, err := split.MakeFolds(20, 5, 7)
	if err != nil {
		t.Fatalf("MakeFolds() error = %v", err)
	}

	sequential, err := CrossValidate(context.Background(), d, folds, perfectCapability(20))
	if err != nil {
		t.Fatalf("sequential CrossValidate() error = %v", err)
	}
	parallel, err := CrossValidate(context.Background(), d, folds, perfectCapability(20),
		WithParallelism(4))
	if err != nil {
		t.Fatalf("parallel CrossValidate() error = %v", err)
	}

	if sequential.Overall.Accuracy != parallel.Overall.Accuracy {
		t.Errorf("parallel accuracy %v != sequential accuracy %v",
			parallel.Overall.Accuracy, sequential.Overall.Accuracy)
	}
	for f := range sequential.Folds {
		if sequential.Folds[f].Report.Accuracy != parallel.Folds[f].Report.Accuracy {
			t.Errorf("fold %d: parallel and sequential accuracy differ", f)
		}
	}
}

func TestCrossValidateMicroVsMacro(t *testing.T) {
	d := evalDataset(t, 10)
	// k=3 over 10 records gives unequal fold sizes (4, 3, 3), where the
	// two aggregation modes genuinely differ.
	folds, err := split.MakeFolds(10, 3, 42)
	if err != nil {
		t.Fatalf("MakeFolds() error = %v", err)
	}

	// Misclassify exactly one record (x == 0).
	oneMistake := model.CapabilityFunc(func(_ context.Context, _ *dataset.Dataset) (model.Model, error) {
		return model.PredictFunc(func(d *dataset.Dataset) ([]string, error) {
			out := make([]string, d.Len())
			for i := range out {
				switch {
				case d.Row(i)[0] == 0:
					out[i] = "B"
				case d.Row(i)[0] < 5:
					out[i] = "A"
				default:
					out[i] = "B"
				}
			}
			return out, nil
		}), nil
	})

	micro, err := CrossValidate(context.Background(), d, folds, oneMistake,
		WithAggregation(AggregateMicro))
	if err != nil {
		t.Fatalf("micro CrossValidate() error = %v", err)
	}
	macro, err := CrossValidate(context.Background(), d, folds, oneMistake,
		WithAggregation(AggregateMacro))
	if err != nil {
		t.Fatalf("macro CrossValidate() error = %v", err)
	}

	if math.Abs(micro.Overall.Accuracy-0.9) > 1e-12 {
		t.Errorf("micro accuracy = %v, want 0.9", micro.Overall.Accuracy)
	}
	if micro.Overall.Accuracy == macro.Overall.Accuracy {
		t.Error("micro and macro accuracy should differ with unequal folds")
	}
}

func TestCrossValidateCancelled(t *testing.T) {
	d := evalDataset(t, 10)
	folds, err := split.MakeFolds(10, 5, 42)
	if err != nil {
		t.Fatalf("MakeFolds() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := CrossValidate(ctx, d, folds, perfectCapability(10)); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestCrossValidateFitTimeout(t *testing.T) {
	d := evalDataset(t, 10)
	folds, err := split.MakeFolds(10, 5, 42)
	if err != nil {
		t.Fatalf("MakeFolds() error = %v", err)
	}

	slow := model.CapabilityFunc(func(ctx context.Context, _ *dataset.Dataset) (model.Model, error) {
		select {
		case <-time.After(200 * time.Millisecond):
			return thresholdModel(5), nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})

	_, err = CrossValidate(context.Background(), d, folds, slow,
		WithStrict(true), WithFitTimeout(time.Millisecond))
	if err == nil {
		t.Fatal("expected timeout error")
	}
	var fitErr *errors.ModelFittingError
	if !errors.As(err, &fitErr) {
		t.Errorf("error should be *ModelFittingError, got %T", err)
	}
}

func TestCrossValidatePanicRecovered(t *testing.T) {
	d := evalDataset(t, 10)
	folds, err := split.MakeFolds(10, 5, 42)
	if err != nil {
		t.Fatalf("MakeFolds() error = %v", err)
	}

	panicking := model.CapabilityFunc(func(_ context.Context, _ *dataset.Dataset) (model.Model, error) {
		panic("boom")
	})

	result, err := CrossValidate(context.Background(), d, folds, panicking)
	if err == nil {
		t.Fatal("expected error when every fold panics")
	}
	if result == nil {
		t.Fatal("panics should be recorded per fold, not crash the run")
	}
	var fitErr *errors.ModelFittingError
	if !errors.As(result.Folds[0].Err, &fitErr) {
		t.Errorf("fold error should be *ModelFittingError, got %T", result.Folds[0].Err)
	}
}

func TestCrossValidateSizeMismatch(t *testing.T) {
	d := evalDataset(t, 10)
	folds, err := split.MakeFolds(8, 4, 42)
	if err != nil {
		t.Fatalf("MakeFolds() error = %v", err)
	}

	_, err = CrossValidate(context.Background(), d, folds, perfectCapability(10))
	if err == nil {
		t.Fatal("expected error for fold assignment built for another size")
	}
	var shapeErr *errors.ShapeMismatchError
	if !errors.As(err, &shapeErr) {
		t.Errorf("error should be *ShapeMismatchError, got %T", err)
	}
}

func TestCrossValidatePredictionCountMismatch(t *testing.T) {
	d := evalDataset(t, 10)
	folds, err := split.MakeFolds(10, 5, 42)
	if err != nil {
		t.Fatalf("MakeFolds() error = %v", err)
	}

	short := model.CapabilityFunc(func(_ context.Context, _ *dataset.Dataset) (model.Model, error) {
		return model.PredictFunc(func(_ *dataset.Dataset) ([]string, error) {
			return []string{"A"}, nil
		}), nil
	})

	result, err := CrossValidate(context.Background(), d, folds, short)
	if err == nil {
		t.Fatal("expected error when predictions are misaligned on every fold")
	}
	if result != nil {
		for _, fr := range result.Folds {
			if !fr.Failed() {
				t.Error("misaligned predictions should fail the fold")
			}
		}
	}
}
