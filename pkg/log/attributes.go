// Package log defines standard attribute keys for evaluation runs.
//
// Using these keys consistently across the harness keeps structured logs
// filterable: every fold-level record carries the run id and fold index,
// every data-level record carries sample and feature counts.

package log

// Run and fold context.
const (
	// RunIDKey identifies one evaluation run (hold-out or cross-validation).
	RunIDKey = "eval.run_id"

	// FoldKey is the zero-based index of the fold being evaluated.
	FoldKey = "eval.fold"

	// FoldsKey is the total number of folds in the run.
	FoldsKey = "eval.folds"

	// StrategyKey names the split strategy ("alternating", "modulo", "random").
	StrategyKey = "eval.strategy"

	// AggregationKey names the aggregation mode ("micro", "macro").
	AggregationKey = "eval.aggregation"

	// OperationKey specifies the harness operation being performed.
	// Standard values: "fit", "predict", "cross_validate", "hold_out"
	OperationKey = "eval.operation"
)

// Data shape.
const (
	// SamplesKey is the number of records in the (sub)set being processed.
	SamplesKey = "data.samples"

	// FeaturesKey is the number of features per record.
	FeaturesKey = "data.features"

	// ClassesKey is the number of distinct labels seen.
	ClassesKey = "data.classes"

	// TrainSizeKey and ValidationSizeKey are the sizes of the two sides of
	// a split.
	TrainSizeKey      = "data.train_size"
	ValidationSizeKey = "data.validation_size"
)

// Performance and results.
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// AccuracyKey carries a fold's or run's accuracy.
	AccuracyKey = "result.accuracy"

	// FailedFoldsKey carries the number of folds that failed in a
	// best-effort run.
	FailedFoldsKey = "result.failed_folds"
)
