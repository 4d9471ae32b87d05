// Package errors provides error handling and the warning system for the
// whole module. Hard failures (bad partitions, shape mismatches, fitting
// failures) are structured error types carrying stack traces; soft
// conditions such as an undefined metric are surfaced through a
// process-wide warning handler instead of aborting the caller.
package errors

import (
	"fmt"
	"log"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	Global warning handling
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		log.Printf("evalgo-warning: %v\n", w)
	}
	// zerolog sink, set lazily to avoid an import cycle with pkg/log.
	zerologWarnFunc func(warning error)
)

// SetWarningHandler sets the module-wide warning handler. Warnings such as
// UndefinedMetricWarning are routed through it, so callers can silence,
// collect, or escalate them.
//
// Example:
//
//	errors.SetWarningHandler(func(w error) {
//	    // ignore warnings
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc installs a zerolog-backed warning sink. When set it
// takes precedence over the plain handler.
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn emits a warning through the configured sink.
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}

	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	Warning types
//
// ===========================================================================

// UndefinedMetricWarning is raised when a metric cannot be computed, for
// example the sensitivity of a class with zero observed positives. The
// metric value is reported as an explicit undefined sentinel, never NaN;
// this warning is the accompanying diagnostic.
type UndefinedMetricWarning struct {
	Metric    string
	Class     string
	Condition string
}

func (w *UndefinedMetricWarning) Error() string {
	if w.Class != "" {
		return fmt.Sprintf("'%s' is undefined for class %q: %s", w.Metric, w.Class, w.Condition)
	}
	return fmt.Sprintf("'%s' is undefined: %s", w.Metric, w.Condition)
}

// MarshalZerologObject adds the structured warning fields to a zerolog event.
func (w *UndefinedMetricWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("metric", w.Metric).
		Str("class", w.Class).
		Str("condition", w.Condition).
		Str("type", "UndefinedMetricWarning")
}

// NewUndefinedMetricWarning creates a new UndefinedMetricWarning.
func NewUndefinedMetricWarning(metric, class, condition string) *UndefinedMetricWarning {
	return &UndefinedMetricWarning{Metric: metric, Class: class, Condition: condition}
}

// ===========================================================================
//
//	Structured error types
//
// ===========================================================================

// InvalidPartitionError reports split or fold parameters that are
// inconsistent with the dataset size, such as k-fold with k > n, k < 2, or
// a partition that would leave the training or validation side empty.
type InvalidPartitionError struct {
	Op          string
	DatasetSize int
	Reason      string
}

func (e *InvalidPartitionError) Error() string {
	return fmt.Sprintf("evalgo: %s: invalid partition for %d records: %s", e.Op, e.DatasetSize, e.Reason)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *InvalidPartitionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("dataset_size", e.DatasetSize).
		Str("reason", e.Reason).
		Str("type", "InvalidPartitionError")
}

// NewInvalidPartitionError creates a new InvalidPartitionError with a stack trace.
func NewInvalidPartitionError(op string, datasetSize int, reason string) error {
	err := &InvalidPartitionError{Op: op, DatasetSize: datasetSize, Reason: reason}
	return errors.WithStack(err)
}

// ShapeMismatchError reports misaligned inputs: observed and predicted
// sequences of different lengths, a record missing a required feature, or a
// matrix with the wrong dimensions.
type ShapeMismatchError struct {
	Op       string
	Expected int
	Got      int
	Feature  string // set when a named feature is missing or malformed
}

func (e *ShapeMismatchError) Error() string {
	if e.Feature != "" {
		return fmt.Sprintf("evalgo: %s: feature %q: expected %d values, got %d", e.Op, e.Feature, e.Expected, e.Got)
	}
	return fmt.Sprintf("evalgo: %s: shape mismatch: expected %d, got %d", e.Op, e.Expected, e.Got)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *ShapeMismatchError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Str("feature", e.Feature).
		Str("type", "ShapeMismatchError")
}

// NewShapeMismatchError creates a new ShapeMismatchError with a stack trace.
func NewShapeMismatchError(op string, expected, got int) error {
	err := &ShapeMismatchError{Op: op, Expected: expected, Got: got}
	return errors.WithStack(err)
}

// NewFeatureError reports a missing or malformed named feature.
func NewFeatureError(op, feature string, expected, got int) error {
	err := &ShapeMismatchError{Op: op, Expected: expected, Got: got, Feature: feature}
	return errors.WithStack(err)
}

// ModelFittingError reports a failed or timed-out fit/predict call of an
// external classifier capability. Fold carries the index of the fold that
// was being evaluated (-1 for a plain hold-out run).
type ModelFittingError struct {
	Op   string // "fit" or "predict"
	Fold int
	Err  error
}

func (e *ModelFittingError) Error() string {
	if e.Fold >= 0 {
		return fmt.Sprintf("evalgo: %s failed on fold %d: %v", e.Op, e.Fold, e.Err)
	}
	return fmt.Sprintf("evalgo: %s failed: %v", e.Op, e.Err)
}

func (e *ModelFittingError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *ModelFittingError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("fold", e.Fold).
		AnErr("cause", e.Err).
		Str("type", "ModelFittingError")
}

// NewModelFittingError creates a new ModelFittingError with a stack trace.
func NewModelFittingError(op string, fold int, err error) error {
	fitErr := &ModelFittingError{Op: op, Fold: fold, Err: err}
	return errors.WithStack(fitErr)
}

// NotFittedError is returned when Predict or Scores is called on a
// capability that has not been fitted yet.
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("evalgo: %s: this model is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError creates a new NotFittedError with a stack trace.
func NewNotFittedError(modelName, method string) error {
	err := &NotFittedError{ModelName: modelName, Method: method}
	return errors.WithStack(err)
}

// ValidationError reports a parameter that failed validation.
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("evalgo: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError creates a new ValidationError with a stack trace.
func NewValidationError(param, reason string, value interface{}) error {
	err := &ValidationError{ParamName: param, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// ValueError reports an argument whose value is unusable, for example
// non-binary labels passed to the ROC routines.
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("evalgo: %s: %s", e.Op, e.Message)
}

// NewValueError creates a new ValueError with a stack trace.
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	cockroachdb/errors wrappers
//
// ===========================================================================

// Is reports whether err matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an error with a message.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf wraps an error with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New creates a new error.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a new formatted error.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack annotates an error with a stack trace.
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	Common error variables
//
// ===========================================================================

var (
	// ErrEmptyData is returned when an empty dataset or sequence is passed.
	ErrEmptyData = New("empty data")
)
