// Package evalgo provides a reusable evaluation harness for classification
// models: deterministic train/validation splitting, k-fold cross-validation,
// confusion-matrix metrics, and ROC/AUC for binary scorers.
//
// The harness is agnostic to the algorithm backing a classifier. Any fitting
// routine that satisfies the two-method capability contract in core/model
// (fit a training set into an opaque model, predict labels for new records)
// can be evaluated, which is what lets callers swap a decision tree for a
// random forest or an SVM without touching evaluation code.
//
// # Quick Start
//
//	package main
//
//	import (
//	    "context"
//	    "fmt"
//	    "log"
//
//	    "github.com/statkit/evalgo/dataset"
//	    "github.com/statkit/evalgo/dummy"
//	    "github.com/statkit/evalgo/eval"
//	    "github.com/statkit/evalgo/split"
//	)
//
//	func main() {
//	    ds, err := dataset.FromRecords(records, labels)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    folds, err := split.MakeFolds(ds.Len(), 5, 42)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    result, err := eval.CrossValidate(context.Background(), ds, folds,
//	        dummy.NewNearestCentroid())
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Printf("accuracy: %.3f\n", result.Overall.Accuracy)
//	}
//
// # Packages
//
// The module is organized into several packages:
//
//   - dataset: immutable in-memory datasets (feature matrix plus labels)
//   - split: deterministic split strategies and k-fold assignment
//   - metrics: confusion matrices, accuracy/sensitivity/specificity, ROC/AUC
//   - eval: the cross-validation and hold-out harness
//   - preprocessing: imputation and scaling ahead of the harness
//   - dummy: baseline classifiers implementing the capability contract
//   - core/model: the fit/predict capability seam
//   - pkg/errors, pkg/log: shared error and logging infrastructure
//
// All randomized operations take an explicit seed; there is no hidden global
// random state anywhere in the module.
package evalgo
