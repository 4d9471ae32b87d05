package eval

import (
	"github.com/statkit/evalgo/metrics"
	"github.com/statkit/evalgo/pkg/errors"
)

// FoldResult is the outcome of evaluating one fold. Exactly one of
// Report/Err is meaningful: a failed fold carries the ModelFittingError
// that stopped it and no metrics.
type FoldResult struct {
	Fold      int
	Confusion *metrics.ConfusionMatrix
	Report    *metrics.Report
	Err       error
}

// Failed reports whether this fold's evaluation failed.
func (fr FoldResult) Failed() bool {
	return fr.Err != nil
}

// Result is the outcome of an evaluation run.
type Result struct {
	// RunID uniquely identifies this run in logs and reports.
	RunID string

	// Aggregation is the mode used to compute Overall.
	Aggregation Aggregation

	// Folds holds one entry per fold, in fold order.
	Folds []FoldResult

	// Overall is the aggregated metric bundle over the successful folds.
	// Nil when every fold failed.
	Overall *metrics.Report
}

// FailedFolds returns the indices of folds whose evaluation failed.
func (r *Result) FailedFolds() []int {
	var failed []int
	for _, fr := range r.Folds {
		if fr.Failed() {
			failed = append(failed, fr.Fold)
		}
	}
	return failed
}

// aggregate computes the overall report over the successful folds.
func aggregate(folds []FoldResult, mode Aggregation) (*metrics.Report, error) {
	switch mode {
	case AggregateMicro:
		return aggregateMicro(folds)
	case AggregateMacro:
		return aggregateMacro(folds), nil
	default:
		return nil, errors.NewValidationError("aggregation", "unknown aggregation mode", mode)
	}
}

// aggregateMicro pools the fold confusion matrices and derives metrics from
// the pooled matrix.
func aggregateMicro(folds []FoldResult) (*metrics.Report, error) {
	var pooled *metrics.ConfusionMatrix
	for _, fr := range folds {
		if fr.Failed() {
			continue
		}
		if pooled == nil {
			pooled = fr.Confusion
			continue
		}
		merged, err := pooled.Merge(fr.Confusion)
		if err != nil {
			return nil, err
		}
		pooled = merged
	}
	if pooled == nil {
		return nil, nil
	}
	return metrics.Evaluate(pooled), nil
}

// aggregateMacro averages per-fold metrics over the folds where they are
// defined. A class metric undefined in every successful fold stays
// undefined in the overall report.
func aggregateMacro(folds []FoldResult) *metrics.Report {
	type sum struct {
		total float64
		n     int
	}

	var accuracy sum
	sensitivity := make(map[string]*sum)
	specificity := make(map[string]*sum)
	support := make(map[string]int)

	for _, fr := range folds {
		if fr.Failed() {
			continue
		}
		accuracy.total += fr.Report.Accuracy
		accuracy.n++
		for c, m := range fr.Report.Sensitivity {
			if m.Defined {
				if sensitivity[c] == nil {
					sensitivity[c] = &sum{}
				}
				sensitivity[c].total += m.Value
				sensitivity[c].n++
			} else if sensitivity[c] == nil {
				sensitivity[c] = &sum{}
			}
		}
		for c, m := range fr.Report.Specificity {
			if m.Defined {
				if specificity[c] == nil {
					specificity[c] = &sum{}
				}
				specificity[c].total += m.Value
				specificity[c].n++
			} else if specificity[c] == nil {
				specificity[c] = &sum{}
			}
		}
		for c, n := range fr.Report.Support {
			support[c] += n
		}
	}
	if accuracy.n == 0 {
		return nil
	}

	report := &metrics.Report{
		Accuracy:    accuracy.total / float64(accuracy.n),
		Sensitivity: make(map[string]metrics.ClassMetric, len(sensitivity)),
		Specificity: make(map[string]metrics.ClassMetric, len(specificity)),
		Support:     support,
	}
	for c, s := range sensitivity {
		if s.n > 0 {
			report.Sensitivity[c] = metrics.ClassMetric{Value: s.total / float64(s.n), Defined: true}
		} else {
			report.Sensitivity[c] = metrics.ClassMetric{}
		}
	}
	for c, s := range specificity {
		if s.n > 0 {
			report.Specificity[c] = metrics.ClassMetric{Value: s.total / float64(s.n), Defined: true}
		} else {
			report.Specificity[c] = metrics.ClassMetric{}
		}
	}
	return report
}
