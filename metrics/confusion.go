// Package metrics computes classification metrics for the evaluation
// harness: confusion matrices, accuracy, one-vs-rest sensitivity and
// specificity, and ROC/AUC for binary scorers.
//
// Metrics with a zero denominator are reported as an explicit undefined
// sentinel (ClassMetric.Defined == false) together with an
// UndefinedMetricWarning through the pkg/errors warning handler; NaN never
// propagates silently. Small tutorial-sized datasets hit these cases
// routinely, so callers must check Defined before using a value.
package metrics

import (
	"sort"

	"github.com/statkit/evalgo/pkg/errors"
)

// ConfusionMatrix counts (observed, predicted) label pairs. The cell counts
// always sum to the number of evaluated records.
type ConfusionMatrix struct {
	classes []string
	index   map[string]int
	counts  [][]int
	total   int
}

// NewConfusionMatrix builds a confusion matrix from aligned observed and
// predicted label sequences. The class set is the union of labels seen in
// either sequence, ordered lexicographically.
func NewConfusionMatrix(observed, predicted []string) (*ConfusionMatrix, error) {
	classes := unionClasses(observed, predicted)
	return NewConfusionMatrixWithClasses(observed, predicted, classes)
}

// NewConfusionMatrixWithClasses builds a confusion matrix with a
// caller-specified class ordering. The ordering affects only presentation;
// every label occurring in observed or predicted must be listed.
func NewConfusionMatrixWithClasses(observed, predicted, classes []string) (*ConfusionMatrix, error) {
	if len(observed) != len(predicted) {
		return nil, errors.NewShapeMismatchError("ConfusionMatrix", len(observed), len(predicted))
	}
	if len(observed) == 0 {
		return nil, errors.WithStack(errors.ErrEmptyData)
	}

	index := make(map[string]int, len(classes))
	for i, c := range classes {
		if _, dup := index[c]; dup {
			return nil, errors.NewValueError("ConfusionMatrix", "duplicate class "+c)
		}
		index[c] = i
	}

	counts := make([][]int, len(classes))
	for i := range counts {
		counts[i] = make([]int, len(classes))
	}

	cm := &ConfusionMatrix{
		classes: append([]string(nil), classes...),
		index:   index,
		counts:  counts,
	}
	for i := range observed {
		oi, ok := index[observed[i]]
		if !ok {
			return nil, errors.NewValueError("ConfusionMatrix", "observed label not in class list: "+observed[i])
		}
		pi, ok := index[predicted[i]]
		if !ok {
			return nil, errors.NewValueError("ConfusionMatrix", "predicted label not in class list: "+predicted[i])
		}
		cm.counts[oi][pi]++
		cm.total++
	}
	return cm, nil
}

// Classes returns the class labels in matrix order.
func (cm *ConfusionMatrix) Classes() []string {
	return append([]string(nil), cm.classes...)
}

// Count returns the number of records observed as obs and predicted as pred.
// Unknown labels count as zero.
func (cm *ConfusionMatrix) Count(obs, pred string) int {
	oi, ok := cm.index[obs]
	if !ok {
		return 0
	}
	pi, ok := cm.index[pred]
	if !ok {
		return 0
	}
	return cm.counts[oi][pi]
}

// Total returns the number of evaluated records.
func (cm *ConfusionMatrix) Total() int {
	return cm.total
}

// ObservedTotal returns the number of records observed as class c.
func (cm *ConfusionMatrix) ObservedTotal(c string) int {
	oi, ok := cm.index[c]
	if !ok {
		return 0
	}
	sum := 0
	for _, n := range cm.counts[oi] {
		sum += n
	}
	return sum
}

// PredictedTotal returns the number of records predicted as class c.
func (cm *ConfusionMatrix) PredictedTotal(c string) int {
	pi, ok := cm.index[c]
	if !ok {
		return 0
	}
	sum := 0
	for oi := range cm.counts {
		sum += cm.counts[oi][pi]
	}
	return sum
}

// Merge returns a new matrix pooling the counts of cm and other. The merged
// class set is the sorted union of both class sets. Merging is how the
// harness implements micro aggregation across folds.
func (cm *ConfusionMatrix) Merge(other *ConfusionMatrix) (*ConfusionMatrix, error) {
	if other == nil {
		return nil, errors.NewValueError("ConfusionMatrix.Merge", "nil matrix")
	}

	classes := unionClasses(cm.classes, other.classes)
	index := make(map[string]int, len(classes))
	for i, c := range classes {
		index[c] = i
	}
	counts := make([][]int, len(classes))
	for i := range counts {
		counts[i] = make([]int, len(classes))
	}

	merged := &ConfusionMatrix{classes: classes, index: index, counts: counts}
	for _, m := range []*ConfusionMatrix{cm, other} {
		for oi, obs := range m.classes {
			for pi, pred := range m.classes {
				merged.counts[index[obs]][index[pred]] += m.counts[oi][pi]
			}
		}
		merged.total += m.total
	}
	return merged, nil
}

// ClassMetric is a per-class metric value with an explicit undefined
// sentinel. Value is only meaningful when Defined is true.
type ClassMetric struct {
	Value   float64
	Defined bool
}

// Report bundles the metrics derived from one confusion matrix.
type Report struct {
	// Accuracy is the share of records whose predicted label equals the
	// observed label.
	Accuracy float64

	// Sensitivity maps each class c to TP/(TP+FN) with c as positive and
	// all other classes pooled as negative. Undefined when the class has
	// zero observed positives.
	Sensitivity map[string]ClassMetric

	// Specificity maps each class c to TN/(TN+FP) one-vs-rest.
	// Undefined when the class has zero observed negatives.
	Specificity map[string]ClassMetric

	// Support maps each class to its observed record count.
	Support map[string]int
}

// Evaluate derives the metric bundle from a confusion matrix. The
// one-vs-rest treatment generalizes the binary 2x2 case to multiple
// classes. Undefined metrics raise an UndefinedMetricWarning.
func Evaluate(cm *ConfusionMatrix) *Report {
	report := &Report{
		Sensitivity: make(map[string]ClassMetric, len(cm.classes)),
		Specificity: make(map[string]ClassMetric, len(cm.classes)),
		Support:     make(map[string]int, len(cm.classes)),
	}

	correct := 0
	for i := range cm.classes {
		correct += cm.counts[i][i]
	}
	report.Accuracy = float64(correct) / float64(cm.total)

	for i, c := range cm.classes {
		tp := cm.counts[i][i]
		fn := cm.ObservedTotal(c) - tp
		fp := cm.PredictedTotal(c) - tp
		tn := cm.total - tp - fn - fp
		report.Support[c] = tp + fn

		if tp+fn > 0 {
			report.Sensitivity[c] = ClassMetric{Value: float64(tp) / float64(tp+fn), Defined: true}
		} else {
			report.Sensitivity[c] = ClassMetric{}
			errors.Warn(errors.NewUndefinedMetricWarning("sensitivity", c, "no observed positives"))
		}

		if tn+fp > 0 {
			report.Specificity[c] = ClassMetric{Value: float64(tn) / float64(tn+fp), Defined: true}
		} else {
			report.Specificity[c] = ClassMetric{}
			errors.Warn(errors.NewUndefinedMetricWarning("specificity", c, "no observed negatives"))
		}
	}

	return report
}

func unionClasses(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	for _, c := range a {
		seen[c] = struct{}{}
	}
	for _, c := range b {
		seen[c] = struct{}{}
	}
	classes := make([]string, 0, len(seen))
	for c := range seen {
		classes = append(classes, c)
	}
	sort.Strings(classes)
	return classes
}
