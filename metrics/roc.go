package metrics

import (
	"sort"

	"github.com/statkit/evalgo/pkg/errors"
)

// ROCPoint is one operating point of a ROC curve.
type ROCPoint struct {
	FPR float64 // false positive rate
	TPR float64 // true positive rate
}

// ROCCurve computes the receiver operating characteristic of a binary
// scorer. scores[i] is the classifier's score for record i (higher means
// more positive) and observed[i] is the true label, 0 or 1. Both label
// values must be present. The returned points run from (0,0) to (1,1) in
// order of descending score threshold, with tied scores collapsed into a
// single point.
func ROCCurve(scores []float64, observed []int) ([]ROCPoint, error) {
	nPos, nNeg, err := checkBinary(scores, observed)
	if err != nil {
		return nil, err
	}
	if nPos == 0 || nNeg == 0 {
		return nil, errors.NewValueError("ROCCurve", "both label values must be present")
	}

	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	curve := []ROCPoint{{FPR: 0, TPR: 0}}
	tp, fp := 0, 0
	for i := 0; i < len(order); {
		// Consume the whole group of tied scores before emitting a point.
		threshold := scores[order[i]]
		for i < len(order) && scores[order[i]] == threshold {
			if observed[order[i]] == 1 {
				tp++
			} else {
				fp++
			}
			i++
		}
		curve = append(curve, ROCPoint{
			FPR: float64(fp) / float64(nNeg),
			TPR: float64(tp) / float64(nPos),
		})
	}
	return curve, nil
}

// AUC computes the area under the ROC curve by the trapezoidal rule.
// When only one label value is present the area is undefined; following
// common library behavior this returns 0.5 and raises an
// UndefinedMetricWarning instead of failing.
func AUC(scores []float64, observed []int) (float64, error) {
	nPos, nNeg, err := checkBinary(scores, observed)
	if err != nil {
		return 0, err
	}
	if nPos == 0 || nNeg == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("auc", "", "only one label value present"))
		return 0.5, nil
	}

	curve, err := ROCCurve(scores, observed)
	if err != nil {
		return 0, err
	}

	area := 0.0
	for i := 1; i < len(curve); i++ {
		width := curve[i].FPR - curve[i-1].FPR
		area += width * (curve[i].TPR + curve[i-1].TPR) / 2
	}
	return area, nil
}

// checkBinary validates the score/label alignment and counts the positive
// and negative labels.
func checkBinary(scores []float64, observed []int) (nPos, nNeg int, err error) {
	if len(scores) != len(observed) {
		return 0, 0, errors.NewShapeMismatchError("ROC", len(scores), len(observed))
	}
	if len(scores) == 0 {
		return 0, 0, errors.WithStack(errors.ErrEmptyData)
	}
	for _, y := range observed {
		switch y {
		case 1:
			nPos++
		case 0:
			nNeg++
		default:
			return 0, 0, errors.NewValueError("ROC", "labels must be 0 or 1")
		}
	}
	return nPos, nNeg, nil
}
