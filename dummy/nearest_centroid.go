package dummy

import (
	"context"

	"gonum.org/v1/gonum/mat"

	"github.com/statkit/evalgo/core/model"
	"github.com/statkit/evalgo/core/parallel"
	"github.com/statkit/evalgo/dataset"
	"github.com/statkit/evalgo/pkg/errors"
)

// parallelThreshold is the record count above which prediction fans out
// across CPU cores.
const parallelThreshold = 256

// NearestCentroid is a capability that learns one feature centroid per
// class and predicts the class of the nearest centroid by Euclidean
// distance.
type NearestCentroid struct{}

// NewNearestCentroid creates a NearestCentroid capability.
func NewNearestCentroid() *NearestCentroid {
	return &NearestCentroid{}
}

// Fit implements model.Capability.
func (c *NearestCentroid) Fit(ctx context.Context, train *dataset.Dataset) (model.Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WithStack(err)
	}
	if train == nil || train.Len() == 0 {
		return nil, errors.WithStack(errors.ErrEmptyData)
	}

	classes := train.Classes()
	index := make(map[string]int, len(classes))
	for i, cl := range classes {
		index[cl] = i
	}

	nFeatures := train.NumFeatures()
	centroids := mat.NewDense(len(classes), nFeatures, nil)
	counts := make([]int, len(classes))

	for i := 0; i < train.Len(); i++ {
		ci := index[train.Label(i)]
		row := train.Row(i)
		for j := 0; j < nFeatures; j++ {
			centroids.Set(ci, j, centroids.At(ci, j)+row[j])
		}
		counts[ci]++
	}
	for ci := range classes {
		for j := 0; j < nFeatures; j++ {
			centroids.Set(ci, j, centroids.At(ci, j)/float64(counts[ci]))
		}
	}

	m := &nearestCentroidModel{
		classes:   classes,
		nFeatures: nFeatures,
		centroids: centroids,
	}
	m.SetFitted()
	return m, nil
}

type nearestCentroidModel struct {
	model.BaseEstimator
	classes   []string
	nFeatures int
	centroids *mat.Dense
}

// Predict implements model.Model.
func (m *nearestCentroidModel) Predict(d *dataset.Dataset) ([]string, error) {
	if !m.IsFitted() {
		return nil, errors.NewNotFittedError("NearestCentroid", "Predict")
	}
	if d.NumFeatures() != m.nFeatures {
		return nil, errors.NewShapeMismatchError("NearestCentroid.Predict", m.nFeatures, d.NumFeatures())
	}

	predictions := make([]string, d.Len())
	parallel.ParallelizeWithThreshold(d.Len(), parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			best := 0
			bestDist := m.distanceSq(d.Row(i), 0)
			for ci := 1; ci < len(m.classes); ci++ {
				if dist := m.distanceSq(d.Row(i), ci); dist < bestDist {
					best = ci
					bestDist = dist
				}
			}
			predictions[i] = m.classes[best]
		}
	})
	return predictions, nil
}

// Scores implements model.Scorer for the binary case. The positive class is
// the lexicographically larger of the two labels; the score of a record is
// the squared distance to the negative centroid minus the squared distance
// to the positive one, so higher scores mean more positive.
func (m *nearestCentroidModel) Scores(d *dataset.Dataset) ([]float64, error) {
	if !m.IsFitted() {
		return nil, errors.NewNotFittedError("NearestCentroid", "Scores")
	}
	if len(m.classes) != 2 {
		return nil, errors.NewValueError("NearestCentroid.Scores",
			"scores are only defined for binary classification")
	}
	if d.NumFeatures() != m.nFeatures {
		return nil, errors.NewShapeMismatchError("NearestCentroid.Scores", m.nFeatures, d.NumFeatures())
	}

	scores := make([]float64, d.Len())
	parallel.ParallelizeWithThreshold(d.Len(), parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			row := d.Row(i)
			scores[i] = m.distanceSq(row, 0) - m.distanceSq(row, 1)
		}
	})
	return scores, nil
}

func (m *nearestCentroidModel) distanceSq(row []float64, ci int) float64 {
	sum := 0.0
	for j, v := range row {
		diff := v - m.centroids.At(ci, j)
		sum += diff * diff
	}
	return sum
}
