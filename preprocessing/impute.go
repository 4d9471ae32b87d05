// Package preprocessing turns raw records with missing values into a
// Dataset the harness accepts: pluggable imputation, optional row dropping,
// and feature standardization. The harness itself never imputes or scales;
// whatever policy is chosen here applies once, before evaluation.
package preprocessing

import (
	"math"

	"github.com/statkit/evalgo/pkg/errors"
)

// Imputer fills the NaN holes of one feature column in place.
type Imputer interface {
	// Fill replaces every NaN in column with the strategy's value.
	Fill(column []float64) error
}

// ZeroImputer replaces missing values with zero.
type ZeroImputer struct{}

// Fill implements Imputer.
func (ZeroImputer) Fill(column []float64) error {
	for i, v := range column {
		if math.IsNaN(v) {
			column[i] = 0
		}
	}
	return nil
}

// MeanImputer replaces missing values with the mean of the observed values
// in the same column.
type MeanImputer struct{}

// Fill implements Imputer.
func (MeanImputer) Fill(column []float64) error {
	sum := 0.0
	n := 0
	for _, v := range column {
		if !math.IsNaN(v) {
			sum += v
			n++
		}
	}
	if n == 0 {
		return errors.NewValueError("MeanImputer.Fill", "column has no observed values")
	}
	mean := sum / float64(n)
	for i, v := range column {
		if math.IsNaN(v) {
			column[i] = mean
		}
	}
	return nil
}
