// Package dataset provides the immutable in-memory dataset consumed by the
// evaluation harness: an ordered feature matrix plus one label per record.
//
// A Dataset never contains missing values. Data preparation (imputation,
// scaling, dropping incomplete rows) happens upstream in the preprocessing
// package; the constructors here reject NaN values and inconsistent feature
// sets outright.
package dataset

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/statkit/evalgo/pkg/errors"
)

// Record maps a feature name to its numeric value.
type Record map[string]float64

// Dataset is an ordered sequence of records with a fixed feature set and
// one categorical label per record. It is immutable after construction.
type Dataset struct {
	features []string
	x        *mat.Dense
	labels   []string
}

// New creates a Dataset from an explicit feature ordering, a feature matrix
// (one row per record, one column per feature), and per-record labels.
func New(features []string, x *mat.Dense, labels []string) (*Dataset, error) {
	if x == nil {
		return nil, errors.WithStack(errors.ErrEmptyData)
	}
	r, c := x.Dims()
	if r == 0 || c == 0 {
		return nil, errors.WithStack(errors.ErrEmptyData)
	}
	if len(features) != c {
		return nil, errors.NewShapeMismatchError("dataset.New", c, len(features))
	}
	if len(labels) != r {
		return nil, errors.NewShapeMismatchError("dataset.New", r, len(labels))
	}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if math.IsNaN(x.At(i, j)) {
				return nil, errors.NewValueError("dataset.New",
					"missing (NaN) value in feature "+features[j]+"; run preprocessing.Prepare first")
			}
		}
	}

	fs := make([]string, len(features))
	copy(fs, features)
	ls := make([]string, len(labels))
	copy(ls, labels)
	return &Dataset{features: fs, x: mat.DenseCopyOf(x), labels: ls}, nil
}

// FromRecords creates a Dataset from name/value records and aligned labels.
// The feature ordering is fixed lexicographically from the first record's
// feature set; every record must carry exactly that set, with no NaN values.
func FromRecords(records []Record, labels []string) (*Dataset, error) {
	if len(records) == 0 {
		return nil, errors.WithStack(errors.ErrEmptyData)
	}
	if len(labels) != len(records) {
		return nil, errors.NewShapeMismatchError("dataset.FromRecords", len(records), len(labels))
	}

	features := make([]string, 0, len(records[0]))
	for name := range records[0] {
		features = append(features, name)
	}
	sort.Strings(features)
	if len(features) == 0 {
		return nil, errors.WithStack(errors.ErrEmptyData)
	}

	x := mat.NewDense(len(records), len(features), nil)
	for i, rec := range records {
		if len(rec) != len(features) {
			return nil, errors.NewShapeMismatchError("dataset.FromRecords", len(features), len(rec))
		}
		for j, name := range features {
			v, ok := rec[name]
			if !ok {
				return nil, errors.NewFeatureError("dataset.FromRecords", name, 1, 0)
			}
			if math.IsNaN(v) {
				return nil, errors.NewValueError("dataset.FromRecords",
					"missing (NaN) value in feature "+name+"; run preprocessing.Prepare first")
			}
			x.Set(i, j, v)
		}
	}

	ls := make([]string, len(labels))
	copy(ls, labels)
	return &Dataset{features: features, x: x, labels: ls}, nil
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	r, _ := d.x.Dims()
	return r
}

// NumFeatures returns the number of features per record.
func (d *Dataset) NumFeatures() int {
	_, c := d.x.Dims()
	return c
}

// FeatureNames returns the ordered feature names.
func (d *Dataset) FeatureNames() []string {
	fs := make([]string, len(d.features))
	copy(fs, d.features)
	return fs
}

// Matrix returns a read-only view of the feature matrix.
func (d *Dataset) Matrix() mat.Matrix {
	return d.x
}

// Row returns the feature values of record i in feature order.
func (d *Dataset) Row(i int) []float64 {
	row := make([]float64, d.NumFeatures())
	mat.Row(row, i, d.x)
	return row
}

// Label returns the label of record i.
func (d *Dataset) Label(i int) string {
	return d.labels[i]
}

// Labels returns all labels in record order.
func (d *Dataset) Labels() []string {
	ls := make([]string, len(d.labels))
	copy(ls, d.labels)
	return ls
}

// Classes returns the distinct labels in lexicographic order.
func (d *Dataset) Classes() []string {
	seen := make(map[string]struct{}, 4)
	for _, l := range d.labels {
		seen[l] = struct{}{}
	}
	classes := make([]string, 0, len(seen))
	for l := range seen {
		classes = append(classes, l)
	}
	sort.Strings(classes)
	return classes
}

// Subset returns a new Dataset containing the given records, in the given
// order. Indices out of range are a ShapeMismatchError.
func (d *Dataset) Subset(indices []int) (*Dataset, error) {
	if len(indices) == 0 {
		return nil, errors.WithStack(errors.ErrEmptyData)
	}
	n := d.Len()
	x := mat.NewDense(len(indices), d.NumFeatures(), nil)
	labels := make([]string, len(indices))
	for i, idx := range indices {
		if idx < 0 || idx >= n {
			return nil, errors.NewShapeMismatchError("dataset.Subset", n, idx)
		}
		x.SetRow(i, d.Row(idx))
		labels[i] = d.labels[idx]
	}
	return &Dataset{features: d.FeatureNames(), x: x, labels: labels}, nil
}
