package preprocessing

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/statkit/evalgo/dataset"
	"github.com/statkit/evalgo/pkg/errors"
)

// Config controls how raw records are turned into a Dataset.
type Config struct {
	// Imputer fills missing values column by column. Required unless
	// DropIncomplete is set and removes every hole.
	Imputer Imputer

	// DropIncomplete removes records with any missing feature before
	// imputation. With DropIncomplete set and no Imputer, only complete
	// rows survive.
	DropIncomplete bool

	// Scale standardizes every feature to mean 0 and std 1 after
	// imputation.
	Scale bool
}

// Prepare materializes raw records into a Dataset with zero missing values
// and a fixed lexicographic feature ordering. A feature absent from a
// record counts as missing. The feature set is the union of all feature
// names seen across records.
func Prepare(records []dataset.Record, labels []string, cfg Config) (*dataset.Dataset, error) {
	if len(records) == 0 {
		return nil, errors.WithStack(errors.ErrEmptyData)
	}
	if len(labels) != len(records) {
		return nil, errors.NewShapeMismatchError("preprocessing.Prepare", len(records), len(labels))
	}

	features := unionFeatures(records)
	if len(features) == 0 {
		return nil, errors.WithStack(errors.ErrEmptyData)
	}

	// Materialize with NaN holes for missing values.
	x := mat.NewDense(len(records), len(features), nil)
	for i, rec := range records {
		for j, name := range features {
			if v, ok := rec[name]; ok {
				x.Set(i, j, v)
			} else {
				x.Set(i, j, math.NaN())
			}
		}
	}
	kept := labels

	if cfg.DropIncomplete {
		var err error
		x, kept, err = dropIncomplete(x, labels)
		if err != nil {
			return nil, err
		}
	}

	if cfg.Imputer != nil {
		r, c := x.Dims()
		col := make([]float64, r)
		for j := 0; j < c; j++ {
			mat.Col(col, j, x)
			if err := cfg.Imputer.Fill(col); err != nil {
				return nil, errors.Wrapf(err, "preprocessing.Prepare: feature %q", features[j])
			}
			x.SetCol(j, col)
		}
	}

	if cfg.Scale {
		scaled, err := NewStandardScalerDefault().FitTransform(x)
		if err != nil {
			return nil, err
		}
		x = scaled
	}

	return dataset.New(features, x, kept)
}

// dropIncomplete removes rows containing NaN along with their labels.
func dropIncomplete(x *mat.Dense, labels []string) (*mat.Dense, []string, error) {
	r, c := x.Dims()
	keep := make([]int, 0, r)
	for i := 0; i < r; i++ {
		complete := true
		for j := 0; j < c; j++ {
			if math.IsNaN(x.At(i, j)) {
				complete = false
				break
			}
		}
		if complete {
			keep = append(keep, i)
		}
	}
	if len(keep) == 0 {
		return nil, nil, errors.NewValueError("preprocessing.Prepare", "no complete records left after dropping")
	}

	out := mat.NewDense(len(keep), c, nil)
	kept := make([]string, len(keep))
	row := make([]float64, c)
	for i, idx := range keep {
		mat.Row(row, idx, x)
		out.SetRow(i, row)
		kept[i] = labels[idx]
	}
	return out, kept, nil
}

func unionFeatures(records []dataset.Record) []string {
	seen := make(map[string]struct{})
	for _, rec := range records {
		for name := range rec {
			seen[name] = struct{}{}
		}
	}
	features := make([]string, 0, len(seen))
	for name := range seen {
		features = append(features, name)
	}
	sort.Strings(features)
	return features
}
