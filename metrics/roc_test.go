package metrics

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/statkit/evalgo/pkg/errors"
)

func TestAUC(t *testing.T) {
	tests := []struct {
		name     string
		observed []int
		scores   []float64
		want     float64
		wantErr  bool
	}{
		{
			name:     "perfect classifier",
			observed: []int{0, 0, 0, 1, 1, 1},
			scores:   []float64{0.1, 0.2, 0.3, 0.7, 0.8, 0.9},
			want:     1.0,
		},
		{
			name:     "worst classifier",
			observed: []int{0, 0, 0, 1, 1, 1},
			scores:   []float64{0.9, 0.8, 0.7, 0.3, 0.2, 0.1},
			want:     0.0,
		},
		{
			name:     "random classifier",
			observed: []int{0, 1, 0, 1},
			scores:   []float64{0.5, 0.5, 0.5, 0.5},
			want:     0.5,
		},
		{
			name:     "typical case",
			observed: []int{0, 0, 1, 1},
			scores:   []float64{0.1, 0.4, 0.35, 0.8},
			want:     0.75,
		},
		{
			name:     "all positive labels",
			observed: []int{1, 1, 1, 1},
			scores:   []float64{0.1, 0.4, 0.35, 0.8},
			want:     0.5, // undefined case, returns 0.5
		},
		{
			name:     "all negative labels",
			observed: []int{0, 0, 0, 0},
			scores:   []float64{0.1, 0.4, 0.35, 0.8},
			want:     0.5, // undefined case, returns 0.5
		},
		{
			name:     "non-binary labels",
			observed: []int{0, 2, 1},
			scores:   []float64{0.1, 0.5, 0.9},
			wantErr:  true,
		},
		{
			name:     "dimension mismatch",
			observed: []int{0, 1},
			scores:   []float64{0.5},
			wantErr:  true,
		},
		{
			name:     "empty",
			observed: []int{},
			scores:   []float64{},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AUC(tt.scores, tt.observed)
			if (err != nil) != tt.wantErr {
				t.Fatalf("AUC() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("AUC() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAUCIndependentScores(t *testing.T) {
	// A scorer independent of the labels converges to AUC 0.5.
	rng := rand.New(rand.NewPCG(7, 7))
	n := 5000
	scores := make([]float64, n)
	observed := make([]int, n)
	for i := 0; i < n; i++ {
		scores[i] = rng.Float64()
		observed[i] = rng.IntN(2)
	}

	got, err := AUC(scores, observed)
	if err != nil {
		t.Fatalf("AUC() error = %v", err)
	}
	if math.Abs(got-0.5) > 0.05 {
		t.Errorf("AUC() = %v, want within 0.05 of 0.5", got)
	}
}

func TestROCCurve(t *testing.T) {
	scores := []float64{0.1, 0.4, 0.35, 0.8}
	observed := []int{0, 0, 1, 1}

	curve, err := ROCCurve(scores, observed)
	if err != nil {
		t.Fatalf("ROCCurve() error = %v", err)
	}

	want := []ROCPoint{
		{FPR: 0, TPR: 0},
		{FPR: 0, TPR: 0.5},
		{FPR: 0.5, TPR: 0.5},
		{FPR: 0.5, TPR: 1},
		{FPR: 1, TPR: 1},
	}
	if len(curve) != len(want) {
		t.Fatalf("curve has %d points, want %d: %v", len(curve), len(want), curve)
	}
	for i := range want {
		if math.Abs(curve[i].FPR-want[i].FPR) > 1e-12 || math.Abs(curve[i].TPR-want[i].TPR) > 1e-12 {
			t.Errorf("curve[%d] = %+v, want %+v", i, curve[i], want[i])
		}
	}

	// The curve starts at (0,0) and ends at (1,1).
	if curve[0] != (ROCPoint{}) {
		t.Errorf("first point = %+v, want (0,0)", curve[0])
	}
	if last := curve[len(curve)-1]; last.FPR != 1 || last.TPR != 1 {
		t.Errorf("last point = %+v, want (1,1)", last)
	}
}

func TestROCCurveTiedScores(t *testing.T) {
	// Tied scores collapse into one point rather than one per record.
	curve, err := ROCCurve([]float64{0.5, 0.5, 0.5, 0.5}, []int{0, 1, 0, 1})
	if err != nil {
		t.Fatalf("ROCCurve() error = %v", err)
	}
	if len(curve) != 2 {
		t.Fatalf("curve has %d points, want 2: %v", len(curve), curve)
	}
}

func TestROCCurveSingleClass(t *testing.T) {
	_, err := ROCCurve([]float64{0.2, 0.8}, []int{1, 1})
	if err == nil {
		t.Fatal("expected error when only one label value is present")
	}
	var valErr *errors.ValueError
	if !errors.As(err, &valErr) {
		t.Errorf("error should be *ValueError, got %T", err)
	}
}

func TestAUCSingleClassWarning(t *testing.T) {
	var warned bool
	errors.SetWarningHandler(func(w error) {
		var umw *errors.UndefinedMetricWarning
		if errors.As(w, &umw) {
			warned = true
		}
	})
	defer errors.SetWarningHandler(func(w error) {})

	got, err := AUC([]float64{0.2, 0.8}, []int{0, 0})
	if err != nil {
		t.Fatalf("AUC() error = %v", err)
	}
	if got != 0.5 {
		t.Errorf("AUC() = %v, want 0.5", got)
	}
	if !warned {
		t.Error("expected an UndefinedMetricWarning")
	}
}
