// Package split provides deterministic train/validation partitioning and
// k-fold assignment over record indices.
//
// Every strategy is a pure function of the dataset size and its own
// parameters. The randomized strategy takes an explicit seed; there is no
// global random state, so any partition can be replayed exactly.
package split

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"github.com/statkit/evalgo/pkg/errors"
)

// Split partitions record indices [0, n) into disjoint training and
// validation subsets whose union is the full index range.
type Split struct {
	Train      []int
	Validation []int
}

// Strategy produces a Split for a dataset of n records.
type Strategy interface {
	// Split partitions the indices [0, n). Both sides are sorted
	// ascending and non-empty; constraint violations are an
	// InvalidPartitionError.
	Split(n int) (Split, error)

	fmt.Stringer
}

// Alternating assigns records by index parity: even indices (0, 2, 4, ...)
// form the training set, odd indices the validation set. Requires n >= 2.
type Alternating struct{}

// String implements Strategy.
func (Alternating) String() string { return "alternating" }

// Split implements Strategy.
func (Alternating) Split(n int) (Split, error) {
	if n < 2 {
		return Split{}, errors.NewInvalidPartitionError("Alternating.Split", n,
			"dataset size must be at least 2")
	}
	train := make([]int, 0, (n+1)/2)
	validation := make([]int, 0, n/2)
	for i := 0; i < n; i++ {
		if i%2 == 0 {
			train = append(train, i)
		} else {
			validation = append(validation, i)
		}
	}
	return Split{Train: train, Validation: validation}, nil
}

// Modulo assigns every index i with i % K == 0 to the validation set and
// the rest to the training set. Requires 2 <= K <= n.
type Modulo struct {
	K int
}

// String implements Strategy.
func (m Modulo) String() string { return fmt.Sprintf("modulo(%d)", m.K) }

// Split implements Strategy.
func (m Modulo) Split(n int) (Split, error) {
	if m.K < 2 {
		return Split{}, errors.NewInvalidPartitionError("Modulo.Split", n,
			fmt.Sprintf("k must be at least 2, got %d", m.K))
	}
	if m.K > n {
		return Split{}, errors.NewInvalidPartitionError("Modulo.Split", n,
			fmt.Sprintf("k=%d exceeds dataset size", m.K))
	}
	train := make([]int, 0, n-n/m.K)
	validation := make([]int, 0, n/m.K+1)
	for i := 0; i < n; i++ {
		if i%m.K == 0 {
			validation = append(validation, i)
		} else {
			train = append(train, i)
		}
	}
	return Split{Train: train, Validation: validation}, nil
}

// Random holds out a seeded random fraction of the records for validation.
// The seed is mandatory and explicit; the same (n, Fraction, Seed) always
// produces the same partition.
type Random struct {
	// Fraction is the share of records held out for validation,
	// strictly between 0 and 1.
	Fraction float64

	// Seed drives the shuffle.
	Seed int64
}

// String implements Strategy.
func (r Random) String() string { return fmt.Sprintf("random(%g,%d)", r.Fraction, r.Seed) }

// Split implements Strategy.
func (r Random) Split(n int) (Split, error) {
	if n < 2 {
		return Split{}, errors.NewInvalidPartitionError("Random.Split", n,
			"dataset size must be at least 2")
	}
	if r.Fraction <= 0 || r.Fraction >= 1 {
		return Split{}, errors.NewInvalidPartitionError("Random.Split", n,
			fmt.Sprintf("validation fraction must be in (0, 1), got %g", r.Fraction))
	}
	nVal := int(math.Round(float64(n) * r.Fraction))
	if nVal < 1 || nVal >= n {
		return Split{}, errors.NewInvalidPartitionError("Random.Split", n,
			fmt.Sprintf("fraction %g leaves an empty subset", r.Fraction))
	}

	indices := shuffledIndices(n, r.Seed)

	validation := make([]int, nVal)
	copy(validation, indices[:nVal])
	train := make([]int, n-nVal)
	copy(train, indices[nVal:])
	sort.Ints(validation)
	sort.Ints(train)
	return Split{Train: train, Validation: validation}, nil
}

// FoldAssignment maps every record index of a dataset to exactly one of k
// folds. Fold sizes differ by at most one.
type FoldAssignment struct {
	n     int
	folds [][]int
}

// MakeFolds assigns the indices [0, n) to k folds after a seeded shuffle.
// Fold sizes are ceil(n/k) for the first n%k folds and floor(n/k) for the
// rest. k == n yields leave-one-out cross-validation. Deterministic for a
// given (n, k, seed).
func MakeFolds(n, k int, seed int64) (*FoldAssignment, error) {
	if k < 2 {
		return nil, errors.NewInvalidPartitionError("MakeFolds", n,
			fmt.Sprintf("k must be at least 2, got %d", k))
	}
	if k > n {
		return nil, errors.NewInvalidPartitionError("MakeFolds", n,
			fmt.Sprintf("k=%d exceeds dataset size", k))
	}

	indices := shuffledIndices(n, seed)

	folds := make([][]int, k)
	foldSize := n / k
	remainder := n % k

	current := 0
	for f := 0; f < k; f++ {
		size := foldSize
		if f < remainder {
			size++
		}
		fold := make([]int, size)
		copy(fold, indices[current:current+size])
		sort.Ints(fold)
		folds[f] = fold
		current += size
	}

	return &FoldAssignment{n: n, folds: folds}, nil
}

// K returns the number of folds.
func (fa *FoldAssignment) K() int {
	return len(fa.folds)
}

// Len returns the number of assigned record indices.
func (fa *FoldAssignment) Len() int {
	return fa.n
}

// Fold returns the record indices of fold f, sorted ascending.
func (fa *FoldAssignment) Fold(f int) []int {
	fold := make([]int, len(fa.folds[f]))
	copy(fold, fa.folds[f])
	return fold
}

// TrainIndices returns all record indices not in fold f, sorted ascending.
func (fa *FoldAssignment) TrainIndices(f int) []int {
	inFold := make(map[int]struct{}, len(fa.folds[f]))
	for _, idx := range fa.folds[f] {
		inFold[idx] = struct{}{}
	}
	train := make([]int, 0, fa.n-len(fa.folds[f]))
	for i := 0; i < fa.n; i++ {
		if _, ok := inFold[i]; !ok {
			train = append(train, i)
		}
	}
	return train
}

// Assignment returns the fold id of every record index.
func (fa *FoldAssignment) Assignment() []int {
	assign := make([]int, fa.n)
	for f, fold := range fa.folds {
		for _, idx := range fold {
			assign[idx] = f
		}
	}
	return assign
}

// shuffledIndices returns the indices [0, n) shuffled by a PCG source
// seeded from seed.
func shuffledIndices(n int, seed int64) []int {
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
	rng.Shuffle(len(indices), func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})
	return indices
}
