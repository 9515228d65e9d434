// Package stats holds the numeric kernels behind the charts: tie-aware
// ranking, rank correlation matrices, and per-group mean/standard error.
package stats

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Rank returns the 1-based ranks of x. Tied values share the average of the
// ranks they span. NaN inputs must be removed by the caller.
func Rank(x []float64) []float64 {
	n := len(x)
	sorted := make([]float64, n)
	copy(sorted, x)
	inds := make([]int, n)
	floats.Argsort(sorted, inds)
	ranks := make([]float64, n)
	for i := 0; i < n; {
		j := i + 1
		for j < n && sorted[j] == sorted[i] {
			j++
		}
		// positions i..j-1 hold ranks i+1..j
		avg := float64(i+1+j) / 2
		for k := i; k < j; k++ {
			ranks[inds[k]] = avg
		}
		i = j
	}
	return ranks
}

// Pearson returns the linear correlation of x and y over the rows where both
// are present. ok is false when fewer than two complete pairs exist or either
// side is constant.
func Pearson(x, y []float64) (r float64, ok bool) {
	xs, ys := completePairs(x, y)
	return pearson(xs, ys)
}

// Spearman returns the rank correlation of x and y over the rows where both
// are present.
func Spearman(x, y []float64) (r float64, ok bool) {
	xs, ys := completePairs(x, y)
	if len(xs) < 2 {
		return 0, false
	}
	return pearson(Rank(xs), Rank(ys))
}

func pearson(xs, ys []float64) (float64, bool) {
	if len(xs) < 2 {
		return 0, false
	}
	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, false
	}
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return r, true
}

// Matrix is a square correlation matrix labelled by column name.
type Matrix struct {
	Columns []string
	Values  [][]float64 // row-major, Values[i][j]
}

// SpearmanMatrix correlates every pair of cols. The result is symmetric with
// a unit diagonal; undefined pairs are 0.
func SpearmanMatrix(names []string, cols [][]float64) *Matrix {
	n := len(cols)
	m := &Matrix{Columns: append([]string(nil), names...), Values: make([][]float64, n)}
	for i := range m.Values {
		m.Values[i] = make([]float64, n)
		m.Values[i][i] = 1
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			r, _ := Spearman(cols[i], cols[j])
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}
	return m
}

// GroupStat is the mean and standard error of one group's values.
type GroupStat struct {
	Group string
	N     int
	Mean  float64
	SEM   float64
}

// Present reports whether the group had any values.
func (g GroupStat) Present() bool { return g.N > 0 }

// GroupMeans buckets values by groupIdx (the position of each row's group in
// order, -1 to skip the row) and returns one GroupStat per entry of order.
// NaN values are ignored. A group with a single value has SEM 0.
func GroupMeans(order []string, groupIdx []int, values []float64) []GroupStat {
	buckets := make([][]float64, len(order))
	for i, g := range groupIdx {
		if g < 0 || g >= len(order) || i >= len(values) || math.IsNaN(values[i]) {
			continue
		}
		buckets[g] = append(buckets[g], values[i])
	}
	out := make([]GroupStat, len(order))
	for i, name := range order {
		gs := GroupStat{Group: name, N: len(buckets[i])}
		switch {
		case gs.N == 1:
			gs.Mean = buckets[i][0]
		case gs.N > 1:
			var sd float64
			gs.Mean, sd = stat.MeanStdDev(buckets[i], nil)
			gs.SEM = stat.StdErr(sd, float64(gs.N))
		}
		out[i] = gs
	}
	return out
}

func completePairs(x, y []float64) ([]float64, []float64) {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	xs := make([]float64, 0, n)
	ys := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	return xs, ys
}
