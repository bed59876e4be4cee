// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

package recommend

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// SVDMethod selects the numerical routine used for the truncated SVD.
type SVDMethod string

const (
	// SVDExact computes a thin SVD of the full matrix and keeps the top k triplets.
	SVDExact SVDMethod = "exact"

	// SVDRandomized uses a seeded randomized range finder followed by an
	// exact SVD of the projected matrix.
	SVDRandomized SVDMethod = "randomized"
)

// orthoTolerance is the relative norm below which a basis column is treated
// as linearly dependent and zeroed.
const orthoTolerance = 1e-10

var errFactorize = errors.New("svd factorization did not converge")

// SVDOptions configures TruncatedSVD.
type SVDOptions struct {
	Method          SVDMethod
	Seed            uint64
	Oversamples     int
	PowerIterations int
}

// DefaultSVDOptions returns the randomized method with seed 42, 10
// oversamples and 5 power iterations.
func DefaultSVDOptions() SVDOptions {
	return SVDOptions{
		Method:          SVDRandomized,
		Seed:            42,
		Oversamples:     10,
		PowerIterations: 5,
	}
}

// Factorization is the rank-k result of TruncatedSVD.
type Factorization struct {
	// UserFactors is U_k scaled by the singular values (rows x k).
	UserFactors *mat.Dense

	// ItemFactors is V_k (cols x k).
	ItemFactors *mat.Dense

	// SingularValues holds the k largest singular values, descending.
	SingularValues []float64

	// ExplainedVarianceRatio is the per-component share of the input's
	// total column variance.
	ExplainedVarianceRatio []float64
}

// TruncatedSVD reduces a to rank k so that UserFactors * ItemFactorsᵀ ≈ a.
// Empty rows or columns produce zero factor rows rather than an error.
func TruncatedSVD(a *mat.Dense, k int, opts SVDOptions) (*Factorization, error) {
	rows, cols := a.Dims()
	if k < 1 || k > min(rows, cols) {
		return nil, fmt.Errorf("%w: k=%d must be in [1, %d]", ErrInvalidRank, k, min(rows, cols))
	}

	var (
		u, v   *mat.Dense
		values []float64
		err    error
	)
	switch opts.Method {
	case SVDExact:
		u, values, v, err = exactSVD(a)
	case SVDRandomized, "":
		u, values, v, err = randomizedSVD(a, k, opts)
	default:
		return nil, fmt.Errorf("unknown svd method %q", opts.Method)
	}
	if err != nil {
		return nil, err
	}

	flipSigns(u, v)

	userFactors := mat.NewDense(rows, k, nil)
	itemFactors := mat.NewDense(cols, k, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < k; j++ {
			userFactors.Set(i, j, u.At(i, j)*values[j])
		}
	}
	for i := 0; i < cols; i++ {
		for j := 0; j < k; j++ {
			itemFactors.Set(i, j, v.At(i, j))
		}
	}

	return &Factorization{
		UserFactors:            userFactors,
		ItemFactors:            itemFactors,
		SingularValues:         append([]float64(nil), values[:k]...),
		ExplainedVarianceRatio: explainedVariance(a, userFactors),
	}, nil
}

func exactSVD(a mat.Matrix) (u *mat.Dense, values []float64, v *mat.Dense, err error) {
	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return nil, nil, nil, errFactorize
	}
	u, v = new(mat.Dense), new(mat.Dense)
	svd.UTo(u)
	svd.VTo(v)
	return u, svd.Values(nil), v, nil
}

// randomizedSVD follows Halko, Martinsson and Tropp: sample the range of a
// with a Gaussian test matrix, sharpen it with power iterations, then take an
// exact SVD of the small projection Qᵀa.
func randomizedSVD(a *mat.Dense, k int, opts SVDOptions) (u *mat.Dense, values []float64, v *mat.Dense, err error) {
	rows, cols := a.Dims()
	width := min(k+max(opts.Oversamples, 0), rows, cols)

	normal := distuv.Normal{Mu: 0, Sigma: 1, Src: rand.NewPCG(opts.Seed, opts.Seed)}
	omega := mat.NewDense(cols, width, nil)
	for i := 0; i < cols; i++ {
		for j := 0; j < width; j++ {
			omega.Set(i, j, normal.Rand())
		}
	}

	var y mat.Dense
	y.Mul(a, omega)
	q := orthonormalize(&y)
	for i := 0; i < opts.PowerIterations; i++ {
		var z mat.Dense
		z.Mul(a.T(), q)
		qz := orthonormalize(&z)

		var next mat.Dense
		next.Mul(a, qz)
		q = orthonormalize(&next)
	}

	var b mat.Dense
	b.Mul(q.T(), a)

	ub, values, v, err := exactSVD(&b)
	if err != nil {
		return nil, nil, nil, err
	}

	u = new(mat.Dense)
	u.Mul(q, ub)
	return u, values, v, nil
}

// orthonormalize returns an orthonormal basis for the columns of y using
// modified Gram-Schmidt applied twice. Dependent columns come back as zeros.
func orthonormalize(y mat.Matrix) *mat.Dense {
	rows, cols := y.Dims()
	basis := make([][]float64, cols)
	for j := 0; j < cols; j++ {
		col := mat.Col(nil, j, y)
		original := floats.Norm(col, 2)
		for pass := 0; pass < 2; pass++ {
			for p := 0; p < j; p++ {
				floats.AddScaled(col, -floats.Dot(basis[p], col), basis[p])
			}
		}
		norm := floats.Norm(col, 2)
		if norm <= orthoTolerance*math.Max(original, 1) {
			for i := range col {
				col[i] = 0
			}
		} else {
			floats.Scale(1/norm, col)
		}
		basis[j] = col
	}

	q := mat.NewDense(rows, cols, nil)
	for j, col := range basis {
		q.SetCol(j, col)
	}
	return q
}

// flipSigns makes the largest-magnitude entry of every right singular vector
// positive so results do not depend on the solver's sign choice.
func flipSigns(u, v *mat.Dense) {
	vRows, comps := v.Dims()
	uRows, _ := u.Dims()
	for j := 0; j < comps; j++ {
		best, bestAbs := 0.0, -1.0
		for i := 0; i < vRows; i++ {
			if x := v.At(i, j); math.Abs(x) > bestAbs {
				best, bestAbs = x, math.Abs(x)
			}
		}
		if best >= 0 {
			continue
		}
		for i := 0; i < vRows; i++ {
			v.Set(i, j, -v.At(i, j))
		}
		for i := 0; i < uRows; i++ {
			u.Set(i, j, -u.At(i, j))
		}
	}
}

// explainedVariance reports the population variance of each transformed
// column relative to the summed column variance of a.
func explainedVariance(a mat.Matrix, transformed mat.Matrix) []float64 {
	rows, cols := a.Dims()
	var total float64
	col := make([]float64, rows)
	for j := 0; j < cols; j++ {
		mat.Col(col, j, a)
		_, variance := stat.PopMeanVariance(col, nil)
		total += variance
	}

	_, k := transformed.Dims()
	ratios := make([]float64, k)
	if total == 0 {
		return ratios
	}
	for j := 0; j < k; j++ {
		mat.Col(col, j, transformed)
		_, variance := stat.PopMeanVariance(col, nil)
		ratios[j] = variance / total
	}
	return ratios
}
