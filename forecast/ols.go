package forecast

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

var ErrSingularFit = errors.New("feature matrix could not be solved")

// olsFit solves min ||y - x*beta|| by QR factorization and returns the
// coefficient vector. The intercept, if wanted, must already be a
// column of x.
func olsFit(x *mat.Dense, y []float64) ([]float64, error) {
	m, n := x.Dims()
	if m != len(y) {
		return nil, ErrMismatchedLen
	}

	var qr mat.QR
	qr.Factorize(x)

	yMx := mat.NewDense(m, 1, y)
	var beta mat.Dense
	if err := qr.SolveTo(&beta, false, yMx); err != nil {
		return nil, errors.Join(ErrSingularFit, err)
	}

	coef := make([]float64, n)
	for i := 0; i < n; i++ {
		coef[i] = beta.At(i, 0)
	}
	return coef, nil
}

// olsPredict applies fitted coefficients to a feature matrix.
func olsPredict(x *mat.Dense, coef []float64) []float64 {
	m, _ := x.Dims()
	coefMx := mat.NewDense(len(coef), 1, coef)

	var res mat.Dense
	res.Mul(x, coefMx)

	out := make([]float64, m)
	for i := 0; i < m; i++ {
		out[i] = res.At(i, 0)
	}
	return out
}
