// Package welch implements Welch's two-sample t-test, the unequal-variance
// comparison of two group means.
package welch

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Result holds the outcome of a two-sided Welch's t-test comparing the means
// of two groups x and y.
type Result struct {
	NX, NY       int
	MeanX, MeanY float64

	// T, P, and DF are NaN when the test is undefined (fewer than two
	// observations in either group, or zero pooled standard error).
	T  float64
	P  float64
	DF float64
}

// TTest compares the means of x and y without assuming equal variances. The
// p-value is two-sided, from a Student's t distribution with
// Welch–Satterthwaite degrees of freedom.
//
// Groups with fewer than two observations make the test undefined; the
// statistic, p-value, and degrees of freedom come back NaN rather than an
// error, and callers are expected to propagate that.
func TTest(x, y []float64) Result {
	res := Result{
		NX:    len(x),
		NY:    len(y),
		MeanX: math.NaN(),
		MeanY: math.NaN(),
		T:     math.NaN(),
		P:     math.NaN(),
		DF:    math.NaN(),
	}

	if len(x) > 0 {
		res.MeanX = stat.Mean(x, nil)
	}
	if len(y) > 0 {
		res.MeanY = stat.Mean(y, nil)
	}
	if len(x) < 2 || len(y) < 2 {
		return res
	}

	mx, vx := stat.MeanVariance(x, nil)
	my, vy := stat.MeanVariance(y, nil)

	nx, ny := float64(len(x)), float64(len(y))
	sex := vx / nx
	sey := vy / ny
	se := sex + sey

	// Both groups constant: no variance to test against
	if se == 0 {
		return res
	}

	res.T = (mx - my) / math.Sqrt(se)
	res.DF = se * se / (sex*sex/(nx-1) + sey*sey/(ny-1))

	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: res.DF}
	res.P = 2 * dist.CDF(-math.Abs(res.T))

	return res
}
