package welch

import (
	"math"
	"testing"
)

type expectations struct {
	X []float64
	Y []float64

	T float64
	P float64
}

// Truth values calculated with scipy.stats.ttest_ind(equal_var=False)
func TestTTest(t *testing.T) {
	for _, v := range []expectations{
		{[]float64{1, 2, 3, 4}, []float64{2, 4, 6, 8}, -1.7320508076, 0.1515805048},
		{[]float64{10.5, 11.2, 9.8, 10.9, 11.5}, []float64{8.1, 7.9, 8.8, 9.0}, 5.8574276441, 0.0006293056},
		{[]float64{1, 2}, []float64{3, 4}, -2.8284271247, 0.1055728090},
		{[]float64{2.5, 3.5, 1.5, 4.0, 2.0, 3.0}, []float64{2.5, 3.5, 1.5, 4.0, 2.0, 3.0}, 0, 1},
		{[]float64{50.0, 48.2, 51.3}, []float64{40.1, 42.8, 39.5, 41.0}, 7.8034033710, 0.0011565647},
		{[]float64{33.33, 28.57}, []float64{25.0, 22.22, 26.67}, 2.3313521542, 0.1746320328},
	} {
		res := TTest(v.X, v.Y)
		if math.Abs(res.T-v.T) > 1e-6 {
			t.Errorf("TTest(%v, %v) T = %.10f, expected %.10f", v.X, v.Y, res.T, v.T)
		}
		if math.Abs(res.P-v.P) > 1e-6 {
			t.Errorf("TTest(%v, %v) P = %.10f, expected %.10f", v.X, v.Y, res.P, v.P)
		}
	}
}

func TestTTestSymmetry(t *testing.T) {
	x := []float64{12.5, 14.1, 11.8, 13.3}
	y := []float64{9.9, 10.4, 8.7}

	fwd := TTest(x, y)
	rev := TTest(y, x)

	if fwd.T != -rev.T {
		t.Errorf("expected t statistics to differ only in sign: %v vs %v", fwd.T, rev.T)
	}
	if fwd.P != rev.P {
		t.Errorf("expected identical p-values: %v vs %v", fwd.P, rev.P)
	}
}

func TestTTestDegenerate(t *testing.T) {
	for _, v := range []struct {
		Name string
		X    []float64
		Y    []float64
	}{
		{"empty x", nil, []float64{1, 2, 3}},
		{"single observation", []float64{5}, []float64{1, 2, 3}},
		{"both constant", []float64{5, 5, 5, 5}, []float64{5, 5, 5}},
	} {
		res := TTest(v.X, v.Y)
		if !math.IsNaN(res.T) || !math.IsNaN(res.P) {
			t.Errorf("%s: expected NaN statistic and p-value, got t=%v p=%v", v.Name, res.T, res.P)
		}
	}

	// Group sizes and any computable means still come through
	res := TTest([]float64{5}, []float64{1, 3})
	if res.NX != 1 || res.NY != 2 {
		t.Errorf("expected group sizes 1 and 2, got %d and %d", res.NX, res.NY)
	}
	if res.MeanX != 5 || res.MeanY != 2 {
		t.Errorf("expected means 5 and 2, got %v and %v", res.MeanX, res.MeanY)
	}
}
