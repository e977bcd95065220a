package field

import (
	"errors"
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/notargets/goflowvis/grid"
)

func TestScalarSampling(t *testing.T) {
	g := grid.MustNew(7, 5, grid.NewRect(-3.3, 0.7, 5.1, 2.9))
	sf := NewScalarField(g)
	rng := rand.New(rand.NewSource(42))
	for i := range sf.Values() {
		sf.Values()[i] = rng.Float64()*10 - 5
	}
	{ // Samples are returned exactly at grid locations
		for j := 0; j < g.NY; j++ {
			for i := 0; i < g.NX; i++ {
				assert.Equal(t, sf.At(i, j), sf.Sample(g.SamplePosition(i, j)))
			}
		}
	}
	{ // Beyond the last row/column the boundary value is replicated
		assert.Equal(t, sf.At(6, 4), sf.SampleGrid(r2.Vec{X: 6, Y: 4}))
		assert.Equal(t, sf.At(6, 4), sf.SampleGrid(r2.Vec{X: 9.5, Y: 12}))
		assert.Equal(t, sf.At(6, 2), sf.SampleGrid(r2.Vec{X: 6.7, Y: 2}))
		assert.Equal(t, sf.At(0, 0), sf.SampleGrid(r2.Vec{X: -1, Y: -1}))
	}
	{ // Cell center is the mean of its corners
		mean := 0.25 * (sf.At(2, 1) + sf.At(3, 1) + sf.At(2, 2) + sf.At(3, 2))
		assert.InDelta(t, mean, sf.SampleGrid(r2.Vec{X: 2.5, Y: 1.5}), 1.e-12)
	}
	{ // Range
		_, _, ok := sf.Range()
		assert.False(t, ok)
		sf.UpdateRange()
		min, max, ok := sf.Range()
		assert.True(t, ok)
		assert.True(t, min >= -5 && max <= 5 && min < max)
	}
}

func TestScalarSmoothing(t *testing.T) {
	g := grid.MustNew(10, 10, grid.NewRect(0, 0, 9, 9))
	sf := NewScalarFieldFunc(g, func(r2.Vec) float64 { return 3 })
	sf.Smooth(1)
	for j := 0; j < g.NY; j++ {
		for i := 0; i < g.NX; i++ {
			border := i == 0 || j == 0 || i == g.NX-1 || j == g.NY-1
			if border {
				assert.Less(t, sf.At(i, j), 3.)
			} else {
				assert.InDelta(t, 3., sf.At(i, j), 1.e-12)
			}
		}
	}
	// Corners lose mass on both passes
	assert.Less(t, sf.At(0, 0), sf.At(0, 5))
	min, max, ok := sf.Range()
	assert.True(t, ok)
	assert.InDelta(t, 3., max, 1.e-12)
	assert.Equal(t, sf.At(0, 0), min)

	{ // Kernel is normalized and symmetric
		w := GaussianKernel(3, SmoothSigma)
		var sum float64
		for _, v := range w {
			sum += v
		}
		assert.InDelta(t, 1., sum, 1.e-14)
		assert.Equal(t, w[0], w[6])
	}
}

func gaussianBump(g grid.Grid, center r2.Vec, sigma float64) *ScalarField {
	return NewScalarFieldFunc(g, func(p r2.Vec) float64 {
		d := r2.Sub(p, center)
		return math.Exp(-r2.Norm2(d) / (2 * sigma * sigma))
	})
}

func TestGradientAscent(t *testing.T) {
	g := grid.MustNew(41, 41, grid.NewRect(0, 0, 40, 40))
	{ // Climbs to the peak of a bump
		center := r2.Vec{X: 20.3, Y: 19.6}
		sf := gaussianBump(g, center, 4)
		end, ok := sf.GradientAscent(r2.Vec{X: 15, Y: 15})
		require.True(t, ok)
		assert.InDelta(t, center.X, end.X, 0.5)
		assert.InDelta(t, center.Y, end.Y, 0.5)
		grad := sf.Gradient(end)
		assert.Less(t, r2.Norm(grad), ascentTol)
	}
	{ // A ramp has no maximum inside the grid
		sf := NewScalarFieldFunc(g, func(p r2.Vec) float64 { return p.X })
		end, ok := sf.GradientAscent(r2.Vec{X: 30, Y: 10})
		assert.False(t, ok)
		assert.Equal(t, Failed, end)
	}
}

func TestScalarAbs(t *testing.T) {
	g := grid.MustNew(3, 2, grid.NewRect(0, 0, 2, 1))
	sf, err := NewScalarFieldFromData(g, []float64{-4, 1, 2, -0.5, 0, 3})
	require.NoError(t, err)
	a := sf.Abs()
	assert.Equal(t, []float64{4, 1, 2, 0.5, 0, 3}, a.Values())
	min, max, ok := a.Range()
	assert.True(t, ok)
	assert.Equal(t, 0., min)
	assert.Equal(t, 4., max)
	// Source is untouched
	assert.Equal(t, -4., sf.At(0, 0))

	_, err = NewScalarFieldFromData(g, make([]float64, 5))
	assert.True(t, errors.Is(err, grid.ErrBufferSize))
}

func linearField(J Jacobian) *VectorField {
	g := grid.MustNew(11, 11, grid.NewRect(-5, -5, 5, 5))
	return NewVectorFieldFunc(g, func(p r2.Vec) r2.Vec {
		return r2.Vec{
			X: J[0][0]*p.X + J[0][1]*p.Y,
			Y: J[1][0]*p.X + J[1][1]*p.Y,
		}
	})
}

func sortedEig(vals []complex128) []complex128 {
	sort.Slice(vals, func(i, j int) bool {
		if real(vals[i]) != real(vals[j]) {
			return real(vals[i]) < real(vals[j])
		}
		return imag(vals[i]) < imag(vals[j])
	})
	return vals
}

func TestCriticalPoints(t *testing.T) {
	cases := []struct {
		J    Jacobian
		want CriticalPoint
	}{
		{Jacobian{{0, -1}, {1, 0}}, Center},
		{Jacobian{{1, 0}, {0, -1}}, Saddle},
		{Jacobian{{0.5, -1}, {1, 0.5}}, RepellingFocus},
		{Jacobian{{-0.5, -1}, {1, -0.5}}, AttractingFocus},
		{Jacobian{{1, 0}, {0, 2}}, RepellingSaddle},
		{Jacobian{{-1, 0.2}, {0, -2}}, AttractingSaddle},
		{Jacobian{{0, 0}, {0, 0}}, CriticalNone},
		{Jacobian{{1, 0}, {0, 0}}, CriticalNone},
	}
	for _, c := range cases {
		vf := linearField(c.J)
		J := vf.Jacobian(r2.Vec{X: 0.3, Y: -0.2})
		for i := 0; i < 2; i++ {
			for j := 0; j < 2; j++ {
				assert.InDelta(t, c.J[i][j], J[i][j], 1.e-12)
			}
		}
		assert.Equal(t, c.want, vf.CriticalPointType(r2.Vec{X: 0.3, Y: -0.2}), "J = %v", c.J)

		// Eigenvalues agree with a general purpose solver
		var eig mat.Eigen
		require.True(t, eig.Factorize(c.J.Dense(), mat.EigenNone))
		want := sortedEig(eig.Values(nil))
		l1, l2 := c.J.Eigenvalues()
		have := sortedEig([]complex128{l1, l2})
		for n := range want {
			assert.InDelta(t, real(want[n]), real(have[n]), 1.e-12)
			assert.InDelta(t, imag(want[n]), imag(have[n]), 1.e-12)
		}
	}
	{ // Names
		cp, err := NewCriticalPoint("Attracting-Focus")
		require.NoError(t, err)
		assert.Equal(t, AttractingFocus, cp)
		assert.True(t, cp.IsFocus())
		assert.Equal(t, "Saddle", Saddle.String())
		_, err = NewCriticalPoint("node")
		assert.Error(t, err)
	}
}

func TestVorticity(t *testing.T) {
	vf := linearField(Jacobian{{0, -1}, {1, 0}})
	assert.InDelta(t, -2., vf.Vorticity(r2.Vec{X: 1, Y: 1}), 1.e-12)
	assert.InDelta(t, 0., vf.Divergence(r2.Vec{X: 1, Y: 1}), 1.e-12)

	region := grid.NewRect(-2.4, -1.6, 1.5, 2.2)
	sf, err := vf.VorticityField(false, &region)
	require.NoError(t, err)
	assert.Equal(t, 5, sf.NX)
	assert.Equal(t, 5, sf.NY)
	assert.Equal(t, grid.NewRect(-2, -2, 2, 2), sf.Rect)
	min, max, ok := sf.Range()
	assert.True(t, ok)
	assert.InDelta(t, -2., min, 1.e-12)
	assert.InDelta(t, -2., max, 1.e-12)

	abs, err := vf.VorticityField(true, nil)
	require.NoError(t, err)
	assert.Equal(t, vf.Grid, abs.Grid)
	assert.InDelta(t, 2., abs.At(5, 5), 1.e-12)

	mag, err := vf.MagnitudeField(nil)
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(50), mag.At(0, 0), 1.e-12)

	dt, err := NewDerivedType("divergence")
	require.NoError(t, err)
	assert.Equal(t, DerivedDivergence, dt)
}

func TestVectorFieldView(t *testing.T) {
	g := grid.MustNew(4, 4, grid.NewRect(0, 0, 3, 3))
	buf := make([]float64, 2*g.Len())
	vf, err := NewVectorFieldView(g, buf)
	require.NoError(t, err)
	assert.False(t, vf.Owned())
	buf[2*g.Index(1, 2)] = 7
	assert.Equal(t, r2.Vec{X: 7}, vf.At(1, 2))

	c := vf.Clone()
	assert.True(t, c.Owned())
	buf[2*g.Index(1, 2)] = 0
	assert.Equal(t, r2.Vec{X: 7}, c.At(1, 2))

	_, err = NewVectorFieldView(g, buf[1:])
	assert.True(t, errors.Is(err, grid.ErrBufferSize))
}

func TestSeries(t *testing.T) {
	g := grid.MustNew(4, 4, grid.NewRect(0, 0, 3, 3))
	f0 := NewVectorFieldFunc(g, func(r2.Vec) r2.Vec { return r2.Vec{X: 1} })
	f1 := NewVectorFieldFunc(g, func(r2.Vec) r2.Vec { return r2.Vec{X: 3} })
	s, err := NewSeries(f0, f1)
	require.NoError(t, err)
	p := r2.Vec{X: 1.2, Y: 2.7}
	assert.Equal(t, r2.Vec{X: 2}, s.SampleAt(0.5, p))
	assert.Equal(t, r2.Vec{X: 3}, s.SampleAt(5, p))
	assert.Equal(t, r2.Vec{X: 1}, s.SampleAt(-1, p))
	assert.Equal(t, f1, s.Frame(9))

	other := NewVectorField(grid.MustNew(5, 4, grid.NewRect(0, 0, 3, 3)))
	_, err = NewSeries(f0, other)
	assert.True(t, errors.Is(err, grid.ErrInvalidGrid))

	{ // Views onto a packed multi-frame buffer
		buf := make([]float64, 3*2*g.Len())
		for n := 0; n < 3; n++ {
			for i := 0; i < g.Len(); i++ {
				buf[n*2*g.Len()+2*i+1] = float64(n)
			}
		}
		s, err = NewSeriesFromBuffer(g, 3, buf)
		require.NoError(t, err)
		assert.Equal(t, 3, s.NumFrames())
		assert.False(t, s.Frame(1).Owned())
		assert.InDelta(t, 1.5, s.SampleAt(1.5, p).Y, 1.e-12)
	}
}
