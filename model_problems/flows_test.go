package model_problems

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/notargets/goflowvis/field"
	"github.com/notargets/goflowvis/grid"
)

func TestFlows(t *testing.T) {
	g := grid.MustNew(41, 41, grid.NewRect(-20, -20, 20, 20))
	{ // Rotation has uniform vorticity of magnitude 2*Omega
		vf := Sample(Rotation{Omega: 0.5}, g, 0)
		assert.InDelta(t, -1., vf.Vorticity(r2.Vec{X: 3.3, Y: -7.1}), 1.e-12)
		assert.Equal(t, field.Center, vf.CriticalPointType(r2.Vec{}))
	}
	{ // Saddle
		vf := Sample(Saddle{Rate: 1}, g, 0)
		assert.Equal(t, field.Saddle, vf.CriticalPointType(r2.Vec{X: 1, Y: 2}))
		assert.InDelta(t, 0., vf.Divergence(r2.Vec{X: 1, Y: 2}), 1.e-12)
	}
	{ // Gaussian vortex peak vorticity and far field decay
		gv := GaussianVortex{Circulation: 25 * math.Pi, CoreRadius: 5}
		assert.InDelta(t, 1., gv.PeakVorticity(), 1.e-12)
		vf := Sample(gv, g, 0)
		assert.InDelta(t, -1., vf.Vorticity(r2.Vec{}), 0.03)
		assert.InDelta(t, 0., vf.Vorticity(r2.Vec{X: 18}), 1.e-3)
		assert.Equal(t, r2.Vec{}, gv.Velocity(0, r2.Vec{}))
		// Circulation around a large circle approaches the total
		v := gv.Velocity(0, r2.Vec{X: 30})
		assert.InDelta(t, gv.Circulation, 2*math.Pi*30*v.Y, 1.e-6)
	}
	{ // Named construction
		ft, err := NewFlowType("Lamb-Oseen")
		require.NoError(t, err)
		assert.Equal(t, FLOW_GaussianVortex, ft)
		_, err = NewAnalytic(FlowParameters{Type: ft})
		assert.Error(t, err)
		f, err := NewAnalytic(FlowParameters{Type: FLOW_IsentropicVortex, Strength: 5, Drift: r2.Vec{X: 1}})
		require.NoError(t, err)
		assert.InDelta(t, 1., f.Velocity(0, r2.Vec{X: 15}).X, 1.e-8)
		_, err = NewAnalytic(FlowParameters{Type: FLOW_IsentropicVortex, Gamma: 0.5})
		assert.Error(t, err)
		_, err = NewFlowType("jet")
		assert.Error(t, err)
		assert.Equal(t, "Saddle", FLOW_Saddle.String())
	}
}

func TestSampleSeries(t *testing.T) {
	g := grid.MustNew(21, 11, grid.NewRect(0, 0, 20, 10))
	gv := GaussianVortex{Center: r2.Vec{X: 5, Y: 5}, Circulation: 10, CoreRadius: 2, Drift: r2.Vec{X: 2}}
	s, err := SampleSeries(gv, g, 0, 0.5, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, s.NumFrames())
	assert.False(t, s.Frame(0).Owned())
	for n := 0; n < 5; n++ {
		p := r2.Vec{X: 7, Y: 4}
		want := gv.Velocity(0.5*float64(n), p)
		have := s.Frame(n).Sample(p)
		assert.InDelta(t, want.X, have.X, 1.e-12)
		assert.InDelta(t, want.Y, have.Y, 1.e-12)
	}
	_, err = SampleSeries(gv, g, 0, 1, 0)
	assert.Error(t, err)
}
