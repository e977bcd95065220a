package vortex

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/notargets/goflowvis/field"
	"github.com/notargets/goflowvis/grid"
	mp "github.com/notargets/goflowvis/model_problems"
)

var (
	testGrid   = grid.MustNew(61, 61, grid.NewRect(0, 0, 60, 60))
	testCenter = r2.Vec{X: 30.3, Y: 29.8}
)

// lambOseen has unit peak vorticity and a core radius of 5, rotating clockwise with y down
func lambOseen() *field.VectorField {
	return mp.Sample(mp.GaussianVortex{Center: testCenter, Circulation: 25 * math.Pi, CoreRadius: 5}, testGrid, 0)
}

func TestDetectors(t *testing.T) {
	vf := lambOseen()
	{ // Threshold detector
		d, err := NewDetector("Vorticity-Threshold", 0.5)
		require.NoError(t, err)
		assert.Equal(t, "vorticity-threshold", d.Name())
		assert.True(t, d.Detect(vf, r2.Vec{X: 31, Y: 31}))
		assert.False(t, d.Detect(vf, r2.Vec{X: 50, Y: 50}))
		assert.False(t, d.Detect(vf, r2.Vec{X: -1, Y: 30}))
		// A different field is not answered from the previous one
		calm := mp.Sample(mp.Uniform{U: r2.Vec{X: 1}}, testGrid, 0)
		assert.False(t, d.Detect(calm, r2.Vec{X: 31, Y: 31}))
	}
	{ // A borrowed frame buffer refilled in place is seen as the new frame
		d, err := NewDetector("vorticity-threshold", 0.5)
		require.NoError(t, err)
		buf := make([]float64, 2*testGrid.Len())
		view, err := field.NewVectorFieldView(testGrid, buf)
		require.NoError(t, err)
		assert.False(t, d.Detect(view, testCenter))
		copy(buf, lambOseen().Data())
		assert.True(t, d.Detect(view, testCenter))
		for k := range buf {
			buf[k] = 0
		}
		assert.False(t, d.Detect(view, testCenter))
	}
	{ // Detection against a caller owned absolute vorticity field
		td := &ThresholdDetector{Threshold: 0.5}
		abs, err := vf.VorticityField(true, nil)
		require.NoError(t, err)
		assert.True(t, td.DetectIn(abs, r2.Vec{X: 31, Y: 31}))
		assert.False(t, td.DetectIn(abs, r2.Vec{X: 50, Y: 50}))
		assert.False(t, td.DetectIn(abs, r2.Vec{X: 61, Y: 30}))
		assert.Equal(t, td.Detect(vf, r2.Vec{X: 33, Y: 27}), td.DetectIn(abs, r2.Vec{X: 33, Y: 27}))
	}
	{ // Critical point detector
		d, err := NewDetector("critical-point", 0)
		require.NoError(t, err)
		assert.True(t, d.Detect(vf, r2.Vec{X: 30, Y: 30}))
		assert.False(t, d.Detect(vf, r2.Vec{X: 5, Y: 5}))
	}
	{ // Registry
		assert.Equal(t, []string{"critical-point", "vorticity-threshold"}, Detectors())
		_, err := NewDetector("lambda2", 0.5)
		assert.Error(t, err)
		_, err = NewDetector("vorticity-threshold", 1.5)
		assert.Error(t, err)
		assert.Equal(t, "Critical Point", CriticalPointDetector.String())
	}
}

func TestRefineCore(t *testing.T) {
	vf := lambOseen()
	for _, smooth := range []int{0, 2} {
		core, ok := RefineCore(vf, r2.Vec{X: 26, Y: 33}, smooth)
		require.True(t, ok, "smooth %d", smooth)
		assert.InDelta(t, testCenter.X, core.X, 0.5)
		assert.InDelta(t, testCenter.Y, core.Y, 0.5)
	}
	core, ok := RefineCore(vf, r2.Vec{X: 70, Y: 30}, 0)
	assert.False(t, ok)
	assert.Equal(t, field.Failed, core)
}

func TestMeasure(t *testing.T) {
	vf := lambOseen()
	abs, err := vf.VorticityField(true, nil)
	require.NoError(t, err)
	core, ok := RefineCore(vf, r2.Vec{X: 31, Y: 31}, 0)
	require.True(t, ok)
	{ // Radius shrinks as the threshold rises
		var last = math.Inf(1)
		for _, thr := range []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9} {
			m := Measure(abs, core, thr)
			require.True(t, m.OK, "threshold %g", thr)
			assert.LessOrEqual(t, m.Radius1, last)
			last = m.Radius1
			assert.True(t, m.Angle >= 0 && m.Angle <= 180)
		}
		first := Measure(abs, core, 0.1)
		assert.Greater(t, first.Radius1, last)
	}
	{ // A radially symmetric vortex measures close to round
		m := Measure(abs, core, 0.5)
		want := 5 * math.Sqrt(-math.Log(0.5))
		assert.InDelta(t, want, m.Radius1, 1.5)
		assert.InDelta(t, want, m.Radius2, 1.5)
	}
	{ // Walking off the grid fails
		m := Measure(abs, core, 0)
		assert.False(t, m.OK)
		assert.Equal(t, Measurement{}, m)
		assert.False(t, Measure(abs, r2.Vec{X: 61, Y: 1}, 0.5).OK)
	}
	{ // A vanishing gradient at the core fails
		bump := field.NewScalarFieldFunc(testGrid, func(p r2.Vec) float64 {
			d := r2.Sub(p, r2.Vec{X: 30, Y: 30})
			return math.Exp(-r2.Norm2(d) / 72)
		})
		m := Measure(bump, r2.Vec{X: 30, Y: 30}, 0.5)
		assert.False(t, m.OK)
		assert.Equal(t, 0., m.Radius1)
	}
}

func TestAppearance(t *testing.T) {
	assert.Equal(t, EllipticClockwise, Classify(field.Center, Clockwise))
	assert.Equal(t, SpiralInCounterClockwise, Classify(field.AttractingFocus, CounterClockwise))
	assert.Equal(t, SpiralOutClockwise, Classify(field.RepellingFocus, Clockwise))
	assert.Equal(t, NotVortex, Classify(field.Saddle, Clockwise))
	assert.Equal(t, NotVortex, Classify(field.CriticalNone, CounterClockwise))
	for a := EllipticClockwise; a <= SpiralOutCounterClockwise; a++ {
		rot := a.Rotation()
		want := CounterClockwise
		if a == EllipticClockwise || a == SpiralInClockwise || a == SpiralOutClockwise {
			want = Clockwise
		}
		assert.Equal(t, want, rot, a.String())
	}
	{ // Rotation sense follows the signed vorticity
		vf := lambOseen()
		assert.Equal(t, Clockwise, RotationAt(vf, testCenter))
		ccw := mp.Sample(mp.GaussianVortex{Center: testCenter, Circulation: -10, CoreRadius: 5}, testGrid, 0)
		assert.Equal(t, CounterClockwise, RotationAt(ccw, testCenter))
	}
}

func TestAnalyze(t *testing.T) {
	vf := lambOseen()
	cfg := Config{DetectThreshold: 0.5, MeasureThreshold: 0.5}
	v, err := Analyze(vf, r2.Vec{X: 31, Y: 31}, cfg)
	require.NoError(t, err)
	assert.InDelta(t, testCenter.X, v.Core.X, 0.5)
	assert.InDelta(t, testCenter.Y, v.Core.Y, 0.5)
	assert.Less(t, v.Vorticity, 0.)
	assert.Equal(t, Clockwise, v.Rotation)
	assert.NotEqual(t, NotVortex, v.Appearance)
	assert.Equal(t, Clockwise, v.Appearance.Rotation())
	assert.True(t, v.Measurement.OK)
	assert.NotEmpty(t, v.String())

	_, err = Analyze(vf, r2.Vec{X: 5, Y: 55}, cfg)
	assert.True(t, errors.Is(err, ErrNotDetected))
	cfg.Detector = "okubo-weiss"
	_, err = Analyze(vf, r2.Vec{X: 31, Y: 31}, cfg)
	assert.Error(t, err)
}

func TestFind(t *testing.T) {
	var (
		left  = mp.GaussianVortex{Center: r2.Vec{X: 15.2, Y: 30.4}, Circulation: 25 * math.Pi, CoreRadius: 4}
		right = mp.GaussianVortex{Center: r2.Vec{X: 44.6, Y: 29.7}, Circulation: -25 * math.Pi, CoreRadius: 4}
	)
	vf := field.NewVectorFieldFunc(testGrid, func(p r2.Vec) r2.Vec {
		return r2.Add(left.Velocity(0, p), right.Velocity(0, p))
	})
	vortices, err := Find(vf, 3, Config{DetectThreshold: 0.5, MeasureThreshold: 0.5})
	require.NoError(t, err)
	require.Len(t, vortices, 2)
	var cw, ccw int
	for _, v := range vortices {
		switch v.Rotation {
		case Clockwise:
			cw++
			assert.InDelta(t, left.Center.X, v.Core.X, 0.5)
		case CounterClockwise:
			ccw++
			assert.InDelta(t, right.Center.X, v.Core.X, 0.5)
		}
	}
	assert.Equal(t, 1, cw)
	assert.Equal(t, 1, ccw)

	// The scan shares one vorticity field, point analysis from the same seed agrees with it
	for _, v := range vortices {
		single, err := Analyze(vf, v.Seed, Config{DetectThreshold: 0.5, MeasureThreshold: 0.5})
		require.NoError(t, err)
		assert.Equal(t, v, single)
	}
}
