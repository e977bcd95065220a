package InputParameters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/notargets/goflowvis/integrate"
	mp "github.com/notargets/goflowvis/model_problems"
)

func TestParse(t *testing.T) {
	fileInput := []byte(`
Title: Translating vortex
Flow:
  Model: isentropic-vortex # any of the model flows
  Center: [5, 0]
  Strength: 5
  Drift: [1, 0]
Grid:
  NX: 41
  NY: 21
  Domain: [0, -5, 20, 5]
Frames: 8
FrameDt: 0.5
Curve:
  Type: PathLine
  Origin: [2, 1]
  MaxSteps: 20
  FixedStartFrame: true
  StartFrame: 3
LIC:
  Width: 128
  Seed: 42
`)
	ip := NewAnalysisParameters()
	require.NoError(t, ip.Parse(fileInput))
	ip.Print()
	require.NoError(t, ip.Validate())

	assert.Equal(t, "Translating vortex", ip.Title)
	assert.Equal(t, 8, ip.Frames)
	{ // Flow
		fp, err := ip.FlowParameters()
		require.NoError(t, err)
		assert.Equal(t, mp.FLOW_IsentropicVortex, fp.Type)
		assert.Equal(t, r2.Vec{X: 5}, fp.Center)
		assert.Equal(t, 1.4, fp.Gamma) // default kept
	}
	{ // Grid
		g, err := ip.DomainGrid()
		require.NoError(t, err)
		assert.Equal(t, 41, g.NX)
		assert.Equal(t, -5., g.Rect.Min.Y)
	}
	{ // Curve: unset keys keep their defaults
		r, err := ip.CurveRequest()
		require.NoError(t, err)
		assert.Equal(t, integrate.PathLine, r.Type)
		assert.Equal(t, 0.5, r.Params.StepLength)
		assert.Equal(t, 20, r.Params.MaxSteps)
		assert.Equal(t, 3, r.Resolve(0).StartFrame)
	}
	{ // LIC and vortex
		lp := ip.LICParams()
		assert.Equal(t, 128, lp.Width)
		assert.Equal(t, 256, lp.Height)
		assert.Equal(t, uint64(42), lp.Seed)
		assert.Equal(t, "vorticity-threshold", ip.VortexConfig().Detector)
	}
}

func TestValidate(t *testing.T) {
	ip := NewAnalysisParameters()
	require.NoError(t, ip.Validate())
	require.NoError(t, ip.Parse([]byte(`
Flow:
  Model: jet
Grid:
  NX: 1
Curve:
  Type: ribbon
Vortex:
  Threshold: 2
LIC:
  KernelHalfSize: 0
`)))
	err := ip.Validate()
	require.Error(t, err)
	for _, want := range []string{"jet", "ribbon", "thresholds", "kernel"} {
		assert.Contains(t, err.Error(), want)
	}
	assert.Error(t, ip.Parse([]byte("Frames: [1")))
}
