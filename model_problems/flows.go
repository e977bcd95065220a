package model_problems

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/notargets/goflowvis/field"
	"github.com/notargets/goflowvis/grid"
	"github.com/notargets/goflowvis/model_problems/isentropic_vortex"
)

// Analytic is a velocity field known in closed form at any time and position
type Analytic interface {
	Velocity(t float64, p r2.Vec) r2.Vec
}

type FlowType uint8

const (
	FLOW_Uniform FlowType = iota
	FLOW_Rotation
	FLOW_Saddle
	FLOW_GaussianVortex
	FLOW_IsentropicVortex
)

var (
	FlowNames = map[string]FlowType{
		"uniform":           FLOW_Uniform,
		"rotation":          FLOW_Rotation,
		"saddle":            FLOW_Saddle,
		"gaussian-vortex":   FLOW_GaussianVortex,
		"lamb-oseen":        FLOW_GaussianVortex,
		"isentropic-vortex": FLOW_IsentropicVortex,
		"ivortex":           FLOW_IsentropicVortex,
	}
	FlowPrintNames = []string{"Uniform", "Solid Body Rotation", "Saddle", "Gaussian Vortex", "Isentropic Vortex"}
)

func (ft FlowType) String() string {
	if int(ft) < len(FlowPrintNames) {
		return FlowPrintNames[ft]
	}
	return fmt.Sprintf("FlowType(%d)", uint8(ft))
}

func NewFlowType(label string) (ft FlowType, err error) {
	var ok bool
	if ft, ok = FlowNames[strings.ToLower(label)]; !ok {
		err = fmt.Errorf("unknown flow model %s", label)
	}
	return
}

// FlowParameters configures any of the model flows, fields a flow does not use are ignored
type FlowParameters struct {
	Type     FlowType
	Center   r2.Vec
	Strength float64 // angular velocity, strain rate, circulation or vortex beta
	Radius   float64 // core radius of the Gaussian vortex
	Drift    r2.Vec  // translation velocity of the flow pattern
	Gamma    float64 // ratio of specific heats for the isentropic vortex
}

func NewAnalytic(fp FlowParameters) (f Analytic, err error) {
	switch fp.Type {
	case FLOW_Uniform:
		f = Uniform{U: fp.Drift}
	case FLOW_Rotation:
		f = Rotation{Center: fp.Center, Omega: fp.Strength, Drift: fp.Drift}
	case FLOW_Saddle:
		f = Saddle{Center: fp.Center, Rate: fp.Strength}
	case FLOW_GaussianVortex:
		if fp.Radius <= 0 {
			err = fmt.Errorf("gaussian vortex core radius must be positive, have %g", fp.Radius)
			return
		}
		f = GaussianVortex{Center: fp.Center, Circulation: fp.Strength, CoreRadius: fp.Radius, Drift: fp.Drift}
	case FLOW_IsentropicVortex:
		gamma := fp.Gamma
		if gamma == 0 {
			gamma = 1.4
		}
		if gamma <= 1 {
			err = fmt.Errorf("ratio of specific heats must exceed one, have %g", gamma)
			return
		}
		f = isentropic_vortex.NewIVortex(fp.Strength, fp.Center.X, fp.Center.Y, gamma, fp.Drift.X)
	default:
		err = fmt.Errorf("unknown flow model %d", fp.Type)
	}
	return
}

type Uniform struct {
	U r2.Vec
}

func (f Uniform) Velocity(float64, r2.Vec) r2.Vec { return f.U }

// Rotation is solid body rotation u = -Omega*y, v = Omega*x about Center, which moves with Drift
type Rotation struct {
	Center r2.Vec
	Omega  float64
	Drift  r2.Vec
}

func (f Rotation) Velocity(t float64, p r2.Vec) r2.Vec {
	d := r2.Sub(p, r2.Add(f.Center, r2.Scale(t, f.Drift)))
	return r2.Add(f.Drift, r2.Vec{X: -f.Omega * d.Y, Y: f.Omega * d.X})
}

// Saddle is the pure strain u = Rate*x, v = -Rate*y about Center
type Saddle struct {
	Center r2.Vec
	Rate   float64
}

func (f Saddle) Velocity(_ float64, p r2.Vec) r2.Vec {
	d := r2.Sub(p, f.Center)
	return r2.Vec{X: f.Rate * d.X, Y: -f.Rate * d.Y}
}

/*
GaussianVortex is the Lamb-Oseen vortex: the tangential velocity is
Circulation/(2 pi r) * (1 - exp(-r^2/CoreRadius^2)), giving a Gaussian vorticity
distribution. The pattern translates with Drift.
*/
type GaussianVortex struct {
	Center      r2.Vec
	Circulation float64
	CoreRadius  float64
	Drift       r2.Vec
}

func (f GaussianVortex) CenterAt(t float64) r2.Vec {
	return r2.Add(f.Center, r2.Scale(t, f.Drift))
}

func (f GaussianVortex) Velocity(t float64, p r2.Vec) r2.Vec {
	var (
		d   = r2.Sub(p, f.CenterAt(t))
		rsq = r2.Norm2(d)
		a2  = f.CoreRadius * f.CoreRadius
		// vTheta/r, finite at the center
		omega float64
	)
	if rsq < 1.e-12*a2 {
		omega = f.Circulation / (2 * math.Pi * a2)
	} else {
		omega = f.Circulation / (2 * math.Pi * rsq) * (1 - math.Exp(-rsq/a2))
	}
	return r2.Add(f.Drift, r2.Vec{X: -omega * d.Y, Y: omega * d.X})
}

// PeakVorticity is the magnitude of the vorticity at the center
func (f GaussianVortex) PeakVorticity() float64 {
	return math.Abs(f.Circulation) / (math.Pi * f.CoreRadius * f.CoreRadius)
}

// Sample evaluates f at time t on every sample of g
func Sample(f Analytic, g grid.Grid, t float64) *field.VectorField {
	return field.NewVectorFieldFunc(g, func(p r2.Vec) r2.Vec {
		return f.Velocity(t, p)
	})
}

/*
SampleSeries evaluates nFrames frames at times t0 + n*dt into one packed
buffer and returns the frames as views onto it.
*/
func SampleSeries(f Analytic, g grid.Grid, t0, dt float64, nFrames int) (s *field.Series, err error) {
	if nFrames < 1 {
		err = fmt.Errorf("%w: need at least one frame, have %d", grid.ErrInvalidGrid, nFrames)
		return
	}
	var (
		stride = 2 * g.Len()
		buf    = make([]float64, nFrames*stride)
	)
	for n := 0; n < nFrames; n++ {
		t := t0 + float64(n)*dt
		frame := buf[n*stride : (n+1)*stride]
		for j := 0; j < g.NY; j++ {
			for i := 0; i < g.NX; i++ {
				v := f.Velocity(t, g.SamplePosition(i, j))
				ind := 2 * g.Index(i, j)
				frame[ind], frame[ind+1] = v.X, v.Y
			}
		}
	}
	return field.NewSeriesFromBuffer(g, nFrames, buf)
}
