package integrate

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/notargets/goflowvis/grid"
)

// Below this speed (grid units) a normalized trace stops at a stagnation point
const stagnationTol = 1.e-12

// Flow is a velocity source, steady (field.VectorField) or time dependent (field.Series)
type Flow interface {
	Layout() grid.Grid
	// VelocityGrid is the velocity at grid coordinate gp and frame time t, in grid units
	VelocityGrid(t float64, gp r2.Vec) r2.Vec
}

// Curve is an ordered sequence of domain coordinate points
type Curve []r2.Vec

type Params struct {
	StepLength float64 // h, may be negative to integrate backwards
	MaxSteps   int     // points produced, including the origin
	FrameStep  float64 // frames advanced per step for time dependent curves, zero means one
	Normalized bool    // integrate the unit direction field
}

func (p Params) frameStep() float64 {
	if p.FrameStep == 0 {
		return 1
	}
	return p.FrameStep
}

func velocity(f Flow, t float64, gp r2.Vec, normalized bool) (v r2.Vec, ok bool) {
	v = f.VelocityGrid(t, gp)
	if normalized {
		n := r2.Norm(v)
		if n < stagnationTol {
			return v, false
		}
		v = r2.Scale(1/n, v)
	}
	return v, true
}

// rk4Step advances gp by one classical Runge-Kutta step of length h, the frame time moves from t to t+dt
func rk4Step(f Flow, t, dt float64, gp r2.Vec, h float64, normalized bool) (next r2.Vec, ok bool) {
	var (
		k1, k2, k3, k4 r2.Vec
	)
	if k1, ok = velocity(f, t, gp, normalized); !ok {
		return
	}
	if k2, ok = velocity(f, t+0.5*dt, r2.Add(gp, r2.Scale(0.5*h, k1)), normalized); !ok {
		return
	}
	if k3, ok = velocity(f, t+0.5*dt, r2.Add(gp, r2.Scale(0.5*h, k2)), normalized); !ok {
		return
	}
	if k4, ok = velocity(f, t+dt, r2.Add(gp, r2.Scale(h, k3)), normalized); !ok {
		return
	}
	sum := r2.Add(r2.Add(k1, r2.Scale(2, k2)), r2.Add(r2.Scale(2, k3), k4))
	next = r2.Add(gp, r2.Scale(h/6, sum))
	return
}

/*
trace integrates from origin for up to maxSteps points. The frame time starts
at t0 and advances dt per step (dt = 0 freezes time). The curve is truncated,
not failed, when a step leaves the grid or reaches a stagnation point.
*/
func trace(f Flow, origin r2.Vec, t0, dt float64, p Params) (c Curve) {
	var (
		g   = f.Layout()
		pos = g.ToGrid(origin)
		t   = t0
	)
	if p.MaxSteps <= 0 || !g.ContainsGrid(pos) {
		return
	}
	c = make(Curve, 1, p.MaxSteps)
	c[0] = origin
	for k := 1; k < p.MaxSteps; k++ {
		next, ok := rk4Step(f, t, dt, pos, p.StepLength, p.Normalized)
		if !ok || !g.ContainsGrid(next) {
			break
		}
		pos, t = next, t+dt
		c = append(c, g.ToDomain(pos))
	}
	return
}
