package vortex

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/notargets/goflowvis/field"
	"github.com/notargets/goflowvis/grid"
	"github.com/notargets/goflowvis/utils"
)

const (
	// Refinement windows tried before giving up
	maxWindows = 10
	// Below this gradient magnitude the measuring axes are undefined
	degenerateTol = 1.e-12
)

/*
RefineCore moves p to the nearby maximum of absolute vorticity. The ascent runs
on a window a third of the shorter domain extent wide, centered on the current
estimate and clipped to the domain; when it walks out of the window the window
is re-centered on the last position reached. A positive smoothHalfSize applies
a Gaussian smoothing pass to each window before the ascent.
*/
func RefineCore(vf *field.VectorField, p r2.Vec, smoothHalfSize int) (core r2.Vec, ok bool) {
	var (
		g    = vf.Layout()
		half = 0.5 * math.Min(g.Rect.Width(), g.Rect.Height()) / 3
		est  = p
	)
	if !g.ContainsDomain(p) {
		return field.Failed, false
	}
	for w := 0; w < maxWindows; w++ {
		win, inside := grid.NewRect(est.X-half, est.Y-half, est.X+half, est.Y+half).Intersect(g.Rect)
		if !inside {
			break
		}
		abs, err := vf.VorticityField(true, &win)
		if err != nil {
			utils.Logger().Debug("refine window rejected", "window", win.String(), "err", err)
			break
		}
		if smoothHalfSize > 0 {
			abs.Smooth(smoothHalfSize)
		}
		a := abs.Ascend(est)
		if a.OK {
			utils.Logger().Debug("vortex core refined", "windows", w+1, "iterations", a.Iterations)
			return a.End, true
		}
		if a.Last == est {
			break
		}
		est = a.Last
	}
	return field.Failed, false
}

// Measurement is the extent of a vortex along its gradient (Radius1) and co-gradient (Radius2) axes
type Measurement struct {
	Radius1 float64
	Radius2 float64
	Angle   float64 // degrees between the gradient axis and the x axis, in [0,180]
	OK      bool
}

/*
Measure walks out from core in unit grid steps along the normalized gradient
of vort and along its perpendicular, stopping on each axis at the first sample
below threshold times the value at the core. Leaving the grid on either axis,
or a vanishing gradient at the core, fails with a zero Measurement.
*/
func Measure(vort *field.ScalarField, core r2.Vec, threshold float64) (m Measurement) {
	var (
		g  = vort.Layout()
		gp = g.ToGrid(core)
	)
	if !g.ContainsGrid(gp) {
		return
	}
	grad := vort.GradientGrid(gp)
	n := r2.Norm(grad)
	if n < degenerateTol {
		utils.Logger().Debug("degenerate gradient at vortex core", "core", core)
		return
	}
	var (
		dir   = r2.Scale(1/n, grad)
		co    = r2.Vec{X: -dir.Y, Y: dir.X}
		limit = threshold * vort.SampleGrid(gp)
	)
	along, ok1 := walk(vort, gp, dir, limit)
	across, ok2 := walk(vort, gp, co, limit)
	if !ok1 || !ok2 {
		return
	}
	return Measurement{
		Radius1: along,
		Radius2: across,
		Angle:   math.Acos(math.Max(-1, math.Min(1, dir.X))) * 180 / math.Pi,
		OK:      true,
	}
}

func walk(vort *field.ScalarField, start, dir r2.Vec, limit float64) (radius float64, ok bool) {
	var (
		g   = vort.Layout()
		pos = start
	)
	for {
		pos = r2.Add(pos, dir)
		if !g.ContainsGrid(pos) {
			return 0, false
		}
		if vort.SampleGrid(pos) < limit {
			return r2.Norm(r2.Sub(g.ToDomain(pos), g.ToDomain(start))), true
		}
	}
}
