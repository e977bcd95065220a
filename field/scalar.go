package field

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/notargets/goflowvis/grid"
	"github.com/notargets/goflowvis/utils"
)

const (
	// Half grid unit step for central differences
	diffStep = 0.5
	// Gradient ascent parameters
	ascentStep    = 0.1
	ascentTol     = 1.e-3
	ascentMaxIter = 10000
	// Grid coordinates this close to an integer are treated as sample locations
	snapTol = 1.e-9
)

// Failed is the sentinel position returned by searches that leave the grid
var Failed = r2.Vec{X: -1, Y: -1}

/*
ScalarField is a dense row major array of NX*NY samples. The optional cached
range is only meaningful after SetRange or UpdateRange has been called.
*/
type ScalarField struct {
	grid.Grid
	data     []float64
	min, max float64
	hasRange bool
}

func NewScalarField(g grid.Grid) *ScalarField {
	return &ScalarField{
		Grid: g,
		data: make([]float64, g.Len()),
	}
}

// NewScalarFieldFromData takes ownership of data, which must hold NX*NY values
func NewScalarFieldFromData(g grid.Grid, data []float64) (sf *ScalarField, err error) {
	if len(data) != g.Len() {
		err = fmt.Errorf("%w: have %d values, need %d", grid.ErrBufferSize, len(data), g.Len())
		return
	}
	sf = &ScalarField{Grid: g, data: data}
	return
}

func (sf *ScalarField) Layout() grid.Grid { return sf.Grid }

func (sf *ScalarField) Values() []float64 { return sf.data }

func (sf *ScalarField) At(i, j int) float64 { return sf.data[sf.Index(i, j)] }

func (sf *ScalarField) Set(i, j int, val float64) { sf.data[sf.Index(i, j)] = val }

func (sf *ScalarField) SetRange(min, max float64) {
	sf.min, sf.max, sf.hasRange = min, max, true
}

// UpdateRange scans the samples and caches the min/max
func (sf *ScalarField) UpdateRange() {
	sf.SetRange(floats.Min(sf.data), floats.Max(sf.data))
}

func (sf *ScalarField) Range() (min, max float64, ok bool) {
	return sf.min, sf.max, sf.hasRange
}

func snap(x float64) float64 {
	r := math.Round(x)
	if math.Abs(x-r) < snapTol {
		return r
	}
	return x
}

// cell clamps gp into the grid and returns the lower corner and weights of its cell
func cell(g grid.Grid, gp r2.Vec) (i0, j0, i1, j1 int, fx, fy float64) {
	gp = g.ClampGrid(gp)
	gp.X, gp.Y = snap(gp.X), snap(gp.Y)
	i0, j0 = int(gp.X), int(gp.Y)
	fx, fy = gp.X-float64(i0), gp.Y-float64(j0)
	i1, j1 = min(i0+1, g.NX-1), min(j0+1, g.NY-1)
	return
}

// SampleGrid interpolates bilinearly at a grid coordinate, clamping at the boundary
func (sf *ScalarField) SampleGrid(gp r2.Vec) float64 {
	var (
		i0, j0, i1, j1, fx, fy = cell(sf.Grid, gp)
		d                      = sf.data
	)
	if fx == 0 && fy == 0 {
		return d[sf.Index(i0, j0)]
	}
	return (1-fx)*(1-fy)*d[sf.Index(i0, j0)] +
		fx*(1-fy)*d[sf.Index(i1, j0)] +
		(1-fx)*fy*d[sf.Index(i0, j1)] +
		fx*fy*d[sf.Index(i1, j1)]
}

func (sf *ScalarField) Sample(p r2.Vec) float64 {
	return sf.SampleGrid(sf.ToGrid(p))
}

// GradientGrid is the central difference gradient per grid unit
func (sf *ScalarField) GradientGrid(gp r2.Vec) r2.Vec {
	var (
		dx = r2.Vec{X: diffStep}
		dy = r2.Vec{Y: diffStep}
		h  = 2 * diffStep
	)
	return r2.Vec{
		X: (sf.SampleGrid(r2.Add(gp, dx)) - sf.SampleGrid(r2.Sub(gp, dx))) / h,
		Y: (sf.SampleGrid(r2.Add(gp, dy)) - sf.SampleGrid(r2.Sub(gp, dy))) / h,
	}
}

func (sf *ScalarField) Gradient(p r2.Vec) r2.Vec {
	return sf.GradientGrid(sf.ToGrid(p))
}

// Ascent is the outcome of a gradient ascent, Last is the final position inside the grid
type Ascent struct {
	End        r2.Vec
	Last       r2.Vec
	Iterations int
	OK         bool
}

/*
Ascend climbs the field from start (domain coordinates) until the gradient
magnitude falls below tolerance. Leaving the grid, or running out of
iterations, fails with End set to Failed.
*/
func (sf *ScalarField) Ascend(start r2.Vec) (a Ascent) {
	var (
		pos = sf.ToGrid(start)
	)
	a.End, a.Last = Failed, start
	for a.Iterations = 0; a.Iterations < ascentMaxIter; a.Iterations++ {
		if !sf.ContainsGrid(pos) {
			utils.Logger().Debug("gradient ascent left the grid", "iterations", a.Iterations)
			return
		}
		a.Last = sf.ToDomain(pos)
		grad := sf.GradientGrid(pos)
		if r2.Norm(grad) < ascentTol {
			utils.Logger().Debug("gradient ascent converged", "iterations", a.Iterations)
			a.End, a.OK = a.Last, true
			return
		}
		pos = r2.Add(pos, r2.Scale(ascentStep, grad))
	}
	utils.Logger().Debug("gradient ascent did not converge", "iterations", a.Iterations)
	return
}

// GradientAscent returns the local maximum reached from start, or (Failed, false)
func (sf *ScalarField) GradientAscent(start r2.Vec) (end r2.Vec, ok bool) {
	a := sf.Ascend(start)
	return a.End, a.OK
}

// Abs returns a new field of absolute values with its range set
func (sf *ScalarField) Abs() (r *ScalarField) {
	r = NewScalarField(sf.Grid)
	for i, val := range sf.data {
		r.data[i] = math.Abs(val)
	}
	r.UpdateRange()
	return
}

func (sf *ScalarField) Clone() (r *ScalarField) {
	r = &ScalarField{
		Grid:     sf.Grid,
		data:     make([]float64, len(sf.data)),
		min:      sf.min,
		max:      sf.max,
		hasRange: sf.hasRange,
	}
	copy(r.data, sf.data)
	return
}

// NewScalarFieldFunc samples f at every grid location and sets the range
func NewScalarFieldFunc(g grid.Grid, f func(p r2.Vec) float64) (sf *ScalarField) {
	sf = NewScalarField(g)
	for j := 0; j < g.NY; j++ {
		for i := 0; i < g.NX; i++ {
			sf.Set(i, j, f(g.SamplePosition(i, j)))
		}
	}
	sf.UpdateRange()
	return
}
