package field

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/notargets/goflowvis/grid"
)

/*
VectorField stores (u,v) pairs interleaved in a row major buffer. A field built
with NewVectorFieldView borrows the caller's buffer (typically one frame of a
time series) and never copies or frees it; Owned reports which case applies.
*/
type VectorField struct {
	grid.Grid
	data  []float64
	owned bool
}

func NewVectorField(g grid.Grid) *VectorField {
	return &VectorField{
		Grid:  g,
		data:  make([]float64, 2*g.Len()),
		owned: true,
	}
}

// NewVectorFieldView wraps buf without copying, buf must hold 2*NX*NY values
func NewVectorFieldView(g grid.Grid, buf []float64) (vf *VectorField, err error) {
	if len(buf) != 2*g.Len() {
		err = fmt.Errorf("%w: have %d values, need %d", grid.ErrBufferSize, len(buf), 2*g.Len())
		return
	}
	vf = &VectorField{Grid: g, data: buf}
	return
}

func (vf *VectorField) Layout() grid.Grid { return vf.Grid }

func (vf *VectorField) Owned() bool { return vf.owned }

// Data exposes the interleaved buffer
func (vf *VectorField) Data() []float64 { return vf.data }

func (vf *VectorField) At(i, j int) r2.Vec {
	ind := 2 * vf.Index(i, j)
	return r2.Vec{X: vf.data[ind], Y: vf.data[ind+1]}
}

func (vf *VectorField) Set(i, j int, v r2.Vec) {
	ind := 2 * vf.Index(i, j)
	vf.data[ind], vf.data[ind+1] = v.X, v.Y
}

// Clone returns an owned deep copy, detaching a view from its frame buffer
func (vf *VectorField) Clone() (r *VectorField) {
	r = NewVectorField(vf.Grid)
	copy(r.data, vf.data)
	return
}

// SampleGrid interpolates both components bilinearly with the same clamp policy as ScalarField
func (vf *VectorField) SampleGrid(gp r2.Vec) r2.Vec {
	var (
		i0, j0, i1, j1, fx, fy = cell(vf.Grid, gp)
	)
	if fx == 0 && fy == 0 {
		return vf.At(i0, j0)
	}
	var (
		w00, w10 = (1 - fx) * (1 - fy), fx * (1 - fy)
		w01, w11 = (1 - fx) * fy, fx * fy
		v00, v10 = vf.At(i0, j0), vf.At(i1, j0)
		v01, v11 = vf.At(i0, j1), vf.At(i1, j1)
	)
	return r2.Vec{
		X: w00*v00.X + w10*v10.X + w01*v01.X + w11*v11.X,
		Y: w00*v00.Y + w10*v10.Y + w01*v01.Y + w11*v11.Y,
	}
}

func (vf *VectorField) Sample(p r2.Vec) r2.Vec {
	return vf.SampleGrid(vf.ToGrid(p))
}

// VelocityGrid samples the field and converts it to grid units per unit time.
// The frame time is ignored, a single field is steady.
func (vf *VectorField) VelocityGrid(_ float64, gp r2.Vec) r2.Vec {
	return vf.VelocityToGrid(vf.SampleGrid(gp))
}

// JacobianGrid holds central differences taken half a grid unit either side
func (vf *VectorField) JacobianGrid(gp r2.Vec) (J Jacobian) {
	var (
		dx = r2.Vec{X: diffStep}
		dy = r2.Vec{Y: diffStep}
		h  = 2 * diffStep
	)
	ddx := r2.Scale(1/h, r2.Sub(vf.SampleGrid(r2.Add(gp, dx)), vf.SampleGrid(r2.Sub(gp, dx))))
	ddy := r2.Scale(1/h, r2.Sub(vf.SampleGrid(r2.Add(gp, dy)), vf.SampleGrid(r2.Sub(gp, dy))))
	J = Jacobian{
		{ddx.X, ddy.X}, // Ux, Uy
		{ddx.Y, ddy.Y}, // Vx, Vy
	}
	return
}

func (vf *VectorField) Jacobian(p r2.Vec) Jacobian {
	return vf.JacobianGrid(vf.ToGrid(p))
}

// Vorticity is Uy - Vx, positive for counter-clockwise rotation with y pointing down
func (vf *VectorField) Vorticity(p r2.Vec) float64 {
	return vf.Jacobian(p).Vorticity()
}

func (vf *VectorField) Divergence(p r2.Vec) float64 {
	return vf.Jacobian(p).Trace()
}

func (vf *VectorField) CriticalPointType(p r2.Vec) CriticalPoint {
	return vf.Jacobian(p).Classify()
}

// MaxMagnitude is the largest sample speed
func (vf *VectorField) MaxMagnitude() (m float64) {
	for i := 0; i < len(vf.data); i += 2 {
		m = math.Max(m, math.Hypot(vf.data[i], vf.data[i+1]))
	}
	return
}

// NewVectorFieldFunc samples f at every grid location
func NewVectorFieldFunc(g grid.Grid, f func(p r2.Vec) r2.Vec) (vf *VectorField) {
	vf = NewVectorField(g)
	for j := 0; j < g.NY; j++ {
		for i := 0; i < g.NX; i++ {
			vf.Set(i, j, f(g.SamplePosition(i, j)))
		}
	}
	return
}
