package grid

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

var (
	ErrInvalidGrid    = errors.New("invalid grid")
	ErrDegenerateRect = errors.New("degenerate rectangle")
	ErrBufferSize     = errors.New("buffer size does not match grid")
)

// Rect is an axis aligned rectangle in domain (physical) units
type Rect struct {
	Min, Max r2.Vec
}

func NewRect(xmin, ymin, xmax, ymax float64) Rect {
	return Rect{Min: r2.Vec{X: xmin, Y: ymin}, Max: r2.Vec{X: xmax, Y: ymax}}
}

// Normalize swaps corners so that Min <= Max on both axes
func (r Rect) Normalize() (rn Rect) {
	rn = r
	if rn.Min.X > rn.Max.X {
		rn.Min.X, rn.Max.X = rn.Max.X, rn.Min.X
	}
	if rn.Min.Y > rn.Max.Y {
		rn.Min.Y, rn.Max.Y = rn.Max.Y, rn.Min.Y
	}
	return
}

func (r Rect) Width() float64  { return r.Max.X - r.Min.X }
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

func (r Rect) Center() r2.Vec {
	return r2.Scale(0.5, r2.Add(r.Min, r.Max))
}

func (r Rect) Contains(p r2.Vec) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Intersect returns the overlap of two normalized rectangles, ok is false when they are disjoint
func (r Rect) Intersect(o Rect) (ri Rect, ok bool) {
	ri = Rect{
		Min: r2.Vec{X: math.Max(r.Min.X, o.Min.X), Y: math.Max(r.Min.Y, o.Min.Y)},
		Max: r2.Vec{X: math.Min(r.Max.X, o.Max.X), Y: math.Min(r.Max.Y, o.Max.Y)},
	}
	ok = ri.Width() >= 0 && ri.Height() >= 0
	return
}

func (r Rect) String() string {
	return fmt.Sprintf("[%g,%g]x[%g,%g]", r.Min.X, r.Max.X, r.Min.Y, r.Max.Y)
}

/*
Grid maps between domain coordinates and grid (sample index) coordinates for a
rectangle sampled NX by NY times. Sample NX-1 sits exactly on Rect.Max.X.
A Grid is immutable once constructed.
*/
type Grid struct {
	NX, NY int
	Rect   Rect
	// cached scale factors: grid units per domain unit
	sx, sy float64
}

func New(nx, ny int, rect Rect) (g Grid, err error) {
	if nx < 2 || ny < 2 {
		err = fmt.Errorf("%w: need at least 2 samples per axis, have %dx%d",
			ErrInvalidGrid, nx, ny)
		return
	}
	rect = rect.Normalize()
	if !(rect.Width() > 0) || !(rect.Height() > 0) {
		err = fmt.Errorf("%w: %s", ErrDegenerateRect, rect)
		return
	}
	g = Grid{
		NX:   nx,
		NY:   ny,
		Rect: rect,
		sx:   float64(nx-1) / rect.Width(),
		sy:   float64(ny-1) / rect.Height(),
	}
	return
}

// MustNew panics on an invalid grid, useful for fixtures and literals
func MustNew(nx, ny int, rect Rect) Grid {
	g, err := New(nx, ny, rect)
	if err != nil {
		panic(err)
	}
	return g
}

func (g Grid) Len() int { return g.NX * g.NY }

// Index is the row major offset of sample (i,j)
func (g Grid) Index(i, j int) int { return i + j*g.NX }

func (g Grid) ToGrid(p r2.Vec) r2.Vec {
	return r2.Vec{
		X: (p.X - g.Rect.Min.X) * g.sx,
		Y: (p.Y - g.Rect.Min.Y) * g.sy,
	}
}

func (g Grid) ToDomain(gp r2.Vec) r2.Vec {
	return r2.Vec{
		X: g.Rect.Min.X + gp.X/g.sx,
		Y: g.Rect.Min.Y + gp.Y/g.sy,
	}
}

// SamplePosition is the domain location of sample (i,j)
func (g Grid) SamplePosition(i, j int) r2.Vec {
	return g.ToDomain(r2.Vec{X: float64(i), Y: float64(j)})
}

// ClosestSample rounds each axis to the nearest index, a fraction of 0.5 rounds up
func (g Grid) ClosestSample(p r2.Vec) (i, j int) {
	var (
		gp = g.ToGrid(p)
	)
	round := func(x float64) int {
		f := math.Floor(x)
		if x-f >= 0.5 {
			return int(f) + 1
		}
		return int(f)
	}
	i, j = round(gp.X), round(gp.Y)
	return
}

func (g Grid) ContainsGrid(gp r2.Vec) bool {
	return gp.X >= 0 && gp.Y >= 0 &&
		gp.X <= float64(g.NX-1) && gp.Y <= float64(g.NY-1)
}

func (g Grid) ContainsDomain(p r2.Vec) bool {
	return g.ContainsGrid(g.ToGrid(p))
}

// ClampGrid limits a grid coordinate to [0,NX-1]x[0,NY-1]
func (g Grid) ClampGrid(gp r2.Vec) r2.Vec {
	return r2.Vec{
		X: math.Min(math.Max(gp.X, 0), float64(g.NX-1)),
		Y: math.Min(math.Max(gp.Y, 0), float64(g.NY-1)),
	}
}

// CellSize is the domain spacing between neighboring samples
func (g Grid) CellSize() r2.Vec {
	return r2.Vec{X: 1 / g.sx, Y: 1 / g.sy}
}

// VelocityToGrid converts a domain velocity into grid units per unit time
func (g Grid) VelocityToGrid(v r2.Vec) r2.Vec {
	return r2.Vec{X: v.X * g.sx, Y: v.Y * g.sy}
}

// SubGrid snaps a rectangle to the enclosing closest sample indices. The
// result shares this grid's spacing, clipped to the valid index range.
func (g Grid) SubGrid(r Rect) (sub Grid, i0, j0 int, err error) {
	var (
		i1, j1 int
	)
	r = r.Normalize()
	i0, j0 = g.ClosestSample(r.Min)
	i1, j1 = g.ClosestSample(r.Max)
	clamp := func(v, max int) int {
		if v < 0 {
			return 0
		}
		if v > max {
			return max
		}
		return v
	}
	i0, i1 = clamp(i0, g.NX-1), clamp(i1, g.NX-1)
	j0, j1 = clamp(j0, g.NY-1), clamp(j1, g.NY-1)
	sub, err = New(i1-i0+1, j1-j0+1, Rect{
		Min: g.SamplePosition(i0, j0),
		Max: g.SamplePosition(i1, j1),
	})
	return
}

func (g Grid) Equal(o Grid) bool {
	return g.NX == o.NX && g.NY == o.NY && g.Rect == o.Rect
}

func (g Grid) String() string {
	return fmt.Sprintf("%dx%d samples over %s", g.NX, g.NY, g.Rect)
}
