package field

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/notargets/goflowvis/grid"
)

/*
Series is a time ordered set of vector fields sharing one grid. Time is
measured in frames; fractional times blend the two neighboring frames. Every
accessor takes the time explicitly, there is no notion of a current frame.
*/
type Series struct {
	grid.Grid
	Frames []*VectorField
}

func NewSeries(frames ...*VectorField) (s *Series, err error) {
	if len(frames) == 0 {
		err = fmt.Errorf("%w: series needs at least one frame", grid.ErrInvalidGrid)
		return
	}
	for n, f := range frames[1:] {
		if !f.Grid.Equal(frames[0].Grid) {
			err = fmt.Errorf("%w: frame %d is %s, frame 0 is %s",
				grid.ErrInvalidGrid, n+1, f.Grid, frames[0].Grid)
			return
		}
	}
	s = &Series{Grid: frames[0].Grid, Frames: frames}
	return
}

// NewSeriesFromBuffer builds borrowed views onto nFrames consecutive frames stored in buf
func NewSeriesFromBuffer(g grid.Grid, nFrames int, buf []float64) (s *Series, err error) {
	var (
		frameLen = 2 * g.Len()
		frames   = make([]*VectorField, nFrames)
	)
	if nFrames < 1 || len(buf) != nFrames*frameLen {
		err = fmt.Errorf("%w: have %d values, need %d frames of %d",
			grid.ErrBufferSize, len(buf), nFrames, frameLen)
		return
	}
	for n := range frames {
		if frames[n], err = NewVectorFieldView(g, buf[n*frameLen:(n+1)*frameLen]); err != nil {
			return
		}
	}
	return NewSeries(frames...)
}

func (s *Series) Layout() grid.Grid { return s.Grid }

func (s *Series) NumFrames() int { return len(s.Frames) }

// Frame clamps n into the valid range
func (s *Series) Frame(n int) *VectorField {
	return s.Frames[max(0, min(n, len(s.Frames)-1))]
}

// ClampTime limits t to [0, NumFrames-1]
func (s *Series) ClampTime(t float64) float64 {
	return math.Min(math.Max(t, 0), float64(len(s.Frames)-1))
}

func (s *Series) SampleGridAt(t float64, gp r2.Vec) r2.Vec {
	var (
		tc = s.ClampTime(t)
		n0 = int(math.Floor(tc))
		f  = tc - float64(n0)
	)
	if f == 0 || n0 == len(s.Frames)-1 {
		return s.Frames[n0].SampleGrid(gp)
	}
	v0, v1 := s.Frames[n0].SampleGrid(gp), s.Frames[n0+1].SampleGrid(gp)
	return r2.Add(r2.Scale(1-f, v0), r2.Scale(f, v1))
}

func (s *Series) SampleAt(t float64, p r2.Vec) r2.Vec {
	return s.SampleGridAt(t, s.ToGrid(p))
}

func (s *Series) VelocityGrid(t float64, gp r2.Vec) r2.Vec {
	return s.VelocityToGrid(s.SampleGridAt(t, gp))
}
