package lic

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/notargets/goflowvis/field"
	"github.com/notargets/goflowvis/grid"
	"github.com/notargets/goflowvis/integrate"
	"github.com/notargets/goflowvis/utils"
)

const (
	// Intensity of pixels no streamline passed through
	Unvisited = 0.5
	// Noise textures kept by a synthesizer
	noiseCacheSize = 8
)

type Params struct {
	Width, Height  int    // output resolution, at least 2x2
	KernelHalfSize int    // box filter half width K, in output pixels
	TraceSteps     int    // steps traced each way from a seed, zero means KernelHalfSize
	Seed           uint64 // noise seed
	Workers        int    // seed rows are split over this many goroutines, zero or one runs serially
	NoEqualize     bool   // skip the histogram equalization pass
}

func (p Params) traceSteps() int {
	if p.TraceSteps < p.KernelHalfSize {
		return p.KernelHalfSize
	}
	return p.TraceSteps
}

func (p Params) Validate() (err error) {
	switch {
	case p.Width < 2 || p.Height < 2:
		err = fmt.Errorf("%w: LIC output %dx%d, need at least 2x2", grid.ErrInvalidGrid, p.Width, p.Height)
	case p.KernelHalfSize < 1:
		err = fmt.Errorf("LIC kernel half size must be positive, have %d", p.KernelHalfSize)
	}
	return
}

// Stats reports the work done by one synthesis
type Stats struct {
	Traces  int
	Elapsed time.Duration
}

// Synthesizer produces LIC textures, reusing noise between calls of the same size and seed
type Synthesizer struct {
	noise *NoiseCache
}

func NewSynthesizer() *Synthesizer {
	return &Synthesizer{noise: NewNoiseCache(noiseCacheSize)}
}

// accumulator is one worker's deposit buffers
type accumulator struct {
	sum    []float64
	visits []int32
	traces int
}

func newAccumulator(n int) *accumulator {
	return &accumulator{sum: make([]float64, n), visits: make([]int32, n)}
}

// resolve writes the visit averaged deposits clamped to [0,1], pixels never visited get Unvisited
func (a *accumulator) resolve(values []float64) {
	for k := range values {
		if a.visits[k] == 0 {
			values[k] = Unvisited
			continue
		}
		values[k] = math.Max(0, math.Min(1, a.sum[k]/float64(a.visits[k])))
	}
}

/*
Synthesize convolves white noise along the streamlines of vf. The texture covers
the domain of vf with Width x Height samples; each trace step is one output
pixel long.
*/
func (s *Synthesizer) Synthesize(vf *field.VectorField, p Params) (tex *field.ScalarField, st Stats, err error) {
	var (
		start = time.Now()
		out   grid.Grid
	)
	if err = p.Validate(); err != nil {
		return
	}
	if out, err = grid.New(p.Width, p.Height, vf.Rect); err != nil {
		return
	}
	var (
		noise = s.noise.Get(p.Width, p.Height, p.Seed)
		tp    = integrate.Params{
			StepLength: pixelStep(vf.Layout(), out),
			MaxSteps:   p.traceSteps() + 1,
			Normalized: true,
		}
		np  = utils.ParallelDegree(max(p.Workers, 1), p.Height)
		pm  = utils.NewPartitionMap(np, p.Height)
		acc = make([]*accumulator, np)
	)
	utils.Logger().Info("LIC synthesis", "width", p.Width, "height", p.Height,
		"kernel", p.KernelHalfSize, "workers", np)
	pm.Run(func(bn, rowMin, rowMax int) {
		a := newAccumulator(out.Len())
		for j := rowMin; j < rowMax; j++ {
			for i := 0; i < out.NX; i++ {
				if a.visits[out.Index(i, j)] > 0 {
					continue
				}
				convolve(vf, out, noise, out.SamplePosition(i, j), tp, p.KernelHalfSize, a)
			}
		}
		utils.Logger().Debug("LIC partition done", "partition", bn, "rows", rowMax-rowMin, "traces", a.traces)
		acc[bn] = a
	})
	total := acc[0]
	for _, a := range acc[1:] {
		for k := range total.sum {
			total.sum[k] += a.sum[k]
			total.visits[k] += a.visits[k]
		}
		total.traces += a.traces
	}
	tex = field.NewScalarField(out)
	values := tex.Values()
	total.resolve(values)
	if !p.NoEqualize {
		Equalize(values)
	}
	tex.UpdateRange()
	if utils.IsNan(values) {
		utils.Logger().Warn("NaN in LIC texture")
	}
	st = Stats{Traces: total.traces, Elapsed: time.Since(start)}
	utils.Logger().Info("LIC synthesis done", "traces", st.Traces, "elapsed", st.Elapsed)
	return
}

// pixelStep is the length of one output pixel in the vector field's grid units
func pixelStep(in, out grid.Grid) float64 {
	return math.Min(
		float64(in.NX-1)/float64(out.NX-1),
		float64(in.NY-1)/float64(out.NY-1))
}

/*
convolve traces the streamline through seed both ways, then slides a box
window of half width k along it. The window is truncated at the curve ends
and every sample deposits the window mean into the pixel it falls in.
*/
func convolve(vf *field.VectorField, out grid.Grid, noise []float64, seed r2.Vec,
	tp integrate.Params, k int, a *accumulator) {
	var (
		fwd = integrate.ComputeStreamline(vf, 0, seed, tp)
		bp  = tp
	)
	bp.StepLength = -tp.StepLength
	bwd := integrate.ComputeStreamline(vf, 0, seed, bp)
	if len(fwd) == 0 || len(bwd) == 0 {
		return
	}
	var (
		n     = len(bwd) + len(fwd) - 1
		pix   = make([]int, n)
		taps  = make([]float64, n)
		sum   float64
		count int
	)
	a.traces++
	// backward points reversed, then the seed and the forward points
	for m := range pix {
		var pt r2.Vec
		if m < len(bwd)-1 {
			pt = bwd[len(bwd)-1-m]
		} else {
			pt = fwd[m-len(bwd)+1]
		}
		i, j := out.ClosestSample(pt)
		pix[m] = out.Index(i, j)
		taps[m] = noise[pix[m]]
	}
	for m := 0; m <= k && m < n; m++ {
		sum += taps[m]
		count++
	}
	for m := 0; m < n; m++ {
		a.sum[pix[m]] += sum / float64(count)
		a.visits[pix[m]]++
		if add := m + k + 1; add < n {
			sum += taps[add]
			count++
		}
		if drop := m - k; drop >= 0 {
			sum -= taps[drop]
			count--
		}
	}
}
