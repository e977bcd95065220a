package vortex

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/notargets/goflowvis/field"
	"github.com/notargets/goflowvis/utils"
)

var (
	ErrNotDetected = errors.New("no vortex detected")
	ErrNoCore      = errors.New("vortex core refinement failed")
)

type Config struct {
	Detector         string  // registered detector name, empty means vorticity-threshold
	DetectThreshold  float64 // fraction of the maximum absolute vorticity
	MeasureThreshold float64 // fraction of the core value bounding the vortex extent
	SmoothHalfSize   int     // Gaussian smoothing before core refinement, zero disables
}

func (c Config) detector() (Detector, error) {
	name := c.Detector
	if name == "" {
		name = "vorticity-threshold"
	}
	return NewDetector(name, c.DetectThreshold)
}

type Vortex struct {
	Seed          r2.Vec
	Core          r2.Vec
	Vorticity     float64 // signed, at the core
	Rotation      Rotation
	CriticalPoint field.CriticalPoint
	Appearance    Appearance
	Measurement   Measurement
}

func (v Vortex) String() string {
	return fmt.Sprintf("core (%8.4f,%8.4f) vorticity %10.4g %s, radii (%6.3f,%6.3f) angle %6.2f",
		v.Core.X, v.Core.Y, v.Vorticity, v.Appearance, v.Measurement.Radius1, v.Measurement.Radius2,
		v.Measurement.Angle)
}

/*
Analyze runs detection at p, refines the core, then measures and classifies it.
A failed measurement is reported through Measurement.OK, not as an error.
*/
func Analyze(vf *field.VectorField, p r2.Vec, cfg Config) (v Vortex, err error) {
	var (
		d   Detector
		abs *field.ScalarField
	)
	if d, err = cfg.detector(); err != nil {
		return
	}
	if abs, err = vf.VorticityField(true, nil); err != nil {
		return
	}
	if !detect(d, vf, abs, p) {
		err = fmt.Errorf("%w at (%g,%g) by %s", ErrNotDetected, p.X, p.Y, d.Name())
		return
	}
	return analyzeDetected(vf, abs, p, cfg)
}

// analyzeDetected measures against abs, the absolute vorticity field of vf
func analyzeDetected(vf *field.VectorField, abs *field.ScalarField, p r2.Vec, cfg Config) (v Vortex, err error) {
	var (
		ok bool
	)
	v.Seed = p
	if v.Core, ok = RefineCore(vf, p, cfg.SmoothHalfSize); !ok {
		err = fmt.Errorf("%w from (%g,%g)", ErrNoCore, p.X, p.Y)
		return
	}
	v.Vorticity = vf.Vorticity(v.Core)
	v.Rotation = RotationAt(vf, v.Core)
	v.CriticalPoint = vf.CriticalPointType(v.Core)
	v.Appearance = Classify(v.CriticalPoint, v.Rotation)
	v.Measurement = Measure(abs, v.Core, cfg.MeasureThreshold)
	return
}

/*
Find seeds the detector on a lattice every stride samples and returns the
distinct vortices found, strongest first. Cores closer than one cell are
merged. Seeds are processed in parallel over lattice rows.
*/
func Find(vf *field.VectorField, stride int, cfg Config) (vortices []Vortex, err error) {
	var (
		d   Detector
		abs *field.ScalarField
		g   = vf.Layout()
	)
	if d, err = cfg.detector(); err != nil {
		return
	}
	if abs, err = vf.VorticityField(true, nil); err != nil {
		return
	}
	if stride < 1 {
		stride = 1
	}
	var (
		rows  = (g.NY + stride - 1) / stride
		pm    = utils.NewPartitionMap(utils.ParallelDegree(0, rows), rows)
		found = make([][]Vortex, pm.ParallelDegree)
	)
	pm.Run(func(bn, kMin, kMax int) {
		for row := kMin; row < kMax; row++ {
			for i := 0; i < g.NX; i += stride {
				p := g.SamplePosition(i, row*stride)
				if !detect(d, vf, abs, p) {
					continue
				}
				if v, err := analyzeDetected(vf, abs, p, cfg); err == nil {
					found[bn] = append(found[bn], v)
				}
			}
		}
	})
	var (
		cell = g.CellSize()
		tol  = r2.Norm(cell)
	)
	for _, part := range found {
		for _, v := range part {
			merged := false
			for k := range vortices {
				if r2.Norm(r2.Sub(vortices[k].Core, v.Core)) < tol {
					merged = true
					break
				}
			}
			if !merged {
				vortices = append(vortices, v)
			}
		}
	}
	sort.SliceStable(vortices, func(i, j int) bool {
		return math.Abs(vortices[i].Vorticity) > math.Abs(vortices[j].Vorticity)
	})
	utils.Logger().Debug("vortex scan", "seeds", rows*((g.NX+stride-1)/stride), "vortices", len(vortices))
	return
}
