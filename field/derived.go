package field

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/notargets/goflowvis/grid"
)

type DerivedType uint8

const (
	DerivedVorticity DerivedType = iota
	DerivedAbsVorticity
	DerivedMagnitude
	DerivedDivergence
)

var (
	DerivedNames = map[string]DerivedType{
		"vorticity":     DerivedVorticity,
		"abs-vorticity": DerivedAbsVorticity,
		"magnitude":     DerivedMagnitude,
		"divergence":    DerivedDivergence,
	}
	DerivedPrintNames = []string{"Vorticity", "Absolute Vorticity", "Magnitude", "Divergence"}
)

func (dt DerivedType) String() string {
	if int(dt) < len(DerivedPrintNames) {
		return DerivedPrintNames[dt]
	}
	return fmt.Sprintf("DerivedType(%d)", uint8(dt))
}

func NewDerivedType(label string) (dt DerivedType, err error) {
	var ok bool
	if dt, ok = DerivedNames[strings.ToLower(label)]; !ok {
		err = fmt.Errorf("unknown derived field %s", label)
	}
	return
}

func (vf *VectorField) evalDerived(dt DerivedType, gp r2.Vec) float64 {
	switch dt {
	case DerivedVorticity:
		return vf.JacobianGrid(gp).Vorticity()
	case DerivedAbsVorticity:
		return math.Abs(vf.JacobianGrid(gp).Vorticity())
	case DerivedMagnitude:
		return r2.Norm(vf.SampleGrid(gp))
	case DerivedDivergence:
		return vf.JacobianGrid(gp).Trace()
	}
	panic(fmt.Errorf("unknown derived field %d", dt))
}

/*
DerivedField evaluates dt at every sample. A non-nil region restricts the
result to the samples enclosing it, snapped with ClosestSample. The range of
the produced field is always set.
*/
func (vf *VectorField) DerivedField(dt DerivedType, region *grid.Rect) (sf *ScalarField, err error) {
	var (
		sub    = vf.Grid
		i0, j0 int
	)
	if region != nil {
		if sub, i0, j0, err = vf.SubGrid(*region); err != nil {
			return
		}
	}
	sf = NewScalarField(sub)
	for j := 0; j < sub.NY; j++ {
		for i := 0; i < sub.NX; i++ {
			gp := r2.Vec{X: float64(i + i0), Y: float64(j + j0)}
			sf.data[sub.Index(i, j)] = vf.evalDerived(dt, gp)
		}
	}
	sf.UpdateRange()
	return
}

func (vf *VectorField) VorticityField(abs bool, region *grid.Rect) (*ScalarField, error) {
	if abs {
		return vf.DerivedField(DerivedAbsVorticity, region)
	}
	return vf.DerivedField(DerivedVorticity, region)
}

func (vf *VectorField) MagnitudeField(region *grid.Rect) (*ScalarField, error) {
	return vf.DerivedField(DerivedMagnitude, region)
}
