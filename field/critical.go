package field

import (
	"fmt"
	"math"
	"math/cmplx"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Eigenvalue magnitudes below this are treated as zero
const CriticalEps = 1.e-3

// Jacobian is [[Ux, Uy], [Vx, Vy]]
type Jacobian [2][2]float64

func (J Jacobian) Trace() float64 { return J[0][0] + J[1][1] }

func (J Jacobian) Det() float64 { return J[0][0]*J[1][1] - J[0][1]*J[1][0] }

func (J Jacobian) Vorticity() float64 { return J[0][1] - J[1][0] }

func (J Jacobian) Dense() *mat.Dense {
	return mat.NewDense(2, 2, []float64{
		J[0][0], J[0][1],
		J[1][0], J[1][1],
	})
}

// Discriminant of the characteristic polynomial, eigenvalues are Trace/2 ± sqrt(Discriminant)
func (J Jacobian) Discriminant() float64 {
	var (
		half = 0.5 * (J[1][1] - J[0][0])
	)
	return half*half + J[0][1]*J[1][0]
}

func (J Jacobian) Eigenvalues() (l1, l2 complex128) {
	var (
		c    = cmplx.Sqrt(complex(J.Discriminant(), 0))
		mean = complex(0.5*J.Trace(), 0)
	)
	return mean + c, mean - c
}

type CriticalPoint uint8

const (
	CriticalNone CriticalPoint = iota
	Saddle
	RepellingSaddle // real eigenvalues, both positive
	RepellingFocus
	Center
	AttractingFocus
	AttractingSaddle // real eigenvalues, both negative
)

var (
	CriticalPointNames = map[string]CriticalPoint{
		"none":              CriticalNone,
		"saddle":            Saddle,
		"repelling-saddle":  RepellingSaddle,
		"repelling-focus":   RepellingFocus,
		"center":            Center,
		"attracting-focus":  AttractingFocus,
		"attracting-saddle": AttractingSaddle,
	}
	CriticalPointPrintNames = []string{"None", "Saddle", "Repelling Saddle",
		"Repelling Focus", "Center", "Attracting Focus", "Attracting Saddle"}
)

func (cp CriticalPoint) String() string {
	if int(cp) < len(CriticalPointPrintNames) {
		return CriticalPointPrintNames[cp]
	}
	return fmt.Sprintf("CriticalPoint(%d)", uint8(cp))
}

func (cp CriticalPoint) IsFocus() bool {
	return cp == RepellingFocus || cp == AttractingFocus
}

func NewCriticalPoint(label string) (cp CriticalPoint, err error) {
	var ok bool
	if cp, ok = CriticalPointNames[strings.ToLower(label)]; !ok {
		err = fmt.Errorf("unknown critical point type %s", label)
	}
	return
}

/*
Classify follows the Helman-Hesselink taxonomy. Complex eigenvalues give a
focus (by the sign of the real part) or a center; real eigenvalues give a
saddle for opposite signs, a repelling or attracting node-type point for equal
signs, and no classification when either eigenvalue is near zero.
*/
func (J Jacobian) Classify() CriticalPoint {
	var (
		l1, l2 = J.Eigenvalues()
	)
	if math.Abs(imag(l1)) > CriticalEps {
		switch re := real(l1); {
		case re > CriticalEps:
			return RepellingFocus
		case re < -CriticalEps:
			return AttractingFocus
		default:
			return Center
		}
	}
	r1, r2 := real(l1), real(l2)
	switch {
	case r1 < -CriticalEps && r2 < -CriticalEps:
		return AttractingSaddle
	case r1 > CriticalEps && r2 > CriticalEps:
		return RepellingSaddle
	case (r1 > CriticalEps && r2 < -CriticalEps) || (r1 < -CriticalEps && r2 > CriticalEps):
		return Saddle
	}
	return CriticalNone
}
