package isentropic_vortex

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/notargets/goflowvis/utils"
)

/*
IVortex is the isentropic Euler vortex of strength Beta, centered at Center at
t = 0 and carried by the freestream velocity Ufs along x.
*/
type IVortex struct {
	Beta, Gamma float64
	Center      r2.Vec
	Ufs         float64
}

func NewIVortex(Beta, X0, Y0, Gamma float64, UfsO ...float64) (iv *IVortex) {
	var (
		Ufs = 1.0
	)
	if len(UfsO) > 0 {
		Ufs = UfsO[0]
	}
	iv = &IVortex{
		Beta:   Beta,
		Gamma:  Gamma,
		Center: r2.Vec{X: X0, Y: Y0},
		Ufs:    Ufs,
	}
	return
}

// CenterAt is where the vortex center has been carried by time t
func (iv *IVortex) CenterAt(t float64) r2.Vec {
	return r2.Vec{X: iv.Center.X + iv.Ufs*t, Y: iv.Center.Y}
}

// GetState returns the primitive state at (x,y) and time t
func (iv *IVortex) GetState(t, x, y float64) (u, v, rho, p float64) {
	var (
		oo2pi = 0.5 * (1. / math.Pi)
		GM1   = iv.Gamma - 1
		beta  = iv.Beta
		fac   = 16 * iv.Gamma * math.Pi * math.Pi
		c     = iv.CenterAt(t)
	)
	dx, dy := x-c.X, y-c.Y
	rsq := utils.POW(dx, 2) + utils.POW(dy, 2)
	ex1r := math.Exp(1 - rsq)
	u = iv.Ufs - beta*ex1r*dy*oo2pi
	v = beta * ex1r * dx * oo2pi
	tv1 := 1.0 - (GM1 * beta * beta * math.Exp(2.0*(1.0-rsq)) / fac)
	rho = math.Pow(tv1, 1./GM1)
	p = math.Pow(rho, iv.Gamma)
	return
}

func (iv *IVortex) Velocity(t float64, pt r2.Vec) r2.Vec {
	u, v, _, _ := iv.GetState(t, pt.X, pt.Y)
	return r2.Vec{X: u, Y: v}
}

// Density at pt, the vortex core is a density minimum
func (iv *IVortex) Density(t float64, pt r2.Vec) float64 {
	_, _, rho, _ := iv.GetState(t, pt.X, pt.Y)
	return rho
}
