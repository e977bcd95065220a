package vortex

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/notargets/goflowvis/field"
)

type Rotation uint8

const (
	CounterClockwise Rotation = iota
	Clockwise
)

func (r Rotation) String() string {
	if r == Clockwise {
		return "Clockwise"
	}
	return "Counter Clockwise"
}

// RotationAt uses the sign of the signed vorticity, zero counts as counter clockwise
func RotationAt(vf *field.VectorField, p r2.Vec) Rotation {
	if vf.Vorticity(p) < 0 {
		return Clockwise
	}
	return CounterClockwise
}

// Appearance is how a vortex looks in a flow visualization, from its critical point type and rotation
type Appearance uint8

const (
	NotVortex Appearance = iota
	EllipticClockwise
	EllipticCounterClockwise
	SpiralInClockwise
	SpiralInCounterClockwise
	SpiralOutClockwise
	SpiralOutCounterClockwise
)

var (
	AppearancePrintNames = []string{"Not a Vortex",
		"Elliptic Clockwise", "Elliptic Counter Clockwise",
		"Inward Spiral Clockwise", "Inward Spiral Counter Clockwise",
		"Outward Spiral Clockwise", "Outward Spiral Counter Clockwise"}
	appearanceTable = map[appearanceKey]Appearance{
		{field.Center, Clockwise}:                 EllipticClockwise,
		{field.Center, CounterClockwise}:          EllipticCounterClockwise,
		{field.AttractingFocus, Clockwise}:        SpiralInClockwise,
		{field.AttractingFocus, CounterClockwise}: SpiralInCounterClockwise,
		{field.RepellingFocus, Clockwise}:         SpiralOutClockwise,
		{field.RepellingFocus, CounterClockwise}:  SpiralOutCounterClockwise,
	}
)

type appearanceKey struct {
	cp  field.CriticalPoint
	rot Rotation
}

func (a Appearance) String() string {
	if int(a) < len(AppearancePrintNames) {
		return AppearancePrintNames[a]
	}
	return fmt.Sprintf("Appearance(%d)", uint8(a))
}

// Rotation of the appearance, meaningless for NotVortex
func (a Appearance) Rotation() Rotation {
	if a%2 == 1 {
		return Clockwise
	}
	return CounterClockwise
}

// Classify looks up the appearance, every critical point other than a focus or a center is NotVortex
func Classify(cp field.CriticalPoint, rot Rotation) Appearance {
	if a, ok := appearanceTable[appearanceKey{cp, rot}]; ok {
		return a
	}
	return NotVortex
}
