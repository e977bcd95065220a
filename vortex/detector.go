package vortex

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/notargets/goflowvis/field"
)

// Detector decides whether a domain point lies inside a vortex
type Detector interface {
	Name() string
	Detect(vf *field.VectorField, p r2.Vec) bool
}

// absDetector is a Detector that can reuse an absolute vorticity field computed once per frame
type absDetector interface {
	DetectIn(abs *field.ScalarField, p r2.Vec) bool
}

func detect(d Detector, vf *field.VectorField, abs *field.ScalarField, p r2.Vec) bool {
	if ad, ok := d.(absDetector); ok {
		return ad.DetectIn(abs, p)
	}
	return d.Detect(vf, p)
}

type DetectorType uint8

const (
	VorticityThreshold DetectorType = iota
	CriticalPointDetector
)

var (
	DetectorNames = map[string]DetectorType{
		"vorticity-threshold": VorticityThreshold,
		"critical-point":      CriticalPointDetector,
	}
	DetectorPrintNames = []string{"Vorticity Threshold", "Critical Point"}
)

func (dt DetectorType) String() string {
	if int(dt) < len(DetectorPrintNames) {
		return DetectorPrintNames[dt]
	}
	return fmt.Sprintf("DetectorType(%d)", uint8(dt))
}

func NewDetectorType(label string) (dt DetectorType, err error) {
	var ok bool
	if dt, ok = DetectorNames[strings.ToLower(label)]; !ok {
		err = fmt.Errorf("unknown detector %s, use one of %s", label, strings.Join(Detectors(), ", "))
	}
	return
}

// Detectors lists the registered detector names in sorted order
func Detectors() (names []string) {
	for name := range DetectorNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}

// NewDetector builds the named detector, threshold is a fraction of the field maximum in [0,1]
func NewDetector(label string, threshold float64) (d Detector, err error) {
	var (
		dt DetectorType
	)
	if dt, err = NewDetectorType(label); err != nil {
		return
	}
	if threshold < 0 || threshold > 1 {
		err = fmt.Errorf("detector threshold %g outside [0,1]", threshold)
		return
	}
	switch dt {
	case VorticityThreshold:
		d = &ThresholdDetector{Threshold: threshold}
	case CriticalPointDetector:
		d = &CriticalDetector{}
	}
	return
}

/*
ThresholdDetector accepts points whose absolute vorticity is at least Threshold
times the field maximum. It keeps no state between calls: Detect derives the
absolute vorticity from vf each time, DetectIn tests a field the caller owns.
*/
type ThresholdDetector struct {
	Threshold float64
}

func (td *ThresholdDetector) Name() string { return "vorticity-threshold" }

func (td *ThresholdDetector) Detect(vf *field.VectorField, p r2.Vec) bool {
	if !vf.ContainsDomain(p) {
		return false
	}
	abs, err := vf.VorticityField(true, nil)
	if err != nil {
		return false
	}
	return td.DetectIn(abs, p)
}

// DetectIn tests p against a precomputed absolute vorticity field with its range set
func (td *ThresholdDetector) DetectIn(abs *field.ScalarField, p r2.Vec) bool {
	if !abs.ContainsDomain(p) {
		return false
	}
	_, max, _ := abs.Range()
	if max == 0 {
		return false
	}
	return abs.Sample(p) >= td.Threshold*max
}

// CriticalDetector accepts points where the local flow pattern is a focus or a center
type CriticalDetector struct{}

func (cd *CriticalDetector) Name() string { return "critical-point" }

func (cd *CriticalDetector) Detect(vf *field.VectorField, p r2.Vec) bool {
	if !vf.ContainsDomain(p) {
		return false
	}
	cp := vf.CriticalPointType(p)
	return cp.IsFocus() || cp == field.Center
}
