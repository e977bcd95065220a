package InputParameters

import (
	"fmt"
	"strings"

	"github.com/ghodss/yaml"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/notargets/goflowvis/grid"
	"github.com/notargets/goflowvis/integrate"
	"github.com/notargets/goflowvis/lic"
	mp "github.com/notargets/goflowvis/model_problems"
	"github.com/notargets/goflowvis/vortex"
)

type FlowModel struct {
	Model    string     `json:"Model"` // uniform, rotation, saddle, gaussian-vortex, isentropic-vortex
	Center   [2]float64 `json:"Center"`
	Strength float64    `json:"Strength"`
	Radius   float64    `json:"Radius"`
	Drift    [2]float64 `json:"Drift"`
	Gamma    float64    `json:"Gamma"`
}

type GridParameters struct {
	NX     int        `json:"NX"`
	NY     int        `json:"NY"`
	Domain [4]float64 `json:"Domain"` // xmin, ymin, xmax, ymax
}

type CurveParameters struct {
	Type            string     `json:"Type"`
	Origin          [2]float64 `json:"Origin"`
	End             [2]float64 `json:"End"` // time line seed segment end
	NumSamples      int        `json:"NumSamples"`
	StepLength      float64    `json:"StepLength"`
	MaxSteps        int        `json:"MaxSteps"`
	StartFrame      int        `json:"StartFrame"`
	FixedStartFrame bool       `json:"FixedStartFrame"`
	FrameStep       float64    `json:"FrameStep"`
}

type VortexParameters struct {
	Detector         string     `json:"Detector"`
	Threshold        float64    `json:"Threshold"`
	MeasureThreshold float64    `json:"MeasureThreshold"`
	SmoothHalfSize   int        `json:"SmoothHalfSize"`
	Point            [2]float64 `json:"Point"`
	Scan             bool       `json:"Scan"`
	Stride           int        `json:"Stride"`
}

type LICParameters struct {
	Width          int    `json:"Width"`
	Height         int    `json:"Height"`
	KernelHalfSize int    `json:"KernelHalfSize"`
	TraceSteps     int    `json:"TraceSteps"`
	Seed           uint64 `json:"Seed"`
	Workers        int    `json:"Workers"`
	NoEqualize     bool   `json:"NoEqualize"`
}

// Parameters obtained from the YAML input file
type AnalysisParameters struct {
	Title        string           `json:"Title"`
	Flow         FlowModel        `json:"Flow"`
	Grid         GridParameters   `json:"Grid"`
	Frames       int              `json:"Frames"`
	FrameDt      float64          `json:"FrameDt"`
	StartTime    float64          `json:"StartTime"`
	CurrentFrame int              `json:"CurrentFrame"`
	Curve        CurveParameters  `json:"Curve"`
	Vortex       VortexParameters `json:"Vortex"`
	LIC          LICParameters    `json:"LIC"`
}

// NewAnalysisParameters returns the defaults: a Gaussian vortex on a 101x101 grid over [0,100]^2
func NewAnalysisParameters() *AnalysisParameters {
	return &AnalysisParameters{
		Title: "Gaussian Vortex",
		Flow: FlowModel{
			Model:    "gaussian-vortex",
			Center:   [2]float64{50, 50},
			Strength: 200,
			Radius:   10,
			Gamma:    1.4,
		},
		Grid:    GridParameters{NX: 101, NY: 101, Domain: [4]float64{0, 0, 100, 100}},
		Frames:  1,
		FrameDt: 1,
		Curve: CurveParameters{
			Type:       "streamline",
			Origin:     [2]float64{70, 50},
			End:        [2]float64{70, 70},
			NumSamples: 10,
			StepLength: 0.5,
			MaxSteps:   200,
			FrameStep:  1,
		},
		Vortex: VortexParameters{
			Detector:         "vorticity-threshold",
			Threshold:        0.5,
			MeasureThreshold: 0.5,
			Point:            [2]float64{52, 48},
			Stride:           4,
		},
		LIC: LICParameters{Width: 256, Height: 256, KernelHalfSize: 10, TraceSteps: 40, Seed: 1},
	}
}

// Parse overlays the YAML input on the current values, so unset keys keep their defaults
func (ip *AnalysisParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func (ip *AnalysisParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%s]\t= Flow Model\n", ip.Flow.Model)
	fmt.Printf("[%d x %d]\t\t= Grid Samples\n", ip.Grid.NX, ip.Grid.NY)
	fmt.Printf("%v\t= Domain\n", ip.Grid.Domain)
	fmt.Printf("[%d]\t\t\t\t= Frames\n", ip.Frames)
	fmt.Printf("%8.5f\t\t= Frame Time Step\n", ip.FrameDt)
	fmt.Printf("[%s]\t\t= Curve Type\n", ip.Curve.Type)
	fmt.Printf("%8.5f\t\t= Step Length\n", ip.Curve.StepLength)
	fmt.Printf("[%d]\t\t\t\t= Max Steps\n", ip.Curve.MaxSteps)
	fmt.Printf("[%s]\t= Vortex Detector\n", ip.Vortex.Detector)
	fmt.Printf("%8.5f\t\t= Vortex Threshold\n", ip.Vortex.Threshold)
	fmt.Printf("[%d x %d]\t\t= LIC Resolution\n", ip.LIC.Width, ip.LIC.Height)
	fmt.Printf("[%d]\t\t\t\t= LIC Kernel Half Size\n", ip.LIC.KernelHalfSize)
}

// Validate checks every section, reporting all problems at once
func (ip *AnalysisParameters) Validate() (err error) {
	var problems []string
	check := func(e error) {
		if e != nil {
			problems = append(problems, e.Error())
		}
	}
	_, e := ip.FlowParameters()
	check(e)
	_, e = ip.DomainGrid()
	check(e)
	_, e = ip.CurveRequest()
	check(e)
	if ip.Frames < 1 {
		check(fmt.Errorf("need at least one frame, have %d", ip.Frames))
	}
	if ip.Vortex.Threshold < 0 || ip.Vortex.Threshold > 1 ||
		ip.Vortex.MeasureThreshold < 0 || ip.Vortex.MeasureThreshold > 1 {
		check(fmt.Errorf("vortex thresholds must lie in [0,1]"))
	}
	_, e = vortex.NewDetectorType(ip.Vortex.Detector)
	check(e)
	check(ip.LICParams().Validate())
	if len(problems) != 0 {
		err = fmt.Errorf("invalid analysis parameters: %s", strings.Join(problems, "; "))
	}
	return
}

func (ip *AnalysisParameters) FlowParameters() (fp mp.FlowParameters, err error) {
	if fp.Type, err = mp.NewFlowType(ip.Flow.Model); err != nil {
		return
	}
	fp.Center = vec(ip.Flow.Center)
	fp.Strength = ip.Flow.Strength
	fp.Radius = ip.Flow.Radius
	fp.Drift = vec(ip.Flow.Drift)
	fp.Gamma = ip.Flow.Gamma
	return
}

func (ip *AnalysisParameters) DomainGrid() (grid.Grid, error) {
	d := ip.Grid.Domain
	return grid.New(ip.Grid.NX, ip.Grid.NY, grid.NewRect(d[0], d[1], d[2], d[3]))
}

func (ip *AnalysisParameters) CurveRequest() (r integrate.Request, err error) {
	c := ip.Curve
	if r.Type, err = integrate.NewCurveType(c.Type); err != nil {
		return
	}
	if c.MaxSteps < 1 || c.StepLength == 0 {
		err = fmt.Errorf("curve needs a nonzero step length and at least one step, have %g and %d",
			c.StepLength, c.MaxSteps)
		return
	}
	r.Origin, r.End = vec(c.Origin), vec(c.End)
	r.NumSamples = c.NumSamples
	r.StartFrame = c.StartFrame
	r.FixedStartFrame = c.FixedStartFrame
	r.Params = integrate.Params{
		StepLength: c.StepLength,
		MaxSteps:   c.MaxSteps,
		FrameStep:  c.FrameStep,
	}
	return
}

func (ip *AnalysisParameters) VortexConfig() vortex.Config {
	return vortex.Config{
		Detector:         ip.Vortex.Detector,
		DetectThreshold:  ip.Vortex.Threshold,
		MeasureThreshold: ip.Vortex.MeasureThreshold,
		SmoothHalfSize:   ip.Vortex.SmoothHalfSize,
	}
}

func (ip *AnalysisParameters) LICParams() lic.Params {
	l := ip.LIC
	return lic.Params{
		Width:          l.Width,
		Height:         l.Height,
		KernelHalfSize: l.KernelHalfSize,
		TraceSteps:     l.TraceSteps,
		Seed:           l.Seed,
		Workers:        l.Workers,
		NoEqualize:     l.NoEqualize,
	}
}

func vec(a [2]float64) r2.Vec { return r2.Vec{X: a[0], Y: a[1]} }
