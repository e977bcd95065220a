package integrate

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"
)

type CurveType uint8

const (
	StreamLine CurveType = iota
	PathLine
	StreakLine
	TimeLine
)

var (
	CurveNames = map[string]CurveType{
		"streamline": StreamLine,
		"pathline":   PathLine,
		"streakline": StreakLine,
		"timeline":   TimeLine,
	}
	CurvePrintNames = []string{"Stream Line", "Path Line", "Streak Line", "Time Line"}
)

func (ct CurveType) String() string {
	if int(ct) < len(CurvePrintNames) {
		return CurvePrintNames[ct]
	}
	return fmt.Sprintf("CurveType(%d)", uint8(ct))
}

func NewCurveType(label string) (ct CurveType, err error) {
	var ok bool
	if ct, ok = CurveNames[strings.ToLower(label)]; !ok {
		err = fmt.Errorf("unknown curve type %s, use one of streamline, pathline, streakline, timeline", label)
	}
	return
}

// ComputeStreamline integrates the flow frozen at the given frame time
func ComputeStreamline(f Flow, frame float64, origin r2.Vec, p Params) Curve {
	return trace(f, origin, frame, 0, p)
}

// ComputePathLine follows a particle released at origin at startFrame, time advancing with each step
func ComputePathLine(f Flow, startFrame float64, origin r2.Vec, p Params) Curve {
	return trace(f, origin, startFrame, p.frameStep(), p)
}

/*
ComputeStreakLine releases a particle at origin every FrameStep frames from
startFrame up to the observation time startFrame + (MaxSteps-1)*FrameStep and
returns where each one is at the observation time, newest (the origin) first.
The first particle to leave the domain truncates the line.
*/
func ComputeStreakLine(f Flow, startFrame float64, origin r2.Vec, p Params) (c Curve) {
	var (
		fs  = p.frameStep()
		obs = startFrame + float64(p.MaxSteps-1)*fs
	)
	if p.MaxSteps <= 0 || !f.Layout().ContainsDomain(origin) {
		return
	}
	c = make(Curve, 0, p.MaxSteps)
	for i := 0; i < p.MaxSteps; i++ {
		release := obs - float64(i)*fs
		pp := p
		pp.MaxSteps = i + 1
		path := trace(f, origin, release, fs, pp)
		if len(path) < i+1 {
			break
		}
		c = append(c, path[i])
	}
	return
}

// TimeLineResult holds one path line per seed placed along a segment
type TimeLineResult struct {
	Seeds []r2.Vec
	Paths []Curve
	Steps int
}

// SeedSegment places n evenly spaced points on [a,b], endpoints included
func SeedSegment(a, b r2.Vec, n int) (seeds []r2.Vec) {
	if n <= 0 {
		return
	}
	if n == 1 {
		return []r2.Vec{a}
	}
	seeds = make([]r2.Vec, n)
	d := r2.Sub(b, a)
	for k := range seeds {
		seeds[k] = r2.Add(a, r2.Scale(float64(k)/float64(n-1), d))
	}
	return
}

func ComputeTimeLine(f Flow, startFrame float64, a, b r2.Vec, numSamples int, p Params) (tl *TimeLineResult) {
	tl = &TimeLineResult{
		Seeds: SeedSegment(a, b, numSamples),
		Steps: p.MaxSteps,
	}
	tl.Paths = make([]Curve, len(tl.Seeds))
	for k, seed := range tl.Seeds {
		tl.Paths[k] = ComputePathLine(f, startFrame, seed, p)
	}
	return
}

// At is the line formed by the particles still inside the domain after step steps
func (tl *TimeLineResult) At(step int) (c Curve) {
	for _, path := range tl.Paths {
		if step >= 0 && step < len(path) {
			c = append(c, path[step])
		}
	}
	return
}

func (tl *TimeLineResult) Front() Curve {
	return tl.At(tl.Steps - 1)
}
