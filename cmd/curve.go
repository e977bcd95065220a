/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/notargets/goflowvis/InputParameters"
	"github.com/notargets/goflowvis/integrate"
)

type CurveOutput struct {
	Type       string         `json:"Type"`
	StartFrame int            `json:"StartFrame"`
	Points     [][2]float64   `json:"Points,omitempty"`
	TimeLine   [][][2]float64 `json:"TimeLine,omitempty"` // the line of particles at each step
}

// CurveCmd represents the curve command
var CurveCmd = &cobra.Command{
	Use:   "curve",
	Short: "Trace a characteristic curve through the flow",
	Long: `Trace a stream, path, streak or time line through the sampled flow.
Curve settings come from the Curve section of the input file, flags override them.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			ip *InputParameters.AnalysisParameters
		)
		if ip, err = loadParameters(); err != nil {
			return
		}
		if cmd.Flags().Changed("type") {
			ip.Curve.Type, _ = cmd.Flags().GetString("type")
		}
		if cmd.Flags().Changed("origin") {
			o, _ := cmd.Flags().GetFloat64Slice("origin")
			if ip.Curve.Origin, err = point(o); err != nil {
				return
			}
		}
		if cmd.Flags().Changed("steps") {
			ip.Curve.MaxSteps, _ = cmd.Flags().GetInt("steps")
		}
		if cmd.Flags().Changed("step") {
			ip.Curve.StepLength, _ = cmd.Flags().GetFloat64("step")
		}
		var out CurveOutput
		if out, err = RunCurve(ip); err != nil {
			return
		}
		return writeOutput(out)
	},
}

func init() {
	rootCmd.AddCommand(CurveCmd)
	CurveCmd.Flags().StringP("type", "t", "", "curve type: streamline, pathline, streakline or timeline")
	CurveCmd.Flags().Float64Slice("origin", nil, "seed point x,y")
	CurveCmd.Flags().IntP("steps", "n", 0, "maximum number of curve points")
	CurveCmd.Flags().Float64P("step", "s", 0, "integration step length in grid cells, negative integrates backward")
}

func RunCurve(ip *InputParameters.AnalysisParameters) (out CurveOutput, err error) {
	var (
		req integrate.Request
	)
	if req, err = ip.CurveRequest(); err != nil {
		return
	}
	_, series, err := sampleFlow(ip)
	if err != nil {
		return
	}
	cc := integrate.NewCurveCache(series, 16)
	req = req.Resolve(ip.CurrentFrame)
	start := time.Now()
	res := cc.Get(req)
	out.Type = req.Type.String()
	out.StartFrame = req.StartFrame
	fmt.Printf("[%s]\t\t= Curve Type\n", out.Type)
	fmt.Printf("[%d]\t\t\t\t= Start Frame\n", out.StartFrame)
	if res.TimeLine != nil {
		for step := 0; step < res.TimeLine.Steps; step++ {
			line := res.TimeLine.At(step)
			if len(line) == 0 {
				break
			}
			out.TimeLine = append(out.TimeLine, points(line))
		}
		fmt.Printf("[%d]\t\t\t\t= Seeds\n", len(res.TimeLine.Seeds))
		fmt.Printf("[%d]\t\t\t\t= Time Line Steps\n", len(out.TimeLine))
	} else {
		out.Points = points(res.Curve)
		fmt.Printf("[%d]\t\t\t\t= Points\n", len(out.Points))
		if n := len(res.Curve); n != 0 {
			fmt.Printf("(%8.4f,%8.4f) -> (%8.4f,%8.4f)\n",
				res.Curve[0].X, res.Curve[0].Y, res.Curve[n-1].X, res.Curve[n-1].Y)
		}
	}
	fmt.Printf("Elapsed: %v\n", time.Since(start))
	return
}

func points(c integrate.Curve) (pts [][2]float64) {
	pts = make([][2]float64, len(c))
	for k, p := range c {
		pts[k] = [2]float64{p.X, p.Y}
	}
	return
}
