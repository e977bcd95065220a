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
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/notargets/goflowvis/InputParameters"
	"github.com/notargets/goflowvis/field"
	"github.com/notargets/goflowvis/utils"
	"github.com/notargets/goflowvis/vortex"
)

type VortexOutput struct {
	Frame       int        `json:"Frame"`
	Core        [2]float64 `json:"Core"`
	Vorticity   float64    `json:"Vorticity"`
	Rotation    string     `json:"Rotation"`
	Critical    string     `json:"CriticalPoint"`
	Appearance  string     `json:"Appearance"`
	Measured    bool       `json:"Measured"`
	Radius1     float64    `json:"Radius1"`
	Radius2     float64    `json:"Radius2"`
	AngleDegree float64    `json:"Angle"`
}

// VortexCmd represents the vortex command
var VortexCmd = &cobra.Command{
	Use:   "vortex",
	Short: "Detect, locate and measure vortices",
	Long: `Runs the configured detector at a point, or scans a lattice of seed points with --scan,
then refines each vortex core and measures its extent and appearance.

Detectors: ` + strings.Join(vortex.Detectors(), ", "),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			ip *InputParameters.AnalysisParameters
		)
		if ip, err = loadParameters(); err != nil {
			return
		}
		if cmd.Flags().Changed("point") {
			p, _ := cmd.Flags().GetFloat64Slice("point")
			if ip.Vortex.Point, err = point(p); err != nil {
				return
			}
		}
		if cmd.Flags().Changed("scan") {
			ip.Vortex.Scan, _ = cmd.Flags().GetBool("scan")
		}
		if cmd.Flags().Changed("stride") {
			ip.Vortex.Stride, _ = cmd.Flags().GetInt("stride")
		}
		if cmd.Flags().Changed("detector") {
			ip.Vortex.Detector, _ = cmd.Flags().GetString("detector")
		}
		if cmd.Flags().Changed("threshold") {
			ip.Vortex.Threshold, _ = cmd.Flags().GetFloat64("threshold")
		}
		frames, _ := cmd.Flags().GetString("frames")
		var out []VortexOutput
		if out, err = RunVortex(ip, frames); err != nil {
			return
		}
		return writeOutput(out)
	},
}

func init() {
	rootCmd.AddCommand(VortexCmd)
	VortexCmd.Flags().Float64Slice("point", nil, "detection point x,y")
	VortexCmd.Flags().Bool("scan", false, "search the whole frame instead of a single point")
	VortexCmd.Flags().Int("stride", 0, "seed lattice spacing in grid cells for --scan")
	VortexCmd.Flags().StringP("detector", "d", "", "vortex detector name")
	VortexCmd.Flags().Float64("threshold", 0, "detection threshold in [0,1]")
	VortexCmd.Flags().String("frames", "", "frames to analyze, like \"0:4\", \":\" or \"end\", default is the current frame")
}

// RunVortex analyzes each selected frame, an empty frames phrase selects the current frame
func RunVortex(ip *InputParameters.AnalysisParameters, frames string) (out []VortexOutput, err error) {
	var (
		indices []int
	)
	_, series, err := sampleFlow(ip)
	if err != nil {
		return
	}
	if frames == "" {
		indices = []int{ip.CurrentFrame}
	} else if indices, err = utils.IndexRange(frames, series.NumFrames()); err != nil {
		return
	}
	for _, n := range indices {
		var vortices []vortex.Vortex
		if vortices, err = analyzeFrame(ip, series.Frame(n)); err != nil {
			return
		}
		fmt.Printf("[%d]\t\t\t\t= Vortices in frame %d\n", len(vortices), n)
		for _, v := range vortices {
			fmt.Println(v)
			out = append(out, VortexOutput{
				Frame:       n,
				Core:        [2]float64{v.Core.X, v.Core.Y},
				Vorticity:   v.Vorticity,
				Rotation:    v.Rotation.String(),
				Critical:    v.CriticalPoint.String(),
				Appearance:  v.Appearance.String(),
				Measured:    v.Measurement.OK,
				Radius1:     v.Measurement.Radius1,
				Radius2:     v.Measurement.Radius2,
				AngleDegree: v.Measurement.Angle,
			})
		}
	}
	if ip.Vortex.Scan {
		logMemory("vortex scan")
	}
	return
}

func analyzeFrame(ip *InputParameters.AnalysisParameters, vf *field.VectorField) (vortices []vortex.Vortex, err error) {
	cfg := ip.VortexConfig()
	if ip.Vortex.Scan {
		return vortex.Find(vf, ip.Vortex.Stride, cfg)
	}
	v, err := vortex.Analyze(vf, vec2(ip.Vortex.Point), cfg)
	switch {
	case errors.Is(err, vortex.ErrNotDetected), errors.Is(err, vortex.ErrNoCore):
		fmt.Printf("(%8.4f,%8.4f): %s\n", ip.Vortex.Point[0], ip.Vortex.Point[1], err)
		return nil, nil
	case err != nil:
		return
	}
	return []vortex.Vortex{v}, nil
}
