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

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/notargets/goflowvis/InputParameters"
	"github.com/notargets/goflowvis/field"
	"github.com/notargets/goflowvis/vortex"
)

type ClassifyOutput struct {
	Point         [2]float64    `json:"Point"`
	Velocity      [2]float64    `json:"Velocity"`
	Jacobian      [2][2]float64 `json:"Jacobian"`
	Eigenvalues   [2]string     `json:"Eigenvalues"`
	CriticalPoint string        `json:"CriticalPoint"`
	Vorticity     float64       `json:"Vorticity"`
	Divergence    float64       `json:"Divergence"`
	MaxSpeed      float64       `json:"MaxSpeed"`
	Density       float64       `json:"Density,omitempty"` // compressible model flows only
	Appearance    string        `json:"Appearance"`
	Derived       string        `json:"Derived"`
	DerivedMin    float64       `json:"DerivedMin"`
	DerivedMax    float64       `json:"DerivedMax"`
}

// ClassifyCmd represents the classify command
var ClassifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Local flow topology at a point",
	Long: `Prints the velocity gradient tensor at a point with its eigenvalues, the critical
point type and the vortex appearance it implies, plus the range of a derived field.`,
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
		derived, _ := cmd.Flags().GetString("derived")
		var out ClassifyOutput
		if out, err = RunClassify(ip, derived); err != nil {
			return
		}
		return writeOutput(out)
	},
}

func init() {
	rootCmd.AddCommand(ClassifyCmd)
	ClassifyCmd.Flags().Float64Slice("point", nil, "point x,y, defaults to the vortex point of the input")
	ClassifyCmd.Flags().String("derived", "vorticity", "derived field: vorticity, abs-vorticity, magnitude or divergence")
}

// densityFlow is a model flow that also carries a density
type densityFlow interface {
	Density(t float64, p r2.Vec) float64
}

func RunClassify(ip *InputParameters.AnalysisParameters, derived string) (out ClassifyOutput, err error) {
	var (
		dt field.DerivedType
		sf *field.ScalarField
	)
	if dt, err = field.NewDerivedType(derived); err != nil {
		return
	}
	flow, series, err := sampleFlow(ip)
	if err != nil {
		return
	}
	var (
		frame  = max(0, min(ip.CurrentFrame, series.NumFrames()-1))
		vf     = series.Frame(frame)
		p      = vec2(ip.Vortex.Point)
		J      = vf.Jacobian(p)
		l1, l2 = J.Eigenvalues()
		v      = vf.Sample(p)
		cp     = J.Classify()
	)
	if sf, err = vf.DerivedField(dt, nil); err != nil {
		return
	}
	out = ClassifyOutput{
		Point:         ip.Vortex.Point,
		Velocity:      [2]float64{v.X, v.Y},
		Jacobian:      J,
		Eigenvalues:   [2]string{fmt.Sprint(l1), fmt.Sprint(l2)},
		CriticalPoint: cp.String(),
		Vorticity:     J.Vorticity(),
		Divergence:    J.Trace(),
		MaxSpeed:      vf.MaxMagnitude(),
		Appearance:    vortex.Classify(cp, vortex.RotationAt(vf, p)).String(),
		Derived:       dt.String(),
	}
	out.DerivedMin, out.DerivedMax, _ = sf.Range()
	if d, ok := flow.(densityFlow); ok {
		out.Density = d.Density(ip.StartTime+float64(frame)*ip.FrameDt, p)
	}
	fmt.Printf("(%8.4f,%8.4f)\t= Point\n", p.X, p.Y)
	fmt.Printf("(%8.4f,%8.4f)\t= Velocity\n", v.X, v.Y)
	fmt.Printf("%v\t= Jacobian\n", out.Jacobian)
	fmt.Printf("%v, %v\t= Eigenvalues\n", l1, l2)
	fmt.Printf("[%s]\t= Critical Point\n", out.CriticalPoint)
	fmt.Printf("[%s]\t= Appearance\n", out.Appearance)
	fmt.Printf("%10.4g\t\t= Vorticity\n", out.Vorticity)
	fmt.Printf("%10.4g\t\t= Divergence\n", out.Divergence)
	fmt.Printf("%10.4g\t\t= Max Speed\n", out.MaxSpeed)
	if out.Density != 0 {
		fmt.Printf("%10.6f\t\t= Density\n", out.Density)
	}
	fmt.Printf("[%10.4g, %10.4g]\t= %s Range\n", out.DerivedMin, out.DerivedMax, out.Derived)
	return
}
