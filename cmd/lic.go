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
	"gonum.org/v1/gonum/stat"

	"github.com/notargets/goflowvis/InputParameters"
	"github.com/notargets/goflowvis/field"
	"github.com/notargets/goflowvis/lic"
)

type LICOutput struct {
	Width   int       `json:"Width"`
	Height  int       `json:"Height"`
	Min     float64   `json:"Min"`
	Max     float64   `json:"Max"`
	Mean    float64   `json:"Mean"`
	StdDev  float64   `json:"StdDev"`
	Traces  int       `json:"Traces"`
	Elapsed string    `json:"Elapsed"`
	Values  []float64 `json:"Values,omitempty"` // row major, row 0 at the domain minimum y
}

// LICCmd represents the lic command
var LICCmd = &cobra.Command{
	Use:   "lic",
	Short: "Line integral convolution texture of the current frame",
	Long: `Convolves white noise along streamlines of the current frame. The texture is
summarized on stdout, use -o with --values to write the pixel values.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			ip *InputParameters.AnalysisParameters
		)
		if ip, err = loadParameters(); err != nil {
			return
		}
		flags := cmd.Flags()
		if flags.Changed("width") {
			ip.LIC.Width, _ = flags.GetInt("width")
		}
		if flags.Changed("height") {
			ip.LIC.Height, _ = flags.GetInt("height")
		}
		if flags.Changed("kernel") {
			ip.LIC.KernelHalfSize, _ = flags.GetInt("kernel")
		}
		if flags.Changed("seed") {
			ip.LIC.Seed, _ = flags.GetUint64("seed")
		}
		if flags.Changed("workers") {
			ip.LIC.Workers, _ = flags.GetInt("workers")
		}
		values, _ := flags.GetBool("values")
		var out LICOutput
		if out, err = RunLIC(ip, values); err != nil {
			return
		}
		return writeOutput(out)
	},
}

func init() {
	rootCmd.AddCommand(LICCmd)
	LICCmd.Flags().IntP("width", "W", 0, "texture width in pixels")
	LICCmd.Flags().IntP("height", "H", 0, "texture height in pixels")
	LICCmd.Flags().IntP("kernel", "k", 0, "box kernel half size in pixels")
	LICCmd.Flags().Uint64("seed", 0, "noise seed")
	LICCmd.Flags().IntP("workers", "w", 0, "goroutines used for seeding")
	LICCmd.Flags().Bool("values", false, "include the pixel values in the YAML output")
}

func RunLIC(ip *InputParameters.AnalysisParameters, values bool) (out LICOutput, err error) {
	_, series, err := sampleFlow(ip)
	if err != nil {
		return
	}
	var (
		tex *field.ScalarField
		st  lic.Stats
	)
	if tex, st, err = lic.NewSynthesizer().Synthesize(series.Frame(ip.CurrentFrame), ip.LICParams()); err != nil {
		return
	}
	out.Width, out.Height = tex.NX, tex.NY
	out.Min, out.Max, _ = tex.Range()
	out.Mean, out.StdDev = stat.MeanStdDev(tex.Values(), nil)
	out.Traces = st.Traces
	out.Elapsed = st.Elapsed.String()
	if values {
		out.Values = tex.Values()
	}
	fmt.Printf("[%d x %d]\t\t= LIC Resolution\n", out.Width, out.Height)
	fmt.Printf("[%d]\t\t\t= Traces\n", out.Traces)
	fmt.Printf("%8.5f\t\t= Mean\n", out.Mean)
	fmt.Printf("%8.5f\t\t= Standard Deviation\n", out.StdDev)
	fmt.Printf("Elapsed: %s\n", out.Elapsed)
	logMemory("lic")
	return
}
