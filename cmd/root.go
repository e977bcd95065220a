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
	"log/slog"
	"os"

	"github.com/ghodss/yaml"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/notargets/goflowvis/InputParameters"
	"github.com/notargets/goflowvis/field"
	"github.com/notargets/goflowvis/grid"
	mp "github.com/notargets/goflowvis/model_problems"
	"github.com/notargets/goflowvis/utils"
)

var (
	cfgFile  string
	profiler interface{ Stop() }
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "goflowvis",
	Short: "Analysis of 2D time dependent flow fields",
	Long: `
Characteristic curves, vortex detection and line integral convolution over
model flows sampled on a uniform grid.

goflowvis curve -I analysis.yaml --type pathline`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if viper.GetBool("verbose") {
			utils.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
		} else {
			utils.SetLogger(nil)
		}
		if viper.GetBool("profile") {
			profiler = profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet)
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if profiler != nil {
			profiler.Stop()
			profiler = nil
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.goflowvis.yaml)")
	rootCmd.PersistentFlags().StringP("inputParameters", "I", "", "YAML file of analysis parameters, defaults are used when absent")
	rootCmd.PersistentFlags().StringP("output", "o", "", "write the result as YAML to this file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug logging to stderr")
	rootCmd.PersistentFlags().Bool("profile", false, "write a CPU profile to the current directory")
	rootCmd.PersistentFlags().IntP("frame", "f", 0, "current frame")
	for _, name := range []string{"inputParameters", "output", "verbose", "profile", "frame"} {
		_ = viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".goflowvis")
	}
	viper.SetEnvPrefix("goflowvis")
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err == nil && viper.GetBool("verbose") {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}

// loadParameters starts from the defaults and overlays the -I file when given
func loadParameters() (ip *InputParameters.AnalysisParameters, err error) {
	var (
		data []byte
	)
	ip = InputParameters.NewAnalysisParameters()
	if file := viper.GetString("inputParameters"); file != "" {
		if data, err = os.ReadFile(file); err != nil {
			return
		}
		if err = ip.Parse(data); err != nil {
			return
		}
	}
	if viper.IsSet("frame") {
		ip.CurrentFrame = viper.GetInt("frame")
	}
	if viper.GetBool("verbose") {
		ip.Print()
	}
	return
}

// logMemory reports the heap after a heavy pass, only when verbose
func logMemory(stage string) {
	if viper.GetBool("verbose") {
		utils.Logger().Debug("memory", "stage", stage, "usage", utils.GetMemUsage())
	}
}

// sampleFlow builds the configured model flow and samples it as a series of frames
func sampleFlow(ip *InputParameters.AnalysisParameters) (f mp.Analytic, s *field.Series, err error) {
	var (
		fp mp.FlowParameters
		g  grid.Grid
	)
	if err = ip.Validate(); err != nil {
		return
	}
	if fp, err = ip.FlowParameters(); err != nil {
		return
	}
	if f, err = mp.NewAnalytic(fp); err != nil {
		return
	}
	if g, err = ip.DomainGrid(); err != nil {
		return
	}
	s, err = mp.SampleSeries(f, g, ip.StartTime, ip.FrameDt, ip.Frames)
	return
}

// writeOutput dumps result as YAML when -o is set
func writeOutput(result any) (err error) {
	var (
		file = viper.GetString("output")
		data []byte
	)
	if file == "" {
		return
	}
	if data, err = yaml.Marshal(result); err != nil {
		return
	}
	if err = os.WriteFile(file, data, 0644); err != nil {
		return
	}
	fmt.Printf("wrote %s\n", file)
	return
}

func point(v []float64) (p [2]float64, err error) {
	if len(v) != 2 {
		err = fmt.Errorf("a point needs two coordinates, have %v", v)
		return
	}
	return [2]float64{v[0], v[1]}, nil
}

func vec2(a [2]float64) r2.Vec { return r2.Vec{X: a[0], Y: a[1]} }
