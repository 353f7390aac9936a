/*
Copyright © 2024 NAME HERE <EMAIL ADDRESS>

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
	"os"
	"strings"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/goshesim/goshe/InputParameters"
	"github.com/goshesim/goshe/simulator"
	"github.com/goshesim/goshe/writers"
)

// sheCmd represents the she command
var sheCmd = &cobra.Command{
	Use:   "she",
	Short: "Self-consistent SHE simulation, bootstrapped from a DD solution",
	Long: `
Runs a drift-diffusion simulation first to obtain a good initial guess,
then re-solves with the spherical harmonics expansion for the carriers
configured with the "she" equation kind.

goshe she -I input.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		mr := &ModelRun{}
		mr.InputFile, _ = cmd.Flags().GetString("inputFile")
		mr.OutputFile, _ = cmd.Flags().GetString("outputFile")
		mr.Profile, _ = cmd.Flags().GetBool("profile")
		ip := processInput(mr)
		if mr.Profile {
			defer profile.Start().Stop()
		}
		RunSHE(mr, ip)
	},
}

func init() {
	rootCmd.AddCommand(sheCmd)
	sheCmd.Flags().StringP("inputFile", "I", "", "YAML file with device and solver parameters")
	sheCmd.Flags().StringP("outputFile", "o", "she_quan.vtk", "VTK output file for solved quantities")
	sheCmd.Flags().Bool("profile", false, "write a CPU profile for the run")
}

func RunSHE(mr *ModelRun, ip *InputParameters.InputParameters) {
	cfg, err := buildConfig(ip)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	if cfg.ElectronEquation != simulator.SHE && cfg.HoleEquation != simulator.SHE {
		fmt.Println("error: she command requires ElectronEquation or HoleEquation set to \"she\"")
		os.Exit(1)
	}

	// bootstrap: plain drift-diffusion for the initial guess
	ddCfg := cfg
	ddCfg.ElectronEquation = simulator.Continuity
	ddCfg.HoleEquation = simulator.Continuity

	ddDev, err := buildDevice(ip)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	ddSim, err := simulator.New(ddDev, ddCfg)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	fmt.Println("* main(): Launching DD simulator for the initial guess...")
	if err = ddSim.Run(); err != nil {
		var nce *simulator.NotConvergedError
		if !errors.As(err, &nce) {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
		fmt.Printf("warning: %s\n", err.Error())
	}

	sheDev, err := buildDevice(ip)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	sheSim, err := simulator.New(sheDev, cfg)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	for _, q := range []simulator.Quantity{
		simulator.PotentialQuantity,
		simulator.ElectronDensityQuantity,
		simulator.HoleDensityQuantity,
	} {
		values, qerr := ddSim.Quantity(q)
		if qerr != nil {
			fmt.Printf("error: %s\n", qerr.Error())
			os.Exit(1)
		}
		if err = sheSim.SetInitialGuess(q, values); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
	}

	fmt.Println("* main(): Computing SHE...")
	if err = sheSim.Run(); err != nil {
		var nce *simulator.NotConvergedError
		if errors.As(err, &nce) {
			fmt.Printf("warning: %s\n", err.Error())
		} else {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
	}
	writeOutput(mr.OutputFile, sheSim)
	writeEDFs(mr.OutputFile, sheSim)
}

// writeEDFs exports the solved energy distribution functions as CSV files
// derived from the VTK output name.
func writeEDFs(outputFile string, sim *simulator.Simulator) {
	var (
		base = strings.TrimSuffix(outputFile, ".vtk")
		msh  = sim.Device().Mesh()
	)
	if edf := sim.ElectronEDF(); edf != nil {
		name := base + "_electron_edf.csv"
		if err := writers.WriteEDFFile(name, msh, edf); err != nil {
			fmt.Printf("error writing %s: %s\n", name, err.Error())
			os.Exit(1)
		}
		fmt.Printf("* main(): Electron EDF written to %s\n", name)
	}
	if edf := sim.HoleEDF(); edf != nil {
		name := base + "_hole_edf.csv"
		if err := writers.WriteEDFFile(name, msh, edf); err != nil {
			fmt.Printf("error writing %s: %s\n", name, err.Error())
			os.Exit(1)
		}
		fmt.Printf("* main(): Hole EDF written to %s\n", name)
	}
}
