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

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/goshesim/goshe/InputParameters"
	"github.com/goshesim/goshe/device"
	"github.com/goshesim/goshe/mesh"
	"github.com/goshesim/goshe/physics"
	"github.com/goshesim/goshe/simulator"
	"github.com/goshesim/goshe/solvers"
	"github.com/goshesim/goshe/writers"
)

type ModelRun struct {
	InputFile  string
	OutputFile string
	Profile    bool
}

// ddCmd represents the dd command
var ddCmd = &cobra.Command{
	Use:   "dd",
	Short: "Bipolar drift-diffusion simulation of a 1D nin diode structure",
	Long: `
Solves the self-consistent Poisson / continuity system on a one
dimensional nin diode built from the input parameters file.

goshe dd -I input.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		mr := &ModelRun{}
		mr.InputFile, _ = cmd.Flags().GetString("inputFile")
		mr.OutputFile, _ = cmd.Flags().GetString("outputFile")
		mr.Profile, _ = cmd.Flags().GetBool("profile")
		ip := processInput(mr)
		if mr.Profile {
			defer profile.Start().Stop()
		}
		RunDD(mr, ip)
	},
}

func init() {
	rootCmd.AddCommand(ddCmd)
	ddCmd.Flags().StringP("inputFile", "I", "", "YAML file with device and solver parameters")
	ddCmd.Flags().StringP("outputFile", "o", "dd_quan.vtk", "VTK output file for solved quantities")
	ddCmd.Flags().Bool("profile", false, "write a CPU profile for the run")
}

func processInput(mr *ModelRun) (ip *InputParameters.InputParameters) {
	if len(mr.InputFile) == 0 {
		err := fmt.Errorf("must supply an input parameters file (-I, --inputFile)")
		fmt.Printf("error: %s\n", err.Error())
		exampleFile := `
########################################
Title: "nin diode"
DeviceLength: 1200
CellCount: 48
ScaleFactor: 1.e-9
DopingN: 1.e20
DopingP: 1.e8
CenterDopingN: 1.e17
CenterDopingP: 1.e11
ContactBias: 0.2
ElectronEquation: continuity # or "she"
HoleEquation: continuity
MaxIterations: 50
Damping: 0.5
Tolerance: 1.e-8
LinearSolver: dense
########################################
`
		fmt.Printf("Example File:%s\n", exampleFile)
		os.Exit(1)
	}
	data, err := os.ReadFile(mr.InputFile)
	if err != nil {
		panic(err)
	}
	ip = &InputParameters.InputParameters{}
	if err = ip.Parse(data); err != nil {
		panic(err)
	}
	ip.Print()
	return
}

// buildDevice constructs the nin diode structure described by the input
// parameters: heavily doped access thirds around a lightly doped center,
// single-cell metal contacts at both ends.
func buildDevice(ip *InputParameters.InputParameters) (dev *device.Device, err error) {
	if ip.CellCount < 3 {
		err = fmt.Errorf("CellCount %d too small for a contact/center/contact structure", ip.CellCount)
		return
	}
	var (
		K   = ip.CellCount
		msh = mesh.NewLineMesh(0, ip.DeviceLength, K)
	)
	if ip.ScaleFactor != 0 && ip.ScaleFactor != 1 {
		if err = msh.Scale(ip.ScaleFactor); err != nil {
			return
		}
	}
	var center []int
	for c := K / 3; c < 2*(K/3); c++ {
		center = append(center, c)
	}
	msh.AddSegment("contact_left", []int{0})
	msh.AddSegment("i_center", center)
	msh.AddSegment("contact_right", []int{K - 1})

	dev = device.New(msh)
	dev.SetDopingN(ip.DopingN)
	dev.SetDopingP(ip.DopingP)
	cseg, _ := msh.Segment("i_center")
	dev.SetDopingN(ip.CenterDopingN, cseg)
	dev.SetDopingP(ip.CenterDopingP, cseg)

	lseg, _ := msh.Segment("contact_left")
	rseg, _ := msh.Segment("contact_right")
	dev.SetMaterial(device.Metal(), lseg)
	dev.SetMaterial(device.Metal(), rseg)
	dev.SetContactPotential(0, lseg)
	dev.SetContactPotential(ip.ContactBias, rseg)
	return
}

// buildConfig translates input parameters into a simulator configuration.
func buildConfig(ip *InputParameters.InputParameters) (cfg simulator.Config, err error) {
	cfg = simulator.DefaultConfig()
	if cfg.ElectronEquation, err = simulator.NewEquationKind(ip.ElectronEquation); err != nil {
		return
	}
	if cfg.HoleEquation, err = simulator.NewEquationKind(ip.HoleEquation); err != nil {
		return
	}
	if ip.MaxIterations > 0 {
		cfg.Nonlinear.MaxIters = ip.MaxIterations
	}
	if ip.Damping > 0 {
		cfg.Nonlinear.Damping = ip.Damping
	}
	if ip.Tolerance > 0 {
		cfg.Nonlinear.Tolerance = ip.Tolerance
	}
	if cfg.LinearSolver.Family, err = solvers.NewFamily(ip.LinearSolver); err != nil {
		return
	}
	if ip.LinearSolverMax > 0 {
		cfg.LinearSolver.MaxIters = ip.LinearSolverMax
	}
	if ip.SHE.ExpansionOrder > 0 {
		cfg.SHE.MaxExpansionOrder = ip.SHE.ExpansionOrder
	}
	if ip.SHE.EnergySpacingEV > 0 {
		cfg.SHE.EnergySpacing = ip.SHE.EnergySpacingEV * physics.Q
	}
	if ip.SHE.MaxEnergyEV > 0 {
		cfg.SHE.MaxKineticEnergy = ip.SHE.MaxEnergyEV * physics.Q
	}
	cfg.SHE.Scattering = ip.SHE.Scattering
	return
}

func RunDD(mr *ModelRun, ip *InputParameters.InputParameters) {
	dev, err := buildDevice(ip)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	cfg, err := buildConfig(ip)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	sim, err := simulator.New(dev, cfg)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	fmt.Println("* main(): Launching DD simulator...")
	if err = sim.Run(); err != nil {
		var nce *simulator.NotConvergedError
		if errors.As(err, &nce) {
			fmt.Printf("warning: %s\n", err.Error())
		} else {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
	}
	writeOutput(mr.OutputFile, sim)
}

func writeOutput(filename string, sim *simulator.Simulator) {
	var (
		msh     = sim.Device().Mesh()
		scalars = map[string][]float64{
			"potential":        sim.Potential(),
			"electron_density": sim.ElectronDensity(),
			"hole_density":     sim.HoleDensity(),
		}
		vectors = map[string][][]float64{}
	)
	for _, ct := range []simulator.CarrierType{simulator.Electron, simulator.Hole} {
		if v, err := sim.CellCurrentDensity(ct); err == nil {
			vectors[ct.String()+"_current"] = v
		}
	}
	if err := writers.WriteVTKFile(filename, msh, scalars, vectors); err != nil {
		fmt.Printf("error writing %s: %s\n", filename, err.Error())
		os.Exit(1)
	}
	fmt.Printf("* main(): Results written to %s\n", filename)
}
