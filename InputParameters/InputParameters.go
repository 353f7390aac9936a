package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"

	"github.com/goshesim/goshe/she"
)

// SHEParameters configures the spherical-harmonics expansion, energies in eV.
type SHEParameters struct {
	ExpansionOrder  int            `yaml:"ExpansionOrder"`
	EnergySpacingEV float64        `yaml:"EnergySpacingEV"`
	MaxEnergyEV     float64        `yaml:"MaxEnergyEV"`
	Scattering      she.Scattering `yaml:"Scattering"`
}

// Parameters obtained from the YAML input file
type InputParameters struct {
	Title            string  `yaml:"Title"`
	DeviceLength     float64 `yaml:"DeviceLength"` // in units of ScaleFactor meters
	CellCount        int     `yaml:"CellCount"`
	ScaleFactor      float64 `yaml:"ScaleFactor"` // e.g. 1e-9 for a mesh authored in nm
	DopingN          float64 `yaml:"DopingN"`     // access-region donor doping [1/m^3]
	DopingP          float64 `yaml:"DopingP"`
	CenterDopingN    float64 `yaml:"CenterDopingN"` // lightly doped center region
	CenterDopingP    float64 `yaml:"CenterDopingP"`
	ContactBias      float64 `yaml:"ContactBias"` // right contact bias [V], left is grounded
	ElectronEquation string  `yaml:"ElectronEquation"`
	HoleEquation     string  `yaml:"HoleEquation"`
	MaxIterations    int     `yaml:"MaxIterations"`
	Damping          float64 `yaml:"Damping"`
	Tolerance        float64 `yaml:"Tolerance"`
	LinearSolver     string  `yaml:"LinearSolver"`
	LinearSolverMax  int     `yaml:"LinearSolverMax"`
	SHE              SHEParameters
}

func (ip *InputParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func (ip *InputParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("%8.5g\t\t= DeviceLength\n", ip.DeviceLength)
	fmt.Printf("[%d]\t\t\t= CellCount\n", ip.CellCount)
	fmt.Printf("%8.3g / %8.3g\t= DopingN / DopingP\n", ip.DopingN, ip.DopingP)
	fmt.Printf("%8.3g / %8.3g\t= CenterDopingN / CenterDopingP\n", ip.CenterDopingN, ip.CenterDopingP)
	fmt.Printf("%8.5f\t\t= ContactBias\n", ip.ContactBias)
	fmt.Printf("[%s]\t\t= ElectronEquation\n", ip.ElectronEquation)
	fmt.Printf("[%s]\t\t= HoleEquation\n", ip.HoleEquation)
	fmt.Printf("[%d]\t\t\t= MaxIterations\n", ip.MaxIterations)
	fmt.Printf("%8.5f\t\t= Damping\n", ip.Damping)
	fmt.Printf("%8.3g\t\t= Tolerance\n", ip.Tolerance)
	fmt.Printf("[%s]\t\t= LinearSolver\n", ip.LinearSolver)
	if ip.ElectronEquation == "she" || ip.HoleEquation == "she" {
		fmt.Printf("[%d]\t\t\t= SHE ExpansionOrder\n", ip.SHE.ExpansionOrder)
		fmt.Printf("%8.5f\t\t= SHE EnergySpacingEV\n", ip.SHE.EnergySpacingEV)
		fmt.Printf("%8.5f\t\t= SHE MaxEnergyEV\n", ip.SHE.MaxEnergyEV)
		fmt.Printf("%v\t= SHE Scattering\n", ip.SHE.Scattering)
	}
}
