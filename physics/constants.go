// Package physics provides read-only physical constants and semiconductor
// helper relations in SI units.
package physics

import "math"

const (
	// Q is the elementary charge [C].
	Q = 1.602176634e-19
	// KB is the Boltzmann constant [J/K].
	KB = 1.380649e-23
	// Eps0 is the vacuum permittivity [F/m].
	Eps0 = 8.8541878128e-12
	// T300 is the reference lattice temperature [K].
	T300 = 300.0
	// NiSi is the intrinsic carrier density of silicon at 300 K [1/m^3].
	NiSi = 1.08e16
	// EpsRSi is the relative permittivity of silicon.
	EpsRSi = 11.68
	// EpsRMetal is a placeholder permittivity used for contact segments.
	EpsRMetal = 1.0
)

// ThermalVoltage returns kB*T/q [V].
func ThermalVoltage(T float64) float64 {
	return KB * T / Q
}

// BuiltInPotential returns the equilibrium potential for a net doping
// ND - NA relative to intrinsic silicon, Vt*asinh((ND-NA)/(2*ni)).
func BuiltInPotential(T, nd, na float64) float64 {
	return ThermalVoltage(T) * math.Asinh((nd-na)/(2.0*NiSi))
}

// EquilibriumDensities returns the equilibrium electron and hole densities
// for a given net doping, satisfying n*p = ni^2 and n - p = ND - NA.
func EquilibriumDensities(nd, na float64) (n, p float64) {
	var (
		net  = nd - na
		half = 0.5 * net
	)
	n = half + math.Sqrt(half*half+NiSi*NiSi)
	p = NiSi * NiSi / n
	return
}
