// Package device couples a mesh with material, doping and contact data.
// A Device is authored once at load time and read-only for the solver core.
package device

import (
	"fmt"

	"github.com/goshesim/goshe/mesh"
	"github.com/goshesim/goshe/physics"
)

// Material carries the per-region parameters the assemblers need.
type Material struct {
	Name      string
	EpsR      float64 // relative permittivity
	MuN       float64 // electron mobility [m^2/Vs]
	MuP       float64 // hole mobility [m^2/Vs]
	Conductor bool    // contact regions carry a fixed potential
}

func Silicon() Material {
	return Material{Name: "Si", EpsR: physics.EpsRSi, MuN: 0.1400, MuP: 0.0450}
}

func Metal() Material {
	return Material{Name: "metal", EpsR: physics.EpsRMetal, MuN: 0.1400, MuP: 0.0450, Conductor: true}
}

// Device owns the mesh plus per-cell material, doping and contact data.
type Device struct {
	msh *mesh.Mesh

	material []Material
	dopingN  []float64 // donor concentration per cell [1/m^3]
	dopingP  []float64 // acceptor concentration per cell [1/m^3]

	contact    []float64 // contact potential per cell [V]
	hasContact []bool
}

// New wraps a mesh. The mesh is frozen: no further scaling is permitted.
func New(msh *mesh.Mesh) (d *Device) {
	var (
		nc = msh.NumCells()
	)
	msh.Freeze()
	d = &Device{
		msh:        msh,
		material:   make([]Material, nc),
		dopingN:    make([]float64, nc),
		dopingP:    make([]float64, nc),
		contact:    make([]float64, nc),
		hasContact: make([]bool, nc),
	}
	for i := range d.material {
		d.material[i] = Silicon()
	}
	return
}

func (d *Device) Mesh() *mesh.Mesh { return d.msh }

// cellsOf resolves the cell set of the optional segment arguments; with no
// segments given, the whole device is addressed.
func (d *Device) cellsOf(segments []mesh.Segment) (cells []int) {
	if len(segments) == 0 {
		cells = make([]int, d.msh.NumCells())
		for i := range cells {
			cells[i] = i
		}
		return
	}
	for _, seg := range segments {
		cells = append(cells, seg.Cells...)
	}
	return
}

// SetMaterial assigns a material to the given segments, or to the whole
// device when none are given.
func (d *Device) SetMaterial(m Material, segments ...mesh.Segment) {
	for _, c := range d.cellsOf(segments) {
		d.material[c] = m
	}
}

// SetDopingN assigns the donor doping [1/m^3].
func (d *Device) SetDopingN(nd float64, segments ...mesh.Segment) {
	for _, c := range d.cellsOf(segments) {
		d.dopingN[c] = nd
	}
}

// SetDopingP assigns the acceptor doping [1/m^3].
func (d *Device) SetDopingP(na float64, segments ...mesh.Segment) {
	for _, c := range d.cellsOf(segments) {
		d.dopingP[c] = na
	}
}

// SetContactPotential fixes the potential on a contact segment [V].
func (d *Device) SetContactPotential(v float64, seg mesh.Segment) {
	for _, c := range seg.Cells {
		d.contact[c] = v
		d.hasContact[c] = true
	}
}

func (d *Device) MaterialOf(cell int) Material { return d.material[cell] }
func (d *Device) DopingN(cell int) float64     { return d.dopingN[cell] }
func (d *Device) DopingP(cell int) float64     { return d.dopingP[cell] }

// ContactPotential reports the fixed potential of a contact cell.
func (d *Device) ContactPotential(cell int) (v float64, ok bool) {
	return d.contact[cell], d.hasContact[cell]
}

// Validate checks that contact cells carry conducting material.
func (d *Device) Validate() error {
	for c, has := range d.hasContact {
		if has && !d.material[c].Conductor {
			return fmt.Errorf("cell %d: contact potential set on non-conductor %q",
				c, d.material[c].Name)
		}
	}
	return nil
}
