/*
 * chem.go, part of pbfev.
 *
 * Copyright 2024 The pbfev authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package pbfev

import (
	"fmt"
	"math"

	v3 "github.com/rmera/pbfev/v3"
)

//Note: Some functions here panic instead of returning errors. They are accessors
//that can only fail on a programming error (nil objects or out-of-range indexes).

// Atom contains the information of an atom, except for the coordinates, which
// are kept in a v3.Matrix.
type Atom struct {
	Name   string
	Symbol string  //"*" for exit-vector marker (dummy) atoms.
	Index  int     //position in the Topology's atom slice
	Mass   float64 //if 0, the mass is taken from the symbol.
}

// Copy returns a copy of the Atom object.
func (A *Atom) Copy() *Atom {
	if A == nil {
		panic("Attempted to copy a nil atom")
	}
	ret := *A
	return &ret
}

// Heavy returns true if the atom is neither a hydrogen nor an exit marker.
func (A *Atom) Heavy() bool {
	return A.Symbol != "H" && A.Symbol != "D" && !A.Marker()
}

// Marker returns true if the atom is an exit-vector marker (a dummy atom, atomic number 0).
func (A *Atom) Marker() bool {
	return A.Symbol == MarkerSymbol
}

// MarkerSymbol is the symbol used for exit-vector marker atoms.
const MarkerSymbol = "*"

/*****Topology type***/

// Topology contains the information about a structure which doesn't depend on
// the conformer (i.e. everything except for coordinates)
type Topology struct {
	Atoms []*Atom
}

// NewTopology returns a topology with the given atoms, and their Index fields set.
func NewTopology(ats []*Atom) (*Topology, error) {
	if ats == nil {
		return nil, fmt.Errorf("NewTopology: Supplied a nil atom slice")
	}
	top := &Topology{Atoms: ats}
	top.FillIndexes()
	return top, nil
}

// FillIndexes sets the Index field of each atom to its position in the topology.
func (T *Topology) FillIndexes() {
	for i, v := range T.Atoms {
		v.Index = i
	}
}

// Atom returns the Atom corresponding to the index i
// of the Atom slice in the Topology. Panics if out of range.
func (T *Topology) Atom(i int) *Atom {
	if i < 0 || i >= len(T.Atoms) {
		panic(fmt.Sprintf("Topology.Atom: index %d out of range (%d atoms)", i, len(T.Atoms)))
	}
	return T.Atoms[i]
}

// Len returns the number of atoms in the topology.
func (T *Topology) Len() int {
	return len(T.Atoms)
}

// Masses returns a slice with the masses of all atoms. Atoms with a zero
// Mass field get the mass corresponding to their symbol. Marker atoms weigh 0.
func (T *Topology) Masses() ([]float64, error) {
	mass := make([]float64, 0, len(T.Atoms))
	for i, at := range T.Atoms {
		switch {
		case at.Mass > 0:
			mass = append(mass, at.Mass)
		case at.Marker():
			mass = append(mass, 0)
		default:
			m, ok := symbolMass[at.Symbol]
			if !ok {
				err := newError(fmt.Sprintf("No mass for atom %d with symbol %q", i, at.Symbol), true)
				err.Decorate("Masses")
				return nil, err
			}
			mass = append(mass, m)
		}
	}
	return mass, nil
}

// HeavyAtoms returns the indexes of the heavy atoms in the topology, in order.
func (T *Topology) HeavyAtoms() []int {
	ret := make([]int, 0, len(T.Atoms))
	for i, at := range T.Atoms {
		if at.Heavy() {
			ret = append(ret, i)
		}
	}
	return ret
}

/**Type Molecule**/

// Molecule contains a topology and one or more conformers (sets of coordinates).
// The conformer used in calculations is the current one, set by SetCurrent.
type Molecule struct {
	*Topology
	Coords  []*v3.Matrix
	current int
	flat    *bool
}

// NewMolecule returns a molecule with the given topology and conformers.
// It returns an error if the number of atoms doesn't match across them.
func NewMolecule(top *Topology, coords ...*v3.Matrix) (*Molecule, error) {
	if top == nil {
		return nil, fmt.Errorf("NewMolecule: Supplied a nil topology")
	}
	if len(coords) == 0 {
		return nil, fmt.Errorf("NewMolecule: Supplied no coordinates")
	}
	for i, c := range coords {
		if c == nil || c.NVecs() != top.Len() {
			return nil, fmt.Errorf("NewMolecule: Inconsistent coordinates/atoms in conformer %d", i)
		}
	}
	return &Molecule{Topology: top, Coords: coords}, nil
}

// Conformer returns the current set of coordinates.
func (M *Molecule) Conformer() *v3.Matrix {
	return M.Coords[M.current]
}

// Current returns the index of the conformer in use.
func (M *Molecule) Current() int {
	return M.current
}

// SetCurrent sets the conformer in use. Panics if i is out of range.
func (M *Molecule) SetCurrent(i int) {
	if i < 0 || i >= len(M.Coords) {
		panic(fmt.Sprintf("Molecule.SetCurrent: conformer %d out of range", i))
	}
	M.current = i
}

// SetIs3D records the dimensionality flag given by the program that
// generated the conformers. Once set, it takes precedence over the
// geometric test in Is3D.
func (M *Molecule) SetIs3D(is3D bool) {
	M.flat = new(bool)
	*M.flat = !is3D
}

// Is3D returns false if the molecule was flagged as non-3D or, when there is
// no flag, if all the z coordinates of the current conformer are within tol of 0.
func (M *Molecule) Is3D(tol float64) bool {
	if M.flat != nil {
		return !*M.flat
	}
	return Is3DCoords(M.Conformer(), tol)
}

// Is3DCoords returns true unless all the z coordinates in coords are within tol of 0.
func Is3DCoords(coords *v3.Matrix, tol float64) bool {
	if tol < 0 {
		tol = appzero
	}
	for i := 0; i < coords.NVecs(); i++ {
		if math.Abs(coords.At(i, 2)) > tol {
			return true
		}
	}
	return false
}
