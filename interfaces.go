/*
 * interfaces.go, part of pbfev.
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

// Atomer is the basic interface for a topology.
type Atomer interface {

	//Atom returns the Atom corresponding to the index i
	//of the Atom slice in the Topology. Should panic if
	//out of range.
	Atom(i int) *Atom

	Len() int
}

// ScaffoldService obtains the scaffold of a structure, and the structure with its
// substituents replaced by exit-vector marker atoms (symbol "*") bonded to the
// scaffold atom they were attached to. Atom indexes and conformers of the exit-marked
// structure must share the coordinate frame of the scaffold conformer.
// Implementations usually wrap an external cheminformatics toolkit.
type ScaffoldService interface {
	Scaffold(mol *Molecule) (*Molecule, error)
	ExitMarked(mol, scaffold *Molecule) (*Molecule, error)
}

// PatternMatchService returns the (marker, anchor) atom index pairs
// of an exit-marked structure, i.e. the matches of a marker atom singly bonded to any atom.
type PatternMatchService interface {
	ExitPairs(marked *Molecule) ([]ExitPair, error)
}

// Error is the interface for errors that all packages in this library implement. The Decorate method allows to add and retrieve info from the
// error, without changing its type or wrapping it around something else.
type Error interface {
	Error() string
	Decorate(string) []string //Each call also returns the decoration slice. If passed an empty string, it just returns the current value.
	Critical() bool
}
