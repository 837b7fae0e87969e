/*
 * pbfev.go, part of pbfev.
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
	"log"

	v3 "github.com/rmera/pbfev/v3"
)

// ExitVectorAngles obtains the scaffold of mol with scaf, fits a plane to
// the heavy atoms of the scaffold and returns the angles between that plane and the
// exit vectors of the structure, found with match (see ExitAngles).
// If the structure is not 3D, the Result has the Non3DInput outcome and
// nothing else is calculated. If o is nil, DefaultOptions are used.
func ExitVectorAngles(mol *Molecule, scaf ScaffoldService, match PatternMatchService, o *Options) (*Result, error) {
	const funcname = "ExitVectorAngles"
	if o == nil {
		o = DefaultOptions()
	}
	if mol == nil || scaf == nil || match == nil {
		err := newError("nil molecule or services given", true)
		err.Decorate(funcname)
		return nil, err
	}
	scaffold, err := scaf.Scaffold(mol)
	if err != nil {
		return nil, errDecorate(err, funcname)
	}
	if scaffold == nil {
		err := newError("scaffold service returned a nil scaffold", true)
		err.Decorate(funcname)
		return nil, err
	}
	if !structureIs3D(mol, scaffold, o) {
		if o.Verbose() {
			log.Printf("pbfev: Structure with %d atoms is not 3D. Its exit vector angles will be reported as 0 degrees", mol.Len())
		}
		return &Result{Outcome: Non3DInput, Angles: []float64{0}}, nil
	}
	plane, err := ScaffoldPlane(scaffold, o.MassWeighted())
	if err != nil {
		return nil, errDecorate(err, funcname)
	}
	marked, err := scaf.ExitMarked(mol, scaffold)
	if err != nil {
		return nil, errDecorate(err, funcname)
	}
	if marked == nil {
		err := newError("scaffold service returned a nil exit-marked structure", true)
		err.Decorate(funcname)
		return nil, err
	}
	pairs, err := match.ExitPairs(marked)
	if err != nil {
		return nil, errDecorate(err, funcname)
	}
	res, err := ExitAngles(plane, marked.Conformer(), pairs)
	if err != nil {
		return nil, errDecorate(err, funcname)
	}
	if o.Signed() && res.Outcome == Computed {
		if res.Signed, err = SignedDeviations(plane, marked.Conformer(), pairs); err != nil {
			return nil, errDecorate(err, funcname)
		}
	}
	return res, nil
}

// structureIs3D uses the dimensionality flag of the scaffold or, failing that, of mol.
// Without flags, the structure is 3D unless o.InferFlat() is set and all the z
// coordinates of mol are within o.FlatTolerance() of 0. The whole structure is
// checked, as a planar scaffold placed on the XY plane can still belong to a 3D conformer.
func structureIs3D(mol, scaffold *Molecule, o *Options) bool {
	if scaffold.flat != nil {
		return !*scaffold.flat
	}
	if mol.flat != nil {
		return !*mol.flat
	}
	if !o.InferFlat() {
		return true
	}
	return mol.Is3D(o.FlatTolerance())
}

// ScaffoldPlane returns the plane of best fit for the heavy atoms of the
// current conformer of scaffold. If massWeighted is true, each atom is weighted
// by its mass.
func ScaffoldPlane(scaffold *Molecule, massWeighted bool) (*Plane, error) {
	heavy := scaffold.HeavyAtoms()
	if len(heavy) < 3 {
		err := newInsufficientGeometryError(fmt.Sprintf("Scaffold has %d heavy atoms, at least 3 are needed to fit a plane", len(heavy)), len(heavy))
		err.Decorate("ScaffoldPlane")
		return nil, err
	}
	points := v3.Zeros(len(heavy))
	if err := points.SomeVecsSafe(scaffold.Conformer(), heavy); err != nil {
		return nil, errDecorate(err, "ScaffoldPlane")
	}
	if !massWeighted {
		P, err := FitPlane(points)
		return P, errDecorate(err, "ScaffoldPlane")
	}
	masses, err := scaffold.Masses()
	if err != nil {
		return nil, errDecorate(err, "ScaffoldPlane")
	}
	P, err := FitPlaneWeighted(points, someFloats(masses, heavy))
	return P, errDecorate(err, "ScaffoldPlane")
}
