/*
 * exitvectors.go, part of pbfev.
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
	"gonum.org/v1/gonum/spatial/r3"
)

// Deviations within this many degrees of a whole number are
// rounded to it before truncation.
const wholeDegreeTol = 1e-6

// ExitPair contains the index of an exit-vector marker atom and the
// index of the scaffold atom it is bonded to (the anchor).
type ExitPair struct {
	Exit   int
	Anchor int
}

// Outcome tells how a Result was obtained.
type Outcome int

const (
	// Computed means that the angles were calculated. A computed Result
	// always has one angle per exit pair.
	Computed Outcome = iota
	// NoExitVectors means that the structure has no exit vectors. The Result has no angles.
	NoExitVectors
	// Non3DInput means that the scaffold conformer is not 3D, so nothing was calculated.
	// By convention, the Result has a single angle of 0 degrees.
	Non3DInput
)

func (O Outcome) String() string {
	switch O {
	case Computed:
		return "computed"
	case NoExitVectors:
		return "no-exit-vectors"
	case Non3DInput:
		return "non-3d-input"
	}
	return fmt.Sprintf("Outcome(%d)", int(O))
}

// Result contains the exit vector angles of a structure, in degrees, in the same
// order as the exit pairs they were obtained from, and the plane they were measured against.
// The Outcome field must be checked before using the angles.
type Result struct {
	Outcome Outcome
	Angles  []float64
	Signed  []float64 //Only set on request, see Options.Signed.
	Plane   *Plane
}

// ExitAngles returns, for each pair in pairs, the angle between the exit vector
// (the vector from the anchor atom to the exit atom in coords) and the plane,
// as a whole number of degrees in [0, 90] (the absolute deviation from the plane, truncated).
// If pairs is empty, the Result has the NoExitVectors outcome.
// A pair with indexes out of range, or whose atoms are at the same position, makes the
// whole call fail, with an *IndexError or a *ZeroLengthVectorError, respectively.
func ExitAngles(plane *Plane, coords *v3.Matrix, pairs []ExitPair) (*Result, error) {
	devs, err := deviations(plane, coords, pairs)
	if err != nil {
		return nil, errDecorate(err, "ExitAngles")
	}
	if len(pairs) == 0 {
		return &Result{Outcome: NoExitVectors, Plane: plane}, nil
	}
	for i, v := range devs {
		devs[i] = wholeDegrees(v)
	}
	return &Result{Outcome: Computed, Angles: devs, Plane: plane}, nil
}

// SignedDeviations returns, for each pair in pairs, the angle between the exit vector and
// the plane in degrees, without truncation. The angle is positive if the exit
// vector points towards the side of the plane the normal points to, negative otherwise.
// It fails under the same conditions as ExitAngles. An empty pairs gives an empty slice.
func SignedDeviations(plane *Plane, coords *v3.Matrix, pairs []ExitPair) ([]float64, error) {
	devs, err := deviations(plane, coords, pairs)
	return devs, errDecorate(err, "SignedDeviations")
}

func deviations(plane *Plane, coords *v3.Matrix, pairs []ExitPair) ([]float64, error) {
	if plane == nil {
		return nil, newError("nil plane given", true)
	}
	if coords == nil {
		return nil, newError("nil coordinates given", true)
	}
	ret := make([]float64, len(pairs))
	for i, p := range pairs {
		v, err := exitVector(coords, p)
		if err != nil {
			return nil, err
		}
		ret[i] = planeDeviation(v, plane.Normal())
	}
	return ret, nil
}

// exitVector returns the vector from the anchor to the exit atom of p.
func exitVector(coords *v3.Matrix, p ExitPair) (r3.Vec, error) {
	l := coords.NVecs()
	if p.Exit < 0 || p.Exit >= l || p.Anchor < 0 || p.Anchor >= l {
		return r3.Vec{}, newIndexError(p, l)
	}
	v := r3.Sub(coords.Vec(p.Exit), coords.Vec(p.Anchor))
	if r3.Norm(v) <= appzero {
		return r3.Vec{}, newZeroLengthVectorError(p)
	}
	return v, nil
}

// planeDeviation returns 90 degrees minus the angle between v and normal, i.e.
// the signed angle between v and a plane with the given normal.
func planeDeviation(v, normal r3.Vec) float64 {
	return 90 - Rad2Deg(Angle(v, normal))
}

// wholeDegrees returns the absolute value of dev, truncated to a whole number.
func wholeDegrees(dev float64) float64 {
	a := math.Abs(dev)
	if r := math.Round(a); math.Abs(a-r) <= wholeDegreeTol {
		a = r
	}
	return math.Trunc(a)
}
