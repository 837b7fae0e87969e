/*
 * geometric.go, part of pbfev.
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
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

const appzero float64 = 0.000000000001 //used to correct floating point
//errors. Everything equal or less than this is considered zero.

// If the second largest eigenvalue of the moment tensor is smaller than this
// fraction of the largest, the points are considered collinear.
const collinearTol float64 = 1e-10

// Plane is a plane in 3D space, represented by a unit normal vector n
// and an offset d, such that for any point p on the plane, n·p + d = 0.
// The offset is therefore -n·c, where c is any point on the plane.
type Plane struct {
	normal   r3.Vec
	offset   float64
	centroid r3.Vec
}

// NewPlane returns the plane with the given normal (which doesn't need to be unit-length)
// that contains point. It returns an error if the normal is a zero vector.
func NewPlane(normal, point r3.Vec) (*Plane, error) {
	n := r3.Norm(normal)
	if n <= appzero {
		err := newError("Can't build a plane from a zero-length normal", true)
		err.Decorate("NewPlane")
		return nil, err
	}
	normal = r3.Scale(1/n, normal)
	return &Plane{normal: normal, offset: -r3.Dot(normal, point), centroid: point}, nil
}

// Normal returns the unit normal vector of the plane.
func (P *Plane) Normal() r3.Vec { return P.normal }

// Offset returns the plane offset d, such that n·p + d = 0 for p on the plane.
func (P *Plane) Offset() float64 { return P.offset }

// Centroid returns the point used to define the plane. For fitted
// planes, the (mass-weighted) center of the fitted points.
func (P *Plane) Centroid() r3.Vec { return P.centroid }

// Equation returns the coefficients a, b, c, d of the plane equation ax+by+cz+d=0.
func (P *Plane) Equation() [4]float64 {
	return [4]float64{P.normal.X, P.normal.Y, P.normal.Z, P.offset}
}

// Distance returns the signed distance from p to the plane. It is positive
// if p lies on the side of the plane the normal points to.
func (P *Plane) Distance(p r3.Vec) float64 {
	return r3.Dot(P.normal, p) + P.offset
}

// RMSD returns the root of the mean square distance between the points and the plane.
func (P *Plane) RMSD(points *v3.Matrix) float64 {
	var sq float64
	n := points.NVecs()
	for i := 0; i < n; i++ {
		d := P.Distance(points.Vec(i))
		sq += d * d
	}
	return math.Sqrt(sq / float64(n))
}

func (P *Plane) String() string {
	return fmt.Sprintf("%.4fx %+.4fy %+.4fz %+.4f = 0", P.normal.X, P.normal.Y, P.normal.Z, P.offset)
}

/**Plane fitting**/

// FitPlane returns the least-squares plane of best fit for the points, i.e. the plane
// that minimizes the sum of the squared perpendicular distances to the points.
// The plane passes through the centroid of the points and its normal is the
// direction of least variance. At least 3 non-collinear points are required,
// otherwise an *InsufficientGeometryError is returned.
// The sign of the normal is chosen so that its largest component is positive,
// which makes the result independent of the order of the points.
func FitPlane(points *v3.Matrix) (*Plane, error) {
	P, err := fitPlane(points, nil)
	return P, errDecorate(err, "FitPlane")
}

// FitPlaneWeighted is like FitPlane, but each point is weighted by the corresponding
// element of masses. A nil masses is the same as FitPlane. Only points with a positive
// mass count towards the minimum of 3 non-collinear points.
func FitPlaneWeighted(points *v3.Matrix, masses []float64) (*Plane, error) {
	P, err := fitPlane(points, masses)
	return P, errDecorate(err, "FitPlaneWeighted")
}

func fitPlane(points *v3.Matrix, mass []float64) (*Plane, error) {
	if points == nil {
		return nil, newInsufficientGeometryError("No points given to fit a plane", 0)
	}
	n := points.NVecs()
	if mass != nil {
		if len(mass) != n {
			return nil, newError(fmt.Sprintf("Inconsistent coordinates(%d)/masses(%d)", n, len(mass)), true)
		}
		positive := 0
		for _, m := range mass {
			if m < 0 {
				return nil, newError("Negative masses are not allowed", true)
			}
			if m > 0 {
				positive++
			}
		}
		n = positive
	}
	if n < 3 {
		return nil, newInsufficientGeometryError(fmt.Sprintf("At least 3 points are needed to fit a plane, got %d", n), n)
	}
	centroid, err := Centroid(points, mass)
	if err != nil {
		return nil, err
	}
	moment, err := MomentTensor(points, mass)
	if err != nil {
		return nil, err
	}
	var eig mat.EigenSym
	if ok := eig.Factorize(moment, true); !ok {
		return nil, newError("Can't obtain eigenvectors/eigenvalues of the moment tensor", true)
	}
	evals := eig.Values(nil) //ascending order
	if evals[2] <= appzero {
		return nil, newInsufficientGeometryError("All points coincide, no plane can be fitted", n)
	}
	if evals[1] <= collinearTol*evals[2] {
		return nil, newInsufficientGeometryError("Points are collinear, no plane can be fitted", n)
	}
	var evecs mat.Dense
	eig.VectorsTo(&evecs)
	normal := r3.Unit(r3.Vec{X: evecs.At(0, 0), Y: evecs.At(1, 0), Z: evecs.At(2, 0)})
	normal = canonicalSign(normal)
	return &Plane{normal: normal, offset: -r3.Dot(normal, centroid), centroid: centroid}, nil
}

// canonicalSign returns v or -v, whichever has its largest-magnitude
// component positive. On exact ties, the first of the tied components, in
// X, Y, Z order, is made positive. The choice is discontinuous where two components
// have the same magnitude, so the sign of normals close to such a tie is
// only defined up to that tie.
func canonicalSign(v r3.Vec) r3.Vec {
	comps := [3]float64{v.X, v.Y, v.Z}
	largest := 0
	for i := 1; i < 3; i++ {
		if math.Abs(comps[i]) > math.Abs(comps[largest]) {
			largest = i
		}
	}
	//strict comparison, so on exact ties the first component is kept.
	if comps[largest] < 0 {
		return r3.Scale(-1, v)
	}
	return v
}

// Centroid returns the center of mass of the points with the masses in mass.
// If mass is nil, it returns the geometric center.
func Centroid(points *v3.Matrix, mass []float64) (r3.Vec, error) {
	var c r3.Vec
	if points == nil {
		return c, newError("nil matrix to get the centroid", true)
	}
	n := points.NVecs()
	if mass != nil && len(mass) != n {
		return c, newError(fmt.Sprintf("Inconsistent coordinates(%d)/masses(%d)", n, len(mass)), true)
	}
	var total float64
	for i := 0; i < n; i++ {
		w := 1.0
		if mass != nil {
			w = mass[i]
		}
		c = r3.Add(c, r3.Scale(w, points.Vec(i)))
		total += w
	}
	if total <= 0 {
		return r3.Vec{}, newError("Total mass must be positive to obtain a centroid", true)
	}
	return r3.Scale(1/total, c), nil
}

// MomentTensor returns the 3x3 scatter matrix Σ mᵢ(pᵢ-c)(pᵢ-c)ᵀ for the points,
// with c the centroid. If mass is nil, all points weigh 1, which gives N times the
// covariance matrix of the points.
func MomentTensor(points *v3.Matrix, mass []float64) (*mat.SymDense, error) {
	center, err := Centroid(points, mass)
	if err != nil {
		return nil, errDecorate(err, "MomentTensor")
	}
	centered := v3.Zeros(points.NVecs())
	centered.SubVec(points, center)
	if mass != nil {
		for i, m := range mass {
			centered.SetVec(i, r3.Scale(math.Sqrt(m), centered.Vec(i)))
		}
	}
	var moment mat.SymDense
	moment.SymOuterK(1, centered.T())
	return &moment, nil
}

// Angle takes 2 vectors and calculates the angle in radians between them.
// The cosine is clamped to [-1, 1] to take care of floating point errors.
// It does not check for zero-length vectors.
func Angle(v1, v2 r3.Vec) float64 {
	normproduct := r3.Norm(v1) * r3.Norm(v2)
	argument := r3.Dot(v1, v2) / normproduct
	if argument > 1 || math.Abs(argument-1) <= appzero {
		argument = 1
	} else if argument < -1 || math.Abs(argument+1) <= appzero {
		argument = -1
	}
	angle := math.Acos(argument)
	if math.Abs(angle) <= appzero {
		return 0.00
	}
	return angle
}
