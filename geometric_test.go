/*
 * geometric_test.go, part of pbfev.
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
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	v3 "github.com/rmera/pbfev/v3"
	"gonum.org/v1/gonum/spatial/r3"
)

const testTol = 1e-9

var approx = cmpopts.EquateApprox(0, testTol)

func square() *v3.Matrix {
	return v3.FromVecs([]r3.Vec{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0}})
}

// randomCloud returns n points spread mostly along X and Y, so the
// eigenvalues of the moment tensor are well separated.
func randomCloud(rng *rand.Rand, n int) *v3.Matrix {
	vecs := make([]r3.Vec, n)
	for i := range vecs {
		vecs[i] = r3.Vec{X: 10 * (rng.Float64() - 0.5), Y: 6 * (rng.Float64() - 0.5), Z: rng.Float64() - 0.5}
	}
	return v3.FromVecs(vecs)
}

func vecSlice(v r3.Vec) []float64 { return []float64{v.X, v.Y, v.Z} }

func TestFitPlaneSquare(Te *testing.T) {
	P, err := FitPlane(square())
	if err != nil {
		Te.Fatal(err)
	}
	if d := cmp.Diff([]float64{0, 0, 1}, vecSlice(P.Normal()), approx); d != "" {
		Te.Errorf("wrong normal (-want +got):\n%s", d)
	}
	if math.Abs(P.Offset()) > testTol {
		Te.Errorf("expected a zero offset, got %v", P.Offset())
	}
	if c := P.Centroid(); c != (r3.Vec{X: 0.5, Y: 0.5, Z: 0}) {
		Te.Errorf("wrong centroid %v", c)
	}
}

func TestUnitNormal(Te *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		P, err := FitPlane(randomCloud(rng, 3+rng.Intn(20)))
		if err != nil {
			Te.Fatal(err)
		}
		if n := r3.Norm(P.Normal()); math.Abs(n-1) > testTol {
			Te.Errorf("normal of set %d is not unit-length: %v", i, n)
		}
	}
}

func TestPermutationInvariance(Te *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 20; i++ {
		points := randomCloud(rng, 12)
		perm := rng.Perm(points.NVecs())
		permuted := v3.Zeros(points.NVecs())
		permuted.SomeVecs(points, perm)
		P1, err := FitPlane(points)
		if err != nil {
			Te.Fatal(err)
		}
		P2, err := FitPlane(permuted)
		if err != nil {
			Te.Fatal(err)
		}
		if d := cmp.Diff(P1.Equation(), P2.Equation(), approx); d != "" {
			Te.Errorf("plane changed after permuting the points (-orig +permuted):\n%s", d)
		}
	}
}

func TestTranslationCovariance(Te *testing.T) {
	rng := rand.New(rand.NewSource(3))
	points := randomCloud(rng, 10)
	shift := r3.Vec{X: 12.5, Y: -3, Z: 40}
	moved := v3.Zeros(points.NVecs())
	moved.AddVec(points, shift)
	P1, err := FitPlane(points)
	if err != nil {
		Te.Fatal(err)
	}
	P2, err := FitPlane(moved)
	if err != nil {
		Te.Fatal(err)
	}
	if d := cmp.Diff(vecSlice(P1.Normal()), vecSlice(P2.Normal()), approx); d != "" {
		Te.Errorf("normal changed after a translation:\n%s", d)
	}
	want := P1.Offset() - r3.Dot(P1.Normal(), shift)
	if math.Abs(want-P2.Offset()) > 1e-8 {
		Te.Errorf("offset %v not shifted consistently, expected %v", P2.Offset(), want)
	}
	if d := P2.Distance(r3.Add(P1.Centroid(), shift)); math.Abs(d) > 1e-8 {
		Te.Errorf("translated plane doesn't pass through the translated centroid, distance %v", d)
	}
}

func TestRotationCovariance(Te *testing.T) {
	rng := rand.New(rand.NewSource(4))
	points := randomCloud(rng, 15)
	rot := r3.NewRotation(1.1, r3.Vec{X: 1, Y: 2, Z: -0.5})
	rotated := v3.Zeros(points.NVecs())
	for i := 0; i < points.NVecs(); i++ {
		rotated.SetVec(i, rot.Rotate(points.Vec(i)))
	}
	P1, err := FitPlane(points)
	if err != nil {
		Te.Fatal(err)
	}
	P2, err := FitPlane(rotated)
	if err != nil {
		Te.Fatal(err)
	}
	//the normal is defined up to a sign
	if dot := r3.Dot(rot.Rotate(P1.Normal()), P2.Normal()); math.Abs(math.Abs(dot)-1) > testTol {
		Te.Errorf("rotated normal doesn't match the normal of the rotated points, dot: %v", dot)
	}
}

func TestCoplanarExactness(Te *testing.T) {
	//2x - y + 2z = 6
	normal := r3.Vec{X: 2.0 / 3, Y: -1.0 / 3, Z: 2.0 / 3}
	origin := r3.Vec{X: 3, Y: 0, Z: 0}
	u := r3.Unit(r3.Vec{X: 1, Y: 2, Z: 0})
	w := r3.Cross(normal, u)
	rng := rand.New(rand.NewSource(5))
	vecs := make([]r3.Vec, 8)
	for i := range vecs {
		vecs[i] = r3.Add(origin, r3.Add(r3.Scale(5*rng.Float64(), u), r3.Scale(3*rng.Float64()-1, w)))
	}
	points := v3.FromVecs(vecs)
	P, err := FitPlane(points)
	if err != nil {
		Te.Fatal(err)
	}
	eq := P.Equation()
	if d := cmp.Diff([]float64{2.0 / 3, -1.0 / 3, 2.0 / 3, -2}, eq[:], approx); d != "" {
		Te.Errorf("wrong plane (-want +got):\n%s", d)
	}
	if rmsd := P.RMSD(points); rmsd > 1e-9 {
		Te.Errorf("expected a near-zero residual, got %v", rmsd)
	}
}

func TestDegenerateRejection(Te *testing.T) {
	sets := map[string]*v3.Matrix{
		"nil":        nil,
		"one point":  v3.FromVecs([]r3.Vec{{X: 1, Y: 2, Z: 3}}),
		"two points": v3.FromVecs([]r3.Vec{{X: 1, Y: 2, Z: 3}, {X: 0, Y: 0, Z: 1}}),
		"collinear":  v3.FromVecs([]r3.Vec{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 1}, {X: 2, Y: 2, Z: 2}, {X: -4, Y: -4, Z: -4}}),
		"coincident": v3.FromVecs([]r3.Vec{{X: 1, Y: 1, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 1, Y: 1, Z: 1}}),
	}
	for name, points := range sets {
		P, err := FitPlane(points)
		var ige *InsufficientGeometryError
		if !errors.As(err, &ige) {
			Te.Errorf("%s: expected an InsufficientGeometryError, got %v", name, err)
		}
		if P != nil {
			Te.Errorf("%s: got a plane %v along with the error", name, P)
		}
	}
}

func TestFitPlaneWeighted(Te *testing.T) {
	points := v3.FromVecs([]r3.Vec{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 0, Y: 0, Z: 5}})
	P, err := FitPlaneWeighted(points, []float64{12, 12, 12, 12, 0})
	if err != nil {
		Te.Fatal(err)
	}
	eq := P.Equation()
	if d := cmp.Diff([]float64{0, 0, 1, 0}, eq[:], approx); d != "" {
		Te.Errorf("massless points should not affect the fit (-want +got):\n%s", d)
	}
	rng := rand.New(rand.NewSource(6))
	cloud := randomCloud(rng, 9)
	ones := []float64{1, 1, 1, 1, 1, 1, 1, 1, 1}
	P1, err := FitPlaneWeighted(cloud, ones)
	if err != nil {
		Te.Fatal(err)
	}
	P2, err := FitPlane(cloud)
	if err != nil {
		Te.Fatal(err)
	}
	if d := cmp.Diff(P1.Equation(), P2.Equation(), approx); d != "" {
		Te.Errorf("equal weights should give the unweighted plane:\n%s", d)
	}
	if _, err := FitPlaneWeighted(cloud, ones[:3]); err == nil {
		Te.Error("expected an error for mismatched masses")
	}
	var ige *InsufficientGeometryError
	if _, err := FitPlaneWeighted(points, []float64{1, 1, 0, 0, 0}); !errors.As(err, &ige) {
		Te.Errorf("expected an InsufficientGeometryError with only 2 weighted points, got %v", err)
	}
}

func TestCanonicalSign(Te *testing.T) {
	for _, v := range []struct{ in, want r3.Vec }{
		{r3.Vec{X: 1, Y: -1}, r3.Vec{X: 1, Y: -1}},
		{r3.Vec{X: -1, Y: 1}, r3.Vec{X: 1, Y: -1}},
		{r3.Vec{Y: -1, Z: 1}, r3.Vec{Y: 1, Z: -1}},
		{r3.Vec{X: -1, Y: 1, Z: -1}, r3.Vec{X: 1, Y: -1, Z: 1}},
		{r3.Vec{X: 0.1, Y: 0.2, Z: -0.9}, r3.Vec{X: -0.1, Y: -0.2, Z: 0.9}},
	} {
		if got := canonicalSign(v.in); got != v.want {
			Te.Errorf("canonicalSign(%v): want %v, got %v", v.in, v.want, got)
		}
	}
	//v and -v always give the same normal, also close to ties.
	a := math.Sqrt2 / 2
	rng := rand.New(rand.NewSource(5))
	vecs := []r3.Vec{{X: a + 2e-12, Y: -a}, {X: a, Y: -a - 2e-12}, {X: a, Y: -a + 5e-13}}
	for i := 0; i < 20; i++ {
		vecs = append(vecs, r3.Vec{X: rng.NormFloat64(), Y: rng.NormFloat64(), Z: rng.NormFloat64()})
	}
	for _, v := range vecs {
		if canonicalSign(v) != canonicalSign(r3.Scale(-1, v)) {
			Te.Errorf("canonicalSign gives different results for %v and its opposite", v)
		}
	}
}

func TestNewPlane(Te *testing.T) {
	P, err := NewPlane(r3.Vec{X: 0, Y: 0, Z: 2}, r3.Vec{X: 1, Y: 1, Z: 3})
	if err != nil {
		Te.Fatal(err)
	}
	if P.Offset() != -3 || P.Distance(r3.Vec{X: 5, Y: 5, Z: 4}) != 1 {
		Te.Errorf("wrong plane %s", P)
	}
	if _, err := NewPlane(r3.Vec{}, r3.Vec{}); err == nil {
		Te.Error("expected an error for a zero normal")
	}
}

func TestAngle(Te *testing.T) {
	x := r3.Vec{X: 1}
	if a := Angle(x, r3.Scale(3, x)); a != 0 {
		Te.Errorf("parallel vectors should give 0, got %v", a)
	}
	if a := Angle(x, r3.Scale(-2, x)); a != math.Pi {
		Te.Errorf("antiparallel vectors should give pi, got %v", a)
	}
	if a := Rad2Deg(Angle(x, r3.Vec{X: 1, Y: 1})); math.Abs(a-45) > testTol {
		Te.Errorf("expected 45 degrees, got %v", a)
	}
}
