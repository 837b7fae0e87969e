/*
 * xyz_test.go, part of pbfev.
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
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// A square scaffold with two exit markers, in two frames. In the second one
// the first marker is tilted 45 degrees out of the plane.
const squareXYZ = `6
square with exits
C   0.0 0.0 0.0
C   1.0 0.0 0.0
C   1.0 1.0 0.0
C   0.0 1.0 0.0
*  -1.0 0.0 0.0
*   1.0 1.0 2.0

6
tilted
C   0.0 0.0 0.0
C   1.0 0.0 0.0
C   1.0 1.0 0.0
C   0.0 1.0 0.0
*  -1.0 0.0 1.0
*   1.0 1.0 2.0
`

func TestXYZRead(Te *testing.T) {
	mol, err := XYZRead(strings.NewReader(squareXYZ))
	if err != nil {
		Te.Fatal(err)
	}
	if mol.Len() != 6 || len(mol.Coords) != 2 {
		Te.Fatalf("expected 6 atoms and 2 conformers, got %d and %d", mol.Len(), len(mol.Coords))
	}
	if !mol.Atom(4).Marker() || mol.Atom(0).Marker() {
		Te.Error("wrong exit markers")
	}
	heavy := mol.HeavyAtoms()
	if d := cmp.Diff([]int{0, 1, 2, 3}, heavy); d != "" {
		Te.Errorf("wrong heavy atoms (-want +got):\n%s", d)
	}
	pairs := []ExitPair{{Exit: 4, Anchor: 0}, {Exit: 5, Anchor: 2}}
	for frame, want := range [][]float64{{0, 90}, {45, 90}} {
		mol.SetCurrent(frame)
		plane, err := ScaffoldPlane(mol, false)
		if err != nil {
			Te.Fatal(err)
		}
		res, err := ExitAngles(plane, mol.Conformer(), pairs)
		if err != nil {
			Te.Fatal(err)
		}
		if d := cmp.Diff(want, res.Angles); d != "" {
			Te.Errorf("wrong angles for frame %d (-want +got):\n%s", frame, d)
		}
	}
}

func TestXYZWrite(Te *testing.T) {
	mol, err := XYZRead(strings.NewReader(squareXYZ))
	if err != nil {
		Te.Fatal(err)
	}
	mol.SetCurrent(1)
	buf := new(bytes.Buffer)
	if err := XYZWrite(buf, mol, "second\nframe"); err != nil {
		Te.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "6   \nsecond frame\n") {
		Te.Errorf("wrong xyz header: %q", buf.String())
	}
	mol2, err := XYZRead(buf)
	if err != nil {
		Te.Fatal(err)
	}
	if d := cmp.Diff(mol.Conformer().Vecs(), mol2.Conformer().Vecs(), approx); d != "" {
		Te.Errorf("coordinates changed after writing and reading (-want +got):\n%s", d)
	}
}

func TestXYZReadErrors(Te *testing.T) {
	bad := map[string]string{
		"empty":     "\n\n",
		"count":     "three\n\nC 0 0 0\n",
		"truncated": "3\n\nC 0 0 0\nC 1 0 0\n",
		"coords":    "1\n\nC 0 x 0\n",
		"frames":    "1\n\nC 0 0 0\n2\n\nC 0 0 0\nC 1 0 0\n",
	}
	for name, xyz := range bad {
		if _, err := XYZRead(strings.NewReader(xyz)); err == nil {
			Te.Errorf("%s: expected an error", name)
		}
	}
}

func TestXYZFileRead(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "square.xyz")
	if err := os.WriteFile(name, []byte(squareXYZ), 0o644); err != nil {
		Te.Fatal(err)
	}
	mol, err := XYZFileRead(name)
	if err != nil {
		Te.Fatal(err)
	}
	if len(mol.Coords) != 2 {
		Te.Errorf("expected 2 conformers, got %d", len(mol.Coords))
	}
	if _, err := XYZFileRead(filepath.Join(Te.TempDir(), "missing.xyz")); err == nil {
		Te.Error("expected an error for a missing file")
	}
}
