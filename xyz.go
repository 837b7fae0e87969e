/*
 * xyz.go, part of pbfev.
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
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	v3 "github.com/rmera/pbfev/v3"
)

// XYZFileRead opens the xyz file xyzname and reads it with XYZRead.
func XYZFileRead(xyzname string) (*Molecule, error) {
	xyzfile, err := os.Open(xyzname)
	if err != nil {
		return nil, errDecorate(err, "XYZFileRead")
	}
	defer xyzfile.Close()
	mol, err := XYZRead(xyzfile)
	return mol, errDecorate(err, "XYZFileRead "+xyzname)
}

// XYZRead reads all the frames of an xyz stream and returns them as the conformers
// of a Molecule. The atoms are taken from the first frame. Every frame must have
// the same number of atoms. Markers for exit vectors can be given with the "*" symbol.
func XYZRead(in io.Reader) (*Molecule, error) {
	xyz := bufio.NewReader(in)
	var top *Topology
	var coordset []*v3.Matrix
	for frame := 0; ; frame++ {
		ats, coords, err := xyzReadFrame(xyz, frame, top == nil)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errDecorate(err, "XYZRead")
		}
		if top == nil {
			if top, err = NewTopology(ats); err != nil {
				return nil, errDecorate(err, "XYZRead")
			}
		} else if coords.NVecs() != top.Len() {
			err := newError(fmt.Sprintf("Frame %d has %d atoms, frame 0 has %d", frame, coords.NVecs(), top.Len()), true)
			err.Decorate("XYZRead")
			return nil, err
		}
		coordset = append(coordset, coords)
	}
	if top == nil {
		err := newError("No frames in xyz stream", true)
		err.Decorate("XYZRead")
		return nil, err
	}
	mol, err := NewMolecule(top, coordset...)
	return mol, errDecorate(err, "XYZRead")
}

// xyzReadFrame reads one frame. It returns io.EOF, unwrapped, if the stream
// ends before the frame starts. Atoms are only built if readAtoms is true.
func xyzReadFrame(xyz *bufio.Reader, frame int, readAtoms bool) ([]*Atom, *v3.Matrix, error) {
	line, err := xyz.ReadString('\n')
	for err == nil && strings.TrimSpace(line) == "" {
		line, err = xyz.ReadString('\n')
	}
	if strings.TrimSpace(line) == "" {
		if err == io.EOF {
			return nil, nil, io.EOF
		}
		return nil, nil, err
	}
	natoms, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || natoms <= 0 {
		return nil, nil, newError(fmt.Sprintf("Ill formatted number of atoms in frame %d: %q", frame, strings.TrimSpace(line)), true)
	}
	if _, err = xyz.ReadString('\n'); err != nil { //comment line, ignored
		return nil, nil, newError(fmt.Sprintf("Frame %d truncated", frame), true)
	}
	var ats []*Atom
	if readAtoms {
		ats = make([]*Atom, natoms)
	}
	coords := make([]float64, 3*natoms)
	for i := 0; i < natoms; i++ {
		line, err = xyz.ReadString('\n')
		fields := strings.Fields(line)
		if len(fields) < 4 {
			return nil, nil, newError(fmt.Sprintf("Line %d of frame %d ill formed or missing", i+3, frame), true)
		}
		for j := 0; j < 3; j++ {
			coords[3*i+j], err = strconv.ParseFloat(fields[j+1], 64)
			if err != nil {
				return nil, nil, newError(fmt.Sprintf("Line %d of frame %d: %s", i+3, frame, err.Error()), true)
			}
		}
		if readAtoms {
			ats[i] = &Atom{Symbol: fields[0], Name: fields[0]}
		}
	}
	m, err := v3.NewMatrix(coords)
	if err != nil {
		return nil, nil, err
	}
	return ats, m, nil
}

// XYZWrite writes the current conformer of mol to out in xyz format.
// comment is written in the second line, with new lines removed.
func XYZWrite(out io.Writer, mol *Molecule, comment string) error {
	coords := mol.Conformer()
	if coords == nil || coords.NVecs() != mol.Len() {
		err := newError("Molecule has no conformer matching its atoms", true)
		err.Decorate("XYZWrite")
		return err
	}
	w := bufio.NewWriter(out)
	fmt.Fprintf(w, "%-4d\n%s\n", mol.Len(), strings.ReplaceAll(comment, "\n", " "))
	for i := 0; i < mol.Len(); i++ {
		c := coords.Vec(i)
		fmt.Fprintf(w, "%-2s  %12.6f %12.6f %12.6f\n", mol.Atom(i).Symbol, c.X, c.Y, c.Z)
	}
	return errDecorate(w.Flush(), "XYZWrite")
}
