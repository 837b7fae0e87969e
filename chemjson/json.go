/*
 * json.go, part of pbfev.
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

package chemjson

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rmera/pbfev"
	v3 "github.com/rmera/pbfev/v3"
)

// Atom is a ready-to-serialize container for an atom.
type Atom struct {
	Symbol string  `json:"symbol"`
	Name   string  `json:"name,omitempty"`
	Mass   float64 `json:"mass,omitempty"`
}

// Structure is a ready-to-serialize container for a structure and its conformers.
// Each element of Coords contains the 3*len(Atoms) cartesian coordinates of a conformer.
// Is3D is the dimensionality flag set by the toolkit. If absent, pbfev infers it.
type Structure struct {
	Atoms  []*Atom     `json:"atoms"`
	Coords [][]float64 `json:"coords"`
	Is3D   *bool       `json:"is3d,omitempty"`
}

// Molecule builds a pbfev.Molecule from the structure.
func (S *Structure) Molecule() (*pbfev.Molecule, error) {
	if S == nil || len(S.Atoms) == 0 {
		return nil, fmt.Errorf("Structure has no atoms")
	}
	ats := make([]*pbfev.Atom, len(S.Atoms))
	for i, a := range S.Atoms {
		if a == nil {
			return nil, fmt.Errorf("Atom %d is null", i)
		}
		ats[i] = &pbfev.Atom{Symbol: a.Symbol, Name: a.Name, Mass: a.Mass}
	}
	top, err := pbfev.NewTopology(ats)
	if err != nil {
		return nil, err
	}
	coordset := make([]*v3.Matrix, 0, len(S.Coords))
	for i, c := range S.Coords {
		if len(c) != 3*len(ats) {
			return nil, fmt.Errorf("Conformer %d has %d coordinates, expected %d", i, len(c), 3*len(ats))
		}
		coords, err := v3.NewMatrix(append([]float64(nil), c...))
		if err != nil {
			return nil, err
		}
		coordset = append(coordset, coords)
	}
	mol, err := pbfev.NewMolecule(top, coordset...)
	if err != nil {
		return nil, err
	}
	if S.Is3D != nil {
		mol.SetIs3D(*S.Is3D)
	}
	return mol, nil
}

// NewStructure returns a serializable container for the atoms in mol and the given conformers.
func NewStructure(mol pbfev.Atomer, coordset ...*v3.Matrix) *Structure {
	S := &Structure{Atoms: make([]*Atom, 0, mol.Len())}
	for i := 0; i < mol.Len(); i++ {
		at := mol.Atom(i)
		S.Atoms = append(S.Atoms, &Atom{Symbol: at.Symbol, Name: at.Name, Mass: at.Mass})
	}
	for _, c := range coordset {
		flat := make([]float64, 0, 3*c.NVecs())
		for i := 0; i < c.NVecs(); i++ {
			v := c.Vec(i)
			flat = append(flat, v.X, v.Y, v.Z)
		}
		S.Coords = append(S.Coords, flat)
	}
	return S
}

// Record contains a molecule and the results of the external toolkit for it:
// The scaffold, the molecule with its side chains replaced by marker atoms ("*"),
// and the (marker, anchor) index pairs in the exit-marked structure.
type Record struct {
	Name     string     `json:"name"`
	Molecule *Structure `json:"molecule"`
	Scaffold *Structure `json:"scaffold"`
	Marked   *Structure `json:"marked"`
	Pairs    [][2]int   `json:"pairs"`
}

// Task builds a pbfev.Task from the record. The task's services return the
// precomputed scaffold, exit-marked structure and pairs of the record.
func (R *Record) Task() (*pbfev.Task, *Error) {
	const funcname = "Record.Task"
	mol, err := R.Molecule.Molecule()
	if err != nil {
		return nil, NewError("input", funcname+"(molecule)", err)
	}
	serv := &recordServices{mol: mol, pairs: make([]pbfev.ExitPair, 0, len(R.Pairs))}
	if R.Scaffold != nil {
		if serv.scaffold, err = R.Scaffold.Molecule(); err != nil {
			return nil, NewError("input", funcname+"(scaffold)", err)
		}
	}
	if R.Marked != nil {
		if serv.marked, err = R.Marked.Molecule(); err != nil {
			return nil, NewError("input", funcname+"(marked)", err)
		}
	}
	for _, p := range R.Pairs {
		serv.pairs = append(serv.pairs, pbfev.ExitPair{Exit: p[0], Anchor: p[1]})
	}
	return &pbfev.Task{Name: R.Name, Mol: mol, Scaffolder: serv, Matcher: serv}, nil
}

// recordServices implements pbfev.ScaffoldService and pbfev.PatternMatchService
// with the precomputed results in a Record.
type recordServices struct {
	mol      *pbfev.Molecule
	scaffold *pbfev.Molecule
	marked   *pbfev.Molecule
	pairs    []pbfev.ExitPair
}

func (r *recordServices) Scaffold(mol *pbfev.Molecule) (*pbfev.Molecule, error) {
	if mol != r.mol {
		return nil, fmt.Errorf("chemjson: Scaffold requested for a molecule not in the record")
	}
	if r.scaffold == nil {
		return nil, fmt.Errorf("chemjson: Record has no scaffold")
	}
	return r.scaffold, nil
}

func (r *recordServices) ExitMarked(mol, scaffold *pbfev.Molecule) (*pbfev.Molecule, error) {
	if mol != r.mol || scaffold != r.scaffold {
		return nil, fmt.Errorf("chemjson: Exit-marked structure requested for a molecule not in the record")
	}
	if r.marked == nil {
		return nil, fmt.Errorf("chemjson: Record has no exit-marked structure")
	}
	return r.marked, nil
}

func (r *recordServices) ExitPairs(marked *pbfev.Molecule) ([]pbfev.ExitPair, error) {
	if marked != r.marked {
		return nil, fmt.Errorf("chemjson: Exit pairs requested for a structure not in the record")
	}
	return r.pairs, nil
}

// Output contains the results for one record, ready to be serialized.
// Outcome is one of "computed", "no-exit-vectors", "non-3d-input" or "error".
type Output struct {
	Name    string    `json:"name"`
	Outcome string    `json:"outcome"`
	Angles  []float64 `json:"angles"`
	Signed  []float64 `json:"signed,omitempty"`
	Plane   []float64 `json:"plane,omitempty"` //a, b, c, d in ax+by+cz+d=0
	Error   *Error    `json:"error,omitempty"`
}

// NewOutput returns the Output for the given task result.
func NewOutput(tr *pbfev.TaskResult) *Output {
	O := &Output{Name: tr.Name}
	if tr.Err != nil {
		O.Outcome = "error"
		O.Error = NewError("process", "pbfev.ExitVectorAngles", tr.Err)
		return O
	}
	O.Outcome = tr.Outcome.String()
	O.Angles = tr.Angles
	O.Signed = tr.Signed
	if tr.Plane != nil {
		eq := tr.Plane.Equation()
		O.Plane = eq[:]
	}
	return O
}

// Send marshals the output and writes it to out as a single line.
func (O *Output) Send(out io.Writer) *Error {
	enc := json.NewEncoder(out)
	if err := enc.Encode(O); err != nil {
		return NewError("output", "Output.Send", err)
	}
	return nil
}

// Error is an easily JSON-serializable error type.
type Error struct {
	deco     []string
	IsError  bool   `json:"-"` //If this is false (no error) all the other fields will be at their zero-values.
	InInput  bool   `json:"in_input,omitempty"`
	InOutput bool   `json:"in_output,omitempty"`
	Record   int    `json:"record,omitempty"` //1-based line of the record stream, 0 if unknown.
	Function string `json:"function"`          //which go function gave the error
	Message  string `json:"message"`
}

// Error implements the error interface
func (J *Error) Error() string {
	if J.Record > 0 {
		return fmt.Sprintf("%s: record %d: %s", J.Function, J.Record, J.Message)
	}
	return fmt.Sprintf("%s: %s", J.Function, J.Message)
}

// Decorate will add the dec string to the decoration slice of strings of the error,
// and return the resulting slice.
func (J *Error) Decorate(dec string) []string {
	if dec == "" {
		return J.deco
	}
	J.deco = append(J.deco, dec)
	return J.deco
}

// Critical returns true. Errors in a record stop the processing of that record.
func (J *Error) Critical() bool { return true }

// Marshal serializes the error. Panics on failure.
func (J *Error) Marshal() []byte {
	ret, err2 := json.Marshal(J)
	if err2 != nil {
		panic(strings.Join([]string{J.Error(), err2.Error()}, " - ")) // Yo, dawg, I heard you like errors, so I got an error while serializing your error so you can... you know the drill.
	}
	return ret
}

// NewError takes an error and some additional info to create a json-marshal-able error.
// where can be "input", "output", or anything else, which means the error happened
// while processing.
func NewError(where, function string, err error) *Error {
	jerr := new(Error)
	jerr.IsError = true
	switch where {
	case "input":
		jerr.InInput = true
	case "output":
		jerr.InOutput = true
	}
	jerr.Function = function
	jerr.Message = err.Error()
	return jerr
}
