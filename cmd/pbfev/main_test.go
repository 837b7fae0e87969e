/*
 * main_test.go, part of pbfev.
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

package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rmera/pbfev/chemjson"
)

const square = `{"symbol":"C"},{"symbol":"C"},{"symbol":"C"},{"symbol":"C"}`

// records contains, in order: A computable record, a flat one, a malformed line,
// a record without scaffold and one with the wrong number of coordinates.
var records = strings.Join([]string{
	`{"name":"sq","molecule":{"atoms":[` + square + `,{"symbol":"O"},{"symbol":"C"}],"coords":[[0,0,0,1,0,0,1,1,0,0,1,0,0,0,1.5,2,0,0]]},` +
		`"scaffold":{"atoms":[` + square + `],"coords":[[0,0,0,1,0,0,1,1,0,0,1,0]]},` +
		`"marked":{"atoms":[` + square + `,{"symbol":"*"},{"symbol":"*"}],"coords":[[0,0,0,1,0,0,1,1,0,0,1,0,0,0,1.5,2,0,0]]},` +
		`"pairs":[[4,0],[5,1]]}`,
	`{"name":"flat","molecule":{"atoms":[` + square + `],"coords":[[0,0,0,1,0,0,1,1,0,0,1,0]],"is3d":false},` +
		`"scaffold":{"atoms":[` + square + `],"coords":[[0,0,0,1,0,0,1,1,0,0,1,0]]}}`,
	`{"name": broken`,
	``,
	`{"name":"noscaffold","molecule":{"atoms":[` + square + `],"coords":[[0,0,0,1,0,0,1,1,0,0,1,0.5]]}}`,
	`{"name":"short","molecule":{"atoms":[` + square + `],"coords":[[0,0,0]]}}`,
}, "\n")

func readOutputs(Te *testing.T, b []byte) []*chemjson.Output {
	var ret []*chemjson.Output
	sc := bufio.NewScanner(bytes.NewReader(b))
	for sc.Scan() {
		o := new(chemjson.Output)
		if err := json.Unmarshal(sc.Bytes(), o); err != nil {
			Te.Fatalf("invalid output line %q: %v", sc.Text(), err)
		}
		ret = append(ret, o)
	}
	return ret
}

func TestRun(Te *testing.T) {
	hist := filepath.Join(Te.TempDir(), "angles.png")
	c, err := parseFlags([]string{"-cpus", "2", "-signed", "-summary", "-hist", hist, "-width", "30"})
	if err != nil {
		Te.Fatal(err)
	}
	out := new(bytes.Buffer)
	if err := run(c, strings.NewReader(records), out); err != nil {
		Te.Fatal(err)
	}
	outs := readOutputs(Te, out.Bytes())
	var names, outcomes []string
	for _, o := range outs {
		names = append(names, o.Name)
		outcomes = append(outcomes, o.Outcome)
	}
	if d := cmp.Diff([]string{"sq", "flat", "", "noscaffold", "short"}, names); d != "" {
		Te.Fatalf("wrong records in output (-want +got):\n%s", d)
	}
	if d := cmp.Diff([]string{"computed", "non-3d-input", "error", "error", "error"}, outcomes); d != "" {
		Te.Errorf("wrong outcomes (-want +got):\n%s", d)
	}
	if d := cmp.Diff([]float64{90, 0}, outs[0].Angles); d != "" {
		Te.Errorf("wrong angles (-want +got):\n%s", d)
	}
	if len(outs[0].Signed) != 2 || len(outs[0].Plane) != 4 {
		Te.Errorf("missing signed deviations or plane: %+v", outs[0])
	}
	if d := cmp.Diff([]float64{0}, outs[1].Angles); d != "" {
		Te.Errorf("a flat structure should give a single 0 angle (-want +got):\n%s", d)
	}
	if outs[2].Error == nil || !outs[2].Error.InInput || outs[2].Error.Record != 3 {
		Te.Errorf("wrong error for the malformed line: %+v", outs[2].Error)
	}
	if outs[4].Error == nil || outs[4].Error.Record != 6 {
		Te.Errorf("wrong error for the short record: %+v", outs[4].Error)
	}
	if _, err := os.Stat(hist); err != nil {
		Te.Errorf("histogram not written: %v", err)
	}
}

func TestRunChunks(Te *testing.T) {
	var results []string
	for _, chunk := range []string{"1", "2", "512"} {
		c, err := parseFlags([]string{"-chunk", chunk, "-cpus", "2"})
		if err != nil {
			Te.Fatal(err)
		}
		out := new(bytes.Buffer)
		if err := run(c, strings.NewReader(records), out); err != nil {
			Te.Fatal(err)
		}
		if n := len(readOutputs(Te, out.Bytes())); n != 5 {
			Te.Errorf("chunk %s: expected 5 outputs, got %d", chunk, n)
		}
		results = append(results, out.String())
	}
	for i := 1; i < len(results); i++ {
		if d := cmp.Diff(results[0], results[i]); d != "" {
			Te.Errorf("output depends on the chunk size (-chunk 1 +other):\n%s", d)
		}
	}
	if _, err := parseFlags([]string{"-chunk", "0"}); err == nil {
		Te.Error("expected an error for a zero chunk size")
	}
}

func TestRunInferFlat(Te *testing.T) {
	unflagged := `{"name":"unflagged","molecule":{"atoms":[` + square + `],"coords":[[0,0,0,1,0,0,1,1,0,0,1,0]]},` +
		`"scaffold":{"atoms":[` + square + `],"coords":[[0,0,0,1,0,0,1,1,0,0,1,0]]}}`
	for _, v := range []struct {
		args    []string
		outcome string
	}{
		{nil, "error"}, //taken as 3D, so the missing exit-marked structure is an error.
		{[]string{"-inferflat"}, "non-3d-input"},
	} {
		c, err := parseFlags(v.args)
		if err != nil {
			Te.Fatal(err)
		}
		out := new(bytes.Buffer)
		if err := run(c, strings.NewReader(unflagged), out); err != nil {
			Te.Fatal(err)
		}
		outs := readOutputs(Te, out.Bytes())
		if len(outs) != 1 || outs[0].Outcome != v.outcome {
			Te.Errorf("flags %v: expected a single %s output, got %+v", v.args, v.outcome, outs)
		}
	}
}

func TestRunCompressed(Te *testing.T) {
	c, err := parseFlags([]string{"-compress", "zstd"})
	if err != nil {
		Te.Fatal(err)
	}
	out := new(bytes.Buffer)
	if err := run(c, strings.NewReader(records), out); err != nil {
		Te.Fatal(err)
	}
	if !bytes.HasPrefix(out.Bytes(), []byte{0x28, 0xb5, 0x2f, 0xfd}) {
		Te.Error("output is not zstd-compressed")
	}
	if _, err := parseFlags([]string{"-width", "-1"}); err == nil {
		Te.Error("expected an error for a negative bin width")
	}
}
