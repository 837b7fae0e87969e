/*
 * main.go, part of pbfev.
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

// Command pbfev reads a stream of JSON records, one per line, each with a
// molecule, its scaffold, its exit-marked structure and exit pairs, and
// writes one JSON line per record with the exit vector angles of the molecule.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/rmera/pbfev"
	"github.com/rmera/pbfev/chemjson"
	"github.com/rmera/pbfev/chemplot"
	"github.com/rmera/pbfev/histo"
)

type config struct {
	in, out      string
	compress     string
	cpus         int
	chunk        int
	massWeighted bool
	signed       bool
	inferFlat    bool
	flatTol      float64
	hist         string
	width        float64
	summary      bool
	verbose      bool
}

func parseFlags(args []string) (*config, error) {
	c := new(config)
	fs := flag.NewFlagSet("pbfev", flag.ContinueOnError)
	fs.StringVar(&c.in, "in", "", "input record stream (plain, gzip or zstd). Standard input if not given")
	fs.StringVar(&c.out, "out", "", "output file. Standard output if not given")
	fs.StringVar(&c.compress, "compress", "", "compress the output with zstd or gzip")
	fs.IntVar(&c.cpus, "cpus", 0, "number of goroutines to use. All logical CPUs if 0")
	fs.IntVar(&c.chunk, "chunk", 512, "number of records read and processed at a time")
	fs.BoolVar(&c.massWeighted, "massweighted", false, "weight the scaffold atoms by their masses when fitting the plane")
	fs.BoolVar(&c.signed, "signed", false, "also report the signed, untruncated deviations")
	fs.BoolVar(&c.inferFlat, "inferflat", false, "decide whether structures without dimensionality flag are 3D from their z coordinates. Otherwise they are taken as 3D")
	fs.Float64Var(&c.flatTol, "flattol", 1e-4, "with -inferflat, z coordinates within this of 0 make a structure non-3D")
	fs.StringVar(&c.hist, "hist", "", "plot a histogram of all the computed angles to this file (png, svg, pdf...)")
	fs.Float64Var(&c.width, "width", 10, "bin width of the histogram, in degrees")
	fs.BoolVar(&c.summary, "summary", false, "log a summary of all the computed angles")
	fs.BoolVar(&c.verbose, "v", false, "verbose")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if c.chunk < 1 {
		return nil, fmt.Errorf("invalid chunk size %d", c.chunk)
	}
	if c.width <= 0 || c.width > histo.MaxAngle {
		return nil, fmt.Errorf("invalid histogram bin width %v", c.width)
	}
	return c, nil
}

func (c *config) options() *pbfev.Options {
	o := pbfev.DefaultOptions()
	o.Cpus(c.cpus)
	o.MassWeighted(c.massWeighted)
	o.Signed(c.signed)
	o.InferFlat(c.inferFlat)
	o.FlatTolerance(c.flatTol)
	o.Verbose(c.verbose)
	return o
}

func main() {
	c, err := parseFlags(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
	in := io.Reader(os.Stdin)
	if c.in != "" {
		f, err := os.Open(c.in)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		in = f
	}
	out := io.Writer(os.Stdout)
	if c.out != "" {
		f, err := os.Create(c.out)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		out = f
	}
	if err := run(c, in, out); err != nil {
		log.Fatal(err)
	}
}

// run processes all the records in in and writes the outputs, in the same order, to out.
// Records are read and processed c.chunk at a time.
// Records that can't be read or turned into tasks give an output with the error.
func run(c *config, in io.Reader, out io.Writer) error {
	reader, err := chemjson.NewRecordReader(in)
	if err != nil {
		return err
	}
	defer reader.Close()
	w, err := chemjson.NewWriter(out, c.compress)
	if err != nil {
		return err
	}
	o := c.options()
	var angles []float64
	for chunk := 0; ; chunk++ {
		outputs, tasks, taskpos, eof, err := readChunk(reader, c.chunk)
		if err != nil {
			w.Close()
			return err
		}
		if c.verbose && len(tasks) > 0 {
			log.Printf("pbfev: processing %d records of chunk %d with %d goroutines", len(tasks), chunk, o.Cpus())
		}
		for i, tr := range pbfev.Batch(tasks, o) {
			outputs[taskpos[i]] = chemjson.NewOutput(tr)
			if tr.Err != nil {
				if c.verbose {
					log.Printf("pbfev: record %q failed: %s", tr.Name, tr.Err)
				}
				continue
			}
			if tr.Outcome == pbfev.Computed {
				angles = append(angles, tr.Angles...)
			}
		}
		for _, v := range outputs {
			if jerr := v.Send(w); jerr != nil {
				w.Close()
				return jerr
			}
		}
		if eof {
			break
		}
	}
	if err := w.Close(); err != nil {
		return err
	}
	if c.summary {
		log.Printf("pbfev: exit vector angles. %s", histo.Describe(angles))
	}
	if c.hist != "" {
		h, err := chemplot.AnglesHistogram(angles, c.width, "Exit vector angles", c.hist)
		if err != nil {
			return err
		}
		if c.verbose {
			log.Printf("pbfev: angle histogram:\n%s", h)
		}
	}
	return nil
}

// readChunk reads up to n records from reader. It returns one output slot per
// record, which is already filled for records that can't be processed, the tasks
// for the rest, and the slot of each task. eof is true if the stream ended.
func readChunk(reader *chemjson.RecordReader, n int) (outputs []*chemjson.Output, tasks []*pbfev.Task, taskpos []int, eof bool, err error) {
	for len(outputs) < n {
		rec, err := reader.Next()
		if err == io.EOF {
			return outputs, tasks, taskpos, true, nil
		}
		if err != nil {
			var jerr *chemjson.Error
			if errors.As(err, &jerr) && jerr.Record > 0 {
				log.Printf("pbfev: skipping record in line %d: %s", jerr.Record, jerr.Message)
				outputs = append(outputs, &chemjson.Output{Outcome: "error", Error: jerr})
				continue
			}
			return nil, nil, nil, false, err
		}
		task, jerr := rec.Task()
		if jerr != nil {
			jerr.Record = reader.Line()
			log.Printf("pbfev: skipping record %q: %s", rec.Name, jerr.Message)
			outputs = append(outputs, &chemjson.Output{Name: rec.Name, Outcome: "error", Error: jerr})
			continue
		}
		taskpos = append(taskpos, len(outputs))
		tasks = append(tasks, task)
		outputs = append(outputs, nil)
	}
	return outputs, tasks, taskpos, false, nil
}
