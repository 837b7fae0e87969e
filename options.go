/*
 * options.go, part of pbfev.
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

import "runtime"

// Options contains various options for the ExitVectorAngles and Batch functions.
type Options struct {
	cpus          int
	inferFlat     bool    //without a dimensionality flag, decide from the z coordinates.
	flatTolerance float64 //z coordinates within this of 0 make a conformer non-3D, if inferFlat is set.
	massWeighted  bool    //weight the scaffold atoms by their masses when fitting the plane.
	signed        bool    //also report the signed, untruncated deviations.
	verbose       bool
}

// DefaultOptions returns reasonable options: All logical CPUs, unflagged
// structures taken as 3D (with a flat tolerance of 1e-4 A if InferFlat is set)
// and a geometric (not mass-weighted) plane fit.
func DefaultOptions() *Options {
	r := new(Options)
	r.cpus = runtime.NumCPU()
	r.flatTolerance = 1e-4
	return r
}

// Cpus returns the number of goroutines to be used by Batch,
// and sets it to a new value, if given.
func (O *Options) Cpus(n ...int) int {
	if len(n) > 0 && n[0] > 0 {
		O.cpus = n[0]
	}
	return O.cpus
}

// InferFlat returns whether structures without a dimensionality flag are checked
// with their z coordinates (see FlatTolerance), and sets it to a new value, if given.
// Otherwise, unflagged structures are taken as 3D.
func (O *Options) InferFlat(infer ...bool) bool {
	if len(infer) > 0 {
		O.inferFlat = infer[0]
	}
	return O.inferFlat
}

// FlatTolerance returns the tolerance used to decide whether a conformer without
// a dimensionality flag is 3D, and sets it to a new value, if given.
func (O *Options) FlatTolerance(tol ...float64) float64 {
	if len(tol) > 0 && tol[0] >= 0 {
		O.flatTolerance = tol[0]
	}
	return O.flatTolerance
}

// MassWeighted returns whether the plane fit is weighted by atomic masses,
// and sets it to a new value, if given.
func (O *Options) MassWeighted(w ...bool) bool {
	if len(w) > 0 {
		O.massWeighted = w[0]
	}
	return O.massWeighted
}

// Signed returns whether ExitVectorAngles also reports the signed deviations
// of the exit vectors (see SignedDeviations), and sets it to a new value, if given.
func (O *Options) Signed(s ...bool) bool {
	if len(s) > 0 {
		O.signed = s[0]
	}
	return O.signed
}

// Verbose returns whether warnings are logged, and sets it to a new value, if given.
func (O *Options) Verbose(v ...bool) bool {
	if len(v) > 0 {
		O.verbose = v[0]
	}
	return O.verbose
}
