/*
 * handy.go, part of pbfev.
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

import "math"

// Deg2Rad converts f from degrees to radians.
func Deg2Rad(f float64) float64 {
	return f * math.Pi / 180
}

// Rad2Deg converts f from radians to degrees.
func Rad2Deg(f float64) float64 {
	return f * 180 / math.Pi
}

//Some internal convenience functions.

// someFloats returns the elements of set with the indexes in index, in that order.
func someFloats(set []float64, index []int) []float64 {
	ret := make([]float64, 0, len(index))
	for _, i := range index {
		ret = append(ret, set[i])
	}
	return ret
}
