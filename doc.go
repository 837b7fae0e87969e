/*
 * doc.go, part of pbfev.
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

/*
Package pbfev computes exit vector angles: For a 3D structure, the angles between
the bonds that connect substituents to the ring scaffold (the exit vectors) and the
plane of best fit of that scaffold. The angles describe the 3D shape of a substitution
pattern around a common scaffold.

The chemistry (obtaining the scaffold, replacing side chains with exit-vector marker
atoms and matching the marker-anchor pairs) is delegated to an external toolkit, through
the ScaffoldService and PatternMatchService interfaces. The package itself fits the
plane (FitPlane) and measures the angles (ExitAngles). ExitVectorAngles chains all the
steps for one structure, and Batch runs many structures concurrently.

Results are tagged with an Outcome, so a structure without exit vectors, or one
without 3D coordinates, can't be mistaken for a computed set of angles.
*/
package pbfev
