/*
 * niggli.go, part of struct-searcher.
 *
 * Copyright 2024 The struct-searcher developers
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

package searcher

import (
	"math"
	"sort"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// NiggliCell holds the six scalars (g1..g6) of a Niggli-reduced quadratic
// form: the squared lattice vector lengths followed by the three inner
// products a.b, c.a and b.c.
type NiggliCell [6]float64

// SystemParams is the LAMMPS-style triclinic box representation of a cell:
// three orthogonal extents and three tilt factors.
type SystemParams struct {
	Xhi float64
	Yhi float64
	Zhi float64
	Xy  float64
	Xz  float64
	Yz  float64
}

// LatticeConstants are the conventional cell parameters: lengths in
// Angstrom, angles in degrees in [0,180].
type LatticeConstants struct {
	A     float64
	B     float64
	C     float64
	Alpha float64
	Beta  float64
	Gamma float64
}

func uniform(min, max float64, src rand.Source) float64 {
	return distuv.Uniform{Min: min, Max: max, Src: src}.Rand()
}

// SampleNiggliCell creates a random Niggli-reduced cell with quadratic-form
// diagonal entries in [gMin, gMax]. It rejection-samples until the
// reduction inequality g1+g2+2*g4 >= 2*g5+2*g6 holds, which happens with
// positive probability on every draw, so the loop terminates almost
// surely. gMax controls the maximum volume of the cell.
func SampleNiggliCell(gMax, gMin float64, rng *rand.Rand) NiggliCell {
	var n NiggliCell
	for {
		g := []float64{
			uniform(gMin, gMax, rng),
			uniform(gMin, gMax, rng),
			uniform(gMin, gMax, rng),
		}
		sort.Float64s(g)
		n[0], n[1], n[2] = g[0], g[1], g[2]
		n[3] = uniform(-0.5*n[0], 0.5*n[0], rng)
		n[4] = uniform(0, 0.5*n[0], rng)
		n[5] = uniform(0, 0.5*n[1], rng)

		if n[0]+n[1]+2*n[3] >= 2*n[4]+2*n[5] {
			break
		}
	}
	return n
}

// SystemParams converts the cell to LAMMPS box/tilt parameters. It panics
// with ErrNegativeSqrt if an intermediate square-root argument is
// negative, which cannot happen for a valid reduced cell and signals a
// contract violation upstream.
func (n NiggliCell) SystemParams() SystemParams {
	var p SystemParams
	p.Xhi = math.Sqrt(n[0])
	p.Xy = n[3] / p.Xhi
	p.Xz = n[4] / p.Xhi
	y2 := n[1] - p.Xy*p.Xy
	if y2 < 0 {
		panic(ErrNegativeSqrt)
	}
	p.Yhi = math.Sqrt(y2)
	p.Yz = (n[5] - p.Xy*p.Xz) / p.Yhi
	z2 := n[2] - p.Xz*p.Xz - p.Yz*p.Yz
	if z2 < 0 {
		panic(ErrNegativeSqrt)
	}
	p.Zhi = math.Sqrt(z2)
	return p
}

//angleFromInner recovers the angle, in degrees, between two vectors of
//norms a and b from their inner product. Floating-point overshoot of the
//cosine argument past +-1 is snapped to 0 or 180 degrees by sign instead
//of raising a numeric error.
func angleFromInner(a, b, inner float64) float64 {
	v := inner / (a * b)
	if math.Abs(v) > 1 {
		if v < 0 {
			return 180.0
		}
		return 0.0
	}
	return math.Acos(v) * 180.0 / math.Pi
}

func innerFromAngle(a, b, angle float64) float64 {
	return a * b * math.Cos(angle*math.Pi/180.0)
}

// LatticeConstants converts the cell to conventional lattice constants.
func (n NiggliCell) LatticeConstants() LatticeConstants {
	a := math.Sqrt(n[0])
	b := math.Sqrt(n[1])
	c := math.Sqrt(n[2])
	return LatticeConstants{
		A:     a,
		B:     b,
		C:     c,
		Alpha: angleFromInner(b, c, n[5]),
		Beta:  angleFromInner(c, a, n[4]),
		Gamma: angleFromInner(a, b, n[3]),
	}
}

// NewNiggliCell builds the quadratic form from conventional lattice
// constants. It is the inverse of LatticeConstants up to floating-point
// error; round-tripping holds to 1e-9 absolute tolerance.
func NewNiggliCell(lc LatticeConstants) NiggliCell {
	return NiggliCell{
		lc.A * lc.A,
		lc.B * lc.B,
		lc.C * lc.C,
		innerFromAngle(lc.A, lc.B, lc.Gamma),
		innerFromAngle(lc.C, lc.A, lc.Beta),
		innerFromAngle(lc.B, lc.C, lc.Alpha),
	}
}

// CellMatrix returns the 3x3 lattice matrix with one lattice vector per
// row, in the lower-triangular convention LAMMPS uses.
func (p SystemParams) CellMatrix() *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		p.Xhi, 0, 0,
		p.Xy, p.Yhi, 0,
		p.Xz, p.Yz, p.Zhi,
	})
}

// Volume returns the cell volume. For the lower-triangular lattice matrix
// this is just the product of the diagonal extents.
func (p SystemParams) Volume() float64 {
	return p.Xhi * p.Yhi * p.Zhi
}
