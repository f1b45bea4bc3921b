/*
 * structure.go, part of struct-searcher.
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
	"fmt"
	"math"
	"strings"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// Widening schedule of the random-structure builder. After maxWidenings
// failed distance checks the minimum-distance constraint is dropped so the
// loop always terminates.
const maxWidenings = 1000

// The acceptance threshold for the periodic minimum interatomic distance
// is distanceFactor times the largest characteristic distance among the
// elements present.
const distanceFactor = 0.75

// Structure is one candidate (or relaxed) crystal structure: a triclinic
// cell, fractional coordinates with one row per atom, and a composition.
// The coordinate rows follow the composition order: all atoms of
// Elements[0] first, then Elements[1], and so on. A Structure is never
// mutated after creation.
type Structure struct {
	Params   SystemParams
	Coords   *mat.Dense //n x 3 fractional coordinates
	Elements []string
	Counts   []int
}

// NAtoms returns the total number of atoms in the structure.
func (S *Structure) NAtoms() int {
	n := 0
	for _, c := range S.Counts {
		n += c
	}
	return n
}

// Species returns one element symbol per atom, in coordinate-row order.
func (S *Structure) Species() []string {
	sp := make([]string, 0, S.NAtoms())
	for i, e := range S.Elements {
		for j := 0; j < S.Counts[i]; j++ {
			sp = append(sp, e)
		}
	}
	return sp
}

// MinDistance returns the minimum interatomic distance in the structure
// under periodic boundary conditions, scanning the 27 neighbor images of
// each pair. It returns +Inf for structures with fewer than two atoms.
func (S *Structure) MinDistance() float64 {
	n, _ := S.Coords.Dims()
	if n < 2 {
		return math.Inf(1)
	}
	h := S.Params.CellMatrix()
	cart := mat.NewDense(n, 3, nil)
	cart.Mul(S.Coords, h)

	a1 := h.RawRowView(0)
	a2 := h.RawRowView(1)
	a3 := h.RawRowView(2)
	min := math.Inf(1)
	for i := 0; i < n; i++ {
		ci := cart.RawRowView(i)
		for j := i + 1; j < n; j++ {
			cj := cart.RawRowView(j)
			dx := ci[0] - cj[0]
			dy := ci[1] - cj[1]
			dz := ci[2] - cj[2]
			for s1 := -1.0; s1 <= 1; s1++ {
				for s2 := -1.0; s2 <= 1; s2++ {
					for s3 := -1.0; s3 <= 1; s3++ {
						x := dx + s1*a1[0] + s2*a2[0] + s3*a3[0]
						y := dy + s1*a1[1] + s2*a2[1] + s3*a3[1]
						z := dz + s1*a1[2] + s2*a2[2] + s3*a3[2]
						if d := math.Sqrt(x*x + y*y + z*z); d < min {
							min = d
						}
					}
				}
			}
		}
	}
	return min
}

// HasEnoughSpace reports whether the periodic minimum interatomic distance
// is at least dtol. Pass a non-positive dtol to use the default threshold,
// distanceFactor times the largest characteristic distance among the
// structure's elements.
func (S *Structure) HasEnoughSpace(dtol float64) bool {
	if dtol <= 0 {
		dtol = distanceFactor * MaxCharacteristicDistance(S.Elements)
	}
	return S.MinDistance() >= dtol
}

// RandomStructure builds one candidate structure: a random Niggli-reduced
// cell under the gMax volume control plus uniformly random fractional
// coordinates, with the first atom pinned to the origin. Cells whose
// volume reaches gMax^1.5 are redrawn outright. Candidates failing the
// minimum-distance check raise the sampler's lower bound by gMax/1000 and
// try again; after maxWidenings failures the distance constraint is
// dropped, so the call always returns.
func RandomStructure(gMax float64, elements []string, counts []int, rng *rand.Rand) *Structure {
	if len(elements) != len(counts) {
		panic(ErrNotComposable)
	}
	nAtom := 0
	for _, c := range counts {
		nAtom += c
	}
	volMax := math.Pow(gMax, 1.5)
	gMin := 0.0
	widenings := 0
	for {
		cell := SampleNiggliCell(gMax, gMin, rng)
		params := cell.SystemParams()
		if params.Volume() >= volMax {
			continue
		}
		coords := mat.NewDense(nAtom, 3, nil)
		for i := 1; i < nAtom; i++ {
			coords.SetRow(i, []float64{rng.Float64(), rng.Float64(), rng.Float64()})
		}
		s := &Structure{Params: params, Coords: coords, Elements: elements, Counts: counts}
		if nAtom == 1 || widenings >= maxWidenings || s.HasEnoughSpace(0) {
			return s
		}
		widenings++
		gMin += gMax / 1000
	}
}

// NAtomLists enumerates all binary compositions of n atoms: [0,n], [1,n-1]
// ... [n,0].
func NAtomLists(n int) [][]int {
	lists := make([][]int, 0, n+1)
	for i := 0; i <= n; i++ {
		lists = append(lists, []int{i, n - i})
	}
	return lists
}

// FormulaName builds a short formula label such as "Ti7-Al4". Zero-count
// elements are elided.
func FormulaName(elements []string, counts []int) string {
	parts := make([]string, 0, len(elements))
	for i, e := range elements {
		if counts[i] == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s%d", e, counts[i]))
	}
	return strings.Join(parts, "-")
}
