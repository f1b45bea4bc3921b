/*
 * structfile.go, part of struct-searcher.
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

package lammps

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	searcher "github.com/t-iwamura/struct-searcher"
)

// StructFileContent renders a LAMMPS structure (data) file for the given
// candidate. Atom types are numbered over the nonzero-count elements in
// composition order; coordinates are written with 15 decimal digits. The
// output is byte-stable so it can be compared against golden files.
func StructFileContent(s *searcher.Structure) string {
	types := make([]string, 0, len(s.Elements))
	typeCounts := make([]int, 0, len(s.Elements))
	for i, e := range s.Elements {
		if s.Counts[i] == 0 {
			continue
		}
		types = append(types, e)
		typeCounts = append(typeCounts, s.Counts[i])
	}

	p := s.Params
	lines := []string{
		"# generated by struct-searcher",
		"",
		fmt.Sprintf("%d atoms", s.NAtoms()),
		fmt.Sprintf("%d atom types", len(types)),
		"",
		fmt.Sprintf("0.0 %.15f xlo xhi", p.Xhi),
		fmt.Sprintf("0.0 %.15f ylo yhi", p.Yhi),
		fmt.Sprintf("0.0 %.15f zlo zhi", p.Zhi),
		"",
		fmt.Sprintf("%.15f %.15f %.15f xy xz yz", p.Xy, p.Xz, p.Yz),
		"",
		"Masses",
		"",
	}
	for i, e := range types {
		lines = append(lines, fmt.Sprintf("%d %g", i+1, searcher.Mass(e)))
	}
	lines = append(lines, "", "Atoms", "")

	atom := 1
	for t, n := range typeCounts {
		for j := 0; j < n; j++ {
			row := s.Coords.RawRowView(atom - 1)
			lines = append(lines, fmt.Sprintf("%d %d %.15f %.15f %.15f", atom, t+1, row[0], row[1], row[2]))
			atom++
		}
	}
	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

// WriteStructFile writes the structure file for s to path.
func WriteStructFile(path string, s *searcher.Structure) error {
	if err := os.WriteFile(path, []byte(StructFileContent(s)), 0644); err != nil {
		return Error{ErrCantInput, path, err.Error(), []string{"WriteStructFile"}, true}
	}
	return nil
}

// ReadStructFile parses a LAMMPS data file as produced by a write_data
// directive, where atom positions are cartesian. Positions are converted
// to fractional coordinates wrapped into [0,1).
// The composition labels cannot be recovered from a data file; the
// returned structure carries per-type atom counts and, when the optional
// elements are given, those symbols in type order.
func ReadStructFile(path string, elements ...string) (*searcher.Structure, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Error{ErrNoStructure, path, err.Error(), []string{"ReadStructFile"}, true}
	}
	defer f.Close()

	var nAtoms, nTypes int
	var lo, hi [3]float64
	var p searcher.SystemParams
	var coords *mat.Dense
	counts := []int{}
	seenBox := 0
	inAtoms := false
	atomsRead := 0

	malformed := func(extra string) error {
		return Error{ErrMalformedStructure, path, extra, []string{"ReadStructFile"}, true}
	}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if i := strings.Index(line, "#"); i > 0 {
			line = strings.TrimSpace(line[:i])
		} else if strings.HasPrefix(line, "#") {
			continue
		}
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		switch {
		case strings.HasSuffix(line, " atoms"):
			if nAtoms, err = strconv.Atoi(fields[0]); err != nil {
				return nil, malformed(line)
			}
			coords = mat.NewDense(nAtoms, 3, nil)
		case strings.HasSuffix(line, " atom types"):
			if nTypes, err = strconv.Atoi(fields[0]); err != nil {
				return nil, malformed(line)
			}
			counts = make([]int, nTypes)
		case strings.HasSuffix(line, "xlo xhi"), strings.HasSuffix(line, "ylo yhi"), strings.HasSuffix(line, "zlo zhi"):
			if len(fields) < 2 {
				return nil, malformed(line)
			}
			l, err1 := strconv.ParseFloat(fields[0], 64)
			h, err2 := strconv.ParseFloat(fields[1], 64)
			if err1 != nil || err2 != nil {
				return nil, malformed(line)
			}
			lo[seenBox], hi[seenBox] = l, h
			seenBox++
		case strings.HasSuffix(line, "xy xz yz"):
			if len(fields) < 3 {
				return nil, malformed(line)
			}
			for i, v := range []*float64{&p.Xy, &p.Xz, &p.Yz} {
				if *v, err = strconv.ParseFloat(fields[i], 64); err != nil {
					return nil, malformed(line)
				}
			}
		case fields[0] == "Atoms":
			inAtoms = true
		case fields[0] == "Masses", fields[0] == "Velocities":
			inAtoms = false
		case inAtoms:
			if len(fields) < 5 || coords == nil || nTypes == 0 {
				return nil, malformed(line)
			}
			id, err1 := strconv.Atoi(fields[0])
			typ, err2 := strconv.Atoi(fields[1])
			if err1 != nil || err2 != nil || id < 1 || id > nAtoms || typ < 1 || typ > nTypes {
				return nil, malformed(line)
			}
			var xyz [3]float64
			for i := 0; i < 3; i++ {
				if xyz[i], err = strconv.ParseFloat(fields[2+i], 64); err != nil {
					return nil, malformed(line)
				}
			}
			coords.SetRow(id-1, xyz[:])
			counts[typ-1]++
			atomsRead++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, Error{ErrNoStructure, path, err.Error(), []string{"ReadStructFile"}, true}
	}
	if seenBox != 3 || coords == nil || atomsRead != nAtoms {
		return nil, malformed(fmt.Sprintf("read %d of %d atoms, %d box lines", atomsRead, nAtoms, seenBox))
	}
	p.Xhi = hi[0] - lo[0]
	p.Yhi = hi[1] - lo[1]
	p.Zhi = hi[2] - lo[2]

	//The data file stores cartesian positions; invert the lower
	//triangular cell matrix row by row and wrap into the unit cell.
	for i := 0; i < nAtoms; i++ {
		row := coords.RawRowView(i)
		cx, cy, cz := row[0]-lo[0], row[1]-lo[1], row[2]-lo[2]
		f3 := cz / p.Zhi
		f2 := (cy - f3*p.Yz) / p.Yhi
		f1 := (cx - f2*p.Xy - f3*p.Xz) / p.Xhi
		coords.SetRow(i, []float64{wrap(f1), wrap(f2), wrap(f3)})
	}

	var els []string
	if len(elements) >= nTypes {
		els = elements[:nTypes]
	}
	return &searcher.Structure{Params: p, Coords: coords, Elements: els, Counts: counts}, nil
}

func wrap(f float64) float64 {
	f -= math.Floor(f)
	if f == 1 { //possible after rounding, e.g. f = -1e-17
		f = 0
	}
	return f
}
