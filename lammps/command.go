/*
 * command.go, part of struct-searcher.
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
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Fixed minimization settings shared by every stage. Only the force
// tolerance varies between the loose and tight stages.
const (
	etol     = 0.0
	maxIter  = 1000
	maxEval  = 100000
	pressure = 0.0
)

// ReadElements reads the element symbols, in atom-type order, from the
// first line of a polymlp potential file. Tokens are whitespace separated
// and listed up to a "#" sentinel; this order must be preserved when
// emitting structure files and pair_coeff directives.
func ReadElements(potentialFile string) ([]string, error) {
	f, err := os.Open(potentialFile)
	if err != nil {
		return nil, Error{ErrNoPotential, potentialFile, err.Error(), []string{"ReadElements"}, true}
	}
	defer f.Close()
	r := bufio.NewReader(f)
	first, err := r.ReadString('\n')
	if err != nil && first == "" {
		return nil, Error{ErrNoPotential, potentialFile, err.Error(), []string{"ReadElements"}, true}
	}
	elements := []string{}
	for _, tok := range strings.Fields(first) {
		if strings.HasPrefix(tok, "#") {
			break
		}
		elements = append(elements, tok)
	}
	if len(elements) == 0 {
		return nil, Error{ErrNoPotential, potentialFile, "no element tokens on the first line", []string{"ReadElements"}, true}
	}
	return elements, nil
}

// OrderComposition rearranges a composition into the potential's atom-type
// order. Structure files number atom types by position in the composition
// and pair_coeff lists species by position in the potential file, so both
// must follow potentialElements or LAMMPS silently mislabels every atom.
// Zero-count species are dropped. An element the potential does not know
// is an error.
func OrderComposition(potentialElements, elements []string, counts []int) ([]string, []int, error) {
	present := make(map[string]int, len(elements))
	for i, e := range elements {
		if counts[i] > 0 {
			present[e] = counts[i]
		}
	}
	var outElems []string
	var outCounts []int
	for _, e := range potentialElements {
		if n, ok := present[e]; ok {
			outElems = append(outElems, e)
			outCounts = append(outCounts, n)
			delete(present, e)
		}
	}
	if len(present) > 0 {
		unknown := make([]string, 0, len(present))
		for e := range present {
			unknown = append(unknown, e)
		}
		sort.Strings(unknown)
		return nil, nil, Error{ErrUnknownElements, strings.Join(unknown, " "), "", []string{"OrderComposition"}, true}
	}
	return outElems, outCounts, nil
}

// CommandFileContent renders the LAMMPS command file for one relaxation
// stage: a four-block minimize sequence (atom positions only, then
// isotropic, anisotropic and fully triclinic box relaxation) with the
// given force tolerance. elements lists the species actually present, in
// the potential's type order, for the pair_coeff directive. All paths in
// the file are absolute so the command file is insensitive to the LAMMPS
// working directory.
func CommandFileContent(potentialFile string, elements []string, dir string, ftol float64) (string, error) {
	potAbs, err := filepath.Abs(potentialFile)
	if err != nil {
		return "", Error{ErrCantInput, potentialFile, err.Error(), []string{"CommandFileContent"}, true}
	}
	dirAbs, err := filepath.Abs(dir)
	if err != nil {
		return "", Error{ErrCantInput, dir, err.Error(), []string{"CommandFileContent"}, true}
	}
	initial := filepath.Join(dirAbs, InitialStructureFile)
	final := filepath.Join(dirAbs, FinalStructureFile)
	minimize := fmt.Sprintf("minimize %g %g %d %d", etol, ftol, maxIter, maxEval)

	lines := []string{
		"box tilt large",
		"atom_style atomic",
		"",
		"boundary p p p",
		"read_data " + initial,
		"",
		"pair_style polymlp",
		fmt.Sprintf("pair_coeff * * %s %s", potAbs, strings.Join(elements, " ")),
		"",
		"# What to monitor during minimization",
		"thermo 1",
		"thermo_style custom step temp pe etotal press fnorm",
		"thermo_modify norm no",
		"",
		"# Rebuild neighbor list at every timestep",
		"neigh_modify delay 0 every 1 check yes",
		"",
		"# Move atoms only",
		minimize,
		"reset_timestep 0",
		"",
		"# Do isotropic volume relaxation",
		fmt.Sprintf("fix fiso all box/relax iso %g", pressure),
		minimize,
		"unfix fiso",
		"reset_timestep 0",
		"",
		"# Do anisotropic volume relaxation without shear",
		fmt.Sprintf("fix faniso all box/relax aniso %g", pressure),
		minimize,
		"unfix faniso",
		"reset_timestep 0",
		"",
		"# Do anisotropic volume relaxation with shear",
		fmt.Sprintf("fix ftri all box/relax tri %g", pressure),
		minimize,
		"unfix ftri",
		"reset_timestep 0",
		"",
		"# Output final structure",
		"write_data " + final,
		"",
	}
	return strings.Join(lines, "\n"), nil
}
