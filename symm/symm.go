/*
 * symm.go, part of struct-searcher.
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

/*Package symm drives an external symmetry-analysis tool.

The tool is expected to read a LAMMPS-format structure file and either
print the detected space group or write a symmetry-refined copy of the
structure. Only this thin interface is needed by the relaxation and
deduplication machinery; anything spglib-based with a compatible command
line will do.*/
package symm

import (
	"fmt"
	"os/exec"
	"strings"
)

// DefaultSymprec is the symmetry detection tolerance handed to the tool
// when the caller does not set one.
const DefaultSymprec = 1e-5

// Tool wraps the external symmetry executable. The zero value is not
// usable; get one from NewTool.
type Tool struct {
	command string
	symprec float64
}

// NewTool returns a Tool running the given executable. An empty command
// selects "spgtool" from PATH.
func NewTool(command string) *Tool {
	if command == "" {
		command = "spgtool"
	}
	return &Tool{command: command, symprec: DefaultSymprec}
}

// SetSymprec overrides the symmetry detection tolerance.
func (O *Tool) SetSymprec(prec float64) {
	if prec > 0 {
		O.symprec = prec
	}
}

// SpaceGroup returns the international space-group symbol of the
// structure in structFile, e.g. "Fm-3m (225)". The string is compared
// verbatim by the deduplicator, so the same tool and tolerance must be
// used across a whole search.
func (O *Tool) SpaceGroup(structFile string) (string, error) {
	cmd := exec.Command(O.command, "--symprec", fmt.Sprintf("%g", O.symprec), "spacegroup", structFile)
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("symm: %s on %s: %w", O.command, structFile, err)
	}
	sg := strings.TrimSpace(string(out))
	if sg == "" {
		return "", fmt.Errorf("symm: %s reported no space group for %s", O.command, structFile)
	}
	return sg, nil
}

// Refine writes a symmetry-refined copy of structFile to outFile. It
// satisfies the relaxation controller's Refiner interface.
func (O *Tool) Refine(structFile, outFile string) error {
	cmd := exec.Command(O.command, "--symprec", fmt.Sprintf("%g", O.symprec), "refine", "-o", outFile, structFile)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("symm: %s refine %s: %w", O.command, structFile, err)
	}
	return nil
}
