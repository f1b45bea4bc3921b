/*
 * errors.go, part of struct-searcher.
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

import "fmt"

// Error is the lammps-package error type. It implements the searcher.Error
// interface so callers can decorate it on the way up without changing its
// type.
type Error struct {
	message    string
	file       string
	additional string
	deco       []string
	critical   bool
}

func (err Error) Error() string {
	return fmt.Sprintf("%s. file: %s. %s", err.message, err.file, err.additional)
}

// Decorate adds the dec string to the decoration slice of the error and
// returns the resulting slice. An empty dec only returns the current
// decoration.
func (err Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

// Critical reports whether the error should terminate the structure being
// processed.
func (err Error) Critical() bool { return err.critical }

// Error messages.
const (
	ErrNotRunning         = "struct-searcher/lammps: Failed to run the minimization"
	ErrCantInput          = "struct-searcher/lammps: Can't write the input files"
	ErrNoLog              = "struct-searcher/lammps: Can't read the log file"
	ErrMalformedLog       = "struct-searcher/lammps: Log file lacks an energy or a stopping criterion"
	ErrNoStructure        = "struct-searcher/lammps: Can't read the final structure file"
	ErrMalformedStructure = "struct-searcher/lammps: Structure file lacks a required section"
	ErrNoPotential        = "struct-searcher/lammps: Can't read the potential file"
	ErrUnknownElements    = "struct-searcher/lammps: Composition contains elements absent from the potential"
)
