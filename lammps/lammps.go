/*
 * lammps.go, part of struct-searcher.
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
	"os"
	"os/exec"
	"path/filepath"

	searcher "github.com/t-iwamura/struct-searcher"
)

// Names of the files the runner reads and writes in a structure directory.
const (
	InitialStructureFile = "initial_structure"
	FinalStructureFile   = "final_structure"
	CommandFile          = "in.lammps"
	LogFile              = "log.lammps"
)

// Results bundles everything one minimization run produced: the parsed
// log statistics and the relaxed structure read back from the
// final-structure file.
type Results struct {
	Stats     *CalcStats
	Structure *searcher.Structure
}

// Runner invokes the external LAMMPS binary against a structure
// directory. One Runner is shared by the workers of a search; it holds no
// per-structure state, all of that lives in the directories.
type Runner struct {
	command   string
	potential string
	elements  []string
}

// NewRunner returns a Runner for the given potential file. The element
// type order is read from the potential at construction time. An empty
// command falls back to "lmp" from PATH.
func NewRunner(command, potentialFile string) (*Runner, error) {
	if command == "" {
		command = "lmp"
	}
	elements, err := ReadElements(potentialFile)
	if err != nil {
		return nil, err
	}
	return &Runner{command: command, potential: potentialFile, elements: elements}, nil
}

// Command returns the path and name of the LAMMPS executable.
func (O *Runner) Command() string {
	return O.command
}

// SetCommand sets the path and name of the LAMMPS executable.
func (O *Runner) SetCommand(name string) {
	O.command = name
}

// Elements returns the element symbols in the potential's type order.
func (O *Runner) Elements() []string {
	return O.elements
}

// WriteCommands writes the stage command file with the given force
// tolerance into dir. elements must list the species present in the
// structure, in the potential's type order, since the data file cannot
// answer that question itself; nil means all of the potential's elements.
func (O *Runner) WriteCommands(dir string, elements []string, ftol float64) error {
	if elements == nil {
		elements = O.elements
	}
	content, err := CommandFileContent(O.potential, elements, dir, ftol)
	if err != nil {
		return err
	}
	path := filepath.Join(dir, CommandFile)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return Error{ErrCantInput, path, err.Error(), []string{"WriteCommands"}, true}
	}
	return nil
}

// Run executes LAMMPS synchronously against the directory's command file.
// The call blocks until the minimization sequence finishes; cancellation
// mid-minimization is not supported, the cycle is the unit of retry.
func (O *Runner) Run(dir string) error {
	cmd := exec.Command(O.command, "-in", CommandFile, "-log", LogFile, "-screen", "none")
	cmd.Dir = dir
	if err := cmd.Run(); err != nil {
		return Error{ErrNotRunning, filepath.Join(dir, CommandFile), err.Error(), []string{"exec.Run", "Run"}, true}
	}
	return nil
}

// Results parses the log and final structure file of the last run in dir.
func (O *Runner) Results(dir string) (*Results, error) {
	stats, err := ParseLog(filepath.Join(dir, LogFile))
	if err != nil {
		return nil, err
	}
	s, err := ReadStructFile(filepath.Join(dir, FinalStructureFile), O.elements...)
	if err != nil {
		return nil, err
	}
	return &Results{Stats: stats, Structure: s}, nil
}
