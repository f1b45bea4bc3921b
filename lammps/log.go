/*
 * log.go, part of struct-searcher.
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
	"os"
	"strconv"
	"strings"
)

// CalcStats is the structured result of one minimization run, extracted
// from the LAMMPS log: the final potential energy, the number of atoms and
// the stopping criterion reported by the last minimize command.
type CalcStats struct {
	Energy float64
	NAtoms int
	Reason string
}

// EnergyPerAtom returns the potential energy per atom. It returns the raw
// energy when the atom count is missing, which only happens on malformed
// logs that the classifier stops anyway.
func (c *CalcStats) EnergyPerAtom() float64 {
	if c.NAtoms <= 0 {
		return c.Energy
	}
	return c.Energy / float64(c.NAtoms)
}

// Markers written by the LAMMPS minimizer. A log may contain several
// minimize summaries (one per block of the command file); the last one
// wins.
const (
	energyMarker   = "Energy initial, next-to-last, final ="
	reasonMarker   = "Stopping criterion ="
	loopTimeMarker = "Loop time of"
)

// ReasonForceTolerance is the stopping criterion LAMMPS reports when the
// force norm dropped below the requested tolerance. It is the only
// termination reason the relaxation control loop accepts as convergence.
const ReasonForceTolerance = "force tolerance"

// ParseLog extracts CalcStats from a LAMMPS log file. A missing file or a
// log without an energy summary and stopping criterion yields a classified
// error, never a panic; the caller is expected to convert it into a STOP
// for the affected structure.
func ParseLog(path string) (*CalcStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Error{ErrNoLog, path, err.Error(), []string{"ParseLog"}, true}
	}
	defer f.Close()

	stats := &CalcStats{}
	haveEnergy := false
	wantEnergyLine := false
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if wantEnergyLine {
			wantEnergyLine = false
			fields := strings.Fields(line)
			if len(fields) == 3 {
				if e, err := strconv.ParseFloat(fields[2], 64); err == nil {
					stats.Energy = e
					haveEnergy = true
				}
			}
			continue
		}
		switch {
		case strings.HasPrefix(line, energyMarker):
			//The three energies are on the following line.
			wantEnergyLine = true
		case strings.HasPrefix(line, reasonMarker):
			stats.Reason = strings.TrimSpace(strings.TrimPrefix(line, reasonMarker))
		case strings.HasPrefix(line, loopTimeMarker):
			//"Loop time of T on P procs for S steps with N atoms"
			fields := strings.Fields(line)
			for i, tok := range fields {
				if tok == "with" && i+1 < len(fields) {
					if n, err := strconv.Atoi(fields[i+1]); err == nil {
						stats.NAtoms = n
					}
					break
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, Error{ErrNoLog, path, err.Error(), []string{"ParseLog"}, true}
	}
	if !haveEnergy || stats.Reason == "" {
		return nil, Error{ErrMalformedLog, path, "", []string{"ParseLog"}, true}
	}
	return stats, nil
}
