/*
 * classify.go, part of struct-searcher.
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

package relax

import (
	"fmt"
	"math"
	"strings"

	searcher "github.com/t-iwamura/struct-searcher"
	"github.com/t-iwamura/struct-searcher/lammps"
)

// Status is the per-cycle result of a relaxation.
type Status string

const (
	Unfinished Status = "UNFINISHED"
	Converged  Status = "CONVERGED"
	Stopped    Status = "STOP"
)

// Decision is the classified outcome of one cycle: the control status plus
// a human-readable cause for the audit trail.
type Decision struct {
	Status Status
	Cause  string
}

// Physical-plausibility bounds on the energy per atom, in eV. Anything
// outside signals a runaway minimization, not an exceptional condition.
const (
	energyCeiling = 1e8
	energyFloor   = -1e3
)

// Minimum interatomic distance tolerated in a relaxed structure. Looser
// than the generation-time threshold since some contraction is expected.
const relaxedDistanceTol = 1e-2

// Stopping criteria that mean the minimizer simply ran out of budget and
// another cycle may still converge.
var continueReasons = []string{"max iterations", "max force evaluations"}

// VolumeCeiling returns the largest plausible relaxed cell volume for
// nAtom atoms whose largest characteristic distance is dMax. A relaxed
// cell beyond this is drifting apart rather than converging.
func VolumeCeiling(nAtom int, dMax float64) float64 {
	return float64(nAtom) * math.Pow(2*dMax, 3)
}

// Classify maps one cycle's results to a control decision. The checks run
// in order: energy plausibility, volume ceiling, atomic collision, then
// the minimizer's own stopping criterion, where only the force-tolerance
// criterion counts as convergence and unrecognized criteria stop the
// structure.
func Classify(res *lammps.Results, elements []string) Decision {
	epa := res.Stats.EnergyPerAtom()
	if epa >= energyCeiling || epa <= energyFloor {
		return Decision{Stopped, fmt.Sprintf("energy out of bounds: %g eV/atom", epa)}
	}
	if res.Stats.NAtoms <= 0 {
		//without the atom count the volume ceiling is meaningless
		return Decision{Stopped, "atom count missing from the log"}
	}
	dMax := searcher.MaxCharacteristicDistance(elements)
	if v := res.Structure.Params.Volume(); v >= VolumeCeiling(res.Stats.NAtoms, dMax) {
		return Decision{Stopped, fmt.Sprintf("volume exceeded: %g", v)}
	}
	if d := res.Structure.MinDistance(); d < relaxedDistanceTol {
		return Decision{Stopped, fmt.Sprintf("atoms too close: %g", d)}
	}
	reason := res.Stats.Reason
	if strings.Contains(reason, lammps.ReasonForceTolerance) {
		return Decision{Converged, reason}
	}
	for _, r := range continueReasons {
		if strings.Contains(reason, r) {
			return Decision{Unfinished, reason}
		}
	}
	return Decision{Stopped, "unrecognized stopping criterion: " + reason}
}
