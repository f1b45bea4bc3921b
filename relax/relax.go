/*
 * relax.go, part of struct-searcher.
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
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/t-iwamura/struct-searcher/lammps"
)

// ErrorLogFile is the per-structure file collecting isolated failures.
const ErrorLogFile = "errors.log"

// Stage is one relaxation stage: an id used as the key of the statistics
// record, the force tolerance handed to the minimizer, and the cycle
// budget.
type Stage struct {
	ID        string
	Ftol      float64
	MaxCycles int
}

// DefaultStages returns the two-stage schedule used in production: a
// loose pass that discards hopeless candidates cheaply, then a tight pass
// on the survivors.
func DefaultStages() []Stage {
	return []Stage{
		{ID: "first", Ftol: 1e-3, MaxCycles: 10},
		{ID: "second", Ftol: 1e-8, MaxCycles: 10},
	}
}

// Engine abstracts the external minimizer so the control loop can be
// tested without LAMMPS. lammps.Runner is the production implementation.
// The engine operates on a structure directory holding the initial
// structure file.
type Engine interface {
	WriteCommands(dir string, elements []string, ftol float64) error
	Run(dir string) error
	Results(dir string) (*lammps.Results, error)
}

// Refiner symmetry-refines a relaxed structure between stages. It is an
// external collaborator; a nil Refiner skips refinement and stage two
// starts from the raw stage-one output.
type Refiner interface {
	Refine(structFile, outFile string) error
}

// CycleSink receives every classified cycle, e.g. for a results catalog.
// Sink errors are logged and never fail the structure.
type CycleSink interface {
	RecordCycle(structureID, runID, stage string, cycle int, energyPerAtom float64, status Status) error
}

// Outcome is the terminal result of one structure's relaxation.
type Outcome struct {
	ID     string
	Status Status
	Record *Record
	Err    error //the isolated failure that stopped the structure, if any
}

// Controller drives staged relaxations. One controller serves a whole
// batch; all per-structure state lives in the structure directories, so
// workers share nothing and need no locks.
type Controller struct {
	Engine   Engine
	Refiner  Refiner
	Sink     CycleSink
	Stages   []Stage
	Elements []string //species present in the composition, in potential type order
	Workers  int
}

func (C *Controller) stages() []Stage {
	if len(C.Stages) == 0 {
		return DefaultStages()
	}
	return C.Stages
}

func (C *Controller) workers() int {
	if C.Workers > 0 {
		return C.Workers
	}
	return runtime.NumCPU()
}

// RelaxAll relaxes the structures in baseDir/<id> with independent
// workers. Outcomes are returned in input order; a failure in one
// structure never aborts the others.
func (C *Controller) RelaxAll(baseDir string, ids []string) []Outcome {
	outs := make([]Outcome, len(ids))
	sem := make(chan struct{}, C.workers())
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			outs[i] = C.RelaxStructure(filepath.Join(baseDir, id), id)
		}(i, id)
	}
	wg.Wait()
	return outs
}

// RelaxStructure runs the full stage schedule for one structure directory.
// Engine and parsing failures are appended to the directory's error log
// and converted into a STOP outcome; they are also returned in the
// Outcome for the caller's bookkeeping.
func (C *Controller) RelaxStructure(dir, id string) Outcome {
	rec, err := LoadRecord(dir)
	if err != nil {
		return C.fail(dir, id, NewRecord(), err)
	}
	var last Decision
	for i, stage := range C.stages() {
		if i > 0 {
			if err := C.refine(dir); err != nil {
				return C.fail(dir, id, rec, err)
			}
		}
		last, err = C.runStage(dir, id, stage, rec)
		if err != nil {
			return C.fail(dir, id, rec, err)
		}
		//Only a structure that actually met the force tolerance earns
		//the tighter stage; anything else ends the schedule here. A
		//stage that merely ran out of cycles stays UNFINISHED, a soft
		//timeout rather than a failure.
		if last.Status != Converged {
			break
		}
	}
	return Outcome{ID: id, Status: last.Status, Record: rec}
}

func (C *Controller) runStage(dir, id string, st Stage, rec *Record) (Decision, error) {
	//A stage whose last recorded cycle already reached a terminal status
	//is finished; re-running the command would waste minimizer time.
	if prev, ok := rec.FinalStatus(st.ID); ok && prev != Unfinished {
		return Decision{Status: prev, Cause: "stage already finished"}, nil
	}
	if err := C.Engine.WriteCommands(dir, C.Elements, st.Ftol); err != nil {
		return Decision{}, err
	}
	for cycle := rec.Cycles(st.ID) + 1; cycle <= st.MaxCycles; cycle++ {
		if err := C.Engine.Run(dir); err != nil {
			return Decision{}, err
		}
		res, err := C.Engine.Results(dir)
		if err != nil {
			return Decision{}, err
		}
		d := Classify(res, C.Elements)
		rec.Append(st.ID, res.Stats.EnergyPerAtom(), d.Status)
		if err := rec.Save(dir); err != nil {
			return Decision{}, err
		}
		if C.Sink != nil {
			if err := C.Sink.RecordCycle(id, rec.RunID, st.ID, cycle, res.Stats.EnergyPerAtom(), d.Status); err != nil {
				log.Printf("relax: cycle sink for %s: %v", id, err)
			}
		}
		if err := archiveCycle(dir, st.ID, cycle); err != nil {
			return Decision{}, err
		}
		if err := promote(dir); err != nil {
			return Decision{}, err
		}
		if d.Status != Unfinished {
			return d, nil
		}
	}
	return Decision{Status: Unfinished, Cause: "cycle budget exhausted"}, nil
}

func (C *Controller) refine(dir string) error {
	if C.Refiner == nil {
		return nil
	}
	return C.Refiner.Refine(
		filepath.Join(dir, lammps.FinalStructureFile),
		filepath.Join(dir, lammps.InitialStructureFile),
	)
}

func (C *Controller) fail(dir, id string, rec *Record, err error) Outcome {
	appendErrorLog(dir, err)
	rec.Append("errors", 0, Stopped)
	if serr := rec.Save(dir); serr != nil {
		log.Printf("relax: saving record in %s: %v", dir, serr)
	}
	return Outcome{ID: id, Status: Stopped, Record: rec, Err: err}
}

func appendErrorLog(dir string, err error) {
	f, ferr := os.OpenFile(filepath.Join(dir, ErrorLogFile), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if ferr != nil {
		log.Printf("relax: can't open error log in %s: %v", dir, ferr)
		return
	}
	defer f.Close()
	fmt.Fprintf(f, "%s %v\n", time.Now().Format(time.RFC3339), err)
}
