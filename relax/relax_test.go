/*
 * relax_test.go, part of struct-searcher.
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
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	searcher "github.com/t-iwamura/struct-searcher"
	"github.com/t-iwamura/struct-searcher/lammps"
)

func plausibleStructure() *searcher.Structure {
	return &searcher.Structure{
		Params:   searcher.SystemParams{Xhi: 5, Yhi: 5, Zhi: 5},
		Coords:   mat.NewDense(1, 3, []float64{0, 0, 0}),
		Elements: []string{"Ti"},
		Counts:   []int{1},
	}
}

func resultsWith(energy float64, reason string) *lammps.Results {
	return &lammps.Results{
		Stats:     &lammps.CalcStats{Energy: energy, NAtoms: 1, Reason: reason},
		Structure: plausibleStructure(),
	}
}

func TestClassify(Te *testing.T) {
	elements := []string{"Ti"}
	cases := []struct {
		name string
		res  *lammps.Results
		want Status
	}{
		{"converged", resultsWith(-4.5, "force tolerance"), Converged},
		{"iteration budget", resultsWith(-4.5, "max iterations"), Unfinished},
		{"evaluation budget", resultsWith(-4.5, "max force evaluations"), Unfinished},
		{"energy blowup", resultsWith(1e9, "force tolerance"), Stopped},
		{"energy collapse", resultsWith(-1e4, "force tolerance"), Stopped},
		{"unknown criterion", resultsWith(-4.5, "linesearch alpha is zero"), Stopped},
	}
	for _, c := range cases {
		d := Classify(c.res, elements)
		assert.Equal(Te, c.want, d.Status, c.name)
		assert.NotEmpty(Te, d.Cause, c.name)
	}
}

func TestClassifyVolumeCeiling(Te *testing.T) {
	res := resultsWith(-4.5, "force tolerance")
	//one Ti atom: ceiling is (2*2.87)^3, about 189. Blow the cell up
	//well past it.
	res.Structure.Params = searcher.SystemParams{Xhi: 50, Yhi: 50, Zhi: 50}
	d := Classify(res, []string{"Ti"})
	assert.Equal(Te, Stopped, d.Status)
}

func TestClassifyMissingAtomCount(Te *testing.T) {
	//a truncated log never reaches the Loop time line, so no atom count
	res := resultsWith(-4.5, "force tolerance")
	res.Stats.NAtoms = 0
	d := Classify(res, []string{"Ti"})
	assert.Equal(Te, Stopped, d.Status)
	assert.Contains(Te, d.Cause, "atom count")
}

func TestClassifyCollision(Te *testing.T) {
	res := resultsWith(-4.5, "force tolerance")
	res.Structure.Coords = mat.NewDense(2, 3, []float64{0, 0, 0, 1e-4, 0, 0})
	res.Structure.Counts = []int{2}
	res.Stats.NAtoms = 2
	d := Classify(res, []string{"Ti"})
	assert.Equal(Te, Stopped, d.Status)
}

// fakeEngine scripts the minimizer per structure directory: every Run
// writes the files the cycle machinery expects and every Results pops the
// next scripted reason of that directory. State is keyed by the directory
// base name so concurrent workers stay independent.
type fakeEngine struct {
	mu       sync.Mutex
	scripts  map[string][]string //reasons per directory base; the "" key serves single-directory tests
	failDir  string              //directory base whose Run always fails
	runs     map[string]int
	commands []float64 //ftol of every WriteCommands call
}

func newFakeEngine(reasons ...string) *fakeEngine {
	return &fakeEngine{scripts: map[string][]string{"": reasons}, runs: map[string]int{}}
}

func (F *fakeEngine) script(dir string) []string {
	if s, ok := F.scripts[filepath.Base(dir)]; ok {
		return s
	}
	return F.scripts[""]
}

func (F *fakeEngine) WriteCommands(dir string, elements []string, ftol float64) error {
	F.mu.Lock()
	F.commands = append(F.commands, ftol)
	F.mu.Unlock()
	return nil
}

func (F *fakeEngine) Run(dir string) error {
	F.mu.Lock()
	F.runs[filepath.Base(dir)]++
	F.mu.Unlock()
	if filepath.Base(dir) == F.failDir {
		return fmt.Errorf("minimizer exited with status 1")
	}
	if err := os.WriteFile(filepath.Join(dir, lammps.LogFile), []byte("fake log\n"), 0644); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, lammps.FinalStructureFile), []byte("fake structure\n"), 0644)
}

func (F *fakeEngine) Results(dir string) (*lammps.Results, error) {
	F.mu.Lock()
	n := F.runs[filepath.Base(dir)]
	F.mu.Unlock()
	return resultsWith(-4.5, F.script(dir)[n-1]), nil
}

type fakeRefiner struct{ calls int }

func (F *fakeRefiner) Refine(structFile, outFile string) error {
	F.calls++
	data, err := os.ReadFile(structFile)
	if err != nil {
		return err
	}
	return os.WriteFile(outFile, data, 0644)
}

func testController(eng *fakeEngine, ref Refiner) *Controller {
	return &Controller{
		Engine:   eng,
		Refiner:  ref,
		Stages:   DefaultStages(),
		Elements: []string{"Ti"},
		Workers:  2,
	}
}

func TestRelaxStructureConverges(Te *testing.T) {
	dir := Te.TempDir()
	eng := newFakeEngine("max iterations", "force tolerance", "force tolerance")
	ref := &fakeRefiner{}
	C := testController(eng, ref)
	out := C.RelaxStructure(dir, "00001")
	require.NoError(Te, out.Err)
	assert.Equal(Te, Converged, out.Status)
	assert.Equal(Te, 2, out.Record.Cycles("first"))
	assert.Equal(Te, 1, out.Record.Cycles("second"))
	assert.Equal(Te, 1, ref.calls)
	assert.Equal(Te, []float64{1e-3, 1e-8}, eng.commands)
	st, ok := out.Record.FinalStatus("second")
	require.True(Te, ok)
	assert.Equal(Te, Converged, st)
	//every cycle leaves an archived log and structure behind
	for _, name := range []string{
		"log.lammps.first.01.zst",
		"log.lammps.first.02.zst",
		"log.lammps.second.01.zst",
		"final_structure.first.01",
		"final_structure.second.01",
	} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(Te, err, name)
	}
	//the record on disk matches the one returned
	loaded, err := LoadRecord(dir)
	require.NoError(Te, err)
	assert.Equal(Te, out.Record.RunID, loaded.RunID)
	assert.Equal(Te, 2, loaded.Cycles("first"))
}

func TestRelaxStructureSkipsFinishedStages(Te *testing.T) {
	dir := Te.TempDir()
	eng := newFakeEngine("force tolerance", "force tolerance")
	ref := &fakeRefiner{}
	C := testController(eng, ref)
	out := C.RelaxStructure(dir, "00001")
	require.NoError(Te, out.Err)
	require.Equal(Te, Converged, out.Status)
	runs := eng.runs[filepath.Base(dir)]
	nCommands := len(eng.commands)
	//relaxing again finds both stages terminal and never touches the
	//minimizer
	out = C.RelaxStructure(dir, "00001")
	require.NoError(Te, out.Err)
	assert.Equal(Te, Converged, out.Status)
	assert.Equal(Te, runs, eng.runs[filepath.Base(dir)])
	assert.Equal(Te, nCommands, len(eng.commands))
}

func TestRelaxStructureStageOneAbort(Te *testing.T) {
	dir := Te.TempDir()
	eng := newFakeEngine("linesearch alpha is zero")
	ref := &fakeRefiner{}
	C := testController(eng, ref)
	out := C.RelaxStructure(dir, "00001")
	require.NoError(Te, out.Err)
	assert.Equal(Te, Stopped, out.Status)
	assert.Equal(Te, 1, out.Record.Cycles("first"))
	assert.Equal(Te, 0, out.Record.Cycles("second"))
	assert.Equal(Te, 0, ref.calls)
	assert.Equal(Te, []float64{1e-3}, eng.commands)
}

func TestRelaxStructureSoftTimeout(Te *testing.T) {
	dir := Te.TempDir()
	eng := newFakeEngine("max iterations", "max iterations")
	C := testController(eng, nil)
	C.Stages = []Stage{{ID: "first", Ftol: 1e-3, MaxCycles: 2}, {ID: "second", Ftol: 1e-8, MaxCycles: 2}}
	out := C.RelaxStructure(dir, "00001")
	require.NoError(Te, out.Err)
	assert.Equal(Te, Unfinished, out.Status)
	assert.Equal(Te, 2, out.Record.Cycles("first"))
	assert.Equal(Te, 0, out.Record.Cycles("second"))
}

func TestRelaxAllIsolatesFailures(Te *testing.T) {
	base := Te.TempDir()
	require.NoError(Te, os.MkdirAll(filepath.Join(base, "00001"), 0755))
	require.NoError(Te, os.MkdirAll(filepath.Join(base, "00002"), 0755))
	eng := &fakeEngine{
		scripts: map[string][]string{"00001": {"force tolerance", "force tolerance"}},
		failDir: "00002",
		runs:    map[string]int{},
	}
	C := testController(eng, nil)
	outs := C.RelaxAll(base, []string{"00001", "00002"})
	require.Len(Te, outs, 2)
	assert.Equal(Te, Converged, outs[0].Status)
	assert.NoError(Te, outs[0].Err)
	assert.Equal(Te, Stopped, outs[1].Status)
	assert.Error(Te, outs[1].Err)
	logData, err := os.ReadFile(filepath.Join(base, "00002", ErrorLogFile))
	require.NoError(Te, err)
	assert.Contains(Te, string(logData), "minimizer exited")
	_, err = os.Stat(filepath.Join(base, "00001", ErrorLogFile))
	assert.True(Te, os.IsNotExist(err))
	//the failure also lands in the persisted record
	loaded, err := LoadRecord(filepath.Join(base, "00002"))
	require.NoError(Te, err)
	st, ok := loaded.FinalStatus("errors")
	require.True(Te, ok)
	assert.Equal(Te, Stopped, st)
}

func TestRecordRoundTrip(Te *testing.T) {
	dir := Te.TempDir()
	rec := NewRecord()
	rec.Append("first", -3.5, Unfinished)
	rec.Append("first", -3.9, Converged)
	require.NoError(Te, rec.Save(dir))
	loaded, err := LoadRecord(dir)
	require.NoError(Te, err)
	assert.Equal(Te, rec.RunID, loaded.RunID)
	assert.Equal(Te, []float64{-3.5, -3.9}, loaded.Stages["first"].EnergiesPerAtom)
	assert.Equal(Te, []Status{Unfinished, Converged}, loaded.Stages["first"].Statuses)
	e, ok := loaded.FinalEnergy("first")
	require.True(Te, ok)
	assert.Equal(Te, -3.9, e)
}

func TestPlotEnergyHistory(Te *testing.T) {
	rec := NewRecord()
	rec.Append("first", -3.1, Unfinished)
	rec.Append("first", -3.4, Unfinished)
	rec.Append("first", -3.45, Converged)
	file := filepath.Join(Te.TempDir(), "history.png")
	require.NoError(Te, PlotEnergyHistory(rec, "first", file))
	info, err := os.Stat(file)
	require.NoError(Te, err)
	assert.Greater(Te, info.Size(), int64(0))
	//a stage with no data draws nothing and is not an error
	require.NoError(Te, PlotEnergyHistory(rec, "second", filepath.Join(Te.TempDir(), "empty.png")))
}

func TestLoadRecordMissing(Te *testing.T) {
	rec, err := LoadRecord(Te.TempDir())
	require.NoError(Te, err)
	assert.NotEmpty(Te, rec.RunID)
	assert.Equal(Te, 0, rec.Cycles("first"))
}
