/*
 * dedup_test.go, part of struct-searcher.
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

package dedup

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/t-iwamura/struct-searcher/lammps"
)

// fakeAnalyzer maps structure file paths to canned space groups.
type fakeAnalyzer struct {
	groups map[string]string
}

func (F *fakeAnalyzer) SpaceGroup(structFile string) (string, error) {
	return F.groups[structFile], nil
}

// makeCandidates lays out one directory per candidate under base. Those
// with finished=false get no terminal structure file.
func makeCandidate(Te *testing.T, base, id string, energy float64, finished bool) Candidate {
	dir := filepath.Join(base, id)
	require.NoError(Te, os.MkdirAll(dir, 0755))
	if finished {
		path := filepath.Join(dir, lammps.FinalStructureFile)
		require.NoError(Te, os.WriteFile(path, []byte("structure "+id+"\n"), 0644))
	}
	return Candidate{ID: id, Dir: dir, Energy: energy}
}

func TestDeduplicate(Te *testing.T) {
	base := Te.TempDir()
	cands := []Candidate{
		makeCandidate(Te, base, "00001", -3.5000, true),
		makeCandidate(Te, base, "00002", -3.5004, true), //duplicate of 00001
		makeCandidate(Te, base, "00003", -3.5004, true), //same energy, other group
		makeCandidate(Te, base, "00004", -2.1, true),
		makeCandidate(Te, base, "00005", -9.9, false), //never finished
	}
	an := &fakeAnalyzer{groups: map[string]string{
		filepath.Join(cands[0].Dir, lammps.FinalStructureFile): "Fm-3m (225)",
		filepath.Join(cands[1].Dir, lammps.FinalStructureFile): "Fm-3m (225)",
		filepath.Join(cands[2].Dir, lammps.FinalStructureFile): "P6_3/mmc (194)",
		filepath.Join(cands[3].Dir, lammps.FinalStructureFile): "Fm-3m (225)",
	}}
	recs, err := Deduplicate(cands, an, Options{})
	require.NoError(Te, err)
	require.Len(Te, recs, 3)
	//ascending energy, unfinished candidate gone. 00003's bucket keeps its
	//own, slightly lower, energy and therefore sorts first.
	assert.Equal(Te, []string{"00003"}, recs[0].MemberIDs)
	assert.Equal(Te, []string{"00001", "00002"}, recs[1].MemberIDs)
	assert.Equal(Te, "Fm-3m (225)", recs[1].SpaceGroup)
	assert.Equal(Te, -3.5, recs[1].Energy) //representative keeps its own energy
	assert.Equal(Te, []string{"00004"}, recs[2].MemberIDs)
	assert.Equal(Te, cands[0].Dir, recs[1].RepDir)
}

func TestDeduplicateFirstMatchWins(Te *testing.T) {
	base := Te.TempDir()
	//00002 sits within tolerance of both 00001 and 00003, which are just
	//outside tolerance of each other. The scan order decides: 00002 joins
	//the earlier bucket.
	cands := []Candidate{
		makeCandidate(Te, base, "00001", -3.5000, true),
		makeCandidate(Te, base, "00003", -3.5015, true),
		makeCandidate(Te, base, "00002", -3.5008, true),
	}
	groups := map[string]string{}
	for _, c := range cands {
		groups[filepath.Join(c.Dir, lammps.FinalStructureFile)] = "Im-3m (229)"
	}
	recs, err := Deduplicate(cands, &fakeAnalyzer{groups: groups}, Options{})
	require.NoError(Te, err)
	require.Len(Te, recs, 2)
	assert.Equal(Te, []string{"00003"}, recs[0].MemberIDs)
	assert.Equal(Te, []string{"00001", "00002"}, recs[1].MemberIDs)
}

// fakeRefiner marks every refined copy so tests can tell it ran.
type fakeRefiner struct{ calls int }

func (F *fakeRefiner) Refine(structFile, outFile string) error {
	F.calls++
	data, err := os.ReadFile(structFile)
	if err != nil {
		return err
	}
	return os.WriteFile(outFile, append([]byte("refined "), data...), 0644)
}

func TestWriteRecords(Te *testing.T) {
	base := Te.TempDir()
	dest := Te.TempDir()
	c1 := makeCandidate(Te, base, "00007", -4.2, true)
	c2 := makeCandidate(Te, base, "00011", -3.8, true)
	recs := []UniqueRecord{
		{
			Energy:     -4.2,
			SpaceGroup: "Fd-3m (227)",
			MemberIDs:  []string{"00007", "00009"},
			RepDir:     c1.Dir,
		},
		{
			Energy:     -3.8,
			SpaceGroup: "Im-3m (229)",
			MemberIDs:  []string{"00011"},
			RepDir:     c2.Dir,
		},
	}
	ref := &fakeRefiner{}
	require.NoError(Te, WriteRecords(dest, recs, NewSeqAllocator(1), ref, Options{}))
	//every unique record gets a symmetry-refined canonical structure
	assert.Equal(Te, 2, ref.calls)
	dir := filepath.Join(dest, "00001")
	data, err := os.ReadFile(filepath.Join(dir, lammps.InitialStructureFile))
	require.NoError(Te, err)
	assert.Equal(Te, "refined structure 00007\n", string(data))
	data, err = os.ReadFile(filepath.Join(dest, "00002", lammps.InitialStructureFile))
	require.NoError(Te, err)
	assert.Equal(Te, "refined structure 00011\n", string(data))
	manifest, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	require.NoError(Te, err)
	assert.Equal(Te, "00007\n00009\n", string(manifest))
	sumData, err := os.ReadFile(filepath.Join(dir, SummaryFile))
	require.NoError(Te, err)
	var sum Summary
	require.NoError(Te, json.Unmarshal(sumData, &sum))
	assert.Equal(Te, -4.2, sum.Energy)
	assert.Equal(Te, "Fd-3m (227)", sum.SpaceGroup)
}

func TestWriteRecordsWithoutRefiner(Te *testing.T) {
	base := Te.TempDir()
	dest := Te.TempDir()
	c := makeCandidate(Te, base, "00007", -4.2, true)
	recs := []UniqueRecord{{
		Energy:     -4.2,
		SpaceGroup: "Fd-3m (227)",
		MemberIDs:  []string{"00007"},
		RepDir:     c.Dir,
	}}
	require.NoError(Te, WriteRecords(dest, recs, NewSeqAllocator(1), nil, Options{}))
	data, err := os.ReadFile(filepath.Join(dest, "00001", lammps.InitialStructureFile))
	require.NoError(Te, err)
	assert.Equal(Te, "structure 00007\n", string(data))
}

func TestDirAllocatorContinues(Te *testing.T) {
	dir := Te.TempDir()
	require.NoError(Te, os.MkdirAll(filepath.Join(dir, "00001"), 0755))
	require.NoError(Te, os.MkdirAll(filepath.Join(dir, "00012"), 0755))
	require.NoError(Te, os.MkdirAll(filepath.Join(dir, "notes"), 0755))
	alloc, err := NewDirAllocator(dir)
	require.NoError(Te, err)
	id, err := alloc.Next()
	require.NoError(Te, err)
	assert.Equal(Te, "00013", id)
}

func TestDirAllocatorFresh(Te *testing.T) {
	alloc, err := NewDirAllocator(filepath.Join(Te.TempDir(), "absent"))
	require.NoError(Te, err)
	id, err := alloc.Next()
	require.NoError(Te, err)
	assert.Equal(Te, "00001", id)
}
