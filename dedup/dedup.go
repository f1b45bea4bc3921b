/*
 * dedup.go, part of struct-searcher.
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

/*Package dedup collapses relaxed candidate structures into unique ones.

Two structures are duplicates when their energies per atom agree within a
tolerance and their space-group symbols match exactly. Candidates are
bucketed by a linear scan in input order, the first matching bucket wins,
and the earliest member of each bucket is its representative. The unique
set is written out as numbered directories carrying the representative
structure, a duplicate manifest and a JSON summary.*/
package dedup

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/t-iwamura/struct-searcher/lammps"
)

// Analyzer detects the space group of a structure file. symm.Tool is the
// production implementation.
type Analyzer interface {
	SpaceGroup(structFile string) (string, error)
}

// Refiner writes a symmetry-refined copy of a structure file. symm.Tool
// is the production implementation.
type Refiner interface {
	Refine(structFile, outFile string) error
}

// Candidate is one relaxed structure up for deduplication.
type Candidate struct {
	ID     string
	Dir    string
	Energy float64 //energy per atom, eV
}

// UniqueRecord is one bucket of duplicate candidates. The representative
// is the first member encountered; its relaxed structure stands for the
// whole bucket.
type UniqueRecord struct {
	Energy     float64
	SpaceGroup string
	MemberIDs  []string
	RepDir     string
}

// Options tunes deduplication. The zero value gets the defaults: 1e-3
// eV/atom energy tolerance and the relaxation output file as the
// terminal structure.
type Options struct {
	ETol         float64
	TerminalFile string
}

func (O Options) withDefaults() Options {
	if O.ETol <= 0 {
		O.ETol = 1e-3
	}
	if O.TerminalFile == "" {
		O.TerminalFile = lammps.FinalStructureFile
	}
	return O
}

// Deduplicate buckets the candidates and returns the unique records
// sorted by ascending energy. Candidates whose directory lacks the
// terminal structure file never finished relaxing and are silently
// skipped; analyzer failures abort the run since a missing space group
// would corrupt the bucketing.
func Deduplicate(cands []Candidate, an Analyzer, opt Options) ([]UniqueRecord, error) {
	opt = opt.withDefaults()
	var recs []UniqueRecord
	for _, c := range cands {
		structFile := filepath.Join(c.Dir, opt.TerminalFile)
		if _, err := os.Stat(structFile); errors.Is(err, fs.ErrNotExist) {
			continue
		} else if err != nil {
			return nil, err
		}
		sg, err := an.SpaceGroup(structFile)
		if err != nil {
			return nil, err
		}
		matched := false
		for i := range recs {
			if math.Abs(recs[i].Energy-c.Energy) <= opt.ETol && recs[i].SpaceGroup == sg {
				recs[i].MemberIDs = append(recs[i].MemberIDs, c.ID)
				matched = true
				break
			}
		}
		if !matched {
			recs = append(recs, UniqueRecord{
				Energy:     c.Energy,
				SpaceGroup: sg,
				MemberIDs:  []string{c.ID},
				RepDir:     c.Dir,
			})
		}
	}
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Energy < recs[j].Energy })
	return recs, nil
}

// Summary is the JSON sidecar written next to each unique structure.
type Summary struct {
	Energy     float64 `json:"energy"`
	SpaceGroup string  `json:"space_group"`
}

// ManifestFile lists the ids collapsed into a unique record, one per line.
const ManifestFile = "duplicates.txt"

// SummaryFile holds the record's energy and space group.
const SummaryFile = "summary.json"

// WriteRecords materializes the unique set under destDir: one directory
// per record, named by the allocator, holding a symmetry-refined copy of
// the representative's relaxed structure (as the next run's input), the
// duplicate manifest and the summary. A nil refiner copies the
// representative unrefined.
func WriteRecords(destDir string, recs []UniqueRecord, alloc IDAllocator, ref Refiner, opt Options) error {
	opt = opt.withDefaults()
	for _, rec := range recs {
		id, err := alloc.Next()
		if err != nil {
			return err
		}
		dir := filepath.Join(destDir, id)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
		src := filepath.Join(rec.RepDir, opt.TerminalFile)
		dst := filepath.Join(dir, lammps.InitialStructureFile)
		if ref != nil {
			if err := ref.Refine(src, dst); err != nil {
				return err
			}
		} else {
			data, err := os.ReadFile(src)
			if err != nil {
				return err
			}
			if err := os.WriteFile(dst, data, 0644); err != nil {
				return err
			}
		}
		manifest := strings.Join(rec.MemberIDs, "\n") + "\n"
		if err := os.WriteFile(filepath.Join(dir, ManifestFile), []byte(manifest), 0644); err != nil {
			return err
		}
		sum, err := json.MarshalIndent(Summary{Energy: rec.Energy, SpaceGroup: rec.SpaceGroup}, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(dir, SummaryFile), append(sum, '\n'), 0644); err != nil {
			return err
		}
	}
	return nil
}

// IDAllocator hands out directory names for unique records.
type IDAllocator interface {
	Next() (string, error)
}

// SeqAllocator yields zero-padded sequential ids starting from a given
// number.
type SeqAllocator struct {
	next int
}

// NewSeqAllocator returns an allocator whose first id is start.
func NewSeqAllocator(start int) *SeqAllocator {
	if start < 1 {
		start = 1
	}
	return &SeqAllocator{next: start}
}

func (O *SeqAllocator) Next() (string, error) {
	id := fmt.Sprintf("%05d", O.next)
	O.next++
	return id, nil
}

// NewDirAllocator returns a sequential allocator that continues after the
// highest numeric directory name already present in dir, so repeated runs
// never reuse an id. A missing or empty directory starts at 00001.
func NewDirAllocator(dir string) (*SeqAllocator, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return NewSeqAllocator(1), nil
	}
	if err != nil {
		return nil, err
	}
	max := 0
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		n, err := strconv.Atoi(e.Name())
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return NewSeqAllocator(max + 1), nil
}
