/*
 * record.go, part of struct-searcher.
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
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// RecordFile is the name of the cumulative statistics file kept in every
// structure directory.
const RecordFile = "calc_stats.json"

// StageStats holds the parallel-indexed per-cycle lists of one stage.
type StageStats struct {
	EnergiesPerAtom []float64 `json:"energy_per_atom"`
	Statuses        []Status  `json:"result_status"`
}

// Record is the cumulative relaxation statistics of one structure, keyed
// by stage. It is append-only: every cycle adds one entry to its stage's
// lists, so the full history survives restarts and can be audited without
// re-running the minimizer.
type Record struct {
	RunID  string                 `json:"run_id"`
	Stages map[string]*StageStats `json:"stages"`
}

// NewRecord returns an empty record stamped with a fresh run id.
func NewRecord() *Record {
	return &Record{RunID: uuid.NewString(), Stages: map[string]*StageStats{}}
}

// LoadRecord reads the record from a structure directory. A missing file
// yields a fresh record, any other problem an error.
func LoadRecord(dir string) (*Record, error) {
	data, err := os.ReadFile(filepath.Join(dir, RecordFile))
	if errors.Is(err, fs.ErrNotExist) {
		return NewRecord(), nil
	}
	if err != nil {
		return nil, err
	}
	r := &Record{}
	if err := json.Unmarshal(data, r); err != nil {
		return nil, err
	}
	if r.Stages == nil {
		r.Stages = map[string]*StageStats{}
	}
	if r.RunID == "" {
		r.RunID = uuid.NewString()
	}
	return r, nil
}

// Append adds one cycle's energy per atom and status to the stage's lists.
func (R *Record) Append(stage string, energyPerAtom float64, status Status) {
	ss := R.Stages[stage]
	if ss == nil {
		ss = &StageStats{}
		R.Stages[stage] = ss
	}
	ss.EnergiesPerAtom = append(ss.EnergiesPerAtom, energyPerAtom)
	ss.Statuses = append(ss.Statuses, status)
}

// Save writes the record to the structure directory.
func (R *Record) Save(dir string) error {
	data, err := json.MarshalIndent(R, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, RecordFile), append(data, '\n'), 0644)
}

// Cycles returns how many cycles the stage has recorded.
func (R *Record) Cycles(stage string) int {
	if ss := R.Stages[stage]; ss != nil {
		return len(ss.Statuses)
	}
	return 0
}

// FinalEnergy returns the last recorded energy per atom of the stage.
func (R *Record) FinalEnergy(stage string) (float64, bool) {
	ss := R.Stages[stage]
	if ss == nil || len(ss.EnergiesPerAtom) == 0 {
		return 0, false
	}
	return ss.EnergiesPerAtom[len(ss.EnergiesPerAtom)-1], true
}

// FinalStatus returns the last recorded status of the stage.
func (R *Record) FinalStatus(stage string) (Status, bool) {
	ss := R.Stages[stage]
	if ss == nil || len(ss.Statuses) == 0 {
		return "", false
	}
	return ss.Statuses[len(ss.Statuses)-1], true
}
