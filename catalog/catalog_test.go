/*
 * catalog_test.go, part of struct-searcher.
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

package catalog

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/t-iwamura/struct-searcher/relax"
)

func openTestDB(Te *testing.T) *DB {
	Te.Helper()
	db, err := Open(filepath.Join(Te.TempDir(), "catalog.db"))
	require.NoError(Te, err)
	Te.Cleanup(func() { db.Close() })
	return db
}

func TestRecordAndQueryCycles(Te *testing.T) {
	db := openTestDB(Te)
	require.NoError(Te, db.RecordCycle("00001", "run-a", "first", 1, -3.1, relax.Unfinished))
	require.NoError(Te, db.RecordCycle("00001", "run-a", "first", 2, -3.4, relax.Converged))
	require.NoError(Te, db.RecordCycle("00002", "run-a", "first", 1, -2.9, relax.Stopped))
	cycles, err := db.CyclesFor("00001")
	require.NoError(Te, err)
	require.Len(Te, cycles, 2)
	assert.Equal(Te, relax.Unfinished, cycles[0].Status)
	assert.Equal(Te, relax.Converged, cycles[1].Status)
	assert.Equal(Te, -3.4, cycles[1].EnergyPerAtom)
	assert.Equal(Te, "run-a", cycles[1].RunID)
}

func TestConvergedStructures(Te *testing.T) {
	db := openTestDB(Te)
	//00001 converges on its second cycle, 00002 converges at a lower
	//energy, 00003 stops; only the latest cycle of each counts
	require.NoError(Te, db.RecordCycle("00001", "r", "second", 1, -3.1, relax.Unfinished))
	require.NoError(Te, db.RecordCycle("00001", "r", "second", 2, -3.4, relax.Converged))
	require.NoError(Te, db.RecordCycle("00002", "r", "second", 1, -4.0, relax.Converged))
	require.NoError(Te, db.RecordCycle("00003", "r", "second", 1, -9.9, relax.Stopped))
	conv, err := db.ConvergedStructures("second")
	require.NoError(Te, err)
	require.Len(Te, conv, 2)
	assert.Equal(Te, "00002", conv[0].StructureID)
	assert.Equal(Te, -4.0, conv[0].EnergyPerAtom)
	assert.Equal(Te, "00001", conv[1].StructureID)
}

func TestStatusCounts(Te *testing.T) {
	db := openTestDB(Te)
	require.NoError(Te, db.RecordCycle("00001", "r", "first", 1, -3.1, relax.Converged))
	require.NoError(Te, db.RecordCycle("00002", "r", "first", 1, 2e9, relax.Stopped))
	require.NoError(Te, db.RecordCycle("00003", "r", "first", 1, -1.1, relax.Stopped))
	counts, err := db.StatusCounts("first")
	require.NoError(Te, err)
	assert.Equal(Te, 1, counts[relax.Converged])
	assert.Equal(Te, 2, counts[relax.Stopped])
}
