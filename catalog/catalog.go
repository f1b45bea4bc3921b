/*
 * catalog.go, part of struct-searcher.
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

/*Package catalog keeps a SQLite ledger of every relaxation cycle.

The per-structure JSON records are authoritative for restarting a
relaxation; the catalog exists for cross-structure queries, e.g. ranking
finished candidates by energy before deduplication, without walking
thousands of directories.*/
package catalog

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/t-iwamura/struct-searcher/relax"
)

const schema = `
CREATE TABLE IF NOT EXISTS cycles (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	structure_id TEXT NOT NULL,
	run_id TEXT NOT NULL,
	stage TEXT NOT NULL,
	cycle INTEGER NOT NULL,
	energy_per_atom REAL NOT NULL,
	status TEXT NOT NULL,
	recorded_at TEXT NOT NULL DEFAULT (datetime('now'))
);
CREATE INDEX IF NOT EXISTS idx_cycles_structure ON cycles(structure_id);
CREATE INDEX IF NOT EXISTS idx_cycles_status ON cycles(status);
`

// DB wraps the SQLite connection behind the catalog.
type DB struct {
	conn *sql.DB
	path string
}

// Open creates or opens the catalog at the given path, creating parent
// directories and the schema as needed.
func Open(dbPath string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating catalog directory: %w", err)
	}
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("setting journal mode: %w", err)
	}
	//relaxation workers write concurrently; let writers queue rather
	//than fail on a locked database
	if _, err := conn.Exec("PRAGMA busy_timeout=5000"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &DB{conn: conn, path: dbPath}, nil
}

// Close closes the catalog.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Path returns the catalog file path.
func (db *DB) Path() string {
	return db.path
}

// RecordCycle appends one classified relaxation cycle. It satisfies the
// relaxation controller's CycleSink interface.
func (db *DB) RecordCycle(structureID, runID, stage string, cycle int, energyPerAtom float64, status relax.Status) error {
	_, err := db.conn.Exec(
		`INSERT INTO cycles (structure_id, run_id, stage, cycle, energy_per_atom, status)
		VALUES (?, ?, ?, ?, ?, ?)`,
		structureID, runID, stage, cycle, energyPerAtom, string(status),
	)
	return err
}

// Cycle is one catalog row.
type Cycle struct {
	StructureID   string
	RunID         string
	Stage         string
	Cycle         int
	EnergyPerAtom float64
	Status        relax.Status
}

// CyclesFor returns the full recorded history of one structure in
// insertion order.
func (db *DB) CyclesFor(structureID string) ([]Cycle, error) {
	rows, err := db.conn.Query(
		`SELECT structure_id, run_id, stage, cycle, energy_per_atom, status
		FROM cycles WHERE structure_id = ? ORDER BY id`, structureID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCycles(rows)
}

// Converged is one structure's terminal converged result.
type Converged struct {
	StructureID   string
	EnergyPerAtom float64
}

// ConvergedStructures returns the structures whose latest cycle in the
// given stage converged, ordered by ascending energy per atom. This is
// the candidate list handed to deduplication.
func (db *DB) ConvergedStructures(stage string) ([]Converged, error) {
	rows, err := db.conn.Query(
		`SELECT c.structure_id, c.energy_per_atom
		FROM cycles c
		JOIN (SELECT structure_id, MAX(id) AS last_id FROM cycles WHERE stage = ? GROUP BY structure_id) l
		ON c.id = l.last_id
		WHERE c.status = ?
		ORDER BY c.energy_per_atom ASC`, stage, string(relax.Converged),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Converged
	for rows.Next() {
		var c Converged
		if err := rows.Scan(&c.StructureID, &c.EnergyPerAtom); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// StatusCounts returns how many structures ended each status in the given
// stage, judged by their latest recorded cycle.
func (db *DB) StatusCounts(stage string) (map[relax.Status]int, error) {
	rows, err := db.conn.Query(
		`SELECT c.status, COUNT(*)
		FROM cycles c
		JOIN (SELECT structure_id, MAX(id) AS last_id FROM cycles WHERE stage = ? GROUP BY structure_id) l
		ON c.id = l.last_id
		GROUP BY c.status`, stage,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := map[relax.Status]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[relax.Status(status)] = n
	}
	return counts, rows.Err()
}

func scanCycles(rows *sql.Rows) ([]Cycle, error) {
	var out []Cycle
	for rows.Next() {
		var c Cycle
		var status string
		if err := rows.Scan(&c.StructureID, &c.RunID, &c.Stage, &c.Cycle, &c.EnergyPerAtom, &status); err != nil {
			return nil, err
		}
		c.Status = relax.Status(status)
		out = append(out, c)
	}
	return out, rows.Err()
}
