/*
 * config_test.go, part of struct-searcher.
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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalYAML = `
elements: [Ti, Al]
n_atoms: [7, 4]
potential_file: /opt/mlp/polymlp.lammps
`

func loadYAML(Te *testing.T, text string) (*Config, error) {
	Te.Helper()
	path := filepath.Join(Te.TempDir(), "config.yaml")
	require.NoError(Te, os.WriteFile(path, []byte(text), 0644))
	return Load(path)
}

func TestLoadDefaults(Te *testing.T) {
	cfg, err := loadYAML(Te, minimalYAML)
	require.NoError(Te, err)
	assert.Equal(Te, []string{"Ti", "Al"}, cfg.Elements)
	assert.Equal(Te, []int{7, 4}, cfg.NAtoms)
	assert.Equal(Te, 100.0, cfg.Generation.GMax)
	assert.Equal(Te, 1000, cfg.Generation.NStructures)
	assert.Equal(Te, "lmp", cfg.Relaxation.Command)
	require.Len(Te, cfg.Relaxation.Stages, 2)
	assert.Equal(Te, 1e-3, cfg.Relaxation.Stages[0].Ftol)
	assert.Equal(Te, 1e-8, cfg.Relaxation.Stages[1].Ftol)
	assert.Equal(Te, 1e-3, cfg.Dedup.ETol)
	assert.Equal(Te, filepath.Join("data", "structures"), cfg.StructuresDir())
	assert.Equal(Te, filepath.Join("data", "catalog.db"), cfg.CatalogPath())
}

func TestLoadOverrides(Te *testing.T) {
	cfg, err := loadYAML(Te, `
elements: [Cu]
n_atoms: [4]
potential_file: pot.lammps
data_dir: /scratch/cu
generation:
  g_max: 60
  n_structures: 200
relaxation:
  workers: 8
  stages:
    - {id: only, ftol: 1.0e-6, max_cycles: 5}
dedup:
  energy_tolerance: 5.0e-4
`)
	require.NoError(Te, err)
	assert.Equal(Te, 60.0, cfg.Generation.GMax)
	assert.Equal(Te, 8, cfg.Relaxation.Workers)
	require.Len(Te, cfg.Relaxation.Stages, 1)
	assert.Equal(Te, "only", cfg.Relaxation.Stages[0].ID)
	assert.Equal(Te, 5e-4, cfg.Dedup.ETol)
	assert.Equal(Te, "/scratch/cu/unique", cfg.UniqueDir())
}

func TestLoadRejectsBadConfigs(Te *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"no elements", "n_atoms: [1]\npotential_file: p\n"},
		{"count mismatch", "elements: [Ti, Al]\nn_atoms: [7]\npotential_file: p\n"},
		{"negative count", "elements: [Ti]\nn_atoms: [-1]\npotential_file: p\n"},
		{"all zero", "elements: [Ti, Al]\nn_atoms: [0, 0]\npotential_file: p\n"},
		{"no potential", "elements: [Ti]\nn_atoms: [1]\n"},
		{"bad g_max", "elements: [Ti]\nn_atoms: [1]\npotential_file: p\ngeneration: {g_max: -5}\n"},
	}
	for _, c := range cases {
		_, err := loadYAML(Te, c.yaml)
		assert.Error(Te, err, c.name)
	}
}
