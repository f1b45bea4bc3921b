/*
 * config.go, part of struct-searcher.
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

/*Package config reads the YAML search settings shared by all the
struct-searcher commands.*/
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Stage mirrors a relaxation stage in the settings file.
type Stage struct {
	ID        string  `yaml:"id"`
	Ftol      float64 `yaml:"ftol"`
	MaxCycles int     `yaml:"max_cycles"`
}

type Generation struct {
	GMax        float64 `yaml:"g_max"`
	NStructures int     `yaml:"n_structures"`
}

type Relaxation struct {
	Command string  `yaml:"command"`
	Workers int     `yaml:"workers"`
	Stages  []Stage `yaml:"stages"`
}

type Dedup struct {
	ETol    float64 `yaml:"energy_tolerance"`
	Symprec float64 `yaml:"symprec"`
	Command string  `yaml:"command"`
}

// Config is the full search configuration.
type Config struct {
	Elements      []string   `yaml:"elements"`
	NAtoms        []int      `yaml:"n_atoms"`
	PotentialFile string     `yaml:"potential_file"`
	DataDir       string     `yaml:"data_dir"`
	Generation    Generation `yaml:"generation"`
	Relaxation    Relaxation `yaml:"relaxation"`
	Dedup         Dedup      `yaml:"dedup"`
}

// Load reads and parses a settings file, applying defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

// parse parses YAML bytes into a Config, applying defaults and
// validating the result.
func parse(data []byte) (*Config, error) {
	cfg := &Config{
		DataDir: "data",
		Generation: Generation{
			GMax:        100,
			NStructures: 1000,
		},
		Relaxation: Relaxation{
			Command: "lmp",
			Stages: []Stage{
				{ID: "first", Ftol: 1e-3, MaxCycles: 10},
				{ID: "second", Ftol: 1e-8, MaxCycles: 10},
			},
		},
		Dedup: Dedup{
			ETol:    1e-3,
			Symprec: 1e-5,
		},
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.Elements) == 0 {
		return fmt.Errorf("config: no elements given")
	}
	if len(c.NAtoms) != len(c.Elements) {
		return fmt.Errorf("config: %d elements but %d atom counts", len(c.Elements), len(c.NAtoms))
	}
	total := 0
	for i, n := range c.NAtoms {
		if n < 0 {
			return fmt.Errorf("config: negative atom count for %s", c.Elements[i])
		}
		total += n
	}
	if total == 0 {
		return fmt.Errorf("config: all atom counts are zero")
	}
	if c.PotentialFile == "" {
		return fmt.Errorf("config: no potential_file given")
	}
	if c.Generation.GMax <= 0 {
		return fmt.Errorf("config: g_max must be positive, got %g", c.Generation.GMax)
	}
	for _, st := range c.Relaxation.Stages {
		if st.Ftol <= 0 || st.MaxCycles <= 0 {
			return fmt.Errorf("config: stage %q needs positive ftol and max_cycles", st.ID)
		}
	}
	return nil
}

// StructuresDir returns the directory holding the per-structure
// relaxation directories.
func (c *Config) StructuresDir() string {
	return filepath.Join(c.DataDir, "structures")
}

// UniqueDir returns the directory receiving deduplicated structures.
func (c *Config) UniqueDir() string {
	return filepath.Join(c.DataDir, "unique")
}

// CatalogPath returns the location of the cycle catalog database.
func (c *Config) CatalogPath() string {
	return filepath.Join(c.DataDir, "catalog.db")
}
