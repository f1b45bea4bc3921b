/*
 * main.go, part of struct-searcher.
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

// Command struct-searcher runs a random crystal-structure search: generate
// candidate structures, relax them with LAMMPS, and deduplicate the
// converged results by space group and energy.
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/exp/rand"

	searcher "github.com/t-iwamura/struct-searcher"
	"github.com/t-iwamura/struct-searcher/catalog"
	"github.com/t-iwamura/struct-searcher/config"
	"github.com/t-iwamura/struct-searcher/dedup"
	"github.com/t-iwamura/struct-searcher/lammps"
	"github.com/t-iwamura/struct-searcher/relax"
	"github.com/t-iwamura/struct-searcher/symm"
)

var version = "dev"

var (
	configPath string
	seed       uint64
	plots      bool
	cfg        *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "struct-searcher",
	Short:   "Random crystal-structure search with machine-learning potentials",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to the search settings file")
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(relaxCmd)
	rootCmd.AddCommand(dedupCmd)
	rootCmd.AddCommand(statusCmd)
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Sample random candidate structures into the structures directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		if seed == 0 {
			seed = uint64(time.Now().UnixNano())
		}
		rng := rand.New(rand.NewSource(seed))
		potElems, err := lammps.ReadElements(cfg.PotentialFile)
		if err != nil {
			return err
		}
		//structure files number atom types by composition order, so the
		//composition must follow the potential's type order from the start
		elements, counts, err := lammps.OrderComposition(potElems, cfg.Elements, cfg.NAtoms)
		if err != nil {
			return err
		}
		alloc, err := dedup.NewDirAllocator(cfg.StructuresDir())
		if err != nil {
			return err
		}
		for i := 0; i < cfg.Generation.NStructures; i++ {
			s := searcher.RandomStructure(cfg.Generation.GMax, elements, counts, rng)
			id, err := alloc.Next()
			if err != nil {
				return err
			}
			dir := filepath.Join(cfg.StructuresDir(), id)
			if err := os.MkdirAll(dir, 0755); err != nil {
				return err
			}
			if err := lammps.WriteStructFile(filepath.Join(dir, lammps.InitialStructureFile), s); err != nil {
				return err
			}
		}
		log.Printf("generated %d structures of %s under %s",
			cfg.Generation.NStructures, searcher.FormulaName(elements, counts), cfg.StructuresDir())
		return nil
	},
}

func init() {
	generateCmd.Flags().Uint64Var(&seed, "seed", 0, "random seed (0 seeds from the clock)")
}

func init() {
	relaxCmd.Flags().BoolVar(&plots, "plots", false, "write per-stage energy history plots into each structure directory")
}

var relaxCmd = &cobra.Command{
	Use:   "relax",
	Short: "Relax every generated structure through the configured stages",
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, err := lammps.NewRunner(cfg.Relaxation.Command, cfg.PotentialFile)
		if err != nil {
			return err
		}
		db, err := catalog.Open(cfg.CatalogPath())
		if err != nil {
			return err
		}
		defer db.Close()
		tool := symm.NewTool(cfg.Dedup.Command)
		tool.SetSymprec(cfg.Dedup.Symprec)
		stages := make([]relax.Stage, len(cfg.Relaxation.Stages))
		for i, st := range cfg.Relaxation.Stages {
			stages[i] = relax.Stage{ID: st.ID, Ftol: st.Ftol, MaxCycles: st.MaxCycles}
		}
		//the pair_coeff species list must follow the potential's type order
		species, _, err := lammps.OrderComposition(runner.Elements(), cfg.Elements, cfg.NAtoms)
		if err != nil {
			return err
		}
		C := &relax.Controller{
			Engine:   runner,
			Refiner:  tool,
			Sink:     db,
			Stages:   stages,
			Elements: species,
			Workers:  cfg.Relaxation.Workers,
		}
		ids, err := structureIDs(cfg.StructuresDir())
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return fmt.Errorf("no structures under %s; run generate first", cfg.StructuresDir())
		}
		log.Printf("relaxing %d structures", len(ids))
		outs := C.RelaxAll(cfg.StructuresDir(), ids)
		counts := map[relax.Status]int{}
		for _, o := range outs {
			counts[o.Status]++
			if plots {
				for _, st := range stages {
					plotFile := filepath.Join(cfg.StructuresDir(), o.ID, "energy_history."+st.ID+".png")
					if err := relax.PlotEnergyHistory(o.Record, st.ID, plotFile); err != nil {
						log.Printf("plotting %s: %v", o.ID, err)
					}
				}
			}
		}
		log.Printf("done: %d converged, %d unfinished, %d stopped",
			counts[relax.Converged], counts[relax.Unfinished], counts[relax.Stopped])
		return nil
	},
}

var dedupCmd = &cobra.Command{
	Use:   "dedup",
	Short: "Collapse converged structures into unique ones",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := catalog.Open(cfg.CatalogPath())
		if err != nil {
			return err
		}
		defer db.Close()
		lastStage := cfg.Relaxation.Stages[len(cfg.Relaxation.Stages)-1].ID
		conv, err := db.ConvergedStructures(lastStage)
		if err != nil {
			return err
		}
		cands := make([]dedup.Candidate, len(conv))
		for i, c := range conv {
			cands[i] = dedup.Candidate{
				ID:     c.StructureID,
				Dir:    filepath.Join(cfg.StructuresDir(), c.StructureID),
				Energy: c.EnergyPerAtom,
			}
		}
		tool := symm.NewTool(cfg.Dedup.Command)
		tool.SetSymprec(cfg.Dedup.Symprec)
		recs, err := dedup.Deduplicate(cands, tool, dedup.Options{ETol: cfg.Dedup.ETol})
		if err != nil {
			return err
		}
		alloc, err := dedup.NewDirAllocator(cfg.UniqueDir())
		if err != nil {
			return err
		}
		if err := dedup.WriteRecords(cfg.UniqueDir(), recs, alloc, tool, dedup.Options{}); err != nil {
			return err
		}
		log.Printf("%d converged structures collapsed to %d unique under %s",
			len(cands), len(recs), cfg.UniqueDir())
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Summarize relaxation outcomes per stage from the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := catalog.Open(cfg.CatalogPath())
		if err != nil {
			return err
		}
		defer db.Close()
		for _, st := range cfg.Relaxation.Stages {
			counts, err := db.StatusCounts(st.ID)
			if err != nil {
				return err
			}
			fmt.Printf("stage %s: %d converged, %d unfinished, %d stopped\n",
				st.ID, counts[relax.Converged], counts[relax.Unfinished], counts[relax.Stopped])
		}
		return nil
	},
}

// structureIDs lists the numeric structure directories in ascending order.
func structureIDs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() {
			ids = append(ids, e.Name())
		}
	}
	sort.Strings(ids)
	return ids, nil
}
