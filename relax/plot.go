/*
 * plot.go, part of struct-searcher.
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
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// PlotEnergyHistory draws the per-cycle energy of one stage against the
// cycle number and saves it as a PNG. Useful to eyeball whether a
// structure is descending steadily or oscillating before its budget ran
// out.
func PlotEnergyHistory(rec *Record, stage, filename string) error {
	ss := rec.Stages[stage]
	if ss == nil || len(ss.EnergiesPerAtom) == 0 {
		return nil
	}
	p := plot.New()
	p.Title.Text = "Relaxation energy, stage " + stage
	p.X.Label.Text = "cycle"
	p.Y.Label.Text = "energy per atom (eV)"
	pts := make(plotter.XYs, len(ss.EnergiesPerAtom))
	for i, e := range ss.EnergiesPerAtom {
		pts[i].X = float64(i + 1)
		pts[i].Y = e
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	p.Add(line, plotter.NewGrid())
	return p.Save(6*vg.Inch, 4*vg.Inch, filename)
}
