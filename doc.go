/*
 * doc.go, part of struct-searcher.
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

/*Package searcher is the core of the struct-searcher library. It generates
randomized candidate crystal structures for structure prediction searches and
provides the geometric machinery the rest of the library is built on.

	**struct-searcher capabilities**

    Samples random Niggli-reduced cells under a volume ceiling.

    Converts between Niggli quadratic-form parameters, LAMMPS-style
	box/tilt parameters and conventional lattice constants.

    Builds candidate structures with randomized fractional coordinates
	under a minimum periodic interatomic distance constraint.

    Generates input for, runs and recovers results from relaxations with
	LAMMPS (which must be obtained independently), see the lammps
	subpackage.

    Drives multi-stage relaxations with convergence classification and
	per-structure failure isolation, see the relax subpackage.

    Deduplicates relaxed structures by space group and energy, see the
	dedup subpackage.

Coordinate sets are held in gonum *mat.Dense matrices with one row per atom,
fractional coordinates in [0,1).*/
package searcher
