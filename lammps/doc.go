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

/*Package lammps drives energy minimizations with the LAMMPS molecular
dynamics program through its file-based command interface. LAMMPS is not
part of struct-searcher and must be obtained independently; please cite the
LAMMPS references if you use it.

The package writes structure and command files into a per-structure
directory, runs the external binary, and parses the produced log and
final-structure files back into energies, termination reasons and
geometries.*/
package lammps
