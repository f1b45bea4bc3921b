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

/*Package relax governs the multi-stage relaxation of candidate structures
with an external minimization engine.

Each structure owns a directory; a relaxation cycles the engine against
that directory, classifies the result of every cycle into a control
decision (continue, converged, stop), archives the cycle's log and
intermediate structure, and accumulates per-cycle statistics in a JSON
record. Structures are processed by independent workers; a failure in one
structure is logged to that structure's directory and never propagates to
its siblings.*/
package relax
