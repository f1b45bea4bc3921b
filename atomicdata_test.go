/*
 * atomicdata_test.go, part of struct-searcher.
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

package searcher

import "testing"

func TestCharacteristicDistance(Te *testing.T) {
	if d := CharacteristicDistance("Ti"); d != 2.87 {
		Te.Errorf("Ti distance: got %v, want 2.87", d)
	}
	//unknown symbols fall back to the "others" entry
	if d := CharacteristicDistance("Xx"); d != 3 {
		Te.Errorf("fallback distance: got %v, want 3", d)
	}
}

func TestDimerEnergyMinimum(Te *testing.T) {
	if e := DimerEnergyMinimum("Al"); e != -3.4282381337189705 {
		Te.Errorf("Al dimer minimum: got %v", e)
	}
	if e := DimerEnergyMinimum("Xx"); e != -100 {
		Te.Errorf("fallback dimer minimum: got %v, want -100", e)
	}
}

func TestMass(Te *testing.T) {
	if m := Mass("Al"); m != 26.98 {
		Te.Errorf("Al mass: got %v, want 26.98", m)
	}
	if m := Mass("Xx"); m != 50 {
		Te.Errorf("fallback mass: got %v, want 50", m)
	}
}
