/*
 * atomicdata.go, part of struct-searcher.
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

//A map for assigning a characteristic distance to elements: the
//nearest-neighbor distance in each element's reference elemental lattice,
//in Angstrom. Only the metals and metalloids targeted by the search are
//present; everything else falls back to the "others" entry.
var symbolNNDistance = map[string]float64{
	"Ag":     2.93,
	"Al":     2.86,
	"Au":     2.94,
	"Ba":     4.35,
	"Be":     2.20,
	"Bi":     3.067,
	"Ca":     3.90,
	"Cd":     3.05,
	"Cr":     2.45,
	"Cs":     5.48,
	"Cu":     2.57,
	"Ga":     2.75,
	"Ge":     2.503,
	"Hf":     3.10,
	"Hg":     3.37,
	"In":     3.39,
	"Ir":     2.74,
	"K":      4.71,
	"La":     3.703,
	"Li":     3.05,
	"Mg":     2.557,
	"Mo":     2.727,
	"Na":     3.73,
	"Nb":     2.802,
	"Os":     2.686,
	"Pb":     3.5,
	"Pd":     2.786,
	"Pt":     2.81,
	"Rb":     5.06,
	"Re":     2.745,
	"Rh":     2.705,
	"Ru":     2.642,
	"Sc":     3.196,
	"Si":     2.368,
	"Sn":     2.81,
	"Sr":     4.268,
	"Ta":     2.869,
	"Ti":     2.87,
	"Tl":     3.453,
	"V":      2.642,
	"W":      2.746,
	"Y":      3.53,
	"Zn":     2.655,
	"Zr":     3.176,
	"others": 3,
}

//A map for assigning the minimum of each element's diatomic energy curve,
//in eV. Used as a sanity floor when judging relaxation energies.
var symbolDimerEnergy = map[string]float64{
	"Ag":     -2.528624732123176,
	"Al":     -3.4282381337189705,
	"Au":     -3.0412444671161425,
	"Ba":     -1.8779701757970737,
	"Be":     -3.7251241449989645,
	"Bi":     -2.54627700849023,
	"Ca":     -1.914746735134041,
	"Cd":     -0.734740053498501,
	"Cr":     -4.056360716021985,
	"Cs":     -0.7200831775969213,
	"Cu":     -3.485763144700424,
	"Ga":     -2.635534399704223,
	"Ge":     -3.722016222873885,
	"Hf":     -6.485048149176128,
	"Hg":     -0.18277185924429737,
	"In":     -2.3321562843871724,
	"Ir":     -7.264415071950619,
	"K":      -0.8696448201836929,
	"La":     -4.239895431383895,
	"Li":     -1.6072459403807398,
	"Mg":     -1.5056770226275,
	"Mo":     -6.357794040282041,
	"Na":     -1.0886245643423136,
	"Nb":     -6.9291923204333195,
	"Os":     -8.314046460873735,
	"Pb":     -2.987459094225,
	"Pd":     -3.7475395031431913,
	"Pt":     -5.494374396627437,
	"Rb":     -0.7763890813779941,
	"Re":     -7.800391200229981,
	"Rh":     -5.719006378666263,
	"Ru":     -6.783961422618286,
	"Sc":     -4.223924558679797,
	"Si":     -4.551269114106712,
	"Sn":     -3.19076001,
	"Sr":     -1.6115018429374777,
	"Ta":     -8.19447096599424,
	"Ti":     -5.30921984680476,
	"Tl":     -2.047595861196326,
	"V":      -6.464371737054552,
	"W":      -8.90454932232005,
	"Y":      -4.1690240402135235,
	"Zn":     -1.0975967863905027,
	"Zr":     -6.19219984390527,
	"others": -100,
}

//A map for assigning mass to elements, in atomic mass units. Needed for
//the Masses section of LAMMPS structure files.
var symbolMass = map[string]float64{
	"Ag":     107.87,
	"Al":     26.98,
	"Au":     196.97,
	"Ba":     137.33,
	"Be":     9.012,
	"Bi":     208.98,
	"Ca":     40.08,
	"Cd":     112.41,
	"Cr":     52.00,
	"Cs":     132.91,
	"Cu":     63.55,
	"Ga":     69.72,
	"Ge":     72.63,
	"Hf":     178.49,
	"Hg":     200.59,
	"In":     114.82,
	"Ir":     192.22,
	"K":      39.10,
	"La":     138.91,
	"Li":     6.94,
	"Mg":     24.31,
	"Mo":     95.95,
	"Na":     22.99,
	"Nb":     92.91,
	"Os":     190.23,
	"Pb":     207.2,
	"Pd":     106.42,
	"Pt":     195.08,
	"Rb":     85.47,
	"Re":     186.21,
	"Rh":     102.91,
	"Ru":     101.07,
	"Sc":     44.96,
	"Si":     28.09,
	"Sn":     118.71,
	"Sr":     87.62,
	"Ta":     180.95,
	"Ti":     47.87,
	"Tl":     204.38,
	"V":      50.94,
	"W":      183.84,
	"Y":      88.91,
	"Zn":     65.38,
	"Zr":     91.22,
	"others": 50,
}

// CharacteristicDistance returns the nearest-neighbor distance of the
// element's reference elemental lattice, or the fallback value for
// elements missing from the table.
func CharacteristicDistance(symbol string) float64 {
	d, ok := symbolNNDistance[symbol]
	if !ok {
		return symbolNNDistance["others"]
	}
	return d
}

// MaxCharacteristicDistance returns the largest characteristic distance
// among the given elements. It returns the fallback value when called with
// no elements.
func MaxCharacteristicDistance(elements []string) float64 {
	if len(elements) == 0 {
		return symbolNNDistance["others"]
	}
	max := CharacteristicDistance(elements[0])
	for _, e := range elements[1:] {
		if d := CharacteristicDistance(e); d > max {
			max = d
		}
	}
	return max
}

// DimerEnergyMinimum returns the minimum of the element's diatomic energy
// curve, or the fallback value for elements missing from the table.
func DimerEnergyMinimum(symbol string) float64 {
	e, ok := symbolDimerEnergy[symbol]
	if !ok {
		return symbolDimerEnergy["others"]
	}
	return e
}

// Mass returns the atomic mass of the element, or the fallback value for
// elements missing from the table.
func Mass(symbol string) float64 {
	m, ok := symbolMass[symbol]
	if !ok {
		return symbolMass["others"]
	}
	return m
}
