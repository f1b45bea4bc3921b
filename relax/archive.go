/*
 * archive.go, part of struct-searcher.
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
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"github.com/t-iwamura/struct-searcher/lammps"
)

// archiveCycle preserves one cycle's log and intermediate structure under
// cycle-indexed names before the next run overwrites them. Logs are bulky
// and compress well, so they are archived zstd-compressed; structure files
// stay plain since later tooling reads them directly. Archive names are
// opened exclusively: a name collision means history would be lost and is
// reported as an error rather than silently overwritten.
func archiveCycle(dir, stage string, cycle int) error {
	logDst := filepath.Join(dir, fmt.Sprintf("log.lammps.%s.%02d.zst", stage, cycle))
	if err := compressFile(filepath.Join(dir, lammps.LogFile), logDst); err != nil {
		return err
	}
	structDst := filepath.Join(dir, fmt.Sprintf("%s.%s.%02d", lammps.FinalStructureFile, stage, cycle))
	return copyFileExcl(filepath.Join(dir, lammps.FinalStructureFile), structDst)
}

// promote makes the minimizer's output structure the next cycle's input.
func promote(dir string) error {
	src := filepath.Join(dir, lammps.FinalStructureFile)
	dst := filepath.Join(dir, lammps.InitialStructureFile)
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0644)
}

func compressFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}
	defer out.Close()
	zw, err := zstd.NewWriter(out, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return err
	}
	if _, err := io.Copy(zw, in); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

func copyFileExcl(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = out.Write(data)
	return err
}
