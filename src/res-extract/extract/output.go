/*******************************************************************************
*
* Copyright 2025 nachotacos69
*
* This file is part of GE2Extra.
*
* GE2Extra is free software: you can redistribute it and/or modify it under the
* terms of the GNU General Public License as published by the Free Software
* Foundation, either version 3 of the License, or (at your option) any later
* version.
*
* GE2Extra is distributed in the hope that it will be useful, but WITHOUT ANY
* WARRANTY; without even the implied warranty of MERCHANTABILITY or FITNESS FOR
* A PARTICULAR PURPOSE. See the GNU General Public License for more details.
*
* You should have received a copy of the GNU General Public License along with
* GE2Extra. If not, see <http://www.gnu.org/licenses/>.
*
*******************************************************************************/

package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nachotacos69/GE2Extra/src/res-extract/pres"
)

//planTarget computes the directory and file name for an entry below the
//output root. The active path is the subpath slot when the entry carries
//exactly four name slots and a subpath; otherwise it is the path slot. When
//the terminal component of the active path already equals the file name (with
//or without extension) it is not duplicated. The extrapath slot appends one
//more directory level unless the active path already ends in the name.
func planTarget(outDir string, name pres.NameRecord, nameCount uint32) (dir, filename string) {
	base := name.FileName()
	active := name.Path
	if nameCount == 4 && name.Subpath != "" {
		active = name.Subpath
	}

	dir = outDir
	filename = base
	if active != "" {
		parts := strings.Split(active, "/")
		last := parts[len(parts)-1]
		if last == name.Name || last == base {
			dir = filepath.Join(append([]string{outDir}, parts[:len(parts)-1]...)...)
			filename = last
		} else {
			dir = filepath.Join(append([]string{outDir}, parts...)...)
		}
	}

	//the longer suffix (name with extension) is tested first
	if name.ExtraPath != "" && !strings.HasSuffix(active, "/"+base) && !strings.HasSuffix(active, "/"+name.Name) {
		dir = filepath.Join(dir, name.ExtraPath)
	}
	return dir, filename
}

//uniquePath returns the first free path for the given target, appending a
//zero-padded four-digit counter before the extension on collision. Collisions
//are checked against both the used set of this extraction run and the
//filesystem; the chosen path is recorded in the used set.
func uniquePath(dir, filename string, used map[string]bool) string {
	path := filepath.Join(dir, filename)
	if isFree(path, used) {
		used[path] = true
		return path
	}

	ext := filepath.Ext(filename)
	stem := strings.TrimSuffix(filename, ext)
	for counter := 0; ; counter++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s_%04d%s", stem, counter, ext))
		if isFree(candidate, used) {
			used[candidate] = true
			return candidate
		}
	}
}

func isFree(path string, used map[string]bool) bool {
	if used[path] {
		return false
	}
	_, err := os.Stat(path)
	return os.IsNotExist(err)
}
