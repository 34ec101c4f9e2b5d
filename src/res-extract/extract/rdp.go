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
	"io"
	"os"
	"path/filepath"

	"github.com/nachotacos69/GE2Extra/src/res-extract/pres"
)

//RDPCache opens the three sibling bulk data files lazily and keeps the
//handles for the rest of the extraction session. Handles are cached by
//resolved path, so the same physical file reached from different archive
//directories is only opened once.
type RDPCache struct {
	env   *Environment
	files map[string]*os.File
}

//NewRDPCache initializes an RDPCache.
func NewRDPCache(env *Environment) *RDPCache {
	return &RDPCache{env: env, files: make(map[string]*os.File)}
}

//resolve finds the RDP file for the given logical name. Search order: the
//directory of the archive currently being parsed, then the program directory,
//then any configured extra directories. The first existing file wins.
func (c *RDPCache) resolve(name pres.RDPName, archiveDir string) (string, bool) {
	dirs := make([]string, 0, 2+len(c.env.RDPDirs))
	dirs = append(dirs, archiveDir)
	if c.env.ProgramDir != "" {
		dirs = append(dirs, c.env.ProgramDir)
	}
	dirs = append(dirs, c.env.RDPDirs...)

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		path := filepath.Join(dir, name.FileName())
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

//ReadAt reads size bytes at the given absolute offset from the named RDP
//file, opening it on first use. A missing RDP file is reported as
//os.ErrNotExist (wrapped); open failures are returned unchanged, and short
//reads are reported as a new error naming the size, offset and path.
func (c *RDPCache) ReadAt(name pres.RDPName, archiveDir string, offset int64, size uint32) ([]byte, error) {
	path, ok := c.resolve(name, archiveDir)
	if !ok {
		return nil, fmt.Errorf("%s not found near %s: %w", name.FileName(), archiveDir, os.ErrNotExist)
	}

	file, ok := c.files[path]
	if !ok {
		var err error
		file, err = os.Open(path)
		if err != nil {
			return nil, err
		}
		c.files[path] = file
	}

	buf := make([]byte, size)
	_, err := file.ReadAt(buf, offset)
	if err == io.EOF && size == 0 {
		err = nil
	}
	if err != nil {
		return nil, fmt.Errorf("short read of %d bytes at %#x in %s: %s", size, offset, path, err.Error())
	}
	return buf, nil
}

//Close releases all cached handles.
func (c *RDPCache) Close() {
	for _, file := range c.files {
		file.Close()
	}
	c.files = make(map[string]*os.File)
}
