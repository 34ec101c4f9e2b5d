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
	"os"
	"path/filepath"

	"github.com/nachotacos69/GE2Extra/src/res-extract/pres"
)

//Environment carries the per-session context that the extractor would
//otherwise have to pull from process-wide state: where the program lives (for
//the RDP fallback search), where it was started, extra RDP search directories,
//and the language filter for localized containers.
type Environment struct {
	ProgramDir string
	WorkingDir string
	RDPDirs    []string
	Languages  pres.LanguageFilter
}

//CurrentEnvironment builds an Environment from the running process.
func CurrentEnvironment() *Environment {
	env := &Environment{}
	if exe, err := os.Executable(); err == nil {
		env.ProgramDir = filepath.Dir(exe)
	}
	if wd, err := os.Getwd(); err == nil {
		env.WorkingDir = wd
	}
	return env
}
