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

package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/nachotacos69/GE2Extra/src/res-extract/pres"
)

//Configuration only needs a nice exported name for the TOML parser to produce
//more meaningful error messages on malformed input data.
type Configuration struct {
	//Output is the default output root directory.
	Output string
	//RDPDirs lists extra directories to search for RDP bulk files, after the
	//archive's own directory and the program directory.
	RDPDirs []string `toml:"rdp-dirs"`
	//Languages is the default language filter for localized containers.
	Languages []string
}

//readConfig reads the optional TOML configuration file. An empty path yields
//the zero configuration; a path that was given explicitly must exist.
func readConfig(path string) (Configuration, error) {
	var cfg Configuration
	if path == "" {
		return cfg, nil
	}
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("cannot read configuration from %s: %s", path, err.Error())
	}
	for _, language := range cfg.Languages {
		if !pres.KnownLanguage(language) {
			return cfg, fmt.Errorf("unknown language '%s' in %s (choose from: %s)",
				language, path, strings.Join(pres.Languages6, ", "))
		}
	}
	return cfg, nil
}
