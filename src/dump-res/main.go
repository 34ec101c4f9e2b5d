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
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/nachotacos69/GE2Extra/src/dump-res/impl"
)

//This program renders a textual representation of a Pres archive's index:
//header fields, group table, and every TOC entry with its address mode,
//resolved offset, sizes, name slots and compression tag. It reads no payload
//besides the four tag bytes and never writes output files, which makes it
//safe to point at broken archives while debugging them. The program is called
//like
//
//    ./build/dump-res system.res
//    ./build/dump-res --localized text.res
//
//.rtbl files are recognized by their extension.

func main() {
	localized := false
	inputFileName := ""
	for _, arg := range os.Args[1:] {
		switch {
		case arg == "--localized":
			localized = true
		case inputFileName == "" && !strings.HasPrefix(arg, "-"):
			inputFileName = arg
		default:
			fmt.Fprintf(os.Stderr, "Unrecognized argument: '%s'\n", arg)
			os.Exit(1)
		}
	}
	if inputFileName == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s [--localized] <archive>\n", os.Args[0])
		os.Exit(1)
	}

	data, err := ioutil.ReadFile(inputFileName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	var dump string
	switch {
	case strings.EqualFold(filepath.Ext(inputFileName), ".rtbl"):
		dump = impl.DumpRTBL(data)
	case localized:
		dump, err = impl.DumpLocalized(data)
	default:
		dump, err = impl.DumpArchive(data)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
	fmt.Print(dump)
}
