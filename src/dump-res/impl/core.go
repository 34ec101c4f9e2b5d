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

package impl

import (
	"fmt"
	"strings"

	"github.com/nachotacos69/GE2Extra/src/res-extract/pres"
)

//Indent is a general-purpose helper function for pretty-printing of nested
//data.
func Indent(dump string) string {
	//indent the first line and all subsequent lines except for the trailing
	//newline (and also ensure a trailing newline, which means that in total we
	//can trim the trailing newline at the start, and put it back at the end)
	dump = strings.TrimSuffix(dump, "\n")
	indent := "    "
	dump = indent + strings.Replace(dump, "\n", "\n"+indent, -1)
	return dump + "\n"
}

//DumpArchive renders the index of a plain archive.
func DumpArchive(data []byte) (string, error) {
	hdr, err := pres.ParseHeader(data)
	if err != nil {
		return "", err
	}
	idx, err := pres.ParseArchive(data)
	if err != nil {
		return "", err
	}

	dump := fmt.Sprintf("group table: %d records at %#x\n", hdr.GroupCount, hdr.GroupOffset)
	dump += fmt.Sprintf("configurations offset: %#x\n", hdr.ConfigOffset)
	dump += dumpIndex(data, idx)
	return "Pres archive\n" + Indent(dump), nil
}

//DumpLocalized renders the per-language indexes of a localized archive.
func DumpLocalized(data []byte) (string, error) {
	arc, err := pres.ParseLocalized(data, nil)
	if err != nil {
		return "", err
	}

	dump := fmt.Sprintf("country code: %d\n", arc.Header.Country)
	if !arc.Header.MagicOK {
		dump += "signature: non-standard\n"
	}
	for _, set := range arc.Sets {
		label := set.Language
		if label == "" {
			label = "direct fileset"
		}
		switch {
		case set.Empty:
			dump += fmt.Sprintf(">> %s is empty\n", label)
		default:
			dump += fmt.Sprintf(">> %s (%d bytes at %#x)\n", label, set.Size, set.Offset)
			dump += Indent(dumpIndex(data, set.Index))
		}
	}
	return "localized Pres archive\n" + Indent(dump), nil
}

//DumpRTBL renders the index of a headerless .rtbl file.
func DumpRTBL(data []byte) string {
	idx := pres.ParseRTBL(data)
	return "RTBL archive\n" + Indent(dumpIndex(data, idx))
}
