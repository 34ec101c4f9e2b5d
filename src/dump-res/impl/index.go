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

	"github.com/nachotacos69/GE2Extra/src/res-extract/blz"
	"github.com/nachotacos69/GE2Extra/src/res-extract/pres"
)

//dumpIndex renders every entry of an index, one ">>" line plus indented
//detail per entry.
func dumpIndex(data []byte, idx *pres.Index) string {
	dump := fmt.Sprintf("%d entries\n", len(idx.Entries))
	for _, entry := range idx.Entries {
		dump += dumpEntry(data, entry)
	}
	return dump
}

func dumpEntry(data []byte, entry *pres.Entry) string {
	name := entry.Name.FileName()
	if name == "" {
		name = fmt.Sprintf("Unnamed File %d", entry.Index)
	}
	if dir := activeDir(entry.Name, entry.NameCount); dir != "" {
		name = dir + "/" + name
	}

	detail := fmt.Sprintf("raw offset: %#010x\n", entry.RawOffset)
	detail += "source: " + describeLocation(entry.Location) + "\n"
	detail += fmt.Sprintf("stored size: %d, decompressed size: %d\n", entry.CSize, entry.DSize)
	detail += "compression: " + describeCompression(data, entry) + "\n"
	if entry.Dummy {
		detail += "status: dummy entry, skipped\n"
	}
	return fmt.Sprintf(">> %s\n", name) + Indent(detail)
}

func activeDir(name pres.NameRecord, nameCount uint32) string {
	if nameCount == 4 && name.Subpath != "" {
		return name.Subpath
	}
	return name.Path
}

func describeLocation(loc pres.Location) string {
	switch loc.Kind {
	case pres.InCurrent:
		return fmt.Sprintf("current file at %#x", loc.Offset)
	case pres.InRDP:
		return fmt.Sprintf("%s at %#x", loc.RDP.FileName(), loc.Offset)
	case pres.SkipUnknown:
		return "none (address mode 0x00)"
	case pres.SkipExternal:
		return "external dataset file"
	}
	return fmt.Sprintf("unrecognized address mode %#02x", loc.Mode)
}

//describeCompression sniffs the four tag bytes of payloads that live in the
//current file. RDP-backed payloads are not read; their tag is unknown here.
func describeCompression(data []byte, entry *pres.Entry) string {
	if entry.Location.Kind != pres.InCurrent || entry.CSize < 4 {
		if entry.Location.Kind == pres.InRDP {
			return "unknown (payload in RDP file)"
		}
		return "none"
	}
	end := entry.Location.Offset + int64(entry.CSize)
	if end > int64(len(data)) {
		return "unknown (payload truncated)"
	}
	tag := data[entry.Location.Offset : entry.Location.Offset+4]
	if blz.IsCompressed(tag) {
		return strings.ToLower(string(tag))
	}
	return "none"
}
