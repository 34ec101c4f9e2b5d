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

package pres

import (
	"bytes"
	"encoding/binary"
	"strings"
)

//MaxNameSlots is the number of positional slots in a name record.
const MaxNameSlots = 5

//NameRecord holds the up to five strings referenced by a TOC entry's name
//pointer array. Slots are positional; absent slots are empty strings.
type NameRecord struct {
	Name      string
	Type      string
	Path      string
	Subpath   string
	ExtraPath string
}

//FileName returns "name.type", or just "name" when the type slot is empty.
func (n NameRecord) FileName() string {
	if n.Type == "" {
		return n.Name
	}
	return n.Name + "." + n.Type
}

//IsEmpty returns true when the record carries no name at all.
func (n NameRecord) IsEmpty() bool {
	return n.Name == ""
}

//IsArchive checks whether the type slot names a nested archive format.
func (n NameRecord) IsArchive() bool {
	switch strings.ToLower(n.Type) {
	case "res", "rtbl":
		return true
	}
	return false
}

//readCString reads a null-terminated UTF-8 string starting at the given
//offset. A string running into the end of the file is returned as-is.
func readCString(data []byte, offset uint32) string {
	if int64(offset) >= int64(len(data)) {
		return ""
	}
	tail := data[offset:]
	if idx := bytes.IndexByte(tail, 0); idx >= 0 {
		tail = tail[:idx]
	}
	return string(tail)
}

//readNameRecord follows a TOC entry's name pointer array. The array holds
//count 32-bit absolute offsets (clamped to MaxNameSlots); each non-zero offset
//points to a null-terminated string. Pointer slots past the end of the file
//are treated as absent.
func readNameRecord(data []byte, ptr uint32, count uint32) NameRecord {
	var rec NameRecord
	if ptr == 0 || count == 0 {
		return rec
	}
	if count > MaxNameSlots {
		count = MaxNameSlots
	}
	for i := uint32(0); i < count; i++ {
		slotOffset := int64(ptr) + int64(i)*4
		if slotOffset+4 > int64(len(data)) {
			break
		}
		strOffset := binary.LittleEndian.Uint32(data[slotOffset : slotOffset+4])
		if strOffset == 0 {
			continue
		}
		rec.setSlot(int(i), readCString(data, strOffset))
	}
	return rec
}

func (n *NameRecord) setSlot(idx int, value string) {
	switch idx {
	case 0:
		n.Name = value
	case 1:
		n.Type = value
	case 2:
		n.Path = value
	case 3:
		n.Subpath = value
	case 4:
		n.ExtraPath = value
	}
}
