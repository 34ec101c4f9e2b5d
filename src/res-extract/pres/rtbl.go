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

import "bytes"

//rtblInlineNamePtr is the name pointer value that marks a present RTBL entry:
//the name table follows the TOC entry inline at +0x20.
const rtblInlineNamePtr = 0x20

//ParseRTBL indexes a .rtbl file. The format has no header: the file is a
//linear stream of 32-byte TOC entries interleaved with 16-byte zero runs of
//padding. An entry is considered present only when its name pointer field
//reads 0x20; its name strings then follow inline after the pointer slots, one
//null-terminated string per positional slot.
func ParseRTBL(data []byte) *Index {
	idx := &Index{}
	var zeroRun [16]byte

	offset := int64(0)
	for offset+TOCEntrySize <= int64(len(data)) {
		if bytes.Equal(data[offset:offset+16], zeroRun[:]) {
			offset += 16
			continue
		}
		entry, ok := decodeEntry(data, offset)
		if !ok || entry.NamePtr != rtblInlineNamePtr {
			//either half of a name region from the previous entry, or not a
			//TOC entry at all; resync on the next 16-byte boundary
			offset += 16
			continue
		}
		entry.Name = readInlineNames(data, offset, entry.NameCount)
		entry.Index = len(idx.Entries)
		idx.Entries = append(idx.Entries, entry)
		offset += TOCEntrySize
	}
	return idx
}

//readInlineNames reads the inline name strings of an RTBL entry. They start
//right after the pointer slots, at entry offset + 0x20 + count*4, and are
//stored back to back in positional order.
func readInlineNames(data []byte, entryOffset int64, count uint32) NameRecord {
	var rec NameRecord
	if count == 0 {
		return rec
	}
	if count > MaxNameSlots {
		count = MaxNameSlots
	}
	pos := entryOffset + rtblInlineNamePtr + int64(count)*4
	for i := uint32(0); i < count; i++ {
		if pos >= int64(len(data)) {
			break
		}
		value := readCString(data, uint32(pos))
		rec.setSlot(int(i), value)
		pos += int64(len(value)) + 1
	}
	return rec
}
