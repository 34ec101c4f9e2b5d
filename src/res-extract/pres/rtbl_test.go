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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//appendRTBLEntry appends one RTBL TOC entry with inline name strings, padded
//to a 16-byte boundary, and returns the buffer.
func appendRTBLEntry(buf []byte, name, typ string, rawOffset, csize uint32) []byte {
	base := len(buf)
	//entry (32 bytes) + two pointer slots + name strings
	nameStart := base + TOCEntrySize + 2*4
	size := nameStart + len(name) + 1 + len(typ) + 1 - base
	if rem := size % 16; rem != 0 {
		size += 16 - rem
	}
	region := make([]byte, size)
	buf = append(buf, region...)

	putU32(buf, base, rawOffset)
	putU32(buf, base+4, csize)
	putU32(buf, base+8, rtblInlineNamePtr)
	putU32(buf, base+12, 2)
	putU32(buf, base+28, csize)
	copy(buf[nameStart:], name)
	copy(buf[nameStart+len(name)+1:], typ)
	return buf
}

func TestParseRTBL(t *testing.T) {
	var buf []byte
	//leading padding run
	buf = append(buf, make([]byte, 16)...)
	buf = appendRTBLEntry(buf, "first", "bin", 0x50000002, 100)
	buf = appendRTBLEntry(buf, "second", "res", 0x40000001, 200)

	idx := ParseRTBL(buf)
	require.Len(t, idx.Entries, 2)

	first := idx.Entries[0]
	assert.Equal(t, "first", first.Name.Name)
	assert.Equal(t, "bin", first.Name.Type)
	assert.Equal(t, InRDP, first.Location.Kind)
	assert.Equal(t, RDPData, first.Location.RDP)
	assert.Equal(t, int64(2*SectorSize), first.Location.Offset)
	assert.Equal(t, uint32(100), first.CSize)

	second := idx.Entries[1]
	assert.Equal(t, "second.res", second.Name.FileName())
	assert.Equal(t, RDPPackage, second.Location.RDP)
	assert.True(t, second.Name.IsArchive())
}

func TestParseRTBLSkipsForeignNamePointers(t *testing.T) {
	//a record whose name pointer is not 0x20 is not an entry; the scanner
	//resyncs on the next 16-byte boundary
	buf := make([]byte, 64)
	putU32(buf, 0, 0xC0000010)
	putU32(buf, 4, 5)
	putU32(buf, 8, 0x1234) //not the inline name table marker

	idx := ParseRTBL(buf)
	assert.Empty(t, idx.Entries)
}

func TestParseRTBLEmptyInput(t *testing.T) {
	assert.Empty(t, ParseRTBL(nil).Entries)
	assert.Empty(t, ParseRTBL(make([]byte, 48)).Entries, "all-zero input is padding only")
}
