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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//buildRTBL assembles a .rtbl stream with one entry whose payload lives at the
//end of the file itself.
func buildRTBL(name, typ string, payload []byte) []byte {
	//32-byte entry, two pointer slots, inline strings, zero padding up to a
	//16-byte boundary, then the payload
	nameStart := 32 + 8
	size := nameStart + len(name) + 1 + len(typ) + 1
	if rem := size % 16; rem != 0 {
		size += 16 - rem
	}
	payloadOff := size

	buf := make([]byte, payloadOff+len(payload))
	putU32(buf, 0, 0xC0000000|uint32(payloadOff))
	putU32(buf, 4, uint32(len(payload)))
	putU32(buf, 8, 0x20)
	putU32(buf, 12, 2)
	putU32(buf, 28, uint32(len(payload)))
	copy(buf[nameStart:], name)
	copy(buf[nameStart+len(name)+1:], typ)
	copy(buf[payloadOff:], payload)
	return buf
}

func TestExtractRTBL(t *testing.T) {
	archive, out := writeArchive(t, "table.rtbl", buildRTBL("item", "dat", []byte("rtbl payload")))

	x := runExtractor(t, &Environment{}, archive, false, out)
	assert.Empty(t, x.Report.Diagnostics)
	assert.Equal(t, "rtbl payload", readFile(t, filepath.Join(out, "item.dat")))
}

func TestExtractNestedRTBL(t *testing.T) {
	//a .res archive carrying a .rtbl table which carries a payload
	rtbl := buildRTBL("leaf", "txt", []byte("nested"))
	outer := buildArchive(fixtureEntry{name: "table", typ: "rtbl", payload: rtbl})

	archive, out := writeArchive(t, "x.res", outer)
	x := runExtractor(t, &Environment{}, archive, false, out)

	assert.Empty(t, x.Report.Diagnostics)
	require.FileExists(t, filepath.Join(out, "table.rtbl"))
	assert.Equal(t, "nested", readFile(t, filepath.Join(out, "table", "leaf.txt")))
}
