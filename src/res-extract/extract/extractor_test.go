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
	"bytes"
	"encoding/binary"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/flate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nachotacos69/GE2Extra/src/res-extract/pres"
)

func putU32(buf []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(buf[off:], v)
}

//fixtureEntry describes one TOC entry of a synthetic archive. A zero
//rawOffset places the payload in the current file; a non-zero rawOffset is
//written verbatim (for RDP-backed and skip-mode entries the payload only
//determines the stored size).
type fixtureEntry struct {
	name      string
	typ       string
	path      string
	payload   []byte
	rawOffset uint32
	dummy     bool
}

//buildArchive assembles a single-group archive from the given entries.
func buildArchive(entries ...fixtureEntry) []byte {
	const (
		groupOff = 0x20
		tocOff   = 0x30
	)
	type layout struct {
		namePtr    int
		nameOff    int
		typeOff    int
		pathOff    int
		slots      int
		payloadOff int
	}
	plans := make([]layout, len(entries))

	cursor := tocOff + len(entries)*pres.TOCEntrySize
	for i, e := range entries {
		if e.dummy {
			continue
		}
		p := &plans[i]
		p.slots = 2
		if e.path != "" {
			p.slots = 3
		}
		p.namePtr = cursor
		cursor += p.slots * 4
		p.nameOff = cursor
		cursor += len(e.name) + 1
		p.typeOff = cursor
		cursor += len(e.typ) + 1
		if e.path != "" {
			p.pathOff = cursor
			cursor += len(e.path) + 1
		}
	}
	for i, e := range entries {
		if e.dummy || e.rawOffset != 0 || len(e.payload) == 0 {
			continue
		}
		plans[i].payloadOff = cursor
		cursor += len(e.payload)
	}

	buf := make([]byte, cursor)
	putU32(buf, 0, pres.Magic)
	putU32(buf, 4, groupOff)
	buf[8] = 1
	putU32(buf, groupOff, tocOff)
	putU32(buf, groupOff+4, uint32(len(entries)))

	for i, e := range entries {
		base := tocOff + i*pres.TOCEntrySize
		if e.dummy {
			putU32(buf, base+28, 1) //only dsize is non-zero
			continue
		}
		p := plans[i]
		raw := e.rawOffset
		if raw == 0 {
			raw = 0xC0000000 | uint32(p.payloadOff)
		}
		putU32(buf, base, raw)
		putU32(buf, base+4, uint32(len(e.payload)))
		putU32(buf, base+8, uint32(p.namePtr))
		putU32(buf, base+12, uint32(p.slots))
		putU32(buf, base+28, uint32(len(e.payload)))

		putU32(buf, p.namePtr, uint32(p.nameOff))
		putU32(buf, p.namePtr+4, uint32(p.typeOff))
		copy(buf[p.nameOff:], e.name)
		copy(buf[p.typeOff:], e.typ)
		if e.path != "" {
			putU32(buf, p.namePtr+8, uint32(p.pathOff))
			copy(buf[p.pathOff:], e.path)
		}
		if e.rawOffset == 0 && len(e.payload) > 0 {
			copy(buf[p.payloadOff:], e.payload)
		}
	}
	return buf
}

//writeArchive stores archive bytes under the given file name in a fresh temp
//directory and returns the archive path and an output root inside it.
func writeArchive(t *testing.T, filename string, data []byte) (archivePath, outDir string) {
	t.Helper()
	dir := t.TempDir()
	archivePath = filepath.Join(dir, filename)
	require.NoError(t, ioutil.WriteFile(archivePath, data, 0644))
	return archivePath, filepath.Join(dir, "out")
}

func runExtractor(t *testing.T, env *Environment, archivePath string, localized bool, outDir string) *Extractor {
	t.Helper()
	x := NewExtractor(env)
	defer x.Close()
	x.ExtractFile(archivePath, localized, outDir)
	return x
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := ioutil.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func diagnosticKinds(x *Extractor) []DiagnosticKind {
	var kinds []DiagnosticKind
	for _, d := range x.Report.Diagnostics {
		kinds = append(kinds, d.Kind)
	}
	return kinds
}

func TestExtractSingleEntry(t *testing.T) {
	archive, out := writeArchive(t, "x.res", buildArchive(
		fixtureEntry{name: "h", typ: "txt", payload: []byte("hello")},
	))

	x := runExtractor(t, &Environment{}, archive, false, out)
	assert.Empty(t, x.Report.Diagnostics)
	assert.Equal(t, "hello", readFile(t, filepath.Join(out, "h.txt")))
}

func TestExtractHonorsPathSlot(t *testing.T) {
	archive, out := writeArchive(t, "x.res", buildArchive(
		fixtureEntry{name: "h", typ: "txt", path: "gfx/ui", payload: []byte("hello")},
	))

	x := runExtractor(t, &Environment{}, archive, false, out)
	assert.Empty(t, x.Report.Diagnostics)
	assert.Equal(t, "hello", readFile(t, filepath.Join(out, "gfx", "ui", "h.txt")))
}

func TestExtractEmptyEntryMaterializesFile(t *testing.T) {
	archive, out := writeArchive(t, "x.res", buildArchive(
		fixtureEntry{name: "empty", typ: "dat", payload: nil},
	))

	x := runExtractor(t, &Environment{}, archive, false, out)
	assert.Empty(t, x.Report.Diagnostics)
	assert.Equal(t, "", readFile(t, filepath.Join(out, "empty.dat")))
}

func TestExtractCollisionCounters(t *testing.T) {
	archive, out := writeArchive(t, "x.res", buildArchive(
		fixtureEntry{name: "p", typ: "txt", payload: []byte("one")},
		fixtureEntry{name: "p", typ: "txt", payload: []byte("two")},
		fixtureEntry{name: "p", typ: "txt", payload: []byte("three")},
	))

	x := runExtractor(t, &Environment{}, archive, false, out)
	assert.Empty(t, x.Report.Diagnostics)
	assert.Equal(t, "one", readFile(t, filepath.Join(out, "p.txt")))
	assert.Equal(t, "two", readFile(t, filepath.Join(out, "p_0000.txt")))
	assert.Equal(t, "three", readFile(t, filepath.Join(out, "p_0001.txt")))
}

func TestExtractCompressedEntry(t *testing.T) {
	//blz2 frame with two blocks: the first decoded block is the tail
	frame := append([]byte("blz2"), deflateBlock(t, []byte("WORLD"))...)
	frame = append(frame, deflateBlock(t, []byte("HELLO "))...)

	archive, out := writeArchive(t, "x.res", buildArchive(
		fixtureEntry{name: "greeting", typ: "txt", payload: frame},
	))

	x := runExtractor(t, &Environment{}, archive, false, out)
	assert.Empty(t, x.Report.Diagnostics)
	assert.Equal(t, "HELLO WORLD", readFile(t, filepath.Join(out, "greeting.txt")))
}

//deflateBlock compresses data into one length-prefixed raw deflate block.
func deflateBlock(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.DefaultCompression)
	require.NoError(t, err)
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	block := make([]byte, 2+buf.Len())
	binary.LittleEndian.PutUint16(block, uint16(buf.Len()))
	copy(block[2:], buf.Bytes())
	return block
}

func TestExtractCodecFrameErrorWritesRaw(t *testing.T) {
	//a blz2 tag followed by a truncated block
	broken := []byte{'b', 'l', 'z', '2', 0xFF, 0xFF, 'x'}

	archive, out := writeArchive(t, "x.res", buildArchive(
		fixtureEntry{name: "broken", typ: "bin", payload: broken},
	))

	x := runExtractor(t, &Environment{}, archive, false, out)
	assert.Equal(t, []DiagnosticKind{CodecFrameError}, diagnosticKinds(x))
	assert.Equal(t, string(broken), readFile(t, filepath.Join(out, "broken.bin")),
		"the raw payload must be written when the codec fails")
}

func TestExtractNestedArchive(t *testing.T) {
	inner := buildArchive(fixtureEntry{name: "h", typ: "txt", payload: []byte("hello")})
	outer := buildArchive(fixtureEntry{name: "inner", typ: "res", payload: inner})

	archive, out := writeArchive(t, "x.res", outer)
	x := runExtractor(t, &Environment{}, archive, false, out)

	assert.Empty(t, x.Report.Diagnostics)
	assert.FileExists(t, filepath.Join(out, "inner.res"))
	assert.Equal(t, "hello", readFile(t, filepath.Join(out, "inner", "h.txt")))
}

func TestExtractTerminatesOnSelfNestedArchive(t *testing.T) {
	//an entry that spans the whole file: the nested archive is a bit-identical
	//copy of its parent
	buf := buildArchive(fixtureEntry{name: "inner", typ: "res", rawOffset: 0xC0000000, payload: []byte("x")})
	putU32(buf, 0x30+4, uint32(len(buf)))  //csize = whole file
	putU32(buf, 0x30+28, uint32(len(buf))) //dsize

	archive, out := writeArchive(t, "x.res", buf)
	x := runExtractor(t, &Environment{}, archive, false, out)

	assert.Equal(t, []DiagnosticKind{VisitedCycle}, diagnosticKinds(x))
	assert.FileExists(t, filepath.Join(out, "inner.res"))
}

func TestExtractMissingRDP(t *testing.T) {
	archive, out := writeArchive(t, "x.res", buildArchive(
		fixtureEntry{name: "bulk", typ: "bin", rawOffset: 0x50000001, payload: []byte("abc")},
	))

	x := runExtractor(t, &Environment{}, archive, false, out)
	require.Equal(t, []DiagnosticKind{MissingRDP}, diagnosticKinds(x))
	assert.Equal(t, "data", x.Report.Diagnostics[0].Detail)
	assert.NoFileExists(t, filepath.Join(out, "bulk.bin"))
}

func TestExtractFromRDP(t *testing.T) {
	archive, out := writeArchive(t, "x.res", buildArchive(
		fixtureEntry{name: "bulk", typ: "bin", rawOffset: 0x50000001, payload: []byte("abc")},
	))

	//data.rdp sits next to the archive; the payload lives in sector 1
	rdp := make([]byte, pres.SectorSize+3)
	copy(rdp[pres.SectorSize:], "abc")
	require.NoError(t, ioutil.WriteFile(filepath.Join(filepath.Dir(archive), "data.rdp"), rdp, 0644))

	x := runExtractor(t, &Environment{}, archive, false, out)
	assert.Empty(t, x.Report.Diagnostics)
	assert.Equal(t, "abc", readFile(t, filepath.Join(out, "bulk.bin")))
}

func TestExtractSkipDiagnostics(t *testing.T) {
	archive, out := writeArchive(t, "x.res", buildArchive(
		fixtureEntry{dummy: true},
		fixtureEntry{name: "unknown", typ: "bin", rawOffset: 0x00000005, payload: []byte("x")},
		fixtureEntry{name: "outside", typ: "bin", rawOffset: 0x30000001, payload: []byte("x")},
		fixtureEntry{name: "weird", typ: "bin", rawOffset: 0x7F000001, payload: []byte("x")},
	))

	x := runExtractor(t, &Environment{}, archive, false, out)
	assert.Equal(t, []DiagnosticKind{
		DummyEntry,
		UnknownAddressMode,
		ExternalData,
		UnknownAddressMode,
	}, diagnosticKinds(x))

	entries, err := ioutil.ReadDir(filepath.Join(out))
	if err == nil {
		assert.Empty(t, entries, "skipped entries must not produce output files")
	} else {
		assert.True(t, os.IsNotExist(err))
	}
}

func TestExtractPayloadPastEOF(t *testing.T) {
	buf := buildArchive(fixtureEntry{name: "h", typ: "txt", payload: []byte("hello")})
	putU32(buf, 0x30+4, 0x10000) //stored size far beyond the file

	archive, out := writeArchive(t, "x.res", buf)
	x := runExtractor(t, &Environment{}, archive, false, out)

	assert.Equal(t, []DiagnosticKind{ShortRead}, diagnosticKinds(x))
	assert.NoFileExists(t, filepath.Join(out, "h.txt"))
}

func TestExtractInvalidHeaderIsFatal(t *testing.T) {
	archive, out := writeArchive(t, "x.res", []byte("this is not a Pres archive, just thirty-plus bytes of text"))

	x := runExtractor(t, &Environment{}, archive, false, out)
	require.Len(t, x.Report.Diagnostics, 1)
	assert.Equal(t, InvalidHeader, x.Report.Diagnostics[0].Kind)
	assert.True(t, x.Report.HasFatal())
}

func TestExtractDeterminism(t *testing.T) {
	data := buildArchive(
		fixtureEntry{name: "p", typ: "txt", payload: []byte("one")},
		fixtureEntry{name: "p", typ: "txt", payload: []byte("two")},
		fixtureEntry{name: "q", typ: "txt", payload: []byte("three")},
	)

	trees := make([]map[string]string, 2)
	for run := 0; run < 2; run++ {
		archive, out := writeArchive(t, "x.res", data)
		x := runExtractor(t, &Environment{}, archive, false, out)
		assert.Empty(t, x.Report.Diagnostics)

		tree := make(map[string]string)
		err := filepath.Walk(out, func(path string, info os.FileInfo, err error) error {
			if err != nil || info.IsDir() {
				return err
			}
			rel, _ := filepath.Rel(out, path)
			tree[rel] = readFile(t, path)
			return nil
		})
		require.NoError(t, err)
		trees[run] = tree
	}
	assert.Equal(t, trees[0], trees[1], "two runs over identical input must produce identical trees")
}
