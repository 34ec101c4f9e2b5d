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
)

//TOCEntrySize is the size of one TOC entry in bytes.
const TOCEntrySize = 32

//GroupRecordSize is the size of one group table record in bytes.
const GroupRecordSize = 8

//Binary layout of a TOC entry.
type tocRecord struct {
	RawOffset uint32
	CSize     uint32
	NamePtr   uint32
	NameCount uint32
	_         [12]byte
	DSize     uint32
}

//Group is one record of the group table. Groups partition the TOC.
type Group struct {
	EntryOffset uint32
	EntryCount  uint32
}

//Entry is one decoded TOC entry. Entries keep their enumeration order; that
//order determines extraction order and collision counter suffixes.
type Entry struct {
	//Index is the position of this entry in the flat enumeration of the
	//archive (after tombstones have been discarded).
	Index     int
	RawOffset uint32
	Location  Location
	CSize     uint32
	DSize     uint32
	NamePtr   uint32
	NameCount uint32
	Name      NameRecord
	//Dummy is set for entries with zeroed pointers but a non-zero
	//decompressed size. Such entries are skipped with a diagnostic.
	Dummy bool
}

//Index is the parsed, immutable index of one archive.
type Index struct {
	//Path is the filesystem path the archive was read from, for callers that
	//record one. The parsers work on byte slices and leave it empty.
	Path    string
	Groups  []Group
	Entries []*Entry
}

//ParseArchive builds the index of a plain (non-localized) archive: header,
//group table, TOC entries and name records. The data slice must hold the
//entire archive; the parser never touches the filesystem.
func ParseArchive(data []byte) (*Index, error) {
	hdr, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}

	groups, err := parseGroupTable(data, hdr.GroupOffset, hdr.GroupCount)
	if err != nil {
		return nil, err
	}

	idx := &Index{Groups: groups}
	for _, group := range groups {
		err := idx.appendEntries(data, int64(group.EntryOffset), int(group.EntryCount))
		if err != nil {
			return nil, err
		}
	}
	return idx, nil
}

//parseGroupTable reads the group table and discards hole records (both fields
//zero).
func parseGroupTable(data []byte, offset uint32, count int) ([]Group, error) {
	need := int64(count) * GroupRecordSize
	if int64(offset)+need > int64(len(data)) {
		return nil, TruncatedError{What: "group table", Offset: int64(offset), Need: need}
	}
	var groups []Group
	for i := 0; i < count; i++ {
		pos := int64(offset) + int64(i)*GroupRecordSize
		entryOffset := binary.LittleEndian.Uint32(data[pos : pos+4])
		entryCount := binary.LittleEndian.Uint32(data[pos+4 : pos+8])
		if entryOffset == 0 && entryCount == 0 {
			continue //hole
		}
		groups = append(groups, Group{EntryOffset: entryOffset, EntryCount: entryCount})
	}
	return groups, nil
}

//appendEntries reads a run of TOC entries at the given offset and appends the
//surviving ones to the index. Tombstones (first 16 bytes zero, zero dsize) are
//discarded; dummies are kept with the Dummy flag set.
func (idx *Index) appendEntries(data []byte, offset int64, count int) error {
	need := int64(count) * TOCEntrySize
	if offset < 0 || offset+need > int64(len(data)) {
		return TruncatedError{What: "TOC", Offset: offset, Need: need}
	}
	for i := 0; i < count; i++ {
		pos := offset + int64(i)*TOCEntrySize
		entry, ok := decodeEntry(data, pos)
		if !ok {
			continue
		}
		entry.Index = len(idx.Entries)
		idx.Entries = append(idx.Entries, entry)
	}
	return nil
}

//decodeEntry decodes the 32 bytes at pos into an Entry. The second return
//value is false for tombstones.
func decodeEntry(data []byte, pos int64) (*Entry, bool) {
	var rec tocRecord
	binary.Read(bytes.NewReader(data[pos:pos+TOCEntrySize]), binary.LittleEndian, &rec)

	zeroHead := rec.RawOffset == 0 && rec.CSize == 0 && rec.NamePtr == 0 && rec.NameCount == 0
	if zeroHead && rec.DSize == 0 {
		return nil, false //tombstone
	}

	entry := &Entry{
		RawOffset: rec.RawOffset,
		Location:  DecodeOffset(rec.RawOffset),
		CSize:     rec.CSize,
		DSize:     rec.DSize,
		NamePtr:   rec.NamePtr,
		NameCount: rec.NameCount,
		Dummy:     zeroHead,
	}
	if !entry.Dummy {
		entry.Name = readNameRecord(data, rec.NamePtr, rec.NameCount)
	}
	return entry, true
}
