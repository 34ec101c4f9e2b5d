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
	"fmt"
)

//Magic is the four-byte archive signature "Pres", read as a little-endian
//uint32.
const Magic uint32 = 0x73657250

//HeaderSize is the size of both header variants in bytes.
const HeaderSize = 32

//Binary layout of the archive header.
type headerRecord struct {
	Magic        uint32
	GroupOffset  uint32
	GroupCount   uint8
	Unknown      uint32
	_            [3]byte
	ConfigOffset uint32
	_            [12]byte
}

//Binary layout of the localized archive header. The tail fields replace the
//group table fields of the plain variant.
type localizedHeaderRecord struct {
	Magic      uint32
	Magic1     uint32
	Magic2     uint32
	Magic3     uint32
	ConfLength uint32
	_          [8]byte
	Country    uint32
}

//Header contains the decoded fields of a plain (non-localized) archive header.
type Header struct {
	GroupOffset  uint32
	GroupCount   int
	ConfigOffset uint32
}

//LocalizedHeader contains the decoded fields of a localized archive header.
type LocalizedHeader struct {
	//MagicOK is false when the leading four bytes did not read "Pres". For
	//localized files this is not fatal; the caller may warn and continue.
	MagicOK    bool
	ConfLength uint32
	Country    int
}

//InvalidHeaderError is returned when the archive signature does not match.
type InvalidHeaderError struct {
	Got uint32
}

//Error implements the error interface.
func (e InvalidHeaderError) Error() string {
	return fmt.Sprintf("invalid archive header: expected %#010x (\"Pres\"), got %#010x", Magic, e.Got)
}

//TruncatedError is returned when a header, group table, TOC or name structure
//extends past the end of the file.
type TruncatedError struct {
	What   string
	Offset int64
	Need   int64
}

//Error implements the error interface.
func (e TruncatedError) Error() string {
	return fmt.Sprintf("truncated %s: need %d bytes at offset %#x", e.What, e.Need, e.Offset)
}

//ParseHeader decodes the plain 32-byte archive header.
func ParseHeader(data []byte) (*Header, error) {
	if len(data) < HeaderSize {
		return nil, TruncatedError{What: "header", Offset: 0, Need: HeaderSize}
	}
	var rec headerRecord
	binary.Read(bytes.NewReader(data[:HeaderSize]), binary.LittleEndian, &rec)
	if rec.Magic != Magic {
		return nil, InvalidHeaderError{Got: rec.Magic}
	}
	return &Header{
		GroupOffset:  rec.GroupOffset,
		GroupCount:   int(rec.GroupCount),
		ConfigOffset: rec.ConfigOffset,
	}, nil
}

//ParseLocalizedHeader decodes the localized 32-byte archive header. A magic
//mismatch is reported through the MagicOK field rather than an error since
//localized containers have been observed with non-standard signatures.
func ParseLocalizedHeader(data []byte) (*LocalizedHeader, error) {
	if len(data) < HeaderSize {
		return nil, TruncatedError{What: "localized header", Offset: 0, Need: HeaderSize}
	}
	var rec localizedHeaderRecord
	binary.Read(bytes.NewReader(data[:HeaderSize]), binary.LittleEndian, &rec)
	return &LocalizedHeader{
		MagicOK:    rec.Magic == Magic,
		ConfLength: rec.ConfLength,
		Country:    int(rec.Country),
	}, nil
}
