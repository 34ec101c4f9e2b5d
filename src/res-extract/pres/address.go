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

import "fmt"

//SectorSize is the allocation unit of RDP bulk files. Offsets of RDP-backed
//payloads are stored as sector numbers.
const SectorSize = 0x800

//RDPName identifies one of the three sibling bulk data files.
type RDPName int

//Values for RDPName.
const (
	RDPPackage RDPName = iota
	RDPData
	RDPPatch
)

//FileName returns the on-disk file name of this RDP file.
func (n RDPName) FileName() string {
	switch n {
	case RDPPackage:
		return "package.rdp"
	case RDPData:
		return "data.rdp"
	case RDPPatch:
		return "patch.rdp"
	}
	return fmt.Sprintf("unknown-rdp-%d", int(n))
}

//String implements the fmt.Stringer interface.
func (n RDPName) String() string {
	switch n {
	case RDPPackage:
		return "package"
	case RDPData:
		return "data"
	case RDPPatch:
		return "patch"
	}
	return fmt.Sprintf("unknown-rdp-%d", int(n))
}

//LocationKind classifies where a TOC entry's payload lives (or why it cannot
//be located).
type LocationKind int

//Values for LocationKind.
const (
	//InCurrent locates the payload inside the containing archive file.
	InCurrent LocationKind = iota
	//InRDP locates the payload inside one of the three RDP files.
	InRDP
	//SkipUnknown marks address mode 0x00 which carries no usable location.
	SkipUnknown
	//SkipExternal marks address mode 0x30 (payload lives in an external
	//dataset file that this toolchain does not read).
	SkipExternal
	//Unrecognized marks every other address mode. Entries with this kind are
	//skipped with a diagnostic.
	Unrecognized
)

//Location is the decoded form of a TOC entry's raw offset field. Components
//downstream of the address resolver only ever see this form.
type Location struct {
	Kind LocationKind
	//Mode is the address mode byte (the top byte of the raw offset).
	Mode byte
	//RDP names the bulk file for Kind == InRDP.
	RDP RDPName
	//Offset is the absolute byte offset into the source for InCurrent and
	//InRDP locations.
	Offset int64
}

//Address mode bytes as they appear in the corpus.
const (
	modeUnknown  = 0x00
	modeExternal = 0x30
	modePackage  = 0x40
	modeData     = 0x50
	modePatch    = 0x60
	modeCurrent  = 0xC0
	modeCurrent2 = 0xD0
)

//DecodeOffset decodes a 32-bit raw offset into a Location. The top byte
//selects the address mode; the low 24 bits are the offset body, either
//byte-exact (current file) or in sectors (RDP files).
func DecodeOffset(raw uint32) Location {
	mode := byte(raw >> 24)
	body := int64(raw & 0x00FFFFFF)
	switch mode {
	case modeUnknown:
		return Location{Kind: SkipUnknown, Mode: mode, Offset: body}
	case modeExternal:
		return Location{Kind: SkipExternal, Mode: mode, Offset: body}
	case modePackage:
		return Location{Kind: InRDP, Mode: mode, RDP: RDPPackage, Offset: body * SectorSize}
	case modeData:
		return Location{Kind: InRDP, Mode: mode, RDP: RDPData, Offset: body * SectorSize}
	case modePatch:
		return Location{Kind: InRDP, Mode: mode, RDP: RDPPatch, Offset: body * SectorSize}
	case modeCurrent, modeCurrent2:
		return Location{Kind: InCurrent, Mode: mode, Offset: body}
	}
	return Location{Kind: Unrecognized, Mode: mode, Offset: body}
}

//EncodeOffset is the inverse of DecodeOffset. It exists for testing and for
//tooling that synthesizes archive fixtures; the extractor itself never encodes
//offsets.
func EncodeOffset(loc Location) (uint32, error) {
	switch loc.Kind {
	case SkipUnknown, SkipExternal, Unrecognized:
		return uint32(loc.Mode)<<24 | uint32(loc.Offset&0x00FFFFFF), nil
	case InCurrent:
		if loc.Offset < 0 || loc.Offset > 0x00FFFFFF {
			return 0, fmt.Errorf("offset %#x does not fit in 24 bits", loc.Offset)
		}
		mode := loc.Mode
		if mode != modeCurrent && mode != modeCurrent2 {
			mode = modeCurrent
		}
		return uint32(mode)<<24 | uint32(loc.Offset), nil
	case InRDP:
		if loc.Offset%SectorSize != 0 {
			return 0, fmt.Errorf("RDP offset %#x is not sector-aligned", loc.Offset)
		}
		sector := loc.Offset / SectorSize
		if sector < 0 || sector > 0x00FFFFFF {
			return 0, fmt.Errorf("RDP sector %#x does not fit in 24 bits", sector)
		}
		var mode uint32
		switch loc.RDP {
		case RDPPackage:
			mode = modePackage
		case RDPData:
			mode = modeData
		case RDPPatch:
			mode = modePatch
		default:
			return 0, fmt.Errorf("unknown RDP selector %d", int(loc.RDP))
		}
		return mode<<24 | uint32(sector), nil
	}
	return 0, fmt.Errorf("unknown location kind %d", int(loc.Kind))
}
