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

package blz

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

//DecompressBLZ2 expands a blz2 frame: the 4-byte tag, then a sequence of
//blocks, each a little-endian uint16 length followed by that many bytes of
//raw deflate. Blocks of length zero are skipped. The stream ends when the
//input is consumed.
func DecompressBLZ2(data []byte) ([]byte, error) {
	if !bytes.HasPrefix(data, TagBLZ2) {
		return nil, FrameError{Codec: "blz2", Reason: "missing frame tag"}
	}

	var blocks [][]byte
	pos := len(TagBLZ2)
	for pos < len(data) {
		if pos+2 > len(data) {
			return nil, FrameError{Codec: "blz2", Reason: fmt.Sprintf("truncated block length at offset %#x", pos)}
		}
		blockLen := int(binary.LittleEndian.Uint16(data[pos : pos+2]))
		pos += 2
		if blockLen == 0 {
			continue
		}
		if pos+blockLen > len(data) {
			return nil, FrameError{Codec: "blz2", Reason: fmt.Sprintf("block at offset %#x exceeds input length", pos-2)}
		}
		block, err := inflateRaw(data[pos : pos+blockLen])
		if err != nil {
			return nil, FrameError{Codec: "blz2", Reason: fmt.Sprintf("deflate failure in block at offset %#x: %s", pos-2, err.Error())}
		}
		blocks = append(blocks, block)
		pos += blockLen
	}
	if len(blocks) == 0 {
		return nil, FrameError{Codec: "blz2", Reason: "no blocks in frame"}
	}
	return joinReordered(blocks), nil
}
