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
	"crypto/md5"
	"encoding/binary"
	"fmt"
)

//blz4HeaderSize covers the tag, the unpack size, 8 reserved bytes and the
//16-byte MD5 digest.
const blz4HeaderSize = 32

//DecompressBLZ4 expands a blz4 frame: tag, little-endian uint32 unpack size,
//8 reserved bytes, MD5 digest of the decompressed result, then blocks in the
//same length-prefixed form as blz2. The block sequence is terminated either by
//end of input or by a zero length field, in which case the remaining input
//forms one final trailer block. Blocks are raw deflate, with zlib-wrapped
//deflate accepted as a historical variant.
//
//A digest or unpack-size mismatch yields the decoded bytes together with an
//IntegrityError; the caller decides whether to keep them.
func DecompressBLZ4(data []byte) ([]byte, error) {
	if !bytes.HasPrefix(data, TagBLZ4) {
		return nil, FrameError{Codec: "blz4", Reason: "missing frame tag"}
	}
	if len(data) < blz4HeaderSize {
		return nil, FrameError{Codec: "blz4", Reason: "input shorter than frame header"}
	}
	unpackSize := binary.LittleEndian.Uint32(data[4:8])
	var wantDigest [md5.Size]byte
	copy(wantDigest[:], data[16:32])

	var rawBlocks [][]byte
	pos := blz4HeaderSize
	for pos < len(data) {
		if pos+2 > len(data) {
			return nil, FrameError{Codec: "blz4", Reason: fmt.Sprintf("truncated block length at offset %#x", pos)}
		}
		blockLen := int(binary.LittleEndian.Uint16(data[pos : pos+2]))
		pos += 2
		if blockLen == 0 {
			//zero-length marker: everything that remains is one trailer block
			if pos < len(data) {
				rawBlocks = append(rawBlocks, data[pos:])
			}
			break
		}
		if pos+blockLen > len(data) {
			return nil, FrameError{Codec: "blz4", Reason: fmt.Sprintf("block at offset %#x exceeds input length", pos-2)}
		}
		rawBlocks = append(rawBlocks, data[pos:pos+blockLen])
		pos += blockLen
	}
	if len(rawBlocks) == 0 {
		return nil, FrameError{Codec: "blz4", Reason: "no blocks in frame"}
	}

	blocks := make([][]byte, 0, len(rawBlocks))
	for idx, raw := range rawBlocks {
		block, err := inflateAuto(raw)
		if err != nil {
			return nil, FrameError{Codec: "blz4", Reason: fmt.Sprintf("deflate failure in block %d: %s", idx, err.Error())}
		}
		blocks = append(blocks, block)
	}
	out := joinReordered(blocks)

	integrity := IntegrityError{WantSize: unpackSize, GotSize: len(out)}
	integrity.SizeMismatch = len(out) != int(unpackSize)
	integrity.DigestMismatch = md5.Sum(out) != wantDigest
	if integrity.SizeMismatch || integrity.DigestMismatch {
		return out, integrity
	}
	return out, nil
}
