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

//Package blz implements the blz2 and blz4 framed compression wrappers used by
//Pres archives. Both wrap raw deflate streams in length-prefixed blocks with a
//block reordering rule; blz4 additionally carries an MD5 integrity digest over
//the decompressed result.
package blz

import (
	"bytes"
	"fmt"
	"io/ioutil"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zlib"
)

//Frame tags. A payload starting with one of these is compressed.
var (
	TagBLZ2 = []byte("blz2")
	TagBLZ4 = []byte("blz4")
)

//FrameError describes malformed codec framing: a bad tag, a truncated block,
//or a deflate failure. Payloads with frame errors yield no output.
type FrameError struct {
	Codec  string
	Reason string
}

//Error implements the error interface.
func (e FrameError) Error() string {
	return fmt.Sprintf("%s frame error: %s", e.Codec, e.Reason)
}

//IntegrityError describes a blz4 payload that decompressed cleanly but failed
//its self-checks. The decoded bytes are still returned alongside this error;
//callers decide whether to keep them.
type IntegrityError struct {
	SizeMismatch   bool
	DigestMismatch bool
	WantSize       uint32
	GotSize        int
}

//Error implements the error interface.
func (e IntegrityError) Error() string {
	switch {
	case e.SizeMismatch && e.DigestMismatch:
		return fmt.Sprintf("blz4 integrity error: MD5 digest mismatch and unpack size mismatch (expected %d bytes, got %d)", e.WantSize, e.GotSize)
	case e.SizeMismatch:
		return fmt.Sprintf("blz4 integrity error: unpack size mismatch (expected %d bytes, got %d)", e.WantSize, e.GotSize)
	default:
		return "blz4 integrity error: MD5 digest mismatch"
	}
}

//IsCompressed checks whether the payload starts with a known codec tag.
func IsCompressed(data []byte) bool {
	return bytes.HasPrefix(data, TagBLZ2) || bytes.HasPrefix(data, TagBLZ4)
}

//Decompress expands a payload if it carries a known codec tag, and returns it
//unchanged otherwise. When the returned error is an IntegrityError the output
//is still usable; any other error means no output was produced.
func Decompress(data []byte) ([]byte, error) {
	switch {
	case bytes.HasPrefix(data, TagBLZ2):
		return DecompressBLZ2(data)
	case bytes.HasPrefix(data, TagBLZ4):
		return DecompressBLZ4(data)
	}
	return data, nil
}

//joinReordered concatenates decoded blocks in output order. The first decoded
//block is logically the final tail of the stream: with two or more blocks the
//output is blocks[1:] followed by blocks[0]. This rule is shared by blz2 and
//blz4 and must not be "fixed"; a plain concatenation produces garbage for any
//multi-block payload.
func joinReordered(blocks [][]byte) []byte {
	var buf bytes.Buffer
	if len(blocks) == 1 {
		return blocks[0]
	}
	for _, block := range blocks[1:] {
		buf.Write(block)
	}
	if len(blocks) > 0 {
		buf.Write(blocks[0])
	}
	return buf.Bytes()
}

//inflateRaw decompresses a raw deflate stream (no zlib header).
func inflateRaw(block []byte) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(block))
	defer r.Close()
	return ioutil.ReadAll(r)
}

//inflateAuto decompresses a block that is either raw deflate or zlib-wrapped
//deflate. Both variants occur in blz4 payloads in the wild; raw is tried
//first.
func inflateAuto(block []byte) ([]byte, error) {
	out, rawErr := inflateRaw(block)
	if rawErr == nil {
		return out, nil
	}
	zr, err := zlib.NewReader(bytes.NewReader(block))
	if err != nil {
		return nil, rawErr
	}
	defer zr.Close()
	out, err = ioutil.ReadAll(zr)
	if err != nil {
		return nil, rawErr
	}
	return out, nil
}
