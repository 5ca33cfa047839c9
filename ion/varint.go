// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package ion

import (
	"bufio"
	"fmt"
)

// UVarintSize returns the number of bytes required to
// encode uv as a uvarint (see UnsafeWriteUVarint).
func UVarintSize(uv uint64) int {
	n := 1
	uv >>= 7
	for uv != 0 {
		n++
		uv >>= 7
	}
	return n
}

// UnsafeWriteUVarint encodes uv as a uvarint number.
// It returns the number of bytes written.
//
// The encoding stores 7-bit groups most-significant-group-first;
// the final (least-significant) group has its high bit set as
// a terminator, and no other group does. It is required that dst
// has enough room for the encoding (see UVarintSize).
func UnsafeWriteUVarint(dst []byte, uv uint64) int {
	ret := UVarintSize(uv)
	off := ret - 1
	dst[off] = byte(uv&0x7f) | 0x80
	for off > 0 {
		off--
		uv >>= 7
		dst[off] = byte(uv & 0x7f)
	}
	return ret
}

// AppendUVarint appends the uvarint encoding of uv to dst
// and returns the extended slice.
func AppendUVarint(dst []byte, uv uint64) []byte {
	n := len(dst)
	dst = append(dst, make([]byte, UVarintSize(uv))...)
	UnsafeWriteUVarint(dst[n:], uv)
	return dst
}

// ReadUVarint decodes a uvarint previously written by
// UnsafeWriteUVarint/AppendUVarint from the front of src.
// It returns the decoded value and the number of bytes consumed.
func ReadUVarint(src []byte) (uint64, int, error) {
	var v uint64
	for i, b := range src {
		v = (v << 7) | uint64(b&0x7f)
		if b&0x80 != 0 {
			return v, i + 1, nil
		}
		if i == 9 {
			return 0, 0, fmt.Errorf("ion: uvarint too long")
		}
	}
	return 0, 0, fmt.Errorf("ion: truncated uvarint")
}

// ReadUVarintFrom decodes a uvarint one byte at a time from r.
func ReadUVarintFrom(r *bufio.Reader) (uint64, error) {
	var v uint64
	for i := 0; ; i++ {
		b, err := r.ReadByte()
		if err != nil {
			return 0, fmt.Errorf("ion: reading uvarint: %w", err)
		}
		v = (v << 7) | uint64(b&0x7f)
		if b&0x80 != 0 {
			return v, nil
		}
		if i == 9 {
			return 0, fmt.Errorf("ion: uvarint too long")
		}
	}
}
