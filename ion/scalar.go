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
	"fmt"
	"math"
)

// Kind identifies the logical type of a Scalar. The core treats
// scalar contents as opaque, but still needs to know how many
// bytes a value occupies in order to round-trip it.
type Kind uint8

const (
	KindBool Kind = iota
	KindInt
	KindFloat
	KindTimestamp
	KindString
	KindBinary
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindTimestamp:
		return "timestamp"
	case KindString:
		return "string"
	case KindBinary:
		return "binary"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Scalar is an opaque value drawn from a fixed set of logical
// types. The accumulator columns never inspect the contents of
// a Scalar beyond what is needed to hash, compare, and round-trip
// it through WriteScalar/ReadScalar.
type Scalar struct {
	Kind  Kind
	Null  bool
	I     int64   // KindInt, KindTimestamp (unix nanos)
	F     float64 // KindFloat
	B     bool    // KindBool
	Bytes []byte  // KindString, KindBinary
}

func Int(v int64) Scalar            { return Scalar{Kind: KindInt, I: v} }
func Float(v float64) Scalar        { return Scalar{Kind: KindFloat, F: v} }
func Bool(v bool) Scalar            { return Scalar{Kind: KindBool, B: v} }
func Timestamp(nanos int64) Scalar  { return Scalar{Kind: KindTimestamp, I: nanos} }
func String(v string) Scalar        { return Scalar{Kind: KindString, Bytes: []byte(v)} }
func Binary(v []byte) Scalar        { return Scalar{Kind: KindBinary, Bytes: v} }
func Null(k Kind) Scalar            { return Scalar{Kind: k, Null: true} }

const nullTagBit = 0x80

// WriteScalar appends the tag-prefixed encoding of v to dst and
// returns the extended slice (only strings and binaries carry an
// explicit length). This is the core's write_scalar
// collaborator: a lossless, self-delimiting byte encoding that
// RawList.Append concatenates into its raw buffer.
//
// nullable controls whether a null marker bit is reserved in the
// tag byte; the core itself never writes an actual null scalar
// (nulls are dropped before reaching an accumulator), but the
// signature is kept symmetric with ReadScalar.
func WriteScalar(dst []byte, v Scalar, nullable bool) []byte {
	tag := byte(v.Kind)
	if nullable && v.Null {
		dst = append(dst, tag|nullTagBit)
		return dst
	}
	dst = append(dst, tag)
	switch v.Kind {
	case KindBool:
		if v.B {
			dst = append(dst, 1)
		} else {
			dst = append(dst, 0)
		}
	case KindInt, KindTimestamp:
		dst = AppendUVarint(dst, zigzagEncode(v.I))
	case KindFloat:
		bits := math.Float64bits(v.F)
		var buf [8]byte
		for i := 0; i < 8; i++ {
			buf[i] = byte(bits >> (8 * i))
		}
		dst = append(dst, buf[:]...)
	case KindString, KindBinary:
		dst = AppendUVarint(dst, uint64(len(v.Bytes)))
		dst = append(dst, v.Bytes...)
	default:
		panic(fmt.Sprintf("ion: unknown scalar kind %d", v.Kind))
	}
	return dst
}

// ReadScalar decodes one scalar previously written by WriteScalar
// from the front of src. It returns the decoded value and the
// number of bytes consumed.
//
// kind is the expected logical type (mirroring the external
// read_scalar(reader, type, nullable) contract); it is validated
// against the encoded tag so that a corrupted stream is reported
// as a decode error rather than silently misinterpreted.
func ReadScalar(src []byte, kind Kind, nullable bool) (Scalar, int, error) {
	if len(src) == 0 {
		return Scalar{}, 0, fmt.Errorf("ion: read_scalar: empty input")
	}
	tag := src[0]
	isNull := nullable && tag&nullTagBit != 0
	gotKind := Kind(tag &^ nullTagBit)
	if gotKind != kind {
		return Scalar{}, 0, fmt.Errorf("ion: read_scalar: expected kind %s, got %s", kind, gotKind)
	}
	if isNull {
		return Scalar{Kind: kind, Null: true}, 1, nil
	}
	off := 1
	switch kind {
	case KindBool:
		if off >= len(src) {
			return Scalar{}, 0, fmt.Errorf("ion: read_scalar: truncated bool")
		}
		return Scalar{Kind: kind, B: src[off] != 0}, off + 1, nil
	case KindInt, KindTimestamp:
		zz, n, err := ReadUVarint(src[off:])
		if err != nil {
			return Scalar{}, 0, fmt.Errorf("ion: read_scalar: %w", err)
		}
		return Scalar{Kind: kind, I: zigzagDecode(zz)}, off + n, nil
	case KindFloat:
		if off+8 > len(src) {
			return Scalar{}, 0, fmt.Errorf("ion: read_scalar: truncated float")
		}
		var bits uint64
		for i := 0; i < 8; i++ {
			bits |= uint64(src[off+i]) << (8 * i)
		}
		return Scalar{Kind: kind, F: math.Float64frombits(bits)}, off + 8, nil
	case KindString, KindBinary:
		ln, n, err := ReadUVarint(src[off:])
		if err != nil {
			return Scalar{}, 0, fmt.Errorf("ion: read_scalar: %w", err)
		}
		off += n
		if off+int(ln) > len(src) {
			return Scalar{}, 0, fmt.Errorf("ion: read_scalar: truncated bytes")
		}
		buf := make([]byte, ln)
		copy(buf, src[off:off+int(ln)])
		return Scalar{Kind: kind, Bytes: buf}, off + int(ln), nil
	default:
		return Scalar{}, 0, fmt.Errorf("ion: read_scalar: unknown kind %s", kind)
	}
}

// Equal reports whether two scalars are identical in kind and
// content. join's row-equality check uses it directly; AccSet
// dedup does not, since it operates on raw encoded bytes rather
// than decoded Scalars.
func (s Scalar) Equal(o Scalar) bool {
	if s.Kind != o.Kind || s.Null != o.Null {
		return false
	}
	switch s.Kind {
	case KindBool:
		return s.B == o.B
	case KindInt, KindTimestamp:
		return s.I == o.I
	case KindFloat:
		return s.F == o.F
	case KindString, KindBinary:
		return string(s.Bytes) == string(o.Bytes)
	}
	return false
}

func zigzagEncode(v int64) uint64 {
	return uint64((v << 1) ^ (v >> 63))
}

func zigzagDecode(uv uint64) int64 {
	return int64(uv>>1) ^ -int64(uv&1)
}
