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

// Package accum implements the core per-group accumulator storage:
// RawList (C1), AdaptiveSet (C2), and AccumulatorColumn (C3).
package accum

import "github.com/sneller-oss/qops/ion"

// Ref is a (offset, length) slice reference into a RawList's raw
// buffer. It is only meaningful relative to the RawList that produced
// it, and only until that list is truncated below ref.Offset.
type Ref struct {
	Offset uint32
	Length uint32
}

// RawList is an append-only byte buffer holding self-delimiting
// encoded scalars, concatenated in insertion order (C1).
type RawList struct {
	raw []byte
}

// Len reports the number of live bytes in the buffer.
func (l *RawList) Len() int { return len(l.raw) }

// Cap reports the buffer's current capacity, used by mem-size
// accounting (mem_size = raw.capacity, per spec.md §3).
func (l *RawList) Cap() int { return cap(l.raw) }

// Append writes the self-delimiting encoding of v and returns the Ref
// describing where it landed.
func (l *RawList) Append(v ion.Scalar, nullable bool) Ref {
	off := uint32(len(l.raw))
	l.raw = ion.WriteScalar(l.raw, v, nullable)
	return Ref{Offset: off, Length: uint32(len(l.raw)) - off}
}

// AppendBytes writes raw bytes verbatim (used by AdaptiveSet's
// insertion path once a value is known to be new) and returns the
// resulting Ref.
func (l *RawList) AppendBytes(b []byte) Ref {
	off := uint32(len(l.raw))
	l.raw = append(l.raw, b...)
	return Ref{Offset: off, Length: uint32(len(b))}
}

// Truncate drops bytes back to the given length, discarding any Refs
// that pointed past it, in amortised O(1). AdaptiveSet does not call
// it: it rejects duplicates before writing them.
func (l *RawList) Truncate(length uint32) {
	l.raw = l.raw[:length]
}

// RefRaw returns the byte slice described by ref. Undefined if ref
// falls outside the buffer's current bounds.
func (l *RawList) RefRaw(ref Ref) []byte {
	return l.raw[ref.Offset : ref.Offset+ref.Length]
}

// Merge appends other's raw bytes to self and empties other.
func (l *RawList) Merge(other *RawList) {
	l.raw = append(l.raw, other.raw...)
	other.raw = nil
}

// Bytes exposes the full backing buffer, e.g. for save_raw.
func (l *RawList) Bytes() []byte { return l.raw }

// Reset empties the buffer, retaining its backing array.
func (l *RawList) Reset() { l.raw = l.raw[:0] }

// LoadBytes replaces the buffer's contents with a copy of b, used by
// load_raw to restore a slot from a wire-format payload.
func (l *RawList) LoadBytes(b []byte) {
	l.raw = append(l.raw[:0], b...)
}

// IntoValues decodes every scalar encoding from offset 0 to Len(),
// in insertion order. It is the "lazy finite sequence" of spec.md
// §4.1; here it is realized eagerly since callers always drain it
// in full (take_values, final_merge).
//
// The buffer carries no separate element count (spec.md §9): each
// scalar's own tag-plus-payload encoding is self-delimiting, so
// decoding in a loop until off reaches len(l.raw) recovers exactly
// the original element count without one. AccSet relies on the same
// property when replaying load_raw through AppendItem.
func (l *RawList) IntoValues(kind ion.Kind, nullable bool) ([]ion.Scalar, error) {
	var out []ion.Scalar
	off := 0
	for off < len(l.raw) {
		v, n, err := ion.ReadScalar(l.raw[off:], kind, nullable)
		if err != nil {
			return nil, &DecodeError{Op: "into_values", Err: err}
		}
		out = append(out, v)
		off += n
	}
	return out, nil
}
