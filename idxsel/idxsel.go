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

// Package idxsel implements the opaque index-selection type that the
// accumulator column and aggregator interfaces iterate over: either the
// dense identity range 0..n or an explicit (possibly non-contiguous, possibly
// repeating) list of row ordinals.
package idxsel

import "fmt"

// Selection yields a sequence of row ordinals. The zero value is the
// empty selection.
type Selection struct {
	explicit []int
	ln       int
}

// Range returns the identity selection 0, 1, ..., n-1.
func Range(n int) Selection {
	return Selection{ln: n}
}

// Of returns a selection over the given explicit ordinals, in order.
// idx is retained, not copied.
func Of(idx []int) Selection {
	return Selection{explicit: idx, ln: len(idx)}
}

// Len reports the number of ordinals in the selection.
func (s Selection) Len() int { return s.ln }

// At returns the i'th ordinal, 0 <= i < s.Len().
func (s Selection) At(i int) int {
	if s.explicit != nil {
		return s.explicit[i]
	}
	return i
}

// Slice materializes the selection as a plain []int.
func (s Selection) Slice() []int {
	if s.explicit != nil {
		return s.explicit
	}
	out := make([]int, s.ln)
	for i := range out {
		out[i] = i
	}
	return out
}

// MustZip validates that two selections meant to be iterated pairwise
// (e.g. an accumulator-index selection and an argument-index selection
// in Aggregator.PartialUpdate) have equal length, and panics otherwise.
// spec.md calls an unequal-length zip "undefined behavior"; this module
// treats it as an Internal, programming-bug-class error rather than a
// recoverable one.
func MustZip(a, b Selection) {
	if a.Len() != b.Len() {
		panic(fmt.Sprintf("idxsel: zipped selections have unequal length %d != %d", a.Len(), b.Len()))
	}
}
