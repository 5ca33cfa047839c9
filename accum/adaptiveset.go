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

package accum

import (
	"bytes"

	"github.com/dchest/siphash"
	"golang.org/x/exp/slices"
)

// HashSeed is the fixed, non-cryptographic 64-bit hash seed used
// throughout this package. It must never change: merged accumulators
// of the same logical group spilled by different workers must agree
// on it.
const HashSeed uint64 = 0x000000007BCB48DA

func hashBytes(b []byte) uint64 {
	return siphash.Hash(HashSeed, 0, b)
}

// smallThreshold is the Small -> Huge transition point (spec.md §9:
// "4 is the source's choice; anything 4-8 is defensible").
const smallThreshold = 4

type hugeSlot struct {
	used bool
	hash uint64
	ref  Ref
}

// AdaptiveSet is a deduplicating set of byte-slice references into an
// owning RawList (C2): an inline small vector of up to smallThreshold
// elements, an open-addressing hash table above it. The transition is
// one-way.
type AdaptiveSet struct {
	small []Ref // nil once converted to huge
	slots []hugeSlot
	count int // live entries; meaningful only once huge
}

// Len reports the number of distinct members.
func (s *AdaptiveSet) Len() int {
	if s.slots == nil {
		return len(s.small)
	}
	return s.count
}

// isHuge reports whether the set has converted.
func (s *AdaptiveSet) isHuge() bool { return s.slots != nil }

// Insert looks b up in the set first and appends it to list only if
// it is not already a member, so a rejected duplicate leaves list
// unchanged. It reports the Ref of the (possibly pre-existing)
// member and whether it was newly added.
func (s *AdaptiveSet) Insert(list *RawList, b []byte) (Ref, bool) {
	if !s.isHuge() {
		for _, r := range s.small {
			if bytes.Equal(list.RefRaw(r), b) {
				return r, false
			}
		}
		ref := list.AppendBytes(b)
		if len(s.small) == cap(s.small) {
			s.small = slices.Grow(s.small, 1)
		}
		s.small = append(s.small, ref)
		if len(s.small) > smallThreshold {
			s.convertToHuge(list)
		}
		return ref, true
	}
	return s.insertHuge(list, b, hashBytes(b))
}

// convertToHuge rehashes every Small-variant member into a freshly
// allocated open-addressing table (O(threshold)).
func (s *AdaptiveSet) convertToHuge(list *RawList) {
	old := s.small
	s.small = nil
	s.slots = make([]hugeSlot, nextTableSize(len(old)))
	s.count = 0
	for _, ref := range old {
		h := hashBytes(list.RefRaw(ref))
		s.placeNoGrow(h, ref)
	}
}

func nextTableSize(n int) int {
	sz := 8
	for sz < n*2 {
		sz *= 2
	}
	return sz
}

func (s *AdaptiveSet) insertHuge(list *RawList, b []byte, h uint64) (Ref, bool) {
	if (s.count+1)*4 >= len(s.slots)*3 { // load factor 0.75
		s.grow(list)
	}
	mask := uint64(len(s.slots) - 1)
	i := h & mask
	for {
		slot := &s.slots[i]
		if !slot.used {
			ref := list.AppendBytes(b)
			*slot = hugeSlot{used: true, hash: h, ref: ref}
			s.count++
			return ref, true
		}
		if slot.hash == h && int(slot.ref.Length) == len(b) && bytes.Equal(list.RefRaw(slot.ref), b) {
			return slot.ref, false
		}
		i = (i + 1) & mask
	}
}

// placeNoGrow inserts a Ref already present in list into the table
// without re-checking for duplicates (used only during rehash, where
// membership has already been established).
func (s *AdaptiveSet) placeNoGrow(h uint64, ref Ref) {
	mask := uint64(len(s.slots) - 1)
	i := h & mask
	for s.slots[i].used {
		i = (i + 1) & mask
	}
	s.slots[i] = hugeSlot{used: true, hash: h, ref: ref}
	s.count++
}

func (s *AdaptiveSet) grow(list *RawList) {
	old := s.slots
	s.slots = make([]hugeSlot, len(old)*2)
	s.count = 0
	for _, slot := range old {
		if slot.used {
			s.placeNoGrow(slot.hash, slot.ref)
		}
	}
}

// Refs returns every member's Ref. Order is insertion order while
// Small, unspecified while Huge (spec.md §3).
func (s *AdaptiveSet) Refs() []Ref {
	if !s.isHuge() {
		return s.small
	}
	out := make([]Ref, 0, s.count)
	for _, slot := range s.slots {
		if slot.used {
			out = append(out, slot.ref)
		}
	}
	return out
}

// Reset empties the set, discarding its backing storage.
func (s *AdaptiveSet) Reset() {
	s.small = nil
	s.slots = nil
	s.count = 0
}

// MemSize estimates the set's own overhead (excluding the RawList it
// indexes, which the owning AccSet accounts for separately): roughly
// 8 bytes per live member, per spec.md §3.
func (s *AdaptiveSet) MemSize() int {
	return s.Len() * 8
}
