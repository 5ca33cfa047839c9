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

import "github.com/sneller-oss/qops/ion"

// Slot is one group's accumulator state: either an AccSet or an
// AccList. AccumulatorColumn is generic over it.
//
// Scalars reaching AppendItem/LoadRaw are always non-null: the
// aggregator layer drops nulls before they reach a slot (spec.md
// §4.4), so neither RawList nor the wire format ever needs to encode
// a null marker.
type Slot interface {
	AppendItem(v ion.Scalar)
	MergeFrom(other Slot)
	TakeValues(kind ion.Kind) ([]ion.Scalar, error)
	MemSize() int
	SaveRaw() []byte
	LoadRaw(kind ion.Kind, raw []byte) error
	ShrinkToFit()
	Reset()
}

// AccSet is one group's deduplicated multiset: a RawList paired with
// an AdaptiveSet indexing it (spec.md §3 "AccSet").
type AccSet struct {
	RawList
	Set AdaptiveSet
}

func (a *AccSet) AppendItem(v ion.Scalar) {
	buf := ion.WriteScalar(nil, v, false)
	a.Set.Insert(&a.RawList, buf)
}

// MergeFrom merges other into a, swapping roles first if other is the
// larger set so that the outer (probed) loop always runs over the
// smaller side -- an optimization the Rust original performs (see
// DESIGN.md), preserved here though it doesn't change the result.
func (a *AccSet) MergeFrom(other Slot) {
	o, ok := other.(*AccSet)
	if !ok {
		panic("accum: AccSet.MergeFrom: mismatched slot type")
	}
	if o.Set.Len() == 0 {
		return
	}
	if a.Set.Len() < o.Set.Len() {
		a.RawList, o.RawList = o.RawList, a.RawList
		a.Set, o.Set = o.Set, a.Set
	}
	for _, ref := range o.Set.Refs() {
		b := o.RawList.RefRaw(ref)
		a.Set.Insert(&a.RawList, b)
	}
	o.RawList.Reset()
	o.Set.Reset()
}

func (a *AccSet) TakeValues(kind ion.Kind) ([]ion.Scalar, error) {
	out := make([]ion.Scalar, 0, a.Set.Len())
	for _, ref := range a.Set.Refs() {
		v, _, err := ion.ReadScalar(a.RawList.RefRaw(ref), kind, false)
		if err != nil {
			return nil, &DecodeError{Op: "take_values", Err: err}
		}
		out = append(out, v)
	}
	return out, nil
}

// MemSize is raw.capacity + set.len*8, per spec.md §3.
func (a *AccSet) MemSize() int {
	return a.RawList.Cap() + a.Set.MemSize()
}

func (a *AccSet) SaveRaw() []byte {
	return a.RawList.Bytes()
}

// LoadRaw re-decodes scalars one at a time and replays them through
// AppendItem, re-enforcing deduplication (spec.md §4.3).
func (a *AccSet) LoadRaw(kind ion.Kind, raw []byte) error {
	off := 0
	for off < len(raw) {
		v, n, err := ion.ReadScalar(raw[off:], kind, false)
		if err != nil {
			return &DecodeError{Op: "load_raw", Err: err}
		}
		a.AppendItem(v)
		off += n
	}
	return nil
}

func (a *AccSet) ShrinkToFit() {
	if len(a.RawList.raw) < cap(a.RawList.raw) {
		shrunk := make([]byte, len(a.RawList.raw))
		copy(shrunk, a.RawList.raw)
		a.RawList.raw = shrunk
	}
}

func (a *AccSet) Reset() {
	a.RawList.Reset()
	a.Set.Reset()
}

// AccList is one group's ordered list, duplicates and insertion order
// preserved (spec.md §3 "AccList").
type AccList struct {
	RawList
}

func (l *AccList) AppendItem(v ion.Scalar) {
	l.RawList.Append(v, false)
}

// MergeFrom concatenates other's bytes onto l, preserving order
// (associative left-to-right, per spec.md §8 invariant 4).
func (l *AccList) MergeFrom(other Slot) {
	o, ok := other.(*AccList)
	if !ok {
		panic("accum: AccList.MergeFrom: mismatched slot type")
	}
	l.RawList.Merge(&o.RawList)
}

func (l *AccList) TakeValues(kind ion.Kind) ([]ion.Scalar, error) {
	return l.RawList.IntoValues(kind, false)
}

// MemSize is raw.capacity, per spec.md §3.
func (l *AccList) MemSize() int {
	return l.RawList.Cap()
}

func (l *AccList) SaveRaw() []byte {
	return l.RawList.Bytes()
}

// LoadRaw stores bytes verbatim; spec.md §4.3 stipulates AccList's
// wire form requires no replay since it carries no dedup index.
func (l *AccList) LoadRaw(_ ion.Kind, raw []byte) error {
	l.RawList.LoadBytes(raw)
	return nil
}

func (l *AccList) ShrinkToFit() {
	if len(l.RawList.raw) < cap(l.RawList.raw) {
		shrunk := make([]byte, len(l.RawList.raw))
		copy(shrunk, l.RawList.raw)
		l.RawList.raw = shrunk
	}
}

func (l *AccList) Reset() {
	l.RawList.Reset()
}
