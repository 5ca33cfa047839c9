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
	"bufio"
	"fmt"
	"io"
	"unsafe"

	"golang.org/x/exp/slices"

	"github.com/sneller-oss/qops/compr"
	"github.com/sneller-oss/qops/idxsel"
	"github.com/sneller-oss/qops/ion"
)

// AccumulatorColumn is a vector of per-group accumulator slots
// indexed by group ordinal, plus an O(1)-readable running mem_used
// counter (C3). It is generic over the slot kind: instantiate with
// (AccSet, *AccSet) for collect_set, (AccList, *AccList) for
// collect_list.
//
// The PT constraint is Go's usual pointer-receiver-implements-interface
// pattern: T is the plain struct stored in the slice (so Resize can
// grow it without per-slot heap allocation), PT is *T, which is what
// actually satisfies Slot.
type AccumulatorColumn[T any, PT interface {
	*T
	Slot
}] struct {
	kind    ion.Kind
	slots   []T
	sumMem  int // Σ slot[i].MemSize(), maintained incrementally
}

// NewAccumulatorColumn creates a column of n empty slots. kind is the
// scalar type the column's elements decode as: AccSet uses it to
// rebuild on load_raw, and TakeValues decodes both variants with it.
// TakeValues takes no kind argument of its own.
func NewAccumulatorColumn[T any, PT interface {
	*T
	Slot
}](n int, kind ion.Kind) *AccumulatorColumn[T, PT] {
	return &AccumulatorColumn[T, PT]{kind: kind, slots: make([]T, n)}
}

func (c *AccumulatorColumn[T, PT]) slot(idx int) PT { return PT(&c.slots[idx]) }

// Len reports the number of group slots.
func (c *AccumulatorColumn[T, PT]) Len() int { return len(c.slots) }

// MemUsed is Σ mem_size(slot[i]) + capacity_overhead, readable in
// O(1): the sum is tracked incrementally and cap() is itself O(1)
// (spec.md §4.3).
func (c *AccumulatorColumn[T, PT]) MemUsed() int {
	return c.sumMem + c.overhead()
}

func (c *AccumulatorColumn[T, PT]) overhead() int {
	var zero T
	return cap(c.slots) * int(unsafe.Sizeof(zero))
}

// Resize truncates (evicting trailing slots, whose mem_used
// contribution is subtracted) or extends the column with empty
// slots.
func (c *AccumulatorColumn[T, PT]) Resize(n int) {
	if n < len(c.slots) {
		for i := n; i < len(c.slots); i++ {
			c.sumMem -= c.slot(i).MemSize()
			var zero T
			c.slots[i] = zero
		}
		c.slots = c.slots[:n]
		return
	}
	if n > len(c.slots) {
		if n > cap(c.slots) {
			c.slots = slices.Grow(c.slots, n-len(c.slots))
		}
		c.slots = c.slots[:n]
	}
}

// ShrinkToFit lets every slot's backing storage give memory back,
// e.g. after a large spill has drained most groups (supplemented from
// original_source, see DESIGN.md / SPEC_FULL.md §N).
func (c *AccumulatorColumn[T, PT]) ShrinkToFit() {
	for i := range c.slots {
		s := c.slot(i)
		old := s.MemSize()
		s.ShrinkToFit()
		c.sumMem += s.MemSize() - old
	}
	c.slots = slices.Clip(c.slots)
}

// AppendItem dispatches to slot[idx].AppendItem, updating mem_used by
// the exact delta.
func (c *AccumulatorColumn[T, PT]) AppendItem(idx int, v ion.Scalar) {
	s := c.slot(idx)
	old := s.MemSize()
	s.AppendItem(v)
	c.sumMem += s.MemSize() - old
}

// MergeItems merges slot[idx] with other.slot[otherIdx]; the other
// slot is drained as a side effect of the merge.
func (c *AccumulatorColumn[T, PT]) MergeItems(idx int, other *AccumulatorColumn[T, PT], otherIdx int) {
	s := c.slot(idx)
	o := other.slot(otherIdx)
	oldSelf := s.MemSize()
	oldOther := o.MemSize()
	s.MergeFrom(o)
	c.sumMem += s.MemSize() - oldSelf
	other.sumMem += o.MemSize() - oldOther
}

// TakeValues drains slot[idx] and decrements mem_used.
func (c *AccumulatorColumn[T, PT]) TakeValues(idx int) ([]ion.Scalar, error) {
	s := c.slot(idx)
	old := s.MemSize()
	vals, err := s.TakeValues(c.kind)
	if err != nil {
		return nil, err
	}
	s.Reset()
	c.sumMem += s.MemSize() - old
	return vals, nil
}

// SaveRaw writes len(raw) as a uvarint followed by the raw bytes,
// per spec.md §6's wire format.
func (c *AccumulatorColumn[T, PT]) SaveRaw(idx int, w io.Writer) error {
	raw := c.slot(idx).SaveRaw()
	hdr := ion.AppendUVarint(nil, uint64(len(raw)))
	if _, err := w.Write(hdr); err != nil {
		return fmt.Errorf("accum: save_raw: %w", err)
	}
	if len(raw) > 0 {
		if _, err := w.Write(raw); err != nil {
			return fmt.Errorf("accum: save_raw: %w", err)
		}
	}
	return nil
}

// LoadRaw clears slot[idx] and restores it from r.
func (c *AccumulatorColumn[T, PT]) LoadRaw(idx int, r *bufio.Reader) error {
	n, err := ion.ReadUVarintFrom(r)
	if err != nil {
		return &DecodeError{Op: "load_raw", Err: err}
	}
	raw := make([]byte, n)
	if _, err := io.ReadFull(r, raw); err != nil {
		return &DecodeError{Op: "load_raw", Err: err}
	}
	s := c.slot(idx)
	old := s.MemSize()
	s.Reset()
	if err := s.LoadRaw(c.kind, raw); err != nil {
		return err
	}
	c.sumMem += s.MemSize() - old
	return nil
}

// FreezeToRows serializes the selected slots to one byte vector per
// row, each framed the same way as SaveRaw.
func (c *AccumulatorColumn[T, PT]) FreezeToRows(sel idxsel.Selection) [][]byte {
	out := make([][]byte, sel.Len())
	for i := 0; i < sel.Len(); i++ {
		raw := c.slot(sel.At(i)).SaveRaw()
		buf := ion.AppendUVarint(nil, uint64(len(raw)))
		buf = append(buf, raw...)
		out[i] = buf
	}
	return out
}

// UnfreezeFromRows extends the column by len(rows) slots, decoding
// each from rows[i][offsets[i]:] and advancing offsets[i] to where
// its reader finished, per spec.md §4.3.
func (c *AccumulatorColumn[T, PT]) UnfreezeFromRows(rows [][]byte, offsets []int) error {
	if len(rows) != len(offsets) {
		panic("accum: UnfreezeFromRows: rows/offsets length mismatch")
	}
	base := len(c.slots)
	c.Resize(base + len(rows))
	for i, row := range rows {
		n, consumed, err := ion.ReadUVarint(row[offsets[i]:])
		if err != nil {
			return &DecodeError{Op: "unfreeze_from_rows", Err: err}
		}
		start := offsets[i] + consumed
		end := start + int(n)
		if end > len(row) {
			return &DecodeError{Op: "unfreeze_from_rows", Err: fmt.Errorf("truncated row payload")}
		}
		idx := base + i
		s := c.slot(idx)
		if err := s.LoadRaw(c.kind, row[start:end]); err != nil {
			return err
		}
		c.sumMem += s.MemSize()
		offsets[i] = end
	}
	return nil
}

// Spill serializes the selected slots sequentially into w.
func (c *AccumulatorColumn[T, PT]) Spill(sel idxsel.Selection, w *compr.SpillWriter) error {
	for i := 0; i < sel.Len(); i++ {
		raw := c.slot(sel.At(i)).SaveRaw()
		hdr := ion.AppendUVarint(nil, uint64(len(raw)))
		if _, err := w.Write(hdr); err != nil {
			return fmt.Errorf("accum: spill: %w", err)
		}
		if len(raw) > 0 {
			if _, err := w.Write(raw); err != nil {
				return fmt.Errorf("accum: spill: %w", err)
			}
		}
	}
	return w.Flush()
}

// Unspill extends the column by n slots, read sequentially from r.
//
// The original's unspill loop condition never advanced its cursor
// within the loop (spec.md §9's open question); this is a probable
// source bug, fixed here by reading exactly n records and advancing
// after each one.
func (c *AccumulatorColumn[T, PT]) Unspill(n int, r *compr.SpillReader) error {
	base := len(c.slots)
	c.Resize(base + n)
	br := bufio.NewReader(r)
	for i := 0; i < n; i++ {
		ln, err := ion.ReadUVarintFrom(br)
		if err != nil {
			return &DecodeError{Op: "unspill", Err: err}
		}
		raw := make([]byte, ln)
		if _, err := io.ReadFull(br, raw); err != nil {
			return &DecodeError{Op: "unspill", Err: err}
		}
		idx := base + i
		s := c.slot(idx)
		if err := s.LoadRaw(c.kind, raw); err != nil {
			return err
		}
		c.sumMem += s.MemSize()
	}
	return nil
}
