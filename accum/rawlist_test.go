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
	"testing"

	"github.com/sneller-oss/qops/ion"
)

func TestRawListAppendAndIntoValues(t *testing.T) {
	var l RawList
	l.Append(ion.Int(1), false)
	l.Append(ion.Int(2), false)
	l.Append(ion.Int(3), false)

	vals, err := l.IntoValues(ion.KindInt, false)
	if err != nil {
		t.Fatalf("IntoValues: %v", err)
	}
	want := []int64{1, 2, 3}
	if len(vals) != len(want) {
		t.Fatalf("got %d values, want %d", len(vals), len(want))
	}
	for i, w := range want {
		if vals[i].I != w {
			t.Fatalf("vals[%d] = %d, want %d", i, vals[i].I, w)
		}
	}
}

func TestRawListTruncateRejectsDuplicate(t *testing.T) {
	var l RawList
	ref := l.AppendBytes([]byte("hello"))
	lenBefore := l.Len()
	_ = ref
	l.Truncate(uint32(lenBefore) - uint32(len("hello")))
	if l.Len() != lenBefore-len("hello") {
		t.Fatalf("truncate did not roll back append")
	}
}

func TestRawListMerge(t *testing.T) {
	var a, b RawList
	a.Append(ion.Int(1), false)
	b.Append(ion.Int(2), false)
	a.Merge(&b)

	vals, err := a.IntoValues(ion.KindInt, false)
	if err != nil {
		t.Fatalf("IntoValues: %v", err)
	}
	if len(vals) != 2 || vals[0].I != 1 || vals[1].I != 2 {
		t.Fatalf("unexpected merged values %+v", vals)
	}
	if b.Len() != 0 {
		t.Fatalf("expected other to be emptied, got len %d", b.Len())
	}
}
