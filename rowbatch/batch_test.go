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

package rowbatch

import (
	"testing"

	"github.com/sneller-oss/qops/ion"
)

func mkBatch(t *testing.T) Batch {
	t.Helper()
	ids := NewArray(ion.KindInt, []ion.Scalar{ion.Int(1), ion.Int(2), ion.Int(3)})
	names := NewArray(ion.KindString, []ion.Scalar{ion.String("a"), ion.String("b"), ion.String("c")})
	b, err := New([]string{"id", "name"}, []Array{ids, names})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return b
}

func TestBatchNumRows(t *testing.T) {
	b := mkBatch(t)
	if b.NumRows() != 3 {
		t.Fatalf("NumRows = %d", b.NumRows())
	}
}

func TestBatchColumnLookup(t *testing.T) {
	b := mkBatch(t)
	col, ok := b.Column("name")
	if !ok {
		t.Fatal("expected column name to exist")
	}
	if col.At(1).Bytes == nil && col.At(1).Kind != ion.KindString {
		t.Fatalf("unexpected column kind %v", col.Kind)
	}
	if _, ok := b.Column("missing"); ok {
		t.Fatal("expected missing column to be absent")
	}
}

func TestBatchSelectColumns(t *testing.T) {
	b := mkBatch(t)
	proj, err := b.SelectColumns([]string{"name"})
	if err != nil {
		t.Fatalf("SelectColumns: %v", err)
	}
	if len(proj.Columns) != 1 || proj.Names[0] != "name" {
		t.Fatalf("unexpected projection %+v", proj)
	}
	if _, err := b.SelectColumns([]string{"bogus"}); err == nil {
		t.Fatal("expected error selecting missing column")
	}
}

func TestBatchTake(t *testing.T) {
	b := mkBatch(t)
	out := b.Take([]int{2, 0})
	if out.NumRows() != 2 {
		t.Fatalf("NumRows = %d", out.NumRows())
	}
	idCol, _ := out.Column("id")
	if idCol.At(0).I != 3 || idCol.At(1).I != 1 {
		t.Fatalf("unexpected take result %+v", idCol)
	}
}

func TestBatchWithColumn(t *testing.T) {
	b := mkBatch(t)
	out := b.WithColumn("matched", BoolArray([]bool{true, false, true}))
	if len(out.Columns) != 3 {
		t.Fatalf("expected 3 columns, got %d", len(out.Columns))
	}
	col, ok := out.Column("matched")
	if !ok || col.At(1).B {
		t.Fatalf("unexpected matched column %+v", col)
	}
}

func TestNewMismatchedLengths(t *testing.T) {
	a := NewArray(ion.KindInt, []ion.Scalar{ion.Int(1)})
	c := NewArray(ion.KindInt, []ion.Scalar{ion.Int(1), ion.Int(2)})
	if _, err := New([]string{"a", "c"}, []Array{a, c}); err == nil {
		t.Fatal("expected error for mismatched column lengths")
	}
}
