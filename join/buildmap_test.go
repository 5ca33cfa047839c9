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

package join

import (
	"testing"

	"github.com/sneller-oss/qops/rowbatch"
)

func TestSimpleBuildMapLookup(t *testing.T) {
	batch := intBatch("key", 10, 20, 20, 30)
	m, err := NewSimpleBuildMap(batch, []string{"key"})
	if err != nil {
		t.Fatalf("NewSimpleBuildMap: %v", err)
	}
	h, ok := RowHash(m.KeyColumns(), 1)
	if !ok {
		t.Fatal("expected row 1 to hash")
	}
	rows, found := m.EntryIndices(h)
	if !found {
		t.Fatal("expected entries for key 20")
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows for key 20, want 2", len(rows))
	}
}

func TestSimpleBuildMapMissingKeyColumn(t *testing.T) {
	batch := intBatch("key", 1)
	if _, err := NewSimpleBuildMap(batch, []string{"bogus"}); err == nil {
		t.Fatal("expected error for missing key column")
	}
}

func TestRowHashNullKey(t *testing.T) {
	batch := intBatchNullable("key", []interface{}{nil})
	col, _ := batch.Column("key")
	if _, ok := RowHash([]rowbatch.Array{col}, 0); ok {
		t.Fatal("expected RowHash to report ok=false for a null key")
	}
}
