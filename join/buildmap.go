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
	"fmt"

	"github.com/dchest/siphash"

	"github.com/sneller-oss/qops/accum"
	"github.com/sneller-oss/qops/ion"
	"github.com/sneller-oss/qops/rowbatch"
)

// RowHash computes the per-row hash over a set of key columns using
// the same fixed-seed hash accum uses for AdaptiveSet, so that a
// build map and a probing Joiner always agree (spec.md §4.5 step 2).
// It reports ok=false for a row with any null key column, per the
// union null mask of spec.md §4.5 step 3.
func RowHash(cols []rowbatch.Array, row int) (hash uint64, ok bool) {
	var buf []byte
	for _, c := range cols {
		if c.IsNull(row) {
			return 0, false
		}
		buf = ion.WriteScalar(buf, c.At(row), false)
	}
	return siphash.Hash(accum.HashSeed, 0, buf), true
}

// BuildMap is the externally owned build-side hash map: entry lookup
// by hash, plus the key columns and full data batch needed to project
// matched rows (spec.md §3).
type BuildMap interface {
	EntryIndices(hash uint64) ([]int, bool)
	KeyColumns() []rowbatch.Array
	DataBatch() rowbatch.Batch
}

// SimpleBuildMap is a reference BuildMap: a linear build from a
// rowbatch.Batch and a set of key column names, bucketed by RowHash.
// Grounded on join_create_hashes in original_source's semi_join.rs
// and the bucket-chaining shape of a classic build-side hash table.
type SimpleBuildMap struct {
	batch   rowbatch.Batch
	keyCols []rowbatch.Array
	buckets map[uint64][]int
}

// NewSimpleBuildMap builds a hash map over batch keyed by keyNames.
// Rows with any null key column are omitted, since a null key can
// never be probed to a match (spec.md §4.5).
func NewSimpleBuildMap(batch rowbatch.Batch, keyNames []string) (*SimpleBuildMap, error) {
	keyCols := make([]rowbatch.Array, len(keyNames))
	for i, name := range keyNames {
		c, ok := batch.Column(name)
		if !ok {
			return nil, &SchemaError{Msg: fmt.Sprintf("build-side key column %q not found", name)}
		}
		keyCols[i] = c
	}
	m := &SimpleBuildMap{
		batch:   batch,
		keyCols: keyCols,
		buckets: make(map[uint64][]int, batch.NumRows()),
	}
	for row := 0; row < batch.NumRows(); row++ {
		h, ok := RowHash(keyCols, row)
		if !ok {
			continue
		}
		m.buckets[h] = append(m.buckets[h], row)
	}
	return m, nil
}

func (m *SimpleBuildMap) EntryIndices(hash uint64) ([]int, bool) {
	rows, ok := m.buckets[hash]
	return rows, ok
}

func (m *SimpleBuildMap) KeyColumns() []rowbatch.Array { return m.keyCols }

func (m *SimpleBuildMap) DataBatch() rowbatch.Batch { return m.batch }
