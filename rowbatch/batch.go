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

import "fmt"

// Batch is a set of named, equal-length columns -- the RecordBatch
// of spec.md's data flow.
type Batch struct {
	Names   []string
	Columns []Array
}

// New builds a Batch, checking that every column has the same length
// (a returned error if not, since this can arise from caller-supplied
// mismatched columns rather than only an internal bug).
func New(names []string, cols []Array) (Batch, error) {
	if len(names) != len(cols) {
		return Batch{}, fmt.Errorf("rowbatch: %d names for %d columns", len(names), len(cols))
	}
	if len(cols) > 0 {
		n := cols[0].Len()
		for i, c := range cols {
			if c.Len() != n {
				return Batch{}, fmt.Errorf("rowbatch: column %q has %d rows, column %q has %d", names[i], c.Len(), names[0], n)
			}
		}
	}
	return Batch{Names: names, Columns: cols}, nil
}

// NumRows reports the batch's row count, or 0 for a columnless batch.
func (b Batch) NumRows() int {
	if len(b.Columns) == 0 {
		return 0
	}
	return b.Columns[0].Len()
}

// Column looks up a column by name.
func (b Batch) Column(name string) (Array, bool) {
	for i, n := range b.Names {
		if n == name {
			return b.Columns[i], true
		}
	}
	return Array{}, false
}

// SelectColumns projects the batch down to the named columns, in the
// given order -- this is projection.project_left/project_right from
// spec.md §4.5: choosing which columns of one side make it into the
// joined output schema.
func (b Batch) SelectColumns(names []string) (Batch, error) {
	cols := make([]Array, len(names))
	for i, name := range names {
		c, ok := b.Column(name)
		if !ok {
			return Batch{}, fmt.Errorf("rowbatch: no such column %q", name)
		}
		cols[i] = c
	}
	return Batch{Names: names, Columns: cols}, nil
}

// Take gathers rows by ordinal across every column, producing the
// row-selected output batch emitted by a semi/anti join.
func (b Batch) Take(rows []int) Batch {
	cols := make([]Array, len(b.Columns))
	for i, c := range b.Columns {
		cols[i] = c.Take(rows)
	}
	return Batch{Names: b.Names, Columns: cols}
}

// WithColumn returns a copy of b with an additional named column
// appended -- used to attach the existence-mode boolean column.
func (b Batch) WithColumn(name string, col Array) Batch {
	names := make([]string, len(b.Names)+1)
	cols := make([]Array, len(b.Columns)+1)
	copy(names, b.Names)
	copy(cols, b.Columns)
	names[len(b.Names)] = name
	cols[len(b.Columns)] = col
	return Batch{Names: names, Columns: cols}
}
