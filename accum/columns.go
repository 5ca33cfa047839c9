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

// AccSetColumn is the accumulator column backing collect_set.
type AccSetColumn = AccumulatorColumn[AccSet, *AccSet]

// AccListColumn is the accumulator column backing collect_list.
type AccListColumn = AccumulatorColumn[AccList, *AccList]

// NewAccSetColumn creates an n-slot collect_set accumulator column
// over elements of the given scalar kind.
func NewAccSetColumn(n int, kind ion.Kind) *AccSetColumn {
	return NewAccumulatorColumn[AccSet, *AccSet](n, kind)
}

// NewAccListColumn creates an n-slot collect_list accumulator column
// over elements of the given scalar kind.
func NewAccListColumn(n int, kind ion.Kind) *AccListColumn {
	return NewAccumulatorColumn[AccList, *AccList](n, kind)
}
