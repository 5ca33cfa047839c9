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

package idxsel

import "testing"

func TestRange(t *testing.T) {
	s := Range(5)
	if s.Len() != 5 {
		t.Fatalf("len = %d", s.Len())
	}
	for i := 0; i < 5; i++ {
		if s.At(i) != i {
			t.Fatalf("At(%d) = %d", i, s.At(i))
		}
	}
	if got := s.Slice(); len(got) != 5 || got[3] != 3 {
		t.Fatalf("Slice() = %v", got)
	}
}

func TestOf(t *testing.T) {
	idx := []int{4, 2, 0}
	s := Of(idx)
	if s.Len() != 3 || s.At(1) != 2 {
		t.Fatalf("unexpected selection %+v", s)
	}
}

func TestMustZipPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on unequal-length zip")
		}
	}()
	MustZip(Range(3), Range(4))
}
