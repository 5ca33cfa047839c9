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

import "testing"

func TestBitmapSetGet(t *testing.T) {
	b := NewBitmap(70)
	b.Set(0)
	b.Set(63)
	b.Set(64)
	b.Set(69)
	for _, i := range []int{0, 63, 64, 69} {
		if !b.Get(i) {
			t.Fatalf("expected bit %d set", i)
		}
	}
	if b.Get(1) || b.Get(68) {
		t.Fatal("unexpected bit set")
	}
	if b.AllSet() {
		t.Fatal("expected AllSet() false")
	}
}

func TestBitmapAllSet(t *testing.T) {
	b := NewBitmap(5)
	for i := 0; i < 5; i++ {
		b.Set(i)
	}
	if !b.AllSet() {
		t.Fatal("expected AllSet() true")
	}
}

func TestBitmapIndices(t *testing.T) {
	b := NewBitmap(8)
	b.Set(1)
	b.Set(4)
	b.Set(7)
	got := b.Indices(true)
	want := []int{1, 4, 7}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i, w := range want {
		if got[i] != w {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	unset := b.Indices(false)
	if len(unset) != 5 {
		t.Fatalf("got %d unset, want 5", len(unset))
	}
}
