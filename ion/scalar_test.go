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

package ion

import "testing"

func TestScalarRoundTrip(t *testing.T) {
	cases := []Scalar{
		Int(42),
		Int(-42),
		Float(3.5),
		Bool(true),
		Bool(false),
		Timestamp(1690000000000000000),
		String("hello world"),
		String(""),
		Binary([]byte{0xde, 0xad, 0xbe, 0xef}),
	}
	for _, c := range cases {
		buf := WriteScalar(nil, c, true)
		got, n, err := ReadScalar(buf, c.Kind, true)
		if err != nil {
			t.Fatalf("%v: %v", c, err)
		}
		if n != len(buf) {
			t.Fatalf("%v: consumed %d of %d bytes", c, n, len(buf))
		}
		if !got.Equal(c) {
			t.Fatalf("round-trip mismatch: got %+v, want %+v", got, c)
		}
	}
}

func TestScalarNullRoundTrip(t *testing.T) {
	n := Null(KindString)
	buf := WriteScalar(nil, n, true)
	got, consumed, err := ReadScalar(buf, KindString, true)
	if err != nil {
		t.Fatal(err)
	}
	if consumed != len(buf) || !got.Null {
		t.Fatalf("expected null scalar, got %+v", got)
	}
}

func TestScalarKindMismatch(t *testing.T) {
	buf := WriteScalar(nil, Int(7), true)
	_, _, err := ReadScalar(buf, KindFloat, true)
	if err == nil {
		t.Fatal("expected kind mismatch error")
	}
}

func TestScalarSequentialDecode(t *testing.T) {
	var buf []byte
	values := []Scalar{Int(1), Int(2), Int(3)}
	for _, v := range values {
		buf = WriteScalar(buf, v, false)
	}
	off := 0
	for _, want := range values {
		got, n, err := ReadScalar(buf[off:], KindInt, false)
		if err != nil {
			t.Fatal(err)
		}
		if !got.Equal(want) {
			t.Fatalf("got %+v want %+v", got, want)
		}
		off += n
	}
	if off != len(buf) {
		t.Fatalf("did not consume entire buffer: %d of %d", off, len(buf))
	}
}
