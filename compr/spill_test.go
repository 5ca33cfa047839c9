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

package compr

import (
	"bytes"
	"io"
	"testing"
)

func TestSpillRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewSpillWriter(&buf, "zstd", 64)
	if err != nil {
		t.Fatal(err)
	}
	var want []byte
	for i := 0; i < 1000; i++ {
		chunk := bytes.Repeat([]byte{byte(i)}, 37)
		want = append(want, chunk...)
		if _, err := w.Write(chunk); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}

	r, err := NewSpillReader(&buf, "zstd")
	if err != nil {
		t.Fatal(err)
	}
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("round trip mismatch: got %d bytes, want %d", len(got), len(want))
	}
}

func TestSpillWriterUnknownCodec(t *testing.T) {
	if _, err := NewSpillWriter(&bytes.Buffer{}, "bogus", 0); err == nil {
		t.Fatal("expected error for unknown codec")
	}
}
