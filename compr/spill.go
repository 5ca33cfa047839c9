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
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/sneller-oss/qops/ion"
)

// DefaultSpillBlockSize is the amount of uncompressed data
// accumulated by a SpillWriter before a block is flushed.
const DefaultSpillBlockSize = 1 << 20

// SpillWriter is the compressed_writer collaborator that
// AccumulatorColumn.spill appends raw bytes to. It batches writes
// into blocks and compresses each block independently so that a
// SpillReader can be read back incrementally without having to
// hold the entire spilled stream in memory at once.
type SpillWriter struct {
	w         io.Writer
	c         Compressor
	blockSize int
	staged    []byte
}

// NewSpillWriter wraps w with the named compression codec.
// blockSize <= 0 selects DefaultSpillBlockSize.
func NewSpillWriter(w io.Writer, codec string, blockSize int) (*SpillWriter, error) {
	c := Compression(codec)
	if c == nil {
		return nil, fmt.Errorf("compr: unknown spill codec %q", codec)
	}
	if blockSize <= 0 {
		blockSize = DefaultSpillBlockSize
	}
	return &SpillWriter{w: w, c: c, blockSize: blockSize}, nil
}

// Write implements io.Writer; it never blocks on a flush until a
// full block has been staged.
func (s *SpillWriter) Write(p []byte) (int, error) {
	s.staged = append(s.staged, p...)
	for len(s.staged) >= s.blockSize {
		if err := s.flushBlock(s.staged[:s.blockSize]); err != nil {
			return 0, err
		}
		s.staged = s.staged[s.blockSize:]
	}
	return len(p), nil
}

// Flush writes out any staged bytes as a final (possibly short) block.
// It must be called exactly once after the last Write.
func (s *SpillWriter) Flush() error {
	if len(s.staged) == 0 {
		return nil
	}
	err := s.flushBlock(s.staged)
	s.staged = nil
	return err
}

func (s *SpillWriter) flushBlock(block []byte) error {
	compressed := s.c.Compress(block, nil)
	hdr := ion.AppendUVarint(nil, uint64(len(block)))
	hdr = ion.AppendUVarint(hdr, uint64(len(compressed)))
	if _, err := s.w.Write(hdr); err != nil {
		return fmt.Errorf("compr: writing spill block header: %w", err)
	}
	if _, err := s.w.Write(compressed); err != nil {
		return fmt.Errorf("compr: writing spill block: %w", err)
	}
	return nil
}

// SpillReader is the compressed_reader collaborator that
// AccumulatorColumn.unspill reads raw bytes from.
type SpillReader struct {
	r   *bufio.Reader
	d   Decompressor
	cur []byte
	pos int
}

// NewSpillReader wraps r, decoding blocks written by a SpillWriter
// using the same named codec.
func NewSpillReader(r io.Reader, codec string) (*SpillReader, error) {
	if codec == "zstd-better" {
		// same zstd stream format, only a different encoder level
		codec = "zstd"
	}
	d := Decompression(codec)
	if d == nil {
		return nil, fmt.Errorf("compr: unknown spill codec %q", codec)
	}
	return &SpillReader{r: bufio.NewReader(r), d: d}, nil
}

// Read implements io.Reader, transparently pulling and
// decompressing blocks as needed.
func (s *SpillReader) Read(p []byte) (int, error) {
	if s.pos >= len(s.cur) {
		if err := s.nextBlock(); err != nil {
			return 0, err
		}
	}
	n := copy(p, s.cur[s.pos:])
	s.pos += n
	return n, nil
}

// ReadByte implements io.ByteReader, reading one decompressed byte
// and pulling the next block when the current one is exhausted.
func (s *SpillReader) ReadByte() (byte, error) {
	if s.pos >= len(s.cur) {
		if err := s.nextBlock(); err != nil {
			return 0, err
		}
	}
	b := s.cur[s.pos]
	s.pos++
	return b, nil
}

func (s *SpillReader) nextBlock() error {
	rawLen, err := ion.ReadUVarintFrom(s.r)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return io.EOF
		}
		return fmt.Errorf("compr: reading spill block header: %w", err)
	}
	compLen, err := ion.ReadUVarintFrom(s.r)
	if err != nil {
		return fmt.Errorf("compr: reading spill block header: %w", err)
	}
	compressed := make([]byte, compLen)
	if _, err := io.ReadFull(s.r, compressed); err != nil {
		return fmt.Errorf("compr: reading spill block: %w", err)
	}
	raw := make([]byte, rawLen)
	if err := s.d.Decompress(compressed, raw); err != nil {
		return fmt.Errorf("compr: decompressing spill block: %w", err)
	}
	s.cur = raw
	s.pos = 0
	return nil
}
