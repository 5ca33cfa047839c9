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
	"context"

	"github.com/sneller-oss/qops/rowbatch"
)

// OutputSender is the async sink a Joiner emits batches to (spec.md
// §3, §5). The sole mandatory suspension point of the join path.
type OutputSender interface {
	Send(ctx context.Context, batch rowbatch.Batch) error
}

// ChanSender is a reference OutputSender backed by a channel,
// sufficient for tests and single-process wiring. It reports
// ErrDownstreamClosed once Close has been called, and ctx.Err() if
// ctx is done before the batch is accepted.
type ChanSender struct {
	ch     chan rowbatch.Batch
	closed chan struct{}
}

// NewChanSender creates a ChanSender with the given channel capacity.
func NewChanSender(capacity int) *ChanSender {
	return &ChanSender{ch: make(chan rowbatch.Batch, capacity), closed: make(chan struct{})}
}

// Batches exposes the receive side for a downstream consumer.
func (s *ChanSender) Batches() <-chan rowbatch.Batch { return s.ch }

// Close signals that the consumer has gone away; subsequent Send
// calls return ErrDownstreamClosed.
func (s *ChanSender) Close() {
	select {
	case <-s.closed:
	default:
		close(s.closed)
	}
}

func (s *ChanSender) Send(ctx context.Context, batch rowbatch.Batch) error {
	select {
	case <-s.closed:
		return ErrDownstreamClosed
	default:
	}
	select {
	case s.ch <- batch:
		return nil
	case <-s.closed:
		return ErrDownstreamClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}
