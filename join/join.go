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

// Package join implements the broadcast semi/anti/existence probe
// engine (C5): one state machine shared across ten (probe_side,
// probe_is_join_side, mode) variants.
package join

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/sneller-oss/qops/physexpr"
	"github.com/sneller-oss/qops/rowbatch"
)

type state int

const (
	probing state = iota
	finished
)

// Joiner runs one of the ten semi-join probe-engine variants named by
// its Params against a shared, immutable build-side BuildMap (spec.md
// §4.5). A Joiner instance is owned by a single task; its mutable
// state (map_joined, hash_skippable, probing/finished) is never
// shared across tasks (spec.md §5).
type Joiner struct {
	ID uuid.UUID

	params      Params
	m           BuildMap
	probeKeys   []physexpr.PhysicalExpr
	projectCols []string
	sender      OutputSender

	mapJoined      *Bitmap          // only used when !ProbeIsJoinSide
	hashSkippable  map[uint64]bool  // only used when !ProbeIsJoinSide
	st             state

	outputRows     int64 // atomic
	sendOutputNS   int64 // atomic
}

// New constructs a Joiner for the given params over build map m.
// probeKeys evaluates the probe side's join key columns against each
// probe batch; projectCols names the columns to project into the
// output (from the probe batch when ProbeIsJoinSide, or from
// m.DataBatch() otherwise).
func New(params Params, m BuildMap, probeKeys []physexpr.PhysicalExpr, projectCols []string, sender OutputSender) (*Joiner, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	j := &Joiner{
		ID:          uuid.New(),
		params:      params,
		m:           m,
		probeKeys:   probeKeys,
		projectCols: projectCols,
		sender:      sender,
	}
	if !params.ProbeIsJoinSide {
		j.mapJoined = NewBitmap(m.DataBatch().NumRows())
		j.hashSkippable = make(map[uint64]bool)
	}
	return j, nil
}

// Join advances the probe loop over one probe batch (spec.md §4.5's
// join(probe_batch)); it may emit zero or one output batch.
func (j *Joiner) Join(ctx context.Context, probeBatch rowbatch.Batch) error {
	if j.st != probing {
		return &SchemaError{Msg: "Join called after Finish"}
	}

	keyCols := make([]rowbatch.Array, len(j.probeKeys))
	for i, expr := range j.probeKeys {
		col, err := expr.Eval(probeBatch)
		if err != nil {
			return &physexpr.EvalError{Expr: expr.String(), Err: err}
		}
		keyCols[i] = col
	}

	n := probeBatch.NumRows()
	probedJoined := NewBitmap(n)

	for i := 0; i < n; i++ {
		h, valid := RowHash(keyCols, i)
		if !valid {
			continue
		}
		if !j.params.ProbeIsJoinSide && j.hashSkippable[h] {
			continue
		}
		entries, found := j.m.EntryIndices(h)
		maybeJoined := false
		if found {
			for _, buildRow := range entries {
				if !j.params.ProbeIsJoinSide && j.mapJoined.Get(buildRow) {
					continue
				}
				if rowsEqual(keyCols, i, j.m.KeyColumns(), buildRow) {
					if j.params.ProbeIsJoinSide {
						probedJoined.Set(i)
					} else {
						j.mapJoined.Set(buildRow)
					}
				}
				maybeJoined = true
			}
		}
		if !j.params.ProbeIsJoinSide && !maybeJoined {
			j.hashSkippable[h] = true
		}
	}

	if !j.params.ProbeIsJoinSide {
		return nil
	}
	return j.emitProbeSide(ctx, probeBatch, probedJoined)
}

// rowsEqual compares the N key-column pairs at (probeRow, buildRow);
// true only if every pair is equal and non-null (spec.md §4.5 step 4).
func rowsEqual(probeCols []rowbatch.Array, probeRow int, buildCols []rowbatch.Array, buildRow int) bool {
	if len(probeCols) != len(buildCols) {
		return false
	}
	for k := range probeCols {
		if probeCols[k].IsNull(probeRow) || buildCols[k].IsNull(buildRow) {
			return false
		}
		if !probeCols[k].At(probeRow).Equal(buildCols[k].At(buildRow)) {
			return false
		}
	}
	return true
}

func (j *Joiner) emitProbeSide(ctx context.Context, probeBatch rowbatch.Batch, probedJoined *Bitmap) error {
	projected, err := probeBatch.SelectColumns(j.projectCols)
	if err != nil {
		return &SchemaError{Msg: "projecting probe side", Err: err}
	}

	var out rowbatch.Batch
	switch j.params.Mode {
	case Semi:
		out = projected.Take(probedJoined.Indices(true))
	case Anti:
		out = projected.Take(probedJoined.Indices(false))
	case Existence:
		exists := make([]bool, probedJoined.Len())
		for i := range exists {
			exists[i] = probedJoined.Get(i)
		}
		out = projected.WithColumn("exists", rowbatch.BoolArray(exists))
	default:
		return &SchemaError{Msg: fmt.Sprintf("unknown mode %v", j.params.Mode)}
	}
	return j.send(ctx, out)
}

func (j *Joiner) send(ctx context.Context, batch rowbatch.Batch) error {
	start := time.Now()
	err := j.sender.Send(ctx, batch)
	atomic.AddInt64(&j.sendOutputNS, int64(time.Since(start)))
	if err != nil {
		logf("join %s: send failed: %v", j.ID, err)
		return err
	}
	atomic.AddInt64(&j.outputRows, int64(batch.NumRows()))
	return nil
}

// Finish transitions the joiner from probing to finished, emitting
// the build-side output batch for the !ProbeIsJoinSide variants
// (spec.md §4.5's finish()). Further calls to Join or Finish are
// invalid.
func (j *Joiner) Finish(ctx context.Context) error {
	if j.st != probing {
		return &SchemaError{Msg: "Finish called more than once"}
	}
	j.st = finished

	if j.params.ProbeIsJoinSide {
		return nil
	}

	projected, err := j.m.DataBatch().SelectColumns(j.projectCols)
	if err != nil {
		return &SchemaError{Msg: "projecting build side", Err: err}
	}

	var rows []int
	switch j.params.Mode {
	case Semi:
		rows = j.mapJoined.Indices(true)
	case Anti:
		rows = j.mapJoined.Indices(false)
	default:
		return &SchemaError{Msg: fmt.Sprintf("mode %v invalid when probe is not the join side", j.params.Mode)}
	}
	return j.send(ctx, projected.Take(rows))
}

// CanEarlyStop reports whether every build row has been matched, so
// the driver may stop feeding probe batches (spec.md §4.5). Pure; it
// is false whenever ProbeIsJoinSide is true (the variant has no
// map_joined bitmap to saturate).
func (j *Joiner) CanEarlyStop() bool {
	if j.params.ProbeIsJoinSide {
		return false
	}
	return j.mapJoined.AllSet()
}

// NumOutputRows reports the total rows emitted so far.
func (j *Joiner) NumOutputRows() int64 { return atomic.LoadInt64(&j.outputRows) }

// TotalSendOutputTime reports cumulative time spent in Send, in
// nanoseconds.
func (j *Joiner) TotalSendOutputTime() int64 { return atomic.LoadInt64(&j.sendOutputNS) }
