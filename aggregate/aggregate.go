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

// Package aggregate wires physical-expression evaluation and scalar
// extraction to accum's accumulator columns, implementing the
// collect_set and collect_list aggregate protocol (C4).
package aggregate

import (
	"fmt"

	"github.com/sneller-oss/qops/accum"
	"github.com/sneller-oss/qops/idxsel"
	"github.com/sneller-oss/qops/ion"
	"github.com/sneller-oss/qops/physexpr"
	"github.com/sneller-oss/qops/rowbatch"
)

// Kind distinguishes the two collection aggregators: both share the
// same wiring, differing only in whether C3 dedups.
type Kind int

const (
	CollectSet Kind = iota
	CollectList
)

func (k Kind) String() string {
	if k == CollectSet {
		return "collect_set"
	}
	return "collect_list"
}

// Aggregator implements the generic aggregate protocol (spec.md §6)
// over a collect_set or collect_list accumulator column. It is
// stateless aside from its configured argument expression and scalar
// type (spec.md §4.4).
type Aggregator struct {
	kind     Kind
	arg      physexpr.PhysicalExpr
	scalar   ion.Kind
	nullable bool // argument nullability; output is always non-nullable
}

// New builds an Aggregator of the given kind over arg, whose
// evaluated column is expected to carry scalars of type scalar.
func New(kind Kind, arg physexpr.PhysicalExpr, scalar ion.Kind) *Aggregator {
	return &Aggregator{kind: kind, arg: arg, scalar: scalar}
}

// Exprs returns the aggregator's child expressions.
func (a *Aggregator) Exprs() []physexpr.PhysicalExpr { return []physexpr.PhysicalExpr{a.arg} }

// WithNewExprs returns a copy of a with its child expressions
// replaced, per the aggregator contract's with_new_exprs.
func (a *Aggregator) WithNewExprs(exprs []physexpr.PhysicalExpr) (*Aggregator, error) {
	if len(exprs) != 1 {
		return nil, fmt.Errorf("aggregate: %s takes exactly one argument expression, got %d", a.kind, len(exprs))
	}
	cp := *a
	cp.arg = exprs[0]
	return &cp, nil
}

// DataType reports the scalar kind aggregated over.
func (a *Aggregator) DataType() ion.Kind { return a.scalar }

// Nullable is always false: the output list/set array is non-nullable
// (spec.md §4.4).
func (a *Aggregator) Nullable() bool { return false }

// CreateAccColumn allocates a fresh n-slot accumulator column of the
// appropriate variant for a.kind.
func (a *Aggregator) CreateAccColumn(n int) *Column {
	if a.kind == CollectSet {
		return &Column{kind: a.kind, set: accum.NewAccSetColumn(n, a.scalar)}
	}
	return &Column{kind: a.kind, list: accum.NewAccListColumn(n, a.scalar)}
}

// Column is the AccumulatorColumn handle returned by CreateAccColumn;
// it carries exactly one of the two underlying column variants,
// matching the aggregator that produced it.
type Column struct {
	kind Kind
	set  *accum.AccSetColumn
	list *accum.AccListColumn
}

// MemUsed forwards to the underlying accumulator column.
func (c *Column) MemUsed() int {
	if c.kind == CollectSet {
		return c.set.MemUsed()
	}
	return c.list.MemUsed()
}

// PartialUpdate iterates accSel and argSel in lockstep; for each pair
// it extracts the argument scalar and, if non-null, appends it to the
// corresponding accumulator slot. Nulls are silently dropped (spec.md
// §4.4, §7).
func (a *Aggregator) PartialUpdate(accs *Column, accSel idxsel.Selection, batch rowbatch.Batch, argSel idxsel.Selection) error {
	idxsel.MustZip(accSel, argSel)
	argCol, err := a.arg.Eval(batch)
	if err != nil {
		return &physexpr.EvalError{Expr: a.arg.String(), Err: err}
	}
	for i := 0; i < accSel.Len(); i++ {
		accIdx := accSel.At(i)
		argIdx := argSel.At(i)
		if argCol.IsNull(argIdx) {
			continue
		}
		v := argCol.At(argIdx)
		if accs.kind == CollectSet {
			accs.set.AppendItem(accIdx, v)
		} else {
			accs.list.AppendItem(accIdx, v)
		}
	}
	return nil
}

// PartialMerge pairwise merges accs[accSel[i]] with other[otherSel[i]].
func (a *Aggregator) PartialMerge(accs *Column, accSel idxsel.Selection, other *Column, otherSel idxsel.Selection) error {
	idxsel.MustZip(accSel, otherSel)
	if accs.kind != other.kind {
		panic("aggregate: PartialMerge: mismatched accumulator column kinds")
	}
	for i := 0; i < accSel.Len(); i++ {
		accIdx := accSel.At(i)
		otherIdx := otherSel.At(i)
		if accs.kind == CollectSet {
			accs.set.MergeItems(accIdx, other.set, otherIdx)
		} else {
			accs.list.MergeItems(accIdx, other.list, otherIdx)
		}
	}
	return nil
}

// FinalMerge drains each selected slot into a scalar list and returns
// one drained []ion.Scalar per selected slot, in selection order. It
// does not build a List-typed rowbatch.Array; the caller (e.g. a
// batch materializer further up the stack) is responsible for shaping
// the result into whatever nested-list array representation the
// embedding engine uses.
func (a *Aggregator) FinalMerge(accs *Column, accSel idxsel.Selection) ([][]ion.Scalar, error) {
	out := make([][]ion.Scalar, accSel.Len())
	for i := 0; i < accSel.Len(); i++ {
		idx := accSel.At(i)
		var vals []ion.Scalar
		var err error
		if accs.kind == CollectSet {
			vals, err = accs.set.TakeValues(idx)
		} else {
			vals, err = accs.list.TakeValues(idx)
		}
		if err != nil {
			return nil, err
		}
		out[i] = vals
	}
	return out, nil
}
