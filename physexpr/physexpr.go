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

// Package physexpr is the minimal stand-in for a physical expression
// evaluator: the thing that turns an aggregate's argument expressions
// or a join's key expressions into rowbatch.Array columns. Real
// expression compilation (arithmetic, functions, the SQL grammar) is
// out of scope; this package provides only what is needed to drive
// the accum/aggregate/join packages and their tests.
package physexpr

import (
	"fmt"

	"github.com/sneller-oss/qops/ion"
	"github.com/sneller-oss/qops/rowbatch"
)

// PhysicalExpr evaluates against a batch, producing one output column.
type PhysicalExpr interface {
	Eval(b rowbatch.Batch) (rowbatch.Array, error)
	// String names the expression for error context and the %s verb.
	String() string
}

// EvalError wraps a PhysicalExpr evaluation failure with the
// expression's textual form, per spec.md §7's EvalError taxonomy entry.
type EvalError struct {
	Expr string
	Err  error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("physexpr: evaluating %q: %v", e.Expr, e.Err)
}

func (e *EvalError) Unwrap() error { return e.Err }

// Column evaluates to the named column of the input batch.
type Column struct {
	Name string
}

func (c Column) Eval(b rowbatch.Batch) (rowbatch.Array, error) {
	col, ok := b.Column(c.Name)
	if !ok {
		return rowbatch.Array{}, &EvalError{Expr: c.String(), Err: fmt.Errorf("no column %q in batch", c.Name)}
	}
	return col, nil
}

func (c Column) String() string { return c.Name }

// Literal evaluates to the same scalar value broadcast over every row.
type Literal struct {
	Value ion.Scalar
}

func (l Literal) Eval(b rowbatch.Batch) (rowbatch.Array, error) {
	n := b.NumRows()
	vals := make([]ion.Scalar, n)
	for i := range vals {
		vals[i] = l.Value
	}
	return rowbatch.Array{Kind: l.Value.Kind, Values: vals}, nil
}

func (l Literal) String() string { return fmt.Sprintf("%v", l.Value) }
