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

// Package rowbatch is a minimal stand-in for the columnar batch library
// that spec.md treats as an external collaborator: a record batch of
// named, boxed-scalar array columns, with column projection and
// row-gather ("take") support. It is scoped to exactly what the
// aggregate and join packages need to drive and project against;
// it is not a general-purpose Arrow implementation.
package rowbatch

import "github.com/sneller-oss/qops/ion"

// Array is a column of scalars of a single ion.Kind.
type Array struct {
	Kind   ion.Kind
	Values []ion.Scalar
}

// NewArray builds an Array, asserting every value matches kind
// (Internal invariant: a mismatched kind indicates a programming bug
// in the caller, not a recoverable condition).
func NewArray(kind ion.Kind, values []ion.Scalar) Array {
	for i := range values {
		if values[i].Kind != kind && !values[i].Null {
			panic("rowbatch: array element kind mismatch")
		}
	}
	return Array{Kind: kind, Values: values}
}

// Len reports the number of rows in the array.
func (a Array) Len() int { return len(a.Values) }

// IsNull reports whether row i holds a null value.
func (a Array) IsNull(i int) bool { return a.Values[i].Null }

// At returns the scalar at row i, which may be a null Scalar.
func (a Array) At(i int) ion.Scalar { return a.Values[i] }

// Take gathers rows by ordinal into a new Array, as used to
// materialize join output.
func (a Array) Take(rows []int) Array {
	out := make([]ion.Scalar, len(rows))
	for i, r := range rows {
		out[i] = a.Values[r]
	}
	return Array{Kind: a.Kind, Values: out}
}

// BoolArray is a convenience constructor for a non-nullable boolean
// column, used for the existence-mode output column.
func BoolArray(values []bool) Array {
	out := make([]ion.Scalar, len(values))
	for i, v := range values {
		out[i] = ion.Bool(v)
	}
	return Array{Kind: ion.KindBool, Values: out}
}
