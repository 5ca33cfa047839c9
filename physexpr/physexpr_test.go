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

package physexpr

import (
	"errors"
	"testing"

	"github.com/sneller-oss/qops/ion"
	"github.com/sneller-oss/qops/rowbatch"
)

func mkBatch(t *testing.T) rowbatch.Batch {
	t.Helper()
	ids := rowbatch.NewArray(ion.KindInt, []ion.Scalar{ion.Int(10), ion.Int(20)})
	b, err := rowbatch.New([]string{"id"}, []rowbatch.Array{ids})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return b
}

func TestColumnEval(t *testing.T) {
	b := mkBatch(t)
	col, err := Column{Name: "id"}.Eval(b)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if col.At(1).I != 20 {
		t.Fatalf("unexpected value %v", col.At(1))
	}
}

func TestColumnEvalMissing(t *testing.T) {
	b := mkBatch(t)
	_, err := Column{Name: "bogus"}.Eval(b)
	if err == nil {
		t.Fatal("expected error for missing column")
	}
	var evalErr *EvalError
	if !errors.As(err, &evalErr) {
		t.Fatalf("expected *EvalError, got %T", err)
	}
}

func TestLiteralEval(t *testing.T) {
	b := mkBatch(t)
	col, err := Literal{Value: ion.Int(7)}.Eval(b)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if col.Len() != 2 || col.At(0).I != 7 || col.At(1).I != 7 {
		t.Fatalf("unexpected literal broadcast %+v", col)
	}
}
