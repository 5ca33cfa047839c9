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
	"errors"
	"fmt"
)

// SchemaError reports a projection or output schema mismatch while
// constructing an emitted batch (spec.md §7).
type SchemaError struct {
	Msg string
	Err error
}

func (e *SchemaError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("join: schema error: %s: %v", e.Msg, e.Err)
	}
	return fmt.Sprintf("join: schema error: %s", e.Msg)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// ErrDownstreamClosed is returned when the output sender reports the
// consumer has gone away (spec.md §7's DownstreamClosed).
var ErrDownstreamClosed = errors.New("join: downstream output consumer closed")

// Errorf is a package-level diagnostic hook, nil by default. Mirrors
// the teacher's vm.Errorf and accum.Errorf.
var Errorf func(format string, args ...any)

func logf(format string, args ...any) {
	if Errorf != nil {
		Errorf(format, args...)
	}
}
