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

package accum

import "fmt"

// DecodeError reports malformed bytes encountered during load_raw,
// unspill, or unfreeze (spec.md §7).
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("accum: decode error in %s: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Errorf is a package-level diagnostic hook, nil by default, settable
// by an embedding application. Mirrors the teacher's vm.Errorf: no
// logging framework is introduced, matching the teacher's own choice.
var Errorf func(format string, args ...any)

func logf(format string, args ...any) {
	if Errorf != nil {
		Errorf(format, args...)
	}
}
