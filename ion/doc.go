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

// Package ion provides the low-level byte-oriented primitives used
// to encode and decode scalar values on the wire: variable-length
// unsigned integers and a small self-delimiting scalar encoding.
//
// The scalar encoding here plays the role of the external
// write_scalar/read_scalar pair that the accumulator columns round-trip
// through; it is intentionally independent of any higher-level document
// model.
package ion
