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

import "github.com/sneller-oss/qops/physexpr"

// Side names which input is streamed through the join as the probe
// (spec.md §4.5's probe_side).
type Side int

const (
	Left Side = iota
	Right
)

func (s Side) String() string {
	if s == Left {
		return "left"
	}
	return "right"
}

// Mode names the semi-join variant (spec.md §4.5's mode).
type Mode int

const (
	Semi Mode = iota
	Anti
	Existence
)

func (m Mode) String() string {
	switch m {
	case Semi:
		return "semi"
	case Anti:
		return "anti"
	case Existence:
		return "existence"
	default:
		return "unknown"
	}
}

// Params is the (probe_side, probe_is_join_side, mode) triple that
// selects one of the ten probe-engine variants (spec.md §4.5). Rather
// than ten monomorphized types, this module dispatches on Params at
// runtime (spec.md §9's option (b)); see SPEC_FULL.md §N and
// DESIGN.md for why.
type Params struct {
	ProbeSide       Side
	ProbeIsJoinSide bool
	Mode            Mode
}

func (p Params) validate() error {
	if p.Mode == Existence && !p.ProbeIsJoinSide {
		return &SchemaError{Msg: "existence mode requires probe_is_join_side=true"}
	}
	return nil
}

// The ten named constructors below are thin wrappers over New,
// provided so call sites read the same way the original's ten
// exported monomorphized types did (SPEC_FULL.md §N item 4).

func NewLeftProbedLeftSemi(m BuildMap, keyExprs []physexpr.PhysicalExpr, projectCols []string, sender OutputSender) (*Joiner, error) {
	return New(Params{ProbeSide: Left, ProbeIsJoinSide: true, Mode: Semi}, m, keyExprs, projectCols, sender)
}

func NewLeftProbedLeftAnti(m BuildMap, keyExprs []physexpr.PhysicalExpr, projectCols []string, sender OutputSender) (*Joiner, error) {
	return New(Params{ProbeSide: Left, ProbeIsJoinSide: true, Mode: Anti}, m, keyExprs, projectCols, sender)
}

func NewLeftProbedExistence(m BuildMap, keyExprs []physexpr.PhysicalExpr, projectCols []string, sender OutputSender) (*Joiner, error) {
	return New(Params{ProbeSide: Left, ProbeIsJoinSide: true, Mode: Existence}, m, keyExprs, projectCols, sender)
}

func NewLeftProbedRightSemi(m BuildMap, keyExprs []physexpr.PhysicalExpr, projectCols []string, sender OutputSender) (*Joiner, error) {
	return New(Params{ProbeSide: Left, ProbeIsJoinSide: false, Mode: Semi}, m, keyExprs, projectCols, sender)
}

func NewLeftProbedRightAnti(m BuildMap, keyExprs []physexpr.PhysicalExpr, projectCols []string, sender OutputSender) (*Joiner, error) {
	return New(Params{ProbeSide: Left, ProbeIsJoinSide: false, Mode: Anti}, m, keyExprs, projectCols, sender)
}

func NewRightProbedRightSemi(m BuildMap, keyExprs []physexpr.PhysicalExpr, projectCols []string, sender OutputSender) (*Joiner, error) {
	return New(Params{ProbeSide: Right, ProbeIsJoinSide: true, Mode: Semi}, m, keyExprs, projectCols, sender)
}

func NewRightProbedRightAnti(m BuildMap, keyExprs []physexpr.PhysicalExpr, projectCols []string, sender OutputSender) (*Joiner, error) {
	return New(Params{ProbeSide: Right, ProbeIsJoinSide: true, Mode: Anti}, m, keyExprs, projectCols, sender)
}

func NewRightProbedExistence(m BuildMap, keyExprs []physexpr.PhysicalExpr, projectCols []string, sender OutputSender) (*Joiner, error) {
	return New(Params{ProbeSide: Right, ProbeIsJoinSide: true, Mode: Existence}, m, keyExprs, projectCols, sender)
}

func NewRightProbedLeftSemi(m BuildMap, keyExprs []physexpr.PhysicalExpr, projectCols []string, sender OutputSender) (*Joiner, error) {
	return New(Params{ProbeSide: Right, ProbeIsJoinSide: false, Mode: Semi}, m, keyExprs, projectCols, sender)
}

func NewRightProbedLeftAnti(m BuildMap, keyExprs []physexpr.PhysicalExpr, projectCols []string, sender OutputSender) (*Joiner, error) {
	return New(Params{ProbeSide: Right, ProbeIsJoinSide: false, Mode: Anti}, m, keyExprs, projectCols, sender)
}
