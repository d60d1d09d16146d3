// Package dataflow implements a generic fixed-point dataflow engine for
// functions in SSA form, along with concrete intraprocedural analyses
// built on top of it (see the alias and live subpackages).
//
// An analysis supplies a lattice-valued fact type and transfer functions
// through the [Analysis] interface; [Run] iterates the transfer functions
// over the blocks of a function until the facts stabilise.
package dataflow

import (
	"fmt"
	"log"

	"golang.org/x/tools/go/ssa"
)

func init() {
	log.SetFlags(log.Ltime | log.Lshortfile)
}

// Direction determines whether information flows with or against the
// control-flow edges of the analysed function.
type Direction int

const (
	// Forward analyses compute the fact at a block from the facts of its
	// predecessors and process instructions in program order.
	Forward Direction = iota
	// Backward analyses compute the fact at a block from the facts of its
	// successors and process instructions in reverse.
	Backward
)

func (d Direction) String() string {
	if d == Forward {
		return "forward"
	}
	return "backward"
}

// Fact is the lattice value attached to every program point.
//
// Combine merges the information arriving at a block along multiple
// control-flow edges. It must be associative, commutative and idempotent,
// and together with the transfer functions it must be monotone over a
// lattice of finite height, or [Run] does not terminate. The solver does
// not (and cannot cheaply) detect violations; they are a defect in the
// analysis, not a recoverable condition.
//
// The zero information fact (bottom) must be a neutral element of Combine.
type Fact[F any] interface {
	Combine(F) F
	Equal(F) bool
	fmt.Stringer
}

// Analysis describes a monotone dataflow problem over the fact type F.
// Implementations are stateless values; all per-run state lives in the
// solver. Both transfer functions must be pure: same inputs, same output,
// no mutation of the argument fact.
type Analysis[F Fact[F]] interface {
	Direction() Direction

	// Bottom returns the fact carrying no information. Every block slot
	// starts out at bottom.
	Bottom() F

	// TransferInstruction returns the fact holding immediately after instr,
	// given the fact holding immediately before it (in analysis direction).
	TransferInstruction(instr ssa.Instruction, fact F) F

	// TransferTerminator is the analogue for block terminators. Analyses
	// where terminators carry no semantics return fact unchanged.
	TransferTerminator(instr ssa.Instruction, fact F) F
}
