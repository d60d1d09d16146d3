package alias

import (
	"go/token"

	"github.com/BarrensZeppelin/dataflow"
	"golang.org/x/tools/go/ssa"
)

// analysis instantiates the dataflow contract for pointer aliasing:
// forward direction, empty bottom fact, identity terminator transfer.
type analysis struct{}

var _ dataflow.Analysis[Fact] = analysis{}

func (analysis) Direction() dataflow.Direction { return dataflow.Forward }

func (analysis) Bottom() Fact { return Fact{} }

// Terminators (If, Jump, Return, Panic) neither define nor leak pointer
// values.
func (analysis) TransferTerminator(_ ssa.Instruction, fact Fact) Fact {
	return fact
}

func (analysis) TransferInstruction(insn ssa.Instruction, fact Fact) Fact {
	switch t := insn.(type) {
	case ssa.CallInstruction:
		// The callee is free to retain any pointer it receives, and a
		// returned pointer may alias anything the callee knows about.
		common := t.Common()
		if v := t.Value(); v != nil && PointerLike(v.Type()) {
			fact = fact.with(v, MayAlias)
		}
		if common.IsInvoke() && tracked(common.Value) {
			fact = fact.with(common.Value, MayAlias)
		}
		for _, arg := range common.Args {
			if tracked(arg) && PointerLike(arg.Type()) {
				fact = fact.with(arg, MayAlias)
			}
		}
		return fact

	case *ssa.Alloc:
		// A fresh allocation is the sole name for its cell.
		return fact.with(t, Unique)

	case *ssa.UnOp:
		// A pointer loaded through another pointer has unknown provenance.
		if t.Op == token.MUL && PointerLike(t.Type()) {
			return fact.with(t, MayAlias)
		}

	case *ssa.Store:
		// The stored pointer becomes reachable through the target cell.
		if tracked(t.Val) && PointerLike(t.Val.Type()) {
			return fact.with(t.Val, MayAlias)
		}

	case *ssa.FieldAddr:
		return derived(fact, t, t.X)
	case *ssa.IndexAddr:
		return derived(fact, t, t.X)
	case *ssa.Slice:
		return derived(fact, t, t.X)
	case *ssa.SliceToArrayPointer:
		return derived(fact, t, t.X)

	case *ssa.ChangeType:
		if PointerLike(t.Type()) {
			return derived(fact, t, t.X)
		}
	case *ssa.Convert:
		if PointerLike(t.Type()) {
			return derived(fact, t, t.X)
		}
	}

	return fact
}

// derived handles address computations and pointer casts: the derived
// pointer names (part of) the same referent as its base, so both sides
// lose uniqueness. Slicing a string produces no pointer and is skipped.
func derived(fact Fact, def, base ssa.Value) Fact {
	if !PointerLike(def.Type()) {
		return fact
	}

	fact = fact.with(def, MayAlias)
	if tracked(base) && PointerLike(base.Type()) {
		fact = fact.with(base, MayAlias)
	}
	return fact
}

// tracked reports whether v is a register-like value that facts key on.
// Constants, globals and functions have no per-point abstract state.
func tracked(v ssa.Value) bool {
	switch v.(type) {
	case *ssa.Const, *ssa.Global, *ssa.Function, *ssa.Builtin:
		return false
	}
	return true
}

// Analyze runs the alias analysis on fn and returns the annotated graph.
// The seed fact marks every pointer-like parameter and free variable as
// [MayAlias]: the caller (or enclosing function) holds names for them.
//
// Each call is independent and touches no shared state, so analysing
// many functions concurrently is safe.
func Analyze(fn *ssa.Function) *dataflow.Result[Fact] {
	seed := Fact{}
	for _, param := range fn.Params {
		if PointerLike(param.Type()) {
			seed = seed.with(param, MayAlias)
		}
	}
	for _, fv := range fn.FreeVars {
		if PointerLike(fv.Type()) {
			seed = seed.with(fv, MayAlias)
		}
	}

	return dataflow.Run[Fact](fn, analysis{}, seed)
}
