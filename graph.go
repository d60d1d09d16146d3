package dataflow

import (
	"golang.org/x/tools/go/ssa"
)

// flowGraph adapts the CFG of a function to the solver: per-block in/out
// fact slots plus neighbor lookup oriented by the analysis direction. It
// performs no computation on facts beyond folding the analysis' own
// transfer and combine operations.
type flowGraph[F Fact[F]] struct {
	fn   *ssa.Function
	a    Analysis[F]
	seed F

	// in and out are indexed by block.Index. "in" and "out" are relative
	// to the analysis direction, not to program order.
	in, out []F
}

func newFlowGraph[F Fact[F]](fn *ssa.Function, a Analysis[F], seed F) *flowGraph[F] {
	n := len(fn.Blocks)
	g := &flowGraph[F]{
		fn:   fn,
		a:    a,
		seed: seed,
		in:   make([]F, n),
		out:  make([]F, n),
	}

	for i := range g.in {
		g.in[i] = a.Bottom()
		g.out[i] = a.Bottom()
	}

	return g
}

// sources returns the blocks whose output facts feed b's input fact.
func (g *flowGraph[F]) sources(b *ssa.BasicBlock) []*ssa.BasicBlock {
	if g.a.Direction() == Forward {
		return b.Preds
	}
	return b.Succs
}

// sinks returns the blocks whose input facts depend on b's output fact.
func (g *flowGraph[F]) sinks(b *ssa.BasicBlock) []*ssa.BasicBlock {
	if g.a.Direction() == Forward {
		return b.Succs
	}
	return b.Preds
}

// isStart reports whether b receives the caller-supplied seed fact: the
// entry block for forward analyses, the exit blocks (no successors) for
// backward ones.
func (g *flowGraph[F]) isStart(b *ssa.BasicBlock) bool {
	if g.a.Direction() == Forward {
		return b == g.fn.Blocks[0]
	}
	return len(b.Succs) == 0
}

// input recomputes b's input fact by combining the current output facts
// of its sources, folding in the seed at start blocks.
func (g *flowGraph[F]) input(b *ssa.BasicBlock) F {
	fact := g.a.Bottom()
	if g.isStart(b) {
		fact = fact.Combine(g.seed)
	}

	for _, src := range g.sources(b) {
		fact = fact.Combine(g.out[src.Index])
	}

	return fact
}

// through folds the transfer functions over the instructions of b,
// starting from fact. The last instruction of a block is its terminator;
// backward analyses see it first and the rest in reverse.
func (g *flowGraph[F]) through(b *ssa.BasicBlock, fact F) F {
	if len(b.Instrs) == 0 {
		return fact
	}

	body, term := b.Instrs[:len(b.Instrs)-1], b.Instrs[len(b.Instrs)-1]

	if g.a.Direction() == Forward {
		for _, instr := range body {
			fact = g.a.TransferInstruction(instr, fact)
		}
		return g.a.TransferTerminator(term, fact)
	}

	fact = g.a.TransferTerminator(term, fact)
	for i := len(body) - 1; i >= 0; i-- {
		fact = g.a.TransferInstruction(body[i], fact)
	}
	return fact
}
