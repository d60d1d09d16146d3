package dataflow

import (
	"github.com/BarrensZeppelin/dataflow/internal/queue"
	"golang.org/x/tools/go/ssa"
)

// Run computes the fixed point of the analysis a over the blocks of fn
// and returns the annotated graph of per-block facts.
//
// The seed fact is attached to the start block(s) of the analysis: the
// entry block for forward analyses, every exit block for backward ones.
// All other blocks start at [Analysis.Bottom].
//
// Run assumes fn is well-formed (as produced by the ssa builder). It
// processes blocks sequentially from an explicit worklist; the order in
// which blocks are drained affects only the iteration count, never the
// resulting facts.
func Run[F Fact[F]](fn *ssa.Function, a Analysis[F], seed F) *Result[F] {
	g := newFlowGraph(fn, a, seed)

	var wl queue.Worklist[*ssa.BasicBlock]
	if a.Direction() == Forward {
		for _, b := range fn.Blocks {
			wl.Push(b)
		}
	} else {
		for i := len(fn.Blocks) - 1; i >= 0; i-- {
			wl.Push(fn.Blocks[i])
		}
	}

	for !wl.Empty() {
		b := wl.Pop()

		in := g.input(b)
		g.in[b.Index] = in

		out := g.through(b, in)
		if out.Equal(g.out[b.Index]) {
			continue
		}
		g.out[b.Index] = out

		// The input of every downstream neighbor is now stale.
		for _, s := range g.sinks(b) {
			wl.Push(s)
		}
	}

	return &Result[F]{
		Fn: fn,

		a:   a,
		in:  g.in,
		out: g.out,
	}
}
