package dataflow

import (
	"log"

	"golang.org/x/tools/go/ssa"
)

// Result is the annotated graph produced by [Run]: for every block of the
// analysed function, the fact at its input and output edges (relative to
// the analysis direction). Results are immutable once returned.
type Result[F Fact[F]] struct {
	Fn *ssa.Function

	a       Analysis[F]
	in, out []F
}

// FactBefore returns the fact flowing into b: combined over its
// predecessors for a forward analysis, over its successors for a
// backward one.
func (r *Result[F]) FactBefore(b *ssa.BasicBlock) F {
	r.check(b)
	return r.in[b.Index]
}

// FactAfter returns the fact flowing out of b.
func (r *Result[F]) FactAfter(b *ssa.BasicBlock) F {
	r.check(b)
	return r.out[b.Index]
}

// FactAt returns the fact holding immediately after instr in analysis
// direction. It is recomputed on demand by replaying the transfer
// functions over instr's block; per-instruction facts are not stored.
func (r *Result[F]) FactAt(instr ssa.Instruction) F {
	b := instr.Block()
	if b == nil || b.Parent() != r.Fn {
		log.Panicf("%v does not belong to %v", instr, r.Fn)
	}

	fact := r.in[b.Index]
	term := b.Instrs[len(b.Instrs)-1]

	apply := func(cur ssa.Instruction) {
		if cur == term {
			fact = r.a.TransferTerminator(cur, fact)
		} else {
			fact = r.a.TransferInstruction(cur, fact)
		}
	}

	if r.a.Direction() == Forward {
		for _, cur := range b.Instrs {
			apply(cur)
			if cur == instr {
				return fact
			}
		}
	} else {
		for i := len(b.Instrs) - 1; i >= 0; i-- {
			apply(b.Instrs[i])
			if b.Instrs[i] == instr {
				return fact
			}
		}
	}

	// Unreachable for well-formed blocks: instr.Block() contains instr.
	log.Panicf("%v not found in its own block", instr)
	return fact
}

func (r *Result[F]) check(b *ssa.BasicBlock) {
	if b.Parent() != r.Fn {
		log.Panicf("block %v belongs to %v, not %v", b, b.Parent(), r.Fn)
	}
}
