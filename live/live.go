// Package live implements a classic backward live-variables analysis as
// a second instantiation of the dataflow engine. A register is live at a
// program point if some path from that point reads it before redefining
// it.
package live

import (
	"sort"
	"strings"

	"github.com/BarrensZeppelin/dataflow"
	"github.com/BarrensZeppelin/dataflow/internal/maps"
	"github.com/BarrensZeppelin/dataflow/internal/slices"
	"golang.org/x/tools/go/ssa"
)

// Fact is the set of registers live at a program point. The zero Fact is
// the empty set.
type Fact struct {
	values map[ssa.Value]bool
}

// Live reports whether v is live at the point the fact describes.
func (f Fact) Live(v ssa.Value) bool {
	return f.values[v]
}

// Combine is set union: a value is live out of a block if it is live
// into any successor.
func (f Fact) Combine(o Fact) Fact {
	if len(o.values) == 0 {
		return f
	}
	if len(f.values) == 0 {
		return o
	}

	values := make(map[ssa.Value]bool, len(f.values)+len(o.values))
	for v := range f.values {
		values[v] = true
	}
	for v := range o.values {
		values[v] = true
	}
	return Fact{values}
}

func (f Fact) Equal(o Fact) bool {
	if len(f.values) != len(o.values) {
		return false
	}

	for v := range f.values {
		if !o.values[v] {
			return false
		}
	}
	return true
}

func (f Fact) String() string {
	names := slices.Map(maps.Keys(f.values), ssa.Value.Name)
	sort.Strings(names)
	return "{" + strings.Join(names, ", ") + "}"
}

func (f Fact) with(v ssa.Value) Fact {
	if f.values[v] {
		return f
	}

	values := make(map[ssa.Value]bool, len(f.values)+1)
	for k := range f.values {
		values[k] = true
	}
	values[v] = true
	return Fact{values}
}

func (f Fact) without(v ssa.Value) Fact {
	if !f.values[v] {
		return f
	}

	values := make(map[ssa.Value]bool, len(f.values))
	for k := range f.values {
		if k != v {
			values[k] = true
		}
	}
	return Fact{values}
}

type analysis struct{}

var _ dataflow.Analysis[Fact] = analysis{}

func (analysis) Direction() dataflow.Direction { return dataflow.Backward }

func (analysis) Bottom() Fact { return Fact{} }

// Flowing backwards: the defined register dies at its definition, the
// operands become live.
func (analysis) TransferInstruction(insn ssa.Instruction, fact Fact) Fact {
	if v, ok := insn.(ssa.Value); ok {
		fact = fact.without(v)
	}

	for _, rand := range insn.Operands(nil) {
		if rand == nil || *rand == nil {
			continue
		}
		if v := *rand; tracked(v) {
			fact = fact.with(v)
		}
	}
	return fact
}

// Terminators read values too (branch conditions, return operands), so
// they share the instruction transfer.
func (a analysis) TransferTerminator(insn ssa.Instruction, fact Fact) Fact {
	return a.TransferInstruction(insn, fact)
}

// tracked reports whether liveness of v is worth recording. Constants,
// globals and functions are always available and never "die".
func tracked(v ssa.Value) bool {
	switch v.(type) {
	case *ssa.Const, *ssa.Global, *ssa.Function, *ssa.Builtin:
		return false
	}
	return true
}

// Analyze runs the live-variables analysis on fn. The seed is the empty
// set: nothing is live at function exit.
func Analyze(fn *ssa.Function) *dataflow.Result[Fact] {
	return dataflow.Run[Fact](fn, analysis{}, Fact{})
}
