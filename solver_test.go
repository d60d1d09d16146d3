package dataflow_test

import (
	"testing"

	"github.com/BarrensZeppelin/dataflow"
	"github.com/BarrensZeppelin/dataflow/pkgutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"
)

func buildFun(t *testing.T, src, name string) *ssa.Function {
	pkgs, err := pkgutil.LoadPackagesFromSource(src)
	require.NoError(t, err)

	prog, spkgs := ssautil.AllPackages(pkgs, ssa.SanityCheckFunctions)
	prog.Build()

	fun := spkgs[0].Func(name)
	require.NotNil(t, fun, "no function %q in test package", name)
	return fun
}

const diamondSrc = `
	package main

	func ubool() bool

	func diamond() int {
		x := 0
		for ubool() {
			if ubool() {
				x++
			} else {
				x--
			}
		}
		return x
	}

	func main() {}`

// reachFact is the simplest possible lattice: ⊥ < ⊤, merged with or.
type reachFact struct{ reached bool }

func (f reachFact) Combine(o reachFact) reachFact { return reachFact{f.reached || o.reached} }
func (f reachFact) Equal(o reachFact) bool        { return f == o }

func (f reachFact) String() string {
	if f.reached {
		return "⊤"
	}
	return "⊥"
}

// reachability propagates the seed through the graph unchanged; after
// solving, exactly the blocks connected to the start block(s) hold ⊤.
type reachability struct{ dir dataflow.Direction }

func (a reachability) Direction() dataflow.Direction { return a.dir }
func (reachability) Bottom() reachFact               { return reachFact{} }

func (reachability) TransferInstruction(_ ssa.Instruction, f reachFact) reachFact { return f }
func (reachability) TransferTerminator(_ ssa.Instruction, f reachFact) reachFact  { return f }

func TestRunPropagatesSeed(t *testing.T) {
	fun := buildFun(t, diamondSrc, "diamond")
	require.Greater(t, len(fun.Blocks), 3, "want a branchy CFG")

	for _, dir := range []dataflow.Direction{dataflow.Forward, dataflow.Backward} {
		t.Run(dir.String(), func(t *testing.T) {
			res := dataflow.Run[reachFact](fun, reachability{dir}, reachFact{reached: true})

			// Every block of the function lies on a path between entry
			// and exit, so the seed reaches all of them.
			for _, block := range fun.Blocks {
				assert.True(t, res.FactBefore(block).reached, "block %v in-fact", block)
				assert.True(t, res.FactAfter(block).reached, "block %v out-fact", block)
			}
		})
	}
}

func TestRunBottomWithoutSeed(t *testing.T) {
	fun := buildFun(t, diamondSrc, "diamond")

	res := dataflow.Run[reachFact](fun, reachability{dataflow.Forward}, reachFact{})
	for _, block := range fun.Blocks {
		assert.False(t, res.FactAfter(block).reached)
	}
}

// depthFact counts transfer applications along the longest path; combine
// is max. Only valid on loop-free functions.
type depthFact struct{ n int }

func (f depthFact) Combine(o depthFact) depthFact {
	if o.n > f.n {
		return o
	}
	return f
}
func (f depthFact) Equal(o depthFact) bool { return f == o }
func (f depthFact) String() string         { return "" }

type depth struct{}

func (depth) Direction() dataflow.Direction { return dataflow.Forward }
func (depth) Bottom() depthFact             { return depthFact{} }

func (depth) TransferInstruction(_ ssa.Instruction, f depthFact) depthFact {
	return depthFact{f.n + 1}
}
func (depth) TransferTerminator(_ ssa.Instruction, f depthFact) depthFact {
	return depthFact{f.n + 1}
}

func TestFactAtReplaysBlock(t *testing.T) {
	fun := buildFun(t, `
		package main

		func straight(a, b int) int {
			c := a + b
			d := c * a
			return d - b
		}

		func main() {}`, "straight")

	res := dataflow.Run[depthFact](fun, depth{}, depthFact{})

	entry := fun.Blocks[0]
	for i, insn := range entry.Instrs {
		assert.Equal(t, i+1, res.FactAt(insn).n,
			"fact after instruction %d of the entry block", i)
	}

	assert.Equal(t, len(entry.Instrs), res.FactAfter(entry).n)
}

func TestResultRejectsForeignBlocks(t *testing.T) {
	fun := buildFun(t, diamondSrc, "diamond")
	other := buildFun(t, diamondSrc, "main")

	res := dataflow.Run[reachFact](fun, reachability{dataflow.Forward}, reachFact{})

	assert.Panics(t, func() { res.FactBefore(other.Blocks[0]) })
	assert.Panics(t, func() { res.FactAfter(other.Blocks[0]) })
	assert.Panics(t, func() { res.FactAt(other.Blocks[0].Instrs[0]) })
}
