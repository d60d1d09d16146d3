// Package alias implements an intraprocedural, flow-sensitive pointer
// aliasing analysis as an instantiation of the dataflow engine.
//
// The analysis tracks, per program point, which pointer-valued registers
// are provably the sole name for their referent ([Unique]) and which may
// have other names in scope ([MayAlias]). It does not compute points-to
// sets and does not look across function boundaries.
package alias

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BarrensZeppelin/dataflow/internal/maps"
	"github.com/BarrensZeppelin/dataflow/internal/slices"
	"golang.org/x/tools/go/ssa"
)

// State is the abstract state of a pointer value. The numeric order of
// the constants is the rank used by the meet: lower rank wins when two
// states merge at a control-flow join.
type State uint8

const (
	// MayAlias: the value may have other aliases in scope.
	MayAlias State = iota
	// Unique: the value is provably the sole name for its referent,
	// typically fresh out of an allocation.
	Unique
	// Undef: the value is out of scope, not a pointer, or unknown.
	// Facts never store Undef entries; it is the implicit state of every
	// absent key.
	Undef
)

func (s State) String() string {
	switch s {
	case MayAlias:
		return "may-alias"
	case Unique:
		return "unique"
	default:
		return "undef"
	}
}

// meet returns the lower-ranked of two states.
func meet(a, b State) State {
	if a < b {
		return a
	}
	return b
}

// Fact maps registers to their abstract pointer states. The keys present
// are exactly the values the analysis has information about; a missing
// key means [Undef]. The zero Fact is the bottom fact (no information).
//
// Facts are values: every operation returns a new Fact and leaves its
// receiver untouched, as the transfer-function purity contract requires.
type Fact struct {
	states map[ssa.Value]State
}

// StateOf returns the state recorded for v, or [Undef] if there is none.
func (f Fact) StateOf(v ssa.Value) State {
	if s, found := f.states[v]; found {
		return s
	}
	return Undef
}

// with returns a copy of f where v maps to s. Setting Undef removes the
// entry, preserving the no-stored-Undef invariant.
func (f Fact) with(v ssa.Value, s State) Fact {
	if f.StateOf(v) == s {
		return f
	}

	states := make(map[ssa.Value]State, len(f.states)+1)
	for k, old := range f.states {
		states[k] = old
	}

	if s == Undef {
		delete(states, v)
	} else {
		states[v] = s
	}
	return Fact{states}
}

// Combine merges the information of two facts flowing into the same
// block. Keys present on both sides meet (lower rank wins); keys present
// on one side only are taken unchanged. The absent side carries no
// information yet, so it does not force a degradation to may-alias.
func (f Fact) Combine(o Fact) Fact {
	if len(o.states) == 0 {
		return f.normalize()
	}
	if len(f.states) == 0 {
		return o.normalize()
	}

	states := make(map[ssa.Value]State, len(f.states)+len(o.states))
	for v, s := range f.states {
		if s != Undef {
			states[v] = s
		}
	}
	for v, s := range o.states {
		if prev, found := states[v]; found {
			s = meet(prev, s)
		}
		if s == Undef {
			delete(states, v)
		} else {
			states[v] = s
		}
	}
	return Fact{states}
}

// normalize strips stored Undef entries. The analysis never creates such
// entries, but facts built by hand (tests, seeds) may contain them, and
// equality is defined up to normalization: {x: Undef} equals {}.
func (f Fact) normalize() Fact {
	clean := true
	for _, s := range f.states {
		if s == Undef {
			clean = false
			break
		}
	}
	if clean {
		return f
	}

	states := make(map[ssa.Value]State, len(f.states))
	for v, s := range f.states {
		if s != Undef {
			states[v] = s
		}
	}
	return Fact{states}
}

func (f Fact) Equal(o Fact) bool {
	f, o = f.normalize(), o.normalize()
	if len(f.states) != len(o.states) {
		return false
	}

	for v, s := range f.states {
		if os, found := o.states[v]; !found || os != s {
			return false
		}
	}
	return true
}

func (f Fact) String() string {
	keys := maps.Keys(f.normalize().states)
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].Name() < keys[j].Name()
	})

	entries := slices.Map(keys, func(v ssa.Value) string {
		return fmt.Sprintf("%s ↦ %v", v.Name(), f.StateOf(v))
	})
	return "{" + strings.Join(entries, ", ") + "}"
}
