package alias

import (
	"go/types"
)

// PointerLike reports whether values of type t can alias memory: plain
// pointers, but also the reference types whose values embed pointers.
func PointerLike(t types.Type) bool {
	switch t := t.(type) {
	case *types.Pointer,
		*types.Map,
		*types.Chan,
		*types.Slice,
		*types.Interface,
		*types.Signature:
		return true
	case *types.Named:
		return PointerLike(t.Underlying())
	default:
		return false
	}
}
