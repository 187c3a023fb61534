// Package perft walks the legal move tree to a fixed depth and counts leaf
// positions, the standard move-generator correctness check. Counting is
// done via make/unmake rather than copy-on-write, so no position is ever
// cloned mid-walk.
package perft

import (
	"github.com/treepeck/chegocore/movegen"
	"github.com/treepeck/chegocore/position"
	"github.com/treepeck/chegocore/types"
)

// Count walks the legal move tree from pos to depth and returns the number
// of leaf positions, mutating pos via make/unmake and restoring it exactly
// before returning.
func Count(pos *position.Position, depth int) int64 {
	if depth == 0 {
		return 1
	}

	moves := movegen.Generate(pos)
	if depth == 1 {
		return int64(moves.N)
	}

	var nodes int64
	for _, m := range moves.Slice() {
		if err := pos.Make(m); err != nil {
			// CapacityExceeded on the undo stack; treat the remaining
			// subtree as unreachable rather than panicking a debug tool.
			continue
		}
		nodes += Count(pos, depth-1)
		pos.Unmake()
	}
	return nodes
}

// Divide returns the leaf count contributed by each root move separately,
// in coordinate notation, matching the divide output format chess engines
// conventionally use to bisect a move-generator bug against a reference
// perft value.
func Divide(pos *position.Position, depth int, encode func(types.Move) string) map[string]int64 {
	out := make(map[string]int64)
	moves := movegen.Generate(pos)
	for _, m := range moves.Slice() {
		if err := pos.Make(m); err != nil {
			continue
		}
		out[encode(m)] = Count(pos, depth-1)
		pos.Unmake()
	}
	return out
}
