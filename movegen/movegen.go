// Package movegen implements the staged legal move generator. Checkers, the
// pin mask and the evasion mask are maintained by package position itself
// (refreshed on every Make/Unmake/ParseFEN for the side about to move); this
// package only turns that scratch state into moves, phase by phase, so that
// no generated move is later thrown away by a legality filter.
package movegen

import (
	"github.com/treepeck/chegocore/attacks"
	"github.com/treepeck/chegocore/bitutil"
	"github.com/treepeck/chegocore/position"
	"github.com/treepeck/chegocore/types"
)

func pieceOf(c types.Color, white, black types.Piece) types.Piece {
	if c == types.White {
		return white
	}
	return black
}

func ownBitboard(pos *position.Position, c types.Color) uint64 {
	return pos.Bitboards[pieceOf(c, types.WhiteAll, types.BlackAll)]
}

// genState bundles the position-derived context every emitter needs. It
// reads the checkers/evasion-mask/pin-mask straight off the position rather
// than recomputing them, since position.Make/Unmake/ParseFEN already keep
// those fields current for the side to move.
type genState struct {
	pos         *position.Position
	side        types.Color
	kingSq      types.Square
	checkers    uint64
	numCheckers int
	evasionMask uint64
	pins        [64]uint64
	promoRank   uint64
}

func newGenState(pos *position.Position) *genState {
	side := pos.Turn
	promoRank := bitutil.Rank8
	if side == types.Black {
		promoRank = bitutil.Rank1
	}
	return &genState{
		pos:         pos,
		side:        side,
		kingSq:      pos.KingSquare(side),
		checkers:    pos.Checkers(side),
		numCheckers: pos.GenNumCheckers,
		evasionMask: pos.EvasionMask,
		pins:        pos.GenPinMask,
		promoRank:   promoRank,
	}
}

// Generate returns every legal move available to the side to move in one
// call, ordered promotions/captures/quiet/underpromotions (or collapsed to
// the single evasion ordering while in check). Used where the whole list is
// actually wanted up front — perft and IsLegal — as opposed to the
// lazily-staged Start/Next pair.
func Generate(pos *position.Position) types.MoveList {
	st := newGenState(pos)

	var out types.MoveList
	if st.numCheckers >= 2 {
		st.generateKingMoves(&out)
		return out
	}

	var promotions, underproms, captures, quiet types.MoveList
	st.generatePawnMoves(&promotions, &underproms, &captures, &quiet)
	st.generateKnightMoves(&captures, &quiet)
	st.generateBishopMoves(&captures, &quiet)
	st.generateRookMoves(&captures, &quiet)
	st.generateQueenMoves(&captures, &quiet)

	var kingMoves types.MoveList
	st.generateKingMoves(&kingMoves)
	for _, m := range kingMoves.Slice() {
		if m.IsCapture() {
			captures.Push(m)
		} else {
			quiet.Push(m)
		}
	}
	if st.numCheckers == 0 {
		st.generateCastles(&quiet)
	}

	for _, m := range promotions.Slice() {
		out.Push(m)
	}
	for _, m := range captures.Slice() {
		out.Push(m)
	}
	for _, m := range quiet.Slice() {
		out.Push(m)
	}
	for _, m := range underproms.Slice() {
		out.Push(m)
	}
	return out
}

// IsLegal reports whether m is a legal move in pos for the side to move.
func IsLegal(pos *position.Position, m types.Move) bool {
	moves := Generate(pos)
	return moves.Contains(m)
}

// InCheck reports whether the side to move is currently in check. The
// evasion mask is all-ones exactly when there is no checker, so this is a
// field read rather than a recomputation.
func InCheck(pos *position.Position) bool {
	return pos.EvasionMask != ^uint64(0)
}

// nextPhase returns the phase that follows p in staged iteration.
// PhaseEvasions and PhaseUnderproms both fall through directly to
// PhaseDone: evasions are a single self-contained phase, and
// underpromotions are the last of the four non-check phases.
func nextPhase(p types.Phase) types.Phase {
	switch p {
	case types.PhasePromotions:
		return types.PhaseCaptures
	case types.PhaseCaptures:
		return types.PhaseOther
	case types.PhaseOther:
		return types.PhaseUnderproms
	default:
		return types.PhaseDone
	}
}

// fillCurrentPhase computes the moves for pos's current generator phase only
// and stores them in pos.GenBuf, resetting the cursor. The other three
// non-check phases (or the rest of the board once in check) are never
// touched, which is the whole point of staging: a caller content with the
// first phase's moves never pays for the others.
func fillCurrentPhase(pos *position.Position) {
	st := newGenState(pos)
	pos.GenBuf.Reset()

	switch types.Phase(pos.GenPhase) {
	case types.PhaseEvasions:
		fillEvasions(st, &pos.GenBuf)
	case types.PhasePromotions:
		fillPromotions(st, &pos.GenBuf)
	case types.PhaseCaptures:
		fillCaptures(st, &pos.GenBuf)
	case types.PhaseOther:
		fillOther(st, &pos.GenBuf)
	case types.PhaseUnderproms:
		fillUnderproms(st, &pos.GenBuf)
	}
	pos.GenCursor = 0
}

func fillPromotions(st *genState, out *types.MoveList) {
	var promotions, underproms, captures, quiet types.MoveList
	st.generatePawnMoves(&promotions, &underproms, &captures, &quiet)
	for _, m := range promotions.Slice() {
		out.Push(m)
	}
}

func fillCaptures(st *genState, out *types.MoveList) {
	var promotions, underproms, captures, quiet types.MoveList
	st.generatePawnMoves(&promotions, &underproms, &captures, &quiet)
	st.generateKnightMoves(&captures, &quiet)
	st.generateBishopMoves(&captures, &quiet)
	st.generateRookMoves(&captures, &quiet)
	st.generateQueenMoves(&captures, &quiet)

	var kingMoves types.MoveList
	st.generateKingMoves(&kingMoves)
	for _, m := range kingMoves.Slice() {
		if m.IsCapture() {
			captures.Push(m)
		}
	}
	for _, m := range captures.Slice() {
		out.Push(m)
	}
}

func fillOther(st *genState, out *types.MoveList) {
	var promotions, underproms, captures, quiet types.MoveList
	st.generatePawnMoves(&promotions, &underproms, &captures, &quiet)
	st.generateKnightMoves(&captures, &quiet)
	st.generateBishopMoves(&captures, &quiet)
	st.generateRookMoves(&captures, &quiet)
	st.generateQueenMoves(&captures, &quiet)

	var kingMoves types.MoveList
	st.generateKingMoves(&kingMoves)
	for _, m := range kingMoves.Slice() {
		if !m.IsCapture() {
			quiet.Push(m)
		}
	}
	st.generateCastles(&quiet)
	for _, m := range quiet.Slice() {
		out.Push(m)
	}
}

func fillUnderproms(st *genState, out *types.MoveList) {
	var promotions, underproms, captures, quiet types.MoveList
	st.generatePawnMoves(&promotions, &underproms, &captures, &quiet)
	for _, m := range underproms.Slice() {
		out.Push(m)
	}
}

// fillEvasions fills out with every legal move while in check: in double
// check, the king's step squares are the only legal moves, so nothing else
// is computed at all; in single check, the usual four generators already
// restrict every non-king move to st.evasionMask, so running them collapses
// to exactly the evading moves with no separate check-aware code path.
func fillEvasions(st *genState, out *types.MoveList) {
	if st.numCheckers >= 2 {
		st.generateKingMoves(out)
		return
	}

	var promotions, underproms, captures, quiet types.MoveList
	st.generatePawnMoves(&promotions, &underproms, &captures, &quiet)
	st.generateKnightMoves(&captures, &quiet)
	st.generateBishopMoves(&captures, &quiet)
	st.generateRookMoves(&captures, &quiet)
	st.generateQueenMoves(&captures, &quiet)

	var kingMoves types.MoveList
	st.generateKingMoves(&kingMoves)
	for _, m := range kingMoves.Slice() {
		if m.IsCapture() {
			captures.Push(m)
		} else {
			quiet.Push(m)
		}
	}

	for _, m := range promotions.Slice() {
		out.Push(m)
	}
	for _, m := range captures.Slice() {
		out.Push(m)
	}
	for _, m := range quiet.Slice() {
		out.Push(m)
	}
	for _, m := range underproms.Slice() {
		out.Push(m)
	}
}

// Start (re)initializes pos's generator scratch cursor for staged iteration
// via Next. It does no generation work itself — it only picks the first
// phase, relying on pos.GenNumCheckers/EvasionMask/GenPinMask already being
// current (Make, Unmake and ParseFEN all guarantee this for the side to
// move).
func Start(pos *position.Position) {
	if pos.GenNumCheckers > 0 {
		pos.GenPhase = int(types.PhaseEvasions)
	} else {
		pos.GenPhase = int(types.PhasePromotions)
	}
	pos.GenCursor = 0
	pos.GenBuf.Reset()
}

// Next returns the next move from pos's staged iteration and advances past
// it, or ok=false once every phase is exhausted. Each phase's moves are
// computed the first time Next reaches into it, not before — a caller that
// stops early (e.g. HasLegalMoves, or search pruning after the first
// capture) never pays for the phases it never asked for.
func Next(pos *position.Position) (m types.Move, ok bool) {
	for {
		if pos.GenCursor < pos.GenBuf.N {
			m = pos.GenBuf.Moves[pos.GenCursor]
			pos.GenCursor++
			return m, true
		}
		if types.Phase(pos.GenPhase) == types.PhaseDone {
			return types.NullMove, false
		}
		fillCurrentPhase(pos)
		pos.GenPhase = int(nextPhase(types.Phase(pos.GenPhase)))
	}
}

// hasKingEscape reports whether the side to move's king has at least one
// step square that isn't attacked once the king itself is removed from the
// occupancy, without generating the step moves themselves or touching any
// other piece. This is the cheap check HasLegalMoves tries before falling
// into the phase machine, since a king escape is by far the most common way
// a position with any legal move at all has one.
func hasKingEscape(pos *position.Position) bool {
	side := pos.Turn
	kingSq := pos.KingSquare(side)
	kingPiece := pieceOf(side, types.WhiteKing, types.BlackKing)
	ownPlane := pieceOf(side, types.WhiteAll, types.BlackAll)
	bb := uint64(1) << uint(kingSq)

	targets := attacks.KingAttacks[kingSq] &^ ownBitboard(pos, side)

	pos.Bitboards[kingPiece] &^= bb
	pos.Bitboards[ownPlane] &^= bb
	pos.Bitboards[types.AllPieces] &^= bb

	found := false
	for targets != 0 {
		to := types.Square(bitutil.PopLSB(&targets))
		if !pos.IsSquareAttacked(to, side.Opponent()) {
			found = true
			break
		}
	}

	pos.Bitboards[kingPiece] |= bb
	pos.Bitboards[ownPlane] |= bb
	pos.Bitboards[types.AllPieces] |= bb
	return found
}

// HasLegalMoves reports whether the side to move has at least one legal
// move. It checks the cheap king-escape case first; failing that, a double
// check can only be answered by the king (and that answer is already known
// to be no), while a single check or no check at all falls into the staged
// phase machine and stops at the very first move Next produces.
func HasLegalMoves(pos *position.Position) bool {
	if hasKingEscape(pos) {
		return true
	}
	if pos.GenNumCheckers >= 2 {
		return false
	}
	Start(pos)
	_, ok := Next(pos)
	return ok
}
