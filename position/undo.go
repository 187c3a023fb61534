package position

import (
	"github.com/treepeck/chegocore/bitutil"
	"github.com/treepeck/chegocore/chesserr"
	"github.com/treepeck/chegocore/types"
	"github.com/treepeck/chegocore/zobrist"
)

// Square indices of the four rook home squares and the four castling
// king-destination squares, named for readability in the castle primitive.
const (
	sqA1 = types.Square(0)
	sqF1 = types.Square(5)
	sqG1 = types.Square(6)
	sqH1 = types.Square(7)
	sqA8 = types.Square(56)
	sqF8 = types.Square(61)
	sqG8 = types.Square(62)
	sqH8 = types.Square(63)
	sqC1 = types.Square(2)
	sqD1 = types.Square(3)
	sqC8 = types.Square(58)
	sqD8 = types.Square(59)
)

// pushUndo appends entry to the undo stack, growing it geometrically
// (append already does this) and rejecting growth past maxPlies with
// chesserr.CapacityExceeded rather than growing unbounded.
func (p *Position) pushUndo(entry undoEntry) error {
	if len(p.undo) >= maxPlies {
		return chesserr.New(chesserr.CapacityExceeded, "undo stack exceeded %d plies", maxPlies)
	}
	p.undo = append(p.undo, entry)
	return nil
}

func (p *Position) popUndo() undoEntry {
	n := len(p.undo) - 1
	entry := p.undo[n]
	p.undo = p.undo[:n]
	return entry
}

// Make applies m to the position, using the primitive selected by its
// packed flag. It assumes m is at least pseudo-legal for the
// side to move; legality against check is the move generator's job, not
// this layer's: make/unmake never inspect legality. The
// only error Make can return is CapacityExceeded, from the undo stack.
func (p *Position) Make(m types.Move) error {
	entry := undoEntry{
		Move:             m,
		PriorCastling:    p.Castling,
		PriorEP:          p.EP,
		PriorHalfmove:    p.HalfmoveClock,
		PriorFullmove:    p.FullmoveNumber,
		PriorTurn:        p.Turn,
		PriorEvasionMask: p.EvasionMask,
		PriorGenPhase:    p.GenPhase,
		PriorGenCursor:   p.GenCursor,
	}
	if err := p.pushUndo(entry); err != nil {
		return err
	}

	switch m.Flag() {
	case types.FlagSimple:
		p.makeSimple(m)
	case types.FlagPawn:
		p.makePawn(m)
	case types.FlagCapture:
		p.makeCapture(m)
	case types.FlagPassant:
		p.makePassant(m)
	case types.FlagCastle:
		p.makeCastle(m)
	case types.FlagPromote:
		p.makePromote(m)
	case types.FlagPromCap:
		p.makePromCap(m)
	}

	movedByBlack := p.Turn == types.Black
	p.Turn = p.Turn.Opponent()
	p.Hash ^= zobrist.Turn
	if movedByBlack {
		p.FullmoveNumber++
	}
	p.refreshGenState()
	return nil
}

// CanUnmake reports whether at least one move has been made.
func (p *Position) CanUnmake() bool { return len(p.undo) > 0 }

// Unmake reverses the most recently made move, restoring every field Make
// touched exactly. Panics if no move has been made; callers are expected to
// pair every Unmake with a prior Make: make and unmake must compose to
// the identity.
func (p *Position) Unmake() {
	entry := p.popUndo()
	m := entry.Move

	switch m.Flag() {
	case types.FlagSimple:
		p.unmakeSimple(m)
	case types.FlagPawn:
		p.unmakePawn(m)
	case types.FlagCapture:
		p.unmakeCapture(m)
	case types.FlagPassant:
		p.unmakePassant(m)
	case types.FlagCastle:
		p.unmakeCastle(m)
	case types.FlagPromote:
		p.unmakePromote(m)
	case types.FlagPromCap:
		p.unmakePromCap(m)
	}

	p.setCastling(entry.PriorCastling)
	p.setEP(entry.PriorEP)
	p.Hash ^= zobrist.Turn
	p.HalfmoveClock = entry.PriorHalfmove
	p.FullmoveNumber = entry.PriorFullmove
	p.Turn = entry.PriorTurn
	p.EvasionMask = entry.PriorEvasionMask
	p.GenPhase = entry.PriorGenPhase
	p.GenCursor = entry.PriorGenCursor
	// The evasion mask and phase/cursor are restored above from the undo
	// entry; the pin mask and checker count are not part of that entry
	// (recomputing them is cheap and keeps undoEntry smaller), so they're
	// refreshed here instead.
	checkers := p.Checkers(p.Turn)
	p.GenPinMask = p.PinMaskFor(p.Turn)
	p.GenNumCheckers = bitutil.PopCount(checkers)
	p.GenBuf.Reset()
}

// updateCastlingOnMove clears the castling right(s) forfeited by piece
// leaving from, covering both a king stepping off its home square and a
// rook stepping off one of its corners.
func (p *Position) updateCastlingOnMove(piece types.Piece, from types.Square) {
	rights := p.Castling
	switch piece {
	case types.WhiteKing:
		rights &^= types.WhiteKingside | types.WhiteQueenside
	case types.BlackKing:
		rights &^= types.BlackKingside | types.BlackQueenside
	case types.WhiteRook:
		if from == sqA1 {
			rights &^= types.WhiteQueenside
		} else if from == sqH1 {
			rights &^= types.WhiteKingside
		}
	case types.BlackRook:
		if from == sqA8 {
			rights &^= types.BlackQueenside
		} else if from == sqH8 {
			rights &^= types.BlackKingside
		}
	}
	if rights != p.Castling {
		p.setCastling(rights)
	}
}

// updateCastlingOnCapture clears the castling right forfeited when a rook
// on its home corner is captured, symmetric to updateCastlingOnMove.
func (p *Position) updateCastlingOnCapture(captured types.Piece, at types.Square) {
	rights := p.Castling
	switch captured {
	case types.WhiteRook:
		if at == sqA1 {
			rights &^= types.WhiteQueenside
		} else if at == sqH1 {
			rights &^= types.WhiteKingside
		}
	case types.BlackRook:
		if at == sqA8 {
			rights &^= types.BlackQueenside
		} else if at == sqH8 {
			rights &^= types.BlackKingside
		}
	}
	if rights != p.Castling {
		p.setCastling(rights)
	}
}

// --- make primitives --------------------------------------------------

func (p *Position) makeSimple(m types.Move) {
	piece := m.Piece()
	p.togglePiece(piece, m.From())
	p.togglePiece(piece, m.To())
	p.updateCastlingOnMove(piece, m.From())
	p.setEP(types.NoSquare)
	p.HalfmoveClock++
}

func (p *Position) makePawn(m types.Move) {
	piece := m.Piece()
	p.togglePiece(piece, m.From())
	p.togglePiece(piece, m.To())
	delta := int(m.To()) - int(m.From())
	if delta == 16 || delta == -16 {
		p.setEP(types.Square((int(m.From()) + int(m.To())) / 2))
	} else {
		p.setEP(types.NoSquare)
	}
	p.HalfmoveClock = 0
}

func (p *Position) makeCapture(m types.Move) {
	piece := m.Piece()
	captured := m.Captured()
	p.togglePiece(captured, m.To())
	p.togglePiece(piece, m.From())
	p.togglePiece(piece, m.To())
	p.updateCastlingOnMove(piece, m.From())
	p.updateCastlingOnCapture(captured, m.To())
	p.setEP(types.NoSquare)
	p.HalfmoveClock = 0
}

func passantVictim(piece types.Piece, to types.Square) (types.Piece, types.Square) {
	if piece == types.WhitePawn {
		return types.BlackPawn, to - 8
	}
	return types.WhitePawn, to + 8
}

func (p *Position) makePassant(m types.Move) {
	piece := m.Piece()
	p.togglePiece(piece, m.From())
	p.togglePiece(piece, m.To())
	victim, victimSq := passantVictim(piece, m.To())
	p.togglePiece(victim, victimSq)
	p.setEP(types.NoSquare)
	p.HalfmoveClock = 0
}

// castleRookMove returns the rook that accompanies a king move to kingTo,
// along with its from/to squares.
func castleRookMove(kingTo types.Square) (rook types.Piece, from, to types.Square) {
	switch kingTo {
	case sqG1:
		return types.WhiteRook, sqH1, sqF1
	case sqC1:
		return types.WhiteRook, sqA1, sqD1
	case sqG8:
		return types.BlackRook, sqH8, sqF8
	default: // sqC8
		return types.BlackRook, sqA8, sqD8
	}
}

func (p *Position) makeCastle(m types.Move) {
	king := m.Piece()
	p.togglePiece(king, m.From())
	p.togglePiece(king, m.To())
	rook, rFrom, rTo := castleRookMove(m.To())
	p.togglePiece(rook, rFrom)
	p.togglePiece(rook, rTo)
	if king == types.WhiteKing {
		p.setCastling(p.Castling &^ (types.WhiteKingside | types.WhiteQueenside))
	} else {
		p.setCastling(p.Castling &^ (types.BlackKingside | types.BlackQueenside))
	}
	p.setEP(types.NoSquare)
	p.HalfmoveClock++
}

func promotingPawn(promoted types.Piece) types.Piece {
	if promoted.IsWhite() {
		return types.WhitePawn
	}
	return types.BlackPawn
}

func (p *Position) makePromote(m types.Move) {
	promoted := m.Piece()
	pawn := promotingPawn(promoted)
	p.togglePiece(pawn, m.From())
	p.togglePiece(promoted, m.To())
	p.setEP(types.NoSquare)
	p.HalfmoveClock = 0
}

func (p *Position) makePromCap(m types.Move) {
	promoted := m.Piece()
	captured := m.Captured()
	pawn := promotingPawn(promoted)
	p.togglePiece(captured, m.To())
	p.togglePiece(pawn, m.From())
	p.togglePiece(promoted, m.To())
	p.updateCastlingOnCapture(captured, m.To())
	p.setEP(types.NoSquare)
	p.HalfmoveClock = 0
}

// --- unmake primitives --------------------------------------------------
//
// Each unmake* function reverses exactly the togglePiece calls its make*
// counterpart made; togglePiece is its own inverse so replaying the same
// (piece, square) pairs restores the prior bitboards and piece-placement
// part of Hash regardless of order. Castling/EP/turn/clock scalars are
// restored by the caller (Unmake) from the saved undo entry, not recomputed
// here.

func (p *Position) unmakeSimple(m types.Move) {
	piece := m.Piece()
	p.togglePiece(piece, m.To())
	p.togglePiece(piece, m.From())
}

func (p *Position) unmakePawn(m types.Move) {
	piece := m.Piece()
	p.togglePiece(piece, m.To())
	p.togglePiece(piece, m.From())
}

func (p *Position) unmakeCapture(m types.Move) {
	piece := m.Piece()
	captured := m.Captured()
	p.togglePiece(piece, m.To())
	p.togglePiece(piece, m.From())
	p.togglePiece(captured, m.To())
}

func (p *Position) unmakePassant(m types.Move) {
	piece := m.Piece()
	p.togglePiece(piece, m.To())
	p.togglePiece(piece, m.From())
	victim, victimSq := passantVictim(piece, m.To())
	p.togglePiece(victim, victimSq)
}

func (p *Position) unmakeCastle(m types.Move) {
	king := m.Piece()
	p.togglePiece(king, m.To())
	p.togglePiece(king, m.From())
	rook, rFrom, rTo := castleRookMove(m.To())
	p.togglePiece(rook, rTo)
	p.togglePiece(rook, rFrom)
}

func (p *Position) unmakePromote(m types.Move) {
	promoted := m.Piece()
	pawn := promotingPawn(promoted)
	p.togglePiece(promoted, m.To())
	p.togglePiece(pawn, m.From())
}

func (p *Position) unmakePromCap(m types.Move) {
	promoted := m.Piece()
	captured := m.Captured()
	pawn := promotingPawn(promoted)
	p.togglePiece(promoted, m.To())
	p.togglePiece(pawn, m.From())
	p.togglePiece(captured, m.To())
}
