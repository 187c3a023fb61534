package movegen

import (
	"github.com/treepeck/chegocore/attacks"
	"github.com/treepeck/chegocore/bitutil"
	"github.com/treepeck/chegocore/types"
)

// targetable is the set of squares a piece belonging to st.side may land
// on: not occupied by a piece of the same color.
func (st *genState) targetable() uint64 {
	return ^ownBitboard(st.pos, st.side)
}

func (st *genState) enemyBitboard() uint64 {
	return ownBitboard(st.pos, st.side.Opponent())
}

func (st *genState) generateKnightMoves(captures, quiet *types.MoveList) {
	piece := pieceOf(st.side, types.WhiteKnight, types.BlackKnight)
	bb := st.pos.Bitboards[piece]
	enemy := st.enemyBitboard()
	for bb != 0 {
		from := types.Square(bitutil.PopLSB(&bb))
		if st.pins[from] != ^uint64(0) {
			// A knight pinned along any ray has no legal move at all.
			continue
		}
		targets := attacks.KnightAttacks[from] & st.targetable() & st.evasionMask
		for targets != 0 {
			to := types.Square(bitutil.PopLSB(&targets))
			if enemy&(uint64(1)<<uint(to)) != 0 {
				captures.Push(types.NewMove(from, piece, to, st.pos.PieceAt(to), types.FlagCapture))
			} else {
				quiet.Push(types.NewMove(from, piece, to, types.NoPiece, types.FlagSimple))
			}
		}
	}
}

func (st *genState) generateSliderMoves(piece types.Piece, attack func(sq int, occ uint64) uint64, captures, quiet *types.MoveList) {
	bb := st.pos.Bitboards[piece]
	occ := st.pos.Bitboards[types.AllPieces]
	enemy := st.enemyBitboard()
	for bb != 0 {
		from := types.Square(bitutil.PopLSB(&bb))
		targets := attack(int(from), occ) & st.targetable() & st.evasionMask & st.pins[from]
		for targets != 0 {
			to := types.Square(bitutil.PopLSB(&targets))
			if enemy&(uint64(1)<<uint(to)) != 0 {
				captures.Push(types.NewMove(from, piece, to, st.pos.PieceAt(to), types.FlagCapture))
			} else {
				quiet.Push(types.NewMove(from, piece, to, types.NoPiece, types.FlagSimple))
			}
		}
	}
}

func (st *genState) generateBishopMoves(captures, quiet *types.MoveList) {
	st.generateSliderMoves(pieceOf(st.side, types.WhiteBishop, types.BlackBishop), attacks.BishopAttacks, captures, quiet)
}

func (st *genState) generateRookMoves(captures, quiet *types.MoveList) {
	st.generateSliderMoves(pieceOf(st.side, types.WhiteRook, types.BlackRook), attacks.RookAttacks, captures, quiet)
}

func (st *genState) generateQueenMoves(captures, quiet *types.MoveList) {
	st.generateSliderMoves(pieceOf(st.side, types.WhiteQueen, types.BlackQueen), attacks.QueenAttacks, captures, quiet)
}

// generateKingMoves appends every square the king may step to that is not
// attacked once the king itself is removed from the occupancy (so a king
// retreating straight back from a slider is still correctly seen as moving
// into check). Not filtered by the evasion mask: the king is the one piece
// whose legal destinations are never the checker's square mask, they are
// simply "not attacked".
func (st *genState) generateKingMoves(out *types.MoveList) {
	piece := pieceOf(st.side, types.WhiteKing, types.BlackKing)
	from := st.kingSq
	enemy := st.enemyBitboard()
	targets := attacks.KingAttacks[from] & st.targetable()

	// Temporarily remove the king so a ray attacker's line is evaluated as
	// if the king had already stepped off of it.
	st.pos.Bitboards[piece] &^= uint64(1) << uint(from)
	st.pos.Bitboards[pieceOf(st.side, types.WhiteAll, types.BlackAll)] &^= uint64(1) << uint(from)
	st.pos.Bitboards[types.AllPieces] &^= uint64(1) << uint(from)

	for targets != 0 {
		to := types.Square(bitutil.PopLSB(&targets))
		if st.pos.IsSquareAttacked(to, st.side.Opponent()) {
			continue
		}
		if enemy&(uint64(1)<<uint(to)) != 0 {
			out.Push(types.NewMove(from, piece, to, st.pos.PieceAt(to), types.FlagCapture))
		} else {
			out.Push(types.NewMove(from, piece, to, types.NoPiece, types.FlagSimple))
		}
	}

	st.pos.Bitboards[piece] |= uint64(1) << uint(from)
	st.pos.Bitboards[pieceOf(st.side, types.WhiteAll, types.BlackAll)] |= uint64(1) << uint(from)
	st.pos.Bitboards[types.AllPieces] |= uint64(1) << uint(from)
}

// generateCastles appends legal castling moves: the relevant right must
// still be held, the squares between king and rook must be empty, the king
// must not currently be in check, and neither the king's start square nor
// any square it passes through (including its destination) may be
// attacked.
func (st *genState) generateCastles(out *types.MoveList) {
	if st.numCheckers != 0 {
		return
	}
	occ := st.pos.Bitboards[types.AllPieces]
	opp := st.side.Opponent()

	type castle struct {
		right        types.CastlingRights
		kingTo       types.Square
		emptySquares uint64
		kingPath     []types.Square
		piece        types.Piece
	}

	var candidates []castle
	if st.side == types.White {
		candidates = []castle{
			{types.WhiteKingside, 6, sqMask(5, 6), []types.Square{4, 5, 6}, types.WhiteKing},
			{types.WhiteQueenside, 2, sqMask(1, 2, 3), []types.Square{4, 3, 2}, types.WhiteKing},
		}
	} else {
		candidates = []castle{
			{types.BlackKingside, 62, sqMask(61, 62), []types.Square{60, 61, 62}, types.BlackKing},
			{types.BlackQueenside, 58, sqMask(57, 58, 59), []types.Square{60, 59, 58}, types.BlackKing},
		}
	}

	for _, c := range candidates {
		if st.pos.Castling&c.right == 0 {
			continue
		}
		if occ&c.emptySquares != 0 {
			continue
		}
		attacked := false
		for _, sq := range c.kingPath {
			if st.pos.IsSquareAttacked(sq, opp) {
				attacked = true
				break
			}
		}
		if attacked {
			continue
		}
		out.Push(types.NewMove(st.kingSq, c.piece, c.kingTo, types.NoPiece, types.FlagCastle))
	}
}

func sqMask(squares ...int) uint64 {
	var bb uint64
	for _, sq := range squares {
		bb |= uint64(1) << uint(sq)
	}
	return bb
}

// generatePawnMoves appends single/double pushes, captures (including en
// passant) and promotions, splitting queen promotions into the promotions
// bucket and knight/bishop/rook promotions into underproms.
func (st *genState) generatePawnMoves(promotions, underproms, captures, quiet *types.MoveList) {
	piece := pieceOf(st.side, types.WhitePawn, types.BlackPawn)
	bb := st.pos.Bitboards[piece]
	occ := st.pos.Bitboards[types.AllPieces]
	enemy := st.enemyBitboard()

	forward := 8
	doublePushRank := uint64(0xFF00)
	if st.side == types.Black {
		forward = -8
		doublePushRank = uint64(0xFF000000000000)
	}

	for bb != 0 {
		from := types.Square(bitutil.PopLSB(&bb))
		ray := st.pins[from]

		// Single and double pushes.
		oneSq := types.Square(int(from) + forward)
		if oneSq >= 0 && oneSq < 64 && occ&(uint64(1)<<uint(oneSq)) == 0 {
			st.emitPawnQuiet(from, oneSq, piece, ray, promotions, underproms, quiet)

			if uint64(1)<<uint(from)&pawnStartRank(st.side) != 0 {
				twoSq := types.Square(int(from) + 2*forward)
				if occ&(uint64(1)<<uint(twoSq)) == 0 && doublePushRank&(uint64(1)<<uint(twoSq)) == 0 {
					if st.evasionMask&(uint64(1)<<uint(twoSq)) != 0 && ray&(uint64(1)<<uint(twoSq)) != 0 {
						quiet.Push(types.NewMove(from, piece, twoSq, types.NoPiece, types.FlagPawn))
					}
				}
			}
		}

		// Captures.
		capTargets := attacks.PawnAttacks[st.side][from] & enemy & st.evasionMask & ray
		for capTargets != 0 {
			to := types.Square(bitutil.PopLSB(&capTargets))
			st.emitPawnCapture(from, to, piece, promotions, underproms, captures)
		}

		// En passant.
		if st.pos.EP != types.NoSquare {
			st.maybeEmitEnPassant(from, piece, ray, captures)
		}
	}
}

func pawnStartRank(c types.Color) uint64 {
	if c == types.White {
		return 0xFF00
	}
	return 0xFF000000000000
}

func (st *genState) promotionRankBit(to types.Square) bool {
	return st.promoRank&(uint64(1)<<uint(to)) != 0
}

func (st *genState) emitPawnQuiet(from, to types.Square, pawn types.Piece, ray uint64, promotions, underproms, quiet *types.MoveList) {
	if st.evasionMask&(uint64(1)<<uint(to)) == 0 || ray&(uint64(1)<<uint(to)) == 0 {
		return
	}
	if st.promotionRankBit(to) {
		st.emitPromotions(from, to, pawn, types.NoPiece, types.FlagPromote, promotions, underproms)
		return
	}
	quiet.Push(types.NewMove(from, pawn, to, types.NoPiece, types.FlagPawn))
}

func (st *genState) emitPawnCapture(from, to types.Square, pawn types.Piece, promotions, underproms, captures *types.MoveList) {
	captured := st.pos.PieceAt(to)
	if st.promotionRankBit(to) {
		st.emitPromotions(from, to, pawn, captured, types.FlagPromCap, promotions, underproms)
		return
	}
	captures.Push(types.NewMove(from, pawn, to, captured, types.FlagCapture))
}

// emitPromotions appends the queen-promotion variant to promotions and the
// three underpromotion variants to underproms, reusing the color's piece
// order (Queen=1, Rook=2, Bishop=3, Knight=4 relative to King=0 for white;
// mirrored for black).
func (st *genState) emitPromotions(from, to types.Square, pawn, captured types.Piece, flag types.Flag, promotions, underproms *types.MoveList) {
	var queen, rook, bishop, knight types.Piece
	if st.side == types.White {
		queen, rook, bishop, knight = types.WhiteQueen, types.WhiteRook, types.WhiteBishop, types.WhiteKnight
	} else {
		queen, rook, bishop, knight = types.BlackQueen, types.BlackRook, types.BlackBishop, types.BlackKnight
	}
	promotions.Push(types.NewMove(from, queen, to, captured, flag))
	underproms.Push(types.NewMove(from, rook, to, captured, flag))
	underproms.Push(types.NewMove(from, bishop, to, captured, flag))
	underproms.Push(types.NewMove(from, knight, to, captured, flag))
}

// maybeEmitEnPassant appends the en-passant capture from `from` if legal.
// En passant needs its own horizontal-discovered-check test in addition to
// the usual pin/evasion checks: removing both the capturing pawn and its
// victim from the same rank can expose the king to a rook or queen along
// that rank, a configuration the ordinary pin mask (built from the
// pre-move occupancy) cannot see. It also needs a special evasion case: if
// the checking piece is the pawn that just double-advanced, capturing it
// en passant resolves check even though the landing square is not the
// checker's square.
func (st *genState) maybeEmitEnPassant(from types.Square, pawn types.Piece, ray uint64, captures *types.MoveList) {
	to := st.pos.EP
	if attacks.PawnAttacks[st.side][from]&(uint64(1)<<uint(to)) == 0 {
		return
	}

	var victimSq types.Square
	var victim types.Piece
	if pawn == types.WhitePawn {
		victimSq, victim = to-8, types.BlackPawn
	} else {
		victimSq, victim = to+8, types.WhitePawn
	}

	resolvesNormally := st.evasionMask&(uint64(1)<<uint(to)) != 0
	resolvesViaCapture := st.numCheckers == 1 && st.checkers == uint64(1)<<uint(victimSq)
	if !resolvesNormally && !resolvesViaCapture {
		return
	}
	if ray&(uint64(1)<<uint(to)) == 0 && ray&(uint64(1)<<uint(victimSq)) == 0 {
		return
	}
	if st.wouldExposeKingHorizontally(from, victimSq) {
		return
	}

	captures.Push(types.NewMove(from, pawn, to, victim, types.FlagPassant))
}

// wouldExposeKingHorizontally temporarily removes both the capturing pawn
// and its en-passant victim from the occupancy and checks whether that
// exposes the king to a rook or queen along the shared rank.
func (st *genState) wouldExposeKingHorizontally(from, victimSq types.Square) bool {
	occ := st.pos.Bitboards[types.AllPieces]
	mask := uint64(1)<<uint(from) | uint64(1)<<uint(victimSq)
	newOcc := occ &^ mask

	opp := st.side.Opponent()
	rooks := st.pos.Bitboards[pieceOf(opp, types.WhiteRook, types.BlackRook)] |
		st.pos.Bitboards[pieceOf(opp, types.WhiteQueen, types.BlackQueen)]
	return attacks.RookAttacks(int(st.kingSq), newOcc)&rooks != 0
}
