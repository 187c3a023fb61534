package position

import (
	"github.com/treepeck/chegocore/attacks"
	"github.com/treepeck/chegocore/bitutil"
	"github.com/treepeck/chegocore/types"
)

// Checkers returns the bitboard of enemy pieces currently attacking side's
// king. Shared by movegen's eager Generate path and by the position's own
// generator-scratch refresh so the two never drift apart.
func (p *Position) Checkers(side types.Color) uint64 {
	opp := side.Opponent()
	kingSq := p.KingSquare(side)
	occ := p.Bitboards[types.AllPieces]

	var checkers uint64
	checkers |= attacks.KnightAttacks[kingSq] & p.Bitboards[pieceOf(opp, types.WhiteKnight, types.BlackKnight)]
	checkers |= attacks.PawnAttacks[side][kingSq] & p.Bitboards[pieceOf(opp, types.WhitePawn, types.BlackPawn)]

	bishops := p.Bitboards[pieceOf(opp, types.WhiteBishop, types.BlackBishop)] |
		p.Bitboards[pieceOf(opp, types.WhiteQueen, types.BlackQueen)]
	checkers |= attacks.BishopAttacks(int(kingSq), occ) & bishops

	rooks := p.Bitboards[pieceOf(opp, types.WhiteRook, types.BlackRook)] |
		p.Bitboards[pieceOf(opp, types.WhiteQueen, types.BlackQueen)]
	checkers |= attacks.RookAttacks(int(kingSq), occ) & rooks

	return checkers
}

func isSlider(p types.Piece) bool {
	switch p {
	case types.WhiteBishop, types.WhiteRook, types.WhiteQueen,
		types.BlackBishop, types.BlackRook, types.BlackQueen:
		return true
	}
	return false
}

// EvasionMaskFor returns the set of destination squares that resolve check
// for side, given its already-computed checkers bitboard: all squares if
// none, the checking square (plus, for a slider, the squares between it and
// the king) in single check,
// zero in double check (only a king move resolves a double check, and king
// moves are never filtered by this mask at all).
func (p *Position) EvasionMaskFor(side types.Color, checkers uint64) uint64 {
	switch bitutil.PopCount(checkers) {
	case 0:
		return ^uint64(0)
	case 1:
		checkerSq := types.Square(bitutil.LSBIndex(checkers))
		if isSlider(p.PieceAt(checkerSq)) {
			return attacks.PinRay[p.KingSquare(side)][checkerSq]
		}
		return checkers
	default:
		return 0
	}
}

// PinMaskFor finds every one of side's pieces pinned against its own king by
// an enemy slider, using the classic x-ray technique: attack from the king
// as if side's own pieces were transparent, intersect with enemy sliders of
// the matching geometry, then verify exactly one of side's own pieces
// actually sits between king and slider. The result is indexed by square;
// an unpinned square (including an empty one) reads as all-ones.
func (p *Position) PinMaskFor(side types.Color) [64]uint64 {
	var mask [64]uint64
	for i := range mask {
		mask[i] = ^uint64(0)
	}

	opp := side.Opponent()
	kingSq := p.KingSquare(side)
	occ := p.Bitboards[types.AllPieces]
	own := p.Bitboards[pieceOf(side, types.WhiteAll, types.BlackAll)]
	withoutOwn := occ &^ own

	scan := func(xray, sliders uint64) {
		candidates := xray & sliders
		for candidates != 0 {
			sliderSq := types.Square(bitutil.PopLSB(&candidates))
			ray := attacks.PinRay[kingSq][sliderSq]
			blockers := ray & occ &^ (uint64(1) << uint(sliderSq))
			if bitutil.PopCount(blockers) == 1 && blockers&own != 0 {
				pinnedSq := bitutil.LSBIndex(blockers)
				mask[pinnedSq] = ray
			}
		}
	}

	bishops := p.Bitboards[pieceOf(opp, types.WhiteBishop, types.BlackBishop)] |
		p.Bitboards[pieceOf(opp, types.WhiteQueen, types.BlackQueen)]
	scan(attacks.BishopAttacks(int(kingSq), withoutOwn), bishops)

	rooks := p.Bitboards[pieceOf(opp, types.WhiteRook, types.BlackRook)] |
		p.Bitboards[pieceOf(opp, types.WhiteQueen, types.BlackQueen)]
	scan(attacks.RookAttacks(int(kingSq), withoutOwn), rooks)

	return mask
}

// refreshGenState recomputes the evasion mask and pin mask for the side now
// to move and resets the staged-generation phase/cursor to the start of a
// fresh iteration. Called by Make (for the side about to move) and by
// ParseFEN (for the position's starting side); Unmake restores the evasion
// mask and phase/cursor from the undo entry instead of recomputing them,
// since those three are explicitly part of the saved undo record, but still
// refreshes the pin mask itself since that one is not undo-stack-backed.
func (p *Position) refreshGenState() {
	checkers := p.Checkers(p.Turn)
	p.EvasionMask = p.EvasionMaskFor(p.Turn, checkers)
	p.GenPinMask = p.PinMaskFor(p.Turn)
	p.GenNumCheckers = bitutil.PopCount(checkers)
	if p.GenNumCheckers > 0 {
		p.GenPhase = int(types.PhaseEvasions)
	} else {
		p.GenPhase = int(types.PhasePromotions)
	}
	p.GenCursor = 0
	p.GenBuf.Reset()
}
