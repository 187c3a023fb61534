package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMoveRoundTrip(t *testing.T) {
	m := NewMove(SquareFromFileRank(4, 1), WhitePawn, SquareFromFileRank(4, 3), NoPiece, FlagPawn)
	assert.Equal(t, SquareFromFileRank(4, 1), m.From())
	assert.Equal(t, SquareFromFileRank(4, 3), m.To())
	assert.Equal(t, WhitePawn, m.Piece())
	assert.Equal(t, Piece(0), m.Captured())
	assert.Equal(t, FlagPawn, m.Flag())
}

func TestMoveCapturedClampsNegativeToZero(t *testing.T) {
	// NoPiece is -1; since bit-width index 0 doubles as "no capture" (a king
	// can never be the captured piece), NewMove must clamp it rather than
	// wrap to a garbage high bit pattern.
	m := NewMove(0, WhiteQueen, 1, NoPiece, FlagSimple)
	assert.Equal(t, Piece(0), m.Captured())
}

func TestMoveIsCapture(t *testing.T) {
	capture := NewMove(8, WhiteKnight, 17, BlackPawn, FlagCapture)
	passant := NewMove(35, WhitePawn, 44, BlackPawn, FlagPassant)
	promCap := NewMove(52, WhitePawn, 61, BlackRook, FlagPromCap)
	quiet := NewMove(8, WhiteKnight, 17, NoPiece, FlagSimple)

	assert.True(t, capture.IsCapture())
	assert.True(t, passant.IsCapture())
	assert.True(t, promCap.IsCapture())
	assert.False(t, quiet.IsCapture())
}

func TestMoveIsPromotion(t *testing.T) {
	promote := NewMove(52, WhiteQueen, 60, NoPiece, FlagPromote)
	promCap := NewMove(52, WhiteQueen, 61, BlackRook, FlagPromCap)
	quiet := NewMove(8, WhiteKnight, 17, NoPiece, FlagSimple)

	assert.True(t, promote.IsPromotion())
	assert.True(t, promCap.IsPromotion())
	assert.False(t, quiet.IsPromotion())
}

func TestNullMoveIsNull(t *testing.T) {
	assert.True(t, NullMove.IsNull())
	assert.Equal(t, FlagNone, NullMove.Flag())

	real := NewMove(0, WhitePawn, 8, NoPiece, FlagPawn)
	assert.False(t, real.IsNull())
}

func TestPieceMirrorIsInvolution(t *testing.T) {
	for p := Piece(0); p < NumPieces; p++ {
		mirrored := p.Mirror()
		assert.NotEqual(t, p, mirrored)
		assert.Equal(t, p, mirrored.Mirror())
		assert.NotEqual(t, p.IsWhite(), mirrored.IsWhite())
	}
}

func TestPieceMirrorOutOfRangeIsUnchanged(t *testing.T) {
	assert.Equal(t, NoPiece, NoPiece.Mirror())
}

func TestPieceColorAndLetter(t *testing.T) {
	assert.Equal(t, White, WhiteQueen.Color())
	assert.Equal(t, Black, BlackKnight.Color())
	assert.Equal(t, byte('Q'), WhiteQueen.Letter())
	assert.Equal(t, byte('n'), BlackKnight.Letter())
	assert.Equal(t, byte('?'), NoPiece.Letter())
}

func TestColorOpponentAndString(t *testing.T) {
	assert.Equal(t, Black, White.Opponent())
	assert.Equal(t, White, Black.Opponent())
	assert.Equal(t, "w", White.String())
	assert.Equal(t, "b", Black.String())
}

func TestSquareFileRankRoundTrip(t *testing.T) {
	for file := 0; file < 8; file++ {
		for rank := 0; rank < 8; rank++ {
			sq := SquareFromFileRank(file, rank)
			assert.Equal(t, file, sq.File())
			assert.Equal(t, rank, sq.Rank())
		}
	}
}

func TestSquareString(t *testing.T) {
	assert.Equal(t, "a1", SquareFromFileRank(0, 0).String())
	assert.Equal(t, "h8", SquareFromFileRank(7, 7).String())
	assert.Equal(t, "e4", SquareFromFileRank(4, 3).String())
	assert.Equal(t, "-", NoSquare.String())
}

func TestMoveListPushAndReset(t *testing.T) {
	var l MoveList
	m1 := NewMove(0, WhitePawn, 8, NoPiece, FlagPawn)
	m2 := NewMove(8, WhiteKnight, 17, NoPiece, FlagSimple)
	l.Push(m1)
	l.Push(m2)

	assert.Equal(t, 2, l.N)
	assert.Equal(t, []Move{m1, m2}, l.Slice())
	assert.True(t, l.Contains(m1))
	assert.False(t, l.Contains(NewMove(1, WhitePawn, 9, NoPiece, FlagPawn)))

	l.Reset()
	assert.Equal(t, 0, l.N)
	assert.Empty(t, l.Slice())
}

func TestCastlingRightsCombine(t *testing.T) {
	r := WhiteKingside | BlackQueenside
	assert.NotZero(t, r&WhiteKingside)
	assert.NotZero(t, r&BlackQueenside)
	assert.Zero(t, r&WhiteQueenside)
	assert.Equal(t, AllCastling, WhiteKingside|WhiteQueenside|BlackKingside|BlackQueenside)
}
