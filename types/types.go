// Package types declares the fixed-size value types shared by every core
// package: pieces, colors, squares, castling rights, and the packed move
// encoding. Kept free of any other chegocore package on purpose so every
// other package in the module can import it without risking an import
// cycle.
package types

import "golang.org/x/exp/slices"

// Color identifies a side to move.
type Color int

const (
	White Color = iota
	Black
)

// Opponent returns the other color.
func (c Color) Opponent() Color { return c ^ 1 }

func (c Color) String() string {
	if c == White {
		return "w"
	}
	return "b"
}

// Piece indexes the twelve piece kinds plus the three aggregate bitboards
// (AllPieces, WhiteAll, BlackAll) that a position.Position keeps alongside
// them. The ordering is fixed: white pieces descending in value (K Q R B N P)
// followed by black pieces ascending in value (P N B R Q K). A value-ordered
// capture loop that walks the piece indices in order therefore visits the
// most valuable victim first without any extra sorting step.
type Piece int

const (
	WhiteKing Piece = iota
	WhiteQueen
	WhiteRook
	WhiteBishop
	WhiteKnight
	WhitePawn
	BlackPawn
	BlackKnight
	BlackBishop
	BlackRook
	BlackQueen
	BlackKing

	NumPieces = 12

	AllPieces   Piece = 12
	WhiteAll    Piece = 13
	BlackAll    Piece = 14
	NumPlanes         = 15
	NoPiece     Piece = -1
)

// Mirror returns the same piece kind of the opposite color, e.g.
// Mirror(WhiteQueen) == BlackQueen. Because the ordering is a palindrome
// around the midpoint, the mirrored index of piece p is NumPieces-1-p.
func (p Piece) Mirror() Piece {
	if p < 0 || p >= NumPieces {
		return p
	}
	return NumPieces - 1 - p
}

// IsWhite reports whether p is one of the six white piece kinds.
func (p Piece) IsWhite() bool { return p >= WhiteKing && p <= WhitePawn }

// IsBlack reports whether p is one of the six black piece kinds.
func (p Piece) IsBlack() bool { return p >= BlackPawn && p <= BlackKing }

// Color returns the color that owns p. Any value that is not a white piece
// kind, NoPiece included, reports Black; callers at the FEN/move boundary
// are expected to have validated input already (see
// chesserr.InvalidPosition / chesserr.MalformedInput).
func (p Piece) Color() Color {
	if p.IsWhite() {
		return White
	}
	return Black
}

var pieceLetters = [NumPieces]byte{
	'K', 'Q', 'R', 'B', 'N', 'P',
	'p', 'n', 'b', 'r', 'q', 'k',
}

// Letter returns the FEN piece letter for p.
func (p Piece) Letter() byte {
	if p < 0 || p >= NumPieces {
		return '?'
	}
	return pieceLetters[p]
}

// Square is a board coordinate in 0..63, A1=0, H1=7, A8=56, H8=63.
type Square int

const NoSquare Square = 0x7F

// File returns 0 (a-file) through 7 (h-file).
func (s Square) File() int { return int(s) % 8 }

// Rank returns 0 (rank 1) through 7 (rank 8).
func (s Square) Rank() int { return int(s) / 8 }

func (s Square) String() string {
	if s < 0 || s > 63 {
		return "-"
	}
	return string([]byte{"abcdefgh"[s.File()], "12345678"[s.Rank()]})
}

// SquareFromFileRank builds a square from 0-based file/rank.
func SquareFromFileRank(file, rank int) Square { return Square(rank*8 + file) }

// CastlingRights packs the four castling privileges into one nibble.
type CastlingRights byte

const (
	WhiteKingside CastlingRights = 1 << iota
	WhiteQueenside
	BlackKingside
	BlackQueenside

	NoCastling CastlingRights = 0
	AllCastling CastlingRights = WhiteKingside | WhiteQueenside | BlackKingside | BlackQueenside
)

// Flag identifies which make/unmake primitive a [Move] dispatches to.
type Flag int

const (
	// FlagNone never appears on a real move; it marks [NullMove].
	FlagNone Flag = iota
	FlagSimple
	FlagPawn
	FlagCapture
	FlagPassant
	FlagCastle
	FlagPromote
	FlagPromCap
)

// Move packs a legal (or pseudo-legal, pre-validation) move into a 24-bit
// integer, matching the wire contract: bits 0-5 from, bits 6-9 moving piece
// (or the promoted-to piece, for promotions), bits 10-15 to, bits 16-19
// captured piece (0 meaning none — WhiteKing can never be captured so index
// 0 is a safe sentinel), bits 20-23 flag.
type Move uint32

// NullMove is distinct from any legal move: every field is zero and the flag
// is the reserved FlagNone.
const NullMove Move = 0

// NewMove packs a move from its fields.
func NewMove(from Square, piece Piece, to Square, captured Piece, flag Flag) Move {
	cap := captured
	if cap < 0 {
		cap = 0
	}
	return Move(uint32(from)&0x3F |
		(uint32(piece)&0xF)<<6 |
		(uint32(to)&0x3F)<<10 |
		(uint32(cap)&0xF)<<16 |
		(uint32(flag)&0xF)<<20)
}

func (m Move) From() Square     { return Square(m & 0x3F) }
func (m Move) Piece() Piece     { return Piece((m >> 6) & 0xF) }
func (m Move) To() Square       { return Square((m >> 10) & 0x3F) }
func (m Move) Captured() Piece  { return Piece((m >> 16) & 0xF) }
func (m Move) Flag() Flag       { return Flag((m >> 20) & 0xF) }
func (m Move) IsCapture() bool  { f := m.Flag(); return f == FlagCapture || f == FlagPassant || f == FlagPromCap }
func (m Move) IsNull() bool     { return m == NullMove }
func (m Move) IsPromotion() bool {
	f := m.Flag()
	return f == FlagPromote || f == FlagPromCap
}

// Generation phases a staged move generator steps through in order; Phase
// is exported so both the position package (which owns the generator's
// scratch cursor/phase fields) and the movegen package (which fills them
// phase by phase) can share one definition without movegen importing
// position or vice versa. PhaseEvasions replaces the other four when the
// side to move is in check.
type Phase int

const (
	PhasePromotions Phase = iota
	PhaseCaptures
	PhaseOther
	PhaseUnderproms
	PhaseEvasions
	PhaseDone
)

// MaxMoves bounds the number of legal moves in any reachable chess position
// (the theoretical maximum is 218); used to size fixed move buffers so
// steady-state generation never allocates.
const MaxMoves = 218

// MoveList is a fixed-capacity, non-allocating buffer of moves.
type MoveList struct {
	Moves [MaxMoves]Move
	N     int
}

// Push appends a move. Caller guarantees the list is not already full.
func (l *MoveList) Push(m Move) {
	l.Moves[l.N] = m
	l.N++
}

// Reset empties the list for reuse without releasing its backing array.
func (l *MoveList) Reset() { l.N = 0 }

// Slice returns the populated prefix of the buffer.
func (l *MoveList) Slice() []Move { return l.Moves[:l.N] }

// Contains reports whether m is present in the list.
func (l *MoveList) Contains(m Move) bool {
	return slices.Contains(l.Slice(), m)
}
