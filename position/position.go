// Package position implements the mutable chess position and the
// make/unmake machinery that mutates it in place. A Position owns its
// bitboards, its undo stack, and the move
// generator's scratch buffer (cursor, phase, evasion mask) so that a search
// can make/unmake repeatedly with no allocation in steady state. It
// depends only on types, bitutil, chesserr, zobrist and attacks — never on
// movegen or game — so that those higher layers can depend on it without
// forming an import cycle.
package position

import (
	"strconv"
	"strings"

	"github.com/treepeck/chegocore/attacks"
	"github.com/treepeck/chegocore/bitutil"
	"github.com/treepeck/chegocore/chesserr"
	"github.com/treepeck/chegocore/types"
	"github.com/treepeck/chegocore/zobrist"
)

// InitialFEN is the standard chess starting position.
const InitialFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// undoEntry is one record of the undo stack: everything needed to restore
// the position to what it was immediately before the paired Move was made.
// Stored in a single owning slice indexed by ply, one record type holding
// every prior-state field.
type undoEntry struct {
	Move Move

	PriorCastling types.CastlingRights
	PriorEP       types.Square
	PriorHalfmove int
	PriorFullmove int
	PriorTurn     types.Color

	PriorEvasionMask uint64
	PriorGenPhase    int
	PriorGenCursor   int
}

// Move is an alias so package consumers don't need a separate import just
// to spell the move type; the packed encoding itself lives in types.
type Move = types.Move

// maxPlies bounds the undo stack; exceeding it is the one capacity failure
// the core reports as a capacity error. 100,000 plies is far
// beyond any game or search line a single-threaded core will ever build.
const maxPlies = 100_000

// Position is the mutable chess position. Not safe for concurrent use; a
// multi-threaded search is expected to Clone() a separate instance per
// worker.
type Position struct {
	// Bitboards holds 15 planes: 0-11 per-piece (types.Piece order), 12 all
	// pieces, 13 white pieces, 14 black pieces.
	Bitboards [types.NumPlanes]uint64

	Turn           types.Color
	Castling       types.CastlingRights
	EP             types.Square
	HalfmoveClock  int
	FullmoveNumber int

	// Hash is the Zobrist hash maintained incrementally by every mutator.
	Hash uint64

	// Generator scratch state. Checkers/evasion mask/pin mask are recomputed
	// for the side to move by refreshGenState (called from Make and
	// ParseFEN); GenBuf/GenPhase/GenCursor are then filled in phase by phase
	// by package movegen's staged generator.
	GenBuf         types.MoveList
	GenPhase       int
	GenCursor      int
	EvasionMask    uint64
	GenPinMask     [64]uint64
	GenNumCheckers int

	undo []undoEntry
}

// NewInitial returns the standard starting position.
func NewInitial() *Position {
	p, err := ParseFEN(InitialFEN)
	if err != nil {
		panic("position: standard initial FEN failed to parse: " + err.Error())
	}
	return p
}

// Clone deep-copies the position, including the undo stack up to the
// current ply, so a caller can hand a worker its own independent instance.
func (p *Position) Clone() *Position {
	c := *p
	c.undo = make([]undoEntry, len(p.undo))
	copy(c.undo, p.undo)
	return &c
}

// Ply returns the number of moves made so far (the undo stack's logical
// length).
func (p *Position) Ply() int { return len(p.undo) }

// togglePiece XORs piece onto/off sq in the per-piece, per-color and
// all-pieces bitboards, and XORs the matching Zobrist key into Hash. It is
// its own inverse: calling it twice with the same arguments is a no-op on
// every field it touches, which is what lets make/unmake primitives share
// one implementation (see undo.go).
func (p *Position) togglePiece(piece types.Piece, sq types.Square) {
	bb := uint64(1) << uint(sq)
	p.Bitboards[piece] ^= bb
	if piece.IsWhite() {
		p.Bitboards[types.WhiteAll] ^= bb
	} else {
		p.Bitboards[types.BlackAll] ^= bb
	}
	p.Bitboards[types.AllPieces] ^= bb
	p.Hash ^= zobrist.PieceSquare[piece][sq]
}

// setCastling replaces the current castling-rights contribution to Hash
// with the one for newRights. Direction-agnostic: calling it with the
// position's own prior value restores the prior hash contribution exactly
// as cleanly as calling it with a freshly computed new value advances it,
// which is what lets make and unmake share it.
func (p *Position) setCastling(newRights types.CastlingRights) {
	p.Hash ^= zobrist.Castling[p.Castling]
	p.Castling = newRights
	p.Hash ^= zobrist.Castling[p.Castling]
}

// setEP is the en-passant analogue of setCastling.
func (p *Position) setEP(sq types.Square) {
	p.Hash ^= zobrist.EnPassantKey(p.EP)
	p.EP = sq
	p.Hash ^= zobrist.EnPassantKey(p.EP)
}

// PieceAt returns the piece occupying sq, or types.NoPiece if empty.
func (p *Position) PieceAt(sq types.Square) types.Piece {
	bb := uint64(1) << uint(sq)
	if p.Bitboards[types.AllPieces]&bb == 0 {
		return types.NoPiece
	}
	for piece := types.Piece(0); piece < types.NumPieces; piece++ {
		if p.Bitboards[piece]&bb != 0 {
			return piece
		}
	}
	return types.NoPiece
}

// IsSquareAttacked reports whether sq is attacked by the given color, using
// the current occupancy. Used both by FEN validation (invariant 5) and by
// the move generator for king-move legality and castling legality.
func (p *Position) IsSquareAttacked(sq types.Square, by types.Color) bool {
	occ := p.Bitboards[types.AllPieces]

	if attacks.KnightAttacks[sq]&p.Bitboards[pieceOf(by, types.WhiteKnight, types.BlackKnight)] != 0 {
		return true
	}
	if attacks.KingAttacks[sq]&p.Bitboards[pieceOf(by, types.WhiteKing, types.BlackKing)] != 0 {
		return true
	}
	bishops := p.Bitboards[pieceOf(by, types.WhiteBishop, types.BlackBishop)] |
		p.Bitboards[pieceOf(by, types.WhiteQueen, types.BlackQueen)]
	if attacks.BishopAttacks(int(sq), occ)&bishops != 0 {
		return true
	}
	rooks := p.Bitboards[pieceOf(by, types.WhiteRook, types.BlackRook)] |
		p.Bitboards[pieceOf(by, types.WhiteQueen, types.BlackQueen)]
	if attacks.RookAttacks(int(sq), occ)&rooks != 0 {
		return true
	}
	// Pawn attacks are keyed by the defender's color: a pawn of color `by`
	// threatens sq from the squares attacks.PawnAttacks[by.Opponent()][sq]
	// covers, i.e. the squares a sq-occupying pawn of the opposite color
	// would itself attack.
	return attacks.PawnAttacks[by.Opponent()][sq]&p.Bitboards[pieceOf(by, types.WhitePawn, types.BlackPawn)] != 0
}

func pieceOf(c types.Color, white, black types.Piece) types.Piece {
	if c == types.White {
		return white
	}
	return black
}

// KingSquare returns the square of the color's king.
func (p *Position) KingSquare(c types.Color) types.Square {
	bb := p.Bitboards[pieceOf(c, types.WhiteKing, types.BlackKing)]
	return types.Square(firstSquare(bb))
}

func firstSquare(bb uint64) int {
	if bb == 0 {
		return 0
	}
	return bitutil.LSBIndex(bb)
}

// Validate checks the §3 data-model invariants that can be checked without
// reference to how the position was reached (invariants 1-6; invariant 7,
// the en-passant shape check, is enforced during FEN parsing itself since
// it needs the raw field, not just the resulting bitboards).
func (p *Position) Validate() error {
	wk := types.WhiteKing
	bk := types.BlackKing
	if bitutil.PopCount(p.Bitboards[wk]) != 1 || bitutil.PopCount(p.Bitboards[bk]) != 1 {
		return chesserr.New(chesserr.InvalidPosition, "exactly one king per side required")
	}

	var union, seen uint64
	for piece := types.Piece(0); piece < types.NumPieces; piece++ {
		bb := p.Bitboards[piece]
		if bb&seen != 0 {
			return chesserr.New(chesserr.InvalidPosition, "piece bitboards overlap")
		}
		seen |= bb
		union |= bb
	}
	if union != p.Bitboards[types.AllPieces] {
		return chesserr.New(chesserr.InvalidPosition, "per-piece union does not match all-pieces bitboard")
	}
	if p.Bitboards[types.WhiteAll]&p.Bitboards[types.BlackAll] != 0 {
		return chesserr.New(chesserr.InvalidPosition, "white and black bitboards overlap")
	}
	if p.Bitboards[types.WhiteAll]|p.Bitboards[types.BlackAll] != p.Bitboards[types.AllPieces] {
		return chesserr.New(chesserr.InvalidPosition, "color bitboards do not union to all pieces")
	}

	pawns := p.Bitboards[types.WhitePawn] | p.Bitboards[types.BlackPawn]
	const rank1And8 = 0xFF000000000000FF
	if pawns&rank1And8 != 0 {
		return chesserr.New(chesserr.InvalidPosition, "pawn on first or eighth rank")
	}

	if p.IsSquareAttacked(p.KingSquare(p.Turn.Opponent()), p.Turn) {
		return chesserr.New(chesserr.InvalidPosition, "side not to move is in check")
	}

	return p.validateCastlingRights()
}

func (p *Position) validateCastlingRights() error {
	check := func(right types.CastlingRights, king types.Piece, kingSq types.Square, rook types.Piece, rookSq types.Square) error {
		if p.Castling&right == 0 {
			return nil
		}
		if p.Bitboards[king]&(uint64(1)<<uint(kingSq)) == 0 || p.Bitboards[rook]&(uint64(1)<<uint(rookSq)) == 0 {
			return chesserr.New(chesserr.InvalidPosition, "castling right set without king/rook on home squares")
		}
		return nil
	}
	if err := check(types.WhiteKingside, types.WhiteKing, 4, types.WhiteRook, 7); err != nil {
		return err
	}
	if err := check(types.WhiteQueenside, types.WhiteKing, 4, types.WhiteRook, 0); err != nil {
		return err
	}
	if err := check(types.BlackKingside, types.BlackKing, 60, types.BlackRook, 63); err != nil {
		return err
	}
	if err := check(types.BlackQueenside, types.BlackKing, 60, types.BlackRook, 56); err != nil {
		return err
	}
	return nil
}

// ParseFEN parses a FEN string, rejecting any
// string that does not match it and any parsed position that violates the
// §3 invariants.
func ParseFEN(fen string) (*Position, error) {
	fields := strings.Fields(fen)
	if len(fields) != 6 {
		return nil, chesserr.New(chesserr.MalformedInput, "expected 6 space-separated fields, got %d", len(fields))
	}

	p := &Position{EP: types.NoSquare}

	if err := parsePlacement(p, fields[0]); err != nil {
		return nil, err
	}

	switch fields[1] {
	case "w":
		p.Turn = types.White
	case "b":
		p.Turn = types.Black
	default:
		return nil, chesserr.New(chesserr.MalformedInput, "side to move must be 'w' or 'b', got %q", fields[1])
	}

	if err := parseCastling(p, fields[2]); err != nil {
		return nil, err
	}

	epSq, err := parseEPField(fields[3])
	if err != nil {
		return nil, err
	}
	p.EP = epSq
	if epSq != types.NoSquare {
		// Invariant 7: the EP square must sit immediately behind a pawn
		// that just double-advanced.
		var behindRank, pawnRank int
		var pawn types.Piece
		if p.Turn == types.White {
			behindRank, pawnRank, pawn = 5, 4, types.BlackPawn
		} else {
			behindRank, pawnRank, pawn = 2, 3, types.WhitePawn
		}
		if epSq.Rank() != behindRank {
			return nil, chesserr.New(chesserr.InvalidPosition, "en passant square on wrong rank")
		}
		pawnSq := types.SquareFromFileRank(epSq.File(), pawnRank)
		if p.Bitboards[pawn]&(uint64(1)<<uint(pawnSq)) == 0 {
			return nil, chesserr.New(chesserr.InvalidPosition, "en passant square has no adjacent double-advanced pawn")
		}
	}

	p.HalfmoveClock, err = parseNonNegativeInt(fields[4], "halfmove clock")
	if err != nil {
		return nil, err
	}
	p.FullmoveNumber, err = parseNonNegativeInt(fields[5], "fullmove number")
	if err != nil {
		return nil, err
	}
	if p.FullmoveNumber == 0 {
		return nil, chesserr.New(chesserr.MalformedInput, "fullmove number must be >= 1")
	}

	if !attacks.Initialized() {
		attacks.Init()
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	p.Hash = p.ComputeHash()
	p.refreshGenState()
	return p, nil
}

func parseNonNegativeInt(s, field string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, chesserr.New(chesserr.MalformedInput, "invalid %s %q", field, s)
	}
	return n, nil
}

var fenPieceToType = map[byte]types.Piece{
	'K': types.WhiteKing, 'Q': types.WhiteQueen, 'R': types.WhiteRook,
	'B': types.WhiteBishop, 'N': types.WhiteKnight, 'P': types.WhitePawn,
	'k': types.BlackKing, 'q': types.BlackQueen, 'r': types.BlackRook,
	'b': types.BlackBishop, 'n': types.BlackKnight, 'p': types.BlackPawn,
}

func parsePlacement(p *Position, field string) error {
	ranks := strings.Split(field, "/")
	if len(ranks) != 8 {
		return chesserr.New(chesserr.MalformedInput, "piece placement must have 8 ranks, got %d", len(ranks))
	}
	// Ranks are listed 8..1 in FEN; square numbering has rank 1 at index 0.
	for i, rankStr := range ranks {
		rank := 7 - i
		file := 0
		for j := 0; j < len(rankStr); j++ {
			c := rankStr[j]
			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}
			piece, ok := fenPieceToType[c]
			if !ok {
				return chesserr.New(chesserr.MalformedInput, "invalid piece letter %q", string(c))
			}
			if file >= 8 {
				return chesserr.New(chesserr.MalformedInput, "rank %d has more than 8 files", rank+1)
			}
			sq := types.SquareFromFileRank(file, rank)
			bb := uint64(1) << uint(sq)
			p.Bitboards[piece] |= bb
			if piece.IsWhite() {
				p.Bitboards[types.WhiteAll] |= bb
			} else {
				p.Bitboards[types.BlackAll] |= bb
			}
			p.Bitboards[types.AllPieces] |= bb
			file++
		}
		if file != 8 {
			return chesserr.New(chesserr.MalformedInput, "rank %d does not sum to 8 files", rank+1)
		}
	}
	return nil
}

func parseCastling(p *Position, field string) error {
	if field == "-" {
		return nil
	}
	order := "KQkq"
	rights := []types.CastlingRights{types.WhiteKingside, types.WhiteQueenside, types.BlackKingside, types.BlackQueenside}
	last := -1
	for i := 0; i < len(field); i++ {
		idx := strings.IndexByte(order, field[i])
		if idx < 0 || idx <= last {
			return chesserr.New(chesserr.MalformedInput, "invalid castling field %q", field)
		}
		last = idx
		p.Castling |= rights[idx]
	}
	return nil
}

func parseEPField(field string) (types.Square, error) {
	if field == "-" {
		return types.NoSquare, nil
	}
	if len(field) != 2 || field[0] < 'a' || field[0] > 'h' || (field[1] != '3' && field[1] != '6') {
		return types.NoSquare, chesserr.New(chesserr.MalformedInput, "invalid en passant square %q", field)
	}
	file := int(field[0] - 'a')
	rank := int(field[1] - '1')
	return types.SquareFromFileRank(file, rank), nil
}

// FEN serializes the position back into FEN text.
func (p *Position) FEN() string {
	var b strings.Builder
	b.Grow(64)

	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			sq := types.SquareFromFileRank(file, rank)
			piece := p.PieceAt(sq)
			if piece == types.NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				b.WriteByte('0' + byte(empty))
				empty = 0
			}
			b.WriteByte(piece.Letter())
		}
		if empty > 0 {
			b.WriteByte('0' + byte(empty))
		}
		if rank != 0 {
			b.WriteByte('/')
		}
	}

	b.WriteByte(' ')
	b.WriteString(p.Turn.String())
	b.WriteByte(' ')

	if p.Castling == types.NoCastling {
		b.WriteByte('-')
	} else {
		if p.Castling&types.WhiteKingside != 0 {
			b.WriteByte('K')
		}
		if p.Castling&types.WhiteQueenside != 0 {
			b.WriteByte('Q')
		}
		if p.Castling&types.BlackKingside != 0 {
			b.WriteByte('k')
		}
		if p.Castling&types.BlackQueenside != 0 {
			b.WriteByte('q')
		}
	}
	b.WriteByte(' ')

	if p.EP == types.NoSquare {
		b.WriteByte('-')
	} else {
		b.WriteString(p.EP.String())
	}
	b.WriteByte(' ')

	b.WriteString(strconv.Itoa(p.HalfmoveClock))
	b.WriteByte(' ')
	b.WriteString(strconv.Itoa(p.FullmoveNumber))

	return b.String()
}

// ComputeHash recomputes the Zobrist hash from scratch, used by
// hash-consistency property tests to check it against the incrementally
// maintained Hash field.
func (p *Position) ComputeHash() uint64 {
	var h uint64
	for piece := types.Piece(0); piece < types.NumPieces; piece++ {
		bb := p.Bitboards[piece]
		for bb != 0 {
			sq := bitutil.PopLSB(&bb)
			h ^= zobrist.PieceSquare[piece][sq]
		}
	}
	h ^= zobrist.Castling[p.Castling]
	h ^= zobrist.EnPassantKey(p.EP)
	if p.Turn == types.Black {
		h ^= zobrist.Turn
	}
	return h
}
