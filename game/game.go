// Package game implements terminal-state detection and scoring on top of a
// position: checkmate/stalemate, the 75-move and
// five-fold-repetition automatic draws, FIDE 9.7 insufficient material, and
// a Score function that additionally recognizes the 50-move and threefold
// draws a player could claim even though the game is not yet forced to end.
package game

import (
	"github.com/treepeck/chegocore/bitutil"
	"github.com/treepeck/chegocore/movegen"
	"github.com/treepeck/chegocore/position"
	"github.com/treepeck/chegocore/types"
)

// Winner identifies the outcome once a game has ended.
type Winner int

const (
	NoWinner Winner = iota
	WhiteWins
	BlackWins
	Draw
)

// MaxScore is the magnitude Score reports for a checkmate; search code
// treats it as "forced win/loss", not a literal centipawn value.
const MaxScore = 1 << 20

// Game wraps a Position with the repetition history needed for draw
// detection; the position alone only knows its own hash, not the hashes it
// passed through to get there.
type Game struct {
	Pos     *position.Position
	History []uint64
}

// New starts a game from the standard initial position.
func New() *Game {
	pos := position.NewInitial()
	return &Game{Pos: pos, History: []uint64{pos.Hash}}
}

// FromFEN starts a game from an arbitrary, already-validated position; the
// repetition history begins with that position's hash alone (a position
// reached by FEN has no prior history the caller can vouch for).
func FromFEN(fen string) (*Game, error) {
	pos, err := position.ParseFEN(fen)
	if err != nil {
		return nil, err
	}
	return &Game{Pos: pos, History: []uint64{pos.Hash}}, nil
}

// Turn returns the side to move.
func (g *Game) Turn() types.Color { return g.Pos.Turn }

// Hash returns the current Zobrist hash.
func (g *Game) Hash() uint64 { return g.Pos.Hash }

// InCheck reports whether the side to move is in check.
func (g *Game) InCheck() bool { return movegen.InCheck(g.Pos) }

// HasLegalMoves reports whether the side to move has at least one legal
// move, without materializing the full move list where avoidable.
func (g *Game) HasLegalMoves() bool {
	return movegen.HasLegalMoves(g.Pos)
}

// IsLegal reports whether m is legal in the current position.
func (g *Game) IsLegal(m types.Move) bool { return movegen.IsLegal(g.Pos, m) }

// LegalMoves returns every legal move for the side to move.
func (g *Game) LegalMoves() types.MoveList { return movegen.Generate(g.Pos) }

// Make applies m and records the resulting hash in the repetition history.
func (g *Game) Make(m types.Move) error {
	if err := g.Pos.Make(m); err != nil {
		return err
	}
	g.History = append(g.History, g.Pos.Hash)
	return nil
}

// Unmake reverses the most recent Make, including the repetition history.
func (g *Game) Unmake() {
	g.Pos.Unmake()
	g.History = g.History[:len(g.History)-1]
}

// isFivefoldRepetition implements the stride-2 repetition check:
// the current position recurs if the hashes at plies i, i-2, i-4, i-6 and
// i-8 (same side to move at each) are all equal, i.e. five occurrences of
// the same position with the same side to move.
func (g *Game) isFivefoldRepetition() bool {
	n := len(g.History)
	if n < 9 {
		return false
	}
	cur := g.History[n-1]
	count := 1
	for k := 1; k <= 4; k++ {
		idx := n - 1 - 2*k
		if idx < 0 || g.History[idx] != cur {
			return false
		}
		count++
	}
	return count == 5
}

// isThreefoldRepetition is the weaker, claimable form of the same check,
// scanning the whole history instead of only the fixed eight-ply window.
func (g *Game) isThreefoldRepetition() bool {
	n := len(g.History)
	if n == 0 {
		return false
	}
	cur := g.History[n-1]
	count := 0
	for i := n - 1; i >= 0; i -= 2 {
		if g.History[i] == cur {
			count++
		}
	}
	return count >= 3
}

// squareFileRankParity is 1 for a "light" square and 0 for a dark one in
// the usual sense (parity of file+rank); same-color bishops share this
// parity.
func squareFileRankParity(sq types.Square) int {
	return (sq.File() + sq.Rank()) % 2
}

// IsInsufficientMaterial reports whether neither side has enough material
// to force checkmate, per FIDE 9.7: king vs king, king+minor vs king, or
// opposite kings each with a single bishop of the same square color.
func (g *Game) IsInsufficientMaterial() bool {
	p := g.Pos
	if p.Bitboards[types.WhitePawn]|p.Bitboards[types.BlackPawn] != 0 {
		return false
	}
	if p.Bitboards[types.WhiteRook]|p.Bitboards[types.BlackRook]|
		p.Bitboards[types.WhiteQueen]|p.Bitboards[types.BlackQueen] != 0 {
		return false
	}

	wn := bitutil.PopCount(p.Bitboards[types.WhiteKnight])
	wb := bitutil.PopCount(p.Bitboards[types.WhiteBishop])
	bn := bitutil.PopCount(p.Bitboards[types.BlackKnight])
	bb := bitutil.PopCount(p.Bitboards[types.BlackBishop])
	total := wn + wb + bn + bb

	switch {
	case total == 0:
		return true
	case total == 1:
		return true
	case total == 2 && wb == 1 && bb == 1 && wn == 0 && bn == 0:
		whiteSq := types.Square(bitutil.LSBIndex(p.Bitboards[types.WhiteBishop]))
		blackSq := types.Square(bitutil.LSBIndex(p.Bitboards[types.BlackBishop]))
		return squareFileRankParity(whiteSq) == squareFileRankParity(blackSq)
	default:
		return false
	}
}

// HasEnded reports whether the game has reached one of the automatic
// terminal conditions: no legal move (checkmate or stalemate), the 75-move
// rule, five-fold repetition, or insufficient material. The 50-move and
// threefold conditions are claimable, not automatic, so they are not
// checked here — see Score.
func (g *Game) HasEnded() bool {
	if !g.HasLegalMoves() {
		return true
	}
	if g.Pos.HalfmoveClock >= 150 {
		return true
	}
	if g.isFivefoldRepetition() {
		return true
	}
	if g.IsInsufficientMaterial() {
		return true
	}
	return false
}

// Winner reports the outcome once HasEnded is true. Calling it before the
// game has ended returns NoWinner.
func (g *Game) Winner() Winner {
	if !g.HasEnded() {
		return NoWinner
	}
	if !g.HasLegalMoves() {
		if g.InCheck() {
			if g.Pos.Turn == types.White {
				return BlackWins
			}
			return WhiteWins
		}
		return Draw
	}
	return Draw
}

// Score returns a side-to-move-relative evaluation: ±MaxScore on
// checkmate, 0 on any recognized draw (stalemate, the 75/50-move rules,
// three- or five-fold repetition, insufficient material), or whatever
// evaluate reports otherwise. evaluate may be nil, in which case an
// unresolved non-drawn position scores 0 — this package implements no
// static evaluator of its own.
func (g *Game) Score(evaluate func(*position.Position) int) int {
	if !g.HasLegalMoves() {
		if g.InCheck() {
			return -MaxScore
		}
		return 0
	}
	if g.Pos.HalfmoveClock >= 100 {
		return 0
	}
	if g.isThreefoldRepetition() {
		return 0
	}
	if g.IsInsufficientMaterial() {
		return 0
	}
	if evaluate == nil {
		return 0
	}
	return evaluate(g.Pos)
}
