// Package chego is the facade exposing the core API: a
// single entry point wrapping position/movegen/game with coordinate-
// notation move encode/decode, so a caller never has to import the
// internal packages directly.
package chego

import (
	"context"

	"github.com/seekerror/build"
	"github.com/seekerror/logw"

	"github.com/treepeck/chegocore/attacks"
	"github.com/treepeck/chegocore/chesserr"
	"github.com/treepeck/chegocore/game"
	"github.com/treepeck/chegocore/movegen"
	"github.com/treepeck/chegocore/position"
	"github.com/treepeck/chegocore/types"
	"github.com/treepeck/chegocore/zobrist"
)

var version = build.NewVersion(0, 1, 0)

// Version returns the core's semantic version, for embedding in UCI id
// strings or log lines by callers that link against this package.
func Version() build.Version { return version }

func init() {
	ctx := context.Background()
	attacks.Init()
	zobrist.Init()
	if !attacks.Initialized() || !zobrist.Initialized() {
		// The precomputed attack and Zobrist tables are required for every
		// other operation in the package; failing to build them is the one
		// condition this core treats as fatal at startup.
		logw.Exitf(ctx, "chego: attack/zobrist table initialization failed")
	}
	logw.Infof(ctx, "chego %v initialized", version)
}

// Engine is a single game in progress: a position, its repetition history,
// and the generator scratch state for staged move iteration.
type Engine struct {
	g *game.Game
}

// NewGame starts a new game from the standard initial position.
func NewGame() *Engine {
	return &Engine{g: game.New()}
}

// SetPosition replaces the engine's game with the position described by
// fen, rejecting malformed text or a position that violates the data-model
// invariants.
func SetPosition(fen string) (*Engine, error) {
	g, err := game.FromFEN(fen)
	if err != nil {
		return nil, err
	}
	return &Engine{g: g}, nil
}

// ToFEN serializes the current position.
func (e *Engine) ToFEN() string { return e.g.Pos.FEN() }

// Turn returns the side to move.
func (e *Engine) Turn() types.Color { return e.g.Turn() }

// Hash returns the current Zobrist hash.
func (e *Engine) Hash() uint64 { return e.g.Hash() }

// InCheck reports whether the side to move is in check.
func (e *Engine) InCheck() bool { return e.g.InCheck() }

// IsLegal reports whether move (coordinate notation, e.g. "e2e4",
// "e7e8q", or "0000" for a null move) is legal in the current position.
func (e *Engine) IsLegal(move string) (bool, error) {
	m, err := decodeMove(e.g.Pos, move)
	if err != nil {
		return false, err
	}
	return e.g.IsLegal(m), nil
}

// LegalMoves returns every legal move in coordinate notation.
func (e *Engine) LegalMoves() []string {
	list := e.g.LegalMoves()
	out := make([]string, 0, list.N)
	for _, m := range list.Slice() {
		out = append(out, encodeMove(m))
	}
	return out
}

// StartMoveIteration (re)initializes staged iteration via NextMove.
func (e *Engine) StartMoveIteration() { movegen.Start(e.g.Pos) }

// NextMove returns the next move of the current staged iteration, or
// ok=false once exhausted. Callers must call StartMoveIteration first.
func (e *Engine) NextMove() (move string, ok bool) {
	m, ok := movegen.Next(e.g.Pos)
	if !ok {
		return "", false
	}
	return encodeMove(m), true
}

// Make decodes and applies move, rejecting it with chesserr.IllegalMove if
// it is not legal in the current position.
func (e *Engine) Make(move string) error {
	m, err := decodeMove(e.g.Pos, move)
	if err != nil {
		return err
	}
	if !e.g.IsLegal(m) {
		return chesserr.New(chesserr.IllegalMove, "%q is not legal in position %q", move, e.g.Pos.FEN())
	}
	return e.g.Make(m)
}

// Unmake reverses the most recently made move.
func (e *Engine) Unmake() { e.g.Unmake() }

// HasEnded reports whether the game has reached an automatic terminal
// condition.
func (e *Engine) HasEnded() bool { return e.g.HasEnded() }

// Winner reports the outcome once HasEnded is true.
func (e *Engine) Winner() game.Winner { return e.g.Winner() }

// Score reports a side-to-move-relative evaluation; see game.Game.Score.
// evaluate may be nil, in which case an unresolved non-drawn position
// scores 0 (this package implements no static evaluator of its own).
func (e *Engine) Score(evaluate func(*position.Position) int) int {
	return e.g.Score(evaluate)
}
