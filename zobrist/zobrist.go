// Package zobrist implements the incremental position hashing scheme: a
// table of random 64-bit keys, one per (piece, square), plus scalar keys
// for castling rights, the en-passant file, and side to move. The current
// hash is always the XOR of the keys for everything currently true about
// the position; every mutator in the position package must
// XOR out what changed and XOR in what replaced it so the incrementally
// maintained hash never drifts from one recomputed from scratch.
package zobrist

import (
	"math/rand/v2"

	"github.com/treepeck/chegocore/types"
)

var (
	PieceSquare [types.NumPieces][64]uint64
	// EnPassant is keyed by file (0-7); NoSquare contributes EnPassantNone
	// instead so "no en passant" is itself a distinct, stable contribution.
	EnPassant     [8]uint64
	EnPassantNone uint64
	Castling      [16]uint64
	Turn          uint64

	initialized bool
)

// seed is fixed so the key table (and therefore every hash derived from it)
// is stable across runs and processes: one 64-bit random value per
// (piece, square), generated once and never reseeded.
const seed = 0x5A6574436865676F

// Init populates the key tables. Idempotent and safe to call alongside
// attacks.Init at process start; like the attack tables, the result is an
// immutable, cross-goroutine-shareable singleton.
func Init() {
	if initialized {
		return
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x0ff1ce))

	for p := 0; p < types.NumPieces; p++ {
		for sq := 0; sq < 64; sq++ {
			PieceSquare[p][sq] = rng.Uint64()
		}
	}
	for f := 0; f < 8; f++ {
		EnPassant[f] = rng.Uint64()
	}
	EnPassantNone = rng.Uint64()
	for c := 0; c < 16; c++ {
		Castling[c] = rng.Uint64()
	}
	Turn = rng.Uint64()

	initialized = true
}

// Initialized reports whether Init has run.
func Initialized() bool { return initialized }

// EnPassantKey returns the contribution for the given en-passant square
// (types.NoSquare included).
func EnPassantKey(sq types.Square) uint64 {
	if sq == types.NoSquare {
		return EnPassantNone
	}
	return EnPassant[sq.File()]
}
