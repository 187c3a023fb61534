package movegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treepeck/chegocore/attacks"
	"github.com/treepeck/chegocore/position"
	"github.com/treepeck/chegocore/types"
	"github.com/treepeck/chegocore/zobrist"
)

func init() {
	attacks.Init()
	zobrist.Init()
}

func perft(pos *position.Position, depth int) int64 {
	if depth == 0 {
		return 1
	}
	moves := Generate(pos)
	if depth == 1 {
		return int64(moves.N)
	}
	var nodes int64
	for _, m := range moves.Slice() {
		_ = pos.Make(m)
		nodes += perft(pos, depth-1)
		pos.Unmake()
	}
	return nodes
}

// TestPerftStandard checks the well-known perft node counts from the
// standard initial position.
func TestPerftStandard(t *testing.T) {
	pos := position.NewInitial()
	want := []int64{1, 20, 400, 8902, 197281, 4865609}
	for depth, w := range want {
		got := perft(pos, depth)
		assert.Equalf(t, w, got, "perft(%d) from initial position", depth)
	}
}

// TestPerftKiwipete exercises castling, en passant and promotions together,
// using the widely published "Kiwipete" test position.
func TestPerftKiwipete(t *testing.T) {
	fen := "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	pos, err := position.ParseFEN(fen)
	require.NoError(t, err)
	assert.Equal(t, int64(48), perft(pos, 1))
	assert.Equal(t, int64(2039), perft(pos, 2))
	assert.Equal(t, int64(97862), perft(pos, 3))
	assert.Equal(t, int64(4085603), perft(pos, 4))
}

// TestPerftPosition3 is the classic endgame-ish test position that stresses
// en passant and pin interactions along open files.
func TestPerftPosition3(t *testing.T) {
	fen := "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1"
	pos, err := position.ParseFEN(fen)
	require.NoError(t, err)
	want := []int64{1, 14, 191, 2812, 43238}
	for depth, w := range want {
		assert.Equalf(t, w, perft(pos, depth), "perft(%d) from position 3", depth)
	}
}

// TestPerftPosition4 exercises promotions, castling and discovered checks
// from an asymmetric middlegame position.
func TestPerftPosition4(t *testing.T) {
	fen := "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1"
	pos, err := position.ParseFEN(fen)
	require.NoError(t, err)
	want := []int64{1, 6, 264, 9467}
	for depth, w := range want {
		assert.Equalf(t, w, perft(pos, depth), "perft(%d) from position 4", depth)
	}
}

// TestPerftPosition5 is another widely used regression position for
// generator bugs around pins and castling rights bookkeeping.
func TestPerftPosition5(t *testing.T) {
	fen := "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8"
	pos, err := position.ParseFEN(fen)
	require.NoError(t, err)
	want := []int64{1, 44, 1486, 62379}
	for depth, w := range want {
		assert.Equalf(t, w, perft(pos, depth), "perft(%d) from position 5", depth)
	}
}

// TestEnPassantDiscoveredCheckExcluded exercises the horizontal
// discovered-check exclusion: black capturing en passant on d3 would
// remove both the d4 and e4 pawns from the fourth rank, exposing the black
// king on a4 to the white queen on h4, so the capture must not appear in
// the legal move list even though nothing else currently prevents it.
func TestEnPassantDiscoveredCheckExcluded(t *testing.T) {
	fen := "8/8/8/8/k2Pp2Q/8/8/K7 b - d3 0 1"
	pos, err := position.ParseFEN(fen)
	require.NoError(t, err)

	moves := Generate(pos)
	for _, m := range moves.Slice() {
		assert.NotEqual(t, types.FlagPassant, m.Flag(), "en passant capture must be excluded: %v", m)
	}
}

func TestMoveCountNeverExceedsCapacity(t *testing.T) {
	pos := position.NewInitial()
	moves := Generate(pos)
	assert.LessOrEqual(t, moves.N, 218)
}

func TestCheckmateHasNoLegalMoves(t *testing.T) {
	// Fool's mate final position, white to move is mated.
	fen := "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3"
	pos, err := position.ParseFEN(fen)
	require.NoError(t, err)
	moves := Generate(pos)
	assert.Equal(t, 0, moves.N)
	assert.True(t, InCheck(pos))
	assert.False(t, HasLegalMoves(pos))
}

// TestStagedIterationMatchesGenerate walks Start/Next to exhaustion and
// checks the resulting set matches Generate's, from several positions
// covering no-check, single-check and double-check phase paths.
func TestStagedIterationMatchesGenerate(t *testing.T) {
	fens := []string{
		position.InitialFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		// Single check: black rook checks the white king on e1.
		"4k3/8/8/8/8/8/8/4K2r w - - 0 1",
		// Double check: both bishops give check simultaneously.
		"3k4/8/8/b7/7b/8/8/4K3 w - - 0 1",
	}
	for _, fen := range fens {
		pos, err := position.ParseFEN(fen)
		require.NoError(t, err, fen)

		want := Generate(pos)
		wantSet := map[types.Move]bool{}
		for _, m := range want.Slice() {
			wantSet[m] = true
		}

		Start(pos)
		gotSet := map[types.Move]bool{}
		count := 0
		for {
			m, ok := Next(pos)
			if !ok {
				break
			}
			gotSet[m] = true
			count++
		}
		assert.Equal(t, want.N, count, fen)
		assert.Equal(t, wantSet, gotSet, fen)
	}
}

// TestStartNextIsLazyAboutUnreachedPhases checks that stopping iteration
// after the first move leaves GenPhase on the phase right after the one that
// supplied that move, never further; this is the behavioral difference
// between a genuinely staged generator and one that secretly computes
// everything up front.
func TestStartNextIsLazyAboutUnreachedPhases(t *testing.T) {
	pos := position.NewInitial()
	Start(pos)
	assert.Equal(t, int(types.PhasePromotions), pos.GenPhase)

	_, ok := Next(pos)
	require.True(t, ok)
	// The initial position has no promotions, so the first Next call must
	// have fallen through PhasePromotions (empty) into PhaseCaptures (also
	// empty, no captures available) and taken its move from PhaseOther;
	// GenPhase already names the phase after the one being consumed.
	assert.Equal(t, int(types.PhaseUnderproms), pos.GenPhase)
}

func TestHasLegalMovesAgreesWithGenerate(t *testing.T) {
	fens := []string{
		position.InitialFEN,
		"rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3", // checkmate
		"4k3/8/8/8/8/8/8/4K2r w - - 0 1",                               // single check with escape
		"8/8/8/3k4/8/8/5b2/4K2r w - - 0 1",                             // double check
	}
	for _, fen := range fens {
		pos, err := position.ParseFEN(fen)
		require.NoError(t, err, fen)
		want := Generate(pos).N > 0
		assert.Equal(t, want, HasLegalMoves(pos), fen)
	}
}
