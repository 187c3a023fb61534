package chego

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treepeck/chegocore/game"
	"github.com/treepeck/chegocore/position"
)

func TestNewGameStartsAtInitialPosition(t *testing.T) {
	e := NewGame()
	assert.Equal(t, position.InitialFEN, e.ToFEN())
	assert.False(t, e.InCheck())
	assert.False(t, e.HasEnded())
}

func TestSetPositionRejectsMalformedFEN(t *testing.T) {
	_, err := SetPosition("not a fen")
	require.Error(t, err)
}

func TestSetPositionRoundTripsFEN(t *testing.T) {
	fen := "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	e, err := SetPosition(fen)
	require.NoError(t, err)
	assert.Equal(t, fen, e.ToFEN())
}

func TestMakeRejectsIllegalMove(t *testing.T) {
	e := NewGame()
	err := e.Make("e2e5")
	require.Error(t, err)
}

func TestMakeAndUnmakeRoundTrip(t *testing.T) {
	e := NewGame()
	before := e.ToFEN()
	require.NoError(t, e.Make("e2e4"))
	assert.NotEqual(t, before, e.ToFEN())
	e.Unmake()
	assert.Equal(t, before, e.ToFEN())
}

func TestMakeDecodesPromotionLetterCaseInsensitively(t *testing.T) {
	fen := "8/P7/8/8/8/8/8/k6K w - - 0 1"
	lower, err := SetPosition(fen)
	require.NoError(t, err)
	require.NoError(t, lower.Make("a7a8q"))
	assert.Equal(t, "Q7/8/8/8/8/8/8/k6K b - - 0 1", lower.ToFEN())

	upper, err := SetPosition(fen)
	require.NoError(t, err)
	require.NoError(t, upper.Make("a7a8Q"))
	assert.Equal(t, lower.ToFEN(), upper.ToFEN())
}

func TestLegalMovesMatchesIsLegal(t *testing.T) {
	e := NewGame()
	moves := e.LegalMoves()
	assert.Len(t, moves, 20)
	for _, m := range moves {
		ok, err := e.IsLegal(m)
		require.NoError(t, err)
		assert.True(t, ok, m)
	}
	ok, err := e.IsLegal("e2e5")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStartMoveIterationCoversAllLegalMoves(t *testing.T) {
	e := NewGame()
	want := e.LegalMoves()

	e.StartMoveIteration()
	seen := map[string]bool{}
	for {
		m, ok := e.NextMove()
		if !ok {
			break
		}
		seen[m] = true
	}
	assert.Len(t, seen, len(want))
	for _, m := range want {
		assert.True(t, seen[m], m)
	}
}

func TestHasEndedAndWinnerOnCheckmate(t *testing.T) {
	e, err := SetPosition("rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	require.NoError(t, err)
	assert.True(t, e.HasEnded())
	assert.Equal(t, game.BlackWins, e.Winner())
	assert.Equal(t, -game.MaxScore, e.Score(nil))
}

func TestHasEndedOnStalemateIsDraw(t *testing.T) {
	// Classic stalemate: black king a8, no legal move, not in check.
	e, err := SetPosition("k7/8/1Q6/8/8/8/8/7K b - - 0 1")
	require.NoError(t, err)
	assert.True(t, e.HasEnded())
	assert.False(t, e.InCheck())
	assert.Equal(t, game.Draw, e.Winner())
}

func TestVersionIsStable(t *testing.T) {
	v1 := Version()
	v2 := Version()
	assert.Equal(t, v1, v2)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	pos := position.NewInitial()
	m, err := decodeMove(pos, "e2e4")
	require.NoError(t, err)
	assert.Equal(t, "e2e4", EncodeMove(m))
}

func TestDecodeMoveRejectsMalformed(t *testing.T) {
	pos := position.NewInitial()
	_, err := decodeMove(pos, "zz")
	assert.Error(t, err)
}

func TestDecodeMoveNullMove(t *testing.T) {
	pos := position.NewInitial()
	m, err := decodeMove(pos, "0000")
	require.NoError(t, err)
	assert.True(t, m.IsNull())
	assert.Equal(t, "0000", EncodeMove(m))
}
