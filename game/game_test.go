package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treepeck/chegocore/attacks"
	"github.com/treepeck/chegocore/zobrist"
)

func init() {
	attacks.Init()
	zobrist.Init()
}

func TestCheckmateReportsWinner(t *testing.T) {
	g, err := FromFEN("rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	require.NoError(t, err)
	assert.True(t, g.HasEnded())
	assert.Equal(t, BlackWins, g.Winner())
	assert.Equal(t, -MaxScore, g.Score(nil))
}

func TestStalemateIsDraw(t *testing.T) {
	// Classic stalemate: black king a8 boxed in, no black pieces left to move.
	g, err := FromFEN("k7/8/1Q6/8/8/8/8/7K b - - 0 1")
	require.NoError(t, err)
	assert.True(t, g.HasEnded())
	assert.False(t, g.InCheck())
	assert.Equal(t, Draw, g.Winner())
	assert.Equal(t, 0, g.Score(nil))
}

func TestInsufficientMaterialKingsOnly(t *testing.T) {
	g, err := FromFEN("8/8/8/4k3/8/8/4K3/8 w - - 0 1")
	require.NoError(t, err)
	assert.True(t, g.IsInsufficientMaterial())
	assert.True(t, g.HasEnded())
	assert.Equal(t, Draw, g.Winner())
}

func TestInsufficientMaterialOppositeBishopColors(t *testing.T) {
	// White bishop on c1 (dark square), black bishop on c8 (light square):
	// different-colored bishops can still force mate, so this is NOT
	// insufficient material.
	g, err := FromFEN("2b1k3/8/8/8/8/8/8/2B1K3 w - - 0 1")
	require.NoError(t, err)
	assert.False(t, g.IsInsufficientMaterial())
}

func TestSeventyFiveMoveRuleEndsGame(t *testing.T) {
	g, err := FromFEN("4k3/8/8/8/8/8/8/R3K3 w - - 149 80")
	require.NoError(t, err)
	assert.False(t, g.HasEnded())

	moves := g.LegalMoves()
	require.Greater(t, moves.N, 0)
	require.NoError(t, g.Make(moves.Moves[0]))

	assert.True(t, g.HasEnded())
	assert.Equal(t, Draw, g.Winner())
}
