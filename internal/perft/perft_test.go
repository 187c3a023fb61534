package perft

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treepeck/chegocore/attacks"
	"github.com/treepeck/chegocore/position"
	"github.com/treepeck/chegocore/zobrist"
)

func init() {
	attacks.Init()
	zobrist.Init()
}

func TestCountStandardPosition(t *testing.T) {
	pos := position.NewInitial()
	want := []int64{1, 20, 400, 8902, 197281}
	for depth, w := range want {
		assert.Equalf(t, w, Count(pos, depth), "perft(%d)", depth)
	}
}

func TestCountKiwipete(t *testing.T) {
	fen := "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	pos, err := position.ParseFEN(fen)
	require.NoError(t, err)
	assert.Equal(t, int64(48), Count(pos, 1))
	assert.Equal(t, int64(2039), Count(pos, 2))
}

func TestCountRestoresPositionExactly(t *testing.T) {
	pos := position.NewInitial()
	before := *pos
	Count(pos, 3)
	assert.Equal(t, before.Hash, pos.Hash)
	assert.Equal(t, before.Bitboards, pos.Bitboards)
	assert.Equal(t, 0, pos.Ply())
}

func TestDivideSumsToCount(t *testing.T) {
	pos := position.NewInitial()
	encode := func(m position.Move) string { return m.From().String() + m.To().String() }

	depth := 3
	divided := Divide(pos, depth, encode)

	var total int64
	for _, n := range divided {
		total += n
	}
	assert.Equal(t, Count(pos, depth), total)
}

func TestDivideKeyedByEveryRootMove(t *testing.T) {
	pos := position.NewInitial()
	encode := func(m position.Move) string { return m.From().String() + m.To().String() }
	divided := Divide(pos, 1, encode)
	// The standard position has 20 legal first moves.
	assert.Len(t, divided, 20)
}
