package chego

import (
	"github.com/treepeck/chegocore/chesserr"
	"github.com/treepeck/chegocore/position"
	"github.com/treepeck/chegocore/types"
)

// decodeMove parses coordinate notation ("e2e4", "e7e8q", "0000") against
// pos, inferring the packed move's piece, captured piece and flag from the
// position itself since coordinate notation carries none of that. It does
// not check legality — IsLegal/Make do that separately.
func decodeMove(pos *position.Position, s string) (types.Move, error) {
	if s == "0000" {
		return types.NullMove, nil
	}
	if len(s) != 4 && len(s) != 5 {
		return 0, chesserr.New(chesserr.MalformedInput, "malformed move %q", s)
	}

	from, err := parseSquare(s[0:2])
	if err != nil {
		return 0, err
	}
	to, err := parseSquare(s[2:4])
	if err != nil {
		return 0, err
	}

	piece := pos.PieceAt(from)
	if piece == types.NoPiece {
		return 0, chesserr.New(chesserr.IllegalMove, "no piece on %v", from)
	}
	captured := pos.PieceAt(to)

	if len(s) == 5 {
		promoted, err := promoPieceFromLetter(s[4], piece.Color())
		if err != nil {
			return 0, err
		}
		flag := types.FlagPromote
		if captured != types.NoPiece {
			flag = types.FlagPromCap
		}
		return types.NewMove(from, promoted, to, captured, flag), nil
	}

	isPawn := piece == types.WhitePawn || piece == types.BlackPawn
	isKing := piece == types.WhiteKing || piece == types.BlackKing

	if isPawn && to == pos.EP && captured == types.NoPiece {
		return types.NewMove(from, piece, to, types.NoPiece, types.FlagPassant), nil
	}
	if isKing && isCastleDestination(from, to) {
		return types.NewMove(from, piece, to, types.NoPiece, types.FlagCastle), nil
	}
	if isPawn {
		delta := int(to) - int(from)
		if delta == 16 || delta == -16 {
			return types.NewMove(from, piece, to, types.NoPiece, types.FlagPawn), nil
		}
		if captured != types.NoPiece {
			return types.NewMove(from, piece, to, captured, types.FlagCapture), nil
		}
		return types.NewMove(from, piece, to, types.NoPiece, types.FlagPawn), nil
	}
	if captured != types.NoPiece {
		return types.NewMove(from, piece, to, captured, types.FlagCapture), nil
	}
	return types.NewMove(from, piece, to, types.NoPiece, types.FlagSimple), nil
}

func isCastleDestination(from, to types.Square) bool {
	switch from {
	case 4:
		return to == 6 || to == 2
	case 60:
		return to == 62 || to == 58
	}
	return false
}

func parseSquare(s string) (types.Square, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return 0, chesserr.New(chesserr.MalformedInput, "invalid square %q", s)
	}
	return types.SquareFromFileRank(int(s[0]-'a'), int(s[1]-'1')), nil
}

func promoPieceFromLetter(c byte, color types.Color) (types.Piece, error) {
	white := color == types.White
	if c >= 'A' && c <= 'Z' {
		c += 'a' - 'A'
	}
	switch c {
	case 'q':
		if white {
			return types.WhiteQueen, nil
		}
		return types.BlackQueen, nil
	case 'r':
		if white {
			return types.WhiteRook, nil
		}
		return types.BlackRook, nil
	case 'b':
		if white {
			return types.WhiteBishop, nil
		}
		return types.BlackBishop, nil
	case 'n':
		if white {
			return types.WhiteKnight, nil
		}
		return types.BlackKnight, nil
	}
	return 0, chesserr.New(chesserr.MalformedInput, "invalid promotion piece %q", string(c))
}

func promoLetter(p types.Piece) byte {
	switch p {
	case types.WhiteQueen, types.BlackQueen:
		return 'q'
	case types.WhiteRook, types.BlackRook:
		return 'r'
	case types.WhiteBishop, types.BlackBishop:
		return 'b'
	case types.WhiteKnight, types.BlackKnight:
		return 'n'
	}
	return '?'
}

// EncodeMove renders m in coordinate notation ("e2e4", "e7e8q", "0000"),
// exported for debugging tools (e.g. cmd/perft's divide output) that hold a
// types.Move directly instead of going through Engine.
func EncodeMove(m types.Move) string { return encodeMove(m) }

// encodeMove renders m in coordinate notation.
func encodeMove(m types.Move) string {
	if m.IsNull() {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if m.IsPromotion() {
		s += string(promoLetter(m.Piece()))
	}
	return s
}
