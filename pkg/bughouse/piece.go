package bughouse

import (
	"strings"

	"github.com/notnil/chess"
)

var piecesByLetter = map[rune]chess.Piece{
	'K': chess.WhiteKing,
	'Q': chess.WhiteQueen,
	'R': chess.WhiteRook,
	'B': chess.WhiteBishop,
	'N': chess.WhiteKnight,
	'P': chess.WhitePawn,
	'k': chess.BlackKing,
	'q': chess.BlackQueen,
	'r': chess.BlackRook,
	'b': chess.BlackBishop,
	'n': chess.BlackKnight,
	'p': chess.BlackPawn,
}

var roleLetters = map[chess.PieceType]string{
	chess.King:   "K",
	chess.Queen:  "Q",
	chess.Rook:   "R",
	chess.Bishop: "B",
	chess.Knight: "N",
	chess.Pawn:   "P",
}

func pieceFromLetter(r rune) (chess.Piece, bool) {
	p, ok := piecesByLetter[r]
	return p, ok
}

func pieceOf(c chess.Color, role chess.PieceType) chess.Piece {
	letter := []rune(roleLetters[role])[0]
	if c == chess.Black {
		letter = []rune(strings.ToLower(string(letter)))[0]
	}
	return piecesByLetter[letter]
}

func roleLetter(role chess.PieceType) string {
	return roleLetters[role]
}

// ParseRole accepts a piece letter in either case ("n", "Q", ...).
func ParseRole(s string) (chess.PieceType, bool) {
	if len(s) != 1 {
		return chess.NoPieceType, false
	}
	p, ok := piecesByLetter[[]rune(strings.ToUpper(s))[0]]
	if !ok {
		return chess.NoPieceType, false
	}
	return p.Type(), true
}

// ParseSquare parses algebraic coordinates such as "e4".
func ParseSquare(s string) (chess.Square, bool) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return chess.NoSquare, false
	}
	return squareAt(int(s[0]-'a'), int(s[1]-'1'))
}

func squareAt(file, rank int) (chess.Square, bool) {
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return chess.NoSquare, false
	}
	return chess.Square(rank*8 + file), true
}

func isBackRank(sq chess.Square) bool {
	return sq.Rank() == chess.Rank1 || sq.Rank() == chess.Rank8
}
