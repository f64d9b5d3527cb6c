package bughouse

import "github.com/notnil/chess"

type delta struct{ file, rank int }

var (
	knightDeltas   = []delta{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	kingDeltas     = []delta{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}
	rookDirections = []delta{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopDirs     = []delta{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
)

// attacked reports whether any piece of color by attacks target on the given board.
func attacked(board map[chess.Square]chess.Piece, target chess.Square, by chess.Color) bool {
	file, rank := int(target.File()), int(target.Rank())

	pawnRank := rank - 1
	if by == chess.Black {
		pawnRank = rank + 1
	}
	for _, df := range []int{-1, 1} {
		if sq, ok := squareAt(file+df, pawnRank); ok && board[sq] == pieceOf(by, chess.Pawn) {
			return true
		}
	}

	if hits(board, file, rank, knightDeltas, pieceOf(by, chess.Knight)) ||
		hits(board, file, rank, kingDeltas, pieceOf(by, chess.King)) {
		return true
	}

	return slides(board, file, rank, rookDirections, pieceOf(by, chess.Rook), pieceOf(by, chess.Queen)) ||
		slides(board, file, rank, bishopDirs, pieceOf(by, chess.Bishop), pieceOf(by, chess.Queen))
}

func hits(board map[chess.Square]chess.Piece, file, rank int, deltas []delta, attacker chess.Piece) bool {
	for _, d := range deltas {
		if sq, ok := squareAt(file+d.file, rank+d.rank); ok && board[sq] == attacker {
			return true
		}
	}
	return false
}

func slides(board map[chess.Square]chess.Piece, file, rank int, dirs []delta, attackers ...chess.Piece) bool {
	for _, d := range dirs {
		for step := 1; ; step++ {
			sq, ok := squareAt(file+d.file*step, rank+d.rank*step)
			if !ok {
				break
			}
			p := board[sq]
			if p == chess.NoPiece {
				continue
			}
			for _, a := range attackers {
				if p == a {
					return true
				}
			}
			break
		}
	}
	return false
}

func kingSquare(board map[chess.Square]chess.Piece, c chess.Color) (chess.Square, bool) {
	king := pieceOf(c, chess.King)
	for sq, p := range board {
		if p == king {
			return sq, true
		}
	}
	return chess.NoSquare, false
}

func inCheck(board map[chess.Square]chess.Piece, c chess.Color) bool {
	sq, ok := kingSquare(board, c)
	return ok && attacked(board, sq, c.Other())
}
