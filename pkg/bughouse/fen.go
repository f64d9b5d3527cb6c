package bughouse

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/notnil/chess"
)

// FENError is returned when a string is not syntactically a bughouse FEN.
type FENError struct {
	FEN    string
	Reason string
}

func (e *FENError) Error() string {
	return fmt.Sprintf("invalid fen %q: %s", e.FEN, e.Reason)
}

// PositionError is returned when a well-formed FEN does not describe a legal bughouse position.
type PositionError struct {
	FEN    string
	Reason string
}

func (e *PositionError) Error() string {
	return fmt.Sprintf("illegal position %q: %s", e.FEN, e.Reason)
}

// Setup is a decoded but unvalidated position.
type Setup struct {
	Board     map[chess.Square]chess.Piece
	Pockets   Pockets
	Turn      chess.Color
	Castling  string
	EnPassant chess.Square
	HalfMoves int
	FullMoves int

	fen string
}

// ParseSetup decodes a bughouse FEN. Pockets may be given in brackets after the board
// ("...RNBQKBNR[Qp] w ...") or as a ninth rank ("...RNBQKBNR/Qp w ..."). Fields after the
// board are optional and default to "w - - 0 1".
func ParseSetup(fen string) (Setup, error) {
	fields := strings.Fields(fen)
	if len(fields) == 0 || len(fields) > 6 {
		return Setup{}, &FENError{FEN: fen, Reason: fmt.Sprintf("expected 1 to 6 fields, got %d", len(fields))}
	}

	boardPart, pocketPart, err := splitPockets(fields[0])
	if err != nil {
		return Setup{}, &FENError{FEN: fen, Reason: err.Error()}
	}
	board, err := parseBoard(boardPart)
	if err != nil {
		return Setup{}, &FENError{FEN: fen, Reason: err.Error()}
	}
	pockets, ok := parsePockets(pocketPart)
	if !ok {
		return Setup{}, &FENError{FEN: fen, Reason: fmt.Sprintf("bad pocket %q", pocketPart)}
	}

	setup := Setup{
		Board:     board,
		Pockets:   pockets,
		Turn:      chess.White,
		Castling:  "-",
		EnPassant: chess.NoSquare,
		FullMoves: 1,
		fen:       fen,
	}

	if len(fields) > 1 {
		switch fields[1] {
		case "w":
		case "b":
			setup.Turn = chess.Black
		default:
			return Setup{}, &FENError{FEN: fen, Reason: fmt.Sprintf("bad turn %q", fields[1])}
		}
	}
	if len(fields) > 2 {
		if !validCastling(fields[2]) {
			return Setup{}, &FENError{FEN: fen, Reason: fmt.Sprintf("bad castling field %q", fields[2])}
		}
		setup.Castling = fields[2]
	}
	if len(fields) > 3 && fields[3] != "-" {
		sq, ok := ParseSquare(fields[3])
		if !ok {
			return Setup{}, &FENError{FEN: fen, Reason: fmt.Sprintf("bad en passant square %q", fields[3])}
		}
		setup.EnPassant = sq
	}
	if len(fields) > 4 {
		n, err := strconv.Atoi(fields[4])
		if err != nil || n < 0 {
			return Setup{}, &FENError{FEN: fen, Reason: fmt.Sprintf("bad halfmove clock %q", fields[4])}
		}
		setup.HalfMoves = n
	}
	if len(fields) > 5 {
		n, err := strconv.Atoi(fields[5])
		if err != nil || n < 1 {
			return Setup{}, &FENError{FEN: fen, Reason: fmt.Sprintf("bad fullmove number %q", fields[5])}
		}
		setup.FullMoves = n
	}
	return setup, nil
}

// FromSetup checks that the setup is a legal bughouse position.
func FromSetup(s Setup) (Position, error) {
	illegal := func(reason string) (Position, error) {
		return Position{}, &PositionError{FEN: s.fen, Reason: reason}
	}

	kings := map[chess.Color]int{}
	for sq, p := range s.Board {
		if p.Type() == chess.King {
			kings[p.Color()]++
		}
		if p.Type() == chess.Pawn && isBackRank(sq) {
			return illegal("pawn on back rank")
		}
	}
	if kings[chess.White] != 1 || kings[chess.Black] != 1 {
		return illegal("each side needs exactly one king")
	}
	if s.Pockets.White.Count(chess.King) > 0 || s.Pockets.Black.Count(chess.King) > 0 {
		return illegal("king in pocket")
	}
	if !castlingMatchesBoard(s.Board, s.Castling) {
		return illegal("castling rights do not match the board")
	}
	if s.EnPassant != chess.NoSquare && !validEnPassant(s) {
		return illegal("bad en passant square")
	}
	if inCheck(s.Board, s.Turn.Other()) {
		return illegal("side not to move is in check")
	}

	ep := "-"
	if s.EnPassant != chess.NoSquare {
		ep = s.EnPassant.String()
	}
	turn := "w"
	if s.Turn == chess.Black {
		turn = "b"
	}
	fen := fmt.Sprintf("%s %s %s %s %d %d", chess.NewBoard(s.Board).String(), turn, s.Castling, ep, s.HalfMoves, s.FullMoves)
	opt, err := chess.FEN(fen)
	if err != nil {
		return illegal(err.Error())
	}
	return Position{pos: chess.NewGame(opt).Position(), pockets: s.Pockets}, nil
}

// ParseFEN decodes and validates a bughouse FEN.
func ParseFEN(fen string) (Position, error) {
	setup, err := ParseSetup(fen)
	if err != nil {
		return Position{}, err
	}
	return FromSetup(setup)
}

func splitPockets(field string) (string, string, error) {
	if i := strings.IndexByte(field, '['); i >= 0 {
		if !strings.HasSuffix(field, "]") {
			return "", "", fmt.Errorf("unterminated pocket")
		}
		return field[:i], field[i+1 : len(field)-1], nil
	}
	ranks := strings.Split(field, "/")
	if len(ranks) == 9 {
		return strings.Join(ranks[:8], "/"), ranks[8], nil
	}
	return field, "", nil
}

func parseBoard(s string) (map[chess.Square]chess.Piece, error) {
	ranks := strings.Split(s, "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("expected 8 ranks, got %d", len(ranks))
	}
	board := map[chess.Square]chess.Piece{}
	for i, row := range ranks {
		rank := 7 - i
		file := 0
		for _, r := range row {
			switch {
			case r == '~':
				// promoted-piece marker, irrelevant for play on this board
			case r >= '1' && r <= '8':
				file += int(r - '0')
			default:
				p, ok := pieceFromLetter(r)
				if !ok {
					return nil, fmt.Errorf("bad piece %q", r)
				}
				sq, ok := squareAt(file, rank)
				if !ok {
					return nil, fmt.Errorf("rank %d too long", rank+1)
				}
				board[sq] = p
				file++
			}
			if file > 8 {
				return nil, fmt.Errorf("rank %d too long", rank+1)
			}
		}
		if file != 8 {
			return nil, fmt.Errorf("rank %d has %d files", rank+1, file)
		}
	}
	return board, nil
}

func validCastling(s string) bool {
	if s == "-" {
		return true
	}
	for _, r := range s {
		if !strings.ContainsRune("KQkq", r) {
			return false
		}
	}
	return s != ""
}

func castlingMatchesBoard(board map[chess.Square]chess.Piece, castling string) bool {
	need := map[rune][2]chess.Square{
		'K': {chess.E1, chess.H1},
		'Q': {chess.E1, chess.A1},
		'k': {chess.E8, chess.H8},
		'q': {chess.E8, chess.A8},
	}
	for _, r := range castling {
		sqs, ok := need[r]
		if !ok {
			continue
		}
		c := chess.White
		if r == 'k' || r == 'q' {
			c = chess.Black
		}
		if board[sqs[0]] != pieceOf(c, chess.King) || board[sqs[1]] != pieceOf(c, chess.Rook) {
			return false
		}
	}
	return true
}

func validEnPassant(s Setup) bool {
	file, rank := int(s.EnPassant.File()), int(s.EnPassant.Rank())
	pawnRank, fromRank, wantRank := rank-1, rank+1, 5
	mover := chess.Black
	if s.Turn == chess.Black {
		pawnRank, fromRank, wantRank = rank+1, rank-1, 2
		mover = chess.White
	}
	if rank != wantRank {
		return false
	}
	pawnSq, _ := squareAt(file, pawnRank)
	fromSq, _ := squareAt(file, fromRank)
	return s.Board[pawnSq] == pieceOf(mover, chess.Pawn) &&
		s.Board[s.EnPassant] == chess.NoPiece &&
		s.Board[fromSq] == chess.NoPiece
}
