// Package bughouse adapts notnil/chess to one board of a bughouse game: board moves come from
// the chess library, drops from the side to move's pocket are added on top. Pieces captured on
// this board go to the partner board, so board moves never change the pockets.
package bughouse

import (
	"errors"
	"strconv"
	"strings"

	"github.com/notnil/chess"
)

var ErrIllegalMove = errors.New("illegal move")

// Position is an immutable bughouse position. The zero value holds no position.
type Position struct {
	pos     *chess.Position
	pockets Pockets
}

// StartingPosition returns the standard initial position with empty pockets.
func StartingPosition() Position {
	return Position{pos: chess.NewGame().Position()}
}

func (p Position) IsZero() bool {
	return p.pos == nil
}

func (p Position) Turn() chess.Color {
	return p.pos.Turn()
}

func (p Position) Pockets() Pockets {
	return p.pockets
}

func (p Position) Board() *chess.Board {
	return p.pos.Board()
}

// FEN encodes the position with bracketed pockets.
func (p Position) FEN() string {
	if p.pos == nil {
		return ""
	}
	fields := strings.Fields(p.pos.String())
	fields[0] += "[" + p.pockets.String() + "]"
	return strings.Join(fields, " ")
}

func (p Position) String() string {
	return p.FEN()
}

func (p Position) Equal(o Position) bool {
	return p.FEN() == o.FEN()
}

// InCheck reports whether the side to move is in check.
func (p Position) InCheck() bool {
	return inCheck(p.pos.Board().SquareMap(), p.pos.Turn())
}

// LegalMoves returns all board moves followed by all drops.
func (p Position) LegalMoves() []Move {
	valid := p.pos.ValidMoves()
	moves := make([]Move, 0, len(valid))
	for _, cm := range valid {
		moves = append(moves, fromChess(cm))
	}
	return append(moves, p.drops()...)
}

func (p Position) IsLegal(m Move) bool {
	if m.Drop {
		return p.legalDrop(m)
	}
	return p.chessMove(m) != nil
}

// Play returns the position after m, or ErrIllegalMove.
func (p Position) Play(m Move) (Position, error) {
	if m.Drop {
		if !p.legalDrop(m) {
			return Position{}, ErrIllegalMove
		}
		return p.playDrop(m)
	}
	cm := p.chessMove(m)
	if cm == nil {
		return Position{}, ErrIllegalMove
	}
	return Position{pos: p.pos.Update(cm), pockets: p.pockets}, nil
}

// SAN encodes m in standard algebraic notation; drops are written "N@f3".
func (p Position) SAN(m Move) string {
	if m.Drop {
		san := roleLetter(m.Role) + "@" + m.To.String()
		if next, err := p.Play(m); err == nil && next.InCheck() {
			if len(next.LegalMoves()) == 0 {
				return san + "#"
			}
			san += "+"
		}
		return san
	}
	cm := p.chessMove(m)
	if cm == nil {
		return m.String()
	}
	return chess.AlgebraicNotation{}.Encode(p.pos, cm)
}

func (p Position) chessMove(m Move) *chess.Move {
	if m.Drop {
		return nil
	}
	for _, cm := range p.pos.ValidMoves() {
		if m.matches(cm) {
			return cm
		}
	}
	return nil
}

func (p Position) drops() []Move {
	pocket := p.pockets.Of(p.pos.Turn())
	var moves []Move
	for _, role := range droppable {
		if pocket.Count(role) == 0 {
			continue
		}
		for sq := chess.A1; sq <= chess.H8; sq++ {
			m := DropMove(role, sq)
			if p.legalDrop(m) {
				moves = append(moves, m)
			}
		}
	}
	return moves
}

func (p Position) legalDrop(m Move) bool {
	turn := p.pos.Turn()
	if m.Role < chess.Queen || m.Role > chess.Pawn || m.To < chess.A1 || m.To > chess.H8 {
		return false
	}
	if p.pockets.Of(turn).Count(m.Role) == 0 {
		return false
	}
	if m.Role == chess.Pawn && isBackRank(m.To) {
		return false
	}
	board := p.pos.Board().SquareMap()
	if board[m.To] != chess.NoPiece {
		return false
	}
	board[m.To] = pieceOf(turn, m.Role)
	return !inCheck(board, turn)
}

func (p Position) playDrop(m Move) (Position, error) {
	turn := p.pos.Turn()
	board := p.pos.Board().SquareMap()
	board[m.To] = pieceOf(turn, m.Role)

	fields := strings.Fields(p.pos.String())
	fullMoves := fields[5]
	if turn == chess.Black {
		fullMoves = incr(fullMoves)
	}
	setup, err := ParseSetup(strings.Join([]string{
		chess.NewBoard(board).String(),
		colorLetter(turn.Other()),
		fields[2],
		"-",
		"0",
		fullMoves,
	}, " "))
	if err != nil {
		return Position{}, err
	}
	setup.Pockets = p.pockets.with(turn, m.Role, -1)
	return FromSetup(setup)
}

func colorLetter(c chess.Color) string {
	if c == chess.Black {
		return "b"
	}
	return "w"
}

func incr(n string) string {
	v, err := strconv.Atoi(n)
	if err != nil {
		return n
	}
	return strconv.Itoa(v + 1)
}
