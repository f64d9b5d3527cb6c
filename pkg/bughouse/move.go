package bughouse

import (
	"fmt"
	"strings"

	"github.com/notnil/chess"
)

// Move is either a board move (From, To, optional Promotion) or a drop (Role, To).
// Two moves are equal iff they are == as values.
type Move struct {
	Drop      bool
	Role      chess.PieceType
	From      chess.Square
	To        chess.Square
	Promotion chess.PieceType
}

// BoardMove builds a board move; pass chess.NoPieceType when there is no promotion.
func BoardMove(from, to chess.Square, promotion chess.PieceType) Move {
	return Move{From: from, To: to, Promotion: promotion}
}

func DropMove(role chess.PieceType, to chess.Square) Move {
	return Move{Drop: true, Role: role, To: to}
}

// String encodes the move in UCI notation, with drops written as "N@f3".
func (m Move) String() string {
	if m.Drop {
		return roleLetter(m.Role) + "@" + m.To.String()
	}
	s := m.From.String() + m.To.String()
	if m.Promotion != chess.NoPieceType {
		s += strings.ToLower(roleLetter(m.Promotion))
	}
	return s
}

// ParseMove decodes the String form of a move. It does not check legality.
func ParseMove(s string) (Move, error) {
	if i := strings.IndexByte(s, '@'); i >= 0 {
		role := chess.Pawn
		if i == 1 {
			r, ok := ParseRole(s[:1])
			if !ok {
				return Move{}, fmt.Errorf("bad drop role in %q", s)
			}
			role = r
		} else if i != 0 {
			return Move{}, fmt.Errorf("bad drop %q", s)
		}
		to, ok := ParseSquare(s[i+1:])
		if !ok || role == chess.King {
			return Move{}, fmt.Errorf("bad drop %q", s)
		}
		return DropMove(role, to), nil
	}
	if len(s) != 4 && len(s) != 5 {
		return Move{}, fmt.Errorf("bad move %q", s)
	}
	from, ok1 := ParseSquare(s[:2])
	to, ok2 := ParseSquare(s[2:4])
	if !ok1 || !ok2 {
		return Move{}, fmt.Errorf("bad move %q", s)
	}
	promo := chess.NoPieceType
	if len(s) == 5 {
		r, ok := ParseRole(s[4:])
		if !ok || r == chess.King || r == chess.Pawn {
			return Move{}, fmt.Errorf("bad promotion in %q", s)
		}
		promo = r
	}
	return BoardMove(from, to, promo), nil
}

func (m Move) matches(cm *chess.Move) bool {
	return !m.Drop && cm.S1() == m.From && cm.S2() == m.To && cm.Promo() == m.Promotion
}

func fromChess(cm *chess.Move) Move {
	return BoardMove(cm.S1(), cm.S2(), cm.Promo())
}
