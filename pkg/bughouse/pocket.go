package bughouse

import (
	"strings"

	"github.com/notnil/chess"
)

// droppable lists the roles a pocket can hold, in display order.
var droppable = []chess.PieceType{chess.Queen, chess.Rook, chess.Bishop, chess.Knight, chess.Pawn}

// Pocket counts the pieces one side holds in hand, indexed by chess.PieceType.
type Pocket [7]int

func (p Pocket) Count(role chess.PieceType) int {
	return p[role]
}

func (p Pocket) Total() int {
	total := 0
	for _, n := range p {
		total += n
	}
	return total
}

// Pockets holds both sides' pieces in hand. A record without pockets decodes to empty pockets.
type Pockets struct {
	White Pocket `json:"white"`
	Black Pocket `json:"black"`
}

func (p Pockets) Of(c chess.Color) Pocket {
	if c == chess.Black {
		return p.Black
	}
	return p.White
}

func (p Pockets) with(c chess.Color, role chess.PieceType, delta int) Pockets {
	if c == chess.Black {
		p.Black[role] += delta
	} else {
		p.White[role] += delta
	}
	return p
}

// String encodes the pockets the way crazyhouse FEN does: white pieces uppercase first.
func (p Pockets) String() string {
	var sb strings.Builder
	for _, c := range []chess.Color{chess.White, chess.Black} {
		pocket := p.Of(c)
		for _, role := range append([]chess.PieceType{chess.King}, droppable...) {
			letter := roleLetter(role)
			if c == chess.Black {
				letter = strings.ToLower(letter)
			}
			sb.WriteString(strings.Repeat(letter, pocket[role]))
		}
	}
	return sb.String()
}

func parsePockets(s string) (Pockets, bool) {
	var pockets Pockets
	for _, r := range s {
		if r == '-' {
			continue
		}
		piece, ok := pieceFromLetter(r)
		if !ok {
			return Pockets{}, false
		}
		pockets = pockets.with(piece.Color(), piece.Type(), 1)
	}
	return pockets, true
}
