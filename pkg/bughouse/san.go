package bughouse

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/notnil/chess"
)

var (
	sanMoveRe = regexp.MustCompile(`^([NBRQK])?([a-h])?([1-8])?x?([a-h][1-8])(?:=?([NBRQnbrq]))?$`)
	sanDropRe = regexp.MustCompile(`^([PNBRQ])?@([a-h][1-8])$`)
)

// SANError explains why a SAN token could not be turned into a move.
type SANError struct {
	SAN    string
	Reason string
}

func (e *SANError) Error() string {
	return fmt.Sprintf("san %q: %s", e.SAN, e.Reason)
}

// ResolveSAN turns a SAN token (check, mate and annotation suffixes allowed) into the unique
// legal move it denotes.
func (p Position) ResolveSAN(token string) (Move, error) {
	san := strings.TrimRight(token, "+#!?")

	if m := sanDropRe.FindStringSubmatch(san); m != nil {
		role := chess.Pawn
		if m[1] != "" {
			role, _ = ParseRole(m[1])
		}
		to, _ := ParseSquare(m[2])
		drop := DropMove(role, to)
		if !p.legalDrop(drop) {
			return Move{}, &SANError{SAN: token, Reason: "illegal drop"}
		}
		return drop, nil
	}

	var candidates []Move
	switch san {
	case "O-O", "0-0":
		candidates = p.castles(chess.KingSideCastle)
	case "O-O-O", "0-0-0":
		candidates = p.castles(chess.QueenSideCastle)
	default:
		m := sanMoveRe.FindStringSubmatch(san)
		if m == nil {
			return Move{}, &SANError{SAN: token, Reason: "not a move"}
		}
		candidates = p.boardCandidates(m)
	}

	switch len(candidates) {
	case 0:
		return Move{}, &SANError{SAN: token, Reason: "illegal move"}
	case 1:
		return candidates[0], nil
	default:
		return Move{}, &SANError{SAN: token, Reason: "ambiguous move"}
	}
}

func (p Position) castles(tag chess.MoveTag) []Move {
	var out []Move
	for _, cm := range p.pos.ValidMoves() {
		if cm.HasTag(tag) {
			out = append(out, fromChess(cm))
		}
	}
	return out
}

func (p Position) boardCandidates(m []string) []Move {
	role := chess.Pawn
	if m[1] != "" {
		role, _ = ParseRole(m[1])
	}
	to, _ := ParseSquare(m[4])
	promo := chess.NoPieceType
	if m[5] != "" {
		promo, _ = ParseRole(m[5])
	}

	board := p.pos.Board()
	var out []Move
	for _, cm := range p.pos.ValidMoves() {
		if cm.HasTag(chess.KingSideCastle) || cm.HasTag(chess.QueenSideCastle) {
			continue
		}
		if cm.S2() != to || cm.Promo() != promo || board.Piece(cm.S1()).Type() != role {
			continue
		}
		if m[2] != "" && cm.S1().File() != chess.File(m[2][0]-'a') {
			continue
		}
		if m[3] != "" && cm.S1().Rank() != chess.Rank(m[3][0]-'1') {
			continue
		}
		out = append(out, fromChess(cm))
	}
	return out
}
