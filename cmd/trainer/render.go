package main

import (
	"fmt"
	"github.com/gmkornilov/bughouse-trainer/internal/session"
	"github.com/gmkornilov/bughouse-trainer/pkg/bughouse"
	"github.com/notnil/chess"
	"io"
	"strings"
)

// renderSnapshot draws the board of snap with White at the bottom unless flipped.
func renderSnapshot(w io.Writer, snap session.Snapshot, flipped bool) {
	if snap.Phase == session.Idle {
		fmt.Fprintln(w, "no puzzles loaded")
		return
	}
	fmt.Fprintf(w, "puzzle %d/%d", snap.PuzzleIndex+1, snap.PuzzleCount)
	if snap.GameData.Event != "" {
		fmt.Fprintf(w, "  %s", snap.GameData.Event)
	}
	fmt.Fprintf(w, "  rating %d\n", snap.Rating)

	top, bottom := chess.Black, chess.White
	if flipped {
		top, bottom = bottom, top
	}
	pockets := snap.Pockets
	fmt.Fprintf(w, "  [%s]\n", pocketLine(pockets.Of(top), top))
	fmt.Fprint(w, drawBoard(snap.Position().Board().SquareMap(), flipped))
	fmt.Fprintf(w, "  [%s]\n", pocketLine(pockets.Of(bottom), bottom))

	if snap.PartnerFEN != "" {
		fmt.Fprintf(w, "partner: %s\n", snap.PartnerFEN)
	}
	fmt.Fprintf(w, "%s to move, line %d/%d", snap.Turn, snap.MoveIndex, snap.MoveCount)
	if snap.Status != "" {
		fmt.Fprintf(w, "  %s", snap.Status)
	}
	fmt.Fprintln(w)
}

func drawBoard(squares map[chess.Square]chess.Piece, flipped bool) string {
	var b strings.Builder
	files := "abcdefgh"
	for row := 0; row < 8; row++ {
		rank := 7 - row
		if flipped {
			rank = row
		}
		fmt.Fprintf(&b, "%d ", rank+1)
		for col := 0; col < 8; col++ {
			file := col
			if flipped {
				file = 7 - col
			}
			sq := chess.Square(rank*8 + file)
			if p, ok := squares[sq]; ok && p != chess.NoPiece {
				b.WriteString(p.String())
			} else {
				b.WriteString("-")
			}
			b.WriteString(" ")
		}
		b.WriteString("\n")
	}
	b.WriteString("  ")
	for col := 0; col < 8; col++ {
		if flipped {
			b.WriteByte(files[7-col])
		} else {
			b.WriteByte(files[col])
		}
		b.WriteString(" ")
	}
	b.WriteString("\n")
	return b.String()
}

func pocketLine(p bughouse.Pocket, c chess.Color) string {
	var parts []string
	for _, role := range []chess.PieceType{chess.Queen, chess.Rook, chess.Bishop, chess.Knight, chess.Pawn} {
		if n := p.Count(role); n > 0 {
			parts = append(parts, fmt.Sprintf("%s%d", chess.NewPiece(role, c).String(), n))
		}
	}
	return strings.Join(parts, " ")
}
