package dao

import (
	"fmt"
	"github.com/gmkornilov/bughouse-trainer/pkg/bughouse"
	"github.com/gmkornilov/bughouse-trainer/pkg/puzgen"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PuzzleDocument is the stored form of one puzzle. Moves are kept in UCI form ("e2e4",
// "N@f3") so the line can be replayed and checked on load. Every save of a set writes a new
// Revision; only the newest one is loaded.
type PuzzleDocument struct {
	Set        string             `bson:"set"`
	Revision   primitive.ObjectID `bson:"revision"`
	Index      int                `bson:"index"`
	FEN        string             `bson:"fen"`
	PartnerFEN string             `bson:"partner_fen,omitempty"`
	Moves      []string           `bson:"moves"`
	GameData   puzgen.GameData    `bson:"game_data"`
}

func NewPuzzleDocument(set string, index int, p puzgen.Puzzle) PuzzleDocument {
	moves := make([]string, 0, len(p.Moves))
	for _, m := range p.Moves {
		moves = append(moves, m.String())
	}
	return PuzzleDocument{
		Set:        set,
		Index:      index,
		FEN:        p.Position.FEN(),
		PartnerFEN: p.PartnerFEN,
		Moves:      moves,
		GameData:   p.GameData,
	}
}

// Puzzle rebuilds the puzzle, failing if the position or any move of the line is not legal.
func (d PuzzleDocument) Puzzle() (puzgen.Puzzle, error) {
	pos, err := bughouse.ParseFEN(d.FEN)
	if err != nil {
		return puzgen.Puzzle{}, err
	}
	p := puzgen.Puzzle{
		Position:   pos,
		Moves:      make([]bughouse.Move, 0, len(d.Moves)),
		PartnerFEN: d.PartnerFEN,
		GameData:   d.GameData,
	}
	for _, s := range d.Moves {
		m, err := bughouse.ParseMove(s)
		if err != nil {
			return puzgen.Puzzle{}, err
		}
		if pos, err = pos.Play(m); err != nil {
			return puzgen.Puzzle{}, fmt.Errorf("move %s: %w", s, err)
		}
		p.Moves = append(p.Moves, m)
	}
	return p, nil
}

func puzzlesFromDocuments(docs []PuzzleDocument) ([]puzgen.Puzzle, error) {
	puzzles := make([]puzgen.Puzzle, 0, len(docs))
	for _, d := range docs {
		p, err := d.Puzzle()
		if err != nil {
			return nil, fmt.Errorf("puzzle %d of set %s: %w", d.Index, d.Set, err)
		}
		puzzles = append(puzzles, p)
	}
	return puzzles, nil
}
