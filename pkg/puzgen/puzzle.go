package puzgen

import (
	"encoding/json"

	"github.com/gmkornilov/bughouse-trainer/pkg/bughouse"
	"github.com/notnil/chess"
)

// Puzzle is a starting position plus the line the trainee (and the automatic opponent) must
// play from it. Puzzles are built by the importer and not modified afterwards.
type Puzzle struct {
	Position   bughouse.Position
	Moves      []bughouse.Move
	PartnerFEN string
	GameData   GameData
}

type GameData struct {
	Event       string `json:"event,omitempty" bson:"event,omitempty"`
	Date        string `json:"date,omitempty" bson:"date,omitempty"`
	WhitePlayer string `json:"white_player,omitempty" bson:"white_player,omitempty"`
	BlackPlayer string `json:"black_player,omitempty" bson:"black_player,omitempty"`
}

// SANs replays the solution and returns it in algebraic notation.
func (p Puzzle) SANs() []string {
	res := make([]string, 0, len(p.Moves))
	pos := p.Position
	for _, m := range p.Moves {
		res = append(res, pos.SAN(m))
		next, err := pos.Play(m)
		if err != nil {
			break
		}
		pos = next
	}
	return res
}

func (p Puzzle) Equal(o Puzzle) bool {
	if !p.Position.Equal(o.Position) || p.PartnerFEN != o.PartnerFEN || p.GameData != o.GameData || len(p.Moves) != len(o.Moves) {
		return false
	}
	for i := range p.Moves {
		if p.Moves[i] != o.Moves[i] {
			return false
		}
	}
	return true
}

type puzzleView struct {
	FEN        string   `json:"fen"`
	PartnerFEN string   `json:"partner_fen,omitempty"`
	Moves      []string `json:"moves"`
	SAN        []string `json:"san"`
	GameData   GameData `json:"game_data"`
	IsWhite    bool     `json:"is_white_turn"`
}

func (p Puzzle) MarshalJSON() ([]byte, error) {
	moves := make([]string, 0, len(p.Moves))
	for _, m := range p.Moves {
		moves = append(moves, m.String())
	}
	return json.Marshal(puzzleView{
		FEN:        p.Position.FEN(),
		PartnerFEN: p.PartnerFEN,
		Moves:      moves,
		SAN:        p.SANs(),
		GameData:   p.GameData,
		IsWhite:    !p.Position.IsZero() && p.Position.Turn() == chess.White,
	})
}

func (p Puzzle) String() string {
	j, _ := json.MarshalIndent(p, "", "\t")
	return string(j)
}
