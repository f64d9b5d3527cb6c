package dao

import (
	"github.com/gmkornilov/bughouse-trainer/pkg/bughouse"
	"github.com/gmkornilov/bughouse-trainer/pkg/puzgen"
	"github.com/notnil/chess"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"testing"
)

const dropFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR[N] w KQkq - 0 1"

func dropPuzzle(t *testing.T) puzgen.Puzzle {
	t.Helper()
	pos, err := bughouse.ParseFEN(dropFEN)
	require.NoError(t, err)
	return puzgen.Puzzle{
		Position: pos,
		Moves: []bughouse.Move{
			bughouse.DropMove(chess.Knight, chess.F6),
			bughouse.BoardMove(chess.G7, chess.F6, chess.NoPieceType),
		},
		PartnerFEN: "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR[] b KQkq - 0 1",
		GameData:   puzgen.GameData{Event: "Drop", WhitePlayer: "Ann"},
	}
}

func TestPuzzleDocument(t *testing.T) {
	p := dropPuzzle(t)
	doc := NewPuzzleDocument("drops", 3, p)

	assert.Equal(t, "drops", doc.Set)
	assert.Equal(t, 3, doc.Index)
	assert.Equal(t, dropFEN, doc.FEN)
	assert.Equal(t, []string{"N@f6", "g7f6"}, doc.Moves)

	back, err := doc.Puzzle()
	require.NoError(t, err)
	assert.True(t, p.Equal(back))
}

func TestPuzzleDocumentBSON(t *testing.T) {
	data, err := bson.Marshal(NewPuzzleDocument("drops", 0, dropPuzzle(t)))
	require.NoError(t, err)

	raw := bson.Raw(data)
	assert.Equal(t, "drops", raw.Lookup("set").StringValue())
	assert.Equal(t, "N@f6", raw.Lookup("moves", "0").StringValue())
	assert.Equal(t, "Ann", raw.Lookup("game_data", "white_player").StringValue())
	_, err = raw.LookupErr("game_data", "date")
	assert.Error(t, err)

	var doc PuzzleDocument
	require.NoError(t, bson.Unmarshal(data, &doc))
	back, err := doc.Puzzle()
	require.NoError(t, err)
	assert.True(t, dropPuzzle(t).Equal(back))
}

func TestPuzzleDocumentRejectsBrokenLines(t *testing.T) {
	tests := []struct {
		name string
		doc  PuzzleDocument
	}{
		{"bad fen", PuzzleDocument{FEN: "not a fen"}},
		{"bad move", PuzzleDocument{FEN: dropFEN, Moves: []string{"Nf3"}}},
		{"illegal move", PuzzleDocument{FEN: dropFEN, Moves: []string{"e2e5"}}},
		{"empty pocket", PuzzleDocument{FEN: dropFEN, Moves: []string{"Q@f6"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.doc.Puzzle()
			assert.Error(t, err)
		})
	}

	_, err := PuzzleDocument{FEN: dropFEN, Moves: []string{"e2e5"}}.Puzzle()
	assert.ErrorIs(t, err, bughouse.ErrIllegalMove)
}

func TestPuzzlesFromDocuments(t *testing.T) {
	docs := []PuzzleDocument{
		NewPuzzleDocument("s", 0, dropPuzzle(t)),
		{Set: "s", Index: 1, FEN: dropFEN, Moves: []string{"e2e5"}},
	}
	_, err := puzzlesFromDocuments(docs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "puzzle 1 of set s")

	puzzles, err := puzzlesFromDocuments(docs[:1])
	require.NoError(t, err)
	assert.Len(t, puzzles, 1)
}
