package puzgen

import (
	"bytes"
	"errors"
	"github.com/gmkornilov/bughouse-trainer/pkg/bpgn"
	"github.com/gmkornilov/bughouse-trainer/pkg/bughouse"
	"github.com/notnil/chess"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"io/fs"
	"os"
	"strings"
	"testing"
)

const (
	startFEN  = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR[] w KQkq - 0 1"
	mateInOne = "rnbqkbnr/ppppp2p/5p2/6p1/3PP3/8/PPP2PPP/RNBQKBNR[] w KQkq - 0 3"
)

func newTestImporter() (*Importer, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewImporter(zerolog.New(&buf).Level(zerolog.InfoLevel)), &buf
}

func importString(t *testing.T, text string) ([]Puzzle, string) {
	t.Helper()
	imp, logs := newTestImporter()
	puzzles, err := imp.Import(strings.NewReader(text))
	require.NoError(t, err)
	return puzzles, logs.String()
}

func compound(left string) string {
	return `[FEN "` + left + ` | ` + startFEN + `"]` + "\n"
}

func TestImportFile(t *testing.T) {
	imp, logs := newTestImporter()
	puzzles, err := imp.ImportFile("testdata/puzzles.bpgn")
	require.NoError(t, err)
	require.Len(t, puzzles, 3)
	assert.Empty(t, logs.String())

	first := puzzles[0]
	assert.Equal(t, mateInOne, first.Position.FEN())
	assert.Equal(t, []bughouse.Move{bughouse.BoardMove(chess.D1, chess.H5, chess.NoPieceType)}, first.Moves)
	assert.Equal(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR[] b KQkq - 0 1", first.PartnerFEN)
	assert.Equal(t, GameData{Event: "Puzzles € é", WhitePlayer: "Ann", BlackPlayer: "Bob"}, first.GameData)
	assert.Equal(t, []string{"Qh5#"}, first.SANs())

	assert.Equal(t, []string{"e4", "e5", "Nf3"}, puzzles[1].SANs())
	assert.Equal(t, "Opening", puzzles[1].GameData.Event)

	assert.Equal(t, []bughouse.Move{
		bughouse.DropMove(chess.Knight, chess.F6),
		bughouse.BoardMove(chess.G7, chess.F6, chess.NoPieceType),
	}, puzzles[2].Moves)
}

func TestImportFileMissing(t *testing.T) {
	imp, _ := newTestImporter()
	_, err := imp.ImportFile("testdata/does-not-exist.bpgn")

	var importErr *ImportError
	require.ErrorAs(t, err, &importErr)
	assert.Equal(t, "read", importErr.Op)
	assert.Equal(t, "testdata/does-not-exist.bpgn", importErr.Path)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestImportStructuralError(t *testing.T) {
	imp, _ := newTestImporter()
	_, err := imp.Import(strings.NewReader(compound(startFEN) + "1. e4 {unterminated"))

	var importErr *ImportError
	require.ErrorAs(t, err, &importErr)
	assert.Equal(t, "parse", importErr.Op)
	var syntaxErr *bpgn.SyntaxError
	assert.ErrorAs(t, err, &syntaxErr)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("disk on fire")
}

func TestImportReadError(t *testing.T) {
	imp, _ := newTestImporter()
	_, err := imp.Import(failingReader{})
	var importErr *ImportError
	require.ErrorAs(t, err, &importErr)
	assert.Contains(t, err.Error(), "disk on fire")
}

func TestImportHeaderWithoutSeparator(t *testing.T) {
	puzzles, logs := importString(t, `[FEN "`+startFEN+`"]`+"\n1. e4 *\n")
	assert.Empty(t, puzzles)
	assert.NotNil(t, puzzles)
	assert.Contains(t, logs, "cannot find | in FEN")
}

func TestImportSkipsBadPositions(t *testing.T) {
	text := compound("not a fen") +
		"1. e4 *\n" +
		compound("4k3/8/8/8/8/8/8/4RK2 w - - 0 1") +
		compound(mateInOne) +
		"3. Qh5# 1-0\n"
	puzzles, logs := importString(t, text)

	require.Len(t, puzzles, 1)
	assert.Equal(t, mateInOne, puzzles[0].Position.FEN())
	assert.Len(t, puzzles[0].Moves, 1)
	assert.Contains(t, logs, "error parsing FEN")
	assert.Contains(t, logs, "error setting up position")
}

func TestImportDiscardsMovesBeforeFirstPuzzle(t *testing.T) {
	puzzles, logs := importString(t, "1. e4 e5\n"+compound(startFEN)+"1. d4 *\n")
	require.Len(t, puzzles, 1)
	assert.Equal(t, []string{"d4"}, puzzles[0].SANs())
	assert.Empty(t, logs)
}

func TestImportDropsUnresolvableMoves(t *testing.T) {
	puzzles, logs := importString(t, compound(startFEN)+"1. e4 e4 e5 2. Nf3 Qxx9 *\n")
	require.Len(t, puzzles, 1)

	p := puzzles[0]
	assert.Equal(t, []string{"e4", "e5", "Nf3"}, p.SANs())
	assert.Equal(t, 2, strings.Count(logs, "error playing move"))

	// the cursor after each appended move is that move applied to the previous cursor
	pos := p.Position
	for _, m := range p.Moves {
		next, err := pos.Play(m)
		require.NoError(t, err)
		pos = next
	}
	assert.Equal(t, "rnbqkbnr/pppp1ppp/8/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R[] b KQkq - 1 2", pos.FEN())
}

func TestImportSurvivesStrayGlyphs(t *testing.T) {
	text := compound(mateInOne) + "3A. Qh5# \xbd-\xbd\n\n" +
		compound(startFEN) + "1A. e4 <\xa7> 1a. e5 *\n"
	puzzles, logs := importString(t, text)

	require.Len(t, puzzles, 2)
	assert.Equal(t, []string{"Qh5#"}, puzzles[0].SANs())
	assert.Equal(t, []string{"e4", "e5"}, puzzles[1].SANs())
	assert.Equal(t, 1, strings.Count(logs, "error playing move"))
}

func TestImportPuzzlesAccumulateAcrossRecords(t *testing.T) {
	text := `[Event "one"]` + "\n" + compound(startFEN) + "1. e4 1-0\n\n" +
		`[Event "two"]` + "\n" + compound(startFEN) + compound(mateInOne) + "3. Qh5# 1-0\n"
	puzzles, _ := importString(t, text)

	require.Len(t, puzzles, 3)
	assert.Equal(t, "one", puzzles[0].GameData.Event)
	assert.Equal(t, "two", puzzles[1].GameData.Event)
	assert.Empty(t, puzzles[1].Moves)
	assert.Len(t, puzzles[2].Moves, 1)
}

func TestImportIsIdempotent(t *testing.T) {
	data, err := os.ReadFile("testdata/puzzles.bpgn")
	require.NoError(t, err)

	imp, _ := newTestImporter()
	first, err := imp.Import(bytes.NewReader(data))
	require.NoError(t, err)
	second, err := imp.Import(bytes.NewReader(data))
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.True(t, first[i].Equal(second[i]), "puzzle %d", i)
	}
}

func TestPuzzleString(t *testing.T) {
	puzzles, _ := importString(t, compound(mateInOne)+"3. Qh5# 1-0\n")
	require.Len(t, puzzles, 1)

	s := puzzles[0].String()
	assert.Contains(t, s, `"fen": "`+mateInOne+`"`)
	assert.Contains(t, s, `"d1h5"`)
	assert.Contains(t, s, `"Qh5#"`)
	assert.Contains(t, s, `"is_white_turn": true`)
}
