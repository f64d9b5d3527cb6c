package puzgen

import (
	"bytes"
	"fmt"
	"github.com/gmkornilov/bughouse-trainer/pkg/bpgn"
	"github.com/gmkornilov/bughouse-trainer/pkg/bughouse"
	"github.com/rs/zerolog"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
	"io"
	"os"
	"strings"
)

// ImportError is returned when a file cannot be read or its record framing cannot be parsed.
// Problems with single puzzles are only logged.
type ImportError struct {
	Path string
	Op   string
	Err  error
}

func (e *ImportError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("cannot %s PGN: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("cannot %s PGN file %s: %v", e.Op, e.Path, e.Err)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

type Importer struct {
	log zerolog.Logger
}

func NewImporter(log zerolog.Logger) *Importer {
	return &Importer{log: log}
}

func (i *Importer) ImportFile(path string) ([]Puzzle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ImportError{Path: path, Op: "read", Err: err}
	}
	defer f.Close()

	puzzles, err := i.Import(f)
	if importErr, ok := err.(*ImportError); ok {
		importErr.Path = path
	}
	return puzzles, err
}

// Import reads Windows-1252 encoded records and returns one puzzle per usable compound FEN
// tag, with the moves that follow it.
func (i *Importer) Import(r io.Reader) ([]Puzzle, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ImportError{Op: "read", Err: err}
	}

	state := importState{log: i.log, puzzles: make([]Puzzle, 0)}
	for ev, err := range bpgn.Events(decode(data)) {
		if err != nil {
			return nil, &ImportError{Op: "parse", Err: err}
		}
		state.apply(ev)
	}
	i.log.Debug().Int("puzzles", len(state.puzzles)).Int("records", state.records).Msg("import finished")
	return state.puzzles, nil
}

// decode never fails: bytes without a Windows-1252 mapping become U+FFFD.
func decode(data []byte) string {
	decoded, err := io.ReadAll(transform.NewReader(bytes.NewReader(data), charmap.Windows1252.NewDecoder()))
	if err != nil {
		return strings.ToValidUTF8(string(data), "\uFFFD")
	}
	return string(decoded)
}

type importState struct {
	log     zerolog.Logger
	records int

	// game is the metadata of the current record, recordStart the first puzzle created in it.
	game        GameData
	recordStart int

	cursor  bughouse.Position
	puzzles []Puzzle
}

func (s *importState) apply(ev bpgn.Event) {
	switch ev.Kind {
	case bpgn.BeginRecord:
		s.records++
		s.game = GameData{}
		s.recordStart = len(s.puzzles)
	case bpgn.Header:
		s.header(ev)
	case bpgn.Move:
		s.move(ev)
	}
}

func (s *importState) header(ev bpgn.Event) {
	if ev.Key != "FEN" {
		s.gameTag(ev)
		return
	}

	log := s.log.With().Int("record", s.records).Int("line", ev.Line).Str("fen", ev.Value).Logger()
	index := strings.IndexByte(ev.Value, '|')
	if index < 0 {
		log.Warn().Msg("cannot find | in FEN")
		return
	}
	player := ""
	if index > 0 {
		player = ev.Value[:index-1]
	}
	setup, err := bughouse.ParseSetup(player)
	if err != nil {
		log.Warn().Err(err).Msg("error parsing FEN")
		return
	}
	pos, err := bughouse.FromSetup(setup)
	if err != nil {
		log.Warn().Err(err).Msg("error setting up position")
		return
	}

	s.cursor = pos
	s.puzzles = append(s.puzzles, Puzzle{
		Position:   pos,
		Moves:      []bughouse.Move{},
		PartnerFEN: strings.TrimSpace(ev.Value[index+1:]),
		GameData:   s.game,
	})
}

func (s *importState) gameTag(ev bpgn.Event) {
	switch ev.Key {
	case "Event":
		s.setGameData(func(g *GameData) { g.Event = ev.Value })
	case "Date":
		s.setGameData(func(g *GameData) { g.Date = ev.Value })
	case "White", "WhiteA":
		s.setGameData(func(g *GameData) { g.WhitePlayer = ev.Value })
	case "Black", "BlackA":
		s.setGameData(func(g *GameData) { g.BlackPlayer = ev.Value })
	}
}

func (s *importState) setGameData(set func(*GameData)) {
	set(&s.game)
	for i := s.recordStart; i < len(s.puzzles); i++ {
		set(&s.puzzles[i].GameData)
	}
}

func (s *importState) move(ev bpgn.Event) {
	if len(s.puzzles) == 0 {
		return
	}
	m, err := s.cursor.ResolveSAN(ev.SAN)
	if err == nil {
		var next bughouse.Position
		if next, err = s.cursor.Play(m); err == nil {
			s.cursor = next
			last := &s.puzzles[len(s.puzzles)-1]
			last.Moves = append(last.Moves, m)
			return
		}
	}
	s.log.Warn().Err(err).Int("record", s.records).Int("line", ev.Line).Str("san", ev.SAN).Msg("error playing move")
}
