package session

import (
	"github.com/gmkornilov/bughouse-trainer/pkg/bughouse"
	"github.com/gmkornilov/bughouse-trainer/pkg/puzgen"
)

const (
	StatusSuccess     = "Success"
	StatusWrongAnswer = "Wrong answer"
)

type Phase string

const (
	Idle                  Phase = "idle"
	AwaitingPlayerMove    Phase = "awaiting_player_move"
	AwaitingOpponentReply Phase = "awaiting_opponent_reply"
	Solved                Phase = "solved"
)

// State is everything the trainer knows about the current attempt. It is only changed by Step.
type State struct {
	Puzzles     []puzgen.Puzzle
	PuzzleIndex int
	// MoveIndex counts the solution moves already played on Position.
	MoveIndex int
	Position  bughouse.Position
	CanPlay   bool
	Status    string

	// Mistakes counts wrong answers on the active puzzle; Rating is the trainee's estimate.
	Mistakes int
	Rating   int
}

// NewState returns the empty state the trainer starts with.
func NewState(rating int) State {
	return State{CanPlay: true, Rating: rating}
}

func (s State) Puzzle() (puzgen.Puzzle, bool) {
	if s.PuzzleIndex < 0 || s.PuzzleIndex >= len(s.Puzzles) {
		return puzgen.Puzzle{}, false
	}
	return s.Puzzles[s.PuzzleIndex], true
}

func (s State) Phase() Phase {
	p, ok := s.Puzzle()
	switch {
	case !ok:
		return Idle
	case s.MoveIndex >= len(p.Moves) && s.Status == StatusSuccess:
		return Solved
	case !s.CanPlay:
		return AwaitingOpponentReply
	default:
		return AwaitingPlayerMove
	}
}

// Snapshot is what the presentation layer renders.
type Snapshot struct {
	PuzzleCount int              `json:"puzzle_count"`
	PuzzleIndex int              `json:"puzzle_index"`
	MoveIndex   int              `json:"move_index"`
	MoveCount   int              `json:"move_count"`
	FEN         string           `json:"fen"`
	PartnerFEN  string           `json:"partner_fen,omitempty"`
	Turn        string           `json:"turn,omitempty"`
	Pockets     bughouse.Pockets `json:"pockets"`
	CanPlay     bool             `json:"can_play"`
	Status      string           `json:"status"`
	Mistakes    int              `json:"mistakes"`
	Phase       Phase            `json:"phase"`
	Rating      int              `json:"rating"`
	GameData    puzgen.GameData  `json:"game_data"`

	position bughouse.Position
	puzzles  []puzgen.Puzzle
}

// Position returns the position the snapshot was taken from; it may be the zero Position.
func (s Snapshot) Position() bughouse.Position {
	return s.position
}

// Puzzles returns the loaded collection. The slice is shared and must not be modified.
func (s Snapshot) Puzzles() []puzgen.Puzzle {
	return s.puzzles
}

func (s State) Snapshot() Snapshot {
	snap := Snapshot{
		PuzzleCount: len(s.Puzzles),
		PuzzleIndex: s.PuzzleIndex,
		MoveIndex:   s.MoveIndex,
		CanPlay:     s.CanPlay,
		Status:      s.Status,
		Mistakes:    s.Mistakes,
		Phase:       s.Phase(),
		Rating:      s.Rating,
		position:    s.Position,
		puzzles:     s.Puzzles,
	}
	if p, ok := s.Puzzle(); ok {
		snap.MoveCount = len(p.Moves)
		snap.PartnerFEN = p.PartnerFEN
		snap.GameData = p.GameData
	}
	if !s.Position.IsZero() {
		snap.FEN = s.Position.FEN()
		snap.Turn = s.Position.Turn().String()
		snap.Pockets = s.Position.Pockets()
	}
	return snap
}
