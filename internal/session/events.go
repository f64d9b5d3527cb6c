package session

import (
	"github.com/gmkornilov/bughouse-trainer/pkg/puzgen"
	"github.com/notnil/chess"
)

// Event is an input to Step.
type Event interface {
	event()
}

// Load replaces the puzzle collection. An empty collection is ignored.
type Load struct {
	Puzzles []puzgen.Puzzle
}

// SubmitMove is a board move proposed by the trainee.
type SubmitMove struct {
	From      chess.Square
	To        chess.Square
	Promotion chess.PieceType
}

// SubmitDrop is a drop proposed by the trainee.
type SubmitDrop struct {
	Role chess.PieceType
	To   chess.Square
}

// OpponentReply plays the recorded answer. It is only honoured while it still targets the
// active puzzle and move.
type OpponentReply struct {
	PuzzleIndex int
	MoveIndex   int
}

type NextPuzzle struct{}

type PreviousPuzzle struct{}

func (Load) event()           {}
func (SubmitMove) event()     {}
func (SubmitDrop) event()     {}
func (OpponentReply) event()  {}
func (NextPuzzle) event()     {}
func (PreviousPuzzle) event() {}

// Effect is a side effect requested by Step, carried out by the Runner.
type Effect interface {
	effect()
}

// ScheduleReply asks for Reply to be fed back after the opponent reply delay.
type ScheduleReply struct {
	Reply OpponentReply
}

// Redraw signals that the snapshot changed.
type Redraw struct{}

func (ScheduleReply) effect() {}
func (Redraw) effect()        {}
