// Package session drives a trainee through the solution lines of imported puzzles.
//
// All changes go through Step, a pure function of the current State and one Event. Timers and
// redraws are returned as Effects; a Runner carries them out and feeds timer expiries back in as
// OpponentReply events, so every mutation happens on one serialized queue.
package session

import (
	"github.com/gmkornilov/bughouse-trainer/pkg/bughouse"
	"github.com/gmkornilov/bughouse-trainer/pkg/puzgen"
)

func Step(s State, ev Event) (State, []Effect) {
	switch ev := ev.(type) {
	case Load:
		if len(ev.Puzzles) == 0 {
			return s, nil
		}
		s.Puzzles = ev.Puzzles
		return show(s, 0)
	case SubmitMove:
		return submit(s, bughouse.BoardMove(ev.From, ev.To, ev.Promotion))
	case SubmitDrop:
		return submit(s, bughouse.DropMove(ev.Role, ev.To))
	case OpponentReply:
		return reply(s, ev)
	case NextPuzzle:
		return navigate(s, s.PuzzleIndex+1)
	case PreviousPuzzle:
		return navigate(s, s.PuzzleIndex-1)
	}
	return s, nil
}

func navigate(s State, index int) (State, []Effect) {
	if len(s.Puzzles) == 0 {
		return s, nil
	}
	if index > len(s.Puzzles)-1 {
		index = len(s.Puzzles) - 1
	}
	if index < 0 {
		index = 0
	}
	return show(s, index)
}

// show restarts the attempt on puzzle index.
func show(s State, index int) (State, []Effect) {
	s.PuzzleIndex = index
	s.MoveIndex = 0
	s.Position = s.Puzzles[index].Position
	s.CanPlay = true
	s.Status = ""
	s.Mistakes = 0
	return s, []Effect{Redraw{}}
}

func submit(s State, m bughouse.Move) (State, []Effect) {
	if !s.CanPlay {
		return s, nil
	}
	puzzle, ok := s.Puzzle()
	if !ok || s.MoveIndex >= len(puzzle.Moves) || !s.Position.IsLegal(m) {
		return s, nil
	}

	if m != puzzle.Moves[s.MoveIndex] {
		s.Status = StatusWrongAnswer
		s.Mistakes++
		return s, []Effect{Redraw{}}
	}

	next, err := s.Position.Play(m)
	if err != nil {
		return s, nil
	}
	s.Position = next
	s.MoveIndex++
	s.CanPlay = false
	s.Status = ""

	if s.MoveIndex == len(puzzle.Moves) {
		return solve(s, puzzle), []Effect{Redraw{}}
	}
	return s, []Effect{
		Redraw{},
		ScheduleReply{Reply: OpponentReply{PuzzleIndex: s.PuzzleIndex, MoveIndex: s.MoveIndex}},
	}
}

func reply(s State, ev OpponentReply) (State, []Effect) {
	if s.CanPlay || ev.PuzzleIndex != s.PuzzleIndex || ev.MoveIndex != s.MoveIndex {
		return s, nil
	}
	puzzle, ok := s.Puzzle()
	if !ok || s.MoveIndex >= len(puzzle.Moves) {
		return s, nil
	}

	next, err := s.Position.Play(puzzle.Moves[s.MoveIndex])
	if err != nil {
		return s, nil
	}
	s.Position = next
	s.MoveIndex++
	s.CanPlay = true
	return s, []Effect{Redraw{}}
}

func solve(s State, puzzle puzgen.Puzzle) State {
	s.Status = StatusSuccess
	s.CanPlay = false
	s.Rating = estimateElo(s.Rating, playerMoves(len(puzzle.Moves)), s.Mistakes)
	return s
}
