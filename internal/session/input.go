package session

import (
	"fmt"
	"github.com/gmkornilov/bughouse-trainer/pkg/bughouse"
	"strings"
)

// ParseInput turns a line typed by the trainee into an event: a move in UCI form ("e2e4",
// "e7e8q"), a drop ("N@f3", "@e4"), or "next" / "prev".
func ParseInput(line string) (Event, error) {
	line = strings.TrimSpace(line)
	switch strings.ToLower(line) {
	case "n", "next":
		return NextPuzzle{}, nil
	case "p", "prev", "previous":
		return PreviousPuzzle{}, nil
	}
	m, err := bughouse.ParseMove(line)
	if err != nil {
		return nil, fmt.Errorf("unknown input %q", line)
	}
	if m.Drop {
		return SubmitDrop{Role: m.Role, To: m.To}, nil
	}
	return SubmitMove{From: m.From, To: m.To, Promotion: m.Promotion}, nil
}
