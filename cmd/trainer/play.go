package main

import (
	"bufio"
	"context"
	"fmt"
	"github.com/gmkornilov/bughouse-trainer/internal/session"
	"github.com/gmkornilov/bughouse-trainer/pkg/puzgen"
	"github.com/spf13/cobra"
	"io"
	"strings"
	"sync"
)

const playHelp = `commands:
  e2e4, e7e8q   play a board move
  N@f3, @e4     drop a piece from the pocket
  next, prev    change puzzle
  flip          turn the board around
  quit          leave`

var playCmd = &cobra.Command{
	Use:   "play <file>",
	Short: "Solve the puzzles of a BPGN file in the terminal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		puzzles, err := puzgen.NewImporter(log).ImportFile(args[0])
		if err != nil {
			return err
		}
		if len(puzzles) == 0 {
			return fmt.Errorf("no puzzles found in %s", args[0])
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		t := &terminal{out: cmd.OutOrStdout()}
		runner := session.NewRunner(session.Options{
			ReplyDelay: cfg.Trainer.ReplyDelay,
			Rating:     cfg.Trainer.StartRating,
			Logger:     log,
			OnChange:   t.draw,
		})
		go runner.Run(ctx)

		if _, err := runner.Do(ctx, session.Load{Puzzles: puzzles}); err != nil {
			return err
		}
		return t.loop(ctx, cmd.InOrStdin(), runner)
	},
}

// terminal serializes output from the input loop and the runner goroutine.
type terminal struct {
	mu      sync.Mutex
	out     io.Writer
	flipped bool
}

func (t *terminal) draw(snap session.Snapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()
	renderSnapshot(t.out, snap, t.flipped)
}

func (t *terminal) println(a ...interface{}) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.out, a...)
}

func (t *terminal) loop(ctx context.Context, in io.Reader, runner *session.Runner) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "q", "quit", "exit":
			return nil
		case "h", "help", "?":
			t.println(playHelp)
			continue
		case "flip":
			t.mu.Lock()
			t.flipped = !t.flipped
			t.mu.Unlock()
			t.draw(runner.Snapshot())
			continue
		}

		ev, err := session.ParseInput(line)
		if err != nil {
			t.println(err.Error() + ", type help for commands")
			continue
		}
		before := runner.Snapshot()
		after, err := runner.Do(ctx, ev)
		if err != nil {
			return err
		}
		switch ev.(type) {
		case session.SubmitMove, session.SubmitDrop:
			if after.MoveIndex == before.MoveIndex && after.Mistakes == before.Mistakes {
				t.println("move ignored: not legal here or waiting for the opponent")
			}
		}
	}
	return scanner.Err()
}
