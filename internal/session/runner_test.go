package session

import (
	"bytes"
	"context"
	"github.com/notnil/chess"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sync/atomic"
	"testing"
	"time"
)

func startRunner(t *testing.T, delay time.Duration, onChange func(Snapshot)) (*Runner, context.CancelFunc, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	r := NewRunner(Options{
		ReplyDelay: delay,
		Rating:     1500,
		Logger:     zerolog.New(&logs),
		OnChange:   onChange,
	})
	ctx, cancel := context.WithCancel(context.Background())
	go r.Run(ctx)
	t.Cleanup(cancel)
	return r, cancel, &logs
}

func TestRunnerPlaysOpponentReply(t *testing.T) {
	var redraws atomic.Int32
	r, _, logs := startRunner(t, 10*time.Millisecond, func(Snapshot) { redraws.Add(1) })
	ctx := context.Background()

	snap, err := r.Do(ctx, Load{Puzzles: testPuzzles(t)})
	require.NoError(t, err)
	assert.Equal(t, AwaitingPlayerMove, snap.Phase)

	snap, err = r.Do(ctx, NextPuzzle{})
	require.NoError(t, err)
	require.Equal(t, 1, snap.PuzzleIndex)

	snap, err = r.Do(ctx, move(chess.E2, chess.E4))
	require.NoError(t, err)
	assert.Equal(t, AwaitingOpponentReply, snap.Phase)

	require.Eventually(t, func() bool {
		s := r.Snapshot()
		return s.MoveIndex == 2 && s.CanPlay
	}, time.Second, 5*time.Millisecond)

	snap, err = r.Do(ctx, move(chess.G1, chess.F3))
	require.NoError(t, err)
	assert.Equal(t, Solved, snap.Phase)
	assert.Equal(t, StatusSuccess, snap.Status)
	assert.Equal(t, int32(5), redraws.Load())
	assert.Contains(t, logs.String(), "puzzle solved")
}

func TestRunnerDropsStaleReply(t *testing.T) {
	r, _, _ := startRunner(t, 20*time.Millisecond, nil)
	ctx := context.Background()

	_, err := r.Do(ctx, Load{Puzzles: testPuzzles(t)})
	require.NoError(t, err)
	_, err = r.Do(ctx, NextPuzzle{})
	require.NoError(t, err)
	_, err = r.Do(ctx, move(chess.E2, chess.E4))
	require.NoError(t, err)
	snap, err := r.Do(ctx, NextPuzzle{})
	require.NoError(t, err)
	require.Equal(t, 2, snap.PuzzleIndex)

	time.Sleep(60 * time.Millisecond)
	snap = r.Snapshot()
	assert.Equal(t, 2, snap.PuzzleIndex)
	assert.Equal(t, 0, snap.MoveIndex)
	assert.True(t, snap.CanPlay)
	assert.Equal(t, dropFEN, snap.FEN)
}

func TestRunnerStopped(t *testing.T) {
	r, cancel, _ := startRunner(t, time.Millisecond, nil)
	cancel()

	require.Eventually(t, func() bool {
		_, err := r.Do(context.Background(), NextPuzzle{})
		return err == ErrStopped
	}, time.Second, 5*time.Millisecond)

	// dispatching after stop must not block
	r.Dispatch(NextPuzzle{})
}

func TestRunnerDoHonoursContext(t *testing.T) {
	r := NewRunner(Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for i := 0; i < 16; i++ {
		r.Dispatch(NextPuzzle{})
	}
	_, err := r.Do(ctx, NextPuzzle{})
	assert.ErrorIs(t, err, context.Canceled)
}
