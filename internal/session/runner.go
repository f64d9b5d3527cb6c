package session

import (
	"context"
	"errors"
	"github.com/rs/zerolog"
	"sync"
	"time"
)

// DefaultReplyDelay is how long the automatic opponent waits before answering.
const DefaultReplyDelay = 1000 * time.Millisecond

var ErrStopped = errors.New("session runner stopped")

type Options struct {
	ReplyDelay time.Duration
	Rating     int
	Logger     zerolog.Logger
	// OnChange is called from the runner goroutine after every event that needs a redraw.
	OnChange func(Snapshot)
}

type request struct {
	ev   Event
	done chan Snapshot
}

// Runner owns the only State and applies events to it one at a time.
type Runner struct {
	log      zerolog.Logger
	delay    time.Duration
	onChange func(Snapshot)

	events chan request
	done   chan struct{}

	mu       sync.RWMutex
	snapshot Snapshot

	state   State
	pending *time.Timer
}

func NewRunner(opts Options) *Runner {
	delay := opts.ReplyDelay
	if delay <= 0 {
		delay = DefaultReplyDelay
	}
	state := NewState(opts.Rating)
	return &Runner{
		log:      opts.Logger,
		delay:    delay,
		onChange: opts.OnChange,
		// a trainee rarely queues more than a handful of inputs per reply
		events:   make(chan request, 16),
		done:     make(chan struct{}),
		snapshot: state.Snapshot(),
		state:    state,
	}
}

// Run processes events until ctx is cancelled. Pending replies are dropped on exit.
func (r *Runner) Run(ctx context.Context) error {
	defer func() {
		if r.pending != nil {
			r.pending.Stop()
		}
		close(r.done)
	}()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case req := <-r.events:
			r.handle(req)
		}
	}
}

// Dispatch queues ev without waiting for it to be applied.
func (r *Runner) Dispatch(ev Event) {
	select {
	case r.events <- request{ev: ev}:
	case <-r.done:
	}
}

// Do queues ev and returns the snapshot right after it was applied.
func (r *Runner) Do(ctx context.Context, ev Event) (Snapshot, error) {
	done := make(chan Snapshot, 1)
	select {
	case r.events <- request{ev: ev, done: done}:
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	case <-r.done:
		return Snapshot{}, ErrStopped
	}
	select {
	case snap := <-done:
		return snap, nil
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	case <-r.done:
		return Snapshot{}, ErrStopped
	}
}

func (r *Runner) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot
}

func (r *Runner) handle(req request) {
	solved := r.state.Phase() == Solved
	next, effects := Step(r.state, req.ev)
	r.state = next
	snap := next.Snapshot()

	r.mu.Lock()
	r.snapshot = snap
	r.mu.Unlock()

	for _, effect := range effects {
		switch e := effect.(type) {
		case ScheduleReply:
			r.schedule(e.Reply)
		case Redraw:
			if r.onChange != nil {
				r.onChange(snap)
			}
		}
	}
	if !solved && snap.Phase == Solved {
		r.log.Debug().Int("puzzle", snap.PuzzleIndex).Int("rating", snap.Rating).Msg("puzzle solved")
	}
	if req.done != nil {
		req.done <- snap
	}
}

func (r *Runner) schedule(reply OpponentReply) {
	r.log.Debug().Int("puzzle", reply.PuzzleIndex).Int("move", reply.MoveIndex).Dur("delay", r.delay).Msg("opponent reply scheduled")
	// a new reply is only scheduled once the previous one fired or went stale
	if r.pending != nil {
		r.pending.Stop()
	}
	r.pending = time.AfterFunc(r.delay, func() {
		r.Dispatch(reply)
	})
}
