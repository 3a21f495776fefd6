package resolve

import (
	"context"

	"ggpengine/db"
	"ggpengine/term"
)

// Cursor is a lazy, cancellable stream of answer frames for one query.
// It runs the search in its own goroutine and hands answers over an
// unbuffered channel, so a consumer that stops pulling (Close, or
// simply going out of scope after a deferred Close) lets the goroutine
// unwind promptly instead of computing every answer up front.
type Cursor struct {
	answers chan *term.Frame
	cancel  context.CancelCauseFunc
	ctx     context.Context
}

// Solve starts a search for goal against rec under frame and returns a
// Cursor over its answers. The caller must eventually call Close.
func Solve(ctx context.Context, rec *db.GameRecord, goal term.Term, frame *term.Frame) *Cursor {
	searchCtx, cancel := context.WithCancelCause(ctx)
	c := &Cursor{
		answers: make(chan *term.Frame),
		cancel:  cancel,
		ctx:     searchCtx,
	}
	rs := &resolveState{ctx: searchCtx, cancel: cancel, rec: rec}

	go func() {
		defer close(c.answers)
		solve(rs, goal, frame, func(f *term.Frame) bool {
			select {
			case c.answers <- f:
				return false // answer delivered, keep searching for more
			case <-searchCtx.Done():
				return true // consumer gone or cancelled, stop
			}
		})
	}()
	return c
}

// Next blocks for the next answer, or returns ok=false once the search
// is exhausted, cancelled, or failed with an error (check Err).
func (c *Cursor) Next() (*term.Frame, bool) {
	f, ok := <-c.answers
	return f, ok
}

// Err returns the error that aborted the search, if any (spec.md
// §4.8: unbound variables in not/1 or distinct/2 are reported, not
// silently treated as failure).
func (c *Cursor) Err() error {
	err := context.Cause(c.ctx)
	if err == context.Canceled || err == nil {
		return nil
	}
	return err
}

// Close stops the search and releases its goroutine. Safe to call more
// than once, and safe to call before the search is exhausted.
func (c *Cursor) Close() {
	c.cancel(context.Canceled)
	for range c.answers {
		// Drain until the goroutine observes cancellation and closes
		// the channel, so Close never leaks the search goroutine.
	}
}

// One runs goal to its first answer only, then closes the cursor.
func One(ctx context.Context, rec *db.GameRecord, goal term.Term, frame *term.Frame) (*term.Frame, bool, error) {
	c := Solve(ctx, rec, goal, frame)
	defer c.Close()
	f, ok := c.Next()
	if !ok {
		return nil, false, c.Err()
	}
	return f, true, nil
}

// All runs goal to exhaustion, collecting every answer frame.
func All(ctx context.Context, rec *db.GameRecord, goal term.Term, frame *term.Frame) ([]*term.Frame, error) {
	c := Solve(ctx, rec, goal, frame)
	defer c.Close()
	var out []*term.Frame
	for {
		f, ok := c.Next()
		if !ok {
			return out, c.Err()
		}
		out = append(out, f)
	}
}
