// Package concurrent fans independent queries out across a fixed pool
// of goroutines, adapting searcher/uct.go's worker-pool shape
// (WithGoroutines-sized workers pulling from a shared channel) from
// tree-search simulations to resolve.Cursor-backed GDL queries. It is
// explicitly not a search algorithm: no move selection, no tree, no
// backup step — just concurrent fan-out over an *engine.Engine, which
// tolerates concurrent readers by construction (db.RuleDatabase's
// copy-on-write Install, immutable db.GameRecord).
package concurrent

import (
	"context"
	"sync"

	"ggpengine/engine"
	"ggpengine/meta"
	"ggpengine/state"
	"ggpengine/term"
)

// Query names one game_state-shaped query to resolve.
type Query struct {
	GameID string
	Truth  state.TruthState
	Moves  state.MoveVector
	Goal   term.Term
}

// Result pairs a Query with every answer frame it produced, or the
// error that aborted it.
type Result struct {
	Query   Query
	Answers []*term.Frame
	Err     error
}

// Option configures a QueryPool, the same option func(*T) idiom
// searcher/uct.go uses for WithGoroutines/WithDuration.
type Option func(*QueryPool)

// WithGoroutines sets the number of workers draining the query queue.
// n <= 0 leaves the current worker count unchanged.
func WithGoroutines(n int) Option {
	return func(p *QueryPool) {
		if n > 0 {
			p.goroutines = n
		}
	}
}

// QueryPool resolves a batch of independent queries against one
// Engine concurrently.
type QueryPool struct {
	engine     *engine.Engine
	goroutines int
}

// NewQueryPool returns a QueryPool over e, defaulting to
// meta.DefaultGoroutines workers.
func NewQueryPool(e *engine.Engine, opts ...Option) *QueryPool {
	p := &QueryPool{engine: e, goroutines: meta.DefaultGoroutines}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run resolves every query in queries and returns their results in
// the same order, fanning the work out across p.goroutines workers.
// Each query gets its own resolve.Cursor; queries are independent, so
// one query's error never aborts another's.
func (p *QueryPool) Run(ctx context.Context, queries []Query) []Result {
	results := make([]Result, len(queries))
	jobs := make(chan int, len(queries))
	for i := range queries {
		jobs <- i
	}
	close(jobs)

	var wg sync.WaitGroup
	worker := func() {
		defer wg.Done()
		for i := range jobs {
			results[i] = p.runOne(ctx, queries[i])
		}
	}

	for i := 0; i < p.goroutines; i++ {
		wg.Add(1)
		go worker()
	}
	wg.Wait()

	return results
}

func (p *QueryPool) runOne(ctx context.Context, q Query) Result {
	cursor, err := p.engine.GameState(ctx, q.GameID, q.Truth, q.Moves, q.Goal)
	if err != nil {
		return Result{Query: q, Err: err}
	}
	defer cursor.Close()

	var answers []*term.Frame
	for {
		f, ok := cursor.Next()
		if !ok {
			break
		}
		answers = append(answers, f)
	}
	return Result{Query: q, Answers: answers, Err: cursor.Err()}
}
