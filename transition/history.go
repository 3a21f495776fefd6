package transition

import (
	"context"

	"ggpengine/db"
	"ggpengine/metrics"
	"ggpengine/state"
)

// HistoryOption configures BuildHistory, following the
// option-func(*T) idiom searcher/uct.go uses for WithGoroutines and
// WithDuration.
type HistoryOption func(*historyConfig)

type historyConfig struct {
	collector metrics.Collector
}

// WithCollector attributes every derivation and cache hit BuildHistory
// makes to collector, so callers (e.g. gamemaster.PlayGame) can
// measure how much a cache actually saved
// (spec.md §8's S4 scenario).
func WithCollector(c metrics.Collector) HistoryOption {
	return func(cfg *historyConfig) {
		cfg.collector = c
	}
}

// BuildHistory derives the truth history for moveHistory (oldest
// first) starting from initial, reusing cached's states wherever the
// positional cache-reuse rule of spec.md §4.7 allows: a cached entry
// is reusable iff it is the i-th entry in both histories, the i-th
// moves agree pairwise, and the (i-1)-th entry was reusable (or i=0).
// The first mismatch invalidates every later entry.
//
// cached may be nil, meaning no cache is available. The result is
// stored newest-first, matching state.History's contract.
func BuildHistory(
	ctx context.Context,
	rec *db.GameRecord,
	gameID string,
	initial state.TruthState,
	moveHistory []state.MoveVector,
	cached state.History,
	opts ...HistoryOption,
) (state.History, error) {
	cfg := &historyConfig{collector: metrics.NewDummyCollector()}
	for _, opt := range opts {
		opt(cfg)
	}

	cachedForward := reverseHistory(cached)
	reusable := len(cachedForward) > 0 && cachedForward[0].Truth.Equal(initial)

	forward := make([]state.HistoryEntry, len(moveHistory)+1)
	forward[0] = state.HistoryEntry{Truth: initial}

	for i := 1; i <= len(moveHistory); i++ {
		moves := moveHistory[i-1]
		if reusable && i < len(cachedForward) && movesEqual(cachedForward[i].Moves, moves) {
			forward[i] = cachedForward[i]
			cfg.collector.AddCacheHit()
			continue
		}
		reusable = false
		next, err := Successor(ctx, rec, gameID, forward[i-1].Truth, moves)
		if err != nil {
			return nil, err
		}
		forward[i] = state.HistoryEntry{Moves: moves, Truth: next}
		cfg.collector.AddDerivation()
	}

	return reverseForward(forward), nil
}

func movesEqual(a, b state.MoveVector) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].String() != b[i].String() {
			return false
		}
	}
	return true
}

// reverseHistory converts a newest-first History into forward
// (oldest-first) order.
func reverseHistory(h state.History) []state.HistoryEntry {
	if h == nil {
		return nil
	}
	out := make([]state.HistoryEntry, len(h))
	for i, e := range h {
		out[len(h)-1-i] = e
	}
	return out
}

// reverseForward converts a forward (oldest-first) slice into a
// newest-first state.History.
func reverseForward(forward []state.HistoryEntry) state.History {
	out := make(state.History, len(forward))
	for i, e := range forward {
		out[len(forward)-1-i] = e
	}
	return out
}
