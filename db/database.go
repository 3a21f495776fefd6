// Package db is the per-process rule database: a map from game id to
// game record, installed via copy-on-write publish-replace so readers
// in flight never see a partially-updated table (spec.md §4.5, §5).
package db

import (
	"sync"

	"ggpengine/clause"
	"ggpengine/deps"
)

// GameRecord is the rewritten, indexed rule-set for one installed
// game. Once built it is never mutated, so concurrent resolver queries
// can hold a *GameRecord and read it lock-free.
type GameRecord struct {
	GameID  string
	SDP     deps.SDP
	RuleSet clause.RuleSet

	// clauses indexes RuleSet by head predicate, giving the resolver
	// O(1) lookup on functor/arity (spec.md §4.5's "secondary indexing
	// on head functor").
	clauses map[clause.PredicateID][]clause.Clause
}

// NewGameRecord builds a GameRecord from an already-rewritten rule-set.
func NewGameRecord(gameID string, sdp deps.SDP, rewritten clause.RuleSet) *GameRecord {
	idx := make(map[clause.PredicateID][]clause.Clause, len(rewritten))
	for _, c := range rewritten {
		pid, ok := c.HeadPredicate()
		if !ok {
			continue
		}
		idx[pid] = append(idx[pid], c)
	}
	return &GameRecord{GameID: gameID, SDP: sdp, RuleSet: rewritten, clauses: idx}
}

// ClausesFor returns the clauses whose head predicate is pid, in
// installation order (Prolog order, spec.md §4.6).
func (r *GameRecord) ClausesFor(pid clause.PredicateID) []clause.Clause {
	return r.clauses[pid]
}

// HasClauses reports whether any clause defines pid. Used to decide
// whether or/2 should fall through to user-defined clauses instead of
// the built-in disjunction (spec.md §4.2, §9 open question).
func (r *GameRecord) HasClauses(pid clause.PredicateID) bool {
	return len(r.clauses[pid]) > 0
}

// RuleDatabase is the process-wide (or Engine-wide) store of installed
// games, keyed by game id.
type RuleDatabase struct {
	mu    sync.RWMutex
	games map[string]*GameRecord
}

// NewRuleDatabase returns an empty database.
func NewRuleDatabase() *RuleDatabase {
	return &RuleDatabase{games: make(map[string]*GameRecord)}
}

// Install publishes rec under rec.GameID, replacing any existing
// record with that id. Other game ids in the table are unaffected
// (spec.md §4.5: "must not corrupt other games sharing the table").
func (d *RuleDatabase) Install(rec *GameRecord) {
	d.mu.Lock()
	defer d.mu.Unlock()

	next := make(map[string]*GameRecord, len(d.games)+1)
	for id, r := range d.games {
		next[id] = r
	}
	next[rec.GameID] = rec
	d.games = next
}

// Snapshot returns the currently-published record for gameID, if any.
// The returned pointer is safe to use without further locking: records
// are immutable once installed.
func (d *RuleDatabase) Snapshot(gameID string) (*GameRecord, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	rec, ok := d.games[gameID]
	return rec, ok
}

// Exists reports whether gameID has an installed record.
func (d *RuleDatabase) Exists(gameID string) bool {
	_, ok := d.Snapshot(gameID)
	return ok
}
