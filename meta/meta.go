// Package meta holds the small set of tunable defaults the rest of the
// module falls back to, mirroring meta/meta.go's role in the teacher
// (a single file of named constants instead of scattered magic
// numbers).
package meta

// DefaultGoroutines is concurrent.QueryPool's default worker count
// when a caller doesn't override it with WithGoroutines.
const DefaultGoroutines = 8

// DefaultMaxTurns bounds gamemaster.PlayGame when a caller doesn't
// pass an explicit turn cap, guarding against a malformed rule-set
// whose terminal/0 is never derivable.
const DefaultMaxTurns = 300

// DefaultUpdateBuffer is a spectator channel depth a caller can pass
// as gamemaster.NewLiveGame's updateBuffer; NewLiveGame itself always
// takes the depth from its argument and does not fall back to this.
const DefaultUpdateBuffer = 8
