// Package tracker holds the per-PID counter table and the per-user totals the
// sampler builds up over a run. Neither table is safe for concurrent use.
package tracker

import "errors"

// ErrTableFull is returned when a bounded table rejects a new entry.
var ErrTableFull = errors.New("table is full")
