// ABOUTME: Store interface and record types for per-user identification codes
// ABOUTME: Defines the Record document shape shared by all backends

package store

import (
	"context"
	"errors"
	"slices"
)

// ErrNotBound is returned when a user has no identification code on record.
var ErrNotBound = errors.New("no identification code bound")

// Record is the per-user document: the currently selected identification
// code plus every distinct code the user has bound, in bind order.
//
// An empty Current means "not bound". Persisted records always carry a
// non-empty Current because a record is created on the first successful
// bind and there is no unbind operation; the empty case only appears when
// decoding legacy documents that stored an explicit null.
type Record struct {
	Current string   `json:"current"`
	Codes   []string `json:"codes"`
}

// bind applies the bind mutation: the code joins the history if new and
// becomes current either way.
func (r *Record) bind(code string) {
	if !slices.Contains(r.Codes, code) {
		r.Codes = append(r.Codes, code)
	}
	r.Current = code
}

// Store is the durable mapping from user id to code Record.
//
// Implementations must be safe for concurrent use: binds for different
// users must never overwrite one another, and a read following a bind in
// the same process must observe that bind.
type Store interface {
	// Bind records code as the user's current identification code,
	// appending it to the user's history when not already present.
	// The code is stored verbatim; callers canonicalize first.
	Bind(ctx context.Context, userID, code string) error

	// Current returns the user's current identification code, or
	// ErrNotBound when the user has never bound one.
	Current(ctx context.Context, userID string) (string, error)

	// History returns every distinct code the user has bound, oldest
	// first, or ErrNotBound when the user has never bound one.
	History(ctx context.Context, userID string) ([]string, error)

	// Close releases any resources held by the store.
	Close() error
}
