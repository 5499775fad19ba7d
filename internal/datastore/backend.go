package datastore

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrTooManyItems is raised when a bulk save exceeds the per-call limit.
	ErrTooManyItems = errors.New("TOO_MANY_ITEMS")
	// ErrInvalidID is raised when a mutation is attempted without a record id.
	ErrInvalidID = errors.New("datastore: please provide a non-empty id when updating")
	// ErrNotFound is returned by backends for key lookups that match nothing.
	ErrNotFound = errors.New("record not found")
)

// Query describes a single backend query: equality filters combined with AND,
// an optional range on created_at or a liveness bound on updated_at, one sort
// key and limit/offset pagination.
type Query struct {
	Filters       map[string]any
	UpdatedAfter  time.Time
	CreatedAfter  time.Time
	CreatedBefore time.Time
	OrderBy       string
	Descending    bool
	Limit         int
	Offset        int
}

// Backend is the record store adapter: key-based writes plus filtered reads.
// Implementations exist for MongoDB and for an in-memory map used in tests.
type Backend interface {
	// Run executes the query against a collection and returns matching records.
	Run(ctx context.Context, collection string, q Query) ([]Record, error)

	// Put writes the full record under the given id, replacing any previous
	// version. Writes are full-record overwrites, never field-level merges.
	Put(ctx context.Context, collection, id string, rec Record) error

	// Increment atomically adds delta to a numeric field of the record.
	Increment(ctx context.Context, collection, id, field string, delta int64) error
}
