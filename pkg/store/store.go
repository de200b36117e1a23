// Package store keeps snapshots of uploaded record lists.
//
// A snapshot is an immutable, named copy of the records a user uploaded, so
// a layout can be recomputed later or shared by id. Layouts themselves are
// never stored; they are recomputed (and cached) on demand.
//
// Two implementations exist: [MemoryStore] for tests and single-process
// servers, and [MongoStore] for deployments that need persistence.
package store

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/deptiers/pkg/deps"
	"github.com/matzehuels/deptiers/pkg/errors"
)

// Snapshot is a stored record list.
type Snapshot struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Records   []deps.Record `json:"records"`
	CreatedAt time.Time     `json:"created_at"`
}

// Store persists snapshots.
type Store interface {
	// Save validates and stores records under a new id.
	Save(ctx context.Context, name string, records []deps.Record) (*Snapshot, error)
	// Get returns the snapshot with id, or a NOT_FOUND error.
	Get(ctx context.Context, id string) (*Snapshot, error)
	// List returns up to limit snapshots, newest first. Records are omitted.
	List(ctx context.Context, limit int) ([]Snapshot, error)
	// Delete removes a snapshot, or returns a NOT_FOUND error.
	Delete(ctx context.Context, id string) error
	Close(ctx context.Context) error
}

// DefaultListLimit bounds List when the caller passes zero.
const DefaultListLimit = 50

// Open returns a MongoStore for uri, or a MemoryStore when uri is empty.
func Open(ctx context.Context, uri string) (Store, error) {
	if uri == "" {
		return NewMemoryStore(), nil
	}
	return NewMongoStore(ctx, uri, DefaultDatabase)
}

func newSnapshot(name string, records []deps.Record) (*Snapshot, error) {
	if err := deps.Validate(records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []deps.Record{}
	}
	if name == "" {
		name = "untitled"
		if len(records) > 0 {
			name = records[0].Key().Label()
		}
	}
	return &Snapshot{
		ID:        uuid.NewString(),
		Name:      name,
		Records:   slices.Clone(records),
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}, nil
}

func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.New(errors.ErrCodeNotFound, "snapshot %q not found", id)
	}
	return nil
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeNotFound, "snapshot %q not found", id)
}

func listLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
