// Package recorder defines the storage contract every backend adapter
// implements: atomic multi-row event inserts, versioned range reads,
// the global notification scan, and the separate snapshot store.
// Concrete adapters live in recorder/postgres, recorder/mysql, and
// recorder/sqlite.
package recorder

import (
	"context"

	"github.com/google/uuid"

	"github.com/Unholster/eventsourcing/es"
)

// EventRecorder is the contract for the event log itself.
type EventRecorder interface {
	// InsertEvents inserts all records through tx and returns their
	// assigned notification ids in input order. It begins no
	// transaction of its own: the records commit or abort together only
	// when tx is a transaction the caller commits or rolls back.
	// Violating the (originator_id, originator_version) uniqueness
	// constraint stops the call with a *es.RecordConflictError, leaving
	// any rows already inserted in tx; any other integrity failure is a
	// *es.PersistenceError.
	InsertEvents(ctx context.Context, tx es.DBTX, records []es.StoredEvent) ([]uint64, error)

	// SelectEvents returns stored events for originatorID within rng,
	// ordered as rng requests.
	SelectEvents(ctx context.Context, tx es.DBTX, originatorID uuid.UUID, rng es.VersionRange) ([]es.StoredEvent, error)

	// SelectNotifications returns at most limit notifications with
	// id >= startID, in ascending id order.
	SelectNotifications(ctx context.Context, tx es.DBTX, startID uint64, limit int) ([]es.Notification, error)

	// MaxNotificationID returns the highest assigned notification id,
	// or 0 if the store is empty.
	MaxNotificationID(ctx context.Context, tx es.DBTX) (uint64, error)
}

// SnapshotRecorder is the contract for the separate snapshot store.
// Snapshots never participate in notification ordering.
type SnapshotRecorder interface {
	// InsertSnapshot stores one snapshot. A duplicate
	// (originator_id, originator_version) is a benign,
	// *es.RecordConflictError that callers may ignore.
	InsertSnapshot(ctx context.Context, tx es.DBTX, snapshot es.Snapshot) error

	// SelectSnapshots returns snapshots for originatorID within rng.
	SelectSnapshots(ctx context.Context, tx es.DBTX, originatorID uuid.UUID, rng es.VersionRange) ([]es.Snapshot, error)
}
