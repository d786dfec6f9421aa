// Package es provides the core data model and low-level abstractions
// shared by every layer of the event sourcing engine:
//
//   - DomainEvent, StoredEvent, Notification, Snapshot, Section: the
//     data model (see § DATA MODEL of the design docs).
//   - DBTX: a minimal transaction abstraction so the library never
//     owns transaction boundaries.
//   - Logger: an optional, zero-overhead-when-nil observability hook.
//   - VersionRange: the (gt, lte] windowing shared by every versioned
//     range read.
//   - AggregateNotFoundError, RecordConflictError, PersistenceError,
//     TranscodingError, IntegrityError: the error taxonomy every other
//     package returns.
//
// # Design Philosophy
//
// Clean architecture: es is storage- and codec-agnostic. Concrete
// recorders live in recorder/<backend>, codecs in transcoder and
// codec, and orchestration in mapper, eventstore, repository, and
// notificationlog.
//
// Transaction control: callers begin/commit/rollback around DBTX.
// Nothing here manages a transaction's lifetime, which lets a
// multi-aggregate save commit atomically alongside unrelated
// application writes.
//
// Immutability: a DomainEvent has no identity until the recorder
// assigns it a notification id. Once committed, a StoredEvent row is
// never updated or deleted by this library.
//
// # Optimistic concurrency
//
// Recorders enforce optimistic concurrency via the uniqueness of
// (originator_id, originator_version). A writer that loaded an
// aggregate at version v and appends new events starting at v+1 races
// any other writer doing the same; exactly one commits, the other
// receives RecordConflictError and must reload and retry (retrying is
// the caller's responsibility, never the library's).
package es
