// Package aggregate provides a small reusable base for domain
// aggregates: a pending-event buffer and the version bookkeeping the
// event store and repository expect. It draws the line at that; the
// command methods and reducers built on top of it are the caller's
// business logic, not this library's.
package aggregate

import (
	"time"

	"github.com/google/uuid"

	"github.com/Unholster/eventsourcing/es"
)

// Root is embedded by concrete aggregates. It tracks identity, the
// version the aggregate was loaded at (or 0 for a new aggregate), and
// the buffer of events raised since the last save.
type Root struct {
	id      uuid.UUID
	version uint64
	pending []es.DomainEvent
}

// NewRoot starts a new aggregate at id, version 0.
func NewRoot(id uuid.UUID) Root {
	return Root{id: id}
}

// Hydrate rebuilds a Root at the given id and version, with an empty
// pending buffer, as the repository does after a replay.
func Hydrate(id uuid.UUID, version uint64) Root {
	return Root{id: id, version: version}
}

// ID returns the aggregate's originator id.
func (r *Root) ID() uuid.UUID {
	return r.id
}

// Version returns the highest version reflected in the aggregate's
// state, including any events raised but not yet saved.
func (r *Root) Version() uint64 {
	return r.version + uint64(len(r.pending))
}

// Apply buffers a new pending event for topic with state, stamped with
// the next sequential version and the current time. It does not run
// the aggregate's own reducer; callers are expected to have already
// folded the new state onto themselves before calling Apply, exactly
// as replay will do on the next load.
func (r *Root) Apply(topic string, state any) es.DomainEvent {
	event := es.DomainEvent{
		OriginatorID:      r.id,
		OriginatorVersion: r.version + uint64(len(r.pending)) + 1,
		Timestamp:         time.Now(),
		Topic:             topic,
		State:             state,
	}
	r.pending = append(r.pending, event)
	return event
}

// CollectPendingEvents drains and returns the buffered events in the
// order they were applied, advancing version to reflect them as
// committed. Call this once per save, immediately before handing the
// result to the event store's Put.
func (r *Root) CollectPendingEvents() []es.DomainEvent {
	events := r.pending
	r.version += uint64(len(r.pending))
	r.pending = nil
	return events
}
