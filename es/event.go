// Package es provides the core data model shared by every layer of the
// event sourcing engine: the domain event as produced by an aggregate,
// its wire representation once mapped, the notification enrichment
// assigned by the recorder, and the bounded section returned by the
// notification log.
package es

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is an immutable fact about a past change to an
// originator (aggregate). It is the shape the mapper consumes on
// write and produces on read; State carries the actual domain value
// object, whatever concrete Go type the registry associates with
// Topic.
type DomainEvent struct {
	// OriginatorID identifies the aggregate that produced the event.
	OriginatorID uuid.UUID

	// OriginatorVersion is the monotonic, gap-free version of the
	// originator after this event is applied. Versions start at 1.
	OriginatorVersion uint64

	// Timestamp is when the event was created.
	Timestamp time.Time

	// Topic stably names the event's class for reconstruction. It is
	// resolved against a registry.Registry at decode time.
	Topic string

	// State is the decoded domain value carried by the event.
	State any
}

// StoredEvent is the wire form of a DomainEvent: State has already
// passed through the mapper's encode -> compress -> encrypt pipeline.
type StoredEvent struct {
	OriginatorID      uuid.UUID
	OriginatorVersion uint64
	Topic             string
	State             []byte
}

// Notification enriches a StoredEvent with a globally unique,
// strictly increasing ID assigned by the recorder at insert time.
// IDs are monotonic but not necessarily contiguous: aborted or
// concurrent transactions may leave gaps.
type Notification struct {
	ID                uint64
	OriginatorID      uuid.UUID
	OriginatorVersion uint64
	Topic             string
	State             []byte
}

// Snapshot is structurally a StoredEvent that lives in a separate
// store and never participates in notification ordering.
type Snapshot struct {
	OriginatorID      uuid.UUID
	OriginatorVersion uint64
	Topic             string
	State             []byte
}

// Section is the result of a bounded notification log query. SectionID
// and NextID follow the "<uint64>,<uint64>" grammar described by the
// notification log component; both are nil at the appropriate
// boundaries (empty store, end of stream).
type Section struct {
	SectionID *string
	Items     []Notification
	NextID    *string
}

// IsEmpty reports whether the section carries no notifications.
func (s Section) IsEmpty() bool {
	return len(s.Items) == 0
}
