package es

import (
	"fmt"

	"github.com/google/uuid"
)

// AggregateNotFoundError is raised by the repository when neither a
// snapshot nor any events exist for an originator.
type AggregateNotFoundError struct {
	OriginatorID uuid.UUID
}

func (e *AggregateNotFoundError) Error() string {
	return fmt.Sprintf("aggregate not found: %s", e.OriginatorID)
}

// RecordConflictError is the canonical retriable error: a uniqueness
// violation on (originator_id, originator_version) in the event store,
// or on the (originator_id, originator_version) snapshot key. Callers
// treat it as an optimistic-concurrency-control failure and may reload
// and retry.
type RecordConflictError struct {
	OriginatorID      uuid.UUID
	OriginatorVersion uint64
}

func (e *RecordConflictError) Error() string {
	return fmt.Sprintf("record conflict for originator %s at version %d", e.OriginatorID, e.OriginatorVersion)
}

// PersistenceError wraps any recorder failure that is not an
// aggregate-version conflict: connectivity, an unrelated integrity
// violation, or a serialization failure the backing store could not
// resolve internally.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence error: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// TranscodingError is raised when decoding encounters an unknown type
// tag, or when encoding is asked to serialize a value with no
// registered transcoding and no primitive shape.
type TranscodingError struct {
	Tag string
	Err error
}

func (e *TranscodingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transcoding error for tag %q: %v", e.Tag, e.Err)
	}
	return fmt.Sprintf("transcoding error: unknown tag %q", e.Tag)
}

func (e *TranscodingError) Unwrap() error {
	return e.Err
}

// IntegrityError is raised when cipher tag verification fails,
// decompression fails, or an upcaster refuses a record it claimed to
// handle.
type IntegrityError struct {
	Reason string
	Err    error
}

func (e *IntegrityError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("integrity error: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("integrity error: %s", e.Reason)
}

func (e *IntegrityError) Unwrap() error {
	return e.Err
}
