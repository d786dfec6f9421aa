// Package repository reconstructs aggregates from the event store,
// using a snapshot as a fast-path starting point when one is
// available.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Unholster/eventsourcing/es"
	"github.com/Unholster/eventsourcing/mapper"
	"github.com/Unholster/eventsourcing/recorder"
	"github.com/Unholster/eventsourcing/tracing"
)

// ErrVersionNotAvailable is returned by GetStrict when the requested
// version exceeds the highest version actually stored for the
// originator.
var ErrVersionNotAvailable = errors.New("repository: requested version not available")

// Reducer folds one decoded event's state onto the aggregate state T,
// returning the new state.
type Reducer[T any] func(state T, eventState any) (T, error)

// Repository reconstructs a T from stored events and, when available,
// a snapshot.
type Repository[T any] struct {
	eventRecorder    recorder.EventRecorder
	snapshotRecorder recorder.SnapshotRecorder
	mapper           *mapper.Mapper
	reducer          Reducer[T]
	snapshotsEnabled bool
}

// Config configures a Repository.
type Config[T any] struct {
	EventRecorder    recorder.EventRecorder
	SnapshotRecorder recorder.SnapshotRecorder
	Mapper           *mapper.Mapper
	Reducer          Reducer[T]
}

// New builds a Repository. SnapshotRecorder may be nil, in which case
// Get always replays from the beginning of the event stream.
func New[T any](config Config[T]) *Repository[T] {
	return &Repository[T]{
		eventRecorder:    config.EventRecorder,
		snapshotRecorder: config.SnapshotRecorder,
		mapper:           config.Mapper,
		reducer:          config.Reducer,
		snapshotsEnabled: config.SnapshotRecorder != nil,
	}
}

// Get reconstructs the aggregate at originatorID. version is the
// upper bound (inclusive) of events to replay; a nil version means
// the latest available. A version past the highest stored version is
// clamped to the highest available version rather than treated as an
// error; see GetStrict for the alternative.
func (r *Repository[T]) Get(ctx context.Context, tx es.DBTX, originatorID uuid.UUID, version *uint64) (T, error) {
	state, _, err := r.get(ctx, tx, originatorID, version)
	return state, err
}

// GetStrict behaves like Get, except a version past the highest
// stored version returns ErrVersionNotAvailable instead of silently
// clamping.
func (r *Repository[T]) GetStrict(ctx context.Context, tx es.DBTX, originatorID uuid.UUID, version uint64) (T, error) {
	state, resolved, err := r.get(ctx, tx, originatorID, &version)
	if err != nil {
		var zero T
		return zero, err
	}
	if resolved < version {
		var zero T
		return zero, fmt.Errorf("version %d requested but only %d available for %s: %w", version, resolved, originatorID, ErrVersionNotAvailable)
	}
	return state, nil
}

// get returns the folded state and the highest version actually
// reached.
func (r *Repository[T]) get(ctx context.Context, tx es.DBTX, originatorID uuid.UUID, version *uint64) (resultState T, resultVersion uint64, resultErr error) {
	ctx, span := tracing.StartReplay(ctx, originatorID.String())
	defer func() { tracing.EndWithError(span, resultErr) }()

	var zero T

	state, startVersion, err := r.loadSnapshot(ctx, tx, originatorID, version)
	if err != nil {
		return zero, 0, err
	}

	eventsRange := es.VersionsAfter(startVersion)
	if version != nil {
		eventsRange = es.VersionRange{GT: &startVersion, LTE: version}
	}

	records, err := r.eventRecorder.SelectEvents(ctx, tx, originatorID, eventsRange)
	if err != nil {
		return zero, 0, err
	}

	if startVersion == 0 && len(records) == 0 {
		return zero, 0, &es.AggregateNotFoundError{OriginatorID: originatorID}
	}

	current := state
	reached := startVersion
	for _, record := range records {
		event, err := r.mapper.Decode(record)
		if err != nil {
			return zero, 0, err
		}
		current, err = r.reducer(current, event.State)
		if err != nil {
			return zero, 0, err
		}
		reached = event.OriginatorVersion
	}
	tracing.RecordEventsLoaded(ctx, len(records))

	return current, reached, nil
}

// loadSnapshot returns the initial state (zero value if none found)
// and the version it represents, 0 meaning "no snapshot".
func (r *Repository[T]) loadSnapshot(ctx context.Context, tx es.DBTX, originatorID uuid.UUID, version *uint64) (T, uint64, error) {
	var zero T
	if !r.snapshotsEnabled {
		return zero, 0, nil
	}

	rng := es.AllVersions().Reversed().Limited(1)
	if version != nil {
		rng = es.VersionsUpTo(*version).Reversed().Limited(1)
	}

	snapshots, err := r.snapshotRecorder.SelectSnapshots(ctx, tx, originatorID, rng)
	if err != nil {
		return zero, 0, err
	}
	if len(snapshots) == 0 {
		return zero, 0, nil
	}

	snap := snapshots[0]
	decoded, err := r.mapper.Decode(es.StoredEvent{
		OriginatorID:      snap.OriginatorID,
		OriginatorVersion: snap.OriginatorVersion,
		Topic:             snap.Topic,
		State:             snap.State,
	})
	if err != nil {
		return zero, 0, err
	}

	state, ok := decoded.State.(T)
	if !ok {
		return zero, 0, &es.TranscodingError{Tag: snap.Topic, Err: fmt.Errorf("snapshot state is not assignable to the aggregate's state type")}
	}

	return state, snap.OriginatorVersion, nil
}
