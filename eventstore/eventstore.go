// Package eventstore is the facade that maps DomainEvents to stored
// records and back, delegating persistence to a recorder.EventRecorder
// and encoding to a mapper.Mapper.
package eventstore

import (
	"context"
	"errors"
	"iter"

	"github.com/google/uuid"

	"github.com/Unholster/eventsourcing/es"
	"github.com/Unholster/eventsourcing/mapper"
	"github.com/Unholster/eventsourcing/recorder"
	"github.com/Unholster/eventsourcing/tracing"
)

// EventStore composes a mapper and a recorder into the put/get facade
// the rest of the library builds on.
type EventStore struct {
	mapper   *mapper.Mapper
	recorder recorder.EventRecorder
	logger   es.Logger
}

// Option configures an EventStore at construction.
type Option func(*EventStore)

// WithLogger attaches an observability hook. A nil logger leaves
// logging disabled.
func WithLogger(logger es.Logger) Option {
	return func(s *EventStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New builds an EventStore.
func New(m *mapper.Mapper, r recorder.EventRecorder, opts ...Option) *EventStore {
	s := &EventStore{mapper: m, recorder: r, logger: es.NoOpLogger{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Put maps events to stored records and inserts them through tx in a
// single InsertEvents call, returning their assigned notification ids
// in input order. Put begins no transaction of its own: the events,
// including events from different originators, commit or fail
// together only when tx is a transaction the caller commits or rolls
// back.
func (s *EventStore) Put(ctx context.Context, tx es.DBTX, events []es.DomainEvent) (ids []uint64, err error) {
	if len(events) == 0 {
		return nil, nil
	}

	ctx, span := tracing.StartPut(ctx, len(events))
	defer func() { tracing.EndWithError(span, err) }()

	records := make([]es.StoredEvent, len(events))
	for i, event := range events {
		stored, encErr := s.mapper.Encode(event)
		if encErr != nil {
			err = encErr
			return nil, err
		}
		records[i] = stored
	}

	ids, err = s.recorder.InsertEvents(ctx, tx, records)
	if err != nil {
		var conflict *es.RecordConflictError
		if errors.As(err, &conflict) {
			tracing.RecordConflict(ctx)
		}
		return nil, err
	}

	tracing.RecordEventsAppended(ctx, len(events))
	s.logger.Info(ctx, "events put", "count", len(events), "notification_ids", ids)
	return ids, nil
}

// Get fetches stored records for originatorID within rng, decoding
// (and upcasting) each lazily. The returned iterator is finite and not
// restartable: ranging over it twice re-reads nothing the second time.
func (s *EventStore) Get(ctx context.Context, tx es.DBTX, originatorID uuid.UUID, rng es.VersionRange) iter.Seq2[es.DomainEvent, error] {
	consumed := false
	return func(yield func(es.DomainEvent, error) bool) {
		if consumed {
			return
		}
		consumed = true
		ctx, span := tracing.StartGet(ctx, originatorID.String())
		var err error
		defer func() { tracing.EndWithError(span, err) }()

		var records []es.StoredEvent
		records, err = s.recorder.SelectEvents(ctx, tx, originatorID, rng)
		if err != nil {
			yield(es.DomainEvent{}, err)
			return
		}

		decoded := 0
		for _, record := range records {
			var event es.DomainEvent
			event, err = s.mapper.Decode(record)
			if !yield(event, err) {
				return
			}
			if err != nil {
				return
			}
			decoded++
		}
		tracing.RecordEventsLoaded(ctx, decoded)
	}
}
