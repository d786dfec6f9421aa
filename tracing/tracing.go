// Package tracing wraps the store-crossing operations (event store
// put/get, repository replay, notification log section reads) with
// OpenTelemetry spans and counters, so a host application gets
// observability into this library without it owning logging or
// metrics configuration itself.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/Unholster/eventsourcing"

// Attribute keys shared by every span and metric this package emits.
const (
	AttrOriginatorID      = attribute.Key("eventsourcing.originator.id")
	AttrOriginatorVersion = attribute.Key("eventsourcing.originator.version")
	AttrTopic             = attribute.Key("eventsourcing.topic")
	AttrEventCount        = attribute.Key("eventsourcing.events.count")
	AttrSectionID         = attribute.Key("eventsourcing.notification.section_id")
)

var (
	tracer = otel.Tracer(instrumentationName)
	meter  = otel.Meter(instrumentationName)

	eventsAppended, _ = meter.Int64Counter(
		"eventsourcing.events.appended",
		metric.WithDescription("Number of domain events inserted into the event store"),
		metric.WithUnit("{event}"),
	)

	eventsLoaded, _ = meter.Int64Counter(
		"eventsourcing.events.loaded",
		metric.WithDescription("Number of domain events decoded by a repository replay"),
		metric.WithUnit("{event}"),
	)

	concurrencyConflicts, _ = meter.Int64Counter(
		"eventsourcing.concurrency.conflicts",
		metric.WithDescription("Number of RecordConflictError outcomes from an insert"),
		metric.WithUnit("{conflict}"),
	)

	notificationSectionsRead, _ = meter.Int64Counter(
		"eventsourcing.notificationlog.sections_read",
		metric.WithDescription("Number of notification log sections returned"),
		metric.WithUnit("{section}"),
	)
)

// StartPut starts a span around an EventStore.Put call.
func StartPut(ctx context.Context, eventCount int) (context.Context, trace.Span) {
	ctx, span := tracer.Start(ctx, "eventsourcing.put", trace.WithAttributes(
		AttrEventCount.Int(eventCount),
	))
	return ctx, span
}

// StartGet starts a span around an EventStore.Get call.
func StartGet(ctx context.Context, originatorID string) (context.Context, trace.Span) {
	ctx, span := tracer.Start(ctx, "eventsourcing.get", trace.WithAttributes(
		AttrOriginatorID.String(originatorID),
	))
	return ctx, span
}

// StartReplay starts a span around a repository replay.
func StartReplay(ctx context.Context, originatorID string) (context.Context, trace.Span) {
	ctx, span := tracer.Start(ctx, "eventsourcing.repository.get", trace.WithAttributes(
		AttrOriginatorID.String(originatorID),
	))
	return ctx, span
}

// StartSection starts a span around a notification log section read.
func StartSection(ctx context.Context, sectionID string) (context.Context, trace.Span) {
	ctx, span := tracer.Start(ctx, "eventsourcing.notificationlog.section", trace.WithAttributes(
		AttrSectionID.String(sectionID),
	))
	return ctx, span
}

// EndWithError records err on span (if non-nil) and ends it.
func EndWithError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// RecordEventsAppended increments the events-appended counter.
func RecordEventsAppended(ctx context.Context, n int) {
	if n <= 0 {
		return
	}
	eventsAppended.Add(ctx, int64(n))
}

// RecordEventsLoaded increments the events-loaded counter.
func RecordEventsLoaded(ctx context.Context, n int) {
	if n <= 0 {
		return
	}
	eventsLoaded.Add(ctx, int64(n))
}

// RecordConflict increments the concurrency-conflicts counter.
func RecordConflict(ctx context.Context) {
	concurrencyConflicts.Add(ctx, 1)
}

// RecordSectionRead increments the sections-read counter.
func RecordSectionRead(ctx context.Context) {
	notificationSectionsRead.Add(ctx, 1)
}
