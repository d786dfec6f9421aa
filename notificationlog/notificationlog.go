// Package notificationlog slices the global notification stream into
// bounded, linked sections. A section id is the string grammar
// "<a>,<b>" (a <= b); the log never caches a section, so repeated
// queries against the same id always re-read the recorder.
package notificationlog

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Unholster/eventsourcing/es"
	"github.com/Unholster/eventsourcing/recorder"
	"github.com/Unholster/eventsourcing/tracing"
)

// DefaultMaxSectionSize is used when Log is constructed with a zero
// MaxSectionSize.
const DefaultMaxSectionSize = 10

// Log queries a recorder.EventRecorder for bounded, linked sections of
// the global notification stream.
type Log struct {
	recorder       recorder.EventRecorder
	maxSectionSize uint64
}

// Option configures a Log at construction.
type Option func(*Log)

// WithMaxSectionSize overrides DefaultMaxSectionSize.
func WithMaxSectionSize(n uint64) Option {
	return func(l *Log) { l.maxSectionSize = n }
}

// New builds a Log backed by r.
func New(r recorder.EventRecorder, opts ...Option) *Log {
	l := &Log{recorder: r, maxSectionSize: DefaultMaxSectionSize}
	for _, opt := range opts {
		opt(l)
	}
	if l.maxSectionSize == 0 {
		l.maxSectionSize = DefaultMaxSectionSize
	}
	return l
}

// Section parses sectionID, fetches at most its requested window of
// notifications, and returns the resulting es.Section. sectionID must
// match "<a>,<b>" with a <= b and b-a+1 <= the log's max section size.
func (l *Log) Section(ctx context.Context, tx es.DBTX, sectionID string) (result es.Section, resultErr error) {
	ctx, span := tracing.StartSection(ctx, sectionID)
	defer func() { tracing.EndWithError(span, resultErr) }()

	a, b, err := parseSectionID(sectionID)
	if err != nil {
		return es.Section{}, err
	}
	if b-a+1 > l.maxSectionSize {
		return es.Section{}, fmt.Errorf("notificationlog: section %q spans %d ids, exceeding the max section size of %d", sectionID, b-a+1, l.maxSectionSize)
	}

	limit := int(b - a + 1)
	items, err := l.recorder.SelectNotifications(ctx, tx, a, limit)
	if err != nil {
		return es.Section{}, err
	}
	tracing.RecordSectionRead(ctx)

	section := es.Section{Items: items}

	if len(items) > 0 {
		id := fmt.Sprintf("%d,%d", items[0].ID, items[len(items)-1].ID)
		section.SectionID = &id
	}

	if len(items) < limit {
		return section, nil
	}

	next := fmt.Sprintf("%d,%d", b+1, b+uint64(limit))
	section.NextID = &next
	return section, nil
}

// At is bracket/subscript sugar over Section.
func (l *Log) At(ctx context.Context, tx es.DBTX, sectionID string) (es.Section, error) {
	return l.Section(ctx, tx, sectionID)
}

// parseSectionID parses the "<a>,<b>" grammar, requiring a <= b.
func parseSectionID(sectionID string) (a, b uint64, err error) {
	parts := strings.SplitN(sectionID, ",", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("notificationlog: malformed section id %q, want \"a,b\"", sectionID)
	}
	a, err = strconv.ParseUint(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("notificationlog: malformed section id %q: %w", sectionID, err)
	}
	b, err = strconv.ParseUint(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("notificationlog: malformed section id %q: %w", sectionID, err)
	}
	if a > b {
		return 0, 0, fmt.Errorf("notificationlog: malformed section id %q: lower bound exceeds upper bound", sectionID)
	}
	return a, b, nil
}
