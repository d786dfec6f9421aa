package aggregate_test

import (
	"testing"

	"github.com/google/uuid"

	"github.com/Unholster/eventsourcing/aggregate"
)

type widget struct {
	aggregate.Root
	history []string
}

func newWidget(id uuid.UUID) *widget {
	w := &widget{Root: aggregate.NewRoot(id)}
	return w
}

func (w *widget) addPart(name string) {
	w.history = append(w.history, name)
	w.Apply("widget.part_added", name)
}

func TestRoot_ApplyBuffersEventsAndAdvancesVersion(t *testing.T) {
	id := uuid.New()
	w := newWidget(id)

	if w.Version() != 0 {
		t.Fatalf("expected a fresh aggregate to start at version 0, got %d", w.Version())
	}

	w.addPart("dinosaurs")
	w.addPart("trucks")

	if w.Version() != 2 {
		t.Fatalf("expected version 2 after two applies, got %d", w.Version())
	}

	events := w.CollectPendingEvents()
	if len(events) != 2 {
		t.Fatalf("expected 2 pending events, got %d", len(events))
	}
	if events[0].OriginatorVersion != 1 || events[1].OriginatorVersion != 2 {
		t.Fatalf("expected sequential versions 1, 2, got %d, %d", events[0].OriginatorVersion, events[1].OriginatorVersion)
	}
	for _, e := range events {
		if e.OriginatorID != id {
			t.Errorf("expected originator id %s, got %s", id, e.OriginatorID)
		}
		if e.Topic != "widget.part_added" {
			t.Errorf("expected topic widget.part_added, got %s", e.Topic)
		}
	}
}

func TestRoot_CollectPendingEventsDrainsBuffer(t *testing.T) {
	w := newWidget(uuid.New())
	w.addPart("dinosaurs")

	first := w.CollectPendingEvents()
	if len(first) != 1 {
		t.Fatalf("expected 1 event, got %d", len(first))
	}

	second := w.CollectPendingEvents()
	if len(second) != 0 {
		t.Fatalf("expected the buffer to be empty after a prior collect, got %d events", len(second))
	}
	if w.Version() != 1 {
		t.Fatalf("expected version to remain 1 after draining an empty buffer, got %d", w.Version())
	}
}

func TestRoot_Hydrate_StartsAtGivenVersionWithEmptyBuffer(t *testing.T) {
	id := uuid.New()
	w := &widget{Root: aggregate.Hydrate(id, 4)}

	if w.Version() != 4 {
		t.Fatalf("expected hydrated version 4, got %d", w.Version())
	}
	if w.ID() != id {
		t.Fatalf("expected id %s, got %s", id, w.ID())
	}

	w.addPart("internet")
	if w.Version() != 5 {
		t.Fatalf("expected version 5 after one apply post-hydrate, got %d", w.Version())
	}
	events := w.CollectPendingEvents()
	if events[0].OriginatorVersion != 5 {
		t.Fatalf("expected the new event's version to continue from the hydrated version, got %d", events[0].OriginatorVersion)
	}
}
