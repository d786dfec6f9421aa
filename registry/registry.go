// Package registry is the static, statically-typed replacement for a
// dynamic-import event-class resolver. Aggregates and event types
// register themselves by topic string at application startup; the
// core resolves topics to constructors and reducers through this
// registry at replay time. Events never carry a back-reference to the
// aggregate type that produced them.
package registry

import "fmt"

// Reducer folds one domain event's state onto an aggregate's current
// state, returning the new state. state is nil for the very first
// event of an aggregate.
type Reducer func(state any, eventState any) (any, error)

// Factory produces a zero-value instance of an event's state type,
// used as the decode target for that topic.
type Factory func() any

// Entry is everything the core needs to know about one event topic.
type Entry struct {
	Factory              Factory
	Reducer              Reducer
	CurrentSchemaVersion int
}

// Registry maps topic strings to Entry values. It is populated once at
// startup and is read-only thereafter; the zero value is ready to use
// only via NewRegistry.
type Registry struct {
	entries map[string]Entry
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// Register associates topic with a factory, a reducer, and the
// current schema version new events of this topic are written at. It
// panics if topic is already registered, since a duplicate
// registration is a startup-time programming error, not a runtime
// condition callers can recover from.
func (r *Registry) Register(topic string, factory Factory, reducer Reducer, currentVersion int) {
	if _, exists := r.entries[topic]; exists {
		panic(fmt.Sprintf("registry: topic %q already registered", topic))
	}
	r.entries[topic] = Entry{
		Factory:              factory,
		Reducer:              reducer,
		CurrentSchemaVersion: currentVersion,
	}
}

// Lookup returns the Entry registered for topic, if any.
func (r *Registry) Lookup(topic string) (Entry, bool) {
	e, ok := r.entries[topic]
	return e, ok
}
