// Package mapper composes the transcoder and codec pipelines into the
// single Encode/Decode pair the event store uses to turn DomainEvents
// into StoredEvents and back. It also applies the upcaster chain
// before decode, so every other layer only ever sees current-schema
// state.
package mapper

import (
	"reflect"

	"github.com/Unholster/eventsourcing/codec"
	"github.com/Unholster/eventsourcing/es"
	"github.com/Unholster/eventsourcing/registry"
	"github.com/Unholster/eventsourcing/transcoder"
	"github.com/Unholster/eventsourcing/upcaster"
)

// Mapper turns DomainEvents into StoredEvents on write and the
// reverse on read. The write order is fixed: transcode, then
// compress, then encrypt. Read reverses it: decrypt, then decompress,
// then upcast, then decode.
type Mapper struct {
	codec    *transcoder.Codec
	pipeline *codec.Pipeline
	registry *registry.Registry
	chain    *upcaster.Chain
}

// New builds a Mapper. pipeline may be nil, in which case the
// transcoded payload is stored as-is.
func New(tc *transcoder.Codec, pipeline *codec.Pipeline, reg *registry.Registry, chain *upcaster.Chain) *Mapper {
	if pipeline == nil {
		pipeline = codec.NewPipeline(nil, nil)
	}
	if chain == nil {
		chain = upcaster.NewChain()
	}
	return &Mapper{codec: tc, pipeline: pipeline, registry: reg, chain: chain}
}

// Encode maps a single DomainEvent to its StoredEvent wire form,
// stamping the topic's current schema version onto the document so a
// freshly written record is never mistaken for an older one on
// replay.
func (m *Mapper) Encode(event es.DomainEvent) (es.StoredEvent, error) {
	doc, err := m.codec.ToDoc(event.State)
	if err != nil {
		return es.StoredEvent{}, err
	}
	if entry, ok := m.registry.Lookup(event.Topic); ok {
		if stateDoc, ok := doc.(map[string]any); ok {
			stateDoc[upcaster.VersionKey] = entry.CurrentSchemaVersion
		}
	}
	raw, err := m.codec.Marshal(doc)
	if err != nil {
		return es.StoredEvent{}, err
	}
	wire, err := m.pipeline.Encode(raw)
	if err != nil {
		return es.StoredEvent{}, err
	}
	return es.StoredEvent{
		OriginatorID:      event.OriginatorID,
		OriginatorVersion: event.OriginatorVersion,
		Topic:             event.Topic,
		State:             wire,
	}, nil
}

// Decode maps a StoredEvent back to a DomainEvent, upcasting the
// record to the current schema before decoding it into the topic's
// registered state type.
func (m *Mapper) Decode(stored es.StoredEvent) (es.DomainEvent, error) {
	raw, err := m.pipeline.Decode(stored.State)
	if err != nil {
		return es.DomainEvent{}, err
	}

	decoded, err := m.codec.Decode(raw, nil)
	if err != nil {
		return es.DomainEvent{}, err
	}

	stateDoc, ok := decoded.(map[string]any)
	if !ok {
		return es.DomainEvent{}, &es.TranscodingError{Tag: stored.Topic}
	}

	upcastState, topic, err := m.chain.Apply(stateDoc, stored.Topic)
	if err != nil {
		return es.DomainEvent{}, err
	}

	entry, ok := m.registry.Lookup(topic)
	if !ok {
		return es.DomainEvent{}, &es.TranscodingError{Tag: topic}
	}

	target := entry.Factory()
	filled, err := m.fillTarget(upcastState, target)
	if err != nil {
		return es.DomainEvent{}, err
	}

	return es.DomainEvent{
		OriginatorID:      stored.OriginatorID,
		OriginatorVersion: stored.OriginatorVersion,
		Topic:             topic,
		State:             filled,
	}, nil
}

// fillTarget re-encodes the upcasted generic document and decodes it
// again with a concrete type hint, reusing the transcoder's own
// reflection-based filling instead of duplicating it here.
func (m *Mapper) fillTarget(doc map[string]any, target any) (any, error) {
	delete(doc, upcaster.VersionKey)

	reencoded, err := m.codec.Encode(doc)
	if err != nil {
		return nil, err
	}

	targetType := reflect.TypeOf(target)
	wantsPointer := targetType.Kind() == reflect.Pointer
	hint := targetType
	if wantsPointer {
		hint = targetType.Elem()
	}

	filled, err := m.codec.Decode(reencoded, hint)
	if err != nil {
		return nil, err
	}
	if !wantsPointer {
		return filled, nil
	}

	ptr := reflect.New(hint)
	ptr.Elem().Set(reflect.ValueOf(filled))
	return ptr.Interface(), nil
}
