package mapper_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"

	"github.com/Unholster/eventsourcing/codec"
	"github.com/Unholster/eventsourcing/es"
	"github.com/Unholster/eventsourcing/mapper"
	"github.com/Unholster/eventsourcing/registry"
	"github.com/Unholster/eventsourcing/transcoder"
	"github.com/Unholster/eventsourcing/upcaster"
)

type thingCreated struct {
	Name string
}

func newRegistry() *registry.Registry {
	r := registry.NewRegistry()
	r.Register(
		"thing.created",
		func() any { return &thingCreated{} },
		func(state any, eventState any) (any, error) { return eventState, nil },
		1,
	)
	return r
}

func TestMapper_EncodeDecode_RoundTrip(t *testing.T) {
	tc := transcoder.New(transcoder.NewDefaultRegistry())
	m := mapper.New(tc, nil, newRegistry(), nil)

	originatorID := uuid.New()
	event := es.DomainEvent{
		OriginatorID:      originatorID,
		OriginatorVersion: 1,
		Timestamp:         time.Now().UTC(),
		Topic:             "thing.created",
		State:             &thingCreated{Name: "dinosaurs"},
	}

	stored, err := m.Encode(event)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if stored.Topic != "thing.created" {
		t.Errorf("Topic = %q, want thing.created", stored.Topic)
	}
	if stored.OriginatorID != originatorID {
		t.Errorf("OriginatorID mismatch")
	}

	decoded, err := m.Decode(stored)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	got, ok := decoded.State.(*thingCreated)
	if !ok {
		t.Fatalf("State is %T, want *thingCreated", decoded.State)
	}
	if got.Name != "dinosaurs" {
		t.Errorf("Name = %q, want dinosaurs", got.Name)
	}
	if decoded.OriginatorVersion != event.OriginatorVersion {
		t.Errorf("OriginatorVersion = %d, want %d", decoded.OriginatorVersion, event.OriginatorVersion)
	}
}

func TestMapper_Decode_UnknownTopic(t *testing.T) {
	tc := transcoder.New(transcoder.NewDefaultRegistry())
	m := mapper.New(tc, nil, registry.NewRegistry(), nil)

	event := es.DomainEvent{
		OriginatorID:      uuid.New(),
		OriginatorVersion: 1,
		Topic:             "thing.created",
		State:             &thingCreated{Name: "trucks"},
	}
	stored, err := m.Encode(event)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	if _, err := m.Decode(stored); err == nil {
		t.Fatal("expected decode to fail for an unregistered topic")
	}
}

type renameCreatedToMade struct{}

func (renameCreatedToMade) Topic() string    { return "thing.created" }
func (renameCreatedToMade) FromVersion() int { return 1 }
func (renameCreatedToMade) Upcast(state map[string]any, topic string) (map[string]any, string, error) {
	return state, "thing.made", nil
}

func TestMapper_Decode_AppliesUpcasterChain(t *testing.T) {
	tc := transcoder.New(transcoder.NewDefaultRegistry())

	reg := registry.NewRegistry()
	reg.Register(
		"thing.made",
		func() any { return &thingCreated{} },
		func(state any, eventState any) (any, error) { return eventState, nil },
		2,
	)

	chain := upcaster.NewChain(renameCreatedToMade{})
	m := mapper.New(tc, nil, reg, chain)

	event := es.DomainEvent{
		OriginatorID:      uuid.New(),
		OriginatorVersion: 1,
		Topic:             "thing.created",
		State:             &thingCreated{Name: "internet"},
	}
	stored, err := m.Encode(event)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, err := m.Decode(stored)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded.Topic != "thing.made" {
		t.Errorf("Topic = %q, want thing.made", decoded.Topic)
	}
	if decoded.State.(*thingCreated).Name != "internet" {
		t.Errorf("Name = %q, want internet", decoded.State.(*thingCreated).Name)
	}
}

// addedReminder upcasts a v1 thing.created record by filling in a
// Reminder field that didn't exist yet at v1.
type addedReminder struct{}

func (addedReminder) Topic() string    { return "thing.created" }
func (addedReminder) FromVersion() int { return 1 }
func (addedReminder) Upcast(state map[string]any, topic string) (map[string]any, string, error) {
	state["Reminder"] = "legacy default"
	return state, topic, nil
}

type thingCreatedV2 struct {
	Name     string
	Reminder string
}

func TestMapper_Encode_StampsCurrentSchemaVersion(t *testing.T) {
	tc := transcoder.New(transcoder.NewDefaultRegistry())

	reg := registry.NewRegistry()
	reg.Register(
		"thing.created",
		func() any { return &thingCreatedV2{} },
		func(state any, eventState any) (any, error) { return eventState, nil },
		2,
	)
	chain := upcaster.NewChain(addedReminder{})
	m := mapper.New(tc, nil, reg, chain)

	event := es.DomainEvent{
		OriginatorID:      uuid.New(),
		OriginatorVersion: 1,
		Topic:             "thing.created",
		State:             &thingCreatedV2{Name: "dinosaurs", Reminder: "set at write time"},
	}

	stored, err := m.Encode(event)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, err := m.Decode(stored)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	got := decoded.State.(*thingCreatedV2)
	if got.Reminder != "set at write time" {
		t.Errorf("Reminder = %q, want %q (a v1 upcaster overwrote a current-schema record)", got.Reminder, "set at write time")
	}
}

func TestMapper_EncodeDecode_WithCompressionAndEncryption(t *testing.T) {
	tc := transcoder.New(transcoder.NewDefaultRegistry())

	comp, err := codec.NewZstdCompressor(zstd.SpeedDefault)
	if err != nil {
		t.Fatalf("NewZstdCompressor: %v", err)
	}
	defer comp.Close()

	key, err := codec.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	cipher, err := codec.NewChaCha20Poly1305Cipher(key)
	if err != nil {
		t.Fatalf("NewChaCha20Poly1305Cipher: %v", err)
	}

	pipeline := codec.NewPipeline(comp, cipher)
	m := mapper.New(tc, pipeline, newRegistry(), nil)

	event := es.DomainEvent{
		OriginatorID:      uuid.New(),
		OriginatorVersion: 1,
		Topic:             "thing.created",
		State:             &thingCreated{Name: "dinosaurs"},
	}

	stored, err := m.Encode(event)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	for i := 0; i+len("dinosaurs") <= len(stored.State); i++ {
		if string(stored.State[i:i+len("dinosaurs")]) == "dinosaurs" {
			t.Fatal("plaintext literal found in encrypted stored state")
		}
	}

	decoded, err := m.Decode(stored)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded.State.(*thingCreated).Name != "dinosaurs" {
		t.Errorf("Name = %q, want dinosaurs", decoded.State.(*thingCreated).Name)
	}
}
