// Package eventsourcing is the facade doc package for the module: it
// names the pieces a host application wires together and points at
// where each one lives. The runtime packages are imported directly;
// this package exists for the module-level godoc entry point and a
// version string.
//
//	es              - shared data model (DomainEvent, StoredEvent, Notification, Snapshot, Section)
//	transcoder      - self-describing wire codec plus the custom-type registry
//	codec           - compressor/cipher pipeline applied after transcoding
//	upcaster        - schema migration chain applied before decode
//	registry        - topic -> {factory, reducer, schema version} domain registry
//	mapper          - composes transcoder, codec, upcaster, and registry
//	recorder        - storage contract, with postgres/mysql/sqlite adapters
//	eventstore      - put/get facade over a mapper and a recorder
//	repository      - snapshot-assisted aggregate reconstruction
//	notificationlog - bounded, linked sections over the global notification stream
//	aggregate       - a small reusable base for domain aggregates
//	config          - environment-variable configuration loader
//	tracing         - OpenTelemetry spans and counters around the above
//	schema          - DDL generator for the events/snapshots tables (cmd/migrate-gen)
//
// Quick start:
//
//  1. Generate schema:
//     go run github.com/Unholster/eventsourcing/cmd/migrate-gen -adapter postgres -output migrations
//
//  2. Wire a store and save events:
//     store := postgres.NewStore(postgres.DefaultStoreConfig())
//     es := eventstore.New(myMapper, store)
//     ids, err := es.Put(ctx, tx, pendingEvents)
//
//  3. Reconstruct an aggregate:
//     repo := repository.New(repository.Config[MyState]{EventRecorder: store, Mapper: myMapper, Reducer: myReducer})
//     state, err := repo.Get(ctx, tx, aggregateID, nil)
package eventsourcing

// Version returns the current version of the library.
func Version() string {
	return "0.1.0-dev"
}
