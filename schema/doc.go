// Package schema provides SQL migration generation for the events and
// snapshots tables.
//
// To generate migrations, use the migrate-gen command:
//
//	go run github.com/Unholster/eventsourcing/cmd/migrate-gen -output migrations
//
// Or add a go generate directive to your code:
//
//	//go:generate go run github.com/Unholster/eventsourcing/cmd/migrate-gen -output ../../migrations
//
// Then run:
//
//	go generate ./...
package schema
