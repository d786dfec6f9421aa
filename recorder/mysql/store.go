// Package mysql provides a MySQL/MariaDB adapter for the event store
// and snapshot store.
package mysql

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/google/uuid"

	"github.com/Unholster/eventsourcing/es"
	"github.com/Unholster/eventsourcing/tracing"
)

// duplicateEntryErrorNumber is the MySQL error number for a duplicate
// key on a unique index (ER_DUP_ENTRY).
const duplicateEntryErrorNumber = 1062

// StoreConfig configures the table names the store reads and writes.
// Configuration is immutable after construction.
type StoreConfig struct {
	// Logger is an optional logger for observability. If nil, logging
	// is disabled (zero overhead).
	Logger es.Logger

	// EventsTable is the name of the event log table.
	EventsTable string

	// SnapshotsTable is the name of the snapshot table.
	SnapshotsTable string
}

// DefaultStoreConfig returns the default configuration.
func DefaultStoreConfig() StoreConfig {
	return StoreConfig{
		EventsTable:    "events",
		SnapshotsTable: "snapshots",
	}
}

// StoreOption is a functional option for configuring a Store.
type StoreOption func(*StoreConfig)

// WithLogger sets a logger for the store.
func WithLogger(logger es.Logger) StoreOption {
	return func(c *StoreConfig) { c.Logger = logger }
}

// WithEventsTable sets a custom events table name.
func WithEventsTable(name string) StoreOption {
	return func(c *StoreConfig) { c.EventsTable = name }
}

// WithSnapshotsTable sets a custom snapshots table name.
func WithSnapshotsTable(name string) StoreOption {
	return func(c *StoreConfig) { c.SnapshotsTable = name }
}

// NewStoreConfig builds a configuration from the default plus the
// given options.
func NewStoreConfig(opts ...StoreOption) StoreConfig {
	config := DefaultStoreConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return config
}

// Store is a MySQL/MariaDB-backed EventRecorder and SnapshotRecorder.
type Store struct {
	config StoreConfig
}

// NewStore creates a new MySQL-backed store.
func NewStore(config StoreConfig) *Store {
	return &Store{config: config}
}

// InsertEvents implements recorder.EventRecorder.
func (s *Store) InsertEvents(ctx context.Context, tx es.DBTX, records []es.StoredEvent) ([]uint64, error) {
	if len(records) == 0 {
		return nil, nil
	}

	if s.config.Logger != nil {
		s.config.Logger.Debug(ctx, "inserting events", "count", len(records))
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (originator_id, originator_version, topic, state)
		VALUES (?, ?, ?, ?)
	`, s.config.EventsTable)

	ids := make([]uint64, len(records))
	for i, record := range records {
		result, err := tx.ExecContext(ctx, query,
			record.OriginatorID.String(),
			record.OriginatorVersion,
			record.Topic,
			record.State,
		)
		if err != nil {
			if isUniqueViolation(err) {
				tracing.RecordConflict(ctx)
				if s.config.Logger != nil {
					s.config.Logger.Error(ctx, "record conflict",
						"originator_id", record.OriginatorID,
						"originator_version", record.OriginatorVersion)
				}
				return nil, &es.RecordConflictError{
					OriginatorID:      record.OriginatorID,
					OriginatorVersion: record.OriginatorVersion,
				}
			}
			return nil, &es.PersistenceError{Err: fmt.Errorf("inserting event %d: %w", i, err)}
		}

		id, err := result.LastInsertId()
		if err != nil {
			return nil, &es.PersistenceError{Err: fmt.Errorf("reading notification id: %w", err)}
		}
		ids[i] = uint64(id)
	}

	if s.config.Logger != nil {
		s.config.Logger.Info(ctx, "events inserted", "count", len(records), "notification_ids", ids)
	}

	return ids, nil
}

// SelectEvents implements recorder.EventRecorder.
func (s *Store) SelectEvents(ctx context.Context, tx es.DBTX, originatorID uuid.UUID, rng es.VersionRange) ([]es.StoredEvent, error) {
	query := fmt.Sprintf(`SELECT originator_id, originator_version, topic, state FROM %s WHERE originator_id = ?`, s.config.EventsTable)
	args := []interface{}{originatorID.String()}

	if rng.GT != nil {
		query += " AND originator_version > ?"
		args = append(args, *rng.GT)
	}
	if rng.LTE != nil {
		query += " AND originator_version <= ?"
		args = append(args, *rng.LTE)
	}
	if rng.Desc {
		query += " ORDER BY originator_version DESC"
	} else {
		query += " ORDER BY originator_version ASC"
	}
	if rng.Limit != nil {
		query += " LIMIT ?"
		args = append(args, *rng.Limit)
	}

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &es.PersistenceError{Err: fmt.Errorf("querying events: %w", err)}
	}
	defer rows.Close()

	var events []es.StoredEvent
	for rows.Next() {
		var e es.StoredEvent
		var originator string
		if err := rows.Scan(&originator, &e.OriginatorVersion, &e.Topic, &e.State); err != nil {
			return nil, &es.PersistenceError{Err: fmt.Errorf("scanning event: %w", err)}
		}
		e.OriginatorID, err = uuid.Parse(originator)
		if err != nil {
			return nil, &es.PersistenceError{Err: fmt.Errorf("parsing originator id: %w", err)}
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, &es.PersistenceError{Err: err}
	}

	return events, nil
}

// SelectNotifications implements recorder.EventRecorder.
func (s *Store) SelectNotifications(ctx context.Context, tx es.DBTX, startID uint64, limit int) ([]es.Notification, error) {
	query := fmt.Sprintf(`
		SELECT notification_id, originator_id, originator_version, topic, state
		FROM %s
		WHERE notification_id >= ?
		ORDER BY notification_id ASC
		LIMIT ?
	`, s.config.EventsTable)

	rows, err := tx.QueryContext(ctx, query, startID, limit)
	if err != nil {
		return nil, &es.PersistenceError{Err: fmt.Errorf("querying notifications: %w", err)}
	}
	defer rows.Close()

	var notifications []es.Notification
	for rows.Next() {
		var n es.Notification
		var originator string
		if err := rows.Scan(&n.ID, &originator, &n.OriginatorVersion, &n.Topic, &n.State); err != nil {
			return nil, &es.PersistenceError{Err: fmt.Errorf("scanning notification: %w", err)}
		}
		n.OriginatorID, err = uuid.Parse(originator)
		if err != nil {
			return nil, &es.PersistenceError{Err: fmt.Errorf("parsing originator id: %w", err)}
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, &es.PersistenceError{Err: err}
	}

	return notifications, nil
}

// MaxNotificationID implements recorder.EventRecorder.
func (s *Store) MaxNotificationID(ctx context.Context, tx es.DBTX) (uint64, error) {
	query := fmt.Sprintf(`SELECT COALESCE(MAX(notification_id), 0) FROM %s`, s.config.EventsTable)

	var max uint64
	if err := tx.QueryRowContext(ctx, query).Scan(&max); err != nil {
		return 0, &es.PersistenceError{Err: fmt.Errorf("reading max notification id: %w", err)}
	}
	return max, nil
}

// InsertSnapshot implements recorder.SnapshotRecorder.
func (s *Store) InsertSnapshot(ctx context.Context, tx es.DBTX, snapshot es.Snapshot) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (originator_id, originator_version, topic, state)
		VALUES (?, ?, ?, ?)
	`, s.config.SnapshotsTable)

	_, err := tx.ExecContext(ctx, query,
		snapshot.OriginatorID.String(),
		snapshot.OriginatorVersion,
		snapshot.Topic,
		snapshot.State,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &es.RecordConflictError{
				OriginatorID:      snapshot.OriginatorID,
				OriginatorVersion: snapshot.OriginatorVersion,
			}
		}
		return &es.PersistenceError{Err: fmt.Errorf("inserting snapshot: %w", err)}
	}
	return nil
}

// SelectSnapshots implements recorder.SnapshotRecorder.
func (s *Store) SelectSnapshots(ctx context.Context, tx es.DBTX, originatorID uuid.UUID, rng es.VersionRange) ([]es.Snapshot, error) {
	query := fmt.Sprintf(`SELECT originator_id, originator_version, topic, state FROM %s WHERE originator_id = ?`, s.config.SnapshotsTable)
	args := []interface{}{originatorID.String()}

	if rng.GT != nil {
		query += " AND originator_version > ?"
		args = append(args, *rng.GT)
	}
	if rng.LTE != nil {
		query += " AND originator_version <= ?"
		args = append(args, *rng.LTE)
	}
	if rng.Desc {
		query += " ORDER BY originator_version DESC"
	} else {
		query += " ORDER BY originator_version ASC"
	}
	if rng.Limit != nil {
		query += " LIMIT ?"
		args = append(args, *rng.Limit)
	}

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &es.PersistenceError{Err: fmt.Errorf("querying snapshots: %w", err)}
	}
	defer rows.Close()

	var snapshots []es.Snapshot
	for rows.Next() {
		var snap es.Snapshot
		var originator string
		if err := rows.Scan(&originator, &snap.OriginatorVersion, &snap.Topic, &snap.State); err != nil {
			return nil, &es.PersistenceError{Err: fmt.Errorf("scanning snapshot: %w", err)}
		}
		snap.OriginatorID, err = uuid.Parse(originator)
		if err != nil {
			return nil, &es.PersistenceError{Err: fmt.Errorf("parsing originator id: %w", err)}
		}
		snapshots = append(snapshots, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, &es.PersistenceError{Err: err}
	}

	return snapshots, nil
}

// isUniqueViolation reports whether err is a MySQL duplicate-key
// error (ER_DUP_ENTRY, 1062), distinguishing an aggregate-version race
// from any other integrity failure.
func isUniqueViolation(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == duplicateEntryErrorNumber
	}
	return false
}
