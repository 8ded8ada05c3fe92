package device

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Repository defines the interface for snapshot persistence.
// This abstraction allows for different implementations (SQLite, mock)
// and enables unit testing without database dependencies.
//
// The store holds the last pushed raw record per (building, device) so a
// restart resumes from the most recent snapshot instead of an empty one.
type Repository interface {
	// Get retrieves a record. Returns ErrDeviceNotFound if absent.
	Get(ctx context.Context, buildingID, deviceID string) (*RawDevice, error)

	// ListByBuilding retrieves all records for a building.
	ListByBuilding(ctx context.Context, buildingID string) ([]RawDevice, error)

	// Buildings lists all building IDs with at least one record.
	Buildings(ctx context.Context) ([]string, error)

	// Upsert inserts or overwrites a record.
	Upsert(ctx context.Context, buildingID string, record *RawDevice) error

	// Delete removes a record. Returns ErrDeviceNotFound if absent.
	Delete(ctx context.Context, buildingID, deviceID string) error
}

// SQLiteRepository implements Repository using SQLite. Records are stored
// as JSON documents keyed by (building_id, device_id); the snapshot layer
// never queries inside the payload, so no per-field columns are needed.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed repository.
// The db parameter should be an open SQLite connection.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Get retrieves a record by building and device ID.
func (r *SQLiteRepository) Get(ctx context.Context, buildingID, deviceID string) (*RawDevice, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT record FROM device_snapshots WHERE building_id = ? AND device_id = ?`,
		buildingID, deviceID)

	var payload []byte
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDeviceNotFound
		}
		return nil, fmt.Errorf("querying snapshot: %w", err)
	}
	return unmarshalRecord(payload)
}

// ListByBuilding retrieves all records for a building, ordered by device ID.
func (r *SQLiteRepository) ListByBuilding(ctx context.Context, buildingID string) ([]RawDevice, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT record FROM device_snapshots WHERE building_id = ? ORDER BY device_id`,
		buildingID)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	var records []RawDevice
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scanning snapshot: %w", err)
		}
		rec, err := unmarshalRecord(payload)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// Buildings lists all building IDs with at least one stored record.
func (r *SQLiteRepository) Buildings(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT building_id FROM device_snapshots ORDER BY building_id`)
	if err != nil {
		return nil, fmt.Errorf("listing buildings: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning building id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Upsert inserts or overwrites a record.
func (r *SQLiteRepository) Upsert(ctx context.Context, buildingID string, record *RawDevice) error {
	if record == nil || record.DeviceID == "" {
		return ErrInvalidRecord
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshalling record: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO device_snapshots (building_id, device_id, record, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(building_id, device_id)
		 DO UPDATE SET record = excluded.record, updated_at = excluded.updated_at`,
		buildingID, record.DeviceID, payload, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upserting snapshot: %w", err)
	}
	return nil
}

// Delete removes a record.
func (r *SQLiteRepository) Delete(ctx context.Context, buildingID, deviceID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM device_snapshots WHERE building_id = ? AND device_id = ?`,
		buildingID, deviceID)
	if err != nil {
		return fmt.Errorf("deleting snapshot: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if n == 0 {
		return ErrDeviceNotFound
	}
	return nil
}

func unmarshalRecord(payload []byte) (*RawDevice, error) {
	var rec RawDevice
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, fmt.Errorf("unmarshalling record: %w", err)
	}
	rec.Normalize()
	return &rec, nil
}
