package device

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func setupTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("opening sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE device_snapshots (
		building_id TEXT NOT NULL,
		device_id   TEXT NOT NULL,
		record      TEXT NOT NULL,
		updated_at  TEXT NOT NULL,
		PRIMARY KEY (building_id, device_id)
	)`)
	if err != nil {
		t.Fatalf("creating table: %v", err)
	}

	return NewSQLiteRepository(db)
}

func TestSQLiteRepositoryRoundTrip(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	rec := &RawDevice{
		DeviceID:     "front-door",
		Name:         "Front Door Lock",
		Capabilities: []string{"lock"},
		Status:       StatusOnline,
		Location:     Location{Room: "entrance", IsCommonArea: true},
		Integration: &Integration{
			HomeAssistant: &HomeAssistantBinding{EntityID: "lock.front", Domain: "lock"},
		},
	}
	if err := repo.Upsert(ctx, "b-1", rec); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	got, err := repo.Get(ctx, "b-1", "front-door")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Name != rec.Name || got.Status != rec.Status {
		t.Errorf("Get() = %+v, want %+v", got, rec)
	}
	if got.Integration == nil || got.Integration.HomeAssistant.EntityID != "lock.front" {
		t.Errorf("integration lost in round trip: %+v", got.Integration)
	}
}

func TestSQLiteRepositoryUpsertOverwrites(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	if err := repo.Upsert(ctx, "b-1", &RawDevice{DeviceID: "d1", Name: "Old"}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if err := repo.Upsert(ctx, "b-1", &RawDevice{DeviceID: "d1", Name: "New"}); err != nil {
		t.Fatalf("second Upsert() error = %v", err)
	}

	got, err := repo.Get(ctx, "b-1", "d1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Name != "New" {
		t.Errorf("name = %q, want New", got.Name)
	}

	records, err := repo.ListByBuilding(ctx, "b-1")
	if err != nil {
		t.Fatalf("ListByBuilding() error = %v", err)
	}
	if len(records) != 1 {
		t.Errorf("records = %d, want 1 (overwrite, not append)", len(records))
	}
}

func TestSQLiteRepositoryUpsertValidation(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	if err := repo.Upsert(ctx, "b-1", nil); !errors.Is(err, ErrInvalidRecord) {
		t.Errorf("Upsert(nil) error = %v, want ErrInvalidRecord", err)
	}
	if err := repo.Upsert(ctx, "b-1", &RawDevice{}); !errors.Is(err, ErrInvalidRecord) {
		t.Errorf("Upsert(empty id) error = %v, want ErrInvalidRecord", err)
	}
}

func TestSQLiteRepositoryBuildings(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	for _, b := range []string{"b-2", "b-1", "b-2"} {
		if err := repo.Upsert(ctx, b, &RawDevice{DeviceID: "d-" + b, Name: b}); err != nil {
			t.Fatalf("Upsert(%s) error = %v", b, err)
		}
	}

	buildings, err := repo.Buildings(ctx)
	if err != nil {
		t.Fatalf("Buildings() error = %v", err)
	}
	if len(buildings) != 2 || buildings[0] != "b-1" || buildings[1] != "b-2" {
		t.Errorf("Buildings() = %v, want [b-1 b-2]", buildings)
	}
}

func TestSQLiteRepositoryDelete(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	if err := repo.Upsert(ctx, "b-1", &RawDevice{DeviceID: "d1", Name: "Lamp"}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if err := repo.Delete(ctx, "b-1", "d1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.Get(ctx, "b-1", "d1"); !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrDeviceNotFound", err)
	}
	if err := repo.Delete(ctx, "b-1", "d1"); !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("Delete() of absent record error = %v, want ErrDeviceNotFound", err)
	}
}

func TestSQLiteRepositoryGetMissing(t *testing.T) {
	repo := setupTestRepo(t)
	if _, err := repo.Get(context.Background(), "b-1", "ghost"); !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("Get() error = %v, want ErrDeviceNotFound", err)
	}
}
