package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/curbscope/curbscope/pkg/models"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestReadingRoundTrip(t *testing.T) {
	db := openTestDB(t)

	r := models.Reading{
		Timestamp:    time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC),
		EntityID:     "lot-a",
		Occupied:     5,
		Capacity:     10,
		Transactions: 3,
	}
	if err := db.InsertReading(r); err != nil {
		t.Fatalf("InsertReading() = %v", err)
	}

	got, err := db.ListReadings()
	if err != nil {
		t.Fatalf("ListReadings() = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d readings, want 1", len(got))
	}
	if !got[0].Timestamp.Equal(r.Timestamp) || got[0].EntityID != "lot-a" ||
		got[0].Occupied != 5 || got[0].Capacity != 10 || got[0].Transactions != 3 {
		t.Errorf("round trip mismatch: %+v", got[0])
	}
}

func TestInsertReadingIgnoresDuplicates(t *testing.T) {
	db := openTestDB(t)

	r := models.Reading{
		Timestamp: time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC),
		EntityID:  "lot-a",
		Occupied:  5,
		Capacity:  10,
	}
	if err := db.InsertReading(r); err != nil {
		t.Fatal(err)
	}
	if err := db.InsertReading(r); err != nil {
		t.Fatal(err)
	}

	count, err := db.CountReadings("lot-a")
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("got %d readings after duplicate insert, want 1", count)
	}
}

func TestUpsertEntity(t *testing.T) {
	db := openTestDB(t)

	e := models.Entity{ID: "bf-1", Name: "Main St 100", Color: "#0000ff", Kind: models.EntityBlockface, Capacity: 10, CurrentOccupied: 4}
	if err := db.UpsertEntity(e); err != nil {
		t.Fatal(err)
	}

	e.Name = "Main St 100-110"
	e.CurrentOccupied = 7
	if err := db.UpsertEntity(e); err != nil {
		t.Fatal(err)
	}

	entities, err := db.ListEntities()
	if err != nil {
		t.Fatal(err)
	}
	if len(entities) != 1 {
		t.Fatalf("got %d entities, want 1", len(entities))
	}
	got := entities[0]
	if got.Name != "Main St 100-110" || got.CurrentOccupied != 7 || got.Kind != models.EntityBlockface {
		t.Errorf("upsert did not replace metadata: %+v", got)
	}
}

func TestListReadingsForEntity(t *testing.T) {
	db := openTestDB(t)

	ts := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	for i, id := range []string{"lot-a", "lot-b", "lot-a"} {
		r := models.Reading{Timestamp: ts.Add(time.Duration(i) * time.Hour), EntityID: id, Occupied: 1, Capacity: 2}
		if err := db.InsertReading(r); err != nil {
			t.Fatal(err)
		}
	}

	got, err := db.ListReadingsForEntity("lot-a")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d readings for lot-a, want 2", len(got))
	}
	if got[0].Timestamp.After(got[1].Timestamp) {
		t.Error("readings not ordered by timestamp")
	}
}
