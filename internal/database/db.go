package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/curbscope/curbscope/pkg/models"
	_ "modernc.org/sqlite"
)

// DB wraps the database connection
type DB struct {
	conn *sql.DB
}

// New creates a new database connection and initializes the schema
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// initSchema creates the necessary tables
func (db *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS readings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TEXT NOT NULL,
		entity_id TEXT NOT NULL,
		occupied REAL NOT NULL,
		capacity REAL NOT NULL,
		transactions REAL DEFAULT 0,
		created_at TEXT NOT NULL,
		UNIQUE(timestamp, entity_id)
	);
	CREATE INDEX IF NOT EXISTS idx_readings_entity ON readings(entity_id);
	CREATE INDEX IF NOT EXISTS idx_readings_timestamp ON readings(timestamp);

	CREATE TABLE IF NOT EXISTS entities (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		color TEXT,
		kind TEXT NOT NULL,
		capacity REAL DEFAULT 0,
		current_occupied REAL DEFAULT 0
	);
	`

	_, err := db.conn.Exec(schema)
	return err
}

// InsertReading inserts a reading, ignoring duplicates
func (db *DB) InsertReading(r models.Reading) error {
	query := `
	INSERT OR IGNORE INTO readings (timestamp, entity_id, occupied, capacity, transactions, created_at)
	VALUES (?, ?, ?, ?, ?, ?)
	`

	tsStr := r.Timestamp.UTC().Format(time.RFC3339)
	createdAt := time.Now().UTC().Format(time.RFC3339)

	_, err := db.conn.Exec(query, tsStr, r.EntityID, r.Occupied, r.Capacity, r.Transactions, createdAt)
	if err != nil {
		return fmt.Errorf("inserting reading: %w", err)
	}

	return nil
}

// UpsertEntity inserts or replaces an entity's metadata
func (db *DB) UpsertEntity(e models.Entity) error {
	query := `
	INSERT INTO entities (id, name, color, kind, capacity, current_occupied)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		name = excluded.name,
		color = excluded.color,
		kind = excluded.kind,
		capacity = excluded.capacity,
		current_occupied = excluded.current_occupied
	`

	_, err := db.conn.Exec(query, e.ID, e.Name, e.Color, string(e.Kind), e.Capacity, e.CurrentOccupied)
	if err != nil {
		return fmt.Errorf("upserting entity: %w", err)
	}

	return nil
}

// ListReadings retrieves all readings ordered by timestamp
func (db *DB) ListReadings() ([]models.Reading, error) {
	query := `
	SELECT timestamp, entity_id, occupied, capacity, transactions
	FROM readings
	ORDER BY timestamp ASC
	`

	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, fmt.Errorf("querying readings: %w", err)
	}
	defer rows.Close()

	return scanReadings(rows)
}

// ListReadingsForEntity retrieves all readings for one entity ordered by timestamp
func (db *DB) ListReadingsForEntity(entityID string) ([]models.Reading, error) {
	query := `
	SELECT timestamp, entity_id, occupied, capacity, transactions
	FROM readings
	WHERE entity_id = ?
	ORDER BY timestamp ASC
	`

	rows, err := db.conn.Query(query, entityID)
	if err != nil {
		return nil, fmt.Errorf("querying readings for %s: %w", entityID, err)
	}
	defer rows.Close()

	return scanReadings(rows)
}

func scanReadings(rows *sql.Rows) ([]models.Reading, error) {
	var results []models.Reading
	for rows.Next() {
		var r models.Reading
		var tsStr string
		var transactions sql.NullFloat64

		if err := rows.Scan(&tsStr, &r.EntityID, &r.Occupied, &r.Capacity, &transactions); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		ts, err := time.Parse(time.RFC3339, tsStr)
		if err != nil {
			return nil, fmt.Errorf("parsing timestamp: %w", err)
		}
		r.Timestamp = ts.UTC()

		if transactions.Valid {
			r.Transactions = transactions.Float64
		}

		results = append(results, r)
	}

	return results, rows.Err()
}

// ListEntities retrieves all entity metadata ordered by ID
func (db *DB) ListEntities() ([]models.Entity, error) {
	query := `
	SELECT id, name, color, kind, capacity, current_occupied
	FROM entities
	ORDER BY id ASC
	`

	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, fmt.Errorf("querying entities: %w", err)
	}
	defer rows.Close()

	var results []models.Entity
	for rows.Next() {
		var e models.Entity
		var color sql.NullString
		var kind string

		if err := rows.Scan(&e.ID, &e.Name, &color, &kind, &e.Capacity, &e.CurrentOccupied); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		if color.Valid {
			e.Color = color.String
		}
		e.Kind = models.EntityKind(kind)

		results = append(results, e)
	}

	return results, rows.Err()
}

// CountReadings returns the number of stored readings for an entity
func (db *DB) CountReadings(entityID string) (int, error) {
	var count int
	err := db.conn.QueryRow(`SELECT COUNT(*) FROM readings WHERE entity_id = ?`, entityID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting readings: %w", err)
	}
	return count, nil
}
