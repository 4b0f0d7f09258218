package aggregate

import (
	"database/sql"
	"fmt"

	"github.com/ohler55/ojg/oj"
	_ "modernc.org/sqlite"
)

// Store is the queryable SQLite form of the aggregate metadata.
// Records are stored as canonical JSON alongside their identity columns.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite store at dbPath and initializes
// the schema.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open store %s: %w", dbPath, err)
	}

	// The store is a rebuildable artifact, favor write speed over crash
	// durability during aggregation
	if _, err := db.Exec("PRAGMA synchronous = OFF"); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec("PRAGMA journal_mode = MEMORY"); err != nil {
		_ = db.Close()
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS dataset (
		id TEXT PRIMARY KEY,
		record JSON NOT NULL
	);

	CREATE TABLE IF NOT EXISTS files (
		path TEXT PRIMARY KEY,
		checksum TEXT NOT NULL,
		record JSON NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_files_checksum ON files(checksum);
	`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create store schema: %w", err)
	}

	return &Store{db: db}, nil
}

// PutDataset stores the dataset-level record under its identity.
func (s *Store) PutDataset(id string, record map[string]any) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO dataset (id, record) VALUES (?, ?)`,
		id, canonicalJSON(record),
	)
	if err != nil {
		return fmt.Errorf("failed to store dataset record: %w", err)
	}
	return nil
}

// PutFile stores one per-file record.
func (s *Store) PutFile(path, checksum string, record map[string]any) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO files (path, checksum, record) VALUES (?, ?, ?)`,
		path, checksum, canonicalJSON(record),
	)
	if err != nil {
		return fmt.Errorf("failed to store file record for %s: %w", path, err)
	}
	return nil
}

// FileCount returns the number of stored file records.
func (s *Store) FileCount() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM files`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count file records: %w", err)
	}
	return count, nil
}

// File returns the stored record for a dataset-relative path.
func (s *Store) File(path string) (map[string]any, error) {
	var raw string
	err := s.db.QueryRow(`SELECT record FROM files WHERE path = ?`, path).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("no record stored for %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read file record for %s: %w", path, err)
	}
	return parseRecord(raw)
}

// Dataset returns the stored dataset-level record and its identity.
func (s *Store) Dataset() (string, map[string]any, error) {
	var id, raw string
	err := s.db.QueryRow(`SELECT id, record FROM dataset`).Scan(&id, &raw)
	if err == sql.ErrNoRows {
		return "", nil, fmt.Errorf("no dataset record stored")
	}
	if err != nil {
		return "", nil, fmt.Errorf("failed to read dataset record: %w", err)
	}
	record, err := parseRecord(raw)
	if err != nil {
		return "", nil, err
	}
	return id, record, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func canonicalJSON(record map[string]any) string {
	return oj.JSON(record, &oj.Options{Sort: true})
}

func parseRecord(raw string) (map[string]any, error) {
	parsed, err := oj.ParseString(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse stored record: %w", err)
	}
	record, ok := parsed.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("stored record is not a JSON object")
	}
	return record, nil
}
