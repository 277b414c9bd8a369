package session

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/wricardo/roborally/game/service"
)

const sessionsTable = "sessions"

// SQLitePersistence implements SessionPersistence with one row per session
type SQLitePersistence struct {
	db *sql.DB
}

// NewSQLitePersistence opens (or creates) the database at dbPath
func NewSQLitePersistence(dbPath string) (*SQLitePersistence, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// sqlite serialises writers; a single connection also keeps ":memory:" databases shared
	db.SetMaxOpenConns(1)

	p := &SQLitePersistence{db: db}
	if err := p.createTable(); err != nil {
		db.Close()
		return nil, err
	}
	return p, nil
}

// createTable creates the sessions table if it does not exist.
func (p *SQLitePersistence) createTable() error {
	const createTableSQL = `
	CREATE TABLE IF NOT EXISTS ` + sessionsTable + ` (
		id TEXT PRIMARY KEY,
		scenario_id TEXT NOT NULL,
		created_at TEXT NOT NULL,
		last_accessed_at TEXT NOT NULL,
		data TEXT NOT NULL
	);`

	if _, err := p.db.Exec(createTableSQL); err != nil {
		return fmt.Errorf("failed to execute CREATE TABLE: %w", err)
	}
	return nil
}

// Save inserts or replaces the session row
func (p *SQLitePersistence) Save(session *service.Session) error {
	data, err := toPersisted(session)
	if err != nil {
		return err
	}
	if !validSessionID(session.ID) {
		return ErrInvalidSessionID
	}

	blob, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal session data: %w", err)
	}

	const upsertSQL = `
	INSERT INTO ` + sessionsTable + ` (id, scenario_id, created_at, last_accessed_at, data)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		scenario_id = excluded.scenario_id,
		last_accessed_at = excluded.last_accessed_at,
		data = excluded.data;`

	_, err = p.db.Exec(upsertSQL,
		strings.ToLower(session.ID),
		session.ScenarioID,
		session.CreatedAt.UTC().Format(time.RFC3339Nano),
		session.LastAccessedAt.UTC().Format(time.RFC3339Nano),
		string(blob),
	)
	if err != nil {
		return fmt.Errorf("failed to save session %s: %w", session.ID, err)
	}
	return nil
}

// Load reads a session row and restores its engine
func (p *SQLitePersistence) Load(id string) (*service.Session, error) {
	const selectSQL = `SELECT data FROM ` + sessionsTable + ` WHERE id = ?;`

	var blob string
	err := p.db.QueryRow(selectSQL, strings.ToLower(id)).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session %s: %w", id, err)
	}

	var data PersistedSessionData
	if err := json.Unmarshal([]byte(blob), &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session data: %w", err)
	}
	return fromPersisted(&data)
}

// Delete removes a session row
func (p *SQLitePersistence) Delete(id string) error {
	const deleteSQL = `DELETE FROM ` + sessionsTable + ` WHERE id = ?;`

	res, err := p.db.Exec(deleteSQL, strings.ToLower(id))
	if err != nil {
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// ListAll returns all persisted session IDs, oldest first
func (p *SQLitePersistence) ListAll() ([]string, error) {
	const listSQL = `SELECT id FROM ` + sessionsTable + ` ORDER BY created_at, id;`

	rows, err := p.db.Query(listSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating rows: %w", err)
	}
	return ids, nil
}

// Exists checks if a session row exists
func (p *SQLitePersistence) Exists(id string) bool {
	const existsSQL = `SELECT 1 FROM ` + sessionsTable + ` WHERE id = ?;`

	var one int
	return p.db.QueryRow(existsSQL, strings.ToLower(id)).Scan(&one) == nil
}

// Close closes the database
func (p *SQLitePersistence) Close() error {
	return p.db.Close()
}
