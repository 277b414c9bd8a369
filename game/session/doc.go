// Package session provides session management for the RoboRally turn server.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Pluggable persistence (JSON files or SQLite)
//   - Session cleanup and expiration
//
// Core Types:
//
// Manager is the main session manager that handles all session operations.
// Each service.Session owns a turn engine, the scenario it was created from,
// and creation and last-access times.
//
// Session Identifiers:
//
// Generated sessions use 4-character hex IDs. Lookups are case-insensitive.
// Caller-chosen IDs may use letters, digits, '-' and '_'.
//
// Persistence:
//
// SessionPersistence has two implementations. FilePersistence writes one JSON
// file per session; SQLitePersistence keeps one row per session in a sqlite
// database. Both store the engine's GameState together with the scenario, so a
// session restores with its robots, queued cards, run counter and history.
// A manager with persistence reads through to storage on Get and saves on
// Create and Save.
//
// Usage:
//
//	p, err := session.NewSQLitePersistence("sessions.db")
//	manager := session.NewManagerWithPersistence(p)
//	manager.LoadPersistedSessions()
//
//	sess, err := manager.Create("", "classic", scenario)
//	sess, err = manager.Get(sess.ID)
//
// Mocks for SessionPersistence are generated into the mocks package with
// go generate.
package session
