package session

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/wricardo/roborally/game/engine"
	"github.com/wricardo/roborally/game/service"
)

func newTestSession(t *testing.T, id string) *service.Session {
	t.Helper()
	scenario := createTestScenario()
	eng, err := engine.NewEngineFromScenario(scenario)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	now := time.Now().Truncate(time.Millisecond)
	return &service.Session{
		ID:             id,
		ScenarioID:     "test",
		Scenario:       scenario,
		Engine:         eng,
		CreatedAt:      now,
		LastAccessedAt: now,
	}
}

// testPersistenceBackend runs the SessionPersistence contract against a backend
func testPersistenceBackend(t *testing.T, p SessionPersistence) {
	session := newTestSession(t, "test1")

	t.Run("Save and Load Session", func(t *testing.T) {
		session.Engine.Run()
		if err := p.Save(session); err != nil {
			t.Fatalf("Failed to save session: %v", err)
		}
		if !p.Exists("test1") {
			t.Fatal("Session should exist after save")
		}

		loaded, err := p.Load("test1")
		if err != nil {
			t.Fatalf("Failed to load session: %v", err)
		}
		if loaded.ID != "test1" || loaded.ScenarioID != "test" {
			t.Errorf("Unexpected loaded session %+v", loaded)
		}
		if loaded.Scenario == nil || loaded.Scenario.Name != session.Scenario.Name {
			t.Errorf("Expected scenario to round-trip, got %+v", loaded.Scenario)
		}
		if !loaded.CreatedAt.Equal(session.CreatedAt) {
			t.Errorf("Expected CreatedAt %v, got %v", session.CreatedAt, loaded.CreatedAt)
		}

		want := session.Engine.State()
		got := loaded.Engine.State()
		if got.Runs != want.Runs || len(got.History) != len(want.History) {
			t.Errorf("Expected runs=%d events=%d, got runs=%d events=%d",
				want.Runs, len(want.History), got.Runs, len(got.History))
		}
		for i := range want.Robots {
			if got.Robots[i].Position != want.Robots[i].Position || got.Robots[i].Heading != want.Robots[i].Heading {
				t.Errorf("Robot %d: expected %+v, got %+v", i, want.Robots[i], got.Robots[i])
			}
		}
	})

	t.Run("Save overwrites", func(t *testing.T) {
		session.Engine.Robot("B").AddCard(engine.MustForwardCard(0, 3))
		if err := p.Save(session); err != nil {
			t.Fatalf("Failed to save session: %v", err)
		}
		loaded, err := p.Load("TEST1")
		if err != nil {
			t.Fatalf("Failed to load session: %v", err)
		}
		if loaded.Engine.Robot("B").Pending() != 1 {
			t.Errorf("Expected pending card to be persisted")
		}
	})

	t.Run("List All Sessions", func(t *testing.T) {
		p.Save(newTestSession(t, "test2"))
		ids, err := p.ListAll()
		if err != nil {
			t.Fatalf("Failed to list sessions: %v", err)
		}
		sort.Strings(ids)
		if len(ids) != 2 || ids[0] != "test1" || ids[1] != "test2" {
			t.Errorf("Expected [test1 test2], got %v", ids)
		}
	})

	t.Run("Delete Session", func(t *testing.T) {
		if err := p.Delete("test2"); err != nil {
			t.Fatalf("Failed to delete session: %v", err)
		}
		if p.Exists("test2") {
			t.Error("Session should not exist after deletion")
		}
		if err := p.Delete("test2"); !errors.Is(err, ErrSessionNotFound) {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("Load Non-existent Session", func(t *testing.T) {
		if _, err := p.Load("nope"); !errors.Is(err, ErrSessionNotFound) {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("Save rejects bad input", func(t *testing.T) {
		if err := p.Save(nil); err == nil {
			t.Error("Expected error for nil session")
		}
		if err := p.Save(newTestSession(t, "../escape")); !errors.Is(err, ErrInvalidSessionID) {
			t.Errorf("Expected ErrInvalidSessionID, got %v", err)
		}
	})
}

func TestFilePersistence(t *testing.T) {
	dir := t.TempDir()
	p, err := NewFilePersistence(filepath.Join(dir, "sessions"))
	if err != nil {
		t.Fatalf("Failed to create file persistence: %v", err)
	}
	testPersistenceBackend(t, p)

	t.Run("Ignores stray files", func(t *testing.T) {
		os.WriteFile(filepath.Join(dir, "sessions", "notes.txt"), []byte("x"), 0644)
		os.Mkdir(filepath.Join(dir, "sessions", "sub.json"), 0755)
		ids, _ := p.ListAll()
		if len(ids) != 1 {
			t.Errorf("Expected only test1, got %v", ids)
		}
	})

	t.Run("Corrupt file", func(t *testing.T) {
		os.WriteFile(filepath.Join(dir, "sessions", "corrupt.json"), []byte("{nope"), 0644)
		if _, err := p.Load("corrupt"); err == nil {
			t.Error("Expected error for corrupt session file")
		}
	})
}

func TestSQLitePersistence(t *testing.T) {
	p, err := NewSQLitePersistence(filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("Failed to open sqlite persistence: %v", err)
	}
	defer p.Close()

	testPersistenceBackend(t, p)
}

func TestSQLitePersistence_InMemory(t *testing.T) {
	p, err := NewSQLitePersistence(":memory:")
	if err != nil {
		t.Fatalf("Failed to open sqlite persistence: %v", err)
	}
	defer p.Close()

	if err := p.Save(newTestSession(t, "mem1")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !p.Exists("mem1") {
		t.Error("Expected in-memory session to persist across calls")
	}
}

func TestManagerWithFilePersistence(t *testing.T) {
	p, err := NewFilePersistence(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create file persistence: %v", err)
	}
	manager := NewManagerWithPersistence(p)

	session, err := manager.Create("auto1", "test", createTestScenario())
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	if !p.Exists("auto1") {
		t.Fatal("Session should be auto-saved on creation")
	}

	session.Engine.Run()
	if err := manager.Save("auto1"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// A fresh manager reads through to disk
	manager2 := NewManagerWithPersistence(p)
	loaded, err := manager2.Get("auto1")
	if err != nil {
		t.Fatalf("Failed to get session from persistence: %v", err)
	}
	if loaded.Engine.Runs() != 1 {
		t.Errorf("Expected 1 run after reload, got %d", loaded.Engine.Runs())
	}
	again, _ := manager2.Get("auto1")
	if again != loaded {
		t.Error("Session should be cached in memory after loading from persistence")
	}

	// Expired sessions drop from memory but reload from disk
	loaded.LastAccessedAt = time.Now().Add(-time.Hour)
	manager2.CleanupExpiredSessions(time.Minute)
	if manager2.Count() != 0 {
		t.Errorf("Expected no in-memory sessions, got %d", manager2.Count())
	}
	if _, err := manager2.Get("auto1"); err != nil {
		t.Errorf("Expected session to reload from disk, got %v", err)
	}

	manager3 := NewManagerWithPersistence(p)
	if err := manager3.LoadPersistedSessions(); err != nil {
		t.Fatalf("LoadPersistedSessions: %v", err)
	}
	if manager3.Count() != 1 {
		t.Errorf("Expected 1 loaded session, got %d", manager3.Count())
	}

	if err := manager3.Delete("auto1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if p.Exists("auto1") {
		t.Error("Delete should remove the persisted session")
	}
}
