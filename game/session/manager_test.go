package session

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/wricardo/roborally/game/engine"
)

func createTestScenario() *engine.Scenario {
	east := int(engine.East)
	return &engine.Scenario{
		Name:        "Test Scenario",
		Description: "Test scenario",
		Robots: []engine.RobotSpec{
			{Name: "A", X: 0, Y: 0, Heading: &east, Program: "F1 L"},
			{Name: "B", X: 1, Y: 0},
		},
	}
}

func TestManager_Create(t *testing.T) {
	manager := NewManager()
	scenario := createTestScenario()

	t.Run("generated id", func(t *testing.T) {
		session, err := manager.Create("", "test", scenario)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if len(session.ID) != 4 {
			t.Errorf("Expected 4-character ID, got %q", session.ID)
		}
		if session.ScenarioID != "test" || session.Scenario != scenario {
			t.Errorf("Scenario not attached to session: %+v", session)
		}
		if len(session.Engine.Robots()) != 2 {
			t.Errorf("Expected 2 robots, got %d", len(session.Engine.Robots()))
		}
		if session.CreatedAt.IsZero() || session.LastAccessedAt.IsZero() {
			t.Error("Expected timestamps to be set")
		}
	})

	t.Run("explicit id", func(t *testing.T) {
		session, err := manager.Create("Game1", "test", scenario)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if session.ID != "Game1" {
			t.Errorf("Expected ID Game1, got %s", session.ID)
		}
	})

	t.Run("duplicate id is case-insensitive", func(t *testing.T) {
		if _, err := manager.Create("GAME1", "test", scenario); !errors.Is(err, ErrSessionAlreadyExists) {
			t.Errorf("Expected ErrSessionAlreadyExists, got %v", err)
		}
	})

	t.Run("invalid id", func(t *testing.T) {
		for _, id := range []string{"../x", "a b", "dot.json"} {
			if _, err := manager.Create(id, "test", scenario); !errors.Is(err, ErrInvalidSessionID) {
				t.Errorf("Create(%q): expected ErrInvalidSessionID, got %v", id, err)
			}
		}
	})

	t.Run("invalid scenario", func(t *testing.T) {
		if _, err := manager.Create("bad", "x", &engine.Scenario{}); !errors.Is(err, engine.ErrInvalidScenario) {
			t.Errorf("Expected ErrInvalidScenario, got %v", err)
		}
	})
}

func TestManager_Get(t *testing.T) {
	manager := NewManager()
	created, _ := manager.Create("abcd", "test", createTestScenario())

	got, err := manager.Get("ABCD")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != created {
		t.Error("Expected the same session for a differently cased ID")
	}

	if _, err := manager.Get("zzzz"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestManager_GetOrCreate(t *testing.T) {
	manager := NewManager()
	scenario := createTestScenario()

	first, err := manager.GetOrCreate("room", "test", scenario)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	second, err := manager.GetOrCreate("room", "test", scenario)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if first != second {
		t.Error("Expected GetOrCreate to return the existing session")
	}
}

func TestManager_ListDelete(t *testing.T) {
	manager := NewManager()
	scenario := createTestScenario()
	for i := 0; i < 3; i++ {
		manager.Create(fmt.Sprintf("s%d", i), "test", scenario)
	}

	list := manager.List()
	if len(list) != 3 {
		t.Fatalf("Expected 3 sessions, got %d", len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i].CreatedAt.Before(list[i-1].CreatedAt) {
			t.Error("Expected sessions ordered by creation time")
		}
	}

	if err := manager.Delete("S1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if manager.Count() != 2 {
		t.Errorf("Expected 2 sessions, got %d", manager.Count())
	}
	if err := manager.Delete("s1"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
	if err := manager.DeleteFromMemory("s2"); err != nil {
		t.Errorf("DeleteFromMemory: %v", err)
	}
	if err := manager.DeleteFromMemory("s2"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestManager_UpdateLastAccessedAndCleanup(t *testing.T) {
	manager := NewManager()
	old, _ := manager.Create("old", "test", createTestScenario())
	fresh, _ := manager.Create("fresh", "test", createTestScenario())

	old.LastAccessedAt = time.Now().Add(-2 * time.Hour)
	before := fresh.LastAccessedAt
	time.Sleep(time.Millisecond)
	if err := manager.UpdateLastAccessed("FRESH"); err != nil {
		t.Fatalf("UpdateLastAccessed: %v", err)
	}
	if !fresh.LastAccessedAt.After(before) {
		t.Error("Expected LastAccessedAt to advance")
	}
	if err := manager.UpdateLastAccessed("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}

	if removed := manager.CleanupExpiredSessions(time.Hour); removed != 1 {
		t.Errorf("Expected 1 expired session removed, got %d", removed)
	}
	if _, err := manager.Get("old"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected old session gone, got %v", err)
	}
}

func TestManager_SaveWithoutPersistence(t *testing.T) {
	manager := NewManager()
	manager.Create("a1", "test", createTestScenario())

	if err := manager.Save("a1"); err != nil {
		t.Errorf("Expected no-op save, got %v", err)
	}
	if err := manager.SaveAllSessions(); err != nil {
		t.Errorf("Expected no-op save all, got %v", err)
	}
	if err := manager.LoadPersistedSessions(); err != nil {
		t.Errorf("Expected no-op load, got %v", err)
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	manager := NewManager()
	scenario := createTestScenario()

	var wg sync.WaitGroup
	errs := make(chan error, 100)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := manager.Create("", "test", scenario)
			if err != nil {
				errs <- err
				return
			}
			if _, err := manager.Get(s.ID); err != nil {
				errs <- err
			}
			manager.UpdateLastAccessed(s.ID)
			manager.List()
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Unexpected error during concurrent access: %v", err)
	}
	if manager.Count() != 50 {
		t.Errorf("Expected 50 sessions, got %d", manager.Count())
	}
}

func TestValidSessionID(t *testing.T) {
	tests := map[string]bool{
		"abcd":       true,
		"A-b_9":      true,
		"":           false,
		"../etc":     false,
		"with space": false,
	}
	for id, want := range tests {
		if got := validSessionID(id); got != want {
			t.Errorf("validSessionID(%q) = %v, expected %v", id, got, want)
		}
	}
}
