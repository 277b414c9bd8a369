package main

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/wricardo/roborally/api"
	"github.com/wricardo/roborally/game/engine"
	"github.com/wricardo/roborally/game/session"
	"github.com/wricardo/roborally/transport/mcp"
)

func TestConstants(t *testing.T) {
	if Version != "1.0.0" {
		t.Errorf("Expected version 1.0.0, got %s", Version)
	}
	if AppName != "RoboRally Turn Server" {
		t.Errorf("Expected app name %q, got %q", "RoboRally Turn Server", AppName)
	}
}

func TestNewApp_Commands(t *testing.T) {
	app := newApp()

	if app.DefaultCommand != "serve" {
		t.Errorf("Expected default command serve, got %q", app.DefaultCommand)
	}

	want := map[string]bool{"serve": false, "mcp": false, "simulate": false, "validate": false}
	for _, cmd := range app.Commands {
		if _, ok := want[cmd.Name]; ok {
			want[cmd.Name] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("Expected command %q", name)
		}
	}
}

func testOptions(t *testing.T, store string) serverOptions {
	dir := t.TempDir()
	return serverOptions{
		ScenarioDir: t.TempDir(),
		SessionsDir: filepath.Join(dir, "sessions"),
		Store:       store,
		DBPath:      filepath.Join(dir, "data", "sessions.db"),
	}
}

func TestInitializeServices(t *testing.T) {
	for _, store := range []string{storeFile, storeSQLite, storeMemory} {
		t.Run(store, func(t *testing.T) {
			svc, err := initializeServices(testOptions(t, store))
			if err != nil {
				t.Fatalf("Failed to initialize services: %v", err)
			}
			defer svc.Close()

			if svc.game == nil || svc.sessions == nil {
				t.Fatal("Expected game service and session manager")
			}
			if (store == storeMemory) != (svc.persistence == nil) {
				t.Errorf("Unexpected persistence for store %s: %v", store, svc.persistence)
			}
		})
	}
}

func TestInitializeServices_Errors(t *testing.T) {
	opts := testOptions(t, storeFile)
	opts.ScenarioDir = filepath.Join(t.TempDir(), "missing")
	if _, err := initializeServices(opts); err == nil {
		t.Error("Expected error for non-existent scenario directory")
	}

	opts = testOptions(t, "redis")
	if _, err := initializeServices(opts); err == nil {
		t.Error("Expected error for unknown store")
	}
}

func TestInitializeServices_ReloadsSessions(t *testing.T) {
	opts := testOptions(t, storeSQLite)

	first, err := initializeServices(opts)
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}
	if _, err := first.sessions.Create("keep", "default", engine.DefaultScenario()); err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Failed to close services: %v", err)
	}

	second, err := initializeServices(opts)
	if err != nil {
		t.Fatalf("Failed to reinitialize services: %v", err)
	}
	defer second.Close()

	if _, err := second.sessions.Get("keep"); err != nil {
		t.Errorf("Expected session to survive restart: %v", err)
	}
}

func TestPruneOrphans(t *testing.T) {
	persistence, err := session.NewFilePersistence(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create persistence: %v", err)
	}
	manager := session.NewManagerWithPersistence(persistence)

	for _, id := range []string{"aaaa", "bbbb"} {
		if _, err := manager.Create(id, "default", engine.DefaultScenario()); err != nil {
			t.Fatalf("Failed to create session %s: %v", id, err)
		}
	}
	if err := persistence.Delete("aaaa"); err != nil {
		t.Fatalf("Failed to delete stored session: %v", err)
	}

	if pruned := pruneOrphans(manager, persistence); pruned != 1 {
		t.Errorf("Expected 1 pruned session, got %d", pruned)
	}
	if manager.Count() != 1 {
		t.Errorf("Expected 1 session left, got %d", manager.Count())
	}
	if pruned := pruneOrphans(manager, persistence); pruned != 0 {
		t.Errorf("Expected nothing left to prune, got %d", pruned)
	}
}

func TestRootHandler(t *testing.T) {
	svc, err := initializeServices(testOptions(t, storeMemory))
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}
	defer svc.Close()

	handler := newRootHandler(api.NewServer(svc.game, nil), mcp.NewClient("http://localhost:0"))

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{"GET", "/api/health", http.StatusOK},
		{"GET", "/api/scenarios", http.StatusOK},
		{"GET", "/mcp", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != tt.want {
			t.Errorf("%s %s: expected %d, got %d", tt.method, tt.path, tt.want, rec.Code)
		}
	}
}

func TestAPIReachable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	if !apiReachable(ts.URL) {
		t.Error("Expected API to be reachable")
	}

	ts.Close()
	if apiReachable(ts.URL) {
		t.Error("Expected closed server to be unreachable")
	}
}
