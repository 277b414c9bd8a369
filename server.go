package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
	"golang.org/x/sync/errgroup"

	"github.com/wricardo/roborally/api"
	"github.com/wricardo/roborally/game/config"
	"github.com/wricardo/roborally/game/service"
	"github.com/wricardo/roborally/game/session"
	"github.com/wricardo/roborally/transport/mcp"
	"github.com/wricardo/roborally/transport/websocket"
)

// Session stores
const (
	storeFile   = "file"
	storeSQLite = "sqlite"
	storeMemory = "memory"
)

const (
	cleanupInterval = time.Hour
	syncInterval    = 5 * time.Second
	shutdownTimeout = 10 * time.Second
)

// serverOptions holds everything needed to build the service stack
type serverOptions struct {
	ScenarioDir string
	SessionsDir string
	Store       string
	DBPath      string
	SessionTTL  time.Duration
}

func storeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "sessions-dir",
			Usage:   "Directory for session JSON files (file store)",
			Value:   "sessions",
			Sources: cli.EnvVars("SESSIONS_DIR"),
		},
		&cli.StringFlag{
			Name:    "store",
			Usage:   "Session store: file, sqlite or memory",
			Value:   storeFile,
			Sources: cli.EnvVars("SESSION_STORE"),
		},
		&cli.StringFlag{
			Name:    "db",
			Usage:   "SQLite database path (sqlite store)",
			Value:   "sessions.db",
			Sources: cli.EnvVars("SESSIONS_DB"),
		},
		&cli.DurationFlag{
			Name:    "session-ttl",
			Usage:   "Remove sessions not accessed for this long",
			Value:   24 * time.Hour,
			Sources: cli.EnvVars("SESSION_TTL"),
		},
	}
}

func optionsFrom(cmd *cli.Command) serverOptions {
	return serverOptions{
		ScenarioDir: cmd.String("scenario-dir"),
		SessionsDir: cmd.String("sessions-dir"),
		Store:       cmd.String("store"),
		DBPath:      cmd.String("db"),
		SessionTTL:  cmd.Duration("session-ttl"),
	}
}

func serveCommand() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    "host",
			Usage:   "HTTP server host",
			Value:   "localhost",
			Sources: cli.EnvVars("HOST"),
		},
		&cli.IntFlag{
			Name:    "port",
			Usage:   "HTTP server port",
			Value:   8080,
			Sources: cli.EnvVars("PORT"),
		},
		&cli.BoolFlag{
			Name:    "ngrok",
			Usage:   "Enable ngrok tunnel",
			Sources: cli.EnvVars("NGROK_ENABLED"),
		},
		&cli.StringFlag{
			Name:    "ngrok-auth",
			Usage:   "Ngrok auth token",
			Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"),
		},
		&cli.StringFlag{
			Name:    "ngrok-domain",
			Usage:   "Custom ngrok domain (optional)",
			Sources: cli.EnvVars("NGROK_DOMAIN"),
		},
	}

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"server", "http"},
		Usage:   "Run the HTTP server with REST API, WebSocket and MCP endpoint",
		Flags:   append(flags, storeFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			addr := fmt.Sprintf("%s:%d", cmd.String("host"), cmd.Int("port"))
			tunnel := tunnelOptions{
				Enabled:   cmd.Bool("ngrok"),
				AuthToken: cmd.String("ngrok-auth"),
				Domain:    cmd.String("ngrok-domain"),
			}
			return runHTTPServer(ctx, addr, optionsFrom(cmd), tunnel)
		},
	}
}

func mcpCommand() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    "api-url",
			Usage:   "REST API to proxy to; an internal server starts if it is not reachable",
			Value:   "http://localhost:8080",
			Sources: cli.EnvVars("ROBORALLY_API_URL"),
		},
	}

	return &cli.Command{
		Name:    "mcp",
		Aliases: []string{"stdio-mcp", "mcp-stdio"},
		Usage:   "Run an MCP stdio server",
		Flags:   append(flags, storeFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runStdioMCP(ctx, cmd.String("api-url"), optionsFrom(cmd))
		},
	}
}

// services is the wired service stack
type services struct {
	game        service.GameService
	sessions    *session.Manager
	persistence session.SessionPersistence
	closer      io.Closer
}

// Close saves every session and releases the store
func (s *services) Close() error {
	var errs []error
	if err := s.sessions.SaveAllSessions(); err != nil {
		errs = append(errs, err)
	}
	if s.closer != nil {
		if err := s.closer.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// initializeServices wires the scenario manager, session store and game service
func initializeServices(opts serverOptions) (*services, error) {
	scenarios, err := config.NewManager(opts.ScenarioDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create scenario manager: %w", err)
	}

	s := &services{}
	switch opts.Store {
	case storeFile, "":
		p, err := session.NewFilePersistence(opts.SessionsDir)
		if err != nil {
			return nil, fmt.Errorf("failed to create session persistence: %w", err)
		}
		s.persistence = p
	case storeSQLite:
		if dir := filepath.Dir(opts.DBPath); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		p, err := session.NewSQLitePersistence(opts.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open session database: %w", err)
		}
		s.persistence = p
		s.closer = p
	case storeMemory:
	default:
		return nil, fmt.Errorf("unknown session store %q (use file, sqlite or memory)", opts.Store)
	}

	if s.persistence != nil {
		s.sessions = session.NewManagerWithPersistence(s.persistence)
		if err := s.sessions.LoadPersistedSessions(); err != nil {
			log.Warn("Failed to load persisted sessions", "error", err)
		}
	} else {
		s.sessions = session.NewManager()
	}

	s.game = service.NewGameService(s.sessions, scenarios)

	log.Info("Services ready", "scenarios", scenarios.Count(), "store", opts.Store, "sessions", s.sessions.Count())
	return s, nil
}

// newRootHandler mounts the API and the /mcp JSON-RPC endpoint
func newRootHandler(apiServer http.Handler, mcpClient *mcp.Client) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", apiServer)
	mux.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)
		if response == nil {
			// notifications have no response
			w.WriteHeader(http.StatusAccepted)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
		}
	})
	return mux
}

// runHTTPServer serves the API until ctx is cancelled or a signal arrives.
// The hub, HTTP server, tunnel and maintenance routines share one errgroup.
func runHTTPServer(ctx context.Context, addr string, opts serverOptions, tunnel tunnelOptions) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := initializeServices(opts)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			log.Warn("Failed to close services", "error", err)
		}
	}()

	hub := websocket.NewHub()
	apiServer := api.NewServer(svc.game, hub)
	mcpClient := mcp.NewClient("http://" + addr)
	handler := newRootHandler(apiServer, mcpClient)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})

	g.Go(func() error {
		log.Info("HTTP server listening", "addr", addr)
		log.Info("Endpoints",
			"api", "http://"+addr+"/api",
			"ws", "ws://"+addr+"/ws?session=<session_id>",
			"mcp", "http://"+addr+"/mcp")

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Warn("HTTP server shutdown error", "error", err)
		}
		return nil
	})

	g.Go(func() error {
		sessionCleanupRoutine(gctx, svc.sessions, cleanupInterval, opts.SessionTTL)
		return nil
	})

	if svc.persistence != nil {
		g.Go(func() error {
			storeSyncRoutine(gctx, svc.sessions, svc.persistence, syncInterval)
			return nil
		})
	}

	if tunnel.Enabled {
		g.Go(func() error {
			runTunnel(gctx, tunnel, handler)
			return nil
		})
	}

	err = g.Wait()
	log.Info("Server stopped")
	return err
}

// tunnelOptions configures the optional ngrok tunnel
type tunnelOptions struct {
	Enabled   bool
	AuthToken string
	Domain    string
}

// runTunnel serves handler through ngrok until ctx is done. Tunnel failures
// are logged; the local server keeps running.
func runTunnel(ctx context.Context, opts tunnelOptions, handler http.Handler) {
	if opts.AuthToken == "" {
		log.Warn("Ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN)")
		return
	}

	log.Info("Starting ngrok tunnel")

	var endpoint ngrokConfig.Tunnel
	if opts.Domain != "" {
		endpoint = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(opts.Domain))
		log.Info("Using custom ngrok domain", "domain", opts.Domain)
	} else {
		endpoint = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, endpoint, ngrok.WithAuthtoken(opts.AuthToken))
	if err != nil {
		log.Error("Failed to start ngrok tunnel", "error", err)
		return
	}

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.Warn("Failed to close ngrok tunnel", "error", err)
		}
	}()

	url := tun.URL()
	log.Info("Ngrok tunnel established", "url", url, "api", url+"/api", "mcp", url+"/mcp")

	if err := http.Serve(tun, handler); err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
		log.Error("Ngrok server error", "error", err)
	}
	log.Info("Ngrok tunnel closed")
}

// sessionCleanupRoutine periodically removes sessions that have not been
// accessed within ttl
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager, interval, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := manager.CleanupExpiredSessions(ttl); removed > 0 {
				log.Info("Cleaned up expired sessions", "removed", removed)
			}
		}
	}
}

// storeSyncRoutine drops in-memory sessions whose stored copy was removed
// outside the server
func storeSyncRoutine(ctx context.Context, manager *session.Manager, persistence session.SessionPersistence, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pruneOrphans(manager, persistence)
		}
	}
}

// pruneOrphans removes sessions missing from the store and returns how many
func pruneOrphans(manager *session.Manager, persistence session.SessionPersistence) int {
	pruned := 0
	for _, sess := range manager.List() {
		if persistence.Exists(sess.ID) {
			continue
		}
		if err := manager.DeleteFromMemory(sess.ID); err == nil {
			pruned++
			log.Debug("Pruned session from memory", "session", sess.ID)
		}
	}
	if pruned > 0 {
		log.Info("Store sync pruned orphaned sessions", "pruned", pruned)
	}
	return pruned
}

// runStdioMCP runs an MCP stdio server. It reuses the API at apiURL when it
// answers its health check, otherwise it starts an internal API on a random
// loopback port.
func runStdioMCP(ctx context.Context, apiURL string, opts serverOptions) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	baseURL := apiURL
	if apiReachable(apiURL) {
		log.Info("Using external API server", "url", apiURL)
	} else {
		log.Info("No external API server found, starting internal HTTP server")

		svc, err := initializeServices(opts)
		if err != nil {
			return err
		}
		defer svc.Close()

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}

		hub := websocket.NewHub()
		go hub.Run(ctx)

		httpServer := &http.Server{Handler: api.NewServer(svc.game, hub)}
		go func() {
			if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("Internal HTTP server error", "error", err)
			}
		}()
		defer httpServer.Close()

		baseURL = "http://" + listener.Addr().String()
		log.Info("Internal HTTP server started", "url", baseURL)
	}

	mcpClient := mcp.NewClient(baseURL)
	log.Info("MCP stdio server ready")

	stdio := server.NewStdioServer(mcpClient.GetMCPServer())
	if err := stdio.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}

// apiReachable reports whether a RoboRally API answers at baseURL
func apiReachable(baseURL string) bool {
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(baseURL + "/api/health")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
