// Package uitest provides UI testing utilities using Rod.
package uitest

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/stolasapp/quill/internal/app"
	"github.com/stolasapp/quill/internal/config"
	"github.com/stolasapp/quill/internal/sec"
	"github.com/stolasapp/quill/internal/server"
	"github.com/stolasapp/quill/internal/storage"
)

// Server is a test server running the app on a loopback listener with the
// production middleware stack, CSRF included.
type Server struct {
	baseURL string
	cancel  context.CancelFunc
	grp     *errgroup.Group
	store   *storage.DB
}

// newTestServer creates and starts a new test server, stopped when the test
// ends.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	grp, ctx := errgroup.WithContext(ctx)

	logger := slog.New(slog.DiscardHandler)

	cfg := testConfig(t)
	store, err := storage.NewDB(ctx, cfg, logger)
	if err != nil {
		cancel()
		require.NoError(t, err, "failed to create storage")
	}

	gate := sec.NewGate(store, sec.NewSessions([]byte(cfg.SecretKey), cfg.SecureCookies))
	appServer := app.New(cfg, logger, store, gate)
	appAddr, err := startAppServer(ctx, grp, appServer)
	if err != nil {
		cancel()
		_ = store.Close()
		require.NoError(t, err, "failed to start app server")
	}

	srv := &Server{
		baseURL: "http://" + appAddr,
		cancel:  cancel,
		grp:     grp,
		store:   store,
	}
	t.Cleanup(srv.Close)
	return srv
}

// BaseURL returns the base URL of the test server.
func (s *Server) BaseURL() string {
	return s.baseURL
}

// Close shuts down the test server.
// Errors are ignored since this runs during test cleanup where failures
// are typically unrecoverable and already logged by the errgroup.
func (s *Server) Close() {
	s.cancel()
	_ = s.grp.Wait()
	_ = s.store.Close()
}

// InUse reports the database connections currently checked out.
func (s *Server) InUse() int {
	return s.store.Stats().InUse
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.LogLevel = "DEBUG"
	cfg.DBFilepath = filepath.Join(t.TempDir(), "db.sqlite")
	cfg.SecretKey = "0123456789abcdef0123456789abcdef"
	cfg.DevMode = true
	return cfg
}

func startAppServer(ctx context.Context, grp *errgroup.Group, srv *echo.Echo) (string, error) {
	listener, err := server.Listen(ctx, "127.0.0.1:0")
	if err != nil {
		return "", err
	}
	addr := listener.Addr().String()

	server.Serve(ctx, grp, srv.Server, listener, server.ShutdownTimeout)

	return addr, nil
}

// URL constructs a full URL from the server base URL and a path.
func (s *Server) URL(path string) string {
	return fmt.Sprintf("%s%s", s.baseURL, path)
}
