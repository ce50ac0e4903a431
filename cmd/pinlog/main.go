package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"golang.org/x/sync/errgroup"
	"tailscale.com/tsnet"

	pinlog "github.com/claude/pinlog"
	"github.com/claude/pinlog/internal/app"
	"github.com/claude/pinlog/internal/config"
	"github.com/claude/pinlog/internal/mcp"
	"github.com/claude/pinlog/internal/models"
	"github.com/claude/pinlog/internal/server"
	"github.com/claude/pinlog/internal/storage"
	"github.com/claude/pinlog/internal/view"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "", "path to config file (defaults apply when empty)")
	migrateOnly := flag.Bool("migrate-only", false, "prepare storage and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Log.SlogLevel()}))
	log.Info("pinlog starting", "version", Version, "storage", cfg.Storage.Driver)

	if err := run(cfg, *migrateOnly, log); err != nil {
		log.Error("pinlog failed", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func run(cfg *config.Config, migrateOnly bool, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	kv, err := storage.Open(ctx, cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer kv.Close()

	if migrateOnly {
		log.Info("migrate-only: exiting")
		return nil
	}

	state := view.NewState()
	ctrl := app.New(storage.NewWorkoutStore(kv, cfg.Storage.Key), state,
		models.NewRandomIDAllocator(), log, app.WithZoom(cfg.Map.Zoom))

	ctrl.Load(ctx)
	// Without a configured home the browser reports its position via /api/v1/start.
	if home := cfg.Map.Home; home != nil {
		if err := ctrl.Start(ctx, app.StaticLocator(models.Coords{Lat: home.Lat, Lng: home.Lng})); err != nil {
			return err
		}
	}
	shared := app.NewSerialized(ctrl)

	srv := server.New(shared, state, log)
	srv.SetMap(server.MapSettings{TileURL: cfg.Map.TileURL, Zoom: cfg.Map.Zoom})
	srv.Handle("/mcp", mcpserver.NewStreamableHTTPServer(mcp.New(mcp.NewLocal(shared), Version, log)))

	// Serve embedded frontend
	webDist, err := fs.Sub(pinlog.WebFS, "web/dist")
	if err != nil {
		return fmt.Errorf("loading embedded frontend: %w", err)
	}
	srv.SetFrontend(webDist)

	listener, closeListener, err := listen(cfg, log)
	if err != nil {
		return err
	}
	defer closeListener()

	httpSrv := &http.Server{Handler: srv, ReadHeaderTimeout: 10 * time.Second}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := httpSrv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving http: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// listen opens a tailnet listener when Tailscale is enabled, otherwise a
// plain TCP one on the configured address.
func listen(cfg *config.Config, log *slog.Logger) (net.Listener, func(), error) {
	if !cfg.Tailscale.Enabled {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			return nil, nil, fmt.Errorf("listen on %s: %w", addr, err)
		}
		log.Info("server starting", "addr", addr, "mode", "dev (no tailscale)")
		return ln, func() {}, nil
	}

	ts := &tsnet.Server{
		Hostname: cfg.Tailscale.Hostname,
		Dir:      cfg.Tailscale.StateDir,
	}
	if err := ts.Start(); err != nil {
		return nil, nil, fmt.Errorf("tsnet start: %w", err)
	}
	ln, err := ts.Listen("tcp", ":80")
	if err != nil {
		ts.Close()
		return nil, nil, fmt.Errorf("tsnet listen: %w", err)
	}
	log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	return ln, func() { ts.Close() }, nil
}
