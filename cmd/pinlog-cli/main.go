package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/claude/pinlog/internal/app"
	"github.com/claude/pinlog/internal/config"
	"github.com/claude/pinlog/internal/export"
	"github.com/claude/pinlog/internal/mcp"
	"github.com/claude/pinlog/internal/models"
	"github.com/claude/pinlog/internal/storage"
	"github.com/claude/pinlog/internal/view"
)

// Version is set at build time via -ldflags.
var Version = "dev"

const usage = `Usage: pinlog-cli [-config path] <command> [flags]

Commands:
  add     -type running|cycling -lat N -lng N -distance KM -duration MIN [-cadence SPM | -elevation M]
  list
  delete  <id>
  clear
  export  [-gpx file]   write a GPX file of all workouts (stdout when omitted)
  mcp     [-server URL] serve MCP over stdio, against a pinlog server or the local store
  version
`

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	if err := run(context.Background(), os.Args[1:], os.Stdout, log); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var errUsage = errors.New("see usage")

func run(ctx context.Context, args []string, out io.Writer, log *slog.Logger) error {
	global := flag.NewFlagSet("pinlog-cli", flag.ContinueOnError)
	global.SetOutput(out)
	global.Usage = func() { fmt.Fprint(out, usage) }
	configPath := global.String("config", "", "path to config file")
	if err := global.Parse(args); err != nil {
		return err
	}
	if global.NArg() == 0 {
		global.Usage()
		return errUsage
	}
	cmd, rest := global.Arg(0), global.Args()[1:]

	if cmd == "version" {
		fmt.Fprintln(out, "pinlog-cli", Version)
		return nil
	}
	if cmd == "mcp" {
		return runMCP(ctx, *configPath, rest, log)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	kv, err := storage.Open(ctx, cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer kv.Close()

	tv := view.NewText(out)
	ctrl := app.New(storage.NewWorkoutStore(kv, cfg.Storage.Key), tv, models.NewRandomIDAllocator(), log)

	switch cmd {
	case "add":
		return runAdd(ctx, ctrl, tv, out, rest)
	case "list":
		if err := ctrl.Start(ctx, homeOrOrigin(cfg)); err != nil {
			return err
		}
		return tv.WriteList()
	case "delete":
		return runDelete(ctx, ctrl, cfg, out, rest)
	case "clear":
		if err := ctrl.Start(ctx, homeOrOrigin(cfg)); err != nil {
			return err
		}
		if err := ctrl.Clear(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, "all workouts cleared")
		return nil
	case "export":
		return runExport(ctx, ctrl, cfg, out, rest)
	}
	global.Usage()
	return fmt.Errorf("unknown command %q", cmd)
}

// homeOrOrigin centres the (invisible) map for commands that only need the
// stored list loaded.
func homeOrOrigin(cfg *config.Config) app.Locator {
	if h := cfg.Map.Home; h != nil {
		return app.StaticLocator(models.Coords{Lat: h.Lat, Lng: h.Lng})
	}
	return app.StaticLocator(models.Coords{})
}

func runAdd(ctx context.Context, ctrl *app.Controller, tv *view.Text, out io.Writer, args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	typ := fs.String("type", "running", "running or cycling")
	lat := fs.Float64("lat", 0, "latitude")
	lng := fs.Float64("lng", 0, "longitude")
	distance := fs.String("distance", "", "distance in km")
	duration := fs.String("duration", "", "duration in minutes")
	cadence := fs.String("cadence", "", "cadence in steps per minute (running)")
	elevation := fs.String("elevation", "", "elevation gain in metres (cycling)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	pos := models.Coords{Lat: *lat, Lng: *lng}
	if err := ctrl.Start(ctx, app.StaticLocator(pos)); err != nil {
		return err
	}
	if err := ctrl.Pin(pos); err != nil {
		return err
	}
	w, err := ctrl.Submit(ctx, app.Form{
		Type:      *typ,
		Distance:  *distance,
		Duration:  *duration,
		Cadence:   *cadence,
		Elevation: *elevation,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "added %s\n", models.MarkerLabel(w))
	return tv.WriteList()
}

func runDelete(ctx context.Context, ctrl *app.Controller, cfg *config.Config, out io.Writer, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("delete takes exactly one id: %w", errUsage)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q", args[0])
	}
	if err := ctrl.Start(ctx, homeOrOrigin(cfg)); err != nil {
		return err
	}
	found, err := ctrl.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("no workout with id %d", id)
	}
	fmt.Fprintf(out, "deleted workout %d\n", id)
	return nil
}

func runExport(ctx context.Context, ctrl *app.Controller, cfg *config.Config, out io.Writer, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	gpxPath := fs.String("gpx", "", "output file (stdout when empty)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := ctrl.Start(ctx, homeOrOrigin(cfg)); err != nil {
		return err
	}
	data, err := export.GPX(ctrl.Workouts())
	if err != nil {
		return err
	}
	if *gpxPath == "" {
		_, err = out.Write(data)
		return err
	}
	if err := os.WriteFile(*gpxPath, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", *gpxPath, err)
	}
	fmt.Fprintf(out, "wrote %d workouts to %s\n", len(ctrl.Workouts()), *gpxPath)
	return nil
}

// runMCP serves the MCP tools over stdio. With -server the tools call a
// running pinlog server; otherwise they use the configured store directly.
func runMCP(ctx context.Context, configPath string, args []string, log *slog.Logger) error {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	serverURL := fs.String("server", "", "pinlog server URL (e.g. https://pinlog.tail1234.ts.net)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var ds mcp.DataSource
	if *serverURL != "" {
		ds = mcp.NewHTTPClient(*serverURL)
	} else {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		kv, err := storage.Open(ctx, cfg.Storage, log)
		if err != nil {
			return fmt.Errorf("opening storage: %w", err)
		}
		defer kv.Close()
		ctrl := app.New(storage.NewWorkoutStore(kv, cfg.Storage.Key), view.NewState(),
			models.NewRandomIDAllocator(), log, app.WithZoom(cfg.Map.Zoom))
		if err := ctrl.Start(ctx, homeOrOrigin(cfg)); err != nil {
			return err
		}
		ds = mcp.NewLocal(app.NewSerialized(ctrl))
	}
	return mcpserver.ServeStdio(mcp.New(ds, Version, log))
}
