package server

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/claude/pinlog/internal/app"
	"github.com/claude/pinlog/internal/view"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	app    *app.Serialized
	state  *view.State
	log    *slog.Logger
	router chi.Router
	mapCfg MapSettings
}

// MapSettings is what the frontend needs to draw the map.
type MapSettings struct {
	TileURL string `json:"tileUrl"`
	Zoom    int    `json:"zoom"`
}

// DefaultTileURL is the OpenStreetMap tile server.
const DefaultTileURL = "https://tile.openstreetmap.org/{z}/{x}/{y}.png"

// New creates a new Server with all routes configured. state must be the
// View the controller behind ctrl renders into.
func New(ctrl *app.Serialized, state *view.State, log *slog.Logger) *Server {
	s := &Server{
		app:    ctrl,
		state:  state,
		log:    log,
		router: chi.NewRouter(),
		mapCfg: MapSettings{TileURL: DefaultTileURL, Zoom: app.DefaultZoom},
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestID)
	s.router.Use(RequestLogging(s.log))
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", RequestIDHeader},
	}).Handler)

	s.router.Handle("/metrics", promhttp.Handler())

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/config", s.handleConfig)
		r.Get("/state", s.handleState)
		r.Get("/list.html", s.handleListHTML)
		r.Post("/start", s.handleStart)
		r.Post("/pin", s.handlePin)
		r.Post("/cancel", s.handleCancel)
		r.Get("/workouts", s.handleListWorkouts)
		r.Post("/workouts", s.handleSubmit)
		r.Delete("/workouts", s.handleClear)
		r.Delete("/workouts/{id}", s.handleDelete)
		r.Post("/workouts/{id}/focus", s.handleFocus)
		r.Get("/export.gpx", s.handleExportGPX)
	})
}

// SetMap overrides the tile server and zoom reported to the frontend. Zoom
// is taken as given, 0 included, so it matches what the controller shows.
func (s *Server) SetMap(m MapSettings) {
	if m.TileURL == "" {
		m.TileURL = DefaultTileURL
	}
	s.mapCfg = m
}

// Handle registers an extra handler, such as the MCP endpoint, on the router.
func (s *Server) Handle(pattern string, h http.Handler) {
	s.router.Handle(pattern, h)
}

// SetFrontend mounts the embedded frontend filesystem.
// Unmatched routes serve index.html.
func (s *Server) SetFrontend(webFS fs.FS) {
	fileServer := http.FileServerFS(webFS)

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		// Try to serve the exact file first
		f, err := webFS.Open(r.URL.Path[1:]) // strip leading /
		if err == nil {
			f.Close()
			fileServer.ServeHTTP(w, r)
			return
		}
		r.URL.Path = "/"
		fileServer.ServeHTTP(w, r)
	})
}
