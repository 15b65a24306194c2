package api

import (
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/pprof"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"star-duel/internal/scene"
	"star-duel/internal/sim"
)

// StateProvider is the slice of the session the API reads. The interface
// keeps the router testable without a live simulation.
type StateProvider interface {
	Snapshot() sim.Snapshot
}

// RouterConfig carries the router's dependencies.
type RouterConfig struct {
	// State supplies simulation snapshots (required).
	State StateProvider

	// CORSOrigins optionally restricts browser access to the debug
	// endpoints. Empty means localhost dev origins.
	CORSOrigins []string

	// Radar overrides the default radar geometry.
	Radar *scene.Radar

	// DisableLogging drops the request logger (benchmarks, tests).
	DisableLogging bool
}

// NewRouter builds the debug HTTP router. It is pure: no goroutines, no
// listeners, safe to mount under httptest.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET"},
		MaxAge:         300,
	}))

	radar := scene.DefaultRadar()
	if cfg.Radar != nil {
		radar = *cfg.Radar
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Get("/api/state", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(cfg.State.Snapshot())
	})

	r.Get("/api/radar.png", func(w http.ResponseWriter, _ *http.Request) {
		snap := cfg.State.Snapshot()
		img := radar.Render(blipsFromSnapshot(snap))
		w.Header().Set("Content-Type", "image/png")
		png.Encode(w, img)
	})

	r.Handle("/metrics", promhttp.Handler())

	r.HandleFunc("/debug/pprof/", pprof.Index)
	r.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	r.HandleFunc("/debug/pprof/profile", pprof.Profile)
	r.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	r.HandleFunc("/debug/pprof/trace", pprof.Trace)

	return r
}

// blipsFromSnapshot projects the simulation onto the radar plane,
// centered on the local ship.
func blipsFromSnapshot(snap sim.Snapshot) []scene.Blip {
	var origin sim.ShipSnapshot
	for _, s := range snap.Ships {
		if s.Local {
			origin = s
			break
		}
	}

	blips := make([]scene.Blip, 0, len(snap.Ships)+len(snap.Projectiles))
	for _, s := range snap.Ships {
		kind := scene.BlipRemote
		label := s.ID
		if s.Local {
			kind = scene.BlipLocal
			label = ""
		}
		blips = append(blips, scene.Blip{
			X:       s.Position.X - origin.Position.X,
			Z:       s.Position.Z - origin.Position.Z,
			Heading: s.Rotation.Y,
			Kind:    kind,
			Label:   label,
		})
	}
	for _, p := range snap.Projectiles {
		blips = append(blips, scene.Blip{
			X:    p.Position.X - origin.Position.X,
			Z:    p.Position.Z - origin.Position.Z,
			Kind: scene.BlipProjectile,
		})
	}
	return blips
}
