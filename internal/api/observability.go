package api

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics with bounded cardinality: no per-player labels.
var (
	frameDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "sim_frame_duration_seconds",
		Help:    "Time spent running fixed steps within one frame",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1},
	})

	remoteShips = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sim_remote_ships",
		Help: "Finalized remote ships in the player map",
	})

	pendingBuilds = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sim_pending_builds",
		Help: "Remote ship constructions in flight",
	})

	activeProjectiles = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sim_active_projectiles",
		Help: "Occupied projectile pool slots",
	})

	transportOnline = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "transport_online",
		Help: "1 while the server connection is up",
	})

	firesDenied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sim_fires_denied_total",
		Help: "Fire requests dropped by a gate",
	}, []string{"reason"}) // bounded: "cooldown", "pool"

	eventsApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sim_events_applied_total",
		Help: "Inbound events handled by the reconciler",
	}, []string{"kind"}) // bounded: event kind names

	journalDropped = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sim_journal_dropped",
		Help: "Journal entries dropped by rate limiting or backpressure",
	})
)

// RecordFrame records the fixed-step work done in one frame.
func RecordFrame(d time.Duration) {
	frameDuration.Observe(d.Seconds())
}

// RecordFireDenied increments the denial counter. reason must be
// "cooldown" or "pool".
func RecordFireDenied(reason string) {
	firesDenied.WithLabelValues(reason).Inc()
}

// RecordEvent increments the per-kind applied-event counter.
func RecordEvent(kind string) {
	eventsApplied.WithLabelValues(kind).Inc()
}

// UpdateGauges refreshes the snapshot-derived gauges; called from the
// frame loop on a coarse cadence.
func UpdateGauges(remotes, pending, projectiles int, online bool, dropped uint64) {
	remoteShips.Set(float64(remotes))
	pendingBuilds.Set(float64(pending))
	activeProjectiles.Set(float64(projectiles))
	if online {
		transportOnline.Set(1)
	} else {
		transportOnline.Set(0)
	}
	journalDropped.Set(float64(dropped))
}

// DebugConfig configures the debug HTTP server.
type DebugConfig struct {
	Enabled    bool
	ListenAddr string // localhost only unless explicitly overridden
}

// DefaultDebugConfig returns safe defaults.
func DefaultDebugConfig() DebugConfig {
	return DebugConfig{
		Enabled:    true,
		ListenAddr: "127.0.0.1:6060",
	}
}

// StartDebugServer serves the router on the debug address. Binding is
// forced to localhost unless ALLOW_DEBUG_EXTERNAL=true: pprof must never
// face the open network.
func StartDebugServer(cfg DebugConfig, handler http.Handler) {
	if !cfg.Enabled {
		log.Println("📊 Debug server disabled")
		return
	}
	if cfg.ListenAddr != "127.0.0.1:6060" && cfg.ListenAddr != "localhost:6060" {
		if os.Getenv("ALLOW_DEBUG_EXTERNAL") != "true" {
			log.Println("⚠️ Debug server forced to localhost")
			cfg.ListenAddr = "127.0.0.1:6060"
		}
	}

	go func() {
		log.Printf("📊 Debug server on http://%s (pprof, /metrics, /api/state, /api/radar.png)", cfg.ListenAddr)
		if err := http.ListenAndServe(cfg.ListenAddr, handler); err != nil {
			log.Printf("⚠️ Debug server error: %v", err)
		}
	}()
}
