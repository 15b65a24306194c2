package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"star-duel/internal/api"
	"star-duel/internal/config"
	"star-duel/internal/input"
	"star-duel/internal/scene"
	"star-duel/internal/sim"
	"star-duel/internal/transport"

	"github.com/joho/godotenv"
)

// framePeriod is the render-loop cadence. The fixed-step scheduler is
// independent of it; this only controls how often Frame is entered.
const framePeriod = 16 * time.Millisecond

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("💡 No .env file found, using environment variables only")
	}

	log.Println("🎮 ================================")
	log.Println("🎮  STAR DUEL - SIMULATION CLIENT")
	log.Println("🎮 ================================")

	cfg := config.Load()
	device := input.ParseDeviceClass(cfg.Ship.Device)

	log.Printf("🎮 Config: %d TPS, clamp %.2fs, pool %d, device %s",
		cfg.Sim.TickRate, cfg.Sim.MaxFrameTime, cfg.Pool.Capacity, device)

	journal := sim.NewJournal()
	if err := journal.Start(cfg.Journal.Path); err != nil {
		log.Printf("⚠️ Journal start failed: %v (continuing without)", err)
	}
	defer journal.Stop()

	session := sim.NewSession(sim.Config{
		TickRate:     cfg.Sim.TickRate,
		MaxFrameTime: cfg.Sim.MaxFrameTime,
		Profile:      sim.ProfileForDevice(device),
		MaxHealth:    cfg.Ship.MaxHealth,
		PoolCapacity: cfg.Pool.Capacity,
		BulletSpeed:  cfg.Pool.BulletSpeed,
		BulletLife:   cfg.Pool.BulletLifetime,
		FireCooldown: time.Duration(cfg.Pool.FireCooldownMs) * time.Millisecond,
		SendInterval: time.Duration(cfg.Net.SendIntervalMs) * time.Millisecond,
	}, sim.Deps{
		Input:    pilotSource(),
		Renderer: scene.NullRenderer{},
		Journal:  journal,
		Hooks: sim.Hooks{
			TickDone:   api.RecordFrame,
			FireDenied: api.RecordFireDenied,
			Event:      api.RecordEvent,
		},
	})

	var client *transport.Client
	if cfg.Net.ServerURL != "" {
		c, err := transport.Dial(cfg.Net.ServerURL, transport.Options{
			Sink:      session.Reconciler(),
			Post:      session.Post,
			OnWelcome: session.SetLocalID,
			OnOffline: func() { session.SetOnline(false) },
		})
		if err != nil {
			log.Printf("⚠️ Server unreachable: %v (running offline)", err)
		} else {
			client = c
			session.SetOutbound(client)
			session.SetOnline(true)
		}
	} else {
		log.Println("📡 No SERVER_URL set, running offline")
	}

	api.StartDebugServer(api.DebugConfig{
		Enabled:    cfg.Debug.Enabled,
		ListenAddr: cfg.Debug.ListenAddr,
	}, api.NewRouter(api.RouterConfig{State: session}))

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(framePeriod)
	defer ticker.Stop()
	gauges := time.NewTicker(time.Second)
	defer gauges.Stop()

	last := time.Now()
	log.Println("🚀 Simulation running")
	for {
		select {
		case now := <-ticker.C:
			session.Frame(now, now.Sub(last).Seconds())
			last = now
		case <-gauges.C:
			snap := session.Snapshot()
			_, dropped, _ := journal.Stats()
			api.UpdateGauges(len(snap.Ships)-1, snap.PendingBuilds,
				len(snap.Projectiles), snap.Online, dropped)
		case sig := <-stop:
			log.Printf("🛑 Received %v, shutting down", sig)
			if client != nil {
				client.Close()
			}
			return
		}
	}
}

// pilotSource returns the session's input. Without a real device attached
// this binary flies a canned patrol loop so the simulation, pool and
// debug endpoints all have live state to show.
func pilotSource() input.Source {
	if os.Getenv("PILOT") == "idle" {
		return input.Neutral
	}
	return input.NewLoopingScript(
		input.ScriptStep{Ticks: 180, Intent: input.Intent{Accelerate: true}},
		input.ScriptStep{Ticks: 90, Intent: input.Intent{Accelerate: true, YawLeft: true}},
		input.ScriptStep{Ticks: 30, Intent: input.Intent{Accelerate: true, Fire: true}},
		input.ScriptStep{Ticks: 60, Intent: input.Intent{PitchUp: true}},
		input.ScriptStep{Ticks: 60, Intent: input.Intent{}},
	)
}
