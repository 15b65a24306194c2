// Package config provides centralized configuration management.
// This is the SINGLE SOURCE OF TRUTH for all simulation and network settings.
//
// IMPORTANT: When changing values, only modify this file.
// All other parts of the codebase should reference these values.
package config

import (
	"os"
	"strconv"
)

// =============================================================================
// SIMULATION CONFIGURATION
// =============================================================================

// SimConfig holds the fixed-step scheduler settings.
type SimConfig struct {
	TickRate     int     // Fixed simulation steps per second
	MaxFrameTime float64 // Frame time clamp in seconds (spiral-of-death guard)
}

// DefaultSim returns the default simulation configuration.
func DefaultSim() SimConfig {
	return SimConfig{
		TickRate:     60,
		MaxFrameTime: 0.25,
	}
}

// SimFromEnv returns simulation configuration with environment overrides.
// Environment variables take precedence over defaults.
func SimFromEnv() SimConfig {
	cfg := DefaultSim()

	if tr := getEnvInt("TICK_RATE", 0); tr > 0 {
		cfg.TickRate = tr
	}
	if mf := getEnvFloat("MAX_FRAME_TIME", 0); mf > 0 {
		cfg.MaxFrameTime = mf
	}

	return cfg
}

// =============================================================================
// SHIP CONFIGURATION
// =============================================================================

// ShipConfig holds local ship tuning.
type ShipConfig struct {
	MaxHealth float64 // Hit points at spawn and respawn
	Device    string  // Input device class: "pointer" or "touch"
}

// DefaultShip returns the default ship configuration.
func DefaultShip() ShipConfig {
	return ShipConfig{
		MaxHealth: 100,
		Device:    "pointer",
	}
}

// ShipFromEnv returns ship configuration with environment overrides.
func ShipFromEnv() ShipConfig {
	cfg := DefaultShip()

	if mh := getEnvFloat("SHIP_MAX_HEALTH", 0); mh > 0 {
		cfg.MaxHealth = mh
	}
	if d := os.Getenv("INPUT_DEVICE"); d != "" {
		cfg.Device = d
	}

	return cfg
}

// =============================================================================
// PROJECTILE POOL CONFIGURATION
// =============================================================================

// PoolConfig controls the projectile pool and fire rate limits.
type PoolConfig struct {
	Capacity       int     // Hard cap on simultaneously active projectiles
	BulletSpeed    float64 // Units per second
	BulletLifetime float64 // Seconds before a slot is reclaimed
	FireCooldownMs int     // Minimum wall-clock gap between accepted shots
}

// DefaultPool returns the default pool configuration.
func DefaultPool() PoolConfig {
	return PoolConfig{
		Capacity:       100,
		BulletSpeed:    30,
		BulletLifetime: 1.0,
		FireCooldownMs: 250,
	}
}

// PoolFromEnv returns pool configuration with environment overrides.
func PoolFromEnv() PoolConfig {
	cfg := DefaultPool()

	if c := getEnvInt("POOL_CAPACITY", 0); c > 0 {
		cfg.Capacity = c
	}
	if s := getEnvFloat("BULLET_SPEED", 0); s > 0 {
		cfg.BulletSpeed = s
	}
	if l := getEnvFloat("BULLET_LIFETIME", 0); l > 0 {
		cfg.BulletLifetime = l
	}
	if cd := getEnvInt("FIRE_COOLDOWN_MS", 0); cd > 0 {
		cfg.FireCooldownMs = cd
	}

	return cfg
}

// =============================================================================
// NETWORK CONFIGURATION
// =============================================================================

// NetConfig holds the arena server connection settings.
type NetConfig struct {
	ServerURL      string // WebSocket URL of the arena server; empty = offline
	SendIntervalMs int    // Outbound transform sample period
}

// DefaultNet returns the default network configuration.
func DefaultNet() NetConfig {
	return NetConfig{
		ServerURL:      "",
		SendIntervalMs: 50,
	}
}

// NetFromEnv returns network configuration with environment overrides.
func NetFromEnv() NetConfig {
	cfg := DefaultNet()

	if u := os.Getenv("SERVER_URL"); u != "" {
		cfg.ServerURL = u
	}
	if si := getEnvInt("SEND_INTERVAL_MS", 0); si > 0 {
		cfg.SendIntervalMs = si
	}

	return cfg
}

// =============================================================================
// DEBUG SERVER CONFIGURATION
// =============================================================================

// DebugConfig holds the local debug HTTP server settings.
type DebugConfig struct {
	Enabled    bool
	ListenAddr string
}

// DefaultDebug returns the default debug configuration.
func DefaultDebug() DebugConfig {
	return DebugConfig{
		Enabled:    true,
		ListenAddr: "127.0.0.1:6060",
	}
}

// DebugFromEnv returns debug configuration with environment overrides.
func DebugFromEnv() DebugConfig {
	cfg := DefaultDebug()

	if os.Getenv("DEBUG_SERVER") == "false" {
		cfg.Enabled = false
	}
	if a := os.Getenv("DEBUG_ADDR"); a != "" {
		cfg.ListenAddr = a
	}

	return cfg
}

// =============================================================================
// JOURNAL CONFIGURATION
// =============================================================================

// JournalConfig holds the event journal settings.
type JournalConfig struct {
	Path string // JSONL output path; empty keeps the journal in memory
}

// DefaultJournal returns the default journal configuration.
func DefaultJournal() JournalConfig {
	return JournalConfig{
		Path: "star-duel-events.jsonl",
	}
}

// JournalFromEnv returns journal configuration with environment overrides.
func JournalFromEnv() JournalConfig {
	cfg := DefaultJournal()

	if p := os.Getenv("JOURNAL_PATH"); p != "" {
		cfg.Path = p
	}
	if os.Getenv("JOURNAL_DISABLED") == "true" {
		cfg.Path = ""
	}

	return cfg
}

// =============================================================================
// COMPLETE APP CONFIGURATION
// =============================================================================

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Sim     SimConfig
	Ship    ShipConfig
	Pool    PoolConfig
	Net     NetConfig
	Debug   DebugConfig
	Journal JournalConfig
}

// Load returns the complete configuration with environment overrides.
func Load() AppConfig {
	return AppConfig{
		Sim:     SimFromEnv(),
		Ship:    ShipFromEnv(),
		Pool:    PoolFromEnv(),
		Net:     NetFromEnv(),
		Debug:   DebugFromEnv(),
		Journal: JournalFromEnv(),
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
