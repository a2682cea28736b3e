// Package config holds the application's runtime settings: the receiver
// transport, display options, and the ingestion engine's FIFO depth and
// age-out/sweep/backoff intervals.
package config

import "time"

// Config stores application configuration settings
type Config struct {
	// Transport settings
	TransportKind string // "tcp" or "rtlsdr"
	ServerAddress string
	ServerPort    int
	RTLSDRExec    string
	RTLSDRArgs    []string
	DialTimeout   time.Duration
	RetryInterval time.Duration

	// Ingestion engine settings
	FIFODepth     int
	PlaneTTL      time.Duration
	SweepInterval time.Duration

	// Observer position persistence
	ObserverDBPath string

	// Display settings
	ScreenWidth  int
	ScreenHeight int
	Fullscreen   bool
	UIScale      int
	Metric       bool

	// Initial map settings
	InitialLat  float64
	InitialLon  float64
	InitialZoom float64

	// Visualization options
	ShowTrails  bool
	TrailLength int
	LabelDetail int
	DisplayTTL  int

	// Debug options
	Debug bool
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		TransportKind: "tcp",
		ServerAddress: "localhost",
		ServerPort:    30005,
		RTLSDRExec:    "rtl_adsb",
		DialTimeout:   5 * time.Second,
		RetryInterval: 5 * time.Second,

		FIFODepth:     64,
		PlaneTTL:      60 * time.Second,
		SweepInterval: 10 * time.Second,

		ObserverDBPath: "viz1090-observer.db",

		ScreenWidth:   0, // Auto-detect
		ScreenHeight:  0, // Auto-detect
		Fullscreen:    false,
		UIScale:       1,
		Metric:        false,
		InitialLat:    37.6188,
		InitialLon:    -122.3756,
		InitialZoom:   50.0, // NM
		ShowTrails:    true,
		TrailLength:   50,
		LabelDetail:   2,
		DisplayTTL:    30,
		Debug:         false,
	}
}
