package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/OJPARKINSON/viz1090/internal/app"
	"github.com/OJPARKINSON/viz1090/internal/config"
)

func main() {
	cfg := config.DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "viz1090",
		Short: "ADS-B radar viewer",
		Long: `viz1090 decodes ADS-B extended squitters from a receiver feed and
renders a live radar view of tracked aircraft.

Example usage:
  viz1090 --transport tcp --server localhost --port 30005
  viz1090 --transport rtlsdr --rtlsdr-exec rtl_adsb`,
		RunE: func(cmd *cobra.Command, args []string) error {
			application := app.New(cfg)
			if err := application.Initialize(); err != nil {
				return fmt.Errorf("initializing application: %w", err)
			}
			defer application.Cleanup()

			return application.Run()
		},
	}

	flags := rootCmd.Flags()
	flags.StringVar(&cfg.TransportKind, "transport", cfg.TransportKind, "receiver transport: tcp or rtlsdr")
	flags.StringVar(&cfg.ServerAddress, "server", cfg.ServerAddress, "raw-feed TCP server address")
	flags.IntVar(&cfg.ServerPort, "port", cfg.ServerPort, "raw-feed TCP server port")
	flags.StringVar(&cfg.RTLSDRExec, "rtlsdr-exec", cfg.RTLSDRExec, "rtl_adsb-compatible receiver executable")
	flags.Float64Var(&cfg.InitialLat, "lat", cfg.InitialLat, "initial observer latitude")
	flags.Float64Var(&cfg.InitialLon, "lon", cfg.InitialLon, "initial observer longitude")
	flags.BoolVar(&cfg.Metric, "metric", cfg.Metric, "use metric units")
	flags.BoolVar(&cfg.Fullscreen, "fullscreen", cfg.Fullscreen, "fullscreen mode (not applied: the renderer always opens a normal window)")
	flags.IntVar(&cfg.ScreenWidth, "width", cfg.ScreenWidth, "screen width (0 = auto-detect)")
	flags.IntVar(&cfg.ScreenHeight, "height", cfg.ScreenHeight, "screen height (0 = auto-detect)")
	flags.IntVar(&cfg.UIScale, "uiscale", cfg.UIScale, "UI scaling factor")
	flags.Float64Var(&cfg.InitialZoom, "zoom", cfg.InitialZoom, "initial zoom level in NM")
	flags.BoolVar(&cfg.ShowTrails, "trails", cfg.ShowTrails, "show aircraft trails")
	flags.IntVar(&cfg.TrailLength, "traillen", cfg.TrailLength, "length of aircraft trails")
	flags.IntVar(&cfg.DisplayTTL, "ttl", cfg.DisplayTTL, "display TTL in seconds (not applied: aircraft stay on screen until the plane database ages them out)")
	flags.StringVar(&cfg.ObserverDBPath, "observer-db", cfg.ObserverDBPath, "path to the observer-position persistence file")
	flags.BoolVar(&cfg.Debug, "debug", cfg.Debug, "enable debug logging")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
