// Command viewtty is a terminal dashboard for the viz1090 ingestion
// pipeline: it runs the same transport/driver/plane-database stack as the
// SDL radar but renders tracked aircraft as a sorted text table in a
// gocui-managed terminal view instead of a map.
package main

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/jroimartin/gocui"
	. "github.com/logrusorgru/aurora"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/OJPARKINSON/viz1090/internal/config"
	"github.com/OJPARKINSON/viz1090/internal/driver"
	"github.com/OJPARKINSON/viz1090/internal/fifo"
	"github.com/OJPARKINSON/viz1090/internal/planedb"
	"github.com/OJPARKINSON/viz1090/internal/transport"
	"github.com/OJPARKINSON/viz1090/internal/view"
)

// dashboard holds the gocui-facing state: the plane database to snapshot
// each refresh tick.
type dashboard struct {
	db *planedb.DB
}

func (d *dashboard) update(g *gocui.Gui) error {
	s, err := g.View("status")
	if err != nil {
		return nil
	}
	s.Clear()

	snap := view.Take(d.db, time.Now())
	fmt.Fprintf(s, " A/C: %s  MSGS: %s  LAST UPDATE: %s\n",
		Green(snap.PlaneCount),
		Green(snap.MsgCount),
		Bold(Green(time.Now().Format("2006-01-02 15:04:05"))))

	l, err := g.View("list")
	if err != nil {
		return nil
	}
	l.Clear()

	fmt.Fprintln(l, " ICAO    FLIGHT     ALT   BEARING   VRATE  LAT     LON   STATE")
	fmt.Fprintln(l, " ===========================================================")

	planes := make([]view.PlaneView, len(snap.Planes))
	copy(planes, snap.Planes)
	sort.Slice(planes, func(i, j int) bool { return planes[i].ICAO < planes[j].ICAO })

	for _, p := range planes {
		altText := "-----"
		if p.AltValid {
			altText = fmt.Sprintf("%5d", p.Altitude)
		}
		brgText := "---"
		if p.BearingValid {
			brgText = fmt.Sprintf("%3d", int(p.Bearing))
		}
		vrText := "------"
		if p.VRValid {
			sign := "+"
			if !p.VRClimbing {
				sign = "-"
			}
			vrText = fmt.Sprintf("%s%5d", sign, p.VRMagnitude)
		}
		latText, lonText := "  -.--", "  -.--"
		if p.PosValid {
			latText = fmt.Sprintf("%6.2f", p.Lat)
			lonText = fmt.Sprintf("%6.2f", p.Lon)
		}

		state := "stale"
		switch p.Freshness {
		case view.Fresh:
			state = "fresh"
		case view.RecentlySeen:
			state = "recent"
		}

		flight := p.Identification
		if flight == "" {
			flight = fmt.Sprintf("%06X", p.ICAO)
		}

		fmt.Fprintln(l, Sprintf(Yellow(" %06X  %-9s  %s   %s    %s  %s  %s  %s"),
			p.ICAO, flight, altText, brgText, vrText, latText, lonText, state))
	}

	return nil
}

func layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()

	if v, err := g.SetView("status", 0, 0, maxX-1, 2); err != nil && err != gocui.ErrUnknownView {
		return err
	} else if err == gocui.ErrUnknownView {
		v.Title = " STATUS "
		fmt.Fprintln(v, " A/C: --  MSGS: --  LAST UPDATE: 0000-00-00 00:00:00")
	}

	if v, err := g.SetView("list", 0, 3, maxX-1, maxY-1); err != nil && err != gocui.ErrUnknownView {
		return err
	} else if err == gocui.ErrUnknownView {
		v.Title = " A/C "
	}

	return nil
}

func quit(g *gocui.Gui, v *gocui.View) error {
	return gocui.ErrQuit
}

func buildTransport(cfg *config.Config, lg *logrus.Logger) (transport.Transport, error) {
	switch cfg.TransportKind {
	case "rtlsdr":
		return &transport.RTLSDR{ExecPath: cfg.RTLSDRExec, Args: cfg.RTLSDRArgs, Log: lg}, nil
	case "tcp":
		return &transport.TCP{
			Address:       fmt.Sprintf("%s:%d", cfg.ServerAddress, cfg.ServerPort),
			DialTimeout:   cfg.DialTimeout,
			RetryInterval: cfg.RetryInterval,
			Log:           lg,
		}, nil
	default:
		return nil, fmt.Errorf("unknown transport kind %q", cfg.TransportKind)
	}
}

func run(cfg *config.Config) error {
	lg := logrus.New()
	if cfg.Debug {
		lg.SetLevel(logrus.DebugLevel)
	}

	f := fifo.New(cfg.FIFODepth)
	db := planedb.New(lg)
	manager := planedb.NewManager(db, f, lg)

	tp, err := buildTransport(cfg, lg)
	if err != nil {
		return err
	}
	drv := driver.New(tp, f, lg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := drv.Run(ctx); err != nil && ctx.Err() == nil {
			lg.WithError(err).Error("driver stopped unexpectedly")
		}
	}()
	go manager.Run(ctx)

	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return err
	}
	defer g.Close()

	g.SetManagerFunc(layout)

	if err := g.SetKeybinding("", gocui.KeyCtrlC, gocui.ModNone, quit); err != nil {
		return err
	}

	dash := &dashboard{db: db}

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				g.Update(dash.update)
			}
		}
	}()

	if err := g.MainLoop(); err != nil && err != gocui.ErrQuit {
		return err
	}

	return nil
}

func main() {
	cfg := config.DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "viewtty",
		Short: "terminal dashboard for tracked ADS-B aircraft",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cfg)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVar(&cfg.TransportKind, "transport", cfg.TransportKind, "receiver transport: tcp or rtlsdr")
	flags.StringVar(&cfg.ServerAddress, "server", cfg.ServerAddress, "raw-feed TCP server address")
	flags.IntVar(&cfg.ServerPort, "port", cfg.ServerPort, "raw-feed TCP server port")
	flags.StringVar(&cfg.RTLSDRExec, "rtlsdr-exec", cfg.RTLSDRExec, "rtl_adsb-compatible receiver executable")
	flags.BoolVar(&cfg.Debug, "debug", cfg.Debug, "enable debug logging")

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
