package app

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/OJPARKINSON/viz1090/internal/adsb"
	"github.com/OJPARKINSON/viz1090/internal/config"
	"github.com/OJPARKINSON/viz1090/internal/driver"
	"github.com/OJPARKINSON/viz1090/internal/fifo"
	"github.com/OJPARKINSON/viz1090/internal/observer"
	"github.com/OJPARKINSON/viz1090/internal/planedb"
	"github.com/OJPARKINSON/viz1090/internal/transport"
	"github.com/OJPARKINSON/viz1090/internal/view"
	"github.com/OJPARKINSON/viz1090/internal/viz"
)

// App wires the ingestion pipeline (transport -> driver -> FIFO -> plane
// database manager) to the SDL radar renderer and the observer-position
// store.
type App struct {
	config       *config.Config
	log          *logrus.Logger
	aircraft     *adsb.AircraftMap
	selectedICAO uint32
	centerLat    float64
	centerLon    float64
	maxDistance  float64

	vizRenderer *viz.Renderer
	running     bool

	fifo       *fifo.FIFO
	drv        *driver.Driver
	planeDB    *planedb.DB
	manager    *planedb.Manager
	obsStore   *observer.Store
	cancelRun  context.CancelFunc
	pipelineWG sync.WaitGroup

	lastFrameTime time.Time
	lastCleanup   time.Time

	mutex sync.RWMutex

	numVisiblePlanes int
	numPlanes        int
	msgRate          float64
	lastMsgCount     int64
}

// New creates a new application instance.
func New(cfg *config.Config) *App {
	log := logrus.New()
	if cfg.Debug {
		log.SetLevel(logrus.DebugLevel)
	}

	return &App{
		config:      cfg,
		log:         log,
		aircraft:    adsb.NewAircraftMap(),
		centerLat:   cfg.InitialLat,
		centerLon:   cfg.InitialLon,
		maxDistance: cfg.InitialZoom,
		lastCleanup: time.Now(),
	}
}

// Initialize sets up the renderer, the observer-position store, and the
// ingestion pipeline (transport, framing parser, FIFO, plane database).
func (a *App) Initialize() error {
	var err error

	a.vizRenderer, err = viz.NewRenderer(a.config.ScreenWidth, a.config.ScreenHeight,
		a.config.UIScale, a.config.Metric)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %v", err)
	}

	a.obsStore, err = observer.Open(a.config.ObserverDBPath)
	if err != nil {
		return fmt.Errorf("failed to open observer store: %v", err)
	}
	if lat, lon := a.obsStore.Get(); lat != observer.Absent && lon != observer.Absent {
		a.centerLat = float64(lat)
		a.centerLon = float64(lon)
	}

	a.fifo = fifo.New(a.config.FIFODepth)

	a.planeDB = planedb.New(a.log)
	a.manager = planedb.NewManager(a.planeDB, a.fifo, a.log)

	tp, err := a.buildTransport()
	if err != nil {
		return fmt.Errorf("failed to build transport: %v", err)
	}
	a.drv = driver.New(tp, a.fifo, a.log)

	return nil
}

func (a *App) buildTransport() (transport.Transport, error) {
	switch a.config.TransportKind {
	case "rtlsdr":
		return &transport.RTLSDR{
			ExecPath: a.config.RTLSDRExec,
			Args:     a.config.RTLSDRArgs,
			Log:      a.log,
		}, nil
	case "tcp":
		return &transport.TCP{
			Address:       fmt.Sprintf("%s:%d", a.config.ServerAddress, a.config.ServerPort),
			DialTimeout:   a.config.DialTimeout,
			RetryInterval: a.config.RetryInterval,
			Log:           a.log,
		}, nil
	default:
		return nil, fmt.Errorf("unknown transport kind %q", a.config.TransportKind)
	}
}

// startPipeline launches the driver and the plane-database manager in the
// background, both bound to ctx.
func (a *App) startPipeline(ctx context.Context) {
	a.pipelineWG.Add(2)

	go func() {
		defer a.pipelineWG.Done()
		if err := a.drv.Run(ctx); err != nil && ctx.Err() == nil {
			a.log.WithError(err).Error("driver stopped unexpectedly")
		}
	}()

	go func() {
		defer a.pipelineWG.Done()
		a.manager.Run(ctx)
	}()
}

// syncAircraftFromSnapshot rebuilds a.aircraft's decoded fields from a
// view.Snapshot, preserving each Aircraft's onscreen layout state (trail,
// label position) across frames and dropping entries the database no longer
// tracks (aged out past planedb.AgeOutTTL).
func (a *App) syncAircraftFromSnapshot(snap view.Snapshot, now time.Time) {
	seen := make(map[uint32]struct{}, len(snap.Planes))

	for _, pv := range snap.Planes {
		seen[pv.ICAO] = struct{}{}
		ac := a.aircraft.GetOrCreate(pv.ICAO)

		if pv.Identification != "" {
			ac.Flight = pv.Identification
		}

		ac.AltValid = pv.AltValid
		ac.Altitude = pv.Altitude
		ac.BearingValid = pv.BearingValid
		if pv.BearingValid {
			ac.Bearing = int(pv.Bearing)
		}
		ac.VRValid = pv.VRValid
		ac.VRClimbing = pv.VRClimbing
		ac.VRMagnitude = pv.VRMagnitude
		ac.Seen = now
		ac.Messages = pv.Messages

		if pv.PosValid {
			movedOrFirst := !ac.PosValid || ac.Lat != pv.Lat || ac.Lon != pv.Lon
			ac.PosValid = true
			ac.Lat = pv.Lat
			ac.Lon = pv.Lon
			ac.SeenLatLon = now

			if movedOrFirst && a.config.ShowTrails {
				if len(ac.Trail) >= a.config.TrailLength {
					ac.Trail = ac.Trail[1:]
				}
				ac.Trail = append(ac.Trail, adsb.Position{
					Lat:       pv.Lat,
					Lon:       pv.Lon,
					Altitude:  pv.Altitude,
					Heading:   ac.Bearing,
					Timestamp: now,
				})
			}
		}
	}

	for _, icao := range a.aircraft.Keys() {
		if _, ok := seen[icao]; !ok {
			a.aircraft.Delete(icao)
		}
	}
}

// updateStatistics recomputes visible/total plane counts and the message
// rate since the last call.
func (a *App) updateStatistics() {
	numVisible := 0
	numTotal := 0

	a.aircraft.ForEach(func(icao uint32, aircraft *adsb.Aircraft) {
		numTotal++
		if aircraft.PosValid {
			numVisible++
		}
	})

	a.numVisiblePlanes = numVisible
	a.numPlanes = numTotal

	total := a.planeDB.TotalMessages()
	a.msgRate = float64(total - a.lastMsgCount)
	a.lastMsgCount = total
}

// persistObserverPosition saves the current map center so the next run
// restores the same view.
func (a *App) persistObserverPosition() {
	if a.obsStore == nil {
		return
	}
	if err := a.obsStore.Set(float32(a.centerLat), float32(a.centerLon)); err != nil {
		a.log.WithError(err).Warn("failed to persist observer position")
	}
}

// Run starts the main application loop: the ingestion pipeline runs in the
// background while this goroutine polls SDL input, takes periodic plane-db
// snapshots, and renders frames.
func (a *App) Run() error {
	a.running = true

	ctx, cancel := context.WithCancel(context.Background())
	a.cancelRun = cancel
	a.startPipeline(ctx)

	snapshotTicker := time.NewTicker(1 * time.Second)
	defer snapshotTicker.Stop()

	persistTicker := time.NewTicker(30 * time.Second)
	defer persistTicker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		a.log.Info("received shutdown signal")
		a.running = false
	}()

	a.log.Info("starting viz1090")

	for a.running {
		if !a.HandleInput() {
			a.running = false
			break
		}

		select {
		case <-snapshotTicker.C:
			now := time.Now()
			snap := view.Take(a.planeDB, now)
			a.syncAircraftFromSnapshot(snap, now)
			a.updateStatistics()
		case <-persistTicker.C:
			a.persistObserverPosition()
		default:
		}

		a.mutex.RLock()
		a.vizRenderer.RenderFrame(a.aircraft.Copy(), a.centerLat, a.centerLon, a.maxDistance, a.selectedICAO)
		a.mutex.RUnlock()

		elapsed := time.Since(a.lastFrameTime)
		targetFrameTime := 33 * time.Millisecond // ~30fps
		if elapsed < targetFrameTime {
			time.Sleep(targetFrameTime - elapsed)
		}
		a.lastFrameTime = time.Now()
	}

	return nil
}

// Cleanup stops the ingestion pipeline, persists the observer position, and
// releases renderer and storage resources.
func (a *App) Cleanup() {
	a.running = false

	if a.cancelRun != nil {
		a.cancelRun()
		a.pipelineWG.Wait()
	}

	a.persistObserverPosition()

	if a.obsStore != nil {
		a.obsStore.Close()
	}

	if a.vizRenderer != nil {
		a.vizRenderer.Cleanup()
	}

	a.log.Info("cleanup complete")
}

// HandleInput processes all SDL events and updates the application state accordingly
func (a *App) HandleInput() bool {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			return false

		case *sdl.KeyboardEvent:
			if e.Type == sdl.KEYDOWN {
				switch e.Keysym.Sym {
				case sdl.K_ESCAPE:
					return false
				case sdl.K_EQUALS, sdl.K_PLUS:
					// Zoom in
					a.maxDistance *= 0.8
				case sdl.K_MINUS:
					// Zoom out
					a.maxDistance *= 1.25
				}
			}

		case *sdl.MouseWheelEvent:
			// Handle mouse wheel for zooming
			zoomFactor := 1.0
			if e.Y > 0 {
				zoomFactor = 0.8 // Zoom in
			} else if e.Y < 0 {
				zoomFactor = 1.25 // Zoom out
			}
			a.maxDistance *= zoomFactor

		case *sdl.MouseButtonEvent:
			if e.Type == sdl.MOUSEBUTTONDOWN {
				a.handleMouseButtonDown(e.X, e.Y, e.Button, int32(e.Clicks))
			}

		case *sdl.MouseMotionEvent:
			// Handle panning when mouse is dragged
			if e.State != 0 {
				a.handleMapPan(int(e.XRel), int(e.YRel))
			}
		}
	}
	return true
}

// handleMouseButtonDown processes mouse button events
func (a *App) handleMouseButtonDown(x, y int32, button uint8, clicks int32) {
	if button == sdl.BUTTON_LEFT {
		if clicks == 2 {
			// Double-click: Zoom in at the clicked location
			a.zoomToPosition(int(x), int(y), 0.5)
		} else {
			// Single click: Select aircraft
			a.selectAircraftAt(int(x), int(y))
		}
	}
}

// handleMapPan pans the map based on mouse motion
func (a *App) handleMapPan(xrel, yrel int) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	scale := a.maxDistance / float64(a.vizRenderer.GetHeight()/2)

	latChange := float64(yrel) * scale / 60.0

	lonFactor := math.Cos(a.centerLat * math.Pi / 180.0)
	lonChange := float64(xrel) * scale / (60.0 * lonFactor)

	a.centerLat -= latChange
	a.centerLon -= lonChange
}

// zoomToPosition zooms the map to a specific position
func (a *App) zoomToPosition(x, y int, factor float64) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	lat, lon := a.pixelToLatLon(x, y)

	a.centerLat = lat
	a.centerLon = lon

	a.maxDistance *= factor
}

// selectAircraftAt tries to select an aircraft at the given screen position
func (a *App) selectAircraftAt(x, y int) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	a.selectedICAO = 0

	var closestAircraft uint32
	closestDistance := 400.0 // Max selection distance squared (20px radius)

	a.aircraft.ForEach(func(icao uint32, aircraft *adsb.Aircraft) {
		if !aircraft.PosValid {
			return
		}

		aircraftX, aircraftY := a.latLonToPixel(aircraft.Lat, aircraft.Lon)

		dx := float64(aircraftX - x)
		dy := float64(aircraftY - y)
		distSquared := dx*dx + dy*dy

		if distSquared < closestDistance {
			closestDistance = distSquared
			closestAircraft = icao
		}
	})

	if closestAircraft != 0 {
		a.selectedICAO = closestAircraft
		a.log.WithField("icao", fmt.Sprintf("%06X", closestAircraft)).Info("selected aircraft")
	}
}

// pixelToLatLon converts screen coordinates to latitude/longitude
func (a *App) pixelToLatLon(x, y int) (float64, float64) {
	h := a.vizRenderer.GetHeight()
	w := a.vizRenderer.GetWidth()

	dx := float64(x - w/2)
	dy := float64(y - h/2)

	scale := a.maxDistance / float64(h/2)

	latOffset := -dy * scale / 60.0

	lonFactor := math.Cos(a.centerLat * math.Pi / 180.0)
	lonOffset := dx * scale / (60.0 * lonFactor)

	return a.centerLat + latOffset, a.centerLon + lonOffset
}

// latLonToPixel converts latitude/longitude to screen coordinates
func (a *App) latLonToPixel(lat, lon float64) (int, int) {
	h := a.vizRenderer.GetHeight()
	w := a.vizRenderer.GetWidth()

	latOffset := (lat - a.centerLat) * 60.0

	lonFactor := math.Cos(a.centerLat * math.Pi / 180.0)
	lonOffset := (lon - a.centerLon) * 60.0 * lonFactor

	scale := float64(h/2) / a.maxDistance

	dx := lonOffset * scale
	dy := -latOffset * scale

	return int(float64(w)/2.0 + dx), int(float64(h)/2.0 + dy)
}
