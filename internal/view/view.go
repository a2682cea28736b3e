// Package view exposes a read-only snapshot of the plane database and
// message counters for a renderer, classifying each plane into a freshness
// band without requiring the renderer to know about the database's
// internal locking.
package view

import (
	"time"

	"github.com/OJPARKINSON/viz1090/internal/adsb"
	"github.com/OJPARKINSON/viz1090/internal/planedb"
)

// Freshness classifies how recently a plane has been heard from and
// positioned.
type Freshness int

const (
	// Fresh means the plane's position was updated in the last 5s.
	Fresh Freshness = iota
	// RecentlySeen means no fresh position, but a message arrived in the
	// last 15s.
	RecentlySeen
	// Stale means neither of the above, though the plane has not yet aged
	// out of the database (> 60s unseen).
	Stale
)

const (
	freshWindow  = 5 * time.Second
	recentWindow = 15 * time.Second
)

// PlaneView is one plane's validity-qualified, renderer-facing state.
type PlaneView struct {
	ICAO           uint32
	Identification string
	Freshness      Freshness

	PosValid bool
	Lat      float64
	Lon      float64

	AltValid bool
	Altitude int

	BearingValid bool
	Bearing      float64

	VRValid     bool
	VRClimbing  bool
	VRMagnitude int

	Messages int
}

// Snapshot is a consistent read of the database and per-plane state, taken
// under the database's own iteration (go-cache's internal lock).
type Snapshot struct {
	MsgCount   int64
	PlaneCount int
	Planes     []PlaneView
}

// Source is the read side of a plane database, satisfied by *planedb.DB.
type Source interface {
	Len() int
	TotalMessages() int64
	ForEach(f func(p *adsb.Plane))
}

var _ Source = (*planedb.DB)(nil)

// Take produces a Snapshot of src as of now.
func Take(src Source, now time.Time) Snapshot {
	snap := Snapshot{
		MsgCount:   src.TotalMessages(),
		PlaneCount: src.Len(),
		Planes:     make([]PlaneView, 0, src.Len()),
	}

	src.ForEach(func(p *adsb.Plane) {
		snap.Planes = append(snap.Planes, PlaneView{
			ICAO:           p.ICAO,
			Identification: p.Identification,
			Freshness:      classify(p, now),
			PosValid:       p.PosValid,
			Lat:            p.Lat,
			Lon:            p.Lon,
			AltValid:       p.AltValid,
			Altitude:       p.Altitude,
			BearingValid:   p.BearingValid,
			Bearing:        p.Bearing,
			VRValid:        p.VRValid,
			VRClimbing:     p.VRClimbing,
			VRMagnitude:    p.VRMagnitude,
			Messages:       p.Messages,
		})
	})

	return snap
}

func classify(p *adsb.Plane, now time.Time) Freshness {
	if p.PosValid && now.Sub(p.PosTime) < freshWindow {
		return Fresh
	}
	if now.Sub(p.LastSeenTime) < recentWindow {
		return RecentlySeen
	}
	return Stale
}
