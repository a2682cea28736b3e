// Package planedb holds the ICAO-keyed plane map and the manager loop that
// drains the FIFO, dispatches frames into plane records, and ages out
// planes that have gone quiet. The map itself is a patrickmn/go-cache
// instance: its own TTL janitor performs the "two-phase" age-out sweep the
// manager would otherwise have to do by hand, since letting the cache's
// background goroutine expire entries is observationally identical to the
// collect-then-remove sweep (no consumer ever sees a mid-sweep state
// either way).
package planedb

import (
	"sync/atomic"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/OJPARKINSON/viz1090/internal/adsb"
)

// AgeOutTTL is how long a plane may go unseen before it is evicted.
const AgeOutTTL = 60 * time.Second

// SweepInterval is how often the cache's janitor checks for expired planes.
const SweepInterval = 10 * time.Second

// idleSleep is how long the manager loop sleeps when the FIFO is empty.
const idleSleep = 100 * time.Millisecond

func keyFor(icao uint32) string {
	return string([]byte{byte(icao >> 16), byte(icao >> 8), byte(icao)})
}

// DB is the ICAO-keyed plane map. All mutation happens on the manager
// goroutine; reads from other goroutines are safe since go-cache guards its
// own map internally.
type DB struct {
	cache       *cache.Cache
	log         *logrus.Logger
	totalMsgs   atomic.Int64
	evictionLog func(icao uint32)
}

// New creates an empty plane database with the standard age-out/sweep
// intervals.
func New(log *logrus.Logger) *DB {
	return NewWithTTL(log, AgeOutTTL, SweepInterval)
}

// NewWithTTL creates an empty plane database with caller-chosen age-out and
// sweep intervals, letting tests drive the cache's janitor on a short
// interval instead of waiting out the real 60s/10s defaults.
func NewWithTTL(log *logrus.Logger, ageOutTTL, sweepInterval time.Duration) *DB {
	c := cache.New(ageOutTTL, sweepInterval)
	db := &DB{cache: c, log: log}

	c.OnEvicted(func(key string, value interface{}) {
		if db.evictionLog != nil {
			if p, ok := value.(*adsb.Plane); ok {
				db.evictionLog(p.ICAO)
			}
		}
		log.WithField("icao_key", key).Debug("planedb: plane aged out")
	})

	return db
}

// OnEviction registers a callback invoked (from the cache's janitor
// goroutine) whenever a plane is aged out.
func (db *DB) OnEviction(f func(icao uint32)) {
	db.evictionLog = f
}

// GetOrCreate returns the existing plane record for icao, or creates and
// stores a fresh one seen at now.
func (db *DB) GetOrCreate(icao uint32, now time.Time) *adsb.Plane {
	key := keyFor(icao)
	if v, ok := db.cache.Get(key); ok {
		return v.(*adsb.Plane)
	}

	p := adsb.NewPlane(icao, now)
	db.cache.SetDefault(key, p)
	return p
}

// Touch refreshes a plane's TTL in the cache without altering its stored
// value, used after the manager mutates it in place so the eviction clock
// restarts from the frame's timestamp.
func (db *DB) Touch(icao uint32) {
	key := keyFor(icao)
	if v, ok := db.cache.Get(key); ok {
		db.cache.SetDefault(key, v)
	}
}

// Len reports the number of planes currently tracked.
func (db *DB) Len() int {
	return db.cache.ItemCount()
}

// TotalMessages reports the running count of CRC-valid frames dispatched.
func (db *DB) TotalMessages() int64 {
	return db.totalMsgs.Load()
}

// IncrementMessages increments the total-message counter; called by the
// manager once per CRC-valid frame.
func (db *DB) IncrementMessages() {
	db.totalMsgs.Add(1)
}

// ForEach invokes f for every tracked plane. f must not mutate the plane;
// only the manager goroutine is permitted to do that.
func (db *DB) ForEach(f func(p *adsb.Plane)) {
	for _, item := range db.cache.Items() {
		if p, ok := item.Object.(*adsb.Plane); ok {
			f(p)
		}
	}
}
