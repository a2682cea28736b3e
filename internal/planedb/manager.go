package planedb

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/OJPARKINSON/viz1090/internal/adsb"
	"github.com/OJPARKINSON/viz1090/internal/fifo"
)

// Manager is the decode thread: sole consumer of the FIFO and sole mutator
// of the plane database.
type Manager struct {
	db   *DB
	fifo *fifo.FIFO
	log  *logrus.Logger
}

// NewManager creates a manager over db and f. Passing a previously captured
// db (rather than a fresh DB from New) lets a manager restart survive a
// transient UI teardown without losing tracked planes or the message
// counter.
func NewManager(db *DB, f *fifo.FIFO, log *logrus.Logger) *Manager {
	return &Manager{db: db, fifo: f, log: log}
}

// DB returns the manager's plane database, e.g. to capture it across a
// planned restart.
func (m *Manager) DB() *DB {
	return m.db
}

// Run executes the decode loop until ctx is cancelled: drain the FIFO,
// dispatch each frame, and idle-sleep between passes. The go-cache janitor
// performs age-out on its own schedule, so no explicit sweep step is needed
// here.
func (m *Manager) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		drained := m.drainOnce()

		if !drained {
			select {
			case <-ctx.Done():
				return
			case <-time.After(idleSleep):
			}
		}
	}
}

// drainOnce processes every frame currently queued in the FIFO and reports
// whether at least one was processed.
func (m *Manager) drainOnce() bool {
	processed := false
	for {
		slot, ok := m.fifo.GetReadSlot()
		if !ok {
			return processed
		}

		frame := [14]byte(*slot)
		m.fifo.ReleaseRead()
		processed = true

		m.dispatch(frame)
	}
}

// dispatch applies both gates before touching the database at all, so a
// plane record is only ever created for a frame that has already produced
// at least one CRC-valid hit.
func (m *Manager) dispatch(frame [14]byte) {
	if !adsb.Accept(frame) {
		return
	}
	if !adsb.CRCValid(frame) {
		return
	}

	m.db.IncrementMessages()

	icao := adsb.ICAO(frame)
	now := time.Now()
	plane := m.db.GetOrCreate(icao, now)

	adsb.Decode(plane, frame, now, m.log)
	m.db.Touch(icao)
}
