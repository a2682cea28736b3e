package planedb

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/OJPARKINSON/viz1090/internal/crc24"
	"github.com/OJPARKINSON/viz1090/internal/fifo"
)

func newTestLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func withCRC(frame [14]byte) [14]byte {
	parity := crc24.Parity(frame[:11])
	frame[11] = byte(parity >> 16)
	frame[12] = byte(parity >> 8)
	frame[13] = byte(parity)
	return frame
}

func pushFrame(t *testing.T, f *fifo.FIFO, frame [14]byte) {
	t.Helper()
	slot, ok := f.GetWriteSlot()
	require.True(t, ok)
	*slot = fifo.Slot(frame)
	f.CommitWrite()
}

func TestManagerDrainOnceDispatchesQueuedFrame(t *testing.T) {
	f := fifo.New(4)
	db := New(newTestLogger())
	m := NewManager(db, f, newTestLogger())

	var frame [14]byte
	frame[0] = 17 << 3
	frame[1], frame[2], frame[3] = 0x11, 0x22, 0x33
	frame = withCRC(frame)
	pushFrame(t, f, frame)

	require.True(t, m.drainOnce())
	require.Equal(t, 1, db.Len())
	require.Equal(t, int64(1), db.TotalMessages())
}

func TestManagerSkipsFramesFailingGates(t *testing.T) {
	f := fifo.New(4)
	db := New(newTestLogger())
	m := NewManager(db, f, newTestLogger())

	var bad [14]byte // DF0, rejected by Accept
	pushFrame(t, f, bad)

	require.True(t, m.drainOnce())
	require.Equal(t, 0, db.Len())
	require.Equal(t, int64(0), db.TotalMessages())
}

func TestManagerRunStopsOnContextCancel(t *testing.T) {
	f := fifo.New(4)
	db := New(newTestLogger())
	m := NewManager(db, f, newTestLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("manager did not stop after context cancellation")
	}
}
