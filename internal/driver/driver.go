// Package driver runs the transport I/O thread: it pulls raw bytes from a
// transport.Transport, feeds them byte-at-a-time through the framing parser,
// and is the sole producer into the FIFO. The 64-byte double-buffered
// read/scan loop described for the reference USB platform degenerates
// naturally to a per-byte feed here since transport.Sink already delivers
// one byte at a time; the throughput-warning and first-zero-byte-scan
// behaviour are preserved by buffering reads in fixed 64-byte chunks before
// handing them to the parser, matching the shape of the original loop.
package driver

import (
	"context"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/OJPARKINSON/viz1090/internal/fifo"
	"github.com/OJPARKINSON/viz1090/internal/framing"
	"github.com/OJPARKINSON/viz1090/internal/transport"
)

// bufferSize is the canonical read unit; a completed buffer is scanned up to
// its first zero byte (unused tail bytes are conventionally zero and the
// payload itself never contains a zero byte in the ASCII framing protocol).
const bufferSize = 64

// throughputWarnBytes is the per-buffer payload length above which the
// driver logs a warning that the consumer may be falling behind.
const throughputWarnBytes = 32

// Driver owns the transport I/O thread. It is not safe for concurrent use
// beyond the single Run goroutine plus an external Stop call.
type Driver struct {
	transport transport.Transport
	parser    *framing.Parser
	log       *logrus.Logger

	running atomic.Bool

	buf    [bufferSize]byte
	bufLen int
}

// New creates a driver that parses bytes from t into f via a dedicated
// framing parser.
func New(t transport.Transport, f *fifo.FIFO, log *logrus.Logger) *Driver {
	return &Driver{
		transport: t,
		parser:    framing.New(f, log),
		log:       log,
	}
}

// Run blocks until ctx is cancelled or the transport returns an
// unrecoverable error. It is the single background thread described by the
// driver runtime: awaiting transport completions, scanning for the
// first-zero-byte boundary, feeding the framing parser, and re-submitting.
func (d *Driver) Run(ctx context.Context) error {
	d.running.Store(true)
	defer d.running.Store(false)

	err := d.transport.Run(ctx, d.onByte)
	d.flushBuffer()
	return err
}

// Stop signals the driver to shut down; cancelling the context passed to
// Run is what actually unblocks the in-flight transport wait.
func (d *Driver) Stop() {
	d.running.Store(false)
}

func (d *Driver) onByte(b byte) {
	if !d.running.Load() {
		return
	}

	d.buf[d.bufLen] = b
	d.bufLen++

	if b == 0 || d.bufLen == bufferSize {
		d.flushBuffer()
	}
}

// flushBuffer scans the accumulated chunk up to its first zero byte, feeds
// that prefix through the framing parser, warns if the payload exceeds the
// throughput threshold, and resets the buffer for reuse.
func (d *Driver) flushBuffer() {
	if d.bufLen == 0 {
		return
	}

	payloadLen := d.bufLen
	for i := 0; i < d.bufLen; i++ {
		if d.buf[i] == 0 {
			payloadLen = i
			break
		}
	}

	if payloadLen > throughputWarnBytes {
		d.log.WithField("bytes", payloadLen).
			Warn("driver: buffer throughput exceeds threshold, consumer may be falling behind")
	}

	for i := 0; i < payloadLen; i++ {
		d.parser.Feed(d.buf[i])
	}

	for i := 0; i < d.bufLen; i++ {
		d.buf[i] = 0
	}
	d.bufLen = 0
}
