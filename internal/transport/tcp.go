package transport

import (
	"bufio"
	"context"
	"net"
	"time"

	"github.com/sirupsen/logrus"
)

// TCP connects to a raw ASCII feed (e.g. dump1090's --net-ro-port) and
// reconnects with a fixed backoff whenever the connection drops, until ctx
// is cancelled.
type TCP struct {
	Address       string
	DialTimeout   time.Duration
	RetryInterval time.Duration
	Log           *logrus.Logger
}

func (t *TCP) Run(ctx context.Context, sink Sink) error {
	retry := t.RetryInterval
	if retry <= 0 {
		retry = 5 * time.Second
	}

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		conn, err := net.DialTimeout("tcp", t.Address, t.DialTimeout)
		if err != nil {
			t.Log.WithError(err).WithField("retry_in", retry).
				Warn("tcp transport: connect failed")
			if !sleepOrDone(ctx, retry) {
				return ctx.Err()
			}
			continue
		}

		t.Log.WithField("addr", t.Address).Info("tcp transport: connected")
		t.stream(ctx, conn, sink)
		conn.Close()

		if ctx.Err() != nil {
			return ctx.Err()
		}
		t.Log.WithField("retry_in", retry).Warn("tcp transport: connection lost, reconnecting")
		if !sleepOrDone(ctx, retry) {
			return ctx.Err()
		}
	}
}

func (t *TCP) stream(ctx context.Context, conn net.Conn, sink Sink) {
	done := make(chan struct{})
	go func() {
		<-ctx.Done()
		conn.Close()
		close(done)
	}()
	defer func() {
		select {
		case <-done:
		default:
		}
	}()

	reader := bufio.NewReaderSize(conn, 4096)
	for {
		b, err := reader.ReadByte()
		if err != nil {
			return
		}
		sink(b)
	}
}

func sleepOrDone(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
