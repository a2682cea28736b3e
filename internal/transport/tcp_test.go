package transport

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestTCPStreamsBytesUntilConnectionCloses(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		conn.Write([]byte("*8DABCDEF0123456789ABCDEF0123;"))
		conn.Close()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	tr := &TCP{
		Address:       ln.Addr().String(),
		DialTimeout:   time.Second,
		RetryInterval: 50 * time.Millisecond,
		Log:           newTestLogger(),
	}

	var got []byte
	done := make(chan struct{})
	go func() {
		tr.Run(ctx, func(b byte) { got = append(got, b) })
		close(done)
	}()

	time.Sleep(300 * time.Millisecond)
	cancel()
	<-done

	require.Contains(t, string(got), "8DABCDEF0123456789ABCDEF0123")
}

func TestTCPReturnsWhenContextAlreadyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tr := &TCP{Address: "127.0.0.1:1", Log: newTestLogger()}
	err := tr.Run(ctx, func(b byte) {})
	require.Error(t, err)
}
