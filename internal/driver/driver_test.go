package driver

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/OJPARKINSON/viz1090/internal/fifo"
	"github.com/OJPARKINSON/viz1090/internal/transport"
)

func newTestLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// fakeTransport feeds a fixed byte slice through the sink and then blocks
// until ctx is cancelled, mimicking a live transport that idles once its
// backlog is exhausted.
type fakeTransport struct {
	data []byte
}

func (f *fakeTransport) Run(ctx context.Context, sink transport.Sink) error {
	for _, b := range f.data {
		sink(b)
	}
	<-ctx.Done()
	return ctx.Err()
}

func TestDriverParsesExtendedSquitterAcrossByteStream(t *testing.T) {
	f := fifo.New(4)
	tr := &fakeTransport{data: []byte("*8DABCDEF0123456789ABCDEF0123;")}
	d := New(tr, f, newTestLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	d.Run(ctx)

	slot, ok := f.GetReadSlot()
	require.True(t, ok)
	require.Equal(t, byte(0x8D), slot[0])
}

func TestDriverWarnsAndContinuesAfterLongPayload(t *testing.T) {
	f := fifo.New(4)
	payload := make([]byte, 0, 70)
	payload = append(payload, []byte("*8DABCDEF0123456789ABCDEF0123;")...)
	for len(payload) < 40 {
		payload = append(payload, 'x')
	}
	payload = append(payload, '*')
	payload = append(payload, []byte("8DABCDEF0123456789ABCDEF0199;")...)

	tr := &fakeTransport{data: payload}
	d := New(tr, f, newTestLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	d.Run(ctx)

	_, ok := f.GetReadSlot()
	require.True(t, ok, "at least the first well-formed frame should have been parsed")
}
