package framing

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/OJPARKINSON/viz1090/internal/fifo"
)

func newTestLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func feedString(p *Parser, s string) {
	for i := 0; i < len(s); i++ {
		p.Feed(s[i])
	}
}

// extSquitter28 is a well-formed 28-nibble (14-byte) DF17 extended squitter
// frame body: 8D <ICAO=ABCDEF> then 9 arbitrary payload/CRC bytes.
const extSquitter28 = "8DABCDEF0123456789ABCDEF0123"

func TestExtendedSquitterPublished(t *testing.T) {
	f := fifo.New(4)
	p := New(f, newTestLogger())

	feedString(p, "*"+extSquitter28+";")

	slot, ok := f.GetReadSlot()
	require.True(t, ok)
	require.Equal(t, byte(0x8D), slot[0])
	require.Equal(t, byte(0xAB), slot[1])
}

func TestNonADSBDownlinkFormatDropped(t *testing.T) {
	f := fifo.New(4)
	p := New(f, newTestLogger())

	// DF0 (0x00) extended length frame: not DF17/18/19, must be discarded.
	feedString(p, "*00ABCDEF0123456789ABCDEF0123;")

	_, ok := f.GetReadSlot()
	require.False(t, ok)
}

func TestStandardSquitterDiscardedNoCommit(t *testing.T) {
	f := fifo.New(4)
	p := New(f, newTestLogger())

	feedString(p, "*8DABCDEF012345;")

	_, ok := f.GetReadSlot()
	require.False(t, ok)
}

func TestJunkBetweenFramesTolerated(t *testing.T) {
	f := fifo.New(4)
	p := New(f, newTestLogger())

	feedString(p, "garbage-!!*"+extSquitter28+";more junk")

	slot, ok := f.GetReadSlot()
	require.True(t, ok)
	require.Equal(t, byte(0x8D), slot[0])
}

func TestBadNibbleResetsToIdle(t *testing.T) {
	f := fifo.New(4)
	p := New(f, newTestLogger())

	feedString(p, "*8Dzz")
	require.Equal(t, -1, p.idx)

	// A fresh valid frame afterwards should still decode fine.
	feedString(p, "*"+extSquitter28+";")
	slot, ok := f.GetReadSlot()
	require.True(t, ok)
	require.Equal(t, byte(0x8D), slot[0])
}

func TestFIFOFullDropsFrameStart(t *testing.T) {
	f := fifo.New(1)
	p := New(f, newTestLogger())

	feedString(p, "*"+extSquitter28+";")
	feedString(p, "*8DABCDEF0123456789ABCDEF0199;")

	// Second frame should have been dropped at '*' since the ring is full.
	slot, ok := f.GetReadSlot()
	require.True(t, ok)
	require.Equal(t, byte(0x23), slot[13])
	f.ReleaseRead()

	_, ok = f.GetReadSlot()
	require.False(t, ok)
}

func TestNonADSBFrameReusesRetainedSlotWithoutConsumingCapacity(t *testing.T) {
	f := fifo.New(1)
	p := New(f, newTestLogger())

	// A discarded DF0 frame should not consume the single FIFO slot.
	feedString(p, "*00ABCDEF0123456789ABCDEF0123;")
	feedString(p, "*8DABCDEF0123456789ABCDEF0199;")

	slot, ok := f.GetReadSlot()
	require.True(t, ok)
	require.Equal(t, byte(0x99), slot[13])
}
