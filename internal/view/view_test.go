package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/OJPARKINSON/viz1090/internal/adsb"
)

type fakeSource struct {
	msgCount int64
	planes   []*adsb.Plane
}

func (f *fakeSource) Len() int                            { return len(f.planes) }
func (f *fakeSource) TotalMessages() int64                { return f.msgCount }
func (f *fakeSource) ForEach(fn func(p *adsb.Plane)) {
	for _, p := range f.planes {
		fn(p)
	}
}

func TestClassifyFreshWhenPositionRecent(t *testing.T) {
	now := time.Now()
	p := &adsb.Plane{PosValid: true, PosTime: now.Add(-2 * time.Second)}
	require.Equal(t, Fresh, classify(p, now))
}

func TestClassifyRecentlySeenWhenOnlyMessageRecent(t *testing.T) {
	now := time.Now()
	p := &adsb.Plane{LastSeenTime: now.Add(-10 * time.Second)}
	require.Equal(t, RecentlySeen, classify(p, now))
}

func TestClassifyStaleOtherwise(t *testing.T) {
	now := time.Now()
	p := &adsb.Plane{LastSeenTime: now.Add(-20 * time.Second)}
	require.Equal(t, Stale, classify(p, now))
}

func TestTakeProducesOneViewPerPlane(t *testing.T) {
	now := time.Now()
	src := &fakeSource{
		msgCount: 42,
		planes: []*adsb.Plane{
			{ICAO: 1, LastSeenTime: now},
			{ICAO: 2, LastSeenTime: now},
		},
	}

	snap := Take(src, now)
	require.Equal(t, int64(42), snap.MsgCount)
	require.Equal(t, 2, snap.PlaneCount)
	require.Len(t, snap.Planes, 2)
}
