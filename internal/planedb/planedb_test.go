package planedb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/OJPARKINSON/viz1090/internal/adsb"
)

func TestGetOrCreateReturnsSameRecordOnSecondCall(t *testing.T) {
	db := New(newTestLogger())
	now := time.Now()

	p1 := db.GetOrCreate(0xABCDEF, now)
	p2 := db.GetOrCreate(0xABCDEF, now)

	require.Same(t, p1, p2)
	require.Equal(t, 1, db.Len())
}

func TestForEachVisitsEveryTrackedPlane(t *testing.T) {
	db := New(newTestLogger())
	now := time.Now()

	db.GetOrCreate(1, now)
	db.GetOrCreate(2, now)
	db.GetOrCreate(3, now)

	seen := map[uint32]bool{}
	db.ForEach(func(p *adsb.Plane) { seen[p.ICAO] = true })

	require.Len(t, seen, 3)
}

func TestOnEvictionFiresWithEvictedICAOAfterTTL(t *testing.T) {
	db := NewWithTTL(newTestLogger(), 50*time.Millisecond, 10*time.Millisecond)
	evicted := make(chan uint32, 1)
	db.OnEviction(func(icao uint32) { evicted <- icao })

	db.GetOrCreate(0xABCDEF, time.Now())
	require.Equal(t, 1, db.Len())

	select {
	case icao := <-evicted:
		require.Equal(t, uint32(0xABCDEF), icao)
	case <-time.After(2 * time.Second):
		t.Fatal("plane was not evicted within the expected window")
	}

	require.Eventually(t, func() bool { return db.Len() == 0 }, time.Second, 10*time.Millisecond)
}
