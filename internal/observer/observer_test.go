package observer

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "observer.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestGetIsAbsentBeforeAnySet(t *testing.T) {
	s := openTestStore(t)

	lat, lon := s.Get()
	require.GreaterOrEqual(t, lat, float32(Absent))
	require.GreaterOrEqual(t, lon, float32(Absent))
}

func TestSetThenGetRoundTrips(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Set(51.5, -0.12))

	lat, lon := s.Get()
	require.InDelta(t, 51.5, lat, 1e-4)
	require.InDelta(t, -0.12, lon, 1e-4)
}

func TestClearRestoresAbsentSentinel(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Set(10, 20))
	require.NoError(t, s.Clear())

	lat, lon := s.Get()
	require.GreaterOrEqual(t, lat, float32(Absent))
	require.GreaterOrEqual(t, lon, float32(Absent))
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "observer.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(48.8566, 2.3522))
	require.NoError(t, s.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	lat, lon := reopened.Get()
	require.InDelta(t, 48.8566, lat, 1e-3)
	require.InDelta(t, 2.3522, lon, 1e-3)
}
