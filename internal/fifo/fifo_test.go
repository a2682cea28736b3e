package fifo

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteReadRoundTrip(t *testing.T) {
	f := New(4)

	slot, ok := f.GetWriteSlot()
	require.True(t, ok)
	slot[0] = 0xAB
	f.CommitWrite()

	read, ok := f.GetReadSlot()
	require.True(t, ok)
	require.Equal(t, byte(0xAB), read[0])
	f.ReleaseRead()

	_, ok = f.GetReadSlot()
	require.False(t, ok)
}

func TestFullRingRejectsWrite(t *testing.T) {
	f := New(2)

	for i := 0; i < 2; i++ {
		slot, ok := f.GetWriteSlot()
		require.True(t, ok)
		slot[0] = byte(i)
		f.CommitWrite()
	}

	_, ok := f.GetWriteSlot()
	require.False(t, ok, "ring should report full at capacity")

	read, ok := f.GetReadSlot()
	require.True(t, ok)
	require.Equal(t, byte(0), read[0])
	f.ReleaseRead()

	// draining one slot must free capacity for exactly one more write.
	_, ok = f.GetWriteSlot()
	require.True(t, ok)
}

func TestConcurrentProducerConsumerPreservesOrder(t *testing.T) {
	f := New(8)
	const n = 10000

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			for {
				slot, ok := f.GetWriteSlot()
				if ok {
					slot[0] = byte(i)
					slot[1] = byte(i >> 8)
					f.CommitWrite()
					break
				}
			}
		}
	}()

	var got []int
	go func() {
		defer wg.Done()
		for len(got) < n {
			slot, ok := f.GetReadSlot()
			if !ok {
				continue
			}
			got = append(got, int(slot[0])|int(slot[1])<<8)
			f.ReleaseRead()
		}
	}()

	wg.Wait()

	for i, v := range got {
		require.Equal(t, i, v)
	}
}
