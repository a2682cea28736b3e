// Package observer persists a last-known observer position (lat, lon) hint
// across restarts. The viz1090 app restores its map centre from it at
// start-up and stores its current map centre back into it.
package observer

import (
	"encoding/binary"
	"fmt"
	"math"

	bolt "go.etcd.io/bbolt"
)

// Absent is the sentinel latitude/longitude value meaning "no observer
// position has ever been recorded." Any |value| >= Absent is treated as
// absent by Get.
const Absent = 400.0

var bucketName = []byte("observer")

// Store persists a single (lat, lon) hint in a bbolt database, keyed by the
// fixed strings "lat" and "lon".
type Store struct {
	db *bolt.DB
}

// Open opens (creating if necessary) a bbolt database at path and ensures
// its observer bucket exists.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("observer: open %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("observer: init bucket: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the stored observer position, or (Absent, Absent) if none has
// been recorded yet.
func (s *Store) Get() (lat, lon float32) {
	lat, lon = Absent, Absent

	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte("lat")); v != nil {
			lat = decodeFloat32(v)
		}
		if v := b.Get([]byte("lon")); v != nil {
			lon = decodeFloat32(v)
		}
		return nil
	})

	if math.Abs(float64(lat)) >= Absent {
		lat = Absent
	}
	if math.Abs(float64(lon)) >= Absent {
		lon = Absent
	}
	return lat, lon
}

// Set persists a new observer position, overwriting any previous value.
func (s *Store) Set(lat, lon float32) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		if err := b.Put([]byte("lat"), encodeFloat32(lat)); err != nil {
			return err
		}
		return b.Put([]byte("lon"), encodeFloat32(lon))
	})
}

// Clear removes any stored observer position, restoring the absent sentinel.
func (s *Store) Clear() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		if err := b.Delete([]byte("lat")); err != nil {
			return err
		}
		return b.Delete([]byte("lon"))
	})
}

func encodeFloat32(v float32) []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, math.Float32bits(v))
	return buf
}

func decodeFloat32(b []byte) float32 {
	if len(b) != 4 {
		return Absent
	}
	return math.Float32frombits(binary.BigEndian.Uint32(b))
}
