package adsb

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/OJPARKINSON/viz1090/internal/crc24"
)

// Accept applies the downlink-format/control-field gate: df==17 (any cf),
// df==18 with (cf&6)==0, or df==19 with cf==0. Everything else is rejected
// silently, matching a receiver that only cares about ADS-B extended
// squitters.
func Accept(frame [14]byte) bool {
	df := (frame[0] >> 3) & 0x1F
	cf := frame[0] & 0x07

	switch {
	case df == 17:
		return true
	case df == 18:
		return cf&6 == 0
	case df == 19:
		return cf == 0
	default:
		return false
	}
}

// ICAO extracts the 24-bit big-endian ICAO address from bytes 1..3.
func ICAO(frame [14]byte) uint32 {
	return uint32(frame[1])<<16 | uint32(frame[2])<<8 | uint32(frame[3])
}

// CRCValid reports whether frame passes the CRC-24 accept gate.
func CRCValid(frame [14]byte) bool {
	return crc24.Check(frame)
}

// Decode updates LastSeenTime and decodes the 56-bit ME field into p. The
// caller is responsible for having already applied Accept and CRCValid and
// for only calling Decode on a plane record that is allowed to exist (i.e.
// the frame has already passed both gates) — Decode itself does not
// re-check them, so that a plane is never created in the database for a
// frame that fails either gate.
func Decode(p *Plane, frame [14]byte, now time.Time, log *logrus.Logger) {
	p.LastSeenTime = now
	p.Messages++

	me := frame[4:11]
	typeCode := (me[0] >> 3) & 0x1F

	switch {
	case typeCode >= 1 && typeCode <= 4:
		decodeIdentification(p, me)
	case typeCode >= 5 && typeCode <= 8:
		// Surface position: out of scope.
	case typeCode >= 9 && typeCode <= 18:
		decodeAirbornePosition(p, me, now)
		decodeAltitude(p, me)
	case typeCode == 19:
		decodeVelocity(p, me)
	case typeCode >= 20 && typeCode <= 22:
		log.WithField("icao", p.ICAO).Debug("adsb: airborne position with GNSS altitude ignored")
	default:
		// 0 or >22: ignored.
	}
}

// Dispatch is the single entry point for a 14-byte frame drained from the
// FIFO: it applies the DF/CF gate and the CRC gate, and on acceptance calls
// Decode. Returns false if the frame was rejected by either gate, in which
// case p is left untouched. Suitable when the caller already owns a plane
// record (e.g. tests); planedb's manager instead gates first and only
// creates a plane record after both gates pass.
func Dispatch(p *Plane, frame [14]byte, now time.Time, log *logrus.Logger) bool {
	if !Accept(frame) {
		return false
	}
	if !CRCValid(frame) {
		return false
	}

	Decode(p, frame, now, log)
	return true
}
