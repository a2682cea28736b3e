// Package framing implements the ASCII line-protocol parser that turns a
// raw receiver byte stream into binary 112-bit frames written directly into
// FIFO slots. The wire format is the `*<hex>;`-delimited protocol used by
// rtl_adsb-style tools: a frame is bracketed by '*' and ';', with an even
// number of uppercase hex nibbles in between. Bytes outside a frame are
// ignored, so the parser tolerates arbitrary junk without needing a global
// resync.
package framing

import (
	"github.com/sirupsen/logrus"

	"github.com/OJPARKINSON/viz1090/internal/fifo"
)

// extendedSquitterNibbles is 28 hex nibbles (14 bytes = 112 bits).
const extendedSquitterNibbles = 28

// standardSquitterNibbles is 14 hex nibbles (7 bytes = 56 bits).
const standardSquitterNibbles = 14

// overflowNibbles is the point at which an in-progress frame has exceeded
// any legal length and must be abandoned.
const overflowNibbles = 2 * standardSquitterNibbles

// Parser is the byte-at-a-time framing state machine. It is not safe for
// concurrent use; a single transport goroutine owns it.
type Parser struct {
	fifo *fifo.FIFO
	log  *logrus.Logger

	idx  int // -1 = idle, else current nibble count in the in-progress frame
	slot *fifo.Slot
}

// New creates a parser that writes completed extended-squitter frames into f.
func New(f *fifo.FIFO, log *logrus.Logger) *Parser {
	return &Parser{fifo: f, log: log, idx: -1}
}

// Feed processes a single byte from the transport.
func (p *Parser) Feed(b byte) {
	switch b {
	case '*':
		p.startFrame()
		return
	case ';':
		p.endFrame()
		return
	}

	if p.idx == -1 {
		return // junk between frames, tolerated
	}

	nibble, ok := nibbleValue(b)
	if !ok {
		p.log.WithField("byte", b).Warn("framing: bad nibble, dropping frame")
		p.idx = -1
		return
	}

	if p.idx >= overflowNibbles {
		p.log.Warn("framing: frame overflow, dropping frame")
		p.idx = -1
		return
	}

	byteIdx := p.idx / 2
	if p.idx%2 == 0 {
		p.slot[byteIdx] = nibble << 4
	} else {
		p.slot[byteIdx] |= nibble
	}
	p.idx++
}

func (p *Parser) startFrame() {
	if p.idx != -1 {
		// Unexpected restart mid-frame: keep the slot, just reset the cursor.
		p.idx = 0
		return
	}

	if p.slot == nil {
		slot, ok := p.fifo.GetWriteSlot()
		if !ok {
			p.log.Warn("framing: FIFO full, dropping frame start")
			return
		}
		p.slot = slot
	}
	p.idx = 0
}

func (p *Parser) endFrame() {
	if p.idx == -1 {
		return // ';' outside a frame, ignored
	}

	switch p.idx {
	case extendedSquitterNibbles:
		df := (p.slot[0] >> 3) & 0x1F
		if df == 17 || df == 18 || df == 19 {
			p.fifo.CommitWrite()
			p.slot = nil
		}
		// Otherwise: not an ADS-B message, retain the slot for reuse.
	case standardSquitterNibbles:
		// Standard squitter, acknowledged and discarded; retain the slot.
	default:
		p.log.WithField("nibbles", p.idx).Warn("framing: unexpected end of frame")
	}

	p.idx = -1
}

// nibbleValue maps a single hex-digit byte to its 4-bit value. Only
// uppercase 'A'..'F' is accepted; lowercase and anything else is an error.
func nibbleValue(b byte) (byte, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	default:
		return 0, false
	}
}
