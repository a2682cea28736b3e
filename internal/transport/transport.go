// Package transport supplies the byte sources that feed the framing parser.
// A Transport owns nothing about message semantics; it only moves raw bytes
// from a receiver process or network peer into a sink function, reconnecting
// on failure according to the caller's backoff policy.
package transport

import "context"

// Sink receives raw bytes as they arrive off the wire. It is called from the
// transport's own goroutine and must not block for long.
type Sink func(b byte)

// Transport is a byte source that can be started and stopped repeatedly.
// Run blocks until ctx is cancelled or an unrecoverable error occurs.
type Transport interface {
	Run(ctx context.Context, sink Sink) error
}
