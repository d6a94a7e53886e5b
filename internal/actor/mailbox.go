// Package actor generalizes fenrir's worker-pool-plus-tomb pattern
// (see internal/worker.go in the teacher repo) into a single-consumer
// mailbox: a bounded channel of requests, drained sequentially by one
// goroutine supervised by a tomb.Tomb. Ledger and Book each embed one.
package actor

import (
	"context"

	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"
)

// DefaultCapacity is the reference bounded-queue size from the spec.
const DefaultCapacity = 32

// Request is a unit of work a Mailbox hands to its owner, one at a time and
// strictly in arrival order. Exec must not block on anything other than a
// synchronous sub-call the owner itself makes (e.g. the Book actor calling
// the Ledger actor); it must fully complete, including sending any reply,
// before Exec returns.
type Request[Owner any] interface {
	Exec(owner Owner)
}

// Mailbox is a bounded, multi-producer, single-consumer request queue.
type Mailbox[Owner any, Req Request[Owner]] struct {
	requests chan Req
	name     string
}

// NewMailbox creates a mailbox with the given bounded capacity. name is
// used only for log messages.
func NewMailbox[Owner any, Req Request[Owner]](name string, capacity int) *Mailbox[Owner, Req] {
	return &Mailbox[Owner, Req]{
		requests: make(chan Req, capacity),
		name:     name,
	}
}

// Send enqueues a request, blocking if the mailbox is full. Senders that
// give up (e.g. a dropped reply channel) are the caller's concern; the
// mailbox itself never drops a send.
func (m *Mailbox[Owner, Req]) Send(req Req) {
	m.requests <- req
}

// Run drains the mailbox against owner until the tomb starts dying. It is
// meant to be the sole body of the owner's single goroutine — processing is
// strictly sequential, satisfying the no-re-entrancy requirement on owner's
// state.
func (m *Mailbox[Owner, Req]) Run(t *tomb.Tomb, owner Owner) error {
	log.Info().Str("actor", m.name).Msg("actor starting")
	for {
		select {
		case <-t.Dying():
			log.Info().Str("actor", m.name).Msg("actor draining on shutdown")
			return nil
		case req := <-m.requests:
			req.Exec(owner)
		}
	}
}

// Start launches Run under a fresh tomb bound to ctx and returns it so the
// caller can Kill/Wait for an orderly shutdown. Closing ctx causes the
// mailbox to stop accepting new work on its next drain; any request already
// in flight is allowed to finish.
func Start[Owner any, Req Request[Owner]](ctx context.Context, m *Mailbox[Owner, Req], owner Owner) *tomb.Tomb {
	t := new(tomb.Tomb)
	t.Go(func() error {
		return m.Run(t, owner)
	})
	go func() {
		select {
		case <-ctx.Done():
			t.Kill(nil)
		case <-t.Dying():
		}
	}()
	return t
}
