// Package engine wires the ledger and book actors together and owns their
// lifecycle. Adapted from fenrir's internal/engine/engine.go (which wired a
// map of per-asset order books) into a two-actor composition root, with the
// per-market book map now owned inside internal/book itself.
package engine

import (
	"context"

	tomb "gopkg.in/tomb.v2"

	"ironbook/internal/book"
	"ironbook/internal/config"
	"ironbook/internal/ledger"
)

// Engine is the dependency-ordered pair of actors described in spec §2:
// matching algorithm -> Book actor -> Ledger actor, with Ledger having no
// inbound dependency on Book.
type Engine struct {
	Ledger *ledger.Ledger
	Book   *book.Book

	ledgerTomb *tomb.Tomb
	bookTomb   *tomb.Tomb
}

// New constructs an Engine with its actors wired but not yet running.
func New(cfg config.Config) *Engine {
	l := ledger.New(cfg.LedgerMailboxCapacity)
	l.BcryptCost = cfg.BcryptCost
	b := book.New(cfg.BookMailboxCapacity, l)
	return &Engine{Ledger: l, Book: b}
}

// Start boots both actors under ctx. The ledger is started first: it has no
// dependency on the book, and the book's first request may immediately call
// into it.
func (e *Engine) Start(ctx context.Context) {
	e.ledgerTomb = e.Ledger.Start(ctx)
	e.bookTomb = e.Book.Start(ctx)
}

// Shutdown signals both actors to drain and blocks until they exit. No
// in-flight reconcile is guaranteed to complete (spec §5).
func (e *Engine) Shutdown() error {
	e.bookTomb.Kill(nil)
	e.ledgerTomb.Kill(nil)
	bookErr := e.bookTomb.Wait()
	ledgerErr := e.ledgerTomb.Wait()
	if bookErr != nil {
		return bookErr
	}
	return ledgerErr
}
