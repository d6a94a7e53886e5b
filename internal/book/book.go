package book

import (
	"context"

	tomb "gopkg.in/tomb.v2"

	"ironbook/internal/actor"
	"ironbook/internal/common"
	"ironbook/internal/ledger"
)

// Book is the sole owner of market_id -> MarketBook and every order inside
// it. It admits and reconciles orders through a Ledger, calling it
// synchronously from within its own request handling (spec §5: the book
// actor does not process other requests while awaiting the ledger).
type Book struct {
	mailbox *actor.Mailbox[*Book, request]
	books   map[common.MarketID]*MarketBook
	ledger  *ledger.Ledger
}

// New constructs a Book actor bound to ledger for admission/reconciliation.
func New(capacity int, ledger *ledger.Ledger) *Book {
	return &Book{
		mailbox: actor.NewMailbox[*Book, request]("book", capacity),
		books:   make(map[common.MarketID]*MarketBook),
		ledger:  ledger,
	}
}

// Start launches the book's actor loop under a tomb bound to ctx.
func (bk *Book) Start(ctx context.Context) *tomb.Tomb {
	return actor.Start[*Book, request](ctx, bk.mailbox, bk)
}

type request interface {
	actor.Request[*Book]
}

func (bk *Book) send(req request) {
	bk.mailbox.Send(req)
}
