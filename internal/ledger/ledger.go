// Package ledger is the sole owner of the user table: credentials, balance,
// and holdings. It is the only component in the core allowed to mutate a
// User. All access goes through the Mailbox-backed request/reply API in
// requests.go; this file only holds the actor's state and bootstrap.
package ledger

import (
	"context"

	"golang.org/x/crypto/bcrypt"
	tomb "gopkg.in/tomb.v2"

	"ironbook/internal/actor"
	"ironbook/internal/common"
)

// user is the ledger's private, mutable record. CredentialHash is a bcrypt
// hash of the submitted credential; the ledger never stores or compares
// plaintext.
type user struct {
	email          string
	credentialHash []byte
	balance        uint64
	holdings       uint64
	trades         []common.Trade // §2 of SPEC_FULL: per-user trade history
}

func (u *user) snapshot() common.UserSnapshot {
	return common.UserSnapshot{Email: u.email, Balance: u.balance, Holdings: u.holdings}
}

// Ledger owns the user table and runs as a single actor.
type Ledger struct {
	mailbox *actor.Mailbox[*Ledger, request]
	users   map[string]*user

	// BcryptCost configures Signup's hashing cost; exposed for tests that
	// would otherwise pay bcrypt's default cost on every signup.
	BcryptCost int
}

// New constructs a Ledger with the given bounded mailbox capacity. Call
// Start to begin processing.
func New(capacity int) *Ledger {
	return &Ledger{
		mailbox:    actor.NewMailbox[*Ledger, request]("ledger", capacity),
		users:      make(map[string]*user),
		BcryptCost: bcrypt.DefaultCost,
	}
}

// Start launches the ledger's actor loop under a tomb bound to ctx.
func (l *Ledger) Start(ctx context.Context) *tomb.Tomb {
	return actor.Start[*Ledger, request](ctx, l.mailbox, l)
}

// request is the sealed set of messages the ledger actor accepts.
type request interface {
	actor.Request[*Ledger]
}

func (l *Ledger) send(req request) {
	l.mailbox.Send(req)
}
