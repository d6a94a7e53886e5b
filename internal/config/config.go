// Package config holds the handful of tunables the actors need at
// construction time. It deliberately mirrors the teacher's style of small
// constructors plus local const defaults (see internal/server.go's
// defaultNWorkers/defaultConnTimeout) rather than reaching for a flags or
// env-var framework — there's nothing here that needs one.
package config

import "golang.org/x/crypto/bcrypt"

const (
	// DefaultMailboxCapacity is the reference bounded-queue size (spec §5).
	DefaultMailboxCapacity = 32
)

// Config holds the engine's tunable knobs. Zero value is not valid; use New.
type Config struct {
	LedgerMailboxCapacity int
	BookMailboxCapacity   int
	BcryptCost            int
}

// Option mutates a Config during New.
type Option func(*Config)

// WithMailboxCapacity overrides both actors' bounded queue capacity.
func WithMailboxCapacity(n int) Option {
	return func(c *Config) {
		c.LedgerMailboxCapacity = n
		c.BookMailboxCapacity = n
	}
}

// WithBcryptCost overrides the ledger's credential hashing cost. Tests
// should pass bcrypt.MinCost to keep Signup fast.
func WithBcryptCost(cost int) Option {
	return func(c *Config) {
		c.BcryptCost = cost
	}
}

// New builds a Config with sane defaults, applying opts in order.
func New(opts ...Option) Config {
	c := Config{
		LedgerMailboxCapacity: DefaultMailboxCapacity,
		BookMailboxCapacity:   DefaultMailboxCapacity,
		BcryptCost:            bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
