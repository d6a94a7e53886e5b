// Command ironbook boots the ledger and book actors and walks through the
// spec's literal "simple cross" scenario against them, logging each step.
// It is a demo entrypoint, not a transport: wiring a real client-facing
// protocol onto Engine belongs outside this core.
package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"ironbook/internal/book"
	"ironbook/internal/common"
	"ironbook/internal/config"
	"ironbook/internal/engine"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
	)
	defer stop()

	eng := engine.New(config.New())
	eng.Start(ctx)
	defer func() {
		if err := eng.Shutdown(); err != nil {
			log.Error().Err(err).Msg("error during shutdown")
		}
	}()

	runSimpleCrossDemo(eng)

	<-ctx.Done()
}

// runSimpleCrossDemo reproduces spec scenario 1: A and B each signup and
// onramp, B rests an ask, A's matching bid fills it completely.
func runSimpleCrossDemo(eng *engine.Engine) {
	const marketID common.MarketID = 1

	eng.Ledger.Signup("a@example.com", "hunter2")
	eng.Ledger.Signup("b@example.com", "hunter3")
	eng.Ledger.OnRamp("a@example.com", 10_000, 0)
	eng.Ledger.OnRamp("b@example.com", 0, 100)
	eng.Book.CreateMarket(marketID)

	restResult := eng.Book.NewLimitOrder(marketID, "b@example.com", common.Ask, 10, 100)
	log.Info().Str("status", restResult.Status).Msg("b rests an ask")

	fillResult := eng.Book.NewLimitOrder(marketID, "a@example.com", common.Bid, 10, 100)
	log.Info().
		Str("status", fillResult.Status).
		Int("fills", len(fillResult.Fills)).
		Msg("a crosses the book")

	snapshot := eng.Book.GetBook(marketID)
	logBookSnapshot(snapshot)
}

func logBookSnapshot(snapshot book.BookSnapshot) {
	log.Info().
		Int("bidLevels", len(snapshot.Bids)).
		Int("askLevels", len(snapshot.Asks)).
		Msg("book snapshot")
}
