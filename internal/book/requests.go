package book

import (
	"math"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"ironbook/internal/common"
)

// ── CreateMarket ─────────────────────────────────────────────────────────

type CreateMarketStatus int

const (
	MarketCreated CreateMarketStatus = iota
	MarketAlreadyExists
)

type CreateMarketResult struct {
	Status    CreateMarketStatus
	MarketIDs []common.MarketID
}

type createMarketRequest struct {
	MarketID common.MarketID
	Reply    chan CreateMarketResult
}

func (r createMarketRequest) Exec(bk *Book) {
	if _, ok := bk.books[r.MarketID]; ok {
		r.Reply <- CreateMarketResult{Status: MarketAlreadyExists, MarketIDs: bk.marketIDs()}
		return
	}
	bk.books[r.MarketID] = NewMarketBook()
	r.Reply <- CreateMarketResult{Status: MarketCreated, MarketIDs: bk.marketIDs()}
}

func (bk *Book) marketIDs() []common.MarketID {
	ids := make([]common.MarketID, 0, len(bk.books))
	for id := range bk.books {
		ids = append(ids, id)
	}
	return ids
}

// CreateMarket creates a new, empty market book.
func (bk *Book) CreateMarket(marketID common.MarketID) CreateMarketResult {
	reply := make(chan CreateMarketResult, 1)
	bk.send(createMarketRequest{MarketID: marketID, Reply: reply})
	return <-reply
}

// ── ListMarkets ──────────────────────────────────────────────────────────

type listMarketsRequest struct {
	Reply chan []common.MarketID
}

func (r listMarketsRequest) Exec(bk *Book) {
	r.Reply <- bk.marketIDs()
}

// ListMarkets returns every known market id.
func (bk *Book) ListMarkets() []common.MarketID {
	reply := make(chan []common.MarketID, 1)
	bk.send(listMarketsRequest{Reply: reply})
	return <-reply
}

// ── Order submission results ────────────────────────────────────────────

const (
	StatusMarketNotFound      = "Market does not exist"
	StatusUnknownUser         = "Unknown user"
	StatusInsufficientBalance = "Insufficient balance"
	StatusInsufficientHolding = "Insufficient holdings"
	StatusNotionalOverflow    = "Order notional overflows"
	StatusFilled              = "Filled"
	StatusResting             = "Resting"
	StatusOrderNotFound       = "Order not found"
	StatusCanceled            = "Order canceled"
)

type OrderResult struct {
	Status       string
	Fills        []common.Trade
	RemainingQty uint64
}

// ── NewLimitOrder ────────────────────────────────────────────────────────

type newLimitOrderRequest struct {
	MarketID common.MarketID
	UserID   string
	Side     common.Side
	Qty      uint64
	Price    uint64
	Reply    chan OrderResult
}

func (r newLimitOrderRequest) Exec(bk *Book) {
	mb, ok := bk.books[r.MarketID]
	if !ok {
		r.Reply <- OrderResult{Status: StatusMarketNotFound}
		return
	}

	snapshot, ok := bk.ledger.GetUser(r.UserID)
	if !ok {
		r.Reply <- OrderResult{Status: StatusUnknownUser}
		return
	}

	if status, ok := admit(r.Side, r.Qty, r.Price, snapshot); !ok {
		r.Reply <- OrderResult{Status: status}
		return
	}

	order := common.Order{ID: uuid.New(), UserID: r.UserID, Side: r.Side, Qty: r.Qty, Price: r.Price}
	trades, residual := Match(mb, order)

	bk.ledger.Reconcile(trades)

	if residual != nil {
		mb.rest(residual)
		r.Reply <- OrderResult{Status: StatusResting, Fills: trades, RemainingQty: residual.Qty}
		return
	}
	r.Reply <- OrderResult{Status: StatusFilled, Fills: trades}
}

// admit applies the pre-match balance/holdings check from spec §4.2 step 3,
// rejecting on price*qty overflow rather than letting it wrap.
func admit(side common.Side, qty, price uint64, user common.UserSnapshot) (status string, ok bool) {
	if side == common.Bid {
		if price != 0 && qty > math.MaxUint64/price {
			return StatusNotionalOverflow, false
		}
		if price*qty > user.Balance {
			return StatusInsufficientBalance, false
		}
		return "", true
	}
	if qty > user.Holdings {
		return StatusInsufficientHolding, false
	}
	return "", true
}

// NewLimitOrder submits a limit order: admits against the ledger, matches,
// reconciles fills, and rests any residual.
func (bk *Book) NewLimitOrder(marketID common.MarketID, userID string, side common.Side, qty, price uint64) OrderResult {
	reply := make(chan OrderResult, 1)
	bk.send(newLimitOrderRequest{MarketID: marketID, UserID: userID, Side: side, Qty: qty, Price: price, Reply: reply})
	return <-reply
}

// ── NewMarketOrder ───────────────────────────────────────────────────────

type newMarketOrderRequest struct {
	MarketID common.MarketID
	UserID   string
	Side     common.Side
	Qty      uint64
	Reply    chan OrderResult
}

func (r newMarketOrderRequest) Exec(bk *Book) {
	mb, ok := bk.books[r.MarketID]
	if !ok {
		r.Reply <- OrderResult{Status: StatusMarketNotFound}
		return
	}
	if _, ok := bk.ledger.GetUser(r.UserID); !ok {
		r.Reply <- OrderResult{Status: StatusUnknownUser}
		return
	}

	order := common.Order{ID: uuid.New(), UserID: r.UserID, Side: r.Side, Qty: r.Qty, Price: 0}
	trades, residual := Match(mb, order)
	if residual != nil {
		// Matching never returns a residual for a market order (Price==0);
		// guard anyway so a future matching change can't silently start
		// resting market orders.
		log.Error().Str("market", "order").Msg("market order unexpectedly produced a residual; discarding")
	}

	bk.ledger.Reconcile(trades)
	r.Reply <- OrderResult{Status: StatusFilled, Fills: trades}
}

// NewMarketOrder submits a market order: no price admission check, and any
// unfilled quantity is discarded rather than rested.
func (bk *Book) NewMarketOrder(marketID common.MarketID, userID string, side common.Side, qty uint64) OrderResult {
	reply := make(chan OrderResult, 1)
	bk.send(newMarketOrderRequest{MarketID: marketID, UserID: userID, Side: side, Qty: qty, Reply: reply})
	return <-reply
}

// ── CancelOrder ──────────────────────────────────────────────────────────

type CancelResult struct {
	Canceled bool
	Status   string
}

type cancelOrderRequest struct {
	MarketID common.MarketID
	Side     common.Side
	OrderID  uuid.UUID
	Reply    chan CancelResult
}

func (r cancelOrderRequest) Exec(bk *Book) {
	mb, ok := bk.books[r.MarketID]
	if !ok {
		r.Reply <- CancelResult{Status: StatusMarketNotFound}
		return
	}
	if mb.Cancel(r.Side, r.OrderID) {
		r.Reply <- CancelResult{Canceled: true, Status: StatusCanceled}
		return
	}
	r.Reply <- CancelResult{Status: StatusOrderNotFound}
}

// CancelOrder removes a resting order by id from the given side.
func (bk *Book) CancelOrder(marketID common.MarketID, side common.Side, orderID uuid.UUID) CancelResult {
	reply := make(chan CancelResult, 1)
	bk.send(cancelOrderRequest{MarketID: marketID, Side: side, OrderID: orderID, Reply: reply})
	return <-reply
}

// ── GetBook ──────────────────────────────────────────────────────────────

type BookSnapshot struct {
	Bids []PriceLevelSnapshot
	Asks []PriceLevelSnapshot
	Ok   bool
}

type getBookRequest struct {
	MarketID common.MarketID
	Reply    chan BookSnapshot
}

func (r getBookRequest) Exec(bk *Book) {
	mb, ok := bk.books[r.MarketID]
	if !ok {
		r.Reply <- BookSnapshot{}
		return
	}
	bids, asks := mb.Snapshot()
	r.Reply <- BookSnapshot{Bids: bids, Asks: asks, Ok: true}
}

// GetBook returns a by-value snapshot of a market's bids and asks.
func (bk *Book) GetBook(marketID common.MarketID) BookSnapshot {
	reply := make(chan BookSnapshot, 1)
	bk.send(getBookRequest{MarketID: marketID, Reply: reply})
	return <-reply
}
