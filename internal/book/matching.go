package book

import (
	"github.com/google/uuid"

	"ironbook/internal/common"
)

// Match runs price-time-priority matching for an incoming order against the
// opposite side of b, mutating resting orders and the book in place.
//
// Grounded on fenrir's internal/engine/orderbook.go (Match/handleLimit/
// handleMarket), generalized from that file's always-sweep-whole-book
// matching loop to the spec's per-level price gate (so a limit order that
// doesn't cross stops walking the opposite side instead of continuing past
// it), and from float64 prices to uint64.
//
// order.Price == 0 denotes a market order: the price gate is skipped, and
// no residual is ever returned for it (callers must not rest an order with
// Price == 0). For a limit order, any unfilled quantity is returned as a
// residual with the original id, side, and price — ready to be rested by
// the caller.
func Match(b *MarketBook, order common.Order) (trades []common.Trade, residual *common.Order) {
	opp := b.levelsFor(opposite(order.Side))
	remaining := order.Qty

	for remaining > 0 {
		level, ok := opp.MinMut()
		if !ok {
			break
		}

		if !order.IsMarket() && !crosses(order.Side, order.Price, level.Price) {
			break
		}

		for remaining > 0 && len(level.Orders) > 0 {
			resting := level.Orders[0]

			fillQty := min(remaining, resting.Qty)
			trade := common.Trade{
				ID:    uuid.New(),
				Qty:   fillQty,
				Price: level.Price, // resting side's price: price improvement to the aggressor
			}
			if order.Side == common.Bid {
				trade.Buyer, trade.Seller = order.UserID, resting.UserID
			} else {
				trade.Buyer, trade.Seller = resting.UserID, order.UserID
			}
			trades = append(trades, trade)

			remaining -= fillQty
			resting.Qty -= fillQty

			if resting.Qty == 0 {
				delete(b.index, resting.ID)
				level.Orders = level.Orders[1:]
			}
			// Else resting stays at the head of the queue, partially filled.
		}

		if len(level.Orders) == 0 {
			opp.Delete(level)
		}
	}

	if remaining > 0 && !order.IsMarket() {
		residual = &common.Order{
			ID:     order.ID,
			UserID: order.UserID,
			Side:   order.Side,
			Qty:    remaining,
			Price:  order.Price,
		}
	}
	return trades, residual
}

func opposite(s common.Side) common.Side {
	if s == common.Bid {
		return common.Ask
	}
	return common.Bid
}

// crosses reports whether a level at restingPrice is still crossable for an
// incoming order at aggressorPrice on side s (spec §4.3 step 1's price
// gate). Bid stops once restingPrice > aggressorPrice; Ask stops once
// restingPrice < aggressorPrice.
func crosses(s common.Side, aggressorPrice, restingPrice uint64) bool {
	if s == common.Bid {
		return restingPrice <= aggressorPrice
	}
	return restingPrice >= aggressorPrice
}
