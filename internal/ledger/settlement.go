package ledger

import (
	"math"

	"ironbook/internal/common"
)

// saturatingAdd adds b to a, clamping at math.MaxUint64 instead of
// wrapping. Required by spec §6's overflow policy.
func saturatingAdd(a, b uint64) uint64 {
	if a > math.MaxUint64-b {
		return math.MaxUint64
	}
	return a + b
}

// settle applies the buyer-then-seller settlement rule for one trade and
// returns the reconciliation record. See SPEC_FULL.md §1 for the corrected,
// notional-based guard this uses in place of the source's strict
// per-unit-price comparison.
func (l *Ledger) settle(trade common.Trade) ReconciliationRecord {
	rec := ReconciliationRecord{
		Trade:       trade,
		BuyerEmail:  trade.Buyer,
		SellerEmail: trade.Seller,
	}

	notional := trade.Price * trade.Qty

	if buyer, ok := l.users[trade.Buyer]; ok {
		prev := buyer.snapshot()
		settled := buyer.balance >= notional
		if settled {
			buyer.holdings = saturatingAdd(buyer.holdings, trade.Qty)
			buyer.balance -= notional
			buyer.trades = append(buyer.trades, trade)
		}
		rec.PrevBalances = append(rec.PrevBalances, prev)
		rec.CurrBalances = append(rec.CurrBalances, buyer.snapshot())
	}

	if seller, ok := l.users[trade.Seller]; ok {
		prev := seller.snapshot()
		settled := seller.holdings >= trade.Qty
		if settled {
			seller.holdings -= trade.Qty
			seller.balance = saturatingAdd(seller.balance, notional)
			seller.trades = append(seller.trades, trade)
		}
		rec.PrevBalances = append(rec.PrevBalances, prev)
		rec.CurrBalances = append(rec.CurrBalances, seller.snapshot())
	}

	return rec
}
