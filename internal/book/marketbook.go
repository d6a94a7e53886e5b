// Package book is the sole owner of the per-market order books. It holds
// the book actor (book.go), the ordered price-level structure
// (marketbook.go), and the pure matching algorithm (matching.go).
package book

import (
	"github.com/google/uuid"
	"github.com/tidwall/btree"

	"ironbook/internal/common"
)

// PriceLevel is a FIFO queue of resting orders at one price. Grounded on
// fenrir's internal/engine/orderbook.go PriceLevel, generalized from
// float64 to the spec's uint64 prices.
type PriceLevel struct {
	Price  uint64
	Orders []*common.Order
}

// pushBack appends a resting order to the level.
func (lvl *PriceLevel) pushBack(o *common.Order) {
	lvl.Orders = append(lvl.Orders, o)
}

// PriceLevels is an ordered price -> level map, iterated best-first by its
// construction-time comparator (see newBids/newAsks).
type PriceLevels = btree.BTreeG[*PriceLevel]

// MarketBook is one market's bid and ask sides plus a cancel index.
//
// Invariants (spec §3): every level's Orders is non-empty; no order appears
// on both sides; after matching, bids and asks never cross.
type MarketBook struct {
	bids *PriceLevels // best-first = highest price first
	asks *PriceLevels // best-first = lowest price first

	// index lets CancelOrder find an order's side/price in O(1) instead of
	// scanning every level.
	index map[uuid.UUID]location
}

type location struct {
	side  common.Side
	price uint64
}

func newBids() *PriceLevels {
	return btree.NewBTreeG(func(a, b *PriceLevel) bool { return a.Price > b.Price })
}

func newAsks() *PriceLevels {
	return btree.NewBTreeG(func(a, b *PriceLevel) bool { return a.Price < b.Price })
}

// NewMarketBook returns an empty book for one market.
func NewMarketBook() *MarketBook {
	return &MarketBook{
		bids:  newBids(),
		asks:  newAsks(),
		index: make(map[uuid.UUID]location),
	}
}

func (b *MarketBook) levelsFor(side common.Side) *PriceLevels {
	if side == common.Bid {
		return b.bids
	}
	return b.asks
}

// rest inserts a (possibly partially filled) order onto its side at its
// price, creating the level if needed. It is the only way an order enters
// the book's index.
func (b *MarketBook) rest(o *common.Order) {
	levels := b.levelsFor(o.Side)
	level, ok := levels.GetMut(&PriceLevel{Price: o.Price})
	if !ok {
		level = &PriceLevel{Price: o.Price}
		levels.Set(level)
	}
	level.pushBack(o)
	b.index[o.ID] = location{side: o.Side, price: o.Price}
}

// Cancel removes an order by id from the given side. Returns false if no
// such order rests there.
func (b *MarketBook) Cancel(side common.Side, id uuid.UUID) bool {
	loc, ok := b.index[id]
	if !ok || loc.side != side {
		return false
	}
	levels := b.levelsFor(side)
	level, ok := levels.GetMut(&PriceLevel{Price: loc.price})
	if !ok {
		return false
	}
	for i, o := range level.Orders {
		if o.ID == id {
			level.Orders = append(level.Orders[:i], level.Orders[i+1:]...)
			delete(b.index, id)
			if len(level.Orders) == 0 {
				levels.Delete(level)
			}
			return true
		}
	}
	return false
}

// PriceLevelSnapshot is a by-value copy of one price level.
type PriceLevelSnapshot struct {
	Price  uint64
	Orders []common.Order
}

// Snapshot returns by-value copies of both sides, best-first.
func (b *MarketBook) Snapshot() (bids, asks []PriceLevelSnapshot) {
	copySide := func(levels *PriceLevels) []PriceLevelSnapshot {
		items := levels.Items()
		out := make([]PriceLevelSnapshot, 0, len(items))
		for _, level := range items {
			orders := make([]common.Order, len(level.Orders))
			for i, o := range level.Orders {
				orders[i] = *o
			}
			out = append(out, PriceLevelSnapshot{Price: level.Price, Orders: orders})
		}
		return out
	}
	return copySide(b.bids), copySide(b.asks)
}
