package common

import (
	"fmt"

	"github.com/google/uuid"
)

// Order is a resting or in-flight limit/market order. Price == 0 marks a
// market order at submission time; market orders never rest, so a resting
// Order always carries a non-zero Price.
type Order struct {
	ID     uuid.UUID
	UserID string // owning user's email
	Side   Side
	Qty    uint64 // remaining quantity, base units
	Price  uint64 // quote units per base unit; 0 means market
}

func (o Order) String() string {
	return fmt.Sprintf(
		"Order{ID: %s, UserID: %s, Side: %v, Qty: %d, Price: %d}",
		o.ID, o.UserID, o.Side, o.Qty, o.Price,
	)
}

// IsMarket reports whether the order was submitted as a market order.
func (o Order) IsMarket() bool {
	return o.Price == 0
}
