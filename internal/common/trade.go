package common

import (
	"fmt"

	"github.com/google/uuid"
)

// Trade is an immutable record of a single match between an aggressor and a
// resting order. Price is always the resting leg's price (price-improvement
// goes to the aggressor).
type Trade struct {
	ID     uuid.UUID
	Buyer  string // email
	Seller string // email
	Qty    uint64
	Price  uint64
}

func (t Trade) String() string {
	return fmt.Sprintf(
		"Trade{ID: %s, Buyer: %s, Seller: %s, Qty: %d, Price: %d}",
		t.ID, t.Buyer, t.Seller, t.Qty, t.Price,
	)
}
