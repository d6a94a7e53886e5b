package common

import "fmt"

// UserSnapshot is a by-value copy of a ledger user record. The caller cannot
// mutate ledger state through it.
type UserSnapshot struct {
	Email    string
	Balance  uint64 // quote units
	Holdings uint64 // base units
}

func (u UserSnapshot) String() string {
	return fmt.Sprintf("UserSnapshot{Email: %s, Balance: %d, Holdings: %d}", u.Email, u.Balance, u.Holdings)
}
