package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"ironbook/internal/common"
)

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l := New(8)
	l.BcryptCost = bcrypt.MinCost
	tomb := l.Start(context.Background())
	t.Cleanup(func() {
		tomb.Kill(nil)
		_ = tomb.Wait()
	})
	return l
}

func TestSignup_CreatesThenRejectsDuplicate(t *testing.T) {
	l := newTestLedger(t)

	first := l.Signup("alice@example.com", "hunter2")
	assert.Equal(t, SignupCreated, first.Status)

	second := l.Signup("alice@example.com", "different")
	assert.Equal(t, SignupAlreadyExists, second.Status)
}

func TestSignin_Classifications(t *testing.T) {
	l := newTestLedger(t)
	require.Equal(t, SignupCreated, l.Signup("alice@example.com", "hunter2").Status)

	assert.Equal(t, Authenticated, l.Signin("alice@example.com", "hunter2").Status)
	assert.Equal(t, WrongCredential, l.Signin("alice@example.com", "wrong").Status)
	assert.Equal(t, UnknownUser, l.Signin("bob@example.com", "anything").Status)
}

func TestOnRamp_CreditsAndSaturates(t *testing.T) {
	l := newTestLedger(t)
	require.Equal(t, SignupCreated, l.Signup("alice@example.com", "hunter2").Status)

	result := l.OnRamp("alice@example.com", 100, 5)
	assert.Equal(t, OnRampApplied, result.Status)
	assert.EqualValues(t, 100, result.BalanceAfter)
	assert.EqualValues(t, 5, result.HoldingsAfter)

	notFound := l.OnRamp("ghost@example.com", 1, 1)
	assert.Equal(t, OnRampNotFound, notFound.Status)

	saturated := l.OnRamp("alice@example.com", ^uint64(0), 0)
	assert.Equal(t, OnRampApplied, saturated.Status)
	assert.EqualValues(t, ^uint64(0), saturated.BalanceAfter)
}

func TestCheckUserAndGetUser(t *testing.T) {
	l := newTestLedger(t)
	require.Equal(t, SignupCreated, l.Signup("alice@example.com", "hunter2").Status)
	l.OnRamp("alice@example.com", 50, 2)

	assert.True(t, l.CheckUser("alice@example.com"))
	assert.False(t, l.CheckUser("ghost@example.com"))

	snap, ok := l.GetUser("alice@example.com")
	require.True(t, ok)
	assert.Equal(t, common.UserSnapshot{Email: "alice@example.com", Balance: 50, Holdings: 2}, snap)

	_, ok = l.GetUser("ghost@example.com")
	assert.False(t, ok)
}

func TestReconcile_SettlesWhenBothSidesCanAfford(t *testing.T) {
	l := newTestLedger(t)
	require.Equal(t, SignupCreated, l.Signup("buyer@example.com", "pw").Status)
	require.Equal(t, SignupCreated, l.Signup("seller@example.com", "pw").Status)
	l.OnRamp("buyer@example.com", 1000, 0)
	l.OnRamp("seller@example.com", 0, 10)

	trade := common.Trade{Buyer: "buyer@example.com", Seller: "seller@example.com", Qty: 4, Price: 10}
	records := l.Reconcile([]common.Trade{trade})
	require.Len(t, records, 1)

	buyer, _ := l.GetUser("buyer@example.com")
	seller, _ := l.GetUser("seller@example.com")
	assert.EqualValues(t, 960, buyer.Balance)
	assert.EqualValues(t, 4, buyer.Holdings)
	assert.EqualValues(t, 6, seller.Holdings)
	assert.EqualValues(t, 40, seller.Balance)

	buyerTrades := l.TradeHistory("buyer@example.com")
	assert.Len(t, buyerTrades, 1)
	sellerTrades := l.TradeHistory("seller@example.com")
	assert.Len(t, sellerTrades, 1)
}

// TestReconcile_NotionalBoundary pins the corrected settlement guard from
// SPEC_FULL.md §1: a buyer whose balance equals the notional exactly
// (balance >= price*qty, not strict >) still settles.
func TestReconcile_NotionalBoundary(t *testing.T) {
	l := newTestLedger(t)
	require.Equal(t, SignupCreated, l.Signup("buyer@example.com", "pw").Status)
	require.Equal(t, SignupCreated, l.Signup("seller@example.com", "pw").Status)
	l.OnRamp("buyer@example.com", 40, 0)
	l.OnRamp("seller@example.com", 0, 10)

	trade := common.Trade{Buyer: "buyer@example.com", Seller: "seller@example.com", Qty: 4, Price: 10}
	l.Reconcile([]common.Trade{trade})

	buyer, _ := l.GetUser("buyer@example.com")
	assert.EqualValues(t, 0, buyer.Balance, "balance exactly equal to notional must settle")
	assert.EqualValues(t, 4, buyer.Holdings)
}

func TestReconcile_InsufficientSideDoesNotSettleThatSideOnly(t *testing.T) {
	l := newTestLedger(t)
	require.Equal(t, SignupCreated, l.Signup("buyer@example.com", "pw").Status)
	require.Equal(t, SignupCreated, l.Signup("seller@example.com", "pw").Status)
	l.OnRamp("buyer@example.com", 39, 0) // one short of the 40 notional
	l.OnRamp("seller@example.com", 0, 10)

	trade := common.Trade{Buyer: "buyer@example.com", Seller: "seller@example.com", Qty: 4, Price: 10}
	records := l.Reconcile([]common.Trade{trade})
	require.Len(t, records, 1)

	buyer, _ := l.GetUser("buyer@example.com")
	seller, _ := l.GetUser("seller@example.com")
	assert.EqualValues(t, 39, buyer.Balance, "buyer balance must be untouched when guard fails")
	assert.EqualValues(t, 0, buyer.Holdings)
	// Seller side still settles independently of the buyer's failure.
	assert.EqualValues(t, 6, seller.Holdings)
	assert.EqualValues(t, 40, seller.Balance)
}

func TestReconcile_UnknownCounterpartyIsSkippedNotFatal(t *testing.T) {
	l := newTestLedger(t)
	require.Equal(t, SignupCreated, l.Signup("seller@example.com", "pw").Status)
	l.OnRamp("seller@example.com", 0, 10)

	trade := common.Trade{Buyer: "ghost@example.com", Seller: "seller@example.com", Qty: 4, Price: 10}
	records := l.Reconcile([]common.Trade{trade})
	require.Len(t, records, 1)
	assert.Len(t, records[0].PrevBalances, 1, "unknown buyer contributes no snapshot entry")

	seller, _ := l.GetUser("seller@example.com")
	assert.EqualValues(t, 6, seller.Holdings)
	assert.EqualValues(t, 40, seller.Balance)
}

func TestTradeHistory_UnknownUserIsNil(t *testing.T) {
	l := newTestLedger(t)
	assert.Nil(t, l.TradeHistory("ghost@example.com"))
}
