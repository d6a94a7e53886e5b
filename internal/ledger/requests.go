package ledger

import (
	"golang.org/x/crypto/bcrypt"

	"ironbook/internal/common"
)

// ── Signup ───────────────────────────────────────────────────────────────

type SignupStatus int

const (
	SignupCreated SignupStatus = iota
	SignupAlreadyExists
)

type SignupResult struct {
	Status SignupStatus
}

type signupRequest struct {
	Email      string
	Credential string
	Reply      chan SignupResult
}

func (r signupRequest) Exec(l *Ledger) {
	if _, ok := l.users[r.Email]; ok {
		r.Reply <- SignupResult{Status: SignupAlreadyExists}
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(r.Credential), l.BcryptCost)
	if err != nil {
		// bcrypt only fails on a cost out of range or inputs too long; treat
		// either as a rejected signup rather than poisoning ledger state.
		r.Reply <- SignupResult{Status: SignupAlreadyExists}
		return
	}
	l.users[r.Email] = &user{email: r.Email, credentialHash: hash}
	r.Reply <- SignupResult{Status: SignupCreated}
}

// Signup registers a new user with balance=0, holdings=0.
func (l *Ledger) Signup(email, credential string) SignupResult {
	reply := make(chan SignupResult, 1)
	l.send(signupRequest{Email: email, Credential: credential, Reply: reply})
	return <-reply
}

// ── Signin ───────────────────────────────────────────────────────────────

type SigninStatus int

const (
	Authenticated SigninStatus = iota
	WrongCredential
	UnknownUser
)

type SigninResult struct {
	Status SigninStatus
}

type signinRequest struct {
	Email      string
	Credential string
	Reply      chan SigninResult
}

func (r signinRequest) Exec(l *Ledger) {
	u, ok := l.users[r.Email]
	if !ok {
		r.Reply <- SigninResult{Status: UnknownUser}
		return
	}
	if bcrypt.CompareHashAndPassword(u.credentialHash, []byte(r.Credential)) != nil {
		r.Reply <- SigninResult{Status: WrongCredential}
		return
	}
	r.Reply <- SigninResult{Status: Authenticated}
}

// Signin classifies a credential attempt against a stored hash.
func (l *Ledger) Signin(email, credential string) SigninResult {
	reply := make(chan SigninResult, 1)
	l.send(signinRequest{Email: email, Credential: credential, Reply: reply})
	return <-reply
}

// ── OnRamp ───────────────────────────────────────────────────────────────

type OnRampStatus int

const (
	OnRampApplied OnRampStatus = iota
	OnRampNotFound
)

type OnRampResult struct {
	Status        OnRampStatus
	BalanceAfter  uint64
	HoldingsAfter uint64
}

type onRampRequest struct {
	Email         string
	DeltaBalance  uint64
	DeltaHoldings uint64
	Reply         chan OnRampResult
}

func (r onRampRequest) Exec(l *Ledger) {
	u, ok := l.users[r.Email]
	if !ok {
		r.Reply <- OnRampResult{Status: OnRampNotFound}
		return
	}
	u.balance = saturatingAdd(u.balance, r.DeltaBalance)
	u.holdings = saturatingAdd(u.holdings, r.DeltaHoldings)
	r.Reply <- OnRampResult{Status: OnRampApplied, BalanceAfter: u.balance, HoldingsAfter: u.holdings}
}

// OnRamp credits a user's balance/holdings, saturating at the uint64 max.
func (l *Ledger) OnRamp(email string, deltaBalance, deltaHoldings uint64) OnRampResult {
	reply := make(chan OnRampResult, 1)
	l.send(onRampRequest{Email: email, DeltaBalance: deltaBalance, DeltaHoldings: deltaHoldings, Reply: reply})
	return <-reply
}

// ── CheckUser ────────────────────────────────────────────────────────────

type checkUserRequest struct {
	Email string
	Reply chan bool
}

func (r checkUserRequest) Exec(l *Ledger) {
	_, ok := l.users[r.Email]
	r.Reply <- ok
}

// CheckUser reports whether email has a ledger entry.
func (l *Ledger) CheckUser(email string) bool {
	reply := make(chan bool, 1)
	l.send(checkUserRequest{Email: email, Reply: reply})
	return <-reply
}

// ── GetUser ──────────────────────────────────────────────────────────────

type getUserRequest struct {
	Email string
	Reply chan getUserResult
}

type getUserResult struct {
	User common.UserSnapshot
	Ok   bool
}

func (r getUserRequest) Exec(l *Ledger) {
	u, ok := l.users[r.Email]
	if !ok {
		r.Reply <- getUserResult{}
		return
	}
	r.Reply <- getUserResult{User: u.snapshot(), Ok: true}
}

// GetUser returns a by-value snapshot of a user, if any.
func (l *Ledger) GetUser(email string) (common.UserSnapshot, bool) {
	reply := make(chan getUserResult, 1)
	l.send(getUserRequest{Email: email, Reply: reply})
	result := <-reply
	return result.User, result.Ok
}

// ── TradeHistory (SPEC_FULL §2) ─────────────────────────────────────────

type tradeHistoryRequest struct {
	Email string
	Reply chan []common.Trade
}

func (r tradeHistoryRequest) Exec(l *Ledger) {
	u, ok := l.users[r.Email]
	if !ok {
		r.Reply <- nil
		return
	}
	out := make([]common.Trade, len(u.trades))
	copy(out, u.trades)
	r.Reply <- out
}

// TradeHistory returns a by-value copy of a user's settled trades, oldest
// first. Unknown users get nil.
func (l *Ledger) TradeHistory(email string) []common.Trade {
	reply := make(chan []common.Trade, 1)
	l.send(tradeHistoryRequest{Email: email, Reply: reply})
	return <-reply
}

// ── Reconcile ────────────────────────────────────────────────────────────

// ReconciliationRecord is emitted once per trade, in submission order.
// PrevBalances/CurrBalances contain 0, 1, or 2 entries: one for the buyer
// (if known) pushed first, one for the seller (if known) pushed second.
// Each pair reflects the user's state immediately before and after the
// settlement attempt for that side, whether or not the settlement guard
// passed.
type ReconciliationRecord struct {
	Trade        common.Trade
	BuyerEmail   string
	SellerEmail  string
	PrevBalances []common.UserSnapshot
	CurrBalances []common.UserSnapshot
}

type reconcileRequest struct {
	Trades []common.Trade
	Reply  chan []ReconciliationRecord
}

func (r reconcileRequest) Exec(l *Ledger) {
	records := make([]ReconciliationRecord, 0, len(r.Trades))
	for _, trade := range r.Trades {
		records = append(records, l.settle(trade))
	}
	r.Reply <- records
}

// Reconcile applies the settlement rule to each trade in submission order
// and returns one record per trade. It never fails catastrophically: a
// settlement guard failure is recorded, not propagated as an error.
func (l *Ledger) Reconcile(trades []common.Trade) []ReconciliationRecord {
	reply := make(chan []ReconciliationRecord, 1)
	l.send(reconcileRequest{Trades: trades, Reply: reply})
	return <-reply
}
