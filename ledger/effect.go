package ledger

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Account kinds an effect can target.
const (
	AccountUser  = "user"
	AccountStore = "store"
)

var (
	ErrNoTarget   = errors.New("effect needs exactly one user or store target")
	ErrBadAmount  = errors.New("effect amount must be positive")
	ErrBadAccount = errors.New("unknown account type")
)

// Effect is a not-yet-applied wallet instruction: which account, which
// direction, how much. The state machine returns these; Apply persists
// them. Nothing about an effect lives on the request context.
type Effect struct {
	AccountType string
	AccountID   string
	IsUp        bool
	Code        string
	Amount      decimal.Decimal
}

// NewEffect validates the target and amount up front so Apply never
// sees a malformed instruction.
func NewEffect(accountType, accountID string, isUp bool, code string, amount decimal.Decimal) (Effect, error) {
	if accountType != AccountUser && accountType != AccountStore {
		return Effect{}, ErrBadAccount
	}
	if accountID == "" {
		return Effect{}, ErrNoTarget
	}
	if !amount.IsPositive() {
		return Effect{}, ErrBadAmount
	}
	return Effect{
		AccountType: accountType,
		AccountID:   accountID,
		IsUp:        isUp,
		Code:        code,
		Amount:      amount,
	}, nil
}

// SignedAmount is the delta applied to the wallet: positive for a
// credit, negative for a debit.
func (e Effect) SignedAmount() decimal.Decimal {
	if e.IsUp {
		return e.Amount
	}
	return e.Amount.Neg()
}
