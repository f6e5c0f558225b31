package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEffectValidation(t *testing.T) {
	amount := decimal.RequireFromString("10")

	_, err := NewEffect("wallet", "u1", true, "REFUND", amount)
	assert.ErrorIs(t, err, ErrBadAccount)

	_, err = NewEffect(AccountUser, "", true, "REFUND", amount)
	assert.ErrorIs(t, err, ErrNoTarget)

	_, err = NewEffect(AccountUser, "u1", true, "REFUND", decimal.Zero)
	assert.ErrorIs(t, err, ErrBadAmount)

	_, err = NewEffect(AccountStore, "s1", false, "RETURN", decimal.RequireFromString("-5"))
	assert.ErrorIs(t, err, ErrBadAmount)

	e, err := NewEffect(AccountStore, "s1", false, "RETURN", amount)
	require.NoError(t, err)
	assert.Equal(t, "s1", e.AccountID)
	assert.False(t, e.IsUp)
}

func TestSignedAmount(t *testing.T) {
	amount := decimal.RequireFromString("42.50")

	credit, err := NewEffect(AccountUser, "u1", true, "REFUND", amount)
	require.NoError(t, err)
	assert.Equal(t, "42.5", credit.SignedAmount().String())

	debit, err := NewEffect(AccountStore, "s1", false, "RETURN", amount)
	require.NoError(t, err)
	assert.Equal(t, "-42.5", debit.SignedAmount().String())
}

// Applying the same effect twice moves the wallet twice. There is no
// idempotency key on an effect, so every application counts.
func TestEffectApplicationIsNotDeduplicated(t *testing.T) {
	amount := decimal.RequireFromString("10")
	e, err := NewEffect(AccountUser, "u1", true, "REFUND", amount)
	require.NoError(t, err)

	balance := decimal.Zero
	balance = balance.Add(e.SignedAmount())
	balance = balance.Add(e.SignedAmount())

	assert.Equal(t, "20", balance.String())
}
