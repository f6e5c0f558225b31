package orders

import (
	"testing"
	"time"

	"vendora/ledger"
	"vendora/models"
	"vendora/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckStoreTransitionForbiddenEdges(t *testing.T) {
	cases := []struct {
		from, to string
	}{
		{models.OrderPending, models.OrderShipped},
		{models.OrderPending, models.OrderDelivered},
		{models.OrderProcessing, models.OrderPending},
		{models.OrderProcessing, models.OrderDelivered},
		{models.OrderShipped, models.OrderPending},
		{models.OrderShipped, models.OrderProcessing},
		{models.OrderDelivered, models.OrderPending},
		{models.OrderDelivered, models.OrderProcessing},
		{models.OrderDelivered, models.OrderShipped},
		{models.OrderDelivered, models.OrderCancelled},
		{models.OrderCancelled, models.OrderProcessing},
		{models.OrderReturned, models.OrderPending},
	}
	for _, tc := range cases {
		err := CheckStoreTransition(tc.from, tc.to)
		assert.Error(t, err, "%s -> %s should be rejected", tc.from, tc.to)
	}
}

func TestCheckStoreTransitionAllowedEdges(t *testing.T) {
	cases := []struct {
		from, to string
	}{
		{models.OrderPending, models.OrderProcessing},
		{models.OrderPending, models.OrderCancelled},
		{models.OrderProcessing, models.OrderShipped},
		{models.OrderProcessing, models.OrderCancelled},
		{models.OrderShipped, models.OrderDelivered},
		{models.OrderShipped, models.OrderCancelled},
		// a repeated status validates but carries no effects; see
		// TestTransitionOutcomeRepeatedStatusIsEffectFree
		{models.OrderPending, models.OrderPending},
		{models.OrderDelivered, models.OrderDelivered},
	}
	for _, tc := range cases {
		err := CheckStoreTransition(tc.from, tc.to)
		assert.NoError(t, err, "%s -> %s should be allowed", tc.from, tc.to)
	}
}

func TestCheckStoreTransitionRejectsReturnedTarget(t *testing.T) {
	err := CheckStoreTransition(models.OrderShipped, models.OrderReturned)
	assert.ErrorIs(t, err, ErrBadTarget)

	err = CheckStoreTransition(models.OrderPending, "NotAStatus")
	assert.ErrorIs(t, err, ErrBadTarget)
}

func TestCheckBuyerCancelWindow(t *testing.T) {
	now := time.Now()

	inside := models.Order{Status: models.OrderPending, CreatedAt: now.Add(-59 * time.Minute)}
	assert.NoError(t, CheckBuyerCancel(inside, models.OrderCancelled, now))

	outside := models.Order{Status: models.OrderPending, CreatedAt: now.Add(-61 * time.Minute)}
	assert.ErrorIs(t, CheckBuyerCancel(outside, models.OrderCancelled, now), ErrCancelWindow)

	exactly := models.Order{Status: models.OrderPending, CreatedAt: now.Add(-CancelWindow)}
	assert.ErrorIs(t, CheckBuyerCancel(exactly, models.OrderCancelled, now), ErrCancelWindow)
}

func TestCheckBuyerCancelStatusAndTarget(t *testing.T) {
	now := time.Now()
	fresh := models.Order{Status: models.OrderProcessing, CreatedAt: now}
	assert.ErrorIs(t, CheckBuyerCancel(fresh, models.OrderCancelled, now), ErrNotPending)

	pending := models.Order{Status: models.OrderPending, CreatedAt: now}
	assert.ErrorIs(t, CheckBuyerCancel(pending, models.OrderDelivered, now), ErrBadTarget)
	assert.ErrorIs(t, CheckBuyerCancel(pending, models.OrderReturned, now), ErrBadTarget)
}

func TestTransitionOutcomeRepeatedStatusIsEffectFree(t *testing.T) {
	items := []models.OrderItem{{ProductID: "p1", Count: 2}}

	delivered := models.Order{
		UserID:        "u1",
		StoreID:       "s1",
		Status:        models.OrderDelivered,
		IsPaidBefore:  true,
		AmountToStore: utils.MustDecimal128("100"),
	}
	out, err := TransitionOutcome(delivered, items, models.OrderDelivered)
	require.NoError(t, err)
	assert.Empty(t, out.Effects)
	assert.Zero(t, out.UserPoints)
	assert.Zero(t, out.StorePoints)
	assert.Empty(t, out.Restock)

	cancelled := models.Order{
		UserID:         "u1",
		StoreID:        "s1",
		Status:         models.OrderCancelled,
		IsPaidBefore:   true,
		AmountFromUser: utils.MustDecimal128("150"),
	}
	out, err = TransitionOutcome(cancelled, nil, models.OrderCancelled)
	require.NoError(t, err)
	assert.Empty(t, out.Effects)
	assert.Zero(t, out.UserPoints)
	assert.Zero(t, out.StorePoints)
}

func TestTransitionOutcomeFirstEntrySettles(t *testing.T) {
	order := models.Order{
		UserID:        "u1",
		StoreID:       "s1",
		Status:        models.OrderShipped,
		IsPaidBefore:  true,
		AmountToStore: utils.MustDecimal128("100"),
	}
	items := []models.OrderItem{{ProductID: "p1", Count: 2}}

	out, err := TransitionOutcome(order, items, models.OrderDelivered)
	require.NoError(t, err)
	require.Len(t, out.Effects, 1)
	assert.Equal(t, "100", out.Effects[0].Amount.String())
	assert.Equal(t, 1, out.UserPoints)
	assert.Equal(t, map[string]int{"p1": -2}, out.Restock)
}

func TestCancelOutcomePrepaidRefundsBuyer(t *testing.T) {
	order := models.Order{
		UserID:         "u1",
		StoreID:        "s1",
		IsPaidBefore:   true,
		AmountFromUser: utils.MustDecimal128("150.50"),
	}

	out, err := CancelOutcome(order)
	require.NoError(t, err)

	assert.Equal(t, -1, out.UserPoints)
	assert.Equal(t, -1, out.StorePoints)
	require.Len(t, out.Effects, 1)

	refund := out.Effects[0]
	assert.Equal(t, ledger.AccountUser, refund.AccountType)
	assert.Equal(t, "u1", refund.AccountID)
	assert.True(t, refund.IsUp)
	assert.Equal(t, models.TxnCodeRefund, refund.Code)
	assert.Equal(t, "150.5", refund.Amount.String())
}

func TestCancelOutcomeUnpaidHasNoRefund(t *testing.T) {
	order := models.Order{
		UserID:         "u1",
		StoreID:        "s1",
		IsPaidBefore:   false,
		AmountFromUser: utils.MustDecimal128("150.50"),
	}

	out, err := CancelOutcome(order)
	require.NoError(t, err)
	assert.Empty(t, out.Effects)
	assert.Equal(t, -1, out.UserPoints)
	assert.Equal(t, -1, out.StorePoints)
}

func TestDeliverOutcomePrepaidPaysStore(t *testing.T) {
	order := models.Order{
		UserID:        "u1",
		StoreID:       "s1",
		IsPaidBefore:  true,
		AmountToStore: utils.MustDecimal128("100"),
	}
	items := []models.OrderItem{
		{ProductID: "p1", Count: 2},
		{ProductID: "p2", Count: 1},
	}

	out, err := DeliverOutcome(order, items)
	require.NoError(t, err)

	assert.Equal(t, 1, out.UserPoints)
	assert.Equal(t, 1, out.StorePoints)
	require.Len(t, out.Effects, 1)

	payout := out.Effects[0]
	assert.Equal(t, ledger.AccountStore, payout.AccountType)
	assert.Equal(t, "s1", payout.AccountID)
	assert.True(t, payout.IsUp)
	assert.Equal(t, models.TxnCodePayout, payout.Code)
	assert.Equal(t, "100", payout.Amount.String())

	// delivery takes stock off the shelf
	assert.Equal(t, map[string]int{"p1": -2, "p2": -1}, out.Restock)
}

func TestDeliverOutcomeCashOnDeliveryPaysPlatform(t *testing.T) {
	order := models.Order{
		UserID:           "u1",
		StoreID:          "s1",
		IsPaidBefore:     false,
		AmountToStore:    utils.MustDecimal128("100"),
		AmountToPlatform: utils.MustDecimal128("12.75"),
	}

	out, err := DeliverOutcome(order, nil)
	require.NoError(t, err)
	require.Len(t, out.Effects, 1)

	payout := out.Effects[0]
	assert.Equal(t, PlatformStoreID, payout.AccountID)
	assert.Equal(t, "12.75", payout.Amount.String())
}

func TestReturnApprovalOutcome(t *testing.T) {
	order := models.Order{
		UserID:          "u1",
		StoreID:         "s1",
		AmountToStore:   utils.MustDecimal128("80"),
		AmountFromStore: utils.MustDecimal128("5"),
		AmountFromUser:  utils.MustDecimal128("100"),
	}
	items := []models.OrderItem{
		{ProductID: "pA", Count: 3},
		{ProductID: "pB", Count: 2},
	}

	out, err := ReturnApprovalOutcome(order, items)
	require.NoError(t, err)

	assert.Equal(t, -1, out.UserPoints)
	assert.Equal(t, -1, out.StorePoints)
	assert.Equal(t, map[string]int{"pA": 3, "pB": 2}, out.Restock)
	require.Len(t, out.Effects, 2)

	storeDebit := out.Effects[0]
	assert.Equal(t, ledger.AccountStore, storeDebit.AccountType)
	assert.False(t, storeDebit.IsUp)
	assert.Equal(t, "85", storeDebit.Amount.String())
	assert.Equal(t, models.TxnCodeReturn, storeDebit.Code)

	userCredit := out.Effects[1]
	assert.Equal(t, ledger.AccountUser, userCredit.AccountType)
	assert.True(t, userCredit.IsUp)
	assert.Equal(t, "100", userCredit.Amount.String())
}

func TestSumItemCounts(t *testing.T) {
	items := []models.OrderItem{
		{ProductID: "pA", Count: 1},
		{ProductID: "pA", Count: 2},
		{ProductID: "pB", Count: 2},
		{ProductID: "pC", Count: 5, IsDeleted: true},
	}

	counts := SumItemCounts(items)
	assert.Equal(t, map[string]int{"pA": 3, "pB": 2}, counts)
}
