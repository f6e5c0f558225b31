package orders

import (
	"testing"

	"vendora/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyCartItemsSnapshotsEveryItem(t *testing.T) {
	cartItems := []models.CartItem{
		{ID: "ci1", CartID: "c1", ProductID: "p1", VariantValueIDs: []string{"v1", "v2"}, Count: 2},
		{ID: "ci2", CartID: "c1", ProductID: "p2", VariantValueIDs: nil, Count: 1},
		{ID: "ci3", CartID: "c1", ProductID: "p3", VariantValueIDs: []string{"v9"}, Count: 7},
	}

	out := CopyCartItems("order-1", cartItems)
	require.Len(t, out, len(cartItems))

	seen := map[string]bool{}
	for i, item := range out {
		assert.Equal(t, "order-1", item.OrderID)
		assert.Equal(t, cartItems[i].ProductID, item.ProductID)
		assert.Equal(t, cartItems[i].VariantValueIDs, item.VariantValueIDs)
		assert.Equal(t, cartItems[i].Count, item.Count)
		assert.False(t, item.IsDeleted)

		// fresh ids, no link back to the cart item
		assert.NotEmpty(t, item.ID)
		assert.NotEqual(t, cartItems[i].ID, item.ID)
		assert.False(t, seen[item.ID], "order item ids must be unique")
		seen[item.ID] = true
	}
}

func TestCopyCartItemsEmptyCart(t *testing.T) {
	out := CopyCartItems("order-1", nil)
	assert.Empty(t, out)
}

func TestCheckReturnEligible(t *testing.T) {
	delivered := models.Order{Status: models.OrderDelivered}
	assert.NoError(t, CheckReturnEligible(delivered))

	for _, status := range []string{
		models.OrderPending, models.OrderProcessing, models.OrderShipped,
		models.OrderCancelled, models.OrderReturned,
	} {
		o := models.Order{Status: status}
		assert.ErrorIs(t, CheckReturnEligible(o), ErrReturnState, "status %s", status)
	}

	withPending := models.Order{
		Status:        models.OrderDelivered,
		ReturnRequest: &models.ReturnRequest{ID: "r1", Status: models.ReturnPending},
	}
	assert.ErrorIs(t, CheckReturnEligible(withPending), ErrReturnExists)

	withApproved := models.Order{
		Status:        models.OrderDelivered,
		ReturnRequest: &models.ReturnRequest{ID: "r1", Status: models.ReturnApproved},
	}
	assert.ErrorIs(t, CheckReturnEligible(withApproved), ErrReturnExists)

	// a rejected request does not block a new filing
	withRejected := models.Order{
		Status:        models.OrderDelivered,
		ReturnRequest: &models.ReturnRequest{ID: "r1", Status: models.ReturnRejected},
	}
	assert.NoError(t, CheckReturnEligible(withRejected))
}
