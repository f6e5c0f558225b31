package orders

import (
	"errors"
	"fmt"
	"time"

	"vendora/ledger"
	"vendora/models"
	"vendora/utils"
)

// CancelWindow is how long after creation a buyer may cancel.
const CancelWindow = time.Hour

// PlatformStoreID is the ledger account that holds the platform's cut
// on cash-on-delivery orders. Created at boot if missing.
const PlatformStoreID = "platform"

var (
	ErrBadTransition  = errors.New("status unreachable from current status")
	ErrBadTarget      = errors.New("invalid target status")
	ErrCancelWindow   = errors.New("not within the time allowed")
	ErrNotPending     = errors.New("only pending orders can be cancelled")
	ErrReturnState    = errors.New("only delivered orders can be returned")
	ErrReturnExists   = errors.New("order already has a return request")
	ErrReturnResolved = errors.New("return request already resolved")
)

// storeTargets are the statuses a store transition may name. Returned
// is deliberately absent: it is reachable only via the return workflow.
var storeTargets = map[string]bool{
	models.OrderPending:    true,
	models.OrderProcessing: true,
	models.OrderShipped:    true,
	models.OrderDelivered:  true,
	models.OrderCancelled:  true,
}

// forbiddenEdges lists the store-path transitions that are rejected
// even though both endpoints are valid statuses: no skipping forward,
// no walking backward, nothing out of a terminal state.
var forbiddenEdges = map[string]map[string]bool{
	models.OrderPending: {
		models.OrderShipped:   true,
		models.OrderDelivered: true,
	},
	models.OrderProcessing: {
		models.OrderPending:   true,
		models.OrderDelivered: true,
	},
	models.OrderShipped: {
		models.OrderPending:    true,
		models.OrderProcessing: true,
	},
}

// terminal statuses admit no further store transitions.
var terminal = map[string]bool{
	models.OrderDelivered: true,
	models.OrderCancelled: true,
	models.OrderReturned:  true,
}

// CheckStoreTransition decides whether a store/admin may move an order
// from current to target.
func CheckStoreTransition(current, target string) error {
	if !storeTargets[target] {
		return fmt.Errorf("%w: %q", ErrBadTarget, target)
	}
	if current == target {
		return nil
	}
	if terminal[current] {
		return fmt.Errorf("%w: %s is final", ErrBadTransition, current)
	}
	if forbiddenEdges[current][target] {
		return fmt.Errorf("%w: %s -> %s", ErrBadTransition, current, target)
	}
	return nil
}

// CheckBuyerCancel decides whether the buyer may cancel. The only
// legal target is Cancelled, the order must still be Pending, and the
// request must land inside the window.
func CheckBuyerCancel(o models.Order, target string, now time.Time) error {
	if target != models.OrderCancelled {
		return fmt.Errorf("%w: buyers may only cancel", ErrBadTarget)
	}
	if o.Status != models.OrderPending {
		return ErrNotPending
	}
	if now.Sub(o.CreatedAt) >= CancelWindow {
		return ErrCancelWindow
	}
	return nil
}

// Outcome bundles everything a successful transition owes the rest of
// the system: wallet effects, point deltas, and stock adjustments
// keyed by product id (quantity delta; sold moves by the negation).
type Outcome struct {
	Effects     []ledger.Effect
	UserPoints  int
	StorePoints int
	Restock     map[string]int
}

// TransitionOutcome computes the side effects of moving order to
// target. A repeated status carries no effects: the settlement for a
// terminal state applies exactly once, when the order first enters it.
func TransitionOutcome(order models.Order, items []models.OrderItem, target string) (Outcome, error) {
	if target == order.Status {
		return Outcome{}, nil
	}
	switch target {
	case models.OrderCancelled:
		return CancelOutcome(order)
	case models.OrderDelivered:
		return DeliverOutcome(order, items)
	}
	return Outcome{}, nil
}

// CancelOutcome: one loyalty point off both parties, and a full refund
// of amountFromUser when the order was paid up front.
func CancelOutcome(o models.Order) (Outcome, error) {
	out := Outcome{UserPoints: -1, StorePoints: -1}
	if !o.IsPaidBefore {
		return out, nil
	}

	amount, err := utils.FromDecimal128(o.AmountFromUser)
	if err != nil {
		return Outcome{}, err
	}
	if !amount.IsPositive() {
		return out, nil
	}

	refund, err := ledger.NewEffect(ledger.AccountUser, o.UserID, true, models.TxnCodeRefund, amount)
	if err != nil {
		return Outcome{}, err
	}
	out.Effects = append(out.Effects, refund)
	return out, nil
}

// DeliverOutcome: one loyalty point to both parties, and the payout —
// straight to the store for pre-paid orders, to the platform's holding
// account for pay-on-delivery ones (the store already holds the cash).
func DeliverOutcome(o models.Order, items []models.OrderItem) (Outcome, error) {
	out := Outcome{UserPoints: 1, StorePoints: 1, Restock: negateCounts(SumItemCounts(items))}

	accountID := o.StoreID
	amountField := o.AmountToStore
	if !o.IsPaidBefore {
		accountID = PlatformStoreID
		amountField = o.AmountToPlatform
	}

	amount, err := utils.FromDecimal128(amountField)
	if err != nil {
		return Outcome{}, err
	}
	if !amount.IsPositive() {
		return out, nil
	}

	payout, err := ledger.NewEffect(ledger.AccountStore, accountID, true, models.TxnCodePayout, amount)
	if err != nil {
		return Outcome{}, err
	}
	out.Effects = append(out.Effects, payout)
	return out, nil
}

// ReturnApprovalOutcome reverses a delivered order's settlement: the
// store gives back both its payout and its own contribution, the buyer
// is made whole, both sides lose the delivery point, and every item
// goes back on the shelf.
func ReturnApprovalOutcome(o models.Order, items []models.OrderItem) (Outcome, error) {
	out := Outcome{UserPoints: -1, StorePoints: -1, Restock: SumItemCounts(items)}

	toStore, err := utils.FromDecimal128(o.AmountToStore)
	if err != nil {
		return Outcome{}, err
	}
	fromStore, err := utils.FromDecimal128(o.AmountFromStore)
	if err != nil {
		return Outcome{}, err
	}
	fromUser, err := utils.FromDecimal128(o.AmountFromUser)
	if err != nil {
		return Outcome{}, err
	}

	if storeDebit := toStore.Add(fromStore); storeDebit.IsPositive() {
		debit, err := ledger.NewEffect(ledger.AccountStore, o.StoreID, false, models.TxnCodeReturn, storeDebit)
		if err != nil {
			return Outcome{}, err
		}
		out.Effects = append(out.Effects, debit)
	}
	if fromUser.IsPositive() {
		credit, err := ledger.NewEffect(ledger.AccountUser, o.UserID, true, models.TxnCodeReturn, fromUser)
		if err != nil {
			return Outcome{}, err
		}
		out.Effects = append(out.Effects, credit)
	}
	return out, nil
}

// SumItemCounts totals item counts per product, ignoring deleted rows.
func SumItemCounts(items []models.OrderItem) map[string]int {
	counts := make(map[string]int)
	for _, it := range items {
		if it.IsDeleted {
			continue
		}
		counts[it.ProductID] += it.Count
	}
	return counts
}

func negateCounts(counts map[string]int) map[string]int {
	out := make(map[string]int, len(counts))
	for k, v := range counts {
		out[k] = -v
	}
	return out
}
