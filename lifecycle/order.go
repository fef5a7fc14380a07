// Package lifecycle decides which status changes of orders, reservations
// and permissions are structurally legal. It never checks who asks for a
// change; signer checks belong to the ledger program.
package lifecycle

import (
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/photon-storage/stime/asset"
	"github.com/photon-storage/stime/config"
)

// Orders validates order admission and transitions under a policy.
type Orders struct {
	maxPrice uint64
	ttl      time.Duration
}

// NewOrders returns order rules bound to policy.
func NewOrders(policy config.Policy) *Orders {
	return &Orders{
		maxPrice: policy.MaxPrice,
		ttl:      policy.OrderTTL,
	}
}

// IsTerminalOrder reports whether no transition leaves s.
func IsTerminalOrder(s asset.OrderStatus) bool {
	switch s {
	case asset.OrderExecuted, asset.OrderCancelled, asset.OrderExpired:
		return true
	default:
		return false
	}
}

func isAllowedOrderTransition(from, to asset.OrderStatus) bool {
	switch from {
	case asset.OrderPending:
		return to == asset.OrderExecuted ||
			to == asset.OrderCancelled ||
			to == asset.OrderExpired
	default:
		return false
	}
}

// CanTransitionOrder reports whether from -> to is an edge of the order state
// machine. Expiry additionally depends on time, see Transition.
func CanTransitionOrder(from, to asset.OrderStatus) bool {
	return isAllowedOrderTransition(from, to)
}

// CheckNew validates a freshly created order.
func (o *Orders) CheckNew(order asset.Order) error {
	if order.Price == 0 || order.Price > o.maxPrice {
		return errors.Wrapf(ErrInvalidPrice, "%d not in (0, %d]", order.Price, o.maxPrice)
	}
	if !order.OrderType.Valid() {
		return errors.Wrapf(ErrInvalidOrderType, "%d", order.OrderType)
	}
	if order.Status != asset.OrderPending {
		return errors.Wrapf(ErrIllegalStateTransition, "new order in %s", order.Status)
	}

	return nil
}

// ExpiresAt returns the instant after which a pending order may expire.
func (o *Orders) ExpiresAt(order asset.Order) time.Time {
	return order.CreatedAt.Add(o.ttl)
}

// IsExpired reports whether now is past the order's expiry horizon.
func (o *Orders) IsExpired(order asset.Order, now time.Time) bool {
	return now.After(o.ExpiresAt(order))
}

// Transition returns order moved to status to, or ErrIllegalStateTransition.
// PENDING -> EXPIRED is legal only once IsExpired holds at now.
func (o *Orders) Transition(order asset.Order, to asset.OrderStatus, now time.Time) (asset.Order, error) {
	if !isAllowedOrderTransition(order.Status, to) {
		return order, illegal("order", order.ID, order.Status, to)
	}
	if to == asset.OrderExpired && !o.IsExpired(order, now) {
		return order, errors.Wrapf(ErrIllegalStateTransition,
			"order %s does not expire before %s", order.ID, o.ExpiresAt(order).Format(time.RFC3339))
	}

	order.Status = to
	return order, nil
}

// NewOrderID renders the ledger order id ORDER-<seller>-<timeSliceId>-<slot>.
func NewOrderID(seller asset.Address, timeSliceID string, slot uint64) string {
	return fmt.Sprintf("ORDER-%s-%s-%d", seller, timeSliceID, slot)
}

func illegal(kind, id string, from, to fmt.Stringer) error {
	return errors.Wrapf(ErrIllegalStateTransition, "%s %s: %s -> %s", kind, id, from, to)
}
