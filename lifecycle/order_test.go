package lifecycle

import (
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/photon-storage/stime/asset"
	"github.com/photon-storage/stime/config"
)

var (
	created = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	seller  = asset.MustParseAddress("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
)

func pendingOrder() asset.Order {
	return asset.Order{
		ID:          "o-1",
		TimeSliceID: "STIME-1-2-3",
		Seller:      seller,
		Price:       1000,
		OrderType:   asset.OrderFixedPrice,
		Status:      asset.OrderPending,
		CreatedAt:   created,
	}
}

func TestOrderTransitions(t *testing.T) {
	orders := NewOrders(config.DefaultPolicy())
	afterTTL := created.Add(config.DefaultOrderTTL + time.Second)

	all := []asset.OrderStatus{
		asset.OrderPending,
		asset.OrderExecuted,
		asset.OrderCancelled,
		asset.OrderExpired,
	}
	legal := map[[2]asset.OrderStatus]bool{
		{asset.OrderPending, asset.OrderExecuted}:  true,
		{asset.OrderPending, asset.OrderCancelled}: true,
		{asset.OrderPending, asset.OrderExpired}:   true,
	}

	for _, from := range all {
		for _, to := range all {
			o := pendingOrder()
			o.Status = from
			got, err := orders.Transition(o, to, afterTTL)
			if legal[[2]asset.OrderStatus{from, to}] {
				if err != nil {
					t.Errorf("%s -> %s: unexpected error %v", from, to, err)
				} else if got.Status != to {
					t.Errorf("%s -> %s: status is %s", from, to, got.Status)
				}
				continue
			}
			if !errors.Is(err, ErrIllegalStateTransition) {
				t.Errorf("%s -> %s: got %v, want ErrIllegalStateTransition", from, to, err)
			}
			if got.Status != from {
				t.Errorf("%s -> %s: rejected transition changed status to %s", from, to, got.Status)
			}
		}
	}
}

func TestOrderTerminalStates(t *testing.T) {
	testCases := []struct {
		status   asset.OrderStatus
		terminal bool
	}{
		{status: asset.OrderPending, terminal: false},
		{status: asset.OrderExecuted, terminal: true},
		{status: asset.OrderCancelled, terminal: true},
		{status: asset.OrderExpired, terminal: true},
	}
	for _, c := range testCases {
		if got := IsTerminalOrder(c.status); got != c.terminal {
			t.Errorf("IsTerminalOrder(%s) = %v", c.status, got)
		}
	}

	if CanTransitionOrder(asset.OrderExecuted, asset.OrderCancelled) {
		t.Errorf("EXECUTED -> CANCELLED allowed")
	}
	for _, to := range []asset.OrderStatus{asset.OrderPending, asset.OrderExecuted, asset.OrderCancelled} {
		if CanTransitionOrder(asset.OrderExpired, to) {
			t.Errorf("EXPIRED -> %s allowed", to)
		}
	}
}

func TestOrderExpiry(t *testing.T) {
	p := config.DefaultPolicy()
	p.OrderTTL = time.Hour
	orders := NewOrders(p)
	o := pendingOrder()

	if orders.IsExpired(o, created.Add(time.Hour)) {
		t.Errorf("order expired exactly at the horizon")
	}
	if !orders.IsExpired(o, created.Add(time.Hour+time.Nanosecond)) {
		t.Errorf("order not expired past the horizon")
	}

	if _, err := orders.Transition(o, asset.OrderExpired, created.Add(30*time.Minute)); !errors.Is(err, ErrIllegalStateTransition) {
		t.Errorf("early expiry returned %v", err)
	}
	got, err := orders.Transition(o, asset.OrderExpired, created.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("expire: %v", err)
	}
	if got.Status != asset.OrderExpired {
		t.Errorf("status is %s", got.Status)
	}
	if o.Status != asset.OrderPending {
		t.Errorf("transition mutated its input")
	}
}

func TestOrderCheckNew(t *testing.T) {
	p := config.DefaultPolicy()
	p.MaxPrice = 500
	orders := NewOrders(p)

	testCases := []struct {
		name    string
		mutate  func(o *asset.Order)
		wantErr error
	}{
		{
			name:   "valid",
			mutate: func(o *asset.Order) { o.Price = 500 },
		},
		{
			name:    "zero price",
			mutate:  func(o *asset.Order) { o.Price = 0 },
			wantErr: ErrInvalidPrice,
		},
		{
			name:    "above max price",
			mutate:  func(o *asset.Order) { o.Price = 501 },
			wantErr: ErrInvalidPrice,
		},
		{
			name: "unknown order type",
			mutate: func(o *asset.Order) {
				o.Price = 1
				o.OrderType = 3
			},
			wantErr: ErrInvalidOrderType,
		},
		{
			name: "not pending",
			mutate: func(o *asset.Order) {
				o.Price = 1
				o.Status = asset.OrderExecuted
			},
			wantErr: ErrIllegalStateTransition,
		},
	}
	for _, c := range testCases {
		t.Run(c.name, func(t *testing.T) {
			o := pendingOrder()
			c.mutate(&o)
			err := orders.CheckNew(o)
			if c.wantErr == nil && err != nil {
				t.Fatalf("unexpected error %v", err)
			}
			if c.wantErr != nil && !errors.Is(err, c.wantErr) {
				t.Fatalf("got %v, want %v", err, c.wantErr)
			}
		})
	}
}

func TestNewOrderID(t *testing.T) {
	want := "ORDER-TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA-STIME-1-2-3-77"
	if got := NewOrderID(seller, "STIME-1-2-3", 77); got != want {
		t.Errorf("order id = %s, want %s", got, want)
	}
}
