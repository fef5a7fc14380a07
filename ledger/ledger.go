// Package ledger declares the capabilities this module needs from the
// ledger that holds authoritative time slice state. Implementations submit
// transactions and read accounts; nothing here validates domain rules.
package ledger

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/photon-storage/stime/asset"
)

// ErrNotFound is returned when a fetched account does not exist.
var ErrNotFound = errors.New("account not found")

// TransactionHandle identifies a submitted transaction.
type TransactionHandle struct {
	Signature string `json:"signature"`
	Slot      uint64 `json:"slot"`
}

// CreateReservation is the payload of a reservation transaction. Account
// is the program address derived from the (user, slice) seed tuple.
type CreateReservation struct {
	Account       asset.Address `json:"account"`
	ReservationID string        `json:"reservation_id"`
	User          asset.Address `json:"user"`
	TimeSliceID   string        `json:"time_slice_id"`
	StartTime     time.Time     `json:"start_time"`
	EndTime       time.Time     `json:"end_time"`
	Deposit       uint64        `json:"deposit"`
}

// CancelReservation is the payload of a reservation cancellation. Account
// is the program address derived from the reservation id seed tuple.
type CancelReservation struct {
	Account       asset.Address `json:"account"`
	ReservationID string        `json:"reservation_id"`
	User          asset.Address `json:"user"`
}

// AssetLedger is the time slice and reservation surface of the ledger.
type AssetLedger interface {
	SubmitCreateTimeSlice(ctx context.Context, owner asset.Address, start, end time.Time, metadata string) (TransactionHandle, error)
	SubmitTransfer(ctx context.Context, from, to asset.Address, timeSliceID string) (TransactionHandle, error)
	FetchTimeSlice(ctx context.Context, id string) (asset.TimeSlice, error)
	SubmitCreateReservation(ctx context.Context, req CreateReservation) (TransactionHandle, error)
	SubmitCancelReservation(ctx context.Context, req CancelReservation) (TransactionHandle, error)
	FetchReservation(ctx context.Context, id string) (asset.Reservation, error)
}

// CreateOrder is the payload of an order listing. Account is the program
// address derived from the (seller, slice) seed tuple.
type CreateOrder struct {
	Account     asset.Address   `json:"account"`
	Seller      asset.Address   `json:"seller"`
	TimeSliceID string          `json:"time_slice_id"`
	Price       uint64          `json:"price"`
	OrderType   asset.OrderType `json:"order_type"`
}

// Marketplace is the order surface of the ledger.
type Marketplace interface {
	SubmitCreateOrder(ctx context.Context, req CreateOrder) (TransactionHandle, error)
	SubmitExecuteOrder(ctx context.Context, buyer asset.Address, orderID string) (TransactionHandle, error)
	SubmitCancelOrder(ctx context.Context, seller asset.Address, orderID string) (TransactionHandle, error)
	FetchOrder(ctx context.Context, id string) (asset.Order, error)
}

// Permissions is the permission surface of the ledger.
type Permissions interface {
	SubmitUpdatePermissionLevel(ctx context.Context, owner asset.Address, timeSliceID string, level asset.PermissionLevel) (TransactionHandle, error)
}
