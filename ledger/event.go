package ledger

import (
	"context"
	"time"

	"github.com/photon-storage/stime/asset"
)

// EventKind names a state change emitted by the ledger programs.
type EventKind string

const (
	EventTimeSliceCreated       EventKind = "time_slice_created"
	EventTimeSliceTransferred   EventKind = "time_slice_transferred"
	EventPermissionLevelUpdated EventKind = "permission_level_updated"
	EventOrderCreated           EventKind = "order_created"
	EventOrderExecuted          EventKind = "order_executed"
	EventOrderCancelled         EventKind = "order_cancelled"
	EventReservationCreated     EventKind = "reservation_created"
	EventReservationConfirmed   EventKind = "reservation_confirmed"
	EventReservationCancelled   EventKind = "reservation_cancelled"
	EventReservationCompleted   EventKind = "reservation_completed"
)

// Event is one program event. The record pointer matching Kind is set.
// Transfer events carry the slice with its new owner; order execution
// events carry both the order and the slice it moved to the buyer.
type Event struct {
	Kind        EventKind          `json:"kind"`
	TxHash      string             `json:"tx_hash"`
	TimeSlice   *asset.TimeSlice   `json:"time_slice,omitempty"`
	Order       *asset.Order       `json:"order,omitempty"`
	Reservation *asset.Reservation `json:"reservation,omitempty"`
}

// EntityID returns the id of the record the event touches.
func (e Event) EntityID() string {
	switch {
	case e.Order != nil:
		return e.Order.ID
	case e.TimeSlice != nil:
		return e.TimeSlice.ID
	case e.Reservation != nil:
		return e.Reservation.ID
	default:
		return ""
	}
}

// Block is a ledger block reduced to the program events it carries.
type Block struct {
	Slot       uint64    `json:"slot"`
	Hash       string    `json:"hash"`
	ParentHash string    `json:"parent_hash"`
	Timestamp  time.Time `json:"timestamp"`
	Events     []Event   `json:"events"`
}

// BlockSource streams blocks to the indexer.
type BlockSource interface {
	HeadSlot(ctx context.Context) (uint64, error)
	BlockBySlot(ctx context.Context, slot uint64) (*Block, error)
}
