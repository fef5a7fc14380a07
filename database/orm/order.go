package orm

import (
	"time"

	"github.com/photon-storage/stime/asset"
)

// Order is a gorm table definition represents the mirrored orders.
type Order struct {
	ID          uint64 `gorm:"primary_key"`
	OrderID     string `gorm:"uniqueIndex;size:255"`
	TimeSliceID string `gorm:"index;size:128"`
	Seller      string `gorm:"index;size:64"`
	Price       uint64
	OrderType   uint8
	Status      uint8 `gorm:"index"`
	OpenedAt    time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewOrder converts a ledger order into its row.
func NewOrder(o asset.Order) *Order {
	return &Order{
		OrderID:     o.ID,
		TimeSliceID: o.TimeSliceID,
		Seller:      o.Seller.String(),
		Price:       o.Price,
		OrderType:   uint8(o.OrderType),
		Status:      uint8(o.Status),
		OpenedAt:    o.CreatedAt.UTC(),
	}
}

// Asset converts the row back into a ledger order.
func (o *Order) Asset() (asset.Order, error) {
	seller, err := asset.ParseAddress(o.Seller)
	if err != nil {
		return asset.Order{}, err
	}

	return asset.Order{
		ID:          o.OrderID,
		TimeSliceID: o.TimeSliceID,
		Seller:      seller,
		Price:       o.Price,
		OrderType:   asset.OrderType(o.OrderType),
		Status:      asset.OrderStatus(o.Status),
		CreatedAt:   o.OpenedAt.UTC(),
	}, nil
}
