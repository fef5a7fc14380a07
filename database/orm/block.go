package orm

import "time"

// Block is a gorm table definition represents the indexed blocks.
type Block struct {
	ID         uint64 `gorm:"primary_key"`
	Slot       uint64 `gorm:"uniqueIndex"`
	Hash       string `gorm:"size:128"`
	ParentHash string `gorm:"size:128"`
	Timestamp  time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Event is a gorm table definition represents the program events applied
// from each block, one row per touched record. It lets a forked block be
// unwound.
type Event struct {
	ID        uint64 `gorm:"primary_key"`
	BlockSlot uint64 `gorm:"index"`
	Kind      string `gorm:"size:64"`
	Entity    string `gorm:"size:32"`
	EntityID  string `gorm:"index;size:255"`
	TxHash    string `gorm:"size:128"`
	CreatedAt time.Time
}

// Journal entity names.
const (
	EntityTimeSlice   = "time_slice"
	EntityOrder       = "order"
	EntityReservation = "reservation"
)
