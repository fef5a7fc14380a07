package orm

import (
	"time"
)

// ChainStatus is the single row cursor of the indexer: the last mirrored
// block and the last time time-driven transitions were swept.
type ChainStatus struct {
	ID        uint64 `gorm:"primary_key"`
	Slot      uint64
	Hash      string `gorm:"size:128"`
	SweptAt   *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName keeps the row in chain_status rather than chain_statuses.
func (c ChainStatus) TableName() string {
	return "chain_status"
}
