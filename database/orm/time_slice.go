package orm

import (
	"time"

	"github.com/photon-storage/stime/asset"
)

// TimeSlice is a gorm table definition represents the mirrored time slices.
type TimeSlice struct {
	ID              uint64    `gorm:"primary_key"`
	SliceID         string    `gorm:"uniqueIndex;size:128"`
	Owner           string    `gorm:"index;size:64"`
	StartTime       time.Time `gorm:"index"`
	EndTime         time.Time `gorm:"index"`
	BlockHeight     uint64
	TransactionHash string `gorm:"size:128"`
	PermissionLevel uint8
	RarityScore     uint64
	Status          uint8
	Metadata        string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewTimeSlice converts a ledger slice into its row.
func NewTimeSlice(s asset.TimeSlice) *TimeSlice {
	return &TimeSlice{
		SliceID:         s.ID,
		Owner:           s.Owner.String(),
		StartTime:       s.StartTime.UTC(),
		EndTime:         s.EndTime.UTC(),
		BlockHeight:     s.MintInfo.BlockHeight,
		TransactionHash: s.MintInfo.TransactionHash,
		PermissionLevel: uint8(s.PermissionLevel),
		RarityScore:     s.RarityScore,
		Status:          uint8(s.Status),
		Metadata:        s.Metadata,
	}
}

// Asset converts the row back into a ledger slice.
func (t *TimeSlice) Asset() (asset.TimeSlice, error) {
	owner, err := asset.ParseAddress(t.Owner)
	if err != nil {
		return asset.TimeSlice{}, err
	}

	return asset.TimeSlice{
		ID:        t.SliceID,
		StartTime: t.StartTime.UTC(),
		EndTime:   t.EndTime.UTC(),
		Owner:     owner,
		MintInfo: asset.MintInfo{
			BlockHeight:     t.BlockHeight,
			TransactionHash: t.TransactionHash,
		},
		PermissionLevel: asset.PermissionLevel(t.PermissionLevel),
		RarityScore:     t.RarityScore,
		Status:          asset.SliceStatus(t.Status),
		Metadata:        t.Metadata,
	}, nil
}
