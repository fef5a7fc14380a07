package orm

import (
	"time"

	"github.com/photon-storage/stime/asset"
)

// Reservation is a gorm table definition represents the mirrored
// reservations.
type Reservation struct {
	ID            uint64 `gorm:"primary_key"`
	ReservationID string `gorm:"uniqueIndex;size:128"`
	TimeSliceID   string `gorm:"index;size:128"`
	User          string `gorm:"column:user_address;index;size:64"`
	StartTime     time.Time
	EndTime       time.Time `gorm:"index"`
	Status        uint8     `gorm:"index"`
	Deposit       uint64
	OpenedAt      time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewReservation converts a ledger reservation into its row.
func NewReservation(r asset.Reservation) *Reservation {
	return &Reservation{
		ReservationID: r.ID,
		TimeSliceID:   r.TimeSliceID,
		User:          r.User.String(),
		StartTime:     r.StartTime.UTC(),
		EndTime:       r.EndTime.UTC(),
		Status:        uint8(r.Status),
		Deposit:       r.Deposit,
		OpenedAt:      r.CreatedAt.UTC(),
	}
}

// Asset converts the row back into a ledger reservation.
func (r *Reservation) Asset() (asset.Reservation, error) {
	user, err := asset.ParseAddress(r.User)
	if err != nil {
		return asset.Reservation{}, err
	}

	return asset.Reservation{
		ID:          r.ReservationID,
		TimeSliceID: r.TimeSliceID,
		User:        user,
		StartTime:   r.StartTime.UTC(),
		EndTime:     r.EndTime.UTC(),
		Status:      asset.ReservationStatus(r.Status),
		Deposit:     r.Deposit,
		CreatedAt:   r.OpenedAt.UTC(),
	}, nil
}
