package lifecycle

import (
	"time"

	"github.com/pkg/errors"

	"github.com/photon-storage/stime/asset"
	"github.com/photon-storage/stime/temporal"
)

// IsTerminalReservation reports whether no transition leaves s.
func IsTerminalReservation(s asset.ReservationStatus) bool {
	return s == asset.ReservationCancelled || s == asset.ReservationCompleted
}

// CanTransitionReservation reports whether from -> to is an edge of the
// reservation state machine. Completion additionally depends on time.
func CanTransitionReservation(from, to asset.ReservationStatus) bool {
	switch from {
	case asset.ReservationPending:
		return to == asset.ReservationConfirmed || to == asset.ReservationCancelled
	case asset.ReservationConfirmed:
		return to == asset.ReservationCancelled || to == asset.ReservationCompleted
	default:
		return false
	}
}

// CheckNewReservation validates a reservation against the slice it leases.
// The reservation interval must be a non-empty sub-interval of the slice.
func CheckNewReservation(r asset.Reservation, slice asset.TimeSlice) error {
	if r.TimeSliceID != slice.ID {
		return errors.Wrapf(ErrInvalidReservation,
			"reservation for %s checked against %s", r.TimeSliceID, slice.ID)
	}
	if !temporal.Contains(slice.StartTime, slice.EndTime, r.StartTime, r.EndTime) {
		return errors.Wrapf(ErrInvalidReservation, "[%s, %s] not within [%s, %s]",
			r.StartTime.Format(time.RFC3339), r.EndTime.Format(time.RFC3339),
			slice.StartTime.Format(time.RFC3339), slice.EndTime.Format(time.RFC3339))
	}
	if r.Status != asset.ReservationPending {
		return errors.Wrapf(ErrIllegalStateTransition, "new reservation in %s", r.Status)
	}

	return nil
}

// CanComplete reports whether a confirmed reservation has run its course.
func CanComplete(r asset.Reservation, now time.Time) bool {
	return r.Status == asset.ReservationConfirmed && !now.Before(r.EndTime)
}

// TransitionReservation returns r moved to status to, or
// ErrIllegalStateTransition. CONFIRMED -> COMPLETED is legal only once the
// reservation end has elapsed at now.
func TransitionReservation(r asset.Reservation, to asset.ReservationStatus, now time.Time) (asset.Reservation, error) {
	if !CanTransitionReservation(r.Status, to) {
		return r, illegal("reservation", r.ID, r.Status, to)
	}
	if to == asset.ReservationCompleted && !CanComplete(r, now) {
		return r, errors.Wrapf(ErrIllegalStateTransition,
			"reservation %s runs until %s", r.ID, r.EndTime.Format(time.RFC3339))
	}

	r.Status = to
	return r, nil
}
