package lifecycle

import "github.com/pkg/errors"

var (
	// ErrIllegalStateTransition is returned when the requested status is
	// not reachable from the current one.
	ErrIllegalStateTransition = errors.New("illegal state transition")
	// ErrInvalidPrice is returned for prices outside (0, MaxPrice].
	ErrInvalidPrice = errors.New("invalid price")
	// ErrInvalidOrderType is returned for order types outside the
	// canonical enumeration.
	ErrInvalidOrderType = errors.New("invalid order type")
	// ErrInvalidReservation is returned when a reservation interval is not
	// a sub-interval of its slice.
	ErrInvalidReservation = errors.New("reservation outside time slice")
)
