// Package temporal validates time slice ranges and durations against a
// policy. Every check takes the evaluation instant explicitly.
package temporal

import (
	"time"

	"github.com/pkg/errors"

	"github.com/photon-storage/stime/asset"
	"github.com/photon-storage/stime/config"
)

var (
	// ErrInvalidTimeRange is returned when a range fails ValidateRange.
	ErrInvalidTimeRange = errors.New("invalid time range")
	// ErrInvalidDuration is returned when a duration is outside the
	// policy bounds.
	ErrInvalidDuration = errors.New("invalid duration")
	// ErrSliceExpired is returned for slices whose end has passed.
	ErrSliceExpired = errors.New("time slice has expired")
	// ErrSliceNotAvailable is returned for slices that already started.
	ErrSliceNotAvailable = errors.New("time slice is not available")
)

// Validator applies a policy's duration bounds.
type Validator struct {
	policy config.Policy
}

// NewValidator returns a validator bound to policy.
func NewValidator(policy config.Policy) *Validator {
	return &Validator{policy: policy}
}

// IsValidDuration reports whether d lies in [MinDuration, TierBound].
func (v *Validator) IsValidDuration(d time.Duration) bool {
	return d >= v.policy.MinDuration && d <= v.policy.TierBound
}

// ValidateRange reports whether the range starts strictly after now, ends
// after it starts and is no longer than the tier bound.
func (v *Validator) ValidateRange(start, end, now time.Time) bool {
	return start.After(now) &&
		end.After(start) &&
		end.Sub(start) <= v.policy.TierBound
}

// CheckDuration is IsValidDuration returning ErrInvalidDuration.
func (v *Validator) CheckDuration(d time.Duration) error {
	if !v.IsValidDuration(d) {
		return errors.Wrapf(ErrInvalidDuration, "%v not in [%v, %v]",
			d, v.policy.MinDuration, v.policy.TierBound)
	}

	return nil
}

// CheckRange is ValidateRange returning ErrInvalidTimeRange.
func (v *Validator) CheckRange(start, end, now time.Time) error {
	if !v.ValidateRange(start, end, now) {
		return errors.Wrapf(ErrInvalidTimeRange, "[%s, %s] at %s",
			start.Format(time.RFC3339), end.Format(time.RFC3339), now.Format(time.RFC3339))
	}

	return nil
}

// ValidateSlice runs the checks the ledger program applies before a slice
// is used: not expired, within the absolute duration cap, not started.
func (v *Validator) ValidateSlice(s asset.TimeSlice, now time.Time) error {
	if IsExpired(s, now) {
		return errors.Wrapf(ErrSliceExpired, "%s ended at %s", s.ID, s.EndTime.Format(time.RFC3339))
	}
	if d := s.Duration(); d > v.policy.MaxDuration {
		return errors.Wrapf(ErrInvalidDuration, "%s lasts %v", s.ID, d)
	}
	if !IsAvailable(s, now) {
		return errors.Wrapf(ErrSliceNotAvailable, "%s started at %s", s.ID, s.StartTime.Format(time.RFC3339))
	}

	return nil
}

// IsExpired reports whether the slice ended at or before now.
func IsExpired(s asset.TimeSlice, now time.Time) bool {
	return !s.EndTime.After(now)
}

// IsAvailable reports whether the slice has not started yet.
func IsAvailable(s asset.TimeSlice, now time.Time) bool {
	return s.StartTime.After(now)
}

// Contains reports whether [innerStart, innerEnd] is a non-empty
// sub-interval of [outerStart, outerEnd].
func Contains(outerStart, outerEnd, innerStart, innerEnd time.Time) bool {
	return innerEnd.After(innerStart) &&
		!innerStart.Before(outerStart) &&
		!innerEnd.After(outerEnd)
}
