package lifecycle

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/photon-storage/stime/asset"
)

var (
	sliceStart = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	slice      = asset.TimeSlice{
		ID:        "STIME-1-2-3",
		StartTime: sliceStart,
		EndTime:   sliceStart.Add(24 * time.Hour),
	}
)

func reservation(status asset.ReservationStatus) asset.Reservation {
	return asset.Reservation{
		ID:          "r-1",
		TimeSliceID: slice.ID,
		StartTime:   sliceStart.Add(time.Hour),
		EndTime:     sliceStart.Add(2 * time.Hour),
		Status:      status,
		Deposit:     10,
		CreatedAt:   sliceStart.Add(-time.Hour),
	}
}

func TestReservationTransitions(t *testing.T) {
	afterEnd := sliceStart.Add(3 * time.Hour)
	testCases := []struct {
		from  asset.ReservationStatus
		to    asset.ReservationStatus
		legal bool
	}{
		{from: asset.ReservationPending, to: asset.ReservationConfirmed, legal: true},
		{from: asset.ReservationPending, to: asset.ReservationCancelled, legal: true},
		{from: asset.ReservationPending, to: asset.ReservationCompleted, legal: false},
		{from: asset.ReservationPending, to: asset.ReservationPending, legal: false},
		{from: asset.ReservationConfirmed, to: asset.ReservationCancelled, legal: true},
		{from: asset.ReservationConfirmed, to: asset.ReservationCompleted, legal: true},
		{from: asset.ReservationConfirmed, to: asset.ReservationPending, legal: false},
		{from: asset.ReservationCancelled, to: asset.ReservationConfirmed, legal: false},
		{from: asset.ReservationCancelled, to: asset.ReservationCompleted, legal: false},
		{from: asset.ReservationCompleted, to: asset.ReservationCancelled, legal: false},
		{from: asset.ReservationCompleted, to: asset.ReservationPending, legal: false},
	}
	for _, c := range testCases {
		got, err := TransitionReservation(reservation(c.from), c.to, afterEnd)
		if c.legal {
			require.NoError(t, err, "%s -> %s", c.from, c.to)
			require.Equal(t, c.to, got.Status)
			continue
		}
		require.True(t, errors.Is(err, ErrIllegalStateTransition), "%s -> %s: %v", c.from, c.to, err)
		require.Equal(t, c.from, got.Status)
	}

	require.True(t, IsTerminalReservation(asset.ReservationCancelled))
	require.True(t, IsTerminalReservation(asset.ReservationCompleted))
	require.False(t, IsTerminalReservation(asset.ReservationConfirmed))
}

func TestReservationCompletionWaitsForEnd(t *testing.T) {
	r := reservation(asset.ReservationConfirmed)

	_, err := TransitionReservation(r, asset.ReservationCompleted, r.EndTime.Add(-time.Second))
	require.True(t, errors.Is(err, ErrIllegalStateTransition))
	require.False(t, CanComplete(r, r.EndTime.Add(-time.Second)))

	require.True(t, CanComplete(r, r.EndTime))
	got, err := TransitionReservation(r, asset.ReservationCompleted, r.EndTime)
	require.NoError(t, err)
	require.Equal(t, asset.ReservationCompleted, got.Status)

	require.False(t, CanComplete(reservation(asset.ReservationPending), r.EndTime.Add(time.Hour)))
}

func TestCheckNewReservation(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(r *asset.Reservation)
		wantErr error
	}{
		{
			name:   "inside the slice",
			mutate: func(r *asset.Reservation) {},
		},
		{
			name: "covers the whole slice",
			mutate: func(r *asset.Reservation) {
				r.StartTime, r.EndTime = slice.StartTime, slice.EndTime
			},
		},
		{
			name:    "starts before the slice",
			mutate:  func(r *asset.Reservation) { r.StartTime = sliceStart.Add(-time.Minute) },
			wantErr: ErrInvalidReservation,
		},
		{
			name:    "ends after the slice",
			mutate:  func(r *asset.Reservation) { r.EndTime = slice.EndTime.Add(time.Second) },
			wantErr: ErrInvalidReservation,
		},
		{
			name:    "empty interval",
			mutate:  func(r *asset.Reservation) { r.EndTime = r.StartTime },
			wantErr: ErrInvalidReservation,
		},
		{
			name:    "other slice",
			mutate:  func(r *asset.Reservation) { r.TimeSliceID = "STIME-9-9-9" },
			wantErr: ErrInvalidReservation,
		},
		{
			name:    "not pending",
			mutate:  func(r *asset.Reservation) { r.Status = asset.ReservationConfirmed },
			wantErr: ErrIllegalStateTransition,
		},
	}
	for _, c := range testCases {
		t.Run(c.name, func(t *testing.T) {
			r := reservation(asset.ReservationPending)
			c.mutate(&r)
			err := CheckNewReservation(r, slice)
			if c.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.True(t, errors.Is(err, c.wantErr), "got %v", err)
		})
	}
}

func TestPermissionTransitions(t *testing.T) {
	p := asset.Permission{ID: "p-1", Status: asset.PermissionInactive}

	p, err := TransitionPermission(p, asset.PermissionActive)
	require.NoError(t, err)
	p, err = TransitionPermission(p, asset.PermissionInactive)
	require.NoError(t, err)
	p, err = TransitionPermission(p, asset.PermissionRevoked)
	require.NoError(t, err)

	_, err = TransitionPermission(p, asset.PermissionActive)
	require.True(t, errors.Is(err, ErrIllegalStateTransition))
	require.False(t, CanTransitionPermission(asset.PermissionActive, asset.PermissionActive))

	require.NoError(t, CheckPermissionLevel(asset.PermissionAdmin))
	require.True(t, errors.Is(CheckPermissionLevel(asset.PermissionLevel(9)), ErrInvalidPermissionLevel))
}
