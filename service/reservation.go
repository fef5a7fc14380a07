package service

import (
	"context"
	"time"

	"github.com/photon-storage/go-common/log"
	"github.com/pkg/errors"

	"github.com/photon-storage/stime/asset"
	"github.com/photon-storage/stime/ledger"
	"github.com/photon-storage/stime/lifecycle"
	"github.com/photon-storage/stime/pda"
)

// CreatedReservation is the outcome of a reservation submission.
type CreatedReservation struct {
	ID      string                   `json:"id"`
	Account asset.Address            `json:"account"`
	Bump    uint8                    `json:"bump"`
	Tx      ledger.TransactionHandle `json:"tx"`
}

// CreateReservation leases [start, end) of a slice to user. The interval
// must be future dated and lie within the slice.
func (s *Service) CreateReservation(
	ctx context.Context,
	user asset.Address,
	timeSliceID string,
	start time.Time,
	end time.Time,
	deposit uint64,
) (*CreatedReservation, error) {
	now := s.now()
	if err := s.temporal.CheckRange(start, end, now); err != nil {
		return nil, err
	}

	slice, err := s.ledger.FetchTimeSlice(ctx, timeSliceID)
	if err != nil {
		return nil, err
	}

	r := asset.Reservation{
		ID:          s.newID(),
		TimeSliceID: timeSliceID,
		User:        user,
		StartTime:   start,
		EndTime:     end,
		Status:      asset.ReservationPending,
		Deposit:     deposit,
		CreatedAt:   now,
	}
	if err := lifecycle.CheckNewReservation(r, slice); err != nil {
		return nil, err
	}

	account, bump, err := s.deriver.Derive(pda.ReservationSeeds(user, timeSliceID), s.programs.Reservation)
	if err != nil {
		return nil, errors.Wrapf(err, "derive reservation account of %s", timeSliceID)
	}

	tx, err := s.ledger.SubmitCreateReservation(ctx, ledger.CreateReservation{
		Account:       account,
		ReservationID: r.ID,
		User:          user,
		TimeSliceID:   timeSliceID,
		StartTime:     start,
		EndTime:       end,
		Deposit:       deposit,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "submit reservation of %s", timeSliceID)
	}

	log.Info("Reservation submitted",
		"id", r.ID,
		"slice", timeSliceID,
		"user", user,
		"deposit", asset.FormatSOL(deposit),
		"tx", tx.Signature,
	)

	return &CreatedReservation{
		ID:      r.ID,
		Account: account,
		Bump:    bump,
		Tx:      tx,
	}, nil
}

// CancelReservation cancels a pending or confirmed reservation. The
// account is located through the reservation id seed tuple.
func (s *Service) CancelReservation(
	ctx context.Context,
	user asset.Address,
	reservationID string,
) (ledger.TransactionHandle, error) {
	r, err := s.ledger.FetchReservation(ctx, reservationID)
	if err != nil {
		return ledger.TransactionHandle{}, err
	}
	if _, err := lifecycle.TransitionReservation(r, asset.ReservationCancelled, s.now()); err != nil {
		return ledger.TransactionHandle{}, err
	}

	account, _, err := s.deriver.Derive(pda.ReservationLookupSeeds(reservationID), s.programs.Reservation)
	if err != nil {
		return ledger.TransactionHandle{}, errors.Wrapf(err, "derive lookup account of %s", reservationID)
	}

	tx, err := s.ledger.SubmitCancelReservation(ctx, ledger.CancelReservation{
		Account:       account,
		ReservationID: reservationID,
		User:          user,
	})
	if err != nil {
		return ledger.TransactionHandle{}, errors.Wrapf(err, "submit cancellation of %s", reservationID)
	}

	log.Info("Reservation cancellation submitted", "id", reservationID, "user", user, "tx", tx.Signature)
	return tx, nil
}

// GetReservation reads a reservation from the ledger.
func (s *Service) GetReservation(ctx context.Context, id string) (asset.Reservation, error) {
	return s.ledger.FetchReservation(ctx, id)
}
