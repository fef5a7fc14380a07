package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/photon-storage/go-common/log"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/photon-storage/stime/asset"
	"github.com/photon-storage/stime/asset/identifier"
	"github.com/photon-storage/stime/ledger"
	"github.com/photon-storage/stime/lifecycle"
	"github.com/photon-storage/stime/pda"
	"github.com/photon-storage/stime/temporal"
)

// CreateTimeSliceRequest asks for a new slice covering [Start, End).
// Slot is the slot the identifier is minted under. The event counts feed
// the rarity score.
type CreateTimeSliceRequest struct {
	Owner    asset.Address
	Start    time.Time
	End      time.Time
	Slot     uint64
	Metadata string
	// Details, when set, is encoded as the slice metadata in place of
	// Metadata and gets its own derived account.
	Details          *asset.Metadata
	HistoricalEvents uint64
	SpecialEvents    uint64
}

// CreatedTimeSlice is the outcome of a create submission.
type CreatedTimeSlice struct {
	ID          string                   `json:"id"`
	Account     asset.Address            `json:"account"`
	Bump        uint8                    `json:"bump"`
	RarityScore uint64                   `json:"rarity_score"`
	Tx          ledger.TransactionHandle `json:"tx"`
	// MetadataAccount is set when the request carried Details.
	MetadataAccount *asset.Address `json:"metadata_account,omitempty"`
}

// CreateTimeSlice validates the range, mints the identifier, derives the
// slice account, scores it and submits the creation. Nothing is submitted
// if any local step fails.
func (s *Service) CreateTimeSlice(
	ctx context.Context,
	req CreateTimeSliceRequest,
) (*CreatedTimeSlice, error) {
	now := s.now()
	if err := s.temporal.CheckRange(req.Start, req.End, now); err != nil {
		return nil, err
	}

	d := req.End.Sub(req.Start)
	if err := s.temporal.CheckDuration(d); err != nil {
		return nil, err
	}

	id := identifier.Generate(s.chainID, req.Slot, uint64(req.Start.UnixMilli()))
	account, bump, err := s.deriver.Derive(
		pda.TimeSliceSeeds(req.Owner, req.Start, req.End),
		s.programs.TimeAsset,
	)
	if err != nil {
		return nil, errors.Wrapf(err, "derive account of %s", id)
	}

	metadata := req.Metadata
	var metadataAccount *asset.Address
	if req.Details != nil {
		details := *req.Details
		details.TimeSliceID = id
		details.Owner = req.Owner
		details.CreatedAt = now
		details.UpdatedAt = now
		raw, err := json.Marshal(details)
		if err != nil {
			return nil, errors.Wrapf(err, "encode metadata of %s", id)
		}
		metadata = string(raw)

		addr, _, err := s.deriver.Derive(pda.MetadataSeeds(id), s.programs.TimeAsset)
		if err != nil {
			return nil, errors.Wrapf(err, "derive metadata account of %s", id)
		}
		metadataAccount = &addr
	}

	score := s.rarity.Score(d, req.HistoricalEvents, req.SpecialEvents)
	tx, err := s.ledger.SubmitCreateTimeSlice(ctx, req.Owner, req.Start, req.End, metadata)
	if err != nil {
		return nil, errors.Wrapf(err, "submit time slice %s", id)
	}

	log.Info("Time slice submitted",
		"id", id,
		"owner", req.Owner,
		"account", account,
		"rarity", score,
		"tx", tx.Signature,
	)

	return &CreatedTimeSlice{
		ID:              id,
		Account:         account,
		Bump:            bump,
		RarityScore:     score,
		Tx:              tx,
		MetadataAccount: metadataAccount,
	}, nil
}

// TransferTimeSlice submits an ownership transfer. Only the ledger decides
// whether from may sign it.
func (s *Service) TransferTimeSlice(
	ctx context.Context,
	from asset.Address,
	to asset.Address,
	timeSliceID string,
) (ledger.TransactionHandle, error) {
	if to.IsZero() {
		return ledger.TransactionHandle{}, errors.Wrap(asset.ErrInvalidAddress, "transfer to zero address")
	}

	slice, err := s.ledger.FetchTimeSlice(ctx, timeSliceID)
	if err != nil {
		return ledger.TransactionHandle{}, err
	}
	if temporal.IsExpired(slice, s.now()) {
		return ledger.TransactionHandle{}, errors.Wrapf(temporal.ErrSliceExpired, "transfer %s", timeSliceID)
	}

	tx, err := s.ledger.SubmitTransfer(ctx, from, to, timeSliceID)
	if err != nil {
		return ledger.TransactionHandle{}, errors.Wrapf(err, "submit transfer of %s", timeSliceID)
	}

	log.Info("Transfer submitted", "id", timeSliceID, "from", from, "to", to, "tx", tx.Signature)
	return tx, nil
}

// UpdatePermissionLevel submits a new permission level for a slice.
func (s *Service) UpdatePermissionLevel(
	ctx context.Context,
	owner asset.Address,
	timeSliceID string,
	level asset.PermissionLevel,
) (ledger.TransactionHandle, error) {
	if err := lifecycle.CheckPermissionLevel(level); err != nil {
		return ledger.TransactionHandle{}, err
	}
	if _, err := s.ledger.FetchTimeSlice(ctx, timeSliceID); err != nil {
		return ledger.TransactionHandle{}, err
	}

	tx, err := s.ledger.SubmitUpdatePermissionLevel(ctx, owner, timeSliceID, level)
	if err != nil {
		return ledger.TransactionHandle{}, errors.Wrapf(err, "submit permission level of %s", timeSliceID)
	}

	log.Info("Permission level submitted", "id", timeSliceID, "level", level, "tx", tx.Signature)
	return tx, nil
}

// GetTimeSlice reads a slice from the ledger.
func (s *Service) GetTimeSlice(ctx context.Context, id string) (asset.TimeSlice, error) {
	return s.ledger.FetchTimeSlice(ctx, id)
}

// TimeSliceValue estimates the market value of a ledger slice.
func (s *Service) TimeSliceValue(ctx context.Context, id string) (decimal.Decimal, error) {
	slice, err := s.ledger.FetchTimeSlice(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}

	return s.rarity.EstimateValue(slice), nil
}
