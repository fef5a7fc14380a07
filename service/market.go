package service

import (
	"context"

	"github.com/photon-storage/go-common/log"
	"github.com/pkg/errors"

	"github.com/photon-storage/stime/asset"
	"github.com/photon-storage/stime/ledger"
	"github.com/photon-storage/stime/pda"
	"github.com/photon-storage/stime/temporal"
)

// CreatedOrder is the outcome of an order listing.
type CreatedOrder struct {
	Account asset.Address            `json:"account"`
	Bump    uint8                    `json:"bump"`
	Tx      ledger.TransactionHandle `json:"tx"`
}

// CreateOrder lists a slice on the marketplace.
func (s *Service) CreateOrder(
	ctx context.Context,
	seller asset.Address,
	timeSliceID string,
	price uint64,
	orderType asset.OrderType,
) (*CreatedOrder, error) {
	now := s.now()
	order := asset.Order{
		TimeSliceID: timeSliceID,
		Seller:      seller,
		Price:       price,
		OrderType:   orderType,
		Status:      asset.OrderPending,
		CreatedAt:   now,
	}
	if err := s.orders.CheckNew(order); err != nil {
		return nil, err
	}

	slice, err := s.ledger.FetchTimeSlice(ctx, timeSliceID)
	if err != nil {
		return nil, err
	}
	if temporal.IsExpired(slice, now) {
		return nil, errors.Wrapf(temporal.ErrSliceExpired, "list %s", timeSliceID)
	}

	account, bump, err := s.deriver.Derive(pda.OrderSeeds(seller, timeSliceID), s.programs.Marketplace)
	if err != nil {
		return nil, errors.Wrapf(err, "derive order account of %s", timeSliceID)
	}

	tx, err := s.ledger.SubmitCreateOrder(ctx, ledger.CreateOrder{
		Account:     account,
		Seller:      seller,
		TimeSliceID: timeSliceID,
		Price:       price,
		OrderType:   orderType,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "submit order of %s", timeSliceID)
	}

	log.Info("Order submitted",
		"slice", timeSliceID,
		"seller", seller,
		"price", asset.FormatSOL(price),
		"type", orderType,
		"tx", tx.Signature,
	)

	return &CreatedOrder{Account: account, Bump: bump, Tx: tx}, nil
}

// ExecuteOrder fills a pending, unexpired order.
func (s *Service) ExecuteOrder(
	ctx context.Context,
	buyer asset.Address,
	orderID string,
) (ledger.TransactionHandle, error) {
	if err := s.settleOrder(ctx, orderID, asset.OrderExecuted); err != nil {
		return ledger.TransactionHandle{}, err
	}

	tx, err := s.ledger.SubmitExecuteOrder(ctx, buyer, orderID)
	if err != nil {
		return ledger.TransactionHandle{}, errors.Wrapf(err, "submit execution of %s", orderID)
	}

	log.Info("Order execution submitted", "order", orderID, "buyer", buyer, "tx", tx.Signature)
	return tx, nil
}

// CancelOrder withdraws a pending, unexpired order.
func (s *Service) CancelOrder(
	ctx context.Context,
	seller asset.Address,
	orderID string,
) (ledger.TransactionHandle, error) {
	if err := s.settleOrder(ctx, orderID, asset.OrderCancelled); err != nil {
		return ledger.TransactionHandle{}, err
	}

	tx, err := s.ledger.SubmitCancelOrder(ctx, seller, orderID)
	if err != nil {
		return ledger.TransactionHandle{}, errors.Wrapf(err, "submit cancellation of %s", orderID)
	}

	log.Info("Order cancellation submitted", "order", orderID, "seller", seller, "tx", tx.Signature)
	return tx, nil
}

// settleOrder checks that the ledger order may move to status to now.
func (s *Service) settleOrder(ctx context.Context, orderID string, to asset.OrderStatus) error {
	order, err := s.ledger.FetchOrder(ctx, orderID)
	if err != nil {
		return err
	}

	now := s.now()
	if _, err := s.orders.Transition(order, to, now); err != nil {
		return err
	}
	if s.orders.IsExpired(order, now) {
		return errors.Wrapf(ErrOrderExpired, "%s expired at %s", orderID, s.orders.ExpiresAt(order))
	}

	return nil
}

// GetOrder reads an order from the ledger.
func (s *Service) GetOrder(ctx context.Context, id string) (asset.Order, error) {
	return s.ledger.FetchOrder(ctx, id)
}
