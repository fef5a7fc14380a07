// Package ledgertest provides an in-memory ledger for tests.
package ledgertest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/photon-storage/stime/asset"
	"github.com/photon-storage/stime/ledger"
)

// Memory records submitted transactions and serves accounts and blocks
// that tests put into it. It applies no domain rules.
type Memory struct {
	mu           sync.Mutex
	slot         uint64
	Submitted    []string
	TimeSlices   map[string]asset.TimeSlice
	Reservations map[string]asset.Reservation
	Orders       map[string]asset.Order
	Blocks       []*ledger.Block
	// LastMetadata is the metadata of the latest slice submission.
	LastMetadata string
	// Fail, when set, is returned by every submission.
	Fail error
}

// NewMemory returns an empty ledger.
func NewMemory() *Memory {
	return &Memory{
		TimeSlices:   make(map[string]asset.TimeSlice),
		Reservations: make(map[string]asset.Reservation),
		Orders:       make(map[string]asset.Order),
	}
}

func (m *Memory) record(kind string) (ledger.TransactionHandle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Fail != nil {
		return ledger.TransactionHandle{}, m.Fail
	}

	m.slot++
	m.Submitted = append(m.Submitted, kind)
	return ledger.TransactionHandle{
		Signature: fmt.Sprintf("%s-%d", kind, m.slot),
		Slot:      m.slot,
	}, nil
}

func (m *Memory) SubmitCreateTimeSlice(_ context.Context, _ asset.Address, _, _ time.Time, metadata string) (ledger.TransactionHandle, error) {
	tx, err := m.record("create_time_slice")
	if err == nil {
		m.mu.Lock()
		m.LastMetadata = metadata
		m.mu.Unlock()
	}
	return tx, err
}

func (m *Memory) SubmitTransfer(_ context.Context, _, _ asset.Address, _ string) (ledger.TransactionHandle, error) {
	return m.record("transfer")
}

func (m *Memory) FetchTimeSlice(_ context.Context, id string) (asset.TimeSlice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.TimeSlices[id]
	if !ok {
		return asset.TimeSlice{}, errors.Wrap(ledger.ErrNotFound, id)
	}
	return s, nil
}

func (m *Memory) SubmitCreateReservation(_ context.Context, _ ledger.CreateReservation) (ledger.TransactionHandle, error) {
	return m.record("create_reservation")
}

func (m *Memory) SubmitCancelReservation(_ context.Context, _ ledger.CancelReservation) (ledger.TransactionHandle, error) {
	return m.record("cancel_reservation")
}

func (m *Memory) FetchReservation(_ context.Context, id string) (asset.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.Reservations[id]
	if !ok {
		return asset.Reservation{}, errors.Wrap(ledger.ErrNotFound, id)
	}
	return r, nil
}

func (m *Memory) SubmitCreateOrder(_ context.Context, _ ledger.CreateOrder) (ledger.TransactionHandle, error) {
	return m.record("create_order")
}

func (m *Memory) SubmitExecuteOrder(_ context.Context, _ asset.Address, _ string) (ledger.TransactionHandle, error) {
	return m.record("execute_order")
}

func (m *Memory) SubmitCancelOrder(_ context.Context, _ asset.Address, _ string) (ledger.TransactionHandle, error) {
	return m.record("cancel_order")
}

func (m *Memory) FetchOrder(_ context.Context, id string) (asset.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.Orders[id]
	if !ok {
		return asset.Order{}, errors.Wrap(ledger.ErrNotFound, id)
	}
	return o, nil
}

func (m *Memory) SubmitUpdatePermissionLevel(_ context.Context, _ asset.Address, _ string, _ asset.PermissionLevel) (ledger.TransactionHandle, error) {
	return m.record("update_permission_level")
}

// AddBlock appends b to the chain.
func (m *Memory) AddBlock(b *ledger.Block) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Blocks = append(m.Blocks, b)
}

// ReplaceBlock swaps the block at b.Slot, simulating a fork.
func (m *Memory) ReplaceBlock(b *ledger.Block) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, cur := range m.Blocks {
		if cur.Slot == b.Slot {
			m.Blocks[i] = b
			return
		}
	}
	m.Blocks = append(m.Blocks, b)
}

func (m *Memory) HeadSlot(context.Context) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.Blocks) == 0 {
		return 0, nil
	}
	return m.Blocks[len(m.Blocks)-1].Slot, nil
}

func (m *Memory) BlockBySlot(_ context.Context, slot uint64) (*ledger.Block, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, b := range m.Blocks {
		if b.Slot == slot {
			return b, nil
		}
	}
	return nil, errors.Wrapf(ledger.ErrNotFound, "block %d", slot)
}
