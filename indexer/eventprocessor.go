package indexer

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/photon-storage/go-common/log"

	"github.com/photon-storage/stime/asset"
	"github.com/photon-storage/stime/config"
	"github.com/photon-storage/stime/database/orm"
	"github.com/photon-storage/stime/ledger"
	"github.com/photon-storage/stime/lifecycle"
	"github.com/photon-storage/stime/rarity"
)

// Source is the ledger surface the indexer reads. Account fetches are
// used to restore records touched by an orphaned block.
type Source interface {
	ledger.BlockSource
	FetchTimeSlice(ctx context.Context, id string) (asset.TimeSlice, error)
	FetchOrder(ctx context.Context, id string) (asset.Order, error)
	FetchReservation(ctx context.Context, id string) (asset.Reservation, error)
}

// EventProcessor is the processor for mirroring time slice program events.
type EventProcessor struct {
	ctx             context.Context
	refreshInterval time.Duration
	db              *gorm.DB
	source          Source
	rarity          *rarity.Engine
	orders          *lifecycle.Orders
	now             func() time.Time
	currentSlot     uint64
	currentHash     string
	quit            chan struct{}
}

// NewEventProcessor returns the new instance of EventProcessor. The
// processor resumes from the chain status stored in db.
func NewEventProcessor(
	ctx context.Context,
	refreshInterval time.Duration,
	policy config.Policy,
	source Source,
	db *gorm.DB,
) (*EventProcessor, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	currentSlot, currentHash, err := currentChainStatus(db)
	if err != nil {
		return nil, errors.Wrap(err, "query chain status")
	}

	return &EventProcessor{
		ctx:             ctx,
		refreshInterval: refreshInterval,
		db:              db,
		source:          source,
		rarity:          rarity.NewEngine(policy),
		orders:          lifecycle.NewOrders(policy),
		now:             time.Now,
		currentSlot:     currentSlot,
		currentHash:     currentHash,
		quit:            make(chan struct{}),
	}, nil
}

// Run executing the timing task of processing chain data.
func (e *EventProcessor) Run() {
	ticker := time.NewTicker(e.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-e.quit:
			return

		case <-e.ctx.Done():
			return

		case <-ticker.C:

		}

		if err := e.Sync(e.ctx); err != nil {
			log.Error("indexer fail on sync chain events", "error", err)
		}

		if err := e.Sweep(e.ctx); err != nil {
			log.Error("indexer fail on sweeping expired records", "error", err)
		}
	}
}

// Stop exits event processor
func (e *EventProcessor) Stop() {
	close(e.quit)
}

// Sync processes blocks until the local slot reaches the ledger head.
func (e *EventProcessor) Sync(ctx context.Context) error {
	headSlot, err := e.source.HeadSlot(ctx)
	if err != nil {
		return errors.Wrap(err, "request head slot")
	}

	for e.currentSlot < headSlot {
		if err := e.processEvents(ctx); err != nil {
			return err
		}
	}

	return nil
}

func (e *EventProcessor) processEvents(ctx context.Context) error {
	nextBlock, err := e.source.BlockBySlot(ctx, e.currentSlot+1)
	if errors.Is(err, ledger.ErrNotFound) {
		// Skipped slot, nothing was produced.
		if err := updateChainStatus(e.db, e.currentSlot+1, e.currentHash); err != nil {
			return err
		}
		e.currentSlot++
		return nil
	}
	if err != nil {
		return err
	}

	if e.currentHash != "" && nextBlock.ParentHash != e.currentHash {
		log.Error("fail on block hash mismatch",
			"remote parent block hash", nextBlock.ParentHash,
			"current block hash", e.currentHash,
			"slot", e.currentSlot,
		)

		return e.rollbackBlock(ctx)
	}

	if err := e.db.Transaction(func(dbTx *gorm.DB) error {
		return e.processBlock(dbTx, nextBlock)
	}); err != nil {
		return errors.Wrapf(err, "process block %d", nextBlock.Slot)
	}

	e.currentSlot = nextBlock.Slot
	e.currentHash = nextBlock.Hash
	return nil
}

func currentChainStatus(db *gorm.DB) (uint64, string, error) {
	cs := &orm.ChainStatus{}
	if err := db.Model(cs).First(cs).Error; err != nil {
		return 0, "", err
	}

	return cs.Slot, cs.Hash, nil
}

func updateChainStatus(db *gorm.DB, slot uint64, hash string) error {
	return db.Model(&orm.ChainStatus{}).Where("id = 1").Updates(
		map[string]interface{}{
			"slot": slot,
			"hash": hash,
		}).Error
}
