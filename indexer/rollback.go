package indexer

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/photon-storage/go-common/log"

	"github.com/photon-storage/stime/database/orm"
	"github.com/photon-storage/stime/ledger"
)

// rollbackBlock unwinds the latest indexed block. Every record the block
// touched is restored from the ledger's canonical state, or dropped when
// the ledger no longer has it.
func (e *EventProcessor) rollbackBlock(ctx context.Context) error {
	last := &orm.Block{}
	if err := e.db.Where("slot <= ?", e.currentSlot).
		Order("slot desc").First(last).Error; err != nil {
		return errors.Wrap(err, "find block to roll back")
	}

	events := make([]*orm.Event, 0)
	if err := e.db.Where("block_slot = ?", last.Slot).
		Order("id").Find(&events).Error; err != nil {
		return err
	}

	parent := &orm.Block{}
	err := e.db.Where("slot < ?", last.Slot).Order("slot desc").First(parent).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		parent = &orm.Block{}
	case err != nil:
		return err
	}

	if err := e.db.Transaction(func(dbTx *gorm.DB) error {
		seen := make(map[string]bool)
		for _, ev := range events {
			key := ev.Entity + "/" + ev.EntityID
			if seen[key] {
				continue
			}
			seen[key] = true

			if err := e.restore(ctx, dbTx, ev.Entity, ev.EntityID); err != nil {
				return err
			}
		}

		if err := dbTx.Where("block_slot = ?", last.Slot).
			Delete(&orm.Event{}).Error; err != nil {
			return err
		}

		if err := deleteSingleRow(
			dbTx,
			&orm.Block{},
			"slot = ?",
			last.Slot,
		); err != nil {
			return err
		}

		return updateChainStatus(dbTx, parent.Slot, parent.Hash)
	}); err != nil {
		return errors.Wrapf(err, "rollback block %d", last.Slot)
	}

	log.Info("Rolled back block",
		"slot", last.Slot,
		"records", len(events),
		"resume slot", parent.Slot,
	)

	e.currentSlot = parent.Slot
	e.currentHash = parent.Hash
	return nil
}

func (e *EventProcessor) restore(ctx context.Context, dbTx *gorm.DB, entity, id string) error {
	var (
		value interface{}
		model interface{}
		key   string
		err   error
	)

	switch entity {
	case orm.EntityTimeSlice:
		model, key = &orm.TimeSlice{}, "slice_id = ?"
		s, ferr := e.source.FetchTimeSlice(ctx, id)
		if err = ferr; err == nil {
			value = orm.NewTimeSlice(e.withRarity(s))
		}

	case orm.EntityOrder:
		model, key = &orm.Order{}, "order_id = ?"
		o, ferr := e.source.FetchOrder(ctx, id)
		if err = ferr; err == nil {
			value = orm.NewOrder(o)
		}

	case orm.EntityReservation:
		model, key = &orm.Reservation{}, "reservation_id = ?"
		r, ferr := e.source.FetchReservation(ctx, id)
		if err = ferr; err == nil {
			value = orm.NewReservation(r)
		}

	default:
		return fmt.Errorf("unknown journal entity %q", entity)
	}

	switch {
	case errors.Is(err, ledger.ErrNotFound):
		return dbTx.Where(key, id).Delete(model).Error
	case err != nil:
		return errors.Wrapf(err, "refetch %s %s", entity, id)
	}

	return upsert(dbTx, value)
}

func deleteSingleRow(
	dbTx *gorm.DB,
	model any,
	query any,
	args ...any,
) error {
	d := dbTx.Model(model).Where(query, args...).Delete(model)
	if err := d.Error; err != nil {
		return err
	}

	if ra := d.RowsAffected; ra != 1 {
		return fmt.Errorf(
			"error deleting single row, row affected is %d",
			ra,
		)
	}

	return nil
}
