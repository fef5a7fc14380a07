package indexer

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/photon-storage/go-common/log"

	"github.com/photon-storage/stime/asset"
	"github.com/photon-storage/stime/asset/identifier"
	"github.com/photon-storage/stime/database/orm"
	"github.com/photon-storage/stime/ledger"
	"github.com/photon-storage/stime/lifecycle"
)

func (e *EventProcessor) processBlock(dbTx *gorm.DB, block *ledger.Block) error {
	if err := createBlock(dbTx, block); err != nil {
		return err
	}

	for _, ev := range block.Events {
		if err := e.processEvent(dbTx, block, ev); err != nil {
			return errors.Wrapf(err, "event %s of %s", ev.Kind, ev.EntityID())
		}

		if err := journal(dbTx, block.Slot, ev); err != nil {
			return err
		}
	}

	return updateChainStatus(dbTx, block.Slot, block.Hash)
}

func createBlock(dbTx *gorm.DB, block *ledger.Block) error {
	return dbTx.Model(&orm.Block{}).Create(&orm.Block{
		Slot:       block.Slot,
		Hash:       block.Hash,
		ParentHash: block.ParentHash,
		Timestamp:  block.Timestamp.UTC(),
	}).Error
}

func (e *EventProcessor) processEvent(dbTx *gorm.DB, block *ledger.Block, ev ledger.Event) error {
	switch ev.Kind {
	case ledger.EventTimeSliceCreated:
		if ev.TimeSlice == nil {
			return errMissingRecord
		}
		return e.createTimeSlice(dbTx, *ev.TimeSlice)

	case ledger.EventTimeSliceTransferred:
		if ev.TimeSlice == nil {
			return errMissingRecord
		}
		return updateOwner(dbTx, ev.TimeSlice.ID, ev.TimeSlice.Owner)

	case ledger.EventPermissionLevelUpdated:
		if ev.TimeSlice == nil {
			return errMissingRecord
		}
		if err := lifecycle.CheckPermissionLevel(ev.TimeSlice.PermissionLevel); err != nil {
			log.Error("Skip permission update", "id", ev.TimeSlice.ID, "error", err)
			return nil
		}
		return dbTx.Model(&orm.TimeSlice{}).
			Where("slice_id = ?", ev.TimeSlice.ID).
			Update("permission_level", uint8(ev.TimeSlice.PermissionLevel)).Error

	case ledger.EventOrderCreated:
		if ev.Order == nil {
			return errMissingRecord
		}
		if err := e.orders.CheckNew(*ev.Order); err != nil {
			log.Error("Ledger admitted order outside policy", "id", ev.Order.ID, "error", err)
		}
		return upsert(dbTx, orm.NewOrder(*ev.Order))

	case ledger.EventOrderExecuted:
		if ev.Order == nil {
			return errMissingRecord
		}
		if err := e.transitionOrder(dbTx, ev.Order.ID, asset.OrderExecuted, block); err != nil {
			return err
		}
		if ev.TimeSlice != nil {
			return updateOwner(dbTx, ev.TimeSlice.ID, ev.TimeSlice.Owner)
		}
		return nil

	case ledger.EventOrderCancelled:
		if ev.Order == nil {
			return errMissingRecord
		}
		return e.transitionOrder(dbTx, ev.Order.ID, asset.OrderCancelled, block)

	case ledger.EventReservationCreated:
		if ev.Reservation == nil {
			return errMissingRecord
		}
		return e.createReservation(dbTx, *ev.Reservation)

	case ledger.EventReservationConfirmed:
		return transitionReservation(dbTx, ev.Reservation, asset.ReservationConfirmed, block)

	case ledger.EventReservationCancelled:
		return transitionReservation(dbTx, ev.Reservation, asset.ReservationCancelled, block)

	case ledger.EventReservationCompleted:
		return transitionReservation(dbTx, ev.Reservation, asset.ReservationCompleted, block)

	default:
		log.Info("Skip unknown event", "kind", ev.Kind, "tx", ev.TxHash)
		return nil
	}
}

var errMissingRecord = errors.New("event carries no record")

func (e *EventProcessor) createTimeSlice(dbTx *gorm.DB, s asset.TimeSlice) error {
	if !identifier.Valid(s.ID) {
		log.Error("Mirroring time slice with non-canonical identifier", "id", s.ID)
	}

	return upsert(dbTx, orm.NewTimeSlice(e.withRarity(s)))
}

// withRarity fills the rarity score the ledger leaves unset from the
// duration alone.
func (e *EventProcessor) withRarity(s asset.TimeSlice) asset.TimeSlice {
	if s.RarityScore == 0 {
		s.RarityScore = e.rarity.Score(s.Duration(), 0, 0)
	}
	return s
}

func (e *EventProcessor) createReservation(dbTx *gorm.DB, r asset.Reservation) error {
	row := &orm.TimeSlice{}
	err := dbTx.Where("slice_id = ?", r.TimeSliceID).First(row).Error
	switch {
	case err == nil:
		slice, err := row.Asset()
		if err != nil {
			return err
		}
		if err := lifecycle.CheckNewReservation(r, slice); err != nil {
			log.Error("Ledger admitted reservation outside its slice", "id", r.ID, "error", err)
		}

	case errors.Is(err, gorm.ErrRecordNotFound):
		log.Error("Reservation of unknown time slice", "id", r.ID, "slice", r.TimeSliceID)

	default:
		return err
	}

	return upsert(dbTx, orm.NewReservation(r))
}

// transitionOrder moves a mirrored order forward. Illegal transitions are
// logged and leave the mirror unchanged.
func (e *EventProcessor) transitionOrder(
	dbTx *gorm.DB,
	id string,
	to asset.OrderStatus,
	block *ledger.Block,
) error {
	row := &orm.Order{}
	if err := dbTx.Where("order_id = ?", id).First(row).Error; err != nil {
		return errors.Wrapf(err, "order %s", id)
	}

	order, err := row.Asset()
	if err != nil {
		return err
	}

	if _, err := e.orders.Transition(order, to, block.Timestamp); err != nil {
		log.Error("Skip illegal order transition", "id", id, "slot", block.Slot, "error", err)
		return nil
	}

	return dbTx.Model(row).Update("status", uint8(to)).Error
}

func transitionReservation(
	dbTx *gorm.DB,
	ev *asset.Reservation,
	to asset.ReservationStatus,
	block *ledger.Block,
) error {
	if ev == nil {
		return errMissingRecord
	}

	row := &orm.Reservation{}
	if err := dbTx.Where("reservation_id = ?", ev.ID).First(row).Error; err != nil {
		return errors.Wrapf(err, "reservation %s", ev.ID)
	}

	r, err := row.Asset()
	if err != nil {
		return err
	}

	if _, err := lifecycle.TransitionReservation(r, to, block.Timestamp); err != nil {
		log.Error("Skip illegal reservation transition", "id", ev.ID, "slot", block.Slot, "error", err)
		return nil
	}

	return dbTx.Model(row).Update("status", uint8(to)).Error
}

func updateOwner(dbTx *gorm.DB, id string, owner asset.Address) error {
	return dbTx.Model(&orm.TimeSlice{}).
		Where("slice_id = ?", id).
		Update("owner", owner.String()).Error
}

// upsert inserts a record or overwrites the row with the same ledger id.
func upsert(dbTx *gorm.DB, value interface{}) error {
	var key string
	switch value.(type) {
	case *orm.TimeSlice:
		key = "slice_id"
	case *orm.Order:
		key = "order_id"
	case *orm.Reservation:
		key = "reservation_id"
	default:
		return errors.Errorf("no ledger id for %T", value)
	}

	return dbTx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: key}},
		UpdateAll: true,
	}).Create(value).Error
}

func journal(dbTx *gorm.DB, slot uint64, ev ledger.Event) error {
	rows := make([]*orm.Event, 0, 2)
	add := func(entity, id string) {
		rows = append(rows, &orm.Event{
			BlockSlot: slot,
			Kind:      string(ev.Kind),
			Entity:    entity,
			EntityID:  id,
			TxHash:    ev.TxHash,
		})
	}

	if ev.TimeSlice != nil {
		add(orm.EntityTimeSlice, ev.TimeSlice.ID)
	}
	if ev.Order != nil {
		add(orm.EntityOrder, ev.Order.ID)
	}
	if ev.Reservation != nil {
		add(orm.EntityReservation, ev.Reservation.ID)
	}
	if len(rows) == 0 {
		return nil
	}

	return dbTx.Create(&rows).Error
}
