package indexer

import (
	"context"

	"gorm.io/gorm"

	"github.com/photon-storage/go-common/log"

	"github.com/photon-storage/stime/asset"
	"github.com/photon-storage/stime/database/orm"
	"github.com/photon-storage/stime/lifecycle"
)

// Sweep applies the time driven transitions to the mirror: pending orders
// past their expiry horizon become EXPIRED and confirmed reservations
// whose end has elapsed become COMPLETED.
func (e *EventProcessor) Sweep(ctx context.Context) error {
	now := e.now()

	return e.db.WithContext(ctx).Transaction(func(dbTx *gorm.DB) error {
		orders := make([]*orm.Order, 0)
		if err := dbTx.Where("status = ?", uint8(asset.OrderPending)).
			Find(&orders).Error; err != nil {
			return err
		}

		expired := make([]uint64, 0)
		for _, row := range orders {
			o, err := row.Asset()
			if err != nil {
				return err
			}
			if _, err := e.orders.Transition(o, asset.OrderExpired, now); err == nil {
				expired = append(expired, row.ID)
			}
		}

		reservations := make([]*orm.Reservation, 0)
		if err := dbTx.Where("status = ?", uint8(asset.ReservationConfirmed)).
			Find(&reservations).Error; err != nil {
			return err
		}

		completed := make([]uint64, 0)
		for _, row := range reservations {
			r, err := row.Asset()
			if err != nil {
				return err
			}
			if lifecycle.CanComplete(r, now) {
				completed = append(completed, row.ID)
			}
		}

		if len(expired) > 0 {
			if err := dbTx.Model(&orm.Order{}).Where("id IN ?", expired).
				Update("status", uint8(asset.OrderExpired)).Error; err != nil {
				return err
			}
		}
		if len(completed) > 0 {
			if err := dbTx.Model(&orm.Reservation{}).Where("id IN ?", completed).
				Update("status", uint8(asset.ReservationCompleted)).Error; err != nil {
				return err
			}
		}

		if err := dbTx.Model(&orm.ChainStatus{}).Where("id = 1").
			Update("swept_at", now.UTC()).Error; err != nil {
			return err
		}

		if len(expired)+len(completed) > 0 {
			log.Info("Swept mirror",
				"expired orders", len(expired),
				"completed reservations", len(completed),
			)
		}

		return nil
	})
}
