package service

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/photon-storage/stime/asset"
	"github.com/photon-storage/stime/database/orm"
)

// Page selects a window of a query result.
type Page struct {
	Start int
	Limit int
}

// Result is one page of rows plus the unpaged total.
type Result[T any] struct {
	Data  []T   `json:"data"`
	Total int64 `json:"total"`
}

const defaultPageLimit = 20

func (p Page) limit() int {
	if p.Limit <= 0 {
		return defaultPageLimit
	}
	return p.Limit
}

// TimeSlicesByOwner lists mirrored slices held by owner, earliest first.
func (s *Service) TimeSlicesByOwner(
	ctx context.Context,
	owner asset.Address,
	page Page,
) (*Result[asset.TimeSlice], error) {
	if s.db == nil {
		return nil, ErrNoMirror
	}

	query := func() *gorm.DB {
		return s.db.WithContext(ctx).Model(&orm.TimeSlice{}).
			Where("owner = ?", owner.String())
	}

	count := int64(0)
	if err := query().Count(&count).Error; err != nil {
		return nil, err
	}

	rows := make([]*orm.TimeSlice, 0)
	if err := query().Order("start_time").Offset(page.Start).
		Limit(page.limit()).Find(&rows).Error; err != nil {
		return nil, err
	}

	return sliceResult(rows, count)
}

// TimeSlicesByTimeRange lists mirrored slices overlapping [start, end).
func (s *Service) TimeSlicesByTimeRange(
	ctx context.Context,
	start time.Time,
	end time.Time,
	page Page,
) (*Result[asset.TimeSlice], error) {
	if s.db == nil {
		return nil, ErrNoMirror
	}

	query := func() *gorm.DB {
		return s.db.WithContext(ctx).Model(&orm.TimeSlice{}).
			Where("start_time < ? AND end_time > ?", end.UTC(), start.UTC())
	}

	count := int64(0)
	if err := query().Count(&count).Error; err != nil {
		return nil, err
	}

	rows := make([]*orm.TimeSlice, 0)
	if err := query().Order("start_time").Offset(page.Start).
		Limit(page.limit()).Find(&rows).Error; err != nil {
		return nil, err
	}

	return sliceResult(rows, count)
}

// OrdersByTimeSlice lists every mirrored order of a slice, oldest first.
func (s *Service) OrdersByTimeSlice(ctx context.Context, timeSliceID string) ([]asset.Order, error) {
	if s.db == nil {
		return nil, ErrNoMirror
	}

	rows := make([]*orm.Order, 0)
	if err := s.db.WithContext(ctx).Where("time_slice_id = ?", timeSliceID).
		Order("opened_at").Find(&rows).Error; err != nil {
		return nil, err
	}

	orders := make([]asset.Order, len(rows))
	for i, row := range rows {
		o, err := row.Asset()
		if err != nil {
			return nil, err
		}
		orders[i] = o
	}

	return orders, nil
}

// ReservationsByUser lists mirrored reservations made by user.
func (s *Service) ReservationsByUser(
	ctx context.Context,
	user asset.Address,
	page Page,
) (*Result[asset.Reservation], error) {
	if s.db == nil {
		return nil, ErrNoMirror
	}

	query := func() *gorm.DB {
		return s.db.WithContext(ctx).Model(&orm.Reservation{}).
			Where("user_address = ?", user.String())
	}

	count := int64(0)
	if err := query().Count(&count).Error; err != nil {
		return nil, err
	}

	rows := make([]*orm.Reservation, 0)
	if err := query().Order("start_time").Offset(page.Start).
		Limit(page.limit()).Find(&rows).Error; err != nil {
		return nil, err
	}

	res := &Result[asset.Reservation]{
		Data:  make([]asset.Reservation, len(rows)),
		Total: count,
	}
	for i, row := range rows {
		r, err := row.Asset()
		if err != nil {
			return nil, err
		}
		res.Data[i] = r
	}

	return res, nil
}

func sliceResult(rows []*orm.TimeSlice, count int64) (*Result[asset.TimeSlice], error) {
	res := &Result[asset.TimeSlice]{
		Data:  make([]asset.TimeSlice, len(rows)),
		Total: count,
	}
	for i, row := range rows {
		ts, err := row.Asset()
		if err != nil {
			return nil, err
		}
		res.Data[i] = ts
	}

	return res, nil
}
