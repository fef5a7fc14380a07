package orm

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Migrate creates the mirror tables and the single chain status row.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&ChainStatus{},
		&Block{},
		&Event{},
		&TimeSlice{},
		&Order{},
		&Reservation{},
	); err != nil {
		return err
	}

	return db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&ChainStatus{ID: 1}).Error
}
