package database

import (
	"cinebook/internal/bookings"
	"cinebook/internal/movies"
	"cinebook/internal/offers"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&movies.Movie{},
		&movies.Showtime{},
		&bookings.Booking{},
		&bookings.BookingSeat{},
		&offers.Offer{},
	); err != nil {
		return err
	}
	return MigrateConstraints(db)
}
