package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds critical database constraints for concurrency control
func MigrateConstraints(db *gorm.DB) error {
	// Seat rows exist only for paid bookings, so this constraint is exactly
	// "no seat sold twice for the same showtime". It closes the window between
	// the pre-insert conflict check and the insert itself.
	err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_showtime_seat
		ON booking_seats (showtime_id, seat_code);
	`).Error
	if err != nil {
		return err
	}

	// Index for seat availability queries by showtime
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_booking_seats_showtime
		ON booking_seats (showtime_id);
	`).Error
	if err != nil {
		return err
	}

	// Index for booking history lookups by customer email
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_bookings_customer_email
		ON bookings (customer_email);
	`).Error
	if err != nil {
		return err
	}

	return nil
}
