package bookings

import (
	"context"
	"errors"

	"cinebook/internal/shared/apperrors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Repository interface {
	InsertPaid(ctx context.Context, booking *Booking) error
	QueryPaidSeats(ctx context.Context, showtimeID string) (map[string]struct{}, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetByCustomerEmail(ctx context.Context, email string) ([]Booking, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// InsertPaid writes the booking and its seat rows in one transaction.
// The unique index on (showtime_id, seat_code) turns a lost race into a
// conflict instead of a double booking: if another confirm commits any of
// the same seats first, the whole insert rolls back.
func (r *repository) InsertPaid(ctx context.Context, booking *Booking) error {
	booking.PaymentStatus = PaymentStatusPaid

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(booking).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError(booking.SeatCodes(), "one or more seats were already booked")
		}
		return err
	}
	return nil
}

// QueryPaidSeats returns the seat codes already sold for a showtime
func (r *repository) QueryPaidSeats(ctx context.Context, showtimeID string) (map[string]struct{}, error) {
	var codes []string
	err := r.db.WithContext(ctx).
		Model(&BookingSeat{}).
		Joins("JOIN bookings ON bookings.id = booking_seats.booking_id").
		Where("booking_seats.showtime_id = ? AND bookings.payment_status = ?", showtimeID, PaymentStatusPaid).
		Pluck("booking_seats.seat_code", &codes).Error
	if err != nil {
		return nil, err
	}

	seats := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		seats[code] = struct{}{}
	}
	return seats, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).Preload("Seats").First(&booking, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("booking", id.String())
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) GetByCustomerEmail(ctx context.Context, email string) ([]Booking, error) {
	var bookings []Booking
	err := r.db.WithContext(ctx).
		Preload("Seats").
		Where("customer_email = ?", email).
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
