package bookings

import (
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// Booking is an append-only ledger row. A booking is only written once
// payment has succeeded, so rows are never updated or deleted.
type Booking struct {
	ID              uuid.UUID     `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ShowtimeID      string        `gorm:"not null;index" json:"showtime_id"`
	CustomerName    string        `gorm:"not null" json:"customer_name"`
	CustomerEmail   string        `gorm:"not null;index" json:"customer_email"`
	CustomerPhone   string        `json:"customer_phone,omitempty"`
	TotalAmount     int64         `gorm:"not null" json:"total_amount"`
	DiscountAmount  int64         `gorm:"default:0" json:"discount_amount"`
	CouponCode      string        `json:"coupon_code,omitempty"`
	PaymentStatus   PaymentStatus `gorm:"type:varchar(20);default:'pending';not null" json:"payment_status"`
	PaymentIntentID string        `json:"payment_intent_id,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`

	Seats []BookingSeat `gorm:"foreignKey:BookingID" json:"seats,omitempty"`
}

// TableName sets the table name for Booking
func (Booking) TableName() string {
	return "bookings"
}

// SeatCodes returns the seat codes attached to the booking
func (b *Booking) SeatCodes() []string {
	codes := make([]string, 0, len(b.Seats))
	for _, seat := range b.Seats {
		codes = append(codes, seat.SeatCode)
	}
	return codes
}

// BookingSeat pins one seat of one showtime to a paid booking. The composite
// unique index is the last line of defense against double booking: two
// concurrent confirms for the same seat cannot both insert.
type BookingSeat struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingID  uuid.UUID `gorm:"type:uuid;not null;index" json:"booking_id"`
	ShowtimeID string    `gorm:"not null;uniqueIndex:idx_showtime_seat" json:"showtime_id"`
	SeatCode   string    `gorm:"not null;uniqueIndex:idx_showtime_seat" json:"seat_code"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName sets the table name for BookingSeat
func (BookingSeat) TableName() string {
	return "booking_seats"
}

// CreatePaymentIntentRequest is the payload for POST /bookings/payment-intent
type CreatePaymentIntentRequest struct {
	ShowtimeID    string   `json:"showtime_id" binding:"required"`
	Seats         []string `json:"seats" binding:"required,min=1"`
	CustomerName  string   `json:"customer_name" binding:"required"`
	CustomerEmail string   `json:"customer_email" binding:"required,email"`
	CustomerPhone string   `json:"customer_phone"`
	CouponCode    string   `json:"coupon_code"`
}

// CreatePaymentIntentResponse carries what the frontend needs to complete
// the payment flow
type CreatePaymentIntentResponse struct {
	PaymentIntentID string `json:"payment_intent_id"`
	ClientSecret    string `json:"client_secret"`
	Amount          int64  `json:"amount"`
	DiscountAmount  int64  `json:"discount_amount"`
}

// ConfirmBookingRequest is the payload for POST /bookings/confirm.
// SessionID is optional: when present the caller's seat locks are verified
// and released as part of confirmation.
type ConfirmBookingRequest struct {
	ShowtimeID      string   `json:"showtime_id" binding:"required"`
	Seats           []string `json:"seats" binding:"required,min=1"`
	SessionID       string   `json:"session_id"`
	PaymentIntentID string   `json:"payment_intent_id" binding:"required"`
	CustomerName    string   `json:"customer_name" binding:"required"`
	CustomerEmail   string   `json:"customer_email" binding:"required,email"`
	CustomerPhone   string   `json:"customer_phone"`
	CouponCode      string   `json:"coupon_code"`
}
