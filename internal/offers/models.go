package offers

import (
	"time"

	"github.com/google/uuid"
)

type DiscountType string

const (
	DiscountTypePercentage DiscountType = "PERCENTAGE"
	DiscountTypeFixed      DiscountType = "FIXED"
)

// Offer defines a promotional code. DiscountValue is a percentage for
// PERCENTAGE offers and cents for FIXED offers.
type Offer struct {
	ID                uuid.UUID    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Code              string       `gorm:"uniqueIndex;not null" json:"code"`
	Description       string       `json:"description,omitempty"`
	DiscountType      DiscountType `gorm:"type:varchar(20);check:discount_type IN ('PERCENTAGE', 'FIXED');not null" json:"discount_type"`
	DiscountValue     int64        `gorm:"not null" json:"discount_value"`
	MinBookingAmount  int64        `gorm:"default:0" json:"min_booking_amount"`
	MaxDiscountAmount *int64       `json:"max_discount_amount,omitempty"`
	ValidFrom         time.Time    `json:"valid_from"`
	ValidUntil        time.Time    `json:"valid_until"`
	IsActive          bool         `gorm:"default:true" json:"is_active"`
	UsageLimit        *int         `json:"usage_limit,omitempty"`
	UsedCount         int          `gorm:"default:0" json:"used_count"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

// TableName sets the table name for Offer
func (Offer) TableName() string {
	return "offers"
}

// IsExhausted reports whether the usage limit has been reached
func (o *Offer) IsExhausted() bool {
	return o.UsageLimit != nil && o.UsedCount >= *o.UsageLimit
}

// IsWithinValidity reports whether now falls inside the validity window
func (o *Offer) IsWithinValidity(now time.Time) bool {
	return !now.Before(o.ValidFrom) && !now.After(o.ValidUntil)
}

// CouponValidation is the outcome of validating a code against an amount.
// An inapplicable coupon is a normal outcome, not an error.
type CouponValidation struct {
	Valid          bool   `json:"valid"`
	Code           string `json:"code"`
	DiscountAmount int64  `json:"discount_amount"`
	FinalAmount    int64  `json:"final_amount"`
	Reason         string `json:"reason,omitempty"`
}

// ValidateCouponRequest is the payload for POST /offers/validate
type ValidateCouponRequest struct {
	Code   string `json:"code" binding:"required"`
	Amount int64  `json:"amount" binding:"required,min=1"` // cents
}

// CreateOfferRequest is the admin payload for creating an offer
type CreateOfferRequest struct {
	Code              string       `json:"code" binding:"required"`
	Description       string       `json:"description"`
	DiscountType      DiscountType `json:"discount_type" binding:"required,oneof=PERCENTAGE FIXED"`
	DiscountValue     int64        `json:"discount_value" binding:"required,min=1"`
	MinBookingAmount  int64        `json:"min_booking_amount"`
	MaxDiscountAmount *int64       `json:"max_discount_amount"`
	ValidFrom         time.Time    `json:"valid_from" binding:"required"`
	ValidUntil        time.Time    `json:"valid_until" binding:"required"`
	UsageLimit        *int         `json:"usage_limit"`
}
