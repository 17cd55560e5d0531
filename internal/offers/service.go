package offers

import (
	"context"
	"time"

	"cinebook/internal/shared/apperrors"
	"cinebook/pkg/logger"

	"github.com/google/uuid"
)

type Service interface {
	ValidateCoupon(ctx context.Context, code string, amountCents int64) (*CouponValidation, error)
	RedeemBestEffort(ctx context.Context, code string)
	ListActive(ctx context.Context) ([]Offer, error)
	CreateOffer(ctx context.Context, req CreateOfferRequest) (*Offer, error)
	DeleteOffer(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
	log  *logger.Logger
}

func NewService(repo Repository) Service {
	return &service{
		repo: repo,
		log:  logger.GetDefault(),
	}
}

// ValidateCoupon checks a code against an order amount and computes the
// discount. An inapplicable coupon comes back as Valid=false with a reason;
// only repository failures surface as errors.
func (s *service) ValidateCoupon(ctx context.Context, code string, amountCents int64) (*CouponValidation, error) {
	if amountCents <= 0 {
		return nil, apperrors.NewValidationError("amount", "amount must be positive")
	}

	offer, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return invalid(code, "coupon code not found"), nil
		}
		return nil, err
	}

	if !offer.IsActive {
		return invalid(code, "coupon is not active"), nil
	}
	if !offer.IsWithinValidity(time.Now()) {
		return invalid(code, "coupon is outside its validity window"), nil
	}
	if offer.IsExhausted() {
		return invalid(code, "coupon usage limit reached"), nil
	}
	if amountCents < offer.MinBookingAmount {
		return invalid(code, "booking amount below coupon minimum"), nil
	}

	discount := computeDiscount(offer, amountCents)

	return &CouponValidation{
		Valid:          true,
		Code:           offer.Code,
		DiscountAmount: discount,
		FinalAmount:    amountCents - discount,
	}, nil
}

// RedeemBestEffort records one use of the coupon. The booking has already
// been paid for by the time this runs, so failures are logged and swallowed.
func (s *service) RedeemBestEffort(ctx context.Context, code string) {
	if code == "" {
		return
	}
	if err := s.repo.IncrementUsage(ctx, code); err != nil {
		s.log.WarnWithContext(ctx, "failed to record coupon redemption", map[string]interface{}{
			"coupon_code": code,
			"error":       err.Error(),
		})
	}
}

func (s *service) ListActive(ctx context.Context) ([]Offer, error) {
	return s.repo.ListActive(ctx)
}

func (s *service) CreateOffer(ctx context.Context, req CreateOfferRequest) (*Offer, error) {
	if !req.ValidUntil.After(req.ValidFrom) {
		return nil, apperrors.NewValidationError("valid_until", "valid_until must be after valid_from")
	}
	if req.DiscountType == DiscountTypePercentage && req.DiscountValue > 100 {
		return nil, apperrors.NewValidationError("discount_value", "percentage discount cannot exceed 100")
	}

	offer := &Offer{
		Code:              req.Code,
		Description:       req.Description,
		DiscountType:      req.DiscountType,
		DiscountValue:     req.DiscountValue,
		MinBookingAmount:  req.MinBookingAmount,
		MaxDiscountAmount: req.MaxDiscountAmount,
		ValidFrom:         req.ValidFrom,
		ValidUntil:        req.ValidUntil,
		IsActive:          true,
		UsageLimit:        req.UsageLimit,
	}

	if err := s.repo.Create(ctx, offer); err != nil {
		return nil, err
	}
	return offer, nil
}

func (s *service) DeleteOffer(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func invalid(code, reason string) *CouponValidation {
	return &CouponValidation{Valid: false, Code: code, Reason: reason}
}

// computeDiscount applies the offer to an amount, capping percentage
// discounts at MaxDiscountAmount and clamping so the total never goes
// negative.
func computeDiscount(offer *Offer, amountCents int64) int64 {
	var discount int64
	switch offer.DiscountType {
	case DiscountTypePercentage:
		discount = amountCents * offer.DiscountValue / 100
		if offer.MaxDiscountAmount != nil && discount > *offer.MaxDiscountAmount {
			discount = *offer.MaxDiscountAmount
		}
	case DiscountTypeFixed:
		discount = offer.DiscountValue
	}
	if discount > amountCents {
		discount = amountCents
	}
	return discount
}
