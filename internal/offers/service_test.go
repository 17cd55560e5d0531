package offers

import (
	"context"
	"errors"
	"testing"
	"time"

	"cinebook/internal/shared/apperrors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) GetByCode(ctx context.Context, code string) (*Offer, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Offer), args.Error(1)
}

func (m *mockRepository) ListActive(ctx context.Context) ([]Offer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Offer), args.Error(1)
}

func (m *mockRepository) Create(ctx context.Context, offer *Offer) error {
	args := m.Called(ctx, offer)
	return args.Error(0)
}

func (m *mockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockRepository) IncrementUsage(ctx context.Context, code string) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func activeOffer() *Offer {
	return &Offer{
		ID:            uuid.New(),
		Code:          "SUMMER20",
		DiscountType:  DiscountTypePercentage,
		DiscountValue: 20,
		ValidFrom:     time.Now().Add(-24 * time.Hour),
		ValidUntil:    time.Now().Add(24 * time.Hour),
		IsActive:      true,
	}
}

func TestValidateCoupon_PercentageDiscount(t *testing.T) {
	repo := new(mockRepository)
	repo.On("GetByCode", mock.Anything, "SUMMER20").Return(activeOffer(), nil)

	svc := NewService(repo)
	validation, err := svc.ValidateCoupon(context.Background(), "SUMMER20", 5000)

	require.NoError(t, err)
	assert.True(t, validation.Valid)
	assert.Equal(t, int64(1000), validation.DiscountAmount)
	assert.Equal(t, int64(4000), validation.FinalAmount)
	repo.AssertExpectations(t)
}

func TestValidateCoupon_PercentageCappedAtMax(t *testing.T) {
	offer := activeOffer()
	maxDiscount := int64(500)
	offer.MaxDiscountAmount = &maxDiscount

	repo := new(mockRepository)
	repo.On("GetByCode", mock.Anything, "SUMMER20").Return(offer, nil)

	svc := NewService(repo)
	validation, err := svc.ValidateCoupon(context.Background(), "SUMMER20", 5000)

	require.NoError(t, err)
	assert.True(t, validation.Valid)
	assert.Equal(t, int64(500), validation.DiscountAmount)
	assert.Equal(t, int64(4500), validation.FinalAmount)
}

func TestValidateCoupon_FixedDiscountClampedToAmount(t *testing.T) {
	offer := activeOffer()
	offer.Code = "FLAT10"
	offer.DiscountType = DiscountTypeFixed
	offer.DiscountValue = 1000

	repo := new(mockRepository)
	repo.On("GetByCode", mock.Anything, "FLAT10").Return(offer, nil)

	svc := NewService(repo)
	validation, err := svc.ValidateCoupon(context.Background(), "FLAT10", 600)

	require.NoError(t, err)
	assert.True(t, validation.Valid)
	assert.Equal(t, int64(600), validation.DiscountAmount)
	assert.Equal(t, int64(0), validation.FinalAmount)
}

func TestValidateCoupon_UnknownCodeIsInvalidNotError(t *testing.T) {
	repo := new(mockRepository)
	repo.On("GetByCode", mock.Anything, "NOPE").Return(nil, apperrors.NewNotFoundError("offer", "NOPE"))

	svc := NewService(repo)
	validation, err := svc.ValidateCoupon(context.Background(), "NOPE", 5000)

	require.NoError(t, err)
	assert.False(t, validation.Valid)
	assert.Equal(t, "coupon code not found", validation.Reason)
}

func TestValidateCoupon_ExhaustedUsageLimit(t *testing.T) {
	offer := activeOffer()
	limit := 100
	offer.UsageLimit = &limit
	offer.UsedCount = 100

	repo := new(mockRepository)
	repo.On("GetByCode", mock.Anything, "SUMMER20").Return(offer, nil)

	svc := NewService(repo)
	validation, err := svc.ValidateCoupon(context.Background(), "SUMMER20", 5000)

	require.NoError(t, err)
	assert.False(t, validation.Valid)
	assert.Equal(t, "coupon usage limit reached", validation.Reason)
}

func TestValidateCoupon_ExpiredWindow(t *testing.T) {
	offer := activeOffer()
	offer.ValidFrom = time.Now().Add(-48 * time.Hour)
	offer.ValidUntil = time.Now().Add(-24 * time.Hour)

	repo := new(mockRepository)
	repo.On("GetByCode", mock.Anything, "SUMMER20").Return(offer, nil)

	svc := NewService(repo)
	validation, err := svc.ValidateCoupon(context.Background(), "SUMMER20", 5000)

	require.NoError(t, err)
	assert.False(t, validation.Valid)
	assert.Equal(t, "coupon is outside its validity window", validation.Reason)
}

func TestValidateCoupon_BelowMinimumAmount(t *testing.T) {
	offer := activeOffer()
	offer.MinBookingAmount = 10000

	repo := new(mockRepository)
	repo.On("GetByCode", mock.Anything, "SUMMER20").Return(offer, nil)

	svc := NewService(repo)
	validation, err := svc.ValidateCoupon(context.Background(), "SUMMER20", 5000)

	require.NoError(t, err)
	assert.False(t, validation.Valid)
	assert.Equal(t, "booking amount below coupon minimum", validation.Reason)
}

func TestValidateCoupon_RepositoryFailureSurfaces(t *testing.T) {
	repo := new(mockRepository)
	repo.On("GetByCode", mock.Anything, "SUMMER20").Return(nil, errors.New("connection refused"))

	svc := NewService(repo)
	_, err := svc.ValidateCoupon(context.Background(), "SUMMER20", 5000)

	require.Error(t, err)
}

func TestRedeemBestEffort_SwallowsFailure(t *testing.T) {
	repo := new(mockRepository)
	repo.On("IncrementUsage", mock.Anything, "SUMMER20").Return(errors.New("connection refused"))

	svc := NewService(repo)
	assert.NotPanics(t, func() {
		svc.RedeemBestEffort(context.Background(), "SUMMER20")
	})
	repo.AssertExpectations(t)
}

func TestRedeemBestEffort_SkipsEmptyCode(t *testing.T) {
	repo := new(mockRepository)

	svc := NewService(repo)
	svc.RedeemBestEffort(context.Background(), "")

	repo.AssertNotCalled(t, "IncrementUsage", mock.Anything, mock.Anything)
}

func TestCreateOffer_RejectsInvertedWindow(t *testing.T) {
	repo := new(mockRepository)

	svc := NewService(repo)
	_, err := svc.CreateOffer(context.Background(), CreateOfferRequest{
		Code:          "BADWIN",
		DiscountType:  DiscountTypeFixed,
		DiscountValue: 500,
		ValidFrom:     time.Now().Add(24 * time.Hour),
		ValidUntil:    time.Now(),
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestCreateOffer_RejectsPercentageOver100(t *testing.T) {
	repo := new(mockRepository)

	svc := NewService(repo)
	_, err := svc.CreateOffer(context.Background(), CreateOfferRequest{
		Code:          "TOOBIG",
		DiscountType:  DiscountTypePercentage,
		DiscountValue: 150,
		ValidFrom:     time.Now(),
		ValidUntil:    time.Now().Add(24 * time.Hour),
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}
