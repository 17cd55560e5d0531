package bookings

import (
	"context"
	"errors"
	"testing"
	"time"

	"cinebook/internal/notifications"
	"cinebook/internal/offers"
	"cinebook/internal/payments"
	"cinebook/internal/seats"
	"cinebook/internal/shared/apperrors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) InsertPaid(ctx context.Context, booking *Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *mockRepository) QueryPaidSeats(ctx context.Context, showtimeID string) (map[string]struct{}, error) {
	args := m.Called(ctx, showtimeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]struct{}), args.Error(1)
}

func (m *mockRepository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *mockRepository) GetByCustomerEmail(ctx context.Context, email string) ([]Booking, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Booking), args.Error(1)
}

type mockReservations struct {
	mock.Mock
}

func (m *mockReservations) Verify(ctx context.Context, showtimeID string, seatCodes []string, sessionID string) (bool, error) {
	args := m.Called(ctx, showtimeID, seatCodes, sessionID)
	return args.Bool(0), args.Error(1)
}

func (m *mockReservations) Release(ctx context.Context, showtimeID string, seatCodes []string, sessionID string) (*seats.ReleaseResult, error) {
	args := m.Called(ctx, showtimeID, seatCodes, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*seats.ReleaseResult), args.Error(1)
}

type mockAuthority struct {
	mock.Mock
}

func (m *mockAuthority) Authorize(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*payments.Authorization, error) {
	args := m.Called(ctx, amountCents, currency, metadata)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payments.Authorization), args.Error(1)
}

type mockCoupons struct {
	mock.Mock
}

func (m *mockCoupons) ValidateCoupon(ctx context.Context, code string, amountCents int64) (*offers.CouponValidation, error) {
	args := m.Called(ctx, code, amountCents)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*offers.CouponValidation), args.Error(1)
}

func (m *mockCoupons) RedeemBestEffort(ctx context.Context, code string) {
	m.Called(ctx, code)
}

type mockShowtimes struct {
	mock.Mock
}

func (m *mockShowtimes) GetShowtimeInfo(ctx context.Context, showtimeID string) (*ShowtimeInfo, error) {
	args := m.Called(ctx, showtimeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ShowtimeInfo), args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishBookingConfirmation(ctx context.Context, notification *notifications.BookingNotification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

type serviceDeps struct {
	repo         *mockRepository
	reservations *mockReservations
	authority    *mockAuthority
	coupons      *mockCoupons
	showtimes    *mockShowtimes
	publisher    *mockPublisher
}

func newTestService() (Service, *serviceDeps) {
	deps := &serviceDeps{
		repo:         new(mockRepository),
		reservations: new(mockReservations),
		authority:    new(mockAuthority),
		coupons:      new(mockCoupons),
		showtimes:    new(mockShowtimes),
		publisher:    new(mockPublisher),
	}
	svc := NewService(deps.repo, deps.reservations, deps.authority, deps.coupons, deps.showtimes, deps.publisher)
	return svc, deps
}

func testShowtime() *ShowtimeInfo {
	return &ShowtimeInfo{
		ID:          "show-1",
		MovieTitle:  "Interstellar",
		TheaterName: "Grand Cinema",
		ScreenName:  "IMAX 1",
		StartsAt:    time.Now().Add(48 * time.Hour),
		PriceCents:  1500,
	}
}

func noBookedSeats() map[string]struct{} {
	return map[string]struct{}{}
}

func TestInitiatePayment_Success(t *testing.T) {
	svc, deps := newTestService()

	deps.repo.On("QueryPaidSeats", mock.Anything, "show-1").Return(noBookedSeats(), nil)
	deps.showtimes.On("GetShowtimeInfo", mock.Anything, "show-1").Return(testShowtime(), nil)
	deps.authority.On("Authorize", mock.Anything, int64(3000), "usd", mock.Anything).
		Return(&payments.Authorization{ID: "pi_123", ClientSecret: "pi_123_secret"}, nil)

	result, err := svc.InitiatePayment(context.Background(), CreatePaymentIntentRequest{
		ShowtimeID:    "show-1",
		Seats:         []string{"A1", "A2"},
		CustomerName:  "Ada",
		CustomerEmail: "ada@example.com",
	})

	require.NoError(t, err)
	assert.Equal(t, "pi_123", result.PaymentIntentID)
	assert.Equal(t, "pi_123_secret", result.ClientSecret)
	assert.Equal(t, int64(3000), result.Amount)
	assert.Equal(t, int64(0), result.DiscountAmount)
	deps.authority.AssertExpectations(t)
}

func TestInitiatePayment_RejectsAlreadyBookedSeats(t *testing.T) {
	svc, deps := newTestService()

	deps.repo.On("QueryPaidSeats", mock.Anything, "show-1").
		Return(map[string]struct{}{"A2": {}}, nil)

	_, err := svc.InitiatePayment(context.Background(), CreatePaymentIntentRequest{
		ShowtimeID:    "show-1",
		Seats:         []string{"A1", "A2"},
		CustomerName:  "Ada",
		CustomerEmail: "ada@example.com",
	})

	require.Error(t, err)
	var conflict *apperrors.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, []string{"A2"}, conflict.Seats)
	deps.authority.AssertNotCalled(t, "Authorize", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestInitiatePayment_AppliesCouponDiscount(t *testing.T) {
	svc, deps := newTestService()

	deps.repo.On("QueryPaidSeats", mock.Anything, "show-1").Return(noBookedSeats(), nil)
	deps.showtimes.On("GetShowtimeInfo", mock.Anything, "show-1").Return(testShowtime(), nil)
	deps.coupons.On("ValidateCoupon", mock.Anything, "SUMMER20", int64(3000)).
		Return(&offers.CouponValidation{Valid: true, Code: "SUMMER20", DiscountAmount: 600, FinalAmount: 2400}, nil)
	deps.authority.On("Authorize", mock.Anything, int64(2400), "usd", mock.Anything).
		Return(&payments.Authorization{ID: "pi_123", ClientSecret: "pi_123_secret"}, nil)

	result, err := svc.InitiatePayment(context.Background(), CreatePaymentIntentRequest{
		ShowtimeID:    "show-1",
		Seats:         []string{"A1", "A2"},
		CustomerName:  "Ada",
		CustomerEmail: "ada@example.com",
		CouponCode:    "SUMMER20",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(2400), result.Amount)
	assert.Equal(t, int64(600), result.DiscountAmount)
}

func TestInitiatePayment_CouponOutageDoesNotBlockPayment(t *testing.T) {
	svc, deps := newTestService()

	deps.repo.On("QueryPaidSeats", mock.Anything, "show-1").Return(noBookedSeats(), nil)
	deps.showtimes.On("GetShowtimeInfo", mock.Anything, "show-1").Return(testShowtime(), nil)
	deps.coupons.On("ValidateCoupon", mock.Anything, "SUMMER20", int64(3000)).
		Return(nil, errors.New("connection refused"))
	deps.authority.On("Authorize", mock.Anything, int64(3000), "usd", mock.Anything).
		Return(&payments.Authorization{ID: "pi_123", ClientSecret: "pi_123_secret"}, nil)

	result, err := svc.InitiatePayment(context.Background(), CreatePaymentIntentRequest{
		ShowtimeID:    "show-1",
		Seats:         []string{"A1", "A2"},
		CustomerName:  "Ada",
		CustomerEmail: "ada@example.com",
		CouponCode:    "SUMMER20",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(3000), result.Amount)
	assert.Equal(t, int64(0), result.DiscountAmount)
}

func TestInitiatePayment_RejectedCouponFailsValidation(t *testing.T) {
	svc, deps := newTestService()

	deps.repo.On("QueryPaidSeats", mock.Anything, "show-1").Return(noBookedSeats(), nil)
	deps.showtimes.On("GetShowtimeInfo", mock.Anything, "show-1").Return(testShowtime(), nil)
	deps.coupons.On("ValidateCoupon", mock.Anything, "EXPIRED", int64(3000)).
		Return(&offers.CouponValidation{Valid: false, Code: "EXPIRED", Reason: "coupon is outside its validity window"}, nil)

	_, err := svc.InitiatePayment(context.Background(), CreatePaymentIntentRequest{
		ShowtimeID:    "show-1",
		Seats:         []string{"A1", "A2"},
		CustomerName:  "Ada",
		CustomerEmail: "ada@example.com",
		CouponCode:    "EXPIRED",
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	deps.authority.AssertNotCalled(t, "Authorize", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestInitiatePayment_FailsClosedOnStoreError(t *testing.T) {
	svc, deps := newTestService()

	deps.repo.On("QueryPaidSeats", mock.Anything, "show-1").Return(nil, errors.New("connection refused"))

	_, err := svc.InitiatePayment(context.Background(), CreatePaymentIntentRequest{
		ShowtimeID:    "show-1",
		Seats:         []string{"A1"},
		CustomerName:  "Ada",
		CustomerEmail: "ada@example.com",
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsUpstreamUnavailable(err))
}

func confirmRequest() ConfirmBookingRequest {
	return ConfirmBookingRequest{
		ShowtimeID:      "show-1",
		Seats:           []string{"A1", "A2"},
		SessionID:       "sess-1",
		PaymentIntentID: "pi_123",
		CustomerName:    "Ada",
		CustomerEmail:   "ada@example.com",
	}
}

func TestConfirm_Success(t *testing.T) {
	svc, deps := newTestService()

	published := make(chan *notifications.BookingNotification, 1)

	deps.repo.On("QueryPaidSeats", mock.Anything, "show-1").Return(noBookedSeats(), nil)
	deps.reservations.On("Verify", mock.Anything, "show-1", []string{"A1", "A2"}, "sess-1").Return(true, nil)
	deps.showtimes.On("GetShowtimeInfo", mock.Anything, "show-1").Return(testShowtime(), nil)
	deps.repo.On("InsertPaid", mock.Anything, mock.Anything).Return(nil)
	deps.publisher.On("PublishBookingConfirmation", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			published <- args.Get(1).(*notifications.BookingNotification)
		}).Return(nil)
	deps.reservations.On("Release", mock.Anything, "show-1", []string{"A1", "A2"}, "sess-1").
		Return(&seats.ReleaseResult{Released: []string{"A1", "A2"}}, nil)

	booking, err := svc.Confirm(context.Background(), confirmRequest())

	require.NoError(t, err)
	assert.Equal(t, PaymentStatusPaid, booking.PaymentStatus)
	assert.Equal(t, int64(3000), booking.TotalAmount)
	assert.Equal(t, []string{"A1", "A2"}, booking.SeatCodes())

	select {
	case notification := <-published:
		assert.Equal(t, "ada@example.com", notification.RecipientEmail)
		assert.Equal(t, "Interstellar", notification.MovieTitle)
		assert.Equal(t, []string{"A1", "A2"}, notification.Seats)
	case <-time.After(2 * time.Second):
		t.Fatal("confirmation notification was not published")
	}

	deps.reservations.AssertExpectations(t)
}

func TestConfirm_InsertRaceSurfacesConflict(t *testing.T) {
	svc, deps := newTestService()

	deps.repo.On("QueryPaidSeats", mock.Anything, "show-1").Return(noBookedSeats(), nil)
	deps.reservations.On("Verify", mock.Anything, "show-1", []string{"A1", "A2"}, "sess-1").Return(true, nil)
	deps.showtimes.On("GetShowtimeInfo", mock.Anything, "show-1").Return(testShowtime(), nil)
	deps.repo.On("InsertPaid", mock.Anything, mock.Anything).
		Return(apperrors.NewConflictError([]string{"A1", "A2"}, "one or more seats were already booked"))

	_, err := svc.Confirm(context.Background(), confirmRequest())

	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
	deps.publisher.AssertNotCalled(t, "PublishBookingConfirmation", mock.Anything, mock.Anything)
}

func TestConfirm_UnverifiableLocksAreWarningOnly(t *testing.T) {
	svc, deps := newTestService()

	deps.repo.On("QueryPaidSeats", mock.Anything, "show-1").Return(noBookedSeats(), nil)
	deps.reservations.On("Verify", mock.Anything, "show-1", []string{"A1", "A2"}, "sess-1").Return(false, nil)
	deps.showtimes.On("GetShowtimeInfo", mock.Anything, "show-1").Return(testShowtime(), nil)
	deps.repo.On("InsertPaid", mock.Anything, mock.Anything).Return(nil)
	deps.publisher.On("PublishBookingConfirmation", mock.Anything, mock.Anything).Return(nil)
	deps.reservations.On("Release", mock.Anything, "show-1", []string{"A1", "A2"}, "sess-1").
		Return(&seats.ReleaseResult{Released: []string{"A1", "A2"}}, nil)

	booking, err := svc.Confirm(context.Background(), confirmRequest())

	require.NoError(t, err)
	assert.Equal(t, PaymentStatusPaid, booking.PaymentStatus)
}

func TestConfirm_RedeemsCouponAfterInsert(t *testing.T) {
	svc, deps := newTestService()

	req := confirmRequest()
	req.CouponCode = "SUMMER20"

	deps.repo.On("QueryPaidSeats", mock.Anything, "show-1").Return(noBookedSeats(), nil)
	deps.reservations.On("Verify", mock.Anything, "show-1", []string{"A1", "A2"}, "sess-1").Return(true, nil)
	deps.showtimes.On("GetShowtimeInfo", mock.Anything, "show-1").Return(testShowtime(), nil)
	deps.coupons.On("ValidateCoupon", mock.Anything, "SUMMER20", int64(3000)).
		Return(&offers.CouponValidation{Valid: true, Code: "SUMMER20", DiscountAmount: 600, FinalAmount: 2400}, nil)
	deps.repo.On("InsertPaid", mock.Anything, mock.Anything).Return(nil)
	deps.coupons.On("RedeemBestEffort", mock.Anything, "SUMMER20").Return()
	deps.publisher.On("PublishBookingConfirmation", mock.Anything, mock.Anything).Return(nil)
	deps.reservations.On("Release", mock.Anything, "show-1", []string{"A1", "A2"}, "sess-1").
		Return(&seats.ReleaseResult{Released: []string{"A1", "A2"}}, nil)

	booking, err := svc.Confirm(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, int64(2400), booking.TotalAmount)
	assert.Equal(t, int64(600), booking.DiscountAmount)
	deps.coupons.AssertCalled(t, "RedeemBestEffort", mock.Anything, "SUMMER20")
}

func TestConfirm_ExhaustedCouponDoesNotBlockBooking(t *testing.T) {
	svc, deps := newTestService()

	req := confirmRequest()
	req.CouponCode = "SUMMER20"

	deps.repo.On("QueryPaidSeats", mock.Anything, "show-1").Return(noBookedSeats(), nil)
	deps.reservations.On("Verify", mock.Anything, "show-1", []string{"A1", "A2"}, "sess-1").Return(true, nil)
	deps.showtimes.On("GetShowtimeInfo", mock.Anything, "show-1").Return(testShowtime(), nil)
	deps.coupons.On("ValidateCoupon", mock.Anything, "SUMMER20", int64(3000)).
		Return(&offers.CouponValidation{Valid: false, Code: "SUMMER20", Reason: "coupon usage limit reached"}, nil)
	deps.repo.On("InsertPaid", mock.Anything, mock.Anything).Return(nil)
	deps.publisher.On("PublishBookingConfirmation", mock.Anything, mock.Anything).Return(nil)
	deps.reservations.On("Release", mock.Anything, "show-1", []string{"A1", "A2"}, "sess-1").
		Return(&seats.ReleaseResult{Released: []string{"A1", "A2"}}, nil)

	booking, err := svc.Confirm(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, int64(3000), booking.TotalAmount)
	assert.Equal(t, int64(0), booking.DiscountAmount)
	// A coupon that granted no discount must not consume a use
	deps.coupons.AssertNotCalled(t, "RedeemBestEffort", mock.Anything, "SUMMER20")
}

func TestConfirm_PublishFailureDoesNotFailBooking(t *testing.T) {
	svc, deps := newTestService()

	published := make(chan struct{}, 1)

	deps.repo.On("QueryPaidSeats", mock.Anything, "show-1").Return(noBookedSeats(), nil)
	deps.reservations.On("Verify", mock.Anything, "show-1", []string{"A1", "A2"}, "sess-1").Return(true, nil)
	deps.showtimes.On("GetShowtimeInfo", mock.Anything, "show-1").Return(testShowtime(), nil)
	deps.repo.On("InsertPaid", mock.Anything, mock.Anything).Return(nil)
	deps.publisher.On("PublishBookingConfirmation", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { published <- struct{}{} }).
		Return(errors.New("kafka: broker not available"))
	deps.reservations.On("Release", mock.Anything, "show-1", []string{"A1", "A2"}, "sess-1").
		Return(&seats.ReleaseResult{Released: []string{"A1", "A2"}}, nil)

	_, err := svc.Confirm(context.Background(), confirmRequest())

	require.NoError(t, err)

	select {
	case <-published:
	case <-time.After(2 * time.Second):
		t.Fatal("publish attempt was not made")
	}
}
