package bookings

import (
	"context"
	"strings"
	"time"

	"cinebook/internal/notifications"
	"cinebook/internal/offers"
	"cinebook/internal/payments"
	"cinebook/internal/seats"
	"cinebook/internal/shared/apperrors"
	"cinebook/pkg/logger"

	"github.com/google/uuid"
)

// SeatReservations is the slice of the seat locking service the booking
// flow needs. Declared here to keep the dependency narrow.
type SeatReservations interface {
	Verify(ctx context.Context, showtimeID string, seatCodes []string, sessionID string) (bool, error)
	Release(ctx context.Context, showtimeID string, seatCodes []string, sessionID string) (*seats.ReleaseResult, error)
}

// CouponValidator is the slice of the offers service the booking flow needs
type CouponValidator interface {
	ValidateCoupon(ctx context.Context, code string, amountCents int64) (*offers.CouponValidation, error)
	RedeemBestEffort(ctx context.Context, code string)
}

// ShowtimeInfo carries the showtime details the booking flow prices and
// notifies with. Declared here to avoid a circular dependency with the
// movies package.
type ShowtimeInfo struct {
	ID          string
	MovieTitle  string
	TheaterName string
	ScreenName  string
	StartsAt    time.Time
	PriceCents  int64
}

type ShowtimeSource interface {
	GetShowtimeInfo(ctx context.Context, showtimeID string) (*ShowtimeInfo, error)
}

type Service interface {
	InitiatePayment(ctx context.Context, req CreatePaymentIntentRequest) (*CreatePaymentIntentResponse, error)
	Confirm(ctx context.Context, req ConfirmBookingRequest) (*Booking, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetByCustomerEmail(ctx context.Context, email string) ([]Booking, error)
}

type service struct {
	repo         Repository
	reservations SeatReservations
	authority    payments.Authority
	coupons      CouponValidator
	showtimes    ShowtimeSource
	publisher    notifications.Publisher
	log          *logger.Logger
}

func NewService(
	repo Repository,
	reservations SeatReservations,
	authority payments.Authority,
	coupons CouponValidator,
	showtimes ShowtimeSource,
	publisher notifications.Publisher,
) Service {
	return &service{
		repo:         repo,
		reservations: reservations,
		authority:    authority,
		coupons:      coupons,
		showtimes:    showtimes,
		publisher:    publisher,
		log:          logger.GetDefault(),
	}
}

// InitiatePayment prices the requested seats and opens a payment intent.
// Seats already sold are rejected up front so the customer never pays for
// a seat they cannot get.
func (s *service) InitiatePayment(ctx context.Context, req CreatePaymentIntentRequest) (*CreatePaymentIntentResponse, error) {
	if err := s.rejectBookedSeats(ctx, req.ShowtimeID, req.Seats); err != nil {
		return nil, err
	}

	info, err := s.showtimes.GetShowtimeInfo(ctx, req.ShowtimeID)
	if err != nil {
		return nil, err
	}

	amount := info.PriceCents * int64(len(req.Seats))
	discount := s.applyCoupon(ctx, req.CouponCode, amount)
	if req.CouponCode != "" && discount < 0 {
		return nil, apperrors.NewValidationError("coupon_code", "coupon is not applicable to this booking")
	}
	final := amount - discount

	auth, err := s.authority.Authorize(ctx, final, "usd", map[string]string{
		"customer_name":  req.CustomerName,
		"customer_email": req.CustomerEmail,
		"showtime_id":    req.ShowtimeID,
		"seats":          strings.Join(req.Seats, ","),
	})
	if err != nil {
		return nil, err
	}

	s.log.LogPaymentIntentCreated(ctx, auth.ID, req.ShowtimeID, final)

	return &CreatePaymentIntentResponse{
		PaymentIntentID: auth.ID,
		ClientSecret:    auth.ClientSecret,
		Amount:          final,
		DiscountAmount:  discount,
	}, nil
}

// Confirm records a paid booking. The insert is the durability point:
// once it commits the booking stands, and everything after it (coupon
// redemption, the confirmation email, releasing the seat locks) is best
// effort.
func (s *service) Confirm(ctx context.Context, req ConfirmBookingRequest) (*Booking, error) {
	if err := s.rejectBookedSeats(ctx, req.ShowtimeID, req.Seats); err != nil {
		return nil, err
	}

	if req.SessionID != "" {
		owned, err := s.reservations.Verify(ctx, req.ShowtimeID, req.Seats, req.SessionID)
		if err != nil || !owned {
			// Payment already went through. An expired lock is not a
			// reason to strand the customer's money, so proceed and let
			// the unique index arbitrate.
			s.log.WarnWithContext(ctx, "seat locks not verifiable at confirmation", map[string]interface{}{
				"showtime_id": req.ShowtimeID,
				"session_id":  req.SessionID,
			})
		}
	}

	info, err := s.showtimes.GetShowtimeInfo(ctx, req.ShowtimeID)
	if err != nil {
		return nil, err
	}

	amount := info.PriceCents * int64(len(req.Seats))
	discount := s.applyCoupon(ctx, req.CouponCode, amount)
	if discount < 0 {
		discount = 0
	}

	booking := &Booking{
		ShowtimeID:      req.ShowtimeID,
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		TotalAmount:     amount - discount,
		DiscountAmount:  discount,
		CouponCode:      req.CouponCode,
		PaymentStatus:   PaymentStatusPaid,
		PaymentIntentID: req.PaymentIntentID,
	}
	for _, code := range req.Seats {
		booking.Seats = append(booking.Seats, BookingSeat{
			ShowtimeID: req.ShowtimeID,
			SeatCode:   code,
		})
	}

	if err := s.repo.InsertPaid(ctx, booking); err != nil {
		return nil, err
	}

	s.log.LogBookingConfirmed(ctx, booking.ID.String(), req.ShowtimeID, req.Seats)

	// Only a coupon that actually discounted this booking consumes a use
	if req.CouponCode != "" && discount > 0 {
		s.coupons.RedeemBestEffort(ctx, req.CouponCode)
	}

	go s.notifyConfirmation(booking, info)

	if req.SessionID != "" {
		if _, err := s.reservations.Release(ctx, req.ShowtimeID, req.Seats, req.SessionID); err != nil {
			s.log.WarnWithContext(ctx, "failed to release seat locks after confirmation", map[string]interface{}{
				"showtime_id": req.ShowtimeID,
				"session_id":  req.SessionID,
				"error":       err.Error(),
			})
		}
	}

	return booking, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetByCustomerEmail(ctx context.Context, email string) ([]Booking, error) {
	return s.repo.GetByCustomerEmail(ctx, email)
}

// rejectBookedSeats fails with a conflict naming any requested seat that
// is already sold
func (s *service) rejectBookedSeats(ctx context.Context, showtimeID string, seatCodes []string) error {
	booked, err := s.repo.QueryPaidSeats(ctx, showtimeID)
	if err != nil {
		return apperrors.NewUpstreamUnavailable("booking store", err)
	}

	var taken []string
	for _, code := range seatCodes {
		if _, ok := booked[code]; ok {
			taken = append(taken, code)
		}
	}
	if len(taken) > 0 {
		return apperrors.NewConflictError(taken, "seats already booked for this showtime")
	}
	return nil
}

// applyCoupon returns the discount in cents. A validator failure is
// treated as no discount; an explicitly rejected coupon returns -1 so the
// caller can tell the two apart.
func (s *service) applyCoupon(ctx context.Context, code string, amountCents int64) int64 {
	if code == "" {
		return 0
	}

	validation, err := s.coupons.ValidateCoupon(ctx, code, amountCents)
	if err != nil {
		s.log.WarnWithContext(ctx, "coupon validation unavailable, proceeding without discount", map[string]interface{}{
			"coupon_code": code,
			"error":       err.Error(),
		})
		return 0
	}
	if !validation.Valid {
		s.log.WarnWithContext(ctx, "coupon rejected", map[string]interface{}{
			"coupon_code": code,
			"reason":      validation.Reason,
		})
		return -1
	}
	return validation.DiscountAmount
}

// notifyConfirmation publishes the confirmation email event. It runs off
// the request context because the booking is already durable and the
// response must not wait on Kafka.
func (s *service) notifyConfirmation(booking *Booking, info *ShowtimeInfo) {
	if s.publisher == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	notification := notifications.NewBookingNotification(booking.ID, booking.CustomerEmail, booking.CustomerName)
	notification.ShowtimeID = booking.ShowtimeID
	notification.MovieTitle = info.MovieTitle
	notification.TheaterName = info.TheaterName
	notification.ScreenName = info.ScreenName
	notification.ShowtimeStart = info.StartsAt
	notification.Seats = booking.SeatCodes()
	notification.TotalAmount = booking.TotalAmount
	notification.DiscountAmount = booking.DiscountAmount

	if err := s.publisher.PublishBookingConfirmation(ctx, notification); err != nil {
		s.log.WarnWithContext(ctx, "failed to publish booking confirmation", map[string]interface{}{
			"booking_id": booking.ID.String(),
			"error":      err.Error(),
		})
	}
}
