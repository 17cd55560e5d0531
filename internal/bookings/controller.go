package bookings

import (
	"errors"
	"net/http"

	"cinebook/internal/shared/apperrors"
	"cinebook/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// CreatePaymentIntent godoc
// @Summary Price seats and open a payment intent
// @Tags bookings
// @Accept json
// @Produce json
// @Param request body CreatePaymentIntentRequest true "Showtime, seats and customer details"
// @Success 200 {object} response.StandardApiResponse
// @Failure 409 {object} response.StandardApiResponse
// @Failure 503 {object} response.StandardApiResponse
// @Router /bookings/create-payment-intent [post]
func (ctrl *Controller) CreatePaymentIntent(ctx *gin.Context) {
	var req CreatePaymentIntentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	result, err := ctrl.service.InitiatePayment(ctx.Request.Context(), req)
	if err != nil {
		ctrl.respondError(ctx, err, "Failed to create payment intent")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Payment intent created", result, nil)
}

// ConfirmBooking godoc
// @Summary Record a paid booking
// @Tags bookings
// @Accept json
// @Produce json
// @Param request body ConfirmBookingRequest true "Showtime, seats, payment intent and customer details"
// @Success 201 {object} response.StandardApiResponse
// @Failure 409 {object} response.StandardApiResponse
// @Failure 503 {object} response.StandardApiResponse
// @Router /bookings/confirm [post]
func (ctrl *Controller) ConfirmBooking(ctx *gin.Context) {
	var req ConfirmBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	booking, err := ctrl.service.Confirm(ctx.Request.Context(), req)
	if err != nil {
		ctrl.respondError(ctx, err, "Failed to confirm booking")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Booking confirmed", booking, nil)
}

// GetBooking godoc
// @Summary Fetch a booking by ID
// @Tags bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.StandardApiResponse
// @Failure 404 {object} response.StandardApiResponse
// @Router /bookings/{id} [get]
func (ctrl *Controller) GetBooking(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid booking ID", nil, nil)
		return
	}

	booking, err := ctrl.service.GetByID(ctx.Request.Context(), id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Booking not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to fetch booking", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking retrieved", booking, nil)
}

// ListBookings godoc
// @Summary List bookings for a customer email
// @Tags bookings
// @Produce json
// @Param email query string true "Customer email"
// @Success 200 {object} response.StandardApiResponse
// @Router /bookings [get]
func (ctrl *Controller) ListBookings(ctx *gin.Context) {
	email := ctx.Query("email")
	if email == "" {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "email query parameter is required", nil, nil)
		return
	}

	bookings, err := ctrl.service.GetByCustomerEmail(ctx.Request.Context(), email)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list bookings", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Bookings retrieved", bookings, nil)
}

func (ctrl *Controller) respondError(ctx *gin.Context, err error, fallback string) {
	var conflict *apperrors.ConflictError
	if errors.As(err, &conflict) {
		response.RespondJSON(ctx, "error", http.StatusConflict, conflict.Message, nil,
			map[string]interface{}{"failed_seats": conflict.Seats})
		return
	}

	switch {
	case apperrors.IsValidation(err):
		response.RespondJSON(ctx, "error", http.StatusBadRequest, err.Error(), nil, nil)
	case apperrors.IsNotFound(err):
		response.RespondJSON(ctx, "error", http.StatusNotFound, err.Error(), nil, nil)
	case apperrors.IsUpstreamUnavailable(err):
		response.RespondJSON(ctx, "error", http.StatusServiceUnavailable, "A dependent service is unavailable, please retry", nil, err.Error())
	default:
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, fallback, nil, err.Error())
	}
}
