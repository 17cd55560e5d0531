package seats

import (
	"errors"
	"net/http"

	"cinebook/internal/shared/apperrors"
	"cinebook/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// LockSeats handles POST /seats/lock
func (c *Controller) LockSeats(ctx *gin.Context) {
	var req LockSeatsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	result, err := c.service.Acquire(ctx.Request.Context(), req)
	if err != nil {
		var conflict *apperrors.ConflictError
		if errors.As(err, &conflict) {
			// No partial grants survive a conflict, so the whole batch failed
			response.RespondJSON(ctx, "error", http.StatusConflict, conflict.Message, nil,
				map[string]interface{}{
					"failed_seats":      req.Seats,
					"conflicting_seats": conflict.Seats,
				})
			return
		}
		if apperrors.IsUpstreamUnavailable(err) {
			response.RespondJSON(ctx, "error", http.StatusServiceUnavailable, "Seat locking is temporarily unavailable", nil, err.Error())
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to lock seats", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Seats locked successfully", result, nil)
}

// UnlockSeats handles POST /seats/unlock
func (c *Controller) UnlockSeats(ctx *gin.Context) {
	var req UnlockSeatsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	result, err := c.service.Release(ctx.Request.Context(), req.ShowtimeID, req.Seats, req.SessionID)
	if err != nil {
		if apperrors.IsUpstreamUnavailable(err) {
			response.RespondJSON(ctx, "error", http.StatusServiceUnavailable, "Seat unlocking is temporarily unavailable", nil, err.Error())
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to unlock seats", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Seats unlocked successfully", result, nil)
}

// RefreshLocks handles POST /seats/refresh
func (c *Controller) RefreshLocks(ctx *gin.Context) {
	var req RefreshLocksRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	err := c.service.Refresh(ctx.Request.Context(), req.ShowtimeID, req.Seats, req.SessionID)
	if err != nil {
		if apperrors.IsValidation(err) {
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Failed to refresh locks", nil, err.Error())
			return
		}
		if apperrors.IsUpstreamUnavailable(err) {
			response.RespondJSON(ctx, "error", http.StatusServiceUnavailable, "Lock refresh is temporarily unavailable", nil, err.Error())
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to refresh locks", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Locks refreshed successfully", nil, nil)
}

// GetAvailability handles GET /seats/available/:showtimeId
func (c *Controller) GetAvailability(ctx *gin.Context) {
	showtimeID := ctx.Param("showtimeId")
	if showtimeID == "" {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Showtime ID is required", nil, "missing showtime ID")
		return
	}

	availability, err := c.service.GetAvailability(ctx.Request.Context(), showtimeID)
	if err != nil {
		if apperrors.IsUpstreamUnavailable(err) {
			response.RespondJSON(ctx, "error", http.StatusServiceUnavailable, "Availability is temporarily unavailable", nil, err.Error())
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get availability", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Availability retrieved successfully", availability, nil)
}
