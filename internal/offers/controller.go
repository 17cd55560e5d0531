package offers

import (
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

// ListActive godoc
// @Summary List active offers
// @Tags offers
// @Produce json
// @Success 200 {object} response.StandardApiResponse
// @Router /offers [get]
func (ctrl *Controller) ListActive(ctx *gin.Context) {
	offers, err := ctrl.service.ListActive(ctx.Request.Context())
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list offers", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Active offers retrieved", offers, nil)
}

// ValidateCoupon godoc
// @Summary Validate a coupon code against a booking amount
// @Tags offers
// @Accept json
// @Produce json
// @Param request body ValidateCouponRequest true "Code and amount in cents"
// @Success 200 {object} response.StandardApiResponse
// @Failure 400 {object} response.StandardApiResponse
// @Router /offers/validate [post]
func (ctrl *Controller) ValidateCoupon(ctx *gin.Context) {
	var req ValidateCouponRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	validation, err := ctrl.service.ValidateCoupon(ctx.Request.Context(), req.Code, req.Amount)
	if err != nil {
		if apperrors.IsValidation(err) {
			response.RespondJSON(ctx, "error", http.StatusBadRequest, err.Error(), nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to validate coupon", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Coupon validated", validation, nil)
}

// CreateOffer godoc
// @Summary Create a new offer (admin)
// @Tags offers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateOfferRequest true "Offer definition"
// @Success 201 {object} response.StandardApiResponse
// @Failure 400 {object} response.StandardApiResponse
// @Router /admin/offers [post]
func (ctrl *Controller) CreateOffer(ctx *gin.Context) {
	var req CreateOfferRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	offer, err := ctrl.service.CreateOffer(ctx.Request.Context(), req)
	if err != nil {
		if apperrors.IsValidation(err) {
			response.RespondJSON(ctx, "error", http.StatusBadRequest, err.Error(), nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to create offer", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Offer created successfully", offer, nil)
}

// DeleteOffer godoc
// @Summary Delete an offer (admin)
// @Tags offers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Offer ID"
// @Success 200 {object} response.StandardApiResponse
// @Failure 404 {object} response.StandardApiResponse
// @Router /admin/offers/{id} [delete]
func (ctrl *Controller) DeleteOffer(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid offer ID", nil, nil)
		return
	}

	if err := ctrl.service.DeleteOffer(ctx.Request.Context(), id); err != nil {
		if apperrors.IsNotFound(err) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Offer not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to delete offer", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Offer deleted successfully", nil, nil)
}
