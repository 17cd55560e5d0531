package movies

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

// ListMovies godoc
// @Summary List movies currently showing
// @Tags movies
// @Produce json
// @Success 200 {object} response.StandardApiResponse
// @Router /movies [get]
func (ctrl *Controller) ListMovies(ctx *gin.Context) {
	movies, err := ctrl.service.ListMovies(ctx.Request.Context())
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list movies", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Movies retrieved", movies, nil)
}

// GetMovie godoc
// @Summary Fetch a movie by ID
// @Tags movies
// @Produce json
// @Param id path string true "Movie ID"
// @Success 200 {object} response.StandardApiResponse
// @Failure 404 {object} response.StandardApiResponse
// @Router /movies/{id} [get]
func (ctrl *Controller) GetMovie(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid movie ID", nil, nil)
		return
	}

	movie, err := ctrl.service.GetMovie(ctx.Request.Context(), id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Movie not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to fetch movie", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Movie retrieved", movie, nil)
}

// ListShowtimes godoc
// @Summary List upcoming showtimes for a movie
// @Tags movies
// @Produce json
// @Param id path string true "Movie ID"
// @Success 200 {object} response.StandardApiResponse
// @Router /movies/{id}/showtimes [get]
func (ctrl *Controller) ListShowtimes(ctx *gin.Context) {
	movieID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid movie ID", nil, nil)
		return
	}

	showtimes, err := ctrl.service.ListShowtimes(ctx.Request.Context(), movieID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list showtimes", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Showtimes retrieved", showtimes, nil)
}

// GetShowtime godoc
// @Summary Fetch a showtime by ID
// @Tags movies
// @Produce json
// @Param id path string true "Showtime ID"
// @Success 200 {object} response.StandardApiResponse
// @Failure 404 {object} response.StandardApiResponse
// @Router /showtimes/{id} [get]
func (ctrl *Controller) GetShowtime(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid showtime ID", nil, nil)
		return
	}

	showtime, err := ctrl.service.GetShowtime(ctx.Request.Context(), id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Showtime not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to fetch showtime", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Showtime retrieved", showtime, nil)
}

// CreateMovie godoc
// @Summary Create a movie (admin)
// @Tags movies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateMovieRequest true "Movie details"
// @Success 201 {object} response.StandardApiResponse
// @Router /admin/movies [post]
func (ctrl *Controller) CreateMovie(ctx *gin.Context) {
	var req CreateMovieRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	movie, err := ctrl.service.CreateMovie(ctx.Request.Context(), req)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to create movie", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Movie created successfully", movie, nil)
}

// UpdateMovie godoc
// @Summary Update a movie (admin)
// @Tags movies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Movie ID"
// @Param request body UpdateMovieRequest true "Fields to update"
// @Success 200 {object} response.StandardApiResponse
// @Failure 404 {object} response.StandardApiResponse
// @Router /admin/movies/{id} [put]
func (ctrl *Controller) UpdateMovie(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid movie ID", nil, nil)
		return
	}

	var req UpdateMovieRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	movie, err := ctrl.service.UpdateMovie(ctx.Request.Context(), id, req)
	if err != nil {
		if apperrors.IsNotFound(err) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Movie not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to update movie", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Movie updated successfully", movie, nil)
}

// DeleteMovie godoc
// @Summary Delete a movie (admin)
// @Tags movies
// @Produce json
// @Security BearerAuth
// @Param id path string true "Movie ID"
// @Success 200 {object} response.StandardApiResponse
// @Failure 404 {object} response.StandardApiResponse
// @Router /admin/movies/{id} [delete]
func (ctrl *Controller) DeleteMovie(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid movie ID", nil, nil)
		return
	}

	if err := ctrl.service.DeleteMovie(ctx.Request.Context(), id); err != nil {
		if apperrors.IsNotFound(err) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Movie not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to delete movie", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Movie deleted successfully", nil, nil)
}

// CreateShowtime godoc
// @Summary Schedule a showtime (admin)
// @Tags movies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateShowtimeRequest true "Showtime details"
// @Success 201 {object} response.StandardApiResponse
// @Router /admin/showtimes [post]
func (ctrl *Controller) CreateShowtime(ctx *gin.Context) {
	var req CreateShowtimeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	showtime, err := ctrl.service.CreateShowtime(ctx.Request.Context(), req)
	if err != nil {
		switch {
		case apperrors.IsValidation(err):
			response.RespondJSON(ctx, "error", http.StatusBadRequest, err.Error(), nil, nil)
		case apperrors.IsNotFound(err):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Movie not found", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to create showtime", nil, err.Error())
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Showtime created successfully", showtime, nil)
}

// DeleteShowtime godoc
// @Summary Delete a showtime (admin)
// @Tags movies
// @Produce json
// @Security BearerAuth
// @Param id path string true "Showtime ID"
// @Success 200 {object} response.StandardApiResponse
// @Failure 404 {object} response.StandardApiResponse
// @Router /admin/showtimes/{id} [delete]
func (ctrl *Controller) DeleteShowtime(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid showtime ID", nil, nil)
		return
	}

	if err := ctrl.service.DeleteShowtime(ctx.Request.Context(), id); err != nil {
		if apperrors.IsNotFound(err) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Showtime not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to delete showtime", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Showtime deleted successfully", nil, nil)
}
