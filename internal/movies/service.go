package movies

import (
	"context"
	"log"
	"time"

	"cinebook/internal/shared/apperrors"
	"cinebook/internal/shared/constants"
	"cinebook/pkg/cache"

	"github.com/google/uuid"
)

type Service interface {
	ListMovies(ctx context.Context) ([]Movie, error)
	GetMovie(ctx context.Context, id uuid.UUID) (*Movie, error)
	CreateMovie(ctx context.Context, req CreateMovieRequest) (*Movie, error)
	UpdateMovie(ctx context.Context, id uuid.UUID, req UpdateMovieRequest) (*Movie, error)
	DeleteMovie(ctx context.Context, id uuid.UUID) error

	ListShowtimes(ctx context.Context, movieID uuid.UUID) ([]Showtime, error)
	GetShowtime(ctx context.Context, id uuid.UUID) (*Showtime, error)
	CreateShowtime(ctx context.Context, req CreateShowtimeRequest) (*Showtime, error)
	DeleteShowtime(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo         Repository
	cacheService cache.Service
}

// NewService builds the catalog service. cacheService may be nil, in which
// case every read goes to the database.
func NewService(repo Repository, cacheService cache.Service) Service {
	return &service{
		repo:         repo,
		cacheService: cacheService,
	}
}

func (s *service) ListMovies(ctx context.Context) ([]Movie, error) {
	if s.cacheService == nil {
		return s.repo.ListActiveMovies(ctx)
	}

	var movies []Movie
	err := s.cacheService.GetOrSet(ctx, constants.CACHE_KEY_MOVIES_LIST, constants.TTL_MOVIES_LIST, func() (interface{}, error) {
		return s.repo.ListActiveMovies(ctx)
	}, &movies)
	if err != nil {
		// Cache trouble should not take the catalog down
		return s.repo.ListActiveMovies(ctx)
	}
	return movies, nil
}

func (s *service) GetMovie(ctx context.Context, id uuid.UUID) (*Movie, error) {
	if s.cacheService == nil {
		return s.repo.GetMovieByID(ctx, id)
	}

	var movie Movie
	err := s.cacheService.GetOrSet(ctx, constants.MovieDetailKey(id.String()), constants.TTL_MOVIE_DETAIL, func() (interface{}, error) {
		return s.repo.GetMovieByID(ctx, id)
	}, &movie)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, err
		}
		return s.repo.GetMovieByID(ctx, id)
	}
	return &movie, nil
}

func (s *service) CreateMovie(ctx context.Context, req CreateMovieRequest) (*Movie, error) {
	movie := &Movie{
		Title:       req.Title,
		Description: req.Description,
		Genre:       req.Genre,
		Rating:      req.Rating,
		DurationMin: req.DurationMin,
		PosterURL:   req.PosterURL,
		IsActive:    true,
	}
	if err := s.repo.CreateMovie(ctx, movie); err != nil {
		return nil, err
	}
	s.invalidateCatalogCache(ctx)
	return movie, nil
}

func (s *service) UpdateMovie(ctx context.Context, id uuid.UUID, req UpdateMovieRequest) (*Movie, error) {
	movie, err := s.repo.GetMovieByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		movie.Title = *req.Title
	}
	if req.Description != nil {
		movie.Description = *req.Description
	}
	if req.Genre != nil {
		movie.Genre = *req.Genre
	}
	if req.Rating != nil {
		movie.Rating = *req.Rating
	}
	if req.DurationMin != nil {
		movie.DurationMin = *req.DurationMin
	}
	if req.PosterURL != nil {
		movie.PosterURL = *req.PosterURL
	}
	if req.IsActive != nil {
		movie.IsActive = *req.IsActive
	}

	if err := s.repo.UpdateMovie(ctx, movie); err != nil {
		return nil, err
	}
	s.invalidateCatalogCache(ctx)
	return movie, nil
}

func (s *service) DeleteMovie(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteMovie(ctx, id); err != nil {
		return err
	}
	s.invalidateCatalogCache(ctx)
	return nil
}

func (s *service) ListShowtimes(ctx context.Context, movieID uuid.UUID) ([]Showtime, error) {
	from := time.Now()

	if s.cacheService == nil {
		return s.repo.ListShowtimesByMovie(ctx, movieID, from)
	}

	var showtimes []Showtime
	key := constants.ShowtimesByMovieKey(movieID.String())
	err := s.cacheService.GetOrSet(ctx, key, constants.TTL_SHOWTIMES, func() (interface{}, error) {
		return s.repo.ListShowtimesByMovie(ctx, movieID, from)
	}, &showtimes)
	if err != nil {
		return s.repo.ListShowtimesByMovie(ctx, movieID, from)
	}
	return showtimes, nil
}

func (s *service) GetShowtime(ctx context.Context, id uuid.UUID) (*Showtime, error) {
	return s.repo.GetShowtimeByID(ctx, id)
}

func (s *service) CreateShowtime(ctx context.Context, req CreateShowtimeRequest) (*Showtime, error) {
	if req.StartsAt.Before(time.Now()) {
		return nil, apperrors.NewValidationError("starts_at", "showtime must be in the future")
	}

	// The movie must exist before scheduling a screening for it
	if _, err := s.repo.GetMovieByID(ctx, req.MovieID); err != nil {
		return nil, err
	}

	showtime := &Showtime{
		MovieID:     req.MovieID,
		TheaterName: req.TheaterName,
		ScreenName:  req.ScreenName,
		StartsAt:    req.StartsAt,
		PriceCents:  req.PriceCents,
		SeatRows:    req.SeatRows,
		SeatsPerRow: req.SeatsPerRow,
	}
	if showtime.SeatRows <= 0 {
		showtime.SeatRows = 10
	}
	if showtime.SeatsPerRow <= 0 {
		showtime.SeatsPerRow = 12
	}

	if err := s.repo.CreateShowtime(ctx, showtime); err != nil {
		return nil, err
	}
	s.invalidateCatalogCache(ctx)
	return showtime, nil
}

func (s *service) DeleteShowtime(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteShowtime(ctx, id); err != nil {
		return err
	}
	s.invalidateCatalogCache(ctx)
	return nil
}

func (s *service) invalidateCatalogCache(ctx context.Context) {
	if s.cacheService == nil {
		return
	}
	for _, pattern := range []string{constants.PATTERN_INVALIDATE_MOVIES, constants.PATTERN_INVALIDATE_SHOWTIMES} {
		if err := s.cacheService.DeletePattern(ctx, pattern); err != nil {
			// Stale cache entries expire on their own TTL
			log.Printf("cache invalidation failed for %s: %v", pattern, err)
		}
	}
}
