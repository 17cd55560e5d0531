package movies

import (
	"context"
	"errors"
	"time"

	"cinebook/internal/shared/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	CreateMovie(ctx context.Context, movie *Movie) error
	UpdateMovie(ctx context.Context, movie *Movie) error
	DeleteMovie(ctx context.Context, id uuid.UUID) error
	GetMovieByID(ctx context.Context, id uuid.UUID) (*Movie, error)
	ListActiveMovies(ctx context.Context) ([]Movie, error)

	CreateShowtime(ctx context.Context, showtime *Showtime) error
	DeleteShowtime(ctx context.Context, id uuid.UUID) error
	GetShowtimeByID(ctx context.Context, id uuid.UUID) (*Showtime, error)
	ListShowtimesByMovie(ctx context.Context, movieID uuid.UUID, from time.Time) ([]Showtime, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateMovie(ctx context.Context, movie *Movie) error {
	return r.db.WithContext(ctx).Create(movie).Error
}

func (r *repository) UpdateMovie(ctx context.Context, movie *Movie) error {
	return r.db.WithContext(ctx).Save(movie).Error
}

func (r *repository) DeleteMovie(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&Movie{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("movie", id.String())
	}
	return nil
}

func (r *repository) GetMovieByID(ctx context.Context, id uuid.UUID) (*Movie, error) {
	var movie Movie
	err := r.db.WithContext(ctx).First(&movie, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("movie", id.String())
		}
		return nil, err
	}
	return &movie, nil
}

func (r *repository) ListActiveMovies(ctx context.Context) ([]Movie, error) {
	var movies []Movie
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("title ASC").
		Find(&movies).Error
	return movies, err
}

func (r *repository) CreateShowtime(ctx context.Context, showtime *Showtime) error {
	return r.db.WithContext(ctx).Create(showtime).Error
}

func (r *repository) DeleteShowtime(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&Showtime{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("showtime", id.String())
	}
	return nil
}

func (r *repository) GetShowtimeByID(ctx context.Context, id uuid.UUID) (*Showtime, error) {
	var showtime Showtime
	err := r.db.WithContext(ctx).Preload("Movie").First(&showtime, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("showtime", id.String())
		}
		return nil, err
	}
	return &showtime, nil
}

func (r *repository) ListShowtimesByMovie(ctx context.Context, movieID uuid.UUID, from time.Time) ([]Showtime, error) {
	var showtimes []Showtime
	err := r.db.WithContext(ctx).
		Where("movie_id = ? AND starts_at >= ?", movieID, from).
		Order("starts_at ASC").
		Find(&showtimes).Error
	return showtimes, err
}
