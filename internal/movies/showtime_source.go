package movies

import (
	"context"

	"cinebook/internal/bookings"
	"cinebook/internal/shared/apperrors"

	"github.com/google/uuid"
)

// showtimeSource adapts the catalog repository to the booking flow's view
// of a showtime
type showtimeSource struct {
	repo Repository
}

func NewShowtimeSource(repo Repository) bookings.ShowtimeSource {
	return &showtimeSource{repo: repo}
}

func (s *showtimeSource) GetShowtimeInfo(ctx context.Context, showtimeID string) (*bookings.ShowtimeInfo, error) {
	id, err := uuid.Parse(showtimeID)
	if err != nil {
		return nil, apperrors.NewValidationError("showtime_id", "must be a valid UUID")
	}

	showtime, err := s.repo.GetShowtimeByID(ctx, id)
	if err != nil {
		return nil, err
	}

	info := &bookings.ShowtimeInfo{
		ID:          showtime.ID.String(),
		TheaterName: showtime.TheaterName,
		ScreenName:  showtime.ScreenName,
		StartsAt:    showtime.StartsAt,
		PriceCents:  showtime.PriceCents,
	}
	if showtime.Movie != nil {
		info.MovieTitle = showtime.Movie.Title
	}
	return info, nil
}
