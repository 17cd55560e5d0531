package movies

import (
	"context"
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

func (m *mockRepository) CreateMovie(ctx context.Context, movie *Movie) error {
	args := m.Called(ctx, movie)
	return args.Error(0)
}

func (m *mockRepository) UpdateMovie(ctx context.Context, movie *Movie) error {
	args := m.Called(ctx, movie)
	return args.Error(0)
}

func (m *mockRepository) DeleteMovie(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockRepository) GetMovieByID(ctx context.Context, id uuid.UUID) (*Movie, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Movie), args.Error(1)
}

func (m *mockRepository) ListActiveMovies(ctx context.Context) ([]Movie, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Movie), args.Error(1)
}

func (m *mockRepository) CreateShowtime(ctx context.Context, showtime *Showtime) error {
	args := m.Called(ctx, showtime)
	return args.Error(0)
}

func (m *mockRepository) DeleteShowtime(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockRepository) GetShowtimeByID(ctx context.Context, id uuid.UUID) (*Showtime, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Showtime), args.Error(1)
}

func (m *mockRepository) ListShowtimesByMovie(ctx context.Context, movieID uuid.UUID, from time.Time) ([]Showtime, error) {
	args := m.Called(ctx, movieID, from)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Showtime), args.Error(1)
}

func newCatalogService(repo Repository) Service {
	return NewService(repo, nil)
}

func TestCreateShowtime_RejectsPastStart(t *testing.T) {
	repo := new(mockRepository)
	svc := newCatalogService(repo)

	_, err := svc.CreateShowtime(context.Background(), CreateShowtimeRequest{
		MovieID:     uuid.New(),
		TheaterName: "Grand Cinema",
		StartsAt:    time.Now().Add(-time.Hour),
		PriceCents:  1500,
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	repo.AssertNotCalled(t, "CreateShowtime", mock.Anything, mock.Anything)
}

func TestCreateShowtime_RequiresExistingMovie(t *testing.T) {
	repo := new(mockRepository)
	movieID := uuid.New()
	repo.On("GetMovieByID", mock.Anything, movieID).
		Return(nil, apperrors.NewNotFoundError("movie", movieID.String()))

	svc := newCatalogService(repo)
	_, err := svc.CreateShowtime(context.Background(), CreateShowtimeRequest{
		MovieID:     movieID,
		TheaterName: "Grand Cinema",
		StartsAt:    time.Now().Add(24 * time.Hour),
		PriceCents:  1500,
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestCreateShowtime_DefaultsSeatGrid(t *testing.T) {
	repo := new(mockRepository)
	movieID := uuid.New()
	repo.On("GetMovieByID", mock.Anything, movieID).Return(&Movie{ID: movieID, Title: "Interstellar"}, nil)
	repo.On("CreateShowtime", mock.Anything, mock.Anything).Return(nil)

	svc := newCatalogService(repo)
	showtime, err := svc.CreateShowtime(context.Background(), CreateShowtimeRequest{
		MovieID:     movieID,
		TheaterName: "Grand Cinema",
		StartsAt:    time.Now().Add(24 * time.Hour),
		PriceCents:  1500,
	})

	require.NoError(t, err)
	assert.Equal(t, 10, showtime.SeatRows)
	assert.Equal(t, 12, showtime.SeatsPerRow)
}

func TestShowtimeSource_ResolvesMovieTitle(t *testing.T) {
	repo := new(mockRepository)
	showtimeID := uuid.New()
	starts := time.Now().Add(24 * time.Hour)
	repo.On("GetShowtimeByID", mock.Anything, showtimeID).Return(&Showtime{
		ID:          showtimeID,
		TheaterName: "Grand Cinema",
		ScreenName:  "IMAX 1",
		StartsAt:    starts,
		PriceCents:  1500,
		Movie:       &Movie{Title: "Interstellar"},
	}, nil)

	source := NewShowtimeSource(repo)
	info, err := source.GetShowtimeInfo(context.Background(), showtimeID.String())

	require.NoError(t, err)
	assert.Equal(t, "Interstellar", info.MovieTitle)
	assert.Equal(t, int64(1500), info.PriceCents)
}

func TestShowtimeSource_RejectsMalformedID(t *testing.T) {
	repo := new(mockRepository)

	source := NewShowtimeSource(repo)
	_, err := source.GetShowtimeInfo(context.Background(), "not-a-uuid")

	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}
