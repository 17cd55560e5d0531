package movies

import (
	"time"

	"github.com/google/uuid"
)

type Movie struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	Genre       string    `json:"genre,omitempty"`
	Rating      string    `gorm:"type:varchar(10)" json:"rating,omitempty"`
	DurationMin int       `json:"duration_min"`
	PosterURL   string    `json:"poster_url,omitempty"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Showtimes []Showtime `gorm:"foreignKey:MovieID" json:"showtimes,omitempty"`
}

// TableName sets the table name for Movie
func (Movie) TableName() string {
	return "movies"
}

// Showtime is one screening of a movie. PriceCents is the per-seat price;
// the seat grid is described by rows and seats per row (seat codes are
// "A1".."A{n}", "B1"..).
type Showtime struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	MovieID     uuid.UUID `gorm:"type:uuid;not null;index" json:"movie_id"`
	TheaterName string    `gorm:"not null" json:"theater_name"`
	ScreenName  string    `json:"screen_name,omitempty"`
	StartsAt    time.Time `gorm:"not null;index" json:"starts_at"`
	PriceCents  int64     `gorm:"not null" json:"price_cents"`
	SeatRows    int       `gorm:"default:10" json:"seat_rows"`
	SeatsPerRow int       `gorm:"default:12" json:"seats_per_row"`
	CreatedAt   time.Time `json:"created_at"`

	Movie *Movie `gorm:"foreignKey:MovieID" json:"movie,omitempty"`
}

// TableName sets the table name for Showtime
func (Showtime) TableName() string {
	return "showtimes"
}

// CreateMovieRequest is the admin payload for creating a movie
type CreateMovieRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Genre       string `json:"genre"`
	Rating      string `json:"rating"`
	DurationMin int    `json:"duration_min" binding:"required,min=1"`
	PosterURL   string `json:"poster_url"`
}

// UpdateMovieRequest carries partial updates, nil fields are untouched
type UpdateMovieRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Genre       *string `json:"genre"`
	Rating      *string `json:"rating"`
	DurationMin *int    `json:"duration_min"`
	PosterURL   *string `json:"poster_url"`
	IsActive    *bool   `json:"is_active"`
}

// CreateShowtimeRequest is the admin payload for scheduling a screening
type CreateShowtimeRequest struct {
	MovieID     uuid.UUID `json:"movie_id" binding:"required"`
	TheaterName string    `json:"theater_name" binding:"required"`
	ScreenName  string    `json:"screen_name"`
	StartsAt    time.Time `json:"starts_at" binding:"required"`
	PriceCents  int64     `json:"price_cents" binding:"required,min=1"`
	SeatRows    int       `json:"seat_rows"`
	SeatsPerRow int       `json:"seats_per_row"`
}
