package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"cinebook/internal/movies"
	"cinebook/internal/offers"
	"cinebook/internal/shared/config"
	"cinebook/internal/shared/database"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("🌱 Starting CineBook Database Seeder...")

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables in the correct order (respecting foreign key constraints)
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"booking_seats",
		"bookings",
		"offers",
		"showtimes",
		"movies",
	}

	tx := s.db.PostgreSQL.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit().Error
}

// SeedAll seeds movies, showtimes and offers
func (s *Seeder) SeedAll() error {
	ctx := context.Background()

	movieIDs, err := s.SeedMovies(ctx)
	if err != nil {
		return fmt.Errorf("failed to seed movies: %w", err)
	}

	if err := s.SeedShowtimes(ctx, movieIDs); err != nil {
		return fmt.Errorf("failed to seed showtimes: %w", err)
	}

	if err := s.SeedOffers(ctx); err != nil {
		return fmt.Errorf("failed to seed offers: %w", err)
	}

	// Clear Redis so seeded data is not shadowed by stale cache entries
	if err := s.db.Redis.FlushDB(ctx).Err(); err != nil {
		log.Printf("Warning: Failed to clear Redis cache: %v", err)
	}

	return nil
}

func (s *Seeder) SeedMovies(ctx context.Context) ([]movies.Movie, error) {
	catalog := []movies.Movie{
		{
			Title:       "Interstellar",
			Description: "A team of explorers travel through a wormhole in space in an attempt to ensure humanity's survival.",
			Genre:       "Sci-Fi",
			Rating:      "PG-13",
			DurationMin: 169,
			IsActive:    true,
		},
		{
			Title:       "The Grand Budapest Hotel",
			Description: "The adventures of a legendary concierge and his most trusted friend, the lobby boy.",
			Genre:       "Comedy",
			Rating:      "R",
			DurationMin: 99,
			IsActive:    true,
		},
		{
			Title:       "Spirited Away",
			Description: "A young girl wanders into a world ruled by gods, witches and spirits.",
			Genre:       "Animation",
			Rating:      "PG",
			DurationMin: 125,
			IsActive:    true,
		},
		{
			Title:       "Heat",
			Description: "A group of professional bank robbers start to feel the heat from the police.",
			Genre:       "Crime",
			Rating:      "R",
			DurationMin: 170,
			IsActive:    true,
		},
	}

	repo := movies.NewRepository(s.db.GetPostgreSQL())
	for i := range catalog {
		if err := repo.CreateMovie(ctx, &catalog[i]); err != nil {
			return nil, err
		}
		fmt.Printf("  🎬 Seeded movie: %s\n", catalog[i].Title)
	}
	return catalog, nil
}

func (s *Seeder) SeedShowtimes(ctx context.Context, seeded []movies.Movie) error {
	repo := movies.NewRepository(s.db.GetPostgreSQL())

	theaters := []struct {
		name   string
		screen string
		price  int64
	}{
		{"Grand Cinema Downtown", "IMAX 1", 1800},
		{"Grand Cinema Downtown", "Screen 3", 1200},
		{"Riverside Multiplex", "Screen 1", 1400},
	}

	count := 0
	for _, movie := range seeded {
		for day := 1; day <= 3; day++ {
			for hour, theater := range theaters {
				start := time.Now().AddDate(0, 0, day).Truncate(time.Hour).Add(time.Duration(17+hour) * time.Hour)
				showtime := &movies.Showtime{
					MovieID:     movie.ID,
					TheaterName: theater.name,
					ScreenName:  theater.screen,
					StartsAt:    start,
					PriceCents:  theater.price,
					SeatRows:    10,
					SeatsPerRow: 12,
				}
				if err := repo.CreateShowtime(ctx, showtime); err != nil {
					return err
				}
				count++
			}
		}
	}

	fmt.Printf("  🕐 Seeded %d showtimes\n", count)
	return nil
}

func (s *Seeder) SeedOffers(ctx context.Context) error {
	maxDiscount := int64(500)
	usageLimit := 100

	promos := []offers.Offer{
		{
			Code:              "WELCOME10",
			Description:       "10% off your first booking",
			DiscountType:      offers.DiscountTypePercentage,
			DiscountValue:     10,
			MaxDiscountAmount: &maxDiscount,
			ValidFrom:         time.Now().AddDate(0, 0, -1),
			ValidUntil:        time.Now().AddDate(0, 3, 0),
			IsActive:          true,
		},
		{
			Code:             "MOVIENIGHT",
			Description:      "Flat $3 off bookings over $20",
			DiscountType:     offers.DiscountTypeFixed,
			DiscountValue:    300,
			MinBookingAmount: 2000,
			ValidFrom:        time.Now().AddDate(0, 0, -1),
			ValidUntil:       time.Now().AddDate(0, 1, 0),
			IsActive:         true,
			UsageLimit:       &usageLimit,
		},
	}

	repo := offers.NewRepository(s.db.GetPostgreSQL())
	for i := range promos {
		if err := repo.Create(ctx, &promos[i]); err != nil {
			return err
		}
		fmt.Printf("  🎟️  Seeded offer: %s\n", promos[i].Code)
	}
	return nil
}
