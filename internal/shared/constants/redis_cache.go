package constants

import (
	"fmt"
	"time"
)

// Redis Cache Configuration
// This file centralizes all Redis cache keys and TTL values for the CineBook application
// Pattern: cinebook:{module}:{operation}:{identifier}:{params?}

// ================== CACHE TTL DURATIONS ==================

// Semi-Static Data (Medium TTL: changes occasionally)
const (
	TTL_SEMI_STATIC_MEDIUM = 2 * time.Hour    // 2 hours - for movie details
	TTL_SEMI_STATIC_SHORT  = 1 * time.Hour    // 1 hour - for movie listings
	TTL_SEMI_STATIC_QUICK  = 15 * time.Minute // 15 minutes - for upcoming showtimes
)

// Dynamic Data (Short TTL: changes frequently)
const (
	TTL_DYNAMIC_SHORT = 5 * time.Minute // 5 minutes - for seat availability
)

// ================== REDIS KEY PREFIXES ==================

const (
	CACHE_PREFIX = "cinebook"
)

// ================== MOVIES MODULE ==================

// Catalog Cache Keys
const (
	CACHE_KEY_MOVIES_LIST        = CACHE_PREFIX + ":movies:list"
	CACHE_KEY_MOVIE_DETAIL       = CACHE_PREFIX + ":movies:detail:"   // + movie-id
	CACHE_KEY_SHOWTIMES_BY_MOVIE = CACHE_PREFIX + ":showtimes:movie:" // + movie-id
	PATTERN_INVALIDATE_MOVIES    = CACHE_PREFIX + ":movies:*"
	PATTERN_INVALIDATE_SHOWTIMES = CACHE_PREFIX + ":showtimes:*"
)

// Catalog Cache TTLs
const (
	TTL_MOVIES_LIST  = TTL_SEMI_STATIC_SHORT  // 1 hour
	TTL_MOVIE_DETAIL = TTL_SEMI_STATIC_MEDIUM // 2 hours
	TTL_SHOWTIMES    = TTL_SEMI_STATIC_QUICK  // 15 minutes
)

// ================== HELPERS ==================

// MovieDetailKey builds the cache key for one movie
func MovieDetailKey(movieID string) string {
	return fmt.Sprintf("%s%s", CACHE_KEY_MOVIE_DETAIL, movieID)
}

// ShowtimesByMovieKey builds the cache key for a movie's showtime list
func ShowtimesByMovieKey(movieID string) string {
	return fmt.Sprintf("%s%s", CACHE_KEY_SHOWTIMES_BY_MOVIE, movieID)
}
