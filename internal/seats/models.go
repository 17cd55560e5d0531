package seats

import "time"

// LockValue is the JSON payload stored under each seat lock key.
// SessionID identifies the owning browser session; Contact is kept so an
// abandoned lock can still be traced to a customer.
type LockValue struct {
	SessionID string `json:"session_id"`
	Contact   string `json:"contact,omitempty"`
}

// LockSeatsRequest is the payload for POST /seats/lock
type LockSeatsRequest struct {
	ShowtimeID string   `json:"showtime_id" binding:"required"`
	Seats      []string `json:"seats" binding:"required,min=1"`
	SessionID  string   `json:"session_id" binding:"required"`
	Contact    string   `json:"contact"`
}

// UnlockSeatsRequest is the payload for POST /seats/unlock
type UnlockSeatsRequest struct {
	ShowtimeID string   `json:"showtime_id" binding:"required"`
	Seats      []string `json:"seats" binding:"required,min=1"`
	SessionID  string   `json:"session_id" binding:"required"`
}

// RefreshLocksRequest is the payload for POST /seats/refresh
type RefreshLocksRequest struct {
	ShowtimeID string   `json:"showtime_id" binding:"required"`
	Seats      []string `json:"seats" binding:"required,min=1"`
	SessionID  string   `json:"session_id" binding:"required"`
}

// LockResult describes a successful all-or-nothing acquisition
type LockResult struct {
	ShowtimeID string    `json:"showtime_id"`
	Locked     []string  `json:"locked"`
	ExpiresAt  time.Time `json:"expires_at"`
	TTL        int       `json:"ttl_seconds"`
}

// ReleaseResult reports per-seat release outcomes. Rejected seats are held
// by a different session; they are reported, not treated as an error.
type ReleaseResult struct {
	Released []string `json:"released"`
	Rejected []string `json:"rejected,omitempty"`
}

// AvailabilityResponse is the seat map for a showtime. Unavailable is the
// union of locked and booked.
type AvailabilityResponse struct {
	ShowtimeID  string   `json:"showtime_id"`
	Locked      []string `json:"locked_seats"`
	Booked      []string `json:"booked_seats"`
	Unavailable []string `json:"unavailable_seats"`
}
