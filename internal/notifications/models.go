package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type NotificationStatus string

const (
	NotificationStatusPending  NotificationStatus = "PENDING"
	NotificationStatusQueued   NotificationStatus = "QUEUED"
	NotificationStatusSending  NotificationStatus = "SENDING"
	NotificationStatusSent     NotificationStatus = "SENT"
	NotificationStatusFailed   NotificationStatus = "FAILED"
	NotificationStatusRetrying NotificationStatus = "RETRYING"
)

// BookingNotification is the confirmation payload carried through Kafka
// from the booking orchestrator to the email workers.
type BookingNotification struct {
	ID        uuid.UUID `json:"id"`
	BookingID uuid.UUID `json:"booking_id"`

	// Recipient info
	RecipientEmail string `json:"recipient_email"`
	RecipientName  string `json:"recipient_name"`

	// Showtime details for the confirmation email
	ShowtimeID    string    `json:"showtime_id"`
	MovieTitle    string    `json:"movie_title"`
	TheaterName   string    `json:"theater_name"`
	ScreenName    string    `json:"screen_name"`
	ShowtimeStart time.Time `json:"showtime_start"`

	// Booking details
	Seats          []string `json:"seats"`
	TotalAmount    int64    `json:"total_amount"` // cents
	DiscountAmount int64    `json:"discount_amount,omitempty"`

	// Status tracking
	Status     NotificationStatus `json:"status"`
	RetryCount int                `json:"retry_count"`
	MaxRetries int                `json:"max_retries"`
	LastError  *string            `json:"last_error,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
	SentAt     *time.Time         `json:"sent_at,omitempty"`
}

// NewBookingNotification creates a pending confirmation notification
func NewBookingNotification(bookingID uuid.UUID, email, name string) *BookingNotification {
	now := time.Now()
	return &BookingNotification{
		ID:             uuid.New(),
		BookingID:      bookingID,
		RecipientEmail: email,
		RecipientName:  name,
		Status:         NotificationStatusPending,
		MaxRetries:     3,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// GetPartitionKey routes all notifications for one recipient to one partition
func (n *BookingNotification) GetPartitionKey() string {
	return n.RecipientEmail
}

func (n *BookingNotification) ToJSON() ([]byte, error) {
	return json.Marshal(n)
}

func (n *BookingNotification) ShouldRetry() bool {
	return n.RetryCount < n.MaxRetries && n.Status == NotificationStatusFailed
}

func (n *BookingNotification) MarkSent() {
	now := time.Now()
	n.Status = NotificationStatusSent
	n.SentAt = &now
	n.UpdatedAt = now
}

func (n *BookingNotification) MarkFailed(err error) {
	now := time.Now()
	n.Status = NotificationStatusFailed
	n.UpdatedAt = now

	errorStr := err.Error()
	n.LastError = &errorStr
}

func (n *BookingNotification) IncrementRetry() {
	n.RetryCount++
	n.UpdatedAt = time.Now()
	if n.ShouldRetry() {
		n.Status = NotificationStatusRetrying
	}
}
