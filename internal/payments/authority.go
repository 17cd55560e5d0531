package payments

import "context"

// Authorization is the result of a successful payment authorization.
// ClientSecret goes back to the browser to complete the payment; ID is
// stored on the booking for reconciliation.
type Authorization struct {
	ID           string `json:"id"`
	ClientSecret string `json:"clientSecret"`
}

// Authority authorizes payments for a booking. Amounts are integer cents.
type Authority interface {
	Authorize(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*Authorization, error)
}
