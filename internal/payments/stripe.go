package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"cinebook/internal/shared/apperrors"
	"cinebook/internal/shared/config"
)

// StripeAuthority implements Authority against the Stripe PaymentIntents
// REST endpoint. Requests are form-encoded per the Stripe API.
type StripeAuthority struct {
	apiBase   string
	secretKey string
	client    *http.Client
}

func NewStripeAuthority(cfg *config.Config) *StripeAuthority {
	return &StripeAuthority{
		apiBase:   strings.TrimRight(cfg.Stripe.APIBase, "/"),
		secretKey: cfg.Stripe.SecretKey,
		client:    &http.Client{Timeout: cfg.Stripe.Timeout},
	}
}

type stripeIntentResponse struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Error        *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func (s *StripeAuthority) Authorize(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*Authorization, error) {
	if s.secretKey == "" {
		return nil, apperrors.NewUpstreamUnavailable("payment authority", errors.New("stripe secret key not configured"))
	}
	if amountCents <= 0 {
		return nil, apperrors.NewValidationError("amount", "amount must be positive")
	}

	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amountCents, 10))
	form.Set("currency", currency)
	form.Set("automatic_payment_methods[enabled]", "true")
	for key, value := range metadata {
		form.Set(fmt.Sprintf("metadata[%s]", key), value)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.apiBase+"/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build payment request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+s.secretKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, apperrors.NewUpstreamUnavailable("payment authority", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewUpstreamUnavailable("payment authority", err)
	}

	var intent stripeIntentResponse
	if err := json.Unmarshal(body, &intent); err != nil {
		return nil, apperrors.NewUpstreamUnavailable("payment authority",
			fmt.Errorf("unexpected response (status %d): %w", resp.StatusCode, err))
	}

	if resp.StatusCode >= 500 {
		return nil, apperrors.NewUpstreamUnavailable("payment authority",
			fmt.Errorf("stripe returned status %d", resp.StatusCode))
	}
	if resp.StatusCode != http.StatusOK || intent.Error != nil {
		message := "payment authorization failed"
		if intent.Error != nil {
			message = intent.Error.Message
		}
		return nil, fmt.Errorf("payment authorization rejected: %s", message)
	}

	return &Authorization{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
	}, nil
}
