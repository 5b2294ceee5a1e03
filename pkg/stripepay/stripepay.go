// Package stripepay creates hosted Stripe Checkout sessions and verifies
// webhook deliveries.
package stripepay

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/checkout/session"
	"github.com/stripe/stripe-go/v83/webhook"
)

// ErrNotConfigured is returned when the secret key or webhook secret is missing.
var ErrNotConfigured = errors.New("stripe is not configured")

// LineItem is one priced line of a checkout session. UnitAmount is in minor units.
type LineItem struct {
	Name        string
	Description string
	UnitAmount  int64
	Quantity    int64
}

// SessionRequest describes a payment-mode checkout session.
type SessionRequest struct {
	Currency          string
	LineItems         []LineItem
	SuccessURL        string
	CancelURL         string
	ShippingCountry   string
	ClientReferenceID string
	Metadata          map[string]string
}

// Config holds the Stripe credentials.
type Config struct {
	SecretKey     string
	WebhookSecret string
}

// Client talks to Stripe with the configured keys.
type Client struct {
	secretKey     string
	webhookSecret string
}

// New creates a Client. stripe-go keeps the API key as package state, so the
// key is installed here once.
func New(cfg Config) *Client {
	if cfg.SecretKey != "" {
		stripe.Key = cfg.SecretKey
	}
	return &Client{secretKey: cfg.SecretKey, webhookSecret: cfg.WebhookSecret}
}

// CanCreateSessions reports whether a secret key is available.
func (c *Client) CanCreateSessions() bool {
	return c != nil && c.secretKey != ""
}

// CanVerifyWebhooks reports whether both keys are available.
func (c *Client) CanVerifyWebhooks() bool {
	return c != nil && c.secretKey != "" && c.webhookSecret != ""
}

// CreateCheckoutSession requests a hosted payment session and returns its id.
func (c *Client) CreateCheckoutSession(ctx context.Context, req SessionRequest) (string, error) {
	if !c.CanCreateSessions() {
		return "", ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
	}
	for _, item := range req.LineItems {
		productData := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(item.Name),
		}
		if item.Description != "" {
			productData.Description = stripe.String(item.Description)
		}
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(req.Currency),
				ProductData: productData,
				UnitAmount:  stripe.Int64(item.UnitAmount),
			},
			Quantity: stripe.Int64(item.Quantity),
		})
	}
	if req.ShippingCountry != "" {
		params.ShippingAddressCollection = &stripe.CheckoutSessionShippingAddressCollectionParams{
			AllowedCountries: stripe.StringSlice([]string{req.ShippingCountry}),
		}
	}
	if req.ClientReferenceID != "" {
		params.ClientReferenceID = stripe.String(req.ClientReferenceID)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	s, err := session.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}
	return s.ID, nil
}

// VerifyWebhook checks the Stripe-Signature header against the webhook
// secret and returns the decoded event. Events from other API versions are
// accepted; only the session payload fields the recorder reads matter.
func (c *Client) VerifyWebhook(payload []byte, signatureHeader string) (stripe.Event, error) {
	if !c.CanVerifyWebhooks() {
		return stripe.Event{}, ErrNotConfigured
	}
	event, err := webhook.ConstructEventWithOptions(payload, signatureHeader, c.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return stripe.Event{}, fmt.Errorf("invalid webhook signature: %w", err)
	}
	return event, nil
}
