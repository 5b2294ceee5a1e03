package services

import (
	"context"
	"fmt"
	"strings"

	"boutique/internal/apperrors"
	"boutique/internal/models"
	"boutique/internal/repositories"
	"boutique/pkg/money"
	"boutique/pkg/stripepay"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Metadata keys attached to every checkout session.
const (
	MetadataCartID  = "cart_id"
	MetadataUserID  = "user_id"
	MetadataCountry = "country"
)

// PaymentGateway creates hosted checkout sessions.
type PaymentGateway interface {
	CanCreateSessions() bool
	CreateCheckoutSession(ctx context.Context, req stripepay.SessionRequest) (string, error)
}

// CheckoutItem is one line submitted for checkout.
type CheckoutItem struct {
	VariantID   string  `json:"variant_id"`
	ProductID   string  `json:"product_id"`
	Size        string  `json:"size"`
	Name        string  `json:"name" validate:"required,max=250"`
	Description string  `json:"description" validate:"max=500"`
	Price       float64 `json:"price" validate:"gte=0"`
	Quantity    int     `json:"quantity" validate:"gte=1"`
}

// CheckoutRequest is the input of a checkout session.
type CheckoutRequest struct {
	Items      []CheckoutItem `json:"items" validate:"dive"`
	SuccessURL string         `json:"success_url" validate:"omitempty,url"`
	CancelURL  string         `json:"cancel_url" validate:"omitempty,url"`
	CartID     string         `json:"cart_id" validate:"max=64"`
	Country    string         `json:"country"`
	UserID     string         `json:"-"`
}

// CheckoutResult describes a created session.
type CheckoutResult struct {
	SessionID          string  `json:"sessionId"`
	ProductsTotalPrice float64 `json:"products_total_price"`
	ShippingPrice      float64 `json:"shipping_price"`
}

// CheckoutSessionBuilder turns a cart into a hosted payment session.
type CheckoutSessionBuilder struct {
	gateway   PaymentGateway
	shipping  *ShippingResolver
	checkouts repositories.CheckoutRecordRepository
	currency  string
	logger    *zap.Logger
}

// NewCheckoutSessionBuilder creates a CheckoutSessionBuilder. gateway may be
// nil, in which case every Build fails with a configuration error.
func NewCheckoutSessionBuilder(gateway PaymentGateway, shipping *ShippingResolver, checkouts repositories.CheckoutRecordRepository, currency string, logger *zap.Logger) *CheckoutSessionBuilder {
	return &CheckoutSessionBuilder{
		gateway:   gateway,
		shipping:  shipping,
		checkouts: checkouts,
		currency:  strings.ToLower(currency),
		logger:    logger,
	}
}

// Build validates req, creates a payment-mode session and stores the
// checkout manifest under the session id. Invalid input never reaches the
// provider.
func (b *CheckoutSessionBuilder) Build(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	if len(req.Items) == 0 {
		return nil, apperrors.Validation("items are required")
	}
	if req.SuccessURL == "" || req.CancelURL == "" {
		return nil, apperrors.Validation("success_url and cancel_url are required")
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	country := ""
	if strings.TrimSpace(req.Country) != "" {
		normalized, err := NormalizeCountryCode(req.Country)
		if err != nil {
			return nil, err
		}
		country = normalized
	}

	if b.gateway == nil || !b.gateway.CanCreateSessions() {
		return nil, apperrors.Configuration("payment provider is not configured")
	}

	lineItems := make([]stripepay.LineItem, 0, len(req.Items)+1)
	manifest := make([]models.CheckoutLine, 0, len(req.Items))
	totals := make([]decimal.Decimal, 0, len(req.Items))
	for _, item := range req.Items {
		lineItems = append(lineItems, stripepay.LineItem{
			Name:        item.Name,
			Description: item.Description,
			UnitAmount:  money.ToMinorUnits(item.Price),
			Quantity:    int64(item.Quantity),
		})
		manifest = append(manifest, models.CheckoutLine{
			VariantID:   item.VariantID,
			ProductID:   item.ProductID,
			Name:        item.Name,
			Description: item.Description,
			Size:        item.Size,
			Price:       item.Price,
			Quantity:    item.Quantity,
		})
		totals = append(totals, money.LineTotal(item.Price, item.Quantity))
	}
	productsTotal := money.Float(money.Sum(totals...))

	shippingPrice := 0.0
	if country != "" {
		price, err := b.shipping.PriceForCountry(ctx, country)
		if err != nil {
			return nil, err
		}
		shippingPrice = price
		lineItems = append(lineItems, stripepay.LineItem{
			Name:       fmt.Sprintf("Shipping (%s)", country),
			UnitAmount: money.ToMinorUnits(price),
			Quantity:   1,
		})
	}

	metadata := map[string]string{}
	if req.CartID != "" {
		metadata[MetadataCartID] = req.CartID
	}
	if req.UserID != "" {
		metadata[MetadataUserID] = req.UserID
	}
	if country != "" {
		metadata[MetadataCountry] = country
	}

	sessionID, err := b.gateway.CreateCheckoutSession(ctx, stripepay.SessionRequest{
		Currency:          b.currency,
		LineItems:         lineItems,
		SuccessURL:        req.SuccessURL,
		CancelURL:         req.CancelURL,
		ShippingCountry:   country,
		ClientReferenceID: req.UserID,
		Metadata:          metadata,
	})
	if err != nil {
		b.logger.Error("checkout session creation failed", zap.Error(err))
		return nil, apperrors.Provider(err, "could not create checkout session")
	}

	record := &models.CheckoutRecord{
		SessionID:          sessionID,
		CartID:             req.CartID,
		UserID:             req.UserID,
		Country:            country,
		Items:              manifest,
		ProductsTotalPrice: productsTotal,
		ShippingPrice:      shippingPrice,
	}
	// The session already exists at the provider; without the manifest the
	// order is still recorded from the session totals.
	if err := b.checkouts.Save(ctx, record); err != nil {
		b.logger.Error("failed to store checkout record",
			zap.String("session_id", sessionID),
			zap.Error(err))
	}

	b.logger.Info("checkout session created",
		zap.String("session_id", sessionID),
		zap.Int("lines", len(req.Items)),
		zap.Float64("products_total", productsTotal),
		zap.Float64("shipping", shippingPrice))

	return &CheckoutResult{
		SessionID:          sessionID,
		ProductsTotalPrice: productsTotal,
		ShippingPrice:      shippingPrice,
	}, nil
}
