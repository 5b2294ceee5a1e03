package services

import (
	"context"
	"strings"

	"boutique/internal/apperrors"
	"boutique/internal/models"
	"boutique/internal/repositories"

	"go.uber.org/zap"
)

// FallbackShippingPrice applies when a country has no price and no default
// has been configured.
const FallbackShippingPrice = 10.00

// ShippingQuote is the resolved shipping price for a country.
type ShippingQuote struct {
	CountryCode     string  `json:"country_code"`
	Price           float64 `json:"price"`
	IsDefault       bool    `json:"is_default"`
	MinDeliveryDays int     `json:"min_delivery_days,omitempty"`
	MaxDeliveryDays int     `json:"max_delivery_days,omitempty"`
}

// ShippingResolver maps country codes to shipping prices.
type ShippingResolver struct {
	repo   repositories.ShippingPriceRepository
	logger *zap.Logger
}

// NewShippingResolver creates a new ShippingResolver.
func NewShippingResolver(repo repositories.ShippingPriceRepository, logger *zap.Logger) *ShippingResolver {
	return &ShippingResolver{repo: repo, logger: logger}
}

// NormalizeCountryCode trims and upper-cases code and checks that it is two
// ASCII letters.
func NormalizeCountryCode(code string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if len(normalized) != 2 || !isUpperAlpha(normalized) {
		return "", apperrors.Validation("country must be a two-letter code")
	}
	return normalized, nil
}

func isUpperAlpha(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// PriceForCountry returns the shipping price for a country code.
func (r *ShippingResolver) PriceForCountry(ctx context.Context, code string) (float64, error) {
	quote, err := r.Quote(ctx, code)
	if err != nil {
		return 0, err
	}
	return quote.Price, nil
}

// Quote resolves the price for code: the exact country entry if one exists,
// otherwise the configured default, otherwise FallbackShippingPrice.
func (r *ShippingResolver) Quote(ctx context.Context, code string) (ShippingQuote, error) {
	normalized, err := NormalizeCountryCode(code)
	if err != nil {
		return ShippingQuote{}, err
	}

	price, err := r.repo.GetByCountryCode(ctx, normalized)
	if err == nil {
		return ShippingQuote{
			CountryCode:     normalized,
			Price:           price.ShippingPrice,
			MinDeliveryDays: price.MinDeliveryDays,
			MaxDeliveryDays: price.MaxDeliveryDays,
		}, nil
	}
	if !apperrors.Is(err, apperrors.KindNotFound) {
		return ShippingQuote{}, err
	}

	settings, err := r.repo.GetDefault(ctx)
	if apperrors.Is(err, apperrors.KindNotFound) {
		r.logger.Debug("no default shipping price configured, using fallback", zap.String("country", normalized))
		return ShippingQuote{CountryCode: normalized, Price: FallbackShippingPrice, IsDefault: true}, nil
	}
	if err != nil {
		return ShippingQuote{}, err
	}
	return ShippingQuote{CountryCode: normalized, Price: settings.DefaultPrice, IsDefault: true}, nil
}

// ListPrices returns every configured country price.
func (r *ShippingResolver) ListPrices(ctx context.Context) ([]models.CountryShippingPrice, error) {
	return r.repo.List(ctx)
}

// SavePrice validates and stores the price for a country.
func (r *ShippingResolver) SavePrice(ctx context.Context, price *models.CountryShippingPrice) error {
	normalized, err := NormalizeCountryCode(price.CountryCode)
	if err != nil {
		return err
	}
	price.CountryCode = normalized
	if err := validateStruct(price); err != nil {
		return err
	}
	if err := r.repo.Upsert(ctx, price); err != nil {
		return err
	}
	r.logger.Info("shipping price saved", zap.String("country", normalized), zap.Float64("price", price.ShippingPrice))
	return nil
}

// DeletePrice removes a country's price; that country then gets the default.
func (r *ShippingResolver) DeletePrice(ctx context.Context, code string) error {
	normalized, err := NormalizeCountryCode(code)
	if err != nil {
		return err
	}
	return r.repo.Delete(ctx, normalized)
}

// SetDefaultPrice stores the price used for countries without an entry.
func (r *ShippingResolver) SetDefaultPrice(ctx context.Context, price float64) error {
	if price < 0 {
		return apperrors.Validation("default price must not be negative")
	}
	return r.repo.SetDefault(ctx, price)
}
