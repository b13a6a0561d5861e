package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/example/safina/internal/models"
	"github.com/example/safina/internal/money"
)

type settingsStorage interface {
	GetAppSettings(ctx context.Context) (*models.AppSettings, error)
	SaveAppSettings(ctx context.Context, settings *models.AppSettings) error
}

// SettingsService serves the process-wide settings row. Reads are cached
// with a TTL; updates write through and invalidate the cache, so a stale
// rate is bounded by the TTL and never survives an explicit update.
type SettingsService struct {
	storage settingsStorage
	log     zerolog.Logger
	ttl     time.Duration

	mu        sync.Mutex
	cached    *models.AppSettings
	fetchedAt time.Time
}

// NewSettingsService constructs SettingsService.
func NewSettingsService(storage settingsStorage, ttl time.Duration, log zerolog.Logger) *SettingsService {
	return &SettingsService{storage: storage, ttl: ttl, log: log}
}

// Current returns the settings, from cache when fresh.
func (s *SettingsService) Current(ctx context.Context) (*models.AppSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil && time.Since(s.fetchedAt) < s.ttl {
		return s.cached, nil
	}

	settings, err := s.storage.GetAppSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch settings: %w", err)
	}
	if settings == nil {
		return nil, ErrNotFound
	}

	s.cached = settings
	s.fetchedAt = time.Now()
	return settings, nil
}

// Rate returns the live rate for a channel.
func (s *SettingsService) Rate(ctx context.Context, channel money.RateChannel) (decimal.Decimal, error) {
	settings, err := s.Current(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	rate, err := settings.Rate(channel)
	if err != nil {
		return decimal.Zero, err
	}
	if !rate.IsPositive() {
		return decimal.Zero, money.ErrInvalidRate
	}
	return rate, nil
}

// SettingsPatch carries the knobs an update supplies; nil fields stay
// untouched.
type SettingsPatch struct {
	ExchangeRate        *decimal.Decimal `json:"exchange_rate"`
	PricePerKiloAirUSD  *decimal.Decimal `json:"price_per_kilo_air_usd"`
	PricePerKiloSeaUSD  *decimal.Decimal `json:"price_per_kilo_sea_usd"`
	CardsCashRate       *decimal.Decimal `json:"cards_cash_rate"`
	CardsBankRate       *decimal.Decimal `json:"cards_bank_rate"`
	CardsBalanceRate    *decimal.Decimal `json:"cards_balance_rate"`
	ProductsCashRate    *decimal.Decimal `json:"products_cash_rate"`
	ProductsBankRate    *decimal.Decimal `json:"products_bank_rate"`
	ProductsBalanceRate *decimal.Decimal `json:"products_balance_rate"`
}

// Update patches the settings row. Every supplied rate must be positive; a
// zero rate would silently zero every conversion downstream.
func (s *SettingsService) Update(ctx context.Context, patch SettingsPatch) (*models.AppSettings, error) {
	settings, err := s.storage.GetAppSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch settings: %w", err)
	}
	if settings == nil {
		return nil, ErrNotFound
	}

	fields := []struct {
		value  *decimal.Decimal
		target *decimal.Decimal
	}{
		{patch.ExchangeRate, &settings.ExchangeRate},
		{patch.PricePerKiloAirUSD, &settings.PricePerKiloAirUSD},
		{patch.PricePerKiloSeaUSD, &settings.PricePerKiloSeaUSD},
		{patch.CardsCashRate, &settings.CardsCashRate},
		{patch.CardsBankRate, &settings.CardsBankRate},
		{patch.CardsBalanceRate, &settings.CardsBalanceRate},
		{patch.ProductsCashRate, &settings.ProductsCashRate},
		{patch.ProductsBankRate, &settings.ProductsBankRate},
		{patch.ProductsBalanceRate, &settings.ProductsBalanceRate},
	}
	for _, field := range fields {
		if field.value == nil {
			continue
		}
		if !field.value.IsPositive() {
			return nil, money.ErrInvalidRate
		}
		*field.target = *field.value
	}

	if err := s.storage.SaveAppSettings(ctx, settings); err != nil {
		return nil, fmt.Errorf("save settings: %w", err)
	}

	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()

	s.log.Info().Msg("app settings updated, cache invalidated")
	return settings, nil
}
