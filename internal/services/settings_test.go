package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/safina/internal/models"
	"github.com/example/safina/internal/money"
)

type fakeSettingsStorage struct {
	settings *models.AppSettings
	fetches  int
}

func (f *fakeSettingsStorage) GetAppSettings(_ context.Context) (*models.AppSettings, error) {
	f.fetches++
	return f.settings, nil
}

func (f *fakeSettingsStorage) SaveAppSettings(_ context.Context, settings *models.AppSettings) error {
	f.settings = settings
	return nil
}

func testSettings() *models.AppSettings {
	return &models.AppSettings{
		ExchangeRate:        dec("5.1"),
		PricePerKiloAirUSD:  dec("12"),
		PricePerKiloSeaUSD:  dec("6"),
		CardsCashRate:       dec("5.2"),
		CardsBankRate:       dec("5.3"),
		CardsBalanceRate:    dec("5.4"),
		ProductsCashRate:    dec("5.5"),
		ProductsBankRate:    dec("5.6"),
		ProductsBalanceRate: dec("5.7"),
	}
}

func TestSettingsCurrentCaches(t *testing.T) {
	storage := &fakeSettingsStorage{settings: testSettings()}
	svc := NewSettingsService(storage, time.Minute, zerolog.Nop())

	for i := 0; i < 3; i++ {
		settings, err := svc.Current(context.Background())
		require.NoError(t, err)
		assert.True(t, dec("5.1").Equal(settings.ExchangeRate))
	}
	assert.Equal(t, 1, storage.fetches)
}

func TestSettingsCacheExpires(t *testing.T) {
	storage := &fakeSettingsStorage{settings: testSettings()}
	svc := NewSettingsService(storage, time.Nanosecond, zerolog.Nop())

	_, err := svc.Current(context.Background())
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	_, err = svc.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, storage.fetches)
}

func TestSettingsRateChannels(t *testing.T) {
	storage := &fakeSettingsStorage{settings: testSettings()}
	svc := NewSettingsService(storage, time.Minute, zerolog.Nop())

	cases := []struct {
		channel money.RateChannel
		want    string
	}{
		{money.RateBase, "5.1"},
		{money.RateCardsCash, "5.2"},
		{money.RateCardsBank, "5.3"},
		{money.RateCardsBalance, "5.4"},
		{money.RateProductsCash, "5.5"},
		{money.RateProductsBank, "5.6"},
		{money.RateProductsBalance, "5.7"},
	}
	for _, tc := range cases {
		rate, err := svc.Rate(context.Background(), tc.channel)
		require.NoError(t, err, string(tc.channel))
		assert.True(t, dec(tc.want).Equal(rate), "%s: got %s", tc.channel, rate)
	}

	_, err := svc.Rate(context.Background(), money.RateChannel("crypto"))
	assert.ErrorIs(t, err, money.ErrUnknownChannel)
}

func TestSettingsRateRejectsNonPositive(t *testing.T) {
	settings := testSettings()
	settings.CardsCashRate = decimal.Zero
	storage := &fakeSettingsStorage{settings: settings}
	svc := NewSettingsService(storage, time.Minute, zerolog.Nop())

	_, err := svc.Rate(context.Background(), money.RateCardsCash)
	assert.ErrorIs(t, err, money.ErrInvalidRate)
}

func TestSettingsUpdate(t *testing.T) {
	storage := &fakeSettingsStorage{settings: testSettings()}
	svc := NewSettingsService(storage, time.Hour, zerolog.Nop())

	// warm the cache, then update and make sure the next read sees the change
	_, err := svc.Current(context.Background())
	require.NoError(t, err)

	newRate := dec("6.0")
	updated, err := svc.Update(context.Background(), SettingsPatch{ExchangeRate: &newRate})
	require.NoError(t, err)
	assert.True(t, dec("6.0").Equal(updated.ExchangeRate))
	assert.True(t, dec("5.2").Equal(updated.CardsCashRate), "unpatched fields stay put")

	rate, err := svc.Rate(context.Background(), money.RateBase)
	require.NoError(t, err)
	assert.True(t, dec("6.0").Equal(rate))
}

func TestSettingsUpdateRejectsNonPositiveRate(t *testing.T) {
	storage := &fakeSettingsStorage{settings: testSettings()}
	svc := NewSettingsService(storage, time.Hour, zerolog.Nop())

	zero := decimal.Zero
	_, err := svc.Update(context.Background(), SettingsPatch{CardsBankRate: &zero})
	assert.ErrorIs(t, err, money.ErrInvalidRate)

	negative := dec("-1")
	_, err = svc.Update(context.Background(), SettingsPatch{ExchangeRate: &negative})
	assert.ErrorIs(t, err, money.ErrInvalidRate)
}
