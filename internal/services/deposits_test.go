package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/safina/internal/models"
	"github.com/example/safina/internal/money"
)

type fakeDepositStorage struct {
	deposits []*models.Deposit
	saved    *models.Deposit
}

func (f *fakeDepositStorage) GetDepositByID(_ context.Context, id uuid.UUID) (*models.Deposit, error) {
	for _, dep := range f.deposits {
		if dep.ID == id {
			return dep, nil
		}
	}
	return nil, nil
}

func (f *fakeDepositStorage) GetDepositsByCustomerID(_ context.Context, customerID uuid.UUID) ([]models.Deposit, error) {
	var out []models.Deposit
	for _, dep := range f.deposits {
		if dep.CustomerID == customerID {
			out = append(out, *dep)
		}
	}
	return out, nil
}

func (f *fakeDepositStorage) GetDepositsByRepresentativeID(_ context.Context, repID uuid.UUID) ([]models.Deposit, error) {
	var out []models.Deposit
	for _, dep := range f.deposits {
		if dep.RepresentativeID != nil && *dep.RepresentativeID == repID {
			out = append(out, *dep)
		}
	}
	return out, nil
}

func (f *fakeDepositStorage) CreateDeposit(_ context.Context, deposit *models.Deposit) error {
	deposit.ID = uuid.New()
	f.deposits = append(f.deposits, deposit)
	return nil
}

func (f *fakeDepositStorage) SaveDeposit(_ context.Context, deposit *models.Deposit) error {
	f.saved = deposit
	return nil
}

func TestDepositPendingAmount(t *testing.T) {
	customerID := uuid.New()
	storage := &fakeDepositStorage{deposits: []*models.Deposit{
		{BaseModel: models.BaseModel{ID: uuid.New()}, CustomerID: customerID, Amount: dec("100"), Status: models.DepositStatusPending},
		{BaseModel: models.BaseModel{ID: uuid.New()}, CustomerID: customerID, Amount: dec("50"), Status: models.DepositStatusPending},
		{BaseModel: models.BaseModel{ID: uuid.New()}, CustomerID: customerID, Amount: dec("30"), Status: models.DepositStatusCollected},
		{BaseModel: models.BaseModel{ID: uuid.New()}, CustomerID: customerID, Amount: dec("20"), Status: models.DepositStatusCancelled},
	}}
	svc := NewDepositService(storage, zerolog.Nop())

	total, err := svc.PendingAmount(context.Background(), customerID)
	require.NoError(t, err)
	assert.True(t, dec("150").Equal(total), "got %s", total)
}

func TestDepositLifecycle(t *testing.T) {
	storage := &fakeDepositStorage{}
	svc := NewDepositService(storage, zerolog.Nop())

	deposit, err := svc.Create(context.Background(), uuid.New(), dec("75"), nil, "ahead of spring order")
	require.NoError(t, err)
	assert.Equal(t, models.DepositStatusPending, deposit.Status)

	collected, err := svc.Collect(context.Background(), deposit.ID, "office")
	require.NoError(t, err)
	assert.Equal(t, models.DepositStatusCollected, collected.Status)
	assert.Equal(t, "office", collected.CollectedBy)
	assert.NotNil(t, collected.CollectedDate)

	// collected is terminal
	_, err = svc.Collect(context.Background(), deposit.ID, "office")
	assert.ErrorIs(t, err, ErrIllegalTransition)
	_, err = svc.Cancel(context.Background(), deposit.ID)
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestDepositCancel(t *testing.T) {
	storage := &fakeDepositStorage{}
	svc := NewDepositService(storage, zerolog.Nop())

	deposit, err := svc.Create(context.Background(), uuid.New(), dec("75"), nil, "")
	require.NoError(t, err)

	cancelled, err := svc.Cancel(context.Background(), deposit.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DepositStatusCancelled, cancelled.Status)

	_, err = svc.Collect(context.Background(), deposit.ID, "office")
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestDepositCreateValidation(t *testing.T) {
	svc := NewDepositService(&fakeDepositStorage{}, zerolog.Nop())

	_, err := svc.Create(context.Background(), uuid.New(), decimal.Zero, nil, "")
	assert.ErrorIs(t, err, money.ErrInvalidAmount)

	_, err = svc.Collect(context.Background(), uuid.New(), "office")
	assert.ErrorIs(t, err, ErrNotFound)
}
