package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/example/safina/internal/models"
	"github.com/example/safina/internal/money"
)

type depositStorage interface {
	GetDepositByID(ctx context.Context, id uuid.UUID) (*models.Deposit, error)
	GetDepositsByCustomerID(ctx context.Context, customerID uuid.UUID) ([]models.Deposit, error)
	GetDepositsByRepresentativeID(ctx context.Context, repID uuid.UUID) ([]models.Deposit, error)
	CreateDeposit(ctx context.Context, deposit *models.Deposit) error
	SaveDeposit(ctx context.Context, deposit *models.Deposit) error
}

// DepositService tracks earnest money. Deposits live beside the order
// ledger, not inside it: a deposit never reduces an order's remaining
// amount, and the two are only combined on the statement.
type DepositService struct {
	storage depositStorage
	log     zerolog.Logger
}

// NewDepositService constructs DepositService.
func NewDepositService(storage depositStorage, log zerolog.Logger) *DepositService {
	return &DepositService{storage: storage, log: log}
}

// Create records a new pending deposit.
func (s *DepositService) Create(ctx context.Context, customerID uuid.UUID, amount decimal.Decimal, repID *uuid.UUID, note string) (*models.Deposit, error) {
	if !amount.IsPositive() {
		return nil, money.ErrInvalidAmount
	}

	deposit := &models.Deposit{
		CustomerID:       customerID,
		Amount:           money.Round(amount),
		Status:           models.DepositStatusPending,
		RepresentativeID: repID,
		Note:             note,
	}
	if err := s.storage.CreateDeposit(ctx, deposit); err != nil {
		return nil, fmt.Errorf("create deposit: %w", err)
	}
	return deposit, nil
}

// PendingAmount sums the customer's deposits still awaiting collection.
func (s *DepositService) PendingAmount(ctx context.Context, customerID uuid.UUID) (decimal.Decimal, error) {
	deposits, err := s.storage.GetDepositsByCustomerID(ctx, customerID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("fetch deposits: %w", err)
	}
	return sumPending(deposits), nil
}

// PendingByRepresentative sums pending deposits assigned to a representative.
func (s *DepositService) PendingByRepresentative(ctx context.Context, repID uuid.UUID) (decimal.Decimal, error) {
	deposits, err := s.storage.GetDepositsByRepresentativeID(ctx, repID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("fetch deposits: %w", err)
	}
	return sumPending(deposits), nil
}

func sumPending(deposits []models.Deposit) decimal.Decimal {
	total := decimal.Zero
	for _, dep := range deposits {
		if dep.Status == models.DepositStatusPending {
			total = total.Add(dep.Amount)
		}
	}
	return total
}

// Collect moves a pending deposit to collected, stamping who took the cash
// and when. Collected and cancelled are both terminal.
func (s *DepositService) Collect(ctx context.Context, depositID uuid.UUID, collectedBy string) (*models.Deposit, error) {
	deposit, err := s.pending(ctx, depositID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	deposit.Status = models.DepositStatusCollected
	deposit.CollectedBy = collectedBy
	deposit.CollectedDate = &now

	if err := s.storage.SaveDeposit(ctx, deposit); err != nil {
		return nil, fmt.Errorf("save deposit: %w", err)
	}
	return deposit, nil
}

// Cancel moves a pending deposit to cancelled.
func (s *DepositService) Cancel(ctx context.Context, depositID uuid.UUID) (*models.Deposit, error) {
	deposit, err := s.pending(ctx, depositID)
	if err != nil {
		return nil, err
	}

	deposit.Status = models.DepositStatusCancelled
	if err := s.storage.SaveDeposit(ctx, deposit); err != nil {
		return nil, fmt.Errorf("save deposit: %w", err)
	}
	return deposit, nil
}

func (s *DepositService) pending(ctx context.Context, depositID uuid.UUID) (*models.Deposit, error) {
	deposit, err := s.storage.GetDepositByID(ctx, depositID)
	if err != nil {
		return nil, fmt.Errorf("fetch deposit: %w", err)
	}
	if deposit == nil {
		return nil, ErrNotFound
	}
	if deposit.Status != models.DepositStatusPending {
		return nil, ErrIllegalTransition
	}
	return deposit, nil
}
