package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/example/safina/internal/models"
)

// Balance sides as rendered on creditor statements.
const (
	BalanceOwedByUs = "owed_by_us" // عليه
	BalanceOwedToUs = "owed_to_us" // له
	BalanceSettled  = "settled"
)

type creditorStorage interface {
	GetCreditorByID(ctx context.Context, id uuid.UUID) (*models.Creditor, error)
	// GetExternalDebtsForCreditor returns entries sorted by entry date
	// ascending; ties keep creation order.
	GetExternalDebtsForCreditor(ctx context.Context, creditorID uuid.UUID) ([]models.ExternalDebt, error)
}

// CreditorService replays a creditor's signed debt entries in date order to
// produce a deterministic running balance.
type CreditorService struct {
	storage creditorStorage
	log     zerolog.Logger
}

// NewCreditorService constructs CreditorService.
func NewCreditorService(storage creditorStorage, log zerolog.Logger) *CreditorService {
	return &CreditorService{storage: storage, log: log}
}

// CreditorLine is one statement row with the balance after applying it.
type CreditorLine struct {
	Date        time.Time              `json:"date"`
	Note        string                 `json:"note"`
	AccountType models.DebtAccountType `json:"account_type"`
	Status      models.DebtStatus      `json:"status"`
	Debit       decimal.Decimal        `json:"debit"`
	Credit      decimal.Decimal        `json:"credit"`
	Balance     decimal.Decimal        `json:"balance"`
}

// CreditorStatement is the full running-balance view for one creditor.
type CreditorStatement struct {
	Creditor       *models.Creditor `json:"creditor"`
	OpeningBalance decimal.Decimal  `json:"opening_balance"`
	Lines          []CreditorLine   `json:"lines"`
	TotalDebt      decimal.Decimal  `json:"total_debt"`
	Side           string           `json:"side"`
}

// Statement accumulates the creditor's entries on top of openingBalance.
// The historical behavior starts every statement at zero; callers that want
// a carried-forward balance pass it explicitly.
func (s *CreditorService) Statement(ctx context.Context, creditorID uuid.UUID, openingBalance decimal.Decimal) (*CreditorStatement, error) {
	creditor, err := s.storage.GetCreditorByID(ctx, creditorID)
	if err != nil {
		return nil, fmt.Errorf("fetch creditor: %w", err)
	}
	if creditor == nil {
		return nil, ErrNotFound
	}

	debts, err := s.storage.GetExternalDebtsForCreditor(ctx, creditorID)
	if err != nil {
		return nil, fmt.Errorf("fetch external debts: %w", err)
	}

	balance := openingBalance
	lines := make([]CreditorLine, 0, len(debts))
	for _, debt := range debts {
		balance = balance.Add(debt.Amount)
		line := CreditorLine{
			Date:        debt.EntryDate,
			Note:        debt.Note,
			AccountType: debt.AccountType,
			Status:      debt.Status,
			Balance:     balance,
		}
		if debt.Amount.IsPositive() {
			line.Debit = debt.Amount
		} else if debt.Amount.IsNegative() {
			line.Credit = debt.Amount.Abs()
		}
		lines = append(lines, line)
	}

	return &CreditorStatement{
		Creditor:       creditor,
		OpeningBalance: openingBalance,
		Lines:          lines,
		TotalDebt:      balance,
		Side:           balanceSide(balance),
	}, nil
}

// TotalDebt is the creditor's final running balance from a zero baseline.
func (s *CreditorService) TotalDebt(ctx context.Context, creditorID uuid.UUID) (decimal.Decimal, error) {
	statement, err := s.Statement(ctx, creditorID, decimal.Zero)
	if err != nil {
		return decimal.Zero, err
	}
	return statement.TotalDebt, nil
}

func balanceSide(balance decimal.Decimal) string {
	switch {
	case balance.IsPositive():
		return BalanceOwedByUs
	case balance.IsNegative():
		return BalanceOwedToUs
	default:
		return BalanceSettled
	}
}
