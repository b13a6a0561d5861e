package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType distinguishes debit entries (order) from credit entries (payment).
type TransactionType string

const (
	TransactionTypeOrder   TransactionType = "order"
	TransactionTypePayment TransactionType = "payment"
)

// Transaction is an immutable ledger entry. Amount is always a positive
// magnitude; Type determines whether it adds to or settles a customer's debt.
// Rows are written once and never updated.
type Transaction struct {
	BaseModel
	CustomerID uuid.UUID       `gorm:"type:uuid;index" json:"customer_id"`
	OrderID    *uuid.UUID      `gorm:"type:uuid;index" json:"order_id,omitempty"`
	Type       TransactionType `gorm:"type:varchar(16)" json:"type"`
	Amount     decimal.Decimal `gorm:"type:numeric(14,2)" json:"amount"`
	Status     string          `gorm:"type:varchar(32)" json:"status"`
	EntryDate  time.Time       `gorm:"index" json:"entry_date"`
	Note       string          `json:"note"`
}
