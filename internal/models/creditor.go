package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DebtStatus classifies an external debt entry.
type DebtStatus string

const (
	DebtStatusPending DebtStatus = "pending"
	DebtStatusPaid    DebtStatus = "paid"
	DebtStatusPayment DebtStatus = "payment"
)

// DebtAccountType is the account a debt entry settles through.
type DebtAccountType string

const (
	DebtAccountCash DebtAccountType = "cash"
	DebtAccountBank DebtAccountType = "bank"
	DebtAccountUSD  DebtAccountType = "usd"
)

// Creditor is an external party with its own ledger, independent of
// customers. Its total debt is always derived by replaying the entries in
// date order, never stored here.
type Creditor struct {
	BaseModel
	Name  string `json:"name"`
	Phone string `gorm:"index" json:"phone"`
	Note  string `json:"note"`
}

// ExternalDebt is one signed entry in a creditor's ledger. A positive
// amount means the company owes more; a negative amount settles.
type ExternalDebt struct {
	BaseModel
	CreditorID  uuid.UUID       `gorm:"type:uuid;index" json:"creditor_id"`
	Amount      decimal.Decimal `gorm:"type:numeric(14,2)" json:"amount"`
	Status      DebtStatus      `gorm:"type:varchar(16)" json:"status"`
	AccountType DebtAccountType `gorm:"type:varchar(8)" json:"account_type"`
	EntryDate   time.Time       `gorm:"index" json:"entry_date"`
	Note        string          `json:"note"`
}
