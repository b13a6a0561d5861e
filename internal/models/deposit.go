package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DepositStatus is the lifecycle of earnest money taken ahead of an order.
type DepositStatus string

const (
	DepositStatusPending   DepositStatus = "pending"
	DepositStatusCollected DepositStatus = "collected"
	DepositStatusCancelled DepositStatus = "cancelled"
)

// Deposit is earnest money held for a customer. It never reduces an order's
// remaining amount; deposits and order debt are reconciled only on the
// statement, since a deposit may exist before any order does.
type Deposit struct {
	BaseModel
	CustomerID       uuid.UUID       `gorm:"type:uuid;index" json:"customer_id"`
	Amount           decimal.Decimal `gorm:"type:numeric(14,2)" json:"amount"`
	Status           DepositStatus   `gorm:"type:varchar(16);index" json:"status"`
	RepresentativeID *uuid.UUID      `gorm:"type:uuid;index" json:"representative_id,omitempty"`
	CollectedBy      string          `json:"collected_by,omitempty"`
	CollectedDate    *time.Time      `json:"collected_date,omitempty"`
	Note             string          `json:"note"`
}
