package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TempOrder is a provisional bulk invoice holding many sub-orders with
// independent lifecycles. Once merged into a canonical Order,
// ParentInvoiceID records the link and the temp order drops out of every
// pending aggregation; the rows themselves stay for audit.
type TempOrder struct {
	BaseModel
	CustomerID      uuid.UUID       `gorm:"type:uuid;index" json:"customer_id"`
	Customer        *Customer       `json:"customer,omitempty"`
	InvoiceNumber   string          `gorm:"uniqueIndex" json:"invoice_number"`
	ExchangeRate    decimal.Decimal `gorm:"type:numeric(14,4)" json:"exchange_rate"`
	ParentInvoiceID *uuid.UUID      `gorm:"type:uuid;index" json:"parent_invoice_id,omitempty"`
	SubOrders       []SubOrder      `json:"sub_orders,omitempty"`
}

// Merged reports whether this temp order has already been folded into a
// canonical order.
func (t *TempOrder) Merged() bool {
	return t.ParentInvoiceID != nil
}

// SubOrder is one line item of a bulk invoice with its own price, shipment
// status and representative assignment. MergedOrderID is set when the line
// is individually promoted to a canonical order.
type SubOrder struct {
	BaseModel
	TempOrderID      uuid.UUID       `gorm:"type:uuid;index" json:"temp_order_id"`
	Description      string          `json:"description"`
	TrackingNumber   string          `json:"tracking_number"`
	SellingPriceLYD  decimal.Decimal `gorm:"type:numeric(14,2)" json:"selling_price_lyd"`
	RemainingAmount  decimal.Decimal `gorm:"type:numeric(14,2)" json:"remaining_amount"`
	ShipmentStatus   OrderStatus     `gorm:"type:varchar(32);index" json:"shipment_status"`
	RepresentativeID *uuid.UUID      `gorm:"type:uuid;index" json:"representative_id,omitempty"`
	MergedOrderID    *uuid.UUID      `gorm:"type:uuid" json:"merged_order_id,omitempty"`
}
