package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the shipment lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending         OrderStatus = "pending"
	OrderStatusProcessed       OrderStatus = "processed"
	OrderStatusReady           OrderStatus = "ready"
	OrderStatusShipped         OrderStatus = "shipped"
	OrderStatusArrivedDubai    OrderStatus = "arrived_dubai"
	OrderStatusArrivedBenghazi OrderStatus = "arrived_benghazi"
	OrderStatusArrivedTobruk   OrderStatus = "arrived_tobruk"
	OrderStatusOutForDelivery  OrderStatus = "out_for_delivery"
	OrderStatusDelivered       OrderStatus = "delivered"
	OrderStatusCancelled       OrderStatus = "cancelled"
)

// StatusPaid marks a fully settled statement line. It is never an order
// lifecycle state of its own.
const StatusPaid = "paid"

// nextStatuses holds the legal forward transitions for each state.
// Cancellation is handled separately: it is legal from any non-terminal state.
var nextStatuses = map[OrderStatus][]OrderStatus{
	OrderStatusPending:         {OrderStatusProcessed},
	OrderStatusProcessed:       {OrderStatusReady},
	OrderStatusReady:           {OrderStatusShipped},
	OrderStatusShipped:         {OrderStatusArrivedDubai, OrderStatusArrivedBenghazi, OrderStatusArrivedTobruk},
	OrderStatusArrivedDubai:    {OrderStatusOutForDelivery},
	OrderStatusArrivedBenghazi: {OrderStatusOutForDelivery},
	OrderStatusArrivedTobruk:   {OrderStatusOutForDelivery},
	OrderStatusOutForDelivery:  {OrderStatusDelivered},
}

// Valid reports whether s is a known lifecycle state.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessed, OrderStatusReady,
		OrderStatusShipped, OrderStatusArrivedDubai, OrderStatusArrivedBenghazi,
		OrderStatusArrivedTobruk, OrderStatusOutForDelivery,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are allowed from s.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransitionTo reports whether moving from s to next is a legal transition.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s.Terminal() {
		return false
	}
	if next == OrderStatusCancelled {
		return true
	}
	for _, allowed := range nextStatuses[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Order is a customer shipment with its price fixed at creation. The
// exchange rate is snapshotted so historical statements convert with the
// rate that applied when the order was placed, not the live one.
type Order struct {
	BaseModel
	CustomerID       uuid.UUID        `gorm:"type:uuid;index" json:"customer_id"`
	Customer         *Customer        `json:"customer,omitempty"`
	InvoiceNumber    string           `gorm:"uniqueIndex" json:"invoice_number"`
	TrackingNumber   string           `json:"tracking_number"`
	SellingPriceLYD  decimal.Decimal  `gorm:"type:numeric(14,2)" json:"selling_price_lyd"`
	RemainingAmount  decimal.Decimal  `gorm:"type:numeric(14,2)" json:"remaining_amount"`
	Status           OrderStatus      `gorm:"type:varchar(32);index" json:"status"`
	ExchangeRate     decimal.Decimal  `gorm:"type:numeric(14,4)" json:"exchange_rate"`
	WeightKg         *decimal.Decimal `gorm:"type:numeric(10,3)" json:"weight_kg,omitempty"`
	CostUSD          *decimal.Decimal `gorm:"type:numeric(14,2)" json:"cost_usd,omitempty"`
	PricePerKiloUSD  *decimal.Decimal `gorm:"type:numeric(14,2)" json:"price_per_kilo_usd,omitempty"`
	RepresentativeID *uuid.UUID       `gorm:"type:uuid;index" json:"representative_id,omitempty"`
	CollectedAmount  *decimal.Decimal `gorm:"type:numeric(14,2)" json:"collected_amount,omitempty"`
	DeliveryDate     *time.Time       `json:"delivery_date,omitempty"`
}
