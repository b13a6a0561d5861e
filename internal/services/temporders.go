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

type tempOrderStorage interface {
	// GetTempOrderByID returns the temp order with its sub-orders loaded.
	GetTempOrderByID(ctx context.Context, id uuid.UUID) (*models.TempOrder, error)
	GetSubOrderByID(ctx context.Context, id uuid.UUID) (*models.SubOrder, error)
	CreateTempOrder(ctx context.Context, tempOrder *models.TempOrder) error
	// ApplyMerge creates the canonical order with its ledger entries and
	// records the merge link on the source rows, all in one database
	// transaction.
	ApplyMerge(ctx context.Context, tempOrder *models.TempOrder, subOrder *models.SubOrder, order *models.Order, entries []*models.Transaction) error
}

// TempOrderService aggregates bulk invoices and merges them into canonical
// orders. Merged temp orders stay on record for audit but drop out of every
// pending aggregation.
type TempOrderService struct {
	storage tempOrderStorage
	log     zerolog.Logger
}

// NewTempOrderService constructs TempOrderService.
func NewTempOrderService(storage tempOrderStorage, log zerolog.Logger) *TempOrderService {
	return &TempOrderService{storage: storage, log: log}
}

// Totals derives a temp order's aggregate price and outstanding amount from
// its sub-orders.
func Totals(subOrders []models.SubOrder) (total, remaining decimal.Decimal) {
	total, remaining = decimal.Zero, decimal.Zero
	for _, sub := range subOrders {
		total = total.Add(sub.SellingPriceLYD)
		remaining = remaining.Add(sub.RemainingAmount)
	}
	return total, remaining
}

// SubOrderInput is one line of a new bulk invoice.
type SubOrderInput struct {
	Description      string
	TrackingNumber   string
	SellingPriceLYD  decimal.Decimal
	RepresentativeID *uuid.UUID
}

// Create opens a bulk invoice with its lines. Every line starts pending with
// its full price outstanding; the live exchange rate is frozen onto the
// invoice.
func (s *TempOrderService) Create(ctx context.Context, customerID uuid.UUID, invoiceNumber string, rate decimal.Decimal, subInputs []SubOrderInput) (*models.TempOrder, error) {
	if !rate.IsPositive() {
		return nil, money.ErrInvalidRate
	}
	if len(subInputs) == 0 {
		return nil, money.ErrInvalidAmount
	}

	tempOrder := &models.TempOrder{
		CustomerID:    customerID,
		InvoiceNumber: invoiceNumber,
		ExchangeRate:  rate,
	}
	for _, input := range subInputs {
		if !input.SellingPriceLYD.IsPositive() {
			return nil, money.ErrInvalidAmount
		}
		price := money.Round(input.SellingPriceLYD)
		tempOrder.SubOrders = append(tempOrder.SubOrders, models.SubOrder{
			Description:      input.Description,
			TrackingNumber:   input.TrackingNumber,
			SellingPriceLYD:  price,
			RemainingAmount:  price,
			ShipmentStatus:   models.OrderStatusPending,
			RepresentativeID: input.RepresentativeID,
		})
	}

	if err := s.storage.CreateTempOrder(ctx, tempOrder); err != nil {
		return nil, fmt.Errorf("create temp order: %w", err)
	}
	return tempOrder, nil
}

// Merge folds a whole bulk invoice into one canonical order. The temp order
// keeps its rows but is superseded: ParentInvoiceID links to the new order
// and the invoice leaves every pending view. Merging twice is rejected.
func (s *TempOrderService) Merge(ctx context.Context, tempOrderID uuid.UUID) (*models.Order, error) {
	tempOrder, err := s.storage.GetTempOrderByID(ctx, tempOrderID)
	if err != nil {
		return nil, fmt.Errorf("fetch temp order: %w", err)
	}
	if tempOrder == nil {
		return nil, ErrNotFound
	}
	if tempOrder.Merged() {
		return nil, ErrDoubleMerge
	}

	total, remaining := Totals(tempOrder.SubOrders)
	order := &models.Order{
		CustomerID:      tempOrder.CustomerID,
		InvoiceNumber:   tempOrder.InvoiceNumber + "-M",
		SellingPriceLYD: total,
		RemainingAmount: remaining,
		Status:          models.OrderStatusPending,
		ExchangeRate:    tempOrder.ExchangeRate,
	}
	entries := s.mergeEntries(tempOrder.CustomerID, total, remaining)

	if err := s.storage.ApplyMerge(ctx, tempOrder, nil, order, entries); err != nil {
		return nil, fmt.Errorf("apply merge: %w", err)
	}

	s.log.Info().
		Str("temp_order_id", tempOrderID.String()).
		Str("order_id", order.ID.String()).
		Msg("temp order merged into canonical order")
	return order, nil
}

// MergeSubOrder promotes a single bulk-invoice line to a canonical order.
// The parent invoice stays live for its other lines.
func (s *TempOrderService) MergeSubOrder(ctx context.Context, subOrderID uuid.UUID) (*models.Order, error) {
	subOrder, err := s.storage.GetSubOrderByID(ctx, subOrderID)
	if err != nil {
		return nil, fmt.Errorf("fetch sub-order: %w", err)
	}
	if subOrder == nil {
		return nil, ErrNotFound
	}
	if subOrder.MergedOrderID != nil {
		return nil, ErrDoubleMerge
	}

	tempOrder, err := s.storage.GetTempOrderByID(ctx, subOrder.TempOrderID)
	if err != nil {
		return nil, fmt.Errorf("fetch temp order: %w", err)
	}
	if tempOrder == nil {
		s.log.Warn().
			Str("sub_order_id", subOrderID.String()).
			Err(ErrInconsistent).
			Msg("sub-order references a missing temp order")
		return nil, ErrNotFound
	}
	if tempOrder.Merged() {
		return nil, ErrDoubleMerge
	}

	order := &models.Order{
		CustomerID:       tempOrder.CustomerID,
		InvoiceNumber:    fmt.Sprintf("%s-L%s", tempOrder.InvoiceNumber, subOrder.ID.String()[:8]),
		TrackingNumber:   subOrder.TrackingNumber,
		SellingPriceLYD:  subOrder.SellingPriceLYD,
		RemainingAmount:  subOrder.RemainingAmount,
		Status:           models.OrderStatusPending,
		ExchangeRate:     tempOrder.ExchangeRate,
		RepresentativeID: subOrder.RepresentativeID,
	}
	entries := s.mergeEntries(tempOrder.CustomerID, subOrder.SellingPriceLYD, subOrder.RemainingAmount)

	if err := s.storage.ApplyMerge(ctx, nil, subOrder, order, entries); err != nil {
		return nil, fmt.Errorf("apply merge: %w", err)
	}

	s.log.Info().
		Str("sub_order_id", subOrderID.String()).
		Str("order_id", order.ID.String()).
		Msg("sub-order merged into canonical order")
	return order, nil
}

// mergeEntries builds the ledger entries for a merge: the debit for the full
// price and, when the bulk lines were already partly paid, a carried payment
// so the canonical order's recomputed remaining matches what was outstanding.
func (s *TempOrderService) mergeEntries(customerID uuid.UUID, total, remaining decimal.Decimal) []*models.Transaction {
	now := time.Now()
	entries := []*models.Transaction{{
		CustomerID: customerID,
		Type:       models.TransactionTypeOrder,
		Amount:     total,
		Status:     string(models.OrderStatusPending),
		EntryDate:  now,
		Note:       "merged from bulk invoice",
	}}

	carried := total.Sub(remaining)
	if carried.IsPositive() {
		entries = append(entries, &models.Transaction{
			CustomerID: customerID,
			Type:       models.TransactionTypePayment,
			Amount:     carried,
			Status:     string(models.OrderStatusPending),
			EntryDate:  now,
			Note:       "payments carried from bulk invoice",
		})
	}
	return entries
}
