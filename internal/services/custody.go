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

// Delivery-list filters.
const (
	CustodyFilterAll     = "all"
	CustodyFilterRegular = "regular"
	CustodyFilterTemp    = "temp"
)

type custodyStorage interface {
	GetRepresentativeByID(ctx context.Context, id uuid.UUID) (*models.Representative, error)
	GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetOrdersByRepresentativeID(ctx context.Context, repID uuid.UUID) ([]models.Order, error)
	// GetTempSubOrdersByRepresentativeID returns only live sub-orders: their
	// temp order unmerged, the line itself unmerged and not yet delivered.
	GetTempSubOrdersByRepresentativeID(ctx context.Context, repID uuid.UUID) ([]models.SubOrder, error)
	// ApplyDelivery persists the delivered order and its payment transaction
	// in a single database transaction. Payment may be nil when nothing was
	// collected.
	ApplyDelivery(ctx context.Context, order *models.Order, payment *models.Transaction) error
}

// CustodyService accounts for the cash representatives are responsible for:
// what is still out for delivery and what has been collected.
type CustodyService struct {
	storage custodyStorage
	log     zerolog.Logger
}

// NewCustodyService constructs CustodyService.
func NewCustodyService(storage custodyStorage, log zerolog.Logger) *CustodyService {
	return &CustodyService{storage: storage, log: log}
}

// CustodySummary aggregates one representative's position.
type CustodySummary struct {
	Representative *models.Representative `json:"representative"`
	Pending        decimal.Decimal        `json:"pending_custody"`
	Collected      decimal.Decimal        `json:"collected_custody"`
	AssignedOrders int                    `json:"assigned_orders"`
}

// Summary computes pending custody, collected custody and the assigned-order
// count from the current snapshot. Nothing is read from denormalized
// counters.
func (s *CustodyService) Summary(ctx context.Context, repID uuid.UUID) (*CustodySummary, error) {
	rep, orders, subOrders, err := s.snapshot(ctx, repID)
	if err != nil {
		return nil, err
	}

	summary := &CustodySummary{Representative: rep, Pending: decimal.Zero, Collected: decimal.Zero}
	for _, order := range orders {
		switch order.Status {
		case models.OrderStatusOutForDelivery:
			summary.Pending = summary.Pending.Add(order.RemainingAmount)
			summary.AssignedOrders++
		case models.OrderStatusDelivered:
			if order.CollectedAmount != nil {
				summary.Collected = summary.Collected.Add(*order.CollectedAmount)
			}
		}
	}
	for _, sub := range subOrders {
		summary.Pending = summary.Pending.Add(sub.RemainingAmount)
	}
	return summary, nil
}

// PendingCustody is the amount the representative still has to collect.
func (s *CustodyService) PendingCustody(ctx context.Context, repID uuid.UUID) (decimal.Decimal, error) {
	summary, err := s.Summary(ctx, repID)
	if err != nil {
		return decimal.Zero, err
	}
	return summary.Pending, nil
}

// CollectedCustody is the amount the representative has collected on
// delivered orders.
func (s *CustodyService) CollectedCustody(ctx context.Context, repID uuid.UUID) (decimal.Decimal, error) {
	summary, err := s.Summary(ctx, repID)
	if err != nil {
		return decimal.Zero, err
	}
	return summary.Collected, nil
}

// CustodyItem is one row of a representative's delivery list. IsTemp is a
// display marker for bulk-invoice lines, never stored.
type CustodyItem struct {
	ID              uuid.UUID       `json:"id"`
	Reference       string          `json:"reference"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	Status          models.OrderStatus `json:"status"`
	IsTemp          bool            `json:"is_temp"`
}

// DeliveryList returns what the representative still has out, filtered to
// all, regular orders only, or temp sub-orders only.
func (s *CustodyService) DeliveryList(ctx context.Context, repID uuid.UUID, filter string) ([]CustodyItem, error) {
	switch filter {
	case CustodyFilterAll, CustodyFilterRegular, CustodyFilterTemp:
	default:
		return nil, fmt.Errorf("unknown custody filter %q", filter)
	}

	_, orders, subOrders, err := s.snapshot(ctx, repID)
	if err != nil {
		return nil, err
	}

	items := []CustodyItem{}
	if filter != CustodyFilterTemp {
		for _, order := range orders {
			if order.Status != models.OrderStatusOutForDelivery {
				continue
			}
			items = append(items, CustodyItem{
				ID:              order.ID,
				Reference:       order.InvoiceNumber,
				RemainingAmount: order.RemainingAmount,
				Status:          order.Status,
			})
		}
	}
	if filter != CustodyFilterRegular {
		for _, sub := range subOrders {
			items = append(items, CustodyItem{
				ID:              sub.ID,
				Reference:       sub.Description,
				RemainingAmount: sub.RemainingAmount,
				Status:          sub.ShipmentStatus,
				IsTemp:          true,
			})
		}
	}
	return items, nil
}

// Deliver closes out an order: status moves to delivered, the collected
// amount and delivery date are stamped, and a payment transaction for the
// collected cash is emitted. The three writes land in one database
// transaction; a delivered order without its payment entry cannot occur.
func (s *CustodyService) Deliver(ctx context.Context, orderID uuid.UUID, collectedAmount decimal.Decimal) (*models.Order, error) {
	if collectedAmount.IsNegative() {
		return nil, money.ErrInvalidAmount
	}

	order, err := s.storage.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("fetch order: %w", err)
	}
	if order == nil {
		return nil, ErrNotFound
	}
	if order.Status != models.OrderStatusOutForDelivery {
		return nil, ErrIllegalTransition
	}

	collectedAmount = money.Round(collectedAmount)
	if collectedAmount.GreaterThan(order.RemainingAmount) {
		return nil, ErrExcessPayment
	}

	now := time.Now()
	order.Status = models.OrderStatusDelivered
	order.CollectedAmount = &collectedAmount
	order.DeliveryDate = &now
	order.RemainingAmount = order.RemainingAmount.Sub(collectedAmount)

	// Transactions carry positive magnitudes only; a delivery that collected
	// nothing records no payment entry.
	var payment *models.Transaction
	if collectedAmount.IsPositive() {
		status := string(models.OrderStatusDelivered)
		if order.RemainingAmount.IsZero() {
			status = models.StatusPaid
		}
		payment = &models.Transaction{
			CustomerID: order.CustomerID,
			OrderID:    &order.ID,
			Type:       models.TransactionTypePayment,
			Amount:     collectedAmount,
			Status:     status,
			EntryDate:  now,
			Note:       "collected on delivery",
		}
	}

	if err := s.storage.ApplyDelivery(ctx, order, payment); err != nil {
		return nil, fmt.Errorf("apply delivery: %w", err)
	}
	return order, nil
}

func (s *CustodyService) snapshot(ctx context.Context, repID uuid.UUID) (*models.Representative, []models.Order, []models.SubOrder, error) {
	rep, err := s.storage.GetRepresentativeByID(ctx, repID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("fetch representative: %w", err)
	}
	if rep == nil {
		return nil, nil, nil, ErrNotFound
	}

	orders, err := s.storage.GetOrdersByRepresentativeID(ctx, repID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("fetch orders: %w", err)
	}

	subOrders, err := s.storage.GetTempSubOrdersByRepresentativeID(ctx, repID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("fetch sub-orders: %w", err)
	}
	return rep, orders, subOrders, nil
}
