package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/example/safina/internal/models"
	"github.com/example/safina/internal/money"
)

// ledgerStorage is the persistence surface the ledger needs. Lookups return
// (nil, nil) when the record is absent; the service maps that to ErrNotFound.
// Compound writes are applied atomically by the implementation.
type ledgerStorage interface {
	GetCustomerByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetTransactionsByOrderID(ctx context.Context, orderID uuid.UUID) ([]models.Transaction, error)
	// CustomerSnapshot fetches a customer's orders, transactions and deposits
	// in one consistent read so a statement never mixes collections from
	// different points in time.
	CustomerSnapshot(ctx context.Context, customerID uuid.UUID) (*CustomerSnapshot, error)
	CreateOrderWithDebit(ctx context.Context, order *models.Order, debit *models.Transaction) error
	SavePayment(ctx context.Context, order *models.Order, payment *models.Transaction) error
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status models.OrderStatus) error
}

// CustomerSnapshot is a point-in-time view of everything a customer
// statement is computed from.
type CustomerSnapshot struct {
	Customer     *models.Customer
	Orders       []models.Order
	Transactions []models.Transaction
	Deposits     []models.Deposit
}

// LedgerService derives remaining amounts, customer debt and statements from
// the immutable transaction ledger. It holds no state between calls.
type LedgerService struct {
	storage ledgerStorage
	log     zerolog.Logger
}

// NewLedgerService constructs LedgerService.
func NewLedgerService(storage ledgerStorage, log zerolog.Logger) *LedgerService {
	return &LedgerService{storage: storage, log: log}
}

// ComputeRemaining derives an order's remaining amount from the payment
// transactions referencing it. Entries referencing a different order are
// orphans: logged as inconsistencies and excluded from the sum.
func (s *LedgerService) ComputeRemaining(order *models.Order, txns []models.Transaction) decimal.Decimal {
	paid := decimal.Zero
	for _, txn := range txns {
		if txn.Type != models.TransactionTypePayment {
			continue
		}
		if txn.OrderID == nil || *txn.OrderID != order.ID {
			s.log.Warn().
				Str("transaction_id", txn.ID.String()).
				Str("order_id", order.ID.String()).
				Err(ErrInconsistent).
				Msg("payment references a different order, excluded")
			continue
		}
		paid = paid.Add(txn.Amount)
	}

	remaining := order.SellingPriceLYD.Sub(paid)
	if remaining.IsNegative() {
		s.log.Warn().
			Str("order_id", order.ID.String()).
			Str("overpaid_by", remaining.Neg().String()).
			Err(ErrInconsistent).
			Msg("payments exceed selling price, remaining floored at zero")
		return decimal.Zero
	}
	return money.Round(remaining)
}

// CustomerDebt returns the sum of remaining amounts over the customer's
// non-cancelled orders. Cancelled orders are excluded entirely, but their
// transactions stay on record.
func (s *LedgerService) CustomerDebt(ctx context.Context, customerID uuid.UUID) (decimal.Decimal, error) {
	snapshot, err := s.customerSnapshot(ctx, customerID)
	if err != nil {
		return decimal.Zero, err
	}
	return s.debtFromSnapshot(snapshot), nil
}

func (s *LedgerService) debtFromSnapshot(snapshot *CustomerSnapshot) decimal.Decimal {
	byOrder := s.paymentsByOrder(snapshot)

	debt := decimal.Zero
	for i := range snapshot.Orders {
		order := &snapshot.Orders[i]
		if order.Status == models.OrderStatusCancelled {
			continue
		}
		debt = debt.Add(s.ComputeRemaining(order, byOrder[order.ID]))
	}
	return debt
}

// paymentsByOrder groups a snapshot's transactions by order. Transactions
// referencing an order outside the snapshot are orphans; they are logged and
// dropped from every aggregate.
func (s *LedgerService) paymentsByOrder(snapshot *CustomerSnapshot) map[uuid.UUID][]models.Transaction {
	known := make(map[uuid.UUID]bool, len(snapshot.Orders))
	for _, order := range snapshot.Orders {
		known[order.ID] = true
	}

	byOrder := make(map[uuid.UUID][]models.Transaction)
	for _, txn := range snapshot.Transactions {
		if txn.OrderID == nil {
			continue
		}
		if !known[*txn.OrderID] {
			s.log.Warn().
				Str("transaction_id", txn.ID.String()).
				Str("order_id", txn.OrderID.String()).
				Err(ErrInconsistent).
				Msg("transaction references a missing order, excluded")
			continue
		}
		byOrder[*txn.OrderID] = append(byOrder[*txn.OrderID], txn)
	}
	return byOrder
}

// CreateOrderInput carries the fields an admin supplies when placing an
// order. The exchange rate is the live settings rate, frozen onto the order.
type CreateOrderInput struct {
	CustomerID       uuid.UUID
	InvoiceNumber    string
	TrackingNumber   string
	SellingPriceLYD  decimal.Decimal
	ExchangeRate     decimal.Decimal
	WeightKg         *decimal.Decimal
	CostUSD          *decimal.Decimal
	PricePerKiloUSD  *decimal.Decimal
	RepresentativeID *uuid.UUID
}

// CreateOrder writes a new order together with its debit transaction in one
// atomic unit. The order starts pending with the full price outstanding.
func (s *LedgerService) CreateOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	if !input.SellingPriceLYD.IsPositive() {
		return nil, money.ErrInvalidAmount
	}
	if !input.ExchangeRate.IsPositive() {
		return nil, money.ErrInvalidRate
	}

	customer, err := s.storage.GetCustomerByID(ctx, input.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("fetch customer: %w", err)
	}
	if customer == nil {
		return nil, ErrNotFound
	}

	price := money.Round(input.SellingPriceLYD)
	order := &models.Order{
		CustomerID:       input.CustomerID,
		InvoiceNumber:    input.InvoiceNumber,
		TrackingNumber:   input.TrackingNumber,
		SellingPriceLYD:  price,
		RemainingAmount:  price,
		Status:           models.OrderStatusPending,
		ExchangeRate:     input.ExchangeRate,
		WeightKg:         input.WeightKg,
		CostUSD:          input.CostUSD,
		PricePerKiloUSD:  input.PricePerKiloUSD,
		RepresentativeID: input.RepresentativeID,
	}

	debit := &models.Transaction{
		CustomerID: input.CustomerID,
		Type:       models.TransactionTypeOrder,
		Amount:     price,
		Status:     string(models.OrderStatusPending),
		EntryDate:  time.Now(),
	}

	if err := s.storage.CreateOrderWithDebit(ctx, order, debit); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return order, nil
}

// RecordPayment settles part of an order's remaining amount. The payment
// transaction and the updated remaining amount are written atomically. A
// payment that would exceed the selling price is rejected.
func (s *LedgerService) RecordPayment(ctx context.Context, orderID uuid.UUID, amount decimal.Decimal, note string) (*models.Transaction, error) {
	if !amount.IsPositive() {
		return nil, money.ErrInvalidAmount
	}

	order, err := s.storage.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("fetch order: %w", err)
	}
	if order == nil {
		return nil, ErrNotFound
	}
	if order.Status == models.OrderStatusCancelled {
		return nil, ErrIllegalTransition
	}

	txns, err := s.storage.GetTransactionsByOrderID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("fetch transactions: %w", err)
	}

	remaining := s.ComputeRemaining(order, txns)
	amount = money.Round(amount)
	if amount.GreaterThan(remaining) {
		return nil, ErrExcessPayment
	}

	order.RemainingAmount = remaining.Sub(amount)

	status := string(order.Status)
	if order.RemainingAmount.IsZero() {
		status = models.StatusPaid
	}
	payment := &models.Transaction{
		CustomerID: order.CustomerID,
		OrderID:    &order.ID,
		Type:       models.TransactionTypePayment,
		Amount:     amount,
		Status:     status,
		EntryDate:  time.Now(),
		Note:       note,
	}

	if err := s.storage.SavePayment(ctx, order, payment); err != nil {
		return nil, fmt.Errorf("save payment: %w", err)
	}
	return payment, nil
}

// TransitionStatus moves an order along its lifecycle. Illegal jumps are
// rejected unless the administrative override flag is set, in which case the
// jump is logged distinctly. Delivery is never reachable here: it must go
// through the custody service so the collected cash is recorded in the same
// write.
func (s *LedgerService) TransitionStatus(ctx context.Context, orderID uuid.UUID, next models.OrderStatus, override bool) error {
	if !next.Valid() || next == models.OrderStatusDelivered {
		return ErrIllegalTransition
	}

	order, err := s.storage.GetOrderByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("fetch order: %w", err)
	}
	if order == nil {
		return ErrNotFound
	}

	if !order.Status.CanTransitionTo(next) {
		if !override {
			return ErrIllegalTransition
		}
		if order.Status.Terminal() {
			return ErrIllegalTransition
		}
		s.log.Warn().
			Str("order_id", orderID.String()).
			Str("from", string(order.Status)).
			Str("to", string(next)).
			Bool("administrative_override", true).
			Msg("status transition forced past lifecycle validation")
	}

	if err := s.storage.UpdateOrderStatus(ctx, orderID, next); err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	return nil
}

// StatementLine is one chronological row of a customer statement.
type StatementLine struct {
	Date      time.Time       `json:"date"`
	Kind      string          `json:"kind"` // order, payment or deposit
	Reference string          `json:"reference"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Status    string          `json:"status"`
}

// Statement is a point-in-time rendering of one customer's ledger, deposits
// and order history. Balance combines order debt with pending deposits so
// callers do not re-derive it.
type Statement struct {
	Customer        *models.Customer `json:"customer"`
	Lines           []StatementLine  `json:"lines"`
	TotalOrders     decimal.Decimal  `json:"total_orders_value"`
	Debt            decimal.Decimal  `json:"debt"`
	PendingDeposits decimal.Decimal  `json:"pending_deposits"`
	Balance         decimal.Decimal  `json:"balance"`
}

// CustomerStatement builds the statement from a single consistent snapshot.
// Lines are ordered by date ascending; equal dates keep insertion order.
func (s *LedgerService) CustomerStatement(ctx context.Context, customerID uuid.UUID) (*Statement, error) {
	snapshot, err := s.customerSnapshot(ctx, customerID)
	if err != nil {
		return nil, err
	}

	byInvoice := make(map[uuid.UUID]string, len(snapshot.Orders))
	totalOrders := decimal.Zero
	for _, order := range snapshot.Orders {
		byInvoice[order.ID] = order.InvoiceNumber
		if order.Status != models.OrderStatusCancelled {
			totalOrders = totalOrders.Add(order.SellingPriceLYD)
		}
	}

	lines := make([]StatementLine, 0, len(snapshot.Transactions)+len(snapshot.Deposits))
	for _, txn := range snapshot.Transactions {
		line := StatementLine{
			Date:   txn.EntryDate,
			Kind:   string(txn.Type),
			Status: txn.Status,
		}
		if txn.OrderID != nil {
			line.Reference = byInvoice[*txn.OrderID]
		}
		if txn.Type == models.TransactionTypePayment {
			line.Credit = txn.Amount
		} else {
			line.Debit = txn.Amount
		}
		lines = append(lines, line)
	}

	pendingDeposits := decimal.Zero
	for _, dep := range snapshot.Deposits {
		if dep.Status == models.DepositStatusPending {
			pendingDeposits = pendingDeposits.Add(dep.Amount)
		}
		lines = append(lines, StatementLine{
			Date:      dep.CreatedAt,
			Kind:      "deposit",
			Reference: dep.Note,
			Credit:    dep.Amount,
			Status:    string(dep.Status),
		})
	}

	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].Date.Before(lines[j].Date)
	})

	debt := s.debtFromSnapshot(snapshot)
	return &Statement{
		Customer:        snapshot.Customer,
		Lines:           lines,
		TotalOrders:     totalOrders,
		Debt:            debt,
		PendingDeposits: pendingDeposits,
		Balance:         debt.Sub(pendingDeposits),
	}, nil
}

func (s *LedgerService) customerSnapshot(ctx context.Context, customerID uuid.UUID) (*CustomerSnapshot, error) {
	snapshot, err := s.storage.CustomerSnapshot(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("fetch customer snapshot: %w", err)
	}
	if snapshot == nil || snapshot.Customer == nil {
		return nil, ErrNotFound
	}
	return snapshot, nil
}
