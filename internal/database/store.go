package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/safina/internal/models"
	"github.com/example/safina/internal/services"
)

// Store is the GORM-backed persistence layer behind the ledger services.
// Single-record lookups return (nil, nil) when the row is absent; compound
// writes run inside one database transaction so partial application of a
// delivery, merge or payment cannot occur.
type Store struct {
	db *gorm.DB
}

// NewStore constructs Store.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func first[T any](db *gorm.DB, ctx context.Context, query string, args ...any) (*T, error) {
	var record T
	err := db.WithContext(ctx).First(&record, append([]any{query}, args...)...).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// GetCustomerByID looks up one customer.
func (s *Store) GetCustomerByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	return first[models.Customer](s.db, ctx, "id = ?", id)
}

// GetRepresentativeByID looks up one representative.
func (s *Store) GetRepresentativeByID(ctx context.Context, id uuid.UUID) (*models.Representative, error) {
	return first[models.Representative](s.db, ctx, "id = ?", id)
}

// GetOrderByID looks up one order.
func (s *Store) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return first[models.Order](s.db, ctx, "id = ?", id)
}

// GetOrdersByCustomerID lists a customer's orders, oldest first.
func (s *Store) GetOrdersByCustomerID(ctx context.Context, customerID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at asc").
		Find(&orders).Error
	return orders, err
}

// GetOrdersByRepresentativeID lists the orders assigned to a representative.
func (s *Store) GetOrdersByRepresentativeID(ctx context.Context, repID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Where("representative_id = ?", repID).
		Order("created_at asc").
		Find(&orders).Error
	return orders, err
}

// GetTransactionsByOrderID lists an order's ledger entries in date order;
// ties keep insertion order.
func (s *Store) GetTransactionsByOrderID(ctx context.Context, orderID uuid.UUID) ([]models.Transaction, error) {
	var txns []models.Transaction
	err := s.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("entry_date asc, created_at asc").
		Find(&txns).Error
	return txns, err
}

// GetTransactionsByUserID lists a customer's ledger entries in date order.
func (s *Store) GetTransactionsByUserID(ctx context.Context, customerID uuid.UUID) ([]models.Transaction, error) {
	var txns []models.Transaction
	err := s.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("entry_date asc, created_at asc").
		Find(&txns).Error
	return txns, err
}

// CustomerSnapshot fetches a customer's orders, transactions and deposits
// inside one database transaction so statement inputs cannot skew across
// separate reads.
func (s *Store) CustomerSnapshot(ctx context.Context, customerID uuid.UUID) (*services.CustomerSnapshot, error) {
	var snapshot services.CustomerSnapshot
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if err := tx.First(&customer, "id = ?", customerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		snapshot.Customer = &customer

		if err := tx.Where("customer_id = ?", customerID).
			Order("created_at asc").
			Find(&snapshot.Orders).Error; err != nil {
			return err
		}
		if err := tx.Where("customer_id = ?", customerID).
			Order("entry_date asc, created_at asc").
			Find(&snapshot.Transactions).Error; err != nil {
			return err
		}
		return tx.Where("customer_id = ?", customerID).
			Order("created_at asc").
			Find(&snapshot.Deposits).Error
	})
	if err != nil {
		return nil, err
	}
	if snapshot.Customer == nil {
		return nil, nil
	}
	return &snapshot, nil
}

// CreateOrderWithDebit writes an order and its debit entry atomically.
func (s *Store) CreateOrderWithDebit(ctx context.Context, order *models.Order, debit *models.Transaction) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		debit.OrderID = &order.ID
		return tx.Create(debit).Error
	})
}

// SavePayment writes a payment entry and the order's new remaining amount
// atomically.
func (s *Store) SavePayment(ctx context.Context, order *models.Order, payment *models.Transaction) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Order{}).
			Where("id = ?", order.ID).
			Update("remaining_amount", order.RemainingAmount).Error; err != nil {
			return err
		}
		return tx.Create(payment).Error
	})
}

// UpdateOrderStatus writes a validated status transition.
func (s *Store) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status models.OrderStatus) error {
	return s.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("status", status).Error
}

// ApplyDelivery persists a delivery: the order's terminal state and the
// payment for the collected cash land in one transaction. Payment is nil
// when nothing was collected.
func (s *Store) ApplyDelivery(ctx context.Context, order *models.Order, payment *models.Transaction) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{
			"status":           order.Status,
			"collected_amount": order.CollectedAmount,
			"delivery_date":    order.DeliveryDate,
			"remaining_amount": order.RemainingAmount,
		}
		if err := tx.Model(&models.Order{}).
			Where("id = ?", order.ID).
			Updates(updates).Error; err != nil {
			return err
		}
		if payment == nil {
			return nil
		}
		return tx.Create(payment).Error
	})
}

// GetDepositByID looks up one deposit.
func (s *Store) GetDepositByID(ctx context.Context, id uuid.UUID) (*models.Deposit, error) {
	return first[models.Deposit](s.db, ctx, "id = ?", id)
}

// GetDepositsByCustomerID lists a customer's deposits, oldest first.
func (s *Store) GetDepositsByCustomerID(ctx context.Context, customerID uuid.UUID) ([]models.Deposit, error) {
	var deposits []models.Deposit
	err := s.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at asc").
		Find(&deposits).Error
	return deposits, err
}

// GetDepositsByRepresentativeID lists deposits assigned to a representative.
func (s *Store) GetDepositsByRepresentativeID(ctx context.Context, repID uuid.UUID) ([]models.Deposit, error) {
	var deposits []models.Deposit
	err := s.db.WithContext(ctx).
		Where("representative_id = ?", repID).
		Order("created_at asc").
		Find(&deposits).Error
	return deposits, err
}

// CreateDeposit writes a new deposit.
func (s *Store) CreateDeposit(ctx context.Context, deposit *models.Deposit) error {
	return s.db.WithContext(ctx).Create(deposit).Error
}

// SaveDeposit writes a deposit's status transition.
func (s *Store) SaveDeposit(ctx context.Context, deposit *models.Deposit) error {
	return s.db.WithContext(ctx).Save(deposit).Error
}

// GetCreditorByID looks up one creditor.
func (s *Store) GetCreditorByID(ctx context.Context, id uuid.UUID) (*models.Creditor, error) {
	return first[models.Creditor](s.db, ctx, "id = ?", id)
}

// GetExternalDebtsForCreditor lists a creditor's entries sorted by entry
// date ascending; equal dates keep creation order so the running balance is
// deterministic.
func (s *Store) GetExternalDebtsForCreditor(ctx context.Context, creditorID uuid.UUID) ([]models.ExternalDebt, error) {
	var debts []models.ExternalDebt
	err := s.db.WithContext(ctx).
		Where("creditor_id = ?", creditorID).
		Order("entry_date asc, created_at asc").
		Find(&debts).Error
	return debts, err
}

// GetTempOrderByID looks up a temp order with its sub-orders loaded.
func (s *Store) GetTempOrderByID(ctx context.Context, id uuid.UUID) (*models.TempOrder, error) {
	var tempOrder models.TempOrder
	err := s.db.WithContext(ctx).
		Preload("SubOrders", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at asc")
		}).
		First(&tempOrder, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tempOrder, nil
}

// GetSubOrderByID looks up one sub-order.
func (s *Store) GetSubOrderByID(ctx context.Context, id uuid.UUID) (*models.SubOrder, error) {
	return first[models.SubOrder](s.db, ctx, "id = ?", id)
}

// GetTempSubOrdersByRepresentativeID returns the representative's live bulk
// lines: parent invoice unmerged, line unmerged, and not yet delivered or
// cancelled.
func (s *Store) GetTempSubOrdersByRepresentativeID(ctx context.Context, repID uuid.UUID) ([]models.SubOrder, error) {
	var subOrders []models.SubOrder
	err := s.db.WithContext(ctx).
		Joins("JOIN temp_orders ON temp_orders.id = sub_orders.temp_order_id").
		Where("sub_orders.representative_id = ?", repID).
		Where("sub_orders.merged_order_id IS NULL").
		Where("sub_orders.shipment_status NOT IN ?", []models.OrderStatus{models.OrderStatusDelivered, models.OrderStatusCancelled}).
		Where("temp_orders.parent_invoice_id IS NULL").
		Order("sub_orders.created_at asc").
		Find(&subOrders).Error
	return subOrders, err
}

// CreateTempOrder writes a bulk invoice with its lines.
func (s *Store) CreateTempOrder(ctx context.Context, tempOrder *models.TempOrder) error {
	return s.db.WithContext(ctx).Create(tempOrder).Error
}

// ApplyMerge creates the canonical order with its ledger entries and links
// the source temp order or sub-order to it, all in one transaction.
func (s *Store) ApplyMerge(ctx context.Context, tempOrder *models.TempOrder, subOrder *models.SubOrder, order *models.Order, entries []*models.Transaction) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		for _, entry := range entries {
			entry.OrderID = &order.ID
			if err := tx.Create(entry).Error; err != nil {
				return err
			}
		}
		if tempOrder != nil {
			if err := tx.Model(&models.TempOrder{}).
				Where("id = ? AND parent_invoice_id IS NULL", tempOrder.ID).
				Update("parent_invoice_id", order.ID).Error; err != nil {
				return err
			}
		}
		if subOrder != nil {
			if err := tx.Model(&models.SubOrder{}).
				Where("id = ? AND merged_order_id IS NULL", subOrder.ID).
				Update("merged_order_id", order.ID).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GetAppSettings returns the singleton settings row.
func (s *Store) GetAppSettings(ctx context.Context) (*models.AppSettings, error) {
	var settings models.AppSettings
	err := s.db.WithContext(ctx).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// SaveAppSettings writes the settings row back.
func (s *Store) SaveAppSettings(ctx context.Context, settings *models.AppSettings) error {
	return s.db.WithContext(ctx).Save(settings).Error
}
