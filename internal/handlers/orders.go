package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/example/safina/internal/models"
	"github.com/example/safina/internal/money"
	"github.com/example/safina/internal/services"
	"github.com/example/safina/internal/utils"
)

// OrderHandler manages order endpoints.
type OrderHandler struct {
	db       *gorm.DB
	ledger   *services.LedgerService
	settings *services.SettingsService
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(db *gorm.DB, ledger *services.LedgerService, settings *services.SettingsService) *OrderHandler {
	return &OrderHandler{db: db, ledger: ledger, settings: settings}
}

type createOrderRequest struct {
	CustomerID       string           `json:"customer_id"`
	InvoiceNumber    string           `json:"invoice_number"`
	TrackingNumber   string           `json:"tracking_number"`
	SellingPriceLYD  decimal.Decimal  `json:"selling_price_lyd"`
	WeightKg         *decimal.Decimal `json:"weight_kg"`
	CostUSD          *decimal.Decimal `json:"cost_usd"`
	PricePerKiloUSD  *decimal.Decimal `json:"price_per_kilo_usd"`
	RepresentativeID string           `json:"representative_id"`
}

// CreateOrder places a new order, freezing the live base rate onto it.
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	var req createOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid customer id")
	}

	rate, err := h.settings.Rate(c.Context(), money.RateBase)
	if err != nil {
		return serviceError(err)
	}

	input := services.CreateOrderInput{
		CustomerID:      customerID,
		InvoiceNumber:   req.InvoiceNumber,
		TrackingNumber:  req.TrackingNumber,
		SellingPriceLYD: req.SellingPriceLYD,
		ExchangeRate:    rate,
		WeightKg:        req.WeightKg,
		CostUSD:         req.CostUSD,
		PricePerKiloUSD: req.PricePerKiloUSD,
	}
	if req.RepresentativeID != "" {
		repID, err := uuid.Parse(req.RepresentativeID)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid representative id")
		}
		input.RepresentativeID = &repID
	}

	order, err := h.ledger.CreateOrder(c.Context(), input)
	if err != nil {
		return serviceError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": order})
}

// ListOrders returns paginated orders, optionally filtered by status or
// customer.
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)

	query := h.db.Model(&models.Order{})
	if status := c.Query("status"); status != "" {
		if !models.OrderStatus(status).Valid() {
			return fiber.NewError(fiber.StatusBadRequest, "unknown status")
		}
		query = query.Where("status = ?", status)
	}
	if customerID := c.Query("customer_id"); customerID != "" {
		id, err := uuid.Parse(customerID)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid customer id")
		}
		query = query.Where("customer_id = ?", id)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var orders []models.Order
	if err := query.Limit(pg.Limit).Offset(pg.Offset).Order("created_at desc").
		Find(&orders).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    orders,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetOrder returns a single order with its ledger entries.
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var order models.Order
	if err := h.db.First(&order, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	var txns []models.Transaction
	if err := h.db.Where("order_id = ?", id).
		Order("entry_date asc, created_at asc").
		Find(&txns).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{
		"order":        order,
		"transactions": txns,
	}})
}

type paymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Note   string          `json:"note"`
}

// RecordPayment credits a payment against an order.
func (h *OrderHandler) RecordPayment(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req paymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	payment, err := h.ledger.RecordPayment(c.Context(), id, req.Amount, req.Note)
	if err != nil {
		return serviceError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": payment})
}

type statusRequest struct {
	Status   string `json:"status"`
	Override bool   `json:"override"`
}

// UpdateStatus moves an order along its lifecycle.
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req statusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.ledger.TransitionStatus(c.Context(), id, models.OrderStatus(req.Status), req.Override); err != nil {
		return serviceError(err)
	}

	return c.JSON(fiber.Map{"success": true})
}

// CancelOrder cancels an order from any non-terminal state.
func (h *OrderHandler) CancelOrder(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.ledger.TransitionStatus(c.Context(), id, models.OrderStatusCancelled, false); err != nil {
		return serviceError(err)
	}

	return c.JSON(fiber.Map{"success": true})
}
