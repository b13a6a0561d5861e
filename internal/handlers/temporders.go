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

// TempOrderHandler manages bulk invoices and their merges.
type TempOrderHandler struct {
	db         *gorm.DB
	tempOrders *services.TempOrderService
	settings   *services.SettingsService
}

// NewTempOrderHandler constructs TempOrderHandler.
func NewTempOrderHandler(db *gorm.DB, tempOrders *services.TempOrderService, settings *services.SettingsService) *TempOrderHandler {
	return &TempOrderHandler{db: db, tempOrders: tempOrders, settings: settings}
}

type subOrderRequest struct {
	Description      string          `json:"description"`
	TrackingNumber   string          `json:"tracking_number"`
	SellingPriceLYD  decimal.Decimal `json:"selling_price_lyd"`
	RepresentativeID string          `json:"representative_id"`
}

type createTempOrderRequest struct {
	CustomerID    string            `json:"customer_id"`
	InvoiceNumber string            `json:"invoice_number"`
	SubOrders     []subOrderRequest `json:"sub_orders"`
}

// CreateTempOrder opens a bulk invoice with its lines.
func (h *TempOrderHandler) CreateTempOrder(c *fiber.Ctx) error {
	var req createTempOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid customer id")
	}

	inputs := make([]services.SubOrderInput, 0, len(req.SubOrders))
	for _, sub := range req.SubOrders {
		input := services.SubOrderInput{
			Description:     sub.Description,
			TrackingNumber:  sub.TrackingNumber,
			SellingPriceLYD: sub.SellingPriceLYD,
		}
		if sub.RepresentativeID != "" {
			repID, err := uuid.Parse(sub.RepresentativeID)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "invalid representative id")
			}
			input.RepresentativeID = &repID
		}
		inputs = append(inputs, input)
	}

	rate, err := h.settings.Rate(c.Context(), money.RateBase)
	if err != nil {
		return serviceError(err)
	}

	tempOrder, err := h.tempOrders.Create(c.Context(), customerID, req.InvoiceNumber, rate, inputs)
	if err != nil {
		return serviceError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": tempOrder})
}

// ListTempOrders returns paginated unmerged bulk invoices with their derived
// totals.
func (h *TempOrderHandler) ListTempOrders(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)

	query := h.db.Model(&models.TempOrder{}).Where("parent_invoice_id IS NULL")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var tempOrders []models.TempOrder
	if err := query.Preload("SubOrders").
		Limit(pg.Limit).Offset(pg.Offset).Order("created_at desc").
		Find(&tempOrders).Error; err != nil {
		return err
	}

	type tempOrderView struct {
		models.TempOrder
		TotalAmount     decimal.Decimal `json:"total_amount"`
		RemainingAmount decimal.Decimal `json:"remaining_amount"`
	}
	views := make([]tempOrderView, 0, len(tempOrders))
	for _, tempOrder := range tempOrders {
		totalAmount, remaining := services.Totals(tempOrder.SubOrders)
		views = append(views, tempOrderView{
			TempOrder:       tempOrder,
			TotalAmount:     totalAmount,
			RemainingAmount: remaining,
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    views,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetTempOrder returns one bulk invoice with its lines and derived totals.
func (h *TempOrderHandler) GetTempOrder(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var tempOrder models.TempOrder
	if err := h.db.Preload("SubOrders").First(&tempOrder, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "temp order not found")
		}
		return err
	}

	totalAmount, remaining := services.Totals(tempOrder.SubOrders)
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{
		"temp_order":       tempOrder,
		"total_amount":     totalAmount,
		"remaining_amount": remaining,
	}})
}

// MergeTempOrder folds a whole bulk invoice into a canonical order.
func (h *TempOrderHandler) MergeTempOrder(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	order, err := h.tempOrders.Merge(c.Context(), id)
	if err != nil {
		return serviceError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": order})
}

// MergeSubOrder promotes one bulk-invoice line to a canonical order.
func (h *TempOrderHandler) MergeSubOrder(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	order, err := h.tempOrders.MergeSubOrder(c.Context(), id)
	if err != nil {
		return serviceError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": order})
}
