package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/example/safina/internal/models"
	"github.com/example/safina/internal/services"
	"github.com/example/safina/internal/utils"
)

// DepositHandler manages earnest-money endpoints.
type DepositHandler struct {
	db       *gorm.DB
	deposits *services.DepositService
}

// NewDepositHandler constructs DepositHandler.
func NewDepositHandler(db *gorm.DB, deposits *services.DepositService) *DepositHandler {
	return &DepositHandler{db: db, deposits: deposits}
}

type createDepositRequest struct {
	CustomerID       string          `json:"customer_id"`
	Amount           decimal.Decimal `json:"amount"`
	RepresentativeID string          `json:"representative_id"`
	Note             string          `json:"note"`
}

// CreateDeposit records new pending earnest money.
func (h *DepositHandler) CreateDeposit(c *fiber.Ctx) error {
	var req createDepositRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid customer id")
	}

	var repID *uuid.UUID
	if req.RepresentativeID != "" {
		parsed, err := uuid.Parse(req.RepresentativeID)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid representative id")
		}
		repID = &parsed
	}

	deposit, err := h.deposits.Create(c.Context(), customerID, req.Amount, repID, req.Note)
	if err != nil {
		return serviceError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": deposit})
}

// ListDeposits returns paginated deposits, optionally filtered by customer
// or status.
func (h *DepositHandler) ListDeposits(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)

	query := h.db.Model(&models.Deposit{})
	if customerID := c.Query("customer_id"); customerID != "" {
		id, err := uuid.Parse(customerID)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid customer id")
		}
		query = query.Where("customer_id = ?", id)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var deposits []models.Deposit
	if err := query.Limit(pg.Limit).Offset(pg.Offset).Order("created_at desc").
		Find(&deposits).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    deposits,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

type collectDepositRequest struct {
	CollectedBy string `json:"collected_by"`
}

// CollectDeposit settles a pending deposit as collected.
func (h *DepositHandler) CollectDeposit(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req collectDepositRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	deposit, err := h.deposits.Collect(c.Context(), id, req.CollectedBy)
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(fiber.Map{"success": true, "data": deposit})
}

// CancelDeposit voids a pending deposit.
func (h *DepositHandler) CancelDeposit(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	deposit, err := h.deposits.Cancel(c.Context(), id)
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(fiber.Map{"success": true, "data": deposit})
}

// PendingTotal returns the customer's pending deposit total.
func (h *DepositHandler) PendingTotal(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("customerId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid customer id")
	}

	total, err := h.deposits.PendingAmount(c.Context(), id)
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"pending_amount": total}})
}
