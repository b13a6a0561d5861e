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

// RepresentativeHandler manages representatives and their custody.
type RepresentativeHandler struct {
	db       *gorm.DB
	custody  *services.CustodyService
	deposits *services.DepositService
}

// NewRepresentativeHandler constructs RepresentativeHandler.
func NewRepresentativeHandler(db *gorm.DB, custody *services.CustodyService, deposits *services.DepositService) *RepresentativeHandler {
	return &RepresentativeHandler{db: db, custody: custody, deposits: deposits}
}

// ListRepresentatives returns paginated representatives.
func (h *RepresentativeHandler) ListRepresentatives(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	var reps []models.Representative
	var total int64

	if err := h.db.Model(&models.Representative{}).Count(&total).Error; err != nil {
		return err
	}

	if err := h.db.Limit(pg.Limit).Offset(pg.Offset).Order("created_at desc").
		Find(&reps).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    reps,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// CreateRepresentative persists a new representative.
func (h *RepresentativeHandler) CreateRepresentative(c *fiber.Ctx) error {
	var payload models.Representative
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.db.Create(&payload).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": payload})
}

// GetCustody returns the representative's custody summary together with the
// pending deposits assigned to them.
func (h *RepresentativeHandler) GetCustody(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	summary, err := h.custody.Summary(c.Context(), id)
	if err != nil {
		return serviceError(err)
	}

	pendingDeposits, err := h.deposits.PendingByRepresentative(c.Context(), id)
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{
		"custody":          summary,
		"pending_deposits": pendingDeposits,
	}})
}

// ListDeliveries returns what the representative still has out, filtered by
// ?filter=all|regular|temp.
func (h *RepresentativeHandler) ListDeliveries(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	filter := c.Query("filter", services.CustodyFilterAll)
	items, err := h.custody.DeliveryList(c.Context(), id, filter)
	if err != nil {
		switch filter {
		case services.CustodyFilterAll, services.CustodyFilterRegular, services.CustodyFilterTemp:
			return serviceError(err)
		default:
			return fiber.NewError(fiber.StatusBadRequest, "unknown filter")
		}
	}

	return c.JSON(fiber.Map{"success": true, "data": items})
}

type deliverRequest struct {
	CollectedAmount decimal.Decimal `json:"collected_amount"`
}

// DeliverOrder closes out an out-for-delivery order with the cash collected.
func (h *RepresentativeHandler) DeliverOrder(c *fiber.Ctx) error {
	orderID, err := uuid.Parse(c.Params("orderId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid order id")
	}

	var req deliverRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	order, err := h.custody.Deliver(c.Context(), orderID, req.CollectedAmount)
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}
