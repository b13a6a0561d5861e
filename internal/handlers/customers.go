package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/safina/internal/models"
	"github.com/example/safina/internal/services"
	"github.com/example/safina/internal/utils"
)

// CustomerHandler manages customer records and statements.
type CustomerHandler struct {
	db     *gorm.DB
	ledger *services.LedgerService
}

// NewCustomerHandler constructs CustomerHandler.
func NewCustomerHandler(db *gorm.DB, ledger *services.LedgerService) *CustomerHandler {
	return &CustomerHandler{db: db, ledger: ledger}
}

// ListCustomers returns paginated customers.
func (h *CustomerHandler) ListCustomers(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	var customers []models.Customer
	var total int64

	if err := h.db.Model(&models.Customer{}).Count(&total).Error; err != nil {
		return err
	}

	if err := h.db.Limit(pg.Limit).Offset(pg.Offset).Order("created_at desc").
		Find(&customers).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    customers,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetCustomer returns a single customer by ID.
func (h *CustomerHandler) GetCustomer(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var customer models.Customer
	if err := h.db.First(&customer, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "customer not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": customer})
}

// CreateCustomer persists a new customer.
func (h *CustomerHandler) CreateCustomer(c *fiber.Ctx) error {
	var payload models.Customer
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.db.Create(&payload).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": payload})
}

// UpdateCustomer updates an existing customer.
func (h *CustomerHandler) UpdateCustomer(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var customer models.Customer
	if err := h.db.First(&customer, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "customer not found")
		}
		return err
	}

	var payload models.Customer
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	customer.Name = payload.Name
	customer.Phone = payload.Phone
	customer.Address = payload.Address
	customer.Note = payload.Note

	if err := h.db.Save(&customer).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": customer})
}

// GetStatement renders the customer's full statement from one consistent
// snapshot.
func (h *CustomerHandler) GetStatement(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	statement, err := h.ledger.CustomerStatement(c.Context(), id)
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(fiber.Map{"success": true, "data": statement})
}

// GetDebt returns the customer's aggregate debt over non-cancelled orders.
func (h *CustomerHandler) GetDebt(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	debt, err := h.ledger.CustomerDebt(c.Context(), id)
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"debt": debt}})
}
