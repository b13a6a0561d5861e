package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/example/safina/internal/models"
	"github.com/example/safina/internal/money"
	"github.com/example/safina/internal/services"
	"github.com/example/safina/internal/utils"
)

// CreditorHandler manages external creditors and their ledgers.
type CreditorHandler struct {
	db        *gorm.DB
	creditors *services.CreditorService
}

// NewCreditorHandler constructs CreditorHandler.
func NewCreditorHandler(db *gorm.DB, creditors *services.CreditorService) *CreditorHandler {
	return &CreditorHandler{db: db, creditors: creditors}
}

// ListCreditors returns paginated creditors.
func (h *CreditorHandler) ListCreditors(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	var creditors []models.Creditor
	var total int64

	if err := h.db.Model(&models.Creditor{}).Count(&total).Error; err != nil {
		return err
	}

	if err := h.db.Limit(pg.Limit).Offset(pg.Offset).Order("created_at desc").
		Find(&creditors).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    creditors,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// CreateCreditor persists a new creditor.
func (h *CreditorHandler) CreateCreditor(c *fiber.Ctx) error {
	var payload models.Creditor
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.db.Create(&payload).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": payload})
}

type createDebtRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Status      string          `json:"status"`
	AccountType string          `json:"account_type"`
	EntryDate   *time.Time      `json:"entry_date"`
	Note        string          `json:"note"`
}

// CreateDebt appends a signed entry to a creditor's ledger.
func (h *CreditorHandler) CreateDebt(c *fiber.Ctx) error {
	creditorID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req createDebtRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Amount.IsZero() {
		return fiber.NewError(fiber.StatusBadRequest, "amount must be non-zero")
	}

	status := models.DebtStatus(req.Status)
	switch status {
	case models.DebtStatusPending, models.DebtStatusPaid, models.DebtStatusPayment:
	default:
		return fiber.NewError(fiber.StatusBadRequest, "unknown debt status")
	}

	accountType := models.DebtAccountType(req.AccountType)
	switch accountType {
	case models.DebtAccountCash, models.DebtAccountBank, models.DebtAccountUSD:
	default:
		return fiber.NewError(fiber.StatusBadRequest, "unknown account type")
	}

	var creditor models.Creditor
	if err := h.db.First(&creditor, "id = ?", creditorID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "creditor not found")
		}
		return err
	}

	entryDate := time.Now()
	if req.EntryDate != nil {
		entryDate = *req.EntryDate
	}

	debt := models.ExternalDebt{
		CreditorID:  creditorID,
		Amount:      money.Round(req.Amount),
		Status:      status,
		AccountType: accountType,
		EntryDate:   entryDate,
		Note:        req.Note,
	}
	if err := h.db.Create(&debt).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": debt})
}

// GetStatement renders the creditor's running-balance statement. An
// optional ?opening_balance= carries a balance forward; it defaults to zero.
func (h *CreditorHandler) GetStatement(c *fiber.Ctx) error {
	creditorID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	opening := decimal.Zero
	if raw := c.Query("opening_balance"); raw != "" {
		opening, err = money.Parse(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid opening balance")
		}
	}

	statement, err := h.creditors.Statement(c.Context(), creditorID, opening)
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(fiber.Map{"success": true, "data": statement})
}
