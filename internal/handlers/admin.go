package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/example/safina/internal/models"
)

// AdminHandler manages back-office dashboard endpoints.
type AdminHandler struct {
	db *gorm.DB
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{db: db}
}

// DashboardStats returns aggregate figures for the back-office dashboard.
// Everything is computed from the ledger on read; no stored counters.
func (h *AdminHandler) DashboardStats(c *fiber.Ctx) error {
	var totalCustomers int64
	if err := h.db.Model(&models.Customer{}).Count(&totalCustomers).Error; err != nil {
		return err
	}

	var totalOrders int64
	if err := h.db.Model(&models.Order{}).Count(&totalOrders).Error; err != nil {
		return err
	}

	type statusCount struct {
		Status string `json:"status"`
		Count  int64  `json:"count"`
	}
	var statusCounts []statusCount
	if err := h.db.Model(&models.Order{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&statusCounts).Error; err != nil {
		return err
	}

	ordersByStatus := make(map[string]int64)
	for _, sc := range statusCounts {
		ordersByStatus[sc.Status] = sc.Count
	}

	// Outstanding debt over non-cancelled orders.
	var outstanding decimal.Decimal
	if err := h.db.Model(&models.Order{}).
		Where("status != ?", models.OrderStatusCancelled).
		Select("COALESCE(SUM(remaining_amount), 0)").
		Scan(&outstanding).Error; err != nil {
		return err
	}

	var pendingDeposits decimal.Decimal
	if err := h.db.Model(&models.Deposit{}).
		Where("status = ?", models.DepositStatusPending).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&pendingDeposits).Error; err != nil {
		return err
	}

	var totalCreditors int64
	if err := h.db.Model(&models.Creditor{}).Count(&totalCreditors).Error; err != nil {
		return err
	}

	var openTempOrders int64
	if err := h.db.Model(&models.TempOrder{}).
		Where("parent_invoice_id IS NULL").
		Count(&openTempOrders).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"total_customers":  totalCustomers,
			"total_orders":     totalOrders,
			"orders_by_status": ordersByStatus,
			"outstanding_debt": outstanding,
			"pending_deposits": pendingDeposits,
			"total_creditors":  totalCreditors,
			"open_temp_orders": openTempOrders,
		},
	})
}
