package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/safina/internal/config"
	"github.com/example/safina/internal/database"
	"github.com/example/safina/internal/handlers"
	"github.com/example/safina/internal/logger"
	"github.com/example/safina/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	store := database.NewStore(db)

	ledgerService := services.NewLedgerService(store, logger.WithComponent("ledger"))
	depositService := services.NewDepositService(store, logger.WithComponent("deposits"))
	custodyService := services.NewCustodyService(store, logger.WithComponent("custody"))
	creditorService := services.NewCreditorService(store, logger.WithComponent("creditors"))
	tempOrderService := services.NewTempOrderService(store, logger.WithComponent("temporders"))
	settingsService := services.NewSettingsService(store, cfg.SettingsCacheTTL, logger.WithComponent("settings"))

	customerHandler := handlers.NewCustomerHandler(db, ledgerService)
	orderHandler := handlers.NewOrderHandler(db, ledgerService, settingsService)
	depositHandler := handlers.NewDepositHandler(db, depositService)
	repHandler := handlers.NewRepresentativeHandler(db, custodyService, depositService)
	creditorHandler := handlers.NewCreditorHandler(db, creditorService)
	tempOrderHandler := handlers.NewTempOrderHandler(db, tempOrderService, settingsService)
	settingsHandler := handlers.NewSettingsHandler(settingsService)
	adminHandler := handlers.NewAdminHandler(db)

	api := app.Group("/api")

	customers := api.Group("/customers")
	customers.Get("/", customerHandler.ListCustomers)
	customers.Post("/", customerHandler.CreateCustomer)
	customers.Get("/:id", customerHandler.GetCustomer)
	customers.Put("/:id", customerHandler.UpdateCustomer)
	customers.Get("/:id/statement", customerHandler.GetStatement)
	customers.Get("/:id/debt", customerHandler.GetDebt)

	orders := api.Group("/orders")
	orders.Get("/", orderHandler.ListOrders)
	orders.Post("/", orderHandler.CreateOrder)
	orders.Get("/:id", orderHandler.GetOrder)
	orders.Post("/:id/payments", orderHandler.RecordPayment)
	orders.Put("/:id/status", orderHandler.UpdateStatus)
	orders.Post("/:id/cancel", orderHandler.CancelOrder)

	deposits := api.Group("/deposits")
	deposits.Get("/", depositHandler.ListDeposits)
	deposits.Post("/", depositHandler.CreateDeposit)
	deposits.Post("/:id/collect", depositHandler.CollectDeposit)
	deposits.Post("/:id/cancel", depositHandler.CancelDeposit)
	api.Get("/customers/:customerId/deposits/pending", depositHandler.PendingTotal)

	representatives := api.Group("/representatives")
	representatives.Get("/", repHandler.ListRepresentatives)
	representatives.Post("/", repHandler.CreateRepresentative)
	representatives.Get("/:id/custody", repHandler.GetCustody)
	representatives.Get("/:id/deliveries", repHandler.ListDeliveries)
	representatives.Post("/deliveries/:orderId", repHandler.DeliverOrder)

	creditors := api.Group("/creditors")
	creditors.Get("/", creditorHandler.ListCreditors)
	creditors.Post("/", creditorHandler.CreateCreditor)
	creditors.Post("/:id/debts", creditorHandler.CreateDebt)
	creditors.Get("/:id/statement", creditorHandler.GetStatement)

	tempOrders := api.Group("/temp-orders")
	tempOrders.Get("/", tempOrderHandler.ListTempOrders)
	tempOrders.Post("/", tempOrderHandler.CreateTempOrder)
	tempOrders.Get("/:id", tempOrderHandler.GetTempOrder)
	tempOrders.Post("/:id/merge", tempOrderHandler.MergeTempOrder)
	tempOrders.Post("/sub-orders/:id/merge", tempOrderHandler.MergeSubOrder)

	settings := api.Group("/settings")
	settings.Get("/", settingsHandler.GetSettings)
	settings.Put("/", settingsHandler.UpdateSettings)

	api.Get("/dashboard", adminHandler.DashboardStats)
}
