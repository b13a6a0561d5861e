package main

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/example/safina/internal/config"
	"github.com/example/safina/internal/database"
	"github.com/example/safina/internal/logger"
	"github.com/example/safina/internal/middleware"
	"github.com/example/safina/internal/routes"
)

func main() {
	cfg := config.Load()
	logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log := logger.WithComponent("server")

	db := database.Connect(cfg.DatabaseURL)

	app := fiber.New(fiber.Config{
		AppName: "Safina Back Office",
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger(logger.WithComponent("http")))

	routes.Register(app, db, cfg)

	log.Info().Str("port", cfg.AppPort).Msg("starting server")
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatal().Err(err).Msg("fiber.Listen error")
	}
}
