package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/safina/internal/services"
)

// SettingsHandler manages the process-wide settings row.
type SettingsHandler struct {
	settings *services.SettingsService
}

// NewSettingsHandler constructs SettingsHandler.
func NewSettingsHandler(settings *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// GetSettings returns the current settings.
func (h *SettingsHandler) GetSettings(c *fiber.Ctx) error {
	settings, err := h.settings.Current(c.Context())
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(fiber.Map{"success": true, "data": settings})
}

// UpdateSettings patches the supplied knobs and invalidates the cache.
func (h *SettingsHandler) UpdateSettings(c *fiber.Ctx) error {
	var patch services.SettingsPatch
	if err := c.BodyParser(&patch); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	settings, err := h.settings.Update(c.Context(), patch)
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(fiber.Map{"success": true, "data": settings})
}
