package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/example/safina/internal/money"
	"github.com/example/safina/internal/services"
)

// serviceError maps the typed ledger failures onto HTTP statuses. Anything
// unrecognized bubbles up as a 500 through Fiber's error handler.
func serviceError(err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, money.ErrInvalidRate),
		errors.Is(err, money.ErrInvalidAmount),
		errors.Is(err, money.ErrUnknownChannel):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrExcessPayment):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, services.ErrIllegalTransition),
		errors.Is(err, services.ErrDoubleMerge):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	default:
		return err
	}
}
