package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jasleenkaur1801/leeyaherbals-server/internal/repositories"
	"github.com/jasleenkaur1801/leeyaherbals-server/internal/services"
	"github.com/jasleenkaur1801/leeyaherbals-server/internal/validation"
)

// ErrorHandler renders every handler failure as the uniform
// {success:false, message} envelope. Unclassified errors become a 500
// with a generic message so internals never leak.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "internal server error"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

// mapServiceError translates service-layer sentinels into HTTP errors.
// Anything unrecognized passes through and surfaces as a 500.
func mapServiceError(err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		return fiber.NewError(fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrOtpNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrTooManyAttempts):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInvalidAmount):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrSignatureInvalid):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrDuplicatePayment):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, repositories.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	var invalidOtp *services.InvalidOtpError
	if errors.As(err, &invalidOtp) {
		return fiber.NewError(fiber.StatusBadRequest, invalidOtp.Error())
	}

	var validationErr *validation.Error
	if errors.As(err, &validationErr) {
		return fiber.NewError(fiber.StatusBadRequest, validationErr.Error())
	}

	var gatewayErr *services.GatewayError
	if errors.As(err, &gatewayErr) {
		return fiber.NewError(fiber.StatusBadGateway, gatewayErr.Error())
	}

	return err
}
