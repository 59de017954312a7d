package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"archiv/internal/http/middleware"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Details   string `json:"details,omitempty"`
	Path      string `json:"path,omitempty"`
	Method    string `json:"method,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// writeError writes a standardized JSON error response.
// details is only meant for non-production environments; pass "" to omit it.
func writeError(c *fiber.Ctx, status int, message, details string) error {
	return c.Status(status).JSON(errorPayload{
		Error:     message,
		Details:   details,
		RequestID: middleware.RequestIDFromCtx(c),
	})
}

// errorDetails exposes err's text outside production and a generic hint otherwise.
func errorDetails(production bool, err error) string {
	if err == nil {
		return ""
	}
	if production {
		return "Internal error"
	}
	return err.Error()
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses,
// including the fallbacks for unknown routes and unsupported methods.
func ErrorHandler(production bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		switch status {
		case fiber.StatusNotFound:
			return c.Status(status).JSON(errorPayload{
				Error:     "Route not found",
				Path:      c.OriginalURL(),
				Method:    c.Method(),
				RequestID: middleware.RequestIDFromCtx(c),
			})
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "Method not allowed", "")
		case fiber.StatusBadRequest:
			return writeError(c, status, "Bad request", "")
		default:
			if status < fiber.StatusInternalServerError && fe != nil {
				return writeError(c, status, fe.Message, "")
			}
			return writeError(c, status, "Internal server error", errorDetails(production, err))
		}
	}
}
