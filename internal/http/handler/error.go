package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"adaptagent/internal/http/middleware"
	"adaptagent/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string               `json:"code"`
	Message string               `json:"message"`
	Details []service.FieldError `json:"details,omitempty"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_ID", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	})
}

func writeValidationError(c *fiber.Ctx, ve service.ValidationErrors) error {
	return c.Status(fiber.StatusBadRequest).JSON(errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    "VALIDATION_ERROR",
			Message: "request validation failed",
			Details: ve,
		},
	})
}

// respondError maps a service error to its HTTP response. Anything unrecognised
// becomes a 500 and the real message only reaches the request log.
func respondError(c *fiber.Ctx, err error) error {
	var (
		br *badRequest
		ve service.ValidationErrors
	)
	switch {
	case errors.As(err, &br):
		return writeError(c, fiber.StatusBadRequest, br.code, br.message)
	case errors.As(err, &ve):
		return writeValidationError(c, ve)
	case errors.Is(err, service.ErrIDRequired):
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "id is required")
	case errors.Is(err, service.ErrReaderNil):
		return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
	case errors.Is(err, service.ErrUnsupportedType):
		return writeError(c, fiber.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "only jpeg, png, gif and pdf files are allowed")
	case errors.Is(err, service.ErrInvalidCredentials):
		return writeError(c, fiber.StatusUnauthorized, "INVALID_CREDENTIALS", "incorrect username or password")
	case errors.Is(err, service.ErrUserDisabled):
		return writeError(c, fiber.StatusForbidden, "USER_DISABLED", "user is disabled")
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, service.ErrDuplicate):
		return writeError(c, fiber.StatusConflict, "CONFLICT", err.Error())
	case errors.Is(err, service.ErrFileTooLarge):
		return writeError(c, fiber.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds the 5 MiB limit")
	case errors.Is(err, service.ErrLLMUnavailable):
		c.Locals(middleware.ErrorLocalKey, err.Error())
		return writeError(c, fiber.StatusBadGateway, "LLM_UNAVAILABLE", "language model request failed")
	case errors.Is(err, service.ErrCacheUnavailable):
		c.Locals(middleware.ErrorLocalKey, err.Error())
		return writeError(c, fiber.StatusServiceUnavailable, "CACHE_UNAVAILABLE", "cache unavailable")
	default:
		c.Locals(middleware.ErrorLocalKey, err.Error())
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusUnauthorized:
			return writeError(c, status, "UNAUTHORIZED", "unauthorized")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "PAYLOAD_TOO_LARGE", "request body too large")
		case fiber.StatusTooManyRequests:
			return writeError(c, status, "RATE_LIMIT_EXCEEDED", "too many requests, please try again later")
		default:
			c.Locals(middleware.ErrorLocalKey, err.Error())
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
	}
}
