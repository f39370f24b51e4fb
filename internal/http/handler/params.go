package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// badRequest is a request-shape error rendered as-is by respondError.
type badRequest struct {
	code    string
	message string
}

func (e *badRequest) Error() string { return e.message }

// pageParams reads ?limit= and ?offset=; the service clamps the values.
func pageParams(c *fiber.Ctx) (limit, offset int, err error) {
	limit, err = strconv.Atoi(c.Query("limit", "10"))
	if err != nil {
		return 0, 0, &badRequest{code: "INVALID_LIMIT", message: "invalid limit"}
	}
	offset, err = strconv.Atoi(c.Query("offset", "0"))
	if err != nil {
		return 0, 0, &badRequest{code: "INVALID_OFFSET", message: "invalid offset"}
	}
	return limit, offset, nil
}

// idParam returns the :id route parameter when it is a UUID.
func idParam(c *fiber.Ctx) (string, error) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", &badRequest{code: "INVALID_ID", message: "invalid id format"}
	}
	return id, nil
}

// bindBody decodes a JSON or form body into out.
func bindBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return &badRequest{code: "INVALID_BODY", message: "malformed request body"}
	}
	return nil
}
