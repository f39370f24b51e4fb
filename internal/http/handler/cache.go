package handler

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"

	"adaptagent/internal/http/middleware"
	"adaptagent/internal/service"
)

type cacheEntry struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value" swaggertype:"object"`
}

type setCacheRequest struct {
	Value json.RawMessage `json:"value" swaggertype:"object"`
	// TTL in seconds; 0 or omitted uses the server default.
	TTL int64 `json:"ttl"`
}

// GetCacheValue godoc
// @Summary   Read a stored value
// @Tags      cache
// @Produce   json
// @Security  BearerAuth
// @Param     key  path      string  true  "Key"
// @Success   200  {object}  cacheEntry
// @Failure   404  {object}  errorPayload
// @Failure   503  {object}  errorPayload
// @Router    /api/cache/{key} [get]
func GetCacheValue(svc service.KVService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Params("key")
		v, err := svc.Get(c.UserContext(), middleware.UserID(c), key)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(cacheEntry{Key: key, Value: v})
	}
}

// SetCacheValue godoc
// @Summary   Store any JSON value under a key
// @Tags      cache
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     key   path      string           true  "Key"
// @Param     body  body      setCacheRequest  true  "Value and optional TTL"
// @Success   200   {object}  cacheEntry
// @Failure   400   {object}  errorPayload
// @Failure   503   {object}  errorPayload
// @Router    /api/cache/{key} [put]
func SetCacheValue(svc service.KVService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Params("key")
		var req setCacheRequest
		if err := json.Unmarshal(c.Body(), &req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "malformed request body")
		}
		ttl := time.Duration(req.TTL) * time.Second
		if err := svc.Set(c.UserContext(), middleware.UserID(c), key, req.Value, ttl); err != nil {
			return respondError(c, err)
		}
		return c.JSON(cacheEntry{Key: key, Value: req.Value})
	}
}

// DeleteCacheValue godoc
// @Summary   Remove a stored value
// @Tags      cache
// @Security  BearerAuth
// @Param     key  path  string  true  "Key"
// @Success   204
// @Router    /api/cache/{key} [delete]
func DeleteCacheValue(svc service.KVService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Delete(c.UserContext(), middleware.UserID(c), c.Params("key")); err != nil {
			return respondError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
