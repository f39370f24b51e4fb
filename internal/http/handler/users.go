package handler

import (
	"github.com/gofiber/fiber/v2"

	"adaptagent/internal/http/middleware"
	"adaptagent/internal/service"
)

// Register godoc
// @Summary      Create an account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      service.RegisterInput  true  "New account"
// @Success      201   {object}  service.AuthResult
// @Failure      400   {object}  errorPayload
// @Failure      409   {object}  errorPayload
// @Router       /api/auth/register [post]
func Register(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.RegisterInput
		if err := bindBody(c, &in); err != nil {
			return respondError(c, err)
		}
		res, err := svc.Register(c.UserContext(), in)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

// Login godoc
// @Summary      Exchange username and password for a bearer token
// @Description  Accepts JSON or application/x-www-form-urlencoded.
// @Tags         auth
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body      service.LoginInput  true  "Credentials"
// @Success      200   {object}  service.AuthResult
// @Failure      401   {object}  errorPayload
// @Failure      403   {object}  errorPayload
// @Router       /api/auth/login [post]
func Login(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.LoginInput
		if err := bindBody(c, &in); err != nil {
			return respondError(c, err)
		}
		res, err := svc.Login(c.UserContext(), in)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(res)
	}
}

// GetMe godoc
// @Summary   Current user
// @Tags      users
// @Produce   json
// @Security  BearerAuth
// @Success   200  {object}  model.User
// @Failure   401  {object}  errorPayload
// @Router    /api/users/me [get]
func GetMe(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, err := svc.Me(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(u)
	}
}

// UpdateMe godoc
// @Summary   Update the current user's profile
// @Tags      users
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     body  body      service.UpdateProfileInput  true  "Fields to change"
// @Success   200   {object}  model.User
// @Failure   400   {object}  errorPayload
// @Failure   409   {object}  errorPayload
// @Router    /api/users/me [put]
func UpdateMe(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.UpdateProfileInput
		if err := bindBody(c, &in); err != nil {
			return respondError(c, err)
		}
		u, err := svc.UpdateProfile(c.UserContext(), middleware.UserID(c), in)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(u)
	}
}
