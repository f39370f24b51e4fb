package handler

import (
	"github.com/gofiber/fiber/v2"

	"adaptagent/internal/http/middleware"
	"adaptagent/internal/service"
)

// CreateProject godoc
// @Summary   Create a project
// @Tags      projects
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     body  body      service.ProjectInput  true  "Project"
// @Success   201   {object}  model.Project
// @Failure   400   {object}  errorPayload
// @Router    /api/projects [post]
func CreateProject(svc service.ProjectService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.ProjectInput
		if err := bindBody(c, &in); err != nil {
			return respondError(c, err)
		}
		p, err := svc.Create(c.UserContext(), middleware.UserID(c), in)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(p)
	}
}

// ListProjects godoc
// @Summary   List projects
// @Tags      projects
// @Produce   json
// @Security  BearerAuth
// @Param     limit   query     int  false  "Page size (max 100)"  default(10)
// @Param     offset  query     int  false  "Offset"               default(0)
// @Success   200     {object}  service.ListResult[model.Project]
// @Router    /api/projects [get]
func ListProjects(svc service.ProjectService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset, err := pageParams(c)
		if err != nil {
			return respondError(c, err)
		}
		res, err := svc.List(c.UserContext(), middleware.UserID(c), limit, offset)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(res)
	}
}

// GetProject godoc
// @Summary   Get a project
// @Tags      projects
// @Produce   json
// @Security  BearerAuth
// @Param     id   path      string  true  "Project ID"
// @Success   200  {object}  model.Project
// @Failure   404  {object}  errorPayload
// @Router    /api/projects/{id} [get]
func GetProject(svc service.ProjectService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c)
		if err != nil {
			return respondError(c, err)
		}
		p, err := svc.Get(c.UserContext(), middleware.UserID(c), id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(p)
	}
}

// UpdateProject godoc
// @Summary   Update a project
// @Tags      projects
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     id    path      string                true  "Project ID"
// @Param     body  body      service.ProjectInput  true  "Project"
// @Success   200   {object}  model.Project
// @Failure   404   {object}  errorPayload
// @Router    /api/projects/{id} [put]
func UpdateProject(svc service.ProjectService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c)
		if err != nil {
			return respondError(c, err)
		}
		var in service.ProjectInput
		if err := bindBody(c, &in); err != nil {
			return respondError(c, err)
		}
		p, err := svc.Update(c.UserContext(), middleware.UserID(c), id, in)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(p)
	}
}

// DeleteProject godoc
// @Summary   Delete a project and its tasks
// @Tags      projects
// @Security  BearerAuth
// @Param     id  path  string  true  "Project ID"
// @Success   204
// @Failure   404  {object}  errorPayload
// @Router    /api/projects/{id} [delete]
func DeleteProject(svc service.ProjectService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c)
		if err != nil {
			return respondError(c, err)
		}
		if err := svc.Delete(c.UserContext(), middleware.UserID(c), id); err != nil {
			return respondError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
