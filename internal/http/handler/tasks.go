package handler

import (
	"github.com/gofiber/fiber/v2"

	"adaptagent/internal/http/middleware"
	"adaptagent/internal/service"
)

// CreateTask godoc
// @Summary   Create a task
// @Tags      tasks
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     body  body      service.TaskInput  true  "Task"
// @Success   201   {object}  model.Task
// @Failure   400   {object}  errorPayload
// @Failure   404   {object}  errorPayload  "project not found"
// @Router    /api/tasks [post]
func CreateTask(svc service.TaskService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.TaskInput
		if err := bindBody(c, &in); err != nil {
			return respondError(c, err)
		}
		t, err := svc.Create(c.UserContext(), middleware.UserID(c), in)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(t)
	}
}

// ListTasks godoc
// @Summary   List tasks
// @Tags      tasks
// @Produce   json
// @Security  BearerAuth
// @Param     project_id  query     string  false  "Filter by project"
// @Param     status      query     string  false  "pending, in_progress, completed or failed"
// @Param     limit       query     int     false  "Page size (max 100)"  default(10)
// @Param     offset      query     int     false  "Offset"               default(0)
// @Success   200         {object}  service.ListResult[model.Task]
// @Router    /api/tasks [get]
func ListTasks(svc service.TaskService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset, err := pageParams(c)
		if err != nil {
			return respondError(c, err)
		}
		res, err := svc.List(c.UserContext(), middleware.UserID(c), service.TaskQuery{
			ProjectID: c.Query("project_id"),
			Status:    c.Query("status"),
			Limit:     limit,
			Offset:    offset,
		})
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(res)
	}
}

// GetTask godoc
// @Summary   Get a task
// @Tags      tasks
// @Produce   json
// @Security  BearerAuth
// @Param     id   path      string  true  "Task ID"
// @Success   200  {object}  model.Task
// @Failure   404  {object}  errorPayload
// @Router    /api/tasks/{id} [get]
func GetTask(svc service.TaskService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c)
		if err != nil {
			return respondError(c, err)
		}
		t, err := svc.Get(c.UserContext(), middleware.UserID(c), id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(t)
	}
}

// UpdateTask godoc
// @Summary      Update a task
// @Description  An empty status keeps the current one.
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Task ID"
// @Param        body  body      service.TaskInput  true  "Task"
// @Success      200   {object}  model.Task
// @Failure      404   {object}  errorPayload
// @Router       /api/tasks/{id} [put]
func UpdateTask(svc service.TaskService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c)
		if err != nil {
			return respondError(c, err)
		}
		var in service.TaskInput
		if err := bindBody(c, &in); err != nil {
			return respondError(c, err)
		}
		t, err := svc.Update(c.UserContext(), middleware.UserID(c), id, in)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(t)
	}
}

// DeleteTask godoc
// @Summary   Delete a task
// @Tags      tasks
// @Security  BearerAuth
// @Param     id  path  string  true  "Task ID"
// @Success   204
// @Failure   404  {object}  errorPayload
// @Router    /api/tasks/{id} [delete]
func DeleteTask(svc service.TaskService) fiber.Handler {
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
