package handler

import (
	"github.com/gofiber/fiber/v2"

	"adaptagent/internal/http/middleware"
	"adaptagent/internal/service"
)

// AnalyzeTask godoc
// @Summary   Break a task into steps
// @Tags      agent
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     body  body      service.AnalyzeTaskInput  true  "Task"
// @Success   200   {object}  service.TaskAnalysis
// @Failure   502   {object}  errorPayload
// @Router    /api/agent/analyze-task [post]
func AnalyzeTask(svc service.AgentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.AnalyzeTaskInput
		if err := bindBody(c, &in); err != nil {
			return respondError(c, err)
		}
		out, err := svc.AnalyzeTask(c.UserContext(), in)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(out)
	}
}

// GenerateCode godoc
// @Summary   Generate code for a task
// @Tags      agent
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     body  body      service.GenerateCodeInput  true  "Task and language"
// @Success   200   {object}  service.GeneratedCode
// @Failure   502   {object}  errorPayload
// @Router    /api/agent/generate-code [post]
func GenerateCode(svc service.AgentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.GenerateCodeInput
		if err := bindBody(c, &in); err != nil {
			return respondError(c, err)
		}
		out, err := svc.GenerateCode(c.UserContext(), in)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(out)
	}
}

// AnswerQuestion godoc
// @Summary   Answer a free-form question
// @Tags      agent
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     body  body      service.QuestionInput  true  "Question"
// @Success   200   {object}  service.Answer
// @Failure   502   {object}  errorPayload
// @Router    /api/agent/answer [post]
func AnswerQuestion(svc service.AgentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.QuestionInput
		if err := bindBody(c, &in); err != nil {
			return respondError(c, err)
		}
		out, err := svc.AnswerQuestion(c.UserContext(), in)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(out)
	}
}

// QueryKnowledge godoc
// @Summary      Answer a query using the caller's recent knowledge entries
// @Tags         agent
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      service.QueryInput  true  "Query"
// @Success      200   {object}  service.Answer
// @Failure      502   {object}  errorPayload
// @Router       /api/agent/query [post]
func QueryKnowledge(svc service.AgentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.QueryInput
		if err := bindBody(c, &in); err != nil {
			return respondError(c, err)
		}
		out, err := svc.Query(c.UserContext(), middleware.UserID(c), in)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(out)
	}
}

// AnalyzeProject godoc
// @Summary   Summarise a project's progress
// @Tags      agent
// @Produce   json
// @Security  BearerAuth
// @Param     id   path      string  true  "Project ID"
// @Success   200  {object}  service.ProjectAnalysis
// @Failure   404  {object}  errorPayload
// @Failure   502  {object}  errorPayload
// @Router    /api/agent/projects/{id}/analysis [get]
func AnalyzeProject(svc service.AgentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c)
		if err != nil {
			return respondError(c, err)
		}
		out, err := svc.AnalyzeProject(c.UserContext(), middleware.UserID(c), id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(out)
	}
}
