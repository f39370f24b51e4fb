package handler

import (
	"github.com/gofiber/fiber/v2"

	"adaptagent/internal/http/middleware"
	"adaptagent/internal/model"
	"adaptagent/internal/service"
)

// CreateKnowledge godoc
// @Summary      Store a knowledge entry
// @Description  Tags are lower-cased and de-duplicated.
// @Tags         knowledge
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      service.KnowledgeInput  true  "Entry"
// @Success      201   {object}  model.Knowledge
// @Failure      400   {object}  errorPayload
// @Router       /api/knowledge [post]
func CreateKnowledge(svc service.KnowledgeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.KnowledgeInput
		if err := bindBody(c, &in); err != nil {
			return respondError(c, err)
		}
		k, err := svc.Create(c.UserContext(), middleware.UserID(c), in)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(k)
	}
}

// ListKnowledge godoc
// @Summary   List knowledge entries
// @Tags      knowledge
// @Produce   json
// @Security  BearerAuth
// @Param     tag         query     string  false  "Only entries with this tag"
// @Param     project_id  query     string  false  "Only entries linked to this project"
// @Param     limit       query     int     false  "Page size (max 100)"  default(10)
// @Param     offset      query     int     false  "Offset"               default(0)
// @Success   200         {object}  service.ListResult[model.Knowledge]
// @Router    /api/knowledge [get]
func ListKnowledge(svc service.KnowledgeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset, err := pageParams(c)
		if err != nil {
			return respondError(c, err)
		}
		res, err := svc.List(c.UserContext(), middleware.UserID(c), service.KnowledgeQuery{
			Tag:       c.Query("tag"),
			ProjectID: c.Query("project_id"),
			Limit:     limit,
			Offset:    offset,
		})
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(res)
	}
}

func GetKnowledge(svc service.KnowledgeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c)
		if err != nil {
			return respondError(c, err)
		}
		k, err := svc.Get(c.UserContext(), middleware.UserID(c), id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(k)
	}
}

// UpdateKnowledge replaces the entry, including its full tag set.
func UpdateKnowledge(svc service.KnowledgeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c)
		if err != nil {
			return respondError(c, err)
		}
		var in service.KnowledgeInput
		if err := bindBody(c, &in); err != nil {
			return respondError(c, err)
		}
		k, err := svc.Update(c.UserContext(), middleware.UserID(c), id, in)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(k)
	}
}

func DeleteKnowledge(svc service.KnowledgeService) fiber.Handler {
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

// ListTags godoc
// @Summary   Tags used by the caller's knowledge entries, with counts
// @Tags      knowledge
// @Produce   json
// @Security  BearerAuth
// @Success   200  {object}  map[string][]model.Tag
// @Router    /api/tags [get]
func ListTags(svc service.TagService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tags, err := svc.List(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return respondError(c, err)
		}
		if tags == nil {
			tags = []model.Tag{}
		}
		return c.JSON(fiber.Map{"data": tags})
	}
}
