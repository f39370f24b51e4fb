package handler

import (
	"github.com/gofiber/fiber/v2"

	"adaptagent/internal/http/middleware"
	"adaptagent/internal/service"
)

// UploadAttachment godoc
// @Summary      Upload a file
// @Description  multipart/form-data, field "file". JPEG, PNG, GIF or PDF up to 5 MiB.
// @Tags         uploads
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "File to upload"
// @Success      201   {object}  model.Attachment
// @Failure      400   {object}  errorPayload
// @Failure      413   {object}  errorPayload
// @Router       /api/uploads [post]
func UploadAttachment(svc service.AttachmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}
		if fh.Size > service.MaxUploadSize {
			return respondError(c, service.ErrFileTooLarge)
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		a, err := svc.Upload(c.UserContext(), middleware.UserID(c), f, fh.Filename, fh.Size)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(a)
	}
}

// ListAttachments godoc
// @Summary   List uploaded files
// @Tags      uploads
// @Produce   json
// @Security  BearerAuth
// @Param     limit   query     int  false  "Page size (max 100)"  default(10)
// @Param     offset  query     int  false  "Offset"               default(0)
// @Success   200     {object}  service.ListResult[model.Attachment]
// @Router    /api/uploads [get]
func ListAttachments(svc service.AttachmentService) fiber.Handler {
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

// GetAttachment godoc
// @Summary      Attachment metadata with a download URL
// @Description  The URL is presigned and expires after 15 minutes.
// @Tags         uploads
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Attachment ID"
// @Success      200  {object}  service.AttachmentView
// @Failure      404  {object}  errorPayload
// @Router       /api/uploads/{id} [get]
func GetAttachment(svc service.AttachmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c)
		if err != nil {
			return respondError(c, err)
		}
		a, err := svc.Get(c.UserContext(), middleware.UserID(c), id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(a)
	}
}

// DeleteAttachment godoc
// @Summary   Delete an uploaded file
// @Tags      uploads
// @Security  BearerAuth
// @Param     id  path  string  true  "Attachment ID"
// @Success   204
// @Failure   404  {object}  errorPayload
// @Router    /api/uploads/{id} [delete]
func DeleteAttachment(svc service.AttachmentService) fiber.Handler {
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
