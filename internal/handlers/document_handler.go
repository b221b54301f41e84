package handlers

import (
	"github.com/docuvault/docuvault/internal/authz"
	"github.com/docuvault/docuvault/internal/dto"
	"github.com/docuvault/docuvault/internal/services"
	"github.com/gofiber/fiber/v2"
)

type DocumentHandler struct {
	documentService *services.DocumentService
}

func NewDocumentHandler(documentService *services.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

// Create accepts a multipart upload with title/description fields and a
// "file" part.
func (h *DocumentHandler) Create(c *fiber.Ctx) error {
	actor, err := authz.ActorFromContext(c)
	if err != nil {
		return renderUnauthorized(c)
	}

	var req dto.CreateDocumentRequest
	if err := c.BodyParser(&req); err != nil {
		return renderBadRequest(c, "Invalid request body")
	}

	var upload *services.FileUpload
	if header, err := c.FormFile("file"); err == nil && header != nil {
		file, err := header.Open()
		if err != nil {
			return renderBadRequest(c, "Unreadable file upload")
		}
		defer file.Close()

		upload = &services.FileUpload{
			OriginalName: header.Filename,
			ContentType:  header.Header.Get("Content-Type"),
			Content:      file,
		}
	}

	resp, err := h.documentService.Create(actor, &req, upload)
	if err != nil {
		return renderError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *DocumentHandler) List(c *fiber.Ctx) error {
	actor, err := authz.ActorFromContext(c)
	if err != nil {
		return renderUnauthorized(c)
	}

	var query dto.DocumentQuery
	if err := c.QueryParser(&query); err != nil {
		return renderBadRequest(c, "Invalid query parameters")
	}

	resp, err := h.documentService.List(actor, &query)
	if err != nil {
		return renderError(c, err)
	}

	return c.JSON(resp)
}

func (h *DocumentHandler) Get(c *fiber.Ctx) error {
	actor, err := authz.ActorFromContext(c)
	if err != nil {
		return renderUnauthorized(c)
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return renderBadRequest(c, "Invalid document id")
	}

	resp, err := h.documentService.Get(actor, uint(id))
	if err != nil {
		return renderError(c, err)
	}

	return c.JSON(resp)
}

func (h *DocumentHandler) Update(c *fiber.Ctx) error {
	actor, err := authz.ActorFromContext(c)
	if err != nil {
		return renderUnauthorized(c)
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return renderBadRequest(c, "Invalid document id")
	}

	var req dto.UpdateDocumentRequest
	if err := c.BodyParser(&req); err != nil {
		return renderBadRequest(c, "Invalid request body")
	}

	resp, err := h.documentService.Update(actor, uint(id), &req)
	if err != nil {
		return renderError(c, err)
	}

	return c.JSON(resp)
}

func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	actor, err := authz.ActorFromContext(c)
	if err != nil {
		return renderUnauthorized(c)
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return renderBadRequest(c, "Invalid document id")
	}

	resp, err := h.documentService.Remove(actor, uint(id))
	if err != nil {
		return renderError(c, err)
	}

	return c.JSON(resp)
}

// Download streams the stored file with its recorded MIME type.
func (h *DocumentHandler) Download(c *fiber.Ctx) error {
	actor, err := authz.ActorFromContext(c)
	if err != nil {
		return renderUnauthorized(c)
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return renderBadRequest(c, "Invalid document id")
	}

	download, err := h.documentService.GetFileForDownload(actor, uint(id))
	if err != nil {
		return renderError(c, err)
	}

	c.Set(fiber.HeaderContentType, download.FileType)
	return c.Download(download.AbsolutePath, download.FileName)
}
