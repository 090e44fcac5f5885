package handlers

import (
	"conduit/internal/services"

	"github.com/gofiber/fiber/v2"
)

// TagHandler handles HTTP requests for the tag reference list.
type TagHandler struct {
	service *services.TagService
}

// NewTagHandler creates a new TagHandler.
func NewTagHandler(service *services.TagService) *TagHandler {
	return &TagHandler{
		service: service,
	}
}

// RegisterRoutes registers the tag routes.
func (h *TagHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/tags", h.HandleGetTags)
}

// HandleGetTags returns every tag name.
func (h *TagHandler) HandleGetTags(c *fiber.Ctx) error {
	tags, err := h.service.GetAll()
	if err != nil {
		return respondError(c, err, "Could not retrieve tags")
	}
	return c.JSON(fiber.Map{"tags": tags})
}
