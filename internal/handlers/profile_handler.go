package handlers

import (
	"conduit/internal/middleware"
	"conduit/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ProfileHandler handles HTTP requests for profiles and follows.
type ProfileHandler struct {
	service *services.ProfileService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(service *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		service: service,
	}
}

// RegisterRoutes registers the profile routes.
func (h *ProfileHandler) RegisterRoutes(router fiber.Router, required, optional fiber.Handler) {
	profileRoutes := router.Group("/profiles")
	profileRoutes.Get("/:username", optional, h.HandleGetProfile)
	profileRoutes.Post("/:username/follow", required, h.HandleFollow)
	profileRoutes.Delete("/:username/follow", required, h.HandleUnfollow)
}

// HandleGetProfile returns a profile annotated relative to the viewer,
// if any.
func (h *ProfileHandler) HandleGetProfile(c *fiber.Ctx) error {
	username := c.Params("username")
	profile, err := h.service.GetProfile(username, middleware.CurrentUser(c))
	if err != nil {
		return respondError(c, err, "Could not retrieve profile")
	}
	return c.JSON(fiber.Map{"profile": profile})
}

// HandleFollow adds a follow edge to the target user.
func (h *ProfileHandler) HandleFollow(c *fiber.Ctx) error {
	username := c.Params("username")
	profile, err := h.service.Follow(middleware.CurrentUser(c), username)
	if err != nil {
		return respondError(c, err, "Could not follow user")
	}
	return c.JSON(fiber.Map{"profile": profile})
}

// HandleUnfollow removes the follow edge to the target user.
func (h *ProfileHandler) HandleUnfollow(c *fiber.Ctx) error {
	username := c.Params("username")
	profile, err := h.service.Unfollow(middleware.CurrentUser(c), username)
	if err != nil {
		return respondError(c, err, "Could not unfollow user")
	}
	return c.JSON(fiber.Map{"profile": profile})
}
