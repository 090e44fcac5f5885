package handlers

import (
	"fmt"
	"log"

	"conduit/internal/middleware"
	"conduit/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// UserHandler handles HTTP requests for the current user's identity.
type UserHandler struct {
	authService    *services.AuthService
	profileService *services.ProfileService
	validate       *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(authService *services.AuthService, profileService *services.ProfileService) *UserHandler {
	return &UserHandler{
		authService:    authService,
		profileService: profileService,
		validate:       validator.New(),
	}
}

// RegisterRoutes registers the current-user routes. Both require auth.
func (h *UserHandler) RegisterRoutes(router fiber.Router, required fiber.Handler) {
	userRoutes := router.Group("/user")
	userRoutes.Get("/", required, h.HandleGetCurrentUser)
	userRoutes.Put("/", required, h.HandleUpdateCurrentUser)
}

// HandleGetCurrentUser returns the authenticated identity with a fresh token.
func (h *UserHandler) HandleGetCurrentUser(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	token, err := h.authService.IssueToken(user)
	if err != nil {
		log.Printf("Error issuing token for user %s: %v", user.Username, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not issue token",
		})
	}

	return c.JSON(fiber.Map{
		"user": user.ToAuthUser(token),
	})
}

// UpdateUserRequest is the envelope for PUT /user. All fields optional.
type UpdateUserRequest struct {
	User struct {
		Email *string `json:"email" validate:"omitempty,email"`
		Bio   *string `json:"bio"`
		Image *string `json:"image" validate:"omitempty,max=500"`
	} `json:"user"`
}

// HandleUpdateCurrentUser applies a partial identity update and
// returns the refreshed identity with a fresh token.
func (h *UserHandler) HandleUpdateCurrentUser(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing user update request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}

	updated, err := h.profileService.UpdateUser(user, services.UpdateUserInput{
		Email: req.User.Email,
		Bio:   req.User.Bio,
		Image: req.User.Image,
	})
	if err != nil {
		return respondError(c, err, "Could not update user")
	}

	token, err := h.authService.IssueToken(updated)
	if err != nil {
		log.Printf("Error issuing token for user %s: %v", updated.Username, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not issue token",
		})
	}

	return c.JSON(fiber.Map{
		"user": updated.ToAuthUser(token),
	})
}
