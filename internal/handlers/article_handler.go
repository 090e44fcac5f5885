package handlers

import (
	"fmt"
	"log"

	"conduit/internal/middleware"
	"conduit/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ArticleHandler handles HTTP requests for articles, favorites and
// comments.
type ArticleHandler struct {
	service  *services.ArticleService
	validate *validator.Validate
}

// NewArticleHandler creates a new ArticleHandler.
func NewArticleHandler(service *services.ArticleService) *ArticleHandler {
	return &ArticleHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the article routes. "/feed" precedes
// "/:slug" so the literal segment wins.
func (h *ArticleHandler) RegisterRoutes(router fiber.Router, required, optional fiber.Handler) {
	articleRoutes := router.Group("/articles")
	articleRoutes.Get("/", optional, h.HandleList)
	articleRoutes.Get("/feed", required, h.HandleFeed)
	articleRoutes.Post("/", required, h.HandleCreate)
	articleRoutes.Get("/:slug", optional, h.HandleGet)
	articleRoutes.Put("/:slug", required, h.HandleUpdate)
	articleRoutes.Delete("/:slug", required, h.HandleDelete)
	articleRoutes.Post("/:slug/favorite", required, h.HandleFavorite)
	articleRoutes.Delete("/:slug/favorite", required, h.HandleUnfavorite)
	articleRoutes.Get("/:slug/comments", optional, h.HandleGetComments)
	articleRoutes.Post("/:slug/comments", required, h.HandleAddComment)
	articleRoutes.Delete("/:slug/comments/:id", required, h.HandleDeleteComment)
}

// HandleList returns one page of articles matching the query filters.
func (h *ArticleHandler) HandleList(c *fiber.Ctx) error {
	query := services.ListArticlesQuery{
		Tag:       c.Query("tag"),
		Author:    c.Query("author"),
		Favorited: c.Query("favorited"),
		Limit:     c.QueryInt("limit", 20),
		Offset:    c.QueryInt("offset", 0),
	}

	articles, total, err := h.service.List(query, middleware.CurrentUser(c))
	if err != nil {
		return respondError(c, err, "Could not retrieve articles")
	}
	return c.JSON(fiber.Map{
		"articles":      articles,
		"articlesCount": total,
	})
}

// HandleFeed returns articles authored by users the viewer follows.
func (h *ArticleHandler) HandleFeed(c *fiber.Ctx) error {
	articles, total, err := h.service.Feed(
		middleware.CurrentUser(c),
		c.QueryInt("limit", 20),
		c.QueryInt("offset", 0),
	)
	if err != nil {
		return respondError(c, err, "Could not retrieve feed")
	}
	return c.JSON(fiber.Map{
		"articles":      articles,
		"articlesCount": total,
	})
}

// HandleGet returns a single article by slug.
func (h *ArticleHandler) HandleGet(c *fiber.Ctx) error {
	article, err := h.service.GetBySlug(c.Params("slug"), middleware.CurrentUser(c))
	if err != nil {
		return respondError(c, err, "Could not retrieve article")
	}
	return c.JSON(fiber.Map{"article": article})
}

// CreateArticleRequest is the envelope for POST /articles.
type CreateArticleRequest struct {
	Article struct {
		Title       string   `json:"title" validate:"required,min=1,max=255"`
		Description string   `json:"description" validate:"omitempty,max=500"`
		Body        string   `json:"body" validate:"required"`
		TagList     []string `json:"tagList" validate:"omitempty,dive,min=1,max=100"`
	} `json:"article"`
}

// HandleCreate creates a new article owned by the caller.
func (h *ArticleHandler) HandleCreate(c *fiber.Ctx) error {
	var req CreateArticleRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing article create request body: %v", err)
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

	article, err := h.service.Create(middleware.CurrentUser(c), services.CreateArticleInput{
		Title:       req.Article.Title,
		Description: req.Article.Description,
		Body:        req.Article.Body,
		TagList:     req.Article.TagList,
	})
	if err != nil {
		return respondError(c, err, "Could not create article")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"article": article})
}

// UpdateArticleRequest is the envelope for PUT /articles/:slug. All
// fields optional; absent fields are left untouched.
type UpdateArticleRequest struct {
	Article struct {
		Title       *string  `json:"title" validate:"omitempty,min=1,max=255"`
		Description *string  `json:"description" validate:"omitempty,max=500"`
		Body        *string  `json:"body"`
		TagList     []string `json:"tagList" validate:"omitempty,dive,min=1,max=100"`
	} `json:"article"`
}

// HandleUpdate applies a partial update to an owned article.
func (h *ArticleHandler) HandleUpdate(c *fiber.Ctx) error {
	var req UpdateArticleRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing article update request body: %v", err)
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

	article, err := h.service.Update(middleware.CurrentUser(c), c.Params("slug"), services.UpdateArticleInput{
		Title:       req.Article.Title,
		Description: req.Article.Description,
		Body:        req.Article.Body,
		TagList:     req.Article.TagList,
	})
	if err != nil {
		return respondError(c, err, "Could not update article")
	}
	return c.JSON(fiber.Map{"article": article})
}

// HandleDelete removes an owned article and returns its last snapshot.
func (h *ArticleHandler) HandleDelete(c *fiber.Ctx) error {
	article, err := h.service.Delete(middleware.CurrentUser(c), c.Params("slug"))
	if err != nil {
		return respondError(c, err, "Could not delete article")
	}
	return c.JSON(fiber.Map{"article": article})
}

// HandleFavorite marks the article as favorited by the caller.
func (h *ArticleHandler) HandleFavorite(c *fiber.Ctx) error {
	article, err := h.service.Favorite(middleware.CurrentUser(c), c.Params("slug"))
	if err != nil {
		return respondError(c, err, "Could not favorite article")
	}
	return c.JSON(fiber.Map{"article": article})
}

// HandleUnfavorite removes the caller's favorite from the article.
func (h *ArticleHandler) HandleUnfavorite(c *fiber.Ctx) error {
	article, err := h.service.Unfavorite(middleware.CurrentUser(c), c.Params("slug"))
	if err != nil {
		return respondError(c, err, "Could not unfavorite article")
	}
	return c.JSON(fiber.Map{"article": article})
}

// AddCommentRequest is the envelope for POST /articles/:slug/comments.
type AddCommentRequest struct {
	Comment struct {
		Body string `json:"body" validate:"required"`
	} `json:"comment"`
}

// HandleAddComment creates a comment under the article.
func (h *ArticleHandler) HandleAddComment(c *fiber.Ctx) error {
	var req AddCommentRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing comment request body: %v", err)
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

	comment, err := h.service.AddComment(middleware.CurrentUser(c), c.Params("slug"), req.Comment.Body)
	if err != nil {
		return respondError(c, err, "Could not add comment")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"comment": comment})
}

// HandleGetComments lists the article's comments.
func (h *ArticleHandler) HandleGetComments(c *fiber.Ctx) error {
	comments, err := h.service.GetComments(c.Params("slug"), middleware.CurrentUser(c))
	if err != nil {
		return respondError(c, err, "Could not retrieve comments")
	}
	return c.JSON(fiber.Map{"comments": comments})
}

// HandleDeleteComment removes an owned comment and returns the updated
// article.
func (h *ArticleHandler) HandleDeleteComment(c *fiber.Ctx) error {
	article, err := h.service.DeleteComment(middleware.CurrentUser(c), c.Params("slug"), c.Params("id"))
	if err != nil {
		return respondError(c, err, "Could not delete comment")
	}
	return c.JSON(fiber.Map{"article": article})
}
