package repositories

import "conduit/internal/models"

// CommentRepository defines the interface for comment data access.
type CommentRepository interface {
	Create(comment *models.Comment) error
	GetByID(id string) (*models.Comment, error)
	Delete(id string) error
	ListByArticleID(articleID string) ([]models.Comment, error)
}
