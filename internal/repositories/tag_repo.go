package repositories

import "conduit/internal/models"

// TagRepository defines the interface for the flat tag reference list.
type TagRepository interface {
	GetAll() ([]models.Tag, error)
	Create(tag *models.Tag) error
}
