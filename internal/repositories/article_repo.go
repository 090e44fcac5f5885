package repositories

import "conduit/internal/models"

// ArticleFilter narrows an article listing. AuthorID and FavoritedBy
// are resolved user ids, not usernames; callers that fail to resolve a
// username substitute an impossible id so the page comes back empty.
type ArticleFilter struct {
	Tag         string
	AuthorID    string
	FavoritedBy string
	Limit       int
	Offset      int
}

// ArticleRepository defines the interface for article data access.
// List and ListByAuthorIDs return the page plus the total count before
// pagination, ordered by creation time descending.
type ArticleRepository interface {
	Create(article *models.Article) error
	GetBySlug(slug string) (*models.Article, error)
	GetByID(id string) (*models.Article, error)
	Update(article *models.Article) error
	Delete(id string) error
	List(filter ArticleFilter) ([]models.Article, int64, error)
	ListByAuthorIDs(authorIDs []string, limit, offset int) ([]models.Article, int64, error)
}
