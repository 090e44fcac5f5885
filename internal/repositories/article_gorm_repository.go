package repositories

import (
	"fmt"

	"conduit/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMArticleRepository is a GORM implementation of ArticleRepository.
type GORMArticleRepository struct {
	db *gorm.DB
}

// NewGORMArticleRepository creates a new instance of GORMArticleRepository.
func NewGORMArticleRepository(db *gorm.DB) *GORMArticleRepository {
	return &GORMArticleRepository{
		db: db,
	}
}

// Create creates a new article in the database.
func (r *GORMArticleRepository) Create(article *models.Article) error {
	if article.ID == "" {
		article.ID = uuid.New().String()
	}
	if err := r.db.Create(article).Error; err != nil {
		return fmt.Errorf("failed to create article: %w", err)
	}
	return nil
}

// GetBySlug retrieves an article with its author by slug.
func (r *GORMArticleRepository) GetBySlug(slug string) (*models.Article, error) {
	var article models.Article
	if err := r.db.Preload("Author").First(&article, "slug = ?", slug).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("article with slug %s: %w", slug, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get article by slug %s: %w", slug, err)
	}
	return &article, nil
}

// GetByID retrieves an article with its author by ID.
func (r *GORMArticleRepository) GetByID(id string) (*models.Article, error) {
	var article models.Article
	if err := r.db.Preload("Author").First(&article, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("article with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get article by ID %s: %w", id, err)
	}
	return &article, nil
}

// Update updates an existing article in the database.
func (r *GORMArticleRepository) Update(article *models.Article) error {
	res := r.db.Save(article)
	if res.Error != nil {
		return fmt.Errorf("failed to update article: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("article with ID %s for update: %w", article.ID, ErrNotFound)
	}
	return nil
}

// Delete removes an article together with its comments and favorite
// edges, all in one transaction so nothing dangles.
func (r *GORMArticleRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("article_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("failed to delete comments for article %s: %w", id, err)
		}
		if err := tx.Where("article_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return fmt.Errorf("failed to delete favorites for article %s: %w", id, err)
		}
		res := tx.Delete(&models.Article{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete article: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("article with ID %s for deletion: %w", id, ErrNotFound)
		}
		return nil
	})
}

// List returns one page of articles matching the filter plus the total
// match count before pagination, newest first.
func (r *GORMArticleRepository) List(filter ArticleFilter) ([]models.Article, int64, error) {
	qb := r.db.Model(&models.Article{})

	if filter.Tag != "" {
		// Substring match on the serialized list; "cat" also matches
		// "category". Kept from the original behavior.
		qb = qb.Where("tag_list LIKE ?", "%"+filter.Tag+"%")
	}
	if filter.AuthorID != "" {
		qb = qb.Where("author_id = ?", filter.AuthorID)
	}
	if filter.FavoritedBy != "" {
		qb = qb.Where("id IN (?)", r.db.Model(&models.Favorite{}).
			Select("article_id").
			Where("user_id = ?", filter.FavoritedBy))
	}

	var total int64
	if err := qb.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count articles: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	var articles []models.Article
	if err := qb.Preload("Author").
		Order("created_at DESC").
		Limit(limit).
		Offset(filter.Offset).
		Find(&articles).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list articles: %w", err)
	}
	return articles, total, nil
}

// ListByAuthorIDs returns one page of articles written by any of the
// given authors, newest first, plus the total count.
func (r *GORMArticleRepository) ListByAuthorIDs(authorIDs []string, limit, offset int) ([]models.Article, int64, error) {
	qb := r.db.Model(&models.Article{}).Where("author_id IN ?", authorIDs)

	var total int64
	if err := qb.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count feed articles: %w", err)
	}

	if limit <= 0 {
		limit = 20
	}

	var articles []models.Article
	if err := qb.Preload("Author").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&articles).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list feed articles: %w", err)
	}
	return articles, total, nil
}
