package repositories

import (
	"fmt"

	"conduit/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMFavoriteRepository is a GORM implementation of FavoriteRepository.
// Every mutation touches the edge table and articles.favorites_count in
// the same transaction; the edge table is the source of truth and the
// counter is only a projection of it.
type GORMFavoriteRepository struct {
	db *gorm.DB
}

// NewGORMFavoriteRepository creates a new instance of GORMFavoriteRepository.
func NewGORMFavoriteRepository(db *gorm.DB) *GORMFavoriteRepository {
	return &GORMFavoriteRepository{
		db: db,
	}
}

// Add inserts the edge and increments the article counter. Returns
// false without touching anything when the edge already exists.
func (r *GORMFavoriteRepository) Add(userID, articleID string) (bool, error) {
	added := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Favorite{}).
			Where("user_id = ? AND article_id = ?", userID, articleID).
			Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check favorite edge: %w", err)
		}
		if count > 0 {
			return nil
		}
		edge := models.Favorite{
			ID:        uuid.New().String(),
			UserID:    userID,
			ArticleID: articleID,
		}
		if err := tx.Create(&edge).Error; err != nil {
			return fmt.Errorf("failed to create favorite edge: %w", err)
		}
		if err := tx.Model(&models.Article{}).
			Where("id = ?", articleID).
			UpdateColumn("favorites_count", gorm.Expr("favorites_count + 1")).Error; err != nil {
			return fmt.Errorf("failed to increment favorites count: %w", err)
		}
		added = true
		return nil
	})
	return added, err
}

// Remove deletes the edge and decrements the article counter. Returns
// false without touching anything when the edge does not exist, so the
// counter can never go below zero.
func (r *GORMFavoriteRepository) Remove(userID, articleID string) (bool, error) {
	removed := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND article_id = ?", userID, articleID).
			Delete(&models.Favorite{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete favorite edge: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil
		}
		if err := tx.Model(&models.Article{}).
			Where("id = ? AND favorites_count > 0", articleID).
			UpdateColumn("favorites_count", gorm.Expr("favorites_count - 1")).Error; err != nil {
			return fmt.Errorf("failed to decrement favorites count: %w", err)
		}
		removed = true
		return nil
	})
	return removed, err
}

// IsFavorited reports whether the edge exists.
func (r *GORMFavoriteRepository) IsFavorited(userID, articleID string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Favorite{}).
		Where("user_id = ? AND article_id = ?", userID, articleID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check favorite edge: %w", err)
	}
	return count > 0, nil
}

// ArticleIDsForUser returns the ids of every article the user favorited.
func (r *GORMFavoriteRepository) ArticleIDsForUser(userID string) ([]string, error) {
	var ids []string
	if err := r.db.Model(&models.Favorite{}).
		Where("user_id = ?", userID).
		Pluck("article_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list favorited articles: %w", err)
	}
	return ids, nil
}
