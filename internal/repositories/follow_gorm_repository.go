package repositories

import (
	"fmt"

	"conduit/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMFollowRepository is a GORM implementation of FollowRepository.
type GORMFollowRepository struct {
	db *gorm.DB
}

// NewGORMFollowRepository creates a new instance of GORMFollowRepository.
func NewGORMFollowRepository(db *gorm.DB) *GORMFollowRepository {
	return &GORMFollowRepository{
		db: db,
	}
}

// Follow inserts the edge unless it already exists.
func (r *GORMFollowRepository) Follow(followerID, followeeID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Follow{}).
			Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
			Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check follow edge: %w", err)
		}
		if count > 0 {
			return nil
		}
		edge := models.Follow{
			ID:         uuid.New().String(),
			FollowerID: followerID,
			FolloweeID: followeeID,
		}
		if err := tx.Create(&edge).Error; err != nil {
			return fmt.Errorf("failed to create follow edge: %w", err)
		}
		return nil
	})
}

// Unfollow removes the edge; removing an absent edge is a no-op.
func (r *GORMFollowRepository) Unfollow(followerID, followeeID string) error {
	res := r.db.
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete follow edge: %w", res.Error)
	}
	return nil
}

// IsFollowing reports whether the edge exists.
func (r *GORMFollowRepository) IsFollowing(followerID, followeeID string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check follow edge: %w", err)
	}
	return count > 0, nil
}

// FolloweeIDs returns the ids of every user the follower follows.
func (r *GORMFollowRepository) FolloweeIDs(followerID string) ([]string, error) {
	var ids []string
	if err := r.db.Model(&models.Follow{}).
		Where("follower_id = ?", followerID).
		Pluck("followee_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list followees: %w", err)
	}
	return ids, nil
}
