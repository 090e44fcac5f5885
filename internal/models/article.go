package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// TagList is an ordered list of tag strings stored as a single
// comma-separated column, mirroring a simple-array mapping. Storing the
// list serialized keeps tag filtering a plain LIKE match on the column.
type TagList []string

// Value serializes the tag list for storage.
func (t TagList) Value() (driver.Value, error) {
	return strings.Join(t, ","), nil
}

// Scan deserializes a comma-joined tag column.
func (t *TagList) Scan(src interface{}) error {
	var raw string
	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	case nil:
		*t = nil
		return nil
	default:
		return fmt.Errorf("cannot scan tag list from %T", src)
	}
	if raw == "" {
		*t = TagList{}
		return nil
	}
	*t = TagList(strings.Split(raw, ","))
	return nil
}

// Article represents a published post.
//
// FavoritesCount is denormalized for cheap listing; the favorites edge
// table is the source of truth and the counter is only ever written in
// the same transaction as an edge mutation.
type Article struct {
	ID             string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Slug           string    `json:"slug" gorm:"uniqueIndex;type:varchar(255)"`
	Title          string    `json:"title" gorm:"type:varchar(255)" validate:"required,min=1,max=255"`
	Description    string    `json:"description" gorm:"type:varchar(500)" validate:"omitempty,max=500"`
	Body           string    `json:"body" gorm:"type:text"`
	TagList        TagList   `json:"tagList" gorm:"type:text"`
	FavoritesCount int       `json:"favoritesCount" gorm:"not null;default:0"`
	AuthorID       string    `json:"-" gorm:"type:varchar(36);index;not null"`
	Author         *User     `json:"-" gorm:"foreignKey:AuthorID"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Favorite is an edge between a user and an article they favorited.
// The (user_id, article_id) pair is unique.
type Favorite struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"userId" gorm:"type:varchar(36);not null;uniqueIndex:idx_favorite_pair"`
	ArticleID string    `json:"articleId" gorm:"type:varchar(36);not null;uniqueIndex:idx_favorite_pair"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName overrides GORM's pluralization for the favorite edge table.
func (Favorite) TableName() string { return "favorites" }
