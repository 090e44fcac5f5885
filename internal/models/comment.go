package models

import "time"

// Comment is a strict sub-resource of an article and is removed
// together with it.
type Comment struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Body      string    `json:"body" gorm:"type:text" validate:"required"`
	AuthorID  string    `json:"-" gorm:"type:varchar(36);not null;index"`
	Author    *User     `json:"-" gorm:"foreignKey:AuthorID"`
	ArticleID string    `json:"-" gorm:"type:varchar(36);not null;index"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
