package models

// Tag is an entry in the flat tag reference list exposed by GET /tags.
// It is not reconciled against Article.TagList by the system.
type Tag struct {
	ID   string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name string `json:"name" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=1,max=100"`
}
