package models

import "gorm.io/gorm"

// Post is a blog entry, optionally linked to a catalog product.
type Post struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Title      string    `json:"title" gorm:"type:varchar(200)" validate:"required,max=200"`
	Slug       string    `json:"slug" gorm:"uniqueIndex;type:varchar(200)" validate:"required,max=200"`
	Body       string    `json:"body" validate:"required"`
	ProductID  string    `json:"product_id,omitempty" gorm:"index;type:varchar(36)" validate:"omitempty,uuid"`
	AuthorID   string    `json:"author_id" gorm:"type:varchar(36)"`
	Comments   []Comment `json:"comments,omitempty" gorm:"foreignKey:PostID"`
	gorm.Model `json:"-"`
}

// Comment is a reader comment on a post. Only authenticated users may
// comment; the author reference is required.
type Comment struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	PostID     string `json:"-" gorm:"index;type:varchar(36)"`
	AuthorID   string `json:"author_id" gorm:"type:varchar(36)"`
	AuthorName string `json:"author_name" gorm:"type:varchar(100)"`
	Body       string `json:"body" validate:"required,max=2000"`
	gorm.Model `json:"-"`
}
