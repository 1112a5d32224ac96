package model

import (
	"time"

	"github.com/google/uuid"
)

// PostModel mirrors the 'posts' table.
type PostModel struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AuthorID          uuid.UUID `gorm:"type:uuid;not null;index"`
	Caption           string    `gorm:"type:varchar(2200);not null;default:''"`
	MediaURL          string    `gorm:"type:text;not null"`
	MediaKey          string    `gorm:"type:text;not null"`
	MediaType         string    `gorm:"type:varchar(10);not null"`
	MediaThumbnailURL string    `gorm:"type:text;not null;default:''"`
	CreatedAt         time.Time `gorm:"index"`

	Author *AccountModel `gorm:"foreignKey:AuthorID"`
}

// TableName explicitly sets the table name for GORM.
func (PostModel) TableName() string {
	return "posts"
}

// PostLikeModel mirrors the 'post_likes' join table.
type PostLikeModel struct {
	PostID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	AccountID uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (PostLikeModel) TableName() string {
	return "post_likes"
}

// SavedPostModel mirrors the 'saved_posts' join table.
type SavedPostModel struct {
	AccountID uuid.UUID `gorm:"type:uuid;primaryKey"`
	PostID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (SavedPostModel) TableName() string {
	return "saved_posts"
}

// CommentModel mirrors the 'comments' table.
type CommentModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PostID    uuid.UUID `gorm:"type:uuid;not null;index"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null"`
	Text      string    `gorm:"type:varchar(2200);not null"`
	CreatedAt time.Time

	Author *AccountModel `gorm:"foreignKey:AuthorID"`
}

// TableName explicitly sets the table name for GORM.
func (CommentModel) TableName() string {
	return "comments"
}
