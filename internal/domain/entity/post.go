package entity

import (
	"time"

	"github.com/google/uuid"
)

// MediaType distinguishes the two kinds of post media.
type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

// MediaRef points at an object in the media bucket.
type MediaRef struct {
	URL          string    `json:"url,omitempty"`
	Key          string    `json:"-"`
	Type         MediaType `json:"type,omitempty"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
}

// IsZero reports whether the reference points at nothing.
func (m MediaRef) IsZero() bool {
	return m.Key == "" && m.URL == ""
}

// Post is a single media item with caption published by an account.
type Post struct {
	ID           uuid.UUID `json:"id"`
	AuthorID     uuid.UUID `json:"authorId"`
	Caption      string    `json:"caption"`
	Media        MediaRef  `json:"media"`
	LikeCount    int64     `json:"likeCount"`
	CommentCount int64     `json:"commentCount"`
	CreatedAt    time.Time `json:"createdAt"`

	// Author is populated by list queries.
	Author *AccountSummary `json:"author,omitempty"`
}

// Comment is text attached to a post.
type Comment struct {
	ID        uuid.UUID       `json:"id"`
	PostID    uuid.UUID       `json:"postId"`
	AuthorID  uuid.UUID       `json:"authorId"`
	Text      string          `json:"text"`
	CreatedAt time.Time       `json:"createdAt"`
	Author    *AccountSummary `json:"author,omitempty"`
}

// AccountSummary is the public, minimal projection of an account used inside
// posts, comments and suggestion lists.
type AccountSummary struct {
	ID             uuid.UUID `json:"id"`
	UserName       string    `json:"userName"`
	ProfilePicture string    `json:"profilePicture,omitempty"`
	Bio            string    `json:"bio,omitempty"`
}

// Profile is an account together with its social graph counters.
type Profile struct {
	Account        *Account `json:"account"`
	FollowerCount  int64    `json:"followerCount"`
	FollowingCount int64    `json:"followingCount"`
	PostCount      int64    `json:"postCount"`
	IsFollowing    bool     `json:"isFollowing"`
}
