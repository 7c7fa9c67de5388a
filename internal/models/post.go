package models

import (
	"time"
)

// MaxPostImages is the most image URLs a single post may carry.
const MaxPostImages = 5

// Post represents a post in the Ovra application.
//
// A post with a non-nil QuotedPostID is a quote repost. The quoted post is
// resolved at read time (one level deep) and is not stored as a snapshot, so
// edits to the original are always reflected.
type Post struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	AuthorID  uint        `gorm:"not null;index" json:"authorId"`
	Author    User        `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	Content   string      `gorm:"type:text" json:"content"`
	ImageURL  string      `json:"imageUrl,omitempty"`
	ImageURLs StringArray `gorm:"type:text[]" json:"imageUrls"`
	Tags      StringArray `gorm:"type:text[]" json:"tags"`

	QuotedPostID *uint `gorm:"index;constraint:OnDelete:SET NULL" json:"quotedPostId,omitempty"`
	// QuotedPost is resolved one level deep at query time, never persisted.
	QuotedPost *Post `gorm:"-" json:"quotedPost,omitempty"`

	// Sentiment fields stay nil until background analysis completes.
	SentimentScore      *int       `json:"sentimentScore,omitempty"`
	SentimentConfidence *int       `json:"sentimentConfidence,omitempty"`
	SentimentAnalyzedAt *time.Time `json:"sentimentAnalyzedAt,omitempty"`

	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->" json:"likesCount"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int `gorm:"->" json:"commentsCount"`
	// IsLiked indicates whether the current requesting user liked this post (computed)
	IsLiked bool `gorm:"->" json:"isLiked"`
	// IsBookmarked indicates whether the current requesting user bookmarked this post (computed)
	IsBookmarked bool `gorm:"->" json:"isBookmarked"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TrendingTag is a tag with its usage count across all posts.
type TrendingTag struct {
	Tag   string `json:"tag"`
	Count int64  `json:"count"`
}
