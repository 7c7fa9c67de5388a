package models

import (
	"time"
)

// Comment represents a comment on a post. Comments are immutable once
// created; authors may only delete them.
type Comment struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	PostID   uint   `gorm:"not null;index" json:"postId"`
	Post     Post   `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	AuthorID uint   `gorm:"not null;index" json:"authorId"`
	Author   User   `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	Content  string `gorm:"type:text;not null" json:"content"`

	CreatedAt time.Time `json:"createdAt"`
}
