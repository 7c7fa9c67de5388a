package models

import (
	"time"
)

// NotificationTypeNewPost is emitted to followers when someone they follow
// publishes a post.
const NotificationTypeNewPost = "new_post"

// Notification is an in-app notification for a user. PostID is nullable so
// notifications survive deletion of the post they reference.
type Notification struct {
	ID       uint  `gorm:"primaryKey" json:"id"`
	UserID   uint  `gorm:"not null;index" json:"userId"`
	User     User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	PostID   *uint `gorm:"index;constraint:OnDelete:SET NULL" json:"postId,omitempty"`
	Post     *Post `gorm:"foreignKey:PostID" json:"post,omitempty"`
	AuthorID uint  `gorm:"not null" json:"authorId"`
	Author   User  `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`

	Type    string `gorm:"type:varchar(30);not null" json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
	IsRead  bool   `gorm:"default:false;index" json:"isRead"`

	CreatedAt time.Time `json:"createdAt"`
}
