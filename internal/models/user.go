// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// UserRole determines what administrative actions a user may perform.
type UserRole string

const (
	// UserRoleUser is the default role for registered users.
	UserRoleUser UserRole = "user"
	// UserRoleAdmin grants access to admin endpoints and moderation.
	UserRoleAdmin UserRole = "admin"
)

// User represents a user account in the Ovra application.
type User struct {
	ID              uint     `gorm:"primaryKey" json:"id"`
	Username        string   `gorm:"unique;not null" json:"username"`
	Email           *string  `gorm:"unique" json:"email,omitempty"`
	Password        string   `gorm:"not null" json:"-"`
	DisplayName     string   `json:"displayName"`
	Bio             string   `json:"bio"`
	Location        string   `json:"location"`
	Website         string   `json:"website"`
	ProfileImageURL string   `json:"profileImageUrl"`
	Role            UserRole `gorm:"type:varchar(20);default:'user'" json:"role"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Posts []Post `gorm:"foreignKey:AuthorID" json:"posts,omitempty"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// UserStats aggregates a user's activity counters for profile responses.
type UserStats struct {
	PostsCount     int64 `json:"postsCount"`
	FollowersCount int64 `json:"followersCount"`
	FollowingCount int64 `json:"followingCount"`
	FriendsCount   int64 `json:"friendsCount"`
}
