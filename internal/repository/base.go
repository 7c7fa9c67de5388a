// Package repository provides data access layer implementations for the application.
package repository

import (
	"strings"

	"gorm.io/gorm"
)

// Repositories bundles every repository for dependency wiring.
type Repositories struct {
	Users         UserRepository
	Posts         PostRepository
	Engagements   EngagementRepository
	Comments      CommentRepository
	Follows       FollowRepository
	Friends       FriendRepository
	Messages      MessageRepository
	Notifications NotificationRepository
	Assessments   AssessmentRepository
}

// New constructs all repositories on top of the given Gorm DB.
func New(db *gorm.DB) *Repositories {
	return &Repositories{
		Users:         NewUserRepository(db),
		Posts:         NewPostRepository(db),
		Engagements:   NewEngagementRepository(db),
		Comments:      NewCommentRepository(db),
		Follows:       NewFollowRepository(db),
		Friends:       NewFriendRepository(db),
		Messages:      NewMessageRepository(db),
		Notifications: NewNotificationRepository(db),
		Assessments:   NewAssessmentRepository(db),
	}
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	// PostgreSQL unique violation SQLSTATE 23505
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}
