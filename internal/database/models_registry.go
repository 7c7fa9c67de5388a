package database

import "ovra/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.Like{},
		&models.Bookmark{},
		&models.Follow{},
		&models.FriendRequest{},
		&models.Message{},
		&models.Notification{},
		&models.Assessment{},
		&models.AssessmentResult{},
	}
}
