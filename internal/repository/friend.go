package repository

import (
	"context"
	"errors"

	"ovra/internal/models"

	"gorm.io/gorm"
)

// FriendRepository defines the interface for friend request data operations.
type FriendRepository interface {
	Create(ctx context.Context, request *models.FriendRequest) error
	GetByID(ctx context.Context, id uint) (*models.FriendRequest, error)
	GetBetweenUsers(ctx context.Context, userID1, userID2 uint) (*models.FriendRequest, error)
	GetFriends(ctx context.Context, userID uint) ([]models.User, error)
	GetPendingReceived(ctx context.Context, userID uint) ([]models.FriendRequest, error)
	GetPendingSent(ctx context.Context, userID uint) ([]models.FriendRequest, error)
	UpdateStatus(ctx context.Context, requestID uint, status models.FriendRequestStatus) error
	RemoveFriendship(ctx context.Context, userID1, userID2 uint) error
	CountFriends(ctx context.Context, userID uint) (int64, error)
}

type friendRepository struct {
	db *gorm.DB
}

// NewFriendRepository creates a new friend repository instance.
func NewFriendRepository(db *gorm.DB) FriendRepository {
	return &friendRepository{db: db}
}

func (r *friendRepository) Create(ctx context.Context, request *models.FriendRequest) error {
	if err := r.db.WithContext(ctx).Create(request).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("A friend request already exists between these users")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *friendRepository) GetByID(ctx context.Context, id uint) (*models.FriendRequest, error) {
	var request models.FriendRequest
	if err := r.db.WithContext(ctx).Preload("Requester").Preload("Target").First(&request, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Friend request", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &request, nil
}

// GetBetweenUsers finds the request row for the pair in either direction.
// Returns (nil, nil) when no row exists.
func (r *friendRepository) GetBetweenUsers(ctx context.Context, userID1, userID2 uint) (*models.FriendRequest, error) {
	var request models.FriendRequest
	if err := r.db.WithContext(ctx).
		Where("(requester_id = ? AND target_id = ?) OR (requester_id = ? AND target_id = ?)",
			userID1, userID2, userID2, userID1).
		Preload("Requester").
		Preload("Target").
		First(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &request, nil
}

func (r *friendRepository) GetFriends(ctx context.Context, userID uint) ([]models.User, error) {
	var users []models.User

	// Accepted requests in either direction; pick the other user of each pair.
	if err := r.db.WithContext(ctx).
		Table("users").
		Joins("JOIN friend_requests fr ON (users.id = fr.requester_id OR users.id = fr.target_id)").
		Where("fr.status = ? AND (fr.requester_id = ? OR fr.target_id = ?) AND users.id != ?",
			models.FriendRequestStatusAccepted, userID, userID, userID).
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	return users, nil
}

func (r *friendRepository) GetPendingReceived(ctx context.Context, userID uint) ([]models.FriendRequest, error) {
	var requests []models.FriendRequest
	if err := r.db.WithContext(ctx).
		Where("target_id = ? AND status = ?", userID, models.FriendRequestStatusPending).
		Preload("Requester").
		Preload("Target").
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return requests, nil
}

func (r *friendRepository) GetPendingSent(ctx context.Context, userID uint) ([]models.FriendRequest, error) {
	var requests []models.FriendRequest
	if err := r.db.WithContext(ctx).
		Where("requester_id = ? AND status = ?", userID, models.FriendRequestStatusPending).
		Preload("Requester").
		Preload("Target").
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return requests, nil
}

func (r *friendRepository) UpdateStatus(ctx context.Context, requestID uint, status models.FriendRequestStatus) error {
	if err := r.db.WithContext(ctx).
		Model(&models.FriendRequest{}).
		Where("id = ?", requestID).
		Update("status", status).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *friendRepository) RemoveFriendship(ctx context.Context, userID1, userID2 uint) error {
	if err := r.db.WithContext(ctx).
		Where("(requester_id = ? AND target_id = ?) OR (requester_id = ? AND target_id = ?)",
			userID1, userID2, userID2, userID1).
		Delete(&models.FriendRequest{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *friendRepository) CountFriends(ctx context.Context, userID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.FriendRequest{}).
		Where("status = ? AND (requester_id = ? OR target_id = ?)",
			models.FriendRequestStatusAccepted, userID, userID).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
