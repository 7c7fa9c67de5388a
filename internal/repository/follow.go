package repository

import (
	"context"
	"fmt"

	"ovra/internal/cache"
	"ovra/internal/models"

	"gorm.io/gorm"
)

// FollowRepository defines the interface for follow data operations.
type FollowRepository interface {
	ToggleFollow(ctx context.Context, followerID, followingID uint) (bool, error)
	IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error)
	GetFollowers(ctx context.Context, userID uint, limit, offset int) ([]models.User, error)
	GetFollowing(ctx context.Context, userID uint, limit, offset int) ([]models.User, error)
	GetFollowingIDs(ctx context.Context, userID uint) ([]uint, error)
	GetFollowerIDs(ctx context.Context, userID uint) ([]uint, error)
	CountFollowers(ctx context.Context, userID uint) (int64, error)
	CountFollowing(ctx context.Context, userID uint) (int64, error)
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository creates a new follow repository instance.
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

// ToggleFollow flips the follow state and returns the resulting state.
// Self-follows are rejected by the service layer; the ON CONFLICT insert
// keeps the pair unique under concurrent toggles.
func (r *followRepository) ToggleFollow(ctx context.Context, followerID, followingID uint) (bool, error) {
	following, err := r.IsFollowing(ctx, followerID, followingID)
	if err != nil {
		return false, err
	}

	if following {
		if err := r.db.WithContext(ctx).
			Where("follower_id = ? AND following_id = ?", followerID, followingID).
			Delete(&models.Follow{}).Error; err != nil {
			return false, fmt.Errorf("failed to unfollow: %w", err)
		}
		cache.InvalidateUser(ctx, followerID)
		cache.InvalidateUser(ctx, followingID)
		return false, nil
	}

	err = r.db.WithContext(ctx).Exec(
		"INSERT INTO follows (follower_id, following_id, created_at) VALUES (?, ?, NOW()) ON CONFLICT (follower_id, following_id) DO NOTHING",
		followerID, followingID,
	).Error
	if err != nil {
		return false, fmt.Errorf("failed to follow: %w", err)
	}
	cache.InvalidateUser(ctx, followerID)
	cache.InvalidateUser(ctx, followingID)
	return true, nil
}

func (r *followRepository) IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check follow: %w", err)
	}
	return count > 0, nil
}

func (r *followRepository) GetFollowers(ctx context.Context, userID uint, limit, offset int) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Table("users").
		Joins("JOIN follows f ON f.follower_id = users.id").
		Where("f.following_id = ?", userID).
		Order("f.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get followers: %w", err)
	}
	return users, nil
}

func (r *followRepository) GetFollowing(ctx context.Context, userID uint, limit, offset int) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Table("users").
		Joins("JOIN follows f ON f.following_id = users.id").
		Where("f.follower_id = ?", userID).
		Order("f.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get following: %w", err)
	}
	return users, nil
}

// GetFollowingIDs returns the IDs of every user the given user follows.
// Used by the following feed.
func (r *followRepository) GetFollowingIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ?", userID).
		Pluck("following_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get following ids: %w", err)
	}
	return ids, nil
}

// GetFollowerIDs returns the IDs of every follower of the given user.
// Used by notification fan-out.
func (r *followRepository) GetFollowerIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("following_id = ?", userID).
		Pluck("follower_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get follower ids: %w", err)
	}
	return ids, nil
}

func (r *followRepository) CountFollowers(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("following_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count followers: %w", err)
	}
	return count, nil
}

func (r *followRepository) CountFollowing(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count following: %w", err)
	}
	return count, nil
}
