package repository

import (
	"context"
	"fmt"

	"ovra/internal/cache"
	"ovra/internal/models"

	"gorm.io/gorm"
)

// EngagementRepository covers likes and bookmarks.
type EngagementRepository interface {
	ToggleLike(ctx context.Context, userID, postID uint) (bool, error)
	ToggleBookmark(ctx context.Context, userID, postID uint) (bool, error)
	IsLiked(ctx context.Context, userID, postID uint) (bool, error)
	IsBookmarked(ctx context.Context, userID, postID uint) (bool, error)
	GetLikedPosts(ctx context.Context, userID uint, limit, offset int) ([]models.Post, error)
	GetBookmarkedPosts(ctx context.Context, userID uint, limit, offset int) ([]models.Post, error)
	CountLikes(ctx context.Context, postID uint) (int64, error)
}

type engagementRepository struct {
	db *gorm.DB
}

// NewEngagementRepository creates a new engagement repository instance.
func NewEngagementRepository(db *gorm.DB) EngagementRepository {
	return &engagementRepository{db: db}
}

// ToggleLike flips the like state and returns the resulting state. The insert
// uses ON CONFLICT DO NOTHING so concurrent toggles never produce duplicates.
func (r *engagementRepository) ToggleLike(ctx context.Context, userID, postID uint) (bool, error) {
	liked, err := r.IsLiked(ctx, userID, postID)
	if err != nil {
		return false, err
	}

	if liked {
		if err := r.db.WithContext(ctx).
			Where("user_id = ? AND post_id = ?", userID, postID).
			Delete(&models.Like{}).Error; err != nil {
			return false, fmt.Errorf("failed to unlike post: %w", err)
		}
		cache.InvalidatePost(ctx, postID)
		return false, nil
	}

	err = r.db.WithContext(ctx).Exec(
		"INSERT INTO likes (user_id, post_id, created_at) VALUES (?, ?, NOW()) ON CONFLICT (user_id, post_id) DO NOTHING",
		userID, postID,
	).Error
	if err != nil {
		return false, fmt.Errorf("failed to like post: %w", err)
	}
	cache.InvalidatePost(ctx, postID)
	return true, nil
}

// ToggleBookmark flips the bookmark state and returns the resulting state.
func (r *engagementRepository) ToggleBookmark(ctx context.Context, userID, postID uint) (bool, error) {
	bookmarked, err := r.IsBookmarked(ctx, userID, postID)
	if err != nil {
		return false, err
	}

	if bookmarked {
		if err := r.db.WithContext(ctx).
			Where("user_id = ? AND post_id = ?", userID, postID).
			Delete(&models.Bookmark{}).Error; err != nil {
			return false, fmt.Errorf("failed to remove bookmark: %w", err)
		}
		return false, nil
	}

	err = r.db.WithContext(ctx).Exec(
		"INSERT INTO bookmarks (user_id, post_id, created_at) VALUES (?, ?, NOW()) ON CONFLICT (user_id, post_id) DO NOTHING",
		userID, postID,
	).Error
	if err != nil {
		return false, fmt.Errorf("failed to bookmark post: %w", err)
	}
	return true, nil
}

func (r *engagementRepository) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check like: %w", err)
	}
	return count > 0, nil
}

func (r *engagementRepository) IsBookmarked(ctx context.Context, userID, postID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Bookmark{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check bookmark: %w", err)
	}
	return count > 0, nil
}

// GetLikedPosts returns the posts the user liked, newest like first.
func (r *engagementRepository) GetLikedPosts(ctx context.Context, userID uint, limit, offset int) ([]models.Post, error) {
	return r.getEngagedPosts(ctx, "likes", userID, limit, offset)
}

// GetBookmarkedPosts returns the posts the user bookmarked, newest bookmark first.
func (r *engagementRepository) GetBookmarkedPosts(ctx context.Context, userID uint, limit, offset int) ([]models.Post, error) {
	return r.getEngagedPosts(ctx, "bookmarks", userID, limit, offset)
}

func (r *engagementRepository) getEngagedPosts(ctx context.Context, table string, userID uint, limit, offset int) ([]models.Post, error) {
	var posts []models.Post
	query := applyPostDetails(r.db.WithContext(ctx).Model(&models.Post{}), userID).
		Joins(fmt.Sprintf("JOIN %s e ON e.post_id = posts.id", table)).
		Where("e.user_id = ?", userID).
		Preload("Author").
		Order("e.created_at DESC").
		Limit(limit).
		Offset(offset)
	if err := query.Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to get %s posts: %w", table, err)
	}

	repo := &postRepository{db: r.db}
	if err := repo.resolveQuotedPosts(ctx, posts, userID); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *engagementRepository) CountLikes(ctx context.Context, postID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count likes: %w", err)
	}
	return count, nil
}
