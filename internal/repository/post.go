package repository

import (
	"context"
	"errors"
	"fmt"

	"ovra/internal/cache"
	"ovra/internal/models"
	"ovra/internal/observability"

	"gorm.io/gorm"
)

// QuoteFilter narrows an author listing to quote reposts or original posts.
// The filter belongs in the query so pagination composes with it.
type QuoteFilter string

const (
	QuoteFilterAll      QuoteFilter = ""
	QuoteFilterQuotes   QuoteFilter = "quotes"
	QuoteFilterOriginal QuoteFilter = "original"
)

// PostRepository defines the interface for post data operations.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint, viewerID uint) (*models.Post, error)
	List(ctx context.Context, viewerID uint, limit, offset int) ([]models.Post, error)
	GetByTag(ctx context.Context, tag string, viewerID uint, limit, offset int) ([]models.Post, error)
	GetByAuthor(ctx context.Context, authorID uint, viewerID uint, filter QuoteFilter, limit, offset int) ([]models.Post, error)
	GetByAuthors(ctx context.Context, authorIDs []uint, viewerID uint, limit, offset int) ([]models.Post, error)
	Search(ctx context.Context, query string, viewerID uint, limit, offset int) ([]models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
	UpdateSentiment(ctx context.Context, id uint, score, confidence int) error
	TrendingTags(ctx context.Context, limit int) ([]models.TrendingTag, error)
	CountByAuthor(ctx context.Context, authorID uint) (int64, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository instance.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// applyPostDetails decorates a posts query with the computed counters and the
// viewer-specific flags. A viewerID of 0 means anonymous, so the flags are
// constant false instead of per-row subqueries.
func applyPostDetails(query *gorm.DB, viewerID uint) *gorm.DB {
	base := "posts.*, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) as comments_count, " +
		"(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) as likes_count"

	if viewerID == 0 {
		return query.Select(base + ", false as is_liked, false as is_bookmarked")
	}

	return query.Select(
		base+
			", EXISTS(SELECT 1 FROM likes WHERE likes.post_id = posts.id AND likes.user_id = ?) as is_liked"+
			", EXISTS(SELECT 1 FROM bookmarks WHERE bookmarks.post_id = posts.id AND bookmarks.user_id = ?) as is_bookmarked",
		viewerID, viewerID,
	)
}

// resolveQuotedPosts attaches the quoted post, one level deep, to every post
// in the slice with a single batched query. Quotes of deleted posts stay nil.
func (r *postRepository) resolveQuotedPosts(ctx context.Context, posts []models.Post, viewerID uint) error {
	ids := make([]uint, 0, len(posts))
	seen := make(map[uint]bool)
	for i := range posts {
		if posts[i].QuotedPostID == nil {
			continue
		}
		id := *posts[i].QuotedPostID
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	var quoted []models.Post
	query := applyPostDetails(r.db.WithContext(ctx).Model(&models.Post{}), viewerID).
		Preload("Author").
		Where("posts.id IN ?", ids)
	if err := query.Find(&quoted).Error; err != nil {
		return fmt.Errorf("failed to resolve quoted posts: %w", err)
	}

	byID := make(map[uint]*models.Post, len(quoted))
	for i := range quoted {
		byID[quoted[i].ID] = &quoted[i]
	}
	for i := range posts {
		if posts[i].QuotedPostID != nil {
			posts[i].QuotedPost = byID[*posts[i].QuotedPostID]
		}
	}
	return nil
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	ctx, span := observability.TraceRepositoryMethod(ctx, "Create", "posts")
	defer span.End()

	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	cache.InvalidateTrendingTags(ctx)
	cache.InvalidateUser(ctx, post.AuthorID)
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint, viewerID uint) (*models.Post, error) {
	ctx, span := observability.TraceRepositoryMethod(ctx, "GetByID", "posts")
	defer span.End()

	var post models.Post
	query := applyPostDetails(r.db.WithContext(ctx).Model(&models.Post{}), viewerID).
		Preload("Author").
		Where("posts.id = ?", id)
	if err := query.First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	one := []models.Post{post}
	if err := r.resolveQuotedPosts(ctx, one, viewerID); err != nil {
		return nil, err
	}
	return &one[0], nil
}

func (r *postRepository) List(ctx context.Context, viewerID uint, limit, offset int) ([]models.Post, error) {
	ctx, span := observability.TraceRepositoryMethod(ctx, "List", "posts")
	defer span.End()

	return r.findPosts(ctx, viewerID, limit, offset, nil)
}

func (r *postRepository) GetByTag(ctx context.Context, tag string, viewerID uint, limit, offset int) ([]models.Post, error) {
	ctx, span := observability.TraceRepositoryMethod(ctx, "GetByTag", "posts")
	defer span.End()

	return r.findPosts(ctx, viewerID, limit, offset, func(q *gorm.DB) *gorm.DB {
		return q.Where("? = ANY(tags)", tag)
	})
}

func (r *postRepository) GetByAuthor(ctx context.Context, authorID uint, viewerID uint, filter QuoteFilter, limit, offset int) ([]models.Post, error) {
	ctx, span := observability.TraceRepositoryMethod(ctx, "GetByAuthor", "posts")
	defer span.End()

	return r.findPosts(ctx, viewerID, limit, offset, func(q *gorm.DB) *gorm.DB {
		q = q.Where("posts.author_id = ?", authorID)
		switch filter {
		case QuoteFilterQuotes:
			q = q.Where("posts.quoted_post_id IS NOT NULL")
		case QuoteFilterOriginal:
			q = q.Where("posts.quoted_post_id IS NULL")
		}
		return q
	})
}

func (r *postRepository) GetByAuthors(ctx context.Context, authorIDs []uint, viewerID uint, limit, offset int) ([]models.Post, error) {
	ctx, span := observability.TraceRepositoryMethod(ctx, "GetByAuthors", "posts")
	defer span.End()

	if len(authorIDs) == 0 {
		return []models.Post{}, nil
	}
	return r.findPosts(ctx, viewerID, limit, offset, func(q *gorm.DB) *gorm.DB {
		return q.Where("posts.author_id IN ?", authorIDs)
	})
}

func (r *postRepository) Search(ctx context.Context, query string, viewerID uint, limit, offset int) ([]models.Post, error) {
	ctx, span := observability.TraceRepositoryMethod(ctx, "Search", "posts")
	defer span.End()

	pattern := "%" + query + "%"
	return r.findPosts(ctx, viewerID, limit, offset, func(q *gorm.DB) *gorm.DB {
		return q.Where(
			"posts.content ILIKE ? OR EXISTS (SELECT 1 FROM unnest(posts.tags) AS t WHERE t ILIKE ?)",
			pattern, pattern,
		)
	})
}

// findPosts runs the shared list query: details select, author preload,
// optional scope, newest first, then quote resolution.
func (r *postRepository) findPosts(ctx context.Context, viewerID uint, limit, offset int, scope func(*gorm.DB) *gorm.DB) ([]models.Post, error) {
	var posts []models.Post
	query := applyPostDetails(r.db.WithContext(ctx).Model(&models.Post{}), viewerID).
		Preload("Author").
		Order("posts.created_at DESC").
		Limit(limit).
		Offset(offset)
	if scope != nil {
		query = scope(query)
	}
	if err := query.Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	if err := r.resolveQuotedPosts(ctx, posts, viewerID); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	ctx, span := observability.TraceRepositoryMethod(ctx, "Update", "posts")
	defer span.End()

	updates := map[string]interface{}{
		"content":    post.Content,
		"image_url":  post.ImageURL,
		"image_urls": post.ImageURLs,
		"tags":       post.Tags,
	}
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", post.ID).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	cache.InvalidatePost(ctx, post.ID)
	cache.InvalidateTrendingTags(ctx)
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	ctx, span := observability.TraceRepositoryMethod(ctx, "Delete", "posts")
	defer span.End()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// QuotedPost is resolved in application code, so no FK with SET NULL
		// exists; detach quoting posts explicitly before the row goes away.
		if err := tx.Exec("UPDATE posts SET quoted_post_id = NULL WHERE quoted_post_id = ?", id).Error; err != nil {
			return err
		}
		// Notifications outlive the posts they reference.
		if err := tx.Exec("UPDATE notifications SET post_id = NULL WHERE post_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	cache.InvalidatePost(ctx, id)
	cache.InvalidateTrendingTags(ctx)
	return nil
}

func (r *postRepository) UpdateSentiment(ctx context.Context, id uint, score, confidence int) error {
	ctx, span := observability.TraceRepositoryMethod(ctx, "UpdateSentiment", "posts")
	defer span.End()

	updates := map[string]interface{}{
		"sentiment_score":       score,
		"sentiment_confidence":  confidence,
		"sentiment_analyzed_at": gorm.Expr("NOW()"),
	}
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update post sentiment: %w", err)
	}
	cache.InvalidatePost(ctx, id)
	return nil
}

func (r *postRepository) TrendingTags(ctx context.Context, limit int) ([]models.TrendingTag, error) {
	ctx, span := observability.TraceRepositoryMethod(ctx, "TrendingTags", "posts")
	defer span.End()

	var tags []models.TrendingTag
	err := r.db.WithContext(ctx).Raw(
		"SELECT tag, COUNT(*) as count FROM posts, unnest(tags) AS tag GROUP BY tag ORDER BY count DESC, tag ASC LIMIT ?",
		limit,
	).Scan(&tags).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get trending tags: %w", err)
	}
	return tags, nil
}

func (r *postRepository) CountByAuthor(ctx context.Context, authorID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Where("author_id = ?", authorID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return count, nil
}
