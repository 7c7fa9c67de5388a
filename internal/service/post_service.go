package service

import (
	"context"
	"strings"

	"ovra/internal/cache"
	"ovra/internal/models"
	"ovra/internal/repository"
)

const (
	maxContentLen      = 5000
	maxTagLen          = 50
	maxTagsPerPost     = 10
	defaultTrendingCap = 10
)

// PostService provides post, feed and engagement business logic.
type PostService struct {
	postRepo       repository.PostRepository
	engagementRepo repository.EngagementRepository
	followRepo     repository.FollowRepository
	isAdmin        func(ctx context.Context, userID uint) (bool, error)

	// notifyNewPost and analyzeSentiment run after a successful create and
	// must never fail the write. Either may be nil.
	notifyNewPost    func(postID, authorID uint, authorName, content string)
	analyzeSentiment func(postID uint, content string)
}

type CreatePostInput struct {
	AuthorID     uint
	Content      string
	ImageURL     string
	ImageURLs    []string
	Tags         []string
	QuotedPostID *uint
}

type ListPostsInput struct {
	ViewerID uint
	Limit    int
	Offset   int
	Tag      string
	AuthorID uint
	Search   string
	// Feed selects "all" (default) or "following".
	Feed string
	// QuoteFilter applies with AuthorID only.
	QuoteFilter repository.QuoteFilter
}

type UpdatePostInput struct {
	UserID    uint
	PostID    uint
	Content   *string
	ImageURL  *string
	ImageURLs []string
	Tags      []string
}

type DeletePostInput struct {
	UserID uint
	PostID uint
}

func NewPostService(
	postRepo repository.PostRepository,
	engagementRepo repository.EngagementRepository,
	followRepo repository.FollowRepository,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *PostService {
	return &PostService{
		postRepo:       postRepo,
		engagementRepo: engagementRepo,
		followRepo:     followRepo,
		isAdmin:        isAdmin,
	}
}

// WithNotifier sets the follower fan-out hook fired after each create.
func (s *PostService) WithNotifier(fn func(postID, authorID uint, authorName, content string)) *PostService {
	s.notifyNewPost = fn
	return s
}

// WithSentiment sets the async sentiment hook fired after each create.
func (s *PostService) WithSentiment(fn func(postID uint, content string)) *PostService {
	s.analyzeSentiment = fn
	return s
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	content := strings.TrimSpace(in.Content)

	if content == "" && in.QuotedPostID == nil {
		return nil, models.NewValidationError("Content is required")
	}
	if len(content) > maxContentLen {
		return nil, models.NewValidationError("Content too long (max 5000 characters)")
	}
	if len(in.ImageURLs) > models.MaxPostImages {
		return nil, models.NewValidationError("Too many images (max 5)")
	}

	tags, err := normalizeTags(in.Tags)
	if err != nil {
		return nil, err
	}

	var author models.User
	if in.QuotedPostID != nil {
		quoted, err := s.postRepo.GetByID(ctx, *in.QuotedPostID, in.AuthorID)
		if err != nil {
			return nil, err
		}
		if quoted == nil {
			return nil, models.NewNotFoundError("Post", *in.QuotedPostID)
		}
	}

	post := &models.Post{
		AuthorID:     in.AuthorID,
		Content:      content,
		ImageURL:     strings.TrimSpace(in.ImageURL),
		ImageURLs:    models.StringArray(in.ImageURLs),
		Tags:         tags,
		QuotedPostID: in.QuotedPostID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	created, err := s.postRepo.GetByID(ctx, post.ID, in.AuthorID)
	if err != nil {
		return nil, err
	}
	if created != nil {
		author = created.Author
	}

	if s.notifyNewPost != nil {
		s.notifyNewPost(post.ID, in.AuthorID, author.Username, content)
	}
	if s.analyzeSentiment != nil && content != "" {
		s.analyzeSentiment(post.ID, content)
	}

	return created, nil
}

// ListPosts composes the feed. Filters apply in precedence order: search,
// then tag, then author, then the selected feed.
func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) ([]models.Post, error) {
	switch {
	case in.Search != "":
		return s.postRepo.Search(ctx, in.Search, in.ViewerID, in.Limit, in.Offset)
	case in.Tag != "":
		return s.postRepo.GetByTag(ctx, strings.ToLower(in.Tag), in.ViewerID, in.Limit, in.Offset)
	case in.AuthorID != 0:
		return s.postRepo.GetByAuthor(ctx, in.AuthorID, in.ViewerID, in.QuoteFilter, in.Limit, in.Offset)
	case in.Feed == "following":
		if in.ViewerID == 0 {
			return nil, models.NewUnauthorizedError("Authentication required for the following feed")
		}
		followingIDs, err := s.followRepo.GetFollowingIDs(ctx, in.ViewerID)
		if err != nil {
			return nil, err
		}
		return s.postRepo.GetByAuthors(ctx, followingIDs, in.ViewerID, in.Limit, in.Offset)
	default:
		return s.postRepo.List(ctx, in.ViewerID, in.Limit, in.Offset)
	}
}

func (s *PostService) GetPost(ctx context.Context, id uint, viewerID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id, viewerID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, models.NewNotFoundError("Post", id)
	}
	return post, nil
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.GetPost(ctx, in.PostID, in.UserID)
	if err != nil {
		return nil, err
	}

	if post.AuthorID != in.UserID {
		return nil, models.NewForbiddenError("You can only update your own posts")
	}

	if in.Content != nil {
		content := strings.TrimSpace(*in.Content)
		if content == "" && post.QuotedPostID == nil {
			return nil, models.NewValidationError("Content is required")
		}
		if len(content) > maxContentLen {
			return nil, models.NewValidationError("Content too long (max 5000 characters)")
		}
		post.Content = content
	}
	if in.ImageURL != nil {
		post.ImageURL = strings.TrimSpace(*in.ImageURL)
	}
	if in.ImageURLs != nil {
		if len(in.ImageURLs) > models.MaxPostImages {
			return nil, models.NewValidationError("Too many images (max 5)")
		}
		post.ImageURLs = models.StringArray(in.ImageURLs)
	}
	if in.Tags != nil {
		tags, err := normalizeTags(in.Tags)
		if err != nil {
			return nil, err
		}
		post.Tags = tags
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.GetPost(ctx, in.PostID, in.UserID)
}

func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.GetPost(ctx, in.PostID, in.UserID)
	if err != nil {
		return err
	}

	if post.AuthorID != in.UserID {
		if s.isAdmin == nil {
			return models.NewForbiddenError("You can only delete your own posts")
		}
		admin, err := s.isAdmin(ctx, in.UserID)
		if err != nil {
			return err
		}
		if !admin {
			return models.NewForbiddenError("You can only delete your own posts")
		}
	}

	return s.postRepo.Delete(ctx, in.PostID)
}

// ToggleLike flips the viewer's like and returns the refreshed post.
func (s *PostService) ToggleLike(ctx context.Context, userID, postID uint) (*models.Post, error) {
	if _, err := s.GetPost(ctx, postID, userID); err != nil {
		return nil, err
	}
	if _, err := s.engagementRepo.ToggleLike(ctx, userID, postID); err != nil {
		return nil, err
	}
	return s.GetPost(ctx, postID, userID)
}

// ToggleBookmark flips the viewer's bookmark and returns the refreshed post.
func (s *PostService) ToggleBookmark(ctx context.Context, userID, postID uint) (*models.Post, error) {
	if _, err := s.GetPost(ctx, postID, userID); err != nil {
		return nil, err
	}
	if _, err := s.engagementRepo.ToggleBookmark(ctx, userID, postID); err != nil {
		return nil, err
	}
	return s.GetPost(ctx, postID, userID)
}

func (s *PostService) GetLikedPosts(ctx context.Context, userID uint, limit, offset int) ([]models.Post, error) {
	return s.engagementRepo.GetLikedPosts(ctx, userID, limit, offset)
}

func (s *PostService) GetBookmarkedPosts(ctx context.Context, userID uint, limit, offset int) ([]models.Post, error) {
	return s.engagementRepo.GetBookmarkedPosts(ctx, userID, limit, offset)
}

// TrendingTags returns the most used tags, cached briefly.
func (s *PostService) TrendingTags(ctx context.Context, limit int) ([]models.TrendingTag, error) {
	if limit <= 0 || limit > 50 {
		limit = defaultTrendingCap
	}

	var tags []models.TrendingTag
	err := cache.Aside(ctx, cache.TrendingTagsKey, &tags, cache.TrendingTagsTTL, func() error {
		var fetchErr error
		tags, fetchErr = s.postRepo.TrendingTags(ctx, limit)
		return fetchErr
	})
	if err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []models.TrendingTag{}
	}
	return tags, nil
}

// normalizeTags lowercases, trims and dedupes tags, preserving first-seen order.
func normalizeTags(raw []string) (models.StringArray, error) {
	if len(raw) > maxTagsPerPost {
		return nil, models.NewValidationError("Too many tags (max 10)")
	}
	seen := make(map[string]bool, len(raw))
	tags := make(models.StringArray, 0, len(raw))
	for _, t := range raw {
		tag := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(t, "#")))
		if tag == "" || seen[tag] {
			continue
		}
		if len(tag) > maxTagLen {
			return nil, models.NewValidationError("Tag too long (max 50 characters)")
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags, nil
}
