package server

import (
	"ovra/internal/models"
	"ovra/internal/repository"
	"ovra/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPosts handles GET /api/posts with optional tag, search and author
// filters. Viewer flags (isLiked, isBookmarked) apply when a valid token
// is attached.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	page := parsePagination(c, 20)

	in := service.ListPostsInput{
		ViewerID: s.optionalUserID(c),
		Limit:    page.Limit,
		Offset:   page.Offset,
		Tag:      c.Query("tag"),
		Search:   c.Query("search"),
	}
	if author := c.QueryInt("author", 0); author > 0 {
		in.AuthorID = uint(author)
	}

	posts, err := s.postService.ListPosts(c.Context(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(posts)
}

// GetFollowingFeed handles GET /api/posts/following.
func (s *Server) GetFollowingFeed(c *fiber.Ctx) error {
	page := parsePagination(c, 20)

	posts, err := s.postService.ListPosts(c.Context(), service.ListPostsInput{
		ViewerID: currentUserID(c),
		Limit:    page.Limit,
		Offset:   page.Offset,
		Feed:     "following",
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(posts)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.Context(), postID, s.optionalUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(post)
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req struct {
		Content      string   `json:"content"`
		ImageURL     string   `json:"imageUrl"`
		ImageURLs    []string `json:"imageUrls"`
		Tags         []string `json:"tags"`
		QuotedPostID *uint    `json:"quotedPostId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.Context(), service.CreatePostInput{
		AuthorID:     currentUserID(c),
		Content:      req.Content,
		ImageURL:     req.ImageURL,
		ImageURLs:    req.ImageURLs,
		Tags:         req.Tags,
		QuotedPostID: req.QuotedPostID,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost handles PUT /api/posts/:id (owner only).
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content   *string  `json:"content"`
		ImageURL  *string  `json:"imageUrl"`
		ImageURLs []string `json:"imageUrls"`
		Tags      []string `json:"tags"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.UpdatePost(c.Context(), service.UpdatePostInput{
		UserID:    currentUserID(c),
		PostID:    postID,
		Content:   req.Content,
		ImageURL:  req.ImageURL,
		ImageURLs: req.ImageURLs,
		Tags:      req.Tags,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id (owner or admin).
func (s *Server) DeletePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.Context(), service.DeletePostInput{
		UserID: currentUserID(c),
		PostID: postID,
	}); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post deleted"})
}

// ToggleLike handles POST /api/posts/:id/like and reports the resulting
// state.
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.ToggleLike(c.Context(), currentUserID(c), postID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"isLiked":    post.IsLiked,
		"likesCount": post.LikesCount,
	})
}

// ToggleBookmark handles POST /api/posts/:id/bookmark.
func (s *Server) ToggleBookmark(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.ToggleBookmark(c.Context(), currentUserID(c), postID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"isBookmarked": post.IsBookmarked})
}

// GetBookmarkedPosts handles GET /api/bookmarks
func (s *Server) GetBookmarkedPosts(c *fiber.Ctx) error {
	page := parsePagination(c, 20)
	posts, err := s.postService.GetBookmarkedPosts(c.Context(), currentUserID(c), page.Limit, page.Offset)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(posts)
}

// GetLikedPosts handles GET /api/liked
func (s *Server) GetLikedPosts(c *fiber.Ctx) error {
	page := parsePagination(c, 20)
	posts, err := s.postService.GetLikedPosts(c.Context(), currentUserID(c), page.Limit, page.Offset)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(posts)
}

// GetUserPosts handles GET /api/users/:id/posts with an optional
// ?filter=quotes|original|all.
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	authorID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 20)

	var filter repository.QuoteFilter
	switch c.Query("filter") {
	case "quotes":
		filter = repository.QuoteFilterQuotes
	case "original":
		filter = repository.QuoteFilterOriginal
	}

	posts, err := s.postService.ListPosts(c.Context(), service.ListPostsInput{
		ViewerID:    currentUserID(c),
		AuthorID:    authorID,
		Limit:       page.Limit,
		Offset:      page.Offset,
		QuoteFilter: filter,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(posts)
}

// GetUserLikedPosts handles GET /api/users/:id/liked. Liked posts are
// private: only the owner may list them.
func (s *Server) GetUserLikedPosts(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if userID != currentUserID(c) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("You can only view your own liked posts"))
	}

	page := parsePagination(c, 20)
	posts, err := s.postService.GetLikedPosts(c.Context(), userID, page.Limit, page.Offset)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(posts)
}

// GetTrendingTags handles GET /api/trending/tags
func (s *Server) GetTrendingTags(c *fiber.Ctx) error {
	tags, err := s.postService.TrendingTags(c.Context(), c.QueryInt("limit", 10))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(tags)
}
