package server

import (
	"ovra/internal/models"
	"ovra/internal/service"

	"github.com/gofiber/fiber/v2"
)

// AdminListUsers handles GET /api/admin/users
func (s *Server) AdminListUsers(c *fiber.Ctx) error {
	page := parsePagination(c, 50)

	users, err := s.userService.ListUsers(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(users)
}

// AdminListPosts handles GET /api/admin/posts
func (s *Server) AdminListPosts(c *fiber.Ctx) error {
	page := parsePagination(c, 50)

	posts, err := s.postService.ListPosts(c.Context(), service.ListPostsInput{
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(posts)
}

// AdminDeletePost handles DELETE /api/admin/posts/:id. The admin check
// happens in the service, same as the owner-or-admin path on the public
// delete route.
func (s *Server) AdminDeletePost(c *fiber.Ctx) error {
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

// AdminUpdateUserRole handles PATCH /api/admin/users/:id/role
func (s *Server) AdminUpdateUserRole(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Role string `json:"role"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.SetRole(c.Context(), userID, models.UserRole(req.Role))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(user)
}
