package server

import (
	"strings"

	"ovra/internal/models"
	"ovra/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetUsers handles GET /api/users. With ?q= it searches by username or
// display name; without it the caller's connections (friends, following,
// followers) are returned.
func (s *Server) GetUsers(c *fiber.Ctx) error {
	userID := currentUserID(c)

	if q := strings.TrimSpace(c.Query("q")); q != "" {
		users, err := s.userService.SearchUsers(c.Context(), q, userID)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(users)
	}

	users, err := s.connections(c, userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(users)
}

// connections unions friends, following and followers, deduplicated and
// excluding the caller.
func (s *Server) connections(c *fiber.Ctx, userID uint) ([]models.User, error) {
	ctx := c.Context()

	friends, err := s.friendService.GetFriends(ctx, userID)
	if err != nil {
		return nil, err
	}
	following, err := s.followService.GetFollowing(ctx, userID, maxPaginationLimit, 0)
	if err != nil {
		return nil, err
	}
	followers, err := s.followService.GetFollowers(ctx, userID, maxPaginationLimit, 0)
	if err != nil {
		return nil, err
	}

	seen := make(map[uint]bool)
	users := make([]models.User, 0, len(friends)+len(following)+len(followers))
	for _, group := range [][]models.User{friends, following, followers} {
		for _, u := range group {
			if u.ID == userID || seen[u.ID] {
				continue
			}
			seen[u.ID] = true
			users = append(users, u)
		}
	}
	return users, nil
}

// GetUserProfile handles GET /api/users/:id and returns the profile with
// activity stats.
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.GetUserByID(c.Context(), userID)
	if err != nil {
		return fail(c, err)
	}
	stats, err := s.userService.GetUserStats(c.Context(), userID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"user":  user,
		"stats": stats,
	})
}

// UpdateMyProfile handles PUT /api/users/me. Absent fields are left
// untouched; an empty email string clears the email.
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	var req struct {
		DisplayName     *string `json:"displayName"`
		Bio             *string `json:"bio"`
		Location        *string `json:"location"`
		Website         *string `json:"website"`
		ProfileImageURL *string `json:"profileImageUrl"`
		Email           *string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		UserID:          currentUserID(c),
		DisplayName:     req.DisplayName,
		Bio:             req.Bio,
		Location:        req.Location,
		Website:         req.Website,
		ProfileImageURL: req.ProfileImageURL,
		Email:           req.Email,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(user)
}

// GetFollowers handles GET /api/users/:id/followers
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 20)

	users, err := s.followService.GetFollowers(c.Context(), userID, page.Limit, page.Offset)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(users)
}

// GetFollowing handles GET /api/users/:id/following
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 20)

	users, err := s.followService.GetFollowing(c.Context(), userID, page.Limit, page.Offset)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(users)
}

// ToggleFollow handles POST /api/users/:id/follow and reports the
// resulting state.
func (s *Server) ToggleFollow(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	isFollowing, err := s.followService.ToggleFollow(c.Context(), currentUserID(c), targetID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"isFollowing": isFollowing})
}

// GetFollowStatus handles GET /api/users/:id/follow
func (s *Server) GetFollowStatus(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	isFollowing, err := s.followService.IsFollowing(c.Context(), currentUserID(c), targetID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"isFollowing": isFollowing})
}

// GetFriendshipStatus handles GET /api/users/:id/friendship-status
func (s *Server) GetFriendshipStatus(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	status, err := s.friendService.GetFriendshipStatus(c.Context(), currentUserID(c), targetID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": status})
}
